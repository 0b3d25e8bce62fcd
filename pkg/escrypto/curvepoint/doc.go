// Package curvepoint owns the P-256 (secp256r1) domain parameters and the
// "public point from private scalar" contract.
//
// The package performs affine double-and-add over math/big. It exists so that
// a public key can be derived from a bare scalar without going through a
// provider key-generation primitive; it is not a general-purpose elliptic
// curve library and deliberately exposes only generator multiplication and
// the operations needed to support it.
//
// WARNING: math/big arithmetic is not constant-time. The multiplication here
// is used for format conversion of already-known key material, not for
// operations on attacker-controlled secrets under timing observation.
package curvepoint

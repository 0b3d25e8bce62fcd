// Package provider defines the boundary to the external cryptographic
// provider that performs all primitive operations: key import/export and
// generation, ECDSA sign/verify, ECDH key agreement, AES-GCM encryption,
// SHA-256 digests, and secure random generation.
//
// The key material types in pkg/escrypto never touch primitive crypto
// directly; they hand byte buffers to a Provider and hold the opaque Key
// handles it returns. The default implementation, Software, is backed by the
// Go runtime crypto (crypto/ecdsa, crypto/ecdh, crypto/aes, crypto/x509).
// Applications can substitute a hardware- or host-backed provider by
// implementing the Provider interface.
//
// # Handles
//
// A Key handle carries the algorithm identity, extractability, and allowed
// usages it was imported with. The same byte material imported under the
// ECDH and ECDSA identities yields two distinct handles referencing the same
// mathematical key; this mirrors how the key material aggregates keep their
// two role handles in lockstep.
package provider

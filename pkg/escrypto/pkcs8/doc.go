// Package pkcs8 implements the fixed-structure DER layouts for P-256 key
// containers: the 138-byte PKCS#8 private key blob and the 91-byte SPKI
// public key blob.
//
// Because the curve is fixed, every DER header in these containers has a
// fixed length, so the codec works with byte-offset templates instead of a
// general ASN.1 encoder. Parsing checks only the buffer length; deeper
// structural validation (algorithm OID, inner structure) is left to the
// cryptographic provider's own import path, which rejects non-EC containers.
package pkcs8

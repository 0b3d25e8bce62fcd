package provider

import (
	"context"
	"errors"
)

// Algorithm names recognized by a Provider.
const (
	AlgECDH   = "ECDH"
	AlgECDSA  = "ECDSA"
	AlgAESGCM = "AES-GCM"
	AlgSHA256 = "SHA-256"
)

// CurveP256 is the only named curve supported by this library.
const CurveP256 = "P-256"

// Algorithm describes a provider algorithm, mirroring the descriptor objects
// of host crypto APIs. Only the fields relevant to the named algorithm are
// set.
type Algorithm struct {
	Name       string
	NamedCurve string // ECDH, ECDSA
	Hash       string // ECDSA sign/verify
	Length     int    // AES-GCM key length in bits
}

// ECDH returns the key-agreement algorithm descriptor for P-256.
func ECDH() Algorithm {
	return Algorithm{Name: AlgECDH, NamedCurve: CurveP256}
}

// ECDSA returns the signing algorithm descriptor for P-256 with SHA-256.
func ECDSA() Algorithm {
	return Algorithm{Name: AlgECDSA, NamedCurve: CurveP256, Hash: AlgSHA256}
}

// AESGCM returns the symmetric encryption descriptor for AES-256-GCM.
func AESGCM() Algorithm {
	return Algorithm{Name: AlgAESGCM, Length: 256}
}

// KeyFormat identifies a provider import/export wire format.
type KeyFormat int

const (
	// FormatPKCS8 is the DER private key container.
	FormatPKCS8 KeyFormat = iota
	// FormatSPKI is the DER public key container.
	FormatSPKI
	// FormatRaw is the uncompressed EC point encoding (public keys only).
	FormatRaw
	// FormatJWK is the JSON Web Key encoding as JSON bytes.
	FormatJWK
)

// String returns the canonical lower-case format name.
func (f KeyFormat) String() string {
	switch f {
	case FormatPKCS8:
		return "pkcs8"
	case FormatSPKI:
		return "spki"
	case FormatRaw:
		return "raw"
	case FormatJWK:
		return "jwk"
	default:
		return "unknown"
	}
}

// Usage is a capability granted to a key handle at import time.
type Usage string

const (
	UsageSign      Usage = "sign"
	UsageVerify    Usage = "verify"
	UsageDeriveKey Usage = "deriveKey"
	UsageEncrypt   Usage = "encrypt"
	UsageDecrypt   Usage = "decrypt"
)

// KeyType classifies a handle.
type KeyType string

const (
	TypePrivate KeyType = "private"
	TypePublic  KeyType = "public"
	TypeSecret  KeyType = "secret"
)

// Provider-boundary sentinel errors.
var (
	// ErrKeyData indicates the provider rejected key bytes as structurally
	// invalid for the requested algorithm.
	ErrKeyData = errors.New("provider: invalid key data")

	// ErrUnsupported indicates an algorithm or format the provider cannot
	// serve on this host.
	ErrUnsupported = errors.New("provider: unsupported algorithm or format")

	// ErrNotExtractable indicates an export attempt on a non-extractable
	// handle.
	ErrNotExtractable = errors.New("provider: key is not extractable")

	// ErrUsage indicates an operation not covered by the handle's usages.
	ErrUsage = errors.New("provider: operation not permitted by key usages")
)

// KeyPairHandles is the result of GenerateKey for asymmetric algorithms.
type KeyPairHandles struct {
	Private *Key
	Public  *Key
}

// DeriveParams carries the ECDH derivation inputs: the peer's public handle.
type DeriveParams struct {
	Public *Key
}

// GCMParams carries the AES-GCM initialization vector.
type GCMParams struct {
	IV []byte
}

// Provider is the external cryptographic provider boundary. Implementations
// must treat every method as a suspension point: calls may block on host
// crypto and must honor context cancellation where the host allows it.
type Provider interface {
	// ImportKey parses key bytes in the given format under the given
	// algorithm identity and returns an opaque handle. For FormatJWK the
	// data is the JSON encoding of the key.
	ImportKey(ctx context.Context, format KeyFormat, data []byte, alg Algorithm, extractable bool, usages []Usage) (*Key, error)

	// ExportKey serializes a handle in the given format. Fails with
	// ErrNotExtractable for handles imported with extractable=false.
	ExportKey(ctx context.Context, format KeyFormat, key *Key) ([]byte, error)

	// GenerateKey creates a fresh keypair for an asymmetric algorithm.
	GenerateKey(ctx context.Context, alg Algorithm, extractable bool, usages []Usage) (*KeyPairHandles, error)

	// Sign signs data (hashing it per the descriptor) with a private handle.
	Sign(ctx context.Context, alg Algorithm, key *Key, data []byte) ([]byte, error)

	// Verify checks a signature with a public handle.
	Verify(ctx context.Context, alg Algorithm, key *Key, signature, data []byte) (bool, error)

	// DeriveKey performs ECDH between the base private handle and
	// params.Public and returns a symmetric handle for derivedAlg.
	DeriveKey(ctx context.Context, params DeriveParams, base *Key, derivedAlg Algorithm, extractable bool, usages []Usage) (*Key, error)

	// Encrypt encrypts plaintext with a symmetric handle.
	Encrypt(ctx context.Context, params GCMParams, key *Key, plaintext []byte) ([]byte, error)

	// Decrypt decrypts ciphertext with a symmetric handle.
	Decrypt(ctx context.Context, params GCMParams, key *Key, ciphertext []byte) ([]byte, error)

	// Digest hashes data with the named digest algorithm.
	Digest(ctx context.Context, alg Algorithm, data []byte) ([]byte, error)

	// GetRandomValues fills buf with cryptographically secure random bytes.
	GetRandomValues(buf []byte) error
}

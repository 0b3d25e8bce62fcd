package escrypto

import (
	"context"
	"encoding/asn1"
	"fmt"
	"math/big"

	"github.com/Lyavon/es6-crypto/pkg/escrypto/provider"
)

// IVSize is the AES-GCM initialization vector length used by Encrypt when no
// IV is supplied.
const IVSize = 16

// SignatureSize is the byte width of a raw ECDSA signature: the 32-byte R
// followed by the 32-byte S.
const SignatureSize = 64

// KeyHandles is the capability surface the crypto operations require. It is
// satisfied by PrivateKey, PublicKey and KeyPair; which operations actually
// succeed depends on the usages carried by the underlying handles.
type KeyHandles interface {
	Provider() provider.Provider
	ECDHHandle() *provider.Key
	ECDSAHandle() *provider.Key
}

// Sign signs data with the key's ECDSA handle and returns the raw 64-byte
// R||S signature over the SHA-256 digest of data.
func Sign(ctx context.Context, key KeyHandles, data []byte) ([]byte, error) {
	sig, err := key.Provider().Sign(ctx, provider.ECDSA(), key.ECDSAHandle(), data)
	if err != nil {
		return nil, providerError("Sign", err)
	}
	return sig, nil
}

// Verify checks a raw 64-byte R||S signature with the key's ECDSA handle.
// A well-formed but non-matching signature yields (false, nil), not an error.
func Verify(ctx context.Context, key KeyHandles, data, sig []byte) (bool, error) {
	ok, err := key.Provider().Verify(ctx, provider.ECDSA(), key.ECDSAHandle(), sig, data)
	if err != nil {
		return false, providerError("Verify", err)
	}
	return ok, nil
}

// ecdsaSignature is the ASN.1 SEQUENCE { r INTEGER, s INTEGER } form used by
// DER signature consumers such as TLS and OpenSSL.
type ecdsaSignature struct {
	R, S *big.Int
}

// SignDER signs data and returns the signature in ASN.1 DER encoding.
func SignDER(ctx context.Context, key KeyHandles, data []byte) ([]byte, error) {
	raw, err := Sign(ctx, key, data)
	if err != nil {
		return nil, err
	}
	der, err := asn1.Marshal(ecdsaSignature{
		R: new(big.Int).SetBytes(raw[:SignatureSize/2]),
		S: new(big.Int).SetBytes(raw[SignatureSize/2:]),
	})
	if err != nil {
		return nil, &Error{Op: "SignDER", Err: err}
	}
	return der, nil
}

// VerifyDER checks an ASN.1 DER encoded signature. Malformed DER yields
// (false, nil), matching the raw path's treatment of malformed signatures.
func VerifyDER(ctx context.Context, key KeyHandles, data, der []byte) (bool, error) {
	var sig ecdsaSignature
	rest, err := asn1.Unmarshal(der, &sig)
	if err != nil || len(rest) != 0 {
		return false, nil
	}
	if sig.R.Sign() <= 0 || sig.S.Sign() <= 0 || sig.R.BitLen() > 256 || sig.S.BitLen() > 256 {
		return false, nil
	}
	raw := make([]byte, SignatureSize)
	sig.R.FillBytes(raw[:SignatureSize/2])
	sig.S.FillBytes(raw[SignatureSize/2:])
	return Verify(ctx, key, data, raw)
}

// Envelope is the result of Encrypt: the initialization vector alongside the
// AES-GCM ciphertext (which includes the authentication tag).
type Envelope struct {
	IV            []byte
	EncryptedData []byte
}

// deriveSharedKey runs ECDH between a private and a public handle and wraps
// the shared secret in an AES-256-GCM handle with the given usages.
func deriveSharedKey(ctx context.Context, op string, priv, pub KeyHandles, usages []provider.Usage) (*provider.Key, error) {
	key, err := priv.Provider().DeriveKey(ctx,
		provider.DeriveParams{Public: pub.ECDHHandle()},
		priv.ECDHHandle(),
		provider.AESGCM(), false, usages)
	if err != nil {
		return nil, providerError(op, err)
	}
	return key, nil
}

// Encrypt derives a shared AES-256-GCM key from our private handle and the
// peer's public handle and encrypts data under it. A nil iv requests a fresh
// random 16-byte vector; an explicit iv must be exactly 16 bytes. The peer
// decrypts with the mirrored arguments: their private key and our public key.
func Encrypt(ctx context.Context, own, peer KeyHandles, data, iv []byte) (*Envelope, error) {
	const op = "Encrypt"
	if iv == nil {
		iv = make([]byte, IVSize)
		if err := own.Provider().GetRandomValues(iv); err != nil {
			return nil, providerError(op, err)
		}
	} else if len(iv) != IVSize {
		return nil, &Error{Op: op, Err: fmt.Errorf("iv must be %d bytes, got %d", IVSize, len(iv))}
	}

	shared, err := deriveSharedKey(ctx, op, own, peer, []provider.Usage{provider.UsageEncrypt})
	if err != nil {
		return nil, err
	}
	ciphertext, err := own.Provider().Encrypt(ctx, provider.GCMParams{IV: iv}, shared, data)
	if err != nil {
		return nil, providerError(op, err)
	}
	return &Envelope{IV: iv, EncryptedData: ciphertext}, nil
}

// Decrypt derives the same shared key from our private handle and the peer's
// public handle and opens the envelope. Authentication failure surfaces as a
// wrapped provider error; there is no silent truncation path.
func Decrypt(ctx context.Context, own, peer KeyHandles, env *Envelope) ([]byte, error) {
	const op = "Decrypt"
	if env == nil {
		return nil, &Error{Op: op, Err: fmt.Errorf("nil envelope")}
	}
	if len(env.IV) != IVSize {
		return nil, &Error{Op: op, Err: fmt.Errorf("iv must be %d bytes, got %d", IVSize, len(env.IV))}
	}

	shared, err := deriveSharedKey(ctx, op, own, peer, []provider.Usage{provider.UsageDecrypt})
	if err != nil {
		return nil, err
	}
	plaintext, err := own.Provider().Decrypt(ctx, provider.GCMParams{IV: env.IV}, shared, env.EncryptedData)
	if err != nil {
		return nil, providerError(op, err)
	}
	return plaintext, nil
}

package escrypto

import (
	"context"
	"fmt"

	"github.com/Lyavon/es6-crypto/pkg/escrypto/bytecodec"
	"github.com/Lyavon/es6-crypto/pkg/escrypto/pkcs8"
	"github.com/Lyavon/es6-crypto/pkg/escrypto/provider"
)

// KeyPair couples a PrivateKey with its corresponding PublicKey. The public
// half always equals the private scalar times the generator; import paths
// whose source bytes embed the public coordinates lift them directly instead
// of recomputing the point.
type KeyPair struct {
	priv *PrivateKey
	pub  *PublicKey
}

// Private returns the private half.
func (kp *KeyPair) Private() *PrivateKey {
	return kp.priv
}

// Public returns the public half.
func (kp *KeyPair) Public() *PublicKey {
	return kp.pub
}

// Provider returns the provider that owns the handles.
func (kp *KeyPair) Provider() provider.Provider {
	return kp.priv.Provider()
}

// ECDHHandle returns the private half's key-agreement handle, letting a
// KeyPair stand in wherever a private capability is required.
func (kp *KeyPair) ECDHHandle() *provider.Key {
	return kp.priv.ECDHHandle()
}

// ECDSAHandle returns the private half's signing handle.
func (kp *KeyPair) ECDSAHandle() *provider.Key {
	return kp.priv.ECDSAHandle()
}

// NewKeyPair derives the public half from an existing private key.
func NewKeyPair(ctx context.Context, priv *PrivateKey) (*KeyPair, error) {
	pub, err := PublicKeyFromPrivateKey(ctx, priv)
	if err != nil {
		return nil, err
	}
	return &KeyPair{priv: priv, pub: pub}, nil
}

// KeyPairFromPKCS8 imports both halves from one PKCS#8 blob. The public
// coordinates are lifted straight out of the container into the 65-byte raw
// form; no scalar multiplication takes place.
func KeyPairFromPKCS8(ctx context.Context, p provider.Provider, der []byte) (*KeyPair, error) {
	const op = "KeyPairFromPKCS8"
	_, x, y, err := pkcs8.ParsePrivateKey(der)
	if err != nil {
		return nil, importError(op, err)
	}
	rawPub, err := pkcs8.BuildRawPublicKey(x, y)
	if err != nil {
		return nil, importError(op, err)
	}

	priv, err := PrivateKeyFromPKCS8(ctx, p, der)
	if err != nil {
		return nil, err
	}
	pub, err := PublicKeyFromRaw(ctx, p, rawPub)
	if err != nil {
		return nil, err
	}
	return &KeyPair{priv: priv, pub: pub}, nil
}

// KeyPairFromRaw imports both halves from the 97-byte combined raw form;
// the leading 65 bytes already are the public point.
func KeyPairFromRaw(ctx context.Context, p provider.Provider, raw []byte) (*KeyPair, error) {
	const op = "KeyPairFromRaw"
	if len(raw) != pkcs8.RawPrivateKeySize {
		return nil, importError(op, fmt.Errorf("raw keypair must be %d bytes, got %d", pkcs8.RawPrivateKeySize, len(raw)))
	}
	priv, err := PrivateKeyFromRaw(ctx, p, raw)
	if err != nil {
		return nil, err
	}
	pub, err := PublicKeyFromRaw(ctx, p, raw[:pkcs8.RawPublicKeySize])
	if err != nil {
		return nil, err
	}
	return &KeyPair{priv: priv, pub: pub}, nil
}

// KeyPairFromJWK imports both halves from one private JWK; the public half
// reuses the embedded coordinates with the scalar stripped.
func KeyPairFromJWK(ctx context.Context, p provider.Provider, jwkJSON []byte) (*KeyPair, error) {
	priv, err := PrivateKeyFromJWK(ctx, p, jwkJSON)
	if err != nil {
		return nil, err
	}
	pub, err := PublicKeyFromJWK(ctx, p, jwkJSON)
	if err != nil {
		return nil, err
	}
	return &KeyPair{priv: priv, pub: pub}, nil
}

// KeyPairFromD derives the public point from the scalar in software, then
// imports both halves from the rebuilt container.
func KeyPairFromD(ctx context.Context, p provider.Provider, d []byte) (*KeyPair, error) {
	priv, err := PrivateKeyFromD(ctx, p, d)
	if err != nil {
		return nil, err
	}
	return liftPublicHalf(ctx, p, priv)
}

// KeyPairFromSeed runs the deterministic seed derivation and lifts the
// public half from the resulting container.
func KeyPairFromSeed(ctx context.Context, p provider.Provider, params SeedParams) (*KeyPair, error) {
	priv, err := PrivateKeyFromSeed(ctx, p, params)
	if err != nil {
		return nil, err
	}
	return liftPublicHalf(ctx, p, priv)
}

// KeyPairFromRandom generates a fresh keypair through the provider.
func KeyPairFromRandom(ctx context.Context, p provider.Provider) (*KeyPair, error) {
	const op = "KeyPairFromRandom"
	pair, err := p.GenerateKey(ctx, provider.ECDH(), true, []provider.Usage{provider.UsageDeriveKey})
	if err != nil {
		return nil, remapProviderError(op, err)
	}
	jwkJSON, err := p.ExportKey(ctx, provider.FormatJWK, pair.Private)
	if err != nil {
		return nil, remapProviderError(op, err)
	}
	return KeyPairFromJWK(ctx, p, jwkJSON)
}

// liftPublicHalf builds the public half from the private half's exported
// container, avoiding a second scalar multiplication.
func liftPublicHalf(ctx context.Context, p provider.Provider, priv *PrivateKey) (*KeyPair, error) {
	der, err := priv.PKCS8(ctx)
	if err != nil {
		return nil, err
	}
	_, x, y, err := pkcs8.ParsePrivateKey(der)
	if err != nil {
		return nil, &Error{Op: "KeyPair", Err: err}
	}
	rawPub, err := pkcs8.BuildRawPublicKey(x, y)
	if err != nil {
		return nil, &Error{Op: "KeyPair", Err: err}
	}
	pub, err := PublicKeyFromRaw(ctx, p, rawPub)
	if err != nil {
		return nil, err
	}
	return &KeyPair{priv: priv, pub: pub}, nil
}

// ImportKeyPair is the generic entry point over the closed Format set.
// Text formats carry the PKCS#8 container; FormatRandom ignores data.
func ImportKeyPair(ctx context.Context, p provider.Provider, f Format, data []byte) (*KeyPair, error) {
	const op = "ImportKeyPair"
	switch f {
	case FormatBase64:
		der, err := bytecodec.DecodeBase64(string(data))
		if err != nil {
			return nil, importError(op, err)
		}
		return KeyPairFromPKCS8(ctx, p, der)
	case FormatHex:
		der, err := bytecodec.DecodeHex(string(data))
		if err != nil {
			return nil, importError(op, err)
		}
		return KeyPairFromPKCS8(ctx, p, der)
	case FormatPKCS8:
		return KeyPairFromPKCS8(ctx, p, data)
	case FormatJWK:
		return KeyPairFromJWK(ctx, p, data)
	case FormatRaw:
		return KeyPairFromRaw(ctx, p, data)
	case FormatD:
		return KeyPairFromD(ctx, p, data)
	case FormatSeed:
		return KeyPairFromSeed(ctx, p, SeedParams{Seed: data})
	case FormatRandom:
		return KeyPairFromRandom(ctx, p)
	default:
		return nil, unknownFormatError(op, f)
	}
}

// PKCS8 delegates to the private half; the public half is always
// recoverable from it.
func (kp *KeyPair) PKCS8(ctx context.Context) ([]byte, error) {
	return kp.priv.PKCS8(ctx)
}

// Raw delegates to the private half's 97-byte combined form.
func (kp *KeyPair) Raw(ctx context.Context) ([]byte, error) {
	return kp.priv.Raw(ctx)
}

// D delegates to the private half.
func (kp *KeyPair) D(ctx context.Context) ([]byte, error) {
	return kp.priv.D(ctx)
}

// JWK delegates to the private half.
func (kp *KeyPair) JWK(ctx context.Context) ([]byte, error) {
	return kp.priv.JWK(ctx)
}

// Hex delegates to the private half.
func (kp *KeyPair) Hex(ctx context.Context) (string, error) {
	return kp.priv.Hex(ctx)
}

// Base64 delegates to the private half.
func (kp *KeyPair) Base64(ctx context.Context) (string, error) {
	return kp.priv.Base64(ctx)
}

// Export delegates to the private half.
func (kp *KeyPair) Export(ctx context.Context, f Format) ([]byte, error) {
	return kp.priv.Export(ctx, f)
}

// Equal reports whether both pairs hold identical private key material.
func (kp *KeyPair) Equal(ctx context.Context, other *KeyPair) (bool, error) {
	if other == nil {
		return false, nil
	}
	return kp.priv.Equal(ctx, other.priv)
}

package escrypto

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rakutentech/jwk-go/jwk"
	"golang.org/x/sync/errgroup"

	"github.com/Lyavon/es6-crypto/pkg/escrypto/bytecodec"
	"github.com/Lyavon/es6-crypto/pkg/escrypto/curvepoint"
	"github.com/Lyavon/es6-crypto/pkg/escrypto/pkcs8"
	"github.com/Lyavon/es6-crypto/pkg/escrypto/provider"
)

// JWK "use" values assigned to the role-specific copies of an imported key.
const (
	useEncryption = "enc"
	useSignature  = "sig"
)

// PrivateKey is the private half of a P-256 keypair. It owns two provider
// handles derived from the same scalar: one under the ECDH identity (usage
// deriveKey) and one under the ECDSA identity (usage sign). Instances are
// immutable; every constructor either returns a fully built value with both
// handles or an error.
type PrivateKey struct {
	p           provider.Provider
	ecdhHandle  *provider.Key
	ecdsaHandle *provider.Key
}

// Provider returns the provider that owns the handles.
func (k *PrivateKey) Provider() provider.Provider {
	return k.p
}

// ECDHHandle returns the key-agreement role handle.
func (k *PrivateKey) ECDHHandle() *provider.Key {
	return k.ecdhHandle
}

// ECDSAHandle returns the signing role handle.
func (k *PrivateKey) ECDSAHandle() *provider.Key {
	return k.ecdsaHandle
}

// newPrivateKey imports the per-role buffers under both algorithm
// identities. The two imports have no ordering dependency and run
// concurrently; the first failure short-circuits and no partially
// constructed value escapes.
func newPrivateKey(ctx context.Context, p provider.Provider, op string, format provider.KeyFormat, ecdhData, ecdsaData []byte) (*PrivateKey, error) {
	var ecdhKey, ecdsaKey *provider.Key

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		key, err := p.ImportKey(gctx, format, ecdhData, provider.ECDH(), true, []provider.Usage{provider.UsageDeriveKey})
		if err != nil {
			return err
		}
		ecdhKey = key
		return nil
	})
	g.Go(func() error {
		key, err := p.ImportKey(gctx, format, ecdsaData, provider.ECDSA(), true, []provider.Usage{provider.UsageSign})
		if err != nil {
			return err
		}
		ecdsaKey = key
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, remapProviderError(op, err)
	}

	return &PrivateKey{p: p, ecdhHandle: ecdhKey, ecdsaHandle: ecdsaKey}, nil
}

// PrivateKeyFromPKCS8 imports a 138-byte PKCS#8 blob under both roles.
func PrivateKeyFromPKCS8(ctx context.Context, p provider.Provider, der []byte) (*PrivateKey, error) {
	return newPrivateKey(ctx, p, "PrivateKeyFromPKCS8", provider.FormatPKCS8, der, der)
}

// PrivateKeyFromRaw imports the 97-byte combined raw form: a 65-byte
// uncompressed public point followed by the 32-byte scalar D. The embedded
// coordinates are lifted directly into the rebuilt PKCS#8 container.
func PrivateKeyFromRaw(ctx context.Context, p provider.Provider, raw []byte) (*PrivateKey, error) {
	const op = "PrivateKeyFromRaw"
	if len(raw) != pkcs8.RawPrivateKeySize {
		return nil, importError(op, fmt.Errorf("raw private key must be %d bytes, got %d", pkcs8.RawPrivateKeySize, len(raw)))
	}
	x, y, err := pkcs8.ParseRawPublicKey(raw[:pkcs8.RawPublicKeySize])
	if err != nil {
		return nil, importError(op, err)
	}
	d := raw[pkcs8.RawPublicKeySize:]
	der, err := pkcs8.BuildPrivateKey(d, x, y)
	if err != nil {
		return nil, importError(op, err)
	}
	return newPrivateKey(ctx, p, op, provider.FormatPKCS8, der, der)
}

// PrivateKeyFromJWK imports a JSON Web Key. Two independent copies of the
// JWK are built, one per role, with the role-appropriate use value, so the
// concurrent imports never share a mutable encoding object.
func PrivateKeyFromJWK(ctx context.Context, p provider.Provider, jwkJSON []byte) (*PrivateKey, error) {
	const op = "PrivateKeyFromJWK"
	ecdhData, err := roleJWK(jwkJSON, useEncryption, false)
	if err != nil {
		return nil, importError(op, err)
	}
	ecdsaData, err := roleJWK(jwkJSON, useSignature, false)
	if err != nil {
		return nil, importError(op, err)
	}
	return newPrivateKey(ctx, p, op, provider.FormatJWK, ecdhData, ecdsaData)
}

// roleJWK re-encodes a JWK with the given use value. With stripPrivate set
// the private scalar is removed, turning a private JWK into its public
// counterpart.
func roleJWK(jwkJSON []byte, use string, stripPrivate bool) ([]byte, error) {
	var j jwk.JWK
	if err := json.Unmarshal(jwkJSON, &j); err != nil {
		return nil, fmt.Errorf("parse jwk: %w", err)
	}
	j.Use = use
	if stripPrivate {
		j.D = nil
	}
	return json.Marshal(&j)
}

// PrivateKeyFromD derives the public point D*G in software and imports the
// rebuilt PKCS#8 container. The scalar must be exactly 32 bytes; a shorter
// big-integer encoding must be re-padded by the caller, since the container
// builder never pads silently.
func PrivateKeyFromD(ctx context.Context, p provider.Provider, d []byte) (*PrivateKey, error) {
	const op = "PrivateKeyFromD"
	if len(d) != pkcs8.FieldSize {
		return nil, importError(op, fmt.Errorf("scalar must be %d bytes, got %d", pkcs8.FieldSize, len(d)))
	}
	point, err := curvepoint.MulGenerator(d)
	if err != nil {
		return nil, importError(op, err)
	}
	der, err := pkcs8.BuildPrivateKey(d, point.XBytes(), point.YBytes())
	if err != nil {
		return nil, importError(op, err)
	}
	return newPrivateKey(ctx, p, op, provider.FormatPKCS8, der, der)
}

// SeedParams configures deterministic seed derivation.
type SeedParams struct {
	// Seed is the input material. Any length is accepted; a non-32-byte
	// seed fails its first attempt as a scalar and is hashed into range.
	Seed []byte

	// MaxAttempts bounds the hash-and-retry loop for testability. Zero
	// means unbounded: each retry hashes the previous candidate with
	// SHA-256, and a uniformly random 32-byte candidate falls outside the
	// valid scalar range with probability about 2^-32, so in practice the
	// loop ends on the first attempt. Termination of the unbounded loop
	// is probabilistic, not structural.
	MaxAttempts int
}

// PrivateKeyFromSeed deterministically turns seed bytes into a valid private
// scalar by attempting the bytes as D and hashing on rejection. The loop is
// inherently sequential: each attempt depends on the previous digest.
func PrivateKeyFromSeed(ctx context.Context, p provider.Provider, params SeedParams) (*PrivateKey, error) {
	const op = "PrivateKeyFromSeed"
	if len(params.Seed) == 0 {
		return nil, importError(op, errors.New("empty seed"))
	}

	candidate := append([]byte(nil), params.Seed...)
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			ZeroizeBytes(candidate)
			return nil, &Error{Op: op, Err: err}
		}

		key, err := PrivateKeyFromD(ctx, p, candidate)
		if err == nil {
			ZeroizeBytes(candidate)
			return key, nil
		}
		if !errors.Is(err, ErrImport) {
			ZeroizeBytes(candidate)
			return nil, err
		}

		if params.MaxAttempts > 0 && attempt >= params.MaxAttempts {
			ZeroizeBytes(candidate)
			return nil, importError(op, fmt.Errorf("no valid scalar after %d attempts", attempt))
		}

		digest, derr := p.Digest(ctx, provider.Algorithm{Name: provider.AlgSHA256}, candidate)
		if derr != nil {
			ZeroizeBytes(candidate)
			return nil, remapProviderError(op, derr)
		}
		ZeroizeBytes(candidate)
		candidate = digest
	}
}

// PrivateKeyFromRandom asks the provider for a fresh ECDH keypair, exports
// the private half to JWK and re-imports it under both roles.
func PrivateKeyFromRandom(ctx context.Context, p provider.Provider) (*PrivateKey, error) {
	const op = "PrivateKeyFromRandom"
	pair, err := p.GenerateKey(ctx, provider.ECDH(), true, []provider.Usage{provider.UsageDeriveKey})
	if err != nil {
		return nil, remapProviderError(op, err)
	}
	jwkJSON, err := p.ExportKey(ctx, provider.FormatJWK, pair.Private)
	if err != nil {
		return nil, remapProviderError(op, err)
	}
	return PrivateKeyFromJWK(ctx, p, jwkJSON)
}

// ImportPrivateKey is the generic entry point over the closed Format set.
// Text formats carry the PKCS#8 container; FormatRandom ignores data.
func ImportPrivateKey(ctx context.Context, p provider.Provider, f Format, data []byte) (*PrivateKey, error) {
	const op = "ImportPrivateKey"
	switch f {
	case FormatBase64:
		der, err := bytecodec.DecodeBase64(string(data))
		if err != nil {
			return nil, importError(op, err)
		}
		return PrivateKeyFromPKCS8(ctx, p, der)
	case FormatHex:
		der, err := bytecodec.DecodeHex(string(data))
		if err != nil {
			return nil, importError(op, err)
		}
		return PrivateKeyFromPKCS8(ctx, p, der)
	case FormatPKCS8:
		return PrivateKeyFromPKCS8(ctx, p, data)
	case FormatJWK:
		return PrivateKeyFromJWK(ctx, p, data)
	case FormatRaw:
		return PrivateKeyFromRaw(ctx, p, data)
	case FormatD:
		return PrivateKeyFromD(ctx, p, data)
	case FormatSeed:
		return PrivateKeyFromSeed(ctx, p, SeedParams{Seed: data})
	case FormatRandom:
		return PrivateKeyFromRandom(ctx, p)
	default:
		return nil, unknownFormatError(op, f)
	}
}

// PKCS8 exports the 138-byte PKCS#8 container. All exports read from the
// ECDH handle; the ECDSA handle encodes the same material.
func (k *PrivateKey) PKCS8(ctx context.Context) ([]byte, error) {
	der, err := k.p.ExportKey(ctx, provider.FormatPKCS8, k.ecdhHandle)
	if err != nil {
		return nil, remapProviderError("PrivateKey.PKCS8", err)
	}
	return der, nil
}

// Raw exports the 97-byte combined raw form: uncompressed public point
// followed by the scalar.
func (k *PrivateKey) Raw(ctx context.Context) ([]byte, error) {
	const op = "PrivateKey.Raw"
	der, err := k.PKCS8(ctx)
	if err != nil {
		return nil, err
	}
	d, x, y, err := pkcs8.ParsePrivateKey(der)
	if err != nil {
		return nil, &Error{Op: op, Err: err}
	}
	rawPub, err := pkcs8.BuildRawPublicKey(x, y)
	if err != nil {
		return nil, &Error{Op: op, Err: err}
	}
	return append(rawPub, d...), nil
}

// D exports the bare 32-byte big-endian scalar.
func (k *PrivateKey) D(ctx context.Context) ([]byte, error) {
	der, err := k.PKCS8(ctx)
	if err != nil {
		return nil, err
	}
	d, _, _, err := pkcs8.ParsePrivateKey(der)
	if err != nil {
		return nil, &Error{Op: "PrivateKey.D", Err: err}
	}
	return d, nil
}

// JWK exports the key as JSON Web Key bytes.
func (k *PrivateKey) JWK(ctx context.Context) ([]byte, error) {
	jwkJSON, err := k.p.ExportKey(ctx, provider.FormatJWK, k.ecdhHandle)
	if err != nil {
		return nil, remapProviderError("PrivateKey.JWK", err)
	}
	return jwkJSON, nil
}

// Hex exports the PKCS#8 container as lowercase hex text.
func (k *PrivateKey) Hex(ctx context.Context) (string, error) {
	der, err := k.PKCS8(ctx)
	if err != nil {
		return "", err
	}
	return bytecodec.EncodeHex(der), nil
}

// Base64 exports the PKCS#8 container as standard base64 text.
func (k *PrivateKey) Base64(ctx context.Context) (string, error) {
	der, err := k.PKCS8(ctx)
	if err != nil {
		return "", err
	}
	return bytecodec.EncodeBase64(der), nil
}

// Export is the generic export counterpart of ImportPrivateKey. Text
// formats return the encoded text as bytes.
func (k *PrivateKey) Export(ctx context.Context, f Format) ([]byte, error) {
	switch f {
	case FormatBase64:
		s, err := k.Base64(ctx)
		if err != nil {
			return nil, err
		}
		return []byte(s), nil
	case FormatHex:
		s, err := k.Hex(ctx)
		if err != nil {
			return nil, err
		}
		return []byte(s), nil
	case FormatPKCS8:
		return k.PKCS8(ctx)
	case FormatJWK:
		return k.JWK(ctx)
	case FormatRaw:
		return k.Raw(ctx)
	case FormatD:
		return k.D(ctx)
	default:
		return nil, unknownFormatError("PrivateKey.Export", f)
	}
}

// Equal reports whether both keys export to identical PKCS#8 bytes.
// Comparison is constant-time over the exported containers.
func (k *PrivateKey) Equal(ctx context.Context, other *PrivateKey) (bool, error) {
	if other == nil {
		return false, nil
	}
	a, err := k.PKCS8(ctx)
	if err != nil {
		return false, err
	}
	b, err := other.PKCS8(ctx)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare(a, b) == 1, nil
}

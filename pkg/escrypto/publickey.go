package escrypto

import (
	"context"
	"crypto/subtle"
	"fmt"
	"math/big"

	"golang.org/x/sync/errgroup"

	"github.com/Lyavon/es6-crypto/pkg/escrypto/bytecodec"
	"github.com/Lyavon/es6-crypto/pkg/escrypto/curvepoint"
	"github.com/Lyavon/es6-crypto/pkg/escrypto/pkcs8"
	"github.com/Lyavon/es6-crypto/pkg/escrypto/provider"
)

// PublicKey is the public half of a P-256 keypair. It owns two provider
// handles referencing the same curve point: one under the ECDH identity
// (no usages, serves as the peer key in derivation) and one under the ECDSA
// identity (usage verify). Instances are immutable.
type PublicKey struct {
	p           provider.Provider
	ecdhHandle  *provider.Key
	ecdsaHandle *provider.Key
}

// Provider returns the provider that owns the handles.
func (k *PublicKey) Provider() provider.Provider {
	return k.p
}

// ECDHHandle returns the key-agreement role handle.
func (k *PublicKey) ECDHHandle() *provider.Key {
	return k.ecdhHandle
}

// ECDSAHandle returns the verification role handle.
func (k *PublicKey) ECDSAHandle() *provider.Key {
	return k.ecdsaHandle
}

// newPublicKey mirrors newPrivateKey for the public roles: concurrent
// imports, first failure short-circuits.
func newPublicKey(ctx context.Context, p provider.Provider, op string, format provider.KeyFormat, ecdhData, ecdsaData []byte) (*PublicKey, error) {
	var ecdhKey, ecdsaKey *provider.Key

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		key, err := p.ImportKey(gctx, format, ecdhData, provider.ECDH(), true, nil)
		if err != nil {
			return err
		}
		ecdhKey = key
		return nil
	})
	g.Go(func() error {
		key, err := p.ImportKey(gctx, format, ecdsaData, provider.ECDSA(), true, []provider.Usage{provider.UsageVerify})
		if err != nil {
			return err
		}
		ecdsaKey = key
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, remapProviderError(op, err)
	}

	return &PublicKey{p: p, ecdhHandle: ecdhKey, ecdsaHandle: ecdsaKey}, nil
}

// PublicKeyFromSPKI imports a 91-byte SPKI blob under both roles.
func PublicKeyFromSPKI(ctx context.Context, p provider.Provider, der []byte) (*PublicKey, error) {
	return newPublicKey(ctx, p, "PublicKeyFromSPKI", provider.FormatSPKI, der, der)
}

// PublicKeyFromRaw imports an EC point: the 65-byte uncompressed encoding,
// or the 33-byte compressed encoding which is decompressed in software
// first.
func PublicKeyFromRaw(ctx context.Context, p provider.Provider, raw []byte) (*PublicKey, error) {
	const op = "PublicKeyFromRaw"
	if len(raw) == curvepoint.CompressedSize {
		point, err := curvepoint.Decompress(raw)
		if err != nil {
			return nil, importError(op, err)
		}
		expanded, err := pkcs8.BuildRawPublicKey(point.XBytes(), point.YBytes())
		if err != nil {
			return nil, importError(op, err)
		}
		raw = expanded
	}
	if len(raw) != pkcs8.RawPublicKeySize {
		return nil, importError(op, fmt.Errorf("raw public key must be %d or %d bytes, got %d",
			pkcs8.RawPublicKeySize, curvepoint.CompressedSize, len(raw)))
	}
	return newPublicKey(ctx, p, op, provider.FormatRaw, raw, raw)
}

// PublicKeyFromJWK imports a JSON Web Key. The private scalar, if present,
// is stripped, and two independent role-specific copies are imported.
func PublicKeyFromJWK(ctx context.Context, p provider.Provider, jwkJSON []byte) (*PublicKey, error) {
	const op = "PublicKeyFromJWK"
	ecdhData, err := roleJWK(jwkJSON, useEncryption, true)
	if err != nil {
		return nil, importError(op, err)
	}
	ecdsaData, err := roleJWK(jwkJSON, useSignature, true)
	if err != nil {
		return nil, importError(op, err)
	}
	return newPublicKey(ctx, p, op, provider.FormatJWK, ecdhData, ecdsaData)
}

// PublicKeyFromCoordinates builds the uncompressed point 0x04||x||y from
// exactly 32-byte big-endian coordinates and imports it.
func PublicKeyFromCoordinates(ctx context.Context, p provider.Provider, x, y []byte) (*PublicKey, error) {
	const op = "PublicKeyFromCoordinates"
	raw, err := pkcs8.BuildRawPublicKey(x, y)
	if err != nil {
		return nil, importError(op, err)
	}
	return newPublicKey(ctx, p, op, provider.FormatRaw, raw, raw)
}

// PublicKeyFromPrivateKey derives the public half of a private key by
// exporting its JWK and re-importing it with the private scalar removed.
// No scalar multiplication happens here; the exported JWK already embeds
// the public coordinates.
func PublicKeyFromPrivateKey(ctx context.Context, priv *PrivateKey) (*PublicKey, error) {
	jwkJSON, err := priv.JWK(ctx)
	if err != nil {
		return nil, err
	}
	return PublicKeyFromJWK(ctx, priv.Provider(), jwkJSON)
}

// ImportPublicKey is the generic entry point over the closed Format set.
// Text formats carry the SPKI container; FormatCoordinates takes the
// 64-byte concatenation of X and Y.
func ImportPublicKey(ctx context.Context, p provider.Provider, f Format, data []byte) (*PublicKey, error) {
	const op = "ImportPublicKey"
	switch f {
	case FormatBase64:
		der, err := bytecodec.DecodeBase64(string(data))
		if err != nil {
			return nil, importError(op, err)
		}
		return PublicKeyFromSPKI(ctx, p, der)
	case FormatHex:
		der, err := bytecodec.DecodeHex(string(data))
		if err != nil {
			return nil, importError(op, err)
		}
		return PublicKeyFromSPKI(ctx, p, der)
	case FormatSPKI:
		return PublicKeyFromSPKI(ctx, p, data)
	case FormatJWK:
		return PublicKeyFromJWK(ctx, p, data)
	case FormatRaw:
		return PublicKeyFromRaw(ctx, p, data)
	case FormatCoordinates:
		if len(data) != 2*pkcs8.FieldSize {
			return nil, importError(op, fmt.Errorf("coordinates must be %d bytes, got %d", 2*pkcs8.FieldSize, len(data)))
		}
		return PublicKeyFromCoordinates(ctx, p, data[:pkcs8.FieldSize], data[pkcs8.FieldSize:])
	default:
		return nil, unknownFormatError(op, f)
	}
}

// SPKI exports the 91-byte SPKI container. All exports read from the ECDH
// handle; the ECDSA handle encodes the same point.
func (k *PublicKey) SPKI(ctx context.Context) ([]byte, error) {
	der, err := k.p.ExportKey(ctx, provider.FormatSPKI, k.ecdhHandle)
	if err != nil {
		return nil, remapProviderError("PublicKey.SPKI", err)
	}
	return der, nil
}

// Raw exports the 65-byte uncompressed point encoding.
func (k *PublicKey) Raw(ctx context.Context) ([]byte, error) {
	raw, err := k.p.ExportKey(ctx, provider.FormatRaw, k.ecdhHandle)
	if err != nil {
		return nil, remapProviderError("PublicKey.Raw", err)
	}
	return raw, nil
}

// Compressed exports the 33-byte SEC1 compressed point encoding.
func (k *PublicKey) Compressed(ctx context.Context) ([]byte, error) {
	const op = "PublicKey.Compressed"
	x, y, err := k.Coordinates(ctx)
	if err != nil {
		return nil, err
	}
	point, err := curvepoint.NewPoint(bigFromBytes(x), bigFromBytes(y))
	if err != nil {
		return nil, &Error{Op: op, Err: err}
	}
	return point.Compressed(), nil
}

// Coordinates exports the 32-byte X and Y coordinates by slicing the raw
// point encoding.
func (k *PublicKey) Coordinates(ctx context.Context) (x, y []byte, err error) {
	raw, err := k.Raw(ctx)
	if err != nil {
		return nil, nil, err
	}
	x, y, perr := pkcs8.ParseRawPublicKey(raw)
	if perr != nil {
		return nil, nil, &Error{Op: "PublicKey.Coordinates", Err: perr}
	}
	return x, y, nil
}

// JWK exports the key as JSON Web Key bytes.
func (k *PublicKey) JWK(ctx context.Context) ([]byte, error) {
	jwkJSON, err := k.p.ExportKey(ctx, provider.FormatJWK, k.ecdhHandle)
	if err != nil {
		return nil, remapProviderError("PublicKey.JWK", err)
	}
	return jwkJSON, nil
}

// Hex exports the SPKI container as lowercase hex text.
func (k *PublicKey) Hex(ctx context.Context) (string, error) {
	der, err := k.SPKI(ctx)
	if err != nil {
		return "", err
	}
	return bytecodec.EncodeHex(der), nil
}

// Base64 exports the SPKI container as standard base64 text.
func (k *PublicKey) Base64(ctx context.Context) (string, error) {
	der, err := k.SPKI(ctx)
	if err != nil {
		return "", err
	}
	return bytecodec.EncodeBase64(der), nil
}

// Export is the generic export counterpart of ImportPublicKey.
func (k *PublicKey) Export(ctx context.Context, f Format) ([]byte, error) {
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
	case FormatSPKI:
		return k.SPKI(ctx)
	case FormatJWK:
		return k.JWK(ctx)
	case FormatRaw:
		return k.Raw(ctx)
	case FormatCoordinates:
		x, y, err := k.Coordinates(ctx)
		if err != nil {
			return nil, err
		}
		return append(x, y...), nil
	default:
		return nil, unknownFormatError("PublicKey.Export", f)
	}
}

// Equal reports whether both keys export to identical SPKI bytes.
func (k *PublicKey) Equal(ctx context.Context, other *PublicKey) (bool, error) {
	if other == nil {
		return false, nil
	}
	a, err := k.SPKI(ctx)
	if err != nil {
		return false, err
	}
	b, err := other.SPKI(ctx)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare(a, b) == 1, nil
}

func bigFromBytes(b []byte) *big.Int {
	return new(big.Int).SetBytes(b)
}

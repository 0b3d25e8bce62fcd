package escrypto

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Lyavon/es6-crypto/pkg/escrypto/curvepoint"
	"github.com/Lyavon/es6-crypto/pkg/escrypto/pkcs8"
	"github.com/Lyavon/es6-crypto/pkg/escrypto/provider"
)

func TestPublicKeySPKIRoundTrip(t *testing.T) {
	ctx := context.Background()
	p := provider.NewSoftware()

	priv, err := PrivateKeyFromPKCS8(ctx, p, testPKCS8(t))
	require.NoError(t, err)
	pub, err := PublicKeyFromPrivateKey(ctx, priv)
	require.NoError(t, err)

	spki, err := pub.SPKI(ctx)
	require.NoError(t, err)
	require.Len(t, spki, pkcs8.PublicKeySize)

	again, err := PublicKeyFromSPKI(ctx, p, spki)
	require.NoError(t, err)

	equal, err := pub.Equal(ctx, again)
	require.NoError(t, err)
	require.True(t, equal)
}

func TestPublicKeyRawRoundTrip(t *testing.T) {
	ctx := context.Background()
	p := provider.NewSoftware()

	priv, err := PrivateKeyFromPKCS8(ctx, p, testPKCS8(t))
	require.NoError(t, err)
	pub, err := PublicKeyFromPrivateKey(ctx, priv)
	require.NoError(t, err)

	raw, err := pub.Raw(ctx)
	require.NoError(t, err)
	require.Len(t, raw, pkcs8.RawPublicKeySize)
	require.Equal(t, byte(0x04), raw[0])

	again, err := PublicKeyFromRaw(ctx, p, raw)
	require.NoError(t, err)
	equal, err := pub.Equal(ctx, again)
	require.NoError(t, err)
	require.True(t, equal)
}

func TestPublicKeyCompressedRoundTrip(t *testing.T) {
	ctx := context.Background()
	p := provider.NewSoftware()

	priv, err := PrivateKeyFromRandom(ctx, p)
	require.NoError(t, err)
	pub, err := PublicKeyFromPrivateKey(ctx, priv)
	require.NoError(t, err)

	compressed, err := pub.Compressed(ctx)
	require.NoError(t, err)
	require.Len(t, compressed, curvepoint.CompressedSize)
	require.Contains(t, []byte{0x02, 0x03}, compressed[0])

	again, err := PublicKeyFromRaw(ctx, p, compressed)
	require.NoError(t, err)
	equal, err := pub.Equal(ctx, again)
	require.NoError(t, err)
	require.True(t, equal)
}

func TestPublicKeyCoordinatesRoundTrip(t *testing.T) {
	ctx := context.Background()
	p := provider.NewSoftware()

	priv, err := PrivateKeyFromPKCS8(ctx, p, testPKCS8(t))
	require.NoError(t, err)
	pub, err := PublicKeyFromPrivateKey(ctx, priv)
	require.NoError(t, err)

	x, y, err := pub.Coordinates(ctx)
	require.NoError(t, err)
	require.Len(t, x, pkcs8.FieldSize)
	require.Len(t, y, pkcs8.FieldSize)

	again, err := PublicKeyFromCoordinates(ctx, p, x, y)
	require.NoError(t, err)
	equal, err := pub.Equal(ctx, again)
	require.NoError(t, err)
	require.True(t, equal)
}

func TestPublicKeyFromJWKStripsPrivateScalar(t *testing.T) {
	ctx := context.Background()
	p := provider.NewSoftware()

	priv, err := PrivateKeyFromPKCS8(ctx, p, testPKCS8(t))
	require.NoError(t, err)
	privJWK, err := priv.JWK(ctx)
	require.NoError(t, err)

	pub, err := PublicKeyFromJWK(ctx, p, privJWK)
	require.NoError(t, err)

	pubJWK, err := pub.JWK(ctx)
	require.NoError(t, err)
	require.NotContains(t, string(pubJWK), `"d"`)

	derived, err := PublicKeyFromPrivateKey(ctx, priv)
	require.NoError(t, err)
	equal, err := pub.Equal(ctx, derived)
	require.NoError(t, err)
	require.True(t, equal)
}

func TestPublicKeyTextRoundTrips(t *testing.T) {
	ctx := context.Background()
	p := provider.NewSoftware()

	priv, err := PrivateKeyFromPKCS8(ctx, p, testPKCS8(t))
	require.NoError(t, err)
	pub, err := PublicKeyFromPrivateKey(ctx, priv)
	require.NoError(t, err)

	hexText, err := pub.Hex(ctx)
	require.NoError(t, err)
	fromHex, err := ImportPublicKey(ctx, p, FormatHex, []byte(hexText))
	require.NoError(t, err)
	equal, err := pub.Equal(ctx, fromHex)
	require.NoError(t, err)
	require.True(t, equal)

	b64Text, err := pub.Base64(ctx)
	require.NoError(t, err)
	fromB64, err := ImportPublicKey(ctx, p, FormatBase64, []byte(b64Text))
	require.NoError(t, err)
	equal, err = pub.Equal(ctx, fromB64)
	require.NoError(t, err)
	require.True(t, equal)
}

func TestImportPublicKeyCoordinatesFormat(t *testing.T) {
	ctx := context.Background()
	p := provider.NewSoftware()

	priv, err := PrivateKeyFromPKCS8(ctx, p, testPKCS8(t))
	require.NoError(t, err)
	pub, err := PublicKeyFromPrivateKey(ctx, priv)
	require.NoError(t, err)

	coords, err := pub.Export(ctx, FormatCoordinates)
	require.NoError(t, err)
	require.Len(t, coords, 2*pkcs8.FieldSize)

	again, err := ImportPublicKey(ctx, p, FormatCoordinates, coords)
	require.NoError(t, err)
	equal, err := pub.Equal(ctx, again)
	require.NoError(t, err)
	require.True(t, equal)

	_, err = ImportPublicKey(ctx, p, FormatCoordinates, coords[:63])
	require.ErrorIs(t, err, ErrImport)
}

func TestImportPublicKeyUnknownFormat(t *testing.T) {
	ctx := context.Background()
	p := provider.NewSoftware()

	_, err := ImportPublicKey(ctx, p, FormatPKCS8, nil)
	require.ErrorIs(t, err, ErrUnknownFormat)

	_, err = ImportPublicKey(ctx, p, FormatD, nil)
	require.ErrorIs(t, err, ErrUnknownFormat)

	_, err = ImportPublicKey(ctx, p, Format(42), nil)
	require.ErrorIs(t, err, ErrUnknownFormat)
}

func TestImportPublicKeyMalformedInput(t *testing.T) {
	ctx := context.Background()
	p := provider.NewSoftware()

	cases := []struct {
		name   string
		format Format
		data   []byte
	}{
		{"bad base64", FormatBase64, []byte("!!not base64!!")},
		{"bad spki", FormatSPKI, []byte("garbage")},
		{"bad jwk", FormatJWK, []byte("{")},
		{"wrong raw length", FormatRaw, make([]byte, 40)},
		{"bad compressed prefix", FormatRaw, make([]byte, curvepoint.CompressedSize)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ImportPublicKey(ctx, p, tc.format, tc.data)
			require.ErrorIs(t, err, ErrImport)
		})
	}
}

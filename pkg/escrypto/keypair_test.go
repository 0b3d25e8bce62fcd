package escrypto

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Lyavon/es6-crypto/pkg/escrypto/pkcs8"
	"github.com/Lyavon/es6-crypto/pkg/escrypto/provider"
)

// requireConsistent checks that the pair's public half matches the one
// derived from its private half.
func requireConsistent(t *testing.T, ctx context.Context, kp *KeyPair) {
	t.Helper()
	derived, err := PublicKeyFromPrivateKey(ctx, kp.Private())
	require.NoError(t, err)
	equal, err := kp.Public().Equal(ctx, derived)
	require.NoError(t, err)
	require.True(t, equal)
}

func TestKeyPairFromPKCS8(t *testing.T) {
	ctx := context.Background()
	p := provider.NewSoftware()
	der := testPKCS8(t)

	kp, err := KeyPairFromPKCS8(ctx, p, der)
	require.NoError(t, err)
	requireConsistent(t, ctx, kp)

	out, err := kp.PKCS8(ctx)
	require.NoError(t, err)
	require.Equal(t, der, out)
}

func TestKeyPairFromRaw(t *testing.T) {
	ctx := context.Background()
	p := provider.NewSoftware()

	kp, err := KeyPairFromPKCS8(ctx, p, testPKCS8(t))
	require.NoError(t, err)
	raw, err := kp.Raw(ctx)
	require.NoError(t, err)
	require.Len(t, raw, pkcs8.RawPrivateKeySize)

	again, err := KeyPairFromRaw(ctx, p, raw)
	require.NoError(t, err)
	requireConsistent(t, ctx, again)

	equal, err := kp.Equal(ctx, again)
	require.NoError(t, err)
	require.True(t, equal)

	_, err = KeyPairFromRaw(ctx, p, raw[:96])
	require.ErrorIs(t, err, ErrImport)
}

func TestKeyPairFromJWK(t *testing.T) {
	ctx := context.Background()
	p := provider.NewSoftware()

	kp, err := KeyPairFromPKCS8(ctx, p, testPKCS8(t))
	require.NoError(t, err)
	jwkJSON, err := kp.JWK(ctx)
	require.NoError(t, err)

	again, err := KeyPairFromJWK(ctx, p, jwkJSON)
	require.NoError(t, err)
	requireConsistent(t, ctx, again)

	equal, err := kp.Equal(ctx, again)
	require.NoError(t, err)
	require.True(t, equal)
}

func TestKeyPairFromD(t *testing.T) {
	ctx := context.Background()
	p := provider.NewSoftware()

	kp, err := KeyPairFromPKCS8(ctx, p, testPKCS8(t))
	require.NoError(t, err)
	d, err := kp.D(ctx)
	require.NoError(t, err)

	again, err := KeyPairFromD(ctx, p, d)
	require.NoError(t, err)
	requireConsistent(t, ctx, again)

	equal, err := kp.Equal(ctx, again)
	require.NoError(t, err)
	require.True(t, equal)
}

func TestKeyPairFromSeedDeterministic(t *testing.T) {
	ctx := context.Background()
	p := provider.NewSoftware()
	seed := []byte("keypair seed material")

	a, err := KeyPairFromSeed(ctx, p, SeedParams{Seed: seed})
	require.NoError(t, err)
	requireConsistent(t, ctx, a)

	b, err := KeyPairFromSeed(ctx, p, SeedParams{Seed: seed})
	require.NoError(t, err)

	equal, err := a.Equal(ctx, b)
	require.NoError(t, err)
	require.True(t, equal)
}

func TestKeyPairFromRandom(t *testing.T) {
	ctx := context.Background()
	p := provider.NewSoftware()

	a, err := KeyPairFromRandom(ctx, p)
	require.NoError(t, err)
	requireConsistent(t, ctx, a)

	b, err := KeyPairFromRandom(ctx, p)
	require.NoError(t, err)

	equal, err := a.Equal(ctx, b)
	require.NoError(t, err)
	require.False(t, equal)
}

func TestNewKeyPair(t *testing.T) {
	ctx := context.Background()
	p := provider.NewSoftware()

	priv, err := PrivateKeyFromRandom(ctx, p)
	require.NoError(t, err)

	kp, err := NewKeyPair(ctx, priv)
	require.NoError(t, err)
	require.Same(t, priv, kp.Private())
	requireConsistent(t, ctx, kp)
}

func TestImportKeyPairDispatch(t *testing.T) {
	ctx := context.Background()
	p := provider.NewSoftware()
	der := testPKCS8(t)

	kp, err := ImportKeyPair(ctx, p, FormatPKCS8, der)
	require.NoError(t, err)

	hexText, err := kp.Hex(ctx)
	require.NoError(t, err)
	fromHex, err := ImportKeyPair(ctx, p, FormatHex, []byte(hexText))
	require.NoError(t, err)

	equal, err := kp.Equal(ctx, fromHex)
	require.NoError(t, err)
	require.True(t, equal)

	_, err = ImportKeyPair(ctx, p, FormatSPKI, nil)
	require.ErrorIs(t, err, ErrUnknownFormat)

	_, err = ImportKeyPair(ctx, p, FormatCoordinates, nil)
	require.ErrorIs(t, err, ErrUnknownFormat)
}

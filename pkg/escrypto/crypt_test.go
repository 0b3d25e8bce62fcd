package escrypto

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Lyavon/es6-crypto/pkg/escrypto/provider"
)

func testParties(t *testing.T) (p provider.Provider, alice, bob *KeyPair) {
	t.Helper()
	ctx := context.Background()
	p = provider.NewSoftware()

	alice, err := KeyPairFromRandom(ctx, p)
	require.NoError(t, err)
	bob, err = KeyPairFromRandom(ctx, p)
	require.NoError(t, err)
	return p, alice, bob
}

func TestSignVerifyRoundTrip(t *testing.T) {
	ctx := context.Background()
	_, alice, bob := testParties(t)
	data := []byte("payload to authenticate")

	sig, err := Sign(ctx, alice, data)
	require.NoError(t, err)
	require.Len(t, sig, SignatureSize)

	ok, err := Verify(ctx, alice.Public(), data, sig)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = Verify(ctx, alice.Public(), []byte("tampered payload"), sig)
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = Verify(ctx, bob.Public(), data, sig)
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = Verify(ctx, alice.Public(), data, sig[:SignatureSize-1])
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSignDERVerifyDER(t *testing.T) {
	ctx := context.Background()
	_, alice, _ := testParties(t)
	data := []byte("der-encoded signature payload")

	der, err := SignDER(ctx, alice, data)
	require.NoError(t, err)
	require.Equal(t, byte(0x30), der[0])

	ok, err := VerifyDER(ctx, alice.Public(), data, der)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = VerifyDER(ctx, alice.Public(), []byte("other data"), der)
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = VerifyDER(ctx, alice.Public(), data, []byte("not der"))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	ctx := context.Background()
	_, alice, bob := testParties(t)
	plaintext := []byte("the shared channel payload")

	env, err := Encrypt(ctx, alice, bob.Public(), plaintext, nil)
	require.NoError(t, err)
	require.Len(t, env.IV, IVSize)
	require.NotEqual(t, plaintext, env.EncryptedData)

	got, err := Decrypt(ctx, bob, alice.Public(), env)
	require.NoError(t, err)
	require.Equal(t, plaintext, got)
}

func TestEncryptWithExplicitIV(t *testing.T) {
	ctx := context.Background()
	_, alice, bob := testParties(t)
	iv := bytes.Repeat([]byte{0x24}, IVSize)

	env, err := Encrypt(ctx, alice, bob.Public(), []byte("data"), iv)
	require.NoError(t, err)
	require.Equal(t, iv, env.IV)

	_, err = Encrypt(ctx, alice, bob.Public(), []byte("data"), iv[:IVSize-1])
	require.Error(t, err)
}

func TestDecryptRejectsTampering(t *testing.T) {
	ctx := context.Background()
	_, alice, bob := testParties(t)

	env, err := Encrypt(ctx, alice, bob.Public(), []byte("sensitive"), nil)
	require.NoError(t, err)

	env.EncryptedData[0] ^= 0xff
	_, err = Decrypt(ctx, bob, alice.Public(), env)
	require.ErrorIs(t, err, ErrProvider)
}

func TestDecryptRejectsWrongKeys(t *testing.T) {
	ctx := context.Background()
	p, alice, bob := testParties(t)

	env, err := Encrypt(ctx, alice, bob.Public(), []byte("for bob only"), nil)
	require.NoError(t, err)

	eve, err := KeyPairFromRandom(ctx, p)
	require.NoError(t, err)

	_, err = Decrypt(ctx, eve, alice.Public(), env)
	require.ErrorIs(t, err, ErrProvider)
}

func TestDecryptRejectsBadEnvelope(t *testing.T) {
	ctx := context.Background()
	_, alice, bob := testParties(t)

	_, err := Decrypt(ctx, bob, alice.Public(), nil)
	require.Error(t, err)

	_, err = Decrypt(ctx, bob, alice.Public(), &Envelope{IV: make([]byte, 12)})
	require.Error(t, err)
}

func TestSignRequiresPrivateCapability(t *testing.T) {
	ctx := context.Background()
	_, alice, _ := testParties(t)

	_, err := Sign(ctx, alice.Public(), []byte("data"))
	require.ErrorIs(t, err, ErrProvider)
}

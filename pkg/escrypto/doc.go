// Package escrypto adapts P-256 (secp256r1) key material between the
// standard wire and text encodings: PKCS#8, SPKI, JWK, raw EC points,
// big-endian scalars, coordinate pairs, base64 and hex.
//
// A single conceptual keypair is represented by two provider handles derived
// from the same scalar: one under the ECDH (key agreement) identity and one
// under the ECDSA (signing) identity. The aggregates PrivateKey, PublicKey
// and KeyPair keep the two roles in lockstep; round-tripping key material
// through any supported format yields bit-identical bytes.
//
// Primitive cryptography is delegated to a provider (see the provider
// subpackage); this package owns only the byte-level transcoding, the
// deterministic seed-to-scalar derivation, and the software derivation of a
// public point from a private scalar.
//
// # Importing and exporting
//
//	p := provider.NewSoftware()
//	key, err := escrypto.PrivateKeyFromRandom(ctx, p)
//	if err != nil {
//	    return err
//	}
//	der, err := key.PKCS8(ctx)   // 138-byte PKCS#8 blob
//	same, err := escrypto.PrivateKeyFromPKCS8(ctx, p, der)
//
// # Signing and encryption
//
//	sig, err := escrypto.Sign(ctx, alice, data)
//	ok, err := escrypto.Verify(ctx, alicePub, data, sig)
//	env, err := escrypto.Encrypt(ctx, alice, bobPub, data, nil)
//	plain, err := escrypto.Decrypt(ctx, bob, alicePub, env)
package escrypto

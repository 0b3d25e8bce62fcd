package provider

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/rakutentech/jwk-go/jwk"

	"github.com/Lyavon/es6-crypto/pkg/escrypto/logging"
)

// Software is the default Provider, backed by the Go runtime crypto.
// It supports ECDH and ECDSA over P-256, AES-256-GCM, SHA-256 digests and
// secure random generation. All handles it produces are in-memory.
type Software struct {
	logger logging.Logger
}

// Option configures a Software provider.
type Option func(*Software)

// WithLogger injects a logger. Only operation metadata is logged; key
// material stays behind logging.Redacted.
func WithLogger(l logging.Logger) Option {
	return func(s *Software) {
		s.logger = l
	}
}

// NewSoftware creates a software provider. Without options it logs through
// slog.Default() at debug level.
func NewSoftware(opts ...Option) *Software {
	s := &Software{}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.New(nil)
	}
	return s
}

var _ Provider = (*Software)(nil)

func checkECAlgorithm(alg Algorithm) error {
	if alg.Name != AlgECDH && alg.Name != AlgECDSA {
		return fmt.Errorf("%w: %q", ErrUnsupported, alg.Name)
	}
	if alg.NamedCurve != CurveP256 {
		return fmt.Errorf("%w: curve %q", ErrUnsupported, alg.NamedCurve)
	}
	return nil
}

// ImportKey parses key bytes and returns an opaque handle.
func (s *Software) ImportKey(ctx context.Context, format KeyFormat, data []byte, alg Algorithm, extractable bool, usages []Usage) (*Key, error) {
	if err := checkECAlgorithm(alg); err != nil {
		return nil, err
	}
	s.logger.Debug(ctx, "import key",
		"format", format.String(),
		"alg", alg.Name,
		logging.Redacted("key_data"),
	)

	key := &Key{alg: alg, extractable: extractable, usages: cloneUsages(usages)}

	switch format {
	case FormatPKCS8:
		priv, err := parsePKCS8(data)
		if err != nil {
			return nil, err
		}
		key.keyType = TypePrivate
		key.priv = priv
	case FormatSPKI:
		pub, err := parseSPKI(data)
		if err != nil {
			return nil, err
		}
		key.keyType = TypePublic
		key.pub = pub
	case FormatRaw:
		pub, err := parseUncompressedPoint(data)
		if err != nil {
			return nil, err
		}
		key.keyType = TypePublic
		key.pub = pub
	case FormatJWK:
		kind, priv, pub, err := parseJWK(data)
		if err != nil {
			return nil, err
		}
		key.keyType = kind
		key.priv = priv
		key.pub = pub
	default:
		return nil, fmt.Errorf("%w: format %v", ErrUnsupported, format)
	}

	return key, nil
}

// ExportKey serializes a handle. Private handles export as PKCS#8 or JWK;
// public handles as SPKI, raw or JWK.
func (s *Software) ExportKey(ctx context.Context, format KeyFormat, key *Key) ([]byte, error) {
	if key == nil {
		return nil, errors.New("provider: nil key")
	}
	if !key.extractable {
		return nil, ErrNotExtractable
	}
	s.logger.Debug(ctx, "export key", "format", format.String(), "type", string(key.keyType))

	switch format {
	case FormatPKCS8:
		if key.keyType != TypePrivate {
			return nil, fmt.Errorf("%w: pkcs8 export needs a private key", ErrUnsupported)
		}
		return x509.MarshalPKCS8PrivateKey(key.priv)
	case FormatSPKI:
		pub, err := publicHalf(key)
		if err != nil {
			return nil, err
		}
		return x509.MarshalPKIXPublicKey(pub)
	case FormatRaw:
		pub, err := publicHalf(key)
		if err != nil {
			return nil, err
		}
		return marshalUncompressedPoint(pub), nil
	case FormatJWK:
		switch key.keyType {
		case TypePrivate:
			return json.Marshal(jwk.NewSpec(key.priv))
		case TypePublic:
			return json.Marshal(jwk.NewSpec(key.pub))
		default:
			return nil, fmt.Errorf("%w: jwk export needs an EC key", ErrUnsupported)
		}
	default:
		return nil, fmt.Errorf("%w: format %v", ErrUnsupported, format)
	}
}

// GenerateKey creates a fresh P-256 keypair.
func (s *Software) GenerateKey(ctx context.Context, alg Algorithm, extractable bool, usages []Usage) (*KeyPairHandles, error) {
	if err := checkECAlgorithm(alg); err != nil {
		return nil, err
	}
	s.logger.Debug(ctx, "generate key", "alg", alg.Name)

	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("provider: generate key: %w", err)
	}
	return &KeyPairHandles{
		Private: &Key{alg: alg, keyType: TypePrivate, extractable: extractable, usages: cloneUsages(usages), priv: priv},
		Public:  &Key{alg: alg, keyType: TypePublic, extractable: true, pub: &priv.PublicKey},
	}, nil
}

// Sign hashes data with SHA-256 and signs it, returning the 64-byte r||s
// signature encoding.
func (s *Software) Sign(ctx context.Context, alg Algorithm, key *Key, data []byte) ([]byte, error) {
	if alg.Name != AlgECDSA {
		return nil, fmt.Errorf("%w: sign with %q", ErrUnsupported, alg.Name)
	}
	if key == nil || key.keyType != TypePrivate || key.alg.Name != AlgECDSA {
		return nil, fmt.Errorf("%w: sign needs an ECDSA private handle", ErrUsage)
	}
	if !key.Allows(UsageSign) {
		return nil, ErrUsage
	}
	s.logger.Debug(ctx, "sign", "alg", alg.Name, "data_len", len(data))

	digest := sha256.Sum256(data)
	r, sv, err := ecdsa.Sign(rand.Reader, key.priv, digest[:])
	if err != nil {
		return nil, fmt.Errorf("provider: sign: %w", err)
	}
	sig := make([]byte, 64)
	r.FillBytes(sig[:32])
	sv.FillBytes(sig[32:])
	return sig, nil
}

// Verify checks a 64-byte r||s signature over the SHA-256 digest of data.
func (s *Software) Verify(ctx context.Context, alg Algorithm, key *Key, signature, data []byte) (bool, error) {
	if alg.Name != AlgECDSA {
		return false, fmt.Errorf("%w: verify with %q", ErrUnsupported, alg.Name)
	}
	if key == nil || key.alg.Name != AlgECDSA {
		return false, fmt.Errorf("%w: verify needs an ECDSA handle", ErrUsage)
	}
	if !key.Allows(UsageVerify) {
		return false, ErrUsage
	}
	pub, err := publicHalf(key)
	if err != nil {
		return false, err
	}
	if len(signature) != 64 {
		return false, nil
	}
	s.logger.Debug(ctx, "verify", "alg", alg.Name, "data_len", len(data))

	digest := sha256.Sum256(data)
	r := new(big.Int).SetBytes(signature[:32])
	sv := new(big.Int).SetBytes(signature[32:])
	return ecdsa.Verify(pub, digest[:], r, sv), nil
}

// DeriveKey performs ECDH between the private base handle and the peer
// public handle, then wraps the 32-byte shared secret as an AES-256 handle.
func (s *Software) DeriveKey(ctx context.Context, params DeriveParams, base *Key, derivedAlg Algorithm, extractable bool, usages []Usage) (*Key, error) {
	if base == nil || base.keyType != TypePrivate || base.alg.Name != AlgECDH {
		return nil, fmt.Errorf("%w: derive needs an ECDH private handle", ErrUsage)
	}
	if !base.Allows(UsageDeriveKey) {
		return nil, ErrUsage
	}
	if params.Public == nil || params.Public.alg.Name != AlgECDH {
		return nil, fmt.Errorf("%w: derive needs an ECDH public peer handle", ErrUsage)
	}
	if derivedAlg.Name != AlgAESGCM || derivedAlg.Length != 256 {
		return nil, fmt.Errorf("%w: derived algorithm %q/%d", ErrUnsupported, derivedAlg.Name, derivedAlg.Length)
	}
	peer, err := publicHalf(params.Public)
	if err != nil {
		return nil, err
	}
	s.logger.Debug(ctx, "derive key", "derived_alg", derivedAlg.Name, logging.Redacted("shared_secret"))

	ecdhPriv, err := base.priv.ECDH()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyData, err)
	}
	ecdhPub, err := peer.ECDH()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyData, err)
	}
	shared, err := ecdhPriv.ECDH(ecdhPub)
	if err != nil {
		return nil, fmt.Errorf("provider: ecdh: %w", err)
	}

	return &Key{
		alg:         derivedAlg,
		keyType:     TypeSecret,
		extractable: extractable,
		usages:      cloneUsages(usages),
		secret:      shared,
	}, nil
}

// Encrypt seals plaintext with AES-GCM under the given IV.
func (s *Software) Encrypt(ctx context.Context, params GCMParams, key *Key, plaintext []byte) ([]byte, error) {
	aead, err := s.gcm(key, params)
	if err != nil {
		return nil, err
	}
	if !key.Allows(UsageEncrypt) {
		return nil, ErrUsage
	}
	s.logger.Debug(ctx, "encrypt", "plaintext_len", len(plaintext))
	return aead.Seal(nil, params.IV, plaintext, nil), nil
}

// Decrypt opens AES-GCM ciphertext under the given IV.
func (s *Software) Decrypt(ctx context.Context, params GCMParams, key *Key, ciphertext []byte) ([]byte, error) {
	aead, err := s.gcm(key, params)
	if err != nil {
		return nil, err
	}
	if !key.Allows(UsageDecrypt) {
		return nil, ErrUsage
	}
	s.logger.Debug(ctx, "decrypt", "ciphertext_len", len(ciphertext))
	plaintext, err := aead.Open(nil, params.IV, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("provider: decrypt: %w", err)
	}
	return plaintext, nil
}

func (s *Software) gcm(key *Key, params GCMParams) (cipher.AEAD, error) {
	if key == nil || key.keyType != TypeSecret || key.alg.Name != AlgAESGCM {
		return nil, fmt.Errorf("%w: AES-GCM needs a secret handle", ErrUsage)
	}
	if len(params.IV) == 0 {
		return nil, errors.New("provider: empty iv")
	}
	block, err := aes.NewCipher(key.secret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyData, err)
	}
	return cipher.NewGCMWithNonceSize(block, len(params.IV))
}

// Digest hashes data with SHA-256.
func (s *Software) Digest(ctx context.Context, alg Algorithm, data []byte) ([]byte, error) {
	if alg.Name != AlgSHA256 {
		return nil, fmt.Errorf("%w: digest %q", ErrUnsupported, alg.Name)
	}
	s.logger.Debug(ctx, "digest", "alg", alg.Name, "data_len", len(data))
	sum := sha256.Sum256(data)
	return sum[:], nil
}

// GetRandomValues fills buf from the host CSPRNG.
func (s *Software) GetRandomValues(buf []byte) error {
	if _, err := rand.Read(buf); err != nil {
		return fmt.Errorf("provider: random: %w", err)
	}
	return nil
}

func publicHalf(key *Key) (*ecdsa.PublicKey, error) {
	switch key.keyType {
	case TypePublic:
		return key.pub, nil
	case TypePrivate:
		return &key.priv.PublicKey, nil
	default:
		return nil, fmt.Errorf("%w: no public component", ErrUsage)
	}
}

func parsePKCS8(data []byte) (*ecdsa.PrivateKey, error) {
	parsed, err := x509.ParsePKCS8PrivateKey(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyData, err)
	}
	priv, ok := parsed.(*ecdsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: not an EC private key", ErrKeyData)
	}
	if priv.Curve != elliptic.P256() {
		return nil, fmt.Errorf("%w: curve %s", ErrKeyData, priv.Params().Name)
	}
	return priv, nil
}

func parseSPKI(data []byte) (*ecdsa.PublicKey, error) {
	parsed, err := x509.ParsePKIXPublicKey(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyData, err)
	}
	pub, ok := parsed.(*ecdsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: not an EC public key", ErrKeyData)
	}
	if pub.Curve != elliptic.P256() {
		return nil, fmt.Errorf("%w: curve %s", ErrKeyData, pub.Params().Name)
	}
	return pub, nil
}

func parseUncompressedPoint(data []byte) (*ecdsa.PublicKey, error) {
	if len(data) != 65 || data[0] != 0x04 {
		return nil, fmt.Errorf("%w: not an uncompressed P-256 point", ErrKeyData)
	}
	curve := elliptic.P256()
	x := new(big.Int).SetBytes(data[1:33])
	y := new(big.Int).SetBytes(data[33:65])
	if !curve.IsOnCurve(x, y) {
		return nil, fmt.Errorf("%w: point not on curve", ErrKeyData)
	}
	return &ecdsa.PublicKey{Curve: curve, X: x, Y: y}, nil
}

func marshalUncompressedPoint(pub *ecdsa.PublicKey) []byte {
	out := make([]byte, 65)
	out[0] = 0x04
	pub.X.FillBytes(out[1:33])
	pub.Y.FillBytes(out[33:65])
	return out
}

func parseJWK(data []byte) (KeyType, *ecdsa.PrivateKey, *ecdsa.PublicKey, error) {
	spec, err := jwk.ParseBytes(data)
	if err != nil {
		return "", nil, nil, fmt.Errorf("%w: %v", ErrKeyData, err)
	}
	switch key := spec.Key.(type) {
	case *ecdsa.PrivateKey:
		if key.Curve != elliptic.P256() {
			return "", nil, nil, fmt.Errorf("%w: curve %s", ErrKeyData, key.Params().Name)
		}
		return TypePrivate, key, nil, nil
	case *ecdsa.PublicKey:
		if key.Curve != elliptic.P256() {
			return "", nil, nil, fmt.Errorf("%w: curve %s", ErrKeyData, key.Params().Name)
		}
		return TypePublic, nil, key, nil
	default:
		return "", nil, nil, fmt.Errorf("%w: jwk is not an EC key", ErrKeyData)
	}
}

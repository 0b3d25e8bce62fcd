package escrypto

// Format is the closed set of key representations accepted by the generic
// import entry points. Operations reject tags outside the set they support
// with ErrUnknownFormat; there is no string-based dispatch.
type Format int

const (
	// FormatBase64 is the standard base64 text form of the binary
	// container (PKCS#8 for private keys, SPKI for public keys).
	FormatBase64 Format = iota + 1

	// FormatHex is the hex text form of the binary container.
	FormatHex

	// FormatPKCS8 is the 138-byte DER private key container.
	FormatPKCS8

	// FormatSPKI is the 91-byte DER public key container.
	FormatSPKI

	// FormatJWK is the JSON Web Key encoding.
	FormatJWK

	// FormatRaw is the raw binary form: a 65-byte uncompressed point for
	// public keys, or the 97-byte point-plus-scalar form for private keys.
	FormatRaw

	// FormatD is the bare 32-byte big-endian private scalar.
	FormatD

	// FormatCoordinates is the 64-byte concatenation of the 32-byte X and
	// Y public coordinates.
	FormatCoordinates

	// FormatSeed derives a private scalar deterministically from arbitrary
	// seed bytes by repeated hashing.
	FormatSeed

	// FormatRandom generates fresh random key material; the data argument
	// is ignored.
	FormatRandom
)

// String returns the canonical lower-case format tag.
func (f Format) String() string {
	switch f {
	case FormatBase64:
		return "b64"
	case FormatHex:
		return "hex"
	case FormatPKCS8:
		return "pkcs8"
	case FormatSPKI:
		return "spki"
	case FormatJWK:
		return "jwk"
	case FormatRaw:
		return "raw"
	case FormatD:
		return "d"
	case FormatCoordinates:
		return "coordinates"
	case FormatSeed:
		return "seed"
	case FormatRandom:
		return "random"
	default:
		return "unknown"
	}
}

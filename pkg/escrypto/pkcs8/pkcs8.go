package pkcs8

import (
	"errors"
	"fmt"
)

// Container and field sizes for the fixed P-256 layouts.
const (
	// FieldSize is the byte width of a P-256 field element or scalar.
	FieldSize = 32

	// PrivateKeySize is the total length of a P-256 PKCS#8 blob.
	PrivateKeySize = 138

	// PublicKeySize is the total length of a P-256 SPKI blob.
	PublicKeySize = 91

	// RawPublicKeySize is the length of an uncompressed EC point:
	// 0x04 tag, 32-byte X, 32-byte Y.
	RawPublicKeySize = 65

	// RawPrivateKeySize is the length of the combined raw form:
	// uncompressed public point followed by the 32-byte scalar D.
	RawPrivateKeySize = 97
)

// Byte offsets of the variable fields inside the PKCS#8 layout.
const (
	privDOffset = 36
	privXOffset = 74
	privYOffset = 106
)

// Byte offsets of the coordinates inside the SPKI layout.
const (
	pubXOffset = 27
	pubYOffset = 59
)

// privatePrefix is the DER header of a P-256 PKCS#8 blob up to the scalar:
// outer SEQUENCE, version 0, AlgorithmIdentifier (id-ecPublicKey,
// prime256v1), OCTET STRING and inner ECPrivateKey headers, and the
// 32-byte OCTET STRING header for D.
var privatePrefix = []byte{
	0x30, 0x81, 0x87,
	0x02, 0x01, 0x00,
	0x30, 0x13,
	0x06, 0x07, 0x2a, 0x86, 0x48, 0xce, 0x3d, 0x02, 0x01,
	0x06, 0x08, 0x2a, 0x86, 0x48, 0xce, 0x3d, 0x03, 0x01, 0x07,
	0x04, 0x6d,
	0x30, 0x6b,
	0x02, 0x01, 0x01,
	0x04, 0x20,
}

// publicContextPrefix separates D from the embedded public point: the [1]
// context tag wrapping a 66-byte BIT STRING whose payload is the 65-byte
// uncompressed point.
var publicContextPrefix = []byte{0xa1, 0x44, 0x03, 0x42, 0x00, 0x04}

// spkiPrefix is the DER header of a P-256 SPKI blob up to the X coordinate,
// including the uncompressed point tag.
var spkiPrefix = []byte{
	0x30, 0x59,
	0x30, 0x13,
	0x06, 0x07, 0x2a, 0x86, 0x48, 0xce, 0x3d, 0x02, 0x01,
	0x06, 0x08, 0x2a, 0x86, 0x48, 0xce, 0x3d, 0x03, 0x01, 0x07,
	0x03, 0x42, 0x00,
	0x04,
}

// ErrFieldSize indicates a scalar or coordinate that is not exactly 32
// bytes. The builders never pad or truncate; a caller holding a shorter
// big-integer encoding must re-pad before building.
var ErrFieldSize = errors.New("pkcs8: field must be exactly 32 bytes")

func checkField(name string, v []byte) error {
	if len(v) != FieldSize {
		return fmt.Errorf("%w: %s has %d", ErrFieldSize, name, len(v))
	}
	return nil
}

// BuildPrivateKey assembles the 138-byte PKCS#8 layout from the scalar D and
// the public coordinates X, Y. All three values must be exactly 32-byte
// big-endian; shorter natural encodings are rejected rather than silently
// padded.
func BuildPrivateKey(d, x, y []byte) ([]byte, error) {
	if err := checkField("d", d); err != nil {
		return nil, err
	}
	if err := checkField("x", x); err != nil {
		return nil, err
	}
	if err := checkField("y", y); err != nil {
		return nil, err
	}

	out := make([]byte, 0, PrivateKeySize)
	out = append(out, privatePrefix...)
	out = append(out, d...)
	out = append(out, publicContextPrefix...)
	out = append(out, x...)
	out = append(out, y...)
	return out, nil
}

// ParsePrivateKey extracts D, X and Y from a 138-byte PKCS#8 buffer.
// Only the length is validated here; a buffer of the right length with a
// non-matching prefix yields garbage fields, which the provider import
// rejects at a deeper level.
func ParsePrivateKey(der []byte) (d, x, y []byte, err error) {
	if len(der) != PrivateKeySize {
		return nil, nil, nil, fmt.Errorf("pkcs8: private key must be %d bytes, got %d", PrivateKeySize, len(der))
	}
	d = append([]byte(nil), der[privDOffset:privDOffset+FieldSize]...)
	x = append([]byte(nil), der[privXOffset:privXOffset+FieldSize]...)
	y = append([]byte(nil), der[privYOffset:privYOffset+FieldSize]...)
	return d, x, y, nil
}

// BuildPublicKey assembles the 91-byte SPKI layout from the public
// coordinates X, Y, both exactly 32-byte big-endian.
func BuildPublicKey(x, y []byte) ([]byte, error) {
	if err := checkField("x", x); err != nil {
		return nil, err
	}
	if err := checkField("y", y); err != nil {
		return nil, err
	}

	out := make([]byte, 0, PublicKeySize)
	out = append(out, spkiPrefix...)
	out = append(out, x...)
	out = append(out, y...)
	return out, nil
}

// ParsePublicKey extracts X and Y from a 91-byte SPKI buffer. As with
// ParsePrivateKey, only the length is validated.
func ParsePublicKey(der []byte) (x, y []byte, err error) {
	if len(der) != PublicKeySize {
		return nil, nil, fmt.Errorf("pkcs8: public key must be %d bytes, got %d", PublicKeySize, len(der))
	}
	x = append([]byte(nil), der[pubXOffset:pubXOffset+FieldSize]...)
	y = append([]byte(nil), der[pubYOffset:pubYOffset+FieldSize]...)
	return x, y, nil
}

// BuildRawPublicKey assembles the 65-byte uncompressed point encoding
// 0x04 || X || Y from exactly 32-byte coordinates.
func BuildRawPublicKey(x, y []byte) ([]byte, error) {
	if err := checkField("x", x); err != nil {
		return nil, err
	}
	if err := checkField("y", y); err != nil {
		return nil, err
	}
	out := make([]byte, 0, RawPublicKeySize)
	out = append(out, 0x04)
	out = append(out, x...)
	out = append(out, y...)
	return out, nil
}

// ParseRawPublicKey splits a 65-byte uncompressed point into X and Y.
func ParseRawPublicKey(raw []byte) (x, y []byte, err error) {
	if len(raw) != RawPublicKeySize {
		return nil, nil, fmt.Errorf("pkcs8: raw public key must be %d bytes, got %d", RawPublicKeySize, len(raw))
	}
	if raw[0] != 0x04 {
		return nil, nil, fmt.Errorf("pkcs8: raw public key tag 0x%02x, want 0x04", raw[0])
	}
	x = append([]byte(nil), raw[1:1+FieldSize]...)
	y = append([]byte(nil), raw[1+FieldSize:]...)
	return x, y, nil
}

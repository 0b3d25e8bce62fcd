package bytecodec

import (
	"encoding/base64"
	"encoding/hex"
	"strings"
)

// EncodeBase64 encodes binary data as standard (padded) base64.
func EncodeBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// DecodeBase64 decodes a standard base64 string into binary data.
func DecodeBase64(s string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(s)
}

// EncodeHex encodes binary data as lowercase hex, two digits per byte.
func EncodeHex(data []byte) string {
	return hex.EncodeToString(data)
}

// DecodeHex decodes an even-length hex string (upper or lower case) into
// binary data.
func DecodeHex(s string) ([]byte, error) {
	return hex.DecodeString(s)
}

// EncodeBase64URL encodes binary data as unpadded URL-safe base64.
func EncodeBase64URL(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}

// DecodeBase64URL decodes an unpadded URL-safe base64 string into binary data.
func DecodeBase64URL(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(s)
}

// ToURLSafe converts a standard base64 string to its URL-safe form:
// '+' becomes '-', '/' becomes '_', and '=' padding is stripped.
func ToURLSafe(b64 string) string {
	s := strings.ReplaceAll(b64, "+", "-")
	s = strings.ReplaceAll(s, "/", "_")
	return strings.TrimRight(s, "=")
}

// FromURLSafe converts a URL-safe base64 string back to its standard form,
// restoring '+', '/' and '=' padding.
func FromURLSafe(urlSafe string) string {
	s := strings.ReplaceAll(urlSafe, "-", "+")
	s = strings.ReplaceAll(s, "_", "/")
	if rem := len(s) % 4; rem != 0 {
		s += strings.Repeat("=", 4-rem)
	}
	return s
}

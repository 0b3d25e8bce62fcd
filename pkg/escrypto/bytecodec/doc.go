// Package bytecodec provides stateless text/binary conversions used by the
// key material types: standard base64, URL-safe base64, and lowercase hex.
//
// All functions are pure. Decoding fails only on malformed input; encoding
// never fails. For every byte buffer x and every codec pair in this package,
// Decode(Encode(x)) returns a buffer equal to x.
package bytecodec

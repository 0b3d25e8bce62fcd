package escrypto

import "runtime"

// ZeroizeBytes overwrites the provided slice with zeros and prevents compiler
// dead store elimination using runtime.KeepAlive.
//
// This follows the pattern recommended in golang/go#33325. It cannot
// guarantee complete memory sanitization, since Go's garbage collector and
// the crypto libraries may hold copies, but it is the accepted practice for
// sensitive buffers in the Go ecosystem. The seed-derivation loop uses it to
// scrub superseded intermediate digests.
func ZeroizeBytes(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
	// Prevent dead store elimination per golang/go#33325
	runtime.KeepAlive(buf)
}

package provider

import (
	"crypto/ecdsa"
)

// Key is an opaque handle to provider-held key material. Handles are
// immutable after import; the zero value is not valid.
//
// The handle records the algorithm identity it was imported under, so the
// same byte material imported as ECDH and as ECDSA yields two distinct
// handles that decode to the same mathematical key.
type Key struct {
	alg         Algorithm
	keyType     KeyType
	extractable bool
	usages      []Usage

	// Exactly one of the following is set, per keyType.
	priv   *ecdsa.PrivateKey
	pub    *ecdsa.PublicKey
	secret []byte
}

// Algorithm returns the descriptor the handle was created under.
func (k *Key) Algorithm() Algorithm {
	return k.alg
}

// Type reports whether the handle is private, public or secret.
func (k *Key) Type() KeyType {
	return k.keyType
}

// Extractable reports whether ExportKey may serialize this handle.
func (k *Key) Extractable() bool {
	return k.extractable
}

// Usages returns a defensive copy of the granted usages.
func (k *Key) Usages() []Usage {
	out := make([]Usage, len(k.usages))
	copy(out, k.usages)
	return out
}

// Allows reports whether the handle was granted the given usage.
func (k *Key) Allows(u Usage) bool {
	for _, granted := range k.usages {
		if granted == u {
			return true
		}
	}
	return false
}

func cloneUsages(usages []Usage) []Usage {
	out := make([]Usage, len(usages))
	copy(out, usages)
	return out
}

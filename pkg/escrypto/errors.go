package escrypto

import (
	"errors"
	"fmt"

	"github.com/Lyavon/es6-crypto/pkg/escrypto/provider"
)

var (
	// ErrImport indicates malformed key bytes, a wrong length, a scalar
	// outside the valid range, or a provider rejecting the material as
	// structurally invalid. It is swallowed only inside the seed-retry
	// loop and surfaced everywhere else.
	ErrImport = errors.New("escrypto: import failed")

	// ErrUnknownFormat indicates a format tag the target operation does
	// not recognize.
	ErrUnknownFormat = errors.New("escrypto: unknown format")

	// ErrProvider indicates the cryptographic provider failed for reasons
	// outside format validity, such as an unsupported algorithm on the
	// host.
	ErrProvider = errors.New("escrypto: provider failure")
)

// Error wraps an underlying error with the operation that failed.
type Error struct {
	Op  string // Operation that failed
	Err error  // Underlying error
}

func (e *Error) Error() string {
	return fmt.Sprintf("escrypto.%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// importError wraps a cause so that errors.Is(err, ErrImport) holds.
func importError(op string, cause error) error {
	return &Error{Op: op, Err: fmt.Errorf("%w: %w", ErrImport, cause)}
}

// providerError wraps a cause so that errors.Is(err, ErrProvider) holds.
func providerError(op string, cause error) error {
	return &Error{Op: op, Err: fmt.Errorf("%w: %w", ErrProvider, cause)}
}

// unknownFormatError reports an unsupported format tag for an operation.
func unknownFormatError(op string, f Format) error {
	return &Error{Op: op, Err: fmt.Errorf("%w: %s", ErrUnknownFormat, f)}
}

// remapProviderError classifies a provider failure: structural rejections
// become ErrImport, capability failures become ErrProvider.
func remapProviderError(op string, err error) error {
	if errors.Is(err, provider.ErrKeyData) {
		return importError(op, err)
	}
	return providerError(op, err)
}

// Package internalcheck holds source-level policy tests for the escrypto
// packages.
//
// The tests load the public package with go/packages and walk its syntax
// trees to enforce rules that ordinary unit tests cannot see, such as
// comparing key material without crypto/subtle or formatting secrets with
// hex verbs. The package exports nothing and is not meant to be imported.
package internalcheck

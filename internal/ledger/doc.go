// Package ledger implements the blog ledger state transitions: publishing
// posts, appending comments and tipping post authors.
//
// Every operation authenticates its origin, validates its inputs against the
// prior state and then commits all of its writes as a single batch. A failed
// operation leaves the store untouched and emits no event. Post identifiers
// are content-addressed: the BLAKE2b-256 digest of the canonical encoding of
// the post record. Publishing the same content twice from the same author
// yields the same identifier and overwrites the earlier record.
//
// The package performs no logging and owns no goroutines; callers are
// expected to apply operations one at a time (see service.Runtime).
package ledger

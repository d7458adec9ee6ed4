package ledger

import (
	"errors"
	"fmt"
)

var (
	ErrContentTooShort = errors.New("content too short")
	ErrContentTooLong  = errors.New("content too long")
	ErrPostNotFound    = errors.New("post not found")
	ErrSelfTip         = errors.New("tipper is the post author")
	ErrTransferFailed  = errors.New("transfer failed")
	ErrUnauthenticated = errors.New("unauthenticated origin")
)

// Entity names the kind of record whose content failed validation.
type Entity string

const (
	EntityPost    Entity = "post"
	EntityComment Entity = "comment"
)

// ContentError reports a content length outside the configured bounds.
type ContentError struct {
	Kind   error
	Entity Entity
	Len    int
	Min    uint32
	Max    uint32
}

func (e *ContentError) Error() string {
	return fmt.Sprintf("%s %s: %d bytes, want more than %d and less than %d",
		e.Entity, e.Kind.Error(), e.Len, e.Min, e.Max)
}

func (e *ContentError) Unwrap() error { return e.Kind }

// TransferError wraps a failure surfaced by the account ledger. It matches
// both ErrTransferFailed and the underlying cause.
type TransferError struct {
	Err error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("%s: %v", ErrTransferFailed.Error(), e.Err)
}

func (e *TransferError) Unwrap() []error { return []error{ErrTransferFailed, e.Err} }

// Code names the failure as entity and direction, e.g. "comment_too_long".
func (e *ContentError) Code() string {
	if errors.Is(e.Kind, ErrContentTooLong) {
		return string(e.Entity) + "_too_long"
	}
	return string(e.Entity) + "_too_short"
}

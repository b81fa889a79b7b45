package dbx

import (
	"errors"
	"fmt"
)

// ErrorKind is the store-agnostic classification a storage adapter attaches
// to its failures. Repositories branch on it instead of driver error codes.
type ErrorKind int

const (
	KindOther ErrorKind = iota
	KindDuplicateKey
	KindNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case KindDuplicateKey:
		return "duplicate_key"
	case KindNotFound:
		return "not_found"
	default:
		return "other"
	}
}

// StorageError carries the classification alongside the driver error.
type StorageError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *StorageError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Wrap classifies err for operation op. A nil err stays nil.
func Wrap(op string, kind ErrorKind, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Kind: kind, Op: op, Err: err}
}

// NotFound reports a missing row or document for op.
func NotFound(op string) error {
	return &StorageError{Kind: KindNotFound, Op: op}
}

// Classify returns the kind of the first StorageError in err's chain.
// Errors that were never classified by an adapter are KindOther.
func Classify(err error) ErrorKind {
	var se *StorageError
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindOther
}

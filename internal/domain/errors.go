package domain

import (
	"errors"
	"fmt"
)

var (
	ErrSourceUnavailable   = errors.New("source unavailable")
	ErrMalformedCandidate  = errors.New("malformed candidate")
	ErrStoreWrite          = errors.New("store write failure")
	ErrClassificationCall  = errors.New("classification call failure")
	ErrClassificationParse = errors.New("classification parse failure")
)

// SourceError scopes an adapter failure to its site.
type SourceError struct {
	Source string
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("source %s: %v", e.Source, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// Is makes every SourceError match ErrSourceUnavailable.
func (e *SourceError) Is(target error) bool {
	return target == ErrSourceUnavailable
}

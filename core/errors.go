package core

import (
	"errors"
	"fmt"
)

// ErrorKind groups domain errors so callers can match them with errors.Is.
type ErrorKind int

const (
	// KindSize covers non power-of-two lengths, non-square grids and
	// mismatched grid dimensions.
	KindSize ErrorKind = iota
	// KindSample covers undefined intensity samples (e.g. out of range coordinates).
	KindSample
	// KindParameter covers invalid caller parameters such as the peak threshold.
	KindParameter
)

var (
	ErrSize      = errors.New("core: invalid size")
	ErrSample    = errors.New("core: invalid sample")
	ErrParameter = errors.New("core: invalid parameter")
)

func (k ErrorKind) sentinel() error {
	switch k {
	case KindSample:
		return ErrSample
	case KindParameter:
		return ErrParameter
	default:
		return ErrSize
	}
}

// DomainError is returned by every public operation that rejects its input.
// It is fatal to the current request; no partial result accompanies it.
type DomainError struct {
	Kind   ErrorKind
	Op     string
	Size   int
	Detail string
}

func (e *DomainError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Op, e.Kind.sentinel().Error())
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Unwrap exposes the sentinel for the error's kind.
func (e *DomainError) Unwrap() error {
	return e.Kind.sentinel()
}

func sizeError(op string, n int, format string, args ...any) error {
	return &DomainError{Kind: KindSize, Op: op, Size: n, Detail: fmt.Sprintf(format, args...)}
}

// SampleError reports an undefined intensity sample at (x, y).
func SampleError(op string, x, y int, detail string) error {
	return &DomainError{Kind: KindSample, Op: op, Detail: fmt.Sprintf("(%d,%d) %s", x, y, detail)}
}

func parameterError(op string, format string, args ...any) error {
	return &DomainError{Kind: KindParameter, Op: op, Detail: fmt.Sprintf(format, args...)}
}

// SizeError reports a size violation detected outside this package.
func SizeError(op string, n int, detail string) error {
	return &DomainError{Kind: KindSize, Op: op, Size: n, Detail: detail}
}

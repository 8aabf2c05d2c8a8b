package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure kinds of a vectorization run
var (
	// ErrMissingHeader is returned when a document never reaches a header-end marker
	ErrMissingHeader = errors.New("missing header")

	// ErrInsufficientData is returned when a document body has fewer than k words
	ErrInsufficientData = errors.New("insufficient data")

	// ErrInvalidConfig is returned when k, sample size or another setting is out of range
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrUnknownKGram is returned when a k-gram is looked up outside the vocabulary
	ErrUnknownKGram = errors.New("unknown k-gram")

	// ErrNoDocuments is returned when a run has nothing to vectorize
	ErrNoDocuments = errors.New("no documents")
)

// MissingHeaderError reports that input ended before a header-end marker line.
type MissingHeaderError struct {
	LinesRead int
}

func (e *MissingHeaderError) Error() string {
	return fmt.Sprintf("missing header: no header-end marker in %d lines", e.LinesRead)
}

func (e *MissingHeaderError) Is(target error) bool {
	return target == ErrMissingHeader
}

// NewMissingHeaderError creates a new MissingHeaderError
func NewMissingHeaderError(linesRead int) *MissingHeaderError {
	return &MissingHeaderError{LinesRead: linesRead}
}

// InsufficientDataError reports a body shorter than one k-gram.
type InsufficientDataError struct {
	Words int
	K     int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: body has %d words, need at least %d", e.Words, e.K)
}

func (e *InsufficientDataError) Is(target error) bool {
	return target == ErrInsufficientData
}

// NewInsufficientDataError creates a new InsufficientDataError
func NewInsufficientDataError(words, k int) *InsufficientDataError {
	return &InsufficientDataError{Words: words, K: k}
}

// ConfigurationError represents an invalid setting with context
type ConfigurationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid configuration: %s %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid configuration: %s=%q %s", e.Field, e.Value, e.Reason)
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// NewConfigurationError creates a new ConfigurationError
func NewConfigurationError(field, value, reason string) *ConfigurationError {
	return &ConfigurationError{Field: field, Value: value, Reason: reason}
}

// LookupError reports a k-gram missing from the vocabulary.
type LookupError struct {
	KGram string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("unknown k-gram '%s'", e.KGram)
}

func (e *LookupError) Is(target error) bool {
	return target == ErrUnknownKGram
}

// NewLookupError creates a new LookupError
func NewLookupError(kgram string) *LookupError {
	return &LookupError{KGram: kgram}
}

// DocumentError attaches the failing document to an underlying error.
type DocumentError struct {
	DocumentID string
	Err        error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("document '%s': %v", e.DocumentID, e.Err)
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}

// NewDocumentError creates a new DocumentError
func NewDocumentError(documentID string, err error) *DocumentError {
	return &DocumentError{DocumentID: documentID, Err: err}
}

// DocumentID returns the document named by the first DocumentError in err's chain.
func DocumentID(err error) (string, bool) {
	var de *DocumentError
	if errors.As(err, &de) {
		return de.DocumentID, true
	}
	return "", false
}

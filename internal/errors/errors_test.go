package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestMissingHeaderError(t *testing.T) {
	err := NewMissingHeaderError(12)

	expectedMsg := "missing header: no header-end marker in 12 lines"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg, err.Error())
	}

	if !errors.Is(err, ErrMissingHeader) {
		t.Error("Expected error to match ErrMissingHeader sentinel")
	}

	if errors.Is(err, ErrInsufficientData) {
		t.Error("Error should not match ErrInsufficientData")
	}
}

func TestInsufficientDataError(t *testing.T) {
	err := NewInsufficientDataError(2, 3)

	expectedMsg := "insufficient data: body has 2 words, need at least 3"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg, err.Error())
	}

	if !errors.Is(err, ErrInsufficientData) {
		t.Error("Expected error to match ErrInsufficientData sentinel")
	}
}

func TestConfigurationError(t *testing.T) {
	err := NewConfigurationError("k", "0", "must be a positive integer")

	expectedMsg := `invalid configuration: k="0" must be a positive integer`
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg, err.Error())
	}

	noValue := NewConfigurationError("boundary.header_markers", "", "must not be empty")
	expectedMsg2 := "invalid configuration: boundary.header_markers must not be empty"
	if noValue.Error() != expectedMsg2 {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg2, noValue.Error())
	}

	if !errors.Is(err, ErrInvalidConfig) {
		t.Error("Expected error to match ErrInvalidConfig sentinel")
	}
}

func TestLookupError(t *testing.T) {
	err := NewLookupError("the cat")

	if err.Error() != "unknown k-gram 'the cat'" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if !errors.Is(err, ErrUnknownKGram) {
		t.Error("Expected error to match ErrUnknownKGram sentinel")
	}
}

func TestDocumentError(t *testing.T) {
	inner := NewInsufficientDataError(1, 2)
	err := NewDocumentError("moby.txt", inner)

	expectedMsg := "document 'moby.txt': insufficient data: body has 1 words, need at least 2"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg, err.Error())
	}

	// Kind survives the wrapper
	if !errors.Is(err, ErrInsufficientData) {
		t.Error("Expected wrapped error to match ErrInsufficientData")
	}

	var ide *InsufficientDataError
	if !errors.As(err, &ide) || ide.K != 2 {
		t.Error("Expected errors.As to reach the InsufficientDataError")
	}

	wrapped := fmt.Errorf("run failed: %w", err)
	id, ok := DocumentID(wrapped)
	if !ok || id != "moby.txt" {
		t.Errorf("DocumentID() = %q, %v; want moby.txt, true", id, ok)
	}

	if _, ok := DocumentID(errors.New("plain")); ok {
		t.Error("DocumentID should report false for errors without a document")
	}
}

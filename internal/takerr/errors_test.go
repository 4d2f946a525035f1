package takerr

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestErrorMessage(t *testing.T) {
	err := Parse("bad move %q", "x9")
	if got, want := err.Error(), `bad move "x9"`; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}

func TestErrorMessageWithCause(t *testing.T) {
	err := StreamClosed(io.ErrUnexpectedEOF, "server")
	if got, want := err.Error(), "server stream closed: unexpected EOF"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("cause not reachable through Unwrap")
	}
}

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("relay failed: %w", Auth("authentication failure"))
	if !HasCode(err, CodeAuthFailure) {
		t.Fatalf("HasCode missed wrapped AUTH_FAILURE")
	}
	if HasCode(err, CodeParse) {
		t.Fatalf("HasCode matched wrong code")
	}
	if HasCode(errors.New("plain"), CodeAuthFailure) {
		t.Fatalf("HasCode matched unclassified error")
	}
}

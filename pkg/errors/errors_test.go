package errors

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"testing"
)

func TestNewFetchErrorCodes(t *testing.T) {
	notFound := NewFetchError("abc", ErrChannelNotFound)
	if notFound.Code != CodeNotFound {
		t.Fatalf("expected %s, got %s", CodeNotFound, notFound.Code)
	}
	if !stderrors.Is(notFound, ErrChannelNotFound) {
		t.Fatal("expected not-found fetch error to unwrap to ErrChannelNotFound")
	}

	failed := NewFetchError("abc", fmt.Errorf("dial tcp: timeout"))
	if failed.Code != CodeFetch {
		t.Fatalf("expected %s, got %s", CodeFetch, failed.Code)
	}
	if got := failed.Error(); got != `fetch channel "abc": dial tcp: timeout` {
		t.Fatalf("unexpected message: %s", got)
	}
}

func TestIsFatal(t *testing.T) {
	ioErr := NewIOError("write", "out.csv", fs.ErrPermission)
	if !IsFatal(fmt.Errorf("sink: %w", ioErr)) {
		t.Fatal("wrapped IOError must be fatal")
	}
	if !stderrors.Is(ioErr, fs.ErrPermission) {
		t.Fatal("IOError must unwrap to its cause")
	}

	valErr := NewValidationError("NAME column is required", "NAME", nil)
	if !IsFatal(valErr) {
		t.Fatal("ValidationError must be fatal")
	}

	if IsFatal(NewFetchError("abc", ErrChannelNotFound)) {
		t.Fatal("FetchError must not be fatal")
	}
}

func TestNewMissingColumnError(t *testing.T) {
	err := NewMissingColumnError("NAME")
	if !stderrors.Is(err, ErrMissingColumn) {
		t.Fatal("expected ErrMissingColumn in chain")
	}
	if got := err.Error(); got != "input table has no NAME column: required column missing" {
		t.Fatalf("unexpected message %q", got)
	}
	if err.Field != "NAME" || err.Code != CodeValidation {
		t.Fatalf("unexpected error fields %+v", err)
	}
}

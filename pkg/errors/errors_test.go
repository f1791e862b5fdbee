package errors

import (
	"fmt"
	"testing"
)

var testCode = MustNewCode("testing.failure")

func TestErrorFormatting(t *testing.T) {
	err := Newf(testCode, "widget %d broke", 7)
	want := "testing.failure: widget 7 broke"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := Wrap(testCode, cause, "save failed")

	if err.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}
	if err.Error() != "testing.failure: save failed: disk full" {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

func TestAddContext(t *testing.T) {
	err := New(testCode, "boom").AddContext("flow", "bidirectional")
	if err.Context["flow"] != "bidirectional" {
		t.Error("context value not stored")
	}
}

func TestHasCode(t *testing.T) {
	other := MustNewCode("testing.other")
	inner := New(testCode, "inner")
	outer := Wrap(other, inner, "outer")

	if !HasCode(outer, testCode) {
		t.Error("HasCode should find the inner code")
	}
	if !HasCode(outer, other) {
		t.Error("HasCode should find the outer code")
	}
	if HasCode(outer, MustNewCode("testing.absent")) {
		t.Error("HasCode should not find an absent code")
	}
	if HasCode(fmt.Errorf("plain"), testCode) {
		t.Error("plain errors carry no code")
	}
}

func TestAsError(t *testing.T) {
	coded := New(CommonValidation, "bad input")
	if AsError(coded) != coded {
		t.Error("AsError should return the coded error unchanged")
	}

	wrapped := fmt.Errorf("outer: %w", coded)
	if AsError(wrapped) != coded {
		t.Error("AsError should find the coded error through the chain")
	}

	plain := fmt.Errorf("disk on fire")
	got := AsError(plain)
	if !got.Code.Equals(CommonInternal) {
		t.Errorf("foreign errors should become common.internal, got %v", got.Code)
	}
	if got.Cause != plain {
		t.Error("foreign error should be kept as the cause")
	}

	if AsError(nil) != nil {
		t.Error("AsError(nil) should be nil")
	}
}

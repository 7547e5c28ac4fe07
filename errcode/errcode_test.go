package errcode

import (
	"errors"
	"fmt"
	"testing"
)

func TestCodesAreStableStrings(t *testing.T) {
	cases := map[string]Code{
		"malformed_literal":         MalformedLiteral,
		"out_of_range":              OutOfRange,
		"read_only_field":           ReadOnlyField,
		"unknown_keyword":           UnknownKeyword,
		"not_applicable":            NotApplicable,
		"persistence_uninitialized": PersistenceUninitialized,
		"reboot_required":           RebootRequired,
		"rebooting":                 Rebooting,
	}
	for want, c := range cases {
		if c.Error() != want {
			t.Fatalf("code %q mismatch: got %q", want, c.Error())
		}
	}
}

func TestOf(t *testing.T) {
	base := &E{C: OutOfRange, Op: "apply", Msg: "cycles"}
	wrapped := fmt.Errorf("set :PULS1:CYC: %w", base)

	for _, c := range []struct {
		err  error
		want Code
	}{
		{nil, OK},
		{MalformedLiteral, MalformedLiteral},
		{base, OutOfRange},
		{wrapped, OutOfRange},
		{errors.New("plain"), Error},
	} {
		if got := Of(c.err); got != c.want {
			t.Fatalf("Of(%v) = %q, want %q", c.err, got, c.want)
		}
	}
}

func TestEString(t *testing.T) {
	e := New(ReadOnlyField, "apply", "valid")
	if got, want := e.Error(), "apply: read_only_field: valid"; got != want {
		t.Fatalf("E.Error() = %q, want %q", got, want)
	}
	if !errors.Is(&E{C: Error, Err: ReadOnlyField}, ReadOnlyField) {
		t.Fatal("errors.Is should see the wrapped code")
	}
}

func TestFailure(t *testing.T) {
	if RebootRequired.Failure() || OK.Failure() {
		t.Fatal("ok and reboot_required are not failures")
	}
	if !UnknownKeyword.Failure() || !MalformedLiteral.Failure() {
		t.Fatal("expected failure codes")
	}
}

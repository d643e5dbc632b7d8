// Package testutil holds the small assertion helpers the package tests
// share, mostly for comparing ordered email and subject slices.
package testutil

import (
	"strings"
	"testing"
)

// AssertEqualSlices fails when got and want differ in length or in any
// element. Order matters; filtered sets are subsequences of the full set and
// are compared with it.
func AssertEqualSlices[T comparable](t *testing.T, got []T, want ...T) {
	t.Helper()
	if len(got) != len(want) {
		t.Errorf("length mismatch: got %v (len %d), want %v (len %d)", got, len(got), want, len(want))
		return
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("element %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

// AssertStrings is AssertEqualSlices for strings, with %q formatting so
// whitespace differences show up.
func AssertStrings(t *testing.T, got []string, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Errorf("length mismatch: got %q (len %d), want %q (len %d)", got, len(got), want, len(want))
		return
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("element %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

// AssertContainsAll fails for every substring of subs missing from got.
func AssertContainsAll(t *testing.T, got string, subs []string) {
	t.Helper()
	for _, sub := range subs {
		if !strings.Contains(got, sub) {
			t.Errorf("%q missing from %q", sub, got)
		}
	}
}

// MustNoErr stops the test when a setup step fails; msg names the step.
func MustNoErr(t *testing.T, err error, msg string) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s: %v", msg, err)
	}
}

package services

import (
	"errors"
	"strings"
	"testing"
)

func TestWrapTagsMarker(t *testing.T) {
	base := errors.New("disk full")
	err := Wrap(ErrStaging, "staging", "copy media", "copy into import area failed", base)
	if !errors.Is(err, ErrStaging) {
		t.Fatalf("expected ErrStaging marker, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped cause to survive, got %v", err)
	}
	for _, want := range []string{"staging", "copy media", "disk full"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error message missing %q: %s", want, err)
		}
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := Wrap(nil, "writing", "", "", nil)
	if !errors.Is(err, ErrIO) {
		t.Fatalf("nil marker should default to ErrIO, got %v", err)
	}
}

func TestRetryable(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"directory", Wrap(ErrDirectory, "reconciling", "mint tag", "", nil), true},
		{"timeout", Wrap(ErrTimeout, "transcoding", "probe", "", nil), true},
		{"validation", Wrap(ErrValidation, "validating", "", "title missing", nil), false},
		{"staging", Wrap(ErrStaging, "staging", "", "", nil), false},
		{"plain", errors.New("boom"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Retryable(tc.err); got != tc.want {
				t.Fatalf("Retryable(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

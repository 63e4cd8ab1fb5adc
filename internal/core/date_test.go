package core

import (
	"errors"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in string
		ok bool
		y  int
		m  int
		d  int
	}{
		{"01-01-25", true, 2025, 1, 1},
		{"31-12-99", true, 1999, 12, 31},
		{"28-08-26", true, 2026, 8, 28},
		{"32-01-25", false, 0, 0, 0},
		{"01-13-25", false, 0, 0, 0},
		{"2025-01-01", false, 0, 0, 0},
		{"", false, 0, 0, 0},
		{"abc", false, 0, 0, 0},
	}
	for _, tc := range cases {
		got, err := ParseDate(tc.in)
		if !tc.ok {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
			if !errors.Is(err, ErrInvalidDate) {
				t.Fatalf("%q expected ErrInvalidDate, got %v", tc.in, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%q expected ok, got %v", tc.in, err)
		}
		if got.Year() != tc.y || got.Month() != tc.m || got.Day() != tc.d {
			t.Fatalf("%q parsed to %v", tc.in, got)
		}
	}
}

func TestDateStringRoundTrip(t *testing.T) {
	d := NewDate(2026, 8, 28)
	if d.String() != "28-08-26" {
		t.Fatalf("unexpected format: %q", d.String())
	}
	back, err := ParseDate(d.String())
	if err != nil {
		t.Fatalf("round trip: %v", err)
	}
	if !back.Equal(d.Time) {
		t.Fatalf("round trip changed %v to %v", d, back)
	}
}

func TestDateValidate(t *testing.T) {
	if err := NewDate(2025, 1, 1).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Date{Time: time.Time{}}).Validate(); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate for zero time, got %v", err)
	}
}

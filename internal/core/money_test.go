package core

import "testing"

func TestParseDecimalToPence(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{"100.00", 10000, true},
		{"-1", 0, false},
		{"+1", 0, false},
		{"0", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToPence(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestParseCellMoney(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"100.00", 10000, true},
		{"+100.00", 10000, true},
		{"-40.00", -4000, true},
		{"-0.01", -1, true},
		{"0", 0, true},
		{"0.00", 0, true},
		{"--1", 0, false},
		{"", 0, false},
		{"abc", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseCellMoney(tc.in)
		if tc.ok {
			if err != nil || got.Pence != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got.Pence, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestMoneyString(t *testing.T) {
	cases := []struct {
		pence int64
		want  string
	}{
		{0, "0.00"},
		{1, "0.01"},
		{10000, "100.00"},
		{-4000, "-40.00"},
		{-5, "-0.05"},
		{123456, "1234.56"},
	}
	for _, tc := range cases {
		if got := (Money{Pence: tc.pence}).String(); got != tc.want {
			t.Fatalf("%d pence: expected %q, got %q", tc.pence, tc.want, got)
		}
	}
}

func TestMoneyStringRoundTrip(t *testing.T) {
	for _, pence := range []int64{0, 1, 99, 100, 12345, -1, -4000} {
		m := Money{Pence: pence}
		back, err := ParseCellMoney(m.String())
		if err != nil {
			t.Fatalf("%v did not round-trip: %v", m, err)
		}
		if back.Pence != pence {
			t.Fatalf("round trip changed %d to %d", pence, back.Pence)
		}
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Pence: 1}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Money{Pence: 0}).Validate(); err == nil {
		t.Fatalf("expected error for zero")
	}
	if err := (Money{Pence: -1}).Validate(); err == nil {
		t.Fatalf("expected error for negative")
	}
}

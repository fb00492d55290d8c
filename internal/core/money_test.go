package core

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"0.01", 1, true},
		{"0", 0, true}, // zero is accepted, matching the original bot
		{"1.005", 101, true}, // half-up on the third decimal
		{" 2.50 ", 250, true},
		{"500", 50000, true},
		{"-1", 0, false},
		{"+1", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
		{"10 EUR", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got.Cents != tc.out {
				t.Fatalf("%q expected %d cents, got %d (err=%v)", tc.in, tc.out, got.Cents, err)
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
		cents int64
		want  string
	}{
		{0, "0.00"},
		{1, "0.01"},
		{50000, "500.00"},
		{-5000, "-50.00"},
		{123, "1.23"},
	}
	for _, tc := range cases {
		if got := (Money{Cents: tc.cents}).String(); got != tc.want {
			t.Errorf("Money{%d}.String() = %q, want %q", tc.cents, got, tc.want)
		}
	}
}

func TestEntrySigned(t *testing.T) {
	income := Entry{Kind: Income, Amount: Money{Cents: 1000}, Category: "Sueldo"}
	if got := income.Signed().Cents; got != 1000 {
		t.Errorf("income Signed() = %d, want 1000", got)
	}
	expense := Entry{Kind: Expense, Amount: Money{Cents: 1000}, Category: "Comida"}
	if got := expense.Signed().Cents; got != -1000 {
		t.Errorf("expense Signed() = %d, want -1000", got)
	}
}

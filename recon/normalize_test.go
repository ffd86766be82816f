package recon

import (
	"math"
	"testing"
)

func TestNormalizeSentinels(t *testing.T) {
	type testCase struct {
		tag      string
		input    any
		expected any
	}

	cases := []testCase{
		{"nil becomes sentinel", nil, ""},
		{"NaN becomes sentinel", math.NaN(), ""},
		{"textual nan becomes sentinel", "nan", ""},
		{"server None becomes sentinel", "None", ""},
		{"plain string passes through", "08MF005", "08MF005"},
		{"number passes through", 12.3, 12.3},
		{"bool passes through", true, true},
		{"empty string stays empty", "", ""},
	}

	for _, c := range cases {
		t.Log(c.tag)
		if got := Normalize(c.input); got != c.expected {
			t.Errorf("Got %v, wanted %v", got, c.expected)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []any{nil, math.NaN(), "nan", "None", "text", 42.0, true}
	for _, v := range inputs {
		once := Normalize(v)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %v: %v != %v", v, once, twice)
		}
	}
}

func TestRound(t *testing.T) {
	type testCase struct {
		tag      string
		input    any
		expected any
	}

	cases := []testCase{
		{"rounds up", 49.123456789, 49.12346},
		{"rounds down", 49.12345001, 49.12345},
		{"short numbers untouched", 12.3, 12.3},
		{"strings untouched", "12.3", "12.3"},
		{"nil untouched", nil, nil},
	}

	for _, c := range cases {
		t.Log(c.tag)
		if got := Round(c.input, DefaultRoundFigs); got != c.expected {
			t.Errorf("Got %v, wanted %v", got, c.expected)
		}
	}
}

func TestRoundingTolerance(t *testing.T) {
	// Values differing by less than 1e-5 after rounding must compare equal
	a := Round(49.12345001, DefaultRoundFigs)
	b := Round(49.12344999, DefaultRoundFigs)
	if !valuesEqual(a, b) {
		t.Errorf("Expected %v and %v to be equal after rounding", a, b)
	}
}

package utils

import "testing"

func TestFilterSlice(t *testing.T) {
	input := []string{"unknown", "08MF005"}

	first := FilterSlice(input, []string{"08MF005", "08HB048"}, "")
	if len(first) != 1 || first[0] != "08MF005" {
		t.Errorf("Got %v, expected [08MF005]", first)
	}

	// The same user input is filtered against several references in one run,
	// so the call must not compact it in place
	if input[0] != "unknown" || input[1] != "08MF005" {
		t.Fatalf("FilterSlice mutated its input: %v", input)
	}
	second := FilterSlice(input, []string{"08MF005"}, "")
	if len(second) != 1 || second[0] != "08MF005" {
		t.Errorf("Second filtering pass got %v, expected [08MF005]", second)
	}
}

func TestFilterSliceNilInput(t *testing.T) {
	reference := []string{"a", "b"}
	got := FilterSlice(nil, reference, "")
	if len(got) != 2 {
		t.Errorf("Got %v, expected the full reference for nil input", got)
	}
}

func TestFilterSliceKeepsOrder(t *testing.T) {
	got := FilterSlice([]string{"c", "a", "b"}, []string{"a", "b", "c"}, "")
	if len(got) != 3 || got[0] != "c" || got[1] != "a" || got[2] != "b" {
		t.Errorf("Got %v, expected input order preserved", got)
	}
}

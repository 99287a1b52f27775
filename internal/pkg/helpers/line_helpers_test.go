package helpers

import (
	"reflect"
	"testing"
)

func TestSplitLines(t *testing.T) {
	input := "AAA-111\r\n  BBB-222  \n\n\nCCC-333\n"
	want := []string{"AAA-111", "BBB-222", "CCC-333"}

	got := SplitLines(input)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitLines() = %v, want %v", got, want)
	}
}

func TestSplitLinesEmpty(t *testing.T) {
	if got := SplitLines("  \n\n  "); got != nil {
		t.Errorf("SplitLines(blank) = %v, want nil", got)
	}
}

func TestFirstDuplicate(t *testing.T) {
	dup, found := FirstDuplicate([]string{"a", "b", "a", "c", "b"})
	if !found || dup != "a" {
		t.Errorf("FirstDuplicate() = %q, %v, want %q, true", dup, found, "a")
	}

	if _, found := FirstDuplicate([]string{"a", "b", "c"}); found {
		t.Error("FirstDuplicate() found a duplicate in unique input")
	}
}

package utils

import (
	"reflect"
	"testing"
)

func TestSplitTags(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", []string{}},
		{"NORTH_INDIAN", []string{"NORTH_INDIAN"}},
		{"NORTH_INDIAN,SOUTH_INDIAN", []string{"NORTH_INDIAN", "SOUTH_INDIAN"}},
		{" NORTH_INDIAN , SOUTH_INDIAN ", []string{"NORTH_INDIAN", "SOUTH_INDIAN"}},
		{"NORTH_INDIAN,,NORTH_INDIAN", []string{"NORTH_INDIAN"}},
		{",,,", []string{}},
	}

	for _, tt := range tests {
		got := SplitTags(tt.input)
		if len(got) == 0 && len(tt.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitTags(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestGenerateRandomStringLength(t *testing.T) {
	for _, n := range []int{1, 10, 16} {
		if got := GenerateRandomString(n); len(got) != n {
			t.Errorf("GenerateRandomString(%d) length = %d", n, len(got))
		}
	}
}

func TestGetUUIDShape(t *testing.T) {
	a, b := GetUUID(), GetUUID()
	if len(a) != 36 {
		t.Errorf("GetUUID length = %d, want 36", len(a))
	}
	if a == b {
		t.Error("GetUUID returned the same value twice")
	}
}

func TestParseHelpers(t *testing.T) {
	if got := ParseFloat(" 18.52 "); got != 18.52 {
		t.Errorf("ParseFloat = %v", got)
	}
	if got := ParseFloat("bad"); got != 0 {
		t.Errorf("ParseFloat(bad) = %v, want 0", got)
	}
	if got := ParseInt(" 42 "); got != 42 {
		t.Errorf("ParseInt = %v", got)
	}
}

package validator

import (
	"testing"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidUUID(t *testing.T) {
	valid := []string{
		"123e4567-e89b-42d3-a456-426614174000",
		"0188D0F2-7B8C-4B4A-8A2B-6B8B8B8B8B8B",
	}
	invalid := []string{
		"0188d0f27b8c4b4a8a2b6b8b8b8b8b8b", // missing dashes
		"g188d0f2-7b8c-4b4a-8a2b-6b8b8b8b8b8b", // invalid hex
		"", // empty
	}
	for _, uuid := range valid {
		if !IsValidUUID(uuid) {
			t.Errorf("IsValidUUID(%q) = false, want true", uuid)
		}
	}
	for _, uuid := range invalid {
		if IsValidUUID(uuid) {
			t.Errorf("IsValidUUID(%q) = true, want false", uuid)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2023-01-01", "2000-12-31"}
	invalid := []string{"2023-13-01", "01-01-2023", "not-a-date", ""}
	for _, s := range valid {
		if _, ok := IsValidDate(s); !ok {
			t.Errorf("IsValidDate(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if _, ok := IsValidDate(s); ok {
			t.Errorf("IsValidDate(%q) = true, want false", s)
		}
	}
}

func TestIsInSlice(t *testing.T) {
	slice := []string{"web", "mobile"}
	if !IsInSlice("web", slice) {
		t.Error("IsInSlice(web) = false, want true")
	}
	if IsInSlice("kiosk", slice) {
		t.Error("IsInSlice(kiosk) = true, want false")
	}
}

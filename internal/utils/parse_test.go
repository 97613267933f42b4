package utils

import (
	"testing"
	"time"
)

// TestParseStringAs_String verifies strings are returned untouched.
func TestParseStringAs_String(t *testing.T) {
	got, err := ParseStringAs[string]("  keep spaces ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "  keep spaces " {
		t.Errorf("got %q", got)
	}
}

// TestParseStringAs_Bool covers the strconv.ParseBool spellings.
func TestParseStringAs_Bool(t *testing.T) {
	tests := []struct {
		input   string
		want    bool
		wantErr bool
	}{
		{"true", true, false},
		{" TRUE ", true, false},
		{"1", true, false},
		{"false", false, false},
		{"0", false, false},
		{"yes", false, true},
		{"", false, true},
	}
	for _, tt := range tests {
		got, err := ParseStringAs[bool](tt.input)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseStringAs[bool](%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseStringAs[bool](%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

// TestParseStringAs_Numbers covers ints, uints and floats.
func TestParseStringAs_Numbers(t *testing.T) {
	if got, err := ParseStringAs[int](" 42 "); err != nil || got != 42 {
		t.Errorf("ParseStringAs[int] = %v, %v", got, err)
	}
	if _, err := ParseStringAs[int]("4.2"); err == nil {
		t.Error("expected error for fractional int")
	}
	if _, err := ParseStringAs[int8]("300"); err == nil {
		t.Error("expected overflow error for int8")
	}
	if got, err := ParseStringAs[uint](" 7"); err != nil || got != 7 {
		t.Errorf("ParseStringAs[uint] = %v, %v", got, err)
	}
	if _, err := ParseStringAs[uint]("-1"); err == nil {
		t.Error("expected error for negative uint")
	}
	if got, err := ParseStringAs[float32]("0.7"); err != nil || got != 0.7 {
		t.Errorf("ParseStringAs[float32] = %v, %v", got, err)
	}
	if _, err := ParseStringAs[float64]("warm"); err == nil {
		t.Error("expected error for non-numeric float")
	}
}

// TestParseStringAs_Duration verifies Go duration syntax and bare seconds.
func TestParseStringAs_Duration(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Duration
		wantErr bool
	}{
		{"90s", 90 * time.Second, false},
		{"1m30s", 90 * time.Second, false},
		{"60", time.Minute, false},
		{"0", 0, false},
		{"soon", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseStringAs[time.Duration](tt.input)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseStringAs[Duration](%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseStringAs[Duration](%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

// TestParseStringAs_Unsupported verifies composite targets are rejected.
func TestParseStringAs_Unsupported(t *testing.T) {
	if _, err := ParseStringAs[[]string]("a,b"); err == nil {
		t.Fatal("expected error for slice target")
	}
}

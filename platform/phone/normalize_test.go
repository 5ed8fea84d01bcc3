package phone

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"international with plus", "+996700123456", "+996700123456", false},
		{"international without plus", "996700123456", "+996700123456", false},
		{"trunk prefix", "0700123456", "+996700123456", false},
		{"bare subscriber", "700123456", "+996700123456", false},
		{"spaces and dashes", "+996 700-12-34-56", "+996700123456", false},
		{"parentheses", "0(700)123456", "+996700123456", false},
		{"subscriber starting with 996", "996123456", "+996996123456", false},
		{"empty", "", "", true},
		{"whitespace only", "   ", "", true},
		{"too short", "70012345", "", true},
		{"too long", "7001234567", "", true},
		{"country code wrong length", "99670012345", "", true},
		{"letters only", "call me", "", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Normalize(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("Normalize(%q) = %q, want error", tc.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Normalize(%q) returned error: %v", tc.input, err)
			}
			if got != tc.want {
				t.Errorf("Normalize(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

// Normalizing an already canonical number must be a no-op.
func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"+996700123456", "0555987654", "700123456", "996222334455"}

	for _, input := range inputs {
		first, err := Normalize(input)
		if err != nil {
			t.Fatalf("Normalize(%q) returned error: %v", input, err)
		}
		second, err := Normalize(first)
		if err != nil {
			t.Fatalf("Normalize(%q) returned error: %v", first, err)
		}
		if first != second {
			t.Errorf("Normalize not idempotent for %q: %q != %q", input, first, second)
		}
	}
}

func TestIsValid(t *testing.T) {
	if !IsValid("0700123456") {
		t.Error("IsValid(0700123456) = false, want true")
	}
	if IsValid("12345") {
		t.Error("IsValid(12345) = true, want false")
	}
}

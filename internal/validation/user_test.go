package validation

import "testing"

func TestValidateUsername(t *testing.T) {
	valid := []string{"ann", "book_lover", "ann.b-42", "aBc"}
	for _, u := range valid {
		if err := ValidateUsername(u); err != nil {
			t.Errorf("ValidateUsername(%q) = %v, want nil", u, err)
		}
	}

	invalid := []string{"", "ab", "has space", "emoji😀name", "way-too-long-username-over-thirty-chars"}
	for _, u := range invalid {
		if err := ValidateUsername(u); err == nil {
			t.Errorf("ValidateUsername(%q) = nil, want error", u)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	valid := []string{"ann@example.com", "a.b+c@sub.domain.org"}
	for _, e := range valid {
		if err := ValidateEmail(e); err != nil {
			t.Errorf("ValidateEmail(%q) = %v, want nil", e, err)
		}
	}

	invalid := []string{"", "plainstring", "missing@tld", "two@@example.com", "spaces in@example.com"}
	for _, e := range invalid {
		if err := ValidateEmail(e); err == nil {
			t.Errorf("ValidateEmail(%q) = nil, want error", e)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("readmore1"); err != nil {
		t.Errorf("expected valid password, got %v", err)
	}

	invalid := []string{"ab1", "readmorebooks", "1234567890"}
	for _, pw := range invalid {
		if err := ValidatePassword(pw); err == nil {
			t.Errorf("ValidatePassword(%q) = nil, want error", pw)
		}
	}
}

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  hello  ", "hello"},
		{"line\x00break", "linebreak"},
		{"keeps\ttabs and\nnewlines", "keeps\ttabs and\nnewlines"},
		{"\x1b[31mred\x1b[0m", "[31mred[0m"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := SanitizeText(tt.in); got != tt.want {
			t.Errorf("SanitizeText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

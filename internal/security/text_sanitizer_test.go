package security

import "testing"

// TestTextSanitizer_StripsMarkup はタグが除去されることを検証する。
func TestTextSanitizer_StripsMarkup(t *testing.T) {
	s := NewTextSanitizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"プレーンテキストはそのまま", "Fridays, 3:30 PM - 5:00 PM", "Fridays, 3:30 PM - 5:00 PM"},
		{"scriptタグは除去", "Chess<script>alert(1)</script>", "Chess"},
		{"強調タグは除去されテキストは残る", "<b>Learn</b> strategies", "Learn strategies"},
		{"前後の空白は除去", "  Drama  ", "Drama"},
		{"空文字列", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Sanitize(tt.input); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestTextSanitizer_Idempotent は同一入力で同一出力となることを検証する。
func TestTextSanitizer_Idempotent(t *testing.T) {
	s := NewTextSanitizer()
	in := "Solve <em>challenging</em> problems"

	first := s.Sanitize(in)
	second := s.Sanitize(first)
	if first != second {
		t.Errorf("Sanitize is not idempotent: %q then %q", first, second)
	}
}

// TestEmailValidator_Valid はメールアドレス検証の許可・拒否を検証する。
func TestEmailValidator_Valid(t *testing.T) {
	v := NewEmailValidator()

	tests := []struct {
		email string
		want  bool
	}{
		{"new@mergington.edu", true},
		{"x@y.edu", true},
		{"first.last+club@mergington.edu", true},
		{"", false},
		{"not-an-email", false},
		{" padded@mergington.edu", false},
		{"Emma <emma@mergington.edu>", false},
		{"<img src=x onerror=alert(1)>@x.edu", false},
		{"a&b@mergington.edu", true},
		{"o'brien@mergington.edu", true},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			if got := v.Valid(tt.email); got != tt.want {
				t.Errorf("Valid(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

package security

import "testing"

func TestSanitize_PlainTextPassesThrough(t *testing.T) {
	s := NewReasonSanitizer()

	got := s.Sanitize("abusive stuff")
	if got != "abusive stuff" {
		t.Errorf("Sanitize() = %q, want %q", got, "abusive stuff")
	}
}

func TestSanitize_StripsHTMLTags(t *testing.T) {
	s := NewReasonSanitizer()

	cases := []struct {
		in   string
		want string
	}{
		{"<script>alert('x')</script>rude messages", "rude messages"},
		{"<b>harassment</b>", "harassment"},
		{"<img src=x onerror=alert(1)>spam", "spam"},
		{"he said <i>bad things</i>", "he said bad things"},
	}

	for _, c := range cases {
		if got := s.Sanitize(c.in); got != c.want {
			t.Errorf("Sanitize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSanitize_EmptyInput(t *testing.T) {
	s := NewReasonSanitizer()

	if got := s.Sanitize(""); got != "" {
		t.Errorf("Sanitize(\"\") = %q, want empty", got)
	}
}

func TestSanitize_TrimsWhitespace(t *testing.T) {
	s := NewReasonSanitizer()

	if got := s.Sanitize("  threats  "); got != "threats" {
		t.Errorf("Sanitize() = %q, want %q", got, "threats")
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	s := NewReasonSanitizer()

	in := "<p>repeated insults & threats</p>"
	once := s.Sanitize(in)
	twice := s.Sanitize(once)
	if once != twice {
		t.Errorf("Sanitize is not idempotent: %q != %q", once, twice)
	}
}

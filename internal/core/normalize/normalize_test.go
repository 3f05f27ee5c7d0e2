package normalize

import (
	"testing"
)

func TestText_Table(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		out  string
	}{
		{name: "identity", in: "hello world", out: "hello world"},
		{name: "invalid utf8 dropped", in: string([]byte{0xff, 'f', 'o', 'o', 0x80, ' ', 'b', 'a', 'r'}), out: "foo bar"},
		{name: "case fold", in: "VX ADD", out: "vx add"},
		{name: "zero widths", in: "加\u200b群\u200d", out: "加群"},
		{name: "combining marks", in: "x\u0301y", out: "xy"},
		{name: "fullwidth", in: "ＱＱ１２３４５", out: "qq12345"},
		{name: "digits kept", in: "q 5201314", out: "q 5201314"},
		{name: "whitespace", in: " \t a \n b   c \r\n ", out: "a b c"},
		{name: "controls", in: "a\x00b\x7fc\u0085d", out: "abcd"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Text(tc.in)
			if got != tc.out {
				t.Fatalf("Text(%q) = %q, want %q", tc.in, got, tc.out)
			}
			if again := Text(got); again != got {
				t.Fatalf("Text not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestCompact(t *testing.T) {
	t.Parallel()

	cases := []struct{ in, want string }{
		{"加 . 群 ， 123", "加群123"},
		{"V-X: abc_d", "vxabc_d"},
		{"", ""},
	}
	for _, c := range cases {
		if got := Compact(c.in); got != c.want {
			t.Fatalf("Compact(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSanitize_CleanInputUnchanged(t *testing.T) {
	t.Parallel()

	in := "line one\nline\ttwo 你好"
	if got := Sanitize(in); got != in {
		t.Fatalf("Sanitize changed clean input: %q", got)
	}
}

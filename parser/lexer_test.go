package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func scanAll(src string) []token {
	s := newScanner(src)
	var toks []token
	for {
		tok := s.next()
		toks = append(toks, tok)
		if tok.kind == kindEOF || tok.kind == kindInvalid {
			return toks
		}
	}
}

func TestScanIdentifier(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		name string
		in   string
		tok  token
	}{
		{"simple", "foo", token{kindIdent, "foo", 0}},
		{"underscore", "_foo", token{kindIdent, "_foo", 0}},
		{"digits", "foo123", token{kindIdent, "foo123", 0}},
		{"true", "true", token{kindTrue, "true", 0}},
		{"false", "false", token{kindFalse, "false", 0}},
		{"null", "null", token{kindNull, "null", 0}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			tok := newScanner(tc.in).next()
			assert.Equal(t, tc.tok, tok)
		})
	}
}

func TestScanNumber(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		name string
		in   string
		kind rune
		text string
	}{
		{"zero", "0", kindInt, "0"},
		{"positive", "42", kindInt, "42"},
		{"negative", "-42", kindInt, "-42"},
		{"decimal", "4.2", kindNum, "4.2"},
		{"exponent", "4e2", kindNum, "4e2"},
		{"exponent_sign", "4e-2", kindNum, "4e-2"},
		{"decimal_exponent", "4.2e+2", kindNum, "4.2e+2"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			tok := newScanner(tc.in).next()
			assert.Equal(t, tc.kind, tok.kind)
			assert.Equal(t, tc.text, tok.text)
		})
	}
}

func TestScanNumberInvalid(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"00", "01", "-00", "-0.", "1.", "1e", "1e+"} {
		t.Run(in, func(t *testing.T) {
			t.Parallel()
			tok := newScanner(in).next()
			assert.Equal(t, kindInvalid, tok.kind)
		})
	}
}

func TestScanString(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		name string
		in   string
		text string
	}{
		{"empty_dq", `""`, ""},
		{"simple_dq", `"hello"`, "hello"},
		{"empty_sq", `''`, ""},
		{"simple_sq", `'hello'`, "hello"},
		{"escape_quote_dq", `"a\"b"`, `a"b`},
		{"escape_quote_sq", `'a\'b'`, `a'b`},
		{"escapes", `"\b\f\n\r\t\/\\"`, "\b\f\n\r\t/\\"},
		{"unicode", `"foø"`, "foø"},
		{"surrogate_pair", `"\` + `uD83D\` + `uDE00"`, "\U0001F600"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			tok := newScanner(tc.in).next()
			assert.Equal(t, kindStr, tok.kind)
			assert.Equal(t, tc.text, tok.text)
		})
	}
}

func TestScanStringUnterminated(t *testing.T) {
	t.Parallel()
	tok := newScanner(`"abc`).next()
	assert.Equal(t, kindInvalid, tok.kind)
}

func TestScanBlankSpace(t *testing.T) {
	t.Parallel()
	s := newScanner("   \t\n\r  x")
	tok := s.next()
	assert.Equal(t, kindSpace, tok.kind)
	tok = s.next()
	assert.Equal(t, kindIdent, tok.kind)
	assert.Equal(t, "x", tok.text)
}

func TestScanPunctuation(t *testing.T) {
	t.Parallel()
	toks := scanAll("$.[]*?:,()!@<>=")
	want := []rune{'$', '.', '[', ']', '*', '?', ':', ',', '(', ')', '!', '@', '<', '>', '='}
	for i, r := range want {
		assert.Equal(t, r, toks[i].kind)
	}
	assert.Equal(t, kindEOF, toks[len(toks)-1].kind)
}

func TestSkipBlankSpace(t *testing.T) {
	t.Parallel()
	s := newScanner("   x")
	assert.Equal(t, 'x', s.skipBlank())
}

func TestPeekPastBlankSpace(t *testing.T) {
	t.Parallel()
	s := newScanner(" . ")
	assert.True(t, isBlank(s.current()))
	assert.Equal(t, '.', s.peekPastBlank())
}

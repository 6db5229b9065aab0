package grammar

//go:generate go tool errtrace -w .

import (
	"braces.dev/errtrace"

	"github.com/ghettovoice/gomailto/internal/constraints"
	"github.com/ghettovoice/gomailto/internal/errorutil"
)

const upperhex = "0123456789ABCDEF"

// Escape percent-encodes every byte of s for which shouldEscape returns true.
// A nil shouldEscape escapes everything outside the qchar set.
// Escaped bytes are emitted as '%' followed by two uppercase hex digits.
func Escape[T constraints.Byteseq](s T, shouldEscape func(byte) bool) T {
	if shouldEscape == nil {
		shouldEscape = shouldEscapeQChar
	}

	var cnt int
	for i := 0; i < len(s); i++ {
		if shouldEscape(s[i]) {
			cnt++
		}
	}
	if cnt == 0 {
		return s
	}

	buf := make([]byte, 0, len(s)+2*cnt)
	for i := 0; i < len(s); i++ {
		if c := s[i]; shouldEscape(c) {
			buf = append(buf, '%', upperhex[c>>4], upperhex[c&0xf])
		} else {
			buf = append(buf, c)
		}
	}
	return T(buf)
}

func shouldEscapeQChar(c byte) bool { return !IsQChar(c) }

// Unescape decodes percent-escaped sequences in s.
// A malformed escape (trailing '%', non-hex digits) is copied through
// unchanged, so Unescape is total and never fails.
func Unescape[T constraints.Byteseq](s T) T {
	var i int
	for ; i < len(s); i++ {
		if s[i] == '%' {
			break
		}
	}
	if i == len(s) {
		return s
	}

	buf := make([]byte, 0, len(s))
	buf = append(buf, s[:i]...)
	for i < len(s) {
		if c := s[i]; c == '%' && i+2 < len(s) && IsHexDig(s[i+1]) && IsHexDig(s[i+2]) {
			buf = append(buf, HexDigVal(s[i+1])<<4|HexDigVal(s[i+2]))
			i += 3
		} else {
			buf = append(buf, c)
			i++
		}
	}
	return T(buf)
}

// ErrBadEscape is returned by [CheckEscapes] for a malformed percent escape.
const ErrBadEscape errorutil.Error = "malformed percent encoding"

// CheckEscapes reports the first malformed percent escape in s.
// [Unescape] passes such sequences through unchanged; CheckEscapes exists for
// callers that want to reject them instead.
func CheckEscapes[T constraints.Byteseq](s T) error {
	for i := 0; i < len(s); i++ {
		if s[i] != '%' {
			continue
		}
		if i+2 >= len(s) || !IsHexDig(s[i+1]) || !IsHexDig(s[i+2]) {
			return errtrace.Wrap(errorutil.NewWrapperError(
				ErrBadEscape, "at offset %d: %q", i, string(s[i:min(i+3, len(s))])))
		}
		i += 2
	}
	return nil
}

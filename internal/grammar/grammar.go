// Package grammar implements the character-class rules of the mailto URI
// syntax (RFC 6068) on top of the generic URI rules of RFC 3986.
package grammar

// IsAlpha reports whether c is an ASCII letter.
func IsAlpha(c byte) bool { return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' }

// IsDigit reports whether c is an ASCII digit.
func IsDigit(c byte) bool { return '0' <= c && c <= '9' }

// IsAlphaNum reports whether c is an ASCII letter or digit.
func IsAlphaNum(c byte) bool { return IsAlpha(c) || IsDigit(c) }

// IsCharUnreserved reports whether c is in the RFC 3986 unreserved set.
func IsCharUnreserved(c byte) bool {
	return IsAlphaNum(c) || c == '-' || c == '.' || c == '_' || c == '~'
}

// IsSomeDelim reports whether c is in the mailto some-delims set.
// The set deliberately excludes '&' and '=', which delimit the query grammar.
func IsSomeDelim(c byte) bool {
	switch c {
	case '!', '$', '\'', '(', ')', '*', '+', ',', ';', ':', '@':
		return true
	}
	return false
}

// IsQChar reports whether c may appear literally in a header name or value.
func IsQChar(c byte) bool { return IsCharUnreserved(c) || IsSomeDelim(c) }

// IsAddrSpecChar reports whether c may appear literally in the percent-encoded
// recipient path segment. Narrower than qchar: recipients are addr-specs,
// not free text.
func IsAddrSpecChar(c byte) bool { return IsCharUnreserved(c) || c == '@' }

// IsHexDig reports whether c is a hexadecimal digit, either case.
func IsHexDig(c byte) bool {
	return IsDigit(c) || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

// HexDigVal returns the numeric value of the hexadecimal digit c.
// The result is unspecified when c is not a hex digit.
func HexDigVal(c byte) byte {
	switch {
	case c >= 'a':
		return c - 'a' + 10
	case c >= 'A':
		return c - 'A' + 10
	default:
		return c - '0'
	}
}

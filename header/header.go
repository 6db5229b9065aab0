// Package header implements the header field (hfield) of a mailto URI:
// one name/value pair from the query component, such as "subject=Hello".
package header

//go:generate go tool errtrace -w .

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"braces.dev/errtrace"

	"github.com/ghettovoice/gomailto/internal/constraints"
	"github.com/ghettovoice/gomailto/internal/errorutil"
	"github.com/ghettovoice/gomailto/internal/grammar"
	"github.com/ghettovoice/gomailto/internal/ioutil"
	"github.com/ghettovoice/gomailto/internal/types"
	"github.com/ghettovoice/gomailto/internal/util"
)

var (
	_ types.Renderer          = Header{}
	_ types.Equalable         = Header{}
	_ types.ValidFlag         = Header{}
	_ types.Cloneable[Header] = Header{}
)

// Error is a parsing error produced by this package.
type Error string

func (e Error) Error() string { return string(e) }

const (
	// ErrEmptyInput is returned when the input is zero-length.
	ErrEmptyInput Error = "empty input"
	// ErrMissingEquals is returned when no '=' byte is found in the input.
	ErrMissingEquals Error = "missing equals sign"
	// ErrEmptyName is returned when the name portion before '=' is empty.
	ErrEmptyName Error = "empty header name"
)

// Header is a single header field of a mailto URI.
// Name and Value hold decoded text. Two headers are equal when their names
// match case-insensitively and their values match exactly, see [Header.Equal].
type Header struct {
	Name  string
	Value string
}

// Subject returns a "subject" header with the given value.
func Subject(value string) Header { return Header{Name: "subject", Value: value} }

// Body returns a "body" header with the given value.
func Body(value string) Header { return Header{Name: "body", Value: value} }

// CC returns a "cc" header with the given value.
func CC(value string) Header { return Header{Name: "cc", Value: value} }

// BCC returns a "bcc" header with the given value.
func BCC(value string) Header { return Header{Name: "bcc", Value: value} }

// To returns a "to" header with the given value.
func To(value string) Header { return Header{Name: "to", Value: value} }

// InReplyTo returns an "in-reply-to" header with the given value.
func InReplyTo(value string) Header { return Header{Name: "in-reply-to", Value: value} }

// Parse parses a single hfield from the given input s (string or []byte).
// The field splits at the first '=' byte; further '=' bytes belong to the
// value. Both halves are percent-decoded independently and converted to text
// with invalid UTF-8 sequences replaced, never rejected.
func Parse[T constraints.Byteseq](s T) (Header, error) {
	if len(s) == 0 {
		return Header{}, errtrace.Wrap(ErrEmptyInput)
	}

	eq := strings.IndexByte(string(s), '=')
	switch eq {
	case -1:
		return Header{}, errtrace.Wrap(errorutil.NewWrapperError(ErrMissingEquals, "%q", string(s)))
	case 0:
		return Header{}, errtrace.Wrap(errorutil.NewWrapperError(ErrEmptyName, "%q", string(s)))
	}

	return Header{
		Name:  decodeText(string(s[:eq])),
		Value: decodeText(string(s[eq+1:])),
	}, nil
}

func decodeText(s string) string {
	return strings.ToValidUTF8(grammar.Unescape(s), string(utf8.RuneError))
}

func shouldEscapeQChar(c byte) bool { return !grammar.IsQChar(c) }

// RenderTo writes the header in wire form to the provided writer:
// percent-encoded name, literal '=', percent-encoded value.
func (hdr Header) RenderTo(w io.Writer) (num int, err error) {
	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	cw.Fprint(grammar.Escape(hdr.Name, shouldEscapeQChar), "=", grammar.Escape(hdr.Value, shouldEscapeQChar))
	return errtrace.Wrap2(cw.Result())
}

// Render returns the wire form of the header.
func (hdr Header) Render() string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	hdr.RenderTo(sb) //nolint:errcheck
	return sb.String()
}

// String returns the wire form of the header.
func (hdr Header) String() string { return hdr.Render() }

// Format implements fmt.Formatter for custom formatting of the header.
func (hdr Header) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		fmt.Fprint(f, hdr.String())
		return
	case 'q':
		fmt.Fprint(f, strconv.Quote(hdr.String()))
		return
	default:
		type hideMethods Header
		type Header hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), Header(hdr))
		return
	}
}

// Clone returns a copy of the header.
func (hdr Header) Clone() Header { return hdr }

// Key returns the case-folded name, the identity under which headers compare
// and hash. Use it as a map key where case-insensitive lookup is needed.
func (hdr Header) Key() string { return util.LCase(hdr.Name) }

// Equal compares this header with another for equality:
// names case-insensitively, values exactly.
func (hdr Header) Equal(val any) bool {
	var other Header
	switch v := val.(type) {
	case Header:
		other = v
	case *Header:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return util.EqFold(hdr.Name, other.Name) && hdr.Value == other.Value
}

// Is reports whether the header has the given name, compared case-insensitively.
func (hdr Header) Is(name string) bool { return util.EqFold(hdr.Name, name) }

// IsValid checks whether the header is syntactically valid.
func (hdr Header) IsValid() bool { return hdr.Name != "" }

// MarshalText implements [encoding.TextMarshaler].
func (hdr Header) MarshalText() ([]byte, error) {
	return []byte(hdr.Render()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (hdr *Header) UnmarshalText(text []byte) error {
	h, err := Parse(text)
	if err != nil {
		*hdr = Header{}
		return errtrace.Wrap(err)
	}
	*hdr = h
	return nil
}

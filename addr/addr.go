// Package addr implements parsing and rendering of bare email addresses
// (addr-spec: local-part "@" domain) as used in a mailto URI's path.
package addr

//go:generate go tool errtrace -w .

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"braces.dev/errtrace"

	"github.com/ghettovoice/gomailto/internal/constraints"
	"github.com/ghettovoice/gomailto/internal/errorutil"
	"github.com/ghettovoice/gomailto/internal/grammar"
	"github.com/ghettovoice/gomailto/internal/types"
	"github.com/ghettovoice/gomailto/internal/util"
)

var (
	_ types.Renderer  = Addr{}
	_ types.Equalable = Addr{}
	_ types.ValidFlag = Addr{}
)

// Error is a parsing error produced by this package.
type Error string

func (e Error) Error() string { return string(e) }

// ErrBadAddress is returned for any syntactically invalid address.
const ErrBadAddress Error = "invalid email address"

func newBadAddressErr(args ...any) error {
	return errorutil.NewWrapperError(ErrBadAddress, args...) //errtrace:skip
}

// Addr is a parsed email address. Both parts hold decoded text: the local
// part without surrounding quotes or escaping backslashes, the domain
// without brackets stripped (address literals keep theirs).
type Addr struct {
	Localpart string
	Domain    string
}

// Parse parses an addr-spec from the given input s (string or []byte).
// UTF-8 is allowed in both the local part and the domain.
func Parse[T constraints.Byteseq](s T) (Addr, error) {
	p := parser{s: string(s)}

	lp, err := p.localpart()
	if err != nil {
		return Addr{}, errtrace.Wrap(newBadAddressErr(err))
	}
	if !p.take('@') {
		return Addr{}, errtrace.Wrap(newBadAddressErr("expected @ in %q", p.s))
	}
	d, err := p.domain()
	if err != nil {
		return Addr{}, errtrace.Wrap(newBadAddressErr(err))
	}
	if !p.empty() {
		return Addr{}, errtrace.Wrap(newBadAddressErr("remaining after domain: %q", p.rest()))
	}
	return Addr{Localpart: lp, Domain: d}, nil
}

// String packs the address back into addr-spec form. A local part that is
// not a valid dot-string is emitted as a quoted-string.
func (a Addr) String() string {
	if a.IsZero() {
		return ""
	}

	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	a.packLocalpart(sb)
	sb.WriteString("@")
	sb.WriteString(a.Domain)
	return sb.String()
}

func (a Addr) packLocalpart(sb *strings.Builder) {
	if isDotString(a.Localpart) {
		sb.WriteString(a.Localpart)
		return
	}
	sb.WriteString(`"`)
	for i := 0; i < len(a.Localpart); i++ {
		if c := a.Localpart[i]; c == '"' || c == '\\' {
			sb.WriteString(`\`)
			sb.WriteByte(c)
		} else {
			sb.WriteByte(a.Localpart[i])
		}
	}
	sb.WriteString(`"`)
}

// RenderTo writes the packed address to the provided writer.
func (a Addr) RenderTo(w io.Writer) (int, error) {
	return errtrace.Wrap2(io.WriteString(w, a.String()))
}

// Render returns the string representation of the address.
func (a Addr) Render() string { return a.String() }

// Format implements fmt.Formatter for custom formatting of the address.
func (a Addr) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		fmt.Fprint(f, a.String())
		return
	case 'q':
		fmt.Fprint(f, strconv.Quote(a.String()))
		return
	default:
		type hideMethods Addr
		type Addr hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), Addr(a))
		return
	}
}

// Equal compares this address with another for equality.
// The local part compares exactly, the domain case-insensitively.
func (a Addr) Equal(val any) bool {
	var other Addr
	switch v := val.(type) {
	case Addr:
		other = v
	case *Addr:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return a.Localpart == other.Localpart && util.EqFold(a.Domain, other.Domain)
}

// IsZero checks whether the address is empty.
func (a Addr) IsZero() bool { return a == Addr{} }

// IsValid checks whether the address is syntactically valid.
func (a Addr) IsValid() bool {
	if a.IsZero() {
		return false
	}
	a2, err := Parse(a.String())
	return err == nil && a == a2
}

// MarshalText implements [encoding.TextMarshaler].
func (a Addr) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (a *Addr) UnmarshalText(text []byte) error {
	a1, err := Parse(text)
	if err != nil {
		*a = Addr{}
		return errtrace.Wrap(err)
	}
	*a = a1
	return nil
}

// isAtext reports whether c may appear in an atom (RFC 5321 atext,
// with bytes above 0x7f allowed for UTF-8 addresses).
func isAtext(c byte) bool {
	if grammar.IsAlphaNum(c) || c > 0x7f {
		return true
	}
	switch c {
	case '!', '#', '$', '%', '&', '\'', '*', '+', '-', '/', '=', '?', '^', '_', '`', '{', '|', '}', '~':
		return true
	}
	return false
}

func isDotString(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, e := range strings.Split(s, ".") {
		if len(e) == 0 {
			return false
		}
		for i := 0; i < len(e); i++ {
			if !isAtext(e[i]) {
				return false
			}
		}
	}
	return true
}

type parser struct {
	s string
	o int
}

func (p *parser) empty() bool { return p.o == len(p.s) }

func (p *parser) rest() string { return p.s[p.o:] }

func (p *parser) peek() (byte, bool) {
	if p.empty() {
		return 0, false
	}
	return p.s[p.o], true
}

func (p *parser) take(c byte) bool {
	if b, ok := p.peek(); ok && b == c {
		p.o++
		return true
	}
	return false
}

func (p *parser) localpart() (string, error) {
	if c, ok := p.peek(); ok && c == '"' {
		return errtrace.Wrap2(p.quotedString())
	}
	return errtrace.Wrap2(p.dotString())
}

func (p *parser) dotString() (string, error) {
	start := p.o
	for {
		n := 0
		for {
			c, ok := p.peek()
			if !ok || !isAtext(c) {
				break
			}
			p.o++
			n++
		}
		if n == 0 {
			return "", errtrace.Wrap(errorutil.Errorf("empty atom at offset %d in %q", p.o, p.s))
		}
		if !p.take('.') {
			return p.s[start:p.o], nil
		}
	}
}

func (p *parser) quotedString() (string, error) {
	p.o++ // opening quote
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	for {
		c, ok := p.peek()
		if !ok {
			return "", errtrace.Wrap(errorutil.Errorf("unterminated quoted-string in %q", p.s))
		}
		p.o++
		switch {
		case c == '"':
			return sb.String(), nil
		case c == '\\':
			e, ok := p.peek()
			if !ok {
				return "", errtrace.Wrap(errorutil.Errorf("unterminated quoted-pair in %q", p.s))
			}
			p.o++
			sb.WriteByte(e)
		default:
			sb.WriteByte(c)
		}
	}
}

func (p *parser) domain() (string, error) {
	if c, ok := p.peek(); ok && c == '[' {
		return errtrace.Wrap2(p.addressLiteral())
	}

	start := p.o
	for {
		if err := p.label(); err != nil {
			return "", errtrace.Wrap(err)
		}
		if !p.take('.') {
			return p.s[start:p.o], nil
		}
	}
}

// label consumes one LDH label: no leading or trailing hyphen, at most 63
// bytes. Bytes above 0x7f are accepted for UTF-8 domains.
func (p *parser) label() error {
	start := p.o
	for {
		c, ok := p.peek()
		if !ok || !(grammar.IsAlphaNum(c) || c == '-' || c > 0x7f) {
			break
		}
		p.o++
	}
	l := p.s[start:p.o]
	switch {
	case len(l) == 0:
		return errtrace.Wrap(errorutil.Errorf("empty domain label at offset %d in %q", p.o, p.s))
	case len(l) > 63:
		return errtrace.Wrap(errorutil.Errorf("domain label exceeds 63 bytes in %q", p.s))
	case l[0] == '-' || l[len(l)-1] == '-':
		return errtrace.Wrap(errorutil.Errorf("domain label %q has leading or trailing hyphen", l))
	}
	return nil
}

func (p *parser) addressLiteral() (string, error) {
	start := p.o
	p.o++ // opening bracket
	for {
		c, ok := p.peek()
		if !ok {
			return "", errtrace.Wrap(errorutil.Errorf("unterminated address literal in %q", p.s))
		}
		p.o++
		if c == ']' {
			lit := p.s[start:p.o]
			if len(lit) == 2 {
				return "", errtrace.Wrap(errorutil.Errorf("empty address literal in %q", p.s))
			}
			return lit, nil
		}
	}
}

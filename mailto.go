package mailto

import (
	"fmt"
	"io"
	"slices"
	"strconv"

	"braces.dev/errtrace"

	"github.com/ghettovoice/gomailto/addr"
	"github.com/ghettovoice/gomailto/header"
	"github.com/ghettovoice/gomailto/internal/grammar"
	"github.com/ghettovoice/gomailto/internal/ioutil"
	"github.com/ghettovoice/gomailto/internal/types"
	"github.com/ghettovoice/gomailto/internal/util"
)

var (
	_ types.Renderer           = (*Mailto)(nil)
	_ types.Equalable          = (*Mailto)(nil)
	_ types.ValidFlag          = (*Mailto)(nil)
	_ types.Cloneable[*Mailto] = (*Mailto)(nil)
)

// Mailto represents a mailto URI: an ordered recipient list plus an ordered
// header list. Both may be empty and neither is deduplicated; accessor
// methods define which of duplicate headers wins.
//
// A struct literal is the explicit "assume valid" construction; [Parse] is
// the validating one. [Mailto.IsValid] re-checks a hand-built value.
type Mailto struct {
	To      []addr.Addr
	Headers []header.Header
}

// Clone returns a deep copy of the URI.
func (m *Mailto) Clone() *Mailto {
	if m == nil {
		return nil
	}
	return &Mailto{
		To:      slices.Clone(m.To),
		Headers: slices.Clone(m.Headers),
	}
}

// Subject returns the value of the first "subject" header, in list order.
func (m *Mailto) Subject() (string, bool) { return m.headerValue("subject") }

// Body returns the value of the first "body" header, in list order.
func (m *Mailto) Body() (string, bool) { return m.headerValue("body") }

func (m *Mailto) headerValue(name string) (string, bool) {
	if m == nil {
		return "", false
	}
	for _, hdr := range m.Headers {
		if hdr.Is(name) {
			return hdr.Value, true
		}
	}
	return "", false
}

// AllTo returns the To list concatenated with every "to" header whose value
// re-parses as an email address. Malformed entries are omitted.
func (m *Mailto) AllTo() []addr.Addr {
	if m == nil {
		return nil
	}
	return append(slices.Clone(m.To), m.headerAddrs("to")...)
}

// CC returns the addresses of all "cc" headers. Malformed entries are omitted.
func (m *Mailto) CC() []addr.Addr { return m.headerAddrs("cc") }

// BCC returns the addresses of all "bcc" headers. Malformed entries are omitted.
func (m *Mailto) BCC() []addr.Addr { return m.headerAddrs("bcc") }

func (m *Mailto) headerAddrs(name string) []addr.Addr {
	if m == nil {
		return nil
	}
	var addrs []addr.Addr
	for _, hdr := range m.Headers {
		if !hdr.Is(name) {
			continue
		}
		a, err := addr.Parse(hdr.Value)
		if err != nil {
			continue
		}
		addrs = append(addrs, a)
	}
	return addrs
}

func shouldEscapeAddrSpecChar(c byte) bool { return !grammar.IsAddrSpecChar(c) }

// RenderTo writes the URI in wire form to the provided writer.
//
// Recipients come from the To field only: addresses living in "to" headers
// are rendered in the query, not merged into the path. Round-tripping
// [Mailto.AllTo] into the path is the caller's responsibility.
func (m *Mailto) RenderTo(w io.Writer) (num int, err error) {
	if m == nil {
		return 0, nil
	}

	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	cw.Fprint(scheme)
	for i, a := range m.To {
		if i > 0 {
			cw.Fprint(",")
		}
		cw.Fprint(grammar.Escape(a.String(), shouldEscapeAddrSpecChar))
	}
	cw.Call(m.renderHeaders)
	return errtrace.Wrap2(cw.Result())
}

func (m *Mailto) renderHeaders(w io.Writer) (num int, err error) {
	if len(m.Headers) == 0 {
		return 0, nil
	}

	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	cw.Fprint("?")
	for i, hdr := range m.Headers {
		if i > 0 {
			cw.Fprint("&")
		}
		cw.Call(hdr.RenderTo)
	}
	return errtrace.Wrap2(cw.Result())
}

// Render returns the wire form of the URI.
func (m *Mailto) Render() string {
	if m == nil {
		return ""
	}
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	m.RenderTo(sb) //nolint:errcheck
	return sb.String()
}

// String returns the wire form of the URI.
func (m *Mailto) String() string {
	if m == nil {
		return ""
	}
	return m.Render()
}

// Format implements fmt.Formatter for custom formatting of the URI.
func (m *Mailto) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		if f.Flag('+') {
			m.RenderTo(f) //nolint:errcheck
			return
		}
		fmt.Fprint(f, m.String())
		return
	case 'q':
		fmt.Fprint(f, strconv.Quote(m.String()))
		return
	default:
		type hideMethods Mailto
		type Mailto hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), (*Mailto)(m))
		return
	}
}

// Equal compares this URI with another for equality: recipient lists and
// header lists component-wise and in order, with header names compared
// case-insensitively.
func (m *Mailto) Equal(val any) bool {
	var other *Mailto
	switch v := val.(type) {
	case Mailto:
		other = &v
	case *Mailto:
		other = v
	default:
		return false
	}

	if m == other {
		return true
	} else if m == nil || other == nil {
		return false
	}

	if len(m.To) != len(other.To) || len(m.Headers) != len(other.Headers) {
		return false
	}
	for i := range m.To {
		if !m.To[i].Equal(other.To[i]) {
			return false
		}
	}
	for i := range m.Headers {
		if !m.Headers[i].Equal(other.Headers[i]) {
			return false
		}
	}
	return true
}

// IsValid checks whether every recipient and header is syntactically valid.
func (m *Mailto) IsValid() bool {
	if m == nil {
		return false
	}
	for _, a := range m.To {
		if !a.IsValid() {
			return false
		}
	}
	for _, hdr := range m.Headers {
		if !hdr.IsValid() {
			return false
		}
	}
	return true
}

// MarshalText implements [encoding.TextMarshaler].
func (m *Mailto) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (m *Mailto) UnmarshalText(text []byte) error {
	m1, err := Parse(text)
	if err != nil {
		*m = Mailto{}
		return errtrace.Wrap(err)
	}
	*m = *m1
	return nil
}

package addr_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ghettovoice/gomailto/addr"
)

func TestParse(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		input    string
		wantAddr addr.Addr
		wantErr  error
	}{
		{"simple", "user@example.com", addr.Addr{Localpart: "user", Domain: "example.com"}, nil},
		{"dotted localpart", "first.last@example.com", addr.Addr{Localpart: "first.last", Domain: "example.com"}, nil},
		{
			"atext specials",
			"user+tag!#$%@example.com",
			addr.Addr{Localpart: "user+tag!#$%", Domain: "example.com"},
			nil,
		},
		{
			"quoted localpart",
			`"john doe"@example.com`,
			addr.Addr{Localpart: "john doe", Domain: "example.com"},
			nil,
		},
		{
			"quoted pair",
			`"say \"hi\""@example.com`,
			addr.Addr{Localpart: `say "hi"`, Domain: "example.com"},
			nil,
		},
		{
			"utf8 localpart",
			"Дуглас@example.com",
			addr.Addr{Localpart: "Дуглас", Domain: "example.com"},
			nil,
		},
		{
			"address literal",
			"user@[127.0.0.1]",
			addr.Addr{Localpart: "user", Domain: "[127.0.0.1]"},
			nil,
		},
		{"single label domain", "root@localhost", addr.Addr{Localpart: "root", Domain: "localhost"}, nil},

		{"empty", "", addr.Addr{}, addr.ErrBadAddress},
		{"no at", "user.example.com", addr.Addr{}, addr.ErrBadAddress},
		{"empty localpart", "@example.com", addr.Addr{}, addr.ErrBadAddress},
		{"empty domain", "user@", addr.Addr{}, addr.ErrBadAddress},
		{"empty domain label", "user@a..b", addr.Addr{}, addr.ErrBadAddress},
		{"domain leading hyphen", "user@-example.com", addr.Addr{}, addr.ErrBadAddress},
		{"space in localpart", "john doe@example.com", addr.Addr{}, addr.ErrBadAddress},
		{"two at signs", "user@host@example.com", addr.Addr{}, addr.ErrBadAddress},
		{"unterminated quote", `"john@example.com`, addr.Addr{}, addr.ErrBadAddress},
		{"empty address literal", "user@[]", addr.Addr{}, addr.ErrBadAddress},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			a, err := addr.Parse(c.input)
			if !errors.Is(err, c.wantErr) {
				t.Fatalf("addr.Parse(%q) error = %v, want %v", c.input, err, c.wantErr)
			}
			if diff := cmp.Diff(c.wantAddr, a); diff != "" {
				t.Errorf("addr.Parse(%q) mismatch (-want +got):\n%s", c.input, diff)
			}
		})
	}
}

func TestString(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		addr addr.Addr
		want string
	}{
		{"zero", addr.Addr{}, ""},
		{"simple", addr.Addr{Localpart: "user", Domain: "example.com"}, "user@example.com"},
		{
			"needs quoting",
			addr.Addr{Localpart: "john doe", Domain: "example.com"},
			`"john doe"@example.com`,
		},
		{
			"quote escaping",
			addr.Addr{Localpart: `a"b\c`, Domain: "example.com"},
			`"a\"b\\c"@example.com`,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got := c.addr.String(); got != c.want {
				t.Errorf("%#v.String() = %q, want %q", c.addr, got, c.want)
			}
		})
	}
}

func TestStringParseRoundTrip(t *testing.T) {
	t.Parallel()

	addrs := []addr.Addr{
		{Localpart: "user", Domain: "example.com"},
		{Localpart: "john doe", Domain: "example.com"},
		{Localpart: `say "hi"`, Domain: "example.com"},
		{Localpart: "user", Domain: "[127.0.0.1]"},
	}

	for _, a := range addrs {
		got, err := addr.Parse(a.String())
		if err != nil {
			t.Fatalf("addr.Parse(%q) error = %v", a.String(), err)
		}
		if diff := cmp.Diff(a, got); diff != "" {
			t.Errorf("round trip of %q mismatch (-want +got):\n%s", a.String(), diff)
		}
	}
}

func TestEqual(t *testing.T) {
	t.Parallel()

	a := addr.Addr{Localpart: "user", Domain: "example.com"}

	if !a.Equal(addr.Addr{Localpart: "user", Domain: "EXAMPLE.com"}) {
		t.Error("domain comparison must be case-insensitive")
	}
	if a.Equal(addr.Addr{Localpart: "User", Domain: "example.com"}) {
		t.Error("localpart comparison must be exact")
	}
	if a.Equal("user@example.com") {
		t.Error("Equal with non-addr value must be false")
	}
	if !a.Equal(&a) {
		t.Error("Equal must accept a pointer")
	}
}

func TestIsValid(t *testing.T) {
	t.Parallel()

	if (addr.Addr{}).IsValid() {
		t.Error("zero address must not be valid")
	}
	if !(addr.Addr{Localpart: "user", Domain: "example.com"}).IsValid() {
		t.Error("simple address must be valid")
	}
	if (addr.Addr{Localpart: "user", Domain: "exa mple.com"}).IsValid() {
		t.Error("domain with space must not be valid")
	}
}

// Package dns provides the DNS lookups used to check whether a recipient
// domain can receive mail.
package dns

//go:generate go tool errtrace -w .
//go:generate go tool mockgen -destination ../internal/testutil/dnsmock/exchanger.go -package dnsmock github.com/ghettovoice/gomailto/dns Exchanger

import (
	"cmp"
	"context"
	"net"
	"slices"
	"time"

	"braces.dev/errtrace"
	"github.com/miekg/dns"
)

// Exchanger performs a synchronous DNS query. *dns.Client implements it.
type Exchanger interface {
	ExchangeContext(ctx context.Context, m *dns.Msg, addr string) (*dns.Msg, time.Duration, error)
}

// Resolver wraps net.Resolver with an MX lookup.
type Resolver struct {
	net.Resolver

	// NameServer specifies the DNS server address (e.g., "8.8.8.8:53").
	// If empty, the system's default resolver configuration is used.
	NameServer string
	// Timeout specifies the timeout for DNS queries.
	// If zero, defaults to 5 seconds.
	Timeout time.Duration
	// Client overrides the client used for raw DNS queries.
	// If nil, a dns.Client with the configured timeout is used.
	Client Exchanger
}

func (r *Resolver) LookupIP(ctx context.Context, network, host string) ([]net.IP, error) {
	ips, err := r.Resolver.LookupIP(ctx, network, host)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	for i, ip := range ips {
		if ip4 := ip.To4(); ip4 != nil {
			ips[i] = ip4
		}
	}
	return ips, nil
}

// MX represents an MX DNS record.
type MX struct {
	// Preference specifies the preference among records for the same domain.
	// Lower values are preferred.
	Preference uint16
	// Host is the mail exchanger host name.
	Host string
}

// LookupMX queries MX records for the given domain.
// Returns records sorted by Preference (ascending).
// A domain without MX records may still receive mail via its address records
// (RFC 5321 implicit MX); callers should fall back to [Resolver.LookupIP].
func (r *Resolver) LookupMX(ctx context.Context, domain string) ([]*MX, error) {
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(domain), dns.TypeMX)
	m.RecursionDesired = true

	nameserver, err := r.nameserver()
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	resp, _, err := r.client().ExchangeContext(ctx, m, nameserver)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	if resp.Rcode != dns.RcodeSuccess {
		return nil, errtrace.Wrap(&net.DNSError{
			Err:        dns.RcodeToString[resp.Rcode],
			Name:       domain,
			IsNotFound: resp.Rcode == dns.RcodeNameError,
		})
	}

	recs := make([]*MX, 0, len(resp.Answer))
	for _, ans := range resp.Answer {
		if rr, ok := ans.(*dns.MX); ok {
			recs = append(recs, &MX{
				Preference: rr.Preference,
				Host:       rr.Mx,
			})
		}
	}

	slices.SortFunc(recs, func(a, b *MX) int {
		if c := cmp.Compare(a.Preference, b.Preference); c != 0 {
			return c
		}
		return cmp.Compare(a.Host, b.Host)
	})

	return recs, nil
}

func (r *Resolver) client() Exchanger {
	if r.Client != nil {
		return r.Client
	}
	return &dns.Client{Timeout: r.timeout()}
}

func (r *Resolver) timeout() time.Duration {
	if r.Timeout > 0 {
		return r.Timeout
	}
	return 5 * time.Second
}

func (r *Resolver) nameserver() (string, error) {
	if r.NameServer != "" {
		if _, _, err := net.SplitHostPort(r.NameServer); err != nil {
			return net.JoinHostPort(r.NameServer, "53"), nil //nolint:nilerr
		}
		return r.NameServer, nil
	}

	conf, err := dns.ClientConfigFromFile("/etc/resolv.conf")
	if err != nil {
		return "", errtrace.Wrap(err)
	}
	if len(conf.Servers) == 0 {
		return "", errtrace.Wrap(&net.DNSError{
			Err:  "no DNS servers configured",
			Name: "resolv.conf",
		})
	}

	return net.JoinHostPort(conf.Servers[0], conf.Port), nil
}

var defResolver = &Resolver{}

func DefaultResolver() *Resolver { return defResolver }

func LookupIP(ctx context.Context, host string) ([]net.IP, error) {
	return errtrace.Wrap2(defResolver.LookupIP(ctx, "ip", host))
}

func LookupMX(ctx context.Context, domain string) ([]*MX, error) {
	return errtrace.Wrap2(defResolver.LookupMX(ctx, domain))
}

package dns_test

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	miekgdns "github.com/miekg/dns"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"

	"github.com/ghettovoice/gomailto/dns"
	"github.com/ghettovoice/gomailto/internal/testutil/dnsmock"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func mxRR(pref uint16, host string) miekgdns.RR {
	return &miekgdns.MX{
		Hdr: miekgdns.RR_Header{
			Name:   "example.com.",
			Rrtype: miekgdns.TypeMX,
			Class:  miekgdns.ClassINET,
			Ttl:    300,
		},
		Preference: pref,
		Mx:         host,
	}
}

func TestLookupMX(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)

	resp := new(miekgdns.Msg)
	resp.Answer = []miekgdns.RR{
		mxRR(20, "mx2.example.com."),
		mxRR(10, "mx1.example.com."),
		mxRR(20, "mx0.example.com."),
	}

	client := dnsmock.NewMockExchanger(ctrl)
	client.EXPECT().
		ExchangeContext(gomock.Any(), gomock.Any(), "127.0.0.1:5353").
		Return(resp, time.Millisecond, nil).
		Times(1)

	r := &dns.Resolver{NameServer: "127.0.0.1:5353", Client: client}
	recs, err := r.LookupMX(context.Background(), "example.com")
	if err != nil {
		t.Fatalf("LookupMX() error = %v", err)
	}

	want := []*dns.MX{
		{Preference: 10, Host: "mx1.example.com."},
		{Preference: 20, Host: "mx0.example.com."},
		{Preference: 20, Host: "mx2.example.com."},
	}
	if diff := cmp.Diff(want, recs); diff != "" {
		t.Errorf("LookupMX() mismatch (-want +got):\n%s", diff)
	}
}

func TestLookupMXNotFound(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)

	resp := new(miekgdns.Msg)
	resp.Rcode = miekgdns.RcodeNameError

	client := dnsmock.NewMockExchanger(ctrl)
	client.EXPECT().
		ExchangeContext(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(resp, time.Millisecond, nil).
		Times(1)

	r := &dns.Resolver{NameServer: "127.0.0.1", Client: client}
	_, err := r.LookupMX(context.Background(), "nxdomain.example")

	var dnsErr *net.DNSError
	if !errors.As(err, &dnsErr) || !dnsErr.IsNotFound {
		t.Fatalf("LookupMX() error = %v, want not-found *net.DNSError", err)
	}
}

func TestLookupMXExchangeError(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)

	wantErr := errors.New("network unreachable")
	client := dnsmock.NewMockExchanger(ctrl)
	client.EXPECT().
		ExchangeContext(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, time.Duration(0), wantErr).
		Times(1)

	r := &dns.Resolver{NameServer: "127.0.0.1:5353", Client: client}
	if _, err := r.LookupMX(context.Background(), "example.com"); !errors.Is(err, wantErr) {
		t.Fatalf("LookupMX() error = %v, want %v", err, wantErr)
	}
}

func TestNameServerDefaultPort(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)

	client := dnsmock.NewMockExchanger(ctrl)
	client.EXPECT().
		ExchangeContext(gomock.Any(), gomock.Any(), "127.0.0.1:53").
		Return(new(miekgdns.Msg), time.Millisecond, nil).
		Times(1)

	r := &dns.Resolver{NameServer: "127.0.0.1", Client: client}
	if _, err := r.LookupMX(context.Background(), "example.com"); err != nil {
		t.Fatalf("LookupMX() error = %v", err)
	}
}

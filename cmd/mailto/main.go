// Command mailto parses mailto URIs, prints their structure and optionally
// checks recipient domains for mail exchangers.
//
// Usage:
//
//	mailto [-strict] [-render] [-check-mx] [-dev] URI...
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	mailto "github.com/ghettovoice/gomailto"
	"github.com/ghettovoice/gomailto/dns"
	"github.com/ghettovoice/gomailto/log"
)

var (
	strict  = flag.Bool("strict", false, "fail on malformed recipients, header fields and percent escapes")
	render  = flag.Bool("render", false, "print the re-rendered wire form of each URI")
	checkMX = flag.Bool("check-mx", false, "look up MX records for every recipient domain")
	dev     = flag.Bool("dev", false, "use the developer logger")
	timeout = flag.Duration("timeout", 5*time.Second, "timeout for DNS lookups")
)

func main() {
	flag.Parse()
	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: mailto [flags] URI...")
		flag.PrintDefaults()
		os.Exit(2)
	}

	logger := log.Def
	if *dev {
		logger = log.Dev
	}

	code := 0
	for _, arg := range flag.Args() {
		if !run(logger, arg) {
			code = 1
		}
	}
	os.Exit(code)
}

func run(logger *slog.Logger, raw string) bool {
	parse := mailto.Parse[string]
	if *strict {
		parse = mailto.ParseStrict[string]
	}

	m, err := parse(raw)
	if err != nil {
		logger.Error("parse failed", "input", raw, "error", err)
		return false
	}

	logger.Info("parsed", "mailto", m)
	for _, a := range m.AllTo() {
		logger.Info("recipient", "addr", a)
	}
	if subj, ok := m.Subject(); ok {
		logger.Info("subject", "value", subj)
	}
	if body, ok := m.Body(); ok {
		logger.Info("body", "value", body)
	}
	for _, a := range m.CC() {
		logger.Info("cc", "addr", a)
	}
	for _, a := range m.BCC() {
		logger.Info("bcc", "addr", a)
	}

	if *render {
		fmt.Println(m.Render())
	}

	if *checkMX {
		return checkRecipients(logger, m)
	}
	return true
}

func checkRecipients(logger *slog.Logger, m *mailto.Mailto) bool {
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	ok := true
	for _, domain := range recipientDomains(m) {
		recs, err := dns.LookupMX(ctx, domain)
		if err == nil && len(recs) == 0 {
			// RFC 5321 implicit MX: fall back to address records.
			_, err = dns.LookupIP(ctx, domain)
		}
		if err != nil {
			logger.Error("no mail exchanger", "domain", domain, "error", err)
			ok = false
			continue
		}
		logger.Info("mail exchanger found", "domain", domain, "mx", len(recs))
	}
	return ok
}

func recipientDomains(m *mailto.Mailto) []string {
	var domains []string
	seen := map[string]bool{}
	for _, a := range append(m.AllTo(), append(m.CC(), m.BCC()...)...) {
		d := strings.ToLower(a.Domain)
		if d == "" || strings.HasPrefix(d, "[") || seen[d] {
			continue
		}
		seen[d] = true
		domains = append(domains, d)
	}
	return domains
}

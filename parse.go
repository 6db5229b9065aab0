package mailto

import (
	"strings"
	"unicode/utf8"

	"braces.dev/errtrace"

	"github.com/ghettovoice/gomailto/addr"
	"github.com/ghettovoice/gomailto/header"
	"github.com/ghettovoice/gomailto/internal/constraints"
	"github.com/ghettovoice/gomailto/internal/errorutil"
	"github.com/ghettovoice/gomailto/internal/grammar"
	"github.com/ghettovoice/gomailto/internal/util"
)

const scheme = "mailto:"

// Parse parses a mailto URI from the given input s (string or []byte).
//
// Parse fails only for structural reasons: empty input ([ErrEmptyInput]) or
// a missing scheme ([ErrMissingScheme]). A recipient that is not a valid
// addr-spec, or an hfield without '=' or with an empty name, is dropped from
// the result without error. See the package documentation for the trade-off
// and [ParseStrict] for the checking variant.
func Parse[T constraints.Byteseq](s T) (*Mailto, error) {
	return errtrace.Wrap2(parse(string(s), false))
}

// ParseStrict parses a mailto URI like [Parse], but surfaces the failures
// Parse swallows: [ErrInvalidPercentEncoding] for a malformed escape anywhere
// after the scheme, [ErrInvalidEmailAddress] for a malformed recipient and
// [ErrInvalidHeader] for a malformed hfield. The first failure aborts.
func ParseStrict[T constraints.Byteseq](s T) (*Mailto, error) {
	return errtrace.Wrap2(parse(string(s), true))
}

func parse(s string, strict bool) (*Mailto, error) {
	if len(s) == 0 {
		return nil, errtrace.Wrap(ErrEmptyInput)
	}
	if len(s) < len(scheme) || !util.EqFold(s[:len(scheme)], scheme) {
		return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrMissingScheme, "%q", s))
	}

	rest := s[len(scheme):]
	if strict {
		if err := grammar.CheckEscapes(rest); err != nil {
			return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidPercentEncoding, err))
		}
	}

	// The first unescaped '?' switches from path to query; later '?' bytes
	// belong to the query.
	path := rest
	var query string
	if i := strings.IndexByte(rest, '?'); i >= 0 {
		path, query = rest[:i], rest[i+1:]
	}

	m := &Mailto{}
	if len(path) > 0 {
		// Decode first, then split: an escaped comma separates recipients
		// exactly like a literal one.
		for _, seg := range strings.Split(grammar.Unescape(path), ",") {
			seg = util.TrimWSP(seg)
			if seg == "" {
				continue
			}
			a, err := addr.Parse(strings.ToValidUTF8(seg, string(utf8.RuneError)))
			if err != nil {
				if strict {
					return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidEmailAddress, err))
				}
				continue
			}
			m.To = append(m.To, a)
		}
	}
	if len(query) > 0 {
		for _, fld := range strings.Split(query, "&") {
			if fld == "" {
				continue
			}
			hdr, err := header.Parse(fld)
			if err != nil {
				if strict {
					return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidHeader, err))
				}
				continue
			}
			m.Headers = append(m.Headers, hdr)
		}
	}
	return m, nil
}

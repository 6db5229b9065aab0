// Package mailto implements parsing and rendering of mailto URIs (RFC 6068).
//
// A mailto URI designates one or more email recipients plus associated
// header fields such as subject and body:
//
//	mailtoURI = "mailto:" [ to ] [ "?" hfields ]
//	to        = addr-spec *( "," addr-spec )
//	hfields   = hfield *( "&" hfield )
//	hfield    = hfname "=" hfvalue
//
// [Parse] follows the lenient wire contract: only an empty input or a
// missing "mailto:" scheme fails the parse, while malformed individual
// recipients and header fields are silently dropped from the result. The
// caller therefore cannot distinguish "no recipients present" from "all
// recipients malformed"; use [ParseStrict] when per-item failures must
// surface as errors.
//
// Recipient addresses are handled by the [github.com/ghettovoice/gomailto/addr]
// package, header fields by [github.com/ghettovoice/gomailto/header].
package mailto

//go:generate go tool errtrace -w .

package mailto

// Error is a parsing error produced by this package.
type Error string

func (e Error) Error() string { return string(e) }

const (
	// ErrEmptyInput is returned when the input is zero-length.
	ErrEmptyInput Error = "empty input"
	// ErrMissingScheme is returned when the input does not start with the
	// "mailto:" scheme, compared case-insensitively.
	ErrMissingScheme Error = "missing mailto scheme"

	// ErrInvalidEmailAddress is returned by [ParseStrict] for a malformed
	// recipient. [Parse] drops such recipients silently.
	ErrInvalidEmailAddress Error = "invalid email address"
	// ErrInvalidHeader is returned by [ParseStrict] for a malformed header
	// field. [Parse] drops such fields silently.
	ErrInvalidHeader Error = "invalid header field"
	// ErrInvalidPercentEncoding is returned by [ParseStrict] for a malformed
	// percent escape. [Parse] passes such escapes through undecoded.
	ErrInvalidPercentEncoding Error = "invalid percent encoding"
)

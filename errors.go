package miniply

import "errors"

var (
	// ErrOpenFailed is wrapped around the underlying os.Open error when
	// Open cannot open the named file.
	ErrOpenFailed = errors.New("miniply: could not open file")

	// ErrReadFailed is wrapped around the underlying I/O error when the
	// source fails while the header is being read.
	ErrReadFailed = errors.New("miniply: could not read file")

	// ErrMalformedHeader reports a header that violates the PLY grammar:
	// missing magic, unknown format or type token, or a truncated or
	// negative declaration.
	ErrMalformedHeader = errors.New("miniply: malformed header")
)

package strutil

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

var (
	// ErrUnknownEncoding is returned for encoding names no registry knows.
	ErrUnknownEncoding = errors.New("unknown encoding")

	// ErrDecode is returned when data is not valid in the requested encoding.
	ErrDecode = errors.New("cannot decode")

	// ErrEncode is returned when text cannot be represented in the requested encoding.
	ErrEncode = errors.New("cannot encode")

	// ErrNoEncodings is returned by DecodeAny when called without encodings.
	ErrNoEncodings = errors.New("no encodings given")
)

// x/text only offers 7-bit ASCII as a windows-1252 superset, so ASCII is
// checked by hand.
var asciiNames = map[string]bool{
	"ascii":          true,
	"us-ascii":       true,
	"us":             true,
	"646":            true,
	"ansi_x3.4-1968": true,
	"iso646-us":      true,
}

func isASCII(name string) bool {
	return asciiNames[strings.ToLower(strings.TrimSpace(name))]
}

func isUTF8(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "utf-8", "utf8", "u8", "utf":
		return true
	}
	return false
}

// LookupEncoding resolves an encoding name against the IANA registry, then
// the WHATWG label set. ASCII names resolve to the strict ASCII encoding.
func LookupEncoding(name string) (encoding.Encoding, error) {
	if isASCII(name) {
		return ASCII, nil
	}
	if isUTF8(name) {
		return unicode.UTF8, nil
	}
	if e, err := ianaindex.IANA.Encoding(name); err == nil && e != nil {
		return e, nil
	}
	if e, err := htmlindex.Get(name); err == nil && e != nil {
		return e, nil
	}
	return nil, fmt.Errorf("%q: %w", name, ErrUnknownEncoding)
}

// ValidEncoding reports whether name is a known encoding.
func ValidEncoding(name string) bool {
	_, err := LookupEncoding(name)
	return err == nil
}

// Decode converts data in encoding enc to a string, failing on any byte
// sequence that is not valid in enc.
func Decode(data []byte, enc string) (string, error) {
	if isASCII(enc) {
		for i, b := range data {
			if b >= utf8.RuneSelf {
				return "", fmt.Errorf("%s: byte 0x%02x at offset %d: %w", enc, b, i, ErrDecode)
			}
		}
		return string(data), nil
	}
	e, err := LookupEncoding(enc)
	if err != nil {
		return "", err
	}
	if e == unicode.UTF8 {
		if !utf8.Valid(data) {
			return "", fmt.Errorf("%s: invalid sequence: %w", enc, ErrDecode)
		}
		return string(data), nil
	}
	out, err := e.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("%s: %v: %w", enc, err, ErrDecode)
	}
	// x/text decoders substitute U+FFFD instead of failing.
	if bytes.ContainsRune(out, utf8.RuneError) {
		return "", fmt.Errorf("%s: invalid sequence: %w", enc, ErrDecode)
	}
	return string(out), nil
}

// DecodeLenient converts data in encoding enc to a string, replacing invalid
// sequences with U+FFFD. Unknown encodings fall back to UTF-8.
func DecodeLenient(data []byte, enc string) string {
	if isASCII(enc) || isUTF8(enc) {
		return strings.ToValidUTF8(string(data), string(utf8.RuneError))
	}
	e, err := LookupEncoding(enc)
	if err != nil || e == unicode.UTF8 {
		return strings.ToValidUTF8(string(data), string(utf8.RuneError))
	}
	out, err := e.NewDecoder().Bytes(data)
	if err != nil {
		return strings.ToValidUTF8(string(data), string(utf8.RuneError))
	}
	return string(out)
}

// DecodeAny tries each distinct encoding in order and returns the first
// successful decode. When all of them fail the first failure is returned.
func DecodeAny(data []byte, encs ...string) (string, error) {
	if len(encs) == 0 {
		return "", ErrNoEncodings
	}
	seen := make(map[string]bool, len(encs))
	var firstErr error
	for _, enc := range encs {
		if seen[enc] {
			continue
		}
		seen[enc] = true
		s, err := Decode(data, enc)
		if err == nil {
			return s, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return "", firstErr
}

// Encode converts s to bytes in encoding enc, failing on the first rune enc
// cannot represent.
func Encode(s, enc string) ([]byte, error) {
	if isASCII(enc) {
		for i, r := range s {
			if r >= utf8.RuneSelf {
				return nil, fmt.Errorf("%s: %q at offset %d: %w", enc, r, i, ErrEncode)
			}
		}
		return []byte(s), nil
	}
	e, err := LookupEncoding(enc)
	if err != nil {
		return nil, err
	}
	if e == unicode.UTF8 {
		return []byte(s), nil
	}
	out, err := e.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("%s: %v: %w", enc, err, ErrEncode)
	}
	return out, nil
}

// encodeIgnoring encodes s rune by rune, dropping runes enc cannot represent.
func encodeIgnoring(s, enc string) ([]byte, error) {
	if out, err := Encode(s, enc); err == nil {
		return out, nil
	} else if errors.Is(err, ErrUnknownEncoding) {
		return nil, err
	}
	var buf bytes.Buffer
	for _, r := range s {
		if b, err := Encode(string(r), enc); err == nil {
			buf.Write(b)
		}
	}
	return buf.Bytes(), nil
}

type flusher interface {
	Flush() error
}

// WriteSafe writes s followed by newline to w in encoding enc. Runes that
// enc cannot represent are skipped rather than failing the write.
func WriteSafe(w io.Writer, s, enc, newline string) error {
	data, err := encodeIgnoring(strings.ToValidUTF8(s+newline, ""), enc)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	if f, ok := w.(flusher); ok {
		return f.Flush()
	}
	return nil
}

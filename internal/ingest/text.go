package ingest

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// fallbacks are tried in order when the bytes are not valid UTF-8.
var fallbacks = []struct {
	name string
	enc  encoding.Encoding
}{
	{"windows-1252", charmap.Windows1252},
	{"iso-8859-1", charmap.ISO8859_1},
}

// Decode converts raw statement bytes to UTF-8. Valid UTF-8 is used as is;
// otherwise Windows-1252 is tried, then ISO-8859-1. Binary content is rejected.
func Decode(data []byte) (string, error) {
	if bytes.IndexByte(data, 0) >= 0 {
		return "", fmt.Errorf("%w: binary content", ErrEncoding)
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data), nil
	}
	for _, fb := range fallbacks {
		out, err := fb.enc.NewDecoder().Bytes(data)
		if err != nil {
			continue
		}
		if s := string(out); !strings.ContainsRune(s, utf8.RuneError) {
			return s, nil
		}
	}
	return "", ErrEncoding
}

// TextExtractor reads plain-text statements.
type TextExtractor struct{}

// Format returns the file extension handled.
func (e *TextExtractor) Format() string { return "txt" }

// Extract decodes the whole stream.
func (e *TextExtractor) Extract(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading text: %w", err)
	}
	return Decode(data)
}

// Package decode turns raw document bytes into plain text: UTF-8 with a
// Windows-1252 fallback for legacy exports, and visible-text stripping
// for HTML inputs.
package decode

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Encoding names reported in input metadata.
const (
	EncodingUTF8        = "utf-8"
	EncodingWindows1252 = "windows-1252"
)

// Text decodes b as UTF-8; when the bytes are invalid UTF-8 or decoding
// produces replacement characters, it falls back to Windows-1252 (which
// never fails, every byte maps). Returns the text and the encoding used.
func Text(b []byte) (string, string) {
	if utf8.Valid(b) {
		s := string(b)
		if !strings.ContainsRune(s, utf8.RuneError) {
			return s, EncodingUTF8
		}
	}

	decoded, err := charmap.Windows1252.NewDecoder().Bytes(b)
	if err != nil {
		// Windows-1252 decoding cannot fail on arbitrary input; keep
		// the lossy UTF-8 interpretation if it somehow does.
		return string(b), EncodingUTF8
	}
	return string(decoded), EncodingWindows1252
}

package core

// streaming.go builds the decoding reader chain in front of the CSV parser.
//
// Spreadsheet exports arrive in whatever encoding the author's Excel used.
// The chain is, in order:
//
//   - BOM override: a UTF-8 or UTF-16 byte-order mark wins and is stripped
//   - fallback decoder chosen by charset detection when no BOM is present
//   - ill-formed UTF-8 replacement, so a stray byte never fails the parse
//
// Everything is a transform.Reader over the upload bytes, so the file is
// decoded while csv.Reader consumes it rather than converted up front.

import (
	"bytes"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// detectSampleSize bounds how much of the file charset detection inspects.
const detectSampleSize = 64 << 10

// NewDecodingReader returns a reader yielding UTF-8 text for data.
func NewDecodingReader(data []byte) io.Reader {
	fallback := DetectEncoding(data)
	return transform.NewReader(bytes.NewReader(data), transform.Chain(
		unicode.BOMOverride(fallback.NewDecoder()),
		runes.ReplaceIllFormed(),
	))
}

// DetectEncoding guesses the text encoding of data. Valid UTF-8 (which
// includes plain ASCII) is trusted without asking the detector.
func DetectEncoding(data []byte) encoding.Encoding {
	sample := data
	if len(sample) > detectSampleSize {
		sample = sample[:detectSampleSize]
	}
	if validUTF8Prefix(sample) {
		return unicode.UTF8
	}

	result, err := chardet.NewTextDetector().DetectBest(sample)
	if err != nil || result == nil {
		return charmap.Windows1252
	}

	switch strings.ToUpper(result.Charset) {
	case "UTF-8":
		return unicode.UTF8
	case "UTF-16LE":
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	case "UTF-16BE":
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	case "ISO-8859-1":
		return charmap.ISO8859_1
	case "ISO-8859-15":
		return charmap.ISO8859_15
	default:
		// Excel on Windows writes cp1252 for "CSV (Comma delimited)".
		return charmap.Windows1252
	}
}

// validUTF8Prefix reports whether sample is valid UTF-8, forgiving a rune
// cut in half by the sample boundary.
func validUTF8Prefix(sample []byte) bool {
	if utf8.Valid(sample) {
		return true
	}
	for cut := 1; cut < utf8.UTFMax && cut <= len(sample); cut++ {
		if utf8.Valid(sample[:len(sample)-cut]) {
			return !utf8.FullRune(sample[len(sample)-cut:])
		}
	}
	return false
}

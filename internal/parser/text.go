package parser

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DecodeLayoutText decodes a UTF-16 layout entry. A byte-order mark selects
// the byte order (little-endian when absent) and any leading U+FEFF left in
// the text is stripped.
func DecodeLayoutText(data []byte) (string, error) {
	if len(data)%2 != 0 {
		return "", fmt.Errorf("odd byte count %d is not valid UTF-16", len(data))
	}

	dec := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
	out, err := dec.Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decoding UTF-16: %w", err)
	}

	return strings.TrimLeft(string(out), "\ufeff"), nil
}

// StripUTF8BOM removes a leading UTF-8 byte-order mark.
func StripUTF8BOM(data []byte) []byte {
	return bytes.TrimPrefix(data, utf8BOM)
}

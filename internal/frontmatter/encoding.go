package frontmatter

import (
	"bytes"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// NormalizeUTF8 strips a UTF-8 byte order mark and transcodes UTF-16
// content (detected by BOM) to UTF-8. Content without a BOM is returned
// unchanged.
func NormalizeUTF8(content []byte) ([]byte, error) {
	switch {
	case bytes.HasPrefix(content, bomUTF8):
		return content[len(bomUTF8):], nil
	case bytes.HasPrefix(content, bomUTF16LE):
		return decodeUTF16(content, unicode.LittleEndian)
	case bytes.HasPrefix(content, bomUTF16BE):
		return decodeUTF16(content, unicode.BigEndian)
	}
	return content, nil
}

// HasBOM reports whether content starts with a recognized byte order mark
func HasBOM(content []byte) bool {
	return bytes.HasPrefix(content, bomUTF8) ||
		bytes.HasPrefix(content, bomUTF16LE) ||
		bytes.HasPrefix(content, bomUTF16BE)
}

func decodeUTF16(content []byte, endianness unicode.Endianness) ([]byte, error) {
	enc := unicode.UTF16(endianness, unicode.UseBOM)
	reader := transform.NewReader(bytes.NewReader(content), enc.NewDecoder())
	return io.ReadAll(reader)
}

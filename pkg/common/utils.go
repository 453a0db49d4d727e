package common

import (
	"fmt"
	"io"
	"strings"

	"github.com/q191201771/naza/pkg/bele"
)

// ValidateMagic checks that id starts with one of the accepted identifiers and
// returns the one that matched
func ValidateMagic(id []byte, accepted ...string) (string, error) {
	for _, want := range accepted {
		if len(id) >= len(want) && string(id[:len(want)]) == want {
			return want, nil
		}
	}
	n := len(id)
	if n > 8 {
		n = 8
	}
	return "", fmt.Errorf("invalid header: expected one of %q, got '%s'", accepted, string(id[:n]))
}

// TrimIdentifier converts a fixed width, space or NUL padded field to a string
func TrimIdentifier(field []byte) string {
	return strings.TrimRight(string(field), " \x00")
}

// ReadUint16BE reads a uint16 in big-endian format
func ReadUint16BE(reader io.Reader) (uint16, error) {
	buf, err := ReadBytes(reader, 2)
	if err != nil {
		return 0, err
	}
	return bele.BeUint16(buf), nil
}

// ReadUint32BE reads a uint32 in big-endian format
func ReadUint32BE(reader io.Reader) (uint32, error) {
	return bele.ReadBeUint32(reader)
}

// ReadBytes reads a specified number of bytes
func ReadBytes(reader io.Reader, count int) ([]byte, error) {
	buffer := make([]byte, count)
	n, err := io.ReadFull(reader, buffer)
	if err != nil {
		return nil, err
	}
	if n != count {
		return nil, fmt.Errorf("expected to read %d bytes, got %d", count, n)
	}
	return buffer, nil
}

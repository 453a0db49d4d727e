// Package common provides tests for utility functions
package common

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestValidateMagic(t *testing.T) {
	testCases := []struct {
		name     string
		id       []byte
		expected string
		hasError bool
	}{
		{"video cd", []byte("VIDEO_CD\x02\x01"), "VIDEO_CD", false},
		{"super video cd", []byte("SUPERVCD"), "SUPERVCD", false},
		{"hq video cd", []byte("HQ-VCD  "), "HQ-VCD  ", false},
		{"wrong format", []byte("ENTRYVCD"), "", true},
		{"case sensitive", []byte("video_cd"), "", true},
		{"too short", []byte("VIDEO"), "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ValidateMagic(tc.id, "VIDEO_CD", "SUPERVCD", "HQ-VCD  ")

			if tc.hasError {
				if err == nil {
					t.Errorf("ValidateMagic() should fail with header %q", tc.id)
					return
				}
				expectedMsg := "invalid header"
				if !bytes.Contains([]byte(err.Error()), []byte(expectedMsg)) {
					t.Errorf("Error message %q should contain %q", err.Error(), expectedMsg)
				}
				return
			}
			if err != nil {
				t.Errorf("ValidateMagic() failed: %v", err)
			}
			if got != tc.expected {
				t.Errorf("ValidateMagic() = %q, want %q", got, tc.expected)
			}
		})
	}
}

func TestTrimIdentifier(t *testing.T) {
	testCases := []struct {
		field    []byte
		expected string
	}{
		{[]byte("ALBUM   "), "ALBUM"},
		{[]byte("VOL\x00\x00\x00"), "VOL"},
		{[]byte("  LEAD"), "  LEAD"},
		{[]byte{}, ""},
	}

	for _, tc := range testCases {
		if got := TrimIdentifier(tc.field); got != tc.expected {
			t.Errorf("TrimIdentifier(%q) = %q, want %q", tc.field, got, tc.expected)
		}
	}
}

func TestReadUint16BE(t *testing.T) {
	testCases := []struct {
		name     string
		data     []byte
		expected uint16
		hasError bool
	}{
		{"normal value", []byte{0x12, 0x34}, 0x1234, false},
		{"zero value", []byte{0x00, 0x00}, 0x0000, false},
		{"max value", []byte{0xFF, 0xFF}, 0xFFFF, false},
		{"incomplete data", []byte{0x12}, 0, true},
		{"empty data", []byte{}, 0, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			reader := bytes.NewReader(tc.data)
			result, err := ReadUint16BE(reader)

			if tc.hasError {
				if err == nil {
					t.Errorf("ReadUint16BE() should fail with data %v", tc.data)
				}
			} else {
				if err != nil {
					t.Errorf("ReadUint16BE() failed: %v", err)
				}
				if result != tc.expected {
					t.Errorf("ReadUint16BE() = 0x%04X, want 0x%04X", result, tc.expected)
				}
			}
		})
	}
}

func TestReadUint32BE(t *testing.T) {
	testCases := []struct {
		name     string
		data     []byte
		expected uint32
		hasError bool
	}{
		{"normal value", []byte{0x12, 0x34, 0x56, 0x78}, 0x12345678, false},
		{"zero value", []byte{0x00, 0x00, 0x00, 0x00}, 0x00000000, false},
		{"max value", []byte{0xFF, 0xFF, 0xFF, 0xFF}, 0xFFFFFFFF, false},
		{"incomplete data", []byte{0x12, 0x34, 0x56}, 0, true},
		{"empty data", []byte{}, 0, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			reader := bytes.NewReader(tc.data)
			result, err := ReadUint32BE(reader)

			if tc.hasError {
				if err == nil {
					t.Errorf("ReadUint32BE() should fail with data %v", tc.data)
				}
			} else {
				if err != nil {
					t.Errorf("ReadUint32BE() failed: %v", err)
				}
				if result != tc.expected {
					t.Errorf("ReadUint32BE() = 0x%08X, want 0x%08X", result, tc.expected)
				}
			}
		})
	}
}

func TestReadBytes(t *testing.T) {
	testCases := []struct {
		name     string
		data     []byte
		count    int
		expected []byte
		hasError bool
	}{
		{"normal read", []byte{0x01, 0x02, 0x03, 0x04}, 3, []byte{0x01, 0x02, 0x03}, false},
		{"exact read", []byte{0x01, 0x02}, 2, []byte{0x01, 0x02}, false},
		{"zero read", []byte{0x01, 0x02}, 0, []byte{}, false},
		{"insufficient data", []byte{0x01, 0x02}, 3, nil, true},
		{"empty source", []byte{}, 1, nil, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			reader := bytes.NewReader(tc.data)
			result, err := ReadBytes(reader, tc.count)

			if tc.hasError {
				if err == nil {
					t.Errorf("ReadBytes() should fail when requesting %d bytes from %v", tc.count, tc.data)
				}
			} else {
				if err != nil {
					t.Errorf("ReadBytes() failed: %v", err)
				}
				if len(result) != len(tc.expected) {
					t.Errorf("ReadBytes() returned %d bytes, want %d", len(result), len(tc.expected))
				} else {
					for i, expected := range tc.expected {
						if result[i] != expected {
							t.Errorf("ReadBytes()[%d] = 0x%02X, want 0x%02X", i, result[i], expected)
						}
					}
				}
			}
		})
	}
}

// Test reading from binary data created with the same endianness
func TestReadFunctions_BinaryCompatibility(t *testing.T) {
	var buffer bytes.Buffer

	// Write test data using binary.Write
	test16 := uint16(0x1234)
	test32 := uint32(0x12345678)

	binary.Write(&buffer, binary.BigEndian, test16)
	binary.Write(&buffer, binary.BigEndian, test32)

	reader := bytes.NewReader(buffer.Bytes())

	// Read back using our functions
	read16, err := ReadUint16BE(reader)
	if err != nil {
		t.Fatalf("ReadUint16BE() failed: %v", err)
	}

	if read16 != test16 {
		t.Errorf("ReadUint16BE() = 0x%04X, want 0x%04X", read16, test16)
	}

	read32, err := ReadUint32BE(reader)
	if err != nil {
		t.Fatalf("ReadUint32BE() failed: %v", err)
	}

	if read32 != test32 {
		t.Errorf("ReadUint32BE() = 0x%08X, want 0x%08X", read32, test32)
	}
}

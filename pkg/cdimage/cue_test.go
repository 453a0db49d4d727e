package cdimage_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hansbonini/vcdtools/pkg/cdimage"
	"github.com/hansbonini/vcdtools/pkg/cdimage/cdimagetest"
)

const sampleCue = `FILE "disc.bin" BINARY
  TRACK 01 MODE2/2352
    INDEX 01 00:00:00
  TRACK 02 MODE2/2352
    INDEX 00 00:00:40
    INDEX 01 00:00:50
  TRACK 03 MODE2/2352
    INDEX 01 00:01:00
`

func TestParseCueSheet(t *testing.T) {
	sheet, err := cdimage.ParseCueSheet(strings.NewReader(sampleCue))
	if err != nil {
		t.Fatalf("ParseCueSheet() failed: %v", err)
	}
	if sheet.File != "disc.bin" {
		t.Errorf("File = %q, want %q", sheet.File, "disc.bin")
	}

	tracks := sheet.TrackTable(100)
	expected := []cdimage.Track{
		{Number: 1, Mode: "MODE2/2352", StartLSN: 0, Sectors: 50},
		{Number: 2, Mode: "MODE2/2352", StartLSN: 50, Sectors: 25},
		{Number: 3, Mode: "MODE2/2352", StartLSN: 75, Sectors: 25},
	}
	if len(tracks) != len(expected) {
		t.Fatalf("TrackTable() returned %d tracks, want %d", len(tracks), len(expected))
	}
	for i := range expected {
		if tracks[i] != expected[i] {
			t.Errorf("track %d = %+v, want %+v", i, tracks[i], expected[i])
		}
	}
}

func TestParseCueSheet_Errors(t *testing.T) {
	testCases := []struct {
		name string
		cue  string
	}{
		{"empty", ""},
		{"index before track", "FILE x.bin BINARY\nINDEX 01 00:00:00\n"},
		{"bad track number", "TRACK XX MODE2/2352\n"},
		{"bad msf", "TRACK 01 MODE2/2352\nINDEX 01 00:75:00\n"},
		{"unterminated quote", "FILE \"x.bin BINARY\nTRACK 01 AUDIO\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := cdimage.ParseCueSheet(strings.NewReader(tc.cue)); err == nil {
				t.Errorf("ParseCueSheet(%q) should fail", tc.cue)
			}
		})
	}
}

func TestOpen_WithCueSheet(t *testing.T) {
	dir := t.TempDir()
	if _, err := cdimagetest.NewBuilder(100).WriteFile(dir, "disc.bin"); err != nil {
		t.Fatal(err)
	}
	cuePath := filepath.Join(dir, "disc.cue")
	if err := os.WriteFile(cuePath, []byte(sampleCue), 0644); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{cuePath, filepath.Join(dir, "disc.bin")} {
		img, err := cdimage.Open(path, 0)
		if err != nil {
			t.Fatalf("Open(%q) failed: %v", path, err)
		}
		if img.CueSheet() != cuePath {
			t.Errorf("CueSheet() = %q, want %q", img.CueSheet(), cuePath)
		}
		if len(img.Tracks()) != 3 {
			t.Errorf("Tracks() returned %d tracks, want 3", len(img.Tracks()))
		}
		img.Close()
	}
}

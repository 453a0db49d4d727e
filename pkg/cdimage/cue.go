package cdimage

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/hansbonini/vcdtools/pkg/common"
)

// CueSheet is the subset of a cue sheet needed to build a track table
type CueSheet struct {
	File   string
	Tracks []CueTrack
}

// CueTrack is a TRACK block of a cue sheet
type CueTrack struct {
	Number int
	Mode   string
	Index1 uint32 // INDEX 01 in sectors from the start of the file
	Has1   bool
}

// LoadCueSheet parses the cue sheet at path
func LoadCueSheet(path string) (*CueSheet, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, common.FormatError(common.ErrFailedToReadCueSheet, err)
	}
	defer file.Close()

	return ParseCueSheet(file)
}

// ParseCueSheet parses FILE, TRACK and INDEX statements. Other statements are ignored.
func ParseCueSheet(r io.Reader) (*CueSheet, error) {
	sheet := &CueSheet{}
	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)

		switch strings.ToUpper(fields[0]) {
		case "FILE":
			name, err := quotedArgument(line[len(fields[0]):])
			if err != nil {
				return nil, common.FormatErrorString(common.ErrFailedToReadCueSheet, "line %d: %v", lineNo, err)
			}
			if sheet.File == "" {
				sheet.File = name
			}
		case "TRACK":
			if len(fields) < 3 {
				return nil, common.FormatErrorString(common.ErrFailedToReadCueSheet, "line %d: malformed TRACK", lineNo)
			}
			number, err := strconv.Atoi(fields[1])
			if err != nil || number < 1 || number > 99 {
				return nil, common.FormatErrorString(common.ErrFailedToReadCueSheet, "line %d: bad track number %q", lineNo, fields[1])
			}
			sheet.Tracks = append(sheet.Tracks, CueTrack{Number: number, Mode: strings.ToUpper(fields[2])})
		case "INDEX":
			if len(fields) < 3 || len(sheet.Tracks) == 0 {
				return nil, common.FormatErrorString(common.ErrFailedToReadCueSheet, "line %d: INDEX outside TRACK", lineNo)
			}
			index, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, common.FormatErrorString(common.ErrFailedToReadCueSheet, "line %d: bad index %q", lineNo, fields[1])
			}
			frames, err := parseCueMSF(fields[2])
			if err != nil {
				return nil, common.FormatErrorString(common.ErrFailedToReadCueSheet, "line %d: %v", lineNo, err)
			}
			if index == 1 {
				track := &sheet.Tracks[len(sheet.Tracks)-1]
				track.Index1 = frames
				track.Has1 = true
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, common.FormatError(common.ErrFailedToReadCueSheet, err)
	}
	if len(sheet.Tracks) == 0 {
		return nil, common.FormatErrorString(common.ErrFailedToReadCueSheet, "no tracks")
	}
	return sheet, nil
}

// TrackTable converts the sheet into a track table for an image of totalSectors
func (c *CueSheet) TrackTable(totalSectors uint32) []Track {
	var tracks []Track
	for _, t := range c.Tracks {
		if !t.Has1 {
			continue
		}
		tracks = append(tracks, Track{Number: t.Number, Mode: t.Mode, StartLSN: t.Index1})
	}
	for i := range tracks {
		end := totalSectors
		if i+1 < len(tracks) {
			end = tracks[i+1].StartLSN
		}
		if end > tracks[i].StartLSN {
			tracks[i].Sectors = end - tracks[i].StartLSN
		}
	}
	return tracks
}

// parseCueMSF converts decimal mm:ss:ff into a sector count
func parseCueMSF(s string) (uint32, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("bad MSF %q", s)
	}
	var v [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("bad MSF %q", s)
		}
		v[i] = n
	}
	if v[1] >= common.SecondsPerMinute || v[2] >= common.FramesPerSecond {
		return 0, fmt.Errorf("bad MSF %q", s)
	}
	return uint32(v[0]*common.FramesPerMinute + v[1]*common.FramesPerSecond + v[2]), nil
}

// quotedArgument returns the first argument of a statement, honouring quotes
func quotedArgument(rest string) (string, error) {
	rest = strings.TrimSpace(rest)
	if strings.HasPrefix(rest, `"`) {
		end := strings.Index(rest[1:], `"`)
		if end < 0 {
			return "", fmt.Errorf("unterminated quote")
		}
		return rest[1 : end+1], nil
	}
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return "", fmt.Errorf("missing file name")
	}
	return fields[0], nil
}

// Package pkg provides the processors behind the vcdtools commands: disc
// reports, playback control dumps, MPEG rips and ISO9660 extraction.
package pkg

import (
	"io"

	"github.com/hansbonini/vcdtools/pkg/vcdinfo"
	"github.com/hansbonini/vcdtools/pkg/vcdplayer"
)

// DiscReport describes a disc for the info command
type DiscReport struct {
	Path     string          `yaml:"path"`
	Summary  vcdinfo.Summary `yaml:"summary"`
	Tracks   []TrackReport   `yaml:"tracks"`
	Entries  []EntryReport   `yaml:"entries"`
	Segments []SegmentReport `yaml:"segments,omitempty"`
	LIDs     int             `yaml:"lids"`
}

// TrackReport is one MPEG track
type TrackReport struct {
	Number  int    `yaml:"number"`
	LSN     uint32 `yaml:"lsn"`
	MSF     string `yaml:"msf"`
	Sectors uint32 `yaml:"sectors"`
	PAL     bool   `yaml:"pal"`
}

// EntryReport is one entry point
type EntryReport struct {
	Number int    `yaml:"number"`
	Track  int    `yaml:"track"`
	LSN    uint32 `yaml:"lsn"`
	MSF    string `yaml:"msf"`
}

// SegmentReport is one segment play item
type SegmentReport struct {
	Number       int    `yaml:"number"`
	LSN          uint32 `yaml:"lsn"`
	Sectors      uint32 `yaml:"sectors"`
	Video        string `yaml:"video"`
	Continuation bool   `yaml:"continuation,omitempty"`
}

// ListReport describes one LID of the playback control graph
type ListReport struct {
	LID       uint16   `yaml:"lid"`
	Offset    uint16   `yaml:"offset"`
	Rejected  bool     `yaml:"rejected,omitempty"`
	Type      string   `yaml:"type"`
	Prev      string   `yaml:"prev,omitempty"`
	Next      string   `yaml:"next,omitempty"`
	Return    string   `yaml:"return,omitempty"`
	Default   string   `yaml:"default,omitempty"`
	Timeout   string   `yaml:"timeout,omitempty"`
	Wait      string   `yaml:"wait,omitempty"`
	Loop      string   `yaml:"loop,omitempty"`
	Items     []string `yaml:"items,omitempty"`
	Selection []string `yaml:"selections,omitempty"`
}

// RipStats summarizes a playback session written to a stream
type RipStats struct {
	Sectors  int64
	Bytes    int64
	Stills   int
	Skipped  int
	Commands int
	Titles   []string // title of every item played, in order
	Status   vcdplayer.ReadStatus
}

// Catalog is the disc view the reports are built from. *vcdinfo.Disc
// implements it.
type Catalog interface {
	Path() string
	Summary() vcdinfo.Summary

	NumTracks() int
	NumEntries() int
	NumSegments() int
	NumLIDs() int

	TrackStart(track int) uint32
	TrackSectors(track int) uint32
	IsPALTrack(track int) bool
	EntryLSN(n int) uint32
	EntryTrack(n int) int
	SegmentLSN(n int) uint32
	SegmentSectors(n int) uint32
	SegmentContent(n int) vcdinfo.SegmentContent

	LOTOffset(lid uint16) uint16
	Rejected(lid uint16) bool
	Descriptor(lid uint16) vcdinfo.Descriptor
	OffsetLID(ofs uint16) (uint16, bool)
}

// CatalogExporter renders disc reports
type CatalogExporter interface {
	BuildReport(disc Catalog) *DiscReport
	BuildPBCReport(disc Catalog) []ListReport
	ExportYAML(v interface{}, writer io.Writer) error
	ExportReport(report *DiscReport, writer io.Writer) error
	ExportPBC(lists []ListReport, writer io.Writer) error
}

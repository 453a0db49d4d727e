// Package pkg provides the processors behind the vcdtools commands.
// This file contains exporters for converting disc structures to YAML
// documents and text reports.
package pkg

import (
	"bufio"
	"fmt"
	"io"

	"github.com/hansbonini/vcdtools/pkg/common"
	"github.com/hansbonini/vcdtools/pkg/vcdinfo"
	"gopkg.in/yaml.v3"
)

// DiscExporter implements the CatalogExporter interface
type DiscExporter struct{}

// NewDiscExporter creates a new disc exporter instance
func NewDiscExporter() *DiscExporter {
	return &DiscExporter{}
}

// BuildReport collects the tracks, entries and segments of disc
func (e *DiscExporter) BuildReport(disc Catalog) *DiscReport {
	report := &DiscReport{
		Path:    disc.Path(),
		Summary: disc.Summary(),
		LIDs:    disc.NumLIDs(),
	}

	for t := 1; t <= disc.NumTracks(); t++ {
		lsn := disc.TrackStart(t)
		report.Tracks = append(report.Tracks, TrackReport{
			Number:  t,
			LSN:     lsn,
			MSF:     common.LSNToMSF(lsn),
			Sectors: disc.TrackSectors(t),
			PAL:     disc.IsPALTrack(t),
		})
	}

	for n := 0; n < disc.NumEntries(); n++ {
		lsn := disc.EntryLSN(n)
		report.Entries = append(report.Entries, EntryReport{
			Number: n,
			Track:  disc.EntryTrack(n),
			LSN:    lsn,
			MSF:    common.LSNToMSF(lsn),
		})
	}

	for n := 0; n < disc.NumSegments(); n++ {
		content := disc.SegmentContent(n)
		report.Segments = append(report.Segments, SegmentReport{
			Number:       n,
			LSN:          disc.SegmentLSN(n),
			Sectors:      disc.SegmentSectors(n),
			Video:        vcdinfo.VideoTypeName(content.VideoType),
			Continuation: content.Continuation,
		})
	}
	return report
}

// BuildPBCReport describes every LID of the disc, rejected ones included
func (e *DiscExporter) BuildPBCReport(disc Catalog) []ListReport {
	lists := make([]ListReport, 0, disc.NumLIDs())
	for n := 1; n <= disc.NumLIDs(); n++ {
		lid := uint16(n)
		report := ListReport{
			LID:      lid,
			Offset:   disc.LOTOffset(lid),
			Rejected: disc.Rejected(lid),
			Type:     "none",
		}

		switch d := disc.Descriptor(lid).(type) {
		case *vcdinfo.PlayList:
			report.Type = d.Type().String()
			report.Prev = edgeName(disc, d.PrevOffset)
			report.Next = edgeName(disc, d.NextOffset)
			report.Return = edgeName(disc, d.ReturnOffset)
			report.Wait = waitName(d.Wait)
			for _, id := range d.Items {
				report.Items = append(report.Items, vcdinfo.ClassifyItemID(id).String())
			}
		case *vcdinfo.SelectionList:
			report.Type = d.Type().String()
			report.Prev = edgeName(disc, d.PrevOffset)
			report.Next = edgeName(disc, d.NextOffset)
			report.Return = edgeName(disc, d.ReturnOffset)
			report.Default = edgeName(disc, d.DefaultOffset)
			report.Timeout = edgeName(disc, d.TimeoutOffset)
			report.Wait = waitName(d.Wait)
			report.Loop = loopName(d.MaxLoop, d.JumpDelayed)
			report.Items = []string{vcdinfo.ClassifyItemID(d.ItemID).String()}
			for i, ofs := range d.Offsets {
				report.Selection = append(report.Selection,
					fmt.Sprintf("%d: %s", int(d.BSN)+i, edgeName(disc, ofs)))
			}
		case *vcdinfo.EndList:
			report.Type = d.Type().String()
			if d.NextDisc > 0 {
				report.Next = fmt.Sprintf("disc %d", d.NextDisc)
			}
		case *vcdinfo.CommandList:
			report.Type = d.Type().String()
			for _, c := range d.Commands {
				report.Items = append(report.Items, fmt.Sprintf("command 0x%04x", c))
			}
		}
		lists = append(lists, report)
	}
	return lists
}

// edgeName renders a descriptor offset field, empty when disabled
func edgeName(disc Catalog, ofs uint16) string {
	switch ofs {
	case vcdinfo.OffsetDisabled:
		return ""
	case vcdinfo.OffsetMultiDefault, vcdinfo.OffsetMultiDefaultNum:
		return "multi-default"
	}
	if lid, ok := disc.OffsetLID(ofs); ok {
		return fmt.Sprintf("LID %d", lid)
	}
	return fmt.Sprintf("offset 0x%04x", ofs)
}

func waitName(code uint8) string {
	seconds := vcdinfo.WaitSeconds(code)
	if seconds == vcdinfo.WaitIndefinite {
		return "infinite"
	}
	return fmt.Sprintf("%ds", seconds)
}

func loopName(maxLoop uint8, jumpDelayed bool) string {
	name := fmt.Sprintf("%d", maxLoop)
	if maxLoop == 0 {
		name = "forever"
	}
	if jumpDelayed {
		name += ", delayed jump"
	}
	return name
}

// ExportYAML writes v as a YAML document
func (e *DiscExporter) ExportYAML(v interface{}, writer io.Writer) error {
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(2)

	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return encoder.Close()
}

// ExportReport writes the disc report as text
func (e *DiscExporter) ExportReport(report *DiscReport, writer io.Writer) error {
	w := bufio.NewWriter(writer)
	s := report.Summary

	fmt.Fprintf(w, "Disc:      %s\n", report.Path)
	fmt.Fprintf(w, "Format:    %s\n", s.Format)
	fmt.Fprintf(w, "Album:     %s\n", s.AlbumID)
	fmt.Fprintf(w, "Volume:    %d of %d (%s)\n", s.VolumeNumber, s.VolumeCount, s.VolumeID)
	if s.VolumeSetID != "" {
		fmt.Fprintf(w, "Set:       %s\n", s.VolumeSetID)
	}
	if s.Publisher != "" {
		fmt.Fprintf(w, "Publisher: %s\n", s.Publisher)
	}
	if s.Preparer != "" {
		fmt.Fprintf(w, "Preparer:  %s\n", s.Preparer)
	}

	fmt.Fprintf(w, "\nTracks (%d):\n", len(report.Tracks))
	for _, t := range report.Tracks {
		system := "NTSC"
		if t.PAL {
			system = "PAL"
		}
		fmt.Fprintf(w, "  %2d  LSN %6d  %s  %6d sectors  %s\n", t.Number, t.LSN, t.MSF, t.Sectors, system)
	}

	fmt.Fprintf(w, "\nEntries (%d):\n", len(report.Entries))
	for _, en := range report.Entries {
		fmt.Fprintf(w, "  %3d  track %2d  LSN %6d  %s\n", en.Number, en.Track, en.LSN, en.MSF)
	}

	if len(report.Segments) > 0 {
		fmt.Fprintf(w, "\nSegments (%d):\n", len(report.Segments))
		for _, seg := range report.Segments {
			line := fmt.Sprintf("  %4d  LSN %6d  %4d sectors  %s", seg.Number, seg.LSN, seg.Sectors, seg.Video)
			if seg.Continuation {
				line += " (continuation)"
			}
			fmt.Fprintln(w, line)
		}
	}

	if report.LIDs > 0 {
		fmt.Fprintf(w, "\nPlayback control: %d LIDs\n", report.LIDs)
	} else {
		fmt.Fprintln(w, "\nPlayback control: none")
	}
	return w.Flush()
}

// ExportPBC writes one block per LID
func (e *DiscExporter) ExportPBC(lists []ListReport, writer io.Writer) error {
	w := bufio.NewWriter(writer)

	for _, l := range lists {
		header := fmt.Sprintf("LID %d (offset 0x%04x): %s", l.LID, l.Offset, l.Type)
		if l.Rejected {
			header += ", rejected"
		}
		fmt.Fprintln(w, header)

		edges := []struct{ name, target string }{
			{"prev", l.Prev}, {"next", l.Next}, {"return", l.Return},
			{"default", l.Default}, {"timeout", l.Timeout},
		}
		for _, edge := range edges {
			if edge.target != "" {
				fmt.Fprintf(w, "  %-8s %s\n", edge.name+":", edge.target)
			}
		}
		if l.Wait != "" {
			fmt.Fprintf(w, "  %-8s %s\n", "wait:", l.Wait)
		}
		if l.Loop != "" {
			fmt.Fprintf(w, "  %-8s %s\n", "loop:", l.Loop)
		}
		for _, item := range l.Items {
			fmt.Fprintf(w, "  %-8s %s\n", "item:", item)
		}
		for _, sel := range l.Selection {
			fmt.Fprintf(w, "  %-8s %s\n", "select:", sel)
		}
	}
	return w.Flush()
}

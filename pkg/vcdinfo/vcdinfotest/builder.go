// Package vcdinfotest writes small synthetic VCD images for tests
package vcdinfotest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hansbonini/vcdtools/pkg/cdimage"
	"github.com/hansbonini/vcdtools/pkg/cdimage/cdimagetest"
	"github.com/hansbonini/vcdtools/pkg/common"
	"github.com/hansbonini/vcdtools/pkg/vcdinfo"
	"github.com/q191201771/naza/pkg/bele"
)

const (
	// every PSD record gets a slot of recordSlot bytes
	recordSlot       = 256
	offsetMultiplier = 8
	firstSegmentLSN  = 225
	maxPSDSectors    = firstSegmentLSN - vcdinfo.PSDLSN
)

// Offset returns the PSD offset the builder assigns to lid
func Offset(lid uint16) uint16 {
	return (lid - 1) * (recordSlot / offsetMultiplier)
}

// Track describes one MPEG track. Entries are sector offsets from the
// track start.
type Track struct {
	Sectors uint32
	Entries []uint32
}

// List is one LID of the PBC database
type List struct {
	Rejected   bool
	Descriptor vcdinfo.Descriptor
}

// Disc describes the image to write
type Disc struct {
	ID           string // vcdinfo.InfoIDVCD when empty
	Version      uint8
	Profile      uint8
	AlbumID      string
	VolumeCount  uint16
	VolumeNumber uint16
	VolumeID     string
	Segments     []vcdinfo.SegmentContent
	Tracks       []Track
	Lists        []List
	Padding      []uint32 // LSNs turned into padding sectors
	Unnamed      bool     // leave the control files out of the ISO9660 tree
	CueSheet     bool     // write <name>.cue next to the image
}

// SegmentLSN returns the start of segment n
func (d *Disc) SegmentLSN(n int) uint32 {
	return firstSegmentLSN + uint32(n)*vcdinfo.SegmentSectors
}

// TrackLSN returns the start of MPEG track t, counted from 1
func (d *Disc) TrackLSN(t int) uint32 {
	lsn := d.SegmentLSN(len(d.Segments))
	for i := 0; i < t-1 && i < len(d.Tracks); i++ {
		lsn += d.Tracks[i].Sectors
	}
	return lsn
}

// EntryLSN returns the start of entry n, numbered across all tracks
func (d *Disc) EntryLSN(n int) uint32 {
	for t, track := range d.Tracks {
		if n < len(track.Entries) {
			return d.TrackLSN(t+1) + track.Entries[n]
		}
		n -= len(track.Entries)
	}
	return 0
}

// TotalSectors returns the size of the image
func (d *Disc) TotalSectors() uint32 {
	return d.TrackLSN(len(d.Tracks) + 1)
}

// Write renders the image as dir/name and returns its path
func (d *Disc) Write(dir, name string) (string, error) {
	b := cdimagetest.NewBuilder(d.TotalSectors())
	b.SetVolume(d.VolumeID, "", "", "")

	id := d.ID
	if id == "" {
		id = vcdinfo.InfoIDVCD
	}
	folder, ext, entriesID := "VCD", "VCD", vcdinfo.EntriesIDVCD
	mpegFolder, mpegExt := "MPEGAV", "DAT"
	if id == vcdinfo.InfoIDSVCD {
		folder, ext, entriesID = "SVCD", "SVD", vcdinfo.EntriesIDSVCD
		mpegFolder, mpegExt = "MPEG2", "MPG"
	}

	psd, err := d.encodePSD()
	if err != nil {
		return "", err
	}

	b.SetForm1(vcdinfo.InfoLSN, d.encodeInfo(id, uint32(len(psd))))
	b.SetForm1(vcdinfo.EntriesLSN, d.encodeEntries(entriesID))
	if len(d.Lists) > 0 {
		b.SetForm1Range(vcdinfo.LOTLSN, d.encodeLOT())
		b.SetForm1Range(vcdinfo.PSDLSN, psd)
	}

	if !d.Unnamed {
		b.AddFile(folder, "INFO."+ext, vcdinfo.InfoLSN, cdimage.Form1DataSize)
		b.AddFile(folder, "ENTRIES."+ext, vcdinfo.EntriesLSN, cdimage.Form1DataSize)
		if len(d.Lists) > 0 {
			b.AddFile(folder, "LOT."+ext, vcdinfo.LOTLSN, vcdinfo.LOTSectors*cdimage.Form1DataSize)
			b.AddFile(folder, "PSD."+ext, vcdinfo.PSDLSN, uint32(len(psd)))
		}
		for t, track := range d.Tracks {
			name := fmt.Sprintf("AVSEQ%02d.%s", t+1, mpegExt)
			b.AddFile(mpegFolder, name, d.TrackLSN(t+1), track.Sectors*cdimage.Form1DataSize)
		}
		for n := range d.Segments {
			name := fmt.Sprintf("ITEM%04d.%s", n+1, mpegExt)
			b.AddFile("SEGMENT", name, d.SegmentLSN(n), vcdinfo.SegmentSectors*cdimage.Form1DataSize)
		}
	}

	b.FillMPEG(firstSegmentLSN, d.TotalSectors()-firstSegmentLSN)
	for _, lsn := range d.Padding {
		b.SetPadding(lsn)
	}

	path, err := b.WriteFile(dir, name)
	if err != nil {
		return "", err
	}
	if d.CueSheet {
		cuePath := strings.TrimSuffix(path, filepath.Ext(path)) + ".cue"
		if err := os.WriteFile(cuePath, []byte(d.cueSheet(name)), 0644); err != nil {
			return "", err
		}
	}
	return path, nil
}

func (d *Disc) encodeInfo(id string, psdSize uint32) []byte {
	data := make([]byte, cdimage.Form1DataSize)
	copy(data[0:8], id)
	data[8] = d.Version
	data[9] = d.Profile
	copy(data[10:26], fmt.Sprintf("%-16s", d.AlbumID))
	bele.BePutUint16(data[26:], d.VolumeCount)
	bele.BePutUint16(data[28:], d.VolumeNumber)
	bele.BePutUint32(data[44:], psdSize)

	lba := firstSegmentLSN + common.PregapSectors
	data[48] = common.IntToBCD(lba / common.FramesPerMinute)
	data[49] = common.IntToBCD(lba / common.FramesPerSecond % common.SecondsPerMinute)
	data[50] = common.IntToBCD(lba % common.FramesPerSecond)
	data[51] = offsetMultiplier

	bele.BePutUint16(data[52:], uint16(len(d.Lists)))
	bele.BePutUint16(data[54:], uint16(len(d.Segments)))
	for i, c := range d.Segments {
		data[56+i] = EncodeSegmentContent(c)
	}
	return data
}

// EncodeSegmentContent packs a segment content byte
func EncodeSegmentContent(c vcdinfo.SegmentContent) byte {
	b := c.OGT<<6 | (c.VideoType&0x07)<<2 | c.AudioType&0x03
	if c.Continuation {
		b |= 0x20
	}
	return b
}

func bcdMSF(lsn uint32) [3]byte {
	lba := int(lsn) + common.PregapSectors
	return [3]byte{
		common.IntToBCD(lba / common.FramesPerMinute),
		common.IntToBCD(lba / common.FramesPerSecond % common.SecondsPerMinute),
		common.IntToBCD(lba % common.FramesPerSecond),
	}
}

func (d *Disc) encodeEntries(id string) []byte {
	data := make([]byte, cdimage.Form1DataSize)
	copy(data[0:8], id)
	data[8] = d.Version
	data[9] = d.Profile

	pos, count := 12, 0
	for t, track := range d.Tracks {
		for _, ofs := range track.Entries {
			msf := bcdMSF(d.TrackLSN(t+1) + ofs)
			data[pos] = common.IntToBCD(t + 2)
			copy(data[pos+1:pos+4], msf[:])
			pos += 4
			count++
		}
	}
	bele.BePutUint16(data[10:], uint16(count))
	return data
}

func (d *Disc) encodeLOT() []byte {
	data := make([]byte, vcdinfo.LOTSectors*cdimage.Form1DataSize)
	for i := 2; i < len(data); i += 2 {
		bele.BePutUint16(data[i:], vcdinfo.OffsetDisabled)
	}
	for i, list := range d.Lists {
		ofs := Offset(uint16(i + 1))
		if list.Rejected {
			ofs = vcdinfo.OffsetDisabled
		}
		bele.BePutUint16(data[2+2*i:], ofs)
	}
	return data
}

func (d *Disc) encodePSD() ([]byte, error) {
	if len(d.Lists) == 0 {
		return nil, nil
	}
	psd := make([]byte, len(d.Lists)*recordSlot)
	if len(psd) > maxPSDSectors*cdimage.Form1DataSize {
		return nil, fmt.Errorf("%d lists do not fit the PSD area", len(d.Lists))
	}
	for i, list := range d.Lists {
		record := EncodeDescriptor(list.Descriptor, list.Rejected)
		if len(record) > recordSlot {
			return nil, fmt.Errorf("LID %d: record of %d bytes exceeds its slot", i+1, len(record))
		}
		copy(psd[i*recordSlot:], record)
	}
	return psd, nil
}

// EncodeDescriptor renders a PSD record
func EncodeDescriptor(descriptor vcdinfo.Descriptor, rejected bool) []byte {
	lidField := func(lid uint16) uint16 {
		if rejected {
			return lid | 0x8000
		}
		return lid
	}

	switch d := descriptor.(type) {
	case *vcdinfo.PlayList:
		record := make([]byte, 14+2*len(d.Items))
		record[0] = byte(vcdinfo.TypePlayList)
		record[1] = byte(len(d.Items))
		bele.BePutUint16(record[2:], lidField(d.LID))
		bele.BePutUint16(record[4:], d.PrevOffset)
		bele.BePutUint16(record[6:], d.NextOffset)
		bele.BePutUint16(record[8:], d.ReturnOffset)
		bele.BePutUint16(record[10:], d.PlayTime)
		record[12] = d.Wait
		record[13] = d.AutoWait
		for i, item := range d.Items {
			bele.BePutUint16(record[14+2*i:], item)
		}
		return record
	case *vcdinfo.SelectionList:
		size := 20 + 2*len(d.Offsets)
		if d.Extended {
			size += 4 * (4 + len(d.Offsets))
		}
		record := make([]byte, size)
		record[0] = byte(d.Type())
		if d.SelectionArea {
			record[1] |= 0x01
		}
		if d.CommandList {
			record[1] |= 0x02
		}
		record[2] = byte(len(d.Offsets))
		record[3] = d.BSN
		bele.BePutUint16(record[4:], lidField(d.LID))
		bele.BePutUint16(record[6:], d.PrevOffset)
		bele.BePutUint16(record[8:], d.NextOffset)
		bele.BePutUint16(record[10:], d.ReturnOffset)
		bele.BePutUint16(record[12:], d.DefaultOffset)
		bele.BePutUint16(record[14:], d.TimeoutOffset)
		record[16] = d.Wait
		record[17] = d.MaxLoop & 0x7f
		if d.JumpDelayed {
			record[17] |= 0x80
		}
		bele.BePutUint16(record[18:], d.ItemID)
		for i, ofs := range d.Offsets {
			bele.BePutUint16(record[20+2*i:], ofs)
		}
		if d.Extended {
			pos := 20 + 2*len(d.Offsets)
			areas := append([]vcdinfo.Area{d.PrevArea, d.NextArea, d.ReturnArea, d.DefaultArea}, d.Areas...)
			for _, a := range areas {
				record[pos], record[pos+1], record[pos+2], record[pos+3] = a.X1, a.Y1, a.X2, a.Y2
				pos += 4
			}
		}
		return record
	case *vcdinfo.EndList:
		record := make([]byte, 8)
		record[0] = byte(vcdinfo.TypeEndList)
		record[1] = d.NextDisc
		bele.BePutUint16(record[2:], d.ChangePicture)
		return record
	case *vcdinfo.CommandList:
		record := make([]byte, 5+2*len(d.Commands))
		record[0] = byte(vcdinfo.TypeCommandList)
		bele.BePutUint16(record[1:], uint16(len(d.Commands)))
		bele.BePutUint16(record[3:], lidField(d.LID))
		for i, c := range d.Commands {
			bele.BePutUint16(record[5+2*i:], c)
		}
		return record
	}
	return nil
}

func (d *Disc) cueSheet(name string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "FILE \"%s\" BINARY\n", name)
	sb.WriteString("  TRACK 01 MODE2/2352\n    INDEX 01 00:00:00\n")
	for t := range d.Tracks {
		lsn := d.TrackLSN(t + 1)
		fmt.Fprintf(&sb, "  TRACK %02d MODE2/2352\n    INDEX 01 %02d:%02d:%02d\n", t+2,
			lsn/common.FramesPerMinute, lsn/common.FramesPerSecond%common.SecondsPerMinute, lsn%common.FramesPerSecond)
	}
	return sb.String()
}

// TrackItemID, EntryItemID and SegmentItemID build PSD item ids
func TrackItemID(track int) uint16     { return uint16(track + 1) }
func EntryItemID(entry int) uint16     { return uint16(entry + 100) }
func SegmentItemID(segment int) uint16 { return uint16(segment + 1000) }

// Package vcdinfo decodes the control files of a Video CD or Super Video CD
// image: INFO, ENTRIES, LOT and PSD.
package vcdinfo

import (
	"errors"
	"fmt"

	"github.com/hansbonini/vcdtools/pkg/cdimage"
	"github.com/hansbonini/vcdtools/pkg/common"
	"github.com/q191201771/naza/pkg/nazaerrors"
)

// ErrNotVCD is returned by Open for images that do not hold a VCD or SVCD
var ErrNotVCD = errors.New("not a VCD or SVCD image")

type controlFiles struct {
	info, entries, lot, psd string
}

// Control file names in lookup order. When none is found the fixed
// sector addresses are used.
var controlFileSets = []controlFiles{
	{"/VCD/INFO.VCD", "/VCD/ENTRIES.VCD", "/VCD/LOT.VCD", "/VCD/PSD.VCD"},
	{"/SVCD/INFO.SVD", "/SVCD/ENTRIES.SVD", "/SVCD/LOT.SVD", "/SVCD/PSD.SVD"},
}

type trackExtent struct {
	start   uint32
	sectors uint32
}

// Disc is an opened VCD image. It is read only after Open.
type Disc struct {
	path    string
	img     *cdimage.Image
	info    *Info
	entries []Entry
	tracks  []trackExtent
	lot     []uint16
	offsets *OffsetTable
	summary Summary
}

// Open reads the control files of the image at path. cacheSectors sizes
// the sector cache of the underlying image.
func Open(path string, cacheSectors int) (*Disc, error) {
	img, err := cdimage.Open(path, cacheSectors)
	if err != nil {
		return nil, err
	}

	disc, err := load(path, img)
	if err != nil {
		img.Close()
		return nil, err
	}

	common.LogInfo(common.InfoDiscOpened, disc.Format(), path,
		disc.NumTracks(), disc.NumEntries(), disc.NumSegments(), disc.NumLIDs())
	return disc, nil
}

func load(path string, img *cdimage.Image) (*Disc, error) {
	if img.Layout() == cdimage.LayoutISO {
		return nil, fmt.Errorf("%s: %s image has no Form 2 sectors: %w", path, img.Layout(), ErrNotVCD)
	}
	if err := img.ValidateISO9660(); err != nil {
		return nil, fmt.Errorf("%s: %v: %w", path, err, ErrNotVCD)
	}

	disc := &Disc{path: path, img: img}
	files := disc.locateControlFiles()

	data, err := disc.readControlFile(files.info, InfoLSN, 1)
	if err != nil {
		return nil, common.FormatError(common.ErrFailedToReadInfo, err)
	}
	if disc.info, err = DecodeInfo(data); err != nil {
		return nil, err
	}

	if data, err = disc.readControlFile(files.entries, EntriesLSN, 1); err != nil {
		return nil, common.FormatError(common.ErrFailedToReadEntries, err)
	}
	entries, err := DecodeEntries(data)
	if err != nil {
		return nil, err
	}
	disc.entries = entries.List

	if disc.info.PSDSize > 0 && disc.info.MaxLID > 0 {
		if err := disc.loadPBC(files); err != nil {
			return nil, err
		}
	}

	disc.tracks = disc.buildTrackTable()
	disc.summary = disc.buildSummary()
	return disc, nil
}

func (d *Disc) locateControlFiles() controlFiles {
	for _, files := range controlFileSets {
		if _, err := d.img.FindFile(files.info); err == nil {
			common.LogDebugf(common.DbgVCDInfo, "control files under %s", files.info)
			return files
		}
	}
	common.LogDebugf(common.DbgVCDInfo, "no control files in the ISO9660 tree, using fixed addresses")
	return controlFiles{}
}

// readControlFile reads a named file, or sectors Form 1 sectors at lsn when
// the file is not named in the ISO9660 tree
func (d *Disc) readControlFile(path string, lsn uint32, sectors uint32) ([]byte, error) {
	if path != "" {
		entry, err := d.img.FindFile(path)
		if err == nil {
			return d.img.ReadFile(entry)
		}
		common.LogDebugf(common.DbgVCDInfo, "%s: %v, falling back to LSN %d", path, err, lsn)
	}
	data, err := d.img.ReadForm1Range(lsn, sectors)
	if err != nil {
		return nil, nazaerrors.Wrap(err)
	}
	return data, nil
}

func (d *Disc) loadPBC(files controlFiles) error {
	data, err := d.readControlFile(files.lot, LOTLSN, LOTSectors)
	if err != nil {
		return common.FormatError(common.ErrFailedToReadLOT, err)
	}
	if d.lot, err = DecodeLOT(data, d.info.MaxLID); err != nil {
		return err
	}

	psdSectors := common.GetSizeInSectors(d.info.PSDSize, cdimage.Form1DataSize)
	psd, err := d.readControlFile(files.psd, PSDLSN, psdSectors)
	if err != nil {
		return common.FormatError(common.ErrFailedToReadPSD, err)
	}
	if uint32(len(psd)) > d.info.PSDSize {
		psd = psd[:d.info.PSDSize]
	}

	d.offsets = buildOffsetTable(psd, d.info.OffsetMultiplier, d.lot)
	return nil
}

// buildTrackTable takes MPEG tracks from the cue sheet when there is one,
// otherwise each track starts at its first entry
func (d *Disc) buildTrackTable() []trackExtent {
	var tracks []trackExtent
	if cueTracks := d.img.Tracks(); len(cueTracks) > 0 {
		for _, t := range cueTracks {
			if t.Number >= 2 {
				tracks = append(tracks, trackExtent{start: t.StartLSN, sectors: t.Sectors})
			}
		}
		return tracks
	}

	if len(d.entries) == 0 {
		return nil
	}
	common.LogWarn(common.WarnTrackTableGuess, d.path)

	var starts []uint32
	for _, e := range d.entries {
		for len(starts) < e.Track {
			starts = append(starts, e.LSN)
		}
	}
	for i, start := range starts {
		end := d.img.TotalSectors()
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		if end < start {
			end = start
		}
		tracks = append(tracks, trackExtent{start: start, sectors: end - start})
	}
	return tracks
}

func (d *Disc) buildSummary() Summary {
	s := Summary{
		Format:       d.Format().String(),
		AlbumID:      d.info.AlbumID,
		VolumeCount:  int(d.info.VolumeCount),
		VolumeNumber: int(d.info.VolumeNumber),
	}
	if descriptor, err := d.img.ReadISODescriptor(); err == nil {
		s.VolumeID = common.TrimIdentifier(descriptor.VolumeID[:])
		s.VolumeSetID = common.TrimIdentifier(descriptor.VolumeSetIdentifier[:])
		s.Publisher = common.TrimIdentifier(descriptor.PublisherIdentifier[:])
		s.Preparer = common.TrimIdentifier(descriptor.DataPreparerIdentifier[:])
	}
	return s
}

// Close releases the image
func (d *Disc) Close() error {
	common.LogDebugf(common.DbgCDIO, common.InfoDiscClosed, d.path)
	return d.img.Close()
}

// Path returns the path the disc was opened with
func (d *Disc) Path() string { return d.path }

// Format returns the disc standard
func (d *Disc) Format() Format { return d.info.Format() }

// Summary returns the identification strings of the disc
func (d *Disc) Summary() Summary { return d.summary }

// TotalSectors returns the size of the image in sectors
func (d *Disc) TotalSectors() uint32 { return d.img.TotalSectors() }

// ReadMode2Sector reads the Form 2 payload at lsn
func (d *Disc) ReadMode2Sector(lsn uint32) (*cdimage.Mode2Sector, error) {
	return d.img.ReadMode2Sector(lsn)
}

func (d *Disc) NumTracks() int   { return len(d.tracks) }
func (d *Disc) NumEntries() int  { return len(d.entries) }
func (d *Disc) NumSegments() int { return len(d.info.Segments) }

// NumLIDs returns the number of list ids, 0 for discs without PBC
func (d *Disc) NumLIDs() int {
	if d.offsets == nil {
		return 0
	}
	return len(d.lot)
}

// HasPBC reports whether the disc carries playback control
func (d *Disc) HasPBC() bool { return d.NumLIDs() > 0 }

// TrackStart returns the first sector of an MPEG track
func (d *Disc) TrackStart(track int) uint32 {
	if track < 1 || track > len(d.tracks) {
		return 0
	}
	return d.tracks[track-1].start
}

// TrackSectors returns the length of an MPEG track
func (d *Disc) TrackSectors(track int) uint32 {
	if track < 1 || track > len(d.tracks) {
		return 0
	}
	return d.tracks[track-1].sectors
}

// TrackEnd returns the first sector after an MPEG track
func (d *Disc) TrackEnd(track int) uint32 {
	return d.TrackStart(track) + d.TrackSectors(track)
}

// IsPALTrack reports the PAL flag of an MPEG track
func (d *Disc) IsPALTrack(track int) bool { return d.info.IsPALTrack(track) }

// EntryLSN returns the start of entry n
func (d *Disc) EntryLSN(n int) uint32 {
	if n < 0 || n >= len(d.entries) {
		return 0
	}
	return d.entries[n].LSN
}

// EntryTrack returns the MPEG track entry n belongs to
func (d *Disc) EntryTrack(n int) int {
	if n < 0 || n >= len(d.entries) {
		return 0
	}
	return d.entries[n].Track
}

// EntrySectors runs to the next entry of the same track or to the end of
// the track
func (d *Disc) EntrySectors(n int) uint32 {
	if n < 0 || n >= len(d.entries) {
		return 0
	}
	start := d.entries[n].LSN
	track := d.entries[n].Track
	end := d.TrackEnd(track)
	if n+1 < len(d.entries) && d.entries[n+1].Track == track {
		end = d.entries[n+1].LSN
	}
	if end < start {
		return 0
	}
	return end - start
}

// EntryAt returns the last entry starting at or before lsn
func (d *Disc) EntryAt(lsn uint32) (int, bool) {
	found := -1
	for i, e := range d.entries {
		if e.LSN > lsn {
			break
		}
		found = i
	}
	return found, found >= 0
}

// TrackFirstEntry returns the first entry of an MPEG track
func (d *Disc) TrackFirstEntry(track int) (int, bool) {
	for i, e := range d.entries {
		if e.Track == track {
			return i, true
		}
	}
	return 0, false
}

// SegmentLSN returns the start of segment n
func (d *Disc) SegmentLSN(n int) uint32 {
	return d.info.FirstSegmentLSN + uint32(n)*SegmentSectors
}

// SegmentSectors counts segment n plus the continuation slots after it
func (d *Disc) SegmentSectors(n int) uint32 {
	if n < 0 || n >= len(d.info.Segments) {
		return 0
	}
	slots := uint32(1)
	for k := n + 1; k < len(d.info.Segments) && d.info.Segments[k].Continuation; k++ {
		slots++
	}
	return slots * SegmentSectors
}

// SegmentContent returns the content byte of segment n
func (d *Disc) SegmentContent(n int) SegmentContent {
	if n < 0 || n >= len(d.info.Segments) {
		return SegmentContent{}
	}
	return d.info.Segments[n]
}

// ItemStart returns the first sector of item, 0 for lists and unknown items
func (d *Disc) ItemStart(item Item) uint32 {
	switch item.Type {
	case ItemTrack:
		return d.TrackStart(item.Num)
	case ItemEntry:
		return d.EntryLSN(item.Num)
	case ItemSegment:
		return d.SegmentLSN(item.Num)
	}
	return 0
}

// ItemSize returns the length of item in sectors. Lists have no payload.
func (d *Disc) ItemSize(item Item) uint32 {
	switch item.Type {
	case ItemTrack:
		return d.TrackSectors(item.Num)
	case ItemEntry:
		return d.EntrySectors(item.Num)
	case ItemSegment:
		return d.SegmentSectors(item.Num)
	}
	return 0
}

// LOTOffset returns the PSD offset of lid, OffsetDisabled when unknown
func (d *Disc) LOTOffset(lid uint16) uint16 {
	if lid < 1 || int(lid) > len(d.lot) {
		return OffsetDisabled
	}
	return d.lot[lid-1]
}

// Rejected reports whether lid is disabled in the LOT
func (d *Disc) Rejected(lid uint16) bool {
	return d.LOTOffset(lid) == OffsetDisabled
}

// Offsets returns the offset table, nil without PBC
func (d *Disc) Offsets() *OffsetTable { return d.offsets }

// Descriptor returns the PSD record of lid, nil when it has none
func (d *Disc) Descriptor(lid uint16) Descriptor {
	if d.offsets == nil {
		return nil
	}
	entry, ok := d.offsets.Lookup(d.LOTOffset(lid))
	if !ok {
		return nil
	}
	return entry.Descriptor
}

// OffsetLID resolves a raw offset from a descriptor field to a LID
func (d *Disc) OffsetLID(ofs uint16) (uint16, bool) {
	if d.offsets == nil || IsSpecialOffset(ofs) {
		return 0, false
	}
	entry, ok := d.offsets.Lookup(ofs)
	if !ok || entry.LID == 0 {
		return 0, false
	}
	return entry.LID, true
}

// DefaultOffset returns the default offset of a selection list
func (d *Disc) DefaultOffset(lid uint16) uint16 {
	if sel, ok := d.Descriptor(lid).(*SelectionList); ok {
		return sel.DefaultOffset
	}
	return OffsetDisabled
}

// SelectionLID maps a selection number of lid's selection list to a LID
func (d *Disc) SelectionLID(lid uint16, selection int) (uint16, bool) {
	sel, ok := d.Descriptor(lid).(*SelectionList)
	if !ok {
		return 0, false
	}
	idx := selection - int(sel.BSN)
	if idx < 0 || idx >= len(sel.Offsets) {
		return 0, false
	}
	return d.OffsetLID(sel.Offsets[idx])
}

// MultiDefaultLID resolves the default edge of lid. For multi-default
// selection lists the target depends on the entry being played at lsn,
// counted from the first entry of the anchor track.
func (d *Disc) MultiDefaultLID(lid uint16, lsn uint32) (uint16, bool) {
	sel, ok := d.Descriptor(lid).(*SelectionList)
	if !ok {
		return 0, false
	}
	if sel.DefaultOffset != OffsetMultiDefault && sel.DefaultOffset != OffsetMultiDefaultNum {
		return d.OffsetLID(sel.DefaultOffset)
	}

	anchor := ClassifyItemID(sel.ItemID)
	if anchor.Type != ItemTrack {
		return 0, false
	}
	entry, ok := d.EntryAt(lsn)
	if !ok {
		return 0, false
	}
	first, ok := d.TrackFirstEntry(anchor.Num)
	if !ok {
		return 0, false
	}
	idx := entry - first
	if idx < 0 || idx >= len(sel.Offsets) {
		return 0, false
	}
	return d.OffsetLID(sel.Offsets[idx])
}

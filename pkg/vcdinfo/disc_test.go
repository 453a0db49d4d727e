package vcdinfo_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hansbonini/vcdtools/pkg/cdimage"
	"github.com/hansbonini/vcdtools/pkg/cdimage/cdimagetest"
	"github.com/hansbonini/vcdtools/pkg/vcdinfo"
	"github.com/hansbonini/vcdtools/pkg/vcdinfo/vcdinfotest"
	"github.com/q191201771/naza/pkg/assert"
)

// sampleDisc has two tracks with three entries, three segments (the last a
// continuation of the second) and four lists, the third of them rejected
func sampleDisc() *vcdinfotest.Disc {
	return &vcdinfotest.Disc{
		Version:      2,
		AlbumID:      "SAMPLE",
		VolumeCount:  1,
		VolumeNumber: 1,
		VolumeID:     "SAMPLEVCD",
		Segments: []vcdinfo.SegmentContent{
			{VideoType: vcdinfo.VideoNTSCStill},
			{VideoType: vcdinfo.VideoPALMotion},
			{VideoType: vcdinfo.VideoPALMotion, Continuation: true},
		},
		Tracks: []vcdinfotest.Track{
			{Sectors: 100, Entries: []uint32{0, 40}},
			{Sectors: 60, Entries: []uint32{0}},
		},
		Lists: []vcdinfotest.List{
			{Descriptor: &vcdinfo.SelectionList{
				LID:           1,
				BSN:           1,
				PrevOffset:    vcdinfo.OffsetDisabled,
				NextOffset:    vcdinfotest.Offset(2),
				ReturnOffset:  vcdinfo.OffsetDisabled,
				DefaultOffset: vcdinfotest.Offset(2),
				TimeoutOffset: vcdinfotest.Offset(4),
				Wait:          5,
				MaxLoop:       2,
				ItemID:        vcdinfotest.SegmentItemID(0),
				Offsets:       []uint16{vcdinfotest.Offset(2), vcdinfotest.Offset(3)},
			}},
			{Descriptor: &vcdinfo.PlayList{
				LID:          2,
				PrevOffset:   vcdinfotest.Offset(1),
				NextOffset:   vcdinfotest.Offset(3),
				ReturnOffset: vcdinfotest.Offset(1),
				Items:        []uint16{vcdinfotest.TrackItemID(1), vcdinfotest.EntryItemID(1)},
			}},
			{Rejected: true, Descriptor: &vcdinfo.PlayList{
				LID:          3,
				PrevOffset:   vcdinfo.OffsetDisabled,
				NextOffset:   vcdinfotest.Offset(4),
				ReturnOffset: vcdinfo.OffsetDisabled,
				Items:        []uint16{vcdinfotest.TrackItemID(2)},
			}},
			{Descriptor: &vcdinfo.EndList{}},
		},
	}
}

func openSample(t *testing.T, d *vcdinfotest.Disc) *vcdinfo.Disc {
	t.Helper()
	path, err := d.Write(t.TempDir(), "sample.bin")
	if err != nil {
		t.Fatalf("Write() failed: %v", err)
	}
	disc, err := vcdinfo.Open(path, 16)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { disc.Close() })
	return disc
}

func TestOpen_Catalog(t *testing.T) {
	disc := openSample(t, sampleDisc())

	assert.Equal(t, vcdinfo.FormatVCD20, disc.Format())
	assert.Equal(t, 2, disc.NumTracks())
	assert.Equal(t, 3, disc.NumEntries())
	assert.Equal(t, 3, disc.NumSegments())
	assert.Equal(t, 4, disc.NumLIDs())
	assert.Equal(t, true, disc.HasPBC())

	summary := disc.Summary()
	assert.Equal(t, "VCD 2.0", summary.Format)
	assert.Equal(t, "SAMPLE", summary.AlbumID)
	assert.Equal(t, "SAMPLEVCD", summary.VolumeID)
	assert.Equal(t, 1, summary.VolumeCount)
}

func TestItemExtents(t *testing.T) {
	d := sampleDisc()
	disc := openSample(t, d)

	testCases := []struct {
		item    vcdinfo.Item
		start   uint32
		sectors uint32
	}{
		{vcdinfo.Item{Type: vcdinfo.ItemTrack, Num: 1}, d.TrackLSN(1), 100},
		{vcdinfo.Item{Type: vcdinfo.ItemTrack, Num: 2}, d.TrackLSN(2), 60},
		{vcdinfo.Item{Type: vcdinfo.ItemEntry, Num: 0}, d.EntryLSN(0), 40},
		{vcdinfo.Item{Type: vcdinfo.ItemEntry, Num: 1}, d.EntryLSN(1), 60},
		{vcdinfo.Item{Type: vcdinfo.ItemEntry, Num: 2}, d.EntryLSN(2), 60},
		{vcdinfo.Item{Type: vcdinfo.ItemSegment, Num: 0}, 225, 150},
		{vcdinfo.Item{Type: vcdinfo.ItemSegment, Num: 1}, 375, 300},
		{vcdinfo.Item{Type: vcdinfo.ItemSegment, Num: 2}, 525, 150},
		{vcdinfo.Item{Type: vcdinfo.ItemLID, Num: 1}, 0, 0},
		{vcdinfo.Item{Type: vcdinfo.ItemTrack, Num: 3}, 0, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.item.String(), func(t *testing.T) {
			assert.Equal(t, tc.start, disc.ItemStart(tc.item))
			assert.Equal(t, tc.sectors, disc.ItemSize(tc.item))
		})
	}

	assert.Equal(t, uint32(675), d.TrackLSN(1))
	assert.Equal(t, 1, disc.EntryTrack(1))
	assert.Equal(t, 2, disc.EntryTrack(2))
	assert.Equal(t, d.TrackLSN(2), disc.TrackEnd(1))
}

func TestEntryLookup(t *testing.T) {
	d := sampleDisc()
	disc := openSample(t, d)

	entry, ok := disc.EntryAt(d.EntryLSN(0) + 10)
	assert.Equal(t, true, ok)
	assert.Equal(t, 0, entry)

	entry, ok = disc.EntryAt(d.EntryLSN(1))
	assert.Equal(t, true, ok)
	assert.Equal(t, 1, entry)

	_, ok = disc.EntryAt(100)
	assert.Equal(t, false, ok)

	first, ok := disc.TrackFirstEntry(2)
	assert.Equal(t, true, ok)
	assert.Equal(t, 2, first)

	_, ok = disc.TrackFirstEntry(5)
	assert.Equal(t, false, ok)
}

func TestPBCAccessors(t *testing.T) {
	disc := openSample(t, sampleDisc())

	_, ok := disc.Descriptor(1).(*vcdinfo.SelectionList)
	assert.Equal(t, true, ok)
	_, ok = disc.Descriptor(2).(*vcdinfo.PlayList)
	assert.Equal(t, true, ok)
	_, ok = disc.Descriptor(4).(*vcdinfo.EndList)
	assert.Equal(t, true, ok)

	// rejected lists keep their record but have no LOT entry
	assert.Equal(t, true, disc.Rejected(3))
	assert.Equal(t, nil, disc.Descriptor(3))
	assert.Equal(t, false, disc.Rejected(2))
	assert.Equal(t, vcdinfo.OffsetDisabled, disc.LOTOffset(9))

	lid, ok := disc.OffsetLID(vcdinfotest.Offset(3))
	assert.Equal(t, true, ok)
	assert.Equal(t, uint16(3), lid)

	_, ok = disc.OffsetLID(vcdinfo.OffsetDisabled)
	assert.Equal(t, false, ok)
	_, ok = disc.OffsetLID(0x1234)
	assert.Equal(t, false, ok)

	assert.Equal(t, vcdinfotest.Offset(2), disc.DefaultOffset(1))
	assert.Equal(t, vcdinfo.OffsetDisabled, disc.DefaultOffset(2))

	for selection, expected := range map[int]uint16{1: 2, 2: 3} {
		lid, ok := disc.SelectionLID(1, selection)
		assert.Equal(t, true, ok)
		assert.Equal(t, expected, lid)
	}
	for _, selection := range []int{0, 3} {
		_, ok := disc.SelectionLID(1, selection)
		assert.Equal(t, false, ok)
	}
	_, ok = disc.SelectionLID(2, 1)
	assert.Equal(t, false, ok)

	lid, ok = disc.MultiDefaultLID(1, 0)
	assert.Equal(t, true, ok)
	assert.Equal(t, uint16(2), lid)

	assert.Equal(t, 4, disc.Offsets().Len())
}

func TestMultiDefaultLID(t *testing.T) {
	d := sampleDisc()
	sel := d.Lists[0].Descriptor.(*vcdinfo.SelectionList)
	sel.ItemID = vcdinfotest.TrackItemID(1)
	sel.DefaultOffset = vcdinfo.OffsetMultiDefault
	disc := openSample(t, d)

	lid, ok := disc.MultiDefaultLID(1, d.EntryLSN(0)+5)
	assert.Equal(t, true, ok)
	assert.Equal(t, uint16(2), lid)

	lid, ok = disc.MultiDefaultLID(1, d.EntryLSN(1)+5)
	assert.Equal(t, true, ok)
	assert.Equal(t, uint16(3), lid)

	// the third entry is past the selection table
	_, ok = disc.MultiDefaultLID(1, d.EntryLSN(2))
	assert.Equal(t, false, ok)
}

func TestOpen_FixedAddresses(t *testing.T) {
	d := sampleDisc()
	d.Unnamed = true
	disc := openSample(t, d)

	assert.Equal(t, 3, disc.NumEntries())
	assert.Equal(t, 4, disc.NumLIDs())
}

func TestOpen_SVCD(t *testing.T) {
	d := sampleDisc()
	d.ID = vcdinfo.InfoIDSVCD
	d.Version = 1
	disc := openSample(t, d)

	assert.Equal(t, vcdinfo.FormatSVCD, disc.Format())
	assert.Equal(t, 4, disc.NumLIDs())
}

func TestOpen_CueSheetTrackTable(t *testing.T) {
	d := sampleDisc()
	// entries no longer start their tracks, only the cue sheet knows
	d.Tracks[1].Entries = []uint32{10}
	d.CueSheet = true
	disc := openSample(t, d)

	assert.Equal(t, d.TrackLSN(2), disc.TrackStart(2))
	assert.Equal(t, uint32(60), disc.TrackSectors(2))
	assert.Equal(t, uint32(50), disc.EntrySectors(2))
}

func TestOpen_NoPBC(t *testing.T) {
	d := sampleDisc()
	d.Lists = nil
	disc := openSample(t, d)

	assert.Equal(t, 0, disc.NumLIDs())
	assert.Equal(t, false, disc.HasPBC())
	assert.Equal(t, nil, disc.Descriptor(1))
	_, ok := disc.OffsetLID(0)
	assert.Equal(t, false, ok)
}

func TestOpen_NotVCD(t *testing.T) {
	dir := t.TempDir()

	plain, err := cdimagetest.NewBuilder(200).WriteFile(dir, "plain.bin")
	assert.Equal(t, nil, err)

	cooked := filepath.Join(dir, "cooked.iso")
	assert.Equal(t, nil, os.WriteFile(cooked, make([]byte, 200*cdimage.SectorSizeISO), 0644))

	blank := filepath.Join(dir, "blank.bin")
	assert.Equal(t, nil, os.WriteFile(blank, make([]byte, 200*cdimage.SectorSizeRaw), 0644))

	for _, path := range []string{plain, cooked, blank} {
		_, err := vcdinfo.Open(path, 0)
		assert.Equal(t, true, errors.Is(err, vcdinfo.ErrNotVCD), path)
	}
}

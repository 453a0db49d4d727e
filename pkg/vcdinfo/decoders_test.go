package vcdinfo

import (
	"fmt"
	"testing"

	"github.com/q191201771/naza/pkg/assert"
)

func TestClassifyItemID(t *testing.T) {
	testCases := []struct {
		id       uint16
		expected Item
	}{
		{0, Item{ItemNotFound, 0}},
		{1, Item{ItemNotFound, 1}},
		{2, Item{ItemTrack, 1}},
		{99, Item{ItemTrack, 98}},
		{100, Item{ItemEntry, 0}},
		{599, Item{ItemEntry, 499}},
		{600, Item{ItemSpare, 600}},
		{999, Item{ItemSpare, 999}},
		{1000, Item{ItemSegment, 0}},
		{2979, Item{ItemSegment, 1979}},
		{2980, Item{ItemSpare, 2980}},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, ClassifyItemID(tc.id))
	}
}

func TestWaitSeconds(t *testing.T) {
	testCases := []struct {
		code     uint8
		expected int
	}{
		{0, 0},
		{1, 1},
		{60, 60},
		{61, 70},
		{100, 460},
		{254, 2000},
		{255, WaitIndefinite},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, WaitSeconds(tc.code))
	}
}

func TestDecodeSegmentContent(t *testing.T) {
	// 01 1 011 10: OGT 1, continuation, NTSC motion, audio 2
	c := decodeSegmentContent(0x6E)
	assert.Equal(t, uint8(1), c.OGT)
	assert.Equal(t, true, c.Continuation)
	assert.Equal(t, VideoNTSCMotion, c.VideoType)
	assert.Equal(t, uint8(2), c.AudioType)
	assert.Equal(t, false, c.IsStill())
	assert.Equal(t, true, c.IsNTSC())

	still := decodeSegmentContent(VideoPALStill << 2)
	assert.Equal(t, true, still.IsStill())
	assert.Equal(t, false, still.IsNTSC())
	assert.Equal(t, false, still.Continuation)
}

func TestInfoFormat(t *testing.T) {
	testCases := []struct {
		id       string
		version  uint8
		profile  uint8
		expected Format
	}{
		{InfoIDVCD, 1, 0, FormatVCD10},
		{InfoIDVCD, 1, 1, FormatVCD11},
		{InfoIDVCD, 2, 0, FormatVCD20},
		{InfoIDVCD, 3, 0, FormatUnknown},
		{InfoIDSVCD, 1, 0, FormatSVCD},
		{InfoIDHQVCD, 1, 0, FormatHQVCD},
	}

	for _, tc := range testCases {
		info := &Info{ID: tc.id, Version: tc.version, Profile: tc.profile}
		assert.Equal(t, tc.expected, info.Format())
	}
	assert.Equal(t, "VCD 2.0", FormatVCD20.String())
}

func TestIsPALTrack(t *testing.T) {
	info := &Info{}
	info.PALFlags[0] = 0x05 // tracks 1 and 3
	info.PALFlags[1] = 0x01 // track 9

	for track, expected := range map[int]bool{0: false, 1: true, 2: false, 3: true, 9: true, 10: false, 105: false} {
		assert.Equal(t, expected, info.IsPALTrack(track), fmt.Sprint(track))
	}
}

func TestDecodeInfo_BadMagic(t *testing.T) {
	data := make([]byte, 2048)
	copy(data, "NOTAVCD!")
	_, err := DecodeInfo(data)
	assert.IsNotNil(t, err)
}

func TestDecodeEntries(t *testing.T) {
	data := make([]byte, 2048)
	copy(data, EntriesIDVCD)
	data[8], data[9] = 2, 0
	data[11] = 2
	// CD track 2 at 00:05:00, CD track 3 at 00:10:00
	copy(data[12:], []byte{0x02, 0x00, 0x05, 0x00, 0x03, 0x00, 0x10, 0x00})

	entries, err := DecodeEntries(data)
	assert.Equal(t, nil, err)
	assert.Equal(t, []Entry{{Track: 1, LSN: 225}, {Track: 2, LSN: 600}}, entries.List)
}

func TestDecodeEntries_TooMany(t *testing.T) {
	data := make([]byte, 2048)
	copy(data, EntriesIDSVCD)
	data[10], data[11] = 0x01, 0xF5 // 501
	_, err := DecodeEntries(data)
	assert.IsNotNil(t, err)
}

func TestDecodeLOT(t *testing.T) {
	data := []byte{0x00, 0x00, 0x00, 0x00, 0xFF, 0xFF, 0x00, 0x20}
	lot, err := DecodeLOT(data, 3)
	assert.Equal(t, nil, err)
	assert.Equal(t, []uint16{0x0000, 0xFFFF, 0x0020}, lot)

	_, err = DecodeLOT(data, 4)
	assert.IsNotNil(t, err)
}

func TestDecodeDescriptor_SelectionList(t *testing.T) {
	record := []byte{
		0x18, 0x01, 0x02, 0x01, // type, flags, nos, bsn
		0x00, 0x05, // lid
		0xFF, 0xFF, 0x00, 0x08, 0x00, 0x10, 0xFF, 0xFE, 0x00, 0x18, // prev next return default timeout
		0x03, 0x82, // wait, loop
		0x03, 0xE8, // segment 0
		0x00, 0x08, 0x00, 0x10,
	}
	descriptor, err := DecodeDescriptor(append([]byte{0xAA, 0xAA}, record...), 2)
	assert.Equal(t, nil, err)

	sel, ok := descriptor.(*SelectionList)
	assert.Equal(t, true, ok)
	assert.Equal(t, TypeSelectionList, sel.Type())
	assert.Equal(t, uint16(5), sel.ListID())
	assert.Equal(t, true, sel.SelectionArea)
	assert.Equal(t, false, sel.CommandList)
	assert.Equal(t, uint8(1), sel.BSN)
	assert.Equal(t, OffsetDisabled, sel.PrevOffset)
	assert.Equal(t, uint16(0x08), sel.NextOffset)
	assert.Equal(t, uint16(0x10), sel.ReturnOffset)
	assert.Equal(t, OffsetMultiDefault, sel.DefaultOffset)
	assert.Equal(t, uint16(0x18), sel.TimeoutOffset)
	assert.Equal(t, uint8(3), sel.Wait)
	assert.Equal(t, true, sel.JumpDelayed)
	assert.Equal(t, uint8(2), sel.MaxLoop)
	assert.Equal(t, Item{ItemSegment, 0}, ClassifyItemID(sel.ItemID))
	assert.Equal(t, []uint16{0x08, 0x10}, sel.Offsets)
	assert.Equal(t, 0, len(sel.Areas))
}

func TestDecodeDescriptor_PlayList(t *testing.T) {
	record := []byte{
		0x10, 0x02, 0x80, 0x02, // type, noi, rejected lid 2
		0x00, 0x00, 0x00, 0x20, 0xFF, 0xFF, // prev next return
		0x00, 0x0F, 0x05, 0x00, // ptime, wait, autowait
		0x00, 0x02, 0x00, 0x64,
	}
	descriptor, err := DecodeDescriptor(record, 0)
	assert.Equal(t, nil, err)

	pld, ok := descriptor.(*PlayList)
	assert.Equal(t, true, ok)
	assert.Equal(t, uint16(2), pld.LID)
	assert.Equal(t, true, pld.Rejected)
	assert.Equal(t, uint16(0x20), pld.NextOffset)
	assert.Equal(t, uint8(5), pld.Wait)
	assert.Equal(t, []uint16{2, 100}, pld.Items)
}

func TestDecodeDescriptor_EndAndCommandLists(t *testing.T) {
	end, err := DecodeDescriptor([]byte{0x1f, 0x02, 0x03, 0xE9}, 0)
	assert.Equal(t, nil, err)
	assert.Equal(t, &EndList{NextDisc: 2, ChangePicture: 1001}, end)
	assert.Equal(t, uint16(0), end.ListID())

	cmd, err := DecodeDescriptor([]byte{0x20, 0x00, 0x01, 0x00, 0x07, 0x12, 0x34}, 0)
	assert.Equal(t, nil, err)
	assert.Equal(t, &CommandList{LID: 7, Commands: []uint16{0x1234}}, cmd)
}

func TestDecodeDescriptor_Errors(t *testing.T) {
	testCases := []struct {
		name   string
		record []byte
		pos    int
	}{
		{"outside", []byte{0x10}, 4},
		{"unknown type", []byte{0x42, 0, 0, 0}, 0},
		{"short play list", []byte{0x10, 0x05, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}, 0},
		{"short selection list", []byte{0x18, 0, 1}, 0},
		{"short end list", []byte{0x1f}, 0},
		{"short command list", []byte{0x20, 0x00, 0x02, 0x00, 0x01}, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeDescriptor(tc.record, tc.pos)
			assert.IsNotNil(t, err)
		})
	}
}

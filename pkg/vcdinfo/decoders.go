package vcdinfo

import (
	"bytes"
	"fmt"

	"github.com/hansbonini/vcdtools/pkg/common"
	"github.com/q191201771/naza/pkg/bele"
	"github.com/q191201771/naza/pkg/nazabits"
)

// DecodeInfo parses the INFO file
func DecodeInfo(data []byte) (*Info, error) {
	reader := bytes.NewReader(data)
	info := &Info{}

	id, err := common.ReadBytes(reader, 8)
	if err != nil {
		return nil, common.FormatError(common.ErrFailedToReadInfo, err)
	}
	if info.ID, err = common.ValidateMagic(id, InfoIDVCD, InfoIDSVCD, InfoIDHQVCD); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotVCD, err)
	}

	header, err := common.ReadBytes(reader, 2)
	if err != nil {
		return nil, common.FormatError(common.ErrFailedToReadInfo, err)
	}
	info.Version, info.Profile = header[0], header[1]

	album, err := common.ReadBytes(reader, 16)
	if err != nil {
		return nil, common.FormatError(common.ErrFailedToReadInfo, err)
	}
	info.AlbumID = common.TrimIdentifier(album)

	if info.VolumeCount, err = common.ReadUint16BE(reader); err != nil {
		return nil, common.FormatError(common.ErrFailedToReadInfo, err)
	}
	if info.VolumeNumber, err = common.ReadUint16BE(reader); err != nil {
		return nil, common.FormatError(common.ErrFailedToReadInfo, err)
	}

	pal, err := common.ReadBytes(reader, len(info.PALFlags)+1)
	if err != nil {
		return nil, common.FormatError(common.ErrFailedToReadInfo, err)
	}
	copy(info.PALFlags[:], pal)
	info.Flags = pal[len(info.PALFlags)]

	if info.PSDSize, err = common.ReadUint32BE(reader); err != nil {
		return nil, common.FormatError(common.ErrFailedToReadInfo, err)
	}

	// first segment address (BCD MSF) and offset multiplier
	msf, err := common.ReadBytes(reader, 4)
	if err != nil {
		return nil, common.FormatError(common.ErrFailedToReadInfo, err)
	}
	info.FirstSegmentLSN = common.MSFToLSN(msf[0], msf[1], msf[2])
	info.OffsetMultiplier = msf[3]
	if info.OffsetMultiplier == 0 {
		info.OffsetMultiplier = 8
	}

	if info.MaxLID, err = common.ReadUint16BE(reader); err != nil {
		return nil, common.FormatError(common.ErrFailedToReadInfo, err)
	}
	if info.SegmentCount, err = common.ReadUint16BE(reader); err != nil {
		return nil, common.FormatError(common.ErrFailedToReadInfo, err)
	}
	if info.SegmentCount > MaxSegments {
		return nil, common.FormatErrorString(common.ErrFailedToReadInfo, "segment count %d exceeds %d", info.SegmentCount, MaxSegments)
	}

	contents, err := common.ReadBytes(reader, int(info.SegmentCount))
	if err != nil {
		return nil, common.FormatError(common.ErrFailedToReadInfo, err)
	}
	info.Segments = make([]SegmentContent, len(contents))
	for i, b := range contents {
		info.Segments[i] = decodeSegmentContent(b)
	}

	return info, nil
}

// decodeSegmentContent unpacks OGT(2) continuation(1) video(3) audio(2),
// most significant bits first
func decodeSegmentContent(b byte) SegmentContent {
	var c SegmentContent
	br := nazabits.NewBitReader([]byte{b})
	c.OGT, _ = br.ReadBits8(2)
	cont, _ := br.ReadBits8(1)
	c.Continuation = cont == 1
	c.VideoType, _ = br.ReadBits8(3)
	c.AudioType, _ = br.ReadBits8(2)
	return c
}

// IsPALTrack reports the PAL flag of an MPEG track (counted from 1)
func (info *Info) IsPALTrack(track int) bool {
	if track < 1 || track > len(info.PALFlags)*8 {
		return false
	}
	bit := track - 1
	return nazabits.GetBit8(info.PALFlags[bit/8], uint(bit%8)) != 0
}

// Format derives the disc standard from the INFO identification fields
func (info *Info) Format() Format {
	switch info.ID {
	case InfoIDSVCD:
		return FormatSVCD
	case InfoIDHQVCD:
		return FormatHQVCD
	case InfoIDVCD:
		switch info.Version {
		case 0x02:
			return FormatVCD20
		case 0x01:
			if info.Profile == 0x01 {
				return FormatVCD11
			}
			return FormatVCD10
		}
	}
	return FormatUnknown
}

// DecodeEntries parses the ENTRIES file
func DecodeEntries(data []byte) (*Entries, error) {
	reader := bytes.NewReader(data)
	entries := &Entries{}

	id, err := common.ReadBytes(reader, 8)
	if err != nil {
		return nil, common.FormatError(common.ErrFailedToReadEntries, err)
	}
	if entries.ID, err = common.ValidateMagic(id, EntriesIDVCD, EntriesIDSVCD); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotVCD, err)
	}

	header, err := common.ReadBytes(reader, 2)
	if err != nil {
		return nil, common.FormatError(common.ErrFailedToReadEntries, err)
	}
	entries.Version, entries.Profile = header[0], header[1]

	count, err := common.ReadUint16BE(reader)
	if err != nil {
		return nil, common.FormatError(common.ErrFailedToReadEntries, err)
	}
	if count > MaxEntries {
		return nil, common.FormatErrorString(common.ErrFailedToReadEntries, "entry count %d exceeds %d", count, MaxEntries)
	}

	entries.List = make([]Entry, 0, count)
	for i := 0; i < int(count); i++ {
		record, err := common.ReadBytes(reader, 4)
		if err != nil {
			return nil, common.FormatError(common.ErrFailedToReadEntries, err)
		}
		// CD track 1 is the ISO9660 track, MPEG tracks start at CD track 2
		entries.List = append(entries.List, Entry{
			Track: common.BCDToInt(record[0]) - 1,
			LSN:   common.MSFToLSN(record[1], record[2], record[3]),
		})
	}
	return entries, nil
}

// DecodeLOT parses the list id offset table. The offset of LID n is at
// index n-1.
func DecodeLOT(data []byte, maxLID uint16) ([]uint16, error) {
	need := 2 + 2*int(maxLID)
	if len(data) < need {
		return nil, common.FormatErrorString(common.ErrFailedToReadLOT, "%d bytes for %d LIDs", len(data), maxLID)
	}
	lot := make([]uint16, maxLID)
	for i := range lot {
		lot[i] = bele.BeUint16(data[2+2*i:])
	}
	return lot, nil
}

// DecodeDescriptor decodes the PSD record starting at byte pos
func DecodeDescriptor(psd []byte, pos int) (Descriptor, error) {
	if pos < 0 || pos >= len(psd) {
		return nil, common.FormatErrorString(common.ErrFailedToDecodeDescr, "position %d outside PSD of %d bytes", pos, len(psd))
	}
	record := psd[pos:]

	switch t := DescriptorType(record[0]); t {
	case TypePlayList:
		return decodePlayList(record)
	case TypeSelectionList, TypeExtendedSelectionList:
		return decodeSelectionList(record, t == TypeExtendedSelectionList)
	case TypeEndList:
		if len(record) < 4 {
			return nil, truncated(t, len(record))
		}
		return &EndList{NextDisc: record[1], ChangePicture: bele.BeUint16(record[2:])}, nil
	case TypeCommandList:
		if len(record) < 5 {
			return nil, truncated(t, len(record))
		}
		count := int(bele.BeUint16(record[1:]))
		if len(record) < 5+2*count {
			return nil, truncated(t, len(record))
		}
		cl := &CommandList{LID: bele.BeUint16(record[3:]) & 0x7fff, Commands: make([]uint16, count)}
		for i := range cl.Commands {
			cl.Commands[i] = bele.BeUint16(record[5+2*i:])
		}
		return cl, nil
	default:
		return nil, common.FormatErrorString(common.ErrFailedToDecodeDescr, "unknown descriptor type 0x%02x", record[0])
	}
}

func truncated(t DescriptorType, size int) error {
	return common.FormatErrorString(common.ErrFailedToDecodeDescr, "%s truncated at %d bytes", t, size)
}

func decodePlayList(record []byte) (*PlayList, error) {
	const fixed = 14
	if len(record) < fixed {
		return nil, truncated(TypePlayList, len(record))
	}
	count := int(record[1])
	if len(record) < fixed+2*count {
		return nil, truncated(TypePlayList, len(record))
	}

	lid := bele.BeUint16(record[2:])
	pld := &PlayList{
		LID:          lid & 0x7fff,
		Rejected:     lid&0x8000 != 0,
		PrevOffset:   bele.BeUint16(record[4:]),
		NextOffset:   bele.BeUint16(record[6:]),
		ReturnOffset: bele.BeUint16(record[8:]),
		PlayTime:     bele.BeUint16(record[10:]),
		Wait:         record[12],
		AutoWait:     record[13],
		Items:        make([]uint16, count),
	}
	for i := range pld.Items {
		pld.Items[i] = bele.BeUint16(record[fixed+2*i:])
	}
	return pld, nil
}

func decodeSelectionList(record []byte, extended bool) (*SelectionList, error) {
	const fixed = 20
	if len(record) < fixed {
		return nil, truncated(DescriptorType(record[0]), len(record))
	}
	count := int(record[2])
	end := fixed + 2*count
	if len(record) < end {
		return nil, truncated(DescriptorType(record[0]), len(record))
	}

	lid := bele.BeUint16(record[4:])
	psd := &SelectionList{
		Extended:      extended,
		SelectionArea: nazabits.GetBit8(record[1], 0) != 0,
		CommandList:   nazabits.GetBit8(record[1], 1) != 0,
		BSN:           record[3],
		LID:           lid & 0x7fff,
		Rejected:      lid&0x8000 != 0,
		PrevOffset:    bele.BeUint16(record[6:]),
		NextOffset:    bele.BeUint16(record[8:]),
		ReturnOffset:  bele.BeUint16(record[10:]),
		DefaultOffset: bele.BeUint16(record[12:]),
		TimeoutOffset: bele.BeUint16(record[14:]),
		Wait:          record[16],
		ItemID:        bele.BeUint16(record[18:]),
		Offsets:       make([]uint16, count),
	}

	// loop byte: jump timing flag, then a 7 bit loop count
	br := nazabits.NewBitReader(record[17:18])
	delayed, _ := br.ReadBits8(1)
	psd.JumpDelayed = delayed == 1
	psd.MaxLoop, _ = br.ReadBits8(7)

	for i := range psd.Offsets {
		psd.Offsets[i] = bele.BeUint16(record[fixed+2*i:])
	}

	if extended && len(record) >= end+4*(4+count) {
		areas := record[end:]
		readArea := func() Area {
			a := Area{X1: areas[0], Y1: areas[1], X2: areas[2], Y2: areas[3]}
			areas = areas[4:]
			return a
		}
		psd.PrevArea = readArea()
		psd.NextArea = readArea()
		psd.ReturnArea = readArea()
		psd.DefaultArea = readArea()
		psd.Areas = make([]Area, count)
		for i := range psd.Areas {
			psd.Areas[i] = readArea()
		}
	}
	return psd, nil
}

// WaitIndefinite is returned by WaitSeconds for the "wait forever" code
const WaitIndefinite = -1

// WaitSeconds converts a PSD wait time code into seconds
func WaitSeconds(code uint8) int {
	switch {
	case code == 0xFF:
		return WaitIndefinite
	case code <= 60:
		return int(code)
	}
	return 60 + (int(code)-60)*10
}

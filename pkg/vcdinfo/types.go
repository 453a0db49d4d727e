package vcdinfo

// Fixed locations of the VCD control files, used when the ISO9660 tree
// does not name them
const (
	InfoLSN    = 150
	EntriesLSN = 151
	LOTLSN     = 152
	PSDLSN     = 184

	LOTSectors = 32

	// SegmentSectors is the size of one segment play item slot
	SegmentSectors = 150

	MaxEntries  = 500
	MaxSegments = 1980
)

// Reserved offset values used by descriptor fields
const (
	OffsetDisabled        uint16 = 0xFFFF
	OffsetMultiDefault    uint16 = 0xFFFE
	OffsetMultiDefaultNum uint16 = 0xFFFD
)

// IsSpecialOffset reports whether ofs is one of the reserved values
func IsSpecialOffset(ofs uint16) bool {
	return ofs == OffsetDisabled || ofs == OffsetMultiDefault || ofs == OffsetMultiDefaultNum
}

// Format identifies the disc standard
type Format int

const (
	FormatUnknown Format = iota
	FormatVCD10
	FormatVCD11
	FormatVCD20
	FormatSVCD
	FormatHQVCD
)

func (f Format) String() string {
	switch f {
	case FormatVCD10:
		return "VCD 1.0"
	case FormatVCD11:
		return "VCD 1.1"
	case FormatVCD20:
		return "VCD 2.0"
	case FormatSVCD:
		return "SVCD"
	case FormatHQVCD:
		return "HQVCD"
	}
	return "unknown"
}

// Info magics
const (
	InfoIDVCD   = "VIDEO_CD"
	InfoIDSVCD  = "SUPERVCD"
	InfoIDHQVCD = "HQ-VCD  "

	EntriesIDVCD  = "ENTRYVCD"
	EntriesIDSVCD = "ENTRYSVD"
)

// SegmentContent is the packed per-segment byte of the INFO file
type SegmentContent struct {
	AudioType    uint8
	VideoType    uint8
	Continuation bool
	OGT          uint8
}

// Segment video types
const (
	VideoNone uint8 = iota
	VideoNTSCStill
	VideoNTSCStill2
	VideoNTSCMotion
	VideoReserved
	VideoPALStill
	VideoPALStill2
	VideoPALMotion
)

// IsStill reports whether the segment holds a still picture
func (c SegmentContent) IsStill() bool {
	switch c.VideoType {
	case VideoNTSCStill, VideoNTSCStill2, VideoPALStill, VideoPALStill2:
		return true
	}
	return false
}

// IsNTSC reports whether the segment carries NTSC video
func (c SegmentContent) IsNTSC() bool {
	return c.VideoType >= VideoNTSCStill && c.VideoType <= VideoNTSCMotion
}

// VideoTypeName describes a segment video type
func VideoTypeName(videoType uint8) string {
	switch videoType {
	case VideoNone:
		return "no stream"
	case VideoNTSCStill:
		return "NTSC still"
	case VideoNTSCStill2:
		return "NTSC still (lo+hires)"
	case VideoNTSCMotion:
		return "NTSC motion"
	case VideoReserved:
		return "reserved (0x4)"
	case VideoPALStill:
		return "PAL still"
	case VideoPALStill2:
		return "PAL still (lo+hires)"
	case VideoPALMotion:
		return "PAL motion"
	}
	return "unknown"
}

// Info is the decoded INFO.VCD / INFO.SVD file
type Info struct {
	ID               string
	Version          uint8
	Profile          uint8
	AlbumID          string
	VolumeCount      uint16
	VolumeNumber     uint16
	PALFlags         [13]byte
	Flags            uint8
	PSDSize          uint32
	FirstSegmentLSN  uint32
	OffsetMultiplier uint8
	MaxLID           uint16
	SegmentCount     uint16
	Segments         []SegmentContent
}

// Entry is one ENTRIES record: the MPEG track (counted from 1) and the
// entry's start sector
type Entry struct {
	Track int
	LSN   uint32
}

// Entries is the decoded ENTRIES.VCD / ENTRIES.SVD file
type Entries struct {
	ID      string
	Version uint8
	Profile uint8
	List    []Entry
}

// DescriptorType is the first byte of a PSD record
type DescriptorType uint8

const (
	TypePlayList              DescriptorType = 0x10
	TypeSelectionList         DescriptorType = 0x18
	TypeExtendedSelectionList DescriptorType = 0x1a
	TypeEndList               DescriptorType = 0x1f
	TypeCommandList           DescriptorType = 0x20
)

func (t DescriptorType) String() string {
	switch t {
	case TypePlayList:
		return "play list"
	case TypeSelectionList:
		return "selection list"
	case TypeExtendedSelectionList:
		return "extended selection list"
	case TypeEndList:
		return "end list"
	case TypeCommandList:
		return "command list"
	}
	return "unknown"
}

// Descriptor is a decoded PSD record. The concrete types are *PlayList,
// *SelectionList, *EndList and *CommandList.
type Descriptor interface {
	Type() DescriptorType
	// ListID returns the LID stored in the record, 0 for end lists
	ListID() uint16
}

// PlayList plays its items in order, then waits
type PlayList struct {
	LID          uint16
	Rejected     bool
	PrevOffset   uint16
	NextOffset   uint16
	ReturnOffset uint16
	PlayTime     uint16 // in 1/15 s
	Wait         uint8  // raw wait time after the whole list
	AutoWait     uint8  // raw wait time between items
	Items        []uint16
}

func (p *PlayList) Type() DescriptorType { return TypePlayList }
func (p *PlayList) ListID() uint16       { return p.LID }

// Area is a rectangle of an extended selection list
type Area struct {
	X1, Y1, X2, Y2 uint8
}

// SelectionList shows its anchor item and waits for a selection
type SelectionList struct {
	Extended      bool
	SelectionArea bool
	CommandList   bool
	BSN           uint8 // number of the first selection
	LID           uint16
	Rejected      bool
	PrevOffset    uint16
	NextOffset    uint16
	ReturnOffset  uint16
	DefaultOffset uint16
	TimeoutOffset uint16
	Wait          uint8 // raw timeout wait time
	JumpDelayed   bool
	MaxLoop       uint8 // 0 loops forever
	ItemID        uint16
	Offsets       []uint16

	PrevArea, NextArea, ReturnArea, DefaultArea Area
	Areas                                       []Area
}

func (s *SelectionList) Type() DescriptorType {
	if s.Extended {
		return TypeExtendedSelectionList
	}
	return TypeSelectionList
}
func (s *SelectionList) ListID() uint16 { return s.LID }

// EndList stops playback, optionally asking for another disc
type EndList struct {
	NextDisc      uint8
	ChangePicture uint16
}

func (e *EndList) Type() DescriptorType { return TypeEndList }
func (e *EndList) ListID() uint16       { return 0 }

// CommandList carries player commands; their execution is not supported
type CommandList struct {
	LID      uint16
	Commands []uint16
}

func (c *CommandList) Type() DescriptorType { return TypeCommandList }
func (c *CommandList) ListID() uint16       { return c.LID }

// Summary collects the identification strings of a disc
type Summary struct {
	Format       string `yaml:"format"`
	AlbumID      string `yaml:"album"`
	VolumeCount  int    `yaml:"volume_count"`
	VolumeNumber int    `yaml:"volume_number"`
	VolumeID     string `yaml:"volume_id"`
	VolumeSetID  string `yaml:"volume_set_id"`
	Publisher    string `yaml:"publisher"`
	Preparer     string `yaml:"preparer"`
}

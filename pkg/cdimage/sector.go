// Package cdimage provides raw CD image access for Video CD discs.
// This file contains the sector layouts and ISO9660 structures.
package cdimage

// Sector size constants
const (
	SectorSizeRaw   = 2352 // Full CD sector size
	SectorSizeMode2 = 2336 // Headerless Mode 2 sector (subheader + data + EDC)
	SectorSizeISO   = 2048 // Cooked Mode 1 / Form 1 sector

	SyncSize      = 12   // Sync pattern size
	HeaderSize    = 4    // Header size (3 address bytes + 1 mode byte)
	SubheaderSize = 8    // XA subheader (4 bytes, repeated)
	Form1DataSize = 2048 // User data of a Form 1 sector
	Form2DataSize = 2324 // User data of a Form 2 sector
)

// Subheader submode bits
const (
	SubmodeEOR      = 0x01 // end of record
	SubmodeVideo    = 0x02
	SubmodeAudio    = 0x04
	SubmodeData     = 0x08
	SubmodeTrigger  = 0x10
	SubmodeForm2    = 0x20
	SubmodeRealTime = 0x40
	SubmodeEOF      = 0x80

	// padding sectors carry Form 2 + real time and nothing else
	submodePadding = SubmodeForm2 | SubmodeRealTime
)

// SyncPattern is the 12 byte pattern that starts every raw sector
var SyncPattern = [SyncSize]byte{0x00, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x00}

// Mode2Sector is a Mode 2 sector as seen by MPEG readers: the XA subheader
// followed by the full Form 2 payload.
type Mode2Sector struct {
	Subheader [SubheaderSize]byte
	Data      [Form2DataSize]byte
}

// IsPadding reports whether the sector only exists to keep the bitrate constant
func (s *Mode2Sector) IsPadding() bool {
	return s.Subheader[2]&^SubmodeEOR == submodePadding
}

// IsForm2 reports whether the subheader marks the sector as Form 2
func (s *Mode2Sector) IsForm2() bool {
	return s.Subheader[2]&SubmodeForm2 != 0
}

// ISODescriptor holds the Primary Volume Descriptor fields used by the reader
type ISODescriptor struct {
	Type                   byte      // Volume descriptor type
	ID                     [5]byte   // Standard identifier "CD001"
	Version                byte      // Volume descriptor version
	SystemID               [32]byte  // System identifier
	VolumeID               [32]byte  // Volume identifier
	VolumeSpaceSizeLSB     uint32    // Volume space size - little endian
	VolumeSpaceSizeMSB     uint32    // Volume space size - big endian
	LogicalBlockSizeLSB    uint16    // Logical block size - little endian
	LogicalBlockSizeMSB    uint16    // Logical block size - big endian
	PathTableSizeLSB       uint32    // Path table size - little endian
	PathTableSizeMSB       uint32    // Path table size - big endian
	PathTable1Offs         uint32    // LBA to Type-L path table
	PathTable2Offs         uint32    // LBA to optional Type-L path table
	PathTable1MSBOffs      uint32    // LBA to Type-M path table
	PathTable2MSBOffs      uint32    // LBA to optional Type-M path table
	RootDirRecord          [34]byte  // Directory entry for root directory
	VolumeSetIdentifier    [128]byte // Volume set identifier
	PublisherIdentifier    [128]byte // Publisher identifier
	DataPreparerIdentifier [128]byte // Data preparer identifier
	ApplicationIdentifier  [128]byte // Application identifier
}

// PathTableEntry represents an entry in the path table
type PathTableEntry struct {
	NameLength         byte
	ExtendedAttrLength byte
	DirLocation        uint32
	ParentDir          uint16
	Name               string
}

// FileEntry represents a file or directory found in the ISO9660 tree
type FileEntry struct {
	Name       string // File name without version suffix
	Path       string // Full path within the disc
	LSN        uint32 // First sector of the extent
	MSF        string // Minutes:Seconds:Frames format
	Size       uint32 // File size in bytes
	IsDir      bool   // Whether this is a directory
	ExtentSize uint32 // Size in sectors
}

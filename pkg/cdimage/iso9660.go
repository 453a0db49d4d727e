package cdimage

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hansbonini/vcdtools/pkg/common"
)

// PrimaryVolumeDescriptorLSN is where ISO9660 keeps the volume descriptor
const PrimaryVolumeDescriptorLSN = 16

// ErrFileNotFound is returned by FindFile when no entry matches
var ErrFileNotFound = errors.New("file not found in ISO9660 tree")

// ValidateISO9660 - Check if the image has a valid ISO9660 header
func (img *Image) ValidateISO9660() error {
	data, err := img.ReadForm1(PrimaryVolumeDescriptorLSN)
	if err != nil {
		return err
	}

	// Check for ISO9660 signature: 0x01 + "CD001" + 0x01
	expected := []byte{0x01, 0x43, 0x44, 0x30, 0x30, 0x31, 0x01}
	for i, b := range expected {
		if data[i] != b {
			return fmt.Errorf("invalid ISO9660 signature at byte %d: got 0x%02X, expected 0x%02X", i, data[i], b)
		}
	}

	return nil
}

// ReadISODescriptor reads the ISO9660 descriptor from sector 16
func (img *Image) ReadISODescriptor() (*ISODescriptor, error) {
	data, err := img.ReadForm1(PrimaryVolumeDescriptorLSN)
	if err != nil {
		return nil, err
	}

	// Validate ISO signature
	if string(data[1:6]) != "CD001" {
		return nil, fmt.Errorf("invalid ISO9660 signature")
	}

	descriptor := &ISODescriptor{}

	// Parse descriptor fields (both-endian fields, LSB half is authoritative)
	descriptor.Type = data[0]
	copy(descriptor.ID[:], data[1:6])
	descriptor.Version = data[6]
	copy(descriptor.SystemID[:], data[8:40])
	copy(descriptor.VolumeID[:], data[40:72])
	descriptor.VolumeSpaceSizeLSB = binary.LittleEndian.Uint32(data[80:84])
	descriptor.VolumeSpaceSizeMSB = binary.BigEndian.Uint32(data[84:88])
	descriptor.LogicalBlockSizeLSB = binary.LittleEndian.Uint16(data[128:130])
	descriptor.LogicalBlockSizeMSB = binary.BigEndian.Uint16(data[130:132])
	descriptor.PathTableSizeLSB = binary.LittleEndian.Uint32(data[132:136])
	descriptor.PathTableSizeMSB = binary.BigEndian.Uint32(data[136:140])
	descriptor.PathTable1Offs = binary.LittleEndian.Uint32(data[140:144])
	descriptor.PathTable2Offs = binary.LittleEndian.Uint32(data[144:148])
	descriptor.PathTable1MSBOffs = binary.BigEndian.Uint32(data[148:152])
	descriptor.PathTable2MSBOffs = binary.BigEndian.Uint32(data[152:156])
	copy(descriptor.RootDirRecord[:], data[156:190])
	copy(descriptor.VolumeSetIdentifier[:], data[190:318])
	copy(descriptor.PublisherIdentifier[:], data[318:446])
	copy(descriptor.DataPreparerIdentifier[:], data[446:574])
	copy(descriptor.ApplicationIdentifier[:], data[574:702])

	return descriptor, nil
}

// ReadPathTable reads the Type-L path table. Entry 0 is the root directory
// and keeps an empty name so ParentDir indexes stay aligned.
func (img *Image) ReadPathTable(lsn uint32, size uint32) ([]PathTableEntry, error) {
	// Calculate number of sectors needed
	sectorsNeeded := common.GetSizeInSectors(size, Form1DataSize)

	pathData, err := img.ReadForm1Range(lsn, sectorsNeeded)
	if err != nil {
		return nil, err
	}

	// Limit to actual path table size
	if uint32(len(pathData)) > size {
		pathData = pathData[:size]
	}

	var entries []PathTableEntry
	offset := 0

	for offset+8 <= len(pathData) {
		entry := PathTableEntry{}
		entry.NameLength = pathData[offset]

		// End of path table
		if entry.NameLength == 0 {
			break
		}

		entry.ExtendedAttrLength = pathData[offset+1]
		entry.DirLocation = binary.LittleEndian.Uint32(pathData[offset+2 : offset+6])
		entry.ParentDir = binary.LittleEndian.Uint16(pathData[offset+6 : offset+8])

		// Read directory name
		nameStart := offset + 8
		nameEnd := nameStart + int(entry.NameLength)
		if nameEnd > len(pathData) {
			break
		}
		entry.Name = string(pathData[nameStart:nameEnd])
		if len(entries) == 0 {
			entry.Name = ""
		} else if !isValidFilename(entry.Name) {
			common.LogDebugf(common.DbgCDIO, "Invalid directory name: %q", entry.Name)
		}

		// Align to even boundary
		offset = nameEnd
		if offset%2 != 0 {
			offset++
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

// BuildDirectoryPath builds the full path for a directory using the path table
func BuildDirectoryPath(index int, pathTable []PathTableEntry) string {
	if index <= 0 || index >= len(pathTable) {
		return "/"
	}

	entry := pathTable[index]
	parent := int(entry.ParentDir) - 1
	if parent == index || parent <= 0 {
		return "/" + entry.Name
	}

	parentPath := BuildDirectoryPath(parent, pathTable)
	return parentPath + "/" + entry.Name
}

// ParseDirectoryEntries parses the records of the directory extent at lsn
func (img *Image) ParseDirectoryEntries(lsn uint32, sizeInBytes uint32) ([]FileEntry, error) {
	var entries []FileEntry
	sizeInSectors := common.GetSizeInSectors(sizeInBytes, Form1DataSize)
	numEntries := 0 // Track entries to skip . and ..

	for sector := uint32(0); sector < sizeInSectors; sector++ {
		data, err := img.ReadForm1(lsn + sector)
		if err != nil {
			return nil, fmt.Errorf("failed to read directory sector %d: %w", lsn+sector, err)
		}

		offset := 0
		for offset < Form1DataSize {
			entryLength := int(data[offset])
			if entryLength == 0 {
				// records never span sectors, the rest is padding
				break
			}
			if entryLength < 33 || offset+entryLength > Form1DataSize {
				break
			}

			entry, err := parseEntryData(data[offset : offset+entryLength])
			offset += entryLength
			if err != nil {
				continue
			}

			// Skip first two entries (. and ..)
			if numEntries >= 2 {
				if img.isValidEntry(entry) {
					entries = append(entries, entry)
				} else {
					common.LogDebugf(common.DbgCDIO, "Skipping invalid entry: %s (LSN: %d, Size: %d)",
						entry.Name, entry.LSN, entry.Size)
				}
			}
			numEntries++
		}
	}

	return entries, nil
}

func parseEntryData(data []byte) (FileEntry, error) {
	if len(data) < 33 {
		return FileEntry{}, fmt.Errorf("insufficient data")
	}

	// Parse directory entry structure - based on ISO9660 DIR_ENTRY
	length := data[0]
	lsn := common.ExtractLBAFromDirRecord(data)
	size := common.ExtractSizeFromDirRecord(data)
	flags := data[25]
	filenameLength := data[32]

	if 33+int(filenameLength) > int(length) {
		return FileEntry{}, fmt.Errorf("filename exceeds entry bounds")
	}

	entry := FileEntry{
		Name:       cleanIdentifier(string(data[33 : 33+filenameLength])),
		LSN:        lsn,
		Size:       size,
		IsDir:      (flags & 0x02) != 0,
		ExtentSize: common.GetSizeInSectors(size, Form1DataSize),
	}
	entry.MSF = common.LSNToMSF(entry.LSN)

	return entry, nil
}

// cleanIdentifier removes the version suffix and names the special entries
func cleanIdentifier(name string) string {
	if common.IsSpecialDirEntry(name) {
		if name == "\x00" {
			return "."
		}
		return ".."
	}

	// Remove version suffix (;1) common in ISO9660
	if idx := strings.Index(name, ";"); idx != -1 {
		name = name[:idx]
	}
	return strings.TrimSuffix(name, ".")
}

// Validate entry against the image bounds
func (img *Image) isValidEntry(entry FileEntry) bool {
	// Skip . and .. entries
	if entry.Name == "." || entry.Name == ".." {
		return false
	}

	// Validate LSN is within bounds
	if entry.LSN == 0 || entry.LSN >= img.totalSectors {
		return false
	}

	// Validate size is reasonable (max 900MB for CD)
	if entry.Size > 900*1024*1024 {
		return false
	}

	return isValidFilename(entry.Name)
}

func isValidFilename(name string) bool {
	if len(name) == 0 {
		return false
	}

	// Check for null bytes
	if strings.Contains(name, "\x00") {
		return false
	}

	// Check for valid UTF-8
	if !utf8.ValidString(name) {
		return false
	}

	for _, r := range name {
		if !unicode.IsPrint(r) {
			return false
		}
	}
	return true
}

// directorySize reads the size of a directory extent from its "." record
func (img *Image) directorySize(lsn uint32) (uint32, error) {
	data, err := img.ReadForm1(lsn)
	if err != nil {
		return 0, err
	}
	if data[0] < 33 {
		return 0, fmt.Errorf("no directory record at LSN %d", lsn)
	}
	return common.ExtractSizeFromDirRecord(data), nil
}

// FindFile looks up an absolute path such as /VCD/INFO.VCD. Names are
// compared case-insensitively and version suffixes are ignored.
func (img *Image) FindFile(path string) (FileEntry, error) {
	descriptor, err := img.ReadISODescriptor()
	if err != nil {
		return FileEntry{}, err
	}

	path = "/" + strings.Trim(path, "/")
	dirPath := "/"
	fileName := strings.TrimPrefix(path, "/")
	if idx := strings.LastIndex(path, "/"); idx > 0 {
		dirPath, fileName = path[:idx], path[idx+1:]
	}

	var dirLSN, dirSize uint32
	if dirPath == "/" {
		dirLSN = common.ExtractLBAFromDirRecord(descriptor.RootDirRecord[:])
		dirSize = common.ExtractSizeFromDirRecord(descriptor.RootDirRecord[:])
	} else {
		pathTable, err := img.ReadPathTable(descriptor.PathTable1Offs, descriptor.PathTableSizeLSB)
		if err != nil {
			return FileEntry{}, err
		}
		found := false
		for i := range pathTable {
			if strings.EqualFold(BuildDirectoryPath(i, pathTable), dirPath) {
				dirLSN = pathTable[i].DirLocation
				found = true
				break
			}
		}
		if !found {
			return FileEntry{}, fmt.Errorf("%s: %w", path, ErrFileNotFound)
		}
		if dirSize, err = img.directorySize(dirLSN); err != nil {
			return FileEntry{}, err
		}
	}

	entries, err := img.ParseDirectoryEntries(dirLSN, dirSize)
	if err != nil {
		return FileEntry{}, err
	}
	for _, entry := range entries {
		if strings.EqualFold(entry.Name, fileName) {
			entry.Path = strings.TrimSuffix(dirPath, "/") + "/" + entry.Name
			return entry, nil
		}
	}
	return FileEntry{}, fmt.Errorf("%s: %w", path, ErrFileNotFound)
}

// ReadFile returns the contents of a Form 1 file
func (img *Image) ReadFile(entry FileEntry) ([]byte, error) {
	data, err := img.ReadForm1Range(entry.LSN, entry.ExtentSize)
	if err != nil {
		return nil, err
	}
	if uint32(len(data)) > entry.Size {
		data = data[:entry.Size]
	}
	return data, nil
}

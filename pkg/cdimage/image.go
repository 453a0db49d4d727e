package cdimage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hansbonini/vcdtools/pkg/common"
	"github.com/q191201771/naza/pkg/lru"
)

var (
	// ErrSectorOutOfRange is returned for reads past the end of the image
	ErrSectorOutOfRange = errors.New("sector out of range")
	// ErrNoForm2 is returned when Mode 2 data is requested from a cooked image
	ErrNoForm2 = errors.New("image carries no Mode 2 data")
)

// Layout describes how sectors are stored in the image file
type Layout int

const (
	LayoutRaw   Layout = iota // 2352 byte sectors with sync and header
	LayoutMode2               // 2336 byte sectors starting at the subheader
	LayoutISO                 // 2048 byte user data only
)

func (l Layout) String() string {
	switch l {
	case LayoutRaw:
		return "raw/2352"
	case LayoutMode2:
		return "mode2/2336"
	case LayoutISO:
		return "iso/2048"
	}
	return "unknown"
}

// SectorSize returns the number of bytes a sector occupies in the file
func (l Layout) SectorSize() int64 {
	switch l {
	case LayoutRaw:
		return SectorSizeRaw
	case LayoutMode2:
		return SectorSizeMode2
	}
	return SectorSizeISO
}

// Track is one entry of the image's track table
type Track struct {
	Number   int    // CD track number, starting at 1
	Mode     string // e.g. MODE2/2352
	StartLSN uint32 // first sector (INDEX 01)
	Sectors  uint32 // sectors up to the next track or the end of the image
}

// Image provides sector level access to a CD image file
type Image struct {
	path         string
	file         *os.File
	layout       Layout
	totalSectors uint32
	cache        *lru.Lru
	cueSheet     string
	tracks       []Track
}

// Open opens a .bin/.img image, or the image referenced by a .cue sheet.
// cacheSectors bounds the decoded sector cache, 0 disables it.
func Open(path string, cacheSectors int) (*Image, error) {
	imagePath := path
	var cue *CueSheet
	var cuePath string

	if strings.EqualFold(filepath.Ext(path), ".cue") {
		sheet, err := LoadCueSheet(path)
		if err != nil {
			return nil, err
		}
		if sheet.File == "" {
			return nil, common.FormatErrorString(common.ErrFailedToReadCueSheet, "%s has no FILE entry", path)
		}
		cue, cuePath = sheet, path
		imagePath = filepath.Join(filepath.Dir(path), sheet.File)
	} else if sibling, ok := findCueSheet(path); ok {
		sheet, err := LoadCueSheet(sibling)
		if err != nil {
			common.LogWarn("%s: %v", common.ErrFailedToReadCueSheet, err)
		} else {
			cue, cuePath = sheet, sibling
		}
	}

	file, err := os.Open(imagePath)
	if err != nil {
		return nil, common.FormatError(common.ErrFailedToOpenImage, err)
	}

	fileInfo, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, common.FormatError(common.ErrFailedToStatImage, err)
	}

	layout, err := detectLayout(file, fileInfo.Size())
	if err != nil {
		file.Close()
		return nil, err
	}
	total, err := common.SafeInt64ToUint32(fileInfo.Size() / layout.SectorSize())
	if err != nil {
		file.Close()
		return nil, common.FormatError(common.ErrFailedToStatImage, err)
	}

	img := &Image{
		path:         imagePath,
		file:         file,
		layout:       layout,
		totalSectors: total,
	}
	if cacheSectors > 0 {
		img.cache = lru.New(cacheSectors)
	}
	if cue != nil {
		img.cueSheet = cuePath
		img.tracks = cue.TrackTable(total)
		common.LogInfo(common.InfoCueSheetLoaded, cuePath, len(img.tracks))
	}

	common.LogDebugf(common.DbgCDIO, "opened %s: layout %s, %d sectors", imagePath, layout, total)
	return img, nil
}

// findCueSheet looks for <base>.cue next to the image
func findCueSheet(path string) (string, bool) {
	base := strings.TrimSuffix(path, filepath.Ext(path))
	for _, ext := range []string{".cue", ".CUE"} {
		candidate := base + ext
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
	}
	return "", false
}

// detectLayout infers the sector layout from the file size, checking the sync
// pattern when the size is ambiguous
func detectLayout(r io.ReaderAt, size int64) (Layout, error) {
	if size > 0 && size%SectorSizeRaw == 0 {
		sync := make([]byte, SyncSize)
		if _, err := r.ReadAt(sync, 0); err == nil && bytes.Equal(sync, SyncPattern[:]) {
			return LayoutRaw, nil
		}
	}
	switch {
	case size > 0 && size%SectorSizeMode2 == 0:
		return LayoutMode2, nil
	case size > 0 && size%SectorSizeRaw == 0:
		return LayoutRaw, nil
	case size > 0 && size%SectorSizeISO == 0:
		return LayoutISO, nil
	}
	return 0, common.FormatErrorString(common.ErrUnsupportedSectorLayout, "size %d is not a multiple of 2352, 2336 or 2048", size)
}

// Close releases the image file
func (img *Image) Close() error {
	if img.file == nil {
		return nil
	}
	err := img.file.Close()
	img.file = nil
	return err
}

// Path returns the image file path
func (img *Image) Path() string { return img.path }

// CueSheet returns the cue sheet path, empty when none was found
func (img *Image) CueSheet() string { return img.cueSheet }

// Layout returns the detected sector layout
func (img *Image) Layout() Layout { return img.layout }

// TotalSectors returns the number of sectors in the image
func (img *Image) TotalSectors() uint32 { return img.totalSectors }

// Tracks returns the cue sheet track table, nil without a cue sheet
func (img *Image) Tracks() []Track { return img.tracks }

func (img *Image) readRaw(lsn uint32) ([]byte, error) {
	if img.file == nil {
		return nil, fmt.Errorf("%s: image is closed", common.ErrFailedToReadSector)
	}
	if lsn >= img.totalSectors {
		return nil, fmt.Errorf("LSN %d out of bounds (total: %d): %w", lsn, img.totalSectors, ErrSectorOutOfRange)
	}

	sectorSize := img.layout.SectorSize()
	buf := make([]byte, sectorSize)
	if _, err := img.file.ReadAt(buf, int64(lsn)*sectorSize); err != nil {
		return nil, fmt.Errorf("%s %d: %w", common.ErrFailedToReadSector, lsn, err)
	}
	return buf, nil
}

// ReadMode2Sector reads the subheader and Form 2 payload of a sector.
// The returned sector may be shared with the cache and must not be modified.
func (img *Image) ReadMode2Sector(lsn uint32) (*Mode2Sector, error) {
	if img.cache != nil {
		if v, exist := img.cache.Get(lsn); exist {
			common.LogDebugf(common.DbgCDIO, common.DebugSectorCacheHit, lsn)
			return v.(*Mode2Sector), nil
		}
	}

	var subheaderStart int
	switch img.layout {
	case LayoutRaw:
		subheaderStart = SyncSize + HeaderSize
	case LayoutMode2:
		subheaderStart = 0
	default:
		return nil, ErrNoForm2
	}

	raw, err := img.readRaw(lsn)
	if err != nil {
		return nil, err
	}

	sector := &Mode2Sector{}
	copy(sector.Subheader[:], raw[subheaderStart:subheaderStart+SubheaderSize])
	copy(sector.Data[:], raw[subheaderStart+SubheaderSize:])

	if img.cache != nil {
		img.cache.Put(lsn, sector)
	}
	return sector, nil
}

// ReadForm1 reads the 2048 user bytes of a Form 1 (or Mode 1) sector
func (img *Image) ReadForm1(lsn uint32) ([]byte, error) {
	raw, err := img.readRaw(lsn)
	if err != nil {
		return nil, err
	}

	var dataStart int
	switch img.layout {
	case LayoutRaw:
		dataStart = SyncSize + HeaderSize + SubheaderSize
	case LayoutMode2:
		dataStart = SubheaderSize
	}
	return raw[dataStart : dataStart+Form1DataSize], nil
}

// ReadForm1Range reads count consecutive Form 1 sectors starting at lsn
func (img *Image) ReadForm1Range(lsn uint32, count uint32) ([]byte, error) {
	data := make([]byte, 0, int(count)*Form1DataSize)
	for i := uint32(0); i < count; i++ {
		sector, err := img.ReadForm1(lsn + i)
		if err != nil {
			return nil, err
		}
		data = append(data, sector...)
	}
	return data, nil
}

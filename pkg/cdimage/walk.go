package cdimage

import (
	"fmt"
	"io"

	"github.com/hansbonini/vcdtools/pkg/common"
)

// ListFiles returns every file of the ISO9660 tree with its full path,
// directories in path table order
func (img *Image) ListFiles() ([]FileEntry, error) {
	descriptor, err := img.ReadISODescriptor()
	if err != nil {
		return nil, err
	}
	pathTable, err := img.ReadPathTable(descriptor.PathTable1Offs, descriptor.PathTableSizeLSB)
	if err != nil {
		return nil, err
	}

	var files []FileEntry
	for i, dir := range pathTable {
		dirPath := BuildDirectoryPath(i, pathTable)
		size, err := img.directorySize(dir.DirLocation)
		if err != nil {
			return nil, fmt.Errorf("directory %s: %w", dirPath, err)
		}
		entries, err := img.ParseDirectoryEntries(dir.DirLocation, size)
		if err != nil {
			return nil, fmt.Errorf("directory %s: %w", dirPath, err)
		}
		for _, entry := range entries {
			if entry.IsDir {
				continue
			}
			if dirPath == "/" {
				entry.Path = "/" + entry.Name
			} else {
				entry.Path = dirPath + "/" + entry.Name
			}
			files = append(files, entry)
		}
	}
	return files, nil
}

// IsForm2File reports whether the file is stored in Form 2 sectors, as the
// MPEG tracks and segment play items are
func (img *Image) IsForm2File(entry FileEntry) bool {
	if img.layout == LayoutISO || entry.ExtentSize == 0 {
		return false
	}
	sector, err := img.ReadMode2Sector(entry.LSN)
	if err != nil {
		return false
	}
	return sector.IsForm2()
}

// CopyFile writes the contents of entry to w. Form 2 files are copied as
// 2324 byte sector payloads, one per 2048 bytes of recorded size.
func (img *Image) CopyFile(entry FileEntry, w io.Writer) (int64, error) {
	if !img.IsForm2File(entry) {
		data, err := img.ReadFile(entry)
		if err != nil {
			return 0, err
		}
		n, err := w.Write(data)
		return int64(n), err
	}

	var written int64
	for i := uint32(0); i < entry.ExtentSize; i++ {
		sector, err := img.ReadMode2Sector(entry.LSN + i)
		if err != nil {
			return written, fmt.Errorf("failed to read data at offset %d: %w", written, err)
		}
		n, err := w.Write(sector.Data[:])
		written += int64(n)
		if err != nil {
			return written, fmt.Errorf("failed to write data at offset %d: %w", written, err)
		}
	}
	common.LogDebugf(common.DbgCDIO, "copied %s as %d Form 2 sectors", entry.Path, entry.ExtentSize)
	return written, nil
}

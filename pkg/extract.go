// Package pkg provides the processors behind the vcdtools commands.
// This file contains the extractor that dumps the ISO9660 tree of a disc.
package pkg

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/hansbonini/vcdtools/pkg/cdimage"
	"github.com/hansbonini/vcdtools/pkg/common"
)

// ExtractedFile is one file written by the extractor
type ExtractedFile struct {
	cdimage.FileEntry
	Form2      bool
	Written    int64
	OutputPath string
}

// DiscExtractor copies the files of a disc image to a directory
type DiscExtractor struct {
	cacheSectors int
}

// NewDiscExtractor creates a new extractor instance
func NewDiscExtractor(cacheSectors int) *DiscExtractor {
	return &DiscExtractor{cacheSectors: cacheSectors}
}

// Extract writes every file of the image under outputDir, keeping the
// directory structure. MPEG tracks and segments come out as raw Form 2
// payloads.
func (e *DiscExtractor) Extract(imagePath, outputDir string) ([]ExtractedFile, error) {
	img, err := cdimage.Open(imagePath, e.cacheSectors)
	if err != nil {
		return nil, err
	}
	defer img.Close()

	files, err := img.ListFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	extracted := make([]ExtractedFile, 0, len(files))
	for i, entry := range files {
		// names come from the disc; keep them inside outputDir
		outputPath := filepath.Join(outputDir, filepath.FromSlash(path.Clean("/"+entry.Path)))

		file, err := e.extractFile(img, entry, outputPath)
		if err != nil {
			return extracted, err
		}
		common.LogDebug("%04X  %s  LBA %6d  %10d bytes  %s", i, entry.MSF, entry.LSN, file.Written, entry.Path)
		extracted = append(extracted, file)
	}
	return extracted, nil
}

func (e *DiscExtractor) extractFile(img *cdimage.Image, entry cdimage.FileEntry, outputPath string) (ExtractedFile, error) {
	file := ExtractedFile{FileEntry: entry, Form2: img.IsForm2File(entry), OutputPath: outputPath}

	dir := filepath.Dir(outputPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return file, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return file, common.FormatError(common.ErrFailedToCreateOutput, err)
	}

	file.Written, err = img.CopyFile(entry, out)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return file, fmt.Errorf("%s: %w", entry.Path, err)
	}
	common.LogInfo(common.InfoFileExtracted, entry.Path, file.Written)
	return file, nil
}

// Package common provides common utilities for CD-ROM operations.
// This file contains functions for MSF/BCD conversion and ISO9660 record helpers.
package common

import "fmt"

// CD addressing constants
const (
	PregapSectors    = 150 // LBA of LSN 0 (00:02:00)
	FramesPerSecond  = 75
	SecondsPerMinute = 60
	FramesPerMinute  = FramesPerSecond * SecondsPerMinute
)

// BCDToInt converts a packed BCD byte (0x00-0x99) to its decimal value
func BCDToInt(b uint8) int {
	return int(b>>4)*10 + int(b&0x0F)
}

// IntToBCD converts a decimal value (0-99) to packed BCD
func IntToBCD(n int) uint8 {
	if n < 0 || n > 99 {
		return 0
	}
	return uint8(n/10)<<4 | uint8(n%10)
}

// MSFToLBA converts a BCD encoded Minutes:Seconds:Frames triple to an LBA
func MSFToLBA(m, s, f uint8) uint32 {
	return uint32(BCDToInt(m)*FramesPerMinute + BCDToInt(s)*FramesPerSecond + BCDToInt(f))
}

// MSFToLSN converts a BCD encoded MSF triple to a logical sector number.
// Addresses inside the pregap map to 0.
func MSFToLSN(m, s, f uint8) uint32 {
	lba := MSFToLBA(m, s, f)
	if lba < PregapSectors {
		return 0
	}
	return lba - PregapSectors
}

// LSNToMSF converts an LSN to MSF (Minutes:Seconds:Frames) text
// LSN to MSF conversion: LSN + 150 (pregap)
func LSNToMSF(lsn uint32) string {
	totalFrames := lsn + PregapSectors

	minutes := totalFrames / FramesPerMinute
	seconds := (totalFrames % FramesPerMinute) / FramesPerSecond
	frames := totalFrames % FramesPerSecond

	return fmt.Sprintf("%02d:%02d:%02d", minutes, seconds, frames)
}

// GetSizeInSectors calculates the number of sectors needed for a given size in bytes
func GetSizeInSectors(sizeBytes uint32, sectorSize uint32) uint32 {
	if sectorSize == 0 {
		return 0
	}
	return (sizeBytes + sectorSize - 1) / sectorSize
}

// IsSpecialDirEntry checks if a directory entry is "." or ".."
func IsSpecialDirEntry(fileName string) bool {
	return fileName == "\x00" || fileName == "\x01"
}

// ExtractLBAFromDirRecord extracts LBA from ISO9660 directory record
func ExtractLBAFromDirRecord(dirRecord []byte) uint32 {
	if len(dirRecord) < 6 {
		return 0
	}
	// LBA is at offset 2 (little-endian)
	return uint32(dirRecord[2]) |
		uint32(dirRecord[3])<<8 |
		uint32(dirRecord[4])<<16 |
		uint32(dirRecord[5])<<24
}

// ExtractSizeFromDirRecord extracts size from ISO9660 directory record
func ExtractSizeFromDirRecord(dirRecord []byte) uint32 {
	if len(dirRecord) < 14 {
		return 0
	}
	// Size is at offset 10 (little-endian)
	return uint32(dirRecord[10]) |
		uint32(dirRecord[11])<<8 |
		uint32(dirRecord[12])<<16 |
		uint32(dirRecord[13])<<24
}

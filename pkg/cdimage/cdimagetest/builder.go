// Package cdimagetest assembles small raw Mode 2 images for tests.
package cdimagetest

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hansbonini/vcdtools/pkg/cdimage"
	"github.com/hansbonini/vcdtools/pkg/common"
)

const (
	pathTableLSN = 18
	rootDirLSN   = 19
	firstDirLSN  = 20
)

type file struct {
	name string
	lsn  uint32
	size uint32
}

// Builder lays out a raw 2352 byte per sector image in memory
type Builder struct {
	total      uint32
	subheaders map[uint32][cdimage.SubheaderSize]byte
	data       map[uint32][]byte
	dirs       map[string][]file
	volumeID   string
	volumeSet  string
	publisher  string
	preparer   string
}

// NewBuilder creates an image of totalSectors empty Form 1 sectors
func NewBuilder(totalSectors uint32) *Builder {
	return &Builder{
		total:      totalSectors,
		subheaders: make(map[uint32][cdimage.SubheaderSize]byte),
		data:       make(map[uint32][]byte),
		dirs:       make(map[string][]file),
	}
}

// SetVolume sets the identifiers written to the volume descriptor
func (b *Builder) SetVolume(volumeID, volumeSet, publisher, preparer string) {
	b.volumeID, b.volumeSet, b.publisher, b.preparer = volumeID, volumeSet, publisher, preparer
}

func subheader(submode byte) [cdimage.SubheaderSize]byte {
	return [cdimage.SubheaderSize]byte{1, 0, submode, 0, 1, 0, submode, 0}
}

// SetForm1 stores up to 2048 bytes of user data at lsn
func (b *Builder) SetForm1(lsn uint32, payload []byte) {
	b.subheaders[lsn] = subheader(cdimage.SubmodeData)
	b.data[lsn] = append([]byte(nil), payload...)
}

// SetForm1Range spreads payload over consecutive Form 1 sectors
func (b *Builder) SetForm1Range(lsn uint32, payload []byte) {
	for len(payload) > 0 {
		n := len(payload)
		if n > cdimage.Form1DataSize {
			n = cdimage.Form1DataSize
		}
		b.SetForm1(lsn, payload[:n])
		payload = payload[n:]
		lsn++
	}
}

// SetForm2 stores an MPEG style Form 2 sector at lsn
func (b *Builder) SetForm2(lsn uint32, submode byte, payload []byte) {
	b.subheaders[lsn] = subheader(submode | cdimage.SubmodeForm2)
	b.data[lsn] = append([]byte(nil), payload...)
}

// FillMPEG marks count sectors from lsn as video sectors whose first four
// payload bytes carry their LSN
func (b *Builder) FillMPEG(lsn uint32, count uint32) {
	for i := uint32(0); i < count; i++ {
		payload := make([]byte, 4)
		binary.BigEndian.PutUint32(payload, lsn+i)
		b.SetForm2(lsn+i, cdimage.SubmodeVideo|cdimage.SubmodeRealTime, payload)
	}
}

// SetPadding marks lsn as a padding sector
func (b *Builder) SetPadding(lsn uint32) {
	b.subheaders[lsn] = subheader(cdimage.SubmodeForm2 | cdimage.SubmodeRealTime)
	b.data[lsn] = nil
}

// AddFile registers a file under dir ("" for the root) for the ISO9660 tree
func (b *Builder) AddFile(dir, name string, lsn, size uint32) {
	dir = strings.Trim(dir, "/")
	b.dirs[dir] = append(b.dirs[dir], file{name: name, lsn: lsn, size: size})
}

// Bytes renders the image, ISO9660 structures included
func (b *Builder) Bytes() []byte {
	b.writeISO()

	out := make([]byte, int(b.total)*cdimage.SectorSizeRaw)
	for lsn := uint32(0); lsn < b.total; lsn++ {
		sector := out[int(lsn)*cdimage.SectorSizeRaw:][:cdimage.SectorSizeRaw]
		copy(sector, cdimage.SyncPattern[:])

		lba := int(lsn) + common.PregapSectors
		sector[12] = common.IntToBCD(lba / common.FramesPerMinute)
		sector[13] = common.IntToBCD(lba / common.FramesPerSecond % common.SecondsPerMinute)
		sector[14] = common.IntToBCD(lba % common.FramesPerSecond)
		sector[15] = 2

		sub, ok := b.subheaders[lsn]
		if !ok {
			sub = subheader(cdimage.SubmodeData)
		}
		copy(sector[16:24], sub[:])
		copy(sector[24:], b.data[lsn])
	}
	return out
}

// WriteFile renders the image into dir and returns its path
func (b *Builder) WriteFile(dir, name string) (string, error) {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, b.Bytes(), 0644); err != nil {
		return "", err
	}
	return path, nil
}

func dirRecord(name string, lsn, size uint32, isDir bool) []byte {
	length := 33 + len(name)
	if length%2 != 0 {
		length++
	}
	rec := make([]byte, length)
	rec[0] = byte(length)
	binary.LittleEndian.PutUint32(rec[2:6], lsn)
	binary.BigEndian.PutUint32(rec[6:10], lsn)
	binary.LittleEndian.PutUint32(rec[10:14], size)
	binary.BigEndian.PutUint32(rec[14:18], size)
	if isDir {
		rec[25] = 0x02
	}
	binary.LittleEndian.PutUint16(rec[28:30], 1)
	binary.BigEndian.PutUint16(rec[30:32], 1)
	rec[32] = byte(len(name))
	copy(rec[33:], name)
	return rec
}

func (b *Builder) writeISO() {
	var subdirs []string
	for dir := range b.dirs {
		if dir != "" {
			subdirs = append(subdirs, dir)
		}
	}
	sort.Strings(subdirs)

	dirLSN := map[string]uint32{"": rootDirLSN}
	for i, dir := range subdirs {
		dirLSN[dir] = firstDirLSN + uint32(i)
	}

	// path table
	var pathTable []byte
	appendPath := func(name string, lsn uint32, parent uint16) {
		rec := make([]byte, 8+len(name))
		rec[0] = byte(len(name))
		binary.LittleEndian.PutUint32(rec[2:6], lsn)
		binary.LittleEndian.PutUint16(rec[6:8], parent)
		copy(rec[8:], name)
		if len(rec)%2 != 0 {
			rec = append(rec, 0)
		}
		pathTable = append(pathTable, rec...)
	}
	appendPath("\x00", rootDirLSN, 1)
	for _, dir := range subdirs {
		appendPath(dir, dirLSN[dir], 1)
	}
	b.SetForm1(pathTableLSN, pathTable)

	// directories
	writeDir := func(dir string, parent uint32, children []byte) {
		lsn := dirLSN[dir]
		var data []byte
		data = append(data, dirRecord("\x00", lsn, cdimage.Form1DataSize, true)...)
		data = append(data, dirRecord("\x01", parent, cdimage.Form1DataSize, true)...)
		data = append(data, children...)
		b.SetForm1(lsn, data)
	}

	var rootChildren []byte
	for _, dir := range subdirs {
		rootChildren = append(rootChildren, dirRecord(dir, dirLSN[dir], cdimage.Form1DataSize, true)...)
	}
	for _, f := range b.dirs[""] {
		rootChildren = append(rootChildren, dirRecord(f.name+";1", f.lsn, f.size, false)...)
	}
	writeDir("", rootDirLSN, rootChildren)

	for _, dir := range subdirs {
		var children []byte
		for _, f := range b.dirs[dir] {
			children = append(children, dirRecord(f.name+";1", f.lsn, f.size, false)...)
		}
		writeDir(dir, rootDirLSN, children)
	}

	// primary volume descriptor
	pvd := make([]byte, cdimage.Form1DataSize)
	pvd[0] = 1
	copy(pvd[1:6], "CD001")
	pvd[6] = 1
	copy(pvd[8:40], padded("", 32))
	copy(pvd[40:72], padded(b.volumeID, 32))
	binary.LittleEndian.PutUint32(pvd[80:84], b.total)
	binary.BigEndian.PutUint32(pvd[84:88], b.total)
	binary.LittleEndian.PutUint16(pvd[128:130], cdimage.Form1DataSize)
	binary.BigEndian.PutUint16(pvd[130:132], cdimage.Form1DataSize)
	binary.LittleEndian.PutUint32(pvd[132:136], uint32(len(pathTable)))
	binary.BigEndian.PutUint32(pvd[136:140], uint32(len(pathTable)))
	binary.LittleEndian.PutUint32(pvd[140:144], pathTableLSN)
	copy(pvd[156:190], dirRecord("\x00", rootDirLSN, cdimage.Form1DataSize, true))
	copy(pvd[190:318], padded(b.volumeSet, 128))
	copy(pvd[318:446], padded(b.publisher, 128))
	copy(pvd[446:574], padded(b.preparer, 128))
	b.SetForm1(cdimage.PrimaryVolumeDescriptorLSN, pvd)

	terminator := make([]byte, cdimage.Form1DataSize)
	terminator[0] = 0xFF
	copy(terminator[1:6], "CD001")
	terminator[6] = 1
	b.SetForm1(cdimage.PrimaryVolumeDescriptorLSN+1, terminator)
}

func padded(s string, width int) []byte {
	out := []byte(s)
	for len(out) < width {
		out = append(out, ' ')
	}
	return out[:width]
}

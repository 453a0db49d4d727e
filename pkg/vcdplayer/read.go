package vcdplayer

import (
	"fmt"

	"github.com/hansbonini/vcdtools/pkg/cdimage"
	"github.com/hansbonini/vcdtools/pkg/common"
)

// ReadStatus is the outcome of Read
type ReadStatus int

const (
	ReadBlock ReadStatus = iota
	ReadStill
	ReadEnd
	ReadError
)

func (s ReadStatus) String() string {
	switch s {
	case ReadBlock:
		return "block"
	case ReadStill:
		return "still"
	case ReadEnd:
		return "end"
	}
	return "error"
}

// maxResolutions bounds the list changes a single Read may follow
const maxResolutions = 256

// still payload codes
const (
	stillCodeMax        = 0xFE
	stillCodeIndefinite = 0xFF
)

// Read fills buf with the next MPEG sector. On ReadStill buf holds the
// still marker and the caller waits for Still() before reading again.
func (p *Player) Read(buf []byte) (ReadStatus, error) {
	if p.disc == nil {
		return ReadError, ErrNoDisc
	}
	if len(buf) < cdimage.Form2DataSize {
		return ReadError, fmt.Errorf("%d bytes: %w", len(buf), ErrShortBuffer)
	}

	for resolutions := 0; ; {
		if p.lsn >= p.endLSN {
			common.LogDebugf(common.DbgLSN, common.DebugEndReached, p.lsn, p.endLSN)
			if resolutions++; resolutions > maxResolutions {
				common.LogWarn(common.WarnUnexpectedPBC, "endless list chain")
				return ReadEnd, nil
			}
			switch p.resolveEnd() {
			case navStill:
				p.fillStill(buf)
				return ReadStill, nil
			case navEnd:
				return ReadEnd, nil
			}
			continue
		}

		done, err := p.readSector(buf)
		if err != nil {
			return ReadError, err
		}
		if done {
			return ReadBlock, nil
		}
	}
}

// readSector reads at the cursor, stepping over padding sectors. It reports
// false when padding ran up to the end of the item.
func (p *Player) readSector(buf []byte) (bool, error) {
	for p.lsn < p.endLSN {
		sector, err := p.disc.ReadMode2Sector(p.lsn)
		if err != nil {
			return false, fmt.Errorf("LSN %d: %w: %w", p.lsn, ErrIO, err)
		}
		p.lsn++

		if !sector.IsPadding() {
			copy(buf, sector.Data[:])
			return true, nil
		}
		common.LogDebugf(common.DbgLSN, common.DebugPaddingSkipped, p.lsn-1)
	}
	common.LogDebugf(common.DbgLSN, common.DebugEndInReading, p.lsn, p.endLSN)
	return false, nil
}

// fillStill writes the still marker: 00 00 01 and the wait code
func (p *Player) fillStill(buf []byte) {
	payload := buf[:cdimage.Form2DataSize]
	for i := range payload {
		payload[i] = 0
	}
	payload[2] = 0x01

	switch p.still.Kind {
	case StillTimed:
		code := p.still.Seconds
		if code > stillCodeMax {
			code = stillCodeMax
		}
		payload[3] = byte(code)
	default:
		payload[3] = stillCodeIndefinite
	}
	common.LogDebugf(common.DbgStill, "still frame, code 0x%02x", payload[3])
}

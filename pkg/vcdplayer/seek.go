package vcdplayer

import (
	"fmt"
	"io"

	"github.com/hansbonini/vcdtools/pkg/cdimage"
	"github.com/hansbonini/vcdtools/pkg/common"
	"github.com/hansbonini/vcdtools/pkg/vcdinfo"
)

// Seek moves the cursor within the current item. Offsets are bytes of
// Form 2 payload. io.SeekCurrent only reports the position.
func (p *Player) Seek(offset int64, whence int) (int64, error) {
	if p.disc == nil {
		return 0, ErrNoDisc
	}

	switch whence {
	case io.SeekStart:
		if offset < 0 {
			return 0, fmt.Errorf("negative offset %d: %w", offset, ErrSeek)
		}
		oldLSN := p.lsn
		p.lsn = p.originLSN + uint32(offset/cdimage.Form2DataSize)
		common.LogDebugf(common.DbgSeekSet, common.DebugSeekSet, offset, p.lsn, p.originLSN)

		// a backward jump makes the next entry guess stale
		if !p.PBCOn() && p.item.Type == vcdinfo.ItemEntry && p.lsn < oldLSN {
			p.next = NoEdge
			if entry, ok := p.disc.EntryAt(p.lsn); ok && entry+1 < p.disc.NumEntries() {
				p.next = NewEdge(entry + 1)
			}
			common.LogDebugf(common.DbgSeekSet, common.DebugSeekBackwards, fmt.Sprint(p.next.Num()))
		}
		return int64(p.lsn-p.originLSN) * cdimage.Form2DataSize, nil

	case io.SeekCurrent:
		if offset != 0 {
			return 0, fmt.Errorf("relative offset %d: %w", offset, ErrSeek)
		}
		base, name := p.originLSN, "entry"
		if p.opts.SliderLength == SliderTrack {
			base, name = p.trackLSN, "track"
		}
		diff := int64(p.lsn) - int64(base)
		if diff < 0 {
			diff = 0
		}
		common.LogDebugf(common.DbgSeekCur, common.DebugSeekCur, p.lsn, name, diff)
		return diff * cdimage.Form2DataSize, nil
	}
	return 0, fmt.Errorf("whence %d: %w", whence, ErrSeek)
}

// Length returns the size in bytes of the current item. With a track
// slider an entry reports the size of its track.
func (p *Player) Length() int64 {
	if p.disc == nil {
		return 0
	}

	var sectors uint32
	switch p.item.Type {
	case vcdinfo.ItemEntry:
		if p.opts.SliderLength == SliderTrack {
			sectors = p.disc.TrackSectors(p.disc.EntryTrack(p.item.Num))
		} else {
			sectors = p.disc.ItemSize(p.item)
		}
	case vcdinfo.ItemTrack, vcdinfo.ItemSegment:
		sectors = p.disc.ItemSize(p.item)
	default:
		sectors = p.endLSN - p.originLSN
	}
	return int64(sectors) * cdimage.Form2DataSize
}

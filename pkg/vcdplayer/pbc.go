package vcdplayer

import (
	"fmt"

	"github.com/hansbonini/vcdtools/pkg/common"
	"github.com/hansbonini/vcdtools/pkg/vcdinfo"
	"github.com/q191201771/naza/pkg/nazaerrors"
)

// loopMask is the width of the selection loop counter
const loopMask = 0x7f

type navResult int

const (
	navContinue navResult = iota
	navStill
	navEnd
)

// Play starts item. A LID turns playback control on, any other item type
// plays without it.
func (p *Player) Play(item PlayItem) error {
	if p.disc == nil {
		return nazaerrors.Wrap(ErrNoDisc)
	}
	common.LogInfo(common.InfoPlaying, item)

	if item.Type == vcdinfo.ItemLID {
		if item.Num < 1 || item.Num > p.disc.NumLIDs() {
			return fmt.Errorf("LID %d: %w", item.Num, ErrBadItemType)
		}
		p.playLID(uint16(item.Num))
		return nil
	}

	p.lid, p.pxd = NoEdge, nil
	return p.playSingleItem(item)
}

// playLID makes lid the current list and starts its first item. The edges
// always follow the new list, even when its first item cannot be played.
func (p *Player) playLID(lid uint16) {
	p.lid = NewEdge(int(lid))
	p.pxd = p.disc.Descriptor(lid)
	p.updateNav()

	switch d := p.pxd.(type) {
	case *vcdinfo.SelectionList:
		anchor := vcdinfo.ClassifyItemID(d.ItemID)
		p.loop = 1
		p.loopItem = anchor
		if err := p.playSingleItem(anchor); err != nil {
			common.LogDebugf(common.DbgPBC, "LID %d: %v", lid, err)
			p.skipItem()
		}
	case *vcdinfo.PlayList:
		p.pdi = -1
		if !p.incPlayItem() {
			p.skipItem()
		}
	case nil:
		common.LogWarn(common.WarnNoDescriptor, lid)
		p.skipItem()
	default:
		// end and command lists play nothing
		p.skipItem()
	}
}

// skipItem parks the cursor at the end of the current item, so the next
// read resolves the list instead of streaming or continuing into the
// following entry
func (p *Player) skipItem() {
	p.lsn = p.endLSN
	if p.trackEndLSN > p.endLSN {
		p.trackEndLSN = p.endLSN
	}
}

// playSingleItem validates item and moves the cursor to its start. Invalid
// items leave the state unchanged.
func (p *Player) playSingleItem(item PlayItem) error {
	common.LogDebugf(common.DbgCall, "play %s", item)

	still := StillState{}
	switch item.Type {
	case vcdinfo.ItemSegment:
		if item.Num < 0 || item.Num >= p.disc.NumSegments() {
			common.LogWarn(common.WarnBadSegmentNumber, item.Num)
			return fmt.Errorf("segment %d: %w", item.Num, ErrBadSegmentNumber)
		}
		if p.disc.SegmentContent(item.Num).IsStill() {
			still.Kind = StillReading
		}
	case vcdinfo.ItemTrack:
		if item.Num < 1 || item.Num > p.disc.NumTracks() {
			common.LogWarn(common.WarnBadTrackNumber, item.Num)
			return fmt.Errorf("track %d: %w", item.Num, ErrBadTrackNumber)
		}
	case vcdinfo.ItemEntry:
		if item.Num < 0 || item.Num >= p.disc.NumEntries() {
			common.LogWarn(common.WarnBadEntryNumber, item.Num)
			return fmt.Errorf("entry %d: %w", item.Num, ErrBadEntryNumber)
		}
	default:
		// nothing to play, the next read resolves the list
		common.LogWarn(common.WarnBadItemType, item.Type)
		p.item = item
		p.lsn = p.endLSN
		return fmt.Errorf("%s: %w", item.Type, ErrBadItemType)
	}

	p.item = item
	p.still = still
	p.setOrigin()
	p.updateNav()
	return nil
}

// incPlayItem advances to the next item of the current play list. It
// reports false once the list is exhausted; an item that cannot be played
// is skipped on the next read.
func (p *Player) incPlayItem() bool {
	pld, ok := p.pxd.(*vcdinfo.PlayList)
	if !ok || len(pld.Items) == 0 {
		return false
	}

	p.pdi++
	if p.pdi < 0 || p.pdi >= len(pld.Items) {
		return false
	}

	item := vcdinfo.ClassifyItemID(pld.Items[p.pdi])
	common.LogDebugf(common.DbgPBC, common.DebugPlayItem, p.pdi, item)
	if err := p.playSingleItem(item); err != nil {
		common.LogDebugf(common.DbgPBC, "play item %d: %v", p.pdi, err)
		p.skipItem()
	}
	return true
}

// resolveEnd decides what follows once the cursor reached the end of the
// current item
func (p *Player) resolveEnd() navResult {
	if p.item.Type == vcdinfo.ItemEntry && p.lsn < p.trackEndLSN {
		next := PlayItem{Type: vcdinfo.ItemEntry, Num: p.item.Num + 1}
		if p.playSingleItem(next) == nil {
			common.LogDebugf(common.DbgLSN, common.DebugContinueEntry, next.Num)
			return navContinue
		}
	}

	if !p.PBCOn() {
		return p.nonPBCNav()
	}
	return p.pbcNav()
}

func (p *Player) nonPBCNav() navResult {
	switch p.item.Type {
	case vcdinfo.ItemTrack, vcdinfo.ItemEntry:
		if p.opts.AutoAdvance && p.next.Valid() {
			next := PlayItem{Type: p.item.Type, Num: p.next.Num()}
			if p.playSingleItem(next) == nil {
				return navContinue
			}
		}
		return navEnd
	case vcdinfo.ItemSegment:
		// hold the last picture until a command arrives
		p.still = StillState{Kind: StillIndefinite}
		return navStill
	}
	common.LogWarn(common.WarnUnexpectedNonPBC, p.item.Type)
	return navEnd
}

func (p *Player) pbcNav() navResult {
	switch d := p.pxd.(type) {
	case nil:
		common.LogWarn(common.WarnUnexpectedPBC, fmt.Errorf("LID %d: %w", p.lid.Num(), ErrUnexpectedPBCState))
		return navEnd
	case *vcdinfo.EndList:
		return navEnd
	case *vcdinfo.PlayList:
		if p.still.Kind == StillIndefinite {
			return navStill
		}
		wait := vcdinfo.WaitSeconds(d.Wait)
		common.LogDebugf(common.DbgPBC, common.DebugPlayListWait, waitString(wait))
		if p.incPlayItem() {
			return navContinue
		}
		if p.still.Kind == StillReading && wait != 0 {
			p.setStillWait(wait)
			return navStill
		}
	case *vcdinfo.SelectionList:
		if p.still.Kind == StillIndefinite {
			return navStill
		}
		if result, handled := p.selectionNav(d); handled {
			return result
		}
	}

	// anything else follows the next edge
	if !p.next.Valid() {
		return navEnd
	}
	common.LogDebugf(common.DbgPBC, common.DebugEdge, "next", p.next.Num())
	p.playLID(uint16(p.next.Num()))
	return navContinue
}

func (p *Player) selectionNav(d *vcdinfo.SelectionList) (navResult, bool) {
	wait := vcdinfo.WaitSeconds(d.Wait)
	common.LogDebugf(common.DbgPBC, common.DebugSelectionLoop, waitString(wait), p.loop, d.MaxLoop)

	if p.still.Kind == StillReading && wait != 0 {
		p.setStillWait(wait)
		return navStill, true
	}

	if d.MaxLoop == 0 || p.loop < uint16(d.MaxLoop) {
		p.loop = (p.loop + 1) & loopMask
		if err := p.playSingleItem(p.loopItem); err != nil {
			return navEnd, true
		}
		return navContinue, true
	}

	if lid, ok := p.disc.OffsetLID(d.TimeoutOffset); ok {
		common.LogDebugf(common.DbgPBC, common.DebugTimeoutTo, lid)
		p.playLID(lid)
		return navContinue, true
	}

	if len(d.Offsets) > 0 {
		selection := p.randomSelection(d)
		lid, ok := p.disc.SelectionLID(uint16(p.lid.Num()), selection)
		common.LogDebugf(common.DbgPBC, common.DebugRandomSelection, selection, lid)
		if ok {
			p.playLID(lid)
			return navContinue, true
		}
	}

	if p.still.Kind != StillNone {
		p.still = StillState{Kind: StillIndefinite}
		return navStill, true
	}
	return navEnd, false
}

// randomSelection draws a selection number in [bsn, bsn+nos)
func (p *Player) randomSelection(d *vcdinfo.SelectionList) int {
	return int(d.BSN) + p.rng.Intn(len(d.Offsets))
}

func (p *Player) setStillWait(seconds int) {
	if seconds == vcdinfo.WaitIndefinite {
		p.still = StillState{Kind: StillIndefinite}
		return
	}
	p.still = StillState{Kind: StillTimed, Seconds: seconds}
}

func waitString(seconds int) string {
	if seconds == vcdinfo.WaitIndefinite {
		return "infinite"
	}
	return fmt.Sprintf("%ds", seconds)
}

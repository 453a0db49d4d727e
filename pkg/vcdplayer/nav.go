package vcdplayer

import (
	"github.com/hansbonini/vcdtools/pkg/common"
	"github.com/hansbonini/vcdtools/pkg/vcdinfo"
)

// setOrigin moves the cursor to the start of the current item and sets
// its bounds. Tracks and entries also get the bounds of their track.
func (p *Player) setOrigin() {
	p.originLSN = p.disc.ItemStart(p.item)
	p.endLSN = p.originLSN + p.disc.ItemSize(p.item)
	p.lsn = p.originLSN
	common.LogDebugf(common.DbgLSN, common.DebugLSN, p.lsn)
	common.LogDebugf(common.DbgLSN, common.DebugEndLSN, p.endLSN)

	switch p.item.Type {
	case vcdinfo.ItemTrack:
		p.track = p.item.Num
	case vcdinfo.ItemEntry:
		p.track = p.disc.EntryTrack(p.item.Num)
	default:
		p.track = 0
		p.trackLSN, p.trackEndLSN = p.originLSN, p.endLSN
		return
	}
	p.trackLSN = p.disc.TrackStart(p.track)
	p.trackEndLSN = p.trackLSN + p.disc.TrackSectors(p.track)
	common.LogDebugf(common.DbgLSN, common.DebugTrackEnd, p.lsn, p.trackEndLSN)
}

// updateNav recomputes next, prev, return and default after the item or
// the list changed
func (p *Player) updateNav() {
	p.next, p.prev, p.ret, p.def = NoEdge, NoEdge, NoEdge, NoEdge

	if !p.PBCOn() {
		p.updateStructuralNav()
		return
	}

	switch d := p.pxd.(type) {
	case *vcdinfo.SelectionList:
		p.prev = p.offsetEdge("prev", d.PrevOffset)
		p.next = p.offsetEdge("next", d.NextOffset)
		p.ret = p.offsetEdge("return", d.ReturnOffset)
		p.def = p.offsetEdge("default", d.DefaultOffset)
	case *vcdinfo.PlayList:
		p.prev = p.offsetEdge("prev", d.PrevOffset)
		p.next = p.offsetEdge("next", d.NextOffset)
		p.ret = p.offsetEdge("return", d.ReturnOffset)
	case *vcdinfo.EndList:
		p.lsn, p.originLSN, p.endLSN = 0, 0, 0
	}
}

func (p *Player) offsetEdge(name string, ofs uint16) Edge {
	lid, ok := p.disc.OffsetLID(ofs)
	if !ok {
		return NoEdge
	}
	common.LogDebugf(common.DbgPBC, common.DebugEdge, name, lid)
	return NewEdge(int(lid))
}

// itemRange returns the first and last valid number of an item type
func (p *Player) itemRange(t vcdinfo.ItemType) (first, last int) {
	switch t {
	case vcdinfo.ItemTrack:
		return 1, p.disc.NumTracks()
	case vcdinfo.ItemEntry:
		return 0, p.disc.NumEntries() - 1
	case vcdinfo.ItemSegment:
		return 0, p.disc.NumSegments() - 1
	}
	return 0, -1
}

func (p *Player) updateStructuralNav() {
	first, last := p.itemRange(p.item.Type)
	if last < first {
		return
	}
	n := p.item.Num

	switch {
	case n+1 <= last:
		p.next = NewEdge(n + 1)
	case p.opts.WrapNextPrev:
		p.next = NewEdge(first)
	}
	switch {
	case n-1 >= first:
		p.prev = NewEdge(n - 1)
	case p.opts.WrapNextPrev:
		p.prev = NewEdge(last)
	}
	p.def = NewEdge(n)
	p.ret = NewEdge(first)
}

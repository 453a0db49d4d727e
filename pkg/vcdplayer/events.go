package vcdplayer

import (
	"github.com/hansbonini/vcdtools/pkg/common"
	"github.com/hansbonini/vcdtools/pkg/vcdinfo"
)

// jump follows an edge: a LID with PBC on, an item of the current type
// otherwise
func (p *Player) jump(e Edge) bool {
	if p.PBCOn() {
		p.playLID(uint16(e.Num()))
		return true
	}
	return p.playSingleItem(PlayItem{Type: p.item.Type, Num: e.Num()}) == nil
}

func (p *Player) follow(name string, edge func() Edge, count int) bool {
	if p.disc == nil {
		return false
	}
	if count < 1 {
		count = 1
	}
	moved := false
	for ; count > 0; count-- {
		e := edge()
		if !e.Valid() {
			common.LogWarn(common.WarnNoEdge, name)
			return moved
		}
		common.LogDebugf(common.DbgEvent, common.DebugEdge, name, e.Num())
		if !p.jump(e) {
			return moved
		}
		moved = true
	}
	return moved
}

// Next follows the next edge count times
func (p *Player) Next(count int) bool {
	return p.follow("NEXT", p.NextEdge, count)
}

// Prev follows the previous edge count times
func (p *Player) Prev(count int) bool {
	return p.follow("PREVIOUS", p.PrevEdge, count)
}

// Return follows the return edge
func (p *Player) Return() bool {
	return p.follow("RETURN", p.ReturnEdge, 1)
}

// Default plays the default target of the current selection list. Without
// PBC it restarts the current item.
func (p *Player) Default() bool {
	if p.disc == nil {
		return false
	}
	if !p.PBCOn() {
		common.LogWarn(common.WarnDefaultNoPBC)
		return p.playSingleItem(p.item) == nil
	}

	lid, ok := p.disc.MultiDefaultLID(uint16(p.lid.Num()), p.lsn)
	if !ok {
		common.LogWarn(common.WarnNoDefaultForLID, p.lid.Num())
		return false
	}
	common.LogDebugf(common.DbgEvent, common.DebugEdge, "DEFAULT", lid)
	p.playLID(lid)
	return true
}

// Select plays selection number n of the current selection list
func (p *Player) Select(n int) bool {
	if p.disc == nil || !p.PBCOn() {
		common.LogWarn(common.WarnUnexpectedNonPBC, "selection")
		return false
	}
	if _, ok := p.pxd.(*vcdinfo.SelectionList); !ok {
		common.LogWarn(common.WarnNoEdge, "SELECT")
		return false
	}

	lid, ok := p.disc.SelectionLID(uint16(p.lid.Num()), n)
	if !ok {
		common.LogWarn(common.WarnNoEdge, "SELECT")
		return false
	}
	common.LogDebugf(common.DbgEvent, common.DebugEdge, "SELECT", lid)
	p.playLID(lid)
	return true
}

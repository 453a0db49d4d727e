package vcdinfo

import (
	"sort"

	"github.com/hansbonini/vcdtools/pkg/common"
)

// OffsetEntry is one PSD record reachable from the LOT or from another
// record's edges
type OffsetEntry struct {
	Offset     uint16
	LID        uint16
	Type       DescriptorType
	Descriptor Descriptor
}

// OffsetTable maps raw PSD offsets to the records found there
type OffsetTable struct {
	multiplier int
	psd        []byte
	entries    map[uint16]*OffsetEntry
}

// buildOffsetTable visits every LOT offset first, so LIDs come from the LOT,
// then follows descriptor edges to reach unlisted records
func buildOffsetTable(psd []byte, multiplier uint8, lot []uint16) *OffsetTable {
	table := &OffsetTable{
		multiplier: int(multiplier),
		psd:        psd,
		entries:    make(map[uint16]*OffsetEntry),
	}

	for i, ofs := range lot {
		table.visit(ofs, uint16(i+1))
	}

	// edges, in offset order so the walk is deterministic
	pending := table.Offsets()
	for len(pending) > 0 {
		ofs := pending[0]
		pending = pending[1:]
		for _, next := range edgeOffsets(table.entries[ofs].Descriptor) {
			if table.visit(next, 0) {
				pending = append(pending, next)
			}
		}
	}
	return table
}

// visit decodes the record at ofs once. lid overrides the LID stored in the
// record when non zero.
func (t *OffsetTable) visit(ofs uint16, lid uint16) bool {
	if IsSpecialOffset(ofs) {
		return false
	}
	if _, seen := t.entries[ofs]; seen {
		return false
	}

	descriptor, err := DecodeDescriptor(t.psd, int(ofs)*t.multiplier)
	if err != nil {
		common.LogDebugf(common.DbgPBC, "offset 0x%04x: %v", ofs, err)
		return false
	}
	if lid == 0 {
		lid = descriptor.ListID()
	}

	t.entries[ofs] = &OffsetEntry{Offset: ofs, LID: lid, Type: descriptor.Type(), Descriptor: descriptor}
	common.LogDebugf(common.DbgPBC, common.DebugOffsetVisited, ofs, lid, descriptor.Type())
	return true
}

func edgeOffsets(descriptor Descriptor) []uint16 {
	switch d := descriptor.(type) {
	case *PlayList:
		return []uint16{d.PrevOffset, d.NextOffset, d.ReturnOffset}
	case *SelectionList:
		edges := []uint16{d.PrevOffset, d.NextOffset, d.ReturnOffset, d.DefaultOffset, d.TimeoutOffset}
		return append(edges, d.Offsets...)
	}
	return nil
}

// Lookup returns the record at a raw offset
func (t *OffsetTable) Lookup(ofs uint16) (*OffsetEntry, bool) {
	entry, ok := t.entries[ofs]
	return entry, ok
}

// Offsets returns every known offset in ascending order
func (t *OffsetTable) Offsets() []uint16 {
	offsets := make([]uint16, 0, len(t.entries))
	for ofs := range t.entries {
		offsets = append(offsets, ofs)
	}
	sort.Slice(offsets, func(i, j int) bool { return offsets[i] < offsets[j] })
	return offsets
}

// Len returns the number of decoded records
func (t *OffsetTable) Len() int {
	return len(t.entries)
}

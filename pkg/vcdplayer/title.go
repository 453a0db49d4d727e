package vcdplayer

import (
	"strconv"
	"strings"

	"github.com/hansbonini/vcdtools/pkg/vcdinfo"
)

// FormatTitle expands the escapes of format for the current item:
//
//	%A album id           %C volume count     %c volume number
//	%F disc format        %I item kind        %L " LID n" with PBC on
//	%N item number        %P publisher        %p data preparer
//	%S segment video type %T track number     %V volume set id
//	%v volume id          %% a percent sign
//
// Unknown escapes are copied through.
func (p *Player) FormatTitle(format string) string {
	var summary vcdinfo.Summary
	if p.disc != nil {
		summary = p.disc.Summary()
	}

	var sb strings.Builder
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' || i+1 >= len(format) {
			sb.WriteByte(c)
			continue
		}
		i++
		switch format[i] {
		case '%':
			sb.WriteByte('%')
		case 'A':
			sb.WriteString(summary.AlbumID)
		case 'C':
			sb.WriteString(strconv.Itoa(summary.VolumeCount))
		case 'c':
			sb.WriteString(strconv.Itoa(summary.VolumeNumber))
		case 'F':
			sb.WriteString(summary.Format)
		case 'I':
			sb.WriteString(itemKind(p.item.Type))
		case 'L':
			if p.PBCOn() {
				sb.WriteString(" LID ")
				sb.WriteString(strconv.Itoa(p.lid.Num()))
			}
		case 'N':
			sb.WriteString(strconv.Itoa(p.item.Num))
		case 'P':
			sb.WriteString(summary.Publisher)
		case 'p':
			sb.WriteString(summary.Preparer)
		case 'S':
			if p.item.Type == vcdinfo.ItemSegment && p.disc != nil {
				sb.WriteByte(' ')
				sb.WriteString(vcdinfo.VideoTypeName(p.disc.SegmentContent(p.item.Num).VideoType))
			}
		case 'T':
			sb.WriteString(strconv.Itoa(p.track))
		case 'V':
			sb.WriteString(summary.VolumeSetID)
		case 'v':
			sb.WriteString(summary.VolumeID)
		default:
			sb.WriteByte('%')
			sb.WriteByte(format[i])
		}
	}
	return sb.String()
}

func itemKind(t vcdinfo.ItemType) string {
	switch t {
	case vcdinfo.ItemTrack:
		return "Track"
	case vcdinfo.ItemEntry:
		return "Entry"
	case vcdinfo.ItemSegment:
		return "Segment"
	case vcdinfo.ItemLID:
		return "List ID"
	case vcdinfo.ItemSpare:
		return "Navigation"
	}
	return ""
}

// Title formats the configured title
func (p *Player) Title() string { return p.FormatTitle(p.opts.TitleFormat) }

// Comment formats the configured comment
func (p *Player) Comment() string { return p.FormatTitle(p.opts.CommentFormat) }

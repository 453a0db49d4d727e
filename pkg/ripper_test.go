package pkg

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/hansbonini/vcdtools/pkg/cdimage"
	"github.com/hansbonini/vcdtools/pkg/vcdinfo"
	"github.com/hansbonini/vcdtools/pkg/vcdinfo/vcdinfotest"
	"github.com/hansbonini/vcdtools/pkg/vcdplayer"
)

type step struct {
	status vcdplayer.ReadStatus
	still  vcdplayer.StillState
	title  string
	err    error
}

// scriptedSession replays a fixed sequence of Read outcomes and ends
// when the script runs out
type scriptedSession struct {
	steps  []step
	pos    int
	cur    step
	nexts  int
	nextOK bool
}

func (s *scriptedSession) Read(buf []byte) (vcdplayer.ReadStatus, error) {
	if s.pos >= len(s.steps) {
		return vcdplayer.ReadEnd, nil
	}
	s.cur = s.steps[s.pos]
	s.pos++
	buf[0] = byte(s.pos)
	return s.cur.status, s.cur.err
}

func (s *scriptedSession) Still() vcdplayer.StillState { return s.cur.still }
func (s *scriptedSession) Title() string               { return s.cur.title }

func (s *scriptedSession) Next(count int) bool {
	s.nexts++
	return s.nextOK
}

func block(title string) step {
	return step{status: vcdplayer.ReadBlock, title: title}
}

func still(kind vcdplayer.StillKind, seconds int) step {
	return step{status: vcdplayer.ReadStill, still: vcdplayer.StillState{Kind: kind, Seconds: seconds}}
}

func TestStreamRipper_SkipsTimedStills(t *testing.T) {
	s := &scriptedSession{steps: []step{
		block("Track 1"), block("Track 1"),
		still(vcdplayer.StillTimed, 5),
		block("Track 2"),
	}}

	var buf bytes.Buffer
	stats, err := NewStreamRipper(RipOptions{}).Rip(s, &buf)
	if err != nil {
		t.Fatalf("Rip() failed: %v", err)
	}

	if stats.Sectors != 3 || stats.Stills != 1 || stats.Skipped != 1 || stats.Commands != 0 {
		t.Errorf("stats = %+v, want 3 sectors, 1 skipped still", stats)
	}
	if stats.Status != vcdplayer.ReadEnd {
		t.Errorf("Status = %s, want end", stats.Status)
	}
	if !reflect.DeepEqual(stats.Titles, []string{"Track 1", "Track 2"}) {
		t.Errorf("Titles = %v", stats.Titles)
	}
	if buf.Len() != 3*cdimage.Form2DataSize || stats.Bytes != int64(buf.Len()) {
		t.Errorf("wrote %d bytes (stats %d), want %d", buf.Len(), stats.Bytes, 3*cdimage.Form2DataSize)
	}
}

func TestStreamRipper_IndefiniteStill(t *testing.T) {
	script := []step{block("Segment 0"), still(vcdplayer.StillIndefinite, 0), block("Track 1")}

	// next is pressed and playback goes on
	s := &scriptedSession{steps: script, nextOK: true}
	stats, err := NewStreamRipper(RipOptions{}).Rip(s, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("Rip() failed: %v", err)
	}
	if s.nexts != 1 || stats.Commands != 1 || stats.Sectors != 2 {
		t.Errorf("nexts = %d, stats = %+v, want one command and 2 sectors", s.nexts, stats)
	}

	// no next edge: playback stops
	s = &scriptedSession{steps: script}
	stats, _ = NewStreamRipper(RipOptions{}).Rip(s, &bytes.Buffer{})
	if stats.Sectors != 1 || stats.Status != vcdplayer.ReadStill {
		t.Errorf("stats = %+v, want a stop on the still after 1 sector", stats)
	}

	// stop on still never presses next
	s = &scriptedSession{steps: script, nextOK: true}
	stats, _ = NewStreamRipper(RipOptions{StopOnStill: true}).Rip(s, &bytes.Buffer{})
	if s.nexts != 0 || stats.Sectors != 1 {
		t.Errorf("nexts = %d, stats = %+v, want no command", s.nexts, stats)
	}
}

func TestStreamRipper_StillLoop(t *testing.T) {
	steps := make([]step, 0, maxStillsInRow+10)
	for i := 0; i < maxStillsInRow+10; i++ {
		steps = append(steps, still(vcdplayer.StillTimed, 1))
	}
	s := &scriptedSession{steps: steps}

	stats, err := NewStreamRipper(RipOptions{}).Rip(s, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("Rip() failed: %v", err)
	}
	if stats.Stills != maxStillsInRow+1 {
		t.Errorf("Stills = %d, want %d", stats.Stills, maxStillsInRow+1)
	}
}

func TestStreamRipper_MaxSectors(t *testing.T) {
	s := &scriptedSession{steps: []step{block("a"), block("a"), block("a"), block("a")}}

	stats, err := NewStreamRipper(RipOptions{MaxSectors: 2}).Rip(s, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("Rip() failed: %v", err)
	}
	if stats.Sectors != 2 || s.pos != 2 {
		t.Errorf("Sectors = %d after %d reads, want 2", stats.Sectors, s.pos)
	}
}

func TestStreamRipper_Errors(t *testing.T) {
	readErr := errors.New("scratched")
	s := &scriptedSession{steps: []step{block("a"), {status: vcdplayer.ReadError, err: readErr}}}

	stats, err := NewStreamRipper(RipOptions{}).Rip(s, &bytes.Buffer{})
	if !errors.Is(err, readErr) {
		t.Errorf("Rip() error = %v, want %v", err, readErr)
	}
	if stats.Sectors != 1 {
		t.Errorf("Sectors = %d, want 1", stats.Sectors)
	}

	s = &scriptedSession{steps: []step{block("a")}}
	if _, err := NewStreamRipper(RipOptions{}).Rip(s, failingWriter{}); !errors.Is(err, os.ErrClosed) {
		t.Errorf("Rip() error = %v, want os.ErrClosed", err)
	}
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) { return 0, os.ErrClosed }

// stillDisc plays track 1 and then a still segment with a five second wait
func stillDisc() *vcdinfotest.Disc {
	return &vcdinfotest.Disc{
		Version:  2,
		VolumeID: "STILLVCD",
		Segments: []vcdinfo.SegmentContent{{VideoType: vcdinfo.VideoPALStill}},
		Tracks:   []vcdinfotest.Track{{Sectors: 10, Entries: []uint32{0}}},
		Lists: []vcdinfotest.List{
			{Descriptor: &vcdinfo.PlayList{
				LID:          1,
				PrevOffset:   vcdinfo.OffsetDisabled,
				NextOffset:   vcdinfotest.Offset(2),
				ReturnOffset: vcdinfo.OffsetDisabled,
				Wait:         5,
				Items:        []uint16{vcdinfotest.TrackItemID(1), vcdinfotest.SegmentItemID(0)},
			}},
			{Descriptor: &vcdinfo.EndList{}},
		},
	}
}

func TestStreamRipper_RipToFile(t *testing.T) {
	d := stillDisc()
	path, err := d.Write(t.TempDir(), "still.bin")
	if err != nil {
		t.Fatalf("Write() failed: %v", err)
	}

	player := vcdplayer.New(vcdplayer.Options{AutoAdvance: true, TitleFormat: "%I %N", RandomSeed: 1})
	if err := player.Open(path); err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer player.Close()
	if err := player.Play(vcdinfo.Item{Type: vcdinfo.ItemLID, Num: 1}); err != nil {
		t.Fatalf("Play() failed: %v", err)
	}

	output := filepath.Join(t.TempDir(), "out.mpg")
	stats, err := NewStreamRipper(RipOptions{}).RipToFile(player, output)
	if err != nil {
		t.Fatalf("RipToFile() failed: %v", err)
	}

	sectors := int64(10 + vcdinfo.SegmentSectors)
	if stats.Sectors != sectors || stats.Skipped != 1 || stats.Status != vcdplayer.ReadEnd {
		t.Errorf("stats = %+v, want %d sectors and one skipped still", stats, sectors)
	}
	if !reflect.DeepEqual(stats.Titles, []string{"Track 1", "Segment 0"}) {
		t.Errorf("Titles = %v", stats.Titles)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("ReadFile() failed: %v", err)
	}
	if int64(len(data)) != sectors*cdimage.Form2DataSize {
		t.Fatalf("output is %d bytes, want %d", len(data), sectors*cdimage.Form2DataSize)
	}
	if got := binary.BigEndian.Uint32(data); got != d.TrackLSN(1) {
		t.Errorf("first sector marker = %d, want %d", got, d.TrackLSN(1))
	}
	last := data[(sectors-1)*cdimage.Form2DataSize:]
	if got := binary.BigEndian.Uint32(last); got != d.SegmentLSN(0)+vcdinfo.SegmentSectors-1 {
		t.Errorf("last sector marker = %d, want %d", got, d.SegmentLSN(0)+vcdinfo.SegmentSectors-1)
	}
}

// Package pkg provides the processors behind the vcdtools commands.
// This file contains the stream ripper that plays a disc into an MPEG file.
package pkg

import (
	"fmt"
	"io"
	"os"

	"github.com/hansbonini/vcdtools/pkg/cdimage"
	"github.com/hansbonini/vcdtools/pkg/common"
	"github.com/hansbonini/vcdtools/pkg/vcdplayer"
)

// PlaybackSession is the part of *vcdplayer.Player the ripper drives
type PlaybackSession interface {
	Read(buf []byte) (vcdplayer.ReadStatus, error)
	Still() vcdplayer.StillState
	Next(count int) bool
	Title() string
}

// RipOptions control how a session is written out
type RipOptions struct {
	StopOnStill bool  // stop at an indefinite still instead of pressing next
	MaxSectors  int64 // 0 means no limit
}

// stills in a row without any MPEG sector in between before giving up
const maxStillsInRow = 64

// StreamRipper writes the MPEG sectors of a playback session
type StreamRipper struct {
	opts RipOptions
}

// NewStreamRipper creates a new ripper instance
func NewStreamRipper(opts RipOptions) *StreamRipper {
	return &StreamRipper{opts: opts}
}

// RipToFile creates outputFile and rips the session into it
func (r *StreamRipper) RipToFile(s PlaybackSession, outputFile string) (*RipStats, error) {
	file, err := os.Create(outputFile)
	if err != nil {
		return nil, common.FormatError(common.ErrFailedToCreateOutput, err)
	}

	stats, err := r.Rip(s, file)
	if closeErr := file.Close(); err == nil && closeErr != nil {
		err = common.FormatError(common.ErrFailedToWriteOutput, closeErr)
	}
	return stats, err
}

// Rip reads s until the end of playback and writes every MPEG sector to
// writer. Timed stills are skipped; indefinite stills press next unless
// StopOnStill is set.
func (r *StreamRipper) Rip(s PlaybackSession, writer io.Writer) (*RipStats, error) {
	buf := make([]byte, cdimage.Form2DataSize)
	stats := &RipStats{}
	title := ""
	stillsInRow := 0

	for {
		if r.opts.MaxSectors > 0 && stats.Sectors >= r.opts.MaxSectors {
			common.LogInfo(common.InfoSectorLimit, r.opts.MaxSectors)
			return stats, nil
		}

		status, err := s.Read(buf)
		stats.Status = status

		switch status {
		case vcdplayer.ReadError:
			return stats, err

		case vcdplayer.ReadEnd:
			common.LogInfo(common.InfoPlaybackEnded, stats.Sectors)
			return stats, nil

		case vcdplayer.ReadStill:
			stats.Stills++
			if stillsInRow++; stillsInRow > maxStillsInRow {
				common.LogWarn(common.WarnStillLoop, stillsInRow)
				return stats, nil
			}

			still := s.Still()
			if still.Kind == vcdplayer.StillTimed {
				stats.Skipped++
				common.LogInfo(common.InfoStillSkipped, fmt.Sprintf("%ds", still.Seconds))
				continue
			}
			if r.opts.StopOnStill {
				common.LogInfo(common.InfoStoppedOnStill, stats.Sectors)
				return stats, nil
			}
			stats.Commands++
			if !s.Next(1) {
				common.LogInfo(common.InfoPlaybackEnded, stats.Sectors)
				return stats, nil
			}
			continue
		}

		stillsInRow = 0
		if t := s.Title(); t != title {
			title = t
			stats.Titles = append(stats.Titles, t)
			common.LogInfo(common.InfoPlaying, t)
		}

		n, err := writer.Write(buf)
		stats.Bytes += int64(n)
		if err != nil {
			return stats, common.FormatError(common.ErrFailedToWriteOutput, err)
		}
		stats.Sectors++
	}
}

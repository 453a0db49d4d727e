package common

import (
	"fmt"

	"github.com/q191201771/naza/pkg/nazalog"
)

// Global variable to control debug output
var VerboseMode bool = false

// DebugMask selects which debug categories LogDebugf prints. Zero means
// every category is printed once verbose mode is on.
var DebugMask uint32 = 0

// Debug categories, one bit each.
const (
	DbgMeta    uint32 = 1 << iota // meta information
	DbgEvent                      // remote-control commands
	DbgMRL                        // MRL parsing and list building
	DbgExt                        // calls from the command line layer
	DbgCall                       // routine calls
	DbgLSN                        // LSN changes
	DbgPBC                        // playback control
	DbgCDIO                       // raw image access
	DbgSeekSet                    // seeks to a set location
	DbgSeekCur                    // seeks to find the current location
	DbgStill                      // still frames
	DbgVCDInfo                    // disc structure decoding
)

// SetVerboseMode enables or disables verbose/debug output
func SetVerboseMode(verbose bool) {
	VerboseMode = verbose
	_ = nazalog.Init(func(option *nazalog.Option) {
		if verbose {
			option.Level = nazalog.LevelDebug
		} else {
			option.Level = nazalog.LevelInfo
		}
	})
}

// SetDebugMask restricts debug output to the given categories.
func SetDebugMask(mask uint32) {
	DebugMask = mask
}

// Error messages
const (
	ErrFailedToOpenImage       = "failed to open disc image"
	ErrFailedToStatImage       = "failed to stat disc image"
	ErrFailedToReadSector      = "failed to read sector"
	ErrFailedToReadCueSheet    = "failed to read cue sheet"
	ErrFailedToReadInfo        = "failed to read INFO file"
	ErrFailedToReadEntries     = "failed to read ENTRIES file"
	ErrFailedToReadLOT         = "failed to read LOT file"
	ErrFailedToReadPSD         = "failed to read PSD file"
	ErrFailedToDecodeDescr     = "failed to decode PSD descriptor"
	ErrFailedToReadConfig      = "failed to read config file"
	ErrFailedToParseConfig     = "failed to parse config file"
	ErrFailedToCreateOutput    = "failed to create output file"
	ErrFailedToWriteOutput     = "failed to write output file"
	ErrUnsupportedSectorLayout = "unsupported sector layout"
)

// Info messages
const (
	InfoDiscOpened     = "Opened %s disc %q: %d tracks, %d entries, %d segments, %d LIDs"
	InfoDiscClosed     = "Closed disc %q"
	InfoSameDevice     = "Disc %q already open"
	InfoPlaying        = "Playing %s"
	InfoPlaybackEnded  = "Playback ended after %d sectors"
	InfoStillSkipped   = "Still frame for %s, skipping"
	InfoMRLListBuilt   = "Built MRL list: %d slots (tracks@%d entries@%d lids@%d segments@%d)"
	InfoCueSheetLoaded = "Loaded cue sheet %s: %d tracks"
	InfoSectorLimit    = "Sector limit of %d reached"
	InfoStoppedOnStill = "Stopped on an indefinite still after %d sectors"
	InfoFileExtracted  = "Extracted %s (%d bytes)"
)

// Debug messages
const (
	DebugEndReached      = "end reached, cur: %d, end: %d"
	DebugEndInReading    = "end reached in reading, cur: %d, end: %d"
	DebugContinueEntry   = "continuing into next entry: %d"
	DebugPlayListWait    = "playlist wait_time: %s"
	DebugSelectionLoop   = "wait_time: %s, looped: %d, max_loop %d"
	DebugTimeoutTo       = "timeout to: %d"
	DebugRandomSelection = "random selection %d, lid: %d"
	DebugPlayItem        = "  play-item[%d]: %s"
	DebugEdge            = "%s: LID %d"
	DebugLSN             = "LSN: %d"
	DebugEndLSN          = "end LSN: %d"
	DebugTrackEnd        = "LSN: %d, track_end LSN: %d"
	DebugSeekSet         = "seek_set to %d => %d (start is %d)"
	DebugSeekBackwards   = "seek_set entry backwards, next entry now %s"
	DebugSeekCur         = "current pos: %d, %s diff %d"
	DebugPaddingSkipped  = "padding sector skipped at LSN %d"
	DebugSectorCacheHit  = "sector cache hit at LSN %d"
	DebugOffsetVisited   = "offset 0x%04X -> LID %d (%s)"
	DebugMRLParsed       = "MRL %q: device %q, %s, default type used: %t"
	DebugMRLSlot         = "added slot %d: %s, size %d"
)

// Warning messages
const (
	WarnBadTrackNumber   = "bad track number %d"
	WarnBadEntryNumber   = "bad entry number %d"
	WarnBadSegmentNumber = "bad segment number %d"
	WarnNoEdge           = "selection has no %s entry"
	WarnDefaultNoPBC     = "DEFAULT selected, but PBC is not on."
	WarnNoDefaultForLID  = "no DEFAULT for LID %d"
	WarnBadItemType      = "bad item type %s"
	WarnUnexpectedPBC    = "%s in PBC -- not supposed to happen"
	WarnUnexpectedNonPBC = "%s outside PBC -- not supposed to happen"
	WarnNoDescriptor     = "no PSD descriptor for LID %d"
	WarnTrackTableGuess  = "no cue sheet for %s, deriving track table from entries"
	WarnLIDWithoutPBC    = "%s requested but the disc has no PBC, playing %s"
	WarnBadCurrentItem   = "invalid current entry type %s"
	WarnStillLoop        = "%d stills in a row without video, stopping"
)

// LogInfo logs an informational message
func LogInfo(message string, args ...interface{}) {
	if len(args) > 0 {
		nazalog.Infof(message, args...)
	} else {
		nazalog.Info(message)
	}
}

// LogWarn logs a warning message
func LogWarn(message string, args ...interface{}) {
	if len(args) > 0 {
		nazalog.Warnf(message, args...)
	} else {
		nazalog.Warn(message)
	}
}

// LogError logs an error message
func LogError(message string, args ...interface{}) {
	if len(args) > 0 {
		nazalog.Errorf(message, args...)
	} else {
		nazalog.Error(message)
	}
}

// LogDebug logs a debug message (only if VerboseMode is enabled)
func LogDebug(message string, args ...interface{}) {
	if !VerboseMode {
		return
	}
	if len(args) > 0 {
		nazalog.Debugf(message, args...)
	} else {
		nazalog.Debug(message)
	}
}

// DebugEnabled reports whether debug output for category is printed.
func DebugEnabled(category uint32) bool {
	if !VerboseMode {
		return false
	}
	return DebugMask == 0 || DebugMask&category != 0
}

// LogDebugf logs a debug message of the given category.
func LogDebugf(category uint32, message string, args ...interface{}) {
	if !DebugEnabled(category) {
		return
	}
	LogDebug(message, args...)
}

// FormatError creates a formatted error with additional context
func FormatError(baseMessage string, details interface{}) error {
	if err, ok := details.(error); ok {
		return fmt.Errorf("%s: %w", baseMessage, err)
	}
	return fmt.Errorf("%s: %v", baseMessage, details)
}

// FormatErrorString creates a formatted error with string details
func FormatErrorString(baseMessage, details string, args ...interface{}) error {
	if len(args) > 0 {
		return fmt.Errorf("%s: "+details, append([]interface{}{baseMessage}, args...)...)
	}
	return fmt.Errorf("%s: %s", baseMessage, details)
}

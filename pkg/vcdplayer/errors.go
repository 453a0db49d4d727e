package vcdplayer

import "errors"

var (
	ErrNoDisc             = errors.New("no disc open")
	ErrIO                 = errors.New("sector read failed")
	ErrShortBuffer        = errors.New("buffer shorter than a Form 2 sector")
	ErrBadTrackNumber     = errors.New("bad track number")
	ErrBadEntryNumber     = errors.New("bad entry number")
	ErrBadSegmentNumber   = errors.New("bad segment number")
	ErrBadItemType        = errors.New("bad item type")
	ErrUnexpectedPBCState = errors.New("unexpected PBC state")
	ErrSeek               = errors.New("unsupported seek")
)

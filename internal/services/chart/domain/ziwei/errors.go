package ziwei

import (
	"errors"

	"github.com/louisbranch/ziwei/internal/services/chart/domain/calendar"
)

var (
	// ErrInvalidDate indicates a calendrically impossible solar date.
	ErrInvalidDate = calendar.ErrInvalidDate
	// ErrOutOfRange indicates a date outside the 1900-2100 lunisolar table.
	ErrOutOfRange = calendar.ErrOutOfRange
	// ErrInvalidHourBucket indicates an hour outside 0-23 or a bucket outside 0-11.
	ErrInvalidHourBucket = errors.New("invalid hour bucket")
	// ErrInvalidSex indicates a sex other than M or F.
	ErrInvalidSex = errors.New("invalid sex")
	// ErrUnknownStarRule indicates a placement table miss. Validated input
	// never reaches it; seeing it means a rule table is broken.
	ErrUnknownStarRule = errors.New("unknown star rule")
)

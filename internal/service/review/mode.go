package review

import (
	"fmt"
	"strings"
)

// Mode selects which words a queue contains.
type Mode string

const (
	// ModeDue selects every word whose review time has come.
	ModeDue Mode = "due"
	// ModeAll selects every word, in library order, without scoring.
	ModeAll Mode = "all"
	// ModeGroupForced selects every word of one group regardless of due time.
	ModeGroupForced Mode = "group-forced"
	// ModeShuffledAll selects every word in random order.
	ModeShuffledAll Mode = "shuffled-all"
)

// Modes lists the valid modes in display order.
var Modes = []Mode{ModeDue, ModeAll, ModeGroupForced, ModeShuffledAll}

// ParseMode accepts the canonical names plus a few short aliases.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "due", "srs", "":
		return ModeDue, nil
	case "all", "free", "preview":
		return ModeAll, nil
	case "group-forced", "group":
		return ModeGroupForced, nil
	case "shuffled-all", "shuffle", "shuffled":
		return ModeShuffledAll, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// Scored reports whether answers in this mode move words on the ladder.
// Only the preview mode leaves words untouched.
func (m Mode) Scored() bool {
	return m != ModeAll
}

func (m Mode) valid() bool {
	switch m {
	case ModeDue, ModeAll, ModeGroupForced, ModeShuffledAll:
		return true
	}
	return false
}

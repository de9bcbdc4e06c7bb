package extract

import (
	"regexp"
	"sync"

	"skyrng/internal/format"
	"skyrng/internal/log"
	"skyrng/internal/mctext"
	"skyrng/internal/meter"
)

// DefaultRosterPollTicks polls the roster once per second at the client's
// 20 ticks per second
const DefaultRosterPollTicks = 20

var pityPattern = regexp.MustCompile(`Glacite Mineshafts: ([\d,]+)/2,000`)

// RosterExtractor scans player-list display names for the mineshaft pity
// counter on a fixed tick cadence. Signals are only committed when the value
// is inside the valid pity range; anything else is discarded unclamped.
type RosterExtractor struct {
	store     Store
	pollTicks int

	mu    sync.Mutex
	ticks int
}

// NewRosterExtractor creates a roster extractor committing into st,
// scanning once every pollTicks calls to Tick.
func NewRosterExtractor(st Store, pollTicks int) *RosterExtractor {
	if pollTicks <= 0 {
		pollTicks = DefaultRosterPollTicks
	}
	return &RosterExtractor{store: st, pollTicks: pollTicks}
}

// Tick advances the poll cadence and, on every Nth call, scans the given
// roster entries. The first matching entry wins; no match leaves the
// previously stored value untouched.
func (e *RosterExtractor) Tick(entries []string) {
	e.mu.Lock()
	e.ticks++
	due := e.ticks%e.pollTicks == 0
	e.mu.Unlock()

	if !due {
		return
	}
	e.Scan(entries)
}

// Scan checks every roster entry for the pity template, regardless of cadence
func (e *RosterExtractor) Scan(entries []string) {
	for _, raw := range entries {
		line := mctext.Strip(raw)
		m := pityPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		value, err := format.ParseGroupedInt(m[1])
		if err != nil {
			log.Debug("Roster: unparseable pity value", "text", m[1])
			return
		}
		if value < 0 || value > meter.MaxMineshaftPity {
			log.Debug("Roster: pity value out of range, discarded", "value", value)
			return
		}

		e.store.UpdateMineshaftPity(value)
		return
	}
}

package extract

import (
	"regexp"
	"sync"

	"skyrng/internal/format"
	"skyrng/internal/log"
	"skyrng/internal/mctext"
	"skyrng/internal/meter"
)

// questTemplate ties a slayer line to the quest-start chat wording
type questTemplate struct {
	slayer  meter.SlayerType
	pattern *regexp.Regexp
}

// Quest-start lines read "Slay <n> Combat XP worth of <mob-plural>."; the
// mob plural is the only part that identifies the boss line.
var questTemplates = []questTemplate{
	{meter.SlayerRevenant, regexp.MustCompile(`(?i)combat xp worth of zombies`)},
	{meter.SlayerTarantula, regexp.MustCompile(`(?i)combat xp worth of spiders`)},
	{meter.SlayerSven, regexp.MustCompile(`(?i)combat xp worth of wolves`)},
	{meter.SlayerVoidgloom, regexp.MustCompile(`(?i)combat xp worth of endermen`)},
	{meter.SlayerInferno, regexp.MustCompile(`(?i)combat xp worth of blazes`)},
	{meter.SlayerBloodfiend, regexp.MustCompile(`(?i)combat xp worth of vampires`)},
}

var storedXpPattern = regexp.MustCompile(`RNG Meter - ([\d.,]+[kKmMbB]?) Stored XP`)

// ChatExtractor matches incoming chat lines against the quest-context and
// stored-XP templates. It owns the active slayer context: the most recently
// detected boss line, used to attribute XP-update lines that carry no boss
// identity of their own. The context never expires on its own; only Reset
// clears it.
type ChatExtractor struct {
	store Store

	mu     sync.RWMutex
	active meter.SlayerType // "" until the first quest-context line
}

// NewChatExtractor creates a chat extractor committing into st
func NewChatExtractor(st Store) *ChatExtractor {
	return &ChatExtractor{store: st}
}

// ProcessLine evaluates one raw chat line. A quest-context match updates the
// active slayer context and stops; a stored-XP match commits to the store,
// or is discarded when no context is known yet.
func (e *ChatExtractor) ProcessLine(raw string) {
	line := mctext.Strip(raw)

	for _, tmpl := range questTemplates {
		if tmpl.pattern.MatchString(line) {
			e.mu.Lock()
			e.active = tmpl.slayer
			e.mu.Unlock()
			log.Debug("Chat: slayer quest context detected", "slayer", tmpl.slayer)
			return
		}
	}

	match := storedXpPattern.FindStringSubmatch(line)
	if match == nil {
		return
	}

	amount, err := format.ParseMagnitude(match[1])
	if err != nil {
		log.Debug("Chat: unparseable stored XP amount", "text", match[1])
		return
	}

	e.mu.RLock()
	active := e.active
	e.mu.RUnlock()

	if active == "" {
		// No quest-context line seen yet; the signal cannot be attributed
		log.Debug("Chat: stored XP update with no active slayer, discarded", "amount", amount)
		return
	}

	e.store.UpdateSlayerXp(active, amount)
}

// ActiveSlayer returns the current context, or "" when unset
func (e *ChatExtractor) ActiveSlayer() meter.SlayerType {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.active
}

// Reset clears the active slayer context
func (e *ChatExtractor) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.active = ""
}

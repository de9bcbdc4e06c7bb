package extract

import (
	"regexp"
	"strings"
	"time"

	"skyrng/internal/format"
	"skyrng/internal/log"
	"skyrng/internal/mctext"
	"skyrng/internal/meter"
)

const (
	experimentationTitle = "Experimentation Table"
	rngMeterTitleSuffix  = "RNG Meter"
	nucleusTitle         = "Crystal Nucleus"
)

// Selected-drop markers; meter GUIs use either wording depending on the
// container generation
var selectedMarkers = []string{"SELECTED", "Selected Drop"}

var (
	progressPattern = regexp.MustCompile(`([\d.,]+[kKmM]?)/([\d.,]+[kKmM]?)`)
	storedFallback  = regexp.MustCompile(`Stored .*?XP: ([\d.,]+[kKmMbB]?)`)
)

// containerKind is which meter category a container title resolved to
type containerKind int

const (
	kindSlayer containerKind = iota
	kindDungeon
	kindNucleus
	kindExperimentation
)

// containerTarget is the classification result for an opened container
type containerTarget struct {
	kind   containerKind
	slayer meter.SlayerType
	floor  meter.DungeonFloor
}

// InventoryExtractor reads meter progress out of opened container slots.
// Stateless between containers; all per-container aggregation is local to a
// single scan.
type InventoryExtractor struct {
	store       Store
	settleDelay time.Duration
}

// NewInventoryExtractor creates an inventory extractor committing into st.
// settleDelay is how long to wait after a container-open event before the
// host has populated every slot.
func NewInventoryExtractor(st Store, settleDelay time.Duration) *InventoryExtractor {
	return &InventoryExtractor{store: st, settleDelay: settleDelay}
}

// OnContainerOpened schedules a scan of the container after the settle delay
func (e *InventoryExtractor) OnContainerOpened(c ContainerSnapshot) {
	time.AfterFunc(e.settleDelay, func() {
		e.ProcessContainer(c)
	})
}

// ProcessContainer classifies the container from its title and, for a
// recognized meter container, scans every slot and commits the aggregated
// signals. Unrecognized containers are ignored entirely.
func (e *InventoryExtractor) ProcessContainer(c ContainerSnapshot) {
	title := mctext.Strip(c.Title)
	target, ok := classifyContainer(title)
	if !ok {
		return
	}

	var (
		foundCurrent bool
		maxCurrent   int64
		selectedName string
		selectedGoal *int64
		hasSelected  bool
	)

	for _, slot := range c.Slots {
		if slot.Empty {
			continue
		}

		current, goal, found := scanTooltip(slot.Tooltip)
		if found {
			if !foundCurrent || current > maxCurrent {
				maxCurrent = current
			}
			foundCurrent = true
		}

		if slotIsSelected(slot.Tooltip) {
			// last-seen wins if more than one slot is marked
			selectedName = mctext.Strip(slot.DisplayName)
			selectedGoal = goal
			hasSelected = true
		}
	}

	// XP first, then selection: each update defaults the other field when the
	// entry does not exist yet, so this order keeps both
	if foundCurrent {
		e.commitXp(target, maxCurrent)
	}
	if hasSelected {
		e.commitSelection(target, selectedName, selectedGoal)
	}

	log.Debug("Inventory: container processed",
		"title", title, "hasXp", foundCurrent, "selected", selectedName)
}

// classifyContainer resolves a container title to a meter category. The
// experimentation title is checked before the generic suffix because it is
// the one meter GUI whose title does not end in "RNG Meter".
func classifyContainer(title string) (containerTarget, bool) {
	if strings.Contains(title, experimentationTitle) {
		return containerTarget{kind: kindExperimentation}, true
	}
	if !strings.Contains(title, rngMeterTitleSuffix) {
		return containerTarget{}, false
	}
	for _, slayer := range meter.AllSlayerTypes {
		if strings.Contains(title, slayer.BossName()) {
			return containerTarget{kind: kindSlayer, slayer: slayer}, true
		}
	}
	// master-mode title contains the normal floor title, so check it first
	if strings.Contains(title, meter.FloorM7.Title()) {
		return containerTarget{kind: kindDungeon, floor: meter.FloorM7}, true
	}
	if strings.Contains(title, meter.FloorF7.Title()) {
		return containerTarget{kind: kindDungeon, floor: meter.FloorF7}, true
	}
	if strings.Contains(title, nucleusTitle) {
		return containerTarget{kind: kindNucleus}, true
	}
	return containerTarget{}, false
}

// scanTooltip extracts the stored-XP candidate (and goal, when present) from
// one slot's tooltip lines. The "<current>/<goal>" progress form wins over
// the "Stored ... XP:" fallback.
func scanTooltip(tooltip []string) (current int64, goal *int64, found bool) {
	for _, raw := range tooltip {
		line := mctext.Strip(raw)

		if m := progressPattern.FindStringSubmatch(line); m != nil {
			cur, errCur := format.ParseMagnitude(m[1])
			g, errGoal := format.ParseMagnitude(m[2])
			if errCur != nil || errGoal != nil {
				continue
			}
			return cur, &g, true
		}
	}

	for _, raw := range tooltip {
		line := mctext.Strip(raw)
		if m := storedFallback.FindStringSubmatch(line); m != nil {
			cur, err := format.ParseMagnitude(m[1])
			if err != nil {
				continue
			}
			return cur, nil, true
		}
	}

	return 0, nil, false
}

func slotIsSelected(tooltip []string) bool {
	for _, raw := range tooltip {
		line := mctext.Strip(raw)
		for _, marker := range selectedMarkers {
			if strings.Contains(line, marker) {
				return true
			}
		}
	}
	return false
}

func (e *InventoryExtractor) commitXp(target containerTarget, storedXp int64) {
	switch target.kind {
	case kindSlayer:
		e.store.UpdateSlayerXp(target.slayer, storedXp)
	case kindDungeon:
		e.store.UpdateDungeonXp(target.floor, storedXp)
	case kindNucleus:
		e.store.UpdateNucleusXp(storedXp)
	case kindExperimentation:
		e.store.UpdateExperimentationXp(storedXp)
	}
}

func (e *InventoryExtractor) commitSelection(target containerTarget, item string, goalXp *int64) {
	switch target.kind {
	case kindSlayer:
		e.store.UpdateSlayerSelection(target.slayer, item, goalXp)
	case kindDungeon:
		e.store.UpdateDungeonSelection(target.floor, item, goalXp)
	case kindNucleus:
		e.store.UpdateNucleusSelection(item, goalXp)
	case kindExperimentation:
		e.store.UpdateExperimentationSelection(item, goalXp)
	}
}

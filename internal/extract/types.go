package extract

import "skyrng/internal/meter"

// Store is the subset of the RNG data store the extractors commit into
// (interface here avoids a circular import and keeps extractors testable)
type Store interface {
	UpdateSlayerXp(slayer meter.SlayerType, storedXp int64)
	UpdateSlayerSelection(slayer meter.SlayerType, item string, goalXp *int64)
	UpdateDungeonXp(floor meter.DungeonFloor, storedXp int64)
	UpdateDungeonSelection(floor meter.DungeonFloor, item string, goalXp *int64)
	UpdateNucleusXp(storedXp int64)
	UpdateNucleusSelection(item string, goalXp *int64)
	UpdateExperimentationXp(storedXp int64)
	UpdateExperimentationSelection(item string, goalXp *int64)
	UpdateMineshaftPity(value int64)
}

// ItemSlot is one slot of an opened container, as reported by the host
// game client.
type ItemSlot struct {
	DisplayName string
	Tooltip     []string
	Empty       bool
}

// ContainerSnapshot is a container-open observation: the window title plus
// the ordered slot contents once the host has populated them.
type ContainerSnapshot struct {
	Title string
	Slots []ItemSlot
}

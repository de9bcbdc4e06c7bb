package meter

// SlayerType identifies one of the six slayer boss lines
type SlayerType string

const (
	SlayerRevenant   SlayerType = "REVENANT"
	SlayerTarantula  SlayerType = "TARANTULA"
	SlayerSven       SlayerType = "SVEN"
	SlayerVoidgloom  SlayerType = "VOIDGLOOM"
	SlayerInferno    SlayerType = "INFERNO"
	SlayerBloodfiend SlayerType = "BLOODFIEND"
)

// AllSlayerTypes lists every slayer line in display order
var AllSlayerTypes = []SlayerType{
	SlayerRevenant,
	SlayerTarantula,
	SlayerSven,
	SlayerVoidgloom,
	SlayerInferno,
	SlayerBloodfiend,
}

// BossName returns the in-game boss name for the slayer line
func (s SlayerType) BossName() string {
	switch s {
	case SlayerRevenant:
		return "Revenant Horror"
	case SlayerTarantula:
		return "Tarantula Broodfather"
	case SlayerSven:
		return "Sven Packmaster"
	case SlayerVoidgloom:
		return "Voidgloom Seraph"
	case SlayerInferno:
		return "Inferno Demonlord"
	case SlayerBloodfiend:
		return "Riftstalker Bloodfiend"
	default:
		return string(s)
	}
}

// DungeonFloor identifies a catacombs floor with its own meter
type DungeonFloor string

const (
	FloorF7 DungeonFloor = "F7"
	FloorM7 DungeonFloor = "M7"
)

// AllDungeonFloors lists tracked floors in display order
var AllDungeonFloors = []DungeonFloor{FloorF7, FloorM7}

// Title returns the in-game floor title
func (f DungeonFloor) Title() string {
	switch f {
	case FloorF7:
		return "Floor VII"
	case FloorM7:
		return "Master Mode Floor VII"
	default:
		return string(f)
	}
}

// Meter is a single RNG-progress counter. SelectedItem and GoalXp are only
// present once the corresponding signal has been observed.
type Meter struct {
	StoredXp     int64  `json:"storedXp"`
	SelectedItem string `json:"selectedItem,omitempty"`
	GoalXp       *int64 `json:"goalXp,omitempty"`
}

// MaxMineshaftPity is the guaranteed-drop threshold for the mineshaft counter
const MaxMineshaftPity = 2000

// MineshaftPity tracks progress toward a guaranteed mineshaft rare drop.
// Values outside [0, MaxMineshaftPity] are never stored.
type MineshaftPity struct {
	PityValue int64 `json:"pityValue"`
}

// PlayerRngData is the aggregate snapshot of everything observed so far.
// Map keys are present only once the corresponding meter has been seen.
type PlayerRngData struct {
	Slayers         map[SlayerType]Meter   `json:"slayers,omitempty"`
	Dungeons        map[DungeonFloor]Meter `json:"dungeons,omitempty"`
	Nucleus         *Meter                 `json:"nucleus,omitempty"`
	Experimentation *Meter                 `json:"experimentation,omitempty"`
	MineshaftPity   *MineshaftPity         `json:"mineshaftPity,omitempty"`
}

// HasData reports whether any component has been observed
func (d PlayerRngData) HasData() bool {
	return len(d.Slayers) > 0 ||
		len(d.Dungeons) > 0 ||
		d.Nucleus != nil ||
		d.Experimentation != nil ||
		d.MineshaftPity != nil
}

// Clone returns a deep copy safe to retain across further mutation
func (d PlayerRngData) Clone() PlayerRngData {
	out := PlayerRngData{}
	if len(d.Slayers) > 0 {
		out.Slayers = make(map[SlayerType]Meter, len(d.Slayers))
		for k, v := range d.Slayers {
			out.Slayers[k] = v.clone()
		}
	}
	if len(d.Dungeons) > 0 {
		out.Dungeons = make(map[DungeonFloor]Meter, len(d.Dungeons))
		for k, v := range d.Dungeons {
			out.Dungeons[k] = v.clone()
		}
	}
	if d.Nucleus != nil {
		m := d.Nucleus.clone()
		out.Nucleus = &m
	}
	if d.Experimentation != nil {
		m := d.Experimentation.clone()
		out.Experimentation = &m
	}
	if d.MineshaftPity != nil {
		p := *d.MineshaftPity
		out.MineshaftPity = &p
	}
	return out
}

func (m Meter) clone() Meter {
	out := m
	if m.GoalXp != nil {
		g := *m.GoalXp
		out.GoalXp = &g
	}
	return out
}

// MergeFrom overlays the loaded aggregate onto the receiver field by field.
// Used for startup hydration: components present in loaded replace the
// receiver's, components absent in loaded leave the receiver untouched.
func (d *PlayerRngData) MergeFrom(loaded PlayerRngData) {
	for k, v := range loaded.Slayers {
		if d.Slayers == nil {
			d.Slayers = make(map[SlayerType]Meter)
		}
		d.Slayers[k] = v.clone()
	}
	for k, v := range loaded.Dungeons {
		if d.Dungeons == nil {
			d.Dungeons = make(map[DungeonFloor]Meter)
		}
		d.Dungeons[k] = v.clone()
	}
	if loaded.Nucleus != nil {
		m := loaded.Nucleus.clone()
		d.Nucleus = &m
	}
	if loaded.Experimentation != nil {
		m := loaded.Experimentation.clone()
		d.Experimentation = &m
	}
	if loaded.MineshaftPity != nil {
		p := *loaded.MineshaftPity
		d.MineshaftPity = &p
	}
}

package meter

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasData(t *testing.T) {
	assert.False(t, PlayerRngData{}.HasData())
	assert.True(t, PlayerRngData{MineshaftPity: &MineshaftPity{PityValue: 1}}.HasData())
	assert.True(t, PlayerRngData{
		Slayers: map[SlayerType]Meter{SlayerSven: {StoredXp: 1}},
	}.HasData())
}

func TestCloneIsIndependent(t *testing.T) {
	goal := int64(100)
	original := PlayerRngData{
		Slayers: map[SlayerType]Meter{
			SlayerRevenant: {StoredXp: 10, GoalXp: &goal},
		},
		Nucleus: &Meter{StoredXp: 5},
	}

	copied := original.Clone()
	copied.Slayers[SlayerRevenant] = Meter{StoredXp: 99}
	*copied.Nucleus = Meter{StoredXp: 99}

	assert.Equal(t, int64(10), original.Slayers[SlayerRevenant].StoredXp)
	assert.Equal(t, int64(5), original.Nucleus.StoredXp)
	require.NotNil(t, original.Slayers[SlayerRevenant].GoalXp)
	assert.Equal(t, int64(100), *original.Slayers[SlayerRevenant].GoalXp)
}

func TestMergeFrom_OverlaysFieldByField(t *testing.T) {
	current := PlayerRngData{
		Slayers: map[SlayerType]Meter{
			SlayerSven: {StoredXp: 1},
		},
		MineshaftPity: &MineshaftPity{PityValue: 500},
	}

	current.MergeFrom(PlayerRngData{
		Slayers: map[SlayerType]Meter{
			SlayerRevenant: {StoredXp: 2},
		},
		Nucleus: &Meter{StoredXp: 3},
	})

	// loaded components land, absent ones leave existing state untouched
	assert.Equal(t, int64(1), current.Slayers[SlayerSven].StoredXp)
	assert.Equal(t, int64(2), current.Slayers[SlayerRevenant].StoredXp)
	require.NotNil(t, current.Nucleus)
	assert.Equal(t, int64(3), current.Nucleus.StoredXp)
	require.NotNil(t, current.MineshaftPity)
	assert.Equal(t, int64(500), current.MineshaftPity.PityValue)
}

func TestJSONShape(t *testing.T) {
	goal := int64(1500000)
	data := PlayerRngData{
		Slayers: map[SlayerType]Meter{
			SlayerVoidgloom: {StoredXp: 425000, SelectedItem: "Judgement Core", GoalXp: &goal},
		},
	}

	encoded, err := json.Marshal(data)
	require.NoError(t, err)

	// enum keys serialize as their names; absent optionals are omitted
	assert.JSONEq(t, `{
		"slayers": {
			"VOIDGLOOM": {
				"storedXp": 425000,
				"selectedItem": "Judgement Core",
				"goalXp": 1500000
			}
		}
	}`, string(encoded))
}

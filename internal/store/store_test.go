package store

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skyrng/internal/meter"
)

func int64p(v int64) *int64 { return &v }

func TestUpdateSlayerXp_IndependentKeys(t *testing.T) {
	s := New()
	s.UpdateSlayerXp(meter.SlayerRevenant, 100)
	s.UpdateSlayerXp(meter.SlayerSven, 200)
	s.UpdateSlayerXp(meter.SlayerRevenant, 150)

	snap := s.Snapshot()
	assert.Equal(t, int64(150), snap.Slayers[meter.SlayerRevenant].StoredXp)
	assert.Equal(t, int64(200), snap.Slayers[meter.SlayerSven].StoredXp)
	_, ok := snap.Slayers[meter.SlayerVoidgloom]
	assert.False(t, ok, "unobserved slayer should have no entry")
}

func TestXpAndSelectionPreserveEachOther(t *testing.T) {
	s := New()
	s.UpdateSlayerXp(meter.SlayerVoidgloom, 425000)
	s.UpdateSlayerSelection(meter.SlayerVoidgloom, "Judgement Core", int64p(1_500_000))

	m := s.Snapshot().Slayers[meter.SlayerVoidgloom]
	assert.Equal(t, int64(425000), m.StoredXp)
	assert.Equal(t, "Judgement Core", m.SelectedItem)
	require.NotNil(t, m.GoalXp)
	assert.Equal(t, int64(1_500_000), *m.GoalXp)

	// opposite order on another key
	s.UpdateDungeonSelection(meter.FloorF7, "Necron's Handle", int64p(900_000))
	s.UpdateDungeonXp(meter.FloorF7, 123)
	d := s.Snapshot().Dungeons[meter.FloorF7]
	assert.Equal(t, int64(123), d.StoredXp)
	assert.Equal(t, "Necron's Handle", d.SelectedItem)
	require.NotNil(t, d.GoalXp)
	assert.Equal(t, int64(900_000), *d.GoalXp)
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	s := New()
	s.UpdateNucleusXp(50)
	snap := s.Snapshot()

	s.UpdateNucleusXp(75)
	assert.Equal(t, int64(50), snap.Nucleus.StoredXp, "retained snapshot must not change")
}

func TestListenersFireWithFullSnapshot(t *testing.T) {
	s := New()
	var got []meter.PlayerRngData
	s.Subscribe(func(d meter.PlayerRngData) {
		got = append(got, d)
	})

	s.UpdateMineshaftPity(1999)
	s.UpdateSlayerXp(meter.SlayerRevenant, 10)

	require.Len(t, got, 2)
	require.NotNil(t, got[0].MineshaftPity)
	assert.Equal(t, int64(1999), got[0].MineshaftPity.PityValue)
	assert.Equal(t, int64(10), got[1].Slayers[meter.SlayerRevenant].StoredXp)
	// the second notification still carries the pity value
	require.NotNil(t, got[1].MineshaftPity)
}

func TestPanickingListenerDoesNotBlockOthers(t *testing.T) {
	s := New()
	var calls int
	s.Subscribe(func(meter.PlayerRngData) { panic("subscriber bug") })
	s.Subscribe(func(meter.PlayerRngData) { calls++ })

	assert.NotPanics(t, func() {
		s.UpdateSlayerXp(meter.SlayerInferno, 1)
	})
	assert.Equal(t, 1, calls)
}

func TestClear(t *testing.T) {
	s := New()
	s.UpdateSlayerXp(meter.SlayerRevenant, 10)
	s.UpdateMineshaftPity(5)
	require.True(t, s.HasData())

	s.Clear()
	assert.False(t, s.HasData())
	assert.False(t, s.Snapshot().HasData())
}

func TestHydrateMergesWithoutNotifying(t *testing.T) {
	s := New()
	notified := 0
	s.Subscribe(func(meter.PlayerRngData) { notified++ })

	s.Hydrate(meter.PlayerRngData{
		Slayers: map[meter.SlayerType]meter.Meter{
			meter.SlayerSven: {StoredXp: 42},
		},
		MineshaftPity: &meter.MineshaftPity{PityValue: 7},
	})

	assert.Equal(t, 0, notified)
	snap := s.Snapshot()
	assert.Equal(t, int64(42), snap.Slayers[meter.SlayerSven].StoredXp)
	require.NotNil(t, snap.MineshaftPity)
	assert.Equal(t, int64(7), snap.MineshaftPity.PityValue)
}

func TestConcurrentUpdatesToDifferentKeys(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(n int64) {
			defer wg.Done()
			s.UpdateSlayerXp(meter.SlayerRevenant, n)
		}(int64(i))
		go func(n int64) {
			defer wg.Done()
			s.UpdateDungeonXp(meter.FloorM7, n)
		}(int64(i))
	}
	wg.Wait()

	snap := s.Snapshot()
	_, okSlayer := snap.Slayers[meter.SlayerRevenant]
	_, okFloor := snap.Dungeons[meter.FloorM7]
	assert.True(t, okSlayer)
	assert.True(t, okFloor)
}

package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skyrng/internal/store"
)

func TestRosterScan_ValidPity(t *testing.T) {
	st := store.New()
	roster := NewRosterExtractor(st, 1)

	roster.Scan([]string{
		"§bSomePlayer",
		"§9Glacite Mineshafts: §e1,999§7/§e2,000",
	})

	snap := st.Snapshot()
	require.NotNil(t, snap.MineshaftPity)
	assert.Equal(t, int64(1999), snap.MineshaftPity.PityValue)
}

func TestRosterScan_OutOfRangeDiscarded(t *testing.T) {
	st := store.New()
	roster := NewRosterExtractor(st, 1)

	roster.Scan([]string{"Glacite Mineshafts: 2,000/2,000"})
	require.NotNil(t, st.Snapshot().MineshaftPity)

	roster.Scan([]string{"Glacite Mineshafts: 2,001/2,000"})
	assert.Equal(t, int64(2000), st.Snapshot().MineshaftPity.PityValue,
		"out-of-range value must not replace the stored one")
}

func TestRosterScan_NoMatchRetainsPrevious(t *testing.T) {
	st := store.New()
	roster := NewRosterExtractor(st, 1)

	roster.Scan([]string{"Glacite Mineshafts: 500/2,000"})
	roster.Scan([]string{"PlayerOne", "PlayerTwo"})

	require.NotNil(t, st.Snapshot().MineshaftPity)
	assert.Equal(t, int64(500), st.Snapshot().MineshaftPity.PityValue)
}

func TestRosterScan_FirstMatchWins(t *testing.T) {
	st := store.New()
	roster := NewRosterExtractor(st, 1)

	roster.Scan([]string{
		"Glacite Mineshafts: 100/2,000",
		"Glacite Mineshafts: 200/2,000",
	})

	assert.Equal(t, int64(100), st.Snapshot().MineshaftPity.PityValue)
}

func TestRosterTick_Cadence(t *testing.T) {
	st := store.New()
	roster := NewRosterExtractor(st, 4)

	entries := []string{"Glacite Mineshafts: 123/2,000"}
	for i := 0; i < 3; i++ {
		roster.Tick(entries)
	}
	assert.Nil(t, st.Snapshot().MineshaftPity, "scan must not run before the cadence elapses")

	roster.Tick(entries)
	require.NotNil(t, st.Snapshot().MineshaftPity)
	assert.Equal(t, int64(123), st.Snapshot().MineshaftPity.PityValue)
}

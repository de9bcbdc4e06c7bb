package tui

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"skyrng/internal/format"
	"skyrng/internal/meter"
	"skyrng/internal/store"
	"skyrng/internal/syncer"
)

// WatchApp is the live snapshot view behind the watch command: a read-only
// table of every tracked meter, redrawn on store change notifications.
type WatchApp struct {
	app    *tview.Application
	table  *tview.Table
	footer *tview.TextView

	store  *store.Store
	status func() syncer.Status
}

// NewWatchApp creates the watch view over the given store. status supplies
// the sync engine state for the footer line.
func NewWatchApp(st *store.Store, status func() syncer.Status) *WatchApp {
	w := &WatchApp{
		app:    tview.NewApplication(),
		table:  tview.NewTable(),
		footer: tview.NewTextView().SetDynamicColors(true),
		store:  st,
		status: status,
	}

	w.table.SetBorder(true).SetTitle(" RNG Meters ")
	w.table.SetSelectable(false, false)

	grid := tview.NewGrid().
		SetRows(0, 1).
		AddItem(w.table, 0, 0, 1, 1, 0, 0, true).
		AddItem(w.footer, 1, 0, 1, 1, 0, 0, false)

	w.app.SetRoot(grid, true)
	w.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEscape || event.Rune() == 'q' {
			w.app.Stop()
			return nil
		}
		return event
	})

	return w
}

// Run subscribes to store changes and blocks until the user quits
func (w *WatchApp) Run() error {
	w.store.Subscribe(func(snapshot meter.PlayerRngData) {
		w.app.QueueUpdateDraw(func() {
			w.render(snapshot)
		})
	})

	w.render(w.store.Snapshot())
	return w.app.Run()
}

func (w *WatchApp) render(d meter.PlayerRngData) {
	w.table.Clear()

	w.headerRow(0)
	row := 1

	for _, slayer := range meter.AllSlayerTypes {
		if m, ok := d.Slayers[slayer]; ok {
			row = w.meterRow(row, slayer.BossName(), m)
		}
	}
	for _, floor := range meter.AllDungeonFloors {
		if m, ok := d.Dungeons[floor]; ok {
			row = w.meterRow(row, "Catacombs "+string(floor), m)
		}
	}
	if d.Nucleus != nil {
		row = w.meterRow(row, "Crystal Nucleus", *d.Nucleus)
	}
	if d.Experimentation != nil {
		row = w.meterRow(row, "Experimentation", *d.Experimentation)
	}
	if d.MineshaftPity != nil {
		w.table.SetCell(row, 0, tview.NewTableCell("Mineshaft Pity").SetTextColor(tcell.ColorAqua))
		w.table.SetCell(row, 1, tview.NewTableCell(
			fmt.Sprintf("%s / %s", format.GroupInt(d.MineshaftPity.PityValue), format.GroupInt(meter.MaxMineshaftPity))))
		row++
	}

	if row == 1 {
		w.table.SetCell(1, 0, tview.NewTableCell("waiting for observations...").SetTextColor(tcell.ColorGray))
	}

	w.renderFooter()
}

func (w *WatchApp) headerRow(row int) {
	for col, title := range []string{"Meter", "Stored XP", "Selected Drop", "Goal"} {
		w.table.SetCell(row, col, tview.NewTableCell(title).
			SetTextColor(tcell.ColorYellow).
			SetSelectable(false))
	}
}

func (w *WatchApp) meterRow(row int, name string, m meter.Meter) int {
	w.table.SetCell(row, 0, tview.NewTableCell(name).SetTextColor(tcell.ColorAqua))
	w.table.SetCell(row, 1, tview.NewTableCell(format.GroupInt(m.StoredXp)))

	selected := m.SelectedItem
	if selected == "" {
		selected = "-"
	}
	w.table.SetCell(row, 2, tview.NewTableCell(selected))

	goal := "-"
	if m.GoalXp != nil {
		goal = format.GroupInt(*m.GoalXp)
	}
	w.table.SetCell(row, 3, tview.NewTableCell(goal))

	return row + 1
}

func (w *WatchApp) renderFooter() {
	s := w.status()
	link := "[red]not linked[-]"
	if s.Linked {
		link = "[green]linked[-]"
	}

	sync := "never"
	if !s.LastSyncAt.IsZero() {
		sync = s.LastSyncAt.Format(time.Kitchen)
	}
	if s.LastError != "" {
		sync = fmt.Sprintf("[red]failed (%d attempts)[-]", s.Attempts)
	}

	w.footer.SetText(fmt.Sprintf(" %s | last sync: %s | q to quit", link, sync))
}

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"skyrng/internal/format"
	"skyrng/internal/meter"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the captured snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := wireApp()
			if err != nil {
				return err
			}
			defer a.close()

			renderSnapshot(cmd.OutOrStdout(), a.store.Snapshot())
			return nil
		},
	}
}

// renderSnapshot writes the aggregate in a human-readable layout
func renderSnapshot(w io.Writer, d meter.PlayerRngData) {
	if !d.HasData() {
		fmt.Fprintln(w, "Nothing observed yet.")
		return
	}

	if len(d.Slayers) > 0 {
		fmt.Fprintln(w, "Slayers:")
		for _, slayer := range meter.AllSlayerTypes {
			if m, ok := d.Slayers[slayer]; ok {
				renderMeter(w, slayer.BossName(), m)
			}
		}
	}

	if len(d.Dungeons) > 0 {
		fmt.Fprintln(w, "Dungeons:")
		for _, floor := range meter.AllDungeonFloors {
			if m, ok := d.Dungeons[floor]; ok {
				renderMeter(w, "Catacombs "+string(floor), m)
			}
		}
	}

	if d.Nucleus != nil {
		fmt.Fprintln(w, "Crystal Nucleus:")
		renderMeter(w, "Nucleus Runs", *d.Nucleus)
	}

	if d.Experimentation != nil {
		fmt.Fprintln(w, "Experimentation:")
		renderMeter(w, "Experimentation Table", *d.Experimentation)
	}

	if d.MineshaftPity != nil {
		fmt.Fprintf(w, "Mineshaft pity: %s / %s\n",
			format.GroupInt(d.MineshaftPity.PityValue),
			format.GroupInt(meter.MaxMineshaftPity))
	}
}

func renderMeter(w io.Writer, name string, m meter.Meter) {
	line := fmt.Sprintf("  %-24s %s XP", name, format.GroupInt(m.StoredXp))
	if m.SelectedItem != "" {
		line += fmt.Sprintf("  -> %s", m.SelectedItem)
		if m.GoalXp != nil {
			line += fmt.Sprintf(" (%s XP)", format.GroupInt(*m.GoalXp))
		}
	}
	fmt.Fprintln(w, line)
}

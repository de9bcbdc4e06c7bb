package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"skyrng/internal/backend"
	"skyrng/internal/config"
	"skyrng/internal/extract"
	"skyrng/internal/linkstate"
	"skyrng/internal/persist"
	"skyrng/internal/store"
	"skyrng/internal/syncer"
)

// Execute runs the root command
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "skyrng",
		Short:         "skyrng tracks SkyBlock RNG meter progress and syncs it to a backend",
		Long:          "skyrng passively observes game client text (chat, meter containers, the player list), extracts RNG meter progress, keeps a local copy, and pushes snapshots to a remote backend once an account is linked.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(),
		newWatchCmd(),
		newLinkCmd(),
		newUnlinkCmd(),
		newStatusCmd(),
		newShowCmd(),
		newSyncCmd(),
	)

	return rootCmd
}

// app bundles the wired collaborators a command works against
type app struct {
	cfg       config.Config
	gateway   *persist.Gateway
	store     *store.Store
	links     *linkstate.Manager
	client    *backend.Client
	engine    *syncer.Engine
	chat      *extract.ChatExtractor
	inventory *extract.InventoryExtractor
	roster    *extract.RosterExtractor
}

// wireApp builds the full pipeline: storage opened and hydrated, store
// listeners registered for persistence and sync, extractors pointed at the
// store.
func wireApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	gateway, err := persist.Open(cfg.DatabasePath, cfg.PersistDebounce)
	if err != nil {
		return nil, fmt.Errorf("open local storage: %w", err)
	}

	st := store.New()
	st.Hydrate(gateway.Hydrate())

	links, err := linkstate.Load(gateway)
	if err != nil {
		gateway.Close()
		return nil, fmt.Errorf("load link state: %w", err)
	}

	client := backend.New(cfg.BackendURL, nil)
	engine := syncer.New(client, links, syncer.Config{
		Debounce:       cfg.SyncDebounce,
		InitialBackoff: cfg.SyncInitialBackoff,
		MaxBackoff:     cfg.SyncMaxBackoff,
		MaxAttempts:    cfg.SyncMaxAttempts,
	})

	st.Subscribe(gateway.Notify)
	st.Subscribe(engine.Notify)

	return &app{
		cfg:       cfg,
		gateway:   gateway,
		store:     st,
		links:     links,
		client:    client,
		engine:    engine,
		chat:      extract.NewChatExtractor(st),
		inventory: extract.NewInventoryExtractor(st, cfg.InventorySettleDelay),
		roster:    extract.NewRosterExtractor(st, cfg.RosterPollTicks),
	}, nil
}

// close shuts the pipeline down with a final flush
func (a *app) close() {
	a.engine.Close()
	a.gateway.Close()
}

// cmd/taskman/main.go
//
// Entry point for the task manager.
//
// Flow:
// 1. Create the .taskman directory and load config
// 2. Load the persisted store snapshot (empty store on first run)
// 3. Run the TUI until the user exits
// 4. Rewrite the snapshot on the way out

package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/PedroCPaez/task-manager/internal/auth"
	"github.com/PedroCPaez/task-manager/internal/config"
	"github.com/PedroCPaez/task-manager/internal/logging"
	"github.com/PedroCPaez/task-manager/internal/store"
	"github.com/PedroCPaez/task-manager/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "taskman: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	if err := config.InitTaskmanDir(cwd); err != nil {
		return fmt.Errorf("initialize %s directory: %w", config.TaskmanDir, err)
	}
	cfg, err := config.NewConfig(cwd)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogPath())
	if err != nil {
		return err
	}
	defer logger.Close()

	st, err := store.Load(cfg.StorePath())
	if err != nil {
		return err
	}
	seeded, err := auth.EnsureDefaultAdmin(st)
	if err != nil {
		return err
	}
	if seeded {
		logger.Printf("seeded default %s account", auth.DefaultAdminUsername)
	}

	p := tea.NewProgram(
		tui.NewApp(cfg, st, logger),
		tea.WithAltScreen(),
	)
	_, runErr := p.Run()

	// Rewrite the snapshot even when the TUI errored out: in-memory edits
	// up to that point are still worth keeping.
	if err := st.Save(cfg.StorePath()); err != nil {
		logger.Printf("save store: %v", err)
		if runErr == nil {
			return err
		}
	}
	if runErr != nil {
		return fmt.Errorf("run TUI: %w", runErr)
	}
	logger.Printf("store saved to %s", cfg.StorePath())
	return nil
}

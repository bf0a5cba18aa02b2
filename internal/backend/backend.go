// Package backend builds the remote ledger backend from configuration,
// so command entrypoints stay free of wiring details.
package backend

import (
	"context"
	"fmt"

	"github.com/hikmagitz/hkmcash-sub000/internal/config"
	applog "github.com/hikmagitz/hkmcash-sub000/internal/log"
	"github.com/hikmagitz/hkmcash-sub000/internal/remote"
	"github.com/hikmagitz/hkmcash-sub000/internal/remote/memory"
	"github.com/hikmagitz/hkmcash-sub000/internal/remote/sheets"
)

// Result bundles the three remote capabilities a backend provides. The
// hosted backend implements all of them on one client; the memory
// backend splits the profile reader off.
type Result struct {
	Store    remote.Store
	Profiles remote.ProfileReader
	Prober   remote.Prober
}

// Build constructs the backend named by cfg.RemoteBackend.
func Build(ctx context.Context, cfg *config.Config, logger *applog.Logger) (*Result, error) {
	switch cfg.RemoteBackend {
	case "sheets":
		cli, err := sheets.NewFromEnv(ctx)
		if err != nil {
			return nil, fmt.Errorf("initialize sheets backend: %w", err)
		}
		logger.Info("Initialized Google Sheets backend",
			"spreadsheet_id", cfg.GoogleSpreadsheetID)
		return &Result{Store: cli, Profiles: cli, Prober: cli}, nil

	case "memory":
		store := memory.New()
		logger.Info("Initialized memory backend")
		return &Result{Store: store, Profiles: memory.NewProfiles(), Prober: store}, nil

	default:
		return nil, fmt.Errorf("unknown remote backend %q", cfg.RemoteBackend)
	}
}

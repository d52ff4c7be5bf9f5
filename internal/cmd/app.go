package cmd

import (
	"fmt"

	"github.com/jpequegn/satbench/internal/catalog"
	"github.com/jpequegn/satbench/internal/facade"
	"github.com/jpequegn/satbench/internal/progress"
	"github.com/jpequegn/satbench/internal/runner"
	"github.com/jpequegn/satbench/internal/scheduler"
	"github.com/jpequegn/satbench/internal/solver"
	"github.com/spf13/viper"
)

// app bundles the store/registry/scheduler/facade every subcommand needs,
// built once per invocation from the resolved --db path.
type app struct {
	store    *catalog.SQLiteStore
	registry *solver.Registry
	bus      *progress.Bus
	facade   *facade.Facade
}

func newApp() (*app, error) {
	dbPath := viper.GetString("db")
	if dbPath == "" {
		dbPath = "satbench.db"
	}

	store, err := catalog.NewSQLiteStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalogue store at %s: %w", dbPath, err)
	}
	if err := store.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialise catalogue store: %w", err)
	}

	registry := solver.NewRegistry(store)
	if err := registry.Discover(builtinAdapters()...); err != nil {
		return nil, fmt.Errorf("failed to register built-in solvers: %w", err)
	}

	bus := progress.NewBus()
	sched := scheduler.New(store, registry, runner.NewExecutor(), bus)
	f := facade.New(store, sched, bus)

	return &app{store: store, registry: registry, bus: bus, facade: f}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

// builtinAdapters returns the four built-in solver adapters, resolved
// against PATH; Discover registers them even when the binary is absent, and
// the registry then reports them as not ready.
func builtinAdapters() []solver.Adapter {
	return []solver.Adapter{
		solver.NewMiniSat("minisat"),
		solver.NewCaDiCaL("cadical"),
		solver.NewKissat("kissat"),
		solver.NewCryptoMiniSat("cryptominisat5"),
	}
}

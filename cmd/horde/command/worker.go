package command

import (
	"fmt"
	"time"

	service "github.com/pixil98/go-service"

	"github.com/deadwatch/horde/internal/arena"
	"github.com/deadwatch/horde/internal/driver"
	"github.com/deadwatch/horde/internal/identity"
	"github.com/deadwatch/horde/internal/leaderboard"
	"github.com/deadwatch/horde/internal/messaging"
	"github.com/deadwatch/horde/internal/persistence"
	"github.com/deadwatch/horde/internal/rpc"
	"github.com/deadwatch/horde/internal/saves"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	// Open the database
	db, err := persistence.Open(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Build the tuning catalogs
	weapons, err := cfg.Storage.BuildWeaponCatalog()
	if err != nil {
		return nil, fmt.Errorf("building weapon catalog: %w", err)
	}
	variants, err := cfg.Storage.BuildZombieCatalog()
	if err != nil {
		return nil, fmt.Errorf("building zombie catalog: %w", err)
	}
	for _, id := range cfg.Arena.Loadout {
		if weapons.Get(id) == nil {
			return nil, fmt.Errorf("loadout weapon %q is not in the catalog", id)
		}
	}

	// Create the nats server
	natsServer, err := cfg.Nats.BuildServer()
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}

	// Create the persistence-backed services
	players := identity.NewStore(db)
	saveSvc := saves.NewService(db, players, cfg.Saves.BuildOpts()...)
	board := leaderboard.NewService(db, players)

	// Setup the arena
	arenaOpts, err := cfg.Arena.BuildOpts()
	if err != nil {
		return nil, fmt.Errorf("configuring arena: %w", err)
	}
	publisher := messaging.NewNatsPublisher(natsServer)
	arenaMgr, err := arena.NewArena(weapons, variants, board, saveSvc, publisher, arenaOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating arena: %w", err)
	}

	// Setup the game driver
	var driverOpts []driver.GameDriverOpt
	if cfg.TickInterval != "" {
		d, err := time.ParseDuration(cfg.TickInterval)
		if err != nil {
			return nil, fmt.Errorf("parsing tick_interval: %w", err)
		}
		driverOpts = append(driverOpts, driver.WithTickLength(d))
	}
	gameDriver := driver.NewGameDriver([]driver.Manager{arenaMgr}, driverOpts...)

	// Create a worker list
	return service.WorkerList{
		"nats":   natsServer,
		"driver": gameDriver,
		"rpc":    rpc.NewServer(natsServer, players, saveSvc, board, arenaMgr),
	}, nil
}

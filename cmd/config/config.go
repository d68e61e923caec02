// Package config boots the shared pkg/config loader into a ready-to-use set
// of core collaborators (logger, store, governance set) for the
// taskcore CLI and query API binaries.
package config

import (
	"github.com/sirupsen/logrus"

	"github.com/DaveEstey/openbook-protocol/core"
	pkgconfig "github.com/DaveEstey/openbook-protocol/pkg/config"
)

// AppConfig holds the currently loaded configuration for command line
// utilities.
var AppConfig core.Config

// Bootstrap is the fully wired process state a cmd binary needs: the loaded
// Config, a logger, and the parsed governance authority set. The KVStore is
// installed process-wide through core.SetStore rather than held here. The
// Ledger stays whatever core.CurrentLedger() already defaults to — an
// external collaborator a real deployment wires with core.SetLedger.
type Bootstrap struct {
	Config     core.Config
	Logger     *logrus.Logger
	Governance core.GovernanceAuthoritySet
}

// LoadConfig loads the configuration for the given environment name,
// stores it in AppConfig, wires core.SetStore per Config.Store.Backend, and
// returns the Bootstrap. Any error loading or
// parsing configuration aborts process startup.
func LoadConfig(env string) *Bootstrap {
	cfg, err := pkgconfig.Load(env)
	if err != nil {
		panic(err)
	}
	AppConfig = *cfg

	lg := core.NewLogger(cfg.Logging.Level)

	switch cfg.Store.Backend {
	case "bbolt":
		store, err := core.OpenBoltStore(cfg.Store.Path)
		if err != nil {
			panic(err)
		}
		core.SetStore(store)
	default:
		core.SetStore(core.NewInMemoryStore())
	}

	gov, err := pkgconfig.GovernanceAuthoritySet(cfg)
	if err != nil {
		panic(err)
	}

	return &Bootstrap{Config: AppConfig, Logger: lg, Governance: gov}
}

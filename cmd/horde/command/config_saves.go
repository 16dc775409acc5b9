package command

import (
	"github.com/deadwatch/horde/internal/saves"
)

type SavesConfig struct {
	// Policy selects save retention: "append" keeps every save,
	// "replace-latest" overwrites the owner's newest one. Empty means
	// append.
	Policy string `json:"policy"`
}

func (c *SavesConfig) Validate() error {
	if c.Policy == "" {
		return nil
	}
	return saves.Policy(c.Policy).Validate()
}

func (c *SavesConfig) BuildOpts() []saves.ServiceOpt {
	var opts []saves.ServiceOpt
	if c.Policy != "" {
		opts = append(opts, saves.WithPolicy(saves.Policy(c.Policy)))
	}
	return opts
}

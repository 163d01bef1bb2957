package plugins

import (
	"github.com/joshp123/gridgate/internal/config"
	"github.com/joshp123/gridgate/internal/core"
	"github.com/joshp123/gridgate/plugins/foxess"
)

func init() {
	Register(func(cfg *config.Config) (core.Plugin, bool) {
		return foxess.NewPlugin(cfg.Foxess)
	})
}

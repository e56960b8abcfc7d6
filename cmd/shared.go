package cmd

import (
	"context"
	"encoding/json"
	"os"
	"sync"

	"github.com/scriptling/scriptling-mcp/mcp"
	"github.com/scriptling/scriptling-mcp/mcp/config"
)

var (
	cfgPath string

	svcOnce sync.Once
	svcInst *mcp.Service
	svcErr  error
)

// setConfigPath remembers the CLI-level -f/--config parameter so that the
// service singleton can be created lazily by whichever sub-command is executed
// first.
func setConfigPath(p string) { cfgPath = p }

// serviceSingleton initialises an mcp.Service only once and reuses the instance
// across sub-commands within the same CLI invocation.
func serviceSingleton() (*mcp.Service, error) {
	svcOnce.Do(func() {
		var cfg *config.Config
		if cfgPath != "" {
			var err error
			cfg, err = config.Load(cfgPath)
			if err != nil {
				svcErr = err
				return
			}
			if debug := os.Getenv("SCRIPTLING_DEBUG_CONFIG"); debug == "1" {
				_ = json.NewEncoder(os.Stderr).Encode(cfg)
			}
		}

		svcInst, svcErr = mcp.New(context.Background(), mcp.WithConfig(cfg))
	})
	return svcInst, svcErr
}

package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/scriptling/scriptling-mcp/mcp/config"
)

// CheckCmd validates a configuration file without starting the service.
type CheckCmd struct {
	JSON bool `long:"json" description:"print the parsed configuration as JSON"`
}

func (c *CheckCmd) Execute(_ []string) error {
	if cfgPath == "" {
		return fmt.Errorf("config path must be provided via -f/--config")
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if c.JSON {
		data, _ := json.MarshalIndent(cfg, "", "  ")
		fmt.Println(string(data))
		return nil
	}
	fmt.Printf("%s: OK (%d script(s), %d tool(s), %d prompt(s))\n",
		cfgPath, len(cfg.GlobalSettings.Scripts), len(cfg.Tools), len(cfg.Prompts))
	return nil
}

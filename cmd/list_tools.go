package cmd

import (
	"fmt"

	"github.com/scriptling/scriptling-mcp/mcp/matcher"
)

// ListToolsCmd prints every registered tool, optionally filtered by a glob
// style pattern (exact name, prefix* or *).
type ListToolsCmd struct {
	Pattern string `short:"p" long:"pattern" description:"name pattern, e.g. text* (default: all)"`
}

func (c *ListToolsCmd) Execute(_ []string) error {
	svc, err := serviceSingleton()
	if err != nil {
		return err
	}

	for _, name := range matcher.Filter(c.Pattern, svc.ToolNames()) {
		registration, ok := svc.Tool(name)
		if !ok {
			continue
		}
		fmt.Printf("%s\t%s\t%s\n", name, registration.Entry.ImportPath, registration.Entry.Description)
	}
	return nil
}

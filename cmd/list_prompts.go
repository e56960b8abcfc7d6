package cmd

import (
	"fmt"
	"strings"

	"github.com/scriptling/scriptling-mcp/mcp/matcher"
)

// ListPromptsCmd prints every registered prompt with its argument names.
type ListPromptsCmd struct {
	Pattern string `short:"p" long:"pattern" description:"name pattern, e.g. review* (default: all)"`
}

func (c *ListPromptsCmd) Execute(_ []string) error {
	svc, err := serviceSingleton()
	if err != nil {
		return err
	}

	for _, name := range matcher.Filter(c.Pattern, svc.PromptNames()) {
		registration, ok := svc.Prompt(name)
		if !ok {
			continue
		}
		args := strings.Join(registration.Callable.Params, ", ")
		fmt.Printf("%s\t(%s)\t%s\n", name, args, registration.Entry.Description)
	}
	return nil
}

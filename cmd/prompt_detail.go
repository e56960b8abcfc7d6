package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
)

// PromptCmd prints metadata for a single prompt.
type PromptCmd struct {
	Name string `short:"n" long:"name" description:"prompt name" positional-arg-name:"name" required:"yes"`
	JSON bool   `long:"json" description:"print result as JSON"`
}

func (c *PromptCmd) Execute(_ []string) error {
	svc, err := serviceSingleton()
	if err != nil {
		return err
	}

	registration, ok := svc.Prompt(c.Name)
	if !ok {
		return fmt.Errorf("prompt %q not found", c.Name)
	}

	if c.JSON {
		out := struct {
			ID          string   `json:"id"`
			Name        string   `json:"name"`
			Description string   `json:"description"`
			ImportPath  string   `json:"import_path"`
			Arguments   []string `json:"arguments"`
		}{c.Name, registration.Entry.Name, registration.Entry.Description,
			registration.Entry.ImportPath, registration.Callable.Params}
		data, _ := json.MarshalIndent(out, "", "  ")
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("ID   : %s\n", c.Name)
	fmt.Printf("Name : %s\n", registration.Entry.Name)
	fmt.Printf("Desc : %s\n", registration.Entry.Description)
	fmt.Printf("Impl : %s\n", registration.Entry.ImportPath)
	fmt.Printf("Args : %s\n", strings.Join(registration.Callable.Params, ", "))
	return nil
}

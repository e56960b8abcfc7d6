package cmd

import (
	"encoding/json"
	"fmt"
)

// ToolCmd prints metadata & input schema for a single tool.
type ToolCmd struct {
	Name string `short:"n" long:"name" description:"tool name" positional-arg-name:"name" required:"yes"`
	JSON bool   `long:"json" description:"print result as JSON"`
}

func (c *ToolCmd) Execute(_ []string) error {
	svc, err := serviceSingleton()
	if err != nil {
		return err
	}

	entry, err := svc.LookupTool(c.Name)
	if err != nil {
		return err
	}

	description := ""
	if entry.Metadata.Description != nil {
		description = *entry.Metadata.Description
	}

	if c.JSON {
		out := struct {
			Name        string      `json:"name"`
			Description string      `json:"description"`
			InputSchema interface{} `json:"inputSchema"`
		}{c.Name, description, entry.Metadata.InputSchema}
		data, _ := json.MarshalIndent(out, "", "  ")
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("Name : %s\n", c.Name)
	fmt.Printf("Desc : %s\n", description)
	js, _ := json.MarshalIndent(entry.Metadata.InputSchema, "", "  ")
	fmt.Printf("InputSchema:\n%s\n", string(js))
	return nil
}

package cmd

import (
	"context"
	"fmt"
)

// RenderCmd renders a registered prompt with the supplied arguments and prints
// the resulting text.
type RenderCmd struct {
	Name   string `short:"n" long:"name" positional-arg-name:"prompt" description:"Prompt name" required:"yes"`
	Inline string `short:"i" long:"input" description:"Inline JSON arguments (object)"`
	File   string `long:"file" description:"Path to JSON file with arguments (use - for stdin)"`
}

func (c *RenderCmd) Execute(_ []string) error {
	if c.Inline != "" && c.File != "" {
		return fmt.Errorf("-i/--input and --file are mutually exclusive")
	}

	svc, err := serviceSingleton()
	if err != nil {
		return err
	}

	args, err := decodeArgs(c.Inline, c.File)
	if err != nil {
		return err
	}

	text, err := svc.RenderPrompt(context.Background(), c.Name, args)
	if err != nil {
		return err
	}
	fmt.Println(text)
	return nil
}

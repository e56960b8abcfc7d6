package cmd

// Options is the root for the CLI.  Struct tags are interpreted by
// github.com/jessevdk/go-flags.
type Options struct {
	Config string `short:"f" long:"config" description:"registry configuration YAML path"`

	Check       *CheckCmd       `command:"check"        description:"Validate a configuration file"`
	ListTools   *ListToolsCmd   `command:"list-tools"   description:"List all registered tools"`
	ListPrompts *ListPromptsCmd `command:"list-prompts" description:"List all registered prompts"`
	Tool        *ToolCmd        `command:"tool"         description:"Show detailed info about one tool"`
	Prompt      *PromptCmd      `command:"prompt"       description:"Show detailed info about one prompt"`
	Exec        *ExecCmd        `command:"exec"         description:"Execute a registered tool"`
	Render      *RenderCmd      `command:"render"       description:"Render a registered prompt"`
	Serve       *ServeCmd       `command:"serve"        description:"Start MCP server exposing the registered tools"`
}

// Init instantiates the sub-command referenced by the first positional argument
// so that go-flags can populate its fields.
func (o *Options) Init(firstArg string) {
	switch firstArg {
	case "check":
		o.Check = &CheckCmd{}
	case "list-tools":
		o.ListTools = &ListToolsCmd{}
	case "list-prompts":
		o.ListPrompts = &ListPromptsCmd{}
	case "tool":
		o.Tool = &ToolCmd{}
	case "prompt":
		o.Prompt = &PromptCmd{}
	case "exec":
		o.Exec = &ExecCmd{}
	case "render":
		o.Render = &RenderCmd{}
	case "serve":
		o.Serve = &ServeCmd{}
	}
}

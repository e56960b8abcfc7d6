package config

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/scriptling/scriptling-mcp/mcp/scripts"
)

// Log levels accepted by GlobalSettings.LogLevel.
const (
	LogLevelDebug = "DEBUG"
	LogLevelInfo  = "INFO"
	LogLevelWarn  = "WARN"
	LogLevelError = "ERROR"
)

// PromptTypeFunction is the only prompt kind currently supported: a prompt
// rendered by calling a script function.
const PromptTypeFunction = "function"

// GlobalSettings carries process-wide options.
type GlobalSettings struct {
	// Scripts lists source files, in registration order, to fetch and index
	// at startup. Entries are URLs or local paths.
	Scripts []string `yaml:"scripts,omitempty" json:"scripts,omitempty"`
	// LogLevel is one of DEBUG, INFO, WARN, ERROR. Empty means INFO.
	LogLevel string `yaml:"log_level,omitempty" json:"log_level,omitempty"`
}

// PromptEntry binds a prompt identifier to a script callable.
type PromptEntry struct {
	Type        string `yaml:"type" json:"type"`
	Name        string `yaml:"name" json:"name"`
	ImportPath  string `yaml:"import_path" json:"import_path"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// ToolEntry binds a tool identifier to a script callable.
type ToolEntry struct {
	ImportPath  string `yaml:"import_path" json:"import_path"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Config is the declarative tool/prompt registry definition. It is immutable
// after Load; runtime mutation happens on the registries built from it, never
// on the Config itself.
type Config struct {
	GlobalSettings GlobalSettings          `yaml:"global_settings,omitempty" json:"global_settings,omitempty"`
	Prompts        map[string]*PromptEntry `yaml:"prompts,omitempty" json:"prompts,omitempty"`
	Tools          map[string]*ToolEntry   `yaml:"tools,omitempty" json:"tools,omitempty"`
}

// Load reads and parses a configuration file, returning a validated Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %q: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes and validates a configuration document.
func Parse(data []byte) (*Config, error) {
	// yaml.v3 silently keeps the last value for duplicated mapping keys, so
	// duplicates are rejected in a dedicated pre-pass over the node tree.
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("malformed document: %w", err)
	}
	if err := checkDuplicateKeys(&root, ""); err != nil {
		return nil, err
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return nil, &Error{Reason: err.Error()}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Marshal serialises the configuration back to YAML. Parse(Marshal(c)) yields
// a Config equal to c.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Validate checks the schema and returns a *Error naming the offending field
// on the first violation.
func (c *Config) Validate() error {
	if err := validateLogLevel(c.GlobalSettings.LogLevel); err != nil {
		return err
	}
	for i, script := range c.GlobalSettings.Scripts {
		if err := ValidateScriptLocation(script); err != nil {
			return NewError(fmt.Sprintf("global_settings.scripts[%d]", i), "%v", err)
		}
	}
	// Identifiers are checked in lexical order so the first reported
	// violation is deterministic.
	for _, id := range sortedKeys(c.Prompts) {
		prompt := c.Prompts[id]
		if prompt == nil {
			return NewError("prompts."+id, "entry is empty")
		}
		if err := prompt.Validate(id); err != nil {
			return err
		}
	}
	for _, id := range sortedKeys(c.Tools) {
		tool := c.Tools[id]
		if tool == nil {
			return NewError("tools."+id, "entry is empty")
		}
		if err := tool.Validate(id); err != nil {
			return err
		}
	}
	return nil
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func validateLogLevel(level string) error {
	switch level {
	case "", LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return nil
	}
	return NewError("global_settings.log_level",
		"must be one of DEBUG, INFO, WARN, ERROR; got %q", level)
}

// ValidateScriptLocation checks a single scripts entry: a URL with a scheme
// the fetch layer understands, or a local path.
func ValidateScriptLocation(script string) error {
	if strings.TrimSpace(script) == "" {
		return fmt.Errorf("script location is empty")
	}
	if !strings.Contains(script, "://") {
		// Local path, resolved relative to the working directory.
		return nil
	}
	u, err := url.Parse(script)
	if err != nil {
		return fmt.Errorf("malformed URL %q: %v", script, err)
	}
	switch u.Scheme {
	case "http", "https":
		if u.Host == "" {
			return fmt.Errorf("malformed URL %q: missing host", script)
		}
	case "file", "s3", "gs", "mem":
		// Schemes the fetch layer understands.
	default:
		return fmt.Errorf("unsupported URL scheme %q", u.Scheme)
	}
	return nil
}

// Validate checks a prompt entry; id is used in error field paths.
func (prompt *PromptEntry) Validate(id string) error {
	field := func(name string) string { return "prompts." + id + "." + name }
	if prompt.Type == "" {
		return NewError(field("type"), "missing required key")
	}
	if prompt.Type != PromptTypeFunction {
		return NewError(field("type"), "must be %q; got %q", PromptTypeFunction, prompt.Type)
	}
	if prompt.Name == "" {
		return NewError(field("name"), "missing required key")
	}
	if prompt.ImportPath == "" {
		return NewError(field("import_path"), "missing required key")
	}
	if err := scripts.ImportPath(prompt.ImportPath).Validate(); err != nil {
		return NewError(field("import_path"), "%v", err)
	}
	return nil
}

// Validate checks a tool entry; id is used in error field paths.
func (tool *ToolEntry) Validate(id string) error {
	field := func(name string) string { return "tools." + id + "." + name }
	if tool.ImportPath == "" {
		return NewError(field("import_path"), "missing required key")
	}
	if err := scripts.ImportPath(tool.ImportPath).Validate(); err != nil {
		return NewError(field("import_path"), "%v", err)
	}
	return nil
}

// checkDuplicateKeys walks the YAML node tree and rejects mappings that
// define the same key twice.
func checkDuplicateKeys(node *yaml.Node, path string) error {
	switch node.Kind {
	case yaml.DocumentNode:
		for _, child := range node.Content {
			if err := checkDuplicateKeys(child, path); err != nil {
				return err
			}
		}
	case yaml.MappingNode:
		seen := make(map[string]bool, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, value := node.Content[i], node.Content[i+1]
			keyPath := key.Value
			if path != "" {
				keyPath = path + "." + key.Value
			}
			if seen[key.Value] {
				return NewError(keyPath, "duplicate key")
			}
			seen[key.Value] = true
			if err := checkDuplicateKeys(value, keyPath); err != nil {
				return err
			}
		}
	case yaml.SequenceNode:
		for i, child := range node.Content {
			if err := checkDuplicateKeys(child, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
	}
	return nil
}

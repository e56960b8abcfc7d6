package mcp

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/scriptling/scriptling-mcp/internal/syncmap"
	"github.com/scriptling/scriptling-mcp/mcp/config"
	"github.com/scriptling/scriptling-mcp/mcp/scripts"
)

// ToolRegistration is one live entry of the tool registry: the configured
// binding plus the resolved script callable behind it.
type ToolRegistration struct {
	ID       string
	Entry    *config.ToolEntry
	Callable *scripts.Callable
}

// PromptRegistration is one live entry of the prompt registry.
type PromptRegistration struct {
	ID       string
	Entry    *config.PromptEntry
	Callable *scripts.Callable
}

// Service bundles configuration, the script store and the prompt/tool
// registries. All heavy lifting during instantiation lives in bootstrap.go to
// keep this file focused on the public surface.
type Service struct {
	config    *config.Config
	logger    *zap.Logger
	store     *scripts.Store
	invoker   scripts.Invoker
	scriptDir string

	tools   *syncmap.Map[*ToolRegistration]
	prompts *syncmap.Map[*PromptRegistration]

	obsMu     sync.RWMutex
	observers []ObserverFunc
}

// Option modifies a service instance before it is initialised. Users can pass
// an arbitrary number of options to New.
type Option func(*Service)

// WithConfig sets a custom configuration instance. When omitted a zero value
// config is assumed.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		s.config = cfg
	}
}

// WithLogger overrides the logger built from global_settings.log_level.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithInvoker overrides the default process-spawning script invoker.
func WithInvoker(invoker scripts.Invoker) Option {
	return func(s *Service) {
		s.invoker = invoker
	}
}

// WithScriptDir sets the directory fetched scripts are materialised into.
func WithScriptDir(dir string) Option {
	return func(s *Service) {
		s.scriptDir = dir
	}
}

// WithObserver subscribes a registry change observer before the registries
// are populated, so it also sees the initial registrations.
func WithObserver(fn ObserverFunc) Option {
	return func(s *Service) {
		s.observers = append(s.observers, fn)
	}
}

// New constructs a new service instance. The actual bootstrap is handled by
// init() in bootstrap.go so that callers do not need to care about the
// internal initialisation sequence.
func New(ctx context.Context, opts ...Option) (*Service, error) {
	svc := &Service{}
	for _, opt := range opts {
		opt(svc)
	}
	if err := svc.init(ctx); err != nil {
		return nil, err
	}
	return svc, nil
}

// Config returns the effective configuration instance passed to the service
// at construction time. Callers must treat the returned object as read-only.
func (s *Service) Config() *config.Config { return s.config }

// Logger returns the service logger.
func (s *Service) Logger() *zap.Logger { return s.logger }

// Store returns the script store backing the registries.
func (s *Service) Store() *scripts.Store { return s.store }

// ToolNames returns all registered tool identifiers in lexical order.
func (s *Service) ToolNames() []string { return s.tools.Keys() }

// PromptNames returns all registered prompt identifiers in lexical order.
func (s *Service) PromptNames() []string { return s.prompts.Keys() }

// Tool returns the registration for a tool identifier.
func (s *Service) Tool(id string) (*ToolRegistration, bool) { return s.tools.Get(id) }

// Prompt returns the registration for a prompt identifier.
func (s *Service) Prompt(id string) (*PromptRegistration, bool) { return s.prompts.Get(id) }

// RegisterTool resolves and registers a tool binding at runtime. A duplicate
// identifier is an error unless replace is set.
func (s *Service) RegisterTool(id string, entry *config.ToolEntry, replace bool) error {
	if id == "" || entry == nil {
		return fmt.Errorf("tool registration requires an identifier and an entry")
	}
	if err := entry.Validate(id); err != nil {
		return err
	}
	if !replace && s.tools.Has(id) {
		return fmt.Errorf("tool %q already registered", id)
	}
	callable, err := s.store.Resolve(scripts.ImportPath(entry.ImportPath))
	if err != nil {
		return config.NewError("tools."+id+".import_path", "%v", err)
	}
	s.tools.Set(id, &ToolRegistration{ID: id, Entry: entry, Callable: callable})
	return nil
}

// RegisterPrompt resolves and registers a prompt binding at runtime. A
// duplicate identifier is an error unless replace is set.
func (s *Service) RegisterPrompt(id string, entry *config.PromptEntry, replace bool) error {
	if id == "" || entry == nil {
		return fmt.Errorf("prompt registration requires an identifier and an entry")
	}
	if err := entry.Validate(id); err != nil {
		return err
	}
	if !replace && s.prompts.Has(id) {
		return fmt.Errorf("prompt %q already registered", id)
	}
	callable, err := s.store.Resolve(scripts.ImportPath(entry.ImportPath))
	if err != nil {
		return config.NewError("prompts."+id+".import_path", "%v", err)
	}
	s.prompts.Set(id, &PromptRegistration{ID: id, Entry: entry, Callable: callable})
	return nil
}

// RemoveTool deletes a tool registration.
func (s *Service) RemoveTool(id string) error {
	if !s.tools.Has(id) {
		return fmt.Errorf("unknown tool: %q", id)
	}
	s.tools.Delete(id)
	return nil
}

// RemovePrompt deletes a prompt registration.
func (s *Service) RemovePrompt(id string) error {
	if !s.prompts.Has(id) {
		return fmt.Errorf("unknown prompt: %q", id)
	}
	s.prompts.Delete(id)
	return nil
}

// AddScripts fetches additional script locations and merges their callables
// into the index.
func (s *Service) AddScripts(ctx context.Context, locations []string) error {
	for i, location := range locations {
		if err := config.ValidateScriptLocation(location); err != nil {
			return config.NewError(fmt.Sprintf("scripts[%d]", i), "%v", err)
		}
	}
	return s.store.Fetch(ctx, locations)
}

// sortedTools returns the tool registrations ordered by identifier.
func (s *Service) sortedTools() []*ToolRegistration {
	out := s.tools.List()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// sortedPrompts returns the prompt registrations ordered by identifier.
func (s *Service) sortedPrompts() []*PromptRegistration {
	out := s.prompts.List()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

package mcp

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/scriptling/scriptling-mcp/internal/syncmap"
	"github.com/scriptling/scriptling-mcp/logging"
	"github.com/scriptling/scriptling-mcp/mcp/config"
	"github.com/scriptling/scriptling-mcp/mcp/scripts"
)

// init is the main bootstrap routine invoked by New once all options have
// been applied. Its sole responsibility is to orchestrate the individual
// preparation steps so that the logic stays easy to read and to maintain.
func (s *Service) init(ctx context.Context) error {
	s.initDefaults()

	// Validate configuration early to fail fast when possible.
	if err := s.config.Validate(); err != nil {
		return err
	}

	if err := s.initLogger(); err != nil {
		return err
	}
	s.initRegistries()

	if err := s.store.Fetch(ctx, s.config.GlobalSettings.Scripts); err != nil {
		return err
	}

	return s.registerConfigured()
}

// initDefaults applies fall-back values for optional dependencies that were
// not supplied through options.
func (s *Service) initDefaults() {
	if s.config == nil {
		s.config = &config.Config{}
	}
	if s.invoker == nil {
		s.invoker = scripts.NewProcessInvoker()
	}
	if s.store == nil {
		s.store = scripts.NewStore(s.scriptDir)
	}
}

func (s *Service) initLogger() error {
	if s.logger != nil {
		return nil
	}
	logger, err := logging.New(s.config.GlobalSettings.LogLevel)
	if err != nil {
		return err
	}
	s.logger = logger
	return nil
}

// initRegistries creates the prompt/tool registries and wires their change
// events into the observer fan-out before any registration happens.
func (s *Service) initRegistries() {
	s.tools = syncmap.NewRegistry[*ToolRegistration]()
	s.prompts = syncmap.NewRegistry[*PromptRegistration]()

	s.tools.Watch(func(event syncmap.Event, key string, _ *ToolRegistration) {
		s.notifyObservers(ChangeEvent{Component: ComponentTool, Change: changeOf(event), Name: key})
	})
	s.prompts.Watch(func(event syncmap.Event, key string, _ *PromptRegistration) {
		s.notifyObservers(ChangeEvent{Component: ComponentPrompt, Change: changeOf(event), Name: key})
	})

	s.Subscribe(func(event ChangeEvent) {
		s.logger.Debug("registry changed",
			zap.String("component", string(event.Component)),
			zap.String("change", string(event.Change)),
			zap.String("name", event.Name))
	})
}

// registerConfigured resolves every configured binding against the script
// index and populates the registries. Identifiers are processed in lexical
// order for deterministic error reporting.
func (s *Service) registerConfigured() error {
	for _, id := range sortedKeys(s.config.Tools) {
		if err := s.RegisterTool(id, s.config.Tools[id], false); err != nil {
			return fmt.Errorf("register tool %q: %w", id, err)
		}
	}
	for _, id := range sortedKeys(s.config.Prompts) {
		if err := s.RegisterPrompt(id, s.config.Prompts[id], false); err != nil {
			return fmt.Errorf("register prompt %q: %w", id, err)
		}
	}
	s.logger.Info("registry bootstrapped",
		zap.Int("scripts", len(s.store.Modules())),
		zap.Int("tools", s.tools.Len()),
		zap.Int("prompts", s.prompts.Len()))
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

package scripts

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/viant/afs"
)

// Callable identifies one function exposed by a fetched script.
type Callable struct {
	Module   string
	Function string
	Params   []string
	// Source is the script location the callable came from.
	Source string
	// Path is the materialised local file used for invocation.
	Path string
}

// ImportPath returns the dotted reference for the callable.
func (c *Callable) ImportPath() ImportPath {
	return NewImportPath(c.Module, c.Function)
}

// Module groups the callables of a single fetched script.
type Module struct {
	Name      string
	Source    string
	Path      string
	callables map[string]*Callable
}

// Callables returns the module's callables sorted by function name.
func (m *Module) Callables() []*Callable {
	out := make([]*Callable, 0, len(m.callables))
	for _, c := range m.callables {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Function < out[j].Function })
	return out
}

// Store fetches configured scripts, materialises them under a working
// directory and indexes the callables they expose.
type Store struct {
	fs  afs.Service
	dir string

	mux     sync.RWMutex
	modules map[string]*Module
}

// NewStore creates an empty store. dir is the directory fetched scripts are
// materialised into; when empty a process-scoped temp directory is created on
// first fetch.
func NewStore(dir string) *Store {
	return &Store{
		fs:      afs.New(),
		dir:     dir,
		modules: make(map[string]*Module),
	}
}

// Fetch downloads every location, in order, and merges the discovered
// callables into the index. A module name collision with an already fetched
// script is an error.
func (s *Store) Fetch(ctx context.Context, locations []string) error {
	for _, location := range locations {
		if err := s.fetchOne(ctx, location); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) fetchOne(ctx context.Context, location string) error {
	module, err := ModuleName(location)
	if err != nil {
		return err
	}

	s.mux.RLock()
	existing, exists := s.modules[module]
	s.mux.RUnlock()
	if exists && existing.Source != location {
		return fmt.Errorf("script module %q already provided by %q", module, existing.Source)
	}

	data, err := s.fs.DownloadWithURL(ctx, location)
	if err != nil {
		return fmt.Errorf("fetch script %q: %w", location, err)
	}

	dir, err := s.workDir()
	if err != nil {
		return err
	}
	local := filepath.Join(dir, module+scriptExt(location))
	if err := os.WriteFile(local, data, 0o644); err != nil {
		return fmt.Errorf("materialise script %q: %w", location, err)
	}

	callables := ParseCallables(module, data)
	entry := &Module{
		Name:      module,
		Source:    location,
		Path:      local,
		callables: make(map[string]*Callable, len(callables)),
	}
	for _, c := range callables {
		c.Source = location
		c.Path = local
		entry.callables[c.Function] = c
	}

	s.mux.Lock()
	defer s.mux.Unlock()
	if current, ok := s.modules[module]; ok && current.Source != location {
		return fmt.Errorf("script module %q already provided by %q", module, current.Source)
	}
	s.modules[module] = entry
	return nil
}

// Resolve maps an import path onto an indexed callable.
func (s *Store) Resolve(importPath ImportPath) (*Callable, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()
	module, ok := s.modules[importPath.Module()]
	if !ok {
		return nil, fmt.Errorf("unresolved import path %q: no fetched script provides module %q",
			importPath, importPath.Module())
	}
	callable, ok := module.callables[importPath.Function()]
	if !ok {
		return nil, fmt.Errorf("unresolved import path %q: module %q exposes no callable %q",
			importPath, importPath.Module(), importPath.Function())
	}
	return callable, nil
}

// Modules returns the indexed modules sorted by name.
func (s *Store) Modules() []*Module {
	s.mux.RLock()
	defer s.mux.RUnlock()
	out := make([]*Module, 0, len(s.modules))
	for _, m := range s.modules {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *Store) workDir() (string, error) {
	s.mux.Lock()
	defer s.mux.Unlock()
	if s.dir != "" {
		if err := os.MkdirAll(s.dir, 0o755); err != nil {
			return "", fmt.Errorf("create script dir %q: %w", s.dir, err)
		}
		return s.dir, nil
	}
	dir, err := os.MkdirTemp("", "scriptling-")
	if err != nil {
		return "", fmt.Errorf("create script dir: %w", err)
	}
	s.dir = dir
	return dir, nil
}

// ModuleName derives the module identifier from a script location: the file
// stem of the URL path, e.g. "https://host/x/analysis.py" -> "analysis".
func ModuleName(location string) (string, error) {
	raw := location
	if strings.Contains(location, "://") {
		u, err := url.Parse(location)
		if err != nil {
			return "", fmt.Errorf("malformed script URL %q: %w", location, err)
		}
		raw = u.Path
	}
	base := path.Base(strings.ReplaceAll(raw, "\\", "/"))
	stem := strings.TrimSuffix(base, path.Ext(base))
	if !isIdentifier(stem) {
		return "", fmt.Errorf("script %q: file stem %q is not a valid module name", location, stem)
	}
	return stem, nil
}

func scriptExt(location string) string {
	raw := location
	if strings.Contains(location, "://") {
		if u, err := url.Parse(location); err == nil {
			raw = u.Path
		}
	}
	if ext := path.Ext(raw); ext != "" {
		return ext
	}
	return ".py"
}

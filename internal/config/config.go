// Package config loads router definitions from YAML, JSON or TOML files.
// Hooks and handlers are referenced by ID and resolved at runtime by a
// registry-backed action runner.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/comalice/staterouter/internal/core"
	"github.com/comalice/staterouter/internal/extensibility"
	"github.com/comalice/staterouter/internal/primitives"
)

// Format is a config file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

var validate = validator.New()

// ErrUnknownFormat is returned for file extensions Load does not recognize.
var ErrUnknownFormat = errors.New("unknown config format")

// File is the on-disk router definition.
type File struct {
	ID           string         `yaml:"id" json:"id" toml:"id" validate:"omitempty,excludesall=/"`
	Version      string         `yaml:"version,omitempty" json:"version,omitempty" toml:"version"`
	InitialPath  string         `yaml:"initialPath,omitempty" json:"initialPath,omitempty" toml:"initial_path" validate:"omitempty,startswith=/"`
	MaxRedirects int            `yaml:"maxRedirects,omitempty" json:"maxRedirects,omitempty" toml:"max_redirects" validate:"omitempty,min=1,max=64"`
	Location     LocationConfig `yaml:"location,omitempty" json:"location,omitempty" toml:"location"`
	Root         State          `yaml:"root" json:"root" toml:"root" validate:"required"`
}

// LocationConfig selects the host Location.
type LocationConfig struct {
	Kind   string `yaml:"kind,omitempty" json:"kind,omitempty" toml:"kind" validate:"omitempty,oneof=hash history memory"`
	Prefix string `yaml:"prefix,omitempty" json:"prefix,omitempty" toml:"prefix"`
}

// Build creates the configured Location. The default is an in-memory
// location.
func (l LocationConfig) Build() core.Location {
	switch l.Kind {
	case "hash":
		return extensibility.NewHashLocation(l.Prefix)
	case "history":
		return extensibility.NewHistoryLocation(l.Prefix)
	default:
		return extensibility.NewMemoryLocation()
	}
}

// State is one node of the on-disk tree. On maps events to targets;
// Handlers maps events to registered handler IDs. An event listed in both
// keeps its target for introspection but dispatches to the handler.
type State struct {
	Name        string            `yaml:"name" json:"name" toml:"name" validate:"required,excludesall=."`
	Route       string            `yaml:"route,omitempty" json:"route,omitempty" toml:"route"`
	Initial     string            `yaml:"initial,omitempty" json:"initial,omitempty" toml:"initial"`
	RedirectsTo string            `yaml:"redirectsTo,omitempty" json:"redirectsTo,omitempty" toml:"redirects_to"`
	On          map[string]string `yaml:"on,omitempty" json:"on,omitempty" toml:"on"`
	Handlers    map[string]string `yaml:"handlers,omitempty" json:"handlers,omitempty" toml:"handlers"`
	Enter       []string          `yaml:"enter,omitempty" json:"enter,omitempty" toml:"enter" validate:"dive,required"`
	Exit        []string          `yaml:"exit,omitempty" json:"exit,omitempty" toml:"exit" validate:"dive,required"`
	Children    []State           `yaml:"children,omitempty" json:"children,omitempty" toml:"children" validate:"dive"`
}

// FormatOf infers the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// Load reads, decodes and validates a config file.
func Load(path string) (*File, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	f, err := Decode(bytes.NewReader(data), format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Decode decodes and validates a config in the given format.
func Decode(r io.Reader, format Format) (*File, error) {
	var f File
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("yaml decode: %w", err)
		}
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("json decode: %w", err)
		}
	case FormatTOML:
		md, err := toml.NewDecoder(r).Decode(&f)
		if err != nil {
			return nil, fmt.Errorf("toml decode: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("toml decode: unknown keys %v", undecoded)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks field constraints and the structure of the resulting tree.
func (f *File) Validate() error {
	if err := validate.Struct(f); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	cfg := f.RouterConfig()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("router validation: %w", err)
	}
	return nil
}

// RouterConfig converts the file into a router configuration. Hook and
// handler IDs are carried as strings.
func (f *File) RouterConfig() primitives.RouterConfig {
	return primitives.RouterConfig{
		ID:          f.ID,
		Version:     f.Version,
		InitialPath: f.InitialPath,
		Root:        f.Root.stateConfig(),
	}
}

func (s State) stateConfig() *primitives.StateConfig {
	sc := primitives.NewStateConfig(s.Name, s.Route).
		WithInitial(s.Initial).
		WithRedirect(s.RedirectsTo)
	for event, target := range s.On {
		sc.AddTransition(event, primitives.TransitionConfig{Target: target})
	}
	for event, handler := range s.Handlers {
		trans := sc.On[event]
		trans.Handler = handler
		sc.AddTransition(event, trans)
	}
	for _, id := range s.Enter {
		sc.AddEntry(id)
	}
	for _, id := range s.Exit {
		sc.AddExit(id)
	}
	for _, child := range s.Children {
		sc.AddChild(child.stateConfig())
	}
	return sc
}

// HookIDs returns every hook and handler ID referenced by the file.
func (f *File) HookIDs() (hooks, handlers []string) {
	seenHook, seenHandler := map[string]bool{}, map[string]bool{}
	var walk func(s State)
	walk = func(s State) {
		for _, id := range append(append([]string{}, s.Enter...), s.Exit...) {
			if !seenHook[id] {
				seenHook[id] = true
				hooks = append(hooks, id)
			}
		}
		for _, id := range s.Handlers {
			if !seenHandler[id] {
				seenHandler[id] = true
				handlers = append(handlers, id)
			}
		}
		for _, c := range s.Children {
			walk(c)
		}
	}
	walk(f.Root)
	sort.Strings(hooks)
	sort.Strings(handlers)
	return hooks, handlers
}

// Resolver reports which IDs are registered.
type Resolver interface {
	HasHook(id string) bool
	HasHandler(id string) bool
}

// CheckIDs verifies that every referenced hook and handler is registered.
func (f *File) CheckIDs(r Resolver) error {
	hooks, handlers := f.HookIDs()
	var errs []error
	for _, id := range hooks {
		if !r.HasHook(id) {
			errs = append(errs, fmt.Errorf("hook %q not registered", id))
		}
	}
	for _, id := range handlers {
		if !r.HasHandler(id) {
			errs = append(errs, fmt.Errorf("handler %q not registered", id))
		}
	}
	return errors.Join(errs...)
}

package sources

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Package sources contains pluggable hot-list source configs (YAML/JSON) and
// the per-platform parsers behind them.

// Config describes one source entry. Entries are tried in file order within
// a platform.
type Config struct {
	ID       string            `json:"id" yaml:"id"`
	Platform string            `json:"platform" yaml:"platform"`
	Type     string            `json:"type" yaml:"type"`
	URL      string            `json:"url" yaml:"url"`
	Params   map[string]string `json:"params" yaml:"params"`
	Headers  map[string]string `json:"headers" yaml:"headers"`
	Default  bool              `json:"default" yaml:"default"`
	Enabled  *bool             `json:"enabled" yaml:"enabled"`
}

type configFile struct {
	Sources []Config `json:"sources" yaml:"sources"`
}

// Registry holds the ordered sources of every configured platform.
type Registry struct {
	mu         sync.RWMutex
	configs    map[string][]Config
	byPlatform map[string][]Source
	defaults   map[string]Source
}

// Options customizes how a Registry builds its sources.
type Options struct {
	Client  HTTPClient
	Parsers ParserRegistry
	Now     func() time.Time
}

// LoadRegistry loads sources from a YAML/JSON file. An empty path selects the
// built-in source table.
func LoadRegistry(path string, opts Options) (*Registry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return NewRegistry(BuiltinConfigs(), opts)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sources file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read sources file: %w", err)
	}

	cf, err := parseSourcesFile(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(cf.Sources) == 0 {
		return nil, errors.New("sources file contains no sources entries")
	}

	return NewRegistry(cf.Sources, opts)
}

// NewRegistry validates cfgs and builds a Source for every enabled entry.
func NewRegistry(cfgs []Config, opts Options) (*Registry, error) {
	if opts.Client == nil {
		opts.Client = DefaultHTTPClient()
	}
	if opts.Parsers == nil {
		opts.Parsers = DefaultParsers()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	reg := &Registry{
		configs:    make(map[string][]Config),
		byPlatform: make(map[string][]Source),
		defaults:   make(map[string]Source),
	}

	seen := make(map[string]struct{}, len(cfgs))
	for i := range cfgs {
		cfg, err := sanitizeConfig(cfgs[i])
		if err != nil {
			return nil, fmt.Errorf("sources[%d]: %w", i, err)
		}
		key := cfg.Platform + "/" + cfg.ID
		if _, exists := seen[key]; exists {
			return nil, fmt.Errorf("duplicate source id %q for platform %q", cfg.ID, cfg.Platform)
		}
		seen[key] = struct{}{}

		parser, err := opts.Parsers.ParserFor(cfg.Type)
		if err != nil {
			return nil, fmt.Errorf("source %s/%s: %w", cfg.Platform, cfg.ID, err)
		}

		reg.configs[cfg.Platform] = append(reg.configs[cfg.Platform], cfg)
		if !cfg.EnabledValue() {
			continue
		}

		src := newHTTPSource(cfg, opts.Client, parser, opts.Now)
		reg.byPlatform[cfg.Platform] = append(reg.byPlatform[cfg.Platform], src)
		if cfg.Default {
			if _, ok := reg.defaults[cfg.Platform]; !ok {
				reg.defaults[cfg.Platform] = src
			}
		}
	}

	return reg, nil
}

// Resolve returns the sources to try for platform, in order.
// An auto selector yields every enabled source; a known source name yields just
// that source; an unknown name falls back to the platform's default source.
func (r *Registry) Resolve(platform, selector string) ([]Source, error) {
	if r == nil {
		return nil, fmt.Errorf("sources registry is nil")
	}
	canonical, ok := NormalizePlatform(platform)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedPlatform, platform)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	all := r.byPlatform[canonical]
	if len(all) == 0 {
		return nil, nil
	}
	if IsAuto(selector) {
		out := make([]Source, len(all))
		copy(out, all)
		return out, nil
	}

	name := strings.ToLower(strings.TrimSpace(selector))
	for _, src := range all {
		if src.Name() == name {
			return []Source{src}, nil
		}
	}
	if def, ok := r.defaults[canonical]; ok {
		return []Source{def}, nil
	}
	return []Source{all[0]}, nil
}

// Configs returns the configured entries (enabled or not) for platform.
func (r *Registry) Configs(platform string) ([]Config, error) {
	if r == nil {
		return nil, fmt.Errorf("sources registry is nil")
	}
	canonical, ok := NormalizePlatform(platform)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedPlatform, platform)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Config, len(r.configs[canonical]))
	copy(out, r.configs[canonical])
	return out, nil
}

func parseSourcesFile(data []byte, ext string) (configFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   unmarshalFn
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		if cf, err := unmarshalSourcesFile(d.name, data, d.fn); err == nil {
			return cf, nil
		}
	}

	return configFile{}, errors.New("sources file format not recognized (expected YAML or JSON)")
}

type unmarshalFn func([]byte, any) error

func unmarshalSourcesFile(name string, data []byte, fn unmarshalFn) (configFile, error) {
	var cf configFile
	if err := fn(data, &cf); err != nil {
		return configFile{}, fmt.Errorf("decode %s sources: %w", name, err)
	}
	return cf, nil
}

func sanitizeConfig(cfg Config) (Config, error) {
	cfg.ID = strings.ToLower(strings.TrimSpace(cfg.ID))
	cfg.Type = strings.ToLower(strings.TrimSpace(cfg.Type))
	cfg.URL = strings.TrimSpace(cfg.URL)

	if cfg.ID == "" {
		return cfg, errors.New("id is required")
	}
	platform, ok := NormalizePlatform(cfg.Platform)
	if !ok {
		return cfg, fmt.Errorf("source %q: %w: %q", cfg.ID, ErrUnsupportedPlatform, cfg.Platform)
	}
	cfg.Platform = platform
	if cfg.Type == "" {
		return cfg, fmt.Errorf("type is required for source %q", cfg.ID)
	}
	if cfg.URL == "" {
		return cfg, fmt.Errorf("url is required for source %q", cfg.ID)
	}

	return cfg, nil
}

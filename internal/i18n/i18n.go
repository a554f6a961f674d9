// Package i18n resolves message keys to display strings.
//
// Lookup falls back from the requested locale to the default locale and then
// to the key itself, so every key renders as something.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFS embed.FS

// Table maps message keys to strings for one locale.
type Table map[string]string

type Resolver struct {
	tables   map[string]Table
	selected string
	fallback string
}

// Load reads the embedded locale tables.
func Load(selected, fallback string) (*Resolver, error) {
	tables, err := readTables(localeFS, "locales")
	if err != nil {
		return nil, err
	}
	return NewResolver(tables, selected, fallback)
}

// NewResolver builds a resolver over the given tables. Both locales must be
// present in tables.
func NewResolver(tables map[string]Table, selected, fallback string) (*Resolver, error) {
	if _, ok := tables[fallback]; !ok {
		return nil, fmt.Errorf("fallback locale %q is not available", fallback)
	}
	if _, ok := tables[selected]; !ok {
		return nil, fmt.Errorf("locale %q is not available", selected)
	}
	return &Resolver{tables: tables, selected: selected, fallback: fallback}, nil
}

// T resolves key in the selected locale.
func (r *Resolver) T(key string) string {
	return r.Lookup(r.selected, key)
}

// Lookup resolves key in locale, then the fallback locale, then returns key.
// An unknown locale behaves like the selected one.
func (r *Resolver) Lookup(locale, key string) string {
	if _, ok := r.tables[locale]; !ok {
		locale = r.selected
	}
	if s, ok := r.tables[locale][key]; ok && s != "" {
		return s
	}
	if s, ok := r.tables[r.fallback][key]; ok && s != "" {
		return s
	}
	return key
}

// Locale returns the selected locale.
func (r *Resolver) Locale() string {
	return r.selected
}

// Supports reports whether a table exists for locale.
func (r *Resolver) Supports(locale string) bool {
	_, ok := r.tables[locale]
	return ok
}

// Locales lists the available locales.
func (r *Resolver) Locales() []string {
	out := make([]string, 0, len(r.tables))
	for name := range r.tables {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func readTables(fsys fs.FS, dir string) (map[string]Table, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list locales: %w", err)
	}

	tables := make(map[string]Table, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".yaml" {
			continue
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read locale %s: %w", entry.Name(), err)
		}
		var table Table
		if err := yaml.Unmarshal(data, &table); err != nil {
			return nil, fmt.Errorf("failed to parse locale %s: %w", entry.Name(), err)
		}
		tables[strings.TrimSuffix(entry.Name(), ".yaml")] = table
	}
	return tables, nil
}

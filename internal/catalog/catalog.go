// Package catalog loads the list of card sets from sets.toml.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/arcanaland/holocron/internal/card"
)

//go:embed sets.toml
var defaultSets []byte

// Catalog holds the known sets, ordered by set number.
type Catalog struct {
	Sets []card.Set
	Path string

	byID map[string]*card.Set
}

type catalogFile struct {
	Sets []card.Set `toml:"sets"`
}

// Load reads a sets.toml file.
func Load(path string) (*Catalog, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("sets.toml not found at %s", path)
	}

	var file catalogFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("error parsing sets.toml: %w", err)
	}
	c, err := build(file.Sets)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	c.Path = path
	return c, nil
}

// LoadOrDefault reads path if it exists, otherwise the built-in catalog.
func LoadOrDefault(path string) (*Catalog, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

// Default returns the built-in catalog.
func Default() *Catalog {
	var file catalogFile
	if _, err := toml.Decode(string(defaultSets), &file); err != nil {
		panic(fmt.Sprintf("embedded sets.toml: %v", err))
	}
	c, err := build(file.Sets)
	if err != nil {
		panic(fmt.Sprintf("embedded sets.toml: %v", err))
	}
	return c
}

// WriteDefault writes the built-in catalog to path.
func WriteDefault(path string) error {
	return os.WriteFile(path, defaultSets, 0644)
}

func build(sets []card.Set) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]*card.Set, len(sets))}
	c.Sets = append(c.Sets, sets...)
	sort.SliceStable(c.Sets, func(i, j int) bool { return c.Sets[i].Number < c.Sets[j].Number })

	for i := range c.Sets {
		s := &c.Sets[i]
		if s.ID == "" {
			return nil, fmt.Errorf("set #%d has no id", i+1)
		}
		if s.Name == "" {
			return nil, fmt.Errorf("set %s has no name", s.ID)
		}
		if _, dup := c.byID[s.ID]; dup {
			return nil, fmt.Errorf("duplicate set id: %s", s.ID)
		}
		c.byID[s.ID] = s
	}
	return c, nil
}

// Get looks up a set by id.
func (c *Catalog) Get(id string) (*card.Set, error) {
	s, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("set not found: %s", id)
	}
	return s, nil
}

// Has reports whether id is a known set.
func (c *Catalog) Has(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// IDs returns the set ids in catalog order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.Sets))
	for i, s := range c.Sets {
		ids[i] = s.ID
	}
	return ids
}

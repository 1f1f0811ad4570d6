// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TechBuddy Contributors

// Package tutorial serves the static tutorial catalog, embedded as YAML
// and decoded once at startup.
package tutorial

import (
	_ "embed"
	"sort"

	"gopkg.in/yaml.v3"

	tberr "github.com/techbuddy-dev/techbuddy/pkg/errors"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Tutorial is one guided lesson in the catalog.
type Tutorial struct {
	ID          string   `json:"id" yaml:"-"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Difficulty  string   `json:"difficulty" yaml:"difficulty"`
	Duration    string   `json:"duration" yaml:"duration"`
	Steps       []string `json:"steps" yaml:"steps"`
	Tips        []string `json:"tips" yaml:"tips"`
}

// Catalog is the immutable tutorial set.
type Catalog struct {
	byID  map[string]Tutorial
	order []string
}

// LoadCatalog decodes the embedded catalog.
func LoadCatalog() (*Catalog, error) {
	return parseCatalog(catalogYAML)
}

func parseCatalog(raw []byte) (*Catalog, error) {
	var decoded map[string]Tutorial
	if err := yaml.Unmarshal(raw, &decoded); err != nil {
		return nil, tberr.Wrapf(err, tberr.CodeTutorialCatalogInvalid, "decoding tutorial catalog")
	}
	if len(decoded) == 0 {
		return nil, tberr.New(tberr.CodeTutorialCatalogInvalid, "tutorial catalog is empty")
	}

	byID := make(map[string]Tutorial, len(decoded))
	order := make([]string, 0, len(decoded))
	for id, t := range decoded {
		t.ID = id
		byID[id] = t
		order = append(order, id)
	}
	sort.Strings(order)

	return &Catalog{byID: byID, order: order}, nil
}

// List returns all tutorials in stable (ID-sorted) order.
func (c *Catalog) List() []Tutorial {
	out := make([]Tutorial, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// Get returns the tutorial with the given ID.
func (c *Catalog) Get(id string) (Tutorial, error) {
	t, ok := c.byID[id]
	if !ok {
		return Tutorial{}, tberr.Errorf(tberr.CodeTutorialNotFound, "tutorial %q not found", id)
	}
	return t, nil
}

// Len returns the catalog size.
func (c *Catalog) Len() int {
	return len(c.byID)
}

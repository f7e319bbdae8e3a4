package catalog

import (
	"context"
	_ "embed"
	"fmt"
	"log"
	"strings"

	"github.com/gosimple/slug"
	"gopkg.in/yaml.v3"

	"vocab-pet-engine/engine"
)

//go:embed catalog.yaml
var embedded []byte

// Fetcher downloads a catalog document from object storage.
type Fetcher interface {
	Fetch(ctx context.Context, key string) ([]byte, error)
}

// Default parses the catalog compiled into the binary.
func Default() (*engine.Catalog, error) {
	return Parse(embedded)
}

// Load returns the catalog stored under key when a fetcher is configured, and the
// embedded one otherwise. A configured override that cannot be read or parsed is an error.
func Load(ctx context.Context, f Fetcher, key string) (*engine.Catalog, error) {
	if f == nil || key == "" {
		log.Println("📦 [CATALOG] Using embedded catalog")
		return Default()
	}
	data, err := f.Fetch(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog override: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse catalog override %s: %w", key, err)
	}
	log.Printf("📦 [CATALOG] Loaded override %s (%d species, %d shop items)", key, len(c.Species), len(c.Shop))
	return c, nil
}

// Parse decodes a YAML catalog, fills missing ids from names and validates it.
func Parse(data []byte) (*engine.Catalog, error) {
	var c engine.Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := assignIDs(&c); err != nil {
		return nil, err
	}
	if err := c.Prepare(); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	if err := checkReferences(&c); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return &c, nil
}

// ID turns a display name into a catalog id, e.g. "Lucky Hat" -> "lucky_hat".
func ID(name string) string {
	return strings.ReplaceAll(slug.Make(name), "-", "_")
}

func assignIDs(c *engine.Catalog) error {
	fill := func(kind string, id *string, name string) error {
		if *id != "" {
			return nil
		}
		if name == "" {
			return fmt.Errorf("%s entry has neither id nor name", kind)
		}
		*id = ID(name)
		return nil
	}

	for i := range c.Species {
		if err := fill("species", &c.Species[i].ID, c.Species[i].Name); err != nil {
			return err
		}
	}
	for i := range c.Shop {
		if err := fill("shop", &c.Shop[i].ID, c.Shop[i].Name); err != nil {
			return err
		}
	}
	for i := range c.Chests {
		if err := fill("chest", &c.Chests[i].ID, c.Chests[i].Name); err != nil {
			return err
		}
	}
	for i := range c.Stickers {
		if err := fill("sticker", &c.Stickers[i].ID, c.Stickers[i].Name); err != nil {
			return err
		}
	}
	for i := range c.Titles {
		if err := fill("title", &c.Titles[i].ID, c.Titles[i].Name); err != nil {
			return err
		}
	}
	for i := range c.Badges {
		if err := fill("badge", &c.Badges[i].Code, c.Badges[i].Name); err != nil {
			return err
		}
	}
	return nil
}

func checkReferences(c *engine.Catalog) error {
	titles := make(map[string]bool, len(c.Titles))
	for _, t := range c.Titles {
		titles[t.ID] = true
	}
	for _, b := range c.Badges {
		if b.Title != "" && !titles[b.Title] {
			return fmt.Errorf("badge %s grants unknown title %s", b.Code, b.Title)
		}
	}
	for _, e := range c.Wheel {
		if e.Type == engine.RewardChest {
			if _, ok := c.Chest(e.Chest); !ok {
				return fmt.Errorf("wheel segment references unknown chest %s", e.Chest)
			}
		}
	}
	for _, item := range c.Shop {
		if item.Kind == engine.ItemEquipment && item.Slot == "" {
			return fmt.Errorf("equipment %s has no slot", item.ID)
		}
	}
	return nil
}

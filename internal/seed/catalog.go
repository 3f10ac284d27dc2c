// Package seed provides the built-in content catalog and demo-data helpers
// for development and testing.
package seed

import (
	_ "embed"
	"fmt"

	"trove/internal/models"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

type catalogFile struct {
	Categories []struct {
		Name        string `yaml:"name"`
		Slug        string `yaml:"slug"`
		Description string `yaml:"description"`
		Icon        string `yaml:"icon"`
	} `yaml:"categories"`
	Achievements []struct {
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
		Icon        string `yaml:"icon"`
		Points      int    `yaml:"points"`
	} `yaml:"achievements"`
}

// Catalog is the built-in seed content: the default forum categories and the
// achievement definitions every fresh store starts with.
type Catalog struct {
	Categories   []models.Category
	Achievements []models.Achievement
}

// LoadCatalog parses the embedded catalog. The records carry no IDs or
// timestamps; the store assigns those on insert.
func LoadCatalog() (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(catalogYAML, &f); err != nil {
		return nil, fmt.Errorf("parse embedded catalog: %w", err)
	}

	c := &Catalog{}
	for _, e := range f.Categories {
		c.Categories = append(c.Categories, models.Category{
			Name:        e.Name,
			Slug:        e.Slug,
			Description: e.Description,
			Icon:        e.Icon,
		})
	}
	for _, e := range f.Achievements {
		c.Achievements = append(c.Achievements, models.Achievement{
			Name:        e.Name,
			Description: e.Description,
			Icon:        e.Icon,
			Points:      e.Points,
		})
	}
	return c, nil
}

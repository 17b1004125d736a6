package notes

import (
	"os"

	"gopkg.in/yaml.v3"

	errs "github.com/lcgerke/gitflow/internal/errors"
)

// Category buckets commits for the release notes
type Category string

const (
	CategoryBreaking Category = "breaking"
	CategoryFeature  Category = "feature"
	CategoryFix      Category = "fix"
	CategoryDocs     Category = "docs"
	CategoryChore    Category = "chore"
	CategoryOther    Category = "other"
)

// sectionOrder fixes the order sections appear in the rendered document
var sectionOrder = []Category{
	CategoryBreaking,
	CategoryFeature,
	CategoryFix,
	CategoryDocs,
	CategoryChore,
	CategoryOther,
}

// CategoryConfig describes one category of the manifest
type CategoryConfig struct {
	Category Category `yaml:"category"`
	Title    string   `yaml:"title"`
	Labels   []string `yaml:"labels"`
	Keywords []string `yaml:"keywords"`
}

// Config controls commit categorization
type Config struct {
	// MinConventional is the minimum number of conventionally formatted
	// commits required before notes are generated at all. Below it the
	// generator yields an empty string so the caller can fall back to the
	// platform's auto-generated notes.
	MinConventional int              `yaml:"minimum_conventional_commits"`
	SmartCategorize bool             `yaml:"smart_categorization"`
	Categories      []CategoryConfig `yaml:"categories"`
}

// DefaultConfig returns the categorization shipped with a fresh repository
func DefaultConfig() Config {
	return Config{
		MinConventional: 2,
		SmartCategorize: true,
		Categories: []CategoryConfig{
			{
				Category: CategoryBreaking,
				Title:    "Breaking Changes",
				Labels:   []string{"breaking", "breaking-change"},
				Keywords: []string{"breaking"},
			},
			{
				Category: CategoryFeature,
				Title:    "New Features",
				Labels:   []string{"feature", "enhancement"},
				Keywords: []string{"add", "implement", "support", "introduce"},
			},
			{
				Category: CategoryFix,
				Title:    "Bug Fixes",
				Labels:   []string{"bug", "fix"},
				Keywords: []string{"fix", "correct", "repair", "resolve"},
			},
			{
				Category: CategoryDocs,
				Title:    "Documentation",
				Labels:   []string{"documentation"},
				Keywords: []string{"doc", "docs", "readme"},
			},
			{
				Category: CategoryChore,
				Title:    "Chores",
				Labels:   []string{"chore", "dependencies"},
				Keywords: []string{"chore", "bump", "deps", "upgrade", "cleanup"},
			},
			{
				Category: CategoryOther,
				Title:    "Other Changes",
			},
		},
	}
}

// title returns the rendered section title for a category
func (c Config) title(category Category) string {
	for _, entry := range c.Categories {
		if entry.Category == category {
			return entry.Title
		}
	}
	return string(category)
}

// keywords returns the keyword list for a category
func (c Config) keywords(category Category) []string {
	for _, entry := range c.Categories {
		if entry.Category == category {
			return entry.Keywords
		}
	}
	return nil
}

// LoadConfig reads a categorization manifest, falling back to the default
// configuration when the file does not exist.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return Config{}, errs.ConfigRead(path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errs.ConfigRead(path, err)
	}
	return cfg, nil
}

// WriteDefaultManifest writes the default manifest to path unless a file
// already exists there.
func WriteDefaultManifest(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return errs.ConfigWrite(path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errs.ConfigWrite(path, err)
	}
	return nil
}

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// SiteEnvPrefix prefixes environment overrides of the site config.
// Nested keys use a double underscore: TOPPERS_DISPLAY__QUESTIONS_PER_PAGE.
const SiteEnvPrefix = "TOPPERS_"

// SiteConfig describes the site and the chapter it serves.
type SiteConfig struct {
	Site    SiteInfo      `yaml:"site" koanf:"site" json:"site"`
	Chapter ChapterInfo   `yaml:"chapter" koanf:"chapter" json:"chapter"`
	Display DisplayConfig `yaml:"display" koanf:"display" json:"display"`
	Filters FilterConfig  `yaml:"filters" koanf:"filters" json:"filters"`
}

// SiteInfo is the branding shown in the header and footer.
type SiteInfo struct {
	Name    string `yaml:"name" koanf:"name" json:"name"`
	Tagline string `yaml:"tagline" koanf:"tagline" json:"tagline"`
	// Description is Markdown.
	Description string `yaml:"description" koanf:"description" json:"description"`
	Author      string `yaml:"author" koanf:"author" json:"author"`
	URL         string `yaml:"url" koanf:"url" json:"url"`
}

// ChapterInfo describes the chapter and where its questions live.
type ChapterInfo struct {
	Title    string `yaml:"title" koanf:"title" json:"title"`
	Subtitle string `yaml:"subtitle" koanf:"subtitle" json:"subtitle"`
	Subject  string `yaml:"subject" koanf:"subject" json:"subject"`
	Class    string `yaml:"class" koanf:"class" json:"class"`
	Icon     string `yaml:"icon" koanf:"icon" json:"icon"`
	Badge    string `yaml:"badge" koanf:"badge" json:"badge"`
	// DataFile is a local path or an http(s) URL.
	DataFile string `yaml:"data_file" koanf:"data_file" json:"data_file"`
}

// DisplayConfig controls paging and the interactive features.
type DisplayConfig struct {
	QuestionsPerPage         int    `yaml:"questions_per_page" koanf:"questions_per_page" json:"questions_per_page"`
	DefaultTheme             string `yaml:"default_theme" koanf:"default_theme" json:"default_theme"`
	EnableDarkMode           bool   `yaml:"enable_dark_mode" koanf:"enable_dark_mode" json:"enable_dark_mode"`
	EnableImageModal         bool   `yaml:"enable_image_modal" koanf:"enable_image_modal" json:"enable_image_modal"`
	EnableKeyboardNavigation bool   `yaml:"enable_keyboard_navigation" koanf:"enable_keyboard_navigation" json:"enable_keyboard_navigation"`
}

// FilterConfig controls search and the filter selectors.
type FilterConfig struct {
	SearchDebounceMS       int      `yaml:"search_debounce_ms" koanf:"search_debounce_ms" json:"search_debounce_ms"`
	EnableDifficultyFilter bool     `yaml:"enable_difficulty_filter" koanf:"enable_difficulty_filter" json:"enable_difficulty_filter"`
	EnableTypeFilter       bool     `yaml:"enable_type_filter" koanf:"enable_type_filter" json:"enable_type_filter"`
	EnableTagFilter        bool     `yaml:"enable_tag_filter" koanf:"enable_tag_filter" json:"enable_tag_filter"`
	Difficulties           []Option `yaml:"difficulties" koanf:"difficulties" json:"difficulties"`
	Types                  []Option `yaml:"types" koanf:"types" json:"types"`
}

// Option is one entry of a filter selector.
type Option struct {
	Value string `yaml:"value" koanf:"value" json:"value"`
	Label string `yaml:"label" koanf:"label" json:"label"`
}

// DefaultSiteConfig returns the configuration of the Electric Current chapter.
func DefaultSiteConfig() *SiteConfig {
	return &SiteConfig{
		Site: SiteInfo{
			Name:        "SimplifiedMinds",
			Tagline:     "SSLC Physics",
			Description: "Helping SSLC students master concepts through **simplified explanations**, interactive learning materials, and comprehensive question banks.",
			Author:      "SimplifiedMinds Team",
			URL:         "https://sslctoppers.com",
		},
		Chapter: ChapterInfo{
			Title:    "Master Electric Current Concepts",
			Subtitle: "Comprehensive solutions, step-by-step examples, and practice questions to help you excel in your SSLC Physics examinations.",
			Subject:  "Physics",
			Class:    "SSLC",
			Icon:     "ri-flashlight-line",
			Badge:    "SSLC Physics",
			DataFile: "data/electric-current.json",
		},
		Display: DisplayConfig{
			QuestionsPerPage:         5,
			DefaultTheme:             "dark",
			EnableDarkMode:           true,
			EnableImageModal:         true,
			EnableKeyboardNavigation: true,
		},
		Filters: FilterConfig{
			SearchDebounceMS:       300,
			EnableDifficultyFilter: true,
			EnableTypeFilter:       true,
			EnableTagFilter:        true,
			Difficulties: []Option{
				{Value: "all", Label: "All Difficulty"},
				{Value: "easy", Label: "Easy"},
				{Value: "medium", Label: "Medium"},
				{Value: "hard", Label: "Hard"},
			},
			Types: []Option{
				{Value: "all", Label: "All Types"},
				{Value: "numerical", Label: "Numerical"},
				{Value: "conceptual", Label: "Conceptual"},
				{Value: "derivation", Label: "Derivation"},
			},
		},
	}
}

// LoadSite reads the site configuration from the given YAML file, then
// overlays TOPPERS_* environment overrides. A missing file yields defaults.
func LoadSite(path string) (*SiteConfig, error) {
	k := koanf.New(".")

	cfg := DefaultSiteConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading site config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing site config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(SiteEnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, SiteEnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling site config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid site config: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *SiteConfig) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling site config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing site config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains usable values.
func (c *SiteConfig) Validate() error {
	if strings.TrimSpace(c.Site.Name) == "" {
		return fmt.Errorf("site.name is required")
	}
	if strings.TrimSpace(c.Chapter.Title) == "" {
		return fmt.Errorf("chapter.title is required")
	}
	if c.Display.QuestionsPerPage <= 0 {
		return fmt.Errorf("display.questions_per_page must be > 0")
	}
	if c.Filters.SearchDebounceMS < 0 {
		return fmt.Errorf("filters.search_debounce_ms must be non-negative")
	}
	switch c.Display.DefaultTheme {
	case "dark", "light":
	default:
		return fmt.Errorf("invalid display.default_theme %q: must be dark or light", c.Display.DefaultTheme)
	}
	for _, group := range [][]Option{c.Filters.Difficulties, c.Filters.Types} {
		for _, o := range group {
			if o.Value == "" {
				return fmt.Errorf("filter option %q has no value", o.Label)
			}
		}
	}
	return nil
}

// SearchDebounce returns the debounce delay as a duration.
func (c *SiteConfig) SearchDebounce() time.Duration {
	return time.Duration(c.Filters.SearchDebounceMS) * time.Millisecond
}

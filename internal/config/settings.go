package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/handiism/vocaloid-birthday/internal/filter"
	"github.com/handiism/vocaloid-birthday/internal/model"
)

// Settings holds all configuration options.
type Settings struct {
	// Search API settings
	Endpoint  string        `yaml:"endpoint"`
	Query     string        `yaml:"query"`
	Targets   string        `yaml:"targets"`
	Fields    []string      `yaml:"fields"`
	Sort      string        `yaml:"sort"`
	Context   string        `yaml:"context"`
	UserAgent string        `yaml:"user_agent"`
	Timeout   time.Duration `yaml:"timeout"`

	// Collection settings
	RequestDelay   time.Duration `yaml:"request_delay"`
	LimitPerDay    int           `yaml:"limit_per_day"`
	StartYear      int           `yaml:"start_year"`
	YearsAhead     int           `yaml:"years_ahead"`
	ExcludeTag     string        `yaml:"exclude_tag"`
	ValidationYear int           `yaml:"validation_year"`

	// Output settings
	OutputDir   string `yaml:"output_dir"`
	FileName    string `yaml:"file_name"`
	Description string `yaml:"description"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		Endpoint:  "https://snapshot.search.nicovideo.jp/api/v2/snapshot/video/contents/search",
		Query:     "VOCALOID",
		Targets:   "tagsExact",
		Fields:    []string{"contentId", "title", "startTime", "thumbnailUrl", "viewCounter", "lengthSeconds"},
		Sort:      "-viewCounter",
		Context:   "vocaloid_birthday_search",
		UserAgent: "vocaloid_birthday_search/1.0 (GitHub Actions)",
		Timeout:   30 * time.Second,

		RequestDelay:   500 * time.Millisecond,
		LimitPerDay:    50,
		StartYear:      filter.DefaultStartYear,
		YearsAhead:     1,
		ExcludeTag:     filter.DefaultExcludeTag,
		ValidationYear: 2024,

		OutputDir:   "data",
		FileName:    "vocaloid_birthday_songs.json",
		Description: model.DefaultDescription,
	}
}

// Load reads settings from a YAML file over the defaults.
//
// JSON is valid YAML, so JSON config files load as well. Keys missing from
// the file keep their default values. A missing file yields the defaults.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return settings, nil
}

// Save writes settings to a YAML file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks that the settings can drive a collection run.
func (s *Settings) Validate() error {
	var errs []error
	if strings.TrimSpace(s.Endpoint) == "" {
		errs = append(errs, errors.New("endpoint is empty"))
	}
	if s.LimitPerDay <= 0 {
		errs = append(errs, fmt.Errorf("limit_per_day must be positive, got %d", s.LimitPerDay))
	}
	if s.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive, got %s", s.Timeout))
	}
	if s.RequestDelay < 0 {
		errs = append(errs, fmt.Errorf("request_delay must not be negative, got %s", s.RequestDelay))
	}
	if s.YearsAhead < 0 {
		errs = append(errs, fmt.Errorf("years_ahead must not be negative, got %d", s.YearsAhead))
	}
	if s.StartYear > s.ToFilterBuilder().EndYear() {
		errs = append(errs, fmt.Errorf("start_year %d is after the last searched year", s.StartYear))
	}
	if s.FileName == "" {
		errs = append(errs, errors.New("file_name is empty"))
	}
	return errors.Join(errs...)
}

// OutputPath returns the snapshot file path.
func (s *Settings) OutputPath() string {
	return filepath.Join(s.OutputDir, s.FileName)
}

// ToFilterBuilder converts settings to a filter.Builder.
func (s *Settings) ToFilterBuilder() *filter.Builder {
	b := filter.NewBuilder()
	b.StartYear = s.StartYear
	b.YearsAhead = s.YearsAhead
	b.ExcludeTag = s.ExcludeTag
	return b
}

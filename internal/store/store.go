// Package store loads the category table and merchant mappings used by the categorizer.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/upi-ledger/internal/logging"
	"fjacquet/upi-ledger/internal/models"

	"gopkg.in/yaml.v3"
)

// CategoryStore reads categories and merchant mappings from a YAML file:
//
//	categories:
//	  - name: Food & Dining
//	    keywords: [swiggy, zomato, restaurant]
//	merchants:
//	  swiggy: Food & Dining
//
// With no file the built-in defaults are used. A file that lists categories
// replaces the default table; its merchants are merged over the defaults.
type CategoryStore struct {
	CategoriesFile string
	logger         logging.Logger
}

// NewCategoryStore creates a new store for category-related data
func NewCategoryStore(categoriesFile string, logger logging.Logger) *CategoryStore {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &CategoryStore{CategoriesFile: categoriesFile, logger: logger}
}

// FindConfigFile looks for a configuration file in standard locations
func (s *CategoryStore) FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
		filepath.Join("database", filename),
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(homeDir, ".config", "upi-ledger", filename))
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}
	return "", os.ErrNotExist
}

// readConfig returns nil when no categories file is configured or found.
func (s *CategoryStore) readConfig() (*models.CategoriesConfig, string, error) {
	if s.CategoriesFile == "" {
		return nil, "", nil
	}

	path, err := s.FindConfigFile(s.CategoriesFile)
	if err != nil {
		s.logger.Warn("Categories file not found, using defaults",
			logging.Field{Key: logging.FieldFile, Value: s.CategoriesFile})
		return nil, "", nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("error reading categories file: %w", err)
	}

	var cfg models.CategoriesConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		// A bare list of categories without the top-level key.
		var list []models.CategoryConfig
		if listErr := yaml.Unmarshal(data, &list); listErr != nil {
			return nil, path, fmt.Errorf("error parsing categories file %s: %w", path, err)
		}
		cfg.Categories = list
	}
	return &cfg, path, nil
}

// LoadCategories returns the category table. "Other" is appended when the
// file does not define it, so model answers always have a fallback.
func (s *CategoryStore) LoadCategories() ([]models.CategoryConfig, error) {
	cfg, path, err := s.readConfig()
	if err != nil {
		return nil, err
	}
	if cfg == nil || len(cfg.Categories) == 0 {
		return DefaultCategories(), nil
	}

	categories := make([]models.CategoryConfig, 0, len(cfg.Categories)+1)
	hasOther := false
	for _, c := range cfg.Categories {
		c.Name = strings.TrimSpace(c.Name)
		if c.Name == "" {
			return nil, fmt.Errorf("category without a name in %s", path)
		}
		if c.Name == models.CategoryOther {
			hasOther = true
		}
		categories = append(categories, c)
	}
	if !hasOther {
		categories = append(categories, models.CategoryConfig{Name: models.CategoryOther})
	}

	s.logger.Debug("Loaded categories",
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(categories)})
	return categories, nil
}

// LoadMerchantMappings returns the defaults overlaid with the file's merchants.
// An empty category in the file removes a default mapping.
func (s *CategoryStore) LoadMerchantMappings() (map[string]string, error) {
	mappings := DefaultMerchantMappings()

	cfg, path, err := s.readConfig()
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return mappings, nil
	}

	for merchant, category := range cfg.Merchants {
		key := strings.ToLower(strings.TrimSpace(merchant))
		if category == "" {
			delete(mappings, key)
			continue
		}
		mappings[key] = category
	}

	s.logger.Debug("Loaded merchant mappings",
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(mappings)})
	return mappings, nil
}

// SaveDefaults writes the built-in table to path, refusing to overwrite an existing file.
func SaveDefaults(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("refusing to overwrite %s", path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	data, err := yaml.Marshal(models.CategoriesConfig{
		Categories: DefaultCategories(),
		Merchants:  DefaultMerchantMappings(),
	})
	if err != nil {
		return fmt.Errorf("error marshaling categories: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, models.PermissionDirectory); err != nil {
			return fmt.Errorf("error creating directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, models.PermissionExport); err != nil {
		return fmt.Errorf("error writing categories file: %w", err)
	}
	return nil
}

package models

// CategoryConfig represents a category configuration in the YAML file
type CategoryConfig struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// CategoriesConfig represents the structure of the categories YAML file.
// Merchants maps a lower-case merchant fragment straight to a category name.
type CategoriesConfig struct {
	Categories []CategoryConfig `yaml:"categories"`
	Merchants  map[string]string `yaml:"merchants,omitempty"`
}

// CategoryProfile is a category with its precomputed embedding.
// Profiles are built once and only read afterwards.
type CategoryProfile struct {
	Name      string
	Keywords  []string
	Embedding []float32
}

package store

import (
	"os"
	"path/filepath"
	"testing"

	"fjacquet/upi-ledger/internal/logging"
	"fjacquet/upi-ledger/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "categories.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestDefaultCategories(t *testing.T) {
	categories := DefaultCategories()
	require.Len(t, categories, 13)
	assert.Equal(t, models.CategoryFoodDining, categories[0].Name)
	assert.Equal(t, models.CategoryOther, categories[12].Name)
	assert.Empty(t, categories[12].Keywords)

	names := make(map[string]bool)
	for _, c := range categories {
		names[c.Name] = true
	}
	for merchant, category := range DefaultMerchantMappings() {
		assert.True(t, names[category], "mapping %s points to unknown category %s", merchant, category)
	}
}

func TestLoadCategories_NoFileUsesDefaults(t *testing.T) {
	s := NewCategoryStore("", logging.NewMockLogger())

	categories, err := s.LoadCategories()
	require.NoError(t, err)
	assert.Equal(t, DefaultCategories(), categories)

	mappings, err := s.LoadMerchantMappings()
	require.NoError(t, err)
	assert.Equal(t, DefaultMerchantMappings(), mappings)
}

func TestLoadCategories_MissingFileWarns(t *testing.T) {
	logger := logging.NewMockLogger()
	s := NewCategoryStore(filepath.Join(t.TempDir(), "nope.yaml"), logger)

	categories, err := s.LoadCategories()
	require.NoError(t, err)
	assert.Len(t, categories, 13)
	assert.True(t, logger.HasEntry("WARN", "Categories file not found, using defaults"))
}

func TestLoadCategories_FromFile(t *testing.T) {
	path := writeFile(t, `
categories:
  - name: Pets
    keywords: [vet, "pet store"]
  - name: Rent
    keywords: [landlord]
merchants:
  Supertails: Pets
  netflix: ""
`)
	s := NewCategoryStore(path, logging.NewMockLogger())

	categories, err := s.LoadCategories()
	require.NoError(t, err)
	require.Len(t, categories, 3)
	assert.Equal(t, "Pets", categories[0].Name)
	assert.Equal(t, []string{"vet", "pet store"}, categories[0].Keywords)
	assert.Equal(t, models.CategoryOther, categories[2].Name)

	mappings, err := s.LoadMerchantMappings()
	require.NoError(t, err)
	assert.Equal(t, "Pets", mappings["supertails"])
	assert.NotContains(t, mappings, "netflix")
	assert.Equal(t, models.CategoryFoodDining, mappings["swiggy"])
}

func TestLoadCategories_BareList(t *testing.T) {
	path := writeFile(t, `
- name: Pets
  keywords: [vet]
- name: Other
`)
	categories, err := NewCategoryStore(path, nil).LoadCategories()
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Other", categories[1].Name)
}

func TestLoadCategories_Errors(t *testing.T) {
	_, err := NewCategoryStore(writeFile(t, "categories: [oops"), nil).LoadCategories()
	assert.Error(t, err)

	_, err = NewCategoryStore(writeFile(t, "categories:\n  - keywords: [x]\n"), nil).LoadCategories()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "category without a name")
}

func TestFindConfigFile(t *testing.T) {
	dir := t.TempDir()
	original, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(original) })

	require.NoError(t, os.MkdirAll("config", 0750))
	require.NoError(t, os.WriteFile(filepath.Join("config", "categories.yaml"), []byte("categories: []"), 0600))

	s := NewCategoryStore("categories.yaml", nil)
	path, err := s.FindConfigFile("categories.yaml")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("config", "categories.yaml"), path)

	_, err = s.FindConfigFile(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSaveDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "categories.yaml")
	require.NoError(t, SaveDefaults(path))

	categories, err := NewCategoryStore(path, nil).LoadCategories()
	require.NoError(t, err)
	assert.Equal(t, DefaultCategories()[0], categories[0])
	assert.Len(t, categories, 13)

	assert.Error(t, SaveDefaults(path))
}

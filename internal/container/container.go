// Package container provides dependency injection for the upi-ledger application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fjacquet/upi-ledger/internal/categorizer"
	"fjacquet/upi-ledger/internal/config"
	"fjacquet/upi-ledger/internal/embedding"
	"fjacquet/upi-ledger/internal/ingest"
	"fjacquet/upi-ledger/internal/logging"
	"fjacquet/upi-ledger/internal/memory"
	"fjacquet/upi-ledger/internal/metrics"
	"fjacquet/upi-ledger/internal/pdfparser"
	"fjacquet/upi-ledger/internal/store"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation: all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger      logging.Logger
	config      *config.Config
	store       *store.CategoryStore
	memories    *memory.Store
	llmClient   *categorizer.GeminiClient
	embedder    *embedding.GeminiEmbedder
	llmSwitch   *categorizer.AtomicSwitch
	categorizer *categorizer.Categorizer
	metrics     *metrics.Metrics
	ingest      *ingest.Service
}

// NewContainer creates and wires all application dependencies.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	ctx := context.Background()

	// Create logger first as it's needed by other components
	logger := logging.NewLogrusAdapterFromLogger(config.ConfigureLoggingFromConfig(cfg))

	categoryStore := store.NewCategoryStore(cfg.Categorization.CategoriesFile, logger)
	categories, err := categoryStore.LoadCategories()
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	merchants, err := categoryStore.LoadMerchantMappings()
	if err != nil {
		return nil, fmt.Errorf("failed to load merchant mappings: %w", err)
	}

	c := &Container{
		logger: logger,
		config: cfg,
		store:  categoryStore,
	}

	var embedder memory.Embedder
	switch cfg.Embedding.Provider {
	case "gemini":
		c.embedder, err = embedding.NewGeminiEmbedder(ctx, cfg.AI.APIKey, cfg.Embedding.Model, logger)
		if err != nil {
			return nil, err
		}
		embedder = c.embedder
	default:
		embedder = embedding.NewHashEmbedder(cfg.Embedding.Dimension)
	}

	c.memories = memory.NewStore(embedder, logger)
	if cfg.Memory.File != "" {
		if err := c.memories.Load(cfg.Memory.File); err != nil {
			c.closeClients()
			return nil, err
		}
	}

	table := categorizer.BuildProfileTable(ctx, categories, embedder, logger)

	// The client exists whenever a key is configured so the admin switch can
	// turn the tier on later; ai.enabled only sets the initial state.
	var llm categorizer.LLMClient
	if cfg.AI.APIKey != "" {
		c.llmClient, err = categorizer.NewGeminiClient(ctx, categorizer.GeminiConfig{
			APIKey:            cfg.AI.APIKey,
			Model:             cfg.AI.Model,
			RequestsPerMinute: cfg.AI.RequestsPerMinute,
			Timeout:           time.Duration(cfg.AI.TimeoutSeconds) * time.Second,
		}, logger)
		if err != nil {
			c.closeClients()
			return nil, err
		}
		llm = c.llmClient
	}
	c.llmSwitch = categorizer.NewSwitch(cfg.AI.Enabled && llm != nil)
	if c.llmSwitch.Enabled() {
		logger.Info("AI categorization enabled")
	} else {
		logger.Info("AI categorization disabled")
	}

	c.categorizer = categorizer.NewCategorizer(categorizer.Dependencies{
		Table:     table,
		Merchants: merchants,
		Embedder:  embedder,
		Memories:  c.memories,
		LLM:       llm,
		Switch:    c.llmSwitch,
	}, categorizer.Options{
		KeywordThreshold: cfg.Categorization.KeywordThreshold,
		VectorThreshold:  cfg.Categorization.VectorThreshold,
		MemoryLimit:      cfg.Categorization.MemoryLimit,
		MemoryThreshold:  cfg.Categorization.MemoryThreshold,
	}, logger)

	c.metrics = metrics.New()
	c.ingest = ingest.NewService(ingest.Dependencies{
		Classifier: c.categorizer,
		Memories:   c.memories,
		PDF:        pdfparser.NewReader(nil, logger),
		Metrics:    c.metrics,
	}, ingest.Config{
		PhoneScanLimit: cfg.Upload.PhoneScanLimit,
	}, logger)

	logger.Info("Container initialized successfully",
		logging.Field{Key: "categories_count", Value: table.Len()},
		logging.Field{Key: "merchant_mappings", Value: len(merchants)},
		logging.Field{Key: logging.FieldProvider, Value: cfg.Embedding.Provider},
		logging.Field{Key: "ai_enabled", Value: c.llmSwitch.Enabled()})

	return c, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetCategorizer returns the container's categorizer instance.
func (c *Container) GetCategorizer() *categorizer.Categorizer {
	return c.categorizer
}

// GetStore returns the container's category store instance.
func (c *Container) GetStore() *store.CategoryStore {
	return c.store
}

// GetMemories returns the per-user memory store.
func (c *Container) GetMemories() *memory.Store {
	return c.memories
}

// GetLLMSwitch returns the runtime switch of the LLM tier.
func (c *Container) GetLLMSwitch() *categorizer.AtomicSwitch {
	return c.llmSwitch
}

// LLMAvailable reports whether an LLM client was created.
func (c *Container) LLMAvailable() bool {
	return c.llmClient != nil
}

// GetMetrics returns the Prometheus collectors.
func (c *Container) GetMetrics() *metrics.Metrics {
	return c.metrics
}

// GetIngestService returns the statement ingest service.
func (c *Container) GetIngestService() *ingest.Service {
	return c.ingest
}

// Close releases API clients and writes the memory snapshot when one is configured.
func (c *Container) Close() error {
	var errs []error
	if c.config.Memory.File != "" {
		if err := c.memories.Save(c.config.Memory.File); err != nil {
			errs = append(errs, err)
		}
	}
	errs = append(errs, c.closeClients())
	c.logger.Info("Container closed")
	return errors.Join(errs...)
}

func (c *Container) closeClients() error {
	var errs []error
	if c.llmClient != nil {
		errs = append(errs, c.llmClient.Close())
	}
	if c.embedder != nil {
		errs = append(errs, c.embedder.Close())
	}
	return errors.Join(errs...)
}

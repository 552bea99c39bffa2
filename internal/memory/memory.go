// Package memory keeps per-user transaction memories as embedded vectors and
// answers similarity searches over them.
package memory

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"fjacquet/upi-ledger/internal/currencyutils"
	"fjacquet/upi-ledger/internal/dateutils"
	"fjacquet/upi-ledger/internal/embedding"
	"fjacquet/upi-ledger/internal/logging"
	"fjacquet/upi-ledger/internal/models"
)

// Embedder turns text into a unit vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Store is an in-process memory store. It is safe for concurrent use.
type Store struct {
	embedder Embedder
	logger   logging.Logger

	mu     sync.RWMutex
	byUser map[string][]models.Memory
}

// NewStore creates an empty Store.
func NewStore(embedder Embedder, logger logging.Logger) *Store {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Store{
		embedder: embedder,
		logger:   logger,
		byUser:   make(map[string][]models.Memory),
	}
}

// TransactionText is the text remembered for a transaction.
func TransactionText(tx models.EnrichedTransaction) string {
	return fmt.Sprintf("Transaction: %s Amount: %s Category: %s Type: %s Date: %s",
		tx.Label(),
		currencyutils.FormatINR(tx.Amount),
		tx.Category,
		tx.Type,
		dateutils.ToISODate(tx.Date),
	)
}

// Add embeds text and stores it for userID.
func (s *Store) Add(ctx context.Context, userID, text string, metadata map[string]string) (models.Memory, error) {
	if userID == "" {
		return models.Memory{}, fmt.Errorf("memory: user id is empty")
	}
	vec, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return models.Memory{}, fmt.Errorf("memory: embed: %w", err)
	}

	m := models.Memory{
		ID:        uuid.NewString(),
		UserID:    userID,
		Text:      text,
		Metadata:  metadata,
		Embedding: vec,
	}

	s.mu.Lock()
	s.byUser[userID] = append(s.byUser[userID], m)
	s.mu.Unlock()
	return m, nil
}

// StoreTransaction remembers one enriched transaction.
func (s *Store) StoreTransaction(ctx context.Context, userID string, tx models.EnrichedTransaction) (models.Memory, error) {
	return s.Add(ctx, userID, TransactionText(tx), map[string]string{
		models.MetadataCategory: tx.Category,
		models.MetadataMerchant: tx.Merchant,
		models.MetadataAmount:   tx.Amount.String(),
		models.MetadataType:     string(tx.Type),
		models.MetadataDate:     dateutils.ToISODate(tx.Date),
	})
}

// StoreBatch remembers every transaction it can. A failure is logged and the
// rest of the batch continues. It returns how many were stored.
func (s *Store) StoreBatch(ctx context.Context, userID string, txs []models.EnrichedTransaction) int {
	stored := 0
	for i, tx := range txs {
		if ctx.Err() != nil {
			s.logger.WithError(ctx.Err()).Warn("Memory batch interrupted",
				logging.Field{Key: logging.FieldUserID, Value: userID},
				logging.Field{Key: logging.FieldCount, Value: stored})
			return stored
		}
		if _, err := s.StoreTransaction(ctx, userID, tx); err != nil {
			s.logger.WithError(err).Warn("Failed to store transaction memory",
				logging.Field{Key: logging.FieldUserID, Value: userID},
				logging.Field{Key: "index", Value: i})
			continue
		}
		stored++
	}
	return stored
}

// SearchSimilar returns up to limit memories of userID whose similarity to
// query is at least threshold, most similar first.
func (s *Store) SearchSimilar(ctx context.Context, userID, query string, limit int, threshold float64) ([]models.MemoryMatch, error) {
	if limit <= 0 {
		return nil, nil
	}

	s.mu.RLock()
	candidates := s.byUser[userID]
	s.mu.RUnlock()
	if len(candidates) == 0 {
		return nil, nil
	}

	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("memory: embed query: %w", err)
	}

	var matches []models.MemoryMatch
	for _, m := range candidates {
		sim := embedding.Cosine(vec, m.Embedding)
		if sim >= threshold {
			matches = append(matches, models.MemoryMatch{Memory: m, Similarity: sim})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// Memories returns a copy of the memories held for userID.
func (s *Store) Memories(userID string) []models.Memory {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Memory, len(s.byUser[userID]))
	copy(out, s.byUser[userID])
	return out
}

// Count is the number of memories held for userID.
func (s *Store) Count(userID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byUser[userID])
}

type snapshot struct {
	Memories []models.Memory `yaml:"memories"`
}

// Save writes every memory to a YAML file.
func (s *Store) Save(path string) error {
	s.mu.RLock()
	var snap snapshot
	users := make([]string, 0, len(s.byUser))
	for user := range s.byUser {
		users = append(users, user)
	}
	sort.Strings(users)
	for _, user := range users {
		snap.Memories = append(snap.Memories, s.byUser[user]...)
	}
	s.mu.RUnlock()

	data, err := yaml.Marshal(&snap)
	if err != nil {
		return fmt.Errorf("memory: encode snapshot: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, models.PermissionDirectory); err != nil {
			return fmt.Errorf("memory: create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, models.PermissionDataFile); err != nil {
		return fmt.Errorf("memory: write snapshot: %w", err)
	}
	s.logger.Debug("Saved memory snapshot",
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(snap.Memories)})
	return nil
}

// Load replaces the store contents with a YAML snapshot. A missing file leaves the store empty.
func (s *Store) Load(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("memory: read snapshot: %w", err)
	}

	var snap snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("memory: decode snapshot: %w", err)
	}

	byUser := make(map[string][]models.Memory)
	for _, m := range snap.Memories {
		byUser[m.UserID] = append(byUser[m.UserID], m)
	}

	s.mu.Lock()
	s.byUser = byUser
	s.mu.Unlock()

	s.logger.Debug("Loaded memory snapshot",
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(snap.Memories)})
	return nil
}

package models

// Memory is one stored transaction memory for a user.
type Memory struct {
	ID        string            `json:"id" yaml:"id"`
	UserID    string            `json:"user_id" yaml:"user_id"`
	Text      string            `json:"text" yaml:"text"`
	Metadata  map[string]string `json:"metadata" yaml:"metadata"`
	Embedding []float32         `json:"-" yaml:"embedding"`
}

// MemoryMatch is a memory returned from a similarity search.
type MemoryMatch struct {
	Memory     Memory  `json:"memory"`
	Similarity float64 `json:"similarity"`
}

// Category returns the category recorded in the memory metadata, if any.
func (m MemoryMatch) Category() string {
	return m.Memory.Metadata[MetadataCategory]
}

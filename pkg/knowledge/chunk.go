// FILE: pkg/knowledge/chunk.go
// PURPOSE: Knowledge corpus contracts consumed by responders.

package knowledge

import (
	"context"

	"ai-concierge-be/pkg/query"
)

// Chunk is one retrieved knowledge passage. Opaque to the core except for
// the entity tags the context filter keys on.
type Chunk struct {
	ID             string   `json:"id"`
	Content        string   `json:"content"`
	EntityTags     []string `json:"entity_tags"`
	SourceCategory string   `json:"source_category"`
	Score          float32  `json:"score"`
}

// HasTag reports whether the chunk carries the given entity tag.
func (c Chunk) HasTag(tag string) bool {
	for _, t := range c.EntityTags {
		if t == tag {
			return true
		}
	}
	return false
}

// Retriever is the external search capability over the knowledge corpus.
type Retriever interface {
	Retrieve(ctx context.Context, text string, categoryHint string, lang query.Language, maxResults int) ([]Chunk, error)
}

// FILE: internal/repository/knowledge_repository.go
// PURPOSE: Postgres/pgvector storage for the knowledge corpus and the
// vector-search implementation of the retrieval contract.

package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"ai-concierge-be/internal/model"
	"ai-concierge-be/internal/pkg/apperr"
	"ai-concierge-be/pkg/embedding"
	"ai-concierge-be/pkg/knowledge"
	"ai-concierge-be/pkg/query"
)

// KnowledgeRepository is the storage contract for corpus documents.
type KnowledgeRepository interface {
	Create(ctx context.Context, doc *model.KnowledgeDocument) error
	List(ctx context.Context, limit int) ([]model.KnowledgeDocument, error)
	DeleteAll(ctx context.Context) error
	// Search runs cosine-similarity retrieval over the embedding column.
	Search(ctx context.Context, vector []float32, categoryHint string, lang query.Language, maxResults int) ([]model.KnowledgeDocument, error)
}

type knowledgeRepository struct {
	db *gorm.DB
}

func NewKnowledgeRepository(db *gorm.DB) KnowledgeRepository {
	return &knowledgeRepository{db: db}
}

func (r *knowledgeRepository) Create(ctx context.Context, doc *model.KnowledgeDocument) error {
	if doc.Id == uuid.Nil {
		doc.Id = uuid.New()
	}
	return r.db.WithContext(ctx).Create(doc).Error
}

func (r *knowledgeRepository) List(ctx context.Context, limit int) ([]model.KnowledgeDocument, error) {
	var docs []model.KnowledgeDocument
	q := r.db.WithContext(ctx).Order("created_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *knowledgeRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Unscoped().Where("1 = 1").Delete(&model.KnowledgeDocument{}).Error
}

func (r *knowledgeRepository) Search(ctx context.Context, vector []float32, categoryHint string, lang query.Language, maxResults int) ([]model.KnowledgeDocument, error) {
	var docs []model.KnowledgeDocument

	// pgvector cosine distance: embedding_value <=> vector. Query vectors
	// are normalized by the embedding provider.
	q := r.db.WithContext(ctx)
	if categoryHint != "" {
		q = q.Where("source_category = ?", categoryHint)
	}
	if lang != "" {
		q = q.Where("language IN ?", []string{string(lang), ""})
	}

	err := q.
		Order(gorm.Expr("embedding_value <=> ?", pgvector.NewVector(vector))).
		Limit(maxResults).
		Find(&docs).Error
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}
	return docs, nil
}

// VectorRetriever adapts the repository plus an embedding provider to the
// knowledge.Retriever contract the responders consume.
type VectorRetriever struct {
	repo     KnowledgeRepository
	embedder embedding.EmbeddingProvider
}

func NewVectorRetriever(repo KnowledgeRepository, embedder embedding.EmbeddingProvider) *VectorRetriever {
	return &VectorRetriever{repo: repo, embedder: embedder}
}

func (v *VectorRetriever) Retrieve(ctx context.Context, text string, categoryHint string, lang query.Language, maxResults int) ([]knowledge.Chunk, error) {
	emb, err := v.embedder.Generate(text, "retrieval_query")
	if err != nil {
		return nil, fmt.Errorf("%w: query embedding: %v", apperr.ErrRetrievalUnavailable, err)
	}

	docs, err := v.repo.Search(ctx, emb.Embedding.Values, categoryHint, lang, maxResults)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrRetrievalUnavailable, err)
	}

	chunks := make([]knowledge.Chunk, 0, len(docs))
	for _, doc := range docs {
		chunks = append(chunks, knowledge.Chunk{
			ID:             doc.Id.String(),
			Content:        doc.Content,
			EntityTags:     decodeTags(doc.EntityTags),
			SourceCategory: doc.SourceCategory,
		})
	}
	return chunks, nil
}

func decodeTags(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return nil
	}
	var tags []string
	if err := json.Unmarshal(raw, &tags); err != nil {
		return nil
	}
	return tags
}

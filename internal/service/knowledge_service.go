// FILE: internal/service/knowledge_service.go
// PURPOSE: Corpus ingestion API. Documents are queued on the in-process
// bus; the consumer embeds and stores them asynchronously.

package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"ai-concierge-be/internal/dto"
	"ai-concierge-be/internal/repository"
)

type IKnowledgeService interface {
	Ingest(ctx context.Context, request *dto.IngestKnowledgeRequest) (*dto.IngestKnowledgeResponse, error)
	List(ctx context.Context, limit int) ([]*dto.KnowledgeDocumentResponse, error)
}

type knowledgeService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	repo      repository.KnowledgeRepository
}

func NewKnowledgeService(pubSub *gochannel.GoChannel, topicName string, repo repository.KnowledgeRepository) IKnowledgeService {
	return &knowledgeService{
		pubSub:    pubSub,
		topicName: topicName,
		repo:      repo,
	}
}

func (ks *knowledgeService) Ingest(ctx context.Context, request *dto.IngestKnowledgeRequest) (*dto.IngestKnowledgeResponse, error) {
	payload := dto.PublishKnowledgeMessage{
		Content:        request.Content,
		Language:       request.Language,
		SourceCategory: request.SourceCategory,
		EntityTags:     request.EntityTags,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ingest payload: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	if err := ks.pubSub.Publish(ks.topicName, msg); err != nil {
		return nil, fmt.Errorf("failed to queue document: %w", err)
	}

	return &dto.IngestKnowledgeResponse{Queued: true}, nil
}

func (ks *knowledgeService) List(ctx context.Context, limit int) ([]*dto.KnowledgeDocumentResponse, error) {
	docs, err := ks.repo.List(ctx, limit)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.KnowledgeDocumentResponse, 0, len(docs))
	for _, doc := range docs {
		var tags []string
		if len(doc.EntityTags) > 0 {
			_ = json.Unmarshal(doc.EntityTags, &tags)
		}
		out = append(out, &dto.KnowledgeDocumentResponse{
			Id:             doc.Id.String(),
			Content:        doc.Content,
			Language:       doc.Language,
			SourceCategory: doc.SourceCategory,
			EntityTags:     tags,
		})
	}
	return out, nil
}

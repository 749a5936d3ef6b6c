// FILE: internal/service/consumer_service.go
// PURPOSE: Background consumer that embeds queued corpus documents and
// stores them with their entity tags.

package service

import (
	"context"
	"encoding/json"
	"log"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"

	"ai-concierge-be/internal/dto"
	"ai-concierge-be/internal/model"
	"ai-concierge-be/internal/repository"
	"ai-concierge-be/pkg/embedding"
	"ai-concierge-be/pkg/utils"
)

// Documents longer than this are split before embedding so retrieval
// stays sentence-granular.
const (
	chunkSize    = 800
	chunkOverlap = 100
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	repo              repository.KnowledgeRepository
	embeddingProvider embedding.EmbeddingProvider
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	repo repository.KnowledgeRepository,
	embeddingProvider embedding.EmbeddingProvider,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		repo:              repo,
		embeddingProvider: embeddingProvider,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishKnowledgeMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal ingest message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	tags, err := json.Marshal(payload.EntityTags)
	if err != nil {
		log.Printf("[ERROR] Failed to encode entity tags: %v", err)
		msg.Ack()
		return
	}

	for _, chunk := range utils.SplitText(payload.Content, chunkSize, chunkOverlap) {
		emb, err := cs.embeddingProvider.Generate(chunk, "retrieval_document")
		if err != nil {
			log.Printf("[ERROR] Failed to embed document: %v", err)
			msg.Nack()
			return
		}

		doc := &model.KnowledgeDocument{
			Content:        chunk,
			Language:       payload.Language,
			SourceCategory: payload.SourceCategory,
			EntityTags:     datatypes.JSON(tags),
			EmbeddingValue: pgvector.NewVector(emb.Embedding.Values),
		}

		if err := cs.repo.Create(ctx, doc); err != nil {
			log.Printf("[ERROR] Failed to store document: %v", err)
			msg.Nack()
			return
		}

		log.Printf("[INFO] Stored knowledge document %s (category=%s)", doc.Id, doc.SourceCategory)
	}

	msg.Ack()
}

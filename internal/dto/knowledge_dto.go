package dto

type IngestKnowledgeRequest struct {
	Content        string   `json:"content" validate:"required"`
	Language       string   `json:"language,omitempty"`
	SourceCategory string   `json:"source_category,omitempty"`
	EntityTags     []string `json:"entity_tags,omitempty"`
}

type IngestKnowledgeResponse struct {
	Queued bool `json:"queued"`
}

// PublishKnowledgeMessage is the ingestion event payload carried on the
// watermill topic between the API and the embedding consumer.
type PublishKnowledgeMessage struct {
	Content        string   `json:"content"`
	Language       string   `json:"language"`
	SourceCategory string   `json:"source_category"`
	EntityTags     []string `json:"entity_tags"`
}

type KnowledgeDocumentResponse struct {
	Id             string   `json:"id"`
	Content        string   `json:"content"`
	Language       string   `json:"language"`
	SourceCategory string   `json:"source_category"`
	EntityTags     []string `json:"entity_tags"`
}

package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// KnowledgeDocument is one corpus passage with its embedding. EntityTags is
// the JSONB tag list the context filter keys on (e.g. ["meeting-room",
// "paid", "meeting-room-2f"]).
type KnowledgeDocument struct {
	Id             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Content        string          `gorm:"type:text;not null"`
	Language       string          `gorm:"type:varchar(5);index"`
	SourceCategory string          `gorm:"type:varchar(32);index"`
	EntityTags     datatypes.JSON  `gorm:"type:jsonb"`
	EmbeddingValue pgvector.Vector `gorm:"type:vector(768)"` // nomic-embed-text / text-embedding-004 dimensions
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime"`
	DeletedAt      gorm.DeletedAt  `gorm:"index"`
}

func (KnowledgeDocument) TableName() string {
	return "knowledge_documents"
}

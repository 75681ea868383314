package appcontext

import (
	"github.com/meilisearch/meilisearch-go"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Context struct {
	DB     *gorm.DB
	Logger *zap.Logger

	// MeilisearchClient is nil when MEILISEARCH_HOST is not configured;
	// search and import-time indexing are disabled in that case.
	MeilisearchClient *meilisearch.Client
}

package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/mkaplan/sendhub/internal/appcontext"
	"go.uber.org/zap"
)

func SearchStudies(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := c.Query("q")
		if query == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing search query"})
			return
		}

		if ctx.MeilisearchClient == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Search is not configured"})
			return
		}

		var filters []string
		if species := c.Query("species"); species != "" {
			filters = append(filters, fmt.Sprintf("species = %q", strings.ToUpper(species)))
		}
		if status := c.Query("status"); status != "" {
			filters = append(filters, fmt.Sprintf("status = %q", status))
		}

		searchParams := &meilisearch.SearchRequest{
			Query: query,
		}
		if len(filters) > 0 {
			searchParams.Filter = strings.Join(filters, " AND ")
		}

		searchResult, err := ctx.MeilisearchClient.Index("studies").Search(query, searchParams)
		if err != nil {
			ctx.Logger.Error("Failed to perform search", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to perform search"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"results": searchResult.Hits})
	}
}

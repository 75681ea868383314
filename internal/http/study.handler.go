package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mkaplan/sendhub/internal/appcontext"
	"github.com/mkaplan/sendhub/internal/entity"
	"github.com/mkaplan/sendhub/internal/importer"
	"github.com/mkaplan/sendhub/internal/sendmap"
	"go.uber.org/zap"
)

func GetStudies(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		var studies []entity.Study
		if err := ctx.DB.Order("created_at DESC").Find(&studies).Error; err != nil {
			ctx.Logger.Error("Failed to get studies from database", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get studies from database"})
			return
		}

		var subjectCountsRaw []struct {
			StudyID uuid.UUID
			Count   int64
		}
		if err := ctx.DB.Table("subjects").
			Select("subjects.study_id, COUNT(subjects.id) as count").
			Where("subjects.deleted_at IS NULL").
			Group("subjects.study_id").
			Scan(&subjectCountsRaw).Error; err != nil {
			ctx.Logger.Error("Failed to get subject counts from database", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get subject counts from database"})
			return
		}

		subjectCounts := make(map[uuid.UUID]int64, len(subjectCountsRaw))
		for _, item := range subjectCountsRaw {
			subjectCounts[item.StudyID] = item.Count
		}

		type studyWithCounts struct {
			entity.Study
			SubjectCount int64 `json:"subjectCount"`
		}

		response := make([]studyWithCounts, 0, len(studies))
		for _, study := range studies {
			response = append(response, studyWithCounts{
				Study:        study,
				SubjectCount: subjectCounts[study.ID],
			})
		}

		c.JSON(http.StatusOK, gin.H{"studies": response})
	}
}

func GetStudyByID(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		studyID, err := uuid.Parse(c.Param("studyID"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid study ID"})
			return
		}

		var study entity.Study
		if err := ctx.DB.Where("id = ?", studyID).First(&study).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Study not found"})
			return
		}

		var parameters []entity.TrialSummaryParameter
		if err := ctx.DB.Where("study_id = ?", studyID).Order("seq ASC").Find(&parameters).Error; err != nil {
			ctx.Logger.Error("Failed to get trial summary parameters from database", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get trial summary parameters from database"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"study": study, "parameters": parameters})
	}
}

func GetStudySubjects(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		studyID, err := uuid.Parse(c.Param("studyID"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid study ID"})
			return
		}

		var subjects []entity.Subject
		if err := ctx.DB.Where("study_id = ?", studyID).Order("usubjid ASC").Find(&subjects).Error; err != nil {
			ctx.Logger.Error("Failed to get subjects from database", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get subjects from database"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"subjects": subjects})
	}
}

func GetStudyFindings(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		studyID, err := uuid.Parse(c.Param("studyID"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid study ID"})
			return
		}

		domain := strings.ToUpper(c.Param("domain"))
		if !sendmap.IsFindingsDomain(domain) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown findings domain"})
			return
		}

		limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
		if err != nil || limit < 1 || limit > 1000 {
			limit = 100
		}
		offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
		if err != nil || offset < 0 {
			offset = 0
		}

		var findings []entity.Finding
		if err := ctx.DB.Where("study_id = ? AND domain = ?", studyID, domain).
			Order("seq ASC").
			Limit(limit).
			Offset(offset).
			Find(&findings).Error; err != nil {
			ctx.Logger.Error("Failed to get findings from database", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get findings from database"})
			return
		}

		var total int64
		if err := ctx.DB.Model(&entity.Finding{}).Where("study_id = ? AND domain = ?", studyID, domain).Count(&total).Error; err != nil {
			ctx.Logger.Error("Failed to count findings", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count findings"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"findings": findings, "total": total})
	}
}

func GetStudyStats(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		studyID, err := uuid.Parse(c.Param("studyID"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid study ID"})
			return
		}

		var study entity.Study
		if err := ctx.DB.Where("id = ?", studyID).First(&study).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Study not found"})
			return
		}

		var subjectCount int64
		if err := ctx.DB.Model(&entity.Subject{}).Where("study_id = ?", studyID).Count(&subjectCount).Error; err != nil {
			ctx.Logger.Error("Failed to count subjects", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count subjects"})
			return
		}

		var domainCountsRaw []struct {
			Domain string
			Count  int64
		}
		if err := ctx.DB.Model(&entity.Finding{}).
			Select("findings.domain, COUNT(*) as count").
			Where("findings.study_id = ? AND findings.deleted_at IS NULL", studyID).
			Group("findings.domain").
			Scan(&domainCountsRaw).Error; err != nil {
			ctx.Logger.Error("Failed to get domain counts from database", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get domain counts from database"})
			return
		}

		domainCountsResponse := []struct {
			Domain string `json:"domain"`
			Label  string `json:"label"`
			Count  int64  `json:"count"`
		}{}

		for _, item := range domainCountsRaw {
			label := sendmap.DomainLabels[item.Domain]
			if label == "" {
				label = item.Domain
			}
			domainCountsResponse = append(domainCountsResponse, struct {
				Domain string `json:"domain"`
				Label  string `json:"label"`
				Count  int64  `json:"count"`
			}{
				Domain: item.Domain,
				Label:  label,
				Count:  item.Count,
			})
		}

		var exposureCount int64
		if err := ctx.DB.Model(&entity.Exposure{}).Where("study_id = ?", studyID).Count(&exposureCount).Error; err != nil {
			ctx.Logger.Error("Failed to count exposures", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count exposures"})
			return
		}

		var commentCount int64
		if err := ctx.DB.Model(&entity.Comment{}).Where("study_id = ?", studyID).Count(&commentCount).Error; err != nil {
			ctx.Logger.Error("Failed to count comments", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count comments"})
			return
		}

		response := gin.H{
			"subjectCount":  subjectCount,
			"domainCounts":  domainCountsResponse,
			"exposureCount": exposureCount,
			"commentCount":  commentCount,
		}

		c.JSON(http.StatusOK, response)
	}
}

func DeleteStudy(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		studyID, err := uuid.Parse(c.Param("studyID"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid study ID"})
			return
		}

		var study entity.Study
		if err := ctx.DB.Where("id = ?", studyID).First(&study).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Study not found"})
			return
		}

		if err := importer.New(ctx.DB, ctx.Logger).DeleteStudy(studyID); err != nil {
			ctx.Logger.Error("Failed to delete study", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete study"})
			return
		}

		if ctx.MeilisearchClient != nil {
			_, err := ctx.MeilisearchClient.Index("studies").DeleteDocument(studyID.String())
			if err != nil {
				ctx.Logger.Error("Failed to delete study document from index", zap.Error(err))
				// Continue execution, as the database transaction was successful
			}
		}

		c.JSON(http.StatusOK, gin.H{"message": "Study deleted successfully"})
	}
}

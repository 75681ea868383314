package http

import (
	"archive/zip"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mkaplan/sendhub/internal/appcontext"
	"github.com/mkaplan/sendhub/internal/entity"
	"github.com/mkaplan/sendhub/internal/importer"
	"github.com/mkaplan/sendhub/internal/services"
	"github.com/mkaplan/sendhub/internal/utils"
	"go.uber.org/zap"
)

func UploadStudy(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := utils.GetUserIDFromClaims(c)
		if err != nil {
			ctx.Logger.Error("Failed to get user ID from claims", zap.Error(err))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		file, err := c.FormFile("file")
		if err != nil {
			ctx.Logger.Error("Failed to get file from request", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to get file from request"})
			return
		}

		if strings.ToLower(filepath.Ext(file.Filename)) != ".zip" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file type, only zip archives are allowed"})
			return
		}

		dataDir, err := os.MkdirTemp("", "send-upload-")
		if err != nil {
			ctx.Logger.Error("Failed to create temporary directory", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create temporary directory"})
			return
		}
		defer os.RemoveAll(dataDir)

		if err := extractArchive(file, dataDir); err != nil {
			ctx.Logger.Error("Failed to extract archive", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to extract archive"})
			return
		}

		if _, err := os.Stat(filepath.Join(dataDir, "ts.xpt")); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Archive does not contain a trial summary dataset (ts.xpt)"})
			return
		}

		imp := importer.New(ctx.DB, ctx.Logger)
		result, err := imp.ImportStudy(dataDir, userID)
		if err != nil {
			ctx.Logger.Error("Failed to import study", zap.Error(err))

			run := entity.ImportRun{
				ID:           uuid.New(),
				Status:       entity.ImportRunFailed,
				ErrorMessage: err.Error(),
				CreatedBy:    userID,
			}
			if dbErr := ctx.DB.Create(&run).Error; dbErr != nil {
				ctx.Logger.Error("Failed to record import run", zap.Error(dbErr))
			}

			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to import study"})
			return
		}

		run := entity.ImportRun{
			ID:           uuid.New(),
			StudyID:      &result.StudyID,
			StudyCode:    result.StudyCode,
			Status:       entity.ImportRunCompleted,
			SubjectCount: result.SubjectCount,
			DomainCounts: entity.DomainCounts(result.DomainCounts),
			CreatedBy:    userID,
		}
		if err := ctx.DB.Create(&run).Error; err != nil {
			ctx.Logger.Error("Failed to record import run", zap.Error(err))
		}

		if ctx.MeilisearchClient != nil {
			var study entity.Study
			if err := ctx.DB.Where("id = ?", result.StudyID).First(&study).Error; err != nil {
				ctx.Logger.Error("Failed to load study for indexing", zap.Error(err))
			} else {
				document := utils.StudyToDocument(&study)
				_, err := ctx.MeilisearchClient.Index("studies").AddDocuments([]map[string]interface{}{document}, "id")
				if err != nil {
					ctx.Logger.Error("Failed to index study document", zap.Error(err))
					// Continue execution, as the import itself succeeded
				}
			}
		}

		if email, err := utils.GetUserEmailFromClaims(c); err == nil && email != "" {
			if err := services.SendImportNotification(email, result.StudyCode, result.SubjectCount); err != nil {
				ctx.Logger.Error("Failed to send import notification", zap.Error(err))
				// Continue execution, as the import itself succeeded
			}
		}

		c.JSON(http.StatusCreated, result)
	}
}

func GetImportRuns(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		studyID, err := uuid.Parse(c.Param("studyID"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid study ID"})
			return
		}

		var runs []entity.ImportRun
		if err := ctx.DB.Where("study_id = ?", studyID).Order("created_at DESC").Limit(20).Find(&runs).Error; err != nil {
			ctx.Logger.Error("Failed to get import runs from database", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get import runs from database"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"importRuns": runs})
	}
}

// extractArchive unpacks the uploaded zip into destDir, flattening any
// directory structure so datasets end up directly under destDir.
func extractArchive(file *multipart.FileHeader, destDir string) error {
	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	reader, err := zip.NewReader(src, file.Size)
	if err != nil {
		return err
	}

	for _, f := range reader.File {
		if f.FileInfo().IsDir() {
			continue
		}

		name := filepath.Base(f.Name)
		if name == "" || strings.HasPrefix(name, ".") {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return err
		}

		dst, err := os.Create(filepath.Join(destDir, strings.ToLower(name)))
		if err != nil {
			rc.Close()
			return err
		}

		_, err = io.Copy(dst, rc)
		rc.Close()
		dst.Close()
		if err != nil {
			return err
		}
	}

	return nil
}

package http

import (
	nethttp "net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mkaplan/sendhub/internal/appcontext"
	"github.com/mkaplan/sendhub/internal/entity"
)

func newTestContext(t *testing.T) *appcontext.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "sendhub.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(entity.AllModels()...))

	return &appcontext.Context{DB: db, Logger: zap.NewNop()}
}

func createTestStudy(t *testing.T, db *gorm.DB) entity.Study {
	t.Helper()
	study := entity.Study{
		ID:        uuid.New(),
		StudyCode: "STUDY001",
		Title:     "Test Study",
		Status:    "completed",
		CreatedBy: uuid.New(),
	}
	require.NoError(t, db.Create(&study).Error)
	return study
}

func performRequest(handler gin.HandlerFunc, params gin.Params) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/", nil)
	c.Params = params
	handler(c)
	return w
}

func TestGetStudiesFailsWhenSubjectCountQueryFails(t *testing.T) {
	ctx := newTestContext(t)
	createTestStudy(t, ctx.DB)

	// Break the aggregate query; a failure must surface as an error, not as
	// zero counts.
	require.NoError(t, ctx.DB.Migrator().DropTable(&entity.Subject{}))

	w := performRequest(GetStudies(ctx), nil)
	assert.Equal(t, nethttp.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "subject counts")
}

func TestGetStudyStatsFailsWhenDomainCountQueryFails(t *testing.T) {
	ctx := newTestContext(t)
	study := createTestStudy(t, ctx.DB)

	require.NoError(t, ctx.DB.Migrator().DropTable(&entity.Finding{}))

	w := performRequest(GetStudyStats(ctx), gin.Params{{Key: "studyID", Value: study.ID.String()}})
	assert.Equal(t, nethttp.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "domain counts")
}

func TestGetStudyStatsHappyPath(t *testing.T) {
	ctx := newTestContext(t)
	study := createTestStudy(t, ctx.DB)

	subject := entity.Subject{
		ID:        uuid.New(),
		StudyID:   study.ID,
		Usubjid:   "STUDY001-001",
		Sex:       "F",
		CreatedBy: uuid.New(),
	}
	require.NoError(t, ctx.DB.Create(&subject).Error)

	w := performRequest(GetStudyStats(ctx), gin.Params{{Key: "studyID", Value: study.ID.String()}})
	assert.Equal(t, nethttp.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"subjectCount":1`)
}

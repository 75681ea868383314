package http

import (
	"github.com/gin-gonic/gin"
	"github.com/mkaplan/sendhub/internal/appcontext"
	"github.com/mkaplan/sendhub/internal/http/middleware"
)

type APIService struct {
	engine  *gin.Engine
	context *appcontext.Context
}

func NewHTTPService(ctx *appcontext.Context) *APIService {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORSMiddleware())

	service := &APIService{
		engine:  engine,
		context: ctx,
	}
	service.setupRoutes()
	return service
}

func (h *APIService) Engine() *gin.Engine {
	return h.engine
}

func (h *APIService) setupRoutes() {
	h.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := h.engine.Group("/api/v1")
	h.setupStudyRoutes(v1)
	h.setupSearchRoutes(v1)
}

func (h *APIService) setupStudyRoutes(group *gin.RouterGroup) {
	studies := group.Group("/studies")
	studies.Use(middleware.JWTAuthMiddleware())

	studies.GET("/", GetStudies(h.context))
	studies.POST("/upload", UploadStudy(h.context))
	studies.GET("/:studyID", GetStudyByID(h.context))
	studies.DELETE("/:studyID", DeleteStudy(h.context))
	studies.GET("/:studyID/subjects", GetStudySubjects(h.context))
	studies.GET("/:studyID/findings/:domain", GetStudyFindings(h.context))
	studies.GET("/:studyID/stats", GetStudyStats(h.context))
	studies.GET("/:studyID/imports", GetImportRuns(h.context))
}

func (h *APIService) setupSearchRoutes(group *gin.RouterGroup) {
	search := group.Group("/search")
	search.Use(middleware.JWTAuthMiddleware())

	search.GET("/", SearchStudies(h.context))
}

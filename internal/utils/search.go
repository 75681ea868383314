package utils

import (
	"github.com/mkaplan/sendhub/internal/entity"
)

func StudyToDocument(study *entity.Study) map[string]interface{} {
	return map[string]interface{}{
		"id":           study.ID.String(),
		"study_code":   study.StudyCode,
		"title":        study.Title,
		"status":       study.Status,
		"sponsor":      study.Sponsor,
		"species":      study.Species,
		"strain":       study.Strain,
		"route":        study.Route,
		"test_article": study.TestArticle,
	}
}

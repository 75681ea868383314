package importer

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm/clause"

	"github.com/mkaplan/sendhub/internal/entity"
	"github.com/mkaplan/sendhub/internal/xpt"
)

// importStudy reads ts.xpt and creates the Study row. If the business key
// already exists the existing internal id is reused and trial summary
// parameters are not touched (first import wins); otherwise the parameters
// are created alongside the study.
func (im *Importer) importStudy(dataDir string, userID uuid.UUID) (uuid.UUID, string, string, error) {
	f, err := xpt.Read(filepath.Join(dataDir, "ts.xpt"))
	if err != nil {
		return uuid.Nil, "", "", fmt.Errorf("trial summary (ts.xpt): %w", err)
	}

	params := make(map[string]string, len(f.Rows))
	for _, row := range f.Rows {
		params[row.Str("TSPARMCD")] = row.Str("TSVAL")
	}

	studyCode := params["STUDYID"]
	if studyCode == "" && len(f.Rows) > 0 {
		studyCode = f.Rows[0].Str("STUDYID")
	}
	if studyCode == "" {
		studyCode = "UNKNOWN"
	}

	title := params["SSTDTL"]
	if title == "" {
		title = params["TITLE"]
	}
	if title == "" {
		title = studyCode
	}

	study := entity.Study{
		ID:          uuid.New(),
		StudyCode:   studyCode,
		Title:       title,
		Status:      "completed",
		Sponsor:     params["SPONSOR"],
		Species:     params["SPECIES"],
		Strain:      params["STRAIN"],
		Route:       params["ROUTE"],
		TestArticle: params["TRT"],
		GLPStatus:   params["PLTEFG"],
		SendVersion: params["SNDSVER"],
		CreatedBy:   userID,
	}

	res := im.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&study)
	if res.Error != nil {
		return uuid.Nil, "", "", fmt.Errorf("create study: %w", res.Error)
	}

	if res.RowsAffected == 0 {
		var existing entity.Study
		if err := im.db.Where("study_code = ?", studyCode).First(&existing).Error; err != nil {
			return uuid.Nil, "", "", fmt.Errorf("look up existing study %q: %w", studyCode, err)
		}
		im.logger.Info("Study already exists, reusing", zap.String("study_code", studyCode))
		return existing.ID, studyCode, title, nil
	}

	for _, row := range f.Rows {
		param := entity.TrialSummaryParameter{
			ID:            uuid.New(),
			StudyID:       study.ID,
			Seq:           seqOrDefault(row, "TSSEQ"),
			GroupID:       row.Str("TSGRPID"),
			ParameterCode: row.Str("TSPARMCD"),
			Parameter:     row.Str("TSPARM"),
			Value:         row.Str("TSVAL"),
			CreatedBy:     userID,
		}
		if err := im.createSkipConflict(&param); err != nil {
			return uuid.Nil, "", "", fmt.Errorf("create trial summary parameter: %w", err)
		}
	}

	return study.ID, studyCode, title, nil
}

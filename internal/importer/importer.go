// Package importer loads an extracted SEND submission directory into the
// relational store. One Importer handles one import invocation at a time;
// domains run in dependency order because later domains need the study's
// internal id and the subject resolver.
package importer

import (
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mkaplan/sendhub/internal/sendmap"
	"github.com/mkaplan/sendhub/internal/xpt"
)

const findingsBatchSize = 100

type Importer struct {
	db     *gorm.DB
	logger *zap.Logger
}

func New(db *gorm.DB, logger *zap.Logger) *Importer {
	return &Importer{db: db, logger: logger}
}

// Result summarizes one import. DomainCounts carries only domains that were
// actually present, keyed by domain code, with attempted row counts.
type Result struct {
	StudyID      uuid.UUID      `json:"studyId"`
	StudyCode    string         `json:"studyCode"`
	StudyTitle   string         `json:"studyTitle"`
	SubjectCount int            `json:"subjectCount"`
	DomainCounts map[string]int `json:"domainCounts"`
}

// ImportStudy runs the full pipeline against dataDir. The caller must have
// verified that ts.xpt exists; its absence (or a ts.xpt decode failure) is
// fatal. Every insert uses skip-on-conflict semantics, so re-importing the
// same archive converges without duplicating rows.
func (im *Importer) ImportStudy(dataDir string, userID uuid.UUID) (*Result, error) {
	studyID, studyCode, studyTitle, err := im.importStudy(dataDir, userID)
	if err != nil {
		return nil, err
	}

	log := im.logger.With(zap.String("study_code", studyCode))
	log.Info("Importing study", zap.String("data_dir", dataDir))

	if err := im.importTrialArms(dataDir, studyID, userID); err != nil {
		return nil, err
	}
	if err := im.importTrialSets(dataDir, studyID, userID); err != nil {
		return nil, err
	}

	subjects, err := im.importSubjects(dataDir, studyID, userID)
	if err != nil {
		return nil, err
	}

	if err := im.importSubjectElements(dataDir, studyID, subjects, userID); err != nil {
		return nil, err
	}
	if err := im.importExposures(dataDir, studyID, subjects, userID); err != nil {
		return nil, err
	}
	if err := im.importDispositions(dataDir, studyID, subjects, userID); err != nil {
		return nil, err
	}

	domainCounts := make(map[string]int)
	for _, domain := range sendmap.FindingsDomains {
		count, err := im.importFindingsDomain(dataDir, domain, studyID, subjects, userID)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			domainCounts[domain] = count
		}
	}

	commentCount, err := im.importComments(dataDir, studyID, subjects, userID)
	if err != nil {
		return nil, err
	}
	if commentCount > 0 {
		domainCounts["CO"] = commentCount
	}

	if err := im.importSupplemental(dataDir, studyID, subjects, userID); err != nil {
		return nil, err
	}
	if err := im.importRelatedRecords(dataDir, studyID, subjects, userID); err != nil {
		return nil, err
	}

	log.Info("Study import finished",
		zap.Int("subject_count", subjects.count()),
		zap.Int("domains", len(domainCounts)))

	return &Result{
		StudyID:      studyID,
		StudyCode:    studyCode,
		StudyTitle:   studyTitle,
		SubjectCount: subjects.count(),
		DomainCounts: domainCounts,
	}, nil
}

// readOptional decodes an optional domain file. Absent and unreadable files
// both report "domain absent"; only mandatory-file errors abort an import.
func (im *Importer) readOptional(dataDir, filename string) (*xpt.File, bool) {
	f, err := xpt.Read(filepath.Join(dataDir, filename))
	if err != nil {
		if !xpt.IsNotExist(err) {
			im.logger.Warn("Skipping unreadable domain file", zap.String("file", filename), zap.Error(err))
		}
		return nil, false
	}
	return f, true
}

// createSkipConflict inserts value, silently dropping natural-key conflicts.
func (im *Importer) createSkipConflict(value interface{}) error {
	return im.db.Clauses(clause.OnConflict{DoNothing: true}).Create(value).Error
}

func seqOrDefault(row xpt.Row, col string) int {
	if n := row.Int(col); n != nil {
		return *n
	}
	return 1
}

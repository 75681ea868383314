package importer

import (
	"fmt"
	"os"
	"regexp"

	"github.com/google/uuid"

	"github.com/mkaplan/sendhub/internal/entity"
)

// Supplemental-qualifier files are not a fixed vocabulary (SUPPMA, SUPPMI,
// ...), so they are discovered by scanning the working directory instead of
// iterating the domain dispatch table.
var suppFilePattern = regexp.MustCompile(`(?i)^supp.*\.xpt$`)

func (im *Importer) importComments(dataDir string, studyID uuid.UUID, subjects *subjectResolver, userID uuid.UUID) (int, error) {
	f, ok := im.readOptional(dataDir, "co.xpt")
	if !ok {
		return 0, nil
	}

	for _, row := range f.Rows {
		value := row.Str("COVAL")
		if value == "" {
			value = "(empty)"
		}
		usubjid := row.Str("USUBJID")
		comment := entity.Comment{
			ID:            uuid.New(),
			StudyID:       studyID,
			SubjectID:     subjects.ref(usubjid),
			Usubjid:       usubjid,
			RelatedDomain: row.Str("RDOMAIN"),
			Seq:           seqOrDefault(row, "COSEQ"),
			IDVar:         row.Str("IDVAR"),
			IDVarValue:    row.Str("IDVARVAL"),
			CommentValue:  value,
			CommentDate:   row.Date("CODTC"),
			CreatedBy:     userID,
		}
		if err := im.createSkipConflict(&comment); err != nil {
			return 0, fmt.Errorf("create comment: %w", err)
		}
	}
	return len(f.Rows), nil
}

func (im *Importer) importSupplemental(dataDir string, studyID uuid.UUID, subjects *subjectResolver, userID uuid.UUID) error {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return fmt.Errorf("scan for supplemental files: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !suppFilePattern.MatchString(entry.Name()) {
			continue
		}

		f, ok := im.readOptional(dataDir, entry.Name())
		if !ok {
			continue
		}

		for _, row := range f.Rows {
			usubjid := row.Str("USUBJID")
			qualifier := entity.SupplementalQualifier{
				ID:             uuid.New(),
				StudyID:        studyID,
				SubjectID:      subjects.ref(usubjid),
				Usubjid:        usubjid,
				RelatedDomain:  row.Str("RDOMAIN"),
				IDVar:          row.Str("IDVAR"),
				IDVarValue:     row.Str("IDVARVAL"),
				QualifierName:  row.Str("QNAM"),
				QualifierLabel: row.Str("QLABEL"),
				QualifierValue: row.Str("QVAL"),
				Origin:         row.Str("QORIG"),
				Evaluator:      row.Str("QEVAL"),
				CreatedBy:      userID,
			}
			if err := im.createSkipConflict(&qualifier); err != nil {
				return fmt.Errorf("create supplemental qualifier from %s: %w", entry.Name(), err)
			}
		}
	}
	return nil
}

func (im *Importer) importRelatedRecords(dataDir string, studyID uuid.UUID, subjects *subjectResolver, userID uuid.UUID) error {
	f, ok := im.readOptional(dataDir, "relrec.xpt")
	if !ok {
		return nil
	}

	for _, row := range f.Rows {
		record := entity.RelatedRecord{
			ID:            uuid.New(),
			StudyID:       studyID,
			SubjectID:     subjects.ref(row.Str("USUBJID")),
			RelatedDomain: row.Str("RDOMAIN"),
			IDVar:         row.Str("IDVAR"),
			IDVarValue:    row.Str("IDVARVAL"),
			RelationType:  row.Str("RELTYPE"),
			RelationID:    row.Str("RELID"),
			CreatedBy:     userID,
		}
		if err := im.createSkipConflict(&record); err != nil {
			return fmt.Errorf("create related record: %w", err)
		}
	}
	return nil
}

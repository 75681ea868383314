package importer

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/mkaplan/sendhub/internal/entity"
)

// The SE, EX and DS tables require a resolved subject; rows whose USUBJID
// is not in the resolver are skipped without failing the import.

func (im *Importer) importSubjectElements(dataDir string, studyID uuid.UUID, subjects *subjectResolver, userID uuid.UUID) error {
	f, ok := im.readOptional(dataDir, "se.xpt")
	if !ok {
		return nil
	}

	for _, row := range f.Rows {
		subjectID, ok := subjects.resolve(row.Str("USUBJID"))
		if !ok {
			continue
		}

		element := entity.SubjectElement{
			ID:        uuid.New(),
			StudyID:   studyID,
			SubjectID: subjectID,
			Seq:       seqOrDefault(row, "SESEQ"),
			Etcd:      row.Str("ETCD"),
			Element:   row.Str("ELEMENT"),
			Sestdtc:   row.Date("SESTDTC"),
			Seendtc:   row.Date("SEENDTC"),
			Epoch:     row.Str("EPOCH"),
			CreatedBy: userID,
		}
		if err := im.createSkipConflict(&element); err != nil {
			return fmt.Errorf("create subject element: %w", err)
		}
	}
	return nil
}

func (im *Importer) importExposures(dataDir string, studyID uuid.UUID, subjects *subjectResolver, userID uuid.UUID) error {
	f, ok := im.readOptional(dataDir, "ex.xpt")
	if !ok {
		return nil
	}

	for _, row := range f.Rows {
		subjectID, ok := subjects.resolve(row.Str("USUBJID"))
		if !ok {
			continue
		}

		exposure := entity.Exposure{
			ID:            uuid.New(),
			StudyID:       studyID,
			SubjectID:     subjectID,
			Seq:           seqOrDefault(row, "EXSEQ"),
			Treatment:     row.Str("EXTRT"),
			Dose:          row.Num("EXDOSE"),
			DoseUnit:      row.Str("EXDOSU"),
			DoseForm:      row.Str("EXDOSFRM"),
			DoseFrequency: row.Str("EXDOSFRQ"),
			Route:         row.Str("EXROUTE"),
			LotNumber:     row.Str("EXLOT"),
			Vehicle:       row.Str("EXTRTV"),
			StartDate:     row.Date("EXSTDTC"),
			EndDate:       row.Date("EXENDTC"),
			StartDay:      row.Int("EXSTDY"),
			EndDay:        row.Int("EXENDY"),
			CreatedBy:     userID,
		}
		if err := im.createSkipConflict(&exposure); err != nil {
			return fmt.Errorf("create exposure: %w", err)
		}
	}
	return nil
}

func (im *Importer) importDispositions(dataDir string, studyID uuid.UUID, subjects *subjectResolver, userID uuid.UUID) error {
	f, ok := im.readOptional(dataDir, "ds.xpt")
	if !ok {
		return nil
	}

	for _, row := range f.Rows {
		subjectID, ok := subjects.resolve(row.Str("USUBJID"))
		if !ok {
			continue
		}

		disposition := entity.Disposition{
			ID:          uuid.New(),
			StudyID:     studyID,
			SubjectID:   subjectID,
			Seq:         seqOrDefault(row, "DSSEQ"),
			Category:    row.Str("DSCAT"),
			Term:        row.Str("DSTERM"),
			DecodedTerm: row.Str("DSDECOD"),
			VisitDay:    row.Int("VISITDY"),
			StartDate:   row.Date("DSSTDTC"),
			StartDay:    row.Int("DSSTDY"),
			CreatedBy:   userID,
		}
		if err := im.createSkipConflict(&disposition); err != nil {
			return fmt.Errorf("create disposition: %w", err)
		}
	}
	return nil
}

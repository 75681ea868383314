package importer

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm/clause"

	"github.com/mkaplan/sendhub/internal/entity"
)

// subjectResolver maps business subject identifiers (USUBJID) to internal
// ids for the duration of one import. Populated once from demographics and
// read by every subject-scoped importer afterwards.
type subjectResolver struct {
	ids map[string]uuid.UUID
}

func newSubjectResolver() *subjectResolver {
	return &subjectResolver{ids: make(map[string]uuid.UUID)}
}

func (r *subjectResolver) add(usubjid string, id uuid.UUID) {
	r.ids[usubjid] = id
}

func (r *subjectResolver) resolve(usubjid string) (uuid.UUID, bool) {
	id, ok := r.ids[usubjid]
	return id, ok
}

// ref returns a nullable reference for domains that tolerate orphaned
// subject identifiers.
func (r *subjectResolver) ref(usubjid string) *uuid.UUID {
	if id, ok := r.ids[usubjid]; ok {
		return &id
	}
	return nil
}

func (r *subjectResolver) count() int {
	return len(r.ids)
}

// importSubjects loads dm.xpt and builds the resolver. A subject that
// already exists from a prior import is looked up by (study, USUBJID) and
// mapped to its existing internal id.
func (im *Importer) importSubjects(dataDir string, studyID, userID uuid.UUID) (*subjectResolver, error) {
	resolver := newSubjectResolver()

	f, ok := im.readOptional(dataDir, "dm.xpt")
	if !ok {
		return resolver, nil
	}

	for _, row := range f.Rows {
		usubjid := row.Str("USUBJID")
		sex := row.Str("SEX")
		if sex == "" {
			sex = "U"
		}

		subject := entity.Subject{
			ID:        uuid.New(),
			StudyID:   studyID,
			Usubjid:   usubjid,
			Subjid:    row.Str("SUBJID"),
			Sex:       sex,
			Species:   row.Str("SPECIES"),
			Strain:    row.Str("STRAIN"),
			Sbstrain:  row.Str("SBSTRAIN"),
			ArmCode:   row.Str("ARMCD"),
			Arm:       row.Str("ARM"),
			SetCode:   row.Str("SETCD"),
			Rfstdtc:   row.Date("RFSTDTC"),
			Rfendtc:   row.Date("RFENDTC"),
			Rficdtc:   row.Date("RFICDTC"),
			Dthdtc:    row.Date("DTHDTC"),
			Dthfl:     row.Str("DTHFL"),
			Siteid:    row.Str("SITEID"),
			Brthdtc:   row.Date("BRTHDTC"),
			Agetxt:    row.Str("AGETXT"),
			Ageu:      row.Str("AGEU"),
			CreatedBy: userID,
		}

		res := im.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&subject)
		if res.Error != nil {
			return nil, fmt.Errorf("create subject %q: %w", usubjid, res.Error)
		}

		if res.RowsAffected > 0 {
			resolver.add(usubjid, subject.ID)
			continue
		}

		var existing entity.Subject
		err := im.db.Where("study_id = ? AND usubjid = ?", studyID, usubjid).First(&existing).Error
		if err != nil {
			return nil, fmt.Errorf("look up existing subject %q: %w", usubjid, err)
		}
		resolver.add(usubjid, existing.ID)
	}

	return resolver, nil
}

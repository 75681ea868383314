package importer

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mkaplan/sendhub/internal/entity"
)

// DeleteStudy removes a study and every record imported under it, children
// first, in one transaction. Deletes are permanent rather than soft:
// imported rows are insert-only, and a soft-deleted study would keep its
// study code occupied in the unique index and block any later re-import.
func (im *Importer) DeleteStudy(studyID uuid.UUID) error {
	return im.db.Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{
			&entity.SubjectElement{},
			&entity.Exposure{},
			&entity.Disposition{},
			&entity.Finding{},
			&entity.Comment{},
			&entity.SupplementalQualifier{},
			&entity.RelatedRecord{},
			&entity.TrialArm{},
			&entity.TrialSet{},
			&entity.TrialSummaryParameter{},
			&entity.Subject{},
			&entity.ImportRun{},
		} {
			if err := tx.Unscoped().Where("study_id = ?", studyID).Delete(model).Error; err != nil {
				return fmt.Errorf("delete study records: %w", err)
			}
		}

		if err := tx.Unscoped().Where("id = ?", studyID).Delete(&entity.Study{}).Error; err != nil {
			return fmt.Errorf("delete study: %w", err)
		}
		return nil
	})
}

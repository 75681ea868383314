package importer

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm/clause"

	"github.com/mkaplan/sendhub/internal/entity"
	"github.com/mkaplan/sendhub/internal/sendmap"
)

// importFindingsDomain loads <domain>.xpt into the unified findings table
// in batches. The returned count is the number of rows attempted; rows with
// an unresolvable USUBJID persist with a null subject reference and still
// count.
func (im *Importer) importFindingsDomain(dataDir, domain string, studyID uuid.UUID, subjects *subjectResolver, userID uuid.UUID) (int, error) {
	f, ok := im.readOptional(dataDir, strings.ToLower(domain)+".xpt")
	if !ok {
		return 0, nil
	}
	if len(f.Rows) == 0 {
		return 0, nil
	}

	count := 0
	for start := 0; start < len(f.Rows); start += findingsBatchSize {
		end := start + findingsBatchSize
		if end > len(f.Rows) {
			end = len(f.Rows)
		}

		batch := make([]entity.Finding, 0, end-start)
		for _, row := range f.Rows[start:end] {
			finding := sendmap.MapFinding(domain, f.Columns, row)
			finding.ID = uuid.New()
			finding.StudyID = studyID
			finding.Usubjid = row.Str("USUBJID")
			finding.SubjectID = subjects.ref(finding.Usubjid)
			finding.CreatedBy = userID
			batch = append(batch, finding)
		}

		if err := im.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&batch).Error; err != nil {
			return count, fmt.Errorf("create %s findings batch: %w", domain, err)
		}
		count += len(batch)
	}

	im.logger.Debug("Imported findings domain",
		zap.String("domain", domain),
		zap.Int("rows", count))

	return count, nil
}

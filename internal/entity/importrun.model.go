package entity

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ImportRunCompleted = "completed"
	ImportRunFailed    = "failed"
)

// ImportRun records one import attempt: who ran it, what it produced, and
// the per-domain row counts reported back to the client.
type ImportRun struct {
	gorm.Model
	ID           uuid.UUID    `gorm:"type:uuid;primary_key" json:"id"`
	StudyID      *uuid.UUID   `gorm:"type:uuid;index:idx_import_runs_study_id" json:"study_id"`
	StudyCode    string       `gorm:"type:varchar(100)" json:"study_code"`
	Status       string       `gorm:"type:varchar(20);not null" json:"status"`
	SubjectCount int          `json:"subject_count"`
	DomainCounts DomainCounts `gorm:"type:jsonb" json:"domain_counts"`
	ErrorMessage string       `gorm:"type:text" json:"error_message"`
	CreatedBy    uuid.UUID    `gorm:"type:uuid;not null" json:"created_by"`
}

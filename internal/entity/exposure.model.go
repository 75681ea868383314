package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Exposure is one dosing record (EX domain).
type Exposure struct {
	gorm.Model
	ID            uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	StudyID       uuid.UUID  `gorm:"type:uuid;not null" json:"study_id"`
	SubjectID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_exposures_subject_seq" json:"subject_id"`
	Seq           int        `gorm:"not null;uniqueIndex:idx_exposures_subject_seq" json:"seq"`
	Treatment     string     `gorm:"type:varchar(200);not null" json:"treatment"`
	Dose          *float64   `json:"dose"`
	DoseUnit      string     `gorm:"type:varchar(50)" json:"dose_unit"`
	DoseForm      string     `gorm:"type:varchar(100)" json:"dose_form"`
	DoseFrequency string     `gorm:"type:varchar(50)" json:"dose_frequency"`
	Route         string     `gorm:"type:varchar(100)" json:"route"`
	LotNumber     string     `gorm:"type:varchar(100)" json:"lot_number"`
	Vehicle       string     `gorm:"type:varchar(100)" json:"vehicle"`
	StartDate     *time.Time `json:"start_date"`
	EndDate       *time.Time `json:"end_date"`
	StartDay      *int       `json:"start_day"`
	EndDay        *int       `json:"end_day"`
	CreatedBy     uuid.UUID  `gorm:"type:uuid;not null" json:"created_by"`
}

// Disposition is one subject disposition event (DS domain).
type Disposition struct {
	gorm.Model
	ID          uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	StudyID     uuid.UUID  `gorm:"type:uuid;not null" json:"study_id"`
	SubjectID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_dispositions_subject_seq" json:"subject_id"`
	Seq         int        `gorm:"not null;uniqueIndex:idx_dispositions_subject_seq" json:"seq"`
	Category    string     `gorm:"type:varchar(200)" json:"category"`
	Term        string     `gorm:"type:varchar(200);not null" json:"term"`
	DecodedTerm string     `gorm:"type:varchar(200)" json:"decoded_term"`
	VisitDay    *int       `json:"visit_day"`
	StartDate   *time.Time `json:"start_date"`
	StartDay    *int       `json:"start_day"`
	CreatedBy   uuid.UUID  `gorm:"type:uuid;not null" json:"created_by"`
}

package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Finding is the unified table for the 16 findings domains (BG, BW, CL, DD,
// EG, FW, LB, MA, MI, OM, PC, PM, PP, SC, TF, VS). Canonical fields shared
// across domains get columns; anything else lands in DomainData. SubjectID
// stays null when the row references a subject absent from demographics.
// The natural key uses the raw USUBJID string instead of SubjectID: a
// nullable column in a unique index would let orphan rows bypass
// skip-on-conflict (SQL treats NULLs as distinct).
type Finding struct {
	gorm.Model
	ID                    uuid.UUID   `gorm:"type:uuid;primary_key" json:"id"`
	StudyID               uuid.UUID   `gorm:"type:uuid;not null;index:idx_findings_study_domain;uniqueIndex:idx_findings_study_domain_usubjid_seq" json:"study_id"`
	SubjectID             *uuid.UUID  `gorm:"type:uuid;index:idx_findings_subject" json:"subject_id"`
	Usubjid               string      `gorm:"type:varchar(200);not null;uniqueIndex:idx_findings_study_domain_usubjid_seq" json:"usubjid"`
	Domain                string      `gorm:"type:varchar(2);not null;index:idx_findings_study_domain;uniqueIndex:idx_findings_study_domain_usubjid_seq" json:"domain"`
	Seq                   int         `gorm:"not null;uniqueIndex:idx_findings_study_domain_usubjid_seq" json:"seq"`
	TestCode              string      `gorm:"type:varchar(50);not null" json:"test_code"`
	TestName              string      `gorm:"type:varchar(200);not null" json:"test_name"`
	Category              string      `gorm:"type:varchar(200)" json:"category"`
	Subcategory           string      `gorm:"type:varchar(200)" json:"subcategory"`
	OriginalResult        string      `gorm:"type:text" json:"original_result"`
	OriginalUnit          string      `gorm:"type:varchar(50)" json:"original_unit"`
	StandardResult        string      `gorm:"type:varchar(200)" json:"standard_result"`
	StandardResultNumeric *float64    `json:"standard_result_numeric"`
	StandardUnit          string      `gorm:"type:varchar(50)" json:"standard_unit"`
	ResultCategory        string      `gorm:"type:varchar(100)" json:"result_category"`
	FindingStatus         string      `gorm:"type:varchar(20)" json:"finding_status"`
	ReasonNotDone         string      `gorm:"type:varchar(200)" json:"reason_not_done"`
	Specimen              string      `gorm:"type:varchar(100)" json:"specimen"`
	AnatomicalRegion      string      `gorm:"type:varchar(100)" json:"anatomical_region"`
	Laterality            string      `gorm:"type:varchar(20)" json:"laterality"`
	Severity              string      `gorm:"type:varchar(50)" json:"severity"`
	Method                string      `gorm:"type:varchar(100)" json:"method"`
	BaselineFlag          string      `gorm:"type:varchar(1)" json:"baseline_flag"`
	Location              string      `gorm:"type:varchar(100)" json:"location"`
	DeathRelation         string      `gorm:"type:varchar(50)" json:"death_relation"`
	VisitDay              *int        `json:"visit_day"`
	DateCollected         *time.Time  `json:"date_collected"`
	EndDate               *time.Time  `json:"end_date"`
	StudyDay              *int        `json:"study_day"`
	EndDay                *int        `json:"end_day"`
	DomainData            ExtraFields `gorm:"type:jsonb" json:"domain_data"`
	CreatedBy             uuid.UUID   `gorm:"type:uuid;not null" json:"created_by"`
}

package entity

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Study struct {
	gorm.Model
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	StudyCode   string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_studies_study_code" json:"study_code"`
	Title       string    `gorm:"type:varchar(500);not null" json:"title"`
	Status      string    `gorm:"type:varchar(20);not null;default:'completed'" json:"status"`
	Sponsor     string    `gorm:"type:varchar(200)" json:"sponsor"`
	Species     string    `gorm:"type:varchar(100)" json:"species"`
	Strain      string    `gorm:"type:varchar(100)" json:"strain"`
	Route       string    `gorm:"type:varchar(100)" json:"route"`
	TestArticle string    `gorm:"type:varchar(200)" json:"test_article"`
	GLPStatus   string    `gorm:"type:varchar(50)" json:"glp_status"`
	SendVersion string    `gorm:"type:varchar(20)" json:"send_version"`
	CreatedBy   uuid.UUID `gorm:"type:uuid;not null" json:"created_by"`
}

type TrialSummaryParameter struct {
	gorm.Model
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	StudyID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_tsparams_study_code_seq" json:"study_id"`
	Seq           int       `gorm:"not null;uniqueIndex:idx_tsparams_study_code_seq" json:"seq"`
	GroupID       string    `gorm:"type:varchar(50)" json:"group_id"`
	ParameterCode string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_tsparams_study_code_seq" json:"parameter_code"`
	Parameter     string    `gorm:"type:varchar(200);not null" json:"parameter"`
	Value         string    `gorm:"type:text;not null" json:"value"`
	CreatedBy     uuid.UUID `gorm:"type:uuid;not null" json:"created_by"`
}

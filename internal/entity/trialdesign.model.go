package entity

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TrialArm is one row of the TA domain: an element of a treatment arm.
type TrialArm struct {
	gorm.Model
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	StudyID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_trial_arms_study_arm_order" json:"study_id"`
	ArmCode   string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_trial_arms_study_arm_order" json:"arm_code"`
	Arm       string    `gorm:"type:varchar(200);not null" json:"arm"`
	Taetord   *int      `gorm:"uniqueIndex:idx_trial_arms_study_arm_order" json:"taetord"`
	Etcd      string    `gorm:"type:varchar(20)" json:"etcd"`
	Element   string    `gorm:"type:varchar(200)" json:"element"`
	Tabranch  string    `gorm:"type:varchar(200)" json:"tabranch"`
	Epoch     string    `gorm:"type:varchar(200)" json:"epoch"`
	CreatedBy uuid.UUID `gorm:"type:uuid;not null" json:"created_by"`
}

// TrialSet is one row of the TX domain: a dose-group parameter.
type TrialSet struct {
	gorm.Model
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	StudyID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_trial_sets_study_set_seq" json:"study_id"`
	SetCode        string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_trial_sets_study_set_seq" json:"set_code"`
	SetDescription string    `gorm:"type:varchar(200);not null" json:"set_description"`
	Seq            *int      `gorm:"uniqueIndex:idx_trial_sets_study_set_seq" json:"seq"`
	ParameterCode  string    `gorm:"type:varchar(20)" json:"parameter_code"`
	Parameter      string    `gorm:"type:varchar(200)" json:"parameter"`
	Value          string    `gorm:"type:text" json:"value"`
	CreatedBy      uuid.UUID `gorm:"type:uuid;not null" json:"created_by"`
}

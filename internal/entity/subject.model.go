package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Subject is one animal (DM domain). (StudyID, Usubjid) is the business key.
type Subject struct {
	gorm.Model
	ID        uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	StudyID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_subjects_study_id;uniqueIndex:idx_subjects_study_usubjid" json:"study_id"`
	Usubjid   string     `gorm:"type:varchar(100);not null;uniqueIndex:idx_subjects_study_usubjid" json:"usubjid"`
	Subjid    string     `gorm:"type:varchar(50);not null" json:"subjid"`
	Sex       string     `gorm:"type:varchar(10);not null" json:"sex"`
	Species   string     `gorm:"type:varchar(100)" json:"species"`
	Strain    string     `gorm:"type:varchar(100)" json:"strain"`
	Sbstrain  string     `gorm:"type:varchar(100)" json:"sbstrain"`
	ArmCode   string     `gorm:"type:varchar(20)" json:"arm_code"`
	Arm       string     `gorm:"type:varchar(200)" json:"arm"`
	SetCode   string     `gorm:"type:varchar(20)" json:"set_code"`
	Rfstdtc   *time.Time `json:"rfstdtc"`
	Rfendtc   *time.Time `json:"rfendtc"`
	Rficdtc   *time.Time `json:"rficdtc"`
	Dthdtc    *time.Time `json:"dthdtc"`
	Dthfl     string     `gorm:"type:varchar(1)" json:"dthfl"`
	Siteid    string     `gorm:"type:varchar(50)" json:"siteid"`
	Brthdtc   *time.Time `json:"brthdtc"`
	Agetxt    string     `gorm:"type:varchar(20)" json:"agetxt"`
	Ageu      string     `gorm:"type:varchar(20)" json:"ageu"`
	CreatedBy uuid.UUID  `gorm:"type:uuid;not null" json:"created_by"`
}

// SubjectElement is one epoch/element assignment (SE domain).
type SubjectElement struct {
	gorm.Model
	ID        uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	StudyID   uuid.UUID  `gorm:"type:uuid;not null" json:"study_id"`
	SubjectID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_subject_elements_subject_seq" json:"subject_id"`
	Seq       int        `gorm:"not null;uniqueIndex:idx_subject_elements_subject_seq" json:"seq"`
	Etcd      string     `gorm:"type:varchar(20)" json:"etcd"`
	Element   string     `gorm:"type:varchar(200)" json:"element"`
	Sestdtc   *time.Time `json:"sestdtc"`
	Seendtc   *time.Time `json:"seendtc"`
	Epoch     string     `gorm:"type:varchar(200)" json:"epoch"`
	CreatedBy uuid.UUID  `gorm:"type:uuid;not null" json:"created_by"`
}

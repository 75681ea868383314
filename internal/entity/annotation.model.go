package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment is one CO row. It references another record generically via
// (RelatedDomain, IDVar, IDVarValue) since the target domain varies per row.
// Natural keys carry the raw USUBJID string rather than the nullable
// SubjectID so skip-on-conflict also covers unresolved subjects.
type Comment struct {
	gorm.Model
	ID            uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	StudyID       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_comments_study_usubjid_domain_seq" json:"study_id"`
	SubjectID     *uuid.UUID `gorm:"type:uuid" json:"subject_id"`
	Usubjid       string     `gorm:"type:varchar(200);not null;uniqueIndex:idx_comments_study_usubjid_domain_seq" json:"usubjid"`
	RelatedDomain string     `gorm:"type:varchar(2);uniqueIndex:idx_comments_study_usubjid_domain_seq" json:"related_domain"`
	Seq           int        `gorm:"not null;uniqueIndex:idx_comments_study_usubjid_domain_seq" json:"seq"`
	IDVar         string     `gorm:"type:varchar(50)" json:"id_var"`
	IDVarValue    string     `gorm:"type:varchar(200)" json:"id_var_value"`
	CommentValue  string     `gorm:"type:text;not null" json:"comment_value"`
	CommentDate   *time.Time `json:"comment_date"`
	CreatedBy     uuid.UUID  `gorm:"type:uuid;not null" json:"created_by"`
}

// SupplementalQualifier is one SUPP-- row (SUPPMA, SUPPMI, ...).
type SupplementalQualifier struct {
	gorm.Model
	ID             uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	StudyID        uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_supp_qualifiers_natural" json:"study_id"`
	SubjectID      *uuid.UUID `gorm:"type:uuid" json:"subject_id"`
	Usubjid        string     `gorm:"type:varchar(200);not null;uniqueIndex:idx_supp_qualifiers_natural" json:"usubjid"`
	RelatedDomain  string     `gorm:"type:varchar(2);not null;uniqueIndex:idx_supp_qualifiers_natural" json:"related_domain"`
	IDVar          string     `gorm:"type:varchar(50);uniqueIndex:idx_supp_qualifiers_natural" json:"id_var"`
	IDVarValue     string     `gorm:"type:varchar(200);uniqueIndex:idx_supp_qualifiers_natural" json:"id_var_value"`
	QualifierName  string     `gorm:"type:varchar(50);not null;uniqueIndex:idx_supp_qualifiers_natural" json:"qualifier_name"`
	QualifierLabel string     `gorm:"type:varchar(200)" json:"qualifier_label"`
	QualifierValue string     `gorm:"type:text;not null" json:"qualifier_value"`
	Origin         string     `gorm:"type:varchar(50)" json:"origin"`
	Evaluator      string     `gorm:"type:varchar(200)" json:"evaluator"`
	CreatedBy      uuid.UUID  `gorm:"type:uuid;not null" json:"created_by"`
}

// RelatedRecord is one RELREC row.
type RelatedRecord struct {
	gorm.Model
	ID            uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	StudyID       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_related_records_natural" json:"study_id"`
	SubjectID     *uuid.UUID `gorm:"type:uuid" json:"subject_id"`
	RelatedDomain string     `gorm:"type:varchar(2);not null;uniqueIndex:idx_related_records_natural" json:"related_domain"`
	IDVar         string     `gorm:"type:varchar(50);uniqueIndex:idx_related_records_natural" json:"id_var"`
	IDVarValue    string     `gorm:"type:varchar(200);uniqueIndex:idx_related_records_natural" json:"id_var_value"`
	RelationType  string     `gorm:"type:varchar(50)" json:"relation_type"`
	RelationID    string     `gorm:"type:varchar(50);not null;uniqueIndex:idx_related_records_natural" json:"relation_id"`
	CreatedBy     uuid.UUID  `gorm:"type:uuid;not null" json:"created_by"`
}

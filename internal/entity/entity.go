// Package entity defines the normalized relational schema for imported
// SEND studies. Natural keys are expressed as composite unique indexes so
// that re-importing an archive converges instead of duplicating rows.
package entity

// AllModels lists every model for migration, in FK dependency order.
func AllModels() []interface{} {
	return []interface{}{
		&Study{},
		&TrialSummaryParameter{},
		&TrialArm{},
		&TrialSet{},
		&Subject{},
		&SubjectElement{},
		&Exposure{},
		&Disposition{},
		&Finding{},
		&Comment{},
		&SupplementalQualifier{},
		&RelatedRecord{},
		&ImportRun{},
	}
}

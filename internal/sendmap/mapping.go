package sendmap

import (
	"github.com/mkaplan/sendhub/internal/entity"
	"github.com/mkaplan/sendhub/internal/xpt"
)

// fieldDef binds one canonical finding field to its typed setter.
type fieldDef struct {
	name string
	set  func(f *entity.Finding, row xpt.Row, col string)
}

func strField(name string, dst func(f *entity.Finding) *string) fieldDef {
	return fieldDef{name: name, set: func(f *entity.Finding, row xpt.Row, col string) {
		*dst(f) = row.Str(col)
	}}
}

// findingsSuffixes maps a domain-stripped variable suffix to its canonical
// field. The full per-domain column tables are derived from this at init.
var findingsSuffixes = map[string]fieldDef{
	"TESTCD": strField("test code", func(f *entity.Finding) *string { return &f.TestCode }),
	"TEST":   strField("test name", func(f *entity.Finding) *string { return &f.TestName }),
	"CAT":    strField("category", func(f *entity.Finding) *string { return &f.Category }),
	"SCAT":   strField("subcategory", func(f *entity.Finding) *string { return &f.Subcategory }),
	"ORRES":  strField("original result", func(f *entity.Finding) *string { return &f.OriginalResult }),
	"ORRESU": strField("original unit", func(f *entity.Finding) *string { return &f.OriginalUnit }),
	"STRESC": strField("standard result", func(f *entity.Finding) *string { return &f.StandardResult }),
	"STRESN": {name: "standard result numeric", set: func(f *entity.Finding, row xpt.Row, col string) {
		f.StandardResultNumeric = row.Num(col)
	}},
	"STRESU": strField("standard unit", func(f *entity.Finding) *string { return &f.StandardUnit }),
	"RESCAT": strField("result category", func(f *entity.Finding) *string { return &f.ResultCategory }),
	"STAT":   strField("status", func(f *entity.Finding) *string { return &f.FindingStatus }),
	"REASND": strField("reason not done", func(f *entity.Finding) *string { return &f.ReasonNotDone }),
	"SPEC":   strField("specimen", func(f *entity.Finding) *string { return &f.Specimen }),
	"ANTREG": strField("anatomical region", func(f *entity.Finding) *string { return &f.AnatomicalRegion }),
	"LAT":    strField("laterality", func(f *entity.Finding) *string { return &f.Laterality }),
	"SEV":    strField("severity", func(f *entity.Finding) *string { return &f.Severity }),
	"METHOD": strField("method", func(f *entity.Finding) *string { return &f.Method }),
	"BLFL":   strField("baseline flag", func(f *entity.Finding) *string { return &f.BaselineFlag }),
	"LOC":    strField("location", func(f *entity.Finding) *string { return &f.Location }),
	"DTHREL": strField("death relation", func(f *entity.Finding) *string { return &f.DeathRelation }),
	"DTC": {name: "date collected", set: func(f *entity.Finding, row xpt.Row, col string) {
		f.DateCollected = row.Date(col)
	}},
	"ENDTC": {name: "end date", set: func(f *entity.Finding, row xpt.Row, col string) {
		f.EndDate = row.Date(col)
	}},
	"DY": {name: "study day", set: func(f *entity.Finding, row xpt.Row, col string) {
		f.StudyDay = row.Int(col)
	}},
	"ENDY": {name: "end day", set: func(f *entity.Finding, row xpt.Row, col string) {
		f.EndDay = row.Int(col)
	}},
}

// findingsColumns is the configuration-time dispatch table: for every
// findings domain, full column name → canonical field. Building it up front
// keeps the per-row path to plain map lookups.
var findingsColumns = map[string]map[string]fieldDef{}

// structuralColumns are recognized on every domain and handled outside the
// canonical field table (identity, sequencing, visit day).
var structuralColumns = map[string]map[string]bool{}

func init() {
	for _, domain := range FindingsDomains {
		cols := make(map[string]fieldDef, len(findingsSuffixes))
		for suffix, def := range findingsSuffixes {
			cols[domain+suffix] = def
		}
		findingsColumns[domain] = cols
		structuralColumns[domain] = map[string]bool{
			"STUDYID":      true,
			"DOMAIN":       true,
			"USUBJID":      true,
			domain + "SEQ": true,
			"VISITDY":      true,
		}
	}
}

// MapFinding translates one decoded row of a findings domain into a Finding.
// Canonical columns fill dedicated fields; structural columns are consumed
// by identity handling; every other non-empty column is kept verbatim in
// DomainData so nothing from the source file is dropped.
func MapFinding(domain string, columns []string, row xpt.Row) entity.Finding {
	f := entity.Finding{Domain: domain, Seq: 1}
	if seq := row.Int(domain + "SEQ"); seq != nil {
		f.Seq = *seq
	}
	f.VisitDay = row.Int("VISITDY")

	table := findingsColumns[domain]
	structural := structuralColumns[domain]

	extras := entity.ExtraFields{}
	for _, col := range columns {
		if def, ok := table[col]; ok {
			def.set(&f, row, col)
			continue
		}
		if structural[col] {
			continue
		}
		if v := row.Str(col); v != "" {
			extras[col] = v
		}
	}
	if len(extras) > 0 {
		f.DomainData = extras
	}

	if f.TestCode == "" {
		f.TestCode = row.Str(domain + "TESTCD")
		if f.TestCode == "" {
			f.TestCode = "UNKNOWN"
		}
	}
	if f.TestName == "" {
		f.TestName = row.Str(domain + "TEST")
		if f.TestName == "" {
			f.TestName = f.TestCode
		}
	}

	return f
}

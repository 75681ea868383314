// Package sendmap holds the SEND domain vocabulary and the static column
// mapping that turns domain-prefixed variables into canonical finding fields.
package sendmap

// FindingsDomains are the observational domains unified into the findings table.
var FindingsDomains = []string{
	"BG", "BW", "CL", "DD", "EG", "FW", "LB", "MA",
	"MI", "OM", "PC", "PM", "PP", "SC", "TF", "VS",
}

// TrialDesignDomains hold study-level reference data.
var TrialDesignDomains = []string{"TA", "TE", "TS", "TX"}

// SpecialPurposeDomains are subject-scoped or cross-domain record families.
var SpecialPurposeDomains = []string{"CO", "DM", "DS", "EX", "SE"}

// DomainLabels maps a domain code to its human-readable name.
var DomainLabels = map[string]string{
	"BG": "Body Weight Gains",
	"BW": "Body Weights",
	"CL": "Clinical Observations",
	"DD": "Death Details",
	"EG": "ECG/Electrocardiogram",
	"FW": "Food/Water Consumption",
	"LB": "Laboratory Results",
	"MA": "Macroscopic Findings",
	"MI": "Microscopic Findings",
	"OM": "Organ Measurements",
	"PC": "Pharmacokinetic Concentrations",
	"PM": "Palpable Masses",
	"PP": "Pharmacokinetic Parameters",
	"SC": "Subject Characteristics",
	"TF": "Tumor Findings",
	"VS": "Vital Signs",
	"TA": "Trial Arms",
	"TE": "Trial Elements",
	"TS": "Trial Summary",
	"TX": "Trial Sets",
	"CO": "Comments",
	"DM": "Demographics",
	"DS": "Disposition",
	"EX": "Exposure",
	"SE": "Subject Elements",
}

// IsFindingsDomain reports whether code is one of the 16 findings domains.
func IsFindingsDomain(code string) bool {
	for _, d := range FindingsDomains {
		if d == code {
			return true
		}
	}
	return false
}

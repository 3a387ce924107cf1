package model

// Source is one tabular input to load into the table registry. Name becomes
// the registry key steps use as lookupTable.
type Source struct {
	Name string `json:"name"`
	Type string `json:"type"` // csv, json
	URL  string `json:"url"`  // file path or http(s) URL
}

// Export defines where the final table goes after a successful run.
type Export struct {
	DB   string `json:"db,omitempty"`   // non-empty: persist result in the run store
	File string `json:"file,omitempty"` // e.g. output.csv or output.json
}

// AnalysisJobSpec is the full configuration for one analysis run: the tables
// to load, which one the steps apply to, and the ordered steps themselves.
type AnalysisJobSpec struct {
	Sources   []Source         `json:"sources"`
	BaseTable string           `json:"baseTable,omitempty"` // defaults to the first source's name
	Steps     []StepDefinition `json:"steps"`
	Export    *Export          `json:"export,omitempty"`
	Timeout   string           `json:"timeout,omitempty"` // e.g. "5m"
}

// Base returns the name of the table the pipeline runs against.
func (s AnalysisJobSpec) Base() string {
	if s.BaseTable != "" {
		return s.BaseTable
	}
	if len(s.Sources) > 0 {
		return s.Sources[0].Name
	}
	return ""
}

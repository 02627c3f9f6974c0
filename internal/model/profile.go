package model

import "strings"

// CompanyProfile is the structured extraction output produced by a
// backend run. Field keys follow the baseline's field names.
type CompanyProfile struct {
	Fields map[string]any `json:"fields"`
}

// Field reads a profile attribute by name. Lookup is exact first, then
// case-insensitive; absent attributes read as nil.
func (p *CompanyProfile) Field(name string) any {
	if p == nil || len(p.Fields) == 0 {
		return nil
	}
	if v, ok := p.Fields[name]; ok {
		return v
	}
	for k, v := range p.Fields {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return nil
}

// ResearchOutput is what the backend-execution primitive returns for one
// backend: the structured profile (possibly nil) plus run metadata.
type ResearchOutput struct {
	Succeeded      bool            `json:"succeeded"`
	WallTime       float64         `json:"wall_time_secs"`
	IterationCount int             `json:"iteration_count"`
	RawOutput      string          `json:"raw_output,omitempty"`
	Profile        *CompanyProfile `json:"profile,omitempty"`
}

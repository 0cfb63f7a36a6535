package models

// Symptom is one entry of the symptom catalog.
type Symptom struct {
	ID    string `yaml:"id" json:"id"`
	Label string `yaml:"label" json:"label"`
}

// DiseaseReference is a read-only catalog entry used for differential lookup.
type DiseaseReference struct {
	ID                string   `yaml:"id" json:"id"`
	Name              string   `yaml:"name" json:"name"`
	AlternateNames    []string `yaml:"alternate_names" json:"alternate_names,omitempty"`
	Species           []string `yaml:"species" json:"species"`
	PrimarySymptoms   []string `yaml:"primary_symptoms" json:"primary_symptoms"`
	SecondarySymptoms []string `yaml:"secondary_symptoms" json:"secondary_symptoms,omitempty"`
	Severity          string   `yaml:"severity" json:"severity,omitempty"`
	Contagious        bool     `yaml:"contagious" json:"contagious"`
	Description       string   `yaml:"description" json:"description,omitempty"`
	Treatment         string   `yaml:"treatment" json:"treatment,omitempty"`
	Prevention        string   `yaml:"prevention" json:"prevention,omitempty"`
}

// DiseaseMatch pairs a catalog entry with how many requested symptoms it explains.
type DiseaseMatch struct {
	Disease        DiseaseReference `json:"disease"`
	MatchCount     int              `json:"match_count"`
	PrimaryMatches int              `json:"primary_matches"`
	Matched        []string         `json:"matched_symptoms"`
}

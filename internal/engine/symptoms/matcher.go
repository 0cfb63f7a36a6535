package symptoms

import (
	"sort"
	"strings"

	"github.com/mamadbah2/herdhealth/internal/domain/models"
)

// Search returns diseases whose name, alternate names or primary symptom
// labels contain query, ignoring case. An empty query matches everything.
// A non-empty species restricts results to diseases affecting that species.
func (c *Catalog) Search(query, species string) []models.DiseaseReference {
	q := normalize(query)
	sp := normalize(species)

	var out []models.DiseaseReference
	for _, d := range c.diseases {
		if sp != "" && !contains(d.Species, sp) {
			continue
		}
		if q != "" && !c.textMatches(d, q) {
			continue
		}
		out = append(out, d)
	}
	return out
}

func (c *Catalog) textMatches(d models.DiseaseReference, q string) bool {
	if strings.Contains(strings.ToLower(d.Name), q) {
		return true
	}
	for _, alt := range d.AlternateNames {
		if strings.Contains(strings.ToLower(alt), q) {
			return true
		}
	}
	for _, s := range d.PrimarySymptoms {
		if strings.Contains(s, q) || strings.Contains(strings.ToLower(c.Label(s)), q) {
			return true
		}
	}
	return false
}

// Rank scores each disease of the given species by how many of the requested
// symptoms it lists as primary or secondary. Diseases with no overlap are
// dropped. Order: match count desc, primary matches desc, disease id asc.
func (c *Catalog) Rank(symptoms []string, species string) []models.DiseaseMatch {
	wanted := normalizeAll(symptoms)
	if len(wanted) == 0 {
		return nil
	}
	sp := normalize(species)

	var out []models.DiseaseMatch
	for _, d := range c.diseases {
		if !contains(d.Species, sp) {
			continue
		}

		m := models.DiseaseMatch{Disease: d}
		counted := make(map[string]struct{}, len(wanted))
		for _, s := range wanted {
			if _, dup := counted[s]; dup {
				continue
			}
			switch {
			case contains(d.PrimarySymptoms, s):
				m.PrimaryMatches++
			case contains(d.SecondarySymptoms, s):
			default:
				continue
			}
			counted[s] = struct{}{}
			m.MatchCount++
			m.Matched = append(m.Matched, s)
		}
		if m.MatchCount > 0 {
			out = append(out, m)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.MatchCount != b.MatchCount {
			return a.MatchCount > b.MatchCount
		}
		if a.PrimaryMatches != b.PrimaryMatches {
			return a.PrimaryMatches > b.PrimaryMatches
		}
		return a.Disease.ID < b.Disease.ID
	})
	return out
}

// MatchBySymptoms is Rank without the match details.
func (c *Catalog) MatchBySymptoms(symptoms []string, species string) []models.DiseaseReference {
	ranked := c.Rank(symptoms, species)
	out := make([]models.DiseaseReference, len(ranked))
	for i, m := range ranked {
		out[i] = m.Disease
	}
	return out
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

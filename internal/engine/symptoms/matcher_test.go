package symptoms

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/herdhealth/internal/domain/models"
)

func mustDefaultCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := DefaultCatalog()
	require.NoError(t, err)
	require.NotZero(t, c.Len())
	return c
}

func ids(diseases []models.DiseaseReference) []string {
	out := make([]string, len(diseases))
	for i, d := range diseases {
		out[i] = d.ID
	}
	return out
}

func TestSearchByNameAlternateNameAndSymptomLabel(t *testing.T) {
	t.Parallel()

	c := mustDefaultCatalog(t)

	assert.Equal(t, []string{"bovine-respiratory-disease"}, ids(c.Search("shipping", "")))
	assert.Equal(t, []string{"bloat"}, ids(c.Search("RUMINAL", "")))
	// "Bottle jaw" is a primary symptom label of barber pole worm.
	assert.Equal(t, []string{"haemonchosis"}, ids(c.Search("bottle jaw", "")))
	assert.Empty(t, c.Search("no such disease", ""))
}

func TestSearchSpeciesFilter(t *testing.T) {
	t.Parallel()

	c := mustDefaultCatalog(t)

	assert.Len(t, c.Search("", ""), c.Len())
	for _, d := range c.Search("", "Pig") {
		assert.Contains(t, d.Species, "pig")
	}
	assert.Contains(t, ids(c.Search("influenza", "pig")), "swine-influenza")
	assert.Empty(t, c.Search("influenza", "cattle"))
}

func TestRankOrdersByMatchCountThenPrimaryThenID(t *testing.T) {
	t.Parallel()

	c := mustDefaultCatalog(t)

	got := c.Rank([]string{"fever", "cough", "Fever"}, "cattle")
	require.NotEmpty(t, got)

	gotIDs := make([]string, len(got))
	for i, m := range got {
		gotIDs[i] = m.Disease.ID
	}
	assert.Equal(t, []string{
		"bovine-respiratory-disease",
		"foot-and-mouth-disease",
		"brucellosis",
		"calf-scours",
		"foot-rot",
		"mastitis",
	}, gotIDs)
	assert.Equal(t, 2, got[0].MatchCount)
	assert.Equal(t, 2, got[0].PrimaryMatches)
	assert.ElementsMatch(t, []string{"fever", "cough"}, got[0].Matched)
}

func TestMatchBySymptomsRequiresSpeciesAndOverlap(t *testing.T) {
	t.Parallel()

	c := mustDefaultCatalog(t)

	assert.Empty(t, c.MatchBySymptoms(nil, "cattle"))
	assert.Empty(t, c.MatchBySymptoms([]string{}, "cattle"))
	assert.Empty(t, c.MatchBySymptoms([]string{"  "}, "cattle"))
	assert.Empty(t, c.MatchBySymptoms([]string{"fever"}, "llama"))

	for _, d := range c.MatchBySymptoms([]string{"itching"}, "pig") {
		assert.Contains(t, d.Species, "pig")
	}
}

func TestRankIgnoresCatalogOrder(t *testing.T) {
	t.Parallel()

	forward := `
diseases:
  - {id: b, name: B, species: [sheep], primary_symptoms: [cough]}
  - {id: a, name: A, species: [sheep], primary_symptoms: [cough]}
  - {id: c, name: C, species: [sheep], primary_symptoms: [fever], secondary_symptoms: [cough]}
`
	reversed := `
diseases:
  - {id: c, name: C, species: [sheep], primary_symptoms: [fever], secondary_symptoms: [cough]}
  - {id: a, name: A, species: [sheep], primary_symptoms: [cough]}
  - {id: b, name: B, species: [sheep], primary_symptoms: [cough]}
`
	c1, err := LoadCatalog(strings.NewReader(forward))
	require.NoError(t, err)
	c2, err := LoadCatalog(strings.NewReader(reversed))
	require.NoError(t, err)

	want := []string{"c", "a", "b"}
	assert.Equal(t, want, ids(c1.MatchBySymptoms([]string{"cough", "fever"}, "sheep")))
	assert.Equal(t, want, ids(c2.MatchBySymptoms([]string{"cough", "fever"}, "sheep")))
}

func TestLoadCatalogRejectsDuplicates(t *testing.T) {
	t.Parallel()

	_, err := LoadCatalog(strings.NewReader(`
diseases:
  - {id: a, name: A}
  - {id: a, name: Again}
`))
	require.Error(t, err)

	_, err = LoadCatalog(strings.NewReader(`diseases: [{name: Nameless}]`))
	require.Error(t, err)
}

func TestLabelFallsBackToID(t *testing.T) {
	t.Parallel()

	c := mustDefaultCatalog(t)
	assert.Equal(t, "Scours (diarrhea)", c.Label("SCOURS"))
	assert.Equal(t, "mystery", c.Label("mystery"))
}

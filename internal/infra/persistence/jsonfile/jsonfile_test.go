package jsonfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/LouYuanbo1/daadcrawler/internal/domain/entity"
	"github.com/LouYuanbo1/daadcrawler/internal/infra/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveWritesPrettyUTF8(t *testing.T) {
	r := entity.NewScholarshipRecord(entity.ListingEntry{
		Title: "Forschungsstipendien für Doktoranden",
		URL:   "https://www2.daad.de/a?x=1&y=2",
	})
	r.Sections.Set("Wer kann sich bewerben?", "Absolventen und Promovierende")

	path := filepath.Join(t.TempDir(), "daad_scholarships.json")
	require.True(t, Save(path, []*entity.ScholarshipRecord{r}, logger.Discard()))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	want := `[
  {
    "title": "Forschungsstipendien für Doktoranden",
    "url": "https://www2.daad.de/a?x=1&y=2",
    "status": "active",
    "summary": null,
    "sections": {
      "Wer kann sich bewerben?": "Absolventen und Promovierende"
    }
  }
]
`
	assert.Equal(t, want, string(b))
}

func TestSaveEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	require.True(t, Save(path, []*entity.ScholarshipRecord{}, logger.Discard()))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(b))
}

func TestSaveFailureIsNotFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "dir", "out.json")
	assert.False(t, Save(path, []*entity.ScholarshipRecord{}, logger.Discard()))
}

func TestSaveKeepsHTMLCharactersInSections(t *testing.T) {
	r := entity.NewScholarshipRecord(entity.ListingEntry{Title: "T & <b>", URL: "https://www2.daad.de/x"})
	r.Sections.Set("Kosten & Förderung <EUR>", "Reise & Aufenthalt für 12 Monate <max>")

	path := filepath.Join(t.TempDir(), "out.json")
	require.True(t, Save(path, []*entity.ScholarshipRecord{r}, logger.Discard()))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(b)
	assert.Contains(t, out, `"title": "T & <b>"`)
	assert.Contains(t, out, `"Kosten & Förderung <EUR>": "Reise & Aufenthalt für 12 Monate <max>"`)
	assert.NotContains(t, out, `\u0026`)
	assert.NotContains(t, out, `\u003c`)
}

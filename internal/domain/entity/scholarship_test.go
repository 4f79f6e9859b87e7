package entity

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// marshal 与 JSON 输出端一致,关闭 HTML 转义
func marshal(t *testing.T, v any) string {
	t.Helper()
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	require.NoError(t, enc.Encode(v))
	return strings.TrimSuffix(buf.String(), "\n")
}

func TestSectionsMarshalKeepsOrderAndHTML(t *testing.T) {
	s := NewSections()
	s.Set("Kosten & Förderung <EUR>", "Reise & Aufenthalt für 12 Monate <max>")
	s.Set("Bewerbung", "Online\\nPortal \"DAAD\"")
	s.Set("Kosten & Förderung <EUR>", "überschrieben & <neu>")

	assert.Equal(t,
		`{"Kosten & Förderung <EUR>":"überschrieben & <neu>","Bewerbung":"Online\\nPortal \"DAAD\""}`,
		marshal(t, s))
}

func TestSectionsMarshalEmpty(t *testing.T) {
	assert.Equal(t, `{}`, marshal(t, NewSections()))

	r := &ScholarshipRecord{Title: "t", Status: StatusActive}
	assert.JSONEq(t, `{"title":"t","url":"","status":"active","summary":null,"sections":null}`, marshal(t, r))
}

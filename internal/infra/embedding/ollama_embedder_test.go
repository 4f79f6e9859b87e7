package embedding

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBaseURL(t *testing.T) {
	assert.Equal(t, "http://localhost:11434", baseURL("http://localhost", 11434))
	assert.Equal(t, "http://localhost:11434", baseURL("http://localhost/", 11434))
	assert.Equal(t, "http://ollama.internal", baseURL("http://ollama.internal", 0))
}

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsXPath(t *testing.T) {
	assert.True(t, IsXPath("//button[contains(text(), 'Accept')]"))
	assert.True(t, IsXPath("(//a)[1]"))
	assert.True(t, IsXPath("  /html/body"))
	assert.False(t, IsXPath("li#bewerbungsvoraussetzungen > a"))
	assert.False(t, IsXPath("#stipdb-submit-detail"))
}

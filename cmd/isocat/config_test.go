package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseConfigValue(t *testing.T) {
	assert.Equal(t, true, parseConfigValue("true"))
	assert.Equal(t, true, parseConfigValue("on"))
	assert.Equal(t, false, parseConfigValue("no"))
	assert.Equal(t, 3, parseConfigValue("3"))
	assert.Equal(t, -7, parseConfigValue("-7"))
	assert.Equal(t, 0.75, parseConfigValue("0.75"))
	assert.Equal(t, "monoexon_only", parseConfigValue("monoexon_only"))
}

package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitMaterialIDs(t *testing.T) {
	ids := []string{
		"6F9619FF-8B86-D011-B42D-00C04FC964FF",
		"cimento",
		"6f9619ff-8b86-d011-b42d-00c04fc964f0",
	}

	canonical, original, malformed := splitMaterialIDs(ids)

	assert.Equal(t, []string{
		"6f9619ff-8b86-d011-b42d-00c04fc964ff",
		"6f9619ff-8b86-d011-b42d-00c04fc964f0",
	}, canonical)
	assert.Equal(t, []string{ids[0], ids[2]}, original)
	assert.Equal(t, []string{"cimento"}, malformed)
}

func TestSplitMaterialIDs_AllMalformed(t *testing.T) {
	canonical, original, malformed := splitMaterialIDs([]string{"", "x"})
	assert.Empty(t, canonical)
	assert.Empty(t, original)
	assert.Equal(t, []string{"", "x"}, malformed)
}

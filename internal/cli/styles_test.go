package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderSequenceStarsFreshModules(t *testing.T) {
	styles := NewStyles(DefaultTheme)

	out := styles.renderSequence([]string{"adult", "juvenile", "adult"}, []bool{false, true, false})
	assert.Contains(t, out, "juvenile*")
	assert.Contains(t, out, "adult")
	assert.NotContains(t, out, "adult*")
}

func TestRenderSequenceEmpty(t *testing.T) {
	styles := NewStyles(DefaultTheme)
	assert.Equal(t, "", styles.renderSequence(nil, nil))
}

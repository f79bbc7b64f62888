package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_AcceptsKnownLevels(t *testing.T) {
	for _, level := range []string{"", "debug", "info", "warn", "error", "INFO"} {
		log, err := New(level)
		require.NoError(t, err, "level %q", level)
		assert.NotNil(t, log)
	}
}

func TestNew_RejectsUnknownLevel(t *testing.T) {
	_, err := New("verbose")

	assert.Error(t, err)
}

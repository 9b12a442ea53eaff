package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCivilPinsLocation(t *testing.T) {
	civil, err := NewCivil("America/Mexico_City")
	require.NoError(t, err)

	now := civil.Now()
	assert.Equal(t, "America/Mexico_City", now.Location().String())
	assert.Equal(t, civil.Location(), now.Location())
	assert.WithinDuration(t, time.Now(), now, time.Second)
}

func TestNewCivilRejectsUnknownZone(t *testing.T) {
	_, err := NewCivil("America/Nowhere")
	assert.Error(t, err)
}

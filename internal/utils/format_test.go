package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatWon(t *testing.T) {
	assert.Equal(t, "30,000원", FormatWon(30000))
	assert.Equal(t, "0원", FormatWon(0))
	assert.Equal(t, "1,250,000원", FormatWon(1250000))
}

func TestFormatDuration(t *testing.T) {
	t.Run("Hours and minutes", func(t *testing.T) {
		assert.Equal(t, "2시간 30분", FormatDuration(150))
	})

	t.Run("Whole hours", func(t *testing.T) {
		assert.Equal(t, "2시간 0분", FormatDuration(120))
	})

	t.Run("Under an hour", func(t *testing.T) {
		assert.Equal(t, "45분", FormatDuration(45))
	})

	t.Run("Negative clamps to zero", func(t *testing.T) {
		assert.Equal(t, "0분", FormatDuration(-5))
	})
}

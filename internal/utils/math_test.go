package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandomFloatRange(t *testing.T) {
	t.Run("stays within range", func(t *testing.T) {
		for i := 0; i < 200; i++ {
			v := RandomFloatRange(-0.05, 0.05)
			assert.GreaterOrEqual(t, v, -0.05)
			assert.Less(t, v, 0.05)
		}
	})

	t.Run("empty or inverted range returns min", func(t *testing.T) {
		assert.Equal(t, 3.0, RandomFloatRange(3, 3))
		assert.Equal(t, 5.0, RandomFloatRange(5, 1))
	})
}

func TestRandomSign_CoversBothSides(t *testing.T) {
	var neg, pos bool
	for i := 0; i < 500 && !(neg && pos); i++ {
		v := RandomSign()
		assert.GreaterOrEqual(t, v, -1.0)
		assert.Less(t, v, 1.0)
		neg = neg || v < 0
		pos = pos || v > 0
	}
	assert.True(t, neg && pos)
}

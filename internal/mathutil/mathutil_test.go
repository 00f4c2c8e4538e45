package mathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMoveTowardsNeverOvershoots(t *testing.T) {
	assert.Equal(t, 0.5, MoveTowards(0, 1, 0.5))
	assert.Equal(t, 1.0, MoveTowards(0.9, 1, 0.5))
	assert.Equal(t, -1.0, MoveTowards(-0.8, -1, 0.5))
	assert.Equal(t, 0.3, MoveTowards(0.3, 1, 0), "zero step leaves value alone")
	assert.Equal(t, 0.3, MoveTowards(0.3, 1, -2), "negative step leaves value alone")
}

func TestLerpClampsFactor(t *testing.T) {
	assert.Equal(t, 10.0, Lerp(10, 20, -1))
	assert.Equal(t, 15.0, Lerp(10, 20, 0.5))
	assert.Equal(t, 20.0, Lerp(10, 20, 3))
}

func TestInverseLerp(t *testing.T) {
	assert.Equal(t, 0.25, InverseLerp(2, 10, 4))
	assert.Equal(t, 1.0, InverseLerp(2, 10, 40))
	assert.Equal(t, 0.0, InverseLerp(2, 10, -4))
	assert.Equal(t, 0.0, InverseLerp(3, 3, 7), "degenerate range")
}

func TestApproximately(t *testing.T) {
	assert.True(t, Approximately(0, 0))
	assert.True(t, Approximately(1000, 1000.0000001))
	assert.False(t, Approximately(0, 0.001))
}

func TestRandIsDeterministic(t *testing.T) {
	a, b := NewRand(42), NewRand(42)
	for range 16 {
		v := a.RangeF(-1, 1)
		assert.Equal(t, v, b.RangeF(-1, 1))
		assert.GreaterOrEqual(t, v, -1.0)
		assert.Less(t, v, 1.0)
	}
	assert.Equal(t, 5.0, NewRand(0).RangeF(5, 5))
}

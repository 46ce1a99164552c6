package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound1(t *testing.T) {
	assert.Equal(t, 75.0, Round1(3.0/4.0*100))
	assert.Equal(t, 33.3, Round1(1.0/3.0*100))
	assert.Equal(t, 66.7, Round1(2.0/3.0*100))
	assert.Equal(t, 100.0, Round1(100))
	assert.Equal(t, 0.0, Round1(0))
	assert.Equal(t, 14.3, Round1(1.0/7.0*100))
}

func TestClampProgress(t *testing.T) {
	assert.Equal(t, 0.0, ClampProgress(-5))
	assert.Equal(t, 100.0, ClampProgress(150))
	assert.Equal(t, 42.5, ClampProgress(42.5))
}

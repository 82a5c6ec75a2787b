package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCloneSlice(t *testing.T) {
	src := []int{1, 2, 3}

	clone := CloneSlice(src, 0)
	assert.Equal(t, src, clone)

	clone[0] = 99
	assert.Equal(t, 1, src[0])

	padded := CloneSlice(src, 5)
	assert.Equal(t, []int{1, 2, 3, 0, 0}, padded)
}

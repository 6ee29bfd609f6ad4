package tensor

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShapeNumElements(t *testing.T) {
	assert.Equal(t, 1, Shape{}.NumElements())
	assert.Equal(t, 5, Shape{5}.NumElements())
	assert.Equal(t, 12, Shape{2, 2, 3}.NumElements())
	assert.Equal(t, 0, Shape{3, 0}.NumElements())
}

func TestShapeCheckedNumElements(t *testing.T) {
	n, ok := Shape{2, 3}.CheckedNumElements()
	assert.True(t, ok)
	assert.Equal(t, 6, n)

	_, ok = Shape{math.MaxInt, 2}.CheckedNumElements()
	assert.False(t, ok)

	_, ok = Shape{2, -1}.CheckedNumElements()
	assert.False(t, ok)

	n, ok = Shape{0, math.MaxInt, 2}.CheckedNumElements()
	assert.True(t, ok)
	assert.Equal(t, 0, n)
}

func TestShapeValidate(t *testing.T) {
	require.NoError(t, Shape{}.Validate())
	require.NoError(t, Shape{0, 4}.Validate())

	err := Shape{2, -3}.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidShape))
}

func TestShapeStrides(t *testing.T) {
	s := Shape{2, 3, 4}
	assert.Equal(t, []int{12, 4, 1}, s.ComputeStrides())
	assert.Equal(t, []int{1, 2, 6}, s.ComputeFortranStrides())
	assert.Empty(t, Shape{}.ComputeStrides())
	assert.Empty(t, Shape{}.ComputeFortranStrides())
}

func TestShapeString(t *testing.T) {
	assert.Equal(t, "()", Shape{}.String())
	assert.Equal(t, "(5,)", Shape{5}.String())
	assert.Equal(t, "(2, 3)", Shape{2, 3}.String())
}

func TestShapeEqualClone(t *testing.T) {
	s := Shape{2, 3}
	c := s.Clone()
	assert.True(t, s.Equal(c))
	c[0] = 7
	assert.False(t, s.Equal(c))
	assert.False(t, s.Equal(Shape{2}))
	assert.Nil(t, Shape(nil).Clone())
}

package gtl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestSampleRangePartitionIsStable(t *testing.T) {
	column := mat.NewVecDense(8, []float64{5, 1, 7, 2, 9, 3, 4, 8})
	r := NewSampleRange(8)
	scratch := make([]int, 8)

	left, right := r.Partition(column, 4, scratch)
	assert.Equal(t, []int{1, 3, 5, 6}, left.Indices())
	assert.Equal(t, []int{0, 2, 4, 7}, right.Indices())
	assert.Equal(t, 4, left.Len())
	assert.Equal(t, 4, right.Len())
	assert.Equal(t, 6, left.At(3))
	assert.Equal(t, 0, right.At(0))

	// partitioning a sub-range only touches its own positions
	ll, lr := left.Partition(column, 2, scratch)
	assert.Equal(t, []int{1, 3}, ll.Indices())
	assert.Equal(t, []int{5, 6}, lr.Indices())
	assert.Equal(t, []int{0, 2, 4, 7}, right.Indices())
}

func TestSampleRangePartitionOneSided(t *testing.T) {
	column := mat.NewVecDense(3, []float64{1, 2, 3})
	r := NewSampleRange(3)
	scratch := make([]int, 3)

	left, right := r.Partition(column, 3, scratch)
	assert.Equal(t, []int{0, 1, 2}, left.Indices())
	assert.Equal(t, 0, right.Len())
}

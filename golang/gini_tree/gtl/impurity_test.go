package gtl

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestGini(t *testing.T) {
	cases := []struct {
		labels []int
		want   float64
	}{
		{[]int{0}, 0},
		{[]int{1, 1, 1}, 0},
		{[]int{0, 1}, 0.5},
		{[]int{0, 0, 1, 1}, 0.5},
		{[]int{0, 0, 0, 1}, 0.375},
		{[]int{0, 1, 1}, 4.0 / 9.0},
	}
	for _, c := range cases {
		got, err := Gini(c.labels, NewSampleRange(len(c.labels)))
		require.NoError(t, err)
		assert.InDelta(t, c.want, got, 1e-12, "labels %v", c.labels)
	}
}

func TestGiniBounds(t *testing.T) {
	// every label vector of length 1..8
	for n := 1; n <= 8; n++ {
		for mask := 0; mask < 1<<n; mask++ {
			labels := make([]int, n)
			ones := 0
			for p := range labels {
				labels[p] = (mask >> p) & 1
				ones += labels[p]
			}
			g, err := Gini(labels, NewSampleRange(n))
			require.NoError(t, err)
			assert.GreaterOrEqual(t, g, 0.0)
			assert.LessOrEqual(t, g, 0.5)
			pure := ones == 0 || ones == n
			assert.Equal(t, pure, g == 0, "labels %v", labels)
		}
	}
}

func TestGiniEmptyRange(t *testing.T) {
	_, err := Gini([]int{0, 1}, SampleRange{order: []int{0, 1}, begin: 1, end: 1})
	require.ErrorIs(t, err, ErrEmptyPartition)

	var invariantErr *InvariantError
	assert.True(t, errors.As(err, &invariantErr))
	assert.False(t, errors.Is(err, ErrInvalidShape))
}

func TestGiniRejectsNonBinaryLabel(t *testing.T) {
	_, err := Gini([]int{0, 2}, NewSampleRange(2))
	require.ErrorIs(t, err, ErrInvalidShape)
}

func TestInformationGain(t *testing.T) {
	column := mat.NewVecDense(4, []float64{1, 2, 3, 4})
	labels := []int{0, 0, 1, 1}
	r := NewSampleRange(4)

	gain, err := InformationGain(column, labels, r, 2)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, gain, 1e-12)

	gain, err = InformationGain(column, labels, r, 1)
	require.NoError(t, err)
	// 0.5 - 3/4 * 4/9
	assert.InDelta(t, 1.0/6.0, gain, 1e-12)
}

func TestInformationGainEmptySide(t *testing.T) {
	column := mat.NewVecDense(3, []float64{1, 2, 3})
	labels := []int{0, 1, 0}
	r := NewSampleRange(3)

	for _, threshold := range []float64{3, 10, 0, -5} {
		gain, err := InformationGain(column, labels, r, threshold)
		require.NoError(t, err)
		assert.Equal(t, 0.0, gain, "threshold %g", threshold)
	}
}

func TestInformationGainNonNegative(t *testing.T) {
	ds := astronautDataSet(t)
	r := NewSampleRange(ds.Height())
	for q := 0; q < ds.Width(); q++ {
		column := ds.Features.ColView(q)
		for p := 0; p < ds.Height(); p++ {
			gain, err := InformationGain(column, ds.Labels, r, column.AtVec(p))
			require.NoError(t, err)
			assert.GreaterOrEqual(t, gain, -1e-12)
		}
	}
}

func TestMajorityClass(t *testing.T) {
	assert.Equal(t, 0, majorityClass([2]int{3, 2}))
	assert.Equal(t, 1, majorityClass([2]int{2, 3}))
	assert.Equal(t, 1, majorityClass([2]int{2, 2}))
}

package gtl

import "gonum.org/v1/gonum/mat"

//SampleRange is a view over the half interval [begin, end) of a sample order.
//The order slice is shared between a range and the sub-ranges produced by Partition.
type SampleRange struct {
	order      []int
	begin, end int
}

//NewSampleRange covers the samples 0..n-1 in their natural order.
func NewSampleRange(n int) SampleRange {
	order := make([]int, n)
	for p := range order {
		order[p] = p
	}
	return SampleRange{order, 0, n}
}

//Len returns the number of samples in the range.
func (r SampleRange) Len() int {
	return r.end - r.begin
}

//At returns the sample index at position pos of the range.
func (r SampleRange) At(pos int) int {
	return r.order[r.begin+pos]
}

//Indices returns the sample indices of the range. The slice aliases the shared order.
func (r SampleRange) Indices() []int {
	return r.order[r.begin:r.end]
}

//Partition reorders the range in place so that samples with column value <= threshold come first,
//keeping the relative order on both sides, and returns the two sub-ranges.
//scratch must hold at least Len() elements.
func (r SampleRange) Partition(column mat.Vector, threshold float64, scratch []int) (left, right SampleRange) {
	indices := r.Indices()
	nLeft, nRight := 0, 0
	for _, sample := range indices {
		if column.AtVec(sample) <= threshold {
			indices[nLeft] = sample
			nLeft++
		} else {
			scratch[nRight] = sample
			nRight++
		}
	}
	copy(indices[nLeft:], scratch[:nRight])

	mid := r.begin + nLeft
	return SampleRange{r.order, r.begin, mid}, SampleRange{r.order, mid, r.end}
}

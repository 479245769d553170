package gtl

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

//classCounts counts labels of both classes over the range.
func classCounts(labels []int, r SampleRange) (counts [2]int, err error) {
	for _, sample := range r.Indices() {
		label := labels[sample]
		if label != 0 && label != 1 {
			return counts, fmt.Errorf("%w: label %d of sample %d is not binary", ErrInvalidShape, label, sample)
		}
		counts[label]++
	}
	return counts, nil
}

//giniFromCounts is 1 - (p0^2 + p1^2). The total must be positive.
func giniFromCounts(count0, count1 int) float64 {
	total := float64(count0 + count1)
	p0 := float64(count0) / total
	p1 := float64(count1) / total
	return 1.0 - (p0*p0 + p1*p1)
}

//majorityClass picks class 0 only when it is strictly more frequent.
func majorityClass(counts [2]int) int {
	if counts[0] > counts[1] {
		return 0
	}
	return 1
}

//Gini computes the Gini impurity of the labels in a non-empty range. The result lies in [0, 0.5].
func Gini(labels []int, r SampleRange) (float64, error) {
	if r.Len() == 0 {
		return 0, invariant("Gini", ErrEmptyPartition)
	}
	counts, err := classCounts(labels, r)
	if err != nil {
		return 0, err
	}
	return giniFromCounts(counts[0], counts[1]), nil
}

//InformationGain evaluates the split "column value <= threshold" of the range.
//The gain is zero when one of the sides is empty.
func InformationGain(column mat.Vector, labels []int, r SampleRange, threshold float64) (float64, error) {
	if r.Len() == 0 {
		return 0, invariant("InformationGain", ErrEmptyPartition)
	}
	left, right, err := splitCounts(column, labels, r, threshold)
	if err != nil {
		return 0, err
	}
	return gainFromCounts(left, right), nil
}

//splitCounts returns class counts on both sides of the threshold.
func splitCounts(column mat.Vector, labels []int, r SampleRange, threshold float64) (left, right [2]int, err error) {
	for _, sample := range r.Indices() {
		label := labels[sample]
		if label != 0 && label != 1 {
			return left, right, fmt.Errorf("%w: label %d of sample %d is not binary", ErrInvalidShape, label, sample)
		}
		if column.AtVec(sample) <= threshold {
			left[label]++
		} else {
			right[label]++
		}
	}
	return left, right, nil
}

func gainFromCounts(left, right [2]int) float64 {
	leftCount := left[0] + left[1]
	rightCount := right[0] + right[1]
	if leftCount == 0 || rightCount == 0 {
		return 0
	}
	total := float64(leftCount + rightCount)
	pLeft := float64(leftCount) / total
	pRight := float64(rightCount) / total
	parent := giniFromCounts(left[0]+right[0], left[1]+right[1])
	return parent - (pLeft*giniFromCounts(left[0], left[1]) + pRight*giniFromCounts(right[0], right[1]))
}

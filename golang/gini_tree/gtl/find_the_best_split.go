package gtl

import (
	"gonum.org/v1/gonum/mat"
)

//BestSplit contains results of the split selection algorithm.
type BestSplit struct {
	featureIndex    int
	threshold       float64
	gain            float64
	numberOfObjects int
	validSplit      bool
}

//FeatureIndex returns the column tested by the split.
func (s BestSplit) FeatureIndex() int { return s.featureIndex }

//Threshold returns the split value; samples with value <= threshold go left.
func (s BestSplit) Threshold() float64 { return s.threshold }

//Gain returns the information gain of the split.
func (s BestSplit) Gain() float64 { return s.gain }

//scanForSplit tries every value of column q observed in the range as a threshold and keeps the
//first candidate with the strictly greatest gain. Thresholds that leave a side empty are skipped.
func scanForSplit(column mat.Vector, labels []int, r SampleRange, q int) (bestSplit BestSplit, err error) {
	bestSplit.featureIndex = q
	bestSplit.numberOfObjects = r.Len()

	for _, sample := range r.Indices() {
		threshold := column.AtVec(sample)
		left, right, err := splitCounts(column, labels, r, threshold)
		if err != nil {
			return bestSplit, err
		}
		if left[0]+left[1] == 0 || right[0]+right[1] == 0 {
			continue
		}
		gain := gainFromCounts(left, right)
		if !bestSplit.validSplit || gain > bestSplit.gain {
			bestSplit.validSplit = true
			bestSplit.gain = gain
			bestSplit.threshold = threshold
		}
	}
	return bestSplit, nil
}

//TheBestSplit finds the best possible split of the range over all features.
//Features are scanned in index order and the first strictly better candidate wins,
//so the result is deterministic. It returns nil when no threshold separates the range.
func TheBestSplit(ds *DataSet, r SampleRange) (*BestSplit, error) {
	_, w, err := ds.validatedDimensions()
	if err != nil {
		return nil, err
	}
	if r.Len() == 0 {
		return nil, invariant("TheBestSplit", ErrEmptyPartition)
	}

	result := make([]BestSplit, w)
	for q := 0; q < w; q++ {
		result[q], err = scanForSplit(ds.Features.ColView(q), ds.Labels, r, q)
		if err != nil {
			return nil, err
		}
	}

	bestIndex := -1
	for ind, currentSplit := range result {
		if currentSplit.validSplit && (bestIndex == -1 || currentSplit.gain > result[bestIndex].gain) {
			bestIndex = ind
		}
	}

	if bestIndex == -1 {
		return nil, nil
	}
	return &result[bestIndex], nil
}

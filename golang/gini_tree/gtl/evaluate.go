package gtl

import (
	"fmt"

	"gorgonia.org/tensor"
)

//Report summarizes predictions of a model on a labelled data set.
type Report struct {
	Accuracy float64
	//Confusion has shape (2, 2): rows are true classes, columns are predicted classes.
	Confusion *tensor.Dense
}

//Count returns how many samples of class truth were predicted as predicted.
func (r Report) Count(truth, predicted int) (int, error) {
	val, err := r.Confusion.At(truth, predicted)
	if err != nil {
		return 0, err
	}
	return int(val.(float64)), nil
}

//ConfusionMatrix counts (true class, predicted class) pairs.
func ConfusionMatrix(truth, predicted []int) (*tensor.Dense, error) {
	if len(truth) != len(predicted) {
		return nil, fmt.Errorf("%w: %d labels against %d predictions", ErrInvalidShape, len(truth), len(predicted))
	}
	confusion := tensor.New(tensor.WithShape(2, 2), tensor.Of(tensor.Float64))
	for p := range truth {
		t, q := truth[p], predicted[p]
		if t < 0 || t > 1 || q < 0 || q > 1 {
			return nil, fmt.Errorf("%w: pair (%d, %d) of sample %d is not binary", ErrInvalidShape, t, q, p)
		}
		val, err := confusion.At(t, q)
		if err != nil {
			return nil, err
		}
		if err := confusion.SetAt(val.(float64)+1, t, q); err != nil {
			return nil, err
		}
	}
	return confusion, nil
}

//Accuracy is the share of predictions equal to the labels.
func Accuracy(truth, predicted []int) (float64, error) {
	if len(truth) != len(predicted) {
		return 0, fmt.Errorf("%w: %d labels against %d predictions", ErrInvalidShape, len(truth), len(predicted))
	}
	if len(truth) == 0 {
		return 0, fmt.Errorf("%w: nothing to evaluate", ErrInvalidShape)
	}
	hits := 0
	for p := range truth {
		if truth[p] == predicted[p] {
			hits++
		}
	}
	return float64(hits) / float64(len(truth)), nil
}

//Evaluate predicts every sample of ds and compares the result with its labels.
func (m *Model) Evaluate(ds *DataSet) (Report, error) {
	if ds == nil {
		return Report{}, fmt.Errorf("%w: no data set", ErrInvalidShape)
	}
	if _, _, err := ds.validatedDimensions(); err != nil {
		return Report{}, err
	}
	predicted, err := m.PredictBatch(ds.Features)
	if err != nil {
		return Report{}, err
	}
	accuracy, err := Accuracy(ds.Labels, predicted)
	if err != nil {
		return Report{}, err
	}
	confusion, err := ConfusionMatrix(ds.Labels, predicted)
	if err != nil {
		return Report{}, err
	}
	return Report{Accuracy: accuracy, Confusion: confusion}, nil
}

package gtl

import (
	"errors"
	"fmt"
)

var (
	//ErrInvalidShape is returned when a data set has no samples, no features, a label vector of
	//the wrong length or a label outside of {0, 1}.
	ErrInvalidShape = errors.New("invalid shape")
	//ErrInvalidParams is returned for bad training parameters such as a negative depth.
	ErrInvalidParams = errors.New("invalid parameters")
	//ErrEmptyPartition means an empty sample range reached the impurity evaluator.
	ErrEmptyPartition = errors.New("empty partition")
	//ErrFeatureIndexOutOfRange is returned by Predict for a sample shorter than the trained width.
	ErrFeatureIndexOutOfRange = errors.New("feature index out of range")
	//ErrUntrainedModel is returned by Predict on a model that was never fitted.
	ErrUntrainedModel = errors.New("untrained model")
)

//InvariantError marks a violated internal invariant. It never results from bad input
//once the data set has been validated, so it should be treated as a bug.
type InvariantError struct {
	Op  string
	Err error
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("internal invariant violated in %s: %v", e.Op, e.Err)
}

func (e *InvariantError) Unwrap() error {
	return e.Err
}

func invariant(op string, err error) error {
	return &InvariantError{Op: op, Err: err}
}

package gtl

import (
	"fmt"
	"os"

	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"
)

//DataSet contains a fully materialized feature matrix and one binary label per row.
type DataSet struct {
	Features    *mat.Dense
	Labels      []int
	Description *string
}

//SetDescription sets a description used when the data set is reported as a monitor.
func (ds *DataSet) SetDescription(description string) {
	ds.Description = &description
}

func (ds DataSet) description() string {
	if ds.Description == nil {
		return ""
	}
	return *ds.Description
}

//NewDataSet builds a data set from a row-major feature slice of numSamples*numFeatures values.
//Both the features and the labels are copied.
func NewDataSet(raw []float64, labels []int, numSamples, numFeatures int) (*DataSet, error) {
	if numSamples <= 0 || numFeatures <= 0 {
		return nil, fmt.Errorf("%w: %d samples, %d features", ErrInvalidShape, numSamples, numFeatures)
	}
	if len(raw) != numSamples*numFeatures {
		return nil, fmt.Errorf("%w: %d feature values for a %dx%d matrix", ErrInvalidShape, len(raw), numSamples, numFeatures)
	}
	data := make([]float64, len(raw))
	copy(data, raw)
	return NewDataSetFromDense(mat.NewDense(numSamples, numFeatures, data), labels)
}

//NewDataSetFromDense wraps an existing matrix. The matrix is only read, never modified.
func NewDataSetFromDense(features *mat.Dense, labels []int) (*DataSet, error) {
	if features == nil || features.IsEmpty() {
		return nil, fmt.Errorf("%w: empty feature matrix", ErrInvalidShape)
	}
	h, _ := features.Dims()
	if len(labels) != h {
		return nil, fmt.Errorf("%w: %d labels for %d samples", ErrInvalidShape, len(labels), h)
	}
	for p, label := range labels {
		if label != 0 && label != 1 {
			return nil, fmt.Errorf("%w: label %d of sample %d is not binary", ErrInvalidShape, label, p)
		}
	}
	ds := &DataSet{Features: features, Labels: make([]int, h)}
	copy(ds.Labels, labels)
	return ds, nil
}

//Height returns the number of samples.
func (ds DataSet) Height() int {
	h, _ := ds.Features.Dims()
	return h
}

//Width returns the number of features.
func (ds DataSet) Width() int {
	_, w := ds.Features.Dims()
	return w
}

//validatedDimensions checks that labels and features agree and returns the height and the width.
func (ds DataSet) validatedDimensions() (h, w int, err error) {
	if ds.Features == nil || ds.Features.IsEmpty() {
		return 0, 0, fmt.Errorf("%w: empty feature matrix", ErrInvalidShape)
	}
	h, w = ds.Features.Dims()
	if len(ds.Labels) != h {
		return 0, 0, fmt.Errorf("%w: the labels length %d is not equal to the height %d", ErrInvalidShape, len(ds.Labels), h)
	}
	return h, w, nil
}

//LabelsFromFloats converts a float encoded label vector. Every value must be exactly 0 or 1.
func LabelsFromFloats(values []float64) ([]int, error) {
	labels := make([]int, len(values))
	for p, v := range values {
		switch v {
		case 0:
			labels[p] = 0
		case 1:
			labels[p] = 1
		default:
			return nil, fmt.Errorf("%w: label %g of sample %d is not binary", ErrInvalidShape, v, p)
		}
	}
	return labels, nil
}

//labelsFromDense flattens a row or a column vector of labels.
func labelsFromDense(m *mat.Dense) ([]int, error) {
	h, w := m.Dims()
	if h != 1 && w != 1 {
		return nil, fmt.Errorf("%w: labels must be a vector, got %dx%d", ErrInvalidShape, h, w)
	}
	values := make([]float64, 0, h*w)
	for p := 0; p < h; p++ {
		for q := 0; q < w; q++ {
			values = append(values, m.At(p, q))
		}
	}
	return LabelsFromFloats(values)
}

//ReadDataSet reads a feature matrix and a label vector from two npy files of float64 values.
func ReadDataSet(fileNameFeatures, fileNameLabels string) (*DataSet, error) {
	features, err := ReadNpy(fileNameFeatures)
	if err != nil {
		return nil, err
	}
	labelsMatrix, err := ReadNpy(fileNameLabels)
	if err != nil {
		return nil, err
	}
	labels, err := labelsFromDense(labelsMatrix)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", fileNameLabels, err)
	}
	return NewDataSetFromDense(features, labels)
}

//ReadNpy reads the content of npy file
func ReadNpy(fileName string) (*mat.Dense, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := npyio.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", fileName, err)
	}

	denseMat := &mat.Dense{}
	if err := r.Read(denseMat); err != nil {
		return nil, fmt.Errorf("read %s: %w", fileName, err)
	}
	return denseMat, nil
}

//WriteNpy stores a matrix as an npy file.
func WriteNpy(fileName string, m *mat.Dense) error {
	dst, err := os.Create(fileName)
	if err != nil {
		return err
	}
	if err := npyio.Write(dst, m); err != nil {
		dst.Close()
		return fmt.Errorf("write %s: %w", fileName, err)
	}
	return dst.Close()
}

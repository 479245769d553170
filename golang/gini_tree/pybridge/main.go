// SPDX-License-Identifier: Apache-2.0

package main

/*
#cgo CFLAGS: -I.
#include <stdlib.h>
*/
import "C"

import (
	"errors"
	"sync"
	"unsafe"

	"github.com/tarstars/gini_tree/golang/gini_tree/gtl"
	"gonum.org/v1/gonum/mat"
)

var (
	handleMu   sync.Mutex
	nextHandle uint64 = 1
	models            = make(map[uint64]*gtl.Model)

	lastErrorMu sync.Mutex
	lastError   string
)

func setLastError(err error) {
	lastErrorMu.Lock()
	defer lastErrorMu.Unlock()
	if err != nil {
		lastError = err.Error()
	} else {
		lastError = ""
	}
}

func getLastError() string {
	lastErrorMu.Lock()
	defer lastErrorMu.Unlock()
	return lastError
}

func storeModel(m *gtl.Model) uint64 {
	handleMu.Lock()
	defer handleMu.Unlock()
	handle := nextHandle
	models[handle] = m
	nextHandle++
	return handle
}

func fetchModel(handle uint64) (*gtl.Model, error) {
	handleMu.Lock()
	defer handleMu.Unlock()
	model, ok := models[handle]
	if !ok {
		return nil, gtl.ErrUntrainedModel
	}
	return model, nil
}

//export FreeModel
func FreeModel(handle C.ulonglong) {
	handleMu.Lock()
	defer handleMu.Unlock()
	delete(models, uint64(handle))
}

func sliceFromPtr(ptr *C.double, length int) ([]float64, error) {
	if length < 0 {
		return nil, errors.New("negative length")
	}
	if length == 0 {
		return nil, nil
	}
	if ptr == nil {
		return nil, errors.New("null pointer for non-empty slice")
	}
	return unsafe.Slice((*float64)(unsafe.Pointer(ptr)), length), nil
}

func buildDense(ptr *C.double, rows, cols C.int) (*mat.Dense, error) {
	r := int(rows)
	c := int(cols)
	if r <= 0 || c <= 0 {
		return nil, gtl.ErrInvalidShape
	}
	src, err := sliceFromPtr(ptr, r*c)
	if err != nil {
		return nil, err
	}
	data := make([]float64, len(src))
	copy(data, src)
	return mat.NewDense(r, c, data), nil
}

//TrainModel fits a tree on a row-major rows x cols matrix and float encoded 0/1 labels.
//It returns 0 on failure, see GetLastError.
//
//export TrainModel
func TrainModel(featuresPtr *C.double, rows C.int, cols C.int, labelsPtr *C.double, maxDepth C.int) C.ulonglong {
	setLastError(nil)

	features, err := buildDense(featuresPtr, rows, cols)
	if err != nil {
		setLastError(err)
		return 0
	}
	rawLabels, err := sliceFromPtr(labelsPtr, int(rows))
	if err != nil {
		setLastError(err)
		return 0
	}
	labels, err := gtl.LabelsFromFloats(rawLabels)
	if err != nil {
		setLastError(err)
		return 0
	}
	ds, err := gtl.NewDataSetFromDense(features, labels)
	if err != nil {
		setLastError(err)
		return 0
	}

	model, err := gtl.NewModel(gtl.ModelParams{DataSet: ds, MaxDepth: int(maxDepth)})
	if err != nil {
		setLastError(err)
		return 0
	}
	return C.ulonglong(storeModel(model))
}

//export Predict
func Predict(handle C.ulonglong, featuresPtr *C.double, rows C.int, cols C.int, outputPtr *C.double) C.int {
	setLastError(nil)
	model, err := fetchModel(uint64(handle))
	if err != nil {
		setLastError(err)
		return 1
	}

	features, err := buildDense(featuresPtr, rows, cols)
	if err != nil {
		setLastError(err)
		return 2
	}

	classes, err := model.PredictBatch(features)
	if err != nil {
		setLastError(err)
		return 3
	}

	outSlice, err := sliceFromPtr(outputPtr, int(rows))
	if err != nil {
		setLastError(err)
		return 4
	}
	for p, class := range classes {
		outSlice[p] = float64(class)
	}
	return 0
}

//export RenderTree
func RenderTree(handle C.ulonglong, prefix, figureType, directory *C.char) C.int {
	setLastError(nil)
	model, err := fetchModel(uint64(handle))
	if err != nil {
		setLastError(err)
		return 1
	}
	goPrefix := C.GoString(prefix)
	goFigureType := C.GoString(figureType)
	goDir := C.GoString(directory)
	if goPrefix == "" {
		goPrefix = "tree"
	}
	if goFigureType == "" {
		goFigureType = "svg"
	}
	if goDir == "" {
		goDir = "."
	}
	if _, err := model.RenderTree(goPrefix, goFigureType, goDir); err != nil {
		setLastError(err)
		return 2
	}
	return 0
}

//export GetLastError
func GetLastError() *C.char {
	errStr := getLastError()
	if errStr == "" {
		return nil
	}
	return C.CString(errStr)
}

//export FreeCString
func FreeCString(str *C.char) {
	if str != nil {
		C.free(unsafe.Pointer(str))
	}
}

func main() {}

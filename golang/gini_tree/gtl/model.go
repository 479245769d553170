package gtl

import (
	"fmt"
	"path"

	"github.com/goccy/go-graphviz"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"
)

//Model is a trained classifier. It is never modified after NewModel returns,
//so Predict may be called from several goroutines at once.
type Model struct {
	tree Tree
}

//ModelParams collect arguments required to train a model.
type ModelParams struct {
	DataSet  *DataSet
	MaxDepth int
	Monitors []*DataSet
	Logger   *zerolog.Logger
}

//NewModel trains a model and reports its accuracy on every monitor data set.
func NewModel(params ModelParams) (*Model, error) {
	if params.DataSet == nil {
		return nil, fmt.Errorf("%w: no data set", ErrInvalidShape)
	}
	logger := params.Logger
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	tree, err := BuildTree(params.DataSet, params.MaxDepth, logger)
	if err != nil {
		return nil, err
	}
	model := &Model{tree: *tree}
	logger.Info().
		Int("nodes", len(tree.Nodes)).
		Int("leaves", tree.NumLeaves()).
		Int("depth", tree.Depth()).
		Msg("tree is built")

	for _, monitor := range params.Monitors {
		report, err := model.Evaluate(monitor)
		if err != nil {
			return nil, fmt.Errorf("monitor %q: %w", monitor.description(), err)
		}
		logger.Info().
			Str("data_set", monitor.description()).
			Float64("accuracy", report.Accuracy).
			Msg("evaluation")
	}
	return model, nil
}

//Fit trains a model on a row-major matrix of numSamples x numFeatures values.
func Fit(features []float64, labels []int, numSamples, numFeatures, maxDepth int) (*Model, error) {
	ds, err := NewDataSet(features, labels, numSamples, numFeatures)
	if err != nil {
		return nil, err
	}
	return NewModel(ModelParams{DataSet: ds, MaxDepth: maxDepth})
}

func (m *Model) trained() bool {
	return m != nil && len(m.tree.Nodes) > 0
}

//NumFeatures returns the number of features seen during training.
func (m *Model) NumFeatures() int {
	if !m.trained() {
		return 0
	}
	return m.tree.NumFeatures
}

//NumNodes returns the number of nodes in the tree.
func (m *Model) NumNodes() int {
	if !m.trained() {
		return 0
	}
	return len(m.tree.Nodes)
}

//Root returns the root node.
func (m *Model) Root() (Node, error) {
	return m.Node(0)
}

//Node returns the node stored at index ind.
func (m *Model) Node(ind int) (Node, error) {
	if !m.trained() {
		return nil, ErrUntrainedModel
	}
	if ind < 0 || ind >= len(m.tree.Nodes) {
		return nil, fmt.Errorf("node %d of %d: out of range", ind, len(m.tree.Nodes))
	}
	return m.tree.Nodes[ind], nil
}

//Depth returns the maximal leaf depth.
func (m *Model) Depth() int {
	if !m.trained() {
		return 0
	}
	return m.tree.Depth()
}

//NumLeaves returns the number of leaves.
func (m *Model) NumLeaves() int {
	if !m.trained() {
		return 0
	}
	return m.tree.NumLeaves()
}

//Predict classifies one sample. The sample needs at least NumFeatures values.
func (m *Model) Predict(sample []float64) (int, error) {
	if !m.trained() {
		return 0, ErrUntrainedModel
	}
	if len(sample) < m.tree.NumFeatures {
		return 0, fmt.Errorf("%w: sample has %d values, model needs %d", ErrFeatureIndexOutOfRange, len(sample), m.tree.NumFeatures)
	}
	leaf := m.tree.leafFor(func(featureIndex int) float64 { return sample[featureIndex] })
	return leaf.Class, nil
}

//PredictBatch classifies every row of features.
func (m *Model) PredictBatch(features mat.Matrix) ([]int, error) {
	if !m.trained() {
		return nil, ErrUntrainedModel
	}
	h, w := features.Dims()
	if w < m.tree.NumFeatures {
		return nil, fmt.Errorf("%w: rows have %d values, model needs %d", ErrFeatureIndexOutOfRange, w, m.tree.NumFeatures)
	}

	prediction := make([]int, h)
	for p := 0; p < h; p++ {
		leaf := m.tree.leafFor(func(featureIndex int) float64 { return features.At(p, featureIndex) })
		prediction[p] = leaf.Class
	}
	return prediction, nil
}

//PredictDense classifies every row of features and returns the classes as a column.
func (m *Model) PredictDense(features mat.Matrix) (*mat.Dense, error) {
	classes, err := m.PredictBatch(features)
	if err != nil {
		return nil, err
	}
	prediction := mat.NewDense(len(classes), 1, nil)
	for p, class := range classes {
		prediction.Set(p, 0, float64(class))
	}
	return prediction, nil
}

var graphvizType = map[string]graphviz.Format{
	"png": graphviz.PNG,
	"svg": graphviz.SVG,
	"jpg": graphviz.JPG,
}

//RenderTree draws the tree into picturesDirectory/dumpPrefix.figureType.
func (m *Model) RenderTree(dumpPrefix, figureType, picturesDirectory string) (string, error) {
	if !m.trained() {
		return "", ErrUntrainedModel
	}
	format, ok := graphvizType[figureType]
	if !ok {
		return "", fmt.Errorf("%w: unknown figure type %q", ErrInvalidParams, figureType)
	}

	graphViz, graph, err := m.tree.DrawGraph()
	if err != nil {
		return "", err
	}
	defer func() {
		graph.Close()
		graphViz.Close()
	}()

	filename := path.Join(picturesDirectory, fmt.Sprintf("%s.%s", dumpPrefix, figureType))
	if err := graphViz.RenderFilename(graph, format, filename); err != nil {
		return "", err
	}
	return filename, nil
}

package gtl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// age, likes dogs, likes gravity -> going to be an astronaut
var astronautFeatures = []float64{
	24, 0, 0,
	30, 1, 1,
	36, 0, 1,
	36, 0, 0,
	42, 0, 0,
	44, 1, 1,
	46, 1, 0,
	47, 1, 1,
	47, 0, 1,
	51, 1, 1,
}

var astronautLabels = []int{0, 1, 1, 0, 0, 1, 0, 1, 0, 1}

func astronautDataSet(t *testing.T) *DataSet {
	t.Helper()
	ds, err := NewDataSet(astronautFeatures, astronautLabels, 10, 3)
	require.NoError(t, err)
	return ds
}

func TestAstronautPrediction(t *testing.T) {
	model, err := Fit(astronautFeatures, astronautLabels, 10, 3, 3)
	require.NoError(t, err)

	class, err := model.Predict([]float64{40, 1, 1})
	require.NoError(t, err)
	assert.Equal(t, 1, class)
}

func TestAstronautTreeStructure(t *testing.T) {
	model, err := NewModel(ModelParams{DataSet: astronautDataSet(t), MaxDepth: 3})
	require.NoError(t, err)

	assert.Equal(t, 7, model.NumNodes())
	assert.Equal(t, 4, model.NumLeaves())
	assert.Equal(t, 3, model.Depth())

	root, err := model.Root()
	require.NoError(t, err)
	decision, ok := root.(DecisionNode)
	require.True(t, ok, "root must be a decision node")
	assert.Equal(t, 2, decision.FeatureIndex)
	assert.Equal(t, 0.0, decision.Threshold)
	assert.InDelta(t, 1.0/3.0, decision.Gain, 1e-12)
	assert.InDelta(t, 0.5, decision.Impurity, 1e-12)

	left, err := model.Node(decision.LeftIndex)
	require.NoError(t, err)
	leaf, ok := left.(LeafNode)
	require.True(t, ok)
	assert.Equal(t, 0, leaf.Class)
	assert.Equal(t, [2]int{4, 0}, leaf.ClassCounts)

	right, err := model.Node(decision.RightIndex)
	require.NoError(t, err)
	second, ok := right.(DecisionNode)
	require.True(t, ok)
	assert.Equal(t, 1, second.FeatureIndex)
	assert.Equal(t, 0.0, second.Threshold)

	third, err := model.Node(second.LeftIndex)
	require.NoError(t, err)
	ageSplit, ok := third.(DecisionNode)
	require.True(t, ok)
	assert.Equal(t, 0, ageSplit.FeatureIndex)
	assert.Equal(t, 36.0, ageSplit.Threshold)
	assert.InDelta(t, 0.5, ageSplit.Gain, 1e-12)
}

func TestAstronautTrainingAccuracy(t *testing.T) {
	ds := astronautDataSet(t)
	model, err := NewModel(ModelParams{DataSet: ds, MaxDepth: 3})
	require.NoError(t, err)

	report, err := model.Evaluate(ds)
	require.NoError(t, err)
	assert.Equal(t, 1.0, report.Accuracy)
}

func TestDepthBound(t *testing.T) {
	ds := astronautDataSet(t)
	for maxDepth := 0; maxDepth <= 6; maxDepth++ {
		model, err := NewModel(ModelParams{DataSet: ds, MaxDepth: maxDepth})
		require.NoError(t, err)
		assert.LessOrEqual(t, model.Depth(), maxDepth, "max depth %d", maxDepth)
	}
}

func TestZeroDepthGivesMajorityLeaf(t *testing.T) {
	model, err := NewModel(ModelParams{DataSet: astronautDataSet(t), MaxDepth: 0})
	require.NoError(t, err)
	require.Equal(t, 1, model.NumNodes())

	root, err := model.Root()
	require.NoError(t, err)
	leaf, ok := root.(LeafNode)
	require.True(t, ok)
	// five against five resolves to class 1
	assert.Equal(t, [2]int{5, 5}, leaf.ClassCounts)
	assert.Equal(t, 1, leaf.Class)
}

func TestDeterminism(t *testing.T) {
	first, err := Fit(astronautFeatures, astronautLabels, 10, 3, 4)
	require.NoError(t, err)
	second, err := Fit(astronautFeatures, astronautLabels, 10, 3, 4)
	require.NoError(t, err)

	for age := 20.0; age <= 55; age++ {
		for dogs := 0.0; dogs <= 1; dogs++ {
			for gravity := 0.0; gravity <= 1; gravity++ {
				sample := []float64{age, dogs, gravity}
				a, err := first.Predict(sample)
				require.NoError(t, err)
				b, err := second.Predict(sample)
				require.NoError(t, err)
				assert.Equal(t, a, b, "sample %v", sample)

				again, err := first.Predict(sample)
				require.NoError(t, err)
				assert.Equal(t, a, again, "sample %v", sample)
			}
		}
	}
}

func TestFitDoesNotModifyInput(t *testing.T) {
	features := append([]float64(nil), astronautFeatures...)
	labels := append([]int(nil), astronautLabels...)

	_, err := Fit(features, labels, 10, 3, 3)
	require.NoError(t, err)
	assert.Equal(t, astronautFeatures, features)
	assert.Equal(t, astronautLabels, labels)
}

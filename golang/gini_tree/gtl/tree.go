package gtl

import (
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
	"github.com/rs/zerolog"
)

//Node is a node of a tree: either a DecisionNode or a LeafNode.
//Trees are stored in an array and children are referenced by their array indices.
type Node interface {
	//GraphDescription returns the description of a node for tree rendering as a graph
	GraphDescription() string
	isNode()
}

//DecisionNode routes a sample to LeftIndex when its feature FeatureIndex is <= Threshold
//and to RightIndex otherwise.
type DecisionNode struct {
	TreeNodeId            int
	FeatureIndex          int
	Threshold             float64
	LeftIndex, RightIndex int
	NumberOfObjects       int
	Impurity              float64
	Gain                  float64
}

func (DecisionNode) isNode() {}

//GraphDescription returns the description of a decision node for tree rendering as a graph
func (node DecisionNode) GraphDescription() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintln("#", node.NumberOfObjects))
	sb.WriteString(fmt.Sprintln("id: ", node.TreeNodeId))
	sb.WriteString(fmt.Sprintf("gini: %6.4f\n", node.Impurity))
	sb.WriteString(fmt.Sprintf("gain: %6.4f\n", node.Gain))
	sb.WriteString(fmt.Sprintf("f_%d <= %g", node.FeatureIndex, node.Threshold))
	return sb.String()
}

//LeafNode is a terminal node with a fixed predicted class.
type LeafNode struct {
	TreeNodeId      int
	Class           int
	ClassCounts     [2]int
	NumberOfObjects int
	Impurity        float64
}

func (LeafNode) isNode() {}

//GraphDescription returns the description of a leaf node for tree rendering as a graph
func (node LeafNode) GraphDescription() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintln("id: ", node.TreeNodeId))
	sb.WriteString(fmt.Sprintf("[%d, %d]\n", node.ClassCounts[0], node.ClassCounts[1]))
	sb.WriteString(fmt.Sprintf("class %d", node.Class))
	return sb.String()
}

//Tree is a trained decision tree. The root is Nodes[0]; every child has a greater index than its parent.
type Tree struct {
	NumFeatures int
	Nodes       []Node
}

//treeBuilder owns the working state of one BuildTree call.
type treeBuilder struct {
	ds      *DataSet
	tree    *Tree
	scratch []int
	logger  *zerolog.Logger
}

//BuildTree grows a tree over the whole data set. A node at depth maxDepth is always a leaf.
func BuildTree(ds *DataSet, maxDepth int, logger *zerolog.Logger) (*Tree, error) {
	h, w, err := ds.validatedDimensions()
	if err != nil {
		return nil, err
	}
	if maxDepth < 0 {
		return nil, fmt.Errorf("%w: negative max depth %d", ErrInvalidParams, maxDepth)
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	builder := treeBuilder{
		ds:      ds,
		tree:    &Tree{NumFeatures: w, Nodes: make([]Node, 0)},
		scratch: make([]int, h),
		logger:  logger,
	}
	if _, err := builder.buildNode(NewSampleRange(h), maxDepth); err != nil {
		return nil, err
	}
	return builder.tree, nil
}

//buildNode recurrently builds the subtree of the range and returns the index of its root.
//depth is the number of levels still allowed below this node.
func (b *treeBuilder) buildNode(r SampleRange, depth int) (int, error) {
	if r.Len() == 0 {
		return -1, invariant("buildNode", ErrEmptyPartition)
	}
	counts, err := classCounts(b.ds.Labels, r)
	if err != nil {
		return -1, err
	}
	impurity := giniFromCounts(counts[0], counts[1])

	treeNodeId := len(b.tree.Nodes)
	if depth == 0 || counts[0] == 0 || counts[1] == 0 {
		return b.addLeaf(counts, impurity), nil
	}

	bestSplit, err := TheBestSplit(b.ds, r)
	if err != nil {
		return -1, err
	}
	if bestSplit == nil || bestSplit.gain <= 0 {
		return b.addLeaf(counts, impurity), nil
	}

	// reserve the slot so that children get greater indices
	b.tree.Nodes = append(b.tree.Nodes, nil)
	b.logger.Debug().
		Int("node", treeNodeId).
		Int("objects", r.Len()).
		Int("feature", bestSplit.featureIndex).
		Float64("threshold", bestSplit.threshold).
		Float64("gain", bestSplit.gain).
		Msg("split")

	left, right := r.Partition(b.ds.Features.ColView(bestSplit.featureIndex), bestSplit.threshold, b.scratch)

	leftNodeId, err := b.buildNode(left, depth-1)
	if err != nil {
		return -1, err
	}
	rightNodeId, err := b.buildNode(right, depth-1)
	if err != nil {
		return -1, err
	}

	b.tree.Nodes[treeNodeId] = DecisionNode{
		TreeNodeId:      treeNodeId,
		FeatureIndex:    bestSplit.featureIndex,
		Threshold:       bestSplit.threshold,
		LeftIndex:       leftNodeId,
		RightIndex:      rightNodeId,
		NumberOfObjects: r.Len(),
		Impurity:        impurity,
		Gain:            bestSplit.gain,
	}
	return treeNodeId, nil
}

func (b *treeBuilder) addLeaf(counts [2]int, impurity float64) int {
	treeNodeId := len(b.tree.Nodes)
	leaf := LeafNode{
		TreeNodeId:      treeNodeId,
		Class:           majorityClass(counts),
		ClassCounts:     counts,
		NumberOfObjects: counts[0] + counts[1],
		Impurity:        impurity,
	}
	b.tree.Nodes = append(b.tree.Nodes, leaf)
	b.logger.Debug().
		Int("node", treeNodeId).
		Int("objects", leaf.NumberOfObjects).
		Int("class", leaf.Class).
		Msg("leaf")
	return treeNodeId
}

//Depth returns the greatest number of decisions on a path from the root to a leaf.
func (tree Tree) Depth() int {
	if len(tree.Nodes) == 0 {
		return 0
	}
	return tree.depthFrom(0)
}

func (tree Tree) depthFrom(ind int) int {
	node, ok := tree.Nodes[ind].(DecisionNode)
	if !ok {
		return 0
	}
	left, right := tree.depthFrom(node.LeftIndex), tree.depthFrom(node.RightIndex)
	if left > right {
		return left + 1
	}
	return right + 1
}

//NumLeaves counts leaf nodes.
func (tree Tree) NumLeaves() int {
	n := 0
	for _, node := range tree.Nodes {
		if _, ok := node.(LeafNode); ok {
			n++
		}
	}
	return n
}

//leafFor walks from the root to the leaf that receives the sample.
func (tree Tree) leafFor(sample func(featureIndex int) float64) LeafNode {
	ind := 0
	for {
		switch node := tree.Nodes[ind].(type) {
		case DecisionNode:
			if sample(node.FeatureIndex) <= node.Threshold {
				ind = node.LeftIndex
			} else {
				ind = node.RightIndex
			}
		case LeafNode:
			return node
		}
	}
}

func recurrentDraw(g *cgraph.Graph, tree Tree, nodeNumber int, parentNode *cgraph.Node, edgeLabel string) error {
	currentNode, err := g.CreateNode(fmt.Sprint(nodeNumber))
	if err != nil {
		return err
	}

	if parentNode != nil {
		edge, err := g.CreateEdge("", parentNode, currentNode)
		if err != nil {
			return err
		}
		edge.SetLabel(edgeLabel)
	}

	currentNode.SetLabel(tree.Nodes[nodeNumber].GraphDescription())
	switch node := tree.Nodes[nodeNumber].(type) {
	case LeafNode:
		currentNode.SetShape(cgraph.BoxShape)
	case DecisionNode:
		if err := recurrentDraw(g, tree, node.LeftIndex, currentNode, "yes"); err != nil {
			return err
		}
		if err := recurrentDraw(g, tree, node.RightIndex, currentNode, "no"); err != nil {
			return err
		}
	}
	return nil
}

//DrawGraph lays the tree out as a graphviz graph. The caller closes both returned values.
func (tree Tree) DrawGraph() (*graphviz.Graphviz, *cgraph.Graph, error) {
	if len(tree.Nodes) == 0 {
		return nil, nil, ErrUntrainedModel
	}
	graphViz := graphviz.New()
	graph, err := graphViz.Graph()
	if err != nil {
		graphViz.Close()
		return nil, nil, err
	}

	if err := recurrentDraw(graph, tree, 0, nil, ""); err != nil {
		graph.Close()
		graphViz.Close()
		return nil, nil, err
	}
	return graphViz, graph, nil
}

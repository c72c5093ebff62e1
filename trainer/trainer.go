// Package trainer turns a node's observation counts into a Laplace-smoothed
// maximum-likelihood CPT.
package trainer

import (
	"github.com/causaltrail-go/engine/network"
	"github.com/causaltrail-go/engine/node"
)

// alpha is the Laplace pseudocount added to every non-NA cell before
// normalizing a row.
const alpha = 1.0

// Fit learns a CPT for every node in the network from its current
// ObservationMatrix.
func Fit(net *network.Network) error {
	for _, n := range net.Nodes() {
		if err := FitNode(n); err != nil {
			return err
		}
	}
	return nil
}

// FitNode recomputes one node's ProbabilityMatrix from its ObservationMatrix
// using Laplace smoothing: each non-NA cell count is incremented by alpha,
// then the row is normalized over non-NA columns only. The NA column, if
// present, contributes to neither the numerator nor the denominator.
func FitNode(n *node.Node) error {
	card := n.Cardinality()
	for row := 0; row < n.ObservationMatrix.RowCount(); row++ {
		sum := 0.0
		smoothed := make([]float64, card)
		for col := 0; col < card; col++ {
			smoothed[col] = n.ObservationMatrix.Get(row, col) + alpha
			sum += smoothed[col]
		}
		for col := 0; col < card; col++ {
			n.ProbabilityMatrix.Set(row, col, smoothed[col]/sum)
		}
	}
	return nil
}

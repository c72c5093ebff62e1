// Package interventions implements Pearl's do-operator: severing a node from
// its parents and pinning its CPT to a deterministic value, with backup and
// restore so the effect can be reversed.
package interventions

import (
	"fmt"

	"github.com/causaltrail-go/engine/errs"
	"github.com/causaltrail-go/engine/network"
)

// Interventions mutates a network it does not own on behalf of do-queries.
type Interventions struct {
	net *network.Network
}

// New returns an Interventions handle borrowing net.
func New(net *network.Network) *Interventions {
	return &Interventions{net: net}
}

// DoIntervention performs do(nodeID = valueIdx): it takes a backup of the
// network's adjacency on the first call since the last restore, cuts every
// incoming edge of nodeID, and pins its CPT to a single deterministic row
// (probability 1 on valueIdx, 0 elsewhere). A second do-call before a reverse
// overwrites the pinned value but does not take a second backup.
func (iv *Interventions) DoIntervention(nodeID, valueIdx int) error {
	n, err := iv.net.Node(nodeID)
	if err != nil {
		return err
	}
	if valueIdx < 0 || valueIdx >= n.Cardinality() {
		return fmt.Errorf("%w: value index %d of node %s", errs.ErrOutOfDomain, valueIdx, n.Name())
	}

	iv.net.CreateBackup()

	if err := iv.net.CutParents(nodeID); err != nil {
		return err
	}

	for col := 0; col < n.ProbabilityMatrix.ColCount(); col++ {
		if col == valueIdx {
			n.ProbabilityMatrix.Set(0, col, 1)
		} else {
			n.ProbabilityMatrix.Set(0, col, 0)
		}
	}
	return nil
}

// ReverseDoIntervention restores the network's nodes (with their CPTs and
// observation counts) and adjacency from backup, then recomputes every node's
// parent list and CPT shape, so every CPT is exactly what it was before the
// first DoIntervention.
func (iv *Interventions) ReverseDoIntervention() error {
	if !iv.net.HasBackup() {
		return nil
	}
	iv.net.LoadBackup()
	return iv.net.RefreshCPTShapes()
}

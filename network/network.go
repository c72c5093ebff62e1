// Package network implements the dense-ID directed acyclic graph that owns a
// Bayesian network's nodes and their adjacency matrix, including the backup
// and twin-network machinery interventions and counterfactual queries need.
package network

import (
	"fmt"

	"github.com/causaltrail-go/engine/errs"
	"github.com/causaltrail-go/engine/matrix"
	"github.com/causaltrail-go/engine/node"
)

// Network owns every node and the parent-to-child adjacency matrix. A[p][c]
// == 1 means p is a parent of c; Parents(c) is derived by scanning column c,
// never by reading a node's own cached parent list directly, so a network
// edit is always the single source of truth.
type Network struct {
	nodes     []*node.Node
	nameIndex map[string]int
	adjacency *matrix.Matrix[int]

	hypoStart int         // index of the first twin node, -1 if none exist
	idMap     map[int]int // original ID -> twin ID, populated only while hypoStart >= 0

	backup *snapshot
}

type snapshot struct {
	nodes     []*node.Node
	adjacency *matrix.Matrix[int]
	hypoStart int
	idMap     map[int]int
}

// New returns an empty network.
func New() *Network {
	return &Network{
		nameIndex: make(map[string]int),
		adjacency: matrix.New[int](0, 0),
		hypoStart: -1,
	}
}

// NodeCount returns how many nodes, original and twin, the network currently
// holds.
func (net *Network) NodeCount() int { return len(net.nodes) }

// Nodes returns every node in dense-ID order. Callers must not mutate parent
// links directly; go through AddEdge/RemoveEdge/CutParents instead.
func (net *Network) Nodes() []*node.Node { return net.nodes }

// Node returns the node at a dense ID.
func (net *Network) Node(id int) (*node.Node, error) {
	if id < 0 || id >= len(net.nodes) {
		return nil, fmt.Errorf("%w: node id %d", errs.ErrNotFound, id)
	}
	return net.nodes[id], nil
}

// GetIndex resolves a node name to its dense ID.
func (net *Network) GetIndex(name string) (int, error) {
	id, ok := net.nameIndex[name]
	if !ok {
		return 0, fmt.Errorf("%w: node %q", errs.ErrNotFound, name)
	}
	return id, nil
}

// AddNode appends a node, assigning it the next dense ID and growing the
// adjacency matrix to match.
func (net *Network) AddNode(n *node.Node) (int, error) {
	if _, dup := net.nameIndex[n.Name()]; dup {
		return 0, fmt.Errorf("%w: duplicate node name %q", errs.ErrParse, n.Name())
	}
	id := len(net.nodes)
	n.SetID(id)
	net.nodes = append(net.nodes, n)
	net.nameIndex[n.Name()] = id
	net.growAdjacency()
	return id, nil
}

func (net *Network) growAdjacency() {
	n := len(net.nodes)
	grown := matrix.New[int](n, n)
	old := net.adjacency
	for r := 0; r < old.RowCount(); r++ {
		for c := 0; c < old.ColCount(); c++ {
			grown.Set(r, c, old.Get(r, c))
		}
	}
	net.adjacency = grown
}

// Parents returns the parent dense IDs of a node, read directly off the
// adjacency matrix.
func (net *Network) Parents(childID int) ([]int, error) {
	if childID < 0 || childID >= len(net.nodes) {
		return nil, fmt.Errorf("%w: node id %d", errs.ErrNotFound, childID)
	}
	var parents []int
	for p := 0; p < len(net.nodes); p++ {
		if net.adjacency.Get(p, childID) == 1 {
			parents = append(parents, p)
		}
	}
	return parents, nil
}

// Children returns the child dense IDs of a node.
func (net *Network) Children(parentID int) ([]int, error) {
	if parentID < 0 || parentID >= len(net.nodes) {
		return nil, fmt.Errorf("%w: node id %d", errs.ErrNotFound, parentID)
	}
	var children []int
	for c := 0; c < len(net.nodes); c++ {
		if net.adjacency.Get(parentID, c) == 1 {
			children = append(children, c)
		}
	}
	return children, nil
}

// AddEdge marks parentID as a parent of childID, refreshes childID's CPT
// shape, and rejects the edge if it would create a cycle.
func (net *Network) AddEdge(parentID, childID int) error {
	if parentID < 0 || parentID >= len(net.nodes) || childID < 0 || childID >= len(net.nodes) {
		return fmt.Errorf("%w: edge (%d,%d)", errs.ErrNotFound, parentID, childID)
	}
	if parentID == childID {
		return fmt.Errorf("%w: self edge on node %d", errs.ErrParse, parentID)
	}
	if net.adjacency.Get(parentID, childID) == 1 {
		return nil
	}

	net.adjacency.Set(parentID, childID, 1)
	if err := net.CycleCheck(); err != nil {
		net.adjacency.Set(parentID, childID, 0)
		return err
	}
	return net.assignParents(childID)
}

// RemoveEdge clears a parent-child link and refreshes the child's CPT shape.
func (net *Network) RemoveEdge(parentID, childID int) error {
	if parentID < 0 || parentID >= len(net.nodes) || childID < 0 || childID >= len(net.nodes) {
		return fmt.Errorf("%w: edge (%d,%d)", errs.ErrNotFound, parentID, childID)
	}
	net.adjacency.Set(parentID, childID, 0)
	return net.assignParents(childID)
}

// CutParents removes every incoming edge of a node, making it a root.
func (net *Network) CutParents(id int) error {
	if id < 0 || id >= len(net.nodes) {
		return fmt.Errorf("%w: node id %d", errs.ErrNotFound, id)
	}
	for p := 0; p < len(net.nodes); p++ {
		net.adjacency.Set(p, id, 0)
	}
	return net.assignParents(id)
}

// RefreshCPTShapes recomputes every node's parent list, cardinalities, and
// CPT shape from the current adjacency matrix. datafactory calls this once
// after assigning every node's value alphabet from sample data, since edges
// added during topology load run assignParents before cardinalities are
// known and leave placeholder (possibly zero-sized) CPTs behind.
func (net *Network) RefreshCPTShapes() error {
	for id := range net.nodes {
		if err := net.assignParents(id); err != nil {
			return err
		}
	}
	return nil
}

// assignParents recomputes a node's parent list and cardinalities from the
// adjacency matrix and pushes the result into the node, reshaping its CPT.
func (net *Network) assignParents(childID int) error {
	parents, err := net.Parents(childID)
	if err != nil {
		return err
	}
	cards := make([]int, len(parents))
	for i, p := range parents {
		cards[i] = net.nodes[p].Cardinality()
	}
	return net.nodes[childID].SetParents(parents, cards)
}

// CycleCheck reports errs.ErrCycleDetected if the adjacency matrix is not
// acyclic. It uses an explicit stack rather than recursion, so a pathological
// network cannot blow the Go call stack.
func (net *Network) CycleCheck() error {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make([]int, len(net.nodes))

	type frame struct {
		node     int
		children []int
		next     int
	}

	for start := 0; start < len(net.nodes); start++ {
		if color[start] != white {
			continue
		}
		children, err := net.Children(start)
		if err != nil {
			return err
		}
		stack := []frame{{node: start, children: children}}
		color[start] = gray

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next >= len(top.children) {
				color[top.node] = black
				stack = stack[:len(stack)-1]
				continue
			}
			next := top.children[top.next]
			top.next++

			switch color[next] {
			case gray:
				return fmt.Errorf("%w: via node %d", errs.ErrCycleDetected, next)
			case white:
				nextChildren, err := net.Children(next)
				if err != nil {
					return err
				}
				color[next] = gray
				stack = append(stack, frame{node: next, children: nextChildren})
			}
		}
	}
	return nil
}

// CreateBackup snapshots the network's nodes and adjacency matrix. It is a
// no-op if a backup already exists: interventions take exactly one backup
// and restore it once, so a second DoIntervention before a reverse must not
// overwrite the pre-intervention state.
func (net *Network) CreateBackup() {
	if net.backup != nil {
		return
	}
	nodesCopy := make([]*node.Node, len(net.nodes))
	for i, n := range net.nodes {
		nodesCopy[i] = n.Copy()
	}
	net.backup = &snapshot{
		nodes:     nodesCopy,
		adjacency: copyIntMatrix(net.adjacency),
		hypoStart: net.hypoStart,
		idMap:     copyIDMap(net.idMap),
	}
}

// LoadBackup restores the most recent backup and clears it. It is a no-op if
// no backup exists.
func (net *Network) LoadBackup() {
	if net.backup == nil {
		return
	}
	net.nodes = net.backup.nodes
	net.adjacency = net.backup.adjacency
	net.hypoStart = net.backup.hypoStart
	net.idMap = net.backup.idMap
	net.nameIndex = make(map[string]int, len(net.nodes))
	for _, n := range net.nodes {
		net.nameIndex[n.Name()] = n.ID()
	}
	net.backup = nil
}

// HasBackup reports whether a backup is currently held.
func (net *Network) HasBackup() bool { return net.backup != nil }

// CreateTwinNetwork duplicates every original node (name suffixed with "*")
// to build the hypothetical world a counterfactual query reasons about. The
// twin nodes mirror the originals' edges among themselves; do-interventions
// are then applied only to the twin half. It is an error to call this twice
// without an intervening RemoveHypoNodes.
func (net *Network) CreateTwinNetwork() error {
	if net.hypoStart >= 0 {
		return fmt.Errorf("%w: twin network already present", errs.ErrParse)
	}
	originalCount := len(net.nodes)
	net.hypoStart = originalCount
	net.idMap = make(map[int]int, originalCount)

	for id := 0; id < originalCount; id++ {
		orig := net.nodes[id]
		twin := orig.Copy()
		twin.SetName(orig.Name() + "*")
		twinID, err := net.AddNode(twin)
		if err != nil {
			return err
		}
		net.idMap[id] = twinID
	}

	for id := 0; id < originalCount; id++ {
		parents, err := net.Parents(id)
		if err != nil {
			return err
		}
		twinParents := make([]int, len(parents))
		for i, p := range parents {
			twinParents[i] = net.idMap[p]
		}
		for _, tp := range twinParents {
			net.adjacency.Set(tp, net.idMap[id], 1)
		}
		if err := net.assignParents(net.idMap[id]); err != nil {
			return err
		}
	}
	return nil
}

// TwinID maps an original node's dense ID to its counterpart in the twin
// network created by CreateTwinNetwork.
func (net *Network) TwinID(originalID int) (int, error) {
	if net.hypoStart < 0 {
		return 0, fmt.Errorf("%w: no twin network present", errs.ErrParse)
	}
	id, ok := net.idMap[originalID]
	if !ok {
		return 0, fmt.Errorf("%w: original id %d", errs.ErrNotFound, originalID)
	}
	return id, nil
}

// HypoStart returns the dense ID of the first twin node, or -1 if no twin
// network exists.
func (net *Network) HypoStart() int { return net.hypoStart }

// RemoveHypoNodes discards the twin network created by CreateTwinNetwork. It
// is a no-op if none exists.
func (net *Network) RemoveHypoNodes() {
	if net.hypoStart < 0 {
		return
	}
	net.nodes = net.nodes[:net.hypoStart]
	shrunk := matrix.New[int](net.hypoStart, net.hypoStart)
	for r := 0; r < net.hypoStart; r++ {
		for c := 0; c < net.hypoStart; c++ {
			shrunk.Set(r, c, net.adjacency.Get(r, c))
		}
	}
	net.adjacency = shrunk
	for name, id := range net.nameIndex {
		if id >= net.hypoStart {
			delete(net.nameIndex, name)
		}
	}
	net.hypoStart = -1
	net.idMap = nil
}

func copyIntMatrix(m *matrix.Matrix[int]) *matrix.Matrix[int] {
	cp := matrix.New[int](m.RowCount(), m.ColCount())
	for r := 0; r < m.RowCount(); r++ {
		copy(cp.Row(r), m.Row(r))
	}
	return cp
}

func copyIDMap(m map[int]int) map[int]int {
	if m == nil {
		return nil
	}
	cp := make(map[int]int, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}

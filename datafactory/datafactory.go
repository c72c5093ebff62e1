// Package datafactory binds an external sample matrix to a network's nodes:
// it discretizes each node's raw column, derives the node's value alphabet,
// and accumulates the observation counts the trainer will fit CPTs from.
package datafactory

import (
	"fmt"
	"sort"

	"github.com/causaltrail-go/engine/discretize"
	"github.com/causaltrail-go/engine/errs"
	"github.com/causaltrail-go/engine/internal/obs"
	"github.com/causaltrail-go/engine/matrix"
	"github.com/causaltrail-go/engine/network"
)

// NALabel is the category used for a missing or unparsable observation.
const NALabel = "NA"

// Load discretizes every node's sample column, assigns its value alphabet,
// reshapes every node's CPT against the network's edges, and accumulates
// observation counts ready for trainer.Fit.
//
// A sample whose value is NA at a parent position is skipped entirely for
// that node's count table: NA never becomes a synthetic parent state, it
// just means the sample carries no evidence about that conditional slice.
func Load(net *network.Network, samples *matrix.Matrix[string], cfg discretize.Config) error {
	columns, err := discretizeColumns(net, samples, cfg)
	if err != nil {
		return err
	}

	if err := assignValueAlphabets(net, columns); err != nil {
		return err
	}
	if err := net.RefreshCPTShapes(); err != nil {
		return err
	}
	return accumulateObservations(net, columns)
}

// discretizeColumns reads the sample matrix (rows = variables, columns =
// samples, per the external Matrix<string> convention) and returns, per node
// ID, the discretized value for every sample.
func discretizeColumns(net *network.Network, samples *matrix.Matrix[string], cfg discretize.Config) (map[int][]string, error) {
	columns := make(map[int][]string, net.NodeCount())
	for _, n := range net.Nodes() {
		row, err := samples.RowByName(n.Name())
		if err != nil {
			return nil, fmt.Errorf("%w: no sample row for node %q", errs.ErrNotFound, n.Name())
		}

		raw := make([]string, samples.ColCount())
		for c := 0; c < samples.ColCount(); c++ {
			raw[c] = samples.Get(row, c)
		}

		recipe := cfg[n.Name()]
		if recipe.Method == "" {
			recipe.Method = discretize.MethodNone
		}
		discretized, err := discretize.Apply(recipe, raw, NALabel)
		if err != nil {
			return nil, fmt.Errorf("discretizing node %q: %w", n.Name(), err)
		}
		columns[n.ID()] = discretized
	}
	return columns, nil
}

func assignValueAlphabets(net *network.Network, columns map[int][]string) error {
	for _, n := range net.Nodes() {
		values, hasNA := uniqueSorted(columns[n.ID()])
		if hasNA {
			values = append(values, NALabel)
		}
		if err := n.SetValueNames(values); err != nil {
			return err
		}
		obs.Logger().Debug().Str("node", n.Name()).Int("cardinality", n.Cardinality()).Msg("value alphabet assigned")
	}
	return nil
}

func uniqueSorted(column []string) (values []string, hasNA bool) {
	seen := make(map[string]bool)
	for _, v := range column {
		if v == NALabel {
			hasNA = true
			continue
		}
		if !seen[v] {
			seen[v] = true
			values = append(values, v)
		}
	}
	sort.Strings(values)
	return values, hasNA
}

func accumulateObservations(net *network.Network, columns map[int][]string) error {
	rowCount := 0
	for _, col := range columns {
		rowCount = len(col)
		break
	}

	skipped := 0
	for r := 0; r < rowCount; r++ {
		for _, n := range net.Nodes() {
			value := columns[n.ID()][r]
			valueIdx, err := n.ValueIndex(value)
			if err != nil {
				return err
			}

			parentValues := make([]int, len(n.Parents()))
			ignore := false
			for i, p := range n.Parents() {
				parentNode, err := net.Node(p)
				if err != nil {
					return err
				}
				pv := columns[p][r]
				if pv == NALabel {
					ignore = true
					break
				}
				idx, err := parentNode.ValueIndex(pv)
				if err != nil {
					return err
				}
				parentValues[i] = idx
			}
			if ignore {
				skipped++
				continue
			}

			row, err := n.EncodeRow(parentValues)
			if err != nil {
				return err
			}
			n.ObservationMatrix.Set(row, valueIdx, n.ObservationMatrix.Get(row, valueIdx)+1)
		}
	}
	obs.Logger().Info().Int("samples", rowCount).Int("skipped_on_na_parent", skipped).Msg("observations accumulated")
	return nil
}

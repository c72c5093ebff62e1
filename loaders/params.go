package loaders

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/causaltrail-go/engine/errs"
	"github.com/causaltrail-go/engine/network"
)

// DumpParameters writes every node's CPT as TSV:
// node\tvalue\tparent=value...\tprobability
func DumpParameters(net *network.Network, w io.Writer) error {
	if _, err := fmt.Fprintln(w, "node\tvalue\tparentConfig\tprobability"); err != nil {
		return err
	}
	for _, n := range net.Nodes() {
		for row := 0; row < n.ProbabilityMatrix.RowCount(); row++ {
			parentValues, err := n.DecodeRow(row)
			if err != nil {
				return err
			}
			var configParts []string
			for i, pID := range n.Parents() {
				pNode, err := net.Node(pID)
				if err != nil {
					return err
				}
				configParts = append(configParts, pNode.Name()+"="+pNode.UniqueValuesExcludingNA()[parentValues[i]])
			}
			config := strings.Join(configParts, ",")
			if config == "" {
				config = "-"
			}

			for col, value := range n.UniqueValuesExcludingNA() {
				p, err := n.Probability(row, col)
				if err != nil {
					return err
				}
				if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					n.Name(), value, config, strconv.FormatFloat(p, 'f', -1, 64)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// DumpParametersToFile writes the network's CPTs to a new file named
// Parameters_<unix-timestamp>.tsv in dir, returning the path written.
func DumpParametersToFile(net *network.Network, dir string) (string, error) {
	path := dir + string(os.PathSeparator) + "Parameters_" + strconv.FormatInt(time.Now().Unix(), 10) + ".tsv"
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("%w: creating %s: %v", errs.ErrParse, path, err)
	}
	defer f.Close()

	if err := DumpParameters(net, f); err != nil {
		return "", err
	}
	return path, nil
}

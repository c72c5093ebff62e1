// Package loaders reads network topology, sample matrices, and their
// collaborating file formats from disk, producing the types the core engine
// consumes.
package loaders

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/causaltrail-go/engine/errs"
	"github.com/causaltrail-go/engine/internal/obs"
	"github.com/causaltrail-go/engine/network"
	"github.com/causaltrail-go/engine/node"
)

type declaredNode struct {
	originalID int
	name       string
}

// LoadTGF reads a Trivial Graph Format file: declaration lines `<id> <name>`,
// a line containing only "#", then edge lines `<id_parent> <id_child>`.
// Original IDs are remapped densely in ascending order.
func LoadTGF(path string) (*network.Network, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", errs.ErrParse, path, err)
	}
	defer file.Close()

	var declared []declaredNode
	var edgeLines [][2]int
	inEdges := false

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "#" {
			inEdges = true
			continue
		}
		fields := strings.Fields(line)
		if !inEdges {
			if len(fields) < 2 {
				return nil, fmt.Errorf("%w: malformed TGF declaration %q", errs.ErrParse, line)
			}
			id, err := strconv.Atoi(fields[0])
			if err != nil {
				return nil, fmt.Errorf("%w: TGF id %q: %v", errs.ErrParse, fields[0], err)
			}
			declared = append(declared, declaredNode{originalID: id, name: strings.Join(fields[1:], " ")})
		} else {
			if len(fields) < 2 {
				return nil, fmt.Errorf("%w: malformed TGF edge %q", errs.ErrParse, line)
			}
			p, err1 := strconv.Atoi(fields[0])
			c, err2 := strconv.Atoi(fields[1])
			if err1 != nil || err2 != nil {
				return nil, fmt.Errorf("%w: TGF edge %q", errs.ErrParse, line)
			}
			edgeLines = append(edgeLines, [2]int{p, c})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", errs.ErrParse, path, err)
	}

	net, denseMap, err := buildNetworkFromDeclarations(declared)
	if err != nil {
		return nil, err
	}

	for _, e := range edgeLines {
		pID, err := denseMap.Lookup(e[0])
		if err != nil {
			return nil, err
		}
		cID, err := denseMap.Lookup(e[1])
		if err != nil {
			return nil, err
		}
		if err := net.AddEdge(pID, cID); err != nil {
			return nil, err
		}
	}

	obs.Logger().Info().Str("file", path).Int("nodes", net.NodeCount()).Msg("TGF topology loaded")
	return net, nil
}

// LoadNA reads a Node Alphabet file: an ignored header line, then body lines
// `<id> <discard> <name>`. It declares nodes only; edges are added
// afterward by LoadSIF against the returned DenseIDMap.
func LoadNA(path string) (*network.Network, *network.DenseIDMap, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: opening %s: %v", errs.ErrParse, path, err)
	}
	defer file.Close()

	var declared []declaredNode
	scanner := bufio.NewScanner(file)
	first := true
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if first {
			first = false
			continue // header line, ignored
		}
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			return nil, nil, fmt.Errorf("%w: malformed NA line %q", errs.ErrParse, line)
		}
		id, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, nil, fmt.Errorf("%w: NA id %q: %v", errs.ErrParse, fields[0], err)
		}
		declared = append(declared, declaredNode{originalID: id, name: strings.Join(fields[2:], " ")})
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("%w: reading %s: %v", errs.ErrParse, path, err)
	}

	net, denseMap, err := buildNetworkFromDeclarations(declared)
	if err != nil {
		return nil, nil, err
	}
	obs.Logger().Info().Str("file", path).Int("nodes", net.NodeCount()).Msg("NA node alphabet loaded")
	return net, denseMap, nil
}

// LoadSIF reads a Simple Interaction Format file: lines
// `<id_parent> <relation> <id_child>`, and adds the corresponding edges to a
// network whose node alphabet was already established by LoadNA.
func LoadSIF(net *network.Network, denseMap *network.DenseIDMap, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: opening %s: %v", errs.ErrParse, path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	edges := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			return fmt.Errorf("%w: malformed SIF line %q", errs.ErrParse, line)
		}
		pOrig, err1 := strconv.Atoi(fields[0])
		cOrig, err2 := strconv.Atoi(fields[2])
		if err1 != nil || err2 != nil {
			return fmt.Errorf("%w: SIF edge %q", errs.ErrParse, line)
		}
		pID, err := denseMap.Lookup(pOrig)
		if err != nil {
			return err
		}
		cID, err := denseMap.Lookup(cOrig)
		if err != nil {
			return err
		}
		if err := net.AddEdge(pID, cID); err != nil {
			return err
		}
		edges++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%w: reading %s: %v", errs.ErrParse, path, err)
	}
	obs.Logger().Info().Str("file", path).Int("edges", edges).Msg("SIF edges loaded")
	return nil
}

func buildNetworkFromDeclarations(declared []declaredNode) (*network.Network, *network.DenseIDMap, error) {
	originalIDs := make([]int, len(declared))
	for i, d := range declared {
		originalIDs[i] = d.originalID
	}
	denseMap := network.NewDenseIDMap(originalIDs)

	sorted := append([]declaredNode(nil), declared...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].originalID < sorted[j].originalID })

	net := network.New()
	for _, d := range sorted {
		n := node.New(0, d.name)
		if _, err := net.AddNode(n); err != nil {
			return nil, nil, err
		}
	}
	return net, denseMap, nil
}

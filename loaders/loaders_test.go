package loaders

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/causaltrail-go/engine/trainer"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadTGFRemapsDenseIDs(t *testing.T) {
	path := writeTemp(t, "topo.tgf", strings.Join([]string{
		"40 Difficulty",
		"10 Intelligence",
		"70 Grade",
		"#",
		"40 70",
		"10 70",
	}, "\n")+"\n")

	net, err := LoadTGF(path)
	require.NoError(t, err)
	require.Equal(t, 3, net.NodeCount())

	gradeID, err := net.GetIndex("Grade")
	require.NoError(t, err)
	parents, err := net.Parents(gradeID)
	require.NoError(t, err)
	require.Len(t, parents, 2)

	diffID, _ := net.GetIndex("Difficulty")
	intelID, _ := net.GetIndex("Intelligence")
	require.ElementsMatch(t, []int{diffID, intelID}, parents)

	// dense IDs assigned by ascending original ID: Intelligence(10) < Difficulty(40) < Grade(70)
	require.Equal(t, 0, intelID)
	require.Equal(t, 1, diffID)
	require.Equal(t, 2, gradeID)
}

func TestLoadNAThenSIF(t *testing.T) {
	naPath := writeTemp(t, "alphabet.na", strings.Join([]string{
		"id\tdiscard\tname",
		"1 x Rain",
		"2 x WetGrass",
	}, "\n")+"\n")

	net, denseMap, err := LoadNA(naPath)
	require.NoError(t, err)
	require.Equal(t, 2, net.NodeCount())

	sifPath := writeTemp(t, "edges.sif", "1 causes 2\n")
	require.NoError(t, LoadSIF(net, denseMap, sifPath))

	grassID, _ := net.GetIndex("WetGrass")
	parents, err := net.Parents(grassID)
	require.NoError(t, err)
	require.Len(t, parents, 1)
}

func TestLoadSampleMatrixShapeMismatch(t *testing.T) {
	path := writeTemp(t, "samples.txt", strings.Join([]string{
		"Rain no yes no",
		"WetGrass no yes",
	}, "\n")+"\n")

	_, err := LoadSampleMatrix(path)
	require.Error(t, err)
}

func TestLoadSampleMatrixShape(t *testing.T) {
	path := writeTemp(t, "samples.txt", strings.Join([]string{
		"Rain no yes no",
		"WetGrass no yes no",
	}, "\n")+"\n")

	m, err := LoadSampleMatrix(path)
	require.NoError(t, err)
	require.Equal(t, 2, m.RowCount())
	require.Equal(t, 3, m.ColCount())

	row, err := m.RowByName("Rain")
	require.NoError(t, err)
	require.Equal(t, "no", m.Get(row, 0))
}

func TestDumpParametersWritesHeaderAndRows(t *testing.T) {
	net, _, err := LoadNA(writeTemp(t, "a.na", "header\n1 x Coin\n"))
	require.NoError(t, err)

	coin, err := net.Node(0)
	require.NoError(t, err)
	require.NoError(t, coin.SetValueNames([]string{"h", "t"}))
	require.NoError(t, coin.SetParents(nil, nil))
	coin.ObservationMatrix.Set(0, 0, 3)
	coin.ObservationMatrix.Set(0, 1, 1)
	require.NoError(t, trainer.Fit(net))

	var buf strings.Builder
	require.NoError(t, DumpParameters(net, &buf))

	out := buf.String()
	require.True(t, strings.HasPrefix(out, "node\tvalue\tparentConfig\tprobability\n"))
	require.Contains(t, out, "Coin\th\t-\t")
}

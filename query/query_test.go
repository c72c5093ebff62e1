package query

import (
	"testing"

	"github.com/causaltrail-go/engine/errs"
	"github.com/causaltrail-go/engine/interventions"
	"github.com/causaltrail-go/engine/network"
	"github.com/causaltrail-go/engine/node"
	"github.com/causaltrail-go/engine/probability"
	"github.com/causaltrail-go/engine/trainer"
	"github.com/stretchr/testify/require"
)

func buildRainNetwork(t *testing.T) *network.Network {
	t.Helper()
	net := network.New()

	rain := node.New(0, "Rain")
	require.NoError(t, rain.SetValueNames([]string{"no", "yes"}))
	require.NoError(t, rain.SetParents(nil, nil))
	rainID, err := net.AddNode(rain)
	require.NoError(t, err)
	rain.ObservationMatrix.Set(0, 0, 7)
	rain.ObservationMatrix.Set(0, 1, 3)

	grass := node.New(0, "WetGrass")
	require.NoError(t, grass.SetValueNames([]string{"no", "yes"}))
	grassID, err := net.AddNode(grass)
	require.NoError(t, err)
	require.NoError(t, net.AddEdge(rainID, grassID))
	grass.ObservationMatrix.Set(0, 0, 8)
	grass.ObservationMatrix.Set(0, 1, 2)
	grass.ObservationMatrix.Set(1, 0, 1)
	grass.ObservationMatrix.Set(1, 1, 9)

	require.NoError(t, trainer.Fit(net))
	return net
}

func TestParseSimpleQuery(t *testing.T) {
	net := buildRainNetwork(t)
	plan, err := Parse(net, "? WetGrass = yes")
	require.NoError(t, err)

	grassID, _ := net.GetIndex("WetGrass")
	require.Equal(t, []int{grassID}, plan.QueryNodes)
	require.Equal(t, 1, plan.QueryAssignment[grassID])
}

func TestParseEvidenceAndIntervention(t *testing.T) {
	net := buildRainNetwork(t)
	plan, err := Parse(net, "? WetGrass = yes | Rain = no ! do Rain = yes")
	require.NoError(t, err)

	rainID, _ := net.GetIndex("Rain")
	require.Equal(t, []int{rainID}, plan.ConditionNodes)
	require.Equal(t, 0, plan.ConditionAssignment[rainID])
	require.Equal(t, []int{rainID}, plan.InterventionNodes)
	require.Equal(t, 1, plan.InterventionAssignment[rainID])
}

func TestParseArgmax(t *testing.T) {
	net := buildRainNetwork(t)
	plan, err := Parse(net, "? argmax(Rain,WetGrass)")
	require.NoError(t, err)

	rainID, _ := net.GetIndex("Rain")
	grassID, _ := net.GetIndex("WetGrass")
	require.Equal(t, []int{rainID, grassID}, plan.ArgmaxNodes)
}

func TestParseUnknownNodeErrors(t *testing.T) {
	net := buildRainNetwork(t)
	_, err := Parse(net, "? Sprinkler = on")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestExecuteJointQuery(t *testing.T) {
	net := buildRainNetwork(t)
	plan, err := Parse(net, "? WetGrass = yes")
	require.NoError(t, err)

	exec := NewExecuter(net, probability.New(net), interventions.New(net), plan)
	result, err := exec.Execute()
	require.NoError(t, err)
	require.Greater(t, result.Probability, 0.0)
	require.Less(t, result.Probability, 1.0)
}

func TestExecuteInterventionRestoresNetworkAfter(t *testing.T) {
	net := buildRainNetwork(t)
	rainID, _ := net.GetIndex("Rain")

	plan, err := Parse(net, "? WetGrass = yes ! do Rain = yes")
	require.NoError(t, err)

	exec := NewExecuter(net, probability.New(net), interventions.New(net), plan)
	_, err = exec.Execute()
	require.NoError(t, err)

	parents, err := net.Parents(rainID)
	require.NoError(t, err)
	require.Empty(t, parents) // Rain was always a root; unaffected either way
	require.False(t, net.HasBackup())
}

func TestExecuteArgmax(t *testing.T) {
	net := buildRainNetwork(t)
	plan, err := Parse(net, "? argmax(Rain)")
	require.NoError(t, err)

	exec := NewExecuter(net, probability.New(net), interventions.New(net), plan)
	result, err := exec.Execute()
	require.NoError(t, err)
	require.Len(t, result.Labels, 1)
}

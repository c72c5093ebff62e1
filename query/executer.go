package query

import (
	"github.com/causaltrail-go/engine/interventions"
	"github.com/causaltrail-go/engine/network"
	"github.com/causaltrail-go/engine/probability"
)

// Executer runs a parsed Plan against a network, applying and reversing any
// do-interventions around the probability computation it dispatches to.
type Executer struct {
	net  *network.Network
	prob *probability.Handler
	iv   *interventions.Interventions
	plan *Plan
}

// NewExecuter binds a plan to the handlers it will run against.
func NewExecuter(net *network.Network, prob *probability.Handler, iv *interventions.Interventions, plan *Plan) *Executer {
	return &Executer{net: net, prob: prob, iv: iv, plan: plan}
}

// Result is the outcome of one query: a probability and, for an argmax
// query, the value-name labels of the winning assignment.
type Result struct {
	Probability float64
	Labels      []string
}

// Execute applies interventions, dispatches to argmax/conditional/joint
// probability per the plan, then always reverses the interventions it
// applied, even if the probability computation failed.
func (e *Executer) Execute() (Result, error) {
	// Reverse even if an intervention or the probability computation below
	// fails: a query error must never leave the network pinned to a stale
	// intervention.
	defer e.iv.ReverseDoIntervention()
	for id, val := range e.plan.InterventionAssignment {
		if err := e.iv.DoIntervention(id, val); err != nil {
			return Result{}, err
		}
	}

	switch {
	case len(e.plan.ArgmaxNodes) > 0:
		p, assignment, err := e.prob.MaxSearch(e.plan.ArgmaxNodes)
		if err != nil {
			return Result{}, err
		}
		labels, err := e.labelsFor(e.plan.ArgmaxNodes, assignment)
		if err != nil {
			return Result{}, err
		}
		return Result{Probability: p, Labels: labels}, nil

	case len(e.plan.ConditionNodes) > 0:
		p, err := e.prob.ComputeConditionalProbability(
			e.plan.QueryNodes, e.plan.ConditionNodes,
			e.plan.QueryAssignment, e.plan.ConditionAssignment)
		if err != nil {
			return Result{}, err
		}
		return Result{Probability: p}, nil

	default:
		p, err := e.prob.ComputeJointProbability(e.plan.QueryNodes, e.plan.QueryAssignment)
		if err != nil {
			return Result{}, err
		}
		return Result{Probability: p}, nil
	}
}

func (e *Executer) labelsFor(nodeIDs, assignment []int) ([]string, error) {
	labels := make([]string, len(nodeIDs))
	for i, id := range nodeIDs {
		n, err := e.net.Node(id)
		if err != nil {
			return nil, err
		}
		labels[i] = n.UniqueValuesExcludingNA()[assignment[i]]
	}
	return labels, nil
}

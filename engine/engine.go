// Package engine wires a network to its probability handler and
// interventions handle as one explicit value, with no package-level state.
package engine

import (
	"github.com/causaltrail-go/engine/datafactory"
	"github.com/causaltrail-go/engine/discretize"
	"github.com/causaltrail-go/engine/interventions"
	"github.com/causaltrail-go/engine/loaders"
	"github.com/causaltrail-go/engine/network"
	"github.com/causaltrail-go/engine/probability"
	"github.com/causaltrail-go/engine/query"
	"github.com/causaltrail-go/engine/trainer"
)

// Engine bundles a network with the handlers that operate on it.
type Engine struct {
	Network       *network.Network
	Probability   *probability.Handler
	Interventions *interventions.Interventions
}

// New wraps an already-loaded network, constructing its handlers.
func New(net *network.Network) *Engine {
	return &Engine{
		Network:       net,
		Probability:   probability.New(net),
		Interventions: interventions.New(net),
	}
}

// LoadTGF builds an Engine from a TGF topology file, a sample matrix file,
// and a discretization config file: it loads the topology, binds and
// discretizes the samples, and fits every node's CPT.
func LoadTGF(topologyPath, samplesPath, discretizationPath string) (*Engine, error) {
	net, err := loaders.LoadTGF(topologyPath)
	if err != nil {
		return nil, err
	}
	return bootstrap(net, samplesPath, discretizationPath)
}

func bootstrap(net *network.Network, samplesPath, discretizationPath string) (*Engine, error) {
	samples, err := loaders.LoadSampleMatrix(samplesPath)
	if err != nil {
		return nil, err
	}

	cfg, err := discretize.LoadConfig(discretizationPath)
	if err != nil {
		return nil, err
	}

	if err := datafactory.Load(net, samples, cfg); err != nil {
		return nil, err
	}
	if err := trainer.Fit(net); err != nil {
		return nil, err
	}

	return New(net), nil
}

// RunQuery parses and executes one query line against the engine.
func (e *Engine) RunQuery(line string) (query.Result, error) {
	plan, err := query.Parse(e.Network, line)
	if err != nil {
		return query.Result{}, err
	}
	exec := query.NewExecuter(e.Network, e.Probability, e.Interventions, plan)
	return exec.Execute()
}

// DumpParameters writes every node's CPT as TSV to a timestamped file in dir.
func (e *Engine) DumpParameters(dir string) (string, error) {
	return loaders.DumpParametersToFile(e.Network, dir)
}


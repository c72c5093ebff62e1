// Command causaltrail loads a network topology, its sample data, and a
// discretization recipe, fits its CPTs, then drops into an interactive query
// REPL.
//
// The positional arguments match the data_file/discretisation_json contract
// of the program this tool descends from; that program located its network
// topology from filenames baked into the binary. Hardcoding filenames isn't
// acceptable here, so topology is named explicitly with --topology instead.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/causaltrail-go/engine/engine"
	"github.com/causaltrail-go/engine/internal/obs"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var quiet bool
	var dumpDir string
	var topologyPath string

	cmd := &cobra.Command{
		Use:   "causaltrail <data_file> <discretisation_json> --topology <tgf_file>",
		Short: "Discrete Bayesian-network inference over a query REPL",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if quiet {
				obs.SetOutput(io.Discard)
			}
			if topologyPath == "" {
				return fmt.Errorf("--topology is required: a TGF file naming the network's nodes and edges")
			}
			return run(cmd.InOrStdin(), cmd.OutOrStdout(), topologyPath, args[0], args[1], dumpDir)
		},
	}

	cmd.Flags().BoolVar(&quiet, "quiet", false, "suppress structured logging")
	cmd.Flags().StringVar(&dumpDir, "dump-dir", "", "write a Parameters_<ts>.tsv CPT dump to this directory on exit")
	cmd.Flags().StringVar(&topologyPath, "topology", "", "TGF file describing the network's nodes and edges (required)")
	return cmd
}

func run(in interface{ Read([]byte) (int, error) }, out interface {
	Write([]byte) (int, error)
}, topologyPath, samplesPath, discretizationPath string, dumpDir string) error {
	eng, err := engine.LoadTGF(topologyPath, samplesPath, discretizationPath)
	if err != nil {
		return fmt.Errorf("loading network: %w", err)
	}
	obs.Logger().Info().Int("nodes", eng.Network.NodeCount()).Msg("network ready")

	repl(in, out, eng)

	if dumpDir != "" {
		path, err := eng.DumpParameters(dumpDir)
		if err != nil {
			return fmt.Errorf("dumping parameters: %w", err)
		}
		obs.Logger().Info().Str("path", path).Msg("parameters dumped")
	}
	return nil
}

func repl(in interface{ Read([]byte) (int, error) }, out interface {
	Write([]byte) (int, error)
}, eng *engine.Engine) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" {
			return
		}

		result, err := eng.RunQuery(line)
		if err != nil {
			obs.Logger().Error().Err(err).Str("query", line).Msg("query failed")
			continue
		}
		if len(result.Labels) > 0 {
			fmt.Fprintf(out, "%f %s\n", result.Probability, strings.Join(result.Labels, ","))
		} else {
			fmt.Fprintf(out, "%f\n", result.Probability)
		}
	}
}

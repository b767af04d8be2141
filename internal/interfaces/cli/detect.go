package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/hbond-engine/internal/application/analysis"
	"github.com/turtacn/hbond-engine/internal/config"
	"github.com/turtacn/hbond-engine/internal/infrastructure/monitoring/logging"
	types "github.com/turtacn/hbond-engine/pkg/types/hbond"
)

type detectOptions struct {
	preset   string
	filter   string
	maxBonds int
	intra    bool
	contexts []string
	workers  int
}

// NewDetectCmd creates the detect subcommand.
func NewDetectCmd() *cobra.Command {
	opts := &detectOptions{}

	cmd := &cobra.Command{
		Use:   "detect <file.pdb>",
		Short: "Detect hydrogen bonds in a PDB file",
		Example: "  hbond detect 1ehz.pdb\n" +
			"  hbond detect 1ehz.pdb --preset legacy-compatible -o table\n" +
			"  hbond detect 1ehz.pdb --filter generic --max-bonds 2 -o json",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd, args[0], opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.preset, "preset", "", "parameter preset (default from config)")
	f.StringVar(&opts.filter, "filter", "", "global occupancy filter: "+strings.Join(config.FilterModes, "|"))
	f.IntVar(&opts.maxBonds, "max-bonds", config.DefaultMaxBonds, "bonds per atom kept by the generic filter (0 disables)")
	f.BoolVar(&opts.intra, "intra", false, "also report bonds within a single residue")
	f.StringSliceVar(&opts.contexts, "contexts", nil, "only report these interaction types, e.g. base-base,base-sugar")
	f.IntVar(&opts.workers, "workers", 0, "parallel residue-pair workers (default from config)")
	return cmd
}

func runDetect(cmd *cobra.Command, path string, opts *detectOptions) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}

	input := &analysis.AnalyzeInput{
		Preset:   opts.preset,
		Filter:   opts.filter,
		Contexts: opts.contexts,
		Workers:  opts.workers,
	}
	if cmd.Flags().Changed("max-bonds") {
		input.MaxBondsPerAtom = &opts.maxBonds
	}
	if cmd.Flags().Changed("intra") {
		input.DetectIntraResidue = &opts.intra
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cliCtx.Timeout)
	defer cancel()

	a, err := cliCtx.Service.AnalyzeFile(ctx, path, input)
	if err != nil {
		return err
	}
	cliCtx.Logger.Debug("detect finished", logging.String("run_id", a.RunID), logging.String("file", path))
	return PrintResult(cmd, cliCtx.OutputFormat, detectView{analysis.ToResponse(a)})
}

// detectView renders a detection response for each output format.
type detectView struct {
	resp *types.DetectResponse
}

func (v detectView) JSON() interface{} { return v.resp }

func (v detectView) TableHeaders() []string {
	return []string{"DONOR", "ATOM", "ACCEPTOR", "ATOM", "DIST", "CONTEXT", "CLASS", "CONFLICT", "QUALITY"}
}

func (v detectView) TableRows() [][]string {
	rows := make([][]string, 0, len(v.resp.Bonds))
	for _, b := range v.resp.Bonds {
		quality := "-"
		if b.Quality != nil {
			quality = fmt.Sprintf("%.1f %s", b.Quality.Score, b.Quality.Tier)
		}
		rows = append(rows, []string{
			b.DonorResidue, b.DonorAtom, b.AcceptorResidue, b.AcceptorAtom,
			fmt.Sprintf("%.2f", b.Distance), b.Context, b.Classification, b.ConflictState, quality,
		})
	}
	return rows
}

// String renders one line per residue pair in the compact legacy notation,
// followed by a summary line.
func (v detectView) String() string {
	var sb strings.Builder
	for k, p := range v.resp.Pairs {
		fmt.Fprintf(&sb, "%5d %-14s %-14s %s\n", k+1, p.ResidueA, p.ResidueB, p.Notation)
	}
	s := v.resp.Summary
	fmt.Fprintf(&sb, "# %s: %d bonds (%d standard, %d good) in %d of %d residue pairs; preset %s, filter %s",
		v.resp.Structure, s.Bonds, s.StandardCount, s.GoodCount, s.PairsWithBonds, s.PairsChecked,
		v.resp.Preset, v.resp.Filter)
	if s.FilterRemoved > 0 {
		fmt.Fprintf(&sb, " (%d removed)", s.FilterRemoved)
	}
	sb.WriteString("\n")
	return sb.String()
}

//Personal.AI order the ending

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/hbond-engine/internal/application/analysis"
	"github.com/turtacn/hbond-engine/internal/domain/hbond"
	types "github.com/turtacn/hbond-engine/pkg/types/hbond"
)

// NewPresetsCmd creates the presets subcommand.
func NewPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the registered parameter presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			infos := cliCtx.Service.Presets()
			view := make(presetsView, 0, len(infos))
			for _, p := range infos {
				view = append(view, analysis.ToPreset(p))
			}
			return PrintResult(cmd, cliCtx.OutputFormat, view)
		},
	}
}

type presetsView []types.Preset

func (v presetsView) JSON() interface{} { return []types.Preset(v) }

func (v presetsView) TableHeaders() []string {
	return []string{"NAME", "DEFAULT", "MIN", "BASE-BASE", "PROMOTION", "ANGLES", "QUALITY", "ELEMENTS"}
}

func (v presetsView) TableRows() [][]string {
	rows := make([][]string, 0, len(v))
	for _, p := range v {
		rows = append(rows, []string{
			p.Name,
			yesNo(p.Default),
			fmt.Sprintf("%.1f", p.MinDistance),
			fmt.Sprintf("%.1f", p.MaxDistances[hbond.ContextBaseBase.String()]),
			fmt.Sprintf("%.1f", p.PromotionDistance),
			yesNo(p.EnableAngleFilter),
			yesNo(p.EnableQualityScoring),
			strings.Join(p.AllowedElements, ","),
		})
	}
	return rows
}

func (v presetsView) String() string {
	var sb strings.Builder
	for _, p := range v {
		mark := " "
		if p.Default {
			mark = "*"
		}
		fmt.Fprintf(&sb, "%s %-18s min %.1f  base-base %.1f  elements %s\n",
			mark, p.Name, p.MinDistance, p.MaxDistances[hbond.ContextBaseBase.String()],
			strings.Join(p.AllowedElements, ","))
	}
	return sb.String()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

//Personal.AI order the ending

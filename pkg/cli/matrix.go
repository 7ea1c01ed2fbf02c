package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/mchmarny/purk/pkg/risk"
	"github.com/urfave/cli/v3"
)

const gridFlagName = "grid"

func newMatrixCmd() *cli.Command {
	return &cli.Command{
		Name:    "matrix",
		Aliases: []string{"m"},
		Usage:   "Print the table combining PURK and SCN1 into PURK+",
		Action:  cmdMatrix,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  gridFlagName,
				Usage: "Print as a text grid instead of the output format",
			},
		},
	}
}

func cmdMatrix(_ context.Context, cmd *cli.Command) error {
	cfg := getConfig(cmd)
	w := cmd.Root().Writer

	if !cmd.Bool(gridFlagName) {
		return encode(w, cfg.Format, risk.Matrix())
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprint(tw, "SCN1 \\ PURK")
	for _, p := range risk.Groups() {
		fmt.Fprintf(tw, "\t%s", p.Title())
	}
	fmt.Fprintln(tw)

	for _, f := range risk.Groups() {
		fmt.Fprint(tw, f.Title())
		for _, p := range risk.Groups() {
			fmt.Fprintf(tw, "\t%s", risk.Combine(p, f).Title())
		}
		fmt.Fprintln(tw)
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("writing grid: %w", err)
	}
	return nil
}

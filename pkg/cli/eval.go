package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mchmarny/purk/pkg/form"
	"github.com/mchmarny/purk/pkg/risk"
	"github.com/urfave/cli/v3"
)

const (
	creatinineFlagName     = "creatinine"
	creatinineUnitFlagName = "creatinine-unit"
	fttFlagName            = "ftt"
	vurFlagName            = "vur"
	dysplasiaFlagName      = "dysplasia"
	nadirFlagName          = "nadir"
	nadirUnitFlagName      = "nadir-unit"
)

func unitNames() string {
	names := make([]string, 0, len(risk.Units()))
	for _, u := range risk.Units() {
		names = append(names, string(u))
	}
	return strings.Join(names, ", ")
}

func newEvalCmd() *cli.Command {
	return &cli.Command{
		Name:    "eval",
		Aliases: []string{"e"},
		Usage:   "Compute PURK, SCN1 and PURK+ for a single patient",
		Action:  cmdEval,
		Flags: []cli.Flag{
			&cli.FloatFlag{
				Name:    creatinineFlagName,
				Aliases: []string{"c"},
				Usage:   "Serum creatinine measured more than 72h after birth (optional, omit when unknown)",
			},
			&cli.StringFlag{
				Name:  creatinineUnitFlagName,
				Usage: fmt.Sprintf("Unit of --%s [%s] (default from config)", creatinineFlagName, unitNames()),
			},
			&cli.BoolFlag{
				Name:  fttFlagName,
				Usage: "Failure to thrive",
			},
			&cli.BoolFlag{
				Name:  vurFlagName,
				Usage: "High-grade vesicoureteral reflux",
			},
			&cli.BoolFlag{
				Name:  dysplasiaFlagName,
				Usage: "Renal dysplasia",
			},
			&cli.FloatFlag{
				Name:    nadirFlagName,
				Aliases: []string{"n"},
				Usage:   "Lowest serum creatinine in the first year of life (optional, PURK+ needs it)",
			},
			&cli.StringFlag{
				Name:  nadirUnitFlagName,
				Usage: fmt.Sprintf("Unit of --%s [%s] (default from config)", nadirFlagName, unitNames()),
			},
		},
	}
}

func cmdEval(_ context.Context, cmd *cli.Command) error {
	cfg := getConfig(cmd)

	req := &form.Request{
		Creatinine72hUnit: cmd.String(creatinineUnitFlagName),
		FailureToThrive:   cmd.Bool(fttFlagName),
		HighGradeVUR:      cmd.Bool(vurFlagName),
		RenalDysplasia:    cmd.Bool(dysplasiaFlagName),
		NadirUnit:         cmd.String(nadirUnitFlagName),
	}
	if cmd.IsSet(creatinineFlagName) {
		v := cmd.Float(creatinineFlagName)
		req.Creatinine72h = &v
	}
	if cmd.IsSet(nadirFlagName) {
		v := cmd.Float(nadirFlagName)
		req.Nadir = &v
	}

	in, err := req.Input(cfg.defaults())
	if err != nil {
		return fmt.Errorf("evaluating input: %w", err)
	}

	a := risk.Evaluate(in)
	if !a.Combined.Defined() {
		slog.Info("enter the first year creatinine nadir to compute PURK+")
	}

	return encode(cmd.Root().Writer, cfg.Format, a)
}

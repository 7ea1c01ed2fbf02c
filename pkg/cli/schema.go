package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/invopop/jsonschema"
	"github.com/mchmarny/purk/pkg/form"
	"github.com/mchmarny/purk/pkg/risk"
	"github.com/urfave/cli/v3"
)

const (
	schemaTypeFlagName = "type"

	schemaInput      = "input"
	schemaAssessment = "assessment"
)

func newSchemaCmd() *cli.Command {
	return &cli.Command{
		Name:   "schema",
		Usage:  "Print the JSON schema of the evaluation API request or response",
		Action: cmdSchema,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  schemaTypeFlagName,
				Usage: fmt.Sprintf("Schema to print [%s, %s]", schemaInput, schemaAssessment),
				Value: schemaInput,
			},
		},
	}
}

func cmdSchema(_ context.Context, cmd *cli.Command) error {
	b, err := generateSchema(cmd.String(schemaTypeFlagName))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.Root().Writer, string(b))
	return err
}

func generateSchema(kind string) ([]byte, error) {
	var v any
	switch kind {
	case schemaInput:
		v = &form.Request{}
	case schemaAssessment:
		v = &risk.Assessment{}
	default:
		return nil, fmt.Errorf("unknown schema type: %s", kind)
	}

	r := jsonschema.Reflector{
		ExpandedStruct: true,
		Mapper:         mapRiskTypes,
	}

	b, err := json.MarshalIndent(r.Reflect(v), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return b, nil
}

// mapRiskTypes describes types whose JSON form differs from their Go kind.
func mapRiskTypes(t reflect.Type) *jsonschema.Schema {
	switch t {
	case reflect.TypeFor[risk.Group]():
		enum := make([]any, 0, len(risk.Groups()))
		for _, g := range risk.Groups() {
			enum = append(enum, g.String())
		}
		return &jsonschema.Schema{
			Description: "Risk group, null when it cannot be computed",
			OneOf: []*jsonschema.Schema{
				{Type: "string", Enum: enum},
				{Type: "null"},
			},
		}
	case reflect.TypeFor[risk.Unit]():
		enum := make([]any, 0, len(risk.Units()))
		for _, u := range risk.Units() {
			enum = append(enum, string(u))
		}
		return &jsonschema.Schema{Type: "string", Enum: enum}
	default:
		return nil
	}
}

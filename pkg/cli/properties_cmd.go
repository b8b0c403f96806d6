package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"moleculehub/internal/domain"
	"moleculehub/internal/registry"
)

type propertyJSON struct {
	Key         string   `json:"key"`
	DisplayName string   `json:"display_name"`
	Required    bool     `json:"required"`
	Type        string   `json:"type"`
	Unit        string   `json:"unit,omitempty"`
	Min         *float64 `json:"min,omitempty"`
	Max         *float64 `json:"max,omitempty"`
	Aliases     []string `json:"aliases,omitempty"`
}

func newPropertiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "properties",
		Short: "List the properties columns can be mapped to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := registry.LoadOrDefault(getRegistryPath(cmd))
			if err != nil {
				return err
			}
			defs := reg.Properties()

			if getOutputFormat(cmd) == "json" {
				out := make([]propertyJSON, 0, len(defs))
				for _, d := range defs {
					out = append(out, propertyJSON{
						Key: d.Key, DisplayName: d.DisplayName, Required: d.Required,
						Type: string(d.Type), Unit: d.Unit, Min: d.Min, Max: d.Max, Aliases: d.Aliases,
					})
				}
				return printJSON(cmd.OutOrStdout(), out)
			}

			rows := make([][]string, 0, len(defs))
			for _, d := range defs {
				rows = append(rows, []string{
					d.Key, d.DisplayName, string(d.Type), strconv.FormatBool(d.Required),
					d.Unit, formatRange(d), strings.Join(d.Aliases, ", "),
				})
			}
			return printTable(cmd.OutOrStdout(),
				[]string{"key", "display name", "type", "required", "unit", "range", "aliases"}, rows)
		},
	}
}

func formatRange(d domain.PropertyDefinition) string {
	if d.Min == nil && d.Max == nil {
		return ""
	}
	lo, hi := "", ""
	if d.Min != nil {
		lo = strconv.FormatFloat(*d.Min, 'g', -1, 64)
	}
	if d.Max != nil {
		hi = strconv.FormatFloat(*d.Max, 'g', -1, 64)
	}
	return "[" + lo + ", " + hi + "]"
}

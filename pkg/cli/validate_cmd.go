package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"moleculehub/internal/domain"
	"moleculehub/internal/ingest"
	"moleculehub/internal/mapping"
	"moleculehub/internal/registry"
)

type validateReport struct {
	File       string         `json:"file"`
	Rows       int            `json:"rows"`
	Mappings   []mappingJSON  `json:"mappings"`
	Validation validationJSON `json:"validation"`
	RowIssues  []rowIssueJSON `json:"row_issues"`

	registry domain.PropertyRegistry
}

type mappingJSON struct {
	SourceColumn string `json:"source_column"`
	TargetField  string `json:"target_field"`
}

type validationJSON struct {
	IsValid bool     `json:"is_valid"`
	Errors  []string `json:"errors"`
}

type rowIssueJSON struct {
	Row      int    `json:"row"`
	Column   string `json:"column"`
	Property string `json:"property"`
	Message  string `json:"message"`
}

func newValidateCmd() *cobra.Command {
	var (
		maps    []string
		suggest bool
	)

	cmd := &cobra.Command{
		Use:   "validate FILE",
		Short: "Check a CSV/TSV file and column mapping without uploading it",
		Long: `Parse FILE, build a column mapping and validate it against the property
registry. Columns start unmapped; --suggest applies the name-based
suggestions first and each --map Column=key is applied after that, in order.
Row values are checked once the mapping is valid.

The exit status is 1 when the mapping is not valid. Use "-" to read stdin.`,
		Example: `  molhub validate compounds.csv --suggest
  molhub validate hits.tsv --map "Structure=smiles" --map "MW=molecular_weight"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry.LoadOrDefault(getRegistryPath(cmd))
			if err != nil {
				return err
			}
			assignments, err := parseMapFlags(maps)
			if err != nil {
				return err
			}
			data, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			report, err := runValidate(args[0], data, reg, suggest, assignments)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if getOutputFormat(cmd) == "json" {
				err = printJSON(out, report)
			} else {
				err = printValidateTable(out, report)
			}
			if err != nil {
				return err
			}
			if !report.Validation.IsValid {
				return errInvalid
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&maps, "map", nil, "Assign a column to a property key (Column=key, empty key unmaps); repeatable")
	cmd.Flags().BoolVar(&suggest, "suggest", false, "Apply suggested mappings before --map assignments")
	return cmd
}

// parseMapFlags splits each Column=key at the last '=' so column names may
// themselves contain '='.
func parseMapFlags(values []string) ([]domain.ColumnMapping, error) {
	out := make([]domain.ColumnMapping, 0, len(values))
	for _, v := range values {
		i := strings.LastIndex(v, "=")
		if i <= 0 {
			return nil, fmt.Errorf("invalid --map %q: want Column=key", v)
		}
		out = append(out, domain.ColumnMapping{SourceColumn: v[:i], TargetField: strings.TrimSpace(v[i+1:])})
	}
	return out, nil
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path) //nolint:gosec // path is user-supplied on purpose
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func runValidate(name string, data []byte, reg domain.PropertyRegistry, suggest bool, assignments []domain.ColumnMapping) (*validateReport, error) {
	upload, err := ingest.Parse(bytes.NewReader(data), ingest.Options{Filename: name})
	if err != nil {
		return nil, err
	}
	set, err := mapping.Initialize(upload.Headers)
	if err != nil {
		return nil, err
	}
	if suggest {
		if set, err = mapping.Apply(set, reg, mapping.Suggest(upload.Headers, reg)); err != nil {
			return nil, err
		}
	}
	if set, err = mapping.Apply(set, reg, assignments); err != nil {
		return nil, err
	}

	result := mapping.Validate(set, reg)
	report := &validateReport{
		File:       name,
		Rows:       len(upload.Rows),
		Mappings:   make([]mappingJSON, 0, len(set)),
		Validation: validationJSON{IsValid: result.IsValid, Errors: result.Errors},
		RowIssues:  []rowIssueJSON{},
		registry:   reg,
	}
	if report.Validation.Errors == nil {
		report.Validation.Errors = []string{}
	}
	for _, m := range set {
		report.Mappings = append(report.Mappings, mappingJSON{SourceColumn: m.SourceColumn, TargetField: m.TargetField})
	}
	if result.IsValid {
		for _, i := range mapping.CheckRows(set, reg, upload.Rows) {
			report.RowIssues = append(report.RowIssues, rowIssueJSON{Row: i.Row, Column: i.Column, Property: i.Property, Message: i.Message})
		}
	}
	return report, nil
}

func printValidateTable(w io.Writer, r *validateReport) error {
	_, _ = fmt.Fprintf(w, "%s: %d data rows, %d columns\n\n", r.File, r.Rows, len(r.Mappings))

	rows := make([][]string, 0, len(r.Mappings))
	for _, m := range r.Mappings {
		target := "-"
		if m.TargetField != domain.Unmapped {
			target = m.TargetField
			if def, ok := r.registry.Lookup(m.TargetField); ok {
				target = def.DisplayName + " (" + def.Key + ")"
			}
		}
		rows = append(rows, []string{m.SourceColumn, target})
	}
	if err := printTable(w, []string{"column", "property"}, rows); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(w)

	if !r.Validation.IsValid {
		_, _ = fmt.Fprintln(w, "Mapping is not valid:")
		for _, e := range r.Validation.Errors {
			_, _ = fmt.Fprintf(w, "  - %s\n", e)
		}
		return nil
	}
	_, _ = fmt.Fprintln(w, "Mapping is valid.")
	if len(r.RowIssues) == 0 {
		return nil
	}

	_, _ = fmt.Fprintf(w, "\n%d row issues (rows with issues are skipped on commit):\n", len(r.RowIssues))
	issues := make([][]string, 0, len(r.RowIssues))
	for _, i := range r.RowIssues {
		issues = append(issues, []string{strconv.Itoa(i.Row), i.Column, i.Message})
	}
	return printTable(w, []string{"row", "column", "problem"}, issues)
}

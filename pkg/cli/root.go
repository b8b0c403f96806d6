// Package cli implements the molhub command-line tool: offline inspection
// of the property registry and dry-run validation of import files.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

// errInvalid signals a completed run whose result was not valid. Nothing
// more is printed for it; the exit status carries the outcome.
var errInvalid = errors.New("invalid")

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	return execute(newRootCmd(), os.Args[1:], os.Stdout, os.Stderr)
}

func execute(rootCmd *cobra.Command, args []string, stdout, stderr io.Writer) int {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.Execute()
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errInvalid):
		return 1
	}

	output, _ := rootCmd.PersistentFlags().GetString("output")
	if output == "json" {
		_ = printJSON(stdout, map[string]string{"error": err.Error()})
	} else {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return 1
}

func newRootCmd() *cobra.Command {
	var (
		output       string
		registryPath string
	)

	rootCmd := &cobra.Command{
		Use:           "molhub",
		Short:         "Molecule import CLI",
		Long:          "Inspect the property registry and check CSV/TSV molecule files against it before uploading.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Apply precedence: flag > env > default
			if !cmd.Flags().Changed("output") {
				if v := os.Getenv("MOLHUB_OUTPUT"); v != "" {
					output = v
				}
			}
			if !cmd.Flags().Changed("registry") {
				if v := os.Getenv("PROPERTY_REGISTRY_PATH"); v != "" {
					registryPath = v
				}
			}
			return validateOutputFormat(output)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "table", "Output format (table, json)")
	rootCmd.PersistentFlags().StringVar(&registryPath, "registry", "", "Property registry YAML file (default: built-in)")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newPropertiesCmd())
	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "completion [bash|zsh|fish|powershell]",
		Short:     "Generate shell completion scripts",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			default:
				return fmt.Errorf("unsupported shell: %s", args[0])
			}
		},
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conneroisu/projectcard/internal/catalog"
	"github.com/conneroisu/projectcard/internal/errors"
)

var convertCmd = &cobra.Command{
	Use:   "convert [catalog]",
	Short: "Rewrite the catalog as YAML or JSON",
	Long: `Decode the catalog and write it back in another format. Descriptions
come out as lists of paragraphs.

Examples:
  projectcard convert --to json                    # projects.yml as JSON on stdout
  projectcard convert projects.yml -o projects.json
  projectcard convert projects.json --to yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConvert,
}

var (
	convertTo     string
	convertOutput string
)

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVarP(&convertTo, "to", "t", "", "Target format (yaml|json); defaults to the --output extension")
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "Write to this file instead of stdout")
}

func runConvert(cmd *cobra.Command, args []string) error {
	format, err := convertFormat(convertTo, convertOutput)
	if err != nil {
		return err
	}

	cfg, _, err := loadConfig(cmd, args, nil)
	if err != nil {
		return err
	}

	file, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return err
	}

	if convertOutput == "" {
		return catalog.Encode(cmd.OutOrStdout(), file, format)
	}
	return writeFile(convertOutput, func(w io.Writer) error {
		return catalog.Encode(w, file, format)
	})
}

// convertFormat resolves the target format from --to, or from the
// output extension when --to is empty.
func convertFormat(to, output string) (catalog.Format, error) {
	switch strings.ToLower(to) {
	case "yaml", "yml":
		return catalog.FormatYAML, nil
	case "json":
		return catalog.FormatJSON, nil
	case "":
		if output == "" {
			return "", errors.NewValidationError(errors.ErrCodeUnknownFormat, "--to is required when writing to stdout")
		}
		return catalog.FormatFor(output)
	default:
		return "", errors.NewValidationError(errors.ErrCodeUnknownFormat,
			fmt.Sprintf("unknown format %q, must be yaml or json", to))
	}
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conneroisu/projectcard/internal/card"
	"github.com/conneroisu/projectcard/internal/catalog"
	"github.com/conneroisu/projectcard/internal/errors"
)

var validateCmd = &cobra.Command{
	Use:     "validate [catalog]",
	Aliases: []string{"v"},
	Short:   "Check the catalog for mistakes",
	Long: `Decode the catalog and report problems: missing or duplicate names,
empty descriptions, link entries with no or several URLs, and local images
that are not in the assets directory.

Exits non-zero when an error is found, or any issue with --strict.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

var validateStrict bool

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "Treat warnings as errors")
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd, args, nil)
	if err != nil {
		return err
	}

	file, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return err
	}

	issues := catalog.Validate(file)
	issues = append(issues, imageIssues(file, card.NewDirAssets(cfg.Assets.Dir, cfg.Assets.BaseURL))...)

	out := cmd.OutOrStdout()
	for _, issue := range issues {
		fmt.Fprintln(out, issue.String())
	}

	if catalog.HasErrors(issues) || (validateStrict && len(issues) > 0) {
		return errors.NewValidationError(errors.ErrCodeInvalidInput,
			fmt.Sprintf("%s has %d issue(s)", cfg.Catalog.Path, len(issues))).WithFile(cfg.Catalog.Path)
	}

	fmt.Fprintf(out, "%s: %d project(s), %d warning(s)\n", cfg.Catalog.Path, len(file.Projects), len(issues))
	return nil
}

// imageIssues warns about local images the card would replace with a banner.
func imageIssues(file *catalog.File, assets card.AssetResolver) []catalog.Issue {
	var issues []catalog.Issue
	for i, p := range file.Projects {
		if p.Image == "" {
			continue
		}
		if _, err := card.ImageSource(p.Image, assets); err != nil {
			fallback := "the card shows its banner"
			if !p.BannerEnabled() {
				fallback = "the card has no image area"
			}
			issues = append(issues, catalog.Issue{
				Severity: catalog.SeverityWarning,
				Index:    i,
				Project:  p.Name,
				Message:  fmt.Sprintf("image %q not found, %s", p.Image, fallback),
			})
		}
	}
	return issues
}

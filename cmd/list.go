package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/projectcard/internal/card"
	"github.com/conneroisu/projectcard/internal/catalog"
)

var listCmd = &cobra.Command{
	Use:     "list [catalog]",
	Aliases: []string{"l"},
	Short:   "List the projects in the catalog",
	Long: `List every project in the catalog with its image and links.

Examples:
  projectcard list                 # Table
  projectcard list -f json         # JSON
  projectcard list data.yml -f yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

var listFlags *StandardFlags

// listEntry is one project as printed by list.
type listEntry struct {
	Name      string   `json:"name" yaml:"name"`
	ShortName string   `json:"short_name,omitempty" yaml:"short_name,omitempty"`
	Image     string   `json:"image,omitempty" yaml:"image,omitempty"`
	Banner    bool     `json:"banner" yaml:"banner"`
	Links     []string `json:"links" yaml:"links"`
}

func init() {
	rootCmd.AddCommand(listCmd)

	listFlags = AddStandardFlags(listCmd, "output")
	AddFlagValidation(listCmd, "format", ValidateFormat)
}

func runList(cmd *cobra.Command, args []string) error {
	if err := listFlags.ValidateFlags(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	cfg, _, err := loadConfig(cmd, args, nil)
	if err != nil {
		return err
	}

	file, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return err
	}

	if listFlags.Quiet {
		return nil
	}

	out := cmd.OutOrStdout()
	entries := listEntries(file.Projects)

	switch strings.ToLower(listFlags.OutputFormat) {
	case "json":
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(entries)
	case "yaml":
		encoder := yaml.NewEncoder(out)
		encoder.SetIndent(2)
		defer encoder.Close()
		return encoder.Encode(entries)
	default:
		if len(entries) == 0 {
			fmt.Fprintf(out, "No projects in %s.\n", cfg.Catalog.Path)
			return nil
		}
		return outputTable(out, entries)
	}
}

func listEntries(projects []card.ProjectCard) []listEntry {
	entries := make([]listEntry, len(projects))
	for i, p := range projects {
		links := make([]string, 0, len(p.Links))
		for _, l := range p.Links {
			links = append(links, l.Fields()...)
		}
		entries[i] = listEntry{
			Name:      p.Name,
			ShortName: p.ShortName,
			Image:     p.Image,
			Banner:    p.Image == "" && p.BannerEnabled(),
			Links:     links,
		}
	}
	return entries
}

func outputTable(out io.Writer, entries []listEntry) error {
	title := cases.Title(language.English)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSHORT NAME\tIMAGE\tLINKS")
	fmt.Fprintln(w, "----\t----------\t-----\t-----")

	for _, e := range entries {
		image := e.Image
		switch {
		case image == "" && e.Banner:
			image = "(banner)"
		case image == "":
			image = "-"
		}

		links := make([]string, len(e.Links))
		for i, l := range e.Links {
			links[i] = title.String(l)
		}
		linkText := strings.Join(links, ", ")
		if linkText == "" {
			linkText = "-"
		}

		shortName := e.ShortName
		if shortName == "" {
			shortName = "-"
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Name, shortName, image, linkText)
	}

	return w.Flush()
}

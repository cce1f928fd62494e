package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/a-h/templ"
	"github.com/spf13/cobra"

	"github.com/conneroisu/projectcard/internal/card"
	"github.com/conneroisu/projectcard/internal/catalog"
	"github.com/conneroisu/projectcard/internal/errors"
	"github.com/conneroisu/projectcard/internal/page"
	"github.com/conneroisu/projectcard/internal/validation"
)

var renderCmd = &cobra.Command{
	Use:     "render [catalog]",
	Aliases: []string{"r"},
	Short:   "Render the catalog to a static HTML gallery",
	Long: `Render every project card (or only those named with --name) to HTML.
Output goes to stdout unless --output is given.

Examples:
  projectcard render                          # Full page on stdout
  projectcard render -o site/index.html       # Write a file
  projectcard render --name Acme --fragment   # Only the gallery markup
  projectcard render -o out/index.html --static-dir out/static`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRender,
}

var (
	renderFlags     *StandardFlags
	renderOutput    string
	renderNames     []string
	renderFragment  bool
	renderStaticURL string
	renderStaticDir string
)

func init() {
	rootCmd.AddCommand(renderCmd)

	renderFlags = AddStandardFlags(renderCmd, "render")
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "Write HTML to this file instead of stdout")
	renderCmd.Flags().StringSliceVarP(&renderNames, "name", "n", nil, "Only render these projects (repeatable)")
	renderCmd.Flags().BoolVar(&renderFragment, "fragment", false, "Emit the gallery without the page around it")
	renderCmd.Flags().StringVar(&renderStaticURL, "static-url", card.DefaultStaticURL, "URL prefix of card.css and the icons")
	renderCmd.Flags().StringVar(&renderStaticDir, "static-dir", "", "Also write card.css and the icons into this directory")
	renderCmd.Flags().String("title", "", "Page title (default from render.title)")
}

func runRender(cmd *cobra.Command, args []string) error {
	if err := renderFlags.ValidateFlags(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	cfg, logger, err := loadConfig(cmd, args, map[string]string{
		"button-links":   "render.button_links",
		"show-link-text": "render.show_link_text",
		"title":          "render.title",
	})
	if err != nil {
		return err
	}
	ctx := contextOrBackground(cmd.Context())

	file, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return err
	}

	projects, err := selectProjects(file, renderNames)
	if err != nil {
		return err
	}

	opts := []card.Option{
		card.WithAssets(card.NewDirAssets(cfg.Assets.Dir, cfg.Assets.BaseURL)),
		card.WithIcons(card.DefaultIcons(renderStaticURL)),
		card.WithLinkOptions(cfg.LinkOptions()),
		card.WithLogger(logger),
	}
	cards := make([]templ.Component, len(projects))
	for i, p := range projects {
		cards[i] = card.Card(p, opts...)
	}

	component := page.Gallery(cards)
	if !renderFragment {
		component = page.Document(cfg.Render.Title, page.LayoutOptions{StaticURL: renderStaticURL}, component)
	}

	if renderOutput != "" {
		if err := validation.ValidateFileExtension(renderOutput, []string{".html", ".htm"}); err != nil {
			return errors.NewValidationError(errors.ErrCodeInvalidPath, "invalid --output: "+err.Error())
		}
		err := writeFile(renderOutput, func(w io.Writer) error {
			if err := component.Render(ctx, w); err != nil {
				return fmt.Errorf("rendering gallery: %w", err)
			}
			return nil
		})
		if err != nil {
			return err
		}
	} else if err := component.Render(ctx, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("rendering gallery: %w", err)
	}

	if renderStaticDir != "" {
		if err := os.CopyFS(renderStaticDir, card.StaticFS()); err != nil {
			return errors.NewIOError(errors.ErrCodeInvalidPath, "cannot write static files", err).WithFile(renderStaticDir)
		}
	}

	if renderOutput != "" {
		logger.Info(ctx, "gallery written", "path", renderOutput, "projects", len(projects))
	}
	return nil
}

// selectProjects returns the named projects in the order given, or every
// project when names is empty.
func selectProjects(file *catalog.File, names []string) ([]card.ProjectCard, error) {
	if len(names) == 0 {
		return file.Projects, nil
	}

	projects := make([]card.ProjectCard, 0, len(names))
	var missing []string
	for _, name := range names {
		p, ok := file.Find(name)
		if !ok {
			missing = append(missing, name)
			continue
		}
		projects = append(projects, p)
	}

	if len(missing) > 0 {
		return nil, errors.NewValidationError(errors.ErrCodeProjectNotFound,
			"no project named "+strings.Join(missing, ", ")).
			WithContext("available", len(file.Projects))
	}
	return projects, nil
}

/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/josephgoksu/flowkit/internal/config"
	"github.com/josephgoksu/flowkit/internal/persona"
	"github.com/josephgoksu/flowkit/internal/project"
	"github.com/josephgoksu/flowkit/internal/ui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// newPCCmd builds the pc (persona context) command tree.
func newPCCmd(c *cli) *cobra.Command {
	root := c.newRootCmd(
		"pc sets up projects and manages role personas.",
		`pc scaffolds the workflow configuration directory of a project and installs
persona documents that describe each role's responsibilities. Installed
copies can be edited freely; pc never overwrites them.

The workflow subcommands are the same operations wt offers.`,
	)

	wf := &cobra.Command{
		Use:   "workflow",
		Short: "Initialize and advance the project workflow",
	}
	wf.AddCommand(
		newInitCmd(c),
		newStatusCmd(c),
		newStartCmd(c),
		newCompletePhaseCmd(c, "complete"),
	)

	root.AddCommand(
		newPCInitCmd(c),
		newPersonaListCmd(c),
		newPersonaAddCmd(c),
		newPersonaShowCmd(c),
		wf,
	)
	return root
}

func newPCInitCmd(c *cli) *cobra.Command {
	var names []string
	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Scaffold the workflow configuration directory and install personas",
		Long: `Create <dir>/.ai-workflow with a config file seed and a personas
directory, then install persona documents. All built-in personas are
installed unless --personas names a subset. Existing files are kept.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			root := c.paths.Root
			if len(args) == 1 {
				abs, err := filepath.Abs(args[0])
				if err != nil {
					return err
				}
				root = abs
			}

			res, err := project.Scaffold(c.fs, root, project.ScaffoldOptions{
				ConfigDir: c.cfg.Project.ConfigDir,
				Seed:      config.DefaultAppConfig(),
			})
			if err != nil {
				return err
			}
			for _, p := range res.Created {
				c.log.Debug("created", zap.String("path", p))
			}

			store, err := c.personas()
			if err != nil {
				return err
			}
			inst, err := store.Install(root, splitList(names)...)
			if err != nil {
				return c.report(out, err)
			}

			ui.Success(out, "Project ready at %s", filepath.Join(root, c.cfg.Project.ConfigDir))
			printInstall(c, out, inst)
			ui.Hint(out, "Create the workflow with 'wt init' or 'pc workflow init'.")
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&names, "personas", "p", nil, "personas to install (default: all)")
	return cmd
}

func printInstall(c *cli, out io.Writer, inst *persona.InstallResult) {
	if len(inst.Installed) > 0 {
		ui.Success(out, "Installed %d persona(s): %s", len(inst.Installed), strings.Join(inst.Installed, ", "))
	}
	if len(inst.Skipped) > 0 {
		ui.Hint(out, "Kept existing: %s", strings.Join(inst.Skipped, ", "))
	}
	c.log.Debug("personas installed", zap.Int("installed", len(inst.Installed)), zap.Int("skipped", len(inst.Skipped)))
}

func newPersonaListCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List built-in and installed personas",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			store, err := c.personas()
			if err != nil {
				return err
			}
			installed, err := store.Installed(c.paths.Root)
			if err != nil {
				return err
			}
			local := make(map[string]bool, len(installed))
			for _, p := range installed {
				local[p.Slug] = true
			}

			builtIn := store.List()
			if c.interactive() {
				ui.RenderPageHeader(out, "Personas", fmt.Sprintf("%d built-in, %d installed", len(builtIn), len(installed)))
			}

			// Slug, name and installed columns take about 50 cells.
			summaryWidth := max(ui.TerminalWidth(listWidth)-50, minSummaryWidth)
			t := &ui.Table{Headers: []string{"Persona", "Name", "Installed", "Summary"}, MaxWidth: summaryWidth}
			seen := make(map[string]bool)
			for _, p := range builtIn {
				seen[p.Slug] = true
				t.Rows = append(t.Rows, []string{p.Slug, p.Name, yesNo(local[p.Slug]), ui.Truncate(p.Summary, summaryWidth)})
			}
			for _, p := range installed {
				if !seen[p.Slug] {
					t.Rows = append(t.Rows, []string{p.Slug, p.Name, "custom", ui.Truncate(p.Summary, summaryWidth)})
				}
			}
			fmt.Fprint(out, t.Render())
			return nil
		},
	}
}

const (
	listWidth       = 110
	minSummaryWidth = 30
)

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func newPersonaAddCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "add <persona>...",
		Short: "Install built-in personas into the project",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			store, err := c.personas()
			if err != nil {
				return err
			}
			inst, err := store.Install(c.paths.Root, splitList(args)...)
			if err != nil {
				return c.report(out, err)
			}
			printInstall(c, out, inst)
			return nil
		},
	}
}

func newPersonaShowCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "show <persona>",
		Short: "Print a persona document",
		Long: `Print a persona. The project's installed copy is preferred over the
built-in one. Names, slugs and file names are accepted.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			store, err := c.personas()
			if err != nil {
				return err
			}
			p, err := store.Get(c.paths.Root, strings.Join(args, " "))
			if err != nil {
				return c.report(out, err)
			}
			if c.interactive() {
				panel := ui.NewPanel(p.Name, ui.StyleSubtle.Render(string(p.Source))).WithWidth(ui.TerminalWidth(listWidth) - 2)
				fmt.Fprintln(out, panel.Render())
			}
			fmt.Fprint(out, p.Content)
			if !strings.HasSuffix(p.Content, "\n") {
				fmt.Fprintln(out)
			}
			return nil
		},
	}
}

/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import "github.com/spf13/cobra"

// newWTCmd builds the wt (workflow tracker) command tree.
func newWTCmd(c *cli) *cobra.Command {
	root := c.newRootCmd(
		"wt tracks a project through the five-phase development workflow.",
		`wt keeps the workflow tracking file of a project: which phase is current,
the status and hours of each task, quality gate verdicts and KPIs.

Typical flow:
  pc init                      # set up the project
  wt init                      # create the tracking file
  wt start discovery           # begin the first phase
  wt update-task               # move tasks along
  wt complete-phase            # pass the quality gates and advance
  wt report                    # export a summary`,
	)
	root.AddCommand(
		newInitCmd(c),
		newStatusCmd(c),
		newStartCmd(c),
		newUpdateTaskCmd(c),
		newCompletePhaseCmd(c, "complete-phase"),
		newAddTaskCmd(c),
		newBlockCmd(c),
		newMetricCmd(c),
		newReportCmd(c),
		newPhasesCmd(c),
	)
	return root
}

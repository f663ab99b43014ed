/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/josephgoksu/flowkit/internal/ui"
	"github.com/josephgoksu/flowkit/internal/workflow"
	"github.com/josephgoksu/flowkit/models"
	"github.com/spf13/cobra"
)

func newInitCmd(c *cli) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the workflow tracking file from the five-phase template",
		Long: `Create a fresh workflow tracking document in the project's workflow
configuration directory. An existing document is replaced; you are asked
to confirm unless --force is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			svc, err := c.service()
			if err != nil {
				return err
			}

			if _, err := svc.Load(cmd.Context()); err == nil && !force {
				if !c.interactive() {
					ui.Warn(out, "A workflow tracking file already exists at %s", svc.TrackingPath())
					ui.Hint(out, "Re-run with --force to replace it.")
					return nil
				}
				ok, err := c.asker.Confirm("Replace the existing workflow tracking file")
				if err != nil {
					return c.report(out, err)
				}
				if !ok {
					ui.Warn(out, "Kept the existing workflow tracking file.")
					return nil
				}
			}

			doc, err := svc.Initialize(cmd.Context())
			if err != nil {
				return c.report(out, err)
			}
			ui.Success(out, "Workflow initialized with %d phases at %s", len(doc.Phases), svc.TrackingPath())
			ui.Hint(out, "Begin with '%s'.", c.subcommand(fmt.Sprintf("start %q", doc.Phases[0].Name)))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "replace an existing tracking file without asking")
	return cmd
}

func newStartCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "start <phase>",
		Short: "Start a phase and move the cursor to it",
		Long: `Mark a phase in-progress and make it the current phase. The phase is
matched by case-insensitive substring, so "design" finds "Design & Prototyping".
Phases may be started out of order.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			svc, err := c.service()
			if err != nil {
				return err
			}
			phase, err := svc.StartPhase(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return c.report(out, err)
			}
			ui.Success(out, "Phase %q started", phase.Name)
			if len(phase.Tasks) > 0 {
				ui.Hint(out, "%d task(s) in this phase. Update them with '%s'.", len(phase.Tasks), "wt update-task")
			}
			return nil
		},
	}
}

func newPhasesCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "phases",
		Short: "List the workflow template phases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for i, name := range workflow.PhaseNames() {
				fmt.Fprintf(out, "%d. %s\n", i+1, name)
			}
			return nil
		},
	}
}

func newBlockCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "block <reason>",
		Short: "Mark the current phase as blocked",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			svc, err := c.service()
			if err != nil {
				return err
			}
			phase, err := svc.BlockPhase(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return c.report(out, err)
			}
			ui.Warn(out, "Phase %q blocked: %s", phase.Name, phase.BlockedReason)
			ui.Hint(out, "Resume it with '%s'.", c.subcommand(fmt.Sprintf("start %q", phase.Name)))
			return nil
		},
	}
}

func newCompletePhaseCmd(c *cli, use string) *cobra.Command {
	var (
		recheck bool
		yes     bool
	)
	cmd := &cobra.Command{
		Use:   use,
		Short: "Evaluate the current phase's quality gates and advance",
		Long: `Ask for a verdict on every pending quality gate of the current phase.
A failing verdict needs a reason. When every gate has passed the phase is
completed and the next phase starts. Failed gates are not asked again
unless --recheck is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			svc, err := c.service()
			if err != nil {
				return err
			}

			comp, err := svc.BeginCompletion(cmd.Context(), workflow.CompletionOptions{RecheckFailed: recheck})
			if err != nil {
				return c.report(out, err)
			}

			var decider workflow.GateDecider
			switch {
			case yes, comp.Pending() == 0:
				decider = workflow.PassAll
			case c.interactive():
				decider = &ui.GateDecider{Asker: c.asker, Out: out}
			default:
				comp.Abort()
				return fmt.Errorf("quality gates need a verdict: run in a terminal or pass --yes")
			}

			res, err := comp.Run(decider)
			if err != nil {
				return c.report(out, err)
			}
			printCompletion(out, c, res)
			return nil
		},
	}
	cmd.Flags().BoolVar(&recheck, "recheck", false, "ask again about gates that previously failed")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "pass every pending gate without asking")
	return cmd
}

func printCompletion(out io.Writer, c *cli, res *workflow.CompletionResult) {
	if res.Completed {
		fmt.Fprintln(out)
		ui.Success(out, "Phase %q completed", res.PhaseName)
		if res.NextPhase != "" {
			ui.Success(out, "Phase %q started", res.NextPhase)
		}
		if res.Terminal {
			ui.Success(out, "All phases completed")
			ui.Hint(out, "Export a summary with 'wt report'.")
		}
		return
	}

	fmt.Fprintln(out)
	if res.Evaluated == 0 && len(res.Failures) > 0 {
		ui.Warn(out, "No gates were pending in %q", res.PhaseName)
	}
	if len(res.Failures) > 0 {
		ui.Warn(out, "Phase %q remains in progress: %d quality gate(s) failed", res.PhaseName, len(res.Failures))
		for _, g := range res.Failures {
			ui.Hint(out, "%s: %s", g.Name, g.Notes)
		}
		ui.Hint(out, "Fix them, then run '%s --recheck'.", c.subcommand(c.completeName()))
	}
	if len(res.Unresolved) > 0 {
		ui.Warn(out, "%d quality gate(s) still pending: %s", len(res.Unresolved), strings.Join(res.Unresolved, ", "))
	}
}

func (c *cli) completeName() string {
	if c.name == "pc" {
		return "complete"
	}
	return "complete-phase"
}

func newUpdateTaskCmd(c *cli) *cobra.Command {
	var (
		taskID string
		status string
		hours  float64
	)
	cmd := &cobra.Command{
		Use:   "update-task",
		Short: "Change a task's status or actual hours in the current phase",
		Long: `Update a task of the current phase. Without flags the task, the new
status and the hours are asked for interactively. Only tasks of the current
phase can be changed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			svc, err := c.service()
			if err != nil {
				return err
			}

			var upd workflow.TaskUpdate
			if cmd.Flags().Changed("status") {
				s := models.TaskStatus(strings.ToLower(strings.TrimSpace(status)))
				upd.Status = &s
			}
			if cmd.Flags().Changed("hours") {
				h := hours
				upd.ActualHours = &h
			}

			if taskID == "" || (upd.Status == nil && upd.ActualHours == nil) {
				if !c.interactive() {
					return fmt.Errorf("--task and --status or --hours are required when not running in a terminal")
				}
				if err := c.askTaskUpdate(cmd, svc, &taskID, &upd); err != nil {
					return c.report(out, err)
				}
			}

			res, err := svc.UpdateTask(cmd.Context(), taskID, upd)
			if err != nil {
				return c.report(out, err)
			}
			ui.Success(out, "Task %q is %s (%s logged)", res.Task.Name, res.Task.Status, ui.FormatHours(res.Task.ActualHours))
			if res.PhaseReady {
				ui.Success(out, "All tasks in %q are completed", res.PhaseName)
				ui.Hint(out, "Evaluate its quality gates with '%s'.", c.subcommand(c.completeName()))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&taskID, "task", "t", "", "task id in the current phase")
	cmd.Flags().StringVarP(&status, "status", "s", "", "new status (pending, in-progress, completed, blocked)")
	cmd.Flags().Float64Var(&hours, "hours", 0, "actual hours spent")
	return cmd
}

// askTaskUpdate fills in whatever the flags left open.
func (c *cli) askTaskUpdate(cmd *cobra.Command, svc *workflow.Service, taskID *string, upd *workflow.TaskUpdate) error {
	phase, tasks, err := svc.CurrentTasks(cmd.Context())
	if err != nil {
		return err
	}

	var task models.Task
	if *taskID == "" {
		task, err = ui.SelectTask(c.asker, "Select a task in "+phase, tasks)
		if err != nil {
			return err
		}
		*taskID = task.ID
	} else {
		for _, t := range tasks {
			if t.ID == *taskID {
				task = t
			}
		}
	}

	if upd.Status == nil {
		s, err := ui.SelectTaskStatus(c.asker, task.Status)
		if err != nil {
			return err
		}
		upd.Status = &s
	}
	if upd.ActualHours == nil {
		h, err := ui.AskHours(c.asker, "Actual hours (blank keeps current)", task.ActualHours)
		if err != nil {
			return err
		}
		upd.ActualHours = h
	}
	return nil
}

func newAddTaskCmd(c *cli) *cobra.Command {
	var (
		phaseQuery string
		in         workflow.NewTask
	)
	cmd := &cobra.Command{
		Use:   "add-task",
		Short: "Append a pending task to a phase",
		Long: `Add a task to any phase, whatever its status. The task id is derived
from the name. The current phase is used when --phase is omitted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			svc, err := c.service()
			if err != nil {
				return err
			}

			if phaseQuery == "" {
				doc, err := svc.Load(cmd.Context())
				if err != nil {
					return c.report(out, err)
				}
				if c.interactive() {
					names := make([]string, len(doc.Phases))
					for i, p := range doc.Phases {
						names[i] = p.Name
					}
					i, err := c.asker.Select("Add the task to which phase", names)
					if err != nil {
						return c.report(out, err)
					}
					phaseQuery = names[i]
				} else if cur := doc.Current(); cur != nil {
					phaseQuery = cur.Name
				}
			}
			if in.Name == "" {
				if !c.interactive() {
					return fmt.Errorf("--name is required when not running in a terminal")
				}
				if in.Name, err = c.asker.Text("Task name", "", ui.Required("task name")); err != nil {
					return c.report(out, err)
				}
				if in.Description, err = c.asker.Text("Description", in.Description, nil); err != nil {
					return c.report(out, err)
				}
			}

			phaseName, task, err := svc.AddTask(cmd.Context(), phaseQuery, in)
			if err != nil {
				return c.report(out, err)
			}
			ui.Success(out, "Added task %q (%s) to %s", task.Name, task.ID, phaseName)
			return nil
		},
	}
	cmd.Flags().StringVarP(&phaseQuery, "phase", "p", "", "phase name or part of it (default: current phase)")
	cmd.Flags().StringVarP(&in.Name, "name", "n", "", "task name")
	cmd.Flags().StringVarP(&in.Description, "description", "d", "", "task description")
	cmd.Flags().StringVar(&in.AssignedPersona, "persona", "", "persona responsible for the task")
	cmd.Flags().Float64Var(&in.EstimatedHours, "hours", 0, "estimated hours")
	return cmd
}

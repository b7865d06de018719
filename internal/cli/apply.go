package cli

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"reelkit/internal/project"
	"reelkit/internal/script"
	"reelkit/internal/timeline"
)

// ApplyOptions holds flags for the apply command.
type ApplyOptions struct {
	*RootOptions
	DryRun bool
}

// NewApplyCommand creates the apply command.
func NewApplyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ApplyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "apply <db> <script.yaml>",
		Short: "Run an edit script against a project",
		Long: `Load a project, execute the steps in a YAML edit script against its
timeline, check the script's assertions, and save the result.

Exit codes:
  0  script applied and all assertions passed
  1  an assertion failed (database left unmodified)
  2  command error (bad paths, unreadable script, no project)

Example:
  reelkit apply demo.db edits.yaml
  reelkit apply demo.db edits.yaml --dry-run`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "apply and check without saving")

	return cmd
}

func runApply(opts *ApplyOptions, dbPath, scriptPath string, cmd *cobra.Command) error {
	s, err := script.Load(scriptPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "load script", err)
	}

	store, err := project.Open(dbPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "open project database", err)
	}
	defer store.Close()

	ctx := cmd.Context()
	snap, err := store.Load(ctx)
	if errors.Is(err, project.ErrNotFound) {
		return WrapExitError(ExitCommandError, "no project in database (run \"reelkit new\" first)", err)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "load snapshot", err)
	}

	tl := timeline.New()
	tl.Restore(snap)

	slog.Debug("applying script",
		"script", s.Name,
		"steps", len(s.Steps),
		"assertions", len(s.Assertions))

	if err := script.Apply(tl, s); err != nil {
		return WrapExitError(ExitCommandError, "apply script", err)
	}
	if err := script.Check(tl, s); err != nil {
		return WrapExitError(ExitFailure, "check script", err)
	}

	if !opts.DryRun {
		if err := store.Save(ctx, tl.Snapshot()); err != nil {
			return WrapExitError(ExitCommandError, "save snapshot", err)
		}
	}

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	if opts.Format == "json" {
		name, err := store.Name(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "read project", err)
		}
		return out.Success(timelineJSON(name, tl))
	}
	return out.Success(script.Render(tl))
}

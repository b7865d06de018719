package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"reelkit/internal/project"
)

// NewOptions holds flags for the new command.
type NewOptions struct {
	*RootOptions
	Name string
}

// NewNewCommand creates the new command.
func NewNewCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &NewOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "new <db>",
		Short: "Create a project database",
		Long: `Create a reelkit project database with an empty timeline.

Example:
  reelkit new demo.db --name "Product Tour"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNew(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "Untitled Project", "project display name")

	return cmd
}

func runNew(opts *NewOptions, dbPath string, cmd *cobra.Command) error {
	store, err := project.Open(dbPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "open project database", err)
	}
	defer store.Close()

	ctx := cmd.Context()
	if err := store.Create(ctx, opts.Name); err != nil {
		return WrapExitError(ExitCommandError, "create project", err)
	}

	name, err := store.Name(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "read project", err)
	}

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	if opts.Format == "json" {
		return out.Success(map[string]string{"project": name, "database": dbPath})
	}
	return out.Success(fmt.Sprintf("created project %q in %s", name, dbPath))
}

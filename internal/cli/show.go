package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"reelkit/internal/project"
	"reelkit/internal/script"
	"reelkit/internal/timeline"
)

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <db>",
		Short: "Print a project's timeline layout",
		Long: `Load a project database and print the normalized timeline layout.

Example:
  reelkit show demo.db
  reelkit show demo.db --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runShow(opts *RootOptions, dbPath string, cmd *cobra.Command) error {
	name, tl, err := loadProject(cmd.Context(), dbPath)
	if err != nil {
		return err
	}

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	if opts.Format == "json" {
		return out.Success(timelineJSON(name, tl))
	}
	return out.Success(script.Render(tl))
}

// loadProject opens a database and restores its snapshot into a fresh
// timeline (Restore re-normalizes, reestablishing the layout invariant).
func loadProject(ctx context.Context, dbPath string) (string, *timeline.Timeline, error) {
	store, err := project.Open(dbPath)
	if err != nil {
		return "", nil, WrapExitError(ExitCommandError, "open project database", err)
	}
	defer store.Close()

	name, err := store.Name(ctx)
	if errors.Is(err, project.ErrNotFound) {
		return "", nil, WrapExitError(ExitCommandError, "no project in database (run \"reelkit new\" first)", err)
	}
	if err != nil {
		return "", nil, WrapExitError(ExitCommandError, "read project", err)
	}

	snap, err := store.Load(ctx)
	if err != nil {
		return "", nil, WrapExitError(ExitCommandError, "load snapshot", err)
	}

	tl := timeline.New()
	tl.Restore(snap)
	return name, tl, nil
}

// JSON projections for --format=json output.

type sceneJSON struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Start        float64 `json:"start"`
	Duration     float64 `json:"duration"`
	End          float64 `json:"end"`
	Thumb        string  `json:"thumb,omitempty"`
	TemplatePath string  `json:"template_path,omitempty"`
}

type audioJSON struct {
	ID       string  `json:"id"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
	Src      string  `json:"src"`
	Muted    bool    `json:"muted"`
}

type projectJSON struct {
	Project string      `json:"project"`
	Zoom    float64     `json:"zoom"`
	FPS     int         `json:"fps"`
	Scenes  []sceneJSON `json:"scenes"`
	Audio   *audioJSON  `json:"audio,omitempty"`
	Total   float64     `json:"total_duration"`
}

func timelineJSON(name string, tl *timeline.Timeline) projectJSON {
	scenes := tl.Scenes()
	p := projectJSON{
		Project: name,
		Zoom:    tl.Zoom(),
		FPS:     tl.FPS(),
		Scenes:  make([]sceneJSON, len(scenes)),
		Total:   tl.Duration(),
	}
	for i, sc := range scenes {
		p.Scenes[i] = sceneJSON{
			ID:           sc.ID,
			Name:         sc.Name,
			Start:        sc.Start(),
			Duration:     sc.Duration,
			End:          sc.End(),
			Thumb:        sc.Thumb,
			TemplatePath: sc.TemplatePath,
		}
	}
	if a := tl.Audio(); a != nil {
		p.Audio = &audioJSON{ID: a.ID, Start: a.Start, Duration: a.Duration, Src: a.Src, Muted: a.Muted}
	}
	return p
}

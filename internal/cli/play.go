package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"reelkit/internal/playback"
	"reelkit/internal/timeline"
)

// PlayOptions holds flags for the play command.
type PlayOptions struct {
	*RootOptions
	From float64
	For  time.Duration
}

// pollInterval is how often the play command samples the playhead for
// scene transitions. Sampling is independent of the frame rate; a missed
// intermediate scene shorter than the interval is acceptable for a
// progress report.
const pollInterval = 50 * time.Millisecond

// NewPlayCommand creates the play command.
func NewPlayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "play <db>",
		Short: "Run headless playback of a project",
		Long: `Play a project's timeline in real time, reporting scene transitions as
the playhead crosses them. Playback stops at the end of the timeline or
after --for elapses, whichever comes first.

Example:
  reelkit play demo.db
  reelkit play demo.db --from 2.5 --for 10s`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(opts, args[0], cmd)
		},
	}

	cmd.Flags().Float64Var(&opts.From, "from", 0, "start position in seconds")
	cmd.Flags().DurationVar(&opts.For, "for", 0, "wall-clock limit (0 plays to the end)")

	return cmd
}

// playEvent records the playhead entering a scene.
type playEvent struct {
	Time  float64 `json:"time"`
	Scene string  `json:"scene"`
	ID    string  `json:"id"`
}

type playReport struct {
	Events    []playEvent `json:"events"`
	StoppedAt float64     `json:"stopped_at"`
}

func runPlay(opts *PlayOptions, dbPath string, cmd *cobra.Command) error {
	_, tl, err := loadProject(cmd.Context(), dbPath)
	if err != nil {
		return err
	}
	if tl.SceneCount() == 0 {
		return WrapExitError(ExitCommandError, "timeline has no scenes", nil)
	}

	tl.SetTime(opts.From)
	tl.Play()

	ctx := cmd.Context()
	var cancel context.CancelFunc
	if opts.For > 0 {
		ctx, cancel = context.WithTimeout(ctx, opts.For)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	loop := playback.NewLoop(tl, playback.NewFrameTicker(tl.FPS()))
	done := make(chan struct{})
	go func() {
		defer close(done)
		loop.Run(ctx)
	}()

	report := watch(ctx, tl)
	cancel()
	<-done

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	if opts.Format == "json" {
		return out.Success(report)
	}
	var buf strings.Builder
	for _, ev := range report.Events {
		fmt.Fprintf(&buf, "t=%.3f scene %q\n", ev.Time, ev.Scene)
	}
	fmt.Fprintf(&buf, "stopped at t=%.3f", report.StoppedAt)
	return out.Success(buf.String())
}

// watch samples the playhead until playback auto-pauses at the end of the
// timeline or ctx expires, collecting one event per scene entered.
func watch(ctx context.Context, tl *timeline.Timeline) playReport {
	var report playReport
	lastID := ""

	record := func() {
		at := tl.CurrentTime()
		if sc, ok := tl.ActiveSceneAt(at); ok && sc.ID != lastID {
			lastID = sc.ID
			report.Events = append(report.Events, playEvent{Time: at, Scene: sc.Name, ID: sc.ID})
		}
	}
	record()

	t := time.NewTicker(pollInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			report.StoppedAt = tl.CurrentTime()
			return report
		case <-t.C:
			record()
			if !tl.Playing() {
				report.StoppedAt = tl.CurrentTime()
				return report
			}
		}
	}
}

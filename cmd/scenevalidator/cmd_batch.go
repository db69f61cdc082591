package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"scenevalidator/internal/store"
	"scenevalidator/internal/validator"
)

var (
	batchConcurrency int
	batchContinuity  bool
)

// batchCmd validates many scene files concurrently
var batchCmd = &cobra.Command{
	Use:   "batch [scene-file...]",
	Short: "Validate many scene files concurrently",
	Long: `Validates each given scene file and prints a one-line summary per
scene. Runs are independent and share only the read-only rule set, so they
execute concurrently up to --concurrency.

Continuity analysis is off by default in batch mode to keep API usage
predictable; enable it with --continuity.

The command exits non-zero if any scene is invalid or unreadable.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 4, "maximum concurrent validations")
	batchCmd.Flags().BoolVar(&batchContinuity, "continuity", false, "run the continuity check for each scene")
}

// batchOutcome is one row of the batch summary.
type batchOutcome struct {
	path   string
	result *validator.Result
	delta  string
	err    error
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	v, cleanup, err := newValidator(ctx, !batchContinuity)
	if err != nil {
		return err
	}
	defer cleanup()

	outcomes := make([]batchOutcome, len(args))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)
	for i, path := range args {
		g.Go(func() error {
			outcome := batchOutcome{path: path}
			sc, err := loadSceneFile(path)
			if err != nil {
				outcome.err = err
			} else if outcome.result, err = v.Validate(gctx, sc); err != nil {
				outcome.err = err
			} else {
				// Delta is read before the run is recorded, or the run
				// would only ever compare against itself.
				outcome.delta = deltaNote(gctx, outcome.result)
				recordHistory(gctx, outcome.result, path)
			}
			mu.Lock()
			outcomes[i] = outcome
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var failed int
	for _, o := range outcomes {
		switch {
		case o.err != nil:
			failed++
			fmt.Printf("ERROR  %-40s %v\n", o.path, o.err)
		case o.result.Valid():
			_, warns := o.result.Counts()
			fmt.Printf("PASS   %-40s %d warning(s)%s\n", o.path, warns, o.delta)
		default:
			failed++
			errs, warns := o.result.Counts()
			fmt.Printf("FAIL   %-40s %d error(s), %d warning(s)%s\n", o.path, errs, warns, o.delta)
		}
	}
	fmt.Printf("\n%d scene(s), %d failed\n", len(outcomes), failed)

	if failed > 0 {
		return errValidationFailed
	}
	return nil
}

// deltaNote compares the result against the scene's previous recorded run.
func deltaNote(ctx context.Context, result *validator.Result) string {
	if cfg == nil || !cfg.History.Enabled || result.SceneName == "" {
		return ""
	}
	h, err := store.Open(cfg.History.Path)
	if err != nil {
		return ""
	}
	defer h.Close()

	last, err := h.LastForScene(ctx, result.SceneName)
	if err != nil || last == nil {
		return ""
	}
	switch {
	case last.Valid && !result.Valid():
		return "  [regressed]"
	case !last.Valid && result.Valid():
		return "  [fixed]"
	default:
		return ""
	}
}

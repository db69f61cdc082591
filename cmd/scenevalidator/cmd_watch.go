package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"scenevalidator/internal/watch"
)

var watchContinuity bool

// watchCmd re-validates scene files as they change
var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Watch a directory and re-validate changed scene files",
	Long: `Watches a directory for changes to *.json scene files and validates
each file as it is saved, printing a one-line verdict. Runs until
interrupted.

Example:
  scenevalidator watch ./scenes --rules-file house_rules.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchContinuity, "continuity", false, "run the continuity check on each change")
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	v, cleanup, err := newValidator(ctx, !watchContinuity)
	if err != nil {
		return err
	}
	defer cleanup()

	w := watch.New(dir, func(ctx context.Context, path string) {
		sc, err := loadSceneFile(path)
		if err != nil {
			fmt.Printf("ERROR  %-40s %v\n", path, err)
			return
		}
		result, err := v.Validate(ctx, sc)
		if err != nil {
			fmt.Printf("ERROR  %-40s %v\n", path, err)
			return
		}
		recordHistory(ctx, result, path)

		errs, warns := result.Counts()
		if result.Valid() {
			fmt.Printf("PASS   %-40s %d warning(s)\n", path, warns)
		} else {
			fmt.Printf("FAIL   %-40s %d error(s), %d warning(s)\n", path, errs, warns)
		}
	})

	logger.Info("watching for scene changes", zap.String("dir", dir))
	fmt.Printf("Watching %s for scene changes (Ctrl-C to stop)\n", dir)

	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

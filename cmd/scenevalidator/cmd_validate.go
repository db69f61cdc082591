package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"scenevalidator/internal/report"
	"scenevalidator/internal/scene"
)

var (
	sceneFile    string
	gcsBucket    string
	gcsObject    string
	outputPath   string
	pretty       bool
	noContinuity bool
)

// validateCmd validates a single scene from a file or a GCS object
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate one scene description",
	Long: `Validates a scene JSON document against the rule set and prints a
Markdown report.

The scene is read from --scene-file, or from Google Cloud Storage when
--gcs-bucket and --gcs-object are given. Continuity against previousScenes
is analyzed with Gemini when an API key is configured; without one the
continuity check is reported as skipped.

Examples:
  scenevalidator validate --scene-file scene_042.json
  scenevalidator validate --gcs-bucket prod-scenes --gcs-object ep01/scene_042.json
  scenevalidator validate --scene-file scene_042.json --rules-file house_rules.json --output report.md`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&sceneFile, "scene-file", "", "path to scene JSON file")
	validateCmd.Flags().StringVar(&gcsBucket, "gcs-bucket", "", "Google Cloud Storage bucket name")
	validateCmd.Flags().StringVar(&gcsObject, "gcs-object", "", "Google Cloud Storage object path")
	validateCmd.Flags().StringVarP(&outputPath, "output", "o", "", "write the report to this path")
	validateCmd.Flags().BoolVar(&pretty, "pretty", false, "render the report for the terminal")
	validateCmd.Flags().BoolVar(&noContinuity, "no-continuity", false, "skip the continuity check")
}

func runValidate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	useGCS := gcsBucket != "" || gcsObject != ""
	if sceneFile == "" && !useGCS {
		return fmt.Errorf("either --scene-file or both --gcs-bucket and --gcs-object are required")
	}
	if useGCS && (gcsBucket == "" || gcsObject == "") {
		return fmt.Errorf("--gcs-bucket and --gcs-object must be used together")
	}

	var (
		sc     *scene.Scene
		source string
		err    error
	)
	if useGCS {
		source = fmt.Sprintf("gs://%s/%s", gcsBucket, gcsObject)
		sc, err = loadSceneBlob(ctx, gcsBucket, gcsObject)
	} else {
		source = sceneFile
		sc, err = loadSceneFile(sceneFile)
	}
	if err != nil {
		return err
	}
	logger.Debug("scene loaded", zap.String("source", source), zap.String("scene", sc.Label()))

	v, cleanup, err := newValidator(ctx, noContinuity)
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := v.Validate(ctx, sc)
	if err != nil {
		return err
	}
	recordHistory(ctx, result, source)

	text := report.Generate(result)
	if outputPath != "" {
		if err := report.Write(result, outputPath); err != nil {
			return err
		}
	}
	if pretty {
		fmt.Print(report.RenderTerminal(text))
	} else {
		fmt.Print(text)
	}

	if !result.Valid() {
		return errValidationFailed
	}
	return nil
}

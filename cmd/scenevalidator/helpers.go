package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"scenevalidator/internal/continuity"
	"scenevalidator/internal/rules"
	"scenevalidator/internal/scene"
	"scenevalidator/internal/storage"
	"scenevalidator/internal/store"
	"scenevalidator/internal/validator"
)

// loadSceneFile reads and parses a local scene document.
func loadSceneFile(path string) (*scene.Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}
	s, err := scene.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// loadSceneBlob fetches and parses a scene document from GCS.
func loadSceneBlob(ctx context.Context, bucket, object string) (*scene.Scene, error) {
	reader, err := storage.NewGCSReader(ctx, cfg.Storage.CredentialsFile)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	data, err := reader.ReadBlob(ctx, bucket, object)
	if err != nil {
		return nil, err
	}
	s, err := scene.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("gs://%s/%s: %w", bucket, object, err)
	}
	return s, nil
}

// newValidator builds a Validator from the loaded config: merged rule set
// plus a Gemini analyzer when an API key is available and continuity is
// wanted. The returned cleanup releases the analyzer client.
func newValidator(ctx context.Context, noContinuity bool) (*validator.Validator, func(), error) {
	rs, err := rules.Load(cfg.Rules.Path)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {}
	var analyzer continuity.Analyzer
	if !noContinuity && rs.Continuity.Enabled() && cfg.LLM.APIKey != "" {
		gemini, err := continuity.NewGeminiAnalyzer(ctx, continuity.GeminiConfig{
			APIKey:  cfg.LLM.APIKey,
			Model:   cfg.LLM.Model,
			Timeout: cfg.LLMTimeout(),
			Rules:   rs.Continuity,
		})
		if err != nil {
			// A broken analyzer setup degrades validation, it does not
			// abort it. The validator reports the skipped check.
			logger.Warn("continuity analyzer unavailable", zap.Error(err))
		} else {
			analyzer = gemini
			cleanup = func() { _ = gemini.Close() }
		}
	}

	return validator.New(rs, analyzer), cleanup, nil
}

// recordHistory persists the result when history is enabled. Best effort.
func recordHistory(ctx context.Context, result *validator.Result, source string) {
	if cfg == nil || !cfg.History.Enabled {
		return
	}
	h, err := store.Open(cfg.History.Path)
	if err != nil {
		logger.Warn("history unavailable", zap.Error(err))
		return
	}
	defer h.Close()

	if _, err := h.Record(ctx, result, source); err != nil {
		logger.Warn("failed to record run", zap.Error(err))
	}
}

/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/valpere/codetran/internal/config"
	"github.com/valpere/codetran/internal/session"
	"github.com/valpere/codetran/internal/store"
	"github.com/valpere/codetran/internal/translator"
)

// loadConfig resolves configuration after flags are parsed.
func loadConfig() (*config.Config, error) {
	if configErr != nil {
		return nil, configErr
	}
	return config.Load(v)
}

// buildService constructs the translation service for the configured mode.
// Exactly one mode is active per process.
func buildService(cfg *config.Config) (translator.TranslationService, error) {
	mode, err := translator.ParseMode(cfg.Endpoint.Mode)
	if err != nil {
		return nil, err
	}

	switch mode {
	case translator.ModeStream:
		return translator.NewStreamingService(cfg.Endpoint.URL, cfg.Endpoint.Timeout), nil
	case translator.ModeJSON:
		return translator.NewJSONService(cfg.Endpoint.URL, cfg.Endpoint.Timeout), nil
	case translator.ModeOpenAI:
		// The default URL points at the code translation API, not an
		// OpenAI-compatible one.
		baseURL := cfg.Endpoint.URL
		if baseURL == translator.DefaultEndpoint {
			baseURL = ""
		}
		return translator.NewOpenAIService(cfg.Endpoint.APIKey, baseURL, cfg.Endpoint.Model), nil
	}
	return nil, fmt.Errorf("no service for mode %q", mode)
}

// openHistory opens the history store, or returns nil when history is
// disabled.
func openHistory(cfg *config.Config) (*store.Store, error) {
	if cfg.History.DB == "" {
		return nil, nil
	}
	db, err := store.New(cfg.History.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	return db, nil
}

// sessionConfig maps configuration onto session options. db may be nil.
func sessionConfig(cfg *config.Config, db *store.Store, logger *zap.SugaredLogger) session.Config {
	sc := session.Config{
		InputLanguage:   cfg.InputLanguage(),
		OutputLanguage:  cfg.OutputLanguage(),
		CopyAckWindow:   cfg.Session.CopyAckWindow,
		LenientDecoding: cfg.Session.LenientDecoding,
		Logger:          logger,
	}
	if db != nil {
		sc.Recorder = db
	}
	return sc
}

// newLogger builds a production zap logger at the given level. An empty file
// logs to stderr.
func newLogger(level, file string) *zap.SugaredLogger {
	cfg := zap.NewProductionConfig()

	switch strings.ToLower(level) {
	case "debug":
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "error":
		cfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	case "warn", "warning":
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	default:
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	if file != "" {
		cfg.OutputPaths = []string{file}
		cfg.ErrorOutputPaths = []string{file}
	}

	logger, err := cfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		return zap.NewNop().Sugar()
	}

	return logger.Sugar()
}

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
	"context"
	"fmt"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/valpere/codetran/internal/clipboard"
	"github.com/valpere/codetran/internal/examples"
	"github.com/valpere/codetran/internal/files"
	"github.com/valpere/codetran/internal/session"
	"github.com/valpere/codetran/internal/tui"
)

var (
	sessionInput   string
	sessionExample int
)

var sessionCmd = &cobra.Command{
	Use:     "session",
	Aliases: []string{"ui"},
	Short:   "Open the interactive translation view",
	Long: `Open a terminal view with the source code on one side and the
translation on the other. The translation streams in as the service
produces it.

Keys: t translate, tab/shift+tab change languages, s swap, i edit source,
1-4 load an example, c copy, d download, : command prompt, q quit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		// Logging to the terminal would corrupt the view.
		logger := zap.NewNop().Sugar()
		if cfg.Log.File != "" {
			logger = newLogger(cfg.Log.Level, cfg.Log.File)
			defer logger.Sync()
		}

		svc, err := buildService(cfg)
		if err != nil {
			return err
		}

		db, err := openHistory(cfg)
		if err != nil {
			return err
		}
		if db != nil {
			defer db.Close()
		}

		fs := afero.NewOsFs()
		bridge := tui.NewBridge(logger)
		s := session.New(svc,
			clipboard.NewTerminal(os.Stderr),
			files.NewSaver(fs, cfg.Download.Dir),
			bridge, sessionConfig(cfg, db, logger))
		defer s.Close()

		if sessionExample > 0 {
			p, ok := examples.Get(sessionExample - 1)
			if !ok {
				return fmt.Errorf("no example %d (have %d)", sessionExample, len(examples.All()))
			}
			s.SelectExample(p.Code, p.Language)
		}
		if sessionInput != "" {
			f, err := files.Open(fs, sessionInput)
			if err != nil {
				return fmt.Errorf("failed to read input file: %w", err)
			}
			err = s.UploadFrom(f)
			f.Close()
			if err != nil {
				return err
			}
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		logger.Infow("Session started", "mode", svc.Name(), "endpoint", cfg.Endpoint.URL)
		p := tea.NewProgram(tui.New(ctx, s, bridge, fs), tea.WithAltScreen(), tea.WithContext(ctx))
		if _, err := p.Run(); err != nil && ctx.Err() == nil {
			return fmt.Errorf("ui failed: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)

	sessionCmd.Flags().StringVarP(&sessionInput, "input", "i", "", "Load this source file at start")
	sessionCmd.Flags().IntVarP(&sessionExample, "example", "e", 0, "Load example N (1-based) at start")
}

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
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/valpere/codetran/internal/clipboard"
	"github.com/valpere/codetran/internal/files"
	"github.com/valpere/codetran/internal/language"
	"github.com/valpere/codetran/internal/session"
)

var (
	inputFile    string
	fromLanguage string
	toLanguage   string
	outputDir    string
	copyResult   bool
	reuse        bool
)

var translateCmd = &cobra.Command{
	Use:   "translate",
	Short: "Translate a source file and stream the result to stdout",
	Long: `Send source code to the translation service and print the translated
code as it arrives.

The input is read from --input, or from stdin when --input is "-" or empty.
With --output-dir the result is also saved as translated_code.<ext>, where
the extension follows the target language.

Examples:
  codetran translate -i Main.java --to python
  cat add.cpp | codetran translate --from c++ --to java --output-dir out/`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		logger := newLogger(cfg.Log.Level, cfg.Log.File)
		defer logger.Sync()

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

		sessCfg := sessionConfig(cfg, db, logger)
		if fromLanguage != "" {
			opt, ok := language.Lookup(fromLanguage)
			if !ok {
				return unknownLanguage(fromLanguage)
			}
			sessCfg.InputLanguage = opt
		}
		if toLanguage != "" {
			opt, ok := language.Lookup(toLanguage)
			if !ok {
				return unknownLanguage(toLanguage)
			}
			sessCfg.OutputLanguage = opt
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		fs := afero.NewOsFs()
		out := &streamPrinter{out: cmd.OutOrStdout(), errOut: cmd.ErrOrStderr()}
		s := session.New(svc,
			clipboard.NewTerminal(os.Stderr),
			files.NewSaver(fs, outputDir),
			out, sessCfg)
		defer s.Close()

		if err := uploadInput(fs, s, cmd.InOrStdin()); err != nil {
			return err
		}

		snap := s.Snapshot()
		if reuse && db != nil {
			entry, found, err := db.FindBySource(ctx, snap.SourceCode, snap.InputLanguage.ID, snap.OutputLanguage.ID)
			if err != nil {
				logger.Warnw("History lookup failed", "error", err)
			} else if found {
				fmt.Fprintf(cmd.ErrOrStderr(), "Using translation from history (%s)\n", entry.ID)
				fmt.Fprint(cmd.OutOrStdout(), withTrailingNewline(entry.TranslatedCode))
				return nil
			}
		}

		logger.Debugw("Translating", "from", snap.InputLanguage.ID, "to", snap.OutputLanguage.ID, "service", svc.Name())
		if err := s.Translate(ctx); err != nil {
			out.finish()
			return err
		}
		out.finish()

		if outputDir != "" {
			path, err := s.DownloadAsFile()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Saved %s\n", path)
		}

		if copyResult {
			if err := s.CopyToClipboard(ctx); err != nil {
				return err
			}
		}
		return nil
	},
}

func uploadInput(fs afero.Fs, s *session.Session, stdin io.Reader) error {
	if inputFile == "" || inputFile == "-" {
		return s.UploadFrom(stdin)
	}
	f, err := files.Open(fs, inputFile)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}
	defer f.Close()
	return s.UploadFrom(f)
}

func unknownLanguage(id string) error {
	return fmt.Errorf("unknown language %q (supported: %s)", id, strings.Join(language.IDs(), ", "))
}

func withTrailingNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}

// streamPrinter writes each newly appended piece of the translation to out
// and notices to errOut.
type streamPrinter struct {
	mu      sync.Mutex
	out     io.Writer
	errOut  io.Writer
	version uint64
	request string
	printed string
}

func (p *streamPrinter) StateChanged(snap session.Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if snap.Version <= p.version {
		return
	}
	p.version = snap.Version

	if snap.RequestID != p.request {
		p.request = snap.RequestID
		p.printed = ""
	}
	if snap.RequestID == "" || !strings.HasPrefix(snap.TranslatedCode, p.printed) {
		return
	}
	fmt.Fprint(p.out, snap.TranslatedCode[len(p.printed):])
	p.printed = snap.TranslatedCode
}

func (p *streamPrinter) Notice(n session.Notice) {
	fmt.Fprintf(p.errOut, "%s\n", n.Message)
}

// finish terminates the output with a newline if the translation did not.
func (p *streamPrinter) finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.printed != "" && !strings.HasSuffix(p.printed, "\n") {
		fmt.Fprintln(p.out)
	}
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().StringVarP(&inputFile, "input", "i", "", "Source file to translate (stdin when empty or \"-\")")
	translateCmd.Flags().StringVarP(&fromLanguage, "from", "f", "", "Input language (default from config)")
	translateCmd.Flags().StringVarP(&toLanguage, "to", "t", "", "Output language (default from config)")
	translateCmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Also save the result into this directory")
	translateCmd.Flags().BoolVar(&copyResult, "copy", false, "Copy the result to the clipboard (OSC 52)")
	translateCmd.Flags().BoolVar(&reuse, "reuse", false, "Print a previous successful translation from history when one exists")
}

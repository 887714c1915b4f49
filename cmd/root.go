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
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/valpere/codetran/internal/config"
)

var version = "0.1.0"

var (
	cfgFile   string
	v         = viper.New()
	configErr error
)

var rootCmd = &cobra.Command{
	Use:   "codetran",
	Short: "CLI client for a code translation service",
	Long: `A CLI client that sends source code to a code translation service and
shows the translated code as it streams back.

Supported languages: Java, Python, JavaScript, C#, C++, C

Use "codetran session" for the interactive view and
"codetran translate --help" for one-shot translation.`,
	Version:      version,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func initConfig() {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
		v.SetConfigName(".codetran")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			configErr = fmt.Errorf("failed to read config file: %w", err)
		}
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	config.SetDefaults(v)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Config file (default $HOME/.codetran.yaml)")
	flags.String("endpoint", "", "Translation endpoint URL")
	flags.String("mode", "", "Endpoint mode: stream, json or openai")
	flags.Duration("timeout", 0, "Request timeout")
	flags.String("api-key", "", "API key for openai mode")
	flags.String("model", "", "Model name for openai mode")
	flags.String("history-db", "", "SQLite path for translation history (empty disables it)")
	flags.String("log-level", "", "Log level: debug, info, warn or error")
	flags.String("log-file", "", "Write logs to this file instead of stderr")

	bind := map[string]string{
		"endpoint.url":     "endpoint",
		"endpoint.mode":    "mode",
		"endpoint.timeout": "timeout",
		"endpoint.api_key": "api-key",
		"endpoint.model":   "model",
		"history.db":       "history-db",
		"log.level":        "log-level",
		"log.file":         "log-file",
	}
	for key, flag := range bind {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", flag, err))
		}
	}
}

// defaultHistoryPath is suggested in help text only; history stays off
// unless configured.
func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "codetran.db"
	}
	return filepath.Join(home, ".local", "share", "codetran", "history.db")
}

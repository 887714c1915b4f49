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
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/valpere/codetran/internal/store"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect recorded translation attempts",
	Long: `List, inspect, and clear the SQLite history of translation attempts.

History is recorded only when history.db is set, for example with
--history-db or CODETRAN_HISTORY_DB.`,
}

func openHistoryForCommand() (*store.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.History.DB == "" {
		return nil, fmt.Errorf("history is disabled; set history.db (e.g. --history-db %s)", defaultHistoryPath())
	}
	return openHistory(cfg)
}

func snippet(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) > max {
		return string(r[:max-3]) + "..."
	}
	return s
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List translation attempts, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openHistoryForCommand()
		if err != nil {
			return err
		}
		defer db.Close()

		entries, err := db.ListHistory(context.Background(), historyLimit)
		if err != nil {
			return fmt.Errorf("failed to list entries: %w", err)
		}

		if len(entries) == 0 {
			fmt.Println("No translation attempts recorded.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tFROM\tTO\tSTATUS\tLATENCY\tCREATED\tSOURCE")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				e.ID, e.InputLanguage, e.OutputLanguage, e.Status,
				e.Latency, e.CreatedAt.Format("2006-01-02 15:04"),
				snippet(e.SourceCode, 40))
		}
		return w.Flush()
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show the source and translation of one attempt",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openHistoryForCommand()
		if err != nil {
			return err
		}
		defer db.Close()

		e, err := db.GetEntry(context.Background(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("ID:      %s\n", e.ID)
		fmt.Printf("Pair:    %s -> %s\n", e.InputLanguage, e.OutputLanguage)
		fmt.Printf("Status:  %s\n", e.Status)
		fmt.Printf("Latency: %s\n", e.Latency)
		fmt.Printf("Created: %s\n", e.CreatedAt.Format("2006-01-02 15:04:05"))
		if e.Error != "" {
			fmt.Printf("Error:   %s\n", e.Error)
		}
		fmt.Printf("\n--- source ---\n%s\n", e.SourceCode)
		fmt.Printf("\n--- translation ---\n%s\n", e.TranslatedCode)
		return nil
	},
}

var historyStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show history statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openHistoryForCommand()
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.Stats(context.Background())
		if err != nil {
			return fmt.Errorf("failed to get stats: %w", err)
		}

		fmt.Printf("Total attempts: %d\n", stats.TotalRequests)
		fmt.Printf("Succeeded:      %d\n", stats.Succeeded)
		fmt.Printf("Failed:         %d\n", stats.Failed)
		fmt.Printf("Pending:        %d\n", stats.Pending)
		fmt.Printf("Avg latency:    %s\n", stats.AvgLatency)
		return nil
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a translation attempt by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openHistoryForCommand()
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.DeleteEntry(context.Background(), args[0]); err != nil {
			return fmt.Errorf("failed to delete entry: %w", err)
		}
		fmt.Printf("Deleted entry: %s\n", args[0])
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded attempts",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openHistoryForCommand()
		if err != nil {
			return err
		}
		defer db.Close()

		n, err := db.ClearHistory(context.Background())
		if err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		fmt.Printf("Cleared %d attempts from history.\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum entries to list (0 for all)")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyStatsCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	historyCmd.AddCommand(historyClearCmd)
}

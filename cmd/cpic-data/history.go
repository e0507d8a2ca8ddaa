// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/cpic-data/internal/history"
	"github.com/pdiddy/cpic-data/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded file writes and uploads",
	Long: `History prints the file history ledger, newest entry first. Each entry is
a publications.json write (fetch) or an object store upload (upload).`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 50, "maximum number of entries")
	historyCmd.Flags().Bool("yaml", false, "output entries as YAML")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	dbPath := viper.GetString("history.db_path")
	if dbPath == "" {
		return fmt.Errorf("no history database configured (use --history-db, history.db_path or CPIC_DATA_HISTORY_DB_PATH)")
	}
	limit, _ := cmd.Flags().GetInt("limit")
	asYAML, _ := cmd.Flags().GetBool("yaml")

	s, err := history.Open(dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	entries, err := s.List(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if asYAML {
		return writeHistoryYAML(cmd.OutOrStdout(), entries)
	}
	formatHistoryTable(cmd.OutOrStdout(), entries)
	return nil
}

func writeHistoryYAML(w io.Writer, entries []types.HistoryEntry) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("encoding history: %w", err)
	}
	return enc.Close()
}

// formatHistoryTable writes entries as a human-readable table to w.
func formatHistoryTable(w io.Writer, entries []types.HistoryEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No history recorded.")
		return
	}

	fmt.Fprintf(w, "%-5s  %-20s  %-6s  %-8s  %-24s  %s\n",
		"ID", "Recorded", "Action", "Bytes", "File", "Location")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, e := range entries {
		file := e.FileName
		if len(file) > 24 {
			file = file[:21] + "..."
		}
		fmt.Fprintf(w, "%-5d  %-20s  %-6s  %-8d  %-24s  %s\n",
			e.ID, e.RecordedAt.Format("2006-01-02 15:04:05"), e.Action, e.Bytes, file, e.Location)
	}
}

package commands

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/vibe-go/internal/app"
	"github.com/doeshing/vibe-go/internal/domain"
)

const promptPreviewLength = 60

// NewHistoryCommand creates the history command with all subcommands
func NewHistoryCommand(container *app.Container) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect recorded chats and edits",
	}

	historyCmd.AddCommand(
		newHistoryListCommand(container),
		newHistoryStatsCommand(container),
		newHistoryClearCommand(container),
	)

	return historyCmd
}

// newHistoryListCommand creates the 'history list' subcommand
func newHistoryListCommand(container *app.Container) *cobra.Command {
	var (
		limit  int
		search string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent history entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listHistoryEntries(cmd.OutOrStdout(), container, limit, search)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", DefaultHistoryLimit, "Max entries to show")
	cmd.Flags().StringVar(&search, "search", "", "Only show entries whose prompt or model contains this text")
	return cmd
}

// newHistoryStatsCommand creates the 'history stats' subcommand
func newHistoryStatsCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show success rate and model rotations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showHistoryStats(cmd.OutOrStdout(), container)
		},
	}
}

// newHistoryClearCommand creates the 'history clear' subcommand
func newHistoryClearCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all history entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.HistoryStore == nil {
				return errors.New(ErrHistoryStoreUnavailable)
			}
			if err := container.HistoryStore.Clear(); err != nil {
				return fmt.Errorf("failed to clear history: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s\n", container.HistoryStore.Path())
			return nil
		},
	}
}

// listHistoryEntries lists the most recent history entries
func listHistoryEntries(out io.Writer, container *app.Container, limit int, search string) error {
	store := container.HistoryStore
	if store == nil {
		return errors.New(ErrHistoryStoreUnavailable)
	}

	records, err := store.Records(limit, search)
	if err != nil {
		return fmt.Errorf("failed to retrieve history records: %w", err)
	}
	if len(records) == 0 {
		fmt.Fprintln(out, MsgNoHistoryRecorded)
		return nil
	}

	for _, rec := range records {
		writeHistoryRow(out, rec)
	}
	return nil
}

func writeHistoryRow(out io.Writer, rec domain.HistoryRecord) {
	status := "ok"
	if !rec.Success {
		status = "failed"
	}
	model := rec.Model
	if model == "" {
		model = "-"
	}
	fmt.Fprintf(out, "%s | %s | %s | %d attempt(s) | %s | %s\n",
		rec.Timestamp.Local().Format(TimestampFormat),
		rec.Kind,
		model,
		rec.Attempts,
		status,
		truncate(rec.Prompt, promptPreviewLength))
}

type historyStats struct {
	total       int
	successful  int
	rotations   int
	editedFiles int
	byModel     map[string]int
}

// showHistoryStats displays the success rate and how often rotation was needed
func showHistoryStats(out io.Writer, container *app.Container) error {
	store := container.HistoryStore
	if store == nil {
		return errors.New(ErrHistoryStoreUnavailable)
	}

	records, err := store.Records(MaxHistoryAnalysisRecords, "")
	if err != nil {
		return fmt.Errorf("failed to retrieve history for analysis: %w", err)
	}
	if len(records) == 0 {
		fmt.Fprintln(out, MsgNoHistoryRecorded)
		return nil
	}

	stats := analyzeHistoryRecords(records)
	fmt.Fprintf(out, "Requests: %d\n", stats.total)
	fmt.Fprintf(out, "Success rate: %.1f%%\n", float64(stats.successful)*100/float64(stats.total))
	fmt.Fprintf(out, "Requests that rotated models: %d\n", stats.rotations)
	fmt.Fprintf(out, "Files edited: %d\n", stats.editedFiles)

	models := make([]string, 0, len(stats.byModel))
	for model := range stats.byModel {
		models = append(models, model)
	}
	sort.Slice(models, func(i, j int) bool {
		if stats.byModel[models[i]] != stats.byModel[models[j]] {
			return stats.byModel[models[i]] > stats.byModel[models[j]]
		}
		return models[i] < models[j]
	})
	if len(models) > 0 {
		fmt.Fprintln(out, "Answered by:")
		for _, model := range models {
			fmt.Fprintf(out, "  %s: %d\n", model, stats.byModel[model])
		}
	}
	return nil
}

func analyzeHistoryRecords(records []domain.HistoryRecord) historyStats {
	stats := historyStats{byModel: map[string]int{}}
	for _, rec := range records {
		stats.total++
		if rec.Success {
			stats.successful++
		}
		if rec.Attempts > 1 {
			stats.rotations++
		}
		if rec.Kind == domain.HistoryEdit {
			stats.editedFiles += rec.Files
		}
		if rec.Model != "" {
			stats.byModel[rec.Model]++
		}
	}
	return stats
}

func truncate(text string, max int) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max-3]) + "..."
}

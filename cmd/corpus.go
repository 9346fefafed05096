package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"wordgame/words"
)

type difficultyStat struct {
	Difficulty words.Difficulty `json:"difficulty"`
	Lengths    string           `json:"lengths"`
	Words      int              `json:"words"`
}

func newCorpusCmd() *cobra.Command {
	corpusCmd := &cobra.Command{
		Use:   "corpus",
		Short: "Inspect the word list",
	}
	corpusCmd.AddCommand(newCorpusStatsCmd())
	return corpusCmd
}

func newCorpusStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show how many words each difficulty can draw from",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			corpus, err := loadCorpus(cfg)
			if err != nil {
				return err
			}

			counts := corpus.Stats()
			stats := make([]difficultyStat, 0, len(words.Difficulties))
			for _, d := range words.Difficulties {
				stats = append(stats, difficultyStat{
					Difficulty: d,
					Lengths:    words.DifficultyRange(d).String(),
					Words:      counts[d],
				})
			}

			out := cmd.OutOrStdout()
			if outputJSON {
				return outputAsJSON(out, map[string]interface{}{
					"total":        corpus.Len(),
					"difficulties": stats,
				})
			}
			renderCorpusStats(out, corpus.Len(), stats)
			return nil
		},
	}
}

func renderCorpusStats(w io.Writer, total int, stats []difficultyStat) {
	headerColor.Fprintln(w, "CORPUS")
	headerColor.Fprintln(w, strings.Repeat("=", 36))
	fmt.Fprintf(w, "%-12s %-10s %8s\n", "Difficulty", "Lengths", "Words")
	fmt.Fprintln(w, strings.Repeat("-", 36))
	for _, s := range stats {
		line := fmt.Sprintf("%-12s %-10s %8d", s.Difficulty, s.Lengths, s.Words)
		if s.Words == 0 {
			warningColor.Fprintln(w, line)
			continue
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w, strings.Repeat("=", 36))
	infoColor.Fprintf(w, "Total words: %d\n", total)
}

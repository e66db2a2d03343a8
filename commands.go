/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"fmt"
	"strings"

	"github.com/Seednode/statline/trivia"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	winnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func newDeviationsCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "deviations",
		Short: "Print the mean and standard deviation of every statistic in the player table.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validateSelection(); err != nil {
				return err
			}

			catalog, err := loadCatalog(cfg)
			if err != nil {
				return err
			}

			out, err := renderDeviations(catalog, cfg.maxDeviation)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}
}

func renderDeviations(catalog *trivia.Catalog, factor float64) (string, error) {
	var rows [][]string

	for _, s := range catalog.Stats() {
		mean, err := catalog.Mean(s.Key)
		if err != nil {
			return "", err
		}
		dev, err := catalog.StdDev(s.Key)
		if err != nil {
			return "", err
		}

		rows = append(rows, []string{
			string(s.Key),
			s.Label,
			s.Polarity.String(),
			fmt.Sprintf("%.3f", mean),
			fmt.Sprintf("%.3f", dev),
			fmt.Sprintf("%.3f", dev*factor),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		BorderHeader(true).
		BorderRow(false).
		Headers("Key", "Statistic", "Polarity", "Mean", "Std Dev", "Max Spread").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			return cellStyle
		})

	return fmt.Sprintf("%d players\n%s", catalog.Len(), t.Render()), nil
}

func newQuestionCmd(cfg *Config, v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "question",
		Short: "Print a single question and its answer.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validateSelection(); err != nil {
				return err
			}

			catalog, err := loadCatalog(cfg)
			if err != nil {
				return err
			}

			out, err := renderQuestion(catalog, cfg)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}

	fs := cmd.Flags()
	fs.StringSliceVar(&cfg.teams, "team", nil, "only ask about players on these teams (env: STATLINE_TEAM)")
	fs.StringSliceVar(&cfg.positions, "position", nil, "only ask about players at these positions (env: STATLINE_POSITION)")
	fs.StringSliceVar(&cfg.stats, "stat", nil, "only ask about these statistics (env: STATLINE_STAT)")

	bindFlags(v, fs)

	return cmd
}

func renderQuestion(catalog *trivia.Catalog, cfg *Config) (string, error) {
	filter, err := trivia.Filter{
		Teams:     cfg.teams,
		Positions: cfg.positions,
		Stats:     cfg.stats,
	}.Normalize(catalog)
	if err != nil {
		return "", err
	}

	r := trivia.NewRand(cfg.seed)

	stat, err := catalog.RandomStat(r, filter)
	if err != nil {
		return "", err
	}

	q, err := trivia.NewQuestion(r, catalog, stat, filter, cfg.maxDeviation)
	if err != nil {
		return "", err
	}

	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("Who has the %s %s?", stat.Superlative, stat.Label)))
	b.WriteString("\n")

	for i := range trivia.GroupSize {
		name := q.PlayerName(i, true)
		if name == "" {
			continue
		}

		line := fmt.Sprintf("  %d. %s", i+1, name)
		if q.IsWinningIndex(i) {
			line = winnerStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString(q.AnswerString())

	return b.String(), nil
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/MARYAMM27/portfolio-bot-go/internal/adapter"
	"github.com/MARYAMM27/portfolio-bot-go/internal/bot"
	"github.com/MARYAMM27/portfolio-bot-go/internal/client"
	"github.com/MARYAMM27/portfolio-bot-go/internal/domain"
	"github.com/MARYAMM27/portfolio-bot-go/internal/nlu"
	"github.com/spf13/cobra"
)

var (
	askProfile string
	askServer  string
	askMode    string
	askMarkup  bool
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask the assistant one question",
	Long: `Ask answers one question, either locally against a profile JSON file
(--profile) or remotely against a running bot (--server).`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")

		var text string
		switch {
		case askServer != "":
			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()
			reply, err := client.NewClient(askServer, newLogger()).Ask(ctx, query)
			if err != nil {
				return err
			}
			text = reply.Text
		case askProfile != "":
			assistant, err := localAssistant(askProfile, nlu.ParseMatchMode(askMode))
			if err != nil {
				return err
			}
			text = assistant.Answer(query)
		default:
			return fmt.Errorf("either --profile or --server is required")
		}

		if !askMarkup {
			text = adapter.PlainText(text)
		}
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	},
}

func init() {
	askCmd.Flags().StringVar(&askProfile, "profile", "", "profile JSON file to answer from")
	askCmd.Flags().StringVar(&askServer, "server", "", "base URL of a running bot")
	askCmd.Flags().StringVar(&askMode, "match", string(nlu.MatchSubstring), "phrase matching mode (substring|word)")
	askCmd.Flags().BoolVar(&askMarkup, "markup", false, "print replies with their anchor markup")
	rootCmd.AddCommand(askCmd)
}

type staticProfile struct {
	profile *domain.Profile
}

func (s staticProfile) Snapshot() *domain.Profile {
	return s.profile
}

func readProfile(path string) (*domain.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	var p domain.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode profile %s: %w", path, err)
	}
	return &p, nil
}

func localAssistant(path string, mode nlu.MatchMode) (*bot.Assistant, error) {
	p, err := readProfile(path)
	if err != nil {
		return nil, err
	}
	return bot.NewAssistant(bot.Dependencies{
		Normalizer: nlu.NewNormalizer(nil, mode),
		Profiles:   staticProfile{profile: p},
		Logger:     newLogger(),
	}), nil
}

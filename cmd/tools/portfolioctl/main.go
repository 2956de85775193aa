package main

import (
	"fmt"
	"os"

	"github.com/MARYAMM27/portfolio-bot-go/internal/config"
	"github.com/MARYAMM27/portfolio-bot-go/internal/util"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	envFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "portfolioctl",
	Short: "Operate the portfolio assistant",
	Long: `portfolioctl asks the portfolio assistant questions, chats with a running
bot, and manages the profile document and stored projects.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "env file to load instead of .env")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level for operator commands")
}

func loadConfig() (*config.Config, error) {
	if envFile != "" {
		return config.LoadFrom(envFile)
	}
	return config.Load()
}

// newLogger logs to stderr only; operator commands keep stdout for results.
func newLogger() *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(util.ParseLevel(logLevel))
	cfg.OutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true
	logger, err := cfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger disabled: %v\n", err)
		return zap.NewNop()
	}
	return logger
}

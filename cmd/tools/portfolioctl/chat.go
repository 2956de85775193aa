package main

import (
	"bufio"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/MARYAMM27/portfolio-bot-go/internal/adapter"
	"github.com/MARYAMM27/portfolio-bot-go/internal/client"
	"github.com/spf13/cobra"
)

var (
	chatURL    string
	chatLinger time.Duration
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open an interactive chat session with a running bot",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		out := cmd.OutOrStdout()
		socket := client.NewChatSocket(chatURL, 3, 2*time.Second, newLogger())
		socket.OnFrame(func(frame client.Frame) {
			switch {
			case frame.Error != nil:
				fmt.Fprintf(out, "! %s\n", frame.Error.Message)
			case frame.Message != nil:
				fmt.Fprintf(out, "%s> %s\n", frame.Message.Sender, adapter.PlainText(frame.Message.Text))
			}
		})
		if err := socket.Connect(ctx); err != nil {
			return fmt.Errorf("connect %s: %w", chatURL, err)
		}
		defer socket.Disconnect()

		if err := readLines(ctx.Done(), cmd.InOrStdin(), socket.Send); err != nil {
			return err
		}

		// replies are delayed; give the last ones time to arrive
		select {
		case <-ctx.Done():
		case <-time.After(chatLinger):
		}
		return nil
	},
}

func init() {
	chatCmd.Flags().StringVar(&chatURL, "url", "ws://localhost:8080/ws", "websocket endpoint of the bot")
	chatCmd.Flags().DurationVar(&chatLinger, "linger", 2*time.Second, "how long to wait for replies after input ends")
	rootCmd.AddCommand(chatCmd)
}

// readLines sends every non-blank input line until EOF or done.
func readLines(done <-chan struct{}, in io.Reader, send func(string) error) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if err := send(line); err != nil {
				return err
			}
		}
	}
}

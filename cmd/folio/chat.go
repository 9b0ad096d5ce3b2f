package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/folio-arcade/internal/chatbot"
)

var flagQuickReplies bool

var chatCmd = &cobra.Command{
	Use:   "chat <message...>",
	Short: "Ask the portfolio assistant a question",
	Long: `Send one message to the portfolio assistant and print its reply.

The assistant asks the generative language API when GEMINI_API_KEY is
set (also read from .env), then falls back to keyword replies and
canned answers.

Examples:
  folio chat "what services do you offer?"
  folio chat how much does a website cost
  folio chat --quick`,
	Run: runChat,
}

func init() {
	chatCmd.Flags().BoolVar(&flagQuickReplies, "quick", false, "List the suggested questions")
}

func runChat(cmd *cobra.Command, args []string) {
	if flagQuickReplies {
		for i, q := range chatbot.QuickReplies {
			fmt.Printf("  %d. %s\n", i+1, q)
		}
		return
	}

	msg := strings.Join(args, " ")
	if strings.TrimSpace(msg) == "" {
		fmt.Fprintln(os.Stderr, "Error: a message is required")
		os.Exit(1)
	}

	cfg := loadConfig()
	bot := chatbot.New(cfg.Chatbot,
		chatbot.WithCTA(cfg.Modal.CTAText),
		chatbot.WithLogger(newLogger("folio-chat")),
	)

	reply := bot.Reply(context.Background(), msg)
	fmt.Println(reply.Text)
	for _, h := range reply.Hints {
		fmt.Printf("  > %s\n", h)
	}
}

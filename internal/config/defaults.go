package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/folio.yaml
var defaultYAML []byte

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}

// Default returns the hardcoded default configuration.
// It mirrors defaults/folio.yaml and is used when the embed cannot be parsed.
func Default() ModalConfig {
	return ModalConfig{
		Modal: ModalSection{
			AutoOpenDelay:    5 * time.Second,
			TriggerShowAfter: 10 * time.Second,
			TriggerHideAfter: 40 * time.Second,
			CTAText:          "Work With Me",
			ContactSection:   "contact",
			ProfileKey:       "gameModalProfile",
			SessionFlagKey:   "gameModalShown",
		},
		Points: PointsConfig{Win: 20, Draw: 10, Lose: 5},
		Messages: MessagesConfig{
			Win:         "🎉 You're good! I owe you a special discount on your next project with me.",
			Lose:        "😏 You obviously owe me a project now. Let's connect!",
			Draw:        "🤝 Well played! Looks like we're evenly matched. Let's collaborate.",
			MemoryWin:   "🎉 Excellent memory! You are a genius!",
			MemoryLose:  "⏰ Good try! You definitely owe me a project now.",
			FirstWin:    "🎉 Impressive first win! You've got potential. Let's discuss your project!",
			StreakWin:   "🔥 You're on fire! Multiple wins deserve a special discount!",
			ExpertWin:   "🏆 Expert level! You clearly know quality when you see it. Let's work together!",
			StreakScore: 60,
			ExpertScore: 100,
		},
		TicTacToe: TicTacToeConfig{
			Info: GameInfo{
				Title:       "Tic Tac Toe",
				Subtitle:    "X & O - Human vs Bot",
				Description: "Classic strategy game. Can you beat my AI?",
			},
			BotDelay: 500 * time.Millisecond,
		},
		Trivia: TriviaConfig{
			Info: GameInfo{
				Title:       "Trivia Quiz",
				Subtitle:    "Tech + AI Basics",
				Description: "Test your knowledge about AI and more!",
			},
			PassingScore: 70,
			RevealDelay:  1500 * time.Millisecond,
			Questions: []Question{
				{
					Text:    "AI can help you save time at work by doing which of these?",
					Options: []string{"Cooking meals", "Automating repetitive tasks", "Driving your car", "Taking holidays for you"},
					Answer:  1,
				},
				{
					Text:    "Which of these is something AI can already do today?",
					Options: []string{"Write emails", "Teleport humans", "Grow plants", "Build houses"},
					Answer:  0,
				},
				{
					Text:    "If your business had an AI assistant that never sleeps, what is the most useful task it could handle?",
					Options: []string{"Replying to customer queries", "Taking naps", "Going on vacation", "Playing video games"},
					Answer:  0,
				},
				{
					Text:    "Which industry is AI currently helping the most?",
					Options: []string{"Healthcare", "Ice-cream making", "Fishing", "Carpentry"},
					Answer:  0,
				},
				{
					Text:    "Which company created ChatGPT, one of the most famous AI tools?",
					Options: []string{"OpenAI", "NASA", "Microsoft Excel", "Meta"},
					Answer:  0,
				},
			},
		},
		Memory: MemoryConfig{
			Info: GameInfo{
				Title:       "Memory Game",
				Subtitle:    "Match the pairs",
				Description: "How good is your memory? Beat the clock!",
			},
			GoodScoreTime: 90 * time.Second,
			MatchDelay:    500 * time.Millisecond,
			MismatchDelay: time.Second,
			Symbols:       []string{"🚀", "💻", "🎯", "⚡", "🔥", "💡", "🎨", "🌟"},
		},
		Chatbot: ChatbotConfig{
			Endpoint: "https://generativelanguage.googleapis.com/v1beta",
			Model:    "gemini-pro",
			Timeout:  10 * time.Second,
			SystemPrompt: "You are a professional AI assistant for a software development company. " +
				"You help visitors understand our comprehensive software development services and capabilities.\n" +
				"Be warm, friendly, and genuinely helpful while maintaining professionalism.\n" +
				"Keep responses concise but valuable, and always make users feel welcomed and valued.\n",
			FallbackResponses: []string{
				"I'd absolutely love to help you with that! 😊 Could you please rephrase your question so I can give you the best answer?",
				"I want to give you the most helpful answer possible! ✨ Could you provide a bit more context about your project or what you're looking for?",
			},
		},
		Booking: BookingConfig{
			Timeout:   15 * time.Second,
			Timezone:  "UTC",
			StartHour: 9,
			EndHour:   18,
		},
		Server: ServerConfig{
			SSHAddr:     ":2222",
			HTTPAddr:    ":8080",
			HostKeyPath: "~/.folio/ssh_host_key",
			DBPath:      "~/.folio/folio.db",
		},
	}
}

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

type answerRequest struct {
	Question    string   `json:"question"`
	Options     []string `json:"options,omitempty"`
	FilterPages []int    `json:"filter_pages,omitempty"`
	SessionID   string   `json:"session_id,omitempty"`
	UseHistory  bool     `json:"use_history,omitempty"`
}

type answerResponse struct {
	Answer       string   `json:"answer"`
	Explanation  string   `json:"explanation"`
	Confidence   float64  `json:"confidence"`
	Evidence     string   `json:"evidence"`
	Pages        []int    `json:"pages"`
	SubQuestions []string `json:"sub_questions"`
	Verified     bool     `json:"verified"`
}

var (
	serverURL   string
	options     []string
	filterPages []int
	sessionID   string
	useHistory  bool
	verbose     bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "qa-cli",
		Short: "Ask questions about the indexed document",
	}
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", envOr("QA_SERVER_URL", "http://localhost:9020"), "orchestrator base URL")

	askCmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Answer an open-ended question",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ask(args[0], nil)
		},
	}
	askCmd.Flags().IntSliceVar(&filterPages, "pages", nil, "restrict retrieval to these pages")
	askCmd.Flags().StringVar(&sessionID, "session", "", "session ID for follow-up questions")
	askCmd.Flags().BoolVar(&useHistory, "history", false, "include the prior turn from the session cache")
	askCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print sub-questions and evidence")

	quizCmd := &cobra.Command{
		Use:   "quiz [question]",
		Short: "Answer a multiple-choice question",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(options) < 2 {
				return fmt.Errorf("at least two --option flags are required")
			}
			return ask(args[0], options)
		},
	}
	quizCmd.Flags().StringArrayVarP(&options, "option", "o", nil, "answer option (repeatable)")
	quizCmd.Flags().IntSliceVar(&filterPages, "pages", nil, "restrict retrieval to these pages")
	quizCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print sub-questions and evidence")

	rootCmd.AddCommand(askCmd, quizCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func ask(question string, opts []string) error {
	payload, err := json.Marshal(answerRequest{
		Question:    question,
		Options:     opts,
		FilterPages: filterPages,
		SessionID:   sessionID,
		UseHistory:  useHistory,
	})
	if err != nil {
		return err
	}

	client := &http.Client{Timeout: 180 * time.Second}
	resp, err := client.Post(serverURL+"/v1/qa/answer", "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to call orchestrator: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("orchestrator returned %d: %s", resp.StatusCode, string(body))
	}

	var answer answerResponse
	if err := json.NewDecoder(resp.Body).Decode(&answer); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	fmt.Printf("Answer: %s\n", answer.Answer)
	if answer.Explanation != "" {
		fmt.Printf("Explanation: %s\n", answer.Explanation)
	}
	fmt.Printf("Confidence: %.2f  Verified: %t\n", answer.Confidence, answer.Verified)
	if len(answer.Pages) > 0 {
		fmt.Printf("Pages: %v\n", answer.Pages)
	}
	if verbose {
		if len(answer.SubQuestions) > 0 {
			fmt.Println("Sub-questions:")
			for _, sq := range answer.SubQuestions {
				fmt.Printf("  - %s\n", sq)
			}
		}
		if answer.Evidence != "" {
			fmt.Printf("Evidence: %s\n", answer.Evidence)
		}
	}
	return nil
}

func envOr(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/strideworks/stride/internal/config"
	"github.com/strideworks/stride/internal/contract"
)

func newChatCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Talk to the coach from the terminal",
		Long:  "Interactive local chat session against the routing engine. Type a message per line; quit or Ctrl-D exits.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, cfg)
		},
	}
}

func runChat(cmd *cobra.Command, cfg *config.Config) error {
	eng, err := buildEngine(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer eng.Close()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "stride coach. Ask about your runs; 'quit' to exit.")

	var sessionID string
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			break
		}

		resp, err := eng.router.Handle(cmd.Context(), contract.TurnRequest{
			Message:   line,
			SessionID: sessionID,
		})
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		sessionID = resp.SessionID

		fmt.Fprintf(out, "[%s] %s\n", resp.AgentName, resp.ResponseText)
		if len(resp.SuggestedPrompts) > 0 {
			fmt.Fprintf(out, "  try: %s\n", strings.Join(resp.SuggestedPrompts, " | "))
		}
	}
	return scanner.Err()
}

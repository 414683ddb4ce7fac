package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/shopassist-labs/shopassist/internal/adapters/driving/tui"
)

// chatCmd represents the chat command.
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the assistant in the terminal",
	Long: `Launch an interactive terminal chat with the shopping assistant.

Ask about the catalog in natural language; when the assistant decides a
product search would help, matching products are shown as cards beneath
its reply.

Controls:
  Enter    - Send message
  Ctrl+R   - New conversation
  Ctrl+C   - Quit`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	if chatService == nil {
		if err := initServices(true); err != nil {
			return err
		}
	}

	// Chat needs the catalog before the first turn; load it up front so
	// the assistant never searches an empty index.
	if err := ensureCatalog(cmd.Context()); err != nil {
		return err
	}

	ports := &tui.Ports{Chat: chatService}
	if catalogService != nil {
		ports.Catalog = catalogService
	}

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	app.WithContext(cmd.Context())

	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}

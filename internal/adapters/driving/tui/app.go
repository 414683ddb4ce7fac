package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/shopassist-labs/shopassist/internal/adapters/driving/tui/keymap"
	"github.com/shopassist-labs/shopassist/internal/adapters/driving/tui/messages"
	"github.com/shopassist-labs/shopassist/internal/adapters/driving/tui/styles"
	"github.com/shopassist-labs/shopassist/internal/core/domain"
)

// Entry is one rendered transcript item: a shopper message or an
// assistant reply with its selected product cards.
type Entry struct {
	Role     string
	Text     string
	Products []domain.ProductCard
}

// App is the chat TUI following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// keys holds the keybindings.
	keys *keymap.KeyMap

	// input is the message input field.
	input textinput.Model

	// spin is shown while a turn is in flight.
	spin spinner.Model

	// conv is the active conversation.
	conv *domain.Conversation

	// entries is the rendered transcript.
	entries []Entry

	// busy is true while a turn is in flight. The input is blurred for
	// the duration and re-focused when the turn completes, whether it
	// succeeded or failed.
	busy bool

	// catalogReady and catalogCount feed the status bar.
	catalogReady bool
	catalogCount int

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new chat TUI with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()

	ti := textinput.New()
	ti.Placeholder = "Ask about the catalog..."
	ti.Focus()
	ti.CharLimit = 512
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Muted

	return &App{
		ports:  ports,
		ctx:    context.Background(),
		styles: s,
		keys:   keymap.DefaultKeyMap(),
		input:  ti,
		spin:   sp,
		conv:   ports.Chat.NewConversation(""),
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		tea.SetWindowTitle("shopassist - Shopping Assistant"),
		a.catalogStatus(),
	)
}

// Update implements tea.Model.
// It handles messages and updates the model state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		inputWidth := msg.Width - 8
		if inputWidth < 20 {
			inputWidth = 20
		}
		a.input.Width = inputWidth
		return a, nil

	case tea.KeyMsg:
		keyStr := msg.String()

		if keymap.Matches(keyStr, a.keys.Quit) {
			return a, tea.Quit
		}

		// Keystrokes are ignored while a turn is in flight.
		if a.busy {
			return a, nil
		}

		if keymap.Matches(keyStr, a.keys.Reset) {
			a.resetConversation()
			return a, nil
		}

		if keymap.Matches(keyStr, a.keys.Send) {
			return a, a.submit()
		}

		a.input, cmd = a.input.Update(msg)
		return a, cmd

	case spinner.TickMsg:
		if a.busy {
			a.spin, cmd = a.spin.Update(msg)
		}
		return a, cmd

	case messages.TurnCompleted:
		a.busy = false
		focus := a.input.Focus()
		if msg.Err != nil {
			a.err = msg.Err
			return a, focus
		}
		a.entries = append(a.entries, Entry{
			Role:     domain.RoleAssistant,
			Text:     msg.Turn.Reply,
			Products: msg.Turn.Products,
		})
		return a, focus

	case messages.CatalogStatus:
		a.catalogReady = msg.Ready
		a.catalogCount = msg.Count
		return a, nil

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// submit sends the typed message and blurs the input until the turn
// completes.
func (a *App) submit() tea.Cmd {
	text := strings.TrimSpace(a.input.Value())
	if text == "" {
		return nil
	}

	a.entries = append(a.entries, Entry{Role: domain.RoleUser, Text: text})
	a.input.Reset()
	a.input.Blur()
	a.busy = true
	a.err = nil

	return tea.Batch(a.spin.Tick, a.sendTurn(text))
}

// sendTurn runs one conversational turn off the UI goroutine.
func (a *App) sendTurn(text string) tea.Cmd {
	return func() tea.Msg {
		turn, err := a.ports.Chat.Send(a.ctx, a.conv, text)
		return messages.TurnCompleted{Turn: turn, Err: err}
	}
}

// resetConversation drops the transcript and starts fresh.
func (a *App) resetConversation() {
	a.ports.Chat.Reset(a.conv, "")
	a.entries = nil
	a.err = nil
	a.input.Reset()
}

// catalogStatus reports catalog readiness for the status bar.
func (a *App) catalogStatus() tea.Cmd {
	if a.ports.Catalog == nil {
		return nil
	}
	return func() tea.Msg {
		return messages.CatalogStatus{
			Ready: a.ports.Catalog.Ready(),
			Count: a.ports.Catalog.Count(),
		}
	}
}

// View implements tea.Model.
// It renders the chat transcript, input and status line.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var b strings.Builder

	b.WriteString(a.styles.Title.Render("Shopassist"))
	b.WriteString("  ")
	b.WriteString(a.styles.StatusBar.Render(a.statusLine()))
	b.WriteString("\n\n")

	for _, entry := range a.entries {
		switch entry.Role {
		case domain.RoleUser:
			b.WriteString(a.styles.User.Render("You: "))
			b.WriteString(a.styles.Assistant.Render(entry.Text))
		default:
			b.WriteString(a.styles.Assistant.Render(entry.Text))
			for _, card := range entry.Products {
				b.WriteString("\n")
				b.WriteString(a.styles.Card.Render(a.renderCard(card)))
			}
		}
		b.WriteString("\n\n")
	}

	if a.busy {
		b.WriteString(a.spin.View())
		b.WriteString(a.styles.Muted.Render("thinking..."))
		b.WriteString("\n\n")
	}

	if a.err != nil {
		b.WriteString(a.styles.Error.Render("Error: " + a.err.Error()))
		b.WriteString("\n\n")
	}

	b.WriteString(a.styles.InputField.Render(a.input.View()))
	b.WriteString("\n")
	b.WriteString(a.styles.Help.Render(a.helpLine()))

	return b.String()
}

// statusLine describes catalog readiness.
func (a *App) statusLine() string {
	if a.ports.Catalog == nil {
		return "catalog: unavailable"
	}
	if !a.catalogReady {
		return "catalog: loading..."
	}
	return fmt.Sprintf("catalog: %d products", a.catalogCount)
}

// renderCard renders one product card body.
func (a *App) renderCard(card domain.ProductCard) string {
	var b strings.Builder
	b.WriteString(a.styles.User.Render(card.Title))
	b.WriteString("\n")
	b.WriteString(a.styles.Muted.Render(card.Handle))
	if card.ImageURL != "" {
		b.WriteString("\n")
		b.WriteString(a.styles.Muted.Render(card.ImageURL))
	}
	return b.String()
}

// helpLine renders the keybinding hints.
func (a *App) helpLine() string {
	parts := make([]string, 0, 3)
	for _, binding := range a.keys.ShortHelp() {
		help := binding.Help()
		parts = append(parts, help.Key+" "+help.Desc)
	}
	return strings.Join(parts, " · ")
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Busy returns whether a turn is in flight.
func (a *App) Busy() bool {
	return a.busy
}

// Entries returns the rendered transcript.
func (a *App) Entries() []Entry {
	return a.entries
}

// ConversationID returns the active conversation's ID.
func (a *App) ConversationID() string {
	return a.conv.ID
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions (for testing).
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
}

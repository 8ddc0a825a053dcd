package main

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jwebster45206/overland/internal/handlers"
	"github.com/jwebster45206/overland/pkg/state"
)

const maxLogLines = 200

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config  *ConsoleConfig
	client  *http.Client
	session *state.Session

	logViewport viewport.Model
	log         []string
	help        help.Model
	keys        keyMap

	ready   bool
	width   int
	height  int
	err     error
	loading bool
	reveal  bool
	status  string

	// Party selection state
	showPartyModal bool
	roster         []handlers.CharacterSummary
	selected       map[string]bool
	cursor         int
	loadingRoster  bool

	// Quit confirmation state
	showQuitModal bool
}

type keyMap struct {
	North  key.Binding
	South  key.Binding
	East   key.Binding
	West   key.Binding
	Reveal key.Binding
	Copy   key.Binding
	Quit   key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.North, k.South, k.East, k.West, k.Reveal, k.Copy, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func defaultKeyMap() keyMap {
	return keyMap{
		North:  key.NewBinding(key.WithKeys("up", "k", "w"), key.WithHelp("↑/k", "north")),
		South:  key.NewBinding(key.WithKeys("down", "j", "s"), key.WithHelp("↓/j", "south")),
		East:   key.NewBinding(key.WithKeys("right", "l", "d"), key.WithHelp("→/l", "east")),
		West:   key.NewBinding(key.WithKeys("left", "h", "a"), key.WithHelp("←/h", "west")),
		Reveal: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "toggle map")),
		Copy:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy session id")),
		Quit:   key.NewBinding(key.WithKeys("ctrl+c", "esc", "q"), key.WithHelp("q", "quit")),
	}
}

type rosterLoadedMsg struct {
	roster []handlers.CharacterSummary
	err    error
}

type sessionCreatedMsg struct {
	session *state.Session
	err     error
}

type moveMsg struct {
	response *handlers.MoveResponse
	err      error
}

type clipboardMsg struct {
	err error
}

var (
	mapPanelStyle = lipgloss.NewStyle().
			PaddingTop(1).
			PaddingLeft(2).
			PaddingRight(1)

	sidePanelStyle = lipgloss.NewStyle().
			PaddingTop(1).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)

	modalItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	modalSelectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("205")).
				Bold(true)
)

var separatorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240")) // dark grey

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client) ConsoleUI {
	logVp := viewport.New(30, 10)
	logVp.MouseWheelEnabled = true

	return ConsoleUI{
		config:         cfg,
		client:         client,
		logViewport:    logVp,
		help:           help.New(),
		keys:           defaultKeyMap(),
		selected:       make(map[string]bool),
		showPartyModal: true,
		loadingRoster:  true,
	}
}

// layout splits the screen: the map takes two thirds, the side panel the
// rest, and the log sits under the party list.
func (m ConsoleUI) layout() (mapW, mapH, sideW int) {
	sideW = max(m.width/3, 28)
	mapW = max(m.width-sideW-4, 10)
	mapH = max(m.height-4, 5)
	return mapW, mapH, sideW
}

func (m *ConsoleUI) resize() {
	_, mapH, sideW := m.layout()
	m.logViewport.Width = sideW - 2
	m.logViewport.Height = max(mapH-12, 4)
	m.help.Width = m.width
	m.writeLog()
}

func (m *ConsoleUI) appendLog(lines ...string) {
	m.log = append(m.log, lines...)
	if len(m.log) > maxLogLines {
		m.log = m.log[len(m.log)-maxLogLines:]
	}
	m.writeLog()
}

func (m *ConsoleUI) writeLog() {
	m.logViewport.SetContent(strings.Join(m.log, "\n"))
	m.logViewport.GotoBottom()
}

func (m ConsoleUI) Init() tea.Cmd {
	return m.loadRoster()
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = size.Width
		m.height = size.Height
		m.resize()
		return m, nil
	}

	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}
	if m.showPartyModal {
		return m.updatePartyModal(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.showQuitModal = true
			return m, nil
		case key.Matches(msg, m.keys.Reveal):
			m.reveal = !m.reveal
			return m, nil
		case key.Matches(msg, m.keys.Copy):
			return m, m.copySessionID()
		case m.loading:
			return m, nil
		case key.Matches(msg, m.keys.North):
			return m.move(state.North)
		case key.Matches(msg, m.keys.South):
			return m.move(state.South)
		case key.Matches(msg, m.keys.East):
			return m.move(state.East)
		case key.Matches(msg, m.keys.West):
			return m.move(state.West)
		}

	case moveMsg:
		m.loading = false
		if msg.err != nil {
			m.appendLog(errorStyle.Render(msg.err.Error()))
			return m, nil
		}
		m.applyMove(msg.response)
		return m, nil

	case clipboardMsg:
		if msg.err != nil {
			m.status = errorStyle.Render("Copy failed: " + msg.err.Error())
		} else {
			m.status = "Session ID copied"
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.logViewport, cmd = m.logViewport.Update(msg)
	return m, cmd
}

func (m ConsoleUI) move(dir state.Direction) (tea.Model, tea.Cmd) {
	if m.session == nil || m.session.PartyDefeated() {
		return m, nil
	}
	m.loading = true
	m.status = ""
	id := m.session.ID
	return m, func() tea.Msg {
		resp, err := postMove(m.client, m.config.APIBaseURL, id, dir)
		return moveMsg{resp, err}
	}
}

// applyMove folds a move response into the local copy of the session so the
// map does not need a full reload after every step.
func (m *ConsoleUI) applyMove(resp *handlers.MoveResponse) {
	if resp == nil || m.session == nil {
		return
	}
	s := m.session
	s.Position = resp.Position
	s.MovesSinceEncounter = resp.MovesSinceEncounter
	s.Heroes = resp.Heroes
	s.TotalMoves++
	if res := resp.Result; res != nil {
		s.World.MarkExplored(res.To.X, res.To.Y)
	}
	m.appendLog(describeMove(resp.Result, resp.Heroes, m.logViewport.Width)...)
}

func (m ConsoleUI) copySessionID() tea.Cmd {
	if m.session == nil {
		return nil
	}
	id := m.session.ID.String()
	return func() tea.Msg {
		return clipboardMsg{clipboard.WriteAll(id)}
	}
}

func (m ConsoleUI) loadRoster() tea.Cmd {
	return func() tea.Msg {
		list, err := listCharacters(m.client, m.config.APIBaseURL)
		return rosterLoadedMsg{sortedRoster(list), err}
	}
}

func (m ConsoleUI) createSessionFromParty(party []string) tea.Cmd {
	return func() tea.Msg {
		s, err := createSession(m.client, m.config.APIBaseURL, party, m.config.Seed)
		return sessionCreatedMsg{s, err}
	}
}

func (m ConsoleUI) updatePartyModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case rosterLoadedMsg:
		m.loadingRoster = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.roster = msg.roster
		}

	case sessionCreatedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.session = msg.session
		m.showPartyModal = false
		m.ready = true
		m.appendLog(titleStyle.Render("OVERLAND"),
			fmt.Sprintf("World seed %d, %dx%d.", m.session.World.Seed, m.session.World.Width, m.session.World.Height),
			fmt.Sprintf("The party sets out from %s.", describeTile(m.session.CurrentTile())))

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
			if m.loadingRoster {
				return m, tea.Quit
			}
			m.showQuitModal = true
			return m, nil
		}
		if m.loadingRoster || m.loading || m.err != nil {
			return m, nil
		}

		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.roster)-1 {
				m.cursor++
			}
		case " ", "x":
			if len(m.roster) > 0 {
				id := m.roster[m.cursor].ID
				m.selected[id] = !m.selected[id]
			}
		case "enter":
			party := partyOrder(m.roster, m.selected)
			if len(party) == 0 && len(m.roster) > 0 {
				party = []string{m.roster[m.cursor].ID}
			}
			if len(party) == 0 {
				return m, nil
			}
			m.loading = true
			return m, m.createSessionFromParty(party)
		}
	}

	return m, nil
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.Type {
	case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
		return m, tea.Quit
	}
	switch keyMsg.String() {
	case "y", "Y":
		return m, tea.Quit
	case "n", "N":
		m.showQuitModal = false
	}
	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit Game?"))
	content.WriteString("\n\n")
	content.WriteString("Are you sure you want to leave the road?")
	content.WriteString("\n\n")
	if m.session != nil {
		content.WriteString(promptStyle.Render("Session " + m.session.ID.String()))
		content.WriteString("\n\n")
	}
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderPartyModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	switch {
	case m.loadingRoster:
		content.WriteString(modalTitleStyle.Render("Loading Characters..."))
		content.WriteString("\n\n")
		content.WriteString(loadingStyle.Render("Please wait while we fetch the roster..."))
	case m.err != nil:
		content.WriteString(modalTitleStyle.Render("Error"))
		content.WriteString("\n\n")
		content.WriteString(errorStyle.Render(m.err.Error()))
		content.WriteString("\n\n")
		content.WriteString("Press Ctrl+C to exit")
	case m.loading:
		content.WriteString(modalTitleStyle.Render("Generating World..."))
		content.WriteString("\n\n")
		content.WriteString(loadingStyle.Render("Raising mountains and naming towns..."))
	default:
		content.WriteString(modalTitleStyle.Render("Choose Your Party"))
		content.WriteString("\n\n")
		for i, c := range m.roster {
			mark := "[ ]"
			if m.selected[c.ID] {
				mark = "[x]"
			}
			line := fmt.Sprintf("%s %s, %s (%d HP)", mark, c.Name, c.Class, c.MaxHP)
			if i == m.cursor {
				content.WriteString(modalSelectedItemStyle.Render("▶ " + line))
			} else {
				content.WriteString(modalItemStyle.Render("  " + line))
			}
			content.WriteString("\n")
		}
		content.WriteString("\n")
		content.WriteString(promptStyle.Render("↑/↓ to navigate, Space to select, Enter to set out"))
	}

	modal := modalStyle.Width(60).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}
	if m.showPartyModal {
		return m.renderPartyModal()
	}
	if !m.ready {
		return "\n  Initializing..."
	}

	mapW, mapH, sideW := m.layout()

	mapPanel := mapPanelStyle.Width(mapW + 3).Height(mapH).Render(
		renderMap(m.session, mapW, mapH, m.reveal),
	)

	here := describeTile(m.session.CurrentTile())
	side := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("PARTY"),
		describeParty(m.session),
		titleStyle.Render("HERE"),
		fmt.Sprintf("%s (%d,%d)", here, m.session.Position.X, m.session.Position.Y),
		fmt.Sprintf("%d explored, %d quiet steps", m.session.World.ExploredCount(), m.session.MovesSinceEncounter),
		separatorStyle.Render(strings.Repeat("─", max(sideW-4, 1))),
		m.logViewport.View(),
	)
	sidePanel := sidePanelStyle.Width(sideW).Height(mapH).Render(side)

	footer := m.help.View(m.keys)
	if m.loading {
		footer = loadingStyle.Render("Travelling...")
	} else if m.status != "" {
		footer = m.status + "  " + footer
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, mapPanel, sidePanel),
		"  "+footer,
	)
}

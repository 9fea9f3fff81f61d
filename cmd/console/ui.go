package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jwebster45206/mapquest/internal/config"
	"github.com/jwebster45206/mapquest/pkg/actor"
	"github.com/jwebster45206/mapquest/pkg/combat"
	"github.com/jwebster45206/mapquest/pkg/domain"
	"github.com/jwebster45206/mapquest/pkg/engine"
	"github.com/jwebster45206/mapquest/pkg/geo"
	"github.com/jwebster45206/mapquest/pkg/world"
)

const modalWidth = 48

type modal int

const (
	modalNone modal = iota
	modalMonster
	modalNPC
	modalStore
	modalGameOver
	modalQuit
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	hudStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	mapStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Foreground(lipgloss.Color("86")) // green

	logStyle = lipgloss.NewStyle().
			PaddingLeft(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Width(modalWidth).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	modalSelectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("205")).
				Bold(true)
)

var titleCaser = cases.Title(language.English)

// ConsoleUI is the BubbleTea model that runs the game in-process.
type ConsoleUI struct {
	cfg    *config.Config
	game   *engine.Engine
	bridge *bridge
	logger *slog.Logger

	position geo.Coordinate
	snapshot engine.Snapshot

	logViewport viewport.Model
	logLines    []string
	width       int
	height      int
	ready       bool

	modal       modal
	returnTo    modal // restored when the quit prompt is cancelled
	encounterID string
	monster     *actor.Monster
	npc         *actor.NPC
	store       *actor.Store
	storeCursor int
	modalNote   string
}

func NewConsoleUI(cfg *config.Config, game *engine.Engine, b *bridge, logger *slog.Logger) ConsoleUI {
	m := ConsoleUI{
		cfg:         cfg,
		game:        game,
		bridge:      b,
		logger:      logger,
		logViewport: viewport.New(60, 8),
	}
	m.startSession()
	return m
}

func (m *ConsoleUI) startSession() {
	m.modal = modalNone
	m.logLines = nil
	if _, err := m.game.StartSession(m.cfg.Hero()); err != nil {
		m.logError(err)
		return
	}
	m.position = m.game.Region().Center
	m.logf("%s sets out from %s.", m.cfg.HeroName, m.position)
	if _, err := m.game.UpdatePosition(m.position); err != nil {
		m.logError(err)
	}
	m.process()
}

func (m ConsoleUI) Init() tea.Cmd {
	return nil
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logViewport.Width = max(msg.Width-4, 10)
		m.logViewport.Height = max(msg.Height-m.mapRows()-7, 3)
		m.ready = true
		m.refreshLog()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.modal {
		case modalNone:
			return m.updateMap(msg)
		case modalMonster:
			return m.updateMonster(msg)
		case modalNPC:
			return m.updateNPC(msg)
		case modalStore:
			return m.updateStore(msg)
		case modalGameOver:
			return m.updateGameOver(msg)
		case modalQuit:
			return m.updateQuit(msg)
		}
	}

	m.logViewport, cmd = m.logViewport.Update(msg)
	return m, cmd
}

func (m ConsoleUI) updateMap(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	step := m.cfg.MoveStep
	switch msg.String() {
	case "up", "k":
		m.move(step, 0)
	case "down", "j":
		m.move(-step, 0)
	case "left", "h":
		m.move(0, -step)
	case "right", "l":
		m.move(0, step)
	case "c":
		if err := clipboard.WriteAll(m.position.String()); err != nil {
			m.logf("Clipboard unavailable: %v", err)
		} else {
			m.logf("Copied %s to the clipboard.", m.position)
		}
	case "q", "esc":
		m.returnTo = m.modal
		m.modal = modalQuit
	}
	return m, nil
}

func (m ConsoleUI) updateMonster(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "f", "enter":
		m.fight()
	case "r", "esc":
		if err := m.game.Decline(); err != nil {
			m.logError(err)
		} else {
			m.logf("You ran from the %s.", m.monster.Name)
		}
		m.modal = modalNone
		m.process()
	}
	return m, nil
}

func (m *ConsoleUI) fight() {
	res, err := m.game.Fight(m.encounterID)
	if err != nil {
		m.logError(err)
		m.modal = modalNone
		m.process()
		return
	}

	switch res {
	case combat.AdventurerWon:
		m.logf("You defeated the %s and earned %d gold!", m.monster.Name, m.monster.Reward)
		m.modal = modalNone
	case combat.AdventurerLost:
		m.logf("The %s was too strong. You lost a heart.", m.monster.Name)
		m.modal = modalNone
	case combat.Tie:
		m.modalNote = "You are evenly matched. Both of you are still in the fight!"
	}
	m.process()
}

func (m ConsoleUI) updateNPC(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc", " ":
		m.dismiss()
	}
	return m, nil
}

func (m ConsoleUI) updateStore(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.storeCursor > 0 {
			m.storeCursor--
		}
	case "down", "j":
		if m.storeCursor < len(m.store.Inventory)-1 {
			m.storeCursor++
		}
	case "enter", "b":
		m.buy()
	case "esc", "q":
		m.dismiss()
	}
	return m, nil
}

func (m *ConsoleUI) buy() {
	if len(m.store.Inventory) == 0 {
		return
	}
	item := m.store.Inventory[m.storeCursor]
	err := m.game.Purchase(m.encounterID, item.Name)
	switch {
	case errors.Is(err, domain.ErrInsufficientFunds):
		m.modalNote = fmt.Sprintf("You can't afford the %s.", item.Name)
	case err != nil:
		m.modalNote = err.Error()
	default:
		m.modalNote = fmt.Sprintf("You bought a %s.", item.Name)
		m.logf("Bought a %s for %d gold.", item.Name, item.Cost)
	}
	m.process()
}

func (m *ConsoleUI) dismiss() {
	if err := m.game.Decline(); err != nil {
		m.logError(err)
	}
	m.modal = modalNone
	m.process()
}

func (m ConsoleUI) updateGameOver(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "n", "enter":
		m.startSession()
	case "q", "esc":
		return m, tea.Quit
	}
	return m, nil
}

func (m ConsoleUI) updateQuit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		return m, tea.Quit
	case "n", "esc":
		m.modal = m.returnTo
	}
	return m, nil
}

func (m *ConsoleUI) move(northMeters, eastMeters float64) {
	next := geo.Offset(m.position, northMeters, eastMeters)
	if _, err := m.game.UpdatePosition(next); err != nil {
		m.logError(err)
		return
	}
	m.position = next
	m.process()
}

// process applies everything the engine reported since the last call.
func (m *ConsoleUI) process() {
	for _, msg := range m.bridge.drain() {
		switch msg := msg.(type) {
		case stateMsg:
			m.snapshot = msg.note.Snapshot
			if m.snapshot.Position != nil {
				m.position = *m.snapshot.Position
			}
			if m.snapshot.Encounter != nil {
				m.encounterID = m.snapshot.Encounter.PointID
			}
			switch msg.note.Reason {
			case engine.ReasonWarped:
				m.logf("Whoosh! A warp zone carries you to %s.", m.position)
			case engine.ReasonSessionEnded:
				m.logf("%s has fallen.", m.cfg.HeroName)
				m.modal = modalGameOver
			}

		case monsterMsg:
			m.openModal(modalMonster)
			m.monster = msg.monster
			m.logf("A %s blocks your path!", m.monster.Name)

		case npcMsg:
			m.openModal(modalNPC)
			m.npc = msg.npc
			m.logf("You meet %s.", m.npc.Name)

		case storeMsg:
			m.openModal(modalStore)
			m.store = msg.store
			m.storeCursor = 0
			m.logf("You found a %s: %s.", kindLabel(world.KindStore), m.store.Name)
		}
	}
	m.refreshLog()
}

func (m *ConsoleUI) openModal(kind modal) {
	m.modal = kind
	m.modalNote = ""
}

func (m *ConsoleUI) logf(format string, args ...any) {
	m.logLines = append(m.logLines, fmt.Sprintf(format, args...))
}

func (m *ConsoleUI) logError(err error) {
	m.logger.Warn("Engine rejected action", "error", err)
	m.logLines = append(m.logLines, errorStyle.Render("Error: "+err.Error()))
}

func (m *ConsoleUI) refreshLog() {
	width := max(m.logViewport.Width-2, 10)
	wrapped := make([]string, len(m.logLines))
	for i, line := range m.logLines {
		wrapped[i] = wordwrap.String(line, width)
	}
	m.logViewport.SetContent(strings.Join(wrapped, "\n"))
	m.logViewport.GotoBottom()
}

func (m ConsoleUI) mapRows() int {
	return max(m.height/2-2, 5)
}

func (m ConsoleUI) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.modal != modalNone {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.renderModal())
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("MAPQUEST") + "  " + m.renderHUD() + "\n")

	cols := max(m.width-4, 10)
	grid := renderMap(m.position, m.game.PointsOfInterest(), m.game.Reservoir(), cols, m.mapRows(), m.cfg.MoveStep)
	b.WriteString(mapStyle.Render(strings.Join(grid, "\n")) + "\n")

	b.WriteString(logStyle.Render(m.logViewport.View()) + "\n")
	b.WriteString(promptStyle.Render("arrows/hjkl: move • c: copy position • q: quit"))
	return b.String()
}

func (m ConsoleUI) renderHUD() string {
	name := m.cfg.HeroName
	if a := m.snapshot.Adventurer; a != nil {
		name = a.Name
	}
	return hudStyle.Render(fmt.Sprintf("%s  %s  %s  %s", name, m.snapshot.Hearts(), m.snapshot.Gold(), m.position))
}

func (m ConsoleUI) renderModal() string {
	var b strings.Builder
	wrapWidth := modalWidth - 4

	switch m.modal {
	case modalMonster:
		b.WriteString(modalTitleStyle.Render(fmt.Sprintf("A %s appears!", m.monster.Name)) + "\n\n")
		if m.monster.Description != "" {
			b.WriteString(wordwrap.String(m.monster.Description, wrapWidth) + "\n\n")
		}
		b.WriteString(fmt.Sprintf("Strength %d • Reward %d gold\n\n", m.monster.Strength, m.monster.Reward))
		if m.modalNote != "" {
			b.WriteString(wordwrap.String(m.modalNote, wrapWidth) + "\n\n")
			b.WriteString("Fight again?\n\n")
		} else {
			b.WriteString("Fight?\n\n")
		}
		b.WriteString(promptStyle.Render("f: fight • r: run"))

	case modalNPC:
		b.WriteString(modalTitleStyle.Render(m.npc.Name) + "\n\n")
		b.WriteString(wordwrap.String(m.npc.Dialogue, wrapWidth) + "\n\n")
		b.WriteString(promptStyle.Render("enter: continue"))

	case modalStore:
		b.WriteString(modalTitleStyle.Render(m.store.Name) + "  " + hudStyle.Render(m.snapshot.Gold()) + "\n\n")
		for i, item := range m.store.Inventory {
			icon, _ := m.game.LookupIcon(item)
			line := fmt.Sprintf("%-12s %-8s %3d gold", item.Name, "["+icon+"]", item.Cost)
			if i == m.storeCursor {
				line = modalSelectedItemStyle.Render(line)
			}
			b.WriteString(line + "\n")
		}
		if m.modalNote != "" {
			b.WriteString("\n" + wordwrap.String(m.modalNote, wrapWidth) + "\n")
		}
		b.WriteString("\n" + promptStyle.Render("↑/↓: choose • enter: buy • esc: leave"))

	case modalGameOver:
		b.WriteString(modalTitleStyle.Render("GAME OVER") + "\n\n")
		b.WriteString(m.snapshot.Hearts() + "  " + m.snapshot.Gold() + "\n\n")
		b.WriteString(promptStyle.Render("n: new game • q: quit"))

	case modalQuit:
		b.WriteString(modalTitleStyle.Render("Quit MapQuest?") + "\n\n")
		b.WriteString(promptStyle.Render("y: quit • n: keep playing"))
	}

	return modalStyle.Render(b.String())
}

// kindLabel turns a kind name like warp_zone into "Warp Zone".
func kindLabel(k world.Kind) string {
	return titleCaser.String(strings.ReplaceAll(k.String(), "_", " "))
}

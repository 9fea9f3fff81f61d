package main

import (
	"log/slog"
	"os"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/mapquest/internal/config"
	"github.com/jwebster45206/mapquest/pkg/actor"
	"github.com/jwebster45206/mapquest/pkg/engine"
	"github.com/jwebster45206/mapquest/pkg/geo"
	"github.com/jwebster45206/mapquest/pkg/world"
)

var origin = geo.Coordinate{Lat: 40.7812, Lon: -73.9665}

// consoleWorld puts a goblin 40m north and a shop 40m south of the start.
func consoleWorld(monsterStrength int) *world.World {
	return &world.World{
		Name:   "Console Park",
		Region: geo.Region{Center: origin, Span: geo.Span{LatDelta: 0.01, LonDelta: 0.01}},
		PointsOfInterest: []*world.PointOfInterest{
			world.NewMonsterPoint("goblin", geo.Offset(origin, 40, 0), actor.NewMonster("Goblin", monsterStrength, 15)),
			world.NewStorePoint("shop", geo.Offset(origin, -40, 0), &actor.Store{Name: "Armory", Inventory: []actor.Item{
				{Name: "Sword", Cost: 30},
				{Name: "Potion", Cost: 10},
			}}),
		},
		Reservoir: geo.Polygon{geo.Offset(origin, 0, 200)},
		Icons:     map[string]string{"Potion": "potion"},
	}
}

func newTestUI(t *testing.T, monsterStrength, heroHP int) ConsoleUI {
	t.Helper()
	cfg := &config.Config{
		ProximityRadius:  25,
		ExitRadiusFactor: 1.1,
		HeroName:         "Tester",
		HeroHitPoints:    heroHP,
		HeroStrength:     10,
		HeroGold:         20,
		MoveStep:         10,
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	game := engine.New(consoleWorld(monsterStrength), engine.Options{Trigger: cfg.TriggerOptions()}, logger)
	b := &bridge{}
	game.SetDelegate(b)
	game.Subscribe(b)

	m := NewConsoleUI(cfg, game, b, logger)
	return press(t, m, tea.WindowSizeMsg{Width: 80, Height: 30})
}

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m ConsoleUI, msgs ...tea.Msg) ConsoleUI {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(ConsoleUI)
		require.True(t, ok)
	}
	return m
}

func TestConsoleUI_FightWin(t *testing.T) {
	m := newTestUI(t, 6, 10)
	assert.Equal(t, modalNone, m.modal)

	m = press(t, m, key("up"))
	assert.Equal(t, modalNone, m.modal, "30m away is still out of range")

	m = press(t, m, key("up"))
	require.Equal(t, modalMonster, m.modal)
	assert.Equal(t, "Goblin", m.monster.Name)
	assert.Equal(t, "goblin", m.encounterID)
	assert.Contains(t, m.View(), "A Goblin appears!")

	m = press(t, m, key("f"))
	assert.Equal(t, modalNone, m.modal)
	assert.Equal(t, 35, m.snapshot.Adventurer.Gold)
	assert.Contains(t, m.logLines[len(m.logLines)-1], "earned 15 gold")
}

func TestConsoleUI_TieStaysOpen(t *testing.T) {
	m := newTestUI(t, 10, 10)
	m = press(t, m, key("up"), key("up"), key("f"))

	assert.Equal(t, modalMonster, m.modal)
	assert.Contains(t, m.modalNote, "still in the fight")
	assert.Contains(t, m.View(), "Fight again?")

	m = press(t, m, key("r"))
	assert.Equal(t, modalNone, m.modal)
}

func TestConsoleUI_GameOverAndRestart(t *testing.T) {
	m := newTestUI(t, 20, 2)
	m = press(t, m, key("up"), key("up"), key("f"))

	require.Equal(t, modalGameOver, m.modal)
	assert.True(t, m.snapshot.SessionOver)
	assert.Contains(t, m.View(), "GAME OVER")

	m = press(t, m, key("n"))
	assert.Equal(t, modalNone, m.modal)
	assert.False(t, m.snapshot.SessionOver)
	assert.Equal(t, origin, m.position)
}

func TestConsoleUI_StorePurchase(t *testing.T) {
	m := newTestUI(t, 6, 10)
	m = press(t, m, key("down"), key("down"))
	require.Equal(t, modalStore, m.modal)
	assert.Equal(t, "shop", m.encounterID)

	// Sword costs 30, more than the hero carries.
	m = press(t, m, key("enter"))
	assert.Contains(t, m.modalNote, "can't afford")

	m = press(t, m, key("down"), key("enter"))
	assert.Contains(t, m.modalNote, "bought a Potion")
	assert.Equal(t, 10, m.snapshot.Adventurer.Gold)
	assert.Equal(t, 1, m.snapshot.Adventurer.CountOf("Potion"))
	assert.Contains(t, m.View(), "[potion]")

	m = press(t, m, key("esc"))
	assert.Equal(t, modalNone, m.modal)
}

func TestConsoleUI_QuitPrompt(t *testing.T) {
	m := newTestUI(t, 6, 10)
	m = press(t, m, key("q"))
	assert.Equal(t, modalQuit, m.modal)

	m = press(t, m, key("n"))
	assert.Equal(t, modalNone, m.modal)

	m = press(t, m, key("q"))
	_, cmd := m.Update(key("y"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestRenderMap(t *testing.T) {
	w := consoleWorld(6)
	goblin, _ := w.Point("goblin")
	goblin.Monster.Defeated = true

	lines := renderMap(origin, w.PointsOfInterest, w.Reservoir, 21, 11, 10)
	require.Len(t, lines, 11)
	for _, l := range lines {
		assert.Len(t, l, 21)
	}

	assert.Equal(t, byte(glyphAdventurer), lines[5][10])
	// 40m north is two rows up at 20m per row.
	assert.Equal(t, byte(glyphDefeated), lines[3][10])
	assert.Equal(t, byte(glyphStore), lines[7][10])
	// The reservoir vertex 200m east falls off this 21-column grid.
	assert.NotContains(t, strings.Join(lines, ""), string(glyphReservoir))

	assert.Nil(t, renderMap(origin, nil, nil, 0, 5, 10))
}

func TestBridge_DrainsInOrder(t *testing.T) {
	b := &bridge{}
	b.StateChanged(engine.Notification{Reason: engine.ReasonMoved})
	b.EncounteredNPC(&actor.NPC{Name: "Sage"})

	msgs := b.drain()
	require.Len(t, msgs, 2)
	assert.IsType(t, stateMsg{}, msgs[0])
	assert.Equal(t, "Sage", msgs[1].(npcMsg).npc.Name)
	assert.Empty(t, b.drain())
}

func TestKindLabel(t *testing.T) {
	assert.Equal(t, "Warp Zone", kindLabel(world.KindWarpZone))
	assert.Equal(t, "Store", kindLabel(world.KindStore))
}

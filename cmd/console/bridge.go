package main

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jwebster45206/mapquest/pkg/actor"
	"github.com/jwebster45206/mapquest/pkg/engine"
)

type monsterMsg struct{ monster *actor.Monster }

type npcMsg struct{ npc *actor.NPC }

type storeMsg struct{ store *actor.Store }

type stateMsg struct{ note engine.Notification }

// bridge collects engine callbacks as tea messages. The engine is driven
// from Update, so callbacks fire inside the event loop where Program.Send
// would block; the model drains the bridge after every engine call instead.
type bridge struct {
	mu      sync.Mutex
	pending []tea.Msg
}

var (
	_ engine.Observer = (*bridge)(nil)
	_ engine.Delegate = (*bridge)(nil)
)

func (b *bridge) push(msg tea.Msg) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending = append(b.pending, msg)
}

func (b *bridge) StateChanged(n engine.Notification) { b.push(stateMsg{note: n}) }

func (b *bridge) EncounteredMonster(m *actor.Monster) { b.push(monsterMsg{monster: m}) }

func (b *bridge) EncounteredNPC(n *actor.NPC) { b.push(npcMsg{npc: n}) }

func (b *bridge) EnteredStore(s *actor.Store) { b.push(storeMsg{store: s}) }

func (b *bridge) drain() []tea.Msg {
	b.mu.Lock()
	defer b.mu.Unlock()
	msgs := b.pending
	b.pending = nil
	return msgs
}

// Package demoui is the terminal host application around the canvas
// widget: it owns the document, pushes props on every mutation, drives
// the widget's frame loop from a tick, and draws the surrounding chrome.
package demoui

import (
	"fmt"
	"log/slog"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/bubbles/v2/textinput"

	"github.com/graphpad/graphpad/internal/config"
	"github.com/graphpad/graphpad/internal/document"
	"github.com/graphpad/graphpad/pkg/canvas"
	"github.com/graphpad/graphpad/pkg/graphindex"
	"github.com/graphpad/graphpad/pkg/tealayout"
	"github.com/graphpad/graphpad/pkg/viewport"
)

// maxUndo bounds the undo stack.
const maxUndo = 50

// Options configure the host model.
type Options struct {
	Config   *config.Config
	Logger   *slog.Logger
	Document *document.Document
	Path     string // save target; empty disables ctrl+s
	Reload   <-chan struct{}
}

// Model is the main application state.
type Model struct {
	cfg *config.Config
	log *slog.Logger

	doc     *document.Document
	docPath string
	unsaved bool

	widget   *canvas.Widget
	selected []graphindex.NodeKey

	undo      []document.Document
	clipboard *document.Node

	width, height int
	layout        tealayout.Layout

	mouseX, mouseY int
	zoomPct        int
	status         string

	editOpen  bool
	editKey   graphindex.NodeKey
	editInput textinput.Model

	ticking bool
	reload  <-chan struct{}
}

// New creates the host model around an existing document.
func New(opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	m := &Model{
		cfg:     opts.Config,
		log:     logger,
		doc:     opts.Document,
		docPath: opts.Path,
		zoomPct: 100,
		reload:  opts.Reload,
	}

	m.widget = canvas.New(nil, canvas.Callbacks{
		OnNodeMoved:         m.nodeMoved,
		OnNodeSelected:      m.nodeSelected,
		OnEdgeSelected:      m.edgeSelected,
		OnNodeCreated:       m.nodeCreated,
		OnEdgeCreated:       m.edgeCreated,
		OnEdgeDeleted:       m.edgeDeleted,
		OnNodesDeleted:      m.nodesDeleted,
		OnEdgeSwapped:       m.edgeSwapped,
		OnBackgroundClicked: m.backgroundClicked,
		OnUndo:              m.undoLast,
		OnCopy:              m.copySelected,
		OnPaste:             m.pasteClipboard,
	}, logger.With("component", "canvas"))
	m.widget.SetFocused(true)
	m.widget.OnTransform(func(t viewport.Transform) {
		m.zoomPct = int(t.K*100 + 0.5)
	})
	m.pushProps()
	return m
}

// frameInterval derives the tick period from the configured FPS.
func (m *Model) frameInterval() time.Duration {
	return time.Second / time.Duration(m.cfg.FPS)
}

// pushProps re-feeds the full document into the widget. The widget
// diffs; the host just hands over arrays.
func (m *Model) pushProps() {
	m.widget.SetProps(canvas.Props{
		Nodes:        m.doc.CanvasNodes(),
		Edges:        m.doc.CanvasEdges(),
		SelectedKeys: m.selected,
		ReadOnly:     m.cfg.ReadOnly,
		MinZoom:      m.cfg.MinZoom,
		MaxZoom:      m.cfg.MaxZoom,
		ZoomStep:     m.cfg.ZoomStep,
		ChunkSize:    m.cfg.ChunkSize,
	})
}

// checkpoint snapshots the document for undo before a mutation.
func (m *Model) checkpoint() {
	snap := document.Document{
		Title: m.doc.Title,
		Nodes: append([]document.Node(nil), m.doc.Nodes...),
		Edges: append([]document.Edge(nil), m.doc.Edges...),
	}
	m.undo = append(m.undo, snap)
	if len(m.undo) > maxUndo {
		m.undo = m.undo[1:]
	}
	m.unsaved = true
}

// ── widget callbacks: mutate the document, then re-prop ──

func (m *Model) nodeMoved(key graphindex.NodeKey, x, y float64) {
	m.checkpoint()
	m.doc.MoveNode(string(key), x, y)
	m.pushProps()
}

func (m *Model) nodeSelected(key graphindex.NodeKey) {
	m.selected = []graphindex.NodeKey{key}
	m.status = fmt.Sprintf("selected %s", shortID(string(key)))
	m.pushProps()
}

func (m *Model) edgeSelected(e graphindex.Edge) {
	m.status = fmt.Sprintf("edge %s → %s", shortID(string(e.Source)), shortID(string(e.Target)))
}

func (m *Model) nodeCreated(x, y float64) {
	m.checkpoint()
	id := m.doc.AddNode("process", "NEW", x, y)
	m.selected = []graphindex.NodeKey{graphindex.NodeKey(id)}
	m.pushProps()
}

func (m *Model) edgeCreated(source, target graphindex.NodeKey) {
	m.checkpoint()
	if err := m.doc.AddEdge(string(source), string(target)); err != nil {
		m.log.Warn("edge rejected", "err", err)
		m.status = err.Error()
		return
	}
	m.pushProps()
}

func (m *Model) edgeDeleted(e graphindex.Edge) {
	m.checkpoint()
	m.doc.RemoveEdge(string(e.Source), string(e.Target))
	m.pushProps()
}

func (m *Model) nodesDeleted(removed, remaining []graphindex.NodeKey) {
	m.checkpoint()
	ids := make([]string, len(removed))
	for i, k := range removed {
		ids[i] = string(k)
	}
	m.doc.RemoveNodes(ids)
	m.selected = nil
	m.status = fmt.Sprintf("deleted %d node(s), %d left", len(removed), len(remaining))
	m.pushProps()
}

func (m *Model) edgeSwapped(e graphindex.Edge, newTarget graphindex.NodeKey) {
	m.checkpoint()
	if err := m.doc.SwapEdgeTarget(string(e.Source), string(e.Target), string(newTarget)); err != nil {
		m.log.Warn("rewire rejected", "err", err)
		m.status = err.Error()
		return
	}
	m.pushProps()
}

func (m *Model) backgroundClicked(x, y float64) {
	m.selected = nil
	m.status = ""
	m.pushProps()
}

func (m *Model) undoLast() {
	if len(m.undo) == 0 {
		m.status = "nothing to undo"
		return
	}
	snap := m.undo[len(m.undo)-1]
	m.undo = m.undo[:len(m.undo)-1]
	*m.doc = snap
	m.selected = nil
	m.status = "undo"
	m.pushProps()
}

func (m *Model) copySelected() {
	if len(m.selected) == 0 {
		return
	}
	for _, n := range m.doc.Nodes {
		if n.ID == string(m.selected[0]) {
			cp := n
			m.clipboard = &cp
			m.status = "copied " + shortID(n.ID)
			return
		}
	}
}

func (m *Model) pasteClipboard() {
	if m.clipboard == nil || m.cfg.ReadOnly {
		return
	}
	m.checkpoint()
	id := m.doc.AddNode(m.clipboard.Type, m.clipboard.Label,
		m.clipboard.X+2, m.clipboard.Y+1)
	m.selected = []graphindex.NodeKey{graphindex.NodeKey(id)}
	m.pushProps()
}

// save writes the document back to its file.
func (m *Model) save() {
	if m.docPath == "" {
		m.status = "no file to save to"
		return
	}
	if err := m.doc.Save(m.docPath); err != nil {
		m.log.Error("save failed", "err", err)
		m.status = err.Error()
		return
	}
	m.unsaved = false
	m.status = "saved " + m.docPath
}

// shortID trims UUIDs down to a footer-friendly prefix.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.armTick()}
	if m.reload != nil {
		cmds = append(cmds, m.waitReload())
	}
	return tea.Batch(cmds...)
}

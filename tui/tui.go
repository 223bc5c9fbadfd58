package tui

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	bv "github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"todo-app/app"
	"todo-app/model"
	"todo-app/store"
	"todo-app/viewport"
)

const (
	footerHeight = 1
	inputHeight  = 2

	// Content rows: title, blank, then the sticky header.
	headerTop   = 2
	headerLines = 3
	rowsStart   = headerTop + headerLines

	frameInterval           = 16 * time.Millisecond
	defaultKeyboardDuration = 250 * time.Millisecond
)

type (
	loadedMsg struct {
		state  model.State
		status string
	}
	frameMsg     time.Time
	saveErrMsg   struct{ err error }
	clipboardMsg struct {
		count int
		err   error
	}
)

// Options wires the model to persistence and platform behaviour. Zero
// values fall back to an in-memory list on the terminal platform.
type Options struct {
	KV               store.KV
	Key              string
	Writer           *store.Writer
	Logger           *log.Logger
	Platform         viewport.Platform
	KeyboardDuration time.Duration
	Clipboard        func(string) error
	Now              func() time.Time
}

type Model struct {
	svc  *app.Service
	opts Options

	keys     keyMap
	help     help.Model
	input    textinput.Model
	vp       bv.Model
	coord    *viewport.Coordinator
	scroller *deferredScroller

	loaded       bool
	inputFocused bool
	editingID    int64
	cursor       int
	follow       bool
	showHelp     bool
	animating    bool

	status    string
	statusErr bool

	width  int
	height int

	saveErrs chan error
}

func NewModel(svc *app.Service, opts Options) *Model {
	if opts.Key == "" {
		opts.Key = store.DefaultKey
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Platform.Name == "" {
		opts.Platform = viewport.PlatformTerminal
	}
	if opts.KeyboardDuration <= 0 {
		opts.KeyboardDuration = defaultKeyboardDuration
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	ti := textinput.New()
	ti.Placeholder = "What needs to be done?"
	ti.Prompt = "+ "
	ti.CharLimit = 500

	scroller := &deferredScroller{}
	m := &Model{
		svc:      svc,
		opts:     opts,
		keys:     newKeyMap(),
		help:     help.New(),
		input:    ti,
		vp:       bv.New(0, 0),
		scroller: scroller,
		status:   "Ready",
		saveErrs: make(chan error, 1),
	}
	m.coord = viewport.New(viewport.Options{
		Platform:    opts.Platform,
		InputHeight: inputHeight,
		Now:         opts.Now,
		Logger:      opts.Logger,
	}, scroller)

	svc.OnChange = m.save
	if opts.Writer != nil {
		opts.Writer.OnError = func(err error) {
			select {
			case m.saveErrs <- err:
			default:
			}
		}
	}
	return m
}

func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.load()}
	if m.opts.Writer != nil {
		cmds = append(cmds, m.waitSaveErr())
	}
	return tea.Batch(cmds...)
}

func (m *Model) load() tea.Cmd {
	kv, key, logger := m.opts.KV, m.opts.Key, m.opts.Logger
	return func() tea.Msg {
		if kv == nil {
			return loadedMsg{state: model.NewState()}
		}
		state, status := store.Load(context.Background(), kv, key, logger)
		return loadedMsg{state: state, status: status}
	}
}

func (m *Model) waitSaveErr() tea.Cmd {
	ch := m.saveErrs
	return func() tea.Msg {
		return saveErrMsg{err: <-ch}
	}
}

func frame() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = m.viewportWidth()
		m.input.Width = max(1, m.viewportWidth()-lipgloss.Width(m.input.Prompt)-1)
		m.layout()
	case loadedMsg:
		m.svc.Replace(msg.state)
		m.loaded = true
		if msg.status != "" {
			m.setStatus(msg.status, false)
		}
		m.opts.Logger.Info("list loaded", "key", m.opts.Key, "items", len(msg.state.Items))
	case frameMsg:
		if m.coord.Tick(time.Time(msg)) {
			cmds = append(cmds, frame())
		} else {
			m.animating = false
		}
	case saveErrMsg:
		m.setStatus("Change applied, but saving failed: "+msg.err.Error(), true)
		cmds = append(cmds, m.waitSaveErr())
	case clipboardMsg:
		if msg.err != nil {
			m.setStatus("Copy failed: "+msg.err.Error(), true)
		} else {
			m.setStatus(fmt.Sprintf("%d active items copied to the clipboard", msg.count), false)
		}
	case tea.MouseMsg:
		if m.loaded && !m.showHelp {
			var cmd tea.Cmd
			m.vp, cmd = m.vp.Update(msg)
			cmds = append(cmds, cmd)
		}
	case tea.KeyMsg:
		if !m.loaded {
			if key.Matches(msg, m.keys.abort) {
				return m, tea.Quit
			}
			break
		}
		var (
			cmd  tea.Cmd
			quit bool
		)
		if m.inputFocused {
			cmd, quit = m.updateInputMode(msg)
		} else {
			cmd, quit = m.updateNormalMode(msg)
		}
		if quit {
			return m, tea.Quit
		}
		cmds = append(cmds, cmd)
	}

	m.refresh()
	if cmd := m.startFrames(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) updateNormalMode(msg tea.KeyMsg) (tea.Cmd, bool) {
	if m.showHelp {
		switch {
		case key.Matches(msg, m.keys.help), msg.String() == "esc":
			m.showHelp = false
			return nil, false
		case key.Matches(msg, m.keys.quit):
			return nil, true
		}
		return nil, false
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return nil, true
	case key.Matches(msg, m.keys.help):
		m.showHelp = true
	case key.Matches(msg, m.keys.focus):
		m.editingID = 0
		m.input.Reset()
		return m.focusInput(), false
	case key.Matches(msg, m.keys.edit):
		return m.startEdit(), false
	case key.Matches(msg, m.keys.down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.toggle):
		m.toggleSelected()
	case key.Matches(msg, m.keys.remove):
		m.deleteSelected()
	case key.Matches(msg, m.keys.toggleAll):
		if m.svc.ToggleAll() {
			if m.svc.AllComplete() {
				m.setStatus("All items complete", false)
			} else {
				m.setStatus("All items active", false)
			}
		}
	case key.Matches(msg, m.keys.clear):
		if m.svc.ClearCompleted() {
			m.setStatus("Completed items cleared • u undoes", false)
		} else {
			m.setStatus("Nothing to clear", false)
		}
	case key.Matches(msg, m.keys.cycleFilter):
		m.cycleFilter()
	case key.Matches(msg, m.keys.filterAll):
		m.setFilter(model.FilterAll)
	case key.Matches(msg, m.keys.filterOpen):
		m.setFilter(model.FilterActive)
	case key.Matches(msg, m.keys.filterDone):
		m.setFilter(model.FilterComplete)
	case key.Matches(msg, m.keys.undo):
		if err := m.svc.Undo(); err != nil {
			m.setStatus("Nothing to undo", false)
		} else {
			m.setStatus("Undone", false)
		}
	case key.Matches(msg, m.keys.copy):
		return m.copyActive(), false
	case key.Matches(msg, m.keys.pageDown):
		m.vp.ViewDown()
	case key.Matches(msg, m.keys.pageUp):
		m.vp.ViewUp()
	}
	return nil, false
}

func (m *Model) updateInputMode(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.abort):
		return nil, true
	case key.Matches(msg, m.keys.blur):
		m.blurInput()
		return nil, false
	case key.Matches(msg, m.keys.submit):
		m.submit()
		return nil, false
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd, false
}

func (m *Model) submit() {
	text := strings.TrimSpace(m.input.Value())
	if m.editingID != 0 {
		id := m.editingID
		if text != "" && m.svc.Update(id, model.SetTitle(text)) {
			m.setStatus("Item updated", false)
		}
		m.blurInput()
		return
	}

	item, ok := m.svc.Create(text)
	if !ok {
		return
	}
	m.input.Reset()
	m.selectItem(item.ID)
	m.coord.ItemCreated()
	m.setStatus("Item added", false)
}

func (m *Model) startEdit() tea.Cmd {
	item, ok := m.selectedItem()
	if !ok {
		m.setStatus("No item selected", false)
		return nil
	}
	m.editingID = item.ID
	m.input.SetValue(item.Title)
	m.input.CursorEnd()
	return m.focusInput()
}

// focusInput gives the input bar focus and slides the key drawer in.
func (m *Model) focusInput() tea.Cmd {
	m.inputFocused = true
	m.layout()
	m.coord.KeyboardWillShow(float64(m.drawerHeight()), m.opts.KeyboardDuration)
	return m.input.Focus()
}

func (m *Model) blurInput() {
	m.inputFocused = false
	m.editingID = 0
	m.input.Blur()
	m.input.Reset()
	m.layout()
	m.coord.KeyboardWillHide(float64(m.drawerHeight()), m.opts.KeyboardDuration)
}

// layout reports the container size. Platforms without keyboard events
// lose the drawer rows from the container instead.
func (m *Model) layout() {
	if m.width == 0 || m.height == 0 {
		return
	}
	bottom := footerHeight
	if m.inputFocused && !m.opts.Platform.NativeKeyboardEvents {
		bottom = max(footerHeight, m.drawerHeight())
	}
	m.coord.Layout(float64(m.height-bottom), float64(bottom))
}

func (m *Model) startFrames() tea.Cmd {
	if m.animating || !m.coord.Animating() {
		return nil
	}
	m.animating = true
	return frame()
}

// refresh sizes the scroll block to the animated height, re-renders its
// content and applies scroll commands queued by the coordinator.
func (m *Model) refresh() {
	if !m.loaded || m.width == 0 || m.height == 0 {
		return
	}
	m.clampCursor()
	m.vp.Width = m.viewportWidth()
	m.vp.Height = max(1, m.animatedHeight()-inputHeight)

	content := m.renderContent(m.vp.Width)
	m.vp.SetContent(content)
	m.scroller.ready = true
	m.coord.ContentSize(float64(lipgloss.Height(content)))
	m.scroller.apply(&m.vp)
	if m.follow {
		m.followCursor()
		m.follow = false
	}
	m.coord.Scroll(float64(m.vp.YOffset))
}

func (m *Model) animatedHeight() int {
	h := int(math.Round(m.coord.AnimatedHeight()))
	return clamp(h, inputHeight+1, m.height-footerHeight)
}

func (m *Model) followCursor() {
	if len(m.svc.Visible()) == 0 {
		return
	}
	line := rowsStart + m.cursor
	top := m.vp.YOffset
	if top > headerTop {
		top += headerLines
	}
	bottom := m.vp.YOffset + m.vp.Height - 1
	switch {
	case line < top:
		offset := line - headerLines
		if offset <= headerTop {
			offset = 0
		}
		m.vp.SetYOffset(offset)
	case line > bottom:
		m.vp.SetYOffset(line - m.vp.Height + 1)
	}
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
	m.follow = true
}

func (m *Model) clampCursor() {
	n := len(m.svc.Visible())
	if n == 0 {
		m.cursor = 0
		return
	}
	m.cursor = clamp(m.cursor, 0, n-1)
}

func (m *Model) selectedItem() (model.Item, bool) {
	items := m.svc.Visible()
	if m.cursor < 0 || m.cursor >= len(items) {
		return model.Item{}, false
	}
	return items[m.cursor], true
}

func (m *Model) selectItem(id int64) {
	for i, it := range m.svc.Visible() {
		if it.ID == id {
			m.cursor = i
			return
		}
	}
}

func (m *Model) toggleSelected() {
	item, ok := m.selectedItem()
	if !ok {
		m.setStatus("No item selected", false)
		return
	}
	if m.svc.Toggle(item.ID) {
		if item.Complete {
			m.setStatus("Marked active", false)
		} else {
			m.setStatus("Marked complete", false)
		}
	}
}

func (m *Model) deleteSelected() {
	item, ok := m.selectedItem()
	if !ok {
		m.setStatus("No item selected", false)
		return
	}
	if m.svc.Delete(item.ID) {
		m.setStatus("Item deleted • u undoes", false)
	}
}

func (m *Model) cycleFilter() {
	current := m.svc.Filter()
	next := model.Filters[0]
	for i, f := range model.Filters {
		if f == current {
			next = model.Filters[(i+1)%len(model.Filters)]
			break
		}
	}
	m.setFilter(next)
}

func (m *Model) setFilter(f model.Filter) {
	if err := m.svc.SetFilter(f); err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	m.cursor = 0
	m.vp.GotoTop()
	m.setStatus("Filter: "+f.Label(), false)
}

func (m *Model) copyActive() tea.Cmd {
	var parts []string
	for _, it := range model.Visible(m.svc.Items(), model.FilterActive) {
		text := strings.TrimSpace(strings.ReplaceAll(it.Title, "\n", " "))
		if text == "" {
			continue
		}
		parts = append(parts, "- "+text)
	}
	if len(parts) == 0 {
		m.setStatus("No active items to copy", false)
		return nil
	}
	payload := strings.Join(parts, "\n")
	write := m.opts.Clipboard
	count := len(parts)
	return func() tea.Msg {
		return clipboardMsg{count: count, err: write(payload)}
	}
}

// save hands every effective change to the background writer.
func (m *Model) save(state model.State) {
	if m.opts.Writer == nil {
		return
	}
	if err := m.opts.Writer.Save(state); err != nil {
		m.setStatus("Change applied, but saving failed: "+err.Error(), true)
	}
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

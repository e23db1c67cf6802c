// Package tui implements the interactive clip picker.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/user/stream-auto-editor/db"
	"github.com/user/stream-auto-editor/pkg/timeutil"
	"github.com/user/stream-auto-editor/plan"
	"github.com/user/stream-auto-editor/tui/components"
	"github.com/user/stream-auto-editor/tui/layout"
	"github.com/user/stream-auto-editor/tui/styles"
)

// PreviewFunc opens a clip file in a player.
type PreviewFunc func(path string) error

// previewDoneMsg reports the result of a preview request.
type previewDoneMsg struct {
	index int
	err   error
}

// Picker is the Bubbletea model for choosing which clips go into the final
// video. Only extracted clips can be selected.
type Picker struct {
	clips    []db.Clip
	selected map[int]bool
	cursor   int
	offset   int

	preview PreviewFunc
	keys    keyMap
	help    help.Model
	message string

	width  int
	height int

	confirmed bool
	quitting  bool
}

// NewPicker creates a picker over clips, starting from their stored selection.
func NewPicker(clips []db.Clip, preview PreviewFunc) *Picker {
	selected := make(map[int]bool)
	for _, c := range clips {
		if c.Selected && c.Complete() {
			selected[c.Index] = true
		}
	}
	return &Picker{
		clips:    clips,
		selected: selected,
		preview:  preview,
		keys:     defaultKeyMap(),
		help:     help.New(),
		width:    80,
		height:   24,
	}
}

// Confirmed reports whether the user accepted the selection.
func (m *Picker) Confirmed() bool {
	return m.confirmed
}

// Selection returns the chosen clip indices.
func (m *Picker) Selection() plan.Selection {
	indices := make([]int, 0, len(m.selected))
	for idx, ok := range m.selected {
		if ok {
			indices = append(indices, idx)
		}
	}
	return plan.NewSelection(indices...)
}

// Init implements tea.Model.
func (m *Picker) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case previewDoneMsg:
		if msg.err != nil {
			m.message = styles.Warning.Render(fmt.Sprintf("preview clip %d: %v", msg.index, msg.err))
		} else {
			m.message = styles.SecondaryText.Render(fmt.Sprintf("previewing clip %d", msg.index))
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Picker) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Confirm):
		m.confirmed = true
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.clips)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Toggle):
		if c, ok := m.current(); ok {
			if !c.Complete() {
				m.message = styles.Warning.Render(fmt.Sprintf("clip %d was not extracted", c.Index))
				break
			}
			m.selected[c.Index] = !m.selected[c.Index]
			m.message = ""
		}

	case key.Matches(msg, m.keys.All):
		m.toggleAll()

	case key.Matches(msg, m.keys.Preview):
		return m, m.previewCmd()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

// toggleAll selects every extracted clip, or clears the selection when all
// of them are already selected.
func (m *Picker) toggleAll() {
	all := true
	for _, c := range m.clips {
		if c.Complete() && !m.selected[c.Index] {
			all = false
			break
		}
	}
	for _, c := range m.clips {
		if c.Complete() {
			m.selected[c.Index] = !all
		}
	}
}

func (m *Picker) previewCmd() tea.Cmd {
	c, ok := m.current()
	if !ok || m.preview == nil {
		return nil
	}
	if !c.Complete() {
		m.message = styles.Warning.Render(fmt.Sprintf("clip %d was not extracted", c.Index))
		return nil
	}
	preview, index, path := m.preview, c.Index, c.Path
	return func() tea.Msg {
		return previewDoneMsg{index: index, err: preview(path)}
	}
}

func (m *Picker) current() (db.Clip, bool) {
	if m.cursor < 0 || m.cursor >= len(m.clips) {
		return db.Clip{}, false
	}
	return m.clips[m.cursor], true
}

// View implements tea.Model.
func (m *Picker) View() string {
	if m.quitting {
		return ""
	}

	title := styles.Title.Render("Select clips for the final video")
	helpView := m.help.View(m.keys)
	status := components.StatusBar(m.statusState(), m.width)

	bodyHeight := m.height - 2 - lipgloss.Height(helpView) - 1
	if bodyHeight < 3 {
		bodyHeight = 3
	}

	listWidth, detailWidth, showDetail := layout.SplitWidths(m.width)
	list := m.renderList(listWidth, bodyHeight)
	body := list
	if showDetail {
		detail := ""
		if c, ok := m.current(); ok {
			detail = components.ClipDetail(c, detailWidth)
		}
		body = layout.JoinColumns([]string{list, detail}, []int{listWidth, detailWidth}, bodyHeight)
	}

	return strings.Join([]string{title, "", body, status, helpView}, "\n")
}

func (m *Picker) statusState() components.StatusBarState {
	state := components.StatusBarState{Total: len(m.clips), Message: m.message}
	for _, c := range m.clips {
		if c.Complete() {
			state.Available++
			if m.selected[c.Index] {
				state.Selected++
			}
		}
	}
	return state
}

// renderList renders the visible window of clip rows, keeping the cursor in view.
func (m *Picker) renderList(width, height int) string {
	if len(m.clips) == 0 {
		return layout.Container{Width: width, Height: height}.Render(styles.SecondaryText.Render(" No clips in this run."))
	}

	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+height {
		m.offset = m.cursor - height + 1
	}

	var rows []string
	for i := m.offset; i < len(m.clips) && i < m.offset+height; i++ {
		rows = append(rows, m.renderRow(i, width))
	}
	return layout.Container{Width: width, Height: height}.Render(strings.Join(rows, "\n"))
}

func (m *Picker) renderRow(i, width int) string {
	c := m.clips[i]

	box := "[ ]"
	if !c.Complete() {
		box = "[-]"
	} else if m.selected[c.Index] {
		box = "[x]"
	}

	row := fmt.Sprintf(" %s %3d  %s-%s  %s", box, c.Index,
		timeutil.FormatClock(c.Start), timeutil.FormatClock(c.End), c.Label())
	row = ansi.Truncate(row, width, "…")

	switch {
	case i == m.cursor:
		return styles.Highlight.Render(layout.PadToWidth(row, width))
	case !c.Complete():
		return styles.Dim.Render(row)
	default:
		return styles.PrimaryText.Render(row)
	}
}

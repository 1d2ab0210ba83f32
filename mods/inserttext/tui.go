//
// Copyright (c) 2025 Snipper contributors.
//
// All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// This file is part of Snipper.
//
// Snipper is free software: you can redistribute it and/or modify it under the terms of
// the GNU Affero General Public License as published by the Free Software Foundation,
// either version 3 of the License, or (at your option) any later version.
//
// Snipper is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR
// PURPOSE.  See the GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License along with
// snipper.  If not, see <http://www.gnu.org/licenses/>.

package inserttext

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/snipper-dev/snipper/internal/utils"
	"github.com/snipper-dev/snipper/pkg/editor"
	"github.com/snipper-dev/snipper/pkg/events"
	"github.com/snipper-dev/snipper/pkg/logging"
	"github.com/snipper-dev/snipper/pkg/manager"
	"github.com/snipper-dev/snipper/pkg/modules"
	"github.com/snipper-dev/snipper/pkg/snippets"
	"github.com/snipper-dev/snipper/pkg/textview"
)

const (
	nLogLines    = 4
	defaultWidth = 60
	listHeight   = 14
)

var (
	defaultTextColor = lipgloss.NewStyle().Foreground(
		lipgloss.AdaptiveColor{Light: "240", Dark: "255"},
	)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	inputLabelStyle = defaultTextColor.
			Bold(true).
			MarginRight(1)

	previewStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("99")).
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("120"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))

	logSectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			MarginTop(1)

	helpStyle = lipgloss.NewStyle().PaddingLeft(1)
)

// listItem keeps the position of an item in the dialog.
type listItem struct {
	Item
	index int
}

func (i listItem) Title() string {
	title, _, _ := strings.Cut(i.Text, "\n")
	return title
}

func (i listItem) Description() string {
	return i.Shortcut
}

type focus int

const (
	focusList focus = iota
	focusInput
)

type keymap struct {
	activate key.Binding
	confirm  key.Binding
	edit     key.Binding
	switchTo key.Binding
	cancel   key.Binding
}

func newKeymap() keymap {
	return keymap{
		activate: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add to text")),
		confirm:  key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "insert")),
		edit:     key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "edit texts")),
		switchTo: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch focus")),
		cancel:   key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "cancel")),
	}
}

type editDoneMsg struct {
	session *editor.Session
	err     error
}

type tuiModel struct {
	ctx       context.Context
	dialog    *Dialog
	editor    *editor.Editor
	list      list.Model
	input     textinput.Model
	focus     focus
	keymap    keymap
	help      help.Model
	logBuffer *logging.TailBuffer
	status    string
	err       error
	width     int
	confirmed bool
}

func newTUIModel(ctx context.Context, d *Dialog, ed *editor.Editor, logBuf *logging.TailBuffer) tuiModel {
	l := list.New(listItems(d), list.NewDefaultDelegate(), defaultWidth, listHeight)
	l.Title = "Insert Text"
	l.Styles.Title = titleStyle
	l.SetShowHelp(false)
	l.Filter = func(term string, targets []string) []list.Rank {
		idx := rank(term, targets)
		ranks := make([]list.Rank, len(idx))
		for i, j := range idx {
			ranks[i] = list.Rank{Index: j}
		}
		return ranks
	}

	ti := textinput.New()
	ti.Placeholder = "text to insert"
	ti.Prompt = ""
	ti.Width = defaultWidth - 8

	return tuiModel{
		ctx:       ctx,
		dialog:    d,
		editor:    ed,
		list:      l,
		input:     ti,
		keymap:    newKeymap(),
		help:      help.New(),
		logBuffer: logBuf,
		width:     defaultWidth,
	}
}

func listItems(d *Dialog) []list.Item {
	items := d.Items()
	out := make([]list.Item, len(items))
	for i, it := range items {
		out[i] = listItem{Item: it, index: i}
	}
	return out
}

func waitBus() tea.Msg {
	return <-events.TUIBus
}

// Init implements tea.Model.
func (m tuiModel) Init() tea.Cmd {
	return waitBus
}

func (m tuiModel) selected() (int, bool) {
	it, ok := m.list.SelectedItem().(listItem)
	if !ok {
		return 0, false
	}
	return it.index, true
}

func (m *tuiModel) syncStaging() {
	m.dialog.SetStaging(m.input.Value(), m.input.Position())
}

func (m tuiModel) startEdit() tea.Cmd {
	session, err := m.editor.Start(m.ctx, m.dialog.plugin.Path())
	if err != nil {
		return func() tea.Msg { return editDoneMsg{err: err} }
	}
	if session.Cmd == nil {
		return func() tea.Msg {
			return editDoneMsg{session: session, err: session.Open()}
		}
	}
	return tea.ExecProcess(session.Cmd, func(err error) tea.Msg {
		return editDoneMsg{session: session, err: err}
	})
}

// Update implements tea.Model.
func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.list.SetSize(msg.Width, max(5, msg.Height-10-nLogLines))
		m.input.Width = max(10, msg.Width-8)
		return m, nil

	case events.ReloadedMsg:
		if msg.ID != ID {
			return m, waitBus
		}
		m.dialog.Refresh()
		m.status = fmt.Sprintf("reloaded %d texts from %s", msg.Count, utils.Shorten(msg.Path))
		m.err = nil
		return m, tea.Batch(m.list.SetItems(listItems(m.dialog)), waitBus)

	case events.ReloadFailedMsg:
		if msg.ID == ID {
			m.err = msg.Err
		}
		return m, waitBus

	case editDoneMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		changed, err := msg.session.Changed()
		if err == nil {
			err = m.dialog.afterEdit(changed)
		}
		if err != nil {
			m.err = err
			return m, nil
		}
		if changed {
			m.status = "texts updated"
		}
		return m, m.list.SetItems(listItems(m.dialog))

	case tea.KeyMsg:
		filtering := m.list.FilterState() == list.Filtering
		switch {
		case key.Matches(msg, m.keymap.cancel) && !filtering:
			return m, tea.Quit

		case key.Matches(msg, m.keymap.confirm):
			m.syncStaging()
			m.confirmed = true
			return m, tea.Quit

		case key.Matches(msg, m.keymap.edit):
			return m, m.startEdit()

		case key.Matches(msg, m.keymap.switchTo) && !filtering:
			if m.focus == focusList {
				m.focus = focusInput
				return m, m.input.Focus()
			}
			m.focus = focusList
			m.input.Blur()
			return m, nil

		case key.Matches(msg, m.keymap.activate) && m.focus == focusList && !filtering:
			if i, ok := m.selected(); ok {
				m.syncStaging()
				m.dialog.Activate(i)
				m.input.SetValue(m.dialog.Staging())
				m.input.SetCursor(m.dialog.Caret())
			}
			return m, nil

		case key.Matches(msg, m.keymap.activate) && m.focus == focusInput:
			m.syncStaging()
			m.confirmed = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	if m.focus == focusInput {
		m.input, cmd = m.input.Update(msg)
		m.syncStaging()
	} else {
		m.list, cmd = m.list.Update(msg)
	}
	return m, cmd
}

// View implements tea.Model.
func (m tuiModel) View() string {
	doc := strings.Builder{}

	doc.WriteString(m.list.View())
	doc.WriteByte('\n')

	if i, ok := m.selected(); ok {
		if text, ok := m.dialog.Preview(i); ok {
			doc.WriteString(previewStyle.Width(max(10, m.width-4)).Render(text))
			doc.WriteByte('\n')
		}
	}

	doc.WriteString(inputLabelStyle.Render("Text:"))
	doc.WriteString(m.input.View())
	doc.WriteByte('\n')

	if m.err != nil {
		doc.WriteString(errorStyle.Render(m.err.Error()))
		doc.WriteByte('\n')
	} else if m.status != "" {
		doc.WriteString(statusStyle.Render(m.status))
		doc.WriteByte('\n')
	}

	doc.WriteString(helpStyle.Render(m.help.ShortHelpView([]key.Binding{
		m.keymap.activate,
		m.keymap.switchTo,
		m.keymap.confirm,
		m.keymap.edit,
		m.keymap.cancel,
	})))

	if m.logBuffer != nil {
		if lines := m.logBuffer.Lines(); len(lines) > 0 {
			doc.WriteString(logSectionStyle.Render(strings.Join(lines, "\n")))
		}
	}

	return doc.String()
}

// RunDialog runs the Insert Text dialog in the terminal. The snippet file is
// watched while the dialog is open. On confirmation the staged text is
// inserted at the cursor of tv.
func RunDialog(c *modules.Context, p *Plugin, tv *textview.TextView) error {
	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()

	p.mu.Lock()
	p.tui = true
	p.mu.Unlock()

	logBuf := logging.NewTailBuffer(nLogLines)
	logging.SetTUI(logBuf)
	defer logging.SetOutput(os.Stderr)

	ed, err := editor.New()
	if err != nil {
		return err
	}
	ed.Template = snippets.Header

	units, err := p.WorkUnits(ctx)
	if err != nil {
		return err
	}
	mngr := manager.NewManager()
	for _, u := range units {
		mngr.AddUnit(u, ID)
	}
	go mngr.Run()
	defer func() {
		mngr.Stop()
		<-mngr.Quit
	}()

	d := NewDialog(p, tv, ed)
	final, err := tea.NewProgram(newTUIModel(ctx, d, ed, logBuf), tea.WithAltScreen()).Run()
	if err != nil {
		return fmt.Errorf("insert text dialog: %w", err)
	}

	if fm, ok := final.(tuiModel); ok && fm.confirmed {
		return d.Confirm()
	}
	return nil
}

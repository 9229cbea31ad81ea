package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// MenuItem is one entry of the main menu
type MenuItem struct {
	Title       string
	Description string
}

// NoChoice is returned when the operator leaves the menu
const NoChoice = -1

type menuKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k menuKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k menuKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Select, k.Quit},
	}
}

func newMenuKeyMap() menuKeyMap {
	return menuKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter/1-9", "select"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// MenuModel is the bubbletea model of the main menu
type MenuModel struct {
	Title  string
	Items  []MenuItem
	Cursor int
	Choice int
	Keys   menuKeyMap
	Help   help.Model
	Width  int
}

// NewMenuModel creates a menu with nothing chosen yet
func NewMenuModel(title string, items []MenuItem) MenuModel {
	return MenuModel{
		Title:  title,
		Items:  items,
		Choice: NoChoice,
		Keys:   newMenuKeyMap(),
		Help:   help.New(),
		Width:  GetTerminalWidth(),
	}
}

// Init implements tea.Model
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Help.Width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.Keys.Quit):
			m.Choice = NoChoice
			return m, tea.Quit
		case key.Matches(msg, m.Keys.Up):
			if m.Cursor > 0 {
				m.Cursor--
			}
		case key.Matches(msg, m.Keys.Down):
			if m.Cursor < len(m.Items)-1 {
				m.Cursor++
			}
		case key.Matches(msg, m.Keys.Select):
			m.Choice = m.Cursor
			return m, tea.Quit
		default:
			if n, err := strconv.Atoi(msg.String()); err == nil && n >= 1 && n <= len(m.Items) {
				m.Cursor = n - 1
				m.Choice = n - 1
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

// View implements tea.Model
func (m MenuModel) View() string {
	var b strings.Builder
	b.WriteString(HeaderTitleStyle.Render(m.Title))
	b.WriteString("\n\n")

	for i, item := range m.Items {
		line := fmt.Sprintf("[%d] %s", i+1, item.Title)
		style := MenuItemStyle
		if i == m.Cursor {
			line = "› " + line
			style = MenuSelectedStyle
		} else {
			line = "  " + line
		}
		b.WriteString(style.Render(line))
		if item.Description != "" {
			b.WriteString("  " + lipgloss.NewStyle().Foreground(MutedColor).Render(item.Description))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.Help.View(m.Keys))
	b.WriteString("\n")
	return b.String()
}

// RunMenu shows the interactive menu and returns the chosen index or
// NoChoice
func RunMenu(ctx context.Context, title string, items []MenuItem) (int, error) {
	p := tea.NewProgram(NewMenuModel(title, items), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return NoChoice, err
	}
	return final.(MenuModel).Choice, nil
}

// PromptMenu prints a numbered menu and reads the choice as a line of
// input. It asks again until the answer is a listed number.
func (t *Terminal) PromptMenu(ctx context.Context, title string, items []MenuItem) (int, error) {
	t.Println(HeaderTitleStyle.Render(title))
	for i, item := range items {
		t.Println(MenuItemStyle.Render(fmt.Sprintf("[%d] %s", i+1, item.Title)))
	}

	for {
		answer, err := t.Prompt(ctx, "Please select")
		if err != nil {
			return NoChoice, err
		}
		n, err := strconv.Atoi(strings.TrimSpace(answer))
		if err == nil && n >= 1 && n <= len(items) {
			return n - 1, nil
		}
		t.Warn(fmt.Sprintf("Please enter a number between 1 and %d", len(items)))
	}
}

// SelectMenu uses the interactive menu on a terminal and the numbered
// prompt otherwise
func (t *Terminal) SelectMenu(ctx context.Context, title string, items []MenuItem) (int, error) {
	if t.Interactive() {
		return RunMenu(ctx, title, items)
	}
	return t.PromptMenu(ctx, title, items)
}

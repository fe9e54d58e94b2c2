package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// sceneEntry is one selectable scene file.
type sceneEntry struct {
	Path     string
	Name     string
	Modified time.Time
}

// SceneListModel is the bubbletea model for interactive scene selection.
type SceneListModel struct {
	Scenes   []sceneEntry
	Cursor   int
	Selected *sceneEntry
	Height   int
	Offset   int
}

// NewSceneListModel creates a new scene list model.
func NewSceneListModel(scenes []sceneEntry) SceneListModel {
	return SceneListModel{
		Scenes: scenes,
		Cursor: 0,
		Height: 15,
		Offset: 0,
	}
}

func (m SceneListModel) Init() tea.Cmd {
	return nil
}

func (m SceneListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Scenes)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			m.Selected = &m.Scenes[m.Cursor]
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m SceneListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Scene"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Scenes) {
		end = len(m.Scenes)
	}

	for i := m.Offset; i < end; i++ {
		s := m.Scenes[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		line := fmt.Sprintf("%s%-30s  %s", cursor, s.Name, listDimStyle.Render(formatRelativeTime(s.Modified)))

		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Scenes))))

	return b.String()
}

// discoverScenes lists the TOML scene files in dir, newest first.
func discoverScenes(dir string) ([]sceneEntry, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.toml"))
	if err != nil {
		return nil, err
	}

	var scenes []sceneEntry
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		scenes = append(scenes, sceneEntry{
			Path:     path,
			Name:     filepath.Base(path),
			Modified: info.ModTime(),
		})
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].Modified.After(scenes[j].Modified)
	})
	return scenes, nil
}

// pickScene runs the interactive picker over the scene files in dir and
// returns the chosen path. An empty string means the user quit without
// selecting.
func pickScene(dir string) (string, error) {
	scenes, err := discoverScenes(dir)
	if err != nil {
		return "", err
	}
	if len(scenes) == 0 {
		return "", fmt.Errorf("no scene files (*.toml) found in %s", dir)
	}

	program := tea.NewProgram(NewSceneListModel(scenes))
	final, err := program.Run()
	if err != nil {
		return "", err
	}

	model, ok := final.(SceneListModel)
	if !ok || model.Selected == nil {
		return "", nil
	}
	return model.Selected.Path, nil
}

func formatRelativeTime(t time.Time) string {
	diff := time.Since(t)

	switch {
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}

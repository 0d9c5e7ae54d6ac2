package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/mjaros/focusflow/internal/config"
)

type settingsModel struct {
	cfg     *config.Config
	cfgPath string
	width   int
	height  int

	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	formUserID *string
	formModel  *string
	formBase   *string
	formKey    *string
}

func newSettingsModel(cfg *config.Config, cfgPath string) settingsModel {
	uid, model, base, apiKey := "", "", "", ""
	return settingsModel{
		cfg:        cfg,
		cfgPath:    cfgPath,
		formUserID: &uid,
		formModel:  &model,
		formBase:   &base,
		formKey:    &apiKey,
	}
}

func (m *settingsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Edit):
			return m.showForm()
		}
	}
	return m, nil
}

func (m settingsModel) showForm() (settingsModel, tea.Cmd) {
	*m.formUserID = m.cfg.UserID
	*m.formModel = m.cfg.OpenAIModel
	*m.formBase = m.cfg.OpenAIBase
	*m.formKey = m.cfg.OpenAIKey

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("User ID").Value(m.formUserID).
				Validate(func(s string) error {
					if !config.ValidUserID(strings.TrimSpace(s)) {
						return fmt.Errorf("must be a UUID (8-4-4-4-12)")
					}
					return nil
				}),
		).Title("Identity"),
		huh.NewGroup(
			huh.NewInput().Title("Model").Value(m.formModel),
			huh.NewInput().Title("API base URL (empty = default)").Value(m.formBase),
			huh.NewInput().Title("API key").Value(m.formKey).EchoMode(huh.EchoModePassword),
		).Title("AI Coach"),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		m.cfg.UserID = strings.TrimSpace(*m.formUserID)
		m.cfg.OpenAIModel = strings.TrimSpace(*m.formModel)
		if m.cfg.OpenAIModel == "" {
			m.cfg.OpenAIModel = config.DefaultModel
		}
		m.cfg.OpenAIBase = strings.TrimSpace(*m.formBase)
		m.cfg.OpenAIKey = strings.TrimSpace(*m.formKey)

		cfg := m.cfg
		path := m.cfgPath
		return m, func() tea.Msg {
			if err := config.Save(path, cfg); err != nil {
				return statusMsg{text: fmt.Sprintf("Save error: %v", err), isError: true}
			}
			return statusMsg{text: "Settings saved. Restart to apply identity changes."}
		}
	}

	return m, cmd
}

func (m settingsModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Settings"), "", m.form.View()),
		)
	}

	keyState := errorStyle.Render("not set")
	if m.cfg.OpenAIKey != "" {
		keyState = successStyle.Render("configured")
	}
	base := m.cfg.OpenAIBase
	if base == "" {
		base = "default"
	}

	rows := []string{
		titleStyle.Render("Settings"),
		"",
		settingRow("Config file", m.cfgPath),
		settingRow("User ID", m.cfg.UserID),
		"",
		settingRow("Model", m.cfg.OpenAIModel),
		settingRow("API base", base),
		fmt.Sprintf("  %s %s", lipgloss.NewStyle().Width(16).Render("API key"), keyState),
		"",
		mutedStyle.Render("Press enter to edit"),
	}

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func settingRow(label, value string) string {
	return fmt.Sprintf("  %s %s",
		lipgloss.NewStyle().Width(16).Render(label),
		highlightStyle.Render(value),
	)
}

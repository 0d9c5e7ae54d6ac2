package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/mjaros/focusflow/internal/ai"
	"github.com/mjaros/focusflow/internal/config"
	"github.com/mjaros/focusflow/internal/store"
	"github.com/mjaros/focusflow/internal/tui"
)

func main() {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		fmt.Fprintln(os.Stderr, "focusflow is an interactive app and needs a terminal")
		os.Exit(1)
	}

	cfgPath, err := config.Path()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading config: %v\n", err)
		os.Exit(1)
	}

	dbPath, err := store.DefaultDBPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	s, err := store.New(dbPath, cfg.UserID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening database: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	gateway := ai.New(ai.Config{
		APIKey:  cfg.OpenAIKey,
		BaseURL: cfg.OpenAIBase,
		Model:   cfg.OpenAIModel,
	}, s)

	app := tui.NewApp(s, gateway, cfg, cfgPath)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

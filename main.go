// quizbot - terminal client for the Quizbot chat backend.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/quizbot-tui/internal/auth"
	"github.com/jeranaias/quizbot-tui/internal/cli"
	"github.com/jeranaias/quizbot-tui/internal/config"
	"github.com/jeranaias/quizbot-tui/internal/logging"
	"github.com/jeranaias/quizbot-tui/internal/ui/chat"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdVersion:
		cli.HandleVersion()
		return
	case cli.CmdHelp:
		cli.HandleHelp()
		return
	}

	cfg := config.Global()
	log := logging.L()
	defer log.Sync() //nolint:errcheck

	store, err := auth.NewStore()
	if err != nil {
		exitError(err)
	}
	app := cli.NewApp(cfg, store, log)

	switch cmd {
	case cli.CmdTUI:
		runTUI(app, cfg, log)
	case cli.CmdAsk:
		runHandler(app.HandleAsk, args)
	case cli.CmdChat:
		runHandler(app.HandleChat, args)
	case cli.CmdLogin:
		runHandler(app.HandleLogin, args)
	case cli.CmdRegister:
		runHandler(app.HandleRegister, args)
	case cli.CmdLogout:
		runHandler(app.HandleLogout, args)
	case cli.CmdWhoami:
		runHandler(app.HandleWhoami, args)
	case cli.CmdSessions:
		runHandler(app.HandleSessions, args)
	case cli.CmdConfig:
		runHandler(app.HandleConfig, args)
	default:
		cli.PrintUsage()
		os.Exit(cli.ExitUsageError)
	}
}

// runHandler executes a command handler and maps its error to an exit
// code.
func runHandler(handler func(cli.Args) error, args cli.Args) {
	if err := handler(args); err != nil {
		exitError(err)
	}
}

// runTUI launches the interactive chat interface.
func runTUI(app *cli.App, cfg *config.Config, log *zap.Logger) {
	if !cli.IsTTY() {
		fmt.Fprintln(os.Stderr, "Error: the interactive interface needs a terminal; try `quizbot ask \"...\"` instead")
		os.Exit(cli.ExitUsageError)
	}

	// Picking up external config edits mid-session only affects values
	// read per-turn (guest history cap); connection settings stay fixed
	// for the process lifetime.
	stop, err := config.Watch(config.DefaultPath(), func(next *config.Config) {
		*cfg = *next
		log.Info("config reloaded")
	})
	if err == nil {
		defer stop()
	}

	model := chat.New(chat.Deps{
		Engine:         app.Engine,
		Sessions:       app.Sessions,
		Identity:       app.Identity,
		SignOut:        app.SignOut,
		SidebarWidth:   cfg.UI.SidebarWidth,
		ShowTimestamps: cfg.UI.ShowTimestamps,
	})

	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		exitError(err)
	}
}

func exitError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(cli.GetExitCode(err))
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - configuration inspection.
package cli

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/quizbot-tui/internal/config"
)

// HandleConfig dispatches the config subcommands.
func (a *App) HandleConfig(args Args) error {
	switch args.Subcommand {
	case "", "show":
		return toml.NewEncoder(os.Stdout).Encode(a.Config)
	case "path":
		fmt.Println(config.DefaultPath())
		return nil
	case "init":
		path := config.DefaultPath()
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
		if err := a.Config.SaveTo(path); err != nil {
			return err
		}
		if !args.Quiet {
			fmt.Println(infoStyle.Render("Wrote " + path))
		}
		return nil
	default:
		return NewUsageError(fmt.Sprintf("unknown config subcommand %q (try: show, path, init)", args.Subcommand))
	}
}

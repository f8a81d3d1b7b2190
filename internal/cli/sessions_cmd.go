// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// sessions_cmd.go - saved conversation management.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jeranaias/quizbot-tui/internal/api"
	"github.com/jeranaias/quizbot-tui/internal/session"
	"github.com/jeranaias/quizbot-tui/internal/util"
)

// HandleSessions dispatches the sessions subcommands.
func (a *App) HandleSessions(args Args) error {
	switch args.Subcommand {
	case "", "list", "ls", "l":
		return a.sessionsList(args)
	case "delete", "rm":
		return a.sessionsDelete(args)
	default:
		return NewUsageError(fmt.Sprintf("unknown sessions subcommand %q (try: list, delete)", args.Subcommand))
	}
}

func (a *App) sessionsList(args Args) error {
	if _, ok := a.Identity(); !ok {
		fmt.Println("Not signed in. Saved conversations require an account; run `quizbot login`.")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.Config.Timeout())
	defer cancel()

	if err := a.Sessions.Refresh(ctx); err != nil {
		return fmt.Errorf("failed to load conversations: %s", api.UserReason(err))
	}

	summaries := a.Sessions.Summaries()

	if args.JSON {
		return json.NewEncoder(os.Stdout).Encode(summaries)
	}

	if len(summaries) == 0 {
		fmt.Println("No saved conversations yet.")
		return nil
	}

	width := GetTerminalWidth()
	titleWidth := width - 30
	if titleWidth < 20 {
		titleWidth = 20
	}

	for _, s := range summaries {
		id := fmt.Sprintf("%6s", s.ID)
		title := util.PadRight(util.TruncateWidth(s.DisplayTitle(), titleWidth), titleWidth)
		age := session.RelativeAge(s.Touched())
		fmt.Printf("  %s  %s  %s\n",
			promptStyle.Render(id),
			titleStyle.Render(title),
			ageStyle.Render(age))
	}
	return nil
}

func (a *App) sessionsDelete(args Args) error {
	if args.Query == "" {
		return NewUsageError("usage: quizbot sessions delete <id> [--yes]")
	}
	if _, ok := a.Identity(); !ok {
		return api.ErrUnauthenticated
	}

	if !args.Yes {
		if !IsTTY() {
			return NewUsageError("refusing to delete without --yes on a non-interactive terminal")
		}
		answer, err := promptLine(fmt.Sprintf("Delete conversation %s? This cannot be undone. [y/N] ", args.Query))
		if err != nil {
			return err
		}
		if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
			fmt.Println("Aborted.")
			return nil
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.Config.Timeout())
	defer cancel()

	if err := a.Sessions.Delete(ctx, args.Query); err != nil {
		return fmt.Errorf("delete failed: %s", api.UserReason(err))
	}
	a.Engine.DropIfActive(args.Query)

	if !args.Quiet {
		fmt.Println(infoStyle.Render("Deleted."))
	}
	return nil
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - interactive terminal chat (plain REPL, no TUI).
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/jeranaias/quizbot-tui/internal/api"
	"github.com/jeranaias/quizbot-tui/internal/engine"
	"github.com/jeranaias/quizbot-tui/internal/session"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// chatInput provides input history and line editing for interactive chat.
type chatInput struct {
	line        *liner.State
	historyFile string
}

func newChatInput() *chatInput {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	historyFile := ""
	if home, err := os.UserHomeDir(); err == nil {
		historyFile = filepath.Join(home, ".quizbot", "chat_history")
	}

	in := &chatInput{line: line, historyFile: historyFile}
	in.loadHistory()
	return in
}

func (c *chatInput) loadHistory() {
	if c.historyFile == "" {
		return
	}
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

func (c *chatInput) readInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

func (c *chatInput) saveHistory() {
	if c.historyFile == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(c.historyFile), 0o755); err != nil {
		return
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return
	}
	defer f.Close()
	c.line.WriteHistory(f)
}

func (c *chatInput) close() {
	c.saveHistory()
	c.line.Close()
}

// =============================================================================
// CHAT REPL
// =============================================================================

// HandleChat runs the interactive chat loop.
func (a *App) HandleChat(args Args) error {
	if !IsTTY() {
		return NewUsageError("chat requires an interactive terminal (use `quizbot ask` for scripting)")
	}

	input := newChatInput()
	defer input.close()

	a.printChatWelcome(args)

	var attachment string
	for {
		line, err := input.readInput(promptStyle.Render("you> "))
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				fmt.Println(infoStyle.Render("(ctrl+c again or /quit to exit)"))
				continue
			}
			// EOF (ctrl+d) leaves the loop cleanly.
			fmt.Println()
			return nil
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			done, cmdErr := a.handleChatCommand(line, &attachment)
			if cmdErr != nil {
				fmt.Println(errorStyle.Render(cmdErr.Error()))
			}
			if done {
				return nil
			}
			continue
		}

		a.sendChatTurn(line, &attachment)
	}
}

func (a *App) printChatWelcome(args Args) {
	if args.Quiet {
		return
	}
	if _, ok := a.Identity(); ok {
		fmt.Println(infoStyle.Render("Chatting with Quizbot. This conversation will be saved to your account."))
	} else {
		fmt.Println(infoStyle.Render("Chatting with Quizbot as a guest. Sign in with `quizbot login` to save conversations."))
	}
	fmt.Println(infoStyle.Render("Type /help for commands, /quit to exit."))
	fmt.Println()
}

func (a *App) sendChatTurn(text string, attachment *string) {
	ctx, cancel := context.WithTimeout(context.Background(), a.Config.Timeout())
	defer cancel()

	file := *attachment
	*attachment = ""

	var submitted bool
	if file != "" {
		fmt.Println(infoStyle.Render("Attaching " + filepath.Base(file)))
		submitted = a.Engine.SubmitWithFile(ctx, text, file)
	} else {
		submitted = a.Engine.Submit(ctx, text)
	}
	if !submitted {
		return
	}

	msgs := a.Engine.Messages()
	last := msgs[len(msgs)-1]
	if last.IsError {
		fmt.Println(errorStyle.Render(last.Content))
		return
	}
	displayResponse(last.Content)
}

// handleChatCommand executes a slash command. The bool result reports
// whether the REPL should exit.
func (a *App) handleChatCommand(line string, attachment *string) (bool, error) {
	fields := strings.Fields(line)
	cmd := fields[0]
	rest := fields[1:]

	switch cmd {
	case "/quit", "/exit", "/q":
		return true, nil

	case "/help", "/?":
		fmt.Println(infoStyle.Render(`Commands:
  /new               Start a fresh conversation
  /sessions          List saved conversations
  /load <id>         Open a saved conversation
  /delete <id>       Delete a saved conversation
  /attach <path>     Attach a file to the next message
  /quit              Exit`))
		return false, nil

	case "/new":
		if err := a.Engine.Reset(); err != nil {
			return false, err
		}
		fmt.Println(infoStyle.Render("Started a new conversation."))
		return false, nil

	case "/sessions":
		return false, a.HandleSessions(Args{Subcommand: "list"})

	case "/load":
		if len(rest) != 1 {
			return false, NewUsageError("usage: /load <id>")
		}
		ctx, cancel := context.WithTimeout(context.Background(), a.Config.Timeout())
		defer cancel()
		if err := a.Engine.Load(ctx, rest[0]); err != nil {
			if errors.Is(err, engine.ErrBusy) {
				return false, err
			}
			return false, fmt.Errorf("failed to load conversation: %s", api.UserReason(err))
		}
		a.replayTranscript()
		return false, nil

	case "/delete":
		if len(rest) != 1 {
			return false, NewUsageError("usage: /delete <id>")
		}
		return false, a.HandleSessions(Args{Subcommand: "delete", Query: rest[0], Yes: false})

	case "/attach":
		if len(rest) != 1 {
			return false, NewUsageError("usage: /attach <path>")
		}
		if _, err := os.Stat(rest[0]); err != nil {
			return false, fmt.Errorf("cannot read %s", rest[0])
		}
		*attachment = rest[0]
		fmt.Println(infoStyle.Render(filepath.Base(rest[0]) + " will ride along with your next message."))
		return false, nil

	default:
		return false, NewUsageError(fmt.Sprintf("unknown command %s (try /help)", cmd))
	}
}

// replayTranscript prints a loaded conversation so the user sees where
// they left off.
func (a *App) replayTranscript() {
	fmt.Println(titleStyle.Render("── " + a.Engine.Title() + " ──"))
	for _, msg := range a.Engine.Messages() {
		label := msg.Role.DisplayName()
		age := ""
		if !msg.CreatedAt.IsZero() {
			age = "  " + ageStyle.Render(session.RelativeAge(msg.CreatedAt))
		}
		fmt.Println(promptStyle.Render(label+":") + age)
		displayResponse(msg.Content)
	}
}

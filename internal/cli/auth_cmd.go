// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// auth_cmd.go - login, register, logout, and whoami commands.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/jeranaias/quizbot-tui/internal/api"
)

// HandleLogin signs in to an existing account and persists the session.
func (a *App) HandleLogin(args Args) error {
	if !IsTTY() && args.Email == "" {
		return NewUsageError("login requires a terminal or --email")
	}

	email := args.Email
	if email == "" {
		var err error
		email, err = promptLine("Email: ")
		if err != nil {
			return err
		}
	}
	if email == "" {
		return NewUsageError("email is required")
	}

	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.Config.Timeout())
	defer cancel()

	id, err := a.Client.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login failed: %s", api.UserReason(err))
	}
	if err := a.SignIn(id); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}

	if !args.Quiet {
		fmt.Println(infoStyle.Render("Signed in as ") + promptStyle.Render(displayName(id.User.Name, id.User.Email)))
	}
	return nil
}

// HandleRegister creates an account and persists the session.
func (a *App) HandleRegister(args Args) error {
	if !IsTTY() {
		return NewUsageError("register requires an interactive terminal")
	}

	name, err := promptLine("Name: ")
	if err != nil {
		return err
	}

	email := args.Email
	if email == "" {
		email, err = promptLine("Email: ")
		if err != nil {
			return err
		}
	}
	if email == "" {
		return NewUsageError("email is required")
	}

	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}
	confirm, err := promptPassword("Confirm password: ")
	if err != nil {
		return err
	}
	if password != confirm {
		return NewUsageError("passwords do not match")
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.Config.Timeout())
	defer cancel()

	id, err := a.Client.Register(ctx, name, email, password)
	if err != nil {
		return fmt.Errorf("registration failed: %s", api.UserReason(err))
	}
	if err := a.SignIn(id); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}

	if !args.Quiet {
		fmt.Println(infoStyle.Render("Account created. Signed in as ") + promptStyle.Render(displayName(id.User.Name, id.User.Email)))
	}
	return nil
}

// HandleLogout signs out and forgets the stored session.
func (a *App) HandleLogout(args Args) error {
	_, wasSignedIn := a.Identity()
	if err := a.SignOut(); err != nil {
		return err
	}
	if !args.Quiet {
		if wasSignedIn {
			fmt.Println(infoStyle.Render("Signed out."))
		} else {
			fmt.Println(infoStyle.Render("Not signed in."))
		}
	}
	return nil
}

// HandleWhoami shows the signed-in account, verified against the backend
// when reachable.
func (a *App) HandleWhoami(args Args) error {
	id, ok := a.Identity()
	if !ok {
		fmt.Println("Not signed in (guest mode).")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.Config.Timeout())
	defer cancel()

	user, err := a.Client.CurrentUser(ctx)
	if err != nil {
		// Fall back to the stored profile; a dead network should not
		// hide who the credential belongs to.
		user = id.User
	}

	fmt.Println(promptStyle.Render(displayName(user.Name, user.Email)))
	if user.Email != "" && user.Name != "" {
		fmt.Println(infoStyle.Render(user.Email))
	}
	return nil
}

// =============================================================================
// PROMPTS
// =============================================================================

func promptLine(prompt string) (string, error) {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads a password without echo.
func promptPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	passBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(passBytes), nil
}

func displayName(name, email string) string {
	if name != "" {
		return name
	}
	return email
}

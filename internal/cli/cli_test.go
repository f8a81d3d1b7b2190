// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/jeranaias/quizbot-tui/internal/api"
)

func parseArgs(t *testing.T, argv ...string) (Command, Args) {
	t.Helper()
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = append([]string{"quizbot"}, argv...)
	return Parse()
}

func TestParse_DefaultIsTUI(t *testing.T) {
	cmd, _ := parseArgs(t)
	if cmd != CmdTUI {
		t.Errorf("cmd = %v, want CmdTUI", cmd)
	}
}

func TestParse_Ask(t *testing.T) {
	cmd, args := parseArgs(t, "ask", "what", "is", "entropy?", "--file", "notes.txt")
	if cmd != CmdAsk {
		t.Fatalf("cmd = %v, want CmdAsk", cmd)
	}
	if args.Query != "what is entropy?" {
		t.Errorf("Query = %q", args.Query)
	}
	if args.File != "notes.txt" {
		t.Errorf("File = %q", args.File)
	}
}

func TestParse_BareQuestionBecomesAsk(t *testing.T) {
	cmd, args := parseArgs(t, "what", "is", "a", "closure?")
	if cmd != CmdAsk {
		t.Fatalf("cmd = %v, want CmdAsk", cmd)
	}
	if args.Query != "what is a closure?" {
		t.Errorf("Query = %q", args.Query)
	}
}

func TestParse_AuthCommands(t *testing.T) {
	tests := []struct {
		argv []string
		want Command
	}{
		{[]string{"login"}, CmdLogin},
		{[]string{"signin"}, CmdLogin},
		{[]string{"register"}, CmdRegister},
		{[]string{"logout"}, CmdLogout},
		{[]string{"whoami"}, CmdWhoami},
	}
	for _, tt := range tests {
		cmd, _ := parseArgs(t, tt.argv...)
		if cmd != tt.want {
			t.Errorf("Parse(%v) = %v, want %v", tt.argv, cmd, tt.want)
		}
	}
}

func TestParse_LoginEmail(t *testing.T) {
	_, args := parseArgs(t, "login", "--email", "ada@example.com")
	if args.Email != "ada@example.com" {
		t.Errorf("Email = %q", args.Email)
	}

	_, args = parseArgs(t, "login", "--email=ada@example.com")
	if args.Email != "ada@example.com" {
		t.Errorf("Email = %q (equals form)", args.Email)
	}
}

func TestParse_SessionsDelete(t *testing.T) {
	cmd, args := parseArgs(t, "sessions", "delete", "12", "--yes")
	if cmd != CmdSessions {
		t.Fatalf("cmd = %v", cmd)
	}
	if args.Subcommand != "delete" || args.Query != "12" || !args.Yes {
		t.Errorf("args = %+v", args)
	}
}

func TestParse_GlobalFlags(t *testing.T) {
	_, args := parseArgs(t, "--quiet", "sessions")
	if !args.Quiet {
		t.Error("Quiet not set")
	}

	_, args = parseArgs(t, "-v", "--json", "sessions")
	if !args.Verbose || !args.JSON {
		t.Errorf("args = %+v", args)
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, ExitSuccess},
		{errors.New("boom"), ExitGeneralError},
		{NewUsageError("bad usage"), ExitUsageError},
		{api.ErrUnauthenticated, ExitAuthError},
		{api.ErrAuthFailed, ExitAuthError},
		{api.ErrNotFound, ExitNotFoundError},
		{api.ErrRateLimited, ExitNetworkError},
		{context.DeadlineExceeded, ExitTimeoutError},
	}
	for _, tt := range tests {
		if got := GetExitCode(tt.err); got != tt.want {
			t.Errorf("GetExitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

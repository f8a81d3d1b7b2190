// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command dispatch for quizbot.
package cli

import (
	"fmt"
	"os"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdLogin
	CmdRegister
	CmdLogout
	CmdWhoami
	CmdSessions
	CmdConfig
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool
	JSON    bool

	// Command-specific
	Query      string
	File       string
	Email      string
	Subcommand string
	Yes        bool

	// Raw args (remaining after flag parsing)
	Raw []string
}

const usageText = `quizbot - terminal client for the Quizbot chat backend

Quizbot answers questions with an AI tutor. Without an account you chat
as a guest; sign in and your conversations are saved on the server and
synced across devices.

Usage:
  quizbot                     Start the TUI (default)
  quizbot ask "question"      Ask a single question
  quizbot chat                Interactive chat in the terminal
  quizbot login               Sign in to an existing account
  quizbot register            Create an account
  quizbot logout              Sign out and forget the stored session
  quizbot whoami              Show the signed-in account
  quizbot sessions            List saved conversations
  quizbot config [show|path]  Configuration
  quizbot version             Show version
  quizbot help                Show this help

Ask options:
  -f, --file PATH      Attach a file to the question
  -q, --quiet          Print only the answer

Session commands:
  quizbot sessions             List saved conversations
  quizbot sessions delete ID   Delete a conversation
    --yes                      Skip the confirmation prompt

Login options:
  --email ADDRESS      Account email (prompted when omitted)

Global flags:
  -q, --quiet     Minimal output
  -v, --verbose   Debug output
  --json          Machine-readable output where supported

Examples:
  quizbot ask "What is a monad?"
  quizbot ask "Summarize this" --file notes.txt
  quizbot login --email ada@example.com
  quizbot sessions delete 12 --yes

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("quizbot version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
}

// Parse parses command-line arguments and returns the command and args.
func Parse() (Command, Args) {
	args := os.Args[1:]

	remaining, parsedArgs := parseGlobalFlags(args)

	if len(remaining) == 0 {
		return CmdTUI, parsedArgs
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsedArgs.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, parsedArgs

	case "ask":
		parseAskArgs(&parsedArgs, remaining)
		return CmdAsk, parsedArgs

	case "chat":
		return CmdChat, parsedArgs

	case "login", "signin":
		parseLoginArgs(&parsedArgs, remaining)
		return CmdLogin, parsedArgs

	case "register", "signup":
		parseLoginArgs(&parsedArgs, remaining)
		return CmdRegister, parsedArgs

	case "logout", "signout":
		return CmdLogout, parsedArgs

	case "whoami", "me":
		return CmdWhoami, parsedArgs

	case "session", "sessions":
		parseSessionsArgs(&parsedArgs, remaining)
		return CmdSessions, parsedArgs

	case "config":
		if len(remaining) > 0 {
			parsedArgs.Subcommand = remaining[0]
		}
		return CmdConfig, parsedArgs

	case "version", "-v", "--version":
		return CmdVersion, parsedArgs

	case "help", "-h", "--help":
		return CmdHelp, parsedArgs

	default:
		// Unknown word: treat the whole line as a question.
		parseAskArgs(&parsedArgs, append([]string{cmd}, remaining...))
		return CmdAsk, parsedArgs
	}
}

// parseGlobalFlags extracts global flags from args and returns remaining args.
func parseGlobalFlags(args []string) ([]string, Args) {
	var remaining []string
	var parsedArgs Args

	for _, arg := range args {
		switch arg {
		case "-q", "--quiet":
			parsedArgs.Quiet = true
		case "-v", "--verbose":
			parsedArgs.Verbose = true
		case "--json":
			parsedArgs.JSON = true
		default:
			remaining = append(remaining, arg)
		}
	}
	return remaining, parsedArgs
}

// parseAskArgs parses ask command specific arguments.
func parseAskArgs(args *Args, remaining []string) {
	var query []string

	for i := 0; i < len(remaining); i++ {
		arg := remaining[i]
		switch {
		case arg == "-f" || arg == "--file":
			if i+1 < len(remaining) {
				i++
				args.File = remaining[i]
			}
		case strings.HasPrefix(arg, "--file="):
			args.File = strings.TrimPrefix(arg, "--file=")
		case !strings.HasPrefix(arg, "-"):
			query = append(query, arg)
		}
	}
	args.Query = strings.Join(query, " ")
}

// parseLoginArgs parses login/register specific arguments.
func parseLoginArgs(args *Args, remaining []string) {
	for i := 0; i < len(remaining); i++ {
		arg := remaining[i]
		switch {
		case arg == "--email" || arg == "-e":
			if i+1 < len(remaining) {
				i++
				args.Email = remaining[i]
			}
		case strings.HasPrefix(arg, "--email="):
			args.Email = strings.TrimPrefix(arg, "--email=")
		}
	}
}

// parseSessionsArgs parses session command specific arguments.
func parseSessionsArgs(args *Args, remaining []string) {
	var positional []string
	for _, arg := range remaining {
		switch arg {
		case "--yes", "-y":
			args.Yes = true
		default:
			if !strings.HasPrefix(arg, "-") {
				positional = append(positional, arg)
			}
		}
	}
	if len(positional) > 0 {
		args.Subcommand = positional[0]
	}
	if len(positional) > 1 {
		args.Query = positional[1]
	}
}

// HandleVersion handles the "version" command.
func HandleVersion() {
	PrintVersion()
}

// HandleHelp handles the "help" command.
func HandleHelp() {
	PrintUsage()
}

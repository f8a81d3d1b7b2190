// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - one-shot question command.
package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// HandleAsk sends a single question and prints the reply. Signed-in users
// get a saved conversation out of it; guests get a stateless answer.
func (a *App) HandleAsk(args Args) error {
	question := strings.TrimSpace(args.Query)
	if question == "" {
		return NewUsageError("usage: quizbot ask \"question\" [--file PATH]")
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.Config.Timeout())
	defer cancel()

	var submitted bool
	if args.File != "" {
		submitted = a.Engine.SubmitWithFile(ctx, question, args.File)
	} else {
		submitted = a.Engine.Submit(ctx, question)
	}
	if !submitted {
		return errors.New("nothing to send")
	}

	msgs := a.Engine.Messages()
	last := msgs[len(msgs)-1]
	if last.IsError {
		return errors.New(last.Content)
	}

	displayResponse(last.Content)

	if !args.Quiet {
		if id := a.Engine.ActiveID(); id != "" {
			fmt.Println(infoStyle.Render(fmt.Sprintf("Saved as conversation %s.", id)))
		}
	}
	return nil
}

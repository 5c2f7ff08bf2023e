// Package main is the entry point for the zonebak CLI.
package main

import (
	"fmt"
	"os"

	"github.com/thoreinstein/zonebak/cmd/zonebak/commands"
	"github.com/thoreinstein/zonebak/internal/errors"
)

func main() {
	err := commands.Execute()
	if err == nil {
		return
	}

	fmt.Fprintf(os.Stderr, "zonebak: %v\n", err)

	var exitErr *errors.ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Suggestion != "" {
			fmt.Fprintf(os.Stderr, "  %s\n", exitErr.Suggestion)
		}
		os.Exit(exitErr.Code)
	}
	os.Exit(errors.ExitSystem)
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package cli implements the shelf operator command line.

It drives the same library service as the HTTP API, so feeds printed here
match what readers see.

Commands:

  - shelf migrate up | down --steps N
  - shelf feed <slug> [--view now-reading|library]
  - shelf next <slug> <seriesID>
  - shelf read <slug> <seriesID> <chapterID>
  - shelf version
*/
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/taibuivan/mangashelf/internal/core/bookmark"
	"github.com/taibuivan/mangashelf/internal/core/feed"
	"github.com/taibuivan/mangashelf/internal/core/series"
	"github.com/taibuivan/mangashelf/internal/platform/constants"
)

// Library is the subset of the library service the CLI drives.
type Library interface {
	Feed(ctx context.Context, slug, view string) ([]feed.Item, error)
	NextChapter(ctx context.Context, slug, seriesID string) (*series.Chapter, error)
	MarkAsRead(ctx context.Context, slug, seriesID, chapterID string) (bookmark.Bookmark, error)
}

// Dependencies are opened lazily so that `version` and `--help` work without
// a database.
type Dependencies struct {
	// OpenLibrary connects to storage and the content source. The returned
	// function releases them.
	OpenLibrary func(ctx context.Context) (Library, func(), error)

	// Migrate applies migrations. direction is "up" or "down".
	Migrate func(direction string, steps int) error
}

// NewRootCommand builds the shelf command tree.
func NewRootCommand(deps Dependencies) *cobra.Command {
	root := &cobra.Command{
		Use:           "shelf",
		Short:         "Operate a mangashelf deployment",
		Long:          "Run migrations and inspect collections using the same logic as the API server.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newMigrateCommand(deps),
		newFeedCommand(deps),
		newNextCommand(deps),
		newReadCommand(deps),
		newVersionCommand(),
	)
	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", constants.AppName, constants.AppVersion)
		},
	}
}

// withLibrary opens the library for the duration of run.
func withLibrary(cmd *cobra.Command, deps Dependencies, run func(ctx context.Context, library Library, out io.Writer) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	library, release, err := deps.OpenLibrary(ctx)
	if err != nil {
		return fmt.Errorf("open library: %w", err)
	}
	defer release()

	return run(ctx, library, cmd.OutOrStdout())
}

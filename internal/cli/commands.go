// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/taibuivan/mangashelf/internal/core/feed"
	"github.com/taibuivan/mangashelf/internal/core/reading"
	"github.com/taibuivan/mangashelf/internal/platform/validate"
	"github.com/taibuivan/mangashelf/pkg/pointer"
	"github.com/taibuivan/mangashelf/pkg/slice"
)

// # Migrations

func newMigrateCommand(deps Dependencies) *cobra.Command {
	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return deps.Migrate("up", 0)
		},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return deps.Migrate("down", steps)
		},
	}
	down.Flags().IntVarP(&steps, "steps", "n", 1, "number of migrations to roll back")

	migrate.AddCommand(up, down)
	return migrate
}

// # Feed

func newFeedCommand(deps Dependencies) *cobra.Command {
	var view string

	command := &cobra.Command{
		Use:   "feed <slug>",
		Short: "Print a collection feed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := new(validate.Validator).
				OneOf("view", view, feed.ViewNowReading, feed.ViewLibrary).
				Err(); err != nil {
				return err
			}

			return withLibrary(cmd, deps, func(ctx context.Context, library Library, out io.Writer) error {
				items, err := library.Feed(ctx, args[0], view)
				if err != nil {
					return err
				}
				return printFeed(out, items)
			})
		},
	}
	command.Flags().StringVar(&view, "view", feed.ViewNowReading, "feed view: now-reading or library")

	return command
}

// printFeed renders one line per item: marker, title, unread count, next chapter.
func printFeed(out io.Writer, items []feed.Item) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(out, "nothing to read")
		return err
	}

	table := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, row := range slice.Map(items, feedRow) {
		fmt.Fprintln(table, row)
	}
	return table.Flush()
}

// feedRow renders one tab-separated line: new-release marker, title, unread
// count and the chapter to continue with.
func feedRow(item feed.Item) string {
	marker := " "
	if item.IsNewRelease {
		marker = "*"
	}

	next := "-"
	if item.Next != nil {
		next = item.Next.Label()
	}

	return fmt.Sprintf("%s\t%s\t%d unread\t%s", marker, item.Series.Title, item.UnreadCount, next)
}

// # Read State

func newNextCommand(deps Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "next <slug> <seriesID>",
		Short: "Print the chapter to continue with",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLibrary(cmd, deps, func(ctx context.Context, library Library, out io.Writer) error {
				chapter, err := library.NextChapter(ctx, args[0], args[1])
				if errors.Is(err, reading.ErrEmptySeries) {
					_, err = fmt.Fprintln(out, "no chapters published yet")
					return err
				}
				if err != nil {
					return err
				}

				_, err = fmt.Fprintf(out, "%s\t%s\n", chapter.Label(), chapter.URL)
				return err
			})
		},
	}
}

func newReadCommand(deps Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "read <slug> <seriesID> <chapterID>",
		Short: "Mark a chapter as the last one read",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLibrary(cmd, deps, func(ctx context.Context, library Library, out io.Writer) error {
				updated, err := library.MarkAsRead(ctx, args[0], args[1], args[2])
				if err != nil {
					return err
				}

				_, err = fmt.Fprintf(out, "%s read up to %s\n", updated.ID, pointer.Fallback(updated.LastReadChapterID, "-"))
				return err
			})
		},
	}
}

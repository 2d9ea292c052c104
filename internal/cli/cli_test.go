// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/mangashelf/internal/core/bookmark"
	"github.com/taibuivan/mangashelf/internal/core/feed"
	"github.com/taibuivan/mangashelf/internal/core/reading"
	"github.com/taibuivan/mangashelf/internal/core/series"
	"github.com/taibuivan/mangashelf/pkg/pointer"
)

// stubLibrary records calls and returns canned answers.
type stubLibrary struct {
	items    []feed.Item
	next     *series.Chapter
	nextErr  error
	lastView string
	released bool
}

func (library *stubLibrary) Feed(_ context.Context, _ string, view string) ([]feed.Item, error) {
	library.lastView = view
	return library.items, nil
}

func (library *stubLibrary) NextChapter(context.Context, string, string) (*series.Chapter, error) {
	return library.next, library.nextErr
}

func (library *stubLibrary) MarkAsRead(_ context.Context, _, seriesID, chapterID string) (bookmark.Bookmark, error) {
	return bookmark.Bookmark{ID: seriesID}.MarkRead(chapterID, time.Now()), nil
}

func run(t *testing.T, library *stubLibrary, migrations *[]string, args ...string) (string, error) {
	t.Helper()

	root := NewRootCommand(Dependencies{
		OpenLibrary: func(context.Context) (Library, func(), error) {
			return library, func() { library.released = true }, nil
		},
		Migrate: func(direction string, steps int) error {
			if migrations != nil {
				*migrations = append(*migrations, direction)
			}
			if steps < 0 {
				return errors.New("negative")
			}
			return nil
		},
	})

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestFeedCommand(t *testing.T) {
	library := &stubLibrary{items: []feed.Item{
		{
			Series:       &series.Series{ID: "md:aria", Title: "Aria"},
			IsNewRelease: true,
			UnreadCount:  2,
			Next:         &series.Chapter{ID: "md:aria:b", ChapterNumber: pointer.To("2")},
		},
		{
			Series:      &series.Series{ID: "md:berserk", Title: "Berserk"},
			UnreadCount: 1,
			Next:        &series.Chapter{ID: "md:berserk:c", Title: pointer.To("Eclipse")},
		},
	}}

	out, err := run(t, library, nil, "feed", "shelf", "--view", "library")
	require.NoError(t, err)

	assert.Equal(t, feed.ViewLibrary, library.lastView)
	assert.True(t, library.released)
	assert.Contains(t, out, "*  Aria")
	assert.Contains(t, out, "Ch. 2")
	assert.Contains(t, out, "Eclipse")
}

func TestFeedCommand_OneRowPerItem(t *testing.T) {
	library := &stubLibrary{items: []feed.Item{
		{Series: &series.Series{ID: "md:aria", Title: "Aria"}, UnreadCount: 3, Next: &series.Chapter{ID: "md:aria:b", ChapterNumber: pointer.To("2")}},
		{Series: &series.Series{ID: "md:berserk", Title: "Berserk"}, IsCaughtUp: true},
	}}

	out, err := run(t, library, nil, "feed", "shelf")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Aria")
	assert.Contains(t, lines[0], "3 unread")
	assert.Contains(t, lines[1], "Berserk")
	assert.Contains(t, lines[1], "0 unread")
	assert.True(t, strings.HasSuffix(lines[1], "-"))
}

func TestFeedCommand_RejectsUnknownView(t *testing.T) {
	library := &stubLibrary{}
	_, err := run(t, library, nil, "feed", "shelf", "--view", "popular")
	require.Error(t, err)
	assert.False(t, library.released)
}

func TestFeedCommand_Empty(t *testing.T) {
	out, err := run(t, &stubLibrary{}, nil, "feed", "shelf")
	require.NoError(t, err)
	assert.Contains(t, out, "nothing to read")
}

func TestNextCommand(t *testing.T) {
	out, err := run(t, &stubLibrary{next: &series.Chapter{ID: "md:aria:b", VolumeNumber: pointer.To("1"), ChapterNumber: pointer.To("2"), URL: "https://example.com/ch2"}}, nil,
		"next", "shelf", "md:aria")
	require.NoError(t, err)
	assert.Equal(t, "Vol. 1 Ch. 2\thttps://example.com/ch2\n", out)

	out, err = run(t, &stubLibrary{nextErr: reading.ErrEmptySeries}, nil, "next", "shelf", "md:empty")
	require.NoError(t, err)
	assert.Contains(t, out, "no chapters published yet")
}

func TestReadCommand(t *testing.T) {
	out, err := run(t, &stubLibrary{}, nil, "read", "shelf", "md:aria", "md:aria:b")
	require.NoError(t, err)
	assert.Equal(t, "md:aria read up to md:aria:b\n", out)
}

func TestMigrateCommand(t *testing.T) {
	var migrations []string

	_, err := run(t, &stubLibrary{}, &migrations, "migrate", "up")
	require.NoError(t, err)

	_, err = run(t, &stubLibrary{}, &migrations, "migrate", "down", "--steps", "2")
	require.NoError(t, err)

	assert.Equal(t, []string{"up", "down"}, migrations)
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, &stubLibrary{}, nil, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "mangashelf-api")
}

func TestArgumentValidation(t *testing.T) {
	_, err := run(t, &stubLibrary{}, nil, "next", "shelf")
	assert.Error(t, err)
}

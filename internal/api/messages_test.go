package telegram

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"kino-bot/internal/domain/entity"
)

func TestChunkLines(t *testing.T) {
	lines := []string{"aaaa", "bbbb", "cccc"}

	require.Equal(t, []string{"aaaa\nbbbb\ncccc"}, chunkLines(lines, 100))
	require.Equal(t, []string{"aaaa\nbbbb", "cccc"}, chunkLines(lines, 9))
	require.Equal(t, []string{"aaaa", "bbbb", "cccc"}, chunkLines(lines, 4))
	require.Empty(t, chunkLines(nil, 10))
}

func TestListLines(t *testing.T) {
	lines := listLines([]entity.Film{
		{Code: "123", Title: "A", MediaRef: entity.MediaRef{FileID: "f"}},
		{Code: "456", Title: "B"},
	})
	require.Equal(t, []string{"123 — A", "456 — B ⏳"}, lines)
}

func TestKeyboards(t *testing.T) {
	kb := searchKeyboard(false)
	require.Len(t, kb.InlineKeyboard, 1)
	require.Equal(t, cbSearchCode, *kb.InlineKeyboard[0][0].CallbackData)

	kb = searchKeyboard(true)
	require.Len(t, kb.InlineKeyboard, 2)

	kb = subscriptionKeyboard([]entity.Channel{{Name: "@kino", Link: "https://t.me/kino"}, {Name: "-100"}})
	require.Len(t, kb.InlineKeyboard, 2)
	require.Equal(t, "https://t.me/kino", *kb.InlineKeyboard[0][0].URL)
	require.Equal(t, cbCheckSubscription, *kb.InlineKeyboard[1][0].CallbackData)

	kb = candidatesKeyboard([]entity.Candidate{{ID: "1", Title: "Дюна", Year: "2021"}, {ID: "2", Title: "Дюна"}})
	require.Equal(t, "Дюна (2021)", kb.InlineKeyboard[0][0].Text)
	require.True(t, strings.HasPrefix(*kb.InlineKeyboard[1][0].CallbackData, cbPickPrefix))
	require.Equal(t, "pick:1", *kb.InlineKeyboard[1][0].CallbackData)
}

package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewSession_DefaultState(t *testing.T) {
	s := NewSession(1, 10)
	require.Equal(t, StateIdle, s.State)
	require.Equal(t, int64(1), s.UserID)
	require.Equal(t, int64(10), s.ChatID)
	require.Nil(t, s.Pending)
}

func TestSession_LastAdminCommandWins(t *testing.T) {
	s := NewSession(1, 1)
	s.AwaitAdminMedia("123", "Inception")
	s.AwaitMediaReplacement("456")

	require.Equal(t, StateAwaitingAdminMediaReplacement, s.State)
	require.Equal(t, &PendingAdminOperation{Kind: AdminEditMedia, Code: "456"}, s.Pending)
	require.True(t, s.AwaitsAdminMedia())
}

func TestSession_TransitionsClearStaleData(t *testing.T) {
	s := NewSession(1, 1)
	s.AwaitCandidateChoice([]Candidate{{ID: "1", Title: "Matrix"}})
	require.True(t, s.InResolveFlow())

	s.AwaitCode()
	require.Equal(t, StateAwaitingCode, s.State)
	require.Nil(t, s.Resolve)
	require.Nil(t, s.Pending)
	require.False(t, s.InResolveFlow())

	s.Reset()
	require.Equal(t, StateIdle, s.State)
}

func TestSession_CloneIsIndependent(t *testing.T) {
	s := NewSession(1, 1)
	s.AwaitTrackChoice(Candidate{ID: "7", Title: "Matrix"}, []Track{{Name: "Дубляж", Qualities: []Quality{{Name: "720p", URL: "u"}}}})

	c := s.Clone()
	c.Resolve.Tracks[0].Qualities[0].URL = "changed"
	c.Resolve.Candidate.Title = "changed"

	require.Equal(t, "u", s.Resolve.Tracks[0].Qualities[0].URL)
	require.Equal(t, "Matrix", s.Resolve.Candidate.Title)
}

package mirror

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"kino-bot/internal/domain/entity"
)

type recordingMirror struct {
	calls int
	err   error
}

func (r *recordingMirror) Mirror(ctx context.Context, catalog entity.Catalog) error {
	r.calls++
	return r.err
}

func TestMulti_RunsAllMirrors(t *testing.T) {
	failing := &recordingMirror{err: errors.New("boom")}
	ok := &recordingMirror{}

	err := Multi{failing, ok}.Mirror(context.Background(), entity.Catalog{})

	require.Error(t, err)
	require.Equal(t, 1, failing.calls)
	require.Equal(t, 1, ok.calls)
}

func TestMulti_Empty(t *testing.T) {
	require.NoError(t, Multi{}.Mirror(context.Background(), entity.Catalog{}))
}

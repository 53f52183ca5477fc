package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hugohenrick/gestao-obras/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMarker struct {
	refs []time.Time
	err  error
}

func (f *fakeMarker) MarkOverdue(_ context.Context, ref time.Time) (int64, error) {
	f.refs = append(f.refs, ref)
	return 2, f.err
}

func TestOverdueJob_RunUsesLocalDate(t *testing.T) {
	marker := &fakeMarker{}
	job, err := NewOverdueJob(marker, "0 6 * * *", "America/Sao_Paulo", logger.NewNop())
	require.NoError(t, err)

	// 01:30 UTC de 11/03 ainda é 10/03 em São Paulo
	job.now = func() time.Time { return time.Date(2024, 3, 11, 1, 30, 0, 0, time.UTC) }
	job.Run(context.Background())

	require.Len(t, marker.refs, 1)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), marker.refs[0])
}

func TestOverdueJob_RunSurvivesErrors(t *testing.T) {
	marker := &fakeMarker{err: errors.New("banco indisponível")}
	job, err := NewOverdueJob(marker, "@daily", "", logger.NewNop())
	require.NoError(t, err)

	assert.NotPanics(t, func() { job.Run(context.Background()) })
	assert.Len(t, marker.refs, 1)
}

func TestNewOverdueJob_InvalidInput(t *testing.T) {
	_, err := NewOverdueJob(&fakeMarker{}, "todo dia", "", logger.NewNop())
	assert.Error(t, err)

	_, err = NewOverdueJob(&fakeMarker{}, "0 6 * * *", "Marte/Olympus", logger.NewNop())
	assert.Error(t, err)
}

func TestOverdueJob_StartStop(t *testing.T) {
	job, err := NewOverdueJob(&fakeMarker{}, "0 6 * * *", "", logger.NewNop())
	require.NoError(t, err)

	job.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	job.Stop(ctx)
}

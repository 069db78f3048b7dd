package job

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingJob struct {
	runs atomic.Int32
}

func (j *countingJob) Name() string { return "counting" }

func (j *countingJob) Run(ctx context.Context) { j.runs.Add(1) }

type panickingJob struct {
	runs atomic.Int32
}

func (j *panickingJob) Name() string { return "panicking" }

func (j *panickingJob) Run(ctx context.Context) {
	j.runs.Add(1)
	panic("job exploded")
}

func TestScheduler_AddRejectsInvalidSpec(t *testing.T) {
	s := NewScheduler(zap.NewNop())

	err := s.Add("every now and then", &countingJob{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "counting")
}

func TestScheduler_RunsJobsAndSurvivesPanics(t *testing.T) {
	s := NewScheduler(zap.NewNop())
	counting := &countingJob{}
	panicking := &panickingJob{}
	require.NoError(t, s.Add("@every 1s", counting))
	require.NoError(t, s.Add("@every 1s", panicking))

	s.Start()

	assert.Eventually(t, func() bool { return counting.runs.Load() >= 2 }, 5*time.Second, 50*time.Millisecond)
	assert.GreaterOrEqual(t, panicking.runs.Load(), int32(1))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
}

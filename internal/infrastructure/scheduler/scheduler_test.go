package scheduler_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jhoicas/kinetic/internal/infrastructure/scheduler"
	"github.com/jhoicas/kinetic/pkg/logger"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeDrainer struct {
	calls atomic.Int32
	limit atomic.Int32
}

func (f *fakeDrainer) DrainQueued(_ context.Context, limit int) (int, error) {
	f.calls.Add(1)
	f.limit.Store(int32(limit))
	return 2, nil
}

type fakeSweeper struct {
	calls atomic.Int32
	err   error
}

func (f *fakeSweeper) CloseStaleTimers(context.Context) (int, error) {
	f.calls.Add(1)
	return 0, f.err
}

func TestNew_RegistersEnabledJobs(t *testing.T) {
	s, err := scheduler.New(scheduler.Config{
		EmailDrainInterval: time.Minute,
		TimerSweepInterval: 0,
	}, &fakeDrainer{}, &fakeSweeper{}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"email-drain"}, s.Jobs())
	require.NoError(t, s.Shutdown())
}

func TestRunOnce(t *testing.T) {
	d := &fakeDrainer{}
	sw := &fakeSweeper{err: errors.New("boom")}
	s, err := scheduler.New(scheduler.Config{}, d, sw, nil)
	require.NoError(t, err)
	defer func() { require.NoError(t, s.Shutdown()) }()

	n, err := s.DrainEmails(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.EqualValues(t, 50, d.limit.Load(), "lote por defecto")

	_, err = s.SweepTimers(context.Background())
	assert.EqualError(t, err, "boom")
}

func TestRunOnce_NotConfigured(t *testing.T) {
	s, err := scheduler.New(scheduler.Config{}, nil, nil, nil)
	require.NoError(t, err)
	defer func() { require.NoError(t, s.Shutdown()) }()

	_, err = s.DrainEmails(context.Background())
	assert.Error(t, err)
	_, err = s.SweepTimers(context.Background())
	assert.Error(t, err)
}

func TestStart_RunsJobsPeriodically(t *testing.T) {
	d := &fakeDrainer{}
	sw := &fakeSweeper{}
	s, err := scheduler.New(scheduler.Config{
		EmailDrainInterval: 20 * time.Millisecond,
		EmailDrainBatch:    5,
		TimerSweepInterval: 20 * time.Millisecond,
	}, d, sw, nil)
	require.NoError(t, err)

	s.Start()
	assert.Eventually(t, func() bool {
		return d.calls.Load() >= 2 && sw.calls.Load() >= 2
	}, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, s.Shutdown())
	assert.EqualValues(t, 5, d.limit.Load())
}

func TestStart_LogsComponentOnce(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "info", Out: &buf})
	s, err := scheduler.New(scheduler.Config{}, nil, nil, log)
	require.NoError(t, err)

	s.Start()
	require.NoError(t, s.Shutdown())

	line := buf.String()
	assert.Contains(t, line, `"component":"scheduler"`)
	assert.Equal(t, 1, strings.Count(line, `"component"`))
}

package progress_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/orometrisi/internal/progress"
)

func TestQueueDeliversInOrder(t *testing.T) {
	q := progress.NewQueue(16, slog.LevelInfo)

	go func() {
		q.Progress(progress.StageParse, 10)
		q.Log(slog.LevelDebug, "dropped below min level")
		q.Log(slog.LevelWarn, "employee not found", "employee", "123456789")
		q.Progress(progress.StageReport, 140)
		q.Close()
	}()

	var got []progress.Event
	for e := range q.Events() {
		got = append(got, e)
	}

	require.Len(t, got, 3)
	assert.Equal(t, progress.EventProgress, got[0].Kind)
	assert.Equal(t, progress.StageParse, got[0].Stage)
	assert.Equal(t, 10, got[0].Percent)

	assert.Equal(t, progress.EventLog, got[1].Kind)
	assert.Equal(t, slog.LevelWarn, got[1].Level)
	assert.Equal(t, "employee not found", got[1].Msg)
	assert.Equal(t, []any{"employee", "123456789"}, got[1].Args)

	assert.Equal(t, 100, got[2].Percent)
}

func TestQueueCloseTwiceAndPostAfterClose(t *testing.T) {
	q := progress.NewQueue(1, slog.LevelDebug)
	q.Close()
	q.Close()
	q.Log(slog.LevelError, "ignored")
	q.Progress(progress.StageSave, 100)

	_, open := <-q.Events()
	assert.False(t, open)
}

func TestLoggerSink(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s := progress.NewLogger(l)

	s.Log(slog.LevelWarn, "conflict", "cell", "H2")
	s.Progress(progress.StageSave, 95)

	out := buf.String()
	assert.Contains(t, out, "level=WARN msg=conflict cell=H2")
	assert.Contains(t, out, "stage=save percent=95")
}

func TestNopSink(t *testing.T) {
	var s progress.Sink = progress.Nop{}
	s.Log(slog.LevelError, "nothing happens")
	s.Progress(progress.StageParse, 50)
}

func TestScaled(t *testing.T) {
	q := progress.NewQueue(8, slog.LevelDebug)
	s := progress.Scaled{Sink: q, Lo: 40, Hi: 80}

	s.Progress(progress.StageParse, 0)
	s.Progress(progress.StageParse, 50)
	s.Progress(progress.StageParse, 100)
	s.Log(slog.LevelInfo, "passes through")
	q.Close()

	var percents []int
	var msgs []string
	for e := range q.Events() {
		switch e.Kind {
		case progress.EventProgress:
			percents = append(percents, e.Percent)
		case progress.EventLog:
			msgs = append(msgs, e.Msg)
		}
	}
	assert.Equal(t, []int{40, 60, 80}, percents)
	assert.Equal(t, []string{"passes through"}, msgs)
}

func TestOrNop(t *testing.T) {
	assert.Equal(t, progress.Nop{}, progress.OrNop(nil))
	q := progress.NewQueue(1, slog.LevelInfo)
	assert.Same(t, q, progress.OrNop(q))
}

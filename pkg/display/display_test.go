package display

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stationboard/pkg/logging"
)

type recordingSleep struct {
	calls []time.Duration
}

func (r *recordingSleep) sleep(ctx context.Context, d time.Duration) error {
	r.calls = append(r.calls, d)
	return ctx.Err()
}

func (r *recordingSleep) total() time.Duration {
	var sum time.Duration
	for _, d := range r.calls {
		sum += d
	}
	return sum
}

func TestScroller_ShortTextDoesNotScroll(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, 17)
	sleeper := &recordingSleep{}

	s := NewScroller(term, 17, 0.4, logging.Discard()).WithSleep(sleeper.sleep)
	require.NoError(t, s.Show(context.Background(), "T8 5 12+2"))

	assert.Equal(t, []time.Duration{DefaultTiming.Hold, DefaultTiming.Tail}, sleeper.calls)
	assert.Equal(t, "T8 5 12+2", term.Visible())
	assert.Equal(t, 1, strings.Count(buf.String(), "\r"))
}

func TestScroller_LongTextScrollsToTheEnd(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, 5)
	sleeper := &recordingSleep{}

	s := NewScroller(term, 5, 0.4, logging.Discard()).WithSleep(sleeper.sleep)
	require.NoError(t, s.Show(context.Background(), "no connection"))

	// 13 columns on a 5 column display: 8 scroll steps
	assert.Len(t, sleeper.calls, 2+8)
	assert.Equal(t, DefaultTiming.Hold+8*DefaultTiming.Step+DefaultTiming.Tail, sleeper.total())
	assert.Equal(t, "ction", term.Visible())
	assert.Equal(t, 9, strings.Count(buf.String(), "\r"))
}

func TestScroller_StopsOnCancel(t *testing.T) {
	term := NewTerminal(&bytes.Buffer{}, 3)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewScroller(term, 3, 0.4, logging.Discard()).WithSleep(Sleep)
	err := s.Show(ctx, "a long text")
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestTerminal_Frame(t *testing.T) {
	term := NewTerminal(&bytes.Buffer{}, 4)

	n := term.WriteString("Zürich", 1)
	assert.Equal(t, 6, n)
	assert.Contains(t, term.Frame(), "Züri")

	term.Scroll()
	term.Scroll()
	assert.Equal(t, "rich", term.Visible())

	term.Clear()
	assert.Equal(t, "", term.Visible())
	term.Scroll()
	assert.Equal(t, "", term.Visible())
}

func TestLedColor(t *testing.T) {
	assert.Equal(t, ledRamp[0], ledColor(0))
	assert.Equal(t, ledRamp[len(ledRamp)-1], ledColor(1))
	assert.Equal(t, ledRamp[len(ledRamp)-1], ledColor(7))
	assert.Equal(t, ledRamp[0], ledColor(-1))
}

func TestPlain(t *testing.T) {
	var buf bytes.Buffer
	s := NewScroller(NewPlain(&buf), 17, 0.4, logging.Discard()).WithSleep((&recordingSleep{}).sleep)

	require.NoError(t, s.Show(context.Background(), "T8 5 12+2"))
	require.NoError(t, s.Show(context.Background(), "B72 3 this is long enough to scroll"))
	require.NoError(t, s.Clear())

	assert.Equal(t, "T8 5 12+2\nB72 3 this is long enough to scroll\n", buf.String())
}

func TestSleep(t *testing.T) {
	assert.NoError(t, Sleep(context.Background(), time.Millisecond))
	assert.NoError(t, Sleep(context.Background(), 0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Sleep(ctx, time.Hour), context.Canceled)
}

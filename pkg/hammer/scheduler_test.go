package hammer

import (
	"fmt"
	"io"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chainprinter-go/pkg/driver"
	"chainprinter-go/pkg/errors"
	"chainprinter-go/pkg/line"
	"chainprinter-go/pkg/log"
)

func quietLogger() *log.Logger {
	logger := log.New("hammer-test")
	logger.SetWriter(io.Discard)
	return logger
}

func schedule(t *testing.T, s string, opts Options) (Result, driver.Trace, error) {
	t.Helper()
	if opts.Logger == nil {
		opts.Logger = quietLogger()
	}
	rec := driver.NewRecorder()
	res, err := New(rec, opts).Schedule(line.MustParse(s))
	return res, rec.Trace(), err
}

func TestScheduleExamples(t *testing.T) {
	tests := []struct {
		line       string
		fired      []int
		sweepSteps int
		retrySteps int
		slips      int
	}{
		{"11011", []int{0, 3, 1, 2, 4}, 1, 4, 0},
		{"01010", []int{0, 4, 3, 1, 2}, 1, 8, 1},
		{"00000", []int{0, 3, 1, 4, 2}, 1, 6, 0},
		{"10110100", []int{0, 4, 1, 5, 2, 6, 3, 7}, 4, 1, 0},
		{"0110100111", []int{0, 4, 1, 5, 8, 3, 7, 9, 2, 6}, 6, 8, 1},
		{"000000000", []int{0, 5, 2, 7, 4, 6, 8, 3, 1}, 5, 8, 0},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			res, trace, err := schedule(t, tt.line, Options{})
			require.NoError(t, err)

			assert.Equal(t, tt.fired, res.Fired)
			assert.Equal(t, tt.fired, trace.Fired())
			assert.Equal(t, tt.sweepSteps, res.SweepSteps)
			assert.Equal(t, tt.retrySteps, res.RetrySteps)
			assert.Equal(t, tt.slips, res.Slips)
			assert.Equal(t, res.Steps(), trace.Count(driver.OpStep))
			assert.True(t, res.Complete)
			assert.Equal(t, 1, trace.Count(driver.OpLinefeed))
			assert.NoError(t, trace.Validate(len(tt.line)))
		})
	}
}

func TestScheduleGoldenTraces(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	for _, s := range []string{"11011", "01010", "00000", "10110100", "0110100111", "000000000", "111111111111"} {
		t.Run(s, func(t *testing.T) {
			_, trace, err := schedule(t, s, Options{})
			require.NoError(t, err)
			g.Assert(t, "line_"+s, []byte(trace.String()))
		})
	}
}

// Every binary line of a supported width fires each column exactly once
// and ends with a single linefeed.
func TestScheduleAllLines(t *testing.T) {
	for width := MinWidth; width <= 12; width++ {
		t.Run(fmt.Sprintf("width_%d", width), func(t *testing.T) {
			for n := 0; n < 1<<width; n++ {
				bits := make([]byte, width)
				for i := range bits {
					bits[i] = byte(n>>(width-1-i)) & 1
				}
				l, err := line.FromBits(bits)
				require.NoError(t, err)

				rec := driver.NewRecorder()
				res, err := New(rec, Options{Logger: quietLogger()}).Schedule(l)
				require.NoError(t, err, "line %s", l)

				trace := rec.Trace()
				require.NoError(t, trace.Validate(width), "line %s", l)
				require.Len(t, trace.Fired(), width, "line %s", l)
				require.Equal(t, 1, trace.Count(driver.OpLinefeed), "line %s", l)
				require.True(t, res.Complete)
				require.LessOrEqual(t, res.RetrySteps, width*(width+1))
			}
		})
	}
}

func TestScheduleDeterministic(t *testing.T) {
	_, first, err := schedule(t, "0110100111", Options{})
	require.NoError(t, err)
	_, second, err := schedule(t, "0110100111", Options{})
	require.NoError(t, err)
	assert.Equal(t, first.Events, second.Events)
}

func TestSchedulerReusable(t *testing.T) {
	rec := driver.NewRecorder()
	s := New(rec, Options{Logger: quietLogger()})

	_, err := s.Schedule(line.MustParse("01010"))
	require.NoError(t, err)
	firstRun := rec.Trace()

	rec.Reset()
	_, err = s.Schedule(line.MustParse("01010"))
	require.NoError(t, err)
	assert.Equal(t, firstRun.Events, rec.Trace().Events)
}

func TestScheduleRejectsShortLines(t *testing.T) {
	for _, s := range []string{"0", "01", "1101"} {
		rec := driver.NewRecorder()
		_, err := New(rec, Options{Logger: quietLogger()}).Schedule(line.MustParse(s))
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrUnsupportedLength), "line %s", s)
		assert.Empty(t, rec.Events(), "no driver call expected for %s", s)
	}
}

func TestScheduleZeroLine(t *testing.T) {
	rec := driver.NewRecorder()
	_, err := New(rec, Options{Logger: quietLogger()}).Schedule(line.Line{})
	assert.True(t, errors.Is(err, errors.ErrUnsupportedLength))
	assert.Empty(t, rec.Events())
}

func TestScheduleStalls(t *testing.T) {
	res, trace, err := schedule(t, "01010", Options{RetryLimit: 1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrSchedulingStalled))

	var hostErr *errors.HostError
	require.ErrorAs(t, err, &hostErr)
	assert.Equal(t, 4, hostErr.Context["pending"])

	assert.False(t, res.Complete)
	assert.Equal(t, []int{0}, res.Fired)
	assert.Equal(t, 0, trace.Count(driver.OpLinefeed))
	assert.Equal(t, []driver.Event{driver.Fire(0), driver.Step(), driver.Step()}, trace.Events)
	assert.NoError(t, trace.Validate(5))
}

func TestAlternatingLineFiresInColumnOrder(t *testing.T) {
	// Every primary hammer matches during the sweep, every paired one
	// misses and is picked up in order by the retry loop.
	res, _, err := schedule(t, "010101010101", Options{})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}, res.Fired)
	assert.Equal(t, 8, res.SweepSteps)
	assert.Equal(t, 4, res.RetrySteps)
}

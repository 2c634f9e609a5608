package solenoid

import (
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

func newSimulator(drv driver.Driver) *Simulator {
	logger := log.New("solenoid-test")
	logger.SetWriter(io.Discard)
	return New(drv, Options{Logger: logger})
}

func TestScheduleExample(t *testing.T) {
	rec := driver.NewRecorder()
	res, err := newSimulator(rec).Schedule(line.MustParse("10110100"))
	require.NoError(t, err)

	assert.Equal(t, "10110100", res.Line.String())
	assert.Equal(t, []int{0, 3, 7, 1, 4, 2, 5, 6}, res.Fired)
	assert.Equal(t, []int{4, 5, 6, 4, 5, 6, 7, 4}, res.FiredAt)
	assert.Equal(t, 7, res.Steps)

	trace := rec.Trace()
	assert.Equal(t, 1, trace.Count(driver.OpLinefeed))
	assert.Equal(t, 7, trace.Count(driver.OpStep))
	assert.NoError(t, trace.Validate(UnitCount))
}

func TestScheduleGoldenTraces(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	for _, s := range []string{"10110100", "00000000", "11111111", "01010101", "11011011"} {
		t.Run(s, func(t *testing.T) {
			rec := driver.NewRecorder()
			_, err := newSimulator(rec).Schedule(line.MustParse(s))
			require.NoError(t, err)
			g.Assert(t, "line_"+s, []byte(rec.Trace().String()))
		})
	}
}

// Every 8-column line round-trips and fires each column once.
func TestScheduleRoundTripAllLines(t *testing.T) {
	for n := 0; n < 1<<UnitCount; n++ {
		bits := make([]byte, UnitCount)
		for i := range bits {
			bits[i] = byte(n>>(UnitCount-1-i)) & 1
		}
		l, err := line.FromBits(bits)
		require.NoError(t, err)

		rec := driver.NewRecorder()
		res, err := newSimulator(rec).Schedule(l)
		require.NoError(t, err, "line %s", l)
		require.Equal(t, l.String(), res.Line.String(), "line %s", l)

		trace := rec.Trace()
		require.NoError(t, trace.Validate(UnitCount), "line %s", l)
		require.Len(t, trace.Fired(), UnitCount)
		require.Equal(t, driver.Linefeed(), trace.Events[len(trace.Events)-1])
		require.Less(t, res.Steps, maxSteps)
	}
}

func TestScheduleRejectsOtherWidths(t *testing.T) {
	for _, s := range []string{"1", "1011010", "101101001"} {
		rec := driver.NewRecorder()
		_, err := newSimulator(rec).Schedule(line.MustParse(s))
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrUnsupportedLength), "line %s", s)
		assert.Empty(t, rec.Events())
	}
}

func TestScheduleLeavesUnitTableUntouched(t *testing.T) {
	before := Units
	_, err := newSimulator(driver.Nop{}).Schedule(line.MustParse("11011011"))
	require.NoError(t, err)
	assert.Equal(t, before, Units)
}

func TestUnitAdvance(t *testing.T) {
	u := Unit{Position: 0, Value: 0, Phase: 3}

	u.advance()
	assert.Equal(t, Unit{Position: -1, Value: 0, Phase: 4}, u)

	u.advance()
	assert.Equal(t, Unit{Position: 2, Value: 1, Phase: 1}, u)

	for i := 0; i < 2*PhaseCycle; i++ {
		u.advance()
	}
	assert.Equal(t, Unit{Position: 2, Value: 1, Phase: 1}, u, "state repeats every two value cycles")
}

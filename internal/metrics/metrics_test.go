package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/twozhakes/internal/calendar"
	"github.com/roach88/twozhakes/internal/temporal"
)

func newObservedRegistry(t *testing.T) (*temporal.Registry, *Observer) {
	t.Helper()
	o := New()
	clock := func() time.Time { return time.UnixMilli(1583586000000) }
	r := temporal.NewRegistry(calendar.New(calendar.WithClock(clock)), temporal.WithObserver(o))
	return r, o
}

func TestObserver_ZoneCreatedOncePerZone(t *testing.T) {
	r, o := newObservedRegistry(t)

	r.MustZone("Asia/Tokyo")
	r.MustZone("Asia/Tokyo")
	r.MustZone("Europe/Paris")

	assert.Equal(t, 1.0, promtest.ToFloat64(o.zonesCreated.WithLabelValues("Asia/Tokyo")))
	assert.Equal(t, 1.0, promtest.ToFloat64(o.zonesCreated.WithLabelValues("Europe/Paris")))
}

func TestObserver_Parses(t *testing.T) {
	r, o := newObservedRegistry(t)
	z := r.MustZone("America/Los_Angeles")

	_, err := z.Parse("2020-03-07T05:00:00")
	require.NoError(t, err)
	_, err = z.Parse("not a date")
	require.Error(t, err)

	assert.Equal(t, 2.0, promtest.ToFloat64(o.parses.WithLabelValues("America/Los_Angeles")))
	assert.Equal(t, 1.0, promtest.ToFloat64(o.parseFailures.WithLabelValues("America/Los_Angeles")))
}

func TestObserver_OperatorStagesAndExtractions(t *testing.T) {
	r, o := newObservedRegistry(t)
	z := r.MustZone("UTC")
	i := z.Now()

	z.Operate(i, temporal.Add(temporal.Units.Day.Of(1)), temporal.StartOf(temporal.Units.Hour))
	z.Operate(i)
	temporal.Extract(z, i, temporal.Units.Hour)
	temporal.Extract(z, i, temporal.Format("YYYY"))

	assert.Equal(t, 2.0, promtest.ToFloat64(o.operatorStages.WithLabelValues("UTC")))
	assert.Equal(t, 2.0, promtest.ToFloat64(o.extractions.WithLabelValues("UTC")))
}

func TestObserver_Scenarios(t *testing.T) {
	o := New()
	o.ScenarioFinished(true)
	o.ScenarioFinished(true)
	o.ScenarioFinished(false)

	assert.Equal(t, 2.0, promtest.ToFloat64(o.scenarios.WithLabelValues(OutcomePass)))
	assert.Equal(t, 1.0, promtest.ToFloat64(o.scenarios.WithLabelValues(OutcomeFail)))
}

func TestObserver_IndependentRegistries(t *testing.T) {
	a := New()
	b := New()
	a.Parsed("UTC", errors.New("boom"))

	assert.Equal(t, 1.0, promtest.ToFloat64(a.parseFailures.WithLabelValues("UTC")))
	assert.Equal(t, 0.0, promtest.ToFloat64(b.parseFailures.WithLabelValues("UTC")))
}

func TestWriteToTextfile(t *testing.T) {
	o := New()
	o.ZoneCreated("Asia/Tokyo")
	o.Operated("Asia/Tokyo", 3)

	path := filepath.Join(t.TempDir(), "twozhakes.prom")
	require.NoError(t, o.WriteToTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.Contains(text, `twozhakes_zones_created_total{zone="Asia/Tokyo"} 1`), text)
	assert.True(t, strings.Contains(text, `twozhakes_operator_stages_total{zone="Asia/Tokyo"} 3`), text)
}

func TestWriteToTextfile_BadPath(t *testing.T) {
	err := New().WriteToTextfile(filepath.Join(t.TempDir(), "missing", "out.prom"))
	assert.Error(t, err)
}

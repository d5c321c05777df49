package demo

import "github.com/roach88/twozhakes/internal/temporal"

// ElectionZone is the zone election dates are computed in, whatever zone
// the caller operates in.
const ElectionZone = "America/New_York"

// pollsClose is the local hour after which election day counts as past.
const pollsClose = 17

var (
	startOfNextYear = StartOfNext(temporal.Units.Year)

	// The day after the first Monday in November.
	electionDayOfYear = temporal.Compose(
		temporal.Set(temporal.Setters.Month.Of(10)),
		temporal.StartOf(temporal.Units.Month),
		NextDayOfWeek(1, true),
		temporal.Add(temporal.Units.Day.Of(1)),
	)
)

// ElectionDay returns an operator that moves to the start of the next US
// federal election day as observed in ny: the Tuesday after the first
// Monday in November of an even year. Once the polls close at 17:00 the
// following election is returned.
func ElectionDay(ny *temporal.Zone) temporal.Operator {
	return func(i temporal.Instant, _ *temporal.Zone) temporal.Instant {
		for {
			if temporal.Extract(ny, i, temporal.Units.Year)%2 != 0 {
				i = ny.Operate(i, startOfNextYear)
				continue
			}
			day := ny.Operate(i, electionDayOfYear)
			if i.Before(ny.Operate(day, temporal.Set(temporal.Units.Hour.Of(pollsClose)))) {
				return day
			}
			i = ny.Operate(i, startOfNextYear)
		}
	}
}

// NextElectionDay is ElectionDay evaluated in the default registry's
// America/New_York zone.
func NextElectionDay(i temporal.Instant, z *temporal.Zone) temporal.Instant {
	return ElectionDay(temporal.Default().MustZone(ElectionZone))(i, z)
}

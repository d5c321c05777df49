// Package temporal is a composable algebra over time-zone-aware instants.
//
// A Zone binds an IANA zone identifier to a calendar Engine. Instants are
// parsed in a zone, transformed by ordered pipelines of Operators (Add,
// Subtract, Set, StartOf, EndOf) and read back through Extractors: the
// Units and Setters registry entries, or Getter combinators such as Format,
// Diff and FromNow.
//
//	ny, err := temporal.GetZone("America/New_York")
//	if err != nil {
//	    return err
//	}
//	start, err := ny.Parse("2020-02-05")
//	if err != nil {
//	    return err
//	}
//	d := ny.Operate(start,
//	    temporal.Add(temporal.Units.Month.Of(1)),
//	    temporal.StartOf(temporal.Units.Month),
//	    temporal.Set(temporal.Units.Hour.Of(9)),
//	)
//	fmt.Println(temporal.Extract(ny, d, temporal.Format("dddd, MMMM Do YYYY, h:mm:ss a")))
//	// Sunday, March 1st 2020, 9:00:00 am
//
// Instants are plain values and every operator returns a new one, so the
// same instant can be fed to any number of pipelines without interference.
// Zones and registry entries are immutable and safe for concurrent use.
package temporal

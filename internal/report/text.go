package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/i474232898/gpx-trip-weather/internal/trip"
)

// WriteText renders the trip summary, total distance and the day table.
func WriteText(w io.Writer, r Report, u Units) error {
	if _, err := fmt.Fprintln(w, r.Title()); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Total distance: %.1f %s\n\n", u.Distance(r.TotalDistanceM), u.DistanceSymbol()); err != nil {
		return err
	}
	return WriteTable(w, r, u)
}

// WriteTable renders one row per report day.
func WriteTable(w io.Writer, r Report, u Units) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tHIGH\tLOW\tWEATHER\tPLACE")
	for _, d := range r.Days {
		place := d.Place
		if place == "" {
			place = fmt.Sprintf("%.4f, %.4f", d.Lat, d.Lon)
		}
		if d.InTransit {
			place += " (in transit)"
		}

		if !d.Available {
			fmt.Fprintf(tw, "%s\t-\t-\tunavailable\t%s\n", d.Date.Format(trip.DateLayout), place)
			continue
		}
		fmt.Fprintf(tw, "%s\t%.0f%s\t%.0f%s\t%s\t%s\n",
			d.Date.Format(trip.DateLayout),
			u.Temperature(d.High), u.TemperatureSymbol(),
			u.Temperature(d.Low), u.TemperatureSymbol(),
			d.Summary, place)
	}
	return tw.Flush()
}

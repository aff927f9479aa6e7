package collect

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/kdhansen/epidexus/core"
)

// csvHeader is the column layout produced by EncodeCSV.
var csvHeader = []string{"run_id", "day", "susceptible", "exposed", "infected", "recovered"}

// EncodeCSV writes the samples as CSV, one row per day plus a header row.
// The day column carries the calendar date in ISO form.
func EncodeCSV(w io.Writer, samples []core.SEIRSample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, s := range samples {
		row := []string{
			s.RunID,
			s.Day.Format("2006-01-02"),
			strconv.Itoa(s.Susceptible),
			strconv.Itoa(s.Exposed),
			strconv.Itoa(s.Infected),
			strconv.Itoa(s.Recovered),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

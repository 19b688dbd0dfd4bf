package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/rickgao/impact-response/internal/batch"
)

// point is one row of a printed curve.
type point struct {
	Tau     int     `json:"tau"`
	Shift   *int    `json:"shift,omitempty"`
	R       float64 `json:"r"`
	Support int64   `json:"support"`
}

type reportJSON struct {
	Kind    string  `json:"kind"`
	Source  string  `json:"source"`
	Driving string  `json:"driving"`
	Days    int     `json:"days"`
	Skipped int     `json:"skipped"`
	Failed  int     `json:"failed"`
	Points  []point `json:"points"`
}

func points(r batch.Report) []point {
	values := r.Curve.Values()
	out := make([]point, len(values))
	for i, v := range values {
		p := point{Tau: i + 1, R: v, Support: r.Curve.Support[i]}
		if r.Shifts != nil {
			s := r.Shifts[i]
			p.Tau = r.Tau
			p.Shift = &s
		}
		out[i] = p
	}
	return out
}

// printReport writes the pooled curve of a run.
func printReport(w io.Writer, r batch.Report, format string) error {
	pts := points(r)

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(reportJSON{
			Kind:    r.Kind.String(),
			Source:  r.Pair.Source,
			Driving: r.Pair.Driving,
			Days:    r.Days,
			Skipped: r.Skipped,
			Failed:  r.Failed,
			Points:  pts,
		})

	case "csv":
		cw := csv.NewWriter(w)
		header := []string{"tau", "r", "support"}
		if r.Shifts != nil {
			header = []string{"tau", "shift", "r", "support"}
		}
		if err := cw.Write(header); err != nil {
			return err
		}
		for _, p := range pts {
			rec := []string{strconv.Itoa(p.Tau)}
			if p.Shift != nil {
				rec = append(rec, strconv.Itoa(*p.Shift))
			}
			rec = append(rec, strconv.FormatFloat(p.R, 'g', -1, 64), strconv.FormatInt(p.Support, 10))
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "# %s %s: %d days, %d skipped, %d failed\n", r.Kind, r.Pair, r.Days, r.Skipped, r.Failed)
	if r.Shifts != nil {
		fmt.Fprintln(tw, "TAU\tSHIFT\tR\tSUPPORT")
	} else {
		fmt.Fprintln(tw, "TAU\tR\tSUPPORT")
	}
	for _, p := range pts {
		if p.Shift != nil {
			fmt.Fprintf(tw, "%d\t%d\t%.6e\t%d\n", p.Tau, *p.Shift, p.R, p.Support)
		} else {
			fmt.Fprintf(tw, "%d\t%.6e\t%d\n", p.Tau, p.R, p.Support)
		}
	}
	return tw.Flush()
}

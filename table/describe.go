package table

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
)

// Describe renders the table's allocation as two text tables: one row per feature
// with its ranges, then one row per segment with its slots. It is presentation only
// and reads the table through its public accessors.
func Describe(w io.Writer, t *Table) error {
	features := tablewriter.NewWriter(w)
	features.SetHeader([]string{"Feature", "Thresholds", "Ranges"})
	features.SetAutoFormatHeaders(false)
	features.SetAutoWrapText(false)

	st := t.Stats()
	for _, fs := range st.Features {
		ranges, err := t.Ranges(fs.Feature)
		if err != nil {
			return err
		}

		parts := make([]string, len(ranges))
		for i, r := range ranges {
			parts[i] = r.String()
		}
		features.Append([]string{strconv.Itoa(fs.Feature), strconv.Itoa(fs.Thresholds), strings.Join(parts, " ")})
	}
	features.Render()

	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}

	segments := tablewriter.NewWriter(w)
	segments.SetHeader([]string{"Segment", "Kind", "Used", "Free", "Slots"})
	segments.SetAutoFormatHeaders(false)
	segments.SetAutoWrapText(false)

	for _, ss := range st.Segments {
		kind := "split"
		if ss.Striped {
			kind = "striped"
		}

		slots, err := t.Segment(ss.Segment)
		if err != nil {
			return err
		}

		parts := make([]string, len(slots))
		for i, s := range slots {
			parts[i] = s.String()
		}
		segments.Append([]string{
			strconv.Itoa(ss.Segment), kind, strconv.Itoa(ss.Occupied), strconv.Itoa(ss.Free),
			"[" + strings.Join(parts, "][") + "]",
		})
	}
	segments.Render()

	return nil
}

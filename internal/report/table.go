// Package report renders aggregated results as aligned plain-text tables.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/travel-search/offer-aggregation-engine/internal/domain"
)

// MaxCellWidth caps the display width of a single cell.
const MaxCellWidth = 48

var offerHeader = []string{"Provider", "Offer", "Price", "Details", "Confirmed by"}

// Write renders one table per non-empty offer kind followed by the deals.
func Write(w io.Writer, res *domain.AggregatedResults) error {
	if res == nil || res.IsEmpty() {
		_, err := fmt.Fprintln(w, "No offers found.")
		return err
	}

	sections := []struct {
		title  string
		offers []domain.NormalizedOffer
	}{
		{"Flights", res.Flights},
		{"Lodging", res.Lodgings},
		{"Ground transport", res.Transport},
		{"Experiences", res.Experiences},
	}

	var b strings.Builder
	for _, s := range sections {
		if len(s.offers) == 0 {
			continue
		}
		rows := [][]string{append([]string(nil), offerHeader...)}
		for _, o := range s.offers {
			rows = append(rows, offerRow(o))
		}
		fmt.Fprintf(&b, "%s (%d)\n", s.title, len(s.offers))
		writeTable(&b, rows)
		b.WriteString("\n")
	}

	if len(res.Deals) > 0 {
		rows := [][]string{{"Category", "Reason", "Offer", "Price", "Why"}}
		for _, d := range res.Deals {
			rows = append(rows, []string{
				string(d.Category),
				string(d.Reason),
				offerTitle(d.Offer),
				formatPrice(d.Offer.Price),
				d.Explanation,
			})
		}
		b.WriteString("Deals\n")
		writeTable(&b, rows)
		b.WriteString("\n")
	}

	m := res.Metadata
	fmt.Fprintf(&b, "Sources: %s | failed: %s | %dms",
		joinOrDash(res.SourcesQueried), joinOrDash(m.ProvidersFailed), m.SearchTimeMs)
	if m.CacheHit {
		b.WriteString(" | cached")
	}
	if m.Fallback {
		b.WriteString(" | simulated")
	}
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func offerRow(o domain.NormalizedOffer) []string {
	row := []string{o.Source, offerTitle(o), formatPrice(o.Price), offerDetails(o), strings.Join(o.ConfirmedBy, ", ")}
	if o.DiscountPercent != nil && *o.DiscountPercent > 0 {
		row[2] += fmt.Sprintf(" (-%d%%)", *o.DiscountPercent)
	}
	return row
}

func offerTitle(o domain.NormalizedOffer) string {
	switch {
	case o.Flight != nil:
		return o.Flight.Origin() + " > " + o.Flight.Destination()
	case o.Lodging != nil:
		return o.Lodging.Name
	case o.Transport != nil:
		if o.Transport.Title != "" {
			return o.Transport.Title
		}
		if o.Transport.Origin != "" {
			return o.Transport.Origin + " > " + o.Transport.Destination
		}
		return o.Transport.Operator
	}
	return o.ID
}

func offerDetails(o domain.NormalizedOffer) string {
	switch {
	case o.Flight != nil:
		f := o.Flight
		carriers := make([]string, 0, len(f.Segments))
		for _, s := range f.Segments {
			carriers = append(carriers, s.FlightNumber)
		}
		return fmt.Sprintf("%s, %s, %s", strings.Join(carriers, "/"), stopsLabel(f.Layovers), domain.FormatDuration(f.TotalDurationMinutes))
	case o.Lodging != nil:
		return fmt.Sprintf("%s, %.1f/5 (%d reviews)", o.Lodging.Location, o.Lodging.Rating.Value, o.Lodging.Rating.ReviewCount)
	case o.Transport != nil:
		return fmt.Sprintf("%s %s, %s", o.Transport.Operator, o.Transport.Category, domain.FormatDuration(o.Transport.DurationMinutes))
	}
	return ""
}

func stopsLabel(n int) string {
	switch n {
	case 0:
		return "direct"
	case 1:
		return "1 stop"
	default:
		return fmt.Sprintf("%d stops", n)
	}
}

func formatPrice(p domain.Price) string {
	return fmt.Sprintf("%.2f %s", p.Amount, p.Currency)
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}

// writeTable pads every cell to its column's display width and writes a
// dashed rule under the header row.
func writeTable(b *strings.Builder, rows [][]string) {
	cols := 0
	for _, row := range rows {
		if len(row) > cols {
			cols = len(row)
		}
	}

	widths := make([]int, cols)
	for _, row := range rows {
		for i, cell := range row {
			row[i] = runewidth.Truncate(cell, MaxCellWidth, "...")
			if w := runewidth.StringWidth(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	for r, row := range rows {
		cells := make([]string, cols)
		for i := range cells {
			content := ""
			if i < len(row) {
				content = row[i]
			}
			cells[i] = runewidth.FillRight(content, widths[i])
		}
		b.WriteString(strings.TrimRight(strings.Join(cells, "  "), " "))
		b.WriteString("\n")

		if r == 0 {
			rule := make([]string, cols)
			for i, w := range widths {
				rule[i] = strings.Repeat("-", w)
			}
			b.WriteString(strings.Join(rule, "  "))
			b.WriteString("\n")
		}
	}
}

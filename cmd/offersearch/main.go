// Command offersearch runs a single aggregated search from the command line
// and prints the merged offers and deals as tables.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/travel-search/offer-aggregation-engine/internal/app"
	"github.com/travel-search/offer-aggregation-engine/internal/config"
	"github.com/travel-search/offer-aggregation-engine/internal/domain"
	"github.com/travel-search/offer-aggregation-engine/internal/infrastructure/logger"
	"github.com/travel-search/offer-aggregation-engine/internal/report"
)

func main() {
	kind := flag.String("kind", "all", "Offer kind: flight, lodging, ground_transport, experience, all")
	origin := flag.String("origin", "", "Departure point (required for flights)")
	destination := flag.String("destination", "", "Destination city or airport (required)")
	dateOut := flag.String("date", "", "Outbound or check-in date, YYYY-MM-DD (required)")
	dateReturn := flag.String("return", "", "Return or check-out date, YYYY-MM-DD")
	party := flag.Int("party", 1, "Number of travellers")
	flexible := flag.Bool("flexible", false, "Accept nearby dates")
	minPrice := flag.Float64("min", -1, "Minimum price (unset when negative)")
	maxPrice := flag.Float64("max", -1, "Maximum price (unset when negative)")
	currency := flag.String("currency", "", "Budget currency (ISO 4217)")
	providersFile := flag.String("providers", "", "Provider catalog file (defaults to PROVIDERS_FILE)")
	asJSON := flag.Bool("json", false, "Print raw JSON instead of tables")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *providersFile != "" {
		cfg.Providers.File = *providersFile
	}

	log := logger.NewWithOutput(cfg.Logging, os.Stderr)

	components, err := app.Build(cfg, ".", log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	q := domain.Query{
		Kind:          domain.QueryKind(strings.ToLower(*kind)),
		Origin:        *origin,
		Destination:   *destination,
		DateOut:       *dateOut,
		DateReturn:    *dateReturn,
		PartySize:     *party,
		FlexibleDates: *flexible,
	}
	if *minPrice >= 0 || *maxPrice >= 0 || *currency != "" {
		q.Budget = &domain.Budget{Currency: strings.ToUpper(*currency)}
		if *minPrice >= 0 {
			q.Budget.Min = minPrice
		}
		if *maxPrice >= 0 {
			q.Budget.Max = maxPrice
		}
	}

	res, err := components.UseCase.Search(context.Background(), q)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		err = enc.Encode(res)
	} else {
		err = report.Write(os.Stdout, res)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

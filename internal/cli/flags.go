package cli

import (
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/gurgen2727/travel-api/internal/search"
)

// multiString collects repeatable flag values; a single occurrence may
// also carry several comma- or space-separated tokens, so
// `--from "LHR LGW"` and `--from LHR --from LGW` are equivalent.
type multiString []string

func (m *multiString) String() string { return strings.Join(*m, " ") }

func (m *multiString) Set(v string) error {
	*m = append(*m, splitTokens(v)...)
	return nil
}

type multiFloat []float64

func (m *multiFloat) String() string {
	parts := make([]string, len(*m))
	for i, v := range *m {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, " ")
}

func (m *multiFloat) Set(v string) error {
	for _, tok := range splitTokens(v) {
		f, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return fmt.Errorf("%q is not a number", tok)
		}
		*m = append(*m, f)
	}
	return nil
}

func splitTokens(v string) []string {
	return strings.FieldsFunc(v, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
}

// Parse turns the command line into a ready-to-run search.Options.
// Any returned error is a configuration error and should terminate the
// process with a usage exit code.
func Parse(args []string, errOut io.Writer) (search.Options, error) {
	fs := flag.NewFlagSet("travelsearch", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var (
		origins        multiString
		destinations   multiString
		stays          multiString
		departDays     multiString
		returnDays     multiString
		sortBy         multiString
		departStopover multiFloat
		returnStopover multiFloat
	)
	fs.Var(&origins, "from", "Origin airport codes (repeatable or space/comma separated)")
	fs.Var(&destinations, "to", "Destination airport codes (repeatable or space/comma separated)")
	fs.Var(&stays, "max-stay", `Stay lengths in nights, e.g. "3-5 7"`)
	fs.Var(&departDays, "filter-depart-days-time", `Outbound day/time windows, e.g. "Thu(00:00-12:00)" or "Sat"`)
	fs.Var(&returnDays, "filter-return-days-time", "Inbound day/time windows, same syntax")
	fs.Var(&sortBy, "sort-by", "Sort keys: price duration departure_date return_date")
	fs.Var(&departStopover, "max-departure-stopover", "Outbound stopover limit hours: one value, or day night")
	fs.Var(&returnStopover, "max-return-stopover", "Inbound stopover limit hours, same semantics")

	depart := fs.String("depart", "", "Fixed departure date YYYY-MM-DD")
	ret := fs.String("return", "", "Fixed return date YYYY-MM-DD")
	departStart := fs.String("depart-start", "", "Departure window start YYYY-MM-DD")
	departEnd := fs.String("depart-end", "", "Departure window end YYYY-MM-DD")
	returnStart := fs.String("return-start", "", "Return window start YYYY-MM-DD")
	returnEnd := fs.String("return-end", "", "Return window end YYYY-MM-DD")
	rangeStart := fs.String("range-start", "", "Rolling window anchor date YYYY-MM-DD (default today)")
	rangeLength := fs.String("range-length", "", `Rolling window length, e.g. "2 weeks" or "1 week 3 days"`)

	nonstop := fs.Bool("nonstop", false, "Nonstop flights only")
	maxStops := fs.Int("max-stops", 1, "Maximum connections per leg")
	maxResults := fs.Int("max-results", 5, "Number of results in the final summary")
	oneWay := fs.Bool("one-way", false, "One-way search: skip all return-leg filtering")
	allowDiffReturn := fs.Bool("allow-different-return-airport", false, "Allow the inbound leg to start at a different airport")

	if err := fs.Parse(args); err != nil {
		return search.Options{}, err
	}

	if len(origins) == 0 || len(destinations) == 0 {
		return search.Options{}, fmt.Errorf("--from and --to are required")
	}

	spec := search.DateSpec{
		RangeLength: *rangeLength,
		OneWay:      *oneWay,
	}
	var err error
	if spec.Depart, err = optionalDate(*depart); err != nil {
		return search.Options{}, err
	}
	if spec.Return, err = optionalDate(*ret); err != nil {
		return search.Options{}, err
	}
	if spec.DepartStart, err = optionalDate(*departStart); err != nil {
		return search.Options{}, err
	}
	if spec.DepartEnd, err = optionalDate(*departEnd); err != nil {
		return search.Options{}, err
	}
	if spec.ReturnStart, err = optionalDate(*returnStart); err != nil {
		return search.Options{}, err
	}
	if spec.ReturnEnd, err = optionalDate(*returnEnd); err != nil {
		return search.Options{}, err
	}
	if spec.RangeStart, err = optionalDate(*rangeStart); err != nil {
		return search.Options{}, err
	}
	if len(stays) > 0 {
		if spec.Stays, err = search.ExpandStays(stays); err != nil {
			return search.Options{}, err
		}
	}

	pairs, err := spec.Pairs()
	if err != nil {
		return search.Options{}, err
	}

	departFilter, err := search.ParseDayTimeFilter(departDays)
	if err != nil {
		return search.Options{}, err
	}
	returnFilter, err := search.ParseDayTimeFilter(returnDays)
	if err != nil {
		return search.Options{}, err
	}

	sortKeys, err := search.ParseSortKeys(sortBy, *oneWay)
	if err != nil {
		return search.Options{}, err
	}

	return search.Options{
		Origins:                     normalizeCodes(origins),
		Destinations:                normalizeCodes(destinations),
		Pairs:                       pairs,
		DepartFilter:                departFilter,
		ReturnFilter:                returnFilter,
		DepartStopover:              search.StopoverSpec(departStopover),
		ReturnStopover:              search.StopoverSpec(returnStopover),
		SortKeys:                    sortKeys,
		MaxStops:                    *maxStops,
		MaxResults:                  *maxResults,
		OneWay:                      *oneWay,
		Nonstop:                     *nonstop,
		AllowDifferentReturnAirport: *allowDiffReturn,
	}, nil
}

func optionalDate(s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, nil
	}
	return search.ParseDate(s)
}

func normalizeCodes(codes []string) []string {
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		out = append(out, strings.ToUpper(strings.TrimSpace(c)))
	}
	return out
}

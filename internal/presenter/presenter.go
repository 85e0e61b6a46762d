package presenter

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/gurgen2727/travel-api/internal/domain/models"
	"github.com/gurgen2727/travel-api/internal/search"
)

// Options carries the exact post-query checks. The driver's noon
// pre-check only prunes impossible weekdays; the real per-segment
// filtering happens here, on the timestamps the provider returned.
type Options struct {
	Out io.Writer

	DepartFilter search.DayTimeFilter
	ReturnFilter search.DayTimeFilter

	DepartStopover search.StopoverSpec
	ReturnStopover search.StopoverSpec

	MaxStops                    int
	OneWay                      bool
	AllowDifferentReturnAirport bool
}

type Presenter struct {
	opts Options

	progress *color.Color
	heading  *color.Color
	price    *color.Color
	outbound *color.Color
	arrival  *color.Color
	inbound  *color.Color
	stopover *color.Color
}

func New(opts Options) *Presenter {
	return &Presenter{
		opts:     opts,
		progress: color.New(color.FgBlue),
		heading:  color.New(color.FgYellow, color.Bold),
		price:    color.New(color.FgGreen),
		outbound: color.New(color.FgYellow),
		arrival:  color.New(color.FgCyan),
		inbound:  color.New(color.FgBlue),
		stopover: color.New(color.FgHiBlack),
	}
}

func (p *Presenter) Checking(origin, destination string, pair search.DatePair, oneWay bool) {
	route := fmt.Sprintf("Checking %s -> %s | %s", origin, destination, pair.Depart.Format("2006-01-02"))
	if !oneWay {
		route += " -> " + pair.Return.Format("2006-01-02")
	}
	p.progress.Fprintln(p.opts.Out, route+"...")
}

func (p *Presenter) SummaryHeading(n int) {
	p.heading.Fprintf(p.opts.Out, "\nDisplaying top %d result(s)...\n\n", n)
}

// ShowOffers applies the exact filters, deduplicates, and renders.
// One offer that fails any check is skipped silently; that is not an
// error, just a non-match.
func (p *Presenter) ShowOffers(offers []models.Offer) {
	seen := map[seenKey]struct{}{}
	for _, offer := range offers {
		if !p.accept(offer) {
			continue
		}
		key := dedupKey(offer, p.opts.OneWay)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		p.render(offer)
	}
}

type seenKey struct {
	outboundAt string
	inboundAt  string
	price      string
}

func dedupKey(offer models.Offer, oneWay bool) seenKey {
	key := seenKey{
		outboundAt: offer.Outbound().FirstSegment().DepartureAt.Format(time.RFC3339),
		price:      offer.PriceRaw,
	}
	if !oneWay {
		if inbound, ok := offer.Inbound(); ok {
			key.inboundAt = inbound.FirstSegment().DepartureAt.Format(time.RFC3339)
		}
	}
	return key
}

func (p *Presenter) accept(offer models.Offer) bool {
	outbound := offer.Outbound()
	if !p.opts.DepartFilter.Allows(outbound.FirstSegment().DepartureAt) {
		return false
	}
	if !search.CheckItinerary(outbound, p.opts.DepartStopover, p.opts.MaxStops) {
		return false
	}
	if p.opts.OneWay {
		return true
	}

	inbound, ok := offer.Inbound()
	if !ok {
		return false
	}
	if !p.opts.AllowDifferentReturnAirport &&
		outbound.LastSegment().ArrivalCode != inbound.LastSegment().ArrivalCode {
		return false
	}
	if !p.opts.ReturnFilter.Allows(inbound.FirstSegment().DepartureAt) {
		return false
	}
	return search.CheckItinerary(inbound, p.opts.ReturnStopover, p.opts.MaxStops)
}

func (p *Presenter) render(offer models.Offer) {
	out := p.opts.Out
	outbound := offer.Outbound()
	dep := outbound.FirstSegment()
	arr := outbound.LastSegment()

	p.price.Fprintf(out, "%s %s | %s | Stops %d\n",
		offer.Currency, offer.PriceRaw, formatDuration(search.DurationHours(outbound.Duration)), outbound.Stops())
	p.outbound.Fprintf(out, "From:  %s  %s (%s)\n",
		dep.DepartureCode, dep.DepartureAt.Format("2006-01-02T15:04:05"), dep.DepartureAt.Weekday())
	p.arrival.Fprintf(out, "To:    %s  %s (%s)\n",
		arr.ArrivalCode, arr.ArrivalAt.Format("2006-01-02T15:04:05"), arr.ArrivalAt.Weekday())
	p.renderStopovers(outbound)

	if inbound, ok := offer.Inbound(); !p.opts.OneWay && ok {
		retDep := inbound.FirstSegment()
		retArr := inbound.LastSegment()
		p.inbound.Fprintln(out, "Return:")
		fmt.Fprintf(out, "  From:  %s  %s (%s)\n",
			retDep.DepartureCode, retDep.DepartureAt.Format("2006-01-02T15:04:05"), retDep.DepartureAt.Weekday())
		fmt.Fprintf(out, "  To:    %s  %s (%s)\n",
			retArr.ArrivalCode, retArr.ArrivalAt.Format("2006-01-02T15:04:05"), retArr.ArrivalAt.Weekday())
		p.renderStopovers(inbound)
	}

	fmt.Fprintln(out, "------------------------------------------------------------")
}

func (p *Presenter) renderStopovers(it models.Itinerary) {
	segs := it.Segments
	for i := 1; i < len(segs); i++ {
		wait := segs[i].DepartureAt.Sub(segs[i-1].ArrivalAt).Hours()
		p.stopover.Fprintf(p.opts.Out, "  Stopover at %s for %s\n",
			segs[i].DepartureCode, formatDuration(wait))
	}
}

func formatDuration(hours float64) string {
	h := int(hours)
	m := int((hours - float64(h)) * 60)
	return fmt.Sprintf("%dh %02dm", h, m)
}

package search

import (
	"context"
	"errors"
	"time"

	derr "github.com/gurgen2727/travel-api/internal/domain/errors"
	"github.com/gurgen2727/travel-api/internal/domain/models"
	"github.com/gurgen2727/travel-api/internal/domain/ports"
	"go.uber.org/zap"
)

// noonAnchor is the time of day assumed for the coarse pre-query
// check. Exact segment times are unknown before the query, so this
// pass only prunes weekday combinations that cannot possibly match;
// exact time filtering always happens again on the returned offers.
const noonAnchor = 12 * time.Hour

// View receives streaming progress output during the sweep.
type View interface {
	Checking(origin, destination string, pair DatePair, oneWay bool)
	ShowOffers(offers []models.Offer)
	SummaryHeading(n int)
}

// Options is the fully-parsed search request for one run.
type Options struct {
	Origins      []string
	Destinations []string
	Pairs        []DatePair

	DepartFilter DayTimeFilter
	ReturnFilter DayTimeFilter

	DepartStopover StopoverSpec
	ReturnStopover StopoverSpec

	SortKeys   []SortKey
	MaxStops   int
	MaxResults int

	OneWay                      bool
	Nonstop                     bool
	AllowDifferentReturnAirport bool
}

// Result summarizes one completed sweep.
type Result struct {
	Queried int
	Skipped int
	Matches []models.Offer
	Top     []models.Offer
}

// Driver walks the origins x destinations x date-pairs grid
// sequentially, delegating each query to the offer source.
type Driver struct {
	log      *zap.Logger
	source   ports.OfferSource
	cache    ports.OfferCache
	cacheTTL time.Duration
	view     View
}

func NewDriver(log *zap.Logger, source ports.OfferSource, cache ports.OfferCache, cacheTTL time.Duration, view View) *Driver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Driver{
		log:      log,
		source:   source,
		cache:    cache,
		cacheTTL: cacheTTL,
		view:     view,
	}
}

// Run executes the sweep: coarse pre-check, one query per surviving
// combination, streaming the per-query best, then the re-ranked global
// top-N. Rate-limit exhaustion and provider errors skip the single
// query; the sweep always continues.
func (d *Driver) Run(ctx context.Context, opts Options) (Result, error) {
	if err := d.source.Authenticate(ctx); err != nil {
		return Result{}, err
	}

	var res Result
	for _, origin := range opts.Origins {
		for _, dest := range opts.Destinations {
			for _, pair := range opts.Pairs {
				if err := ctx.Err(); err != nil {
					return res, err
				}
				if !d.precheck(opts, pair) {
					res.Skipped++
					continue
				}
				d.view.Checking(origin, dest, pair, opts.OneWay)

				q := ports.OfferQuery{
					Origin:      origin,
					Destination: dest,
					Depart:      pair.Depart,
					Nonstop:     opts.Nonstop,
				}
				if !opts.OneWay {
					q.Return = pair.Return
				}
				res.Queried++
				offers, err := d.lookup(ctx, q)
				if err != nil {
					if errors.Is(err, derr.ErrRateLimited) {
						d.log.Warn("rate limited after retries, skipping query",
							zap.String("origin", origin),
							zap.String("destination", dest),
							zap.Time("depart", pair.Depart))
						continue
					}
					d.log.Warn("provider query failed, skipping",
						zap.String("origin", origin),
						zap.String("destination", dest),
						zap.Error(err))
					continue
				}
				if len(offers) == 0 {
					continue
				}
				ranked := Rank(offers, opts.SortKeys)
				d.view.ShowOffers(ranked[:1])
				res.Matches = append(res.Matches, offers...)
			}
		}
	}

	res.Top = Rank(res.Matches, opts.SortKeys)
	if len(res.Top) > opts.MaxResults {
		res.Top = res.Top[:opts.MaxResults]
	}
	d.view.SummaryHeading(opts.MaxResults)
	d.view.ShowOffers(res.Top)

	d.log.Info("sweep finished",
		zap.Int("queried", res.Queried),
		zap.Int("skipped", res.Skipped),
		zap.Int("matches", len(res.Matches)))
	return res, nil
}

// precheck is the coarse pass: the intended dates anchored at noon
// against the weekday filters. A bare weekday mismatch means no offer
// from that query could ever pass, so the API call is saved.
func (d *Driver) precheck(opts Options, pair DatePair) bool {
	if !opts.DepartFilter.Allows(pair.Depart.Add(noonAnchor)) {
		return false
	}
	if !opts.OneWay && !opts.ReturnFilter.Allows(pair.Return.Add(noonAnchor)) {
		return false
	}
	return true
}

func (d *Driver) lookup(ctx context.Context, q ports.OfferQuery) ([]models.Offer, error) {
	if d.cache != nil {
		cached, err := d.cache.Get(ctx, q)
		if err == nil {
			d.log.Debug("offers cache hit",
				zap.String("origin", q.Origin),
				zap.String("destination", q.Destination))
			return cached, nil
		}
		if !errors.Is(err, derr.ErrOffersNotFound) {
			d.log.Warn("offers cache read failed", zap.Error(err))
		}
	}

	offers, err := d.source.Search(ctx, q)
	if err != nil {
		return nil, err
	}

	if d.cache != nil {
		if err := d.cache.Set(ctx, q, offers, d.cacheTTL); err != nil {
			d.log.Warn("offers cache write failed", zap.Error(err))
		}
	}
	return offers, nil
}

package search

import (
	"context"
	"testing"
	"time"

	derr "github.com/gurgen2727/travel-api/internal/domain/errors"
	"github.com/gurgen2727/travel-api/internal/domain/models"
	"github.com/gurgen2727/travel-api/internal/domain/ports"
	"go.uber.org/zap"
)

type fakeSource struct {
	authCalls int
	queries   []ports.OfferQuery
	offers    map[string][]models.Offer
	err       error
}

func (f *fakeSource) Authenticate(ctx context.Context) error {
	f.authCalls++
	return nil
}

func (f *fakeSource) Search(ctx context.Context, q ports.OfferQuery) ([]models.Offer, error) {
	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, f.err
	}
	return f.offers[q.Origin+q.Destination], nil
}

type fakeCache struct {
	store    map[string][]models.Offer
	getCalls int
	setCalls int
}

func cacheKey(q ports.OfferQuery) string {
	return q.Origin + q.Destination + q.Depart.Format("2006-01-02")
}

func (c *fakeCache) Get(ctx context.Context, q ports.OfferQuery) ([]models.Offer, error) {
	c.getCalls++
	if offers, ok := c.store[cacheKey(q)]; ok {
		return offers, nil
	}
	return nil, derr.ErrOffersNotFound
}

func (c *fakeCache) Set(ctx context.Context, q ports.OfferQuery, offers []models.Offer, ttl time.Duration) error {
	c.setCalls++
	if c.store == nil {
		c.store = map[string][]models.Offer{}
	}
	c.store[cacheKey(q)] = offers
	return nil
}

type fakeView struct {
	checking  int
	shown     [][]models.Offer
	summaries []int
}

func (v *fakeView) Checking(origin, destination string, pair DatePair, oneWay bool) { v.checking++ }
func (v *fakeView) ShowOffers(offers []models.Offer)                                { v.shown = append(v.shown, offers) }
func (v *fakeView) SummaryHeading(n int)                                            { v.summaries = append(v.summaries, n) }

func cheapOffer(price float64, raw string) models.Offer {
	dep := time.Date(2025, time.June, 5, 8, 0, 0, 0, time.UTC)
	return offer(price, raw, dep, "PT4H", dep.AddDate(0, 0, 3))
}

func baseOptions(pairs []DatePair) Options {
	return Options{
		Origins:      []string{"LHR"},
		Destinations: []string{"EVN"},
		Pairs:        pairs,
		SortKeys:     []SortKey{SortPrice},
		MaxStops:     1,
		MaxResults:   5,
	}
}

func TestRun_SweepsGridAndRanksAccumulator(t *testing.T) {
	source := &fakeSource{offers: map[string][]models.Offer{
		"LHREVN": {cheapOffer(300, "300.00"), cheapOffer(100, "100.00")},
	}}
	view := &fakeView{}
	d := NewDriver(zap.NewNop(), source, nil, 0, view)

	pairs := []DatePair{
		{Depart: day(2025, time.June, 5), Return: day(2025, time.June, 8)},
		{Depart: day(2025, time.June, 6), Return: day(2025, time.June, 9)},
	}
	res, err := d.Run(context.Background(), baseOptions(pairs))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if source.authCalls != 1 {
		t.Fatalf("authenticate must run once per process, got %d", source.authCalls)
	}
	if len(source.queries) != 2 {
		t.Fatalf("expected 2 queries, got %d", len(source.queries))
	}
	if res.Queried != 2 || res.Skipped != 0 {
		t.Fatalf("unexpected counters: %+v", res)
	}
	if len(res.Matches) != 4 {
		t.Fatalf("all offers accumulate, not just the best: got %d", len(res.Matches))
	}
	if res.Top[0].PriceRaw != "100.00" {
		t.Fatalf("global top must be re-ranked, got %s", res.Top[0].PriceRaw)
	}
	// per-query best streamed twice, then the final summary batch
	if len(view.shown) != 3 {
		t.Fatalf("expected 3 ShowOffers calls, got %d", len(view.shown))
	}
	if len(view.shown[0]) != 1 || view.shown[0][0].PriceRaw != "100.00" {
		t.Fatalf("streamed batch must hold only the query best")
	}
}

func TestRun_PrecheckSkipsWithoutQuery(t *testing.T) {
	source := &fakeSource{}
	view := &fakeView{}
	d := NewDriver(zap.NewNop(), source, nil, 0, view)

	opts := baseOptions([]DatePair{
		// 2025-06-05 is a Thursday, 2025-06-06 a Friday
		{Depart: day(2025, time.June, 5), Return: day(2025, time.June, 8)},
		{Depart: day(2025, time.June, 6), Return: day(2025, time.June, 9)},
	})
	filter, err := ParseDayTimeFilter([]string{"Thu"})
	if err != nil {
		t.Fatalf("parse filter: %v", err)
	}
	opts.DepartFilter = filter

	res, err := d.Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(source.queries) != 1 {
		t.Fatalf("friday departure must be pruned before the network, got %d queries", len(source.queries))
	}
	if res.Skipped != 1 || res.Queried != 1 {
		t.Fatalf("unexpected counters: %+v", res)
	}
}

func TestRun_OneWayIgnoresReturnFilterAndDate(t *testing.T) {
	source := &fakeSource{}
	view := &fakeView{}
	d := NewDriver(zap.NewNop(), source, nil, 0, view)

	opts := baseOptions([]DatePair{{Depart: day(2025, time.June, 5), Return: day(2025, time.June, 8)}})
	opts.OneWay = true
	// would reject every return date if it were consulted
	rejectAll, err := ParseDayTimeFilter([]string{"Mon(00:00-00:01)"})
	if err != nil {
		t.Fatalf("parse filter: %v", err)
	}
	opts.ReturnFilter = rejectAll

	if _, err := d.Run(context.Background(), opts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(source.queries) != 1 {
		t.Fatalf("one-way must not consult the return filter, got %d queries", len(source.queries))
	}
	if !source.queries[0].Return.IsZero() {
		t.Fatalf("one-way query must not carry a return date")
	}
}

func TestRun_RateLimitedQuerySkippedSweepContinues(t *testing.T) {
	source := &fakeSource{err: derr.ErrRateLimited}
	view := &fakeView{}
	d := NewDriver(zap.NewNop(), source, nil, 0, view)

	opts := baseOptions([]DatePair{
		{Depart: day(2025, time.June, 5), Return: day(2025, time.June, 8)},
		{Depart: day(2025, time.June, 6), Return: day(2025, time.June, 9)},
	})
	res, err := d.Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("rate limiting must not abort the sweep: %v", err)
	}
	if len(source.queries) != 2 {
		t.Fatalf("sweep must continue past a throttled query, got %d", len(source.queries))
	}
	if len(res.Matches) != 0 {
		t.Fatalf("throttled queries contribute no matches")
	}
}

func TestRun_ProviderErrorTreatedAsEmpty(t *testing.T) {
	source := &fakeSource{err: derr.ErrProvider}
	view := &fakeView{}
	d := NewDriver(zap.NewNop(), source, nil, 0, view)

	res, err := d.Run(context.Background(), baseOptions([]DatePair{
		{Depart: day(2025, time.June, 5), Return: day(2025, time.June, 8)},
	}))
	if err != nil {
		t.Fatalf("provider errors must not abort the sweep: %v", err)
	}
	if len(res.Matches) != 0 {
		t.Fatalf("failed query must contribute nothing")
	}
	if len(view.summaries) != 1 {
		t.Fatalf("summary must still render")
	}
}

func TestRun_CacheHitSkipsSource(t *testing.T) {
	hit := cheapOffer(120, "120.00")
	pair := DatePair{Depart: day(2025, time.June, 5), Return: day(2025, time.June, 8)}
	cache := &fakeCache{store: map[string][]models.Offer{
		"LHREVN" + pair.Depart.Format("2006-01-02"): {hit},
	}}
	source := &fakeSource{}
	view := &fakeView{}
	d := NewDriver(zap.NewNop(), source, cache, time.Minute, view)

	res, err := d.Run(context.Background(), baseOptions([]DatePair{pair}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(source.queries) != 0 {
		t.Fatalf("cache hit must not reach the provider")
	}
	if len(res.Matches) != 1 || res.Matches[0].PriceRaw != "120.00" {
		t.Fatalf("cached offers must accumulate: %+v", res.Matches)
	}
}

func TestRun_CacheMissPopulatesCache(t *testing.T) {
	source := &fakeSource{offers: map[string][]models.Offer{
		"LHREVN": {cheapOffer(99, "99.00")},
	}}
	cache := &fakeCache{}
	view := &fakeView{}
	d := NewDriver(zap.NewNop(), source, cache, time.Minute, view)

	if _, err := d.Run(context.Background(), baseOptions([]DatePair{
		{Depart: day(2025, time.June, 5), Return: day(2025, time.June, 8)},
	})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cache.setCalls != 1 {
		t.Fatalf("miss must write through to the cache, setCalls=%d", cache.setCalls)
	}
	if len(source.queries) != 1 {
		t.Fatalf("miss must query the provider once")
	}
}

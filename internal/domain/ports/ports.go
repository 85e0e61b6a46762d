package ports

import (
	"context"
	"time"

	"github.com/gurgen2727/travel-api/internal/domain/models"
)

// OfferQuery identifies one flight-offers request. Return is the zero
// time for one-way queries.
type OfferQuery struct {
	Origin      string
	Destination string
	Depart      time.Time
	Return      time.Time
	Nonstop     bool
}

func (q OfferQuery) RoundTrip() bool {
	return !q.Return.IsZero()
}

// OfferSource is the remote flight-offers provider. Authenticate is
// called once per process before any Search.
type OfferSource interface {
	Authenticate(ctx context.Context) error
	Search(ctx context.Context, q OfferQuery) ([]models.Offer, error)
}

// OfferCache memoizes provider responses per query. Implementations
// return errors.ErrOffersNotFound on a miss.
type OfferCache interface {
	Get(ctx context.Context, q OfferQuery) ([]models.Offer, error)
	Set(ctx context.Context, q OfferQuery, offers []models.Offer, ttl time.Duration) error
}

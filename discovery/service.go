package discovery

import (
	"context"
	"sort"
	"time"

	"foodlink/models"
)

// Store is the narrow boundary to the listing collection. Find returns
// one page of matches plus the total match count.
type Store interface {
	Find(ctx context.Context, q Query) ([]models.Mess, int64, error)
}

type Result struct {
	Messes     []models.Mess
	Pagination models.Pagination
}

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Discover runs a filter/sort request: store query, per-result distance
// annotation when a caller location is present, and app-side distance
// ordering. Empty result sets are not an error.
func (s *Service) Discover(ctx context.Context, q Query) (Result, error) {
	q.Normalize(s.now())

	messes, total, err := s.store.Find(ctx, q)
	if err != nil {
		return Result{}, err
	}

	if q.Location != nil {
		for i := range messes {
			d := Distance(q.Location.Lat, q.Location.Lng, messes[i].Latitude, messes[i].Longitude)
			messes[i].Distance = &d
		}
		if q.Sort == SortDistance {
			// Stable: ties keep the store order.
			sort.SliceStable(messes, func(i, j int) bool {
				return *messes[i].Distance < *messes[j].Distance
			})
		}
	}

	if messes == nil {
		messes = []models.Mess{}
	}

	return Result{
		Messes: messes,
		Pagination: models.Pagination{
			Total:      total,
			Page:       q.Page,
			Limit:      q.Limit,
			TotalPages: int((total + int64(q.Limit) - 1) / int64(q.Limit)),
		},
	}, nil
}

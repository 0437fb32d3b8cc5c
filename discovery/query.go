package discovery

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	"foodlink/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SortKey string

const (
	SortRating    SortKey = "rating"
	SortDistance  SortKey = "distance"
	SortPriceLow  SortKey = "price_low"
	SortPriceHigh SortKey = "price_high"
)

const DefaultLimit = 20

type Location struct {
	Lat float64
	Lng float64
}

// Query is a filter/sort request over active mess listings.
type Query struct {
	Search     string
	Cuisines   []string
	PriceTiers []string
	MinRating  float64
	VegOnly    bool
	NonVeg     bool
	OpenNow    bool
	Sort       SortKey
	Location   *Location
	Page       int
	Limit      int

	// At is the wall-clock instant the OpenNow window is evaluated
	// against. The service stamps it at request time.
	At time.Time
}

// ParseQuery reads a Query from URL parameters.
func ParseQuery(r *http.Request) Query {
	qs := r.URL.Query()
	q := Query{
		Search:     qs.Get("search"),
		Cuisines:   utils.SplitTags(qs.Get("cuisine")),
		PriceTiers: utils.SplitTags(qs.Get("priceRange")),
		MinRating:  utils.ParseFloat(qs.Get("rating")),
		VegOnly:    qs.Get("isVeg") == "true",
		NonVeg:     qs.Get("isNonVeg") == "true",
		OpenNow:    qs.Get("isOpen") == "true",
		Sort:       SortKey(qs.Get("sortBy")),
		Page:       utils.ParseInt(qs.Get("page")),
		Limit:      utils.ParseInt(qs.Get("limit")),
	}
	if latStr, lngStr := qs.Get("lat"), qs.Get("lng"); latStr != "" && lngStr != "" {
		q.Location = &Location{Lat: utils.ParseFloat(latStr), Lng: utils.ParseFloat(lngStr)}
	}
	return q
}

// Normalize applies defaults and resolves the sort key. Sorting by
// distance without a caller location falls back to rating.
func (q *Query) Normalize(now time.Time) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	switch q.Sort {
	case SortRating, SortPriceLow, SortPriceHigh:
	case SortDistance:
		if q.Location == nil {
			q.Sort = SortRating
		}
	default:
		q.Sort = SortRating
	}
	if q.At.IsZero() {
		q.At = now
	}
}

func (q Query) Skip() int64 {
	return int64(q.Page-1) * int64(q.Limit)
}

// FilterBSON translates the query into document-store predicates.
// is_active is always required and never caller-settable.
func (q Query) FilterBSON() bson.M {
	filter := bson.M{"is_active": true}

	if s := strings.TrimSpace(q.Search); s != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
		filter["$or"] = []bson.M{
			{"name": re},
			{"description": re},
			{"locality": re},
		}
	}
	if len(q.Cuisines) > 0 {
		filter["cuisine_types"] = bson.M{"$in": q.Cuisines}
	}
	if len(q.PriceTiers) > 0 {
		filter["price_range"] = bson.M{"$in": q.PriceTiers}
	}
	if q.MinRating > 0 {
		filter["avg_rating"] = bson.M{"$gte": q.MinRating}
	}
	if q.VegOnly {
		// Strictly vegetarian: mixed-diet listings are excluded.
		filter["is_veg"] = true
		filter["is_nonveg"] = false
	}
	if q.NonVeg {
		filter["is_nonveg"] = true
	}
	if q.OpenNow {
		// Zero-padded HH:MM strings compare correctly; the inclusive
		// bounds keep the same-day window model, so overnight windows
		// never match.
		now := ClockHHMM(q.At)
		filter["open_time"] = bson.M{"$lte": now}
		filter["close_time"] = bson.M{"$gte": now}
	}
	return filter
}

// SortBSON is the ordering pushed to the store. Distance ordering is
// applied in application logic after the fetch; its backing query keeps
// the rating order.
func (q Query) SortBSON() bson.D {
	switch q.Sort {
	case SortPriceLow:
		return bson.D{{Key: "monthly_price", Value: 1}}
	case SortPriceHigh:
		return bson.D{{Key: "monthly_price", Value: -1}}
	default:
		// Featured listings always precede non-featured ones.
		return bson.D{{Key: "is_featured", Value: -1}, {Key: "avg_rating", Value: -1}}
	}
}

package discovery

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"foodlink/models"
)

// memStore applies Query semantics in memory, standing in for the mongo
// adapter.
type memStore struct {
	messes []models.Mess
}

func (m *memStore) Find(_ context.Context, q Query) ([]models.Mess, int64, error) {
	var matched []models.Mess
	for _, ms := range m.messes {
		if !ms.IsActive {
			continue
		}
		if s := strings.TrimSpace(q.Search); s != "" {
			ls := strings.ToLower(s)
			if !strings.Contains(strings.ToLower(ms.Name), ls) &&
				!strings.Contains(strings.ToLower(ms.Description), ls) &&
				!strings.Contains(strings.ToLower(ms.Locality), ls) {
				continue
			}
		}
		if len(q.Cuisines) > 0 && !intersects(ms.CuisineTypes, q.Cuisines) {
			continue
		}
		if len(q.PriceTiers) > 0 && !containsStr(q.PriceTiers, string(ms.PriceRange)) {
			continue
		}
		if q.MinRating > 0 && ms.AvgRating < q.MinRating {
			continue
		}
		if q.VegOnly && (!ms.IsVeg || ms.IsNonVeg) {
			continue
		}
		if q.NonVeg && !ms.IsNonVeg {
			continue
		}
		if q.OpenNow && !OpenWithin(ms.OpenTime, ms.CloseTime, NowMinutes(q.At)) {
			continue
		}
		matched = append(matched, ms)
	}

	switch q.Sort {
	case SortPriceLow:
		sort.SliceStable(matched, func(i, j int) bool {
			return matched[i].EffectivePrice() < matched[j].EffectivePrice()
		})
	case SortPriceHigh:
		sort.SliceStable(matched, func(i, j int) bool {
			return matched[i].EffectivePrice() > matched[j].EffectivePrice()
		})
	default:
		sort.SliceStable(matched, func(i, j int) bool {
			if matched[i].IsFeatured != matched[j].IsFeatured {
				return matched[i].IsFeatured
			}
			return matched[i].AvgRating > matched[j].AvgRating
		})
	}

	total := int64(len(matched))
	skip := int(q.Skip())
	if skip > len(matched) {
		skip = len(matched)
	}
	end := skip + q.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[skip:end], total, nil
}

func intersects(a, b []string) bool {
	for _, x := range a {
		if containsStr(b, x) {
			return true
		}
	}
	return false
}

func containsStr(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func activeMess(id string) models.Mess {
	return models.Mess{
		MessID:     id,
		Name:       "Mess " + id,
		Locality:   "Hinjewadi",
		Latitude:   18.5912,
		Longitude:  73.7380,
		PriceRange: models.PriceModerate,
		OpenTime:   "08:00",
		CloseTime:  "22:00",
		IsVeg:      true,
		IsActive:   true,
	}
}

func TestDiscoverExcludesInactive(t *testing.T) {
	inactive := activeMess("dead")
	inactive.IsActive = false
	svc := NewService(&memStore{messes: []models.Mess{activeMess("a"), inactive, activeMess("b")}})

	res, err := svc.Discover(context.Background(), Query{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Pagination.Total != 2 {
		t.Fatalf("expected total 2, got %d", res.Pagination.Total)
	}
	for _, m := range res.Messes {
		if m.MessID == "dead" {
			t.Fatal("inactive mess returned by discovery")
		}
	}
}

func TestRatingSortFeaturedFirst(t *testing.T) {
	low := activeMess("featured-low")
	low.IsFeatured = true
	low.AvgRating = 2.1
	high := activeMess("plain-high")
	high.AvgRating = 4.9
	svc := NewService(&memStore{messes: []models.Mess{high, low}})

	res, err := svc.Discover(context.Background(), Query{Sort: SortRating})
	if err != nil {
		t.Fatal(err)
	}
	if res.Messes[0].MessID != "featured-low" {
		t.Fatalf("featured listing not first: got %s", res.Messes[0].MessID)
	}
}

func TestPriceSortsMonotonic(t *testing.T) {
	var messes []models.Mess
	prices := []float64{3200, 0, 1800, 4100, 2500}
	for i, p := range prices {
		m := activeMess(fmt.Sprintf("m%d", i))
		m.MonthlyPrice = p
		messes = append(messes, m)
	}
	svc := NewService(&memStore{messes: messes})

	res, err := svc.Discover(context.Background(), Query{Sort: SortPriceLow})
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(res.Messes); i++ {
		if res.Messes[i].EffectivePrice() < res.Messes[i-1].EffectivePrice() {
			t.Fatal("price_low sequence decreased")
		}
	}

	res, err = svc.Discover(context.Background(), Query{Sort: SortPriceHigh})
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(res.Messes); i++ {
		if res.Messes[i].EffectivePrice() > res.Messes[i-1].EffectivePrice() {
			t.Fatal("price_high sequence increased")
		}
	}
}

func TestVegFilterExcludesMixedDiet(t *testing.T) {
	pureVeg := activeMess("pure")
	mixed := activeMess("mixed")
	mixed.IsNonVeg = true // isVeg also true: mixed-diet
	svc := NewService(&memStore{messes: []models.Mess{pureVeg, mixed}})

	res, err := svc.Discover(context.Background(), Query{VegOnly: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Messes) != 1 || res.Messes[0].MessID != "pure" {
		t.Fatalf("veg filter returned %d messes, want only the strictly vegetarian one", len(res.Messes))
	}
}

func TestPaginationSecondPage(t *testing.T) {
	var messes []models.Mess
	for i := 0; i < 45; i++ {
		m := activeMess(fmt.Sprintf("m%02d", i))
		m.AvgRating = float64(45-i) / 10 // descending rating, stable ids
		messes = append(messes, m)
	}
	svc := NewService(&memStore{messes: messes})

	res, err := svc.Discover(context.Background(), Query{Page: 2, Limit: 20})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Messes) != 20 {
		t.Fatalf("expected 20 results on page 2, got %d", len(res.Messes))
	}
	if res.Pagination.Total != 45 || res.Pagination.TotalPages != 3 {
		t.Fatalf("pagination = %+v, want total 45 totalPages 3", res.Pagination)
	}
	if res.Messes[0].MessID != "m20" || res.Messes[19].MessID != "m39" {
		t.Fatalf("page 2 spans %s..%s, want m20..m39", res.Messes[0].MessID, res.Messes[19].MessID)
	}
}

func TestDistanceAnnotationAndSort(t *testing.T) {
	near := activeMess("near")
	near.Latitude, near.Longitude = 18.5912, 73.7380
	far := activeMess("far")
	far.Latitude, far.Longitude = 18.5074, 73.8077
	svc := NewService(&memStore{messes: []models.Mess{far, near}})

	res, err := svc.Discover(context.Background(), Query{
		Sort:     SortDistance,
		Location: &Location{Lat: 18.5912, Lng: 73.7380},
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Messes[0].MessID != "near" {
		t.Fatalf("distance sort put %s first", res.Messes[0].MessID)
	}
	if res.Messes[0].Distance == nil || *res.Messes[0].Distance != 0 {
		t.Fatal("expected zero distance annotation on co-located mess")
	}
	if res.Messes[1].Distance == nil || *res.Messes[1].Distance <= 0 {
		t.Fatal("expected positive distance annotation on far mess")
	}
}

func TestDistanceSortWithoutLocationFallsBackToRating(t *testing.T) {
	best := activeMess("best")
	best.AvgRating = 4.8
	worst := activeMess("worst")
	worst.AvgRating = 3.1
	svc := NewService(&memStore{messes: []models.Mess{worst, best}})

	res, err := svc.Discover(context.Background(), Query{Sort: SortDistance})
	if err != nil {
		t.Fatal(err)
	}
	if res.Messes[0].MessID != "best" {
		t.Fatal("expected rating fallback when sorting by distance without location")
	}
	if res.Messes[0].Distance != nil {
		t.Fatal("distance must be omitted without a caller location")
	}
}

func TestOpenNowExcludesOvernightWindow(t *testing.T) {
	overnight := activeMess("overnight")
	overnight.OpenTime, overnight.CloseTime = "22:00", "02:00"
	daytime := activeMess("daytime")
	svc := NewService(&memStore{messes: []models.Mess{overnight, daytime}})

	for _, hour := range []int{0, 6, 12, 18, 23} {
		svc.now = func() time.Time {
			return time.Date(2025, 6, 1, hour, 30, 0, 0, time.Local)
		}
		res, err := svc.Discover(context.Background(), Query{OpenNow: true})
		if err != nil {
			t.Fatal(err)
		}
		for _, m := range res.Messes {
			if m.MessID == "overnight" {
				t.Fatalf("overnight window reported open at hour %d", hour)
			}
		}
	}
}

func TestDiscoverEmptyResult(t *testing.T) {
	svc := NewService(&memStore{})
	res, err := svc.Discover(context.Background(), Query{Search: "nothing matches"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Messes == nil || len(res.Messes) != 0 {
		t.Fatal("expected non-nil empty slice")
	}
	if res.Pagination.Total != 0 {
		t.Fatalf("expected total 0, got %d", res.Pagination.Total)
	}
}

func TestEndToEndVegRatingScenario(t *testing.T) {
	featuredVeg := activeMess("featured-veg")
	featuredVeg.IsFeatured = true
	featuredVeg.AvgRating = 3.9

	plainVeg := activeMess("plain-veg")
	plainVeg.AvgRating = 4.6

	nonVeg := activeMess("non-veg")
	nonVeg.IsVeg = false
	nonVeg.IsNonVeg = true
	nonVeg.AvgRating = 4.8

	svc := NewService(&memStore{messes: []models.Mess{featuredVeg, plainVeg, nonVeg}})

	res, err := svc.Discover(context.Background(), Query{
		VegOnly:   true,
		MinRating: 4,
		Sort:      SortRating,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Messes) != 1 || res.Messes[0].MessID != "plain-veg" {
		t.Fatalf("expected exactly the 4.6-rated veg mess, got %d results", len(res.Messes))
	}
}

package discovery

import (
	"net/http/httptest"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

func TestParseQuery(t *testing.T) {
	r := httptest.NewRequest("GET",
		"/api/messes?search=tiffin&cuisine=NORTH_INDIAN,CHINESE&priceRange=BUDGET&rating=4&isVeg=true&isOpen=true&sortBy=distance&lat=18.59&lng=73.73&page=2&limit=10", nil)

	q := ParseQuery(r)
	if q.Search != "tiffin" {
		t.Errorf("search = %q", q.Search)
	}
	if len(q.Cuisines) != 2 || q.Cuisines[0] != "NORTH_INDIAN" {
		t.Errorf("cuisines = %v", q.Cuisines)
	}
	if len(q.PriceTiers) != 1 || q.PriceTiers[0] != "BUDGET" {
		t.Errorf("priceTiers = %v", q.PriceTiers)
	}
	if q.MinRating != 4 || !q.VegOnly || !q.OpenNow || q.NonVeg {
		t.Errorf("flags = %+v", q)
	}
	if q.Sort != SortDistance {
		t.Errorf("sort = %q", q.Sort)
	}
	if q.Location == nil || q.Location.Lat != 18.59 || q.Location.Lng != 73.73 {
		t.Errorf("location = %+v", q.Location)
	}
	if q.Page != 2 || q.Limit != 10 {
		t.Errorf("pagination = %d/%d", q.Page, q.Limit)
	}
}

func TestParseQueryNoLocationWithoutBothCoords(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/messes?lat=18.59", nil)
	if q := ParseQuery(r); q.Location != nil {
		t.Fatal("location should require both lat and lng")
	}
}

func TestNormalizeDefaults(t *testing.T) {
	now := time.Now()
	q := Query{}
	q.Normalize(now)
	if q.Page != 1 || q.Limit != DefaultLimit {
		t.Fatalf("defaults = %d/%d", q.Page, q.Limit)
	}
	if q.Sort != SortRating {
		t.Fatalf("default sort = %q", q.Sort)
	}
	if !q.At.Equal(now) {
		t.Fatal("At not stamped")
	}
}

func TestNormalizeDistanceWithoutLocation(t *testing.T) {
	q := Query{Sort: SortDistance}
	q.Normalize(time.Now())
	if q.Sort != SortRating {
		t.Fatalf("expected rating fallback, got %q", q.Sort)
	}

	q = Query{Sort: SortDistance, Location: &Location{Lat: 1, Lng: 2}}
	q.Normalize(time.Now())
	if q.Sort != SortDistance {
		t.Fatal("distance sort dropped despite location")
	}
}

func TestFilterBSONAlwaysRequiresActive(t *testing.T) {
	filter := Query{}.FilterBSON()
	if filter["is_active"] != true {
		t.Fatal("is_active predicate missing")
	}

	filter = Query{Search: "x", VegOnly: true}.FilterBSON()
	if filter["is_active"] != true {
		t.Fatal("is_active predicate dropped when filters present")
	}
}

func TestFilterBSONVegCoupling(t *testing.T) {
	filter := Query{VegOnly: true}.FilterBSON()
	if filter["is_veg"] != true {
		t.Fatal("veg filter must require is_veg")
	}
	if filter["is_nonveg"] != false {
		t.Fatal("veg filter must exclude mixed-diet listings")
	}
}

func TestFilterBSONWhitespaceSearchIgnored(t *testing.T) {
	filter := Query{Search: "   "}.FilterBSON()
	if _, ok := filter["$or"]; ok {
		t.Fatal("whitespace-only search must not add predicates")
	}
}

func TestFilterBSONOpenWindow(t *testing.T) {
	at := time.Date(2025, 6, 1, 14, 30, 0, 0, time.Local)
	filter := Query{OpenNow: true, At: at}.FilterBSON()
	open, ok := filter["open_time"].(bson.M)
	if !ok || open["$lte"] != "14:30" {
		t.Fatalf("open_time predicate = %v", filter["open_time"])
	}
	closeP, ok := filter["close_time"].(bson.M)
	if !ok || closeP["$gte"] != "14:30" {
		t.Fatalf("close_time predicate = %v", filter["close_time"])
	}
}

func TestSortBSON(t *testing.T) {
	d := Query{Sort: SortRating}.SortBSON()
	if len(d) != 2 || d[0].Key != "is_featured" || d[0].Value != -1 || d[1].Key != "avg_rating" {
		t.Fatalf("rating sort = %v", d)
	}
	d = Query{Sort: SortPriceLow}.SortBSON()
	if len(d) != 1 || d[0].Key != "monthly_price" || d[0].Value != 1 {
		t.Fatalf("price_low sort = %v", d)
	}
	d = Query{Sort: SortPriceHigh}.SortBSON()
	if d[0].Value != -1 {
		t.Fatalf("price_high sort = %v", d)
	}
	// distance ordering stays app-side; its backing query keeps rating order
	d = Query{Sort: SortDistance}.SortBSON()
	if d[0].Key != "is_featured" {
		t.Fatalf("distance backing sort = %v", d)
	}
}

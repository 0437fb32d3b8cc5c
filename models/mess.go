package models

import "time"

type PriceRange string

const (
	PriceBudget   PriceRange = "BUDGET"
	PriceModerate PriceRange = "MODERATE"
	PricePremium  PriceRange = "PREMIUM"
)

func ValidPriceRange(p string) bool {
	switch PriceRange(p) {
	case PriceBudget, PriceModerate, PricePremium:
		return true
	}
	return false
}

var CuisineTypes = []string{
	"NORTH_INDIAN",
	"SOUTH_INDIAN",
	"CHINESE",
	"MAHARASHTRIAN",
	"GUJARATI",
	"BENGALI",
	"PUNJABI",
	"MULTI_CUISINE",
}

func ValidCuisine(c string) bool {
	for _, known := range CuisineTypes {
		if c == known {
			return true
		}
	}
	return false
}

type Mess struct {
	MessID       string     `json:"messid" bson:"messid"`
	Name         string     `json:"name" bson:"name"`
	Description  string     `json:"description,omitempty" bson:"description,omitempty"`
	Address      string     `json:"address" bson:"address"`
	Locality     string     `json:"locality" bson:"locality"`
	City         string     `json:"city" bson:"city"`
	Latitude     float64    `json:"latitude" bson:"latitude"`
	Longitude    float64    `json:"longitude" bson:"longitude"`
	Phone        string     `json:"phone" bson:"phone"`
	CuisineTypes []string   `json:"cuisineTypes" bson:"cuisine_types"`
	IsVeg        bool       `json:"isVeg" bson:"is_veg"`
	IsNonVeg     bool       `json:"isNonVeg" bson:"is_nonveg"`
	PriceRange   PriceRange `json:"priceRange" bson:"price_range"`
	MonthlyPrice float64    `json:"monthlyPrice,omitempty" bson:"monthly_price,omitempty"`
	PerMealPrice float64    `json:"perMealPrice,omitempty" bson:"per_meal_price,omitempty"`
	Photos       []string   `json:"photos,omitempty" bson:"photos,omitempty"`
	OpenTime     string     `json:"openTime" bson:"open_time"`
	CloseTime    string     `json:"closeTime" bson:"close_time"`
	AvgRating    float64    `json:"avgRating" bson:"avg_rating"`
	TotalReviews int        `json:"totalReviews" bson:"total_reviews"`
	TotalViews   int        `json:"totalViews" bson:"total_views"`
	IsVerified   bool       `json:"isVerified" bson:"is_verified"`
	IsActive     bool       `json:"isActive" bson:"is_active"`
	IsFeatured   bool       `json:"isFeatured" bson:"is_featured"`
	OwnerID      string     `json:"ownerId" bson:"owner_id"`
	CreatedAt    time.Time  `json:"createdAt" bson:"created_at"`
	UpdatedAt    time.Time  `json:"updatedAt" bson:"updated_at"`

	// Computed per request, never persisted.
	Distance *float64 `json:"distance,omitempty" bson:"-"`
}

// EffectivePrice is the numeric price used by the price sorts. A mess
// without a monthly price sorts as zero.
func (m Mess) EffectivePrice() float64 {
	return m.MonthlyPrice
}

type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

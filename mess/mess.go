package mess

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"foodlink/db"
	"foodlink/discovery"
	"foodlink/models"
	"foodlink/mq"
	"foodlink/rdx"
	"foodlink/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var service = discovery.NewService(discovery.NewMongoStore(db.MessCollection))

// GetMesses runs the listing discovery pipeline. First pages are cached
// briefly under the raw query string; the TTL is short because the
// open-now filter shifts with the clock.
func GetMesses(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	q := discovery.ParseQuery(r)

	cacheKey := ""
	if q.Page <= 1 {
		cacheKey = "messes:" + r.URL.RawQuery
		if cached, err := rdx.RdxGet(cacheKey); err == nil && cached != "" {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(cached))
			return
		}
	}

	res, err := service.Discover(ctx, q)
	if err != nil {
		log.Printf("discover failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch messes")
		return
	}

	payload := map[string]any{
		"listings":   res.Messes,
		"pagination": res.Pagination,
	}
	if cacheKey != "" {
		if data, err := json.Marshal(payload); err == nil {
			rdx.SetWithExpiry(cacheKey, string(data), time.Minute)
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, payload)
}

// GetMess returns a single mess with its menus and recent reviews, and
// bumps the view counter.
func GetMess(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	messID := ps.ByName("messid")
	cacheKey := "mess:" + messID

	// Cache hit still counts as a view.
	if cached, err := rdx.RdxGet(cacheKey); err == nil && cached != "" {
		recordView(messID)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(cached))
		return
	}

	var m models.Mess
	err := db.MessCollection.FindOne(ctx, bson.M{"messid": messID}).Decode(&m)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Mess not found")
		return
	}
	if err != nil {
		log.Printf("fetch mess %s: %v", messID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch mess")
		return
	}

	recordView(messID)

	payload := map[string]any{
		"mess":    m,
		"menus":   fetchMenus(ctx, messID),
		"reviews": fetchRecentReviews(ctx, messID),
	}
	if data, err := json.Marshal(payload); err == nil {
		rdx.SetWithExpiry(cacheKey, string(data), 2*time.Minute)
	}

	utils.RespondWithJSON(w, http.StatusOK, payload)
}

// recordView increments exactly the targeted mess's view counter. The
// counter is commutative; a lost increment under racing requests is
// acceptable.
func recordView(messID string) {
	_, err := db.MessCollection.UpdateOne(
		context.Background(),
		bson.M{"messid": messID},
		bson.M{"$inc": bson.M{"total_views": 1}},
	)
	if err != nil {
		log.Printf("view increment for %s failed: %v", messID, err)
	}
}

func fetchMenus(ctx context.Context, messID string) []models.Menu {
	cursor, err := db.MenuCollection.Find(ctx,
		bson.M{"messid": messID, "is_active": true},
		options.Find().SetSort(bson.D{{Key: "day_of_week", Value: 1}, {Key: "meal_type", Value: 1}}),
	)
	if err != nil {
		log.Printf("fetch menus for %s: %v", messID, err)
		return []models.Menu{}
	}
	defer cursor.Close(ctx)

	var menus []models.Menu
	if err := cursor.All(ctx, &menus); err != nil {
		return []models.Menu{}
	}
	if menus == nil {
		menus = []models.Menu{}
	}
	return menus
}

func fetchRecentReviews(ctx context.Context, messID string) []models.Review {
	cursor, err := db.ReviewsCollection.Find(ctx,
		bson.M{"messid": messID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(10),
	)
	if err != nil {
		log.Printf("fetch reviews for %s: %v", messID, err)
		return []models.Review{}
	}
	defer cursor.Close(ctx)

	var reviews []models.Review
	if err := cursor.All(ctx, &reviews); err != nil {
		return []models.Review{}
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	return reviews
}

// CreateMess registers a new listing. Owner or admin only; ownership is
// taken from the caller unless an admin assigns it explicitly.
func CreateMess(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()

	userID := utils.GetUserIDFromRequest(r)
	role := utils.GetRoleFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if role != models.RoleMessOwner && role != models.RoleAdmin {
		utils.RespondWithError(w, http.StatusForbidden, "Only mess owners can create listings")
		return
	}

	var m models.Mess
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if err := validateMess(&m); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if role != models.RoleAdmin || m.OwnerID == "" {
		m.OwnerID = userID
	}
	m.MessID = "mess" + utils.GenerateRandomString(14)
	m.IsVerified = role == models.RoleAdmin
	m.IsActive = true
	m.IsFeatured = false
	m.AvgRating = 0
	m.TotalReviews = 0
	m.TotalViews = 0
	m.Distance = nil
	m.CreatedAt = time.Now()
	m.UpdatedAt = m.CreatedAt

	if _, err := db.MessCollection.InsertOne(ctx, m); err != nil {
		log.Printf("insert mess: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create mess")
		return
	}

	go mq.Emit(context.Background(), "mess-created", models.Index{EntityType: "mess", EntityId: m.MessID, Method: "POST"})

	utils.RespondWithJSON(w, http.StatusCreated, m)
}

func validateMess(m *models.Mess) error {
	m.Name = strings.TrimSpace(m.Name)
	m.Address = strings.TrimSpace(m.Address)
	m.Locality = strings.TrimSpace(m.Locality)
	m.Phone = strings.TrimSpace(m.Phone)

	if m.Name == "" || m.Address == "" || m.Locality == "" || m.Phone == "" {
		return fmt.Errorf("name, address, locality and phone are required")
	}
	if m.City == "" {
		m.City = "Pune"
	}
	if m.Latitude < -90 || m.Latitude > 90 || m.Longitude < -180 || m.Longitude > 180 {
		return fmt.Errorf("coordinates out of range")
	}
	if m.MonthlyPrice < 0 || m.PerMealPrice < 0 {
		return fmt.Errorf("prices must be non-negative")
	}
	if m.PriceRange == "" {
		m.PriceRange = models.PriceModerate
	} else if !models.ValidPriceRange(string(m.PriceRange)) {
		return fmt.Errorf("unknown price range %q", m.PriceRange)
	}
	for _, c := range m.CuisineTypes {
		if !models.ValidCuisine(c) {
			return fmt.Errorf("unknown cuisine %q", c)
		}
	}
	if m.OpenTime == "" {
		m.OpenTime = "08:00"
	}
	if m.CloseTime == "" {
		m.CloseTime = "22:00"
	}
	open, ok := discovery.CanonicalHHMM(m.OpenTime)
	if !ok {
		return fmt.Errorf("open time must be HH:MM")
	}
	m.OpenTime = open
	close, ok := discovery.CanonicalHHMM(m.CloseTime)
	if !ok {
		return fmt.Errorf("close time must be HH:MM")
	}
	m.CloseTime = close
	return nil
}

type messUpdate struct {
	Name         *string   `json:"name"`
	Description  *string   `json:"description"`
	Address      *string   `json:"address"`
	Locality     *string   `json:"locality"`
	City         *string   `json:"city"`
	Phone        *string   `json:"phone"`
	Latitude     *float64  `json:"latitude"`
	Longitude    *float64  `json:"longitude"`
	CuisineTypes *[]string `json:"cuisineTypes"`
	IsVeg        *bool     `json:"isVeg"`
	IsNonVeg     *bool     `json:"isNonVeg"`
	PriceRange   *string   `json:"priceRange"`
	MonthlyPrice *float64  `json:"monthlyPrice"`
	PerMealPrice *float64  `json:"perMealPrice"`
	Photos       *[]string `json:"photos"`
	OpenTime     *string   `json:"openTime"`
	CloseTime    *string   `json:"closeTime"`

	// Admin-only flags
	IsFeatured *bool `json:"isFeatured"`
	IsVerified *bool `json:"isVerified"`
}

func (u messUpdate) setFields(isAdmin bool) (bson.M, error) {
	set := bson.M{}
	if u.Name != nil {
		if strings.TrimSpace(*u.Name) == "" {
			return nil, fmt.Errorf("name cannot be empty")
		}
		set["name"] = strings.TrimSpace(*u.Name)
	}
	if u.Description != nil {
		set["description"] = *u.Description
	}
	if u.Address != nil {
		set["address"] = *u.Address
	}
	if u.Locality != nil {
		set["locality"] = *u.Locality
	}
	if u.City != nil {
		set["city"] = *u.City
	}
	if u.Phone != nil {
		set["phone"] = *u.Phone
	}
	if u.Latitude != nil {
		if *u.Latitude < -90 || *u.Latitude > 90 {
			return nil, fmt.Errorf("latitude out of range")
		}
		set["latitude"] = *u.Latitude
	}
	if u.Longitude != nil {
		if *u.Longitude < -180 || *u.Longitude > 180 {
			return nil, fmt.Errorf("longitude out of range")
		}
		set["longitude"] = *u.Longitude
	}
	if u.CuisineTypes != nil {
		for _, c := range *u.CuisineTypes {
			if !models.ValidCuisine(c) {
				return nil, fmt.Errorf("unknown cuisine %q", c)
			}
		}
		set["cuisine_types"] = *u.CuisineTypes
	}
	if u.IsVeg != nil {
		set["is_veg"] = *u.IsVeg
	}
	if u.IsNonVeg != nil {
		set["is_nonveg"] = *u.IsNonVeg
	}
	if u.PriceRange != nil {
		if !models.ValidPriceRange(*u.PriceRange) {
			return nil, fmt.Errorf("unknown price range %q", *u.PriceRange)
		}
		set["price_range"] = *u.PriceRange
	}
	if u.MonthlyPrice != nil {
		if *u.MonthlyPrice < 0 {
			return nil, fmt.Errorf("monthly price must be non-negative")
		}
		set["monthly_price"] = *u.MonthlyPrice
	}
	if u.PerMealPrice != nil {
		if *u.PerMealPrice < 0 {
			return nil, fmt.Errorf("per-meal price must be non-negative")
		}
		set["per_meal_price"] = *u.PerMealPrice
	}
	if u.Photos != nil {
		set["photos"] = *u.Photos
	}
	if u.OpenTime != nil {
		open, ok := discovery.CanonicalHHMM(*u.OpenTime)
		if !ok {
			return nil, fmt.Errorf("open time must be HH:MM")
		}
		set["open_time"] = open
	}
	if u.CloseTime != nil {
		close, ok := discovery.CanonicalHHMM(*u.CloseTime)
		if !ok {
			return nil, fmt.Errorf("close time must be HH:MM")
		}
		set["close_time"] = close
	}
	if isAdmin {
		if u.IsFeatured != nil {
			set["is_featured"] = *u.IsFeatured
		}
		if u.IsVerified != nil {
			set["is_verified"] = *u.IsVerified
		}
	}
	return set, nil
}

// EditMess updates a listing. Caller must be the owner or an admin.
func EditMess(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	messID := ps.ByName("messid")

	m, status, msg := loadForMutation(ctx, r, messID)
	if status != 0 {
		utils.RespondWithError(w, status, msg)
		return
	}

	var update messUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	set, err := update.setFields(utils.GetRoleFromRequest(r) == models.RoleAdmin)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(set) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "No updatable fields in request")
		return
	}
	set["updated_at"] = time.Now()

	if _, err := db.MessCollection.UpdateOne(ctx, bson.M{"messid": messID}, bson.M{"$set": set}); err != nil {
		log.Printf("update mess %s: %v", messID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update mess")
		return
	}

	rdx.RdxDel("mess:" + messID)
	go mq.Emit(context.Background(), "mess-updated", models.Index{EntityType: "mess", EntityId: m.MessID, Method: "PUT"})

	var updated models.Mess
	if err := db.MessCollection.FindOne(ctx, bson.M{"messid": messID}).Decode(&updated); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to reload mess")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, updated)
}

// DeleteMess soft-deactivates a listing; it stays in the store but is
// invisible to discovery.
func DeleteMess(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	messID := ps.ByName("messid")

	m, status, msg := loadForMutation(ctx, r, messID)
	if status != 0 {
		utils.RespondWithError(w, status, msg)
		return
	}

	_, err := db.MessCollection.UpdateOne(ctx,
		bson.M{"messid": messID},
		bson.M{"$set": bson.M{"is_active": false, "updated_at": time.Now()}},
	)
	if err != nil {
		log.Printf("deactivate mess %s: %v", messID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete mess")
		return
	}

	rdx.RdxDel("mess:" + messID)
	go mq.Emit(context.Background(), "mess-deleted", models.Index{EntityType: "mess", EntityId: m.MessID, Method: "DELETE"})

	utils.SendResponse(w, http.StatusOK, nil, "Mess deleted successfully", nil)
}

// HardDeleteMess physically removes a listing. Admin only.
func HardDeleteMess(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	messID := ps.ByName("messid")

	if utils.GetRoleFromRequest(r) != models.RoleAdmin {
		utils.RespondWithError(w, http.StatusForbidden, "Admin only")
		return
	}

	res, err := db.MessCollection.DeleteOne(ctx, bson.M{"messid": messID})
	if err != nil {
		log.Printf("hard delete mess %s: %v", messID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete mess")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Mess not found")
		return
	}

	rdx.RdxDel("mess:" + messID)
	go mq.Emit(context.Background(), "mess-deleted", models.Index{EntityType: "mess", EntityId: messID, Method: "DELETE"})

	utils.SendResponse(w, http.StatusOK, nil, "Mess removed", nil)
}

// loadForMutation fetches the mess and checks that the caller may
// mutate it. A non-zero status means the request was rejected.
func loadForMutation(ctx context.Context, r *http.Request, messID string) (models.Mess, int, string) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		return models.Mess{}, http.StatusUnauthorized, "Unauthorized"
	}

	var m models.Mess
	err := db.MessCollection.FindOne(ctx, bson.M{"messid": messID}).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return models.Mess{}, http.StatusNotFound, "Mess not found"
	}
	if err != nil {
		log.Printf("fetch mess %s: %v", messID, err)
		return models.Mess{}, http.StatusInternalServerError, "Failed to fetch mess"
	}

	if m.OwnerID != userID && utils.GetRoleFromRequest(r) != models.RoleAdmin {
		return models.Mess{}, http.StatusForbidden, "Forbidden"
	}
	return m, 0, ""
}

package reviews

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"foodlink/db"
	"foodlink/models"
	"foodlink/mq"
	"foodlink/rdx"
	"foodlink/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetReviews lists reviews for a mess, newest first.
func GetReviews(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	messID := ps.ByName("messid")

	page := utils.ParseInt(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit := utils.ParseInt(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 10
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(page-1) * int64(limit)).
		SetLimit(int64(limit))

	cursor, err := db.ReviewsCollection.Find(ctx, bson.M{"messid": messID}, opts)
	if err != nil {
		log.Printf("fetch reviews for %s: %v", messID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to retrieve reviews")
		return
	}
	defer cursor.Close(ctx)

	var reviews []models.Review
	if err := cursor.All(ctx, &reviews); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode reviews")
		return
	}
	if reviews == nil {
		reviews = []models.Review{}
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"reviews": reviews})
}

type reviewBody struct {
	Rating        int    `json:"rating"`
	FoodRating    int    `json:"foodRating"`
	HygieneRating int    `json:"hygieneRating"`
	Comment       string `json:"comment"`
}

func (b reviewBody) validate() string {
	if b.Rating < 1 || b.Rating > 5 {
		return "Rating must be between 1 and 5"
	}
	if b.FoodRating != 0 && (b.FoodRating < 1 || b.FoodRating > 5) {
		return "Food rating must be between 1 and 5"
	}
	if b.HygieneRating != 0 && (b.HygieneRating < 1 || b.HygieneRating > 5) {
		return "Hygiene rating must be between 1 and 5"
	}
	return ""
}

// AddReview creates a review. One review per user per mess.
func AddReview(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	messID := ps.ByName("messid")

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	err := db.MessCollection.FindOne(ctx, bson.M{"messid": messID}).Err()
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Mess not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch mess")
		return
	}

	count, err := db.ReviewsCollection.CountDocuments(ctx, bson.M{"userid": userID, "messid": messID})
	if err != nil {
		log.Printf("check existing review: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if count > 0 {
		utils.RespondWithError(w, http.StatusConflict, "You have already reviewed this mess")
		return
	}

	var body reviewBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid review data")
		return
	}
	if msg := body.validate(); msg != "" {
		utils.RespondWithError(w, http.StatusBadRequest, msg)
		return
	}

	review := models.Review{
		ReviewID:      "rev" + utils.GenerateRandomString(16),
		MessID:        messID,
		UserID:        userID,
		Rating:        body.Rating,
		FoodRating:    body.FoodRating,
		HygieneRating: body.HygieneRating,
		Comment:       body.Comment,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	if _, err := db.ReviewsCollection.InsertOne(ctx, review); err != nil {
		log.Printf("insert review: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to add review")
		return
	}

	recomputeMessRating(ctx, messID)
	rdx.RdxDel("mess:" + messID)
	go mq.Emit(context.Background(), "review-added", models.Index{EntityType: "review", EntityId: review.ReviewID, Method: "POST", ItemType: "mess", ItemId: messID})

	utils.RespondWithJSON(w, http.StatusCreated, review)
}

// EditReview updates the caller's own review (admin may edit any).
func EditReview(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	reviewID := ps.ByName("reviewid")

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var review models.Review
	err := db.ReviewsCollection.FindOne(ctx, bson.M{"reviewid": reviewID}).Decode(&review)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Review not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch review")
		return
	}

	if review.UserID != userID && utils.GetRoleFromRequest(r) != models.RoleAdmin {
		utils.RespondWithError(w, http.StatusForbidden, "Forbidden")
		return
	}

	var body reviewBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid review data")
		return
	}
	if msg := body.validate(); msg != "" {
		utils.RespondWithError(w, http.StatusBadRequest, msg)
		return
	}

	_, err = db.ReviewsCollection.UpdateOne(ctx,
		bson.M{"reviewid": reviewID},
		bson.M{"$set": bson.M{
			"rating":         body.Rating,
			"food_rating":    body.FoodRating,
			"hygiene_rating": body.HygieneRating,
			"comment":        body.Comment,
			"updated_at":     time.Now(),
		}},
	)
	if err != nil {
		log.Printf("update review %s: %v", reviewID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update review")
		return
	}

	recomputeMessRating(ctx, review.MessID)
	rdx.RdxDel("mess:" + review.MessID)

	utils.SendResponse(w, http.StatusOK, nil, "Review updated successfully", nil)
}

// DeleteReview removes the caller's own review (admin may delete any).
func DeleteReview(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	reviewID := ps.ByName("reviewid")

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var review models.Review
	err := db.ReviewsCollection.FindOne(ctx, bson.M{"reviewid": reviewID}).Decode(&review)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Review not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch review")
		return
	}

	if review.UserID != userID && utils.GetRoleFromRequest(r) != models.RoleAdmin {
		utils.RespondWithError(w, http.StatusForbidden, "Forbidden")
		return
	}

	if _, err := db.ReviewsCollection.DeleteOne(ctx, bson.M{"reviewid": reviewID}); err != nil {
		log.Printf("delete review %s: %v", reviewID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete review")
		return
	}

	recomputeMessRating(ctx, review.MessID)
	rdx.RdxDel("mess:" + review.MessID)

	utils.SendResponse(w, http.StatusOK, nil, "Review deleted successfully", nil)
}

// recomputeMessRating recalculates avg_rating and total_reviews from
// the review population.
func recomputeMessRating(ctx context.Context, messID string) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{{Key: "messid", Value: messID}}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "avg", Value: bson.D{{Key: "$avg", Value: "$rating"}}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cursor, err := db.ReviewsCollection.Aggregate(ctx, pipeline)
	if err != nil {
		log.Printf("recompute rating for %s: %v", messID, err)
		return
	}
	defer cursor.Close(ctx)

	var agg struct {
		Avg   float64 `bson:"avg"`
		Count int     `bson:"count"`
	}
	if cursor.Next(ctx) {
		if err := cursor.Decode(&agg); err != nil {
			log.Printf("decode rating aggregate for %s: %v", messID, err)
			return
		}
	}

	_, err = db.MessCollection.UpdateOne(ctx,
		bson.M{"messid": messID},
		bson.M{"$set": bson.M{"avg_rating": agg.Avg, "total_reviews": agg.Count}},
	)
	if err != nil {
		log.Printf("store recomputed rating for %s: %v", messID, err)
	}
}

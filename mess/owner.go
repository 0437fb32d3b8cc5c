package mess

import (
	"context"
	"log"
	"net/http"
	"time"

	"foodlink/db"
	"foodlink/models"
	"foodlink/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetMyMesses lists the caller's own messes for the dashboard,
// including deactivated ones.
func GetMyMesses(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	cursor, err := db.MessCollection.Find(ctx,
		bson.M{"owner_id": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		log.Printf("fetch owner messes for %s: %v", userID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch messes")
		return
	}
	defer cursor.Close(ctx)

	var messes []models.Mess
	if err := cursor.All(ctx, &messes); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode messes")
		return
	}
	if messes == nil {
		messes = []models.Mess{}
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"listings": messes})
}

type ownerStats struct {
	TotalMesses  int     `json:"totalMesses" bson:"total_messes"`
	TotalViews   int     `json:"totalViews" bson:"total_views"`
	TotalReviews int     `json:"totalReviews" bson:"total_reviews"`
	AvgRating    float64 `json:"avgRating" bson:"avg_rating"`
}

// GetOwnerStats aggregates dashboard numbers across the caller's messes.
func GetOwnerStats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{{Key: "owner_id", Value: userID}}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total_messes", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "total_views", Value: bson.D{{Key: "$sum", Value: "$total_views"}}},
			{Key: "total_reviews", Value: bson.D{{Key: "$sum", Value: "$total_reviews"}}},
			{Key: "avg_rating", Value: bson.D{{Key: "$avg", Value: "$avg_rating"}}},
		}}},
	}

	cursor, err := db.MessCollection.Aggregate(ctx, pipeline)
	if err != nil {
		log.Printf("owner stats for %s: %v", userID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to compute stats")
		return
	}
	defer cursor.Close(ctx)

	stats := ownerStats{}
	if cursor.Next(ctx) {
		if err := cursor.Decode(&stats); err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode stats")
			return
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, stats)
}

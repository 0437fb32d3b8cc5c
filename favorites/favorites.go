package favorites

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
)

// AddFavorite marks a mess as a favorite of the caller.
func AddFavorite(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
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

	count, err := db.FavoritesCollection.CountDocuments(ctx, bson.M{"userid": userID, "messid": messID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if count > 0 {
		utils.SendResponse(w, http.StatusOK, nil, "Already a favorite", nil)
		return
	}

	fav := models.Favorite{UserID: userID, MessID: messID, CreatedAt: time.Now()}
	if _, err := db.FavoritesCollection.InsertOne(ctx, fav); err != nil {
		log.Printf("insert favorite: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to add favorite")
		return
	}

	utils.SendResponse(w, http.StatusCreated, fav, "Added to favorites", nil)
}

// RemoveFavorite un-marks a favorite.
func RemoveFavorite(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	messID := ps.ByName("messid")

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	res, err := db.FavoritesCollection.DeleteOne(ctx, bson.M{"userid": userID, "messid": messID})
	if err != nil {
		log.Printf("delete favorite: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to remove favorite")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Favorite not found")
		return
	}

	utils.SendResponse(w, http.StatusOK, nil, "Removed from favorites", nil)
}

// GetFavorites lists the caller's favorite messes.
func GetFavorites(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	cursor, err := db.FavoritesCollection.Find(ctx, bson.M{"userid": userID})
	if err != nil {
		log.Printf("fetch favorites for %s: %v", userID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch favorites")
		return
	}
	defer cursor.Close(ctx)

	var favs []models.Favorite
	if err := cursor.All(ctx, &favs); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode favorites")
		return
	}

	ids := make([]string, 0, len(favs))
	for _, f := range favs {
		ids = append(ids, f.MessID)
	}

	messes := []models.Mess{}
	if len(ids) > 0 {
		mcur, err := db.MessCollection.Find(ctx, bson.M{"messid": bson.M{"$in": ids}, "is_active": true})
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch favorite messes")
			return
		}
		defer mcur.Close(ctx)
		if err := mcur.All(ctx, &messes); err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode favorite messes")
			return
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"favorites": messes})
}

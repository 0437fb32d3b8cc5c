package menu

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

// GetMenus returns the weekly menu of a mess.
func GetMenus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	messID := ps.ByName("messid")

	cursor, err := db.MenuCollection.Find(ctx,
		bson.M{"messid": messID, "is_active": true},
		options.Find().SetSort(bson.D{{Key: "day_of_week", Value: 1}, {Key: "meal_type", Value: 1}}),
	)
	if err != nil {
		log.Printf("fetch menus for %s: %v", messID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch menus")
		return
	}
	defer cursor.Close(ctx)

	var menus []models.Menu
	if err := cursor.All(ctx, &menus); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode menus")
		return
	}
	if menus == nil {
		menus = []models.Menu{}
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"menus": menus})
}

type menuBody struct {
	DayOfWeek   string   `json:"dayOfWeek"`
	MealType    string   `json:"mealType"`
	Items       []string `json:"items"`
	SpecialItem string   `json:"specialItem"`
}

func (b menuBody) validate() string {
	if !models.ValidDayOfWeek(b.DayOfWeek) {
		return "Invalid day of week"
	}
	if !models.ValidMealType(b.MealType) {
		return "Invalid meal type"
	}
	if len(b.Items) == 0 {
		return "Menu must list at least one item"
	}
	return ""
}

// CreateMenu adds a meal slot to a mess's weekly menu. Owner or admin.
func CreateMenu(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	messID := ps.ByName("messid")

	if status, msg := authorizeMessMutation(ctx, r, messID); status != 0 {
		utils.RespondWithError(w, status, msg)
		return
	}

	var body menuBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if msg := body.validate(); msg != "" {
		utils.RespondWithError(w, http.StatusBadRequest, msg)
		return
	}

	menu := models.Menu{
		MenuID:      "menu" + utils.GenerateRandomString(14),
		MessID:      messID,
		DayOfWeek:   models.DayOfWeek(body.DayOfWeek),
		MealType:    models.MealType(body.MealType),
		Items:       body.Items,
		SpecialItem: body.SpecialItem,
		IsActive:    true,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if _, err := db.MenuCollection.InsertOne(ctx, menu); err != nil {
		log.Printf("insert menu: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create menu")
		return
	}

	rdx.RdxDel("mess:" + messID)
	go mq.Emit(context.Background(), "menu-created", models.Index{EntityType: "menu", EntityId: menu.MenuID, Method: "POST", ItemType: "mess", ItemId: messID})

	utils.RespondWithJSON(w, http.StatusCreated, menu)
}

// EditMenu updates a meal slot. Owner or admin.
func EditMenu(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	messID := ps.ByName("messid")
	menuID := ps.ByName("menuid")

	if status, msg := authorizeMessMutation(ctx, r, messID); status != 0 {
		utils.RespondWithError(w, status, msg)
		return
	}

	var body menuBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if msg := body.validate(); msg != "" {
		utils.RespondWithError(w, http.StatusBadRequest, msg)
		return
	}

	res, err := db.MenuCollection.UpdateOne(ctx,
		bson.M{"menuid": menuID, "messid": messID},
		bson.M{"$set": bson.M{
			"day_of_week":  body.DayOfWeek,
			"meal_type":    body.MealType,
			"items":        body.Items,
			"special_item": body.SpecialItem,
			"updated_at":   time.Now(),
		}},
	)
	if err != nil {
		log.Printf("update menu %s: %v", menuID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update menu")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Menu not found")
		return
	}

	rdx.RdxDel("mess:" + messID)
	utils.SendResponse(w, http.StatusOK, nil, "Menu updated successfully", nil)
}

// DeleteMenu removes a meal slot. Owner or admin.
func DeleteMenu(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	messID := ps.ByName("messid")
	menuID := ps.ByName("menuid")

	if status, msg := authorizeMessMutation(ctx, r, messID); status != 0 {
		utils.RespondWithError(w, status, msg)
		return
	}

	res, err := db.MenuCollection.DeleteOne(ctx, bson.M{"menuid": menuID, "messid": messID})
	if err != nil {
		log.Printf("delete menu %s: %v", menuID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete menu")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Menu not found")
		return
	}

	rdx.RdxDel("mess:" + messID)
	utils.SendResponse(w, http.StatusOK, nil, "Menu deleted successfully", nil)
}

// authorizeMessMutation checks that the caller owns the mess or is an
// admin. A non-zero status means the request was rejected.
func authorizeMessMutation(ctx context.Context, r *http.Request, messID string) (int, string) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		return http.StatusUnauthorized, "Unauthorized"
	}

	var m models.Mess
	err := db.MessCollection.FindOne(ctx, bson.M{"messid": messID}).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return http.StatusNotFound, "Mess not found"
	}
	if err != nil {
		log.Printf("fetch mess %s: %v", messID, err)
		return http.StatusInternalServerError, "Failed to fetch mess"
	}

	if m.OwnerID != userID && utils.GetRoleFromRequest(r) != models.RoleAdmin {
		return http.StatusForbidden, "Forbidden"
	}
	return 0, ""
}

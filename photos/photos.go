package photos

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"foodlink/db"
	"foodlink/models"
	"foodlink/mq"
	"foodlink/rdx"
	"foodlink/utils"

	"github.com/disintegration/imaging"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	messPicDir = "./static/messpic"
	maxPhotos  = 10
)

func ensureDirExists(dir string) error {
	return os.MkdirAll(dir, 0755)
}

func processPhotoUpload(file *multipart.FileHeader, messID string) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open image file: %w", err)
	}
	defer src.Close()

	img, err := imaging.Decode(src)
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	fileName := messID + "_" + utils.GenerateRandomString(16) + ".jpg"

	originalPath := filepath.Join(messPicDir, fileName)
	thumbDir := filepath.Join(messPicDir, "thumb")
	thumbnailPath := filepath.Join(thumbDir, fileName)

	if err := ensureDirExists(messPicDir); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}
	if err := ensureDirExists(thumbDir); err != nil {
		return "", fmt.Errorf("failed to create thumbnail directory: %w", err)
	}

	if err := imaging.Save(img, originalPath); err != nil {
		return "", fmt.Errorf("failed to save original image: %w", err)
	}

	thumbImg := imaging.Resize(img, 300, 0, imaging.Lanczos)
	if err := imaging.Save(thumbImg, thumbnailPath); err != nil {
		return "", fmt.Errorf("failed to save thumbnail: %w", err)
	}

	return "/messpic/" + fileName, nil
}

// UploadMessPhotos accepts multipart image uploads for a mess and appends
// their public paths to the listing. Owner or admin only.
func UploadMessPhotos(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	messID := ps.ByName("messid")
	if status, msg := authorizePhotoMutation(ctx, r, messID); status != 0 {
		utils.RespondWithError(w, status, msg)
		return
	}

	if err := r.ParseMultipartForm(20 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	files := r.MultipartForm.File["photos"]
	if len(files) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "No photos provided")
		return
	}
	if len(files) > maxPhotos {
		utils.RespondWithError(w, http.StatusBadRequest, fmt.Sprintf("At most %d photos per upload", maxPhotos))
		return
	}

	var savedPaths []string
	for _, file := range files {
		if !utils.ValidateImageFileType(w, file) {
			return
		}
		path, err := processPhotoUpload(file, messID)
		if err != nil {
			log.Printf("photo upload for mess %s: %v", messID, err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to process photo")
			return
		}
		savedPaths = append(savedPaths, path)
	}

	_, err := db.MessCollection.UpdateOne(ctx,
		bson.M{"messid": messID},
		bson.M{
			"$push": bson.M{"photos": bson.M{"$each": savedPaths}},
			"$set":  bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update mess photos")
		return
	}

	rdx.RdxDel("mess:" + messID)
	go mq.Emit(context.Background(), "mess-photos-uploaded", models.Index{
		EntityType: "mess", EntityId: messID, Method: "PATCH",
	})

	utils.SendResponse(w, http.StatusOK, map[string]any{"photos": savedPaths}, "Photos uploaded", nil)
}

// DeleteMessPhoto removes a single photo path from a mess listing. The
// file on disk is left for the static cleaner.
func DeleteMessPhoto(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	messID := ps.ByName("messid")
	if status, msg := authorizePhotoMutation(ctx, r, messID); status != 0 {
		utils.RespondWithError(w, status, msg)
		return
	}

	var input struct {
		Photo string `json:"photo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Photo == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Photo path is required")
		return
	}

	res, err := db.MessCollection.UpdateOne(ctx,
		bson.M{"messid": messID},
		bson.M{
			"$pull": bson.M{"photos": input.Photo},
			"$set":  bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to remove photo")
		return
	}
	if res.ModifiedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Photo not found on this mess")
		return
	}

	rdx.RdxDel("mess:" + messID)
	utils.SendResponse(w, http.StatusOK, nil, "Photo removed", nil)
}

func authorizePhotoMutation(ctx context.Context, r *http.Request, messID string) (int, string) {
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

package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"foodlink/db"
	"foodlink/models"
	"foodlink/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

type googleConfig struct {
	config *oauth2.Config
}

type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

func newGoogleConfig() *googleConfig {
	clientID := os.Getenv("GOOGLE_CLIENT_ID")
	clientSecret := os.Getenv("GOOGLE_CLIENT_SECRET")
	if clientID == "" || clientSecret == "" {
		return nil
	}

	return &googleConfig{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
	}
}

func (g *googleConfig) exchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	return g.config.Exchange(ctx, code)
}

func (g *googleConfig) getUserInfo(accessToken string) (*googleUserInfo, error) {
	url := fmt.Sprintf("https://www.googleapis.com/oauth2/v2/userinfo?access_token=%s", accessToken)

	resp, err := http.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to get user info")
	}

	var userInfo googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}
	return &userInfo, nil
}

var googleOAuth = newGoogleConfig()

// GoogleLogin exchanges an OAuth authorization code for a session,
// creating a STUDENT account on first sign-in.
func GoogleLogin(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if googleOAuth == nil {
		utils.RespondWithError(w, http.StatusServiceUnavailable, "Google sign-in is not configured")
		return
	}

	var input struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Code == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Authorization code is required")
		return
	}

	token, err := googleOAuth.exchangeCode(r.Context(), input.Code)
	if err != nil {
		log.Printf("Google code exchange failed: %v", err)
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid authorization code")
		return
	}

	info, err := googleOAuth.getUserInfo(token.AccessToken)
	if err != nil {
		log.Printf("Google userinfo fetch failed: %v", err)
		utils.RespondWithError(w, http.StatusUnauthorized, "Failed to verify Google account")
		return
	}

	email := strings.ToLower(info.Email)

	var user models.User
	err = db.UserCollection.FindOne(r.Context(), bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		user = models.User{
			UserID:     "u" + utils.GenerateRandomString(10),
			Name:       info.Name,
			Email:      email,
			Avatar:     info.Picture,
			Role:       models.RoleStudent,
			GoogleID:   info.ID,
			IsVerified: info.VerifiedEmail,
			CreatedAt:  time.Now(),
			UpdatedAt:  time.Now(),
		}
		if _, err := db.UserCollection.InsertOne(r.Context(), user); err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create user")
			return
		}
	} else if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	} else if user.GoogleID == "" {
		// Link the Google identity to an existing credentials account.
		db.UserCollection.UpdateOne(r.Context(),
			bson.M{"userid": user.UserID},
			bson.M{"$set": bson.M{"google_id": info.ID, "updated_at": time.Now()}},
		)
	}

	issueSession(w, user)
}

package routes

import (
	"net/http"

	"foodlink/auth"
	"foodlink/favorites"
	"foodlink/menu"
	"foodlink/mess"
	"foodlink/middleware"
	"foodlink/photos"
	"foodlink/profile"
	"foodlink/ratelim"
	"foodlink/reviews"

	"github.com/julienschmidt/httprouter"
)

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/messpic/*filepath", http.Dir("static/messpic"))
}

func AddAuthRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/auth/register", rl.Limit(auth.Register))
	router.POST("/api/auth/login", rl.Limit(auth.Login))
	router.POST("/api/auth/google", rl.Limit(auth.GoogleLogin))
	router.POST("/api/auth/logout", middleware.Authenticate(auth.Logout))
	router.POST("/api/auth/token/refresh", rl.Limit(auth.RefreshToken))
}

func AddMessRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/messes", middleware.OptionalAuth(mess.GetMesses))
	router.GET("/api/messes/:messid", middleware.OptionalAuth(mess.GetMess))
	router.POST("/api/messes", rl.Limit(middleware.Authenticate(mess.CreateMess)))
	router.PUT("/api/messes/:messid", middleware.Authenticate(mess.EditMess))
	router.DELETE("/api/messes/:messid", middleware.Authenticate(mess.DeleteMess))
	router.DELETE("/api/admin/messes/:messid", middleware.Authenticate(mess.HardDeleteMess))

	router.POST("/api/messes/:messid/photos", rl.Limit(middleware.Authenticate(photos.UploadMessPhotos)))
	router.DELETE("/api/messes/:messid/photos", middleware.Authenticate(photos.DeleteMessPhoto))
}

func AddMenuRoutes(router *httprouter.Router) {
	router.GET("/api/messes/:messid/menus", menu.GetMenus)
	router.POST("/api/messes/:messid/menus", middleware.Authenticate(menu.CreateMenu))
	router.PUT("/api/messes/:messid/menus/:menuid", middleware.Authenticate(menu.EditMenu))
	router.DELETE("/api/messes/:messid/menus/:menuid", middleware.Authenticate(menu.DeleteMenu))
}

func AddReviewsRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/messes/:messid/reviews", reviews.GetReviews)
	router.POST("/api/messes/:messid/reviews", rl.Limit(middleware.Authenticate(reviews.AddReview)))
	router.PUT("/api/messes/:messid/reviews/:reviewid", middleware.Authenticate(reviews.EditReview))
	router.DELETE("/api/messes/:messid/reviews/:reviewid", middleware.Authenticate(reviews.DeleteReview))
}

func AddFavoritesRoutes(router *httprouter.Router) {
	router.GET("/api/favorites", middleware.Authenticate(favorites.GetFavorites))
	router.POST("/api/favorites/:messid", middleware.Authenticate(favorites.AddFavorite))
	router.DELETE("/api/favorites/:messid", middleware.Authenticate(favorites.RemoveFavorite))
}

func AddProfileRoutes(router *httprouter.Router) {
	router.GET("/api/profile", middleware.Authenticate(profile.GetProfile))
	router.PUT("/api/profile", middleware.Authenticate(profile.EditProfile))
	router.PUT("/api/profile/password", middleware.Authenticate(profile.ChangePassword))
}

func AddOwnerRoutes(router *httprouter.Router) {
	router.GET("/api/owner/messes", middleware.Authenticate(mess.GetMyMesses))
	router.GET("/api/owner/stats", middleware.Authenticate(mess.GetOwnerStats))
}

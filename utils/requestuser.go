package utils

import (
	"net/http"

	"foodlink/globals"
	"foodlink/models"
)

func GetUserIDFromRequest(r *http.Request) string {
	requestingUserID, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok {
		return ""
	}
	return requestingUserID
}

func GetRoleFromRequest(r *http.Request) models.Role {
	role, ok := r.Context().Value(globals.RoleKey).(string)
	if !ok {
		return ""
	}
	return models.Role(role)
}

package services

import "github.com/doviland/gestionale/internal/models"

// CanAccess decides whether a principal may touch a resource in the given
// area. Admins always pass; collaborators need the matching flag.
func CanAccess(user *models.User, area string) bool {
	if user == nil {
		return false
	}
	if user.IsAdmin() {
		return true
	}
	return user.Permissions.Allows(area)
}

// AllowedAreas computes the area set a principal may see in list queries.
// Admins get nil, meaning unrestricted; collaborators get their permitted
// areas, possibly an empty slice. Callers treat an empty slice as "show
// nothing" rather than as an error.
func AllowedAreas(user *models.User) []string {
	if user == nil {
		return []string{}
	}
	if user.IsAdmin() {
		return nil
	}

	allowed := make([]string, 0, 4)
	for _, area := range models.Areas() {
		if user.Permissions.Allows(area) {
			allowed = append(allowed, area)
		}
	}
	return allowed
}

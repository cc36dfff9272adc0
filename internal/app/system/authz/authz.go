// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"github.com/voluntahub/voluntahub/internal/app/system/auth"
)

// UserCtx returns the principal's role (lowercased), name, uid, and a found
// flag. ok=true means a valid, authenticated user. Role is normalized so
// callers can compare without casing surprises.
func UserCtx(r *http.Request) (role string, name string, uid string, ok bool) {
	u, ok := auth.CurrentUser(r)
	if !ok || u.UID == "" {
		return "visitor", "", "", false
	}
	return strings.ToLower(u.Role), u.Name, u.UID, true
}

// IsAdmin reports whether the current request's user holds the global admin
// role. Organization-scoped admin rights live in policy/orgpolicy, which
// also consults the organization's admin_uids.
func IsAdmin(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == "admin"
}

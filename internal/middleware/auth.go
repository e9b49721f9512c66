package middleware

import (
	"net/http"
	"strings"

	"github.com/templui/studyhall/internal/ctxkeys"
	"github.com/templui/studyhall/internal/respond"
	"github.com/templui/studyhall/internal/service"
)

// BearerAuth checks for a JWT in the Authorization header and adds user + profile to context if valid
func BearerAuth(authService *service.AuthService, userService *service.UserService, profileService *service.ProfileService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				// No token, continue without auth
				next.ServeHTTP(w, r)
				return
			}

			userID, err := authService.VerifyJWT(token)
			if err != nil {
				respond.Unauthorized(w, "invalid or expired token")
				return
			}

			user, err := userService.ByID(userID)
			if err != nil {
				respond.Unauthorized(w, "unknown user")
				return
			}

			profile, err := profileService.ByUserID(userID)
			if err != nil {
				respond.Unauthorized(w, "unknown user")
				return
			}

			ctx := ctxkeys.WithUser(r.Context(), user)
			ctx = ctxkeys.WithProfile(ctx, profile)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects requests that BearerAuth did not authenticate
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ctxkeys.User(r.Context()) == nil {
			w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
			respond.Unauthorized(w, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

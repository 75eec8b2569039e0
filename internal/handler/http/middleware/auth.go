package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/nydart/notification-service/internal/handler/http/response"
	"github.com/nydart/notification-service/internal/pkg/jwt"
)

// ServiceAuthRequired accepts only verified tokens of type "service". It
// must run after jwtauth.Verifier.
func ServiceAuthRequired(next http.Handler) http.Handler {
	hfn := func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())

		if err != nil {
			response.Unauthorized(w, err.Error())
			return
		}

		if token == nil {
			response.HandleError(w, jwt.ErrInvalidServiceToken)
			return
		}

		tokenType, ok := claims["type"].(string)
		if tokenType != jwt.TokenTypeService || !ok {
			response.HandleError(w, jwt.ErrInvalidServiceToken)
			return
		}

		next.ServeHTTP(w, r)
	}
	return http.HandlerFunc(hfn)
}

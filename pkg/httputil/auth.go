package httputil

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/medflow/idscan-service/pkg/errors"
	"github.com/medflow/idscan-service/pkg/logger"
	"github.com/medflow/idscan-service/pkg/permissions"
	"github.com/medflow/idscan-service/pkg/tenant"
)

// Authenticate validates HMAC-signed bearer tokens issued by the auth service and
// puts the user and tenant claims on the request context. An empty issuer skips
// the issuer check.
func Authenticate(secret, issuer string, log *logger.Logger) func(http.Handler) http.Handler {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"})}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	parser := jwt.NewParser(opts...)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				Error(w, errors.Unauthorized("missing authorization header"))
				return
			}

			scheme, tokenString, ok := strings.Cut(authHeader, " ")
			if !ok || scheme != "Bearer" || tokenString == "" {
				Error(w, errors.Unauthorized("invalid authorization header format"))
				return
			}

			claims := jwt.MapClaims{}
			token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
				}
				return []byte(secret), nil
			})
			if err != nil {
				log.Debug().Err(err).Msg("token validation failed")
				if errors.Is(err, jwt.ErrTokenExpired) {
					Error(w, errors.TokenExpired())
				} else {
					Error(w, errors.TokenInvalid())
				}
				return
			}
			if !token.Valid {
				Error(w, errors.TokenInvalid())
				return
			}

			userID, _ := claims["sub"].(string)
			role, _ := claims["role"].(string)
			ctx := WithUserContext(r.Context(), userID, role)
			ctx = WithPermissions(ctx, permissions.FromClaim(claims["permissions"]))

			tenantID, _ := claims["tenant_id"].(string)
			tenantSlug, _ := claims["tenant_slug"].(string)
			tenantSchema, _ := claims["tenant_schema"].(string)
			if tenantID != "" && tenant.ValidateSchema(tenantSchema) == nil {
				ctx = tenant.WithTenantContext(ctx, tenantID, tenantSlug, tenantSchema)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

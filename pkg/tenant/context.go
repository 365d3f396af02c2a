package tenant

import (
	"context"
	"errors"
	"regexp"
)

// contextKey is a private type for context keys to prevent collisions
type contextKey string

const (
	tenantIDKey     contextKey = "tenant_id"
	tenantSlugKey   contextKey = "tenant_slug"
	tenantSchemaKey contextKey = "tenant_schema"
)

var (
	// ErrNoTenantInContext is returned when tenant context is missing
	ErrNoTenantInContext = errors.New("no tenant in context")
	// ErrInvalidSchema is returned for schema names that are not plain identifiers
	ErrInvalidSchema = errors.New("invalid tenant schema name")
)

var schemaPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]{0,62}$`)

// ValidateSchema checks that schema is a lower-case PostgreSQL identifier.
// Tenant schemas arrive in headers and tokens, so they are checked before use.
func ValidateSchema(schema string) error {
	if !schemaPattern.MatchString(schema) {
		return ErrInvalidSchema
	}
	return nil
}

// WithTenantContext adds all tenant information to the context
func WithTenantContext(ctx context.Context, id, slug, schema string) context.Context {
	ctx = context.WithValue(ctx, tenantIDKey, id)
	ctx = context.WithValue(ctx, tenantSlugKey, slug)
	ctx = context.WithValue(ctx, tenantSchemaKey, schema)
	return ctx
}

// TenantID extracts tenant ID from context
func TenantID(ctx context.Context) (string, error) {
	return value(ctx, tenantIDKey)
}

// TenantSlug extracts tenant slug from context
func TenantSlug(ctx context.Context) (string, error) {
	return value(ctx, tenantSlugKey)
}

// TenantSchema extracts tenant schema name from context. Repositories use it to
// scope queries to the tenant.
func TenantSchema(ctx context.Context) (string, error) {
	return value(ctx, tenantSchemaKey)
}

func value(ctx context.Context, key contextKey) (string, error) {
	v, ok := ctx.Value(key).(string)
	if !ok || v == "" {
		return "", ErrNoTenantInContext
	}
	return v, nil
}

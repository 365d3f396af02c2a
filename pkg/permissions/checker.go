// Package permissions checks token permissions against what a route requires.
//
// Permission Format:
//   - "*" - Full access (all permissions)
//   - "resource.*" - All actions on a resource (e.g., "documents.*")
//   - "resource.action" - Specific action (e.g., "documents.scan")
package permissions

import (
	"strings"
)

// Permissions used by the idscan service.
const (
	DocumentsScan = "documents.scan"
	DocumentsRead = "documents.read"
)

// HasPermission checks if the user's permissions include the required permission.
// Supports wildcard matching:
//   - "*" matches everything
//   - "documents.*" matches "documents.scan", "documents.read", etc.
//   - Exact match for specific permissions
func HasPermission(userPerms []string, required string) bool {
	if required == "" {
		return true
	}

	for _, p := range userPerms {
		if p == "*" || p == required {
			return true
		}
		if prefix, ok := strings.CutSuffix(p, ".*"); ok && strings.HasPrefix(required, prefix+".") {
			return true
		}
	}
	return false
}

// HasAnyPermission checks if the user has any of the required permissions.
func HasAnyPermission(userPerms []string, required []string) bool {
	for _, req := range required {
		if HasPermission(userPerms, req) {
			return true
		}
	}
	return false
}

// FromClaim converts a decoded JWT claim into a permission list. Anything that is
// not a list of strings yields nil.
func FromClaim(claim interface{}) []string {
	raw, ok := claim.([]interface{})
	if !ok {
		return nil
	}
	perms := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok && s != "" {
			perms = append(perms, s)
		}
	}
	return perms
}

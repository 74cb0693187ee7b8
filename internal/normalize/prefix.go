package normalize

import "strings"

// DNAnexus object ID prefixes.
const (
	UserPrefix    = "user-"
	OrgPrefix     = "org-"
	ProjectPrefix = "project-"
)

// AddPrefix returns id with prefix prepended unless it is already present.
func AddPrefix(id, prefix string) string {
	if strings.HasPrefix(id, prefix) {
		return id
	}
	return prefix + id
}

// StripPrefix returns id without a leading prefix.
func StripPrefix(id, prefix string) string {
	return strings.TrimPrefix(id, prefix)
}

// UserID returns the canonical user-<name> form.
func UserID(name string) string {
	return AddPrefix(Trim(name), UserPrefix)
}

// Username returns the bare login name of a user ID.
func Username(id string) string {
	return StripPrefix(Trim(id), UserPrefix)
}

// OrgID returns the canonical org-<name> form.
func OrgID(name string) string {
	return AddPrefix(Trim(name), OrgPrefix)
}

func OrgName(id string) string {
	return StripPrefix(Trim(id), OrgPrefix)
}

// IsBillingAccount reports whether id names an account that projects can be billed to.
func IsBillingAccount(id string) bool {
	return strings.HasPrefix(id, UserPrefix) || strings.HasPrefix(id, OrgPrefix)
}

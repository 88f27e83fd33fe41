package domain

// Profile is the per-user row holding the catalog role.
type Profile struct {
	ID   string
	Role *string
}

// HasRole reports whether the profile carries exactly role.
func (p *Profile) HasRole(role string) bool {
	return p != nil && p.Role != nil && *p.Role == role
}

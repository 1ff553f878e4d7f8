package docstore

// PrincipalClass selects the default visibility profile.
type PrincipalClass string

const (
	PrincipalStaff    PrincipalClass = "staff"
	PrincipalClient   PrincipalClass = "client"
	PrincipalProspect PrincipalClass = "prospect"
)

// Valid reports whether c is a known class.
func (c PrincipalClass) Valid() bool {
	switch c {
	case PrincipalStaff, PrincipalClient, PrincipalProspect:
		return true
	}
	return false
}

// Principal is the authenticated actor.
type Principal struct {
	ID    string         `json:"id"`
	Email string         `json:"email,omitempty"`
	Class PrincipalClass `json:"class"`
	Roles []string       `json:"roles,omitempty"`
}

// HasRole reports whether the principal carries role.
func (p *Principal) HasRole(role string) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasPersonalRoot reports whether the principal's visibility is scoped to a personal root.
func (p *Principal) HasPersonalRoot() bool {
	return p.Class == PrincipalClient || p.Class == PrincipalProspect
}

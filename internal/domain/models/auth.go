package models

import (
	"github.com/golang-jwt/jwt/v5"

	"opsconsole/internal/domain/models/docstore"
)

// SupabaseClaims represents the JWT claims structure from Supabase Auth.
// See: https://supabase.com/docs/guides/auth/jwts
type SupabaseClaims struct {
	jwt.RegisteredClaims                          // Standard JWT claims (sub, iss, aud, exp, iat, etc.)
	Email                string                   `json:"email"`
	AppMetadata          map[string]interface{}   `json:"app_metadata"`
	UserMetadata         map[string]interface{}   `json:"user_metadata"`
	Role                 string                   `json:"role"` // "authenticated" or "anon"
	AAL                  string                   `json:"aal"`
	AMR                  []map[string]interface{} `json:"amr"`
	SessionID            string                   `json:"session_id"`
	IsAnonymous          bool                     `json:"is_anonymous"`
}

// GetUserID returns the user ID from the JWT subject claim.
func (c *SupabaseClaims) GetUserID() string {
	return c.Subject
}

// Principal builds the console principal from app_metadata.
// app_metadata.principal_class selects the visibility profile (default client);
// app_metadata.roles carries role names as a string array.
func (c *SupabaseClaims) Principal() docstore.Principal {
	p := docstore.Principal{
		ID:    c.Subject,
		Email: c.Email,
		Class: docstore.PrincipalClient,
	}

	if raw, ok := c.AppMetadata["principal_class"].(string); ok {
		if class := docstore.PrincipalClass(raw); class.Valid() {
			p.Class = class
		}
	}

	switch roles := c.AppMetadata["roles"].(type) {
	case []interface{}:
		for _, r := range roles {
			if s, ok := r.(string); ok && s != "" {
				p.Roles = append(p.Roles, s)
			}
		}
	case []string:
		p.Roles = append(p.Roles, roles...)
	}

	return p
}

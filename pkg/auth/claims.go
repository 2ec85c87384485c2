package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/verduraria/backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID uuid.UUID
	Role   enums.UserRole
	TaxID  *string
	JTI    string
}

// AccessTokenClaims represents the typed JWT issued to clients. TaxID rides
// along so customer-facing routes can scope loyalty and order lookups
// without a user fetch.
type AccessTokenClaims struct {
	UserID uuid.UUID      `json:"user_id"`
	Role   enums.UserRole `json:"role"`
	TaxID  *string        `json:"tax_id,omitempty"`
	jwt.RegisteredClaims
}

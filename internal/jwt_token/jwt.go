package jwttoken

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	dErrors "triad/pkg/domain-errors"
	authmw "triad/pkg/platform/middleware/auth"
)

// RoleOperator is the role allowed to reset the sentinel, adjust its
// sensitivity and read quarantine and audit data.
const RoleOperator = "operator"

// Claims represents the JWT claims of an operator token.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWTService issues and validates HS256 operator tokens bound to one issuer
// and audience.
type JWTService struct {
	signingKey []byte
	issuer     string
	audience   string
	parser     *jwt.Parser
}

func NewJWTService(signingKey string, issuer string, audience string) *JWTService {
	return &JWTService{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		audience:   audience,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(issuer),
			jwt.WithAudience(audience),
			jwt.WithExpirationRequired(),
		),
	}
}

// GenerateToken signs a token for subject carrying role.
func (s *JWTService) GenerateToken(subject, role string, expiresIn time.Duration) (string, error) {
	issuedAt := time.Now()
	claims := Claims{Role: role}
	claims.Subject = subject
	claims.Issuer = s.issuer
	claims.Audience = jwt.ClaimStrings{s.audience}
	claims.ID = uuid.NewString()
	claims.IssuedAt = jwt.NewNumericDate(issuedAt)
	claims.ExpiresAt = jwt.NewNumericDate(issuedAt.Add(expiresIn))

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "sign operator token")
	}
	return signed, nil
}

// ValidateToken parses raw and returns its claims. Every failure is an
// unauthorized domain error; expiry gets its own message.
func (s *JWTService) ValidateToken(raw string) (*Claims, error) {
	var claims Claims
	if _, err := s.parser.ParseWithClaims(raw, &claims, s.key); err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	if claims.Subject == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	return &claims, nil
}

func (s *JWTService) key(*jwt.Token) (any, error) {
	return s.signingKey, nil
}

// Validator exposes the service as the auth middleware's token validator.
func (s *JWTService) Validator() authmw.JWTValidator {
	return validatorFunc(func(raw string) (*authmw.JWTClaims, error) {
		claims, err := s.ValidateToken(raw)
		if err != nil {
			return nil, err
		}
		return &authmw.JWTClaims{Subject: claims.Subject, Role: claims.Role, JTI: claims.ID}, nil
	})
}

type validatorFunc func(raw string) (*authmw.JWTClaims, error)

func (f validatorFunc) ValidateToken(raw string) (*authmw.JWTClaims, error) { return f(raw) }

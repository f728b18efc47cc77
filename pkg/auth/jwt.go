package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Seat says which pieces a token holder may place.
type Seat string

const (
	SeatAny Seat = "any" // hot-seat: one browser plays both colours
	SeatA   Seat = "A"
	SeatB   Seat = "B"
)

var ErrInvalidToken = errors.New("invalid token")

// SeatClaims binds a token to one game and one seat.
type SeatClaims struct {
	GameID string `json:"game_id"`
	Seat   Seat   `json:"seat"`
	jwt.RegisteredClaims
}

// SeatTokens issues and checks seat tokens signed with HS256.
type SeatTokens struct {
	secret []byte
	ttl    time.Duration
}

func NewSeatTokens(secret string, ttl time.Duration) *SeatTokens {
	return &SeatTokens{secret: []byte(secret), ttl: ttl}
}

// Generate creates a token allowing seat to move in gameID.
func (s *SeatTokens) Generate(gameID string, seat Seat) (string, error) {
	now := time.Now()
	claims := &SeatClaims{
		GameID: gameID,
		Seat:   seat,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   gameID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Validate parses tokenString and checks it was issued for gameID.
func (s *SeatTokens) Validate(tokenString, gameID string) (*SeatClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SeatClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*SeatClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.GameID != gameID {
		return nil, ErrInvalidToken
	}
	switch claims.Seat {
	case SeatAny, SeatA, SeatB:
	default:
		return nil, ErrInvalidToken
	}

	return claims, nil
}

package httputil

import (
	"errors"
	"net/http"
	"strings"
)

const seatCookiePrefix = "seat_"

// SeatCookieName scopes the seat cookie to one game so a browser can hold
// seats in several games at once.
func SeatCookieName(gameID string) string {
	return seatCookiePrefix + gameID
}

func SetSeatCookie(w http.ResponseWriter, gameID, token string, maxAge int, secure bool) {
	cookie := &http.Cookie{
		Name:     SeatCookieName(gameID),
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
	}

	// SameSite=None requires Secure=true, so use Lax for development
	if secure {
		cookie.SameSite = http.SameSiteNoneMode
	} else {
		cookie.SameSite = http.SameSiteLaxMode
	}

	http.SetCookie(w, cookie)
}

// GetSeatToken prefers an explicit Authorization header and falls back to the
// game's seat cookie.
func GetSeatToken(r *http.Request, gameID string) (string, error) {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
			return token, nil
		}
		return authHeader, nil
	}

	cookie, err := r.Cookie(SeatCookieName(gameID))
	if err != nil || cookie.Value == "" {
		return "", errors.New("no seat token found in header or cookie")
	}
	return cookie.Value, nil
}

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const CookieName = "storefront_auth"

var ErrInvalidToken = errors.New("invalid auth token")

// Provider checks credentials and, on success, stamps the response with a
// signed session credential.
type Provider interface {
	Authenticate(w http.ResponseWriter, username, password string) bool
}

// FormsProvider authenticates against a fixed set of bcrypt password hashes
// and issues a session cookie signed with HMAC-SHA256.
type FormsProvider struct {
	users  map[string][]byte
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewFormsProvider(secret []byte, users map[string]string, ttl time.Duration) (*FormsProvider, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth secret must be at least 16 bytes")
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}

	hashed := make(map[string][]byte, len(users))
	for name, hash := range users {
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return nil, fmt.Errorf("password hash for %q: %w", name, err)
		}
		hashed[name] = []byte(hash)
	}

	return &FormsProvider{users: hashed, secret: secret, ttl: ttl, now: time.Now}, nil
}

func (p *FormsProvider) Authenticate(w http.ResponseWriter, username, password string) bool {
	hash, ok := p.users[username]
	if !ok {
		return false
	}
	if bcrypt.CompareHashAndPassword(hash, []byte(password)) != nil {
		return false
	}

	expires := p.now().Add(p.ttl)
	// no Expires or MaxAge: the cookie dies with the browser session
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    p.sign(username, expires),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return true
}

// Verify returns the user named by a valid, unexpired auth cookie.
func (p *FormsProvider) Verify(r *http.Request) (string, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return "", false
	}
	username, err := p.parse(c.Value)
	if err != nil {
		return "", false
	}
	return username, true
}

func (p *FormsProvider) sign(username string, expires time.Time) string {
	payload := username + "|" + strconv.FormatInt(expires.Unix(), 10)
	mac := hmac.New(sha256.New, p.secret)
	mac.Write([]byte(payload))

	return base64.RawURLEncoding.EncodeToString([]byte(payload)) + "." +
		base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func (p *FormsProvider) parse(token string) (string, error) {
	encPayload, encSig, ok := strings.Cut(token, ".")
	if !ok {
		return "", ErrInvalidToken
	}
	payload, err := base64.RawURLEncoding.DecodeString(encPayload)
	if err != nil {
		return "", ErrInvalidToken
	}
	sig, err := base64.RawURLEncoding.DecodeString(encSig)
	if err != nil {
		return "", ErrInvalidToken
	}

	mac := hmac.New(sha256.New, p.secret)
	mac.Write(payload)
	if !hmac.Equal(sig, mac.Sum(nil)) {
		return "", ErrInvalidToken
	}

	// the expiry never contains '|', usernames may
	sep := strings.LastIndexByte(string(payload), '|')
	if sep < 0 {
		return "", ErrInvalidToken
	}
	username, expStr := string(payload[:sep]), string(payload[sep+1:])
	exp, err := strconv.ParseInt(expStr, 10, 64)
	if err != nil {
		return "", ErrInvalidToken
	}
	if p.now().After(time.Unix(exp, 0)) {
		return "", fmt.Errorf("token expired: %w", ErrInvalidToken)
	}
	return username, nil
}

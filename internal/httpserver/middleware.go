package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"pizzapalace/internal/auth"
	"pizzapalace/internal/checkout"
	"pizzapalace/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	cartSessionHeader = "X-Cart-Session"
	cartSessionCookie = "pp_cart"
	cartCookieMaxAge  = 30 * 24 * 60 * 60

	ctxUser        = "pizzapalace.user"
	ctxToken       = "pizzapalace.token"
	ctxAuthErr     = "pizzapalace.auth_err"
	ctxCartSession = "pizzapalace.cart_session"
)

type AuthService interface {
	SignUp(ctx context.Context, in auth.SignUpInput) (*domain.User, error)
	SignIn(ctx context.Context, email, password string) (*auth.Session, error)
	SignOut(ctx context.Context, token string) (string, error)
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// authGate resolves a bearer token into the current user. Requests without a
// valid token continue anonymously.
func authGate(svc AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.Next()
			return
		}
		c.Set(ctxToken, token)
		u, err := svc.Authenticate(c.Request.Context(), token)
		if err != nil {
			c.Set(ctxAuthErr, err)
			c.Next()
			return
		}
		c.Set(ctxUser, u)
		c.Next()
	}
}

// requireAuth rejects anonymous requests with 401 and a login redirect hint.
func requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentUser(c) != nil {
			c.Next()
			return
		}
		msg := "authentication required"
		if v, ok := c.Get(ctxAuthErr); ok {
			if err, _ := v.(error); errors.Is(err, auth.ErrExpiredToken) {
				msg = "session expired"
			}
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg, "redirect": checkout.LoginPath})
	}
}

// cartSession identifies the client's cart by header or cookie, issuing a new
// id on first contact.
func cartSession(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(cartSessionHeader))
		if id == "" {
			if v, err := c.Cookie(cartSessionCookie); err == nil {
				id = v
			}
		}
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cartSessionCookie, id, cartCookieMaxAge, "/", "", secure, true)
		}
		c.Header(cartSessionHeader, id)
		c.Set(ctxCartSession, id)
		c.Next()
	}
}

func bearerToken(header string) string {
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

func currentUser(c *gin.Context) *domain.User {
	v, ok := c.Get(ctxUser)
	if !ok {
		return nil
	}
	u, _ := v.(*domain.User)
	return u
}

func cartSessionID(c *gin.Context) string {
	return c.GetString(ctxCartSession)
}

package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/knowledge-base/domain"
	"github.com/Guyuepp/knowledge-base/internal/auth"
)

const (
	actorKey  = "actor"
	userIDKey = "user_id"

	// AccessTokenParam carries the token for clients that cannot set headers, such as browser websockets.
	AccessTokenParam = "access_token"
)

// TokenParser validates bearer tokens.
type TokenParser interface {
	Parse(raw string) (auth.Claims, error)
}

func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if scheme, token, ok := strings.Cut(header, " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}
	return c.Query(AccessTokenParam)
}

func authenticate(c *gin.Context, parser TokenParser) (domain.Actor, error) {
	raw := extractToken(c)
	if raw == "" {
		return domain.Actor{}, domain.ErrUnauthorized
	}
	claims, err := parser.Parse(raw)
	if err != nil {
		return domain.Actor{}, err
	}
	return claims.Actor()
}

func setActor(c *gin.Context, actor domain.Actor) {
	c.Set(actorKey, actor)
	c.Set(userIDKey, actor.UserID)
}

// Auth rejects requests without a valid token and stores the actor in the context.
func Auth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := authenticate(c, parser)
		if err != nil {
			logrus.WithField("path", c.FullPath()).Debugf("authentication failed: %v", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "authentication required"})
			return
		}
		setActor(c, actor)
		c.Next()
	}
}

// OptionalAuth stores the actor when a valid token is present and never rejects.
func OptionalAuth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		if actor, err := authenticate(c, parser); err == nil {
			setActor(c, actor)
		}
		c.Next()
	}
}

// RequireManager must run after Auth.
func RequireManager() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "authentication required"})
			return
		}
		if actor.Role != domain.RoleManager {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": domain.ErrForbidden.Error()})
			return
		}
		c.Next()
	}
}

// ActorFrom returns the actor stored by Auth or OptionalAuth.
func ActorFrom(c *gin.Context) (domain.Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return domain.Actor{}, false
	}
	actor, ok := v.(domain.Actor)
	return actor, ok
}

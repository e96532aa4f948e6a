package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	identityKey    = "identity"
	identityHeader = "X-User-Identity"
)

var errNoSubject = errors.New("token has no subject")

// identity кладёт в контекст идентификатор пользователя. Сессии выдаёт внешний сервис:
// с JWT_SECRET проверяется Bearer-токен, без него доверяем заголовку X-User-Identity.
// Пустой идентификатор не отклоняется здесь, это решают сервисы
func (s *Server) identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		var identity string

		if len(s.jwtSecret) > 0 {
			if raw, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer "); ok {
				id, err := parseIdentity(raw, s.jwtSecret)
				if err != nil {
					s.logger.Debug("Rejected bearer token", zap.Error(err))
					c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
					return
				}
				identity = id
			}
		} else {
			identity = strings.TrimSpace(c.GetHeader(identityHeader))
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

func parseIdentity(raw string, secret []byte) (string, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errNoSubject
	}

	sub, _ := claims.GetSubject()
	if sub == "" {
		sub, _ = claims["username"].(string)
	}
	if sub == "" {
		return "", errNoSubject
	}
	return sub, nil
}

func identityFrom(c *gin.Context) string {
	return c.GetString(identityKey)
}

// limiterStore держит token bucket на каждого пользователя (или IP для анонимов)
type limiterStore struct {
	mu          sync.Mutex
	entries     map[string]*limiterEntry
	rps         rate.Limit
	burst       int
	idleTTL     time.Duration
	lastCleanup time.Time
}

type limiterEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

func newLimiterStore(rps float64, burst int) *limiterStore {
	if rps <= 0 {
		rps = 5
	}
	if burst < 1 {
		burst = 10
	}
	return &limiterStore{
		entries:     make(map[string]*limiterEntry),
		rps:         rate.Limit(rps),
		burst:       burst,
		idleTTL:     15 * time.Minute,
		lastCleanup: time.Now(),
	}
}

func (s *limiterStore) allow(key string) bool {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if now.Sub(s.lastCleanup) > s.idleTTL {
		for k, ent := range s.entries {
			if now.Sub(ent.lastSeen) > s.idleTTL {
				delete(s.entries, k)
			}
		}
		s.lastCleanup = now
	}

	ent, ok := s.entries[key]
	if !ok {
		ent = &limiterEntry{lim: rate.NewLimiter(s.rps, s.burst)}
		s.entries[key] = ent
	}
	ent.lastSeen = now
	return ent.lim.Allow()
}

func (s *Server) rateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := identityFrom(c)
		if key == "" {
			key = "ip:" + c.ClientIP()
		}

		if !s.limiter.allow(key) {
			s.logger.Warn("Rate limit exceeded", zap.String("key", key))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded, try again later"})
			return
		}
		c.Next()
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		s.logger.Debug("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

package auth

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// GateConfig names the header carrying the token and the prefix in front of it.
type GateConfig struct {
	HeaderName   string
	HeaderPrefix string
}

// Gate attaches a Principal to requests bearing a valid, unexpired token.
//
// Requests without a usable token continue anonymously: the gate never rejects a
// request. Routes that need an identity must add RequireAuthenticated.
type Gate struct {
	cfg    GateConfig
	tokens TokenDecoder
	logger *zap.Logger
	now    func() time.Time
}

// NewGate constructs the middleware.
func NewGate(cfg GateConfig, tokens TokenDecoder, logger *zap.Logger) *Gate {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gate{cfg: cfg, tokens: tokens, logger: logger, now: time.Now}
}

// Handle resolves the principal, if any, and always forwards the request.
func (g *Gate) Handle(c *fiber.Ctx) error {
	if principal, ok := g.authenticate(c.Get(g.cfg.HeaderName)); ok {
		c.Locals(principalKey, principal)
		c.SetUserContext(WithPrincipal(c.UserContext(), principal))
	}
	return c.Next()
}

func (g *Gate) authenticate(header string) (*Principal, bool) {
	if header == "" || !strings.HasPrefix(header, g.cfg.HeaderPrefix) {
		return nil, false
	}

	raw := strings.TrimSpace(strings.TrimPrefix(header, g.cfg.HeaderPrefix))
	token, err := g.tokens.Decode(raw)
	if err != nil {
		g.logger.Debug("token rejected", zap.Error(err))
		return nil, false
	}
	if token.ExpiredAt(g.now()) {
		g.logger.Debug("token expired", zap.Time("expires_at", token.ExpiresAt))
		return nil, false
	}
	if token.Subject == "" {
		return nil, false
	}

	return &Principal{Subject: token.Subject}, true
}

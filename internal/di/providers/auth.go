package providers

import (
	"encoding/hex"
	"time"

	"github.com/samber/do/v2"

	"github.com/tublog/tublog-server/internal/auth"
	"github.com/tublog/tublog-server/internal/config"
	"github.com/tublog/tublog-server/internal/logger"
	"github.com/tublog/tublog-server/internal/ratelimit"
)

// AuthKey wraps the authentication key bytes.
type AuthKey []byte

// ProvideAuthKey loads or generates the authentication key.
func ProvideAuthKey(i do.Injector) (AuthKey, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	key, err := auth.LoadOrGenerateKey(cfg.Storage.DataDir)
	if err != nil {
		return nil, err
	}

	cfg.Auth.AccessTokenKey = key

	log.Info("Authentication key loaded",
		"access_token_duration", cfg.Auth.AccessTokenDuration,
		"refresh_token_duration", cfg.Auth.RefreshTokenDuration,
	)

	return AuthKey(key), nil
}

// ProvideTokenService provides the PASETO token service.
func ProvideTokenService(i do.Injector) (*auth.TokenService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	authKey := do.MustInvoke[AuthKey](i)

	keyHex := hex.EncodeToString([]byte(authKey))
	return auth.NewTokenService(keyHex, cfg.Auth.AccessTokenDuration, cfg.Auth.RefreshTokenDuration)
}

// loginRefill is how often a throttled client earns back one attempt.
const loginRefill = 6 * time.Second

// ProvideLoginRateLimiter provides the per-IP limiter for login and signup.
// The limiter implements do.Shutdownable, which stops its janitor.
func ProvideLoginRateLimiter(i do.Injector) (*ratelimit.KeyedRateLimiter, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return ratelimit.New(loginRefill, cfg.Auth.LoginRateBurst), nil
}

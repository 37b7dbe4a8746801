package internal

import (
	"fmt"
	"os"
	"time"

	"github.com/funnytourism/tourprice/internal/config"
	"github.com/funnytourism/tourprice/internal/logger"
	"github.com/funnytourism/tourprice/internal/rest/middleware"
	"github.com/golang-jwt/jwt/v4"
)

// GenerateToken prints a bearer token for USER_ID, scoped to AGENT_ID when set
func GenerateToken() error {
	cfg, err := config.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Auth.Secret == "" {
		return fmt.Errorf("auth.secret is not configured")
	}

	userID := os.Getenv("USER_ID")
	if userID == "" {
		return fmt.Errorf("USER_ID is required")
	}

	now := time.Now()
	claims := middleware.Claims{
		AgentID: os.Getenv("AGENT_ID"),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(30 * 24 * time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.Auth.Secret))
	if err != nil {
		return fmt.Errorf("failed to sign token: %w", err)
	}

	fmt.Printf("\nToken for %s", userID)
	if claims.AgentID != "" {
		fmt.Printf(" (agent %s)", claims.AgentID)
	}
	fmt.Printf(", valid until %s:\n\n%s\n", claims.ExpiresAt.Format(time.RFC3339), token)
	return nil
}

// newScriptLogger builds a logger from cfg, falling back to the global one
func newScriptLogger(cfg *config.Configuration) (*logger.Logger, error) {
	log, err := logger.NewLogger(cfg)
	if err != nil {
		if logger.L == nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
		logger.L.Warnw("falling back to default logger", "error", err)
		return logger.L, nil
	}
	return log, nil
}

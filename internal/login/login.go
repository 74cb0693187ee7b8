// Package login resolves the API credential a command acts with.
package login

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/stanfordbioinformatics/gbsc-dnanexus/internal/normalize"
	"github.com/stanfordbioinformatics/gbsc-dnanexus/internal/registry"
)

const (
	// EnvSecurityContext holds the JSON credential blob used by the dx toolkit.
	EnvSecurityContext = "DX_SECURITY_CONTEXT"
	// EnvLoginHelper names an executable run as "<helper> -u <user>" before a command.
	EnvLoginHelper = "DX_LOGIN_HELPER"
)

const defaultTokenType = "Bearer"

// SecurityContext is the decoded DX_SECURITY_CONTEXT value.
type SecurityContext struct {
	TokenType string `json:"auth_token_type"`
	Token     string `json:"auth_token"`
}

// ParseSecurityContext decodes a DX_SECURITY_CONTEXT blob. The token type
// defaults to Bearer.
func ParseSecurityContext(raw string) (SecurityContext, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return SecurityContext{}, errors.New("security context is empty")
	}
	var sc SecurityContext
	if err := json.Unmarshal([]byte(raw), &sc); err != nil {
		return SecurityContext{}, fmt.Errorf("parse %s: %w", EnvSecurityContext, err)
	}
	sc.Token = strings.TrimSpace(sc.Token)
	if sc.Token == "" {
		return SecurityContext{}, fmt.Errorf("%s has no auth_token", EnvSecurityContext)
	}
	if strings.TrimSpace(sc.TokenType) == "" {
		sc.TokenType = defaultTokenType
	}
	return sc, nil
}

// Credential is a resolved API token and where it came from.
type Credential struct {
	User      string
	Token     string
	TokenType string
	Source    string
}

// Resolve returns the token for user. A registry entry wins; a security context
// blob is the fallback. With neither, the registry's error is returned so the
// caller sees KindUnknownUsername or KindMissingToken.
func Resolve(reg *registry.Registry, user, securityContext string) (Credential, error) {
	userID := normalize.UserID(user)
	token, regErr := reg.Token(userID)
	if regErr == nil {
		return Credential{User: userID, Token: token, TokenType: defaultTokenType, Source: reg.Source()}, nil
	}
	if strings.TrimSpace(securityContext) == "" {
		return Credential{}, regErr
	}
	sc, err := ParseSecurityContext(securityContext)
	if err != nil {
		return Credential{}, errors.Join(regErr, err)
	}
	return Credential{User: userID, Token: sc.Token, TokenType: sc.TokenType, Source: EnvSecurityContext}, nil
}

// RunHelper runs the login helper for user. An empty path is a no-op.
func RunHelper(ctx context.Context, path, user string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	username := normalize.Username(user)
	if username == "" {
		return errors.New("login helper: user name is required")
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, "-u", username)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return fmt.Errorf("login helper %s failed: %w: %s", path, err, msg)
		}
		return fmt.Errorf("login helper %s failed: %w", path, err)
	}
	return nil
}

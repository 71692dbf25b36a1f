// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package secrets

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	xglog "github.com/ManuGH/deploycfg/internal/log"
)

// DefaultSpec is used when no secret source is configured.
const DefaultSpec = "env"

// Open builds a Chain from a comma-separated source spec:
//
//	env                 process environment
//	dotenv:<path>       dotenv file layered under the environment
//	redis://host:port/N Redis, optional password in userinfo
//	badger:<dir>        local badger store
func Open(ctx context.Context, spec string) (*Chain, error) {
	if strings.TrimSpace(spec) == "" {
		spec = DefaultSpec
	}
	logger := xglog.WithComponent("secrets")

	chain := NewChain()
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		src, err := openOne(ctx, part)
		if err != nil {
			_ = chain.Close()
			return nil, err
		}
		logger.Debug().
			Str(xglog.FieldEvent, "secrets.source.open").
			Str(xglog.FieldSecretSource, src.Name()).
			Msg("secret source opened")
		chain.sources = append(chain.sources, src)
	}
	if len(chain.sources) == 0 {
		return nil, fmt.Errorf("secret source spec %q names no sources", spec)
	}
	return chain, nil
}

func openOne(ctx context.Context, part string) (Source, error) {
	switch {
	case part == "env":
		return NewEnvSource(""), nil
	case strings.HasPrefix(part, "dotenv:"):
		return NewDotenvSource(strings.TrimPrefix(part, "dotenv:"), "")
	case strings.HasPrefix(part, "badger:"):
		return OpenBadgerSource(strings.TrimPrefix(part, "badger:"))
	case strings.HasPrefix(part, "redis://"):
		cfg, err := parseRedisURL(part)
		if err != nil {
			return nil, err
		}
		return NewRedisSource(ctx, cfg, xglog.WithComponent("secrets"))
	default:
		return nil, fmt.Errorf("unknown secret source %q", redactSpec(part))
	}
}

func parseRedisURL(raw string) (RedisConfig, error) {
	u, err := url.Parse(raw)
	if err != nil {
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return RedisConfig{}, fmt.Errorf("parse redis source %q: %w", redactSpec(raw), err)
	}
	cfg := RedisConfig{Addr: u.Host}
	if cfg.Addr == "" {
		return RedisConfig{}, fmt.Errorf("redis source %q has no host", u.Redacted())
	}
	if pw, ok := u.User.Password(); ok {
		cfg.Password = pw
	}
	if db := strings.Trim(u.Path, "/"); db != "" {
		n, err := strconv.Atoi(db)
		if err != nil || n < 0 {
			return RedisConfig{}, fmt.Errorf("redis source %q: invalid database %q", u.Redacted(), db)
		}
		cfg.DB = n
	}
	cfg.Prefix = u.Query().Get("prefix")
	return cfg, nil
}

// redactSpec hides the password of a URL-shaped source spec, also when the
// spec does not parse.
func redactSpec(raw string) string {
	if u, err := url.Parse(raw); err == nil {
		return u.Redacted()
	}
	at := strings.LastIndex(raw, "@")
	scheme := strings.Index(raw, "://")
	if at < 0 || scheme < 0 || scheme > at {
		return raw
	}
	return raw[:scheme+3] + "xxxxx" + raw[at:]
}

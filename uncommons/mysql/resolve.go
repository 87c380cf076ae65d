package mysql

import (
	"context"
	"strconv"
	"strings"

	constant "github.com/mystrive/lib-dbconn/uncommons/constants"
	"github.com/mystrive/lib-dbconn/uncommons/log"
)

// Resolution is a resolved Config plus what had to be substituted.
//
// Missing and Defaulted use the environment variable names and follow
// constant.ConnectionEnvVars order.
type Resolution struct {
	Config    Config
	Missing   []string
	Defaulted []string
}

// Complete reports whether every variable came from the environment.
func (r Resolution) Complete() bool {
	return len(r.Missing) == 0
}

// ResolveConfig reads the connection variables and returns the resulting
// Config. It never fails; an incomplete Config is rejected later by Acquire.
func (p *Provider) ResolveConfig(ctx context.Context) Config {
	return p.Resolve(ctx).Config
}

// Resolve is ResolveConfig with the bookkeeping of missing and defaulted variables.
func (p *Provider) Resolve(ctx context.Context) Resolution {
	if ctx == nil {
		ctx = context.Background()
	}

	var res Resolution

	lookup := func(key string) (string, bool) {
		value, ok := p.lookupEnv(key)
		value = strings.TrimSpace(value)

		if !ok || value == "" {
			res.Missing = append(res.Missing, key)
			return "", false
		}

		return value, true
	}

	host, ok := lookup(constant.EnvHost)
	if !ok {
		host = DefaultHost
		res.Defaulted = append(res.Defaulted, constant.EnvHost)
	}

	port := DefaultPort
	if raw, ok := lookup(constant.EnvPort); ok {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxPort {
			p.logger.Log(ctx, log.LevelWarn, "ignoring invalid mysql port", log.String("variable", constant.EnvPort))
			res.Missing = append(res.Missing, constant.EnvPort)
			res.Defaulted = append(res.Defaulted, constant.EnvPort)
		} else {
			port = parsed
		}
	} else {
		res.Defaulted = append(res.Defaulted, constant.EnvPort)
	}

	database, ok := lookup(constant.EnvDatabaseName)
	if !ok {
		database = DefaultDatabaseName
		res.Defaulted = append(res.Defaulted, constant.EnvDatabaseName)
	}

	username, ok := lookup(constant.EnvUsername)
	if !ok && p.developmentCredentials {
		username = developmentUsername
		res.Defaulted = append(res.Defaulted, constant.EnvUsername)
	}

	// Secrets keep their exact bytes; only an all-blank value counts as missing.
	password, ok := p.lookupEnv(constant.EnvPassword)
	if !ok || strings.TrimSpace(password) == "" {
		password = ""
		res.Missing = append(res.Missing, constant.EnvPassword)

		if p.developmentCredentials {
			password = developmentPassword
			res.Defaulted = append(res.Defaulted, constant.EnvPassword)
		}
	}

	res.Config = Config{
		Host:         host,
		Port:         port,
		DatabaseName: database,
		Username:     username,
		Password:     password,
	}

	if !res.Complete() {
		p.logger.Log(ctx, log.LevelWarn, "mysql configuration incomplete, falling back to defaults",
			log.Strings("missing", res.Missing),
			log.Strings("defaulted", res.Defaulted),
		)
	}

	if p.developmentCredentials && usedDevelopmentCredentials(res.Defaulted) {
		p.logger.Log(ctx, log.LevelWarn, "using built-in development credentials for mysql; never enable this outside local development")
	}

	return res
}

func usedDevelopmentCredentials(defaulted []string) bool {
	for _, key := range defaulted {
		if key == constant.EnvUsername || key == constant.EnvPassword {
			return true
		}
	}

	return false
}

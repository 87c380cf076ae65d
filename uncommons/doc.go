// Package uncommons holds process bootstrap helpers shared by the
// lib-dbconn packages and commands.
//
// It reads typed values from the environment, fills `env`-tagged structs and
// loads a local .env file for development runs:
//
//	uncommons.InitLocalEnvConfig()
//	timeout := uncommons.GetenvIntOrDefault("DB_CONNECT_TIMEOUT_SECONDS", 10)
//
// Specialized integrations live in subpackages such as mysql, log and zap.
package uncommons

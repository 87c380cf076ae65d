// Package mysql resolves MySQL connection settings from the environment and
// hands out dedicated, single-session connections.
//
// A Provider never caches configuration: every Connect resolves HOST, PORT,
// DATABASE_NAME, USERNAME and PASSWORD again, validates them, and makes one
// connection attempt. Callers own the returned Conn and give it back with
// Release, which is best-effort and never fails.
//
//	provider := mysql.New(mysql.WithLogger(logger))
//
//	conn, err := provider.Connect(ctx)
//	if err != nil {
//		return err
//	}
//	defer provider.Release(ctx, conn)
//
// Host, port and database name fall back to local defaults when unset.
// Credentials do not, unless the provider is built with
// WithDevelopmentCredentials.
package mysql

package constant

// Environment variables read when resolving a MySQL connection.
const (
	EnvHost         = "HOST"
	EnvPort         = "PORT"
	EnvDatabaseName = "DATABASE_NAME"
	EnvUsername     = "USERNAME"
	EnvPassword     = "PASSWORD"
)

// Environment variables read by the process bootstrap helpers.
const (
	EnvName    = "ENV_NAME"
	EnvVersion = "VERSION"
)

// ConnectionEnvVars lists the connection variables in resolution order.
var ConnectionEnvVars = []string{EnvHost, EnvPort, EnvDatabaseName, EnvUsername, EnvPassword}

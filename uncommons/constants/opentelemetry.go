package constant

// Telemetry attribute keys for database connectors.
const (
	// AttrDBSystem is the OTEL semantic convention attribute key for the database system name.
	AttrDBSystem = "db.system"
	// AttrDBName is the OTEL semantic convention attribute key for the database name.
	AttrDBName = "db.name"
	// AttrServerAddress is the OTEL semantic convention attribute key for the peer host.
	AttrServerAddress = "server.address"
	// AttrServerPort is the OTEL semantic convention attribute key for the peer port.
	AttrServerPort = "server.port"
	// AttrFailureReason labels connection failure metrics.
	AttrFailureReason = "reason"
)

// DBSystemMySQL is the OTEL semantic convention value for MySQL.
const DBSystemMySQL = "mysql"

// Failure reasons recorded on MetricConnectionFailures.
const (
	FailureReasonConfiguration = "configuration"
	FailureReasonDriver        = "driver"
	FailureReasonConnection    = "connection"
)

// MetricConnectionFailures counts acquisitions that did not produce a connection.
const MetricConnectionFailures = "mysql_connection_failures_total"

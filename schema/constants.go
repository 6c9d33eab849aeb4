package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching and ride storage.
	DatabaseBackend string

	// MonthlyMetric represents the quantity bucketed by month.
	MonthlyMetric string

	// SpeedView represents the shape of a speed report.
	SpeedView string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
	HTMLOut    OutputMode = "html"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// Monthly metrics.
const (
	DistanceMetric MonthlyMetric = "distance"
	SpeedMetric    MonthlyMetric = "speed"
)

// Speed report views.
const (
	HistogramView    SpeedView = "histogram"
	DistributionView SpeedView = "distribution"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
	HTMLOut:    {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidMonthlyMetrics lists all valid monthly metrics.
var ValidMonthlyMetrics = map[MonthlyMetric]struct{}{
	DistanceMetric: {},
	SpeedMetric:    {},
}

// Names of memoized queries. The generation of the ride store is part of
// every stored entry, so these names never need a version suffix.
const (
	TotalCountKey      = "rides_total_count"
	TotalDistanceKey   = "rides_total_distance"
	HardBrakingKey     = "rides_hard_braking_events"
	GForceAlertsKey    = "rides_gforce_alerts"
	SmoothnessScoreKey = "rides_smoothness_score"
	RidesPageKeyPrefix = "rides_page_"
	SummaryKey         = "rides_summary"
	MonthsKeyPrefix    = "months_"
	SpeedKeyPrefix     = "speed_"
)

package global

import "time"

const (
	// Descriptive names for available verbosity levels
	VerbosityNone int = iota
	VerbosityStandard
	VerbosityProgress
	VerbosityData
	VerbosityFullData
	VerbosityDebug

	// Descriptive names for available diag severity levels
	ErrorLog string = "Error"
	WarnLog  string = "Warn"
	InfoLog  string = "Info"
)

const (
	ProgVersion string = "v0.1.0"

	// Context keys
	LoggerKey  CtxKey = "logger"  // diag event queue handle
	LogTagsKey CtxKey = "logtags" // list of tags in order broad->specific

	DefaultConfigPath string = "/etc/framelog.json"
	DefaultOutputFile string = "driver.log"
	ProgName          string = "framelogd"

	// Dispatch queue sizing (internal/queue/mpmc), keyed off one network
	// sink batch per flush cycle rather than per-record
	DefaultMinQueueSize int = 8
	DefaultMaxQueueSize int = 256

	// Metric HTTP server
	HTTPListenPort   int           = 8514
	HTTPListenAddr   string        = "localhost" // metric queries only exposed to local machine
	HTTPReadTimeout  time.Duration = 30 * time.Second
	HTTPWriteTimeout time.Duration = 10 * time.Second
	HTTPIdleTimeout  time.Duration = 180 * time.Second

	// Metric query paths served by internal/externalio/server
	DataPath        string = "/data/"
	DiscoveryPath   string = "/discover/"
	AggregationPath string = "/aggregate/"

	// Namespacing name components, used both by diag tags and by the
	// metrics registry
	NSEngine    string = "Engine"
	NSBuffer    string = "Buffer"
	NSDedup     string = "Dedup"
	NSSink      string = "Sink"
	NSDispatch  string = "Dispatch"
	NSMetric    string = "Metrics"
	NSMetricSrv string = "Server"
	NSTest      string = "Test"

	NSoFile      string = "File"
	NSoConsole   string = "Console"
	NSoCallback  string = "Callback"
	NSoNetwork   string = "Network"
	NSoNotify    string = "Notify"
	NSoEncrypted string = "Encrypted"
)

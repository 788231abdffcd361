package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Suggestion string
}

// Registered codes.
const (
	CodeConfiguration   = "W001"
	CodeBindExhausted   = "W002"
	CodeServerNotReady  = "W003"
	CodeEndpointMissing = "W004"
	CodeKeyGeneration   = "W005"
	CodeBatchMode       = "W006"
	CodeMissingDisplay  = "W007"
	CodeSpawnFailed     = "W008"
	CodeEngineFailed    = "W009"
	CodeConfigFile      = "W010"
	CodeWindowDestroyed = "W011"
)

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Server Errors (W001-W004)
	// ============================================

	CodeConfiguration: {
		Category:   CategoryConfig,
		Message:    "Invalid server configuration",
		Suggestion: "Check WebGui.HttpPort, WebGui.HttpPortMin and WebGui.HttpPortMax",
	},
	CodeBindExhausted: {
		Category:   CategoryServer,
		Message:    "No free HTTP port could be bound",
		Suggestion: "Widen the HttpPortMin/HttpPortMax range or free some ports, then retry",
	},
	CodeServerNotReady: {
		Category: CategoryUsage,
		Message:  "HTTP server instance does not exist",
	},
	CodeEndpointMissing: {
		Category: CategoryUsage,
		Message:  "Window endpoint is not registered",
	},

	// ============================================
	// Launch Errors (W005-W009)
	// ============================================

	CodeKeyGeneration: {
		Category: CategoryRuntime,
		Message:  "Failed to create a unique session key for the window",
	},
	CodeBatchMode: {
		Category:   CategoryEnvironment,
		Message:    "Launch mode cannot display a batch window",
		Suggestion: "Use 'cef', 'chrome', 'chromium' or 'firefox' to show windows in batch mode",
	},
	CodeMissingDisplay: {
		Category:   CategoryEnvironment,
		Message:    "DISPLAY variable is not set",
		Suggestion: "Headless 'cef' still needs an X display; run under Xvfb or set DISPLAY",
	},
	CodeSpawnFailed: {
		Category: CategoryProcess,
		Message:  "Failed to launch display client",
	},
	CodeEngineFailed: {
		Category: CategoryProcess,
		Message:  "Embedded display engine failed to start",
	},

	// ============================================
	// Misc Errors (W010-W019)
	// ============================================

	CodeConfigFile: {
		Category:   CategoryConfig,
		Message:    "Invalid configuration file",
		Suggestion: "Check that the file is a flat JSON object of scalar values",
	},
	CodeWindowDestroyed: {
		Category: CategoryUsage,
		Message:  "Window was already destroyed",
	},
}

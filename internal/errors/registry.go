package errors

import "sort"

// Registered error codes.
const (
	// Configuration (E100-E199)
	CodeConfigNotFound    = "E100"
	CodeConfigInvalid     = "E101"
	CodeConfigAddr        = "E102"
	CodeConfigLogLevel    = "E103"
	CodeConfigSource      = "E104"
	CodeConfigS3Bucket    = "E105"
	CodeConfigSearch      = "E106"
	CodeConfigMetricsPath = "E107"
	CodeConfigLogFormat   = "E108"
	CodeConfigShutdown    = "E109"

	// Storage (E200-E299)
	CodeDatasetLoad     = "E200"
	CodeDatasetDecode   = "E201"
	CodeQuestionMissing = "E202"

	// Submission (E300-E399)
	CodeFormInvalid  = "E300"
	CodeSubmitFailed = "E301"

	// CLI (E400-E499)
	CodeUnknownForm   = "E400"
	CodePromptAborted = "E401"

	// Runtime (E500-E599)
	CodeListen   = "E500"
	CodeShutdown = "E501"
)

// Template defines a registered error type.
type Template struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]Template{
	// ============================================
	// Configuration Errors (E100-E199)
	// ============================================

	CodeConfigNotFound: {
		Category:   CategoryConfig,
		Message:    "Config file not found",
		Detail:     "The config file passed with --config does not exist.",
		Suggestion: "Omit --config to use the defaults, or create devflow.yaml.",
	},
	CodeConfigInvalid: {
		Category: CategoryConfig,
		Message:  "Invalid config file",
		Detail:   "The config file is not valid YAML or contains unknown keys.",
	},
	CodeConfigAddr: {
		Category:   CategoryConfig,
		Message:    "Invalid listen address",
		Detail:     "server.addr must be host:port, for example \":3000\" or \"127.0.0.1:8080\".",
		Suggestion: "Set server.addr or DEVFLOW_ADDR to a host:port pair.",
	},
	CodeConfigLogLevel: {
		Category:   CategoryConfig,
		Message:    "Invalid log level",
		Detail:     "log.level must be one of debug, info, warn, error.",
		Suggestion: "Set log.level or DEVFLOW_LOG_LEVEL to info.",
	},
	CodeConfigSource: {
		Category: CategoryConfig,
		Message:  "Invalid question source",
		Detail:   "questions.source must be \"embedded\" or \"s3\".",
	},
	CodeConfigS3Bucket: {
		Category:   CategoryConfig,
		Message:    "S3 question source needs a bucket and key",
		Suggestion: "Set questions.bucket and questions.key, or use questions.source: embedded.",
	},
	CodeConfigSearch: {
		Category: CategoryConfig,
		Message:  "Invalid search settings",
		Detail:   "search.debounce must be positive and search.route must start with \"/\".",
	},
	CodeConfigMetricsPath: {
		Category: CategoryConfig,
		Message:  "Invalid metrics path",
		Detail:   "metrics.path must start with \"/\" and must not shadow an application route.",
	},
	CodeConfigLogFormat: {
		Category: CategoryConfig,
		Message:  "Invalid log format",
		Detail:   "log.format must be \"text\" or \"json\".",
	},
	CodeConfigShutdown: {
		Category: CategoryConfig,
		Message:  "Invalid server timeout",
		Detail:   "Server timeouts must not be negative.",
	},

	// ============================================
	// Storage Errors (E200-E299)
	// ============================================

	CodeDatasetLoad: {
		Category: CategoryStorage,
		Message:  "Question dataset could not be loaded",
		Detail:   "The configured question source returned an error.",
	},
	CodeDatasetDecode: {
		Category:   CategoryStorage,
		Message:    "Question dataset is malformed",
		Suggestion: "Check that the object holds the questions JSON document.",
	},
	CodeQuestionMissing: {
		Category: CategoryStorage,
		Message:  "Question not found",
	},

	// ============================================
	// Submission Errors (E300-E399)
	// ============================================

	CodeFormInvalid: {
		Category: CategoryValidation,
		Message:  "Form has invalid fields",
	},
	CodeSubmitFailed: {
		Category: CategorySubmission,
		Message:  "Form submission failed",
	},

	// ============================================
	// CLI Errors (E400-E499)
	// ============================================

	CodeUnknownForm: {
		Category:   CategoryCLI,
		Message:    "Unknown form",
		Suggestion: "Use sign-in or sign-up.",
	},
	CodePromptAborted: {
		Category: CategoryCLI,
		Message:  "Prompt aborted",
	},

	// ============================================
	// Runtime Errors (E500-E599)
	// ============================================

	CodeListen: {
		Category:   CategoryRuntime,
		Message:    "Server failed to listen",
		Suggestion: "Is another process using the port? Try --addr :3001.",
	},
	CodeShutdown: {
		Category: CategoryRuntime,
		Message:  "Server did not shut down cleanly",
	},
}

// Lookup returns the template registered for code.
func Lookup(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}

// Codes returns all registered codes in order.
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

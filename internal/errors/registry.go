package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Config Errors (T100-T139)
	// ============================================

	"T100": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
	},
	"T101": {
		Category: CategoryConfig,
		Message:  "Invalid position",
	},
	"T102": {
		Category: CategoryConfig,
		Message:  "Invalid max visible count",
		Detail:   "At least one toast must be visible.",
	},
	"T103": {
		Category: CategoryConfig,
		Message:  "Invalid duration",
		Detail:   "Durations must not be negative.",
	},
	"T104": {
		Category: CategoryConfig,
		Message:  "Invalid variant",
	},
	"T105": {
		Category: CategoryConfig,
		Message:  "Invalid toast kind",
	},
	"T120": {
		Category: CategoryConfig,
		Message:  "Config file unreadable",
	},
	"T121": {
		Category: CategoryConfig,
		Message:  "Config file not found",
	},
	"T122": {
		Category: CategoryConfig,
		Message:  "Unsupported config format",
		Detail:   "Config files must end in .json, .yaml or .yml.",
	},

	// ============================================
	// Host Errors (T200-T219)
	// ============================================

	"T200": {
		Category: CategoryHost,
		Message:  "Missing rendering host",
		Detail:   "A document is required to create toast elements.",
	},
	"T201": {
		Category: CategoryHost,
		Message:  "Missing mount point",
		Detail:   "Either a mount element or an existing container must be provided.",
	},

	// ============================================
	// CLI Errors (T300-T319)
	// ============================================

	"T300": {
		Category: CategoryCLI,
		Message:  "Invalid script",
	},
	"T301": {
		Category: CategoryCLI,
		Message:  "Server failed",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

package errors

// ErrorCode identifies an application error category in API responses
type ErrorCode int

const (
	ErrorCode_HTTP_OK ErrorCode = 0

	// General
	ErrorCode_INTERNAL          ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT  ErrorCode = 1001
	ErrorCode_NOT_FOUND         ErrorCode = 1002
	ErrorCode_ALREADY_EXISTS    ErrorCode = 1003
	ErrorCode_PERMISSION_DENIED ErrorCode = 1004
	ErrorCode_UNAUTHENTICATED   ErrorCode = 1005
	ErrorCode_FORBIDDEN         ErrorCode = 1006
	ErrorCode_INVALID_PAYLOAD   ErrorCode = 1007

	// Authentication
	ErrorCode_AUTH_INVALID_TOKEN         ErrorCode = 2000
	ErrorCode_AUTH_TOKEN_EXPIRED         ErrorCode = 2001
	ErrorCode_AUTH_INVALID_CREDENTIALS   ErrorCode = 2002
	ErrorCode_AUTH_USER_NOT_FOUND        ErrorCode = 2003
	ErrorCode_AUTH_USER_ALREADY_EXISTS   ErrorCode = 2004
	ErrorCode_AUTH_INVALID_REFRESH_TOKEN ErrorCode = 2005
	ErrorCode_AUTH_OAUTH_FAILED          ErrorCode = 2006

	// Deals
	ErrorCode_DEAL_NOT_FOUND      ErrorCode = 3000
	ErrorCode_DEAL_ACCESS_DENIED  ErrorCode = 3001
	ErrorCode_DEAL_INVALID_STAGE  ErrorCode = 3002
	ErrorCode_DEAL_UPDATE_FAILED  ErrorCode = 3003
	ErrorCode_CONTACT_NOT_FOUND   ErrorCode = 3004
	ErrorCode_ACTIVITY_NOT_FOUND  ErrorCode = 3005
	ErrorCode_COMPETITOR_NOT_FOUND ErrorCode = 3006

	// Scoring
	ErrorCode_SCORING_FAILED         ErrorCode = 4000
	ErrorCode_SCORING_CONFIG_INVALID ErrorCode = 4001
	ErrorCode_SCORING_PERSIST_FAILED ErrorCode = 4002

	// Analysis / AI signals
	ErrorCode_ANALYSIS_FAILED      ErrorCode = 5000
	ErrorCode_ANALYSIS_EMPTY_TEXT  ErrorCode = 5001
	ErrorCode_SIGNAL_APPLY_FAILED  ErrorCode = 5002

	// Integrations
	ErrorCode_INTEGRATION_STORAGE_FAILED ErrorCode = 6000
	ErrorCode_INTEGRATION_CACHE_FAILED   ErrorCode = 6001

	// Database
	ErrorCode_DB_CONNECTION_FAILED ErrorCode = 7000
	ErrorCode_DB_QUERY_FAILED      ErrorCode = 7001
)

var codeNames = map[ErrorCode]string{
	ErrorCode_HTTP_OK:                    "OK",
	ErrorCode_INTERNAL:                   "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:           "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:                  "NOT_FOUND",
	ErrorCode_ALREADY_EXISTS:             "ALREADY_EXISTS",
	ErrorCode_PERMISSION_DENIED:          "PERMISSION_DENIED",
	ErrorCode_UNAUTHENTICATED:            "UNAUTHENTICATED",
	ErrorCode_FORBIDDEN:                  "FORBIDDEN",
	ErrorCode_INVALID_PAYLOAD:            "INVALID_PAYLOAD",
	ErrorCode_AUTH_INVALID_TOKEN:         "AUTH_INVALID_TOKEN",
	ErrorCode_AUTH_TOKEN_EXPIRED:         "AUTH_TOKEN_EXPIRED",
	ErrorCode_AUTH_INVALID_CREDENTIALS:   "AUTH_INVALID_CREDENTIALS",
	ErrorCode_AUTH_USER_NOT_FOUND:        "AUTH_USER_NOT_FOUND",
	ErrorCode_AUTH_USER_ALREADY_EXISTS:   "AUTH_USER_ALREADY_EXISTS",
	ErrorCode_AUTH_INVALID_REFRESH_TOKEN: "AUTH_INVALID_REFRESH_TOKEN",
	ErrorCode_AUTH_OAUTH_FAILED:          "AUTH_OAUTH_FAILED",
	ErrorCode_DEAL_NOT_FOUND:             "DEAL_NOT_FOUND",
	ErrorCode_DEAL_ACCESS_DENIED:         "DEAL_ACCESS_DENIED",
	ErrorCode_DEAL_INVALID_STAGE:         "DEAL_INVALID_STAGE",
	ErrorCode_DEAL_UPDATE_FAILED:         "DEAL_UPDATE_FAILED",
	ErrorCode_CONTACT_NOT_FOUND:          "CONTACT_NOT_FOUND",
	ErrorCode_ACTIVITY_NOT_FOUND:         "ACTIVITY_NOT_FOUND",
	ErrorCode_COMPETITOR_NOT_FOUND:       "COMPETITOR_NOT_FOUND",
	ErrorCode_SCORING_FAILED:             "SCORING_FAILED",
	ErrorCode_SCORING_CONFIG_INVALID:     "SCORING_CONFIG_INVALID",
	ErrorCode_SCORING_PERSIST_FAILED:     "SCORING_PERSIST_FAILED",
	ErrorCode_ANALYSIS_FAILED:            "ANALYSIS_FAILED",
	ErrorCode_ANALYSIS_EMPTY_TEXT:        "ANALYSIS_EMPTY_TEXT",
	ErrorCode_SIGNAL_APPLY_FAILED:        "SIGNAL_APPLY_FAILED",
	ErrorCode_INTEGRATION_STORAGE_FAILED: "INTEGRATION_STORAGE_FAILED",
	ErrorCode_INTEGRATION_CACHE_FAILED:   "INTEGRATION_CACHE_FAILED",
	ErrorCode_DB_CONNECTION_FAILED:       "DB_CONNECTION_FAILED",
	ErrorCode_DB_QUERY_FAILED:            "DB_QUERY_FAILED",
}

// String returns the symbolic name of the code
func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}

package constants

// Centralized constants for headers, env keys, routes and messages.
const (
	// Environment variable keys
	EnvConfigPath     = "ESCAPE_CONFIG"
	EnvDatabaseDSN    = "ESCAPE_DB"
	EnvServerAddress  = "ESCAPE_ADDR"
	EnvLogLevel       = "ESCAPE_LOG_LEVEL"
	EnvOperatorKey    = "ESCAPE_OPERATOR_KEY"
	EnvSessionSecret  = "ESCAPE_SESSION_SECRET"
	EnvTokenTTL       = "ESCAPE_TOKEN_TTL"
	EnvHealthcheckURL = "ESCAPE_HEALTHCHECK_URL"

	// Defaults
	DefaultConfigPath = "escape_config.json"
	DefaultDatabase   = "escape.db"
	DefaultAddress    = ":8080"

	// HTTP headers and content types
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"

	ContentTypeJSON = "application/json"

	CacheControlHeader  = "Cache-Control"
	CacheControlNoCache = "no-cache, no-store, must-revalidate"

	// Authorization prefix
	BearerPrefix = "Bearer "

	// Session / Cookie names
	CookieSessionName = "escape_session"

	// Token claims
	TokenIssuer      = "escape-the-danger"
	TokenSubOperator = "operator"
)

// Routes used by the backend router
const (
	RouteAPIPrefix     = "/api"
	RouteHealthz       = "/healthz"
	RouteVersion       = "/version"
	RouteItems         = "/items"
	RouteAuthToken     = "/auth/token"
	RouteGames         = "/games"
	RouteGameActive    = "/games/active"
	RouteGameByID      = "/games/:gameID"
	RouteGameEvents    = "/games/:gameID/events"
	RouteGameInventory = "/games/:gameID/inventory/:role"
	RouteGameFeed      = "/games/:gameID/feed"
	RouteGamePause     = "/games/:gameID/pause"
	RouteGameResume    = "/games/:gameID/resume"
	RouteGameEnd       = "/games/:gameID/end"
	RouteGameTurn      = "/games/:gameID/turn"
	RouteGameMove      = "/games/:gameID/move"
	RouteGameDraw      = "/games/:gameID/draw"
	RouteGameUseItem   = "/games/:gameID/items/use"
	RouteGameHealth    = "/games/:gameID/health"
	RouteGameStatus    = "/games/:gameID/status"
	RouteGameAddItem   = "/games/:gameID/inventory"
	RouteGameDonations = "/games/:gameID/donations"
)

// Common JSON response keys
const (
	JSONKeyError     = "error"
	JSONKeyMessage   = "message"
	JSONKeyDetails   = "details"
	JSONKeyStatus    = "status"
	JSONKeyRetryable = "retryable"
	JSONKeyToken     = "token"
	JSONKeyExpiresAt = "expires_at"
)

// Common error messages used across API handlers
const (
	ErrInvalidRequest   = "Invalid request"
	ErrInvalidGameID    = "Invalid game ID"
	ErrInvalidDistance  = "Distance must be an integer"
	ErrInvalidAfter     = "Invalid 'after' cursor"
	ErrFailedFetchGame  = "Failed to fetch game"
	ErrFailedFetchItems = "Failed to fetch items"
	ErrFailedEncodeGame = "Failed to encode game"
	ErrInternal         = "Internal error"

	ErrAuthRequired    = "Authentication required"
	ErrInvalidSession  = "Invalid session"
	ErrInvalidOperator = "Invalid operator key"
	ErrAuthDisabled    = "Operator authentication is disabled"

	ErrWebsocketUpgrade = "Failed to open event feed"
)

// Logging field names
const (
	LogFieldGameID   = "game_id"
	LogFieldGameUUID = "game_uuid"
	LogFieldRole     = "role"
	LogFieldTurn     = "turn"
	LogFieldBatch    = "batch"
	LogFieldEvents   = "events"
	LogFieldItem     = "item"
	LogFieldCommand  = "command"
	LogFieldSource   = "source"
	LogFieldKey      = "key"
	LogFieldAddr     = "addr"
	LogFieldMethod   = "method"
	LogFieldPath     = "path"
	LogFieldStatus   = "status"
	LogFieldLatency  = "latency_ms"
	LogFieldClientIP = "client_ip"
)

package constants

const (
	CookieKeyAuthToken   = "auth_token"
	CookieKeySecretToken = "secret_token"

	CtxKeyUserID    = "user_id"
	CtxKeyPrincipal = "principal"
	CtxKeyRequestID = "request_id"

	HeaderRequestID = "X-Request-ID"
)

// viper keys
const (
	ViperSecretKey = "auth.secret"
	ViperTokenKey  = "auth.token"

	ViperServerAddrKey       = "server.addr"
	ViperDatabaseURLKey      = "database.url"
	ViperCORSAllowOriginsKey = "cors.allow_origins"
	ViperLogLevelKey         = "log.level"

	ViperClientBaseURLKey       = "client.base_url"
	ViperClientTimeoutKey       = "client.timeout"
	ViperClientMaxRetriesKey    = "client.max_retries"
	ViperClientRetryIntervalKey = "client.retry_interval"

	ViperMatrixEmergenciaKey      = "matrix.emergencia_id"
	ViperMatrixMesaGrupoKey       = "matrix.mesa_grupo_id"
	ViperMatrixMaxInFlightKey     = "matrix.max_in_flight"
	ViperMatrixResendUnchangedKey = "matrix.resend_unchanged"
)

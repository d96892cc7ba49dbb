package types

type RunMode string

const (
	// ModeLocal is the mode for running the API server locally
	ModeLocal RunMode = "local"
	// ModeAPI is the mode for running just the API server
	ModeAPI RunMode = "api"
	// ModeAWSLambdaAPI serves the API behind API Gateway
	ModeAWSLambdaAPI RunMode = "lambda_api"
)

type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// AuthProvider selects how bearer tokens are turned into a user id
type AuthProvider string

const (
	AuthProviderJWT      AuthProvider = "jwt"
	AuthProviderSupabase AuthProvider = "supabase"
)

// PDFEngine selects the paginated document backend
type PDFEngine string

const (
	PDFEngineGofpdf PDFEngine = "gofpdf"
	PDFEngineTypst  PDFEngine = "typst"
)

package referrals

import (
	"os"
	"strconv"
)

// AppConfig is the process-wide read-only configuration, built once at
// startup and passed by reference into the token service and the resume
// store. Nothing reads environment variables after construction.
type AppConfig struct {
	SigningKey      string
	TokenExpiration int // hours
	Issuer          string
	Audience        []string
	ContextKey      string
	AuthScheme      string

	DSN  string
	Port string

	S3Region       string
	S3Bucket       string
	S3AccessKey    string
	S3SecretKey    string
	S3BaseEndpoint string

	Debug bool
}

var _ Config = (*AppConfig)(nil)

func (c *AppConfig) GetSigningKey() string   { return c.SigningKey }
func (c *AppConfig) GetTokenExpiration() int { return c.TokenExpiration }
func (c *AppConfig) GetIssuer() string       { return c.Issuer }
func (c *AppConfig) GetAudience() []string   { return c.Audience }
func (c *AppConfig) GetContextKey() string   { return c.ContextKey }
func (c *AppConfig) GetAuthScheme() string   { return c.AuthScheme }

// LoadConfig builds the configuration from the environment. Call
// godotenv.Load beforehand if a .env file should be honored.
func LoadConfig() *AppConfig {
	return &AppConfig{
		SigningKey:      os.Getenv("JWT_SECRET"),
		TokenExpiration: getenvInt("TOKEN_EXPIRATION_HOURS", 168),
		Issuer:          getenvDefault("TOKEN_ISSUER", "go-referrals"),
		ContextKey:      getenvDefault("AUTH_CONTEXT_KEY", "user"),
		AuthScheme:      getenvDefault("AUTH_SCHEME", "Bearer"),
		DSN:             getenvDefault("DATABASE_DSN", "file::memory:?cache=shared"),
		Port:            getenvDefault("PORT", "9999"),
		S3Region:        os.Getenv("AWS_REGION"),
		S3Bucket:        os.Getenv("AWS_BUCKET_NAME"),
		S3AccessKey:     os.Getenv("AWS_ACCESS_KEY_ID"),
		S3SecretKey:     os.Getenv("AWS_SECRET_ACCESS_KEY"),
		S3BaseEndpoint:  os.Getenv("AWS_ENDPOINT_URL"),
		Debug:           os.Getenv("DEBUG") == "true",
	}
}

func getenvDefault(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getenvInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported persistence drivers
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongo"
)

// Empty-result policies for list endpoints
const (
	EmptyPolicyEmpty    = "empty"
	EmptyPolicyNotFound = "not_found"
)

// Image storage modes
const (
	ImageStorageFile    = "file"
	ImageStorageDataURI = "datauri"
)

type Config struct {
	Port    string
	GinMode string

	DBDriver     string
	DBHost       string
	DBPort       string
	DBUser       string
	DBPassword   string
	DBName       string
	SQLitePath   string
	MongoURI     string
	MongoDBName  string
	DBLogQueries bool

	JWTSecret string
	TokenTTL  time.Duration

	LogLevel string
	LogDev   bool
	LogFile  string

	UploadDir       string
	UploadURLPrefix string
	ImageStorage    string
	MaxImageBytes   int64

	// AllowAnonymousMutations enables the "anonymous system mutation" mode in
	// which project writes without an actor skip role checks.
	AllowAnonymousMutations bool
	// EnforceTaskRoles requires an OWNER/ADMIN project role for task writes.
	EnforceTaskRoles bool

	ProjectsEmptyPolicy string
	TasksEmptyPolicy    string
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:    getEnv("PORT", "8080"),
		GinMode: getEnv("GIN_MODE", "debug"),

		DBDriver:     strings.ToLower(getEnv("DB_DRIVER", DriverMySQL)),
		DBHost:       getEnv("DB_HOST", "localhost"),
		DBPort:       getEnv("DB_PORT", "3306"),
		DBUser:       getEnv("DB_USER", "taskuser"),
		DBPassword:   getEnv("DB_PASSWORD", "taskpassword"),
		DBName:       getEnv("DB_NAME", "project_management"),
		SQLitePath:   getEnv("DB_SQLITE_PATH", "project_management.db"),
		MongoURI:     getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:  getEnv("MONGO_DATABASE", "project_management"),
		DBLogQueries: getEnvBool("DB_LOG_QUERIES", false),

		JWTSecret: getEnv("JWT_SECRET", "default-secret-key-change-me"),
		TokenTTL:  getEnvDuration("TOKEN_TTL", 3*time.Hour),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogDev:   getEnvBool("LOG_DEV", false),
		LogFile:  getEnv("LOG_FILE", ""),

		UploadDir:       getEnv("UPLOAD_DIR", "uploads"),
		UploadURLPrefix: getEnv("UPLOAD_URL_PREFIX", "/uploads"),
		ImageStorage:    strings.ToLower(getEnv("IMAGE_STORAGE", ImageStorageFile)),
		MaxImageBytes:   getEnvInt64("MAX_IMAGE_BYTES", 2*1024*1024),

		AllowAnonymousMutations: getEnvBool("ALLOW_ANONYMOUS_MUTATIONS", false),
		EnforceTaskRoles:        getEnvBool("ENFORCE_TASK_ROLES", false),

		ProjectsEmptyPolicy: strings.ToLower(getEnv("PROJECTS_EMPTY_POLICY", EmptyPolicyEmpty)),
		TasksEmptyPolicy:    strings.ToLower(getEnv("TASKS_EMPTY_POLICY", EmptyPolicyEmpty)),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

func getEnvInt64(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}

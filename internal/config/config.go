package config

// Config holds process-level wiring settings read once at startup.
type Config struct {
	MongoURI     string
	MongoDB      string
	RedisAddr    string
	HTTPPort     string
	QuestionsDir string
	JWTSecret    string
}

// Load reads the process configuration from the environment.
func Load() *Config {
	return &Config{
		MongoURI:     getEnvOrDefault("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:      getEnvOrDefault("MONGO_DB", "interviewd"),
		RedisAddr:    getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		HTTPPort:     getEnvOrDefault("PORT", "8080"),
		QuestionsDir: getEnvOrDefault("QUESTIONS_DIR", "data/questions"),
		JWTSecret:    getEnvOrDefault("JWT_SECRET", "super-secret-key-change-in-production"),
	}
}

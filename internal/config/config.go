package config

import "os"

// Config is the process configuration, read once at startup.
type Config struct {
	Addr           string
	JWTSecret      string
	PresencePolicy string // "first" or "last": who wins when a user registers twice
	PersistOnSend  bool   // persist realtime messages server-side before delivery
	AutoMigrate    bool
	RedisAddr      string
	KafkaBootstrap string // empty disables event publishing
	KafkaTopic     string
}

func Load() *Config {
	return &Config{
		Addr:           def(os.Getenv("APP_PORT"), ":8080"),
		JWTSecret:      def(os.Getenv("JWT_SECRET"), "replace-this-with-a-strong-secret"),
		PresencePolicy: def(os.Getenv("PRESENCE_POLICY"), "first"),
		PersistOnSend:  os.Getenv("PERSIST_ON_SEND") == "true",
		AutoMigrate:    os.Getenv("AUTO_MIGRATE") == "true",
		RedisAddr:      def(os.Getenv("REDIS_HOST"), "localhost") + ":" + def(os.Getenv("REDIS_PORT"), "6379"),
		KafkaBootstrap: os.Getenv("KAFKA_BOOTSTRAP_SERVERS"),
		KafkaTopic:     def(os.Getenv("KAFKA_TOPIC"), "messages.created"),
	}
}

func def(s, d string) string {
	if s == "" {
		return d
	}
	return s
}

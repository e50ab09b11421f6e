package config

import (
	"os"

	ctopics "github.com/radieske/pari-flow/pkg/contracts/topics"
)

// Config centraliza variáveis de ambiente e parâmetros de execução do serviço
// Inclui conexão Redis, brokers Kafka, credenciais Gemini e portas
type Config struct {
	Env         string // "local", "dev", "prod"
	ServiceName string

	RedisAddr    string
	KafkaBrokers string // "a:9092,b:9092"

	// Tópicos de eventos publicados pelo tracker
	TopicBetPlaced  string
	TopicBetSettled string

	// Colaborador de IA (Gemini)
	GeminiAPIKey string
	GeminiModel  string

	HTTPPort    string // API pública consumida pelo front
	MetricsPort string // Porta exclusiva para /metrics e /healthz
}

// Load carrega variáveis de ambiente e define defaults
func Load() Config {
	cfg := Config{
		Env:         getEnv("ENV", "local"),
		ServiceName: getEnv("SERVICE_NAME", "tracker-service"),

		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		KafkaBrokers: getEnv("KAFKA_BROKERS", "localhost:9092"),

		TopicBetPlaced:  getEnv("KAFKA_TOPIC_BET_PLACED", ctopics.BetPlaced),
		TopicBetSettled: getEnv("KAFKA_TOPIC_BET_SETTLED", ctopics.BetSettled),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),

		HTTPPort:    getEnv("HTTP_PORT", "8084"),
		MetricsPort: getEnv("METRICS_PORT", "9100"),
	}

	return cfg
}

// getEnv retorna o valor da variável de ambiente ou o default
func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

package config

import (
	"time"

	"github.com/spf13/viper"
)

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// App Configuration
	v.SetDefault("app.logLevel", "info")
	v.SetDefault("app.defaultFormat", "json")
	v.SetDefault("app.supportedFormats", []string{"json", "text", "markdown"})
	v.SetDefault("app.maxFileSize", 10*1024*1024) // 10MB

	// Analysis Configuration
	v.SetDefault("analysis.salienceWindow", 5)
	v.SetDefault("analysis.frequencyThreshold", 2)
	v.SetDefault("analysis.minJobDescriptionLength", 100)
	v.SetDefault("analysis.weights.primary", 3.0)
	v.SetDefault("analysis.weights.secondary", 1.0)
	v.SetDefault("analysis.weights.hard", 2.0)
	v.SetDefault("analysis.weights.soft", 1.0)
	v.SetDefault("analysis.neutralScore", 50)
	v.SetDefault("analysis.vocabularyFile", "")
	v.SetDefault("analysis.sectionsFile", "")
	v.SetDefault("analysis.watchVocabulary", false)

	// AI Configuration - Global defaults
	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.model", "gemini-2.0-flash")
	v.SetDefault("ai.timeout", 60*time.Second)
	v.SetDefault("ai.apiKey", "")
	v.SetDefault("ai.maxRetries", 3)
	v.SetDefault("ai.temperature", 0.7)
	v.SetDefault("ai.useSystemPrompts", true)

	// AI Configuration - Rewrite operation defaults
	v.SetDefault("ai.rewrite.provider", "gemini")
	v.SetDefault("ai.rewrite.model", "")
	v.SetDefault("ai.rewrite.timeout", 90*time.Second)
	v.SetDefault("ai.rewrite.apiKey", "")
	v.SetDefault("ai.rewrite.maxRetries", 2)
	v.SetDefault("ai.rewrite.temperature", 0.3) // low temperature keeps facts stable
	v.SetDefault("ai.rewrite.useSystemPrompts", true)
	v.SetDefault("ai.rewrite.circuitBreaker.enabled", true)
	v.SetDefault("ai.rewrite.circuitBreaker.maxRequests", 3)
	v.SetDefault("ai.rewrite.circuitBreaker.interval", 60*time.Second)
	v.SetDefault("ai.rewrite.circuitBreaker.timeout", 60*time.Second)
	v.SetDefault("ai.rewrite.circuitBreaker.minRequests", 3)
	v.SetDefault("ai.rewrite.circuitBreaker.failureThreshold", 0.6)

	// Server Configuration
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.readTimeout", 30*time.Second)
	v.SetDefault("server.writeTimeout", 60*time.Second)
	v.SetDefault("server.idleTimeout", 120*time.Second)
	v.SetDefault("server.maxUploadSize", 10*1024*1024)
	v.SetDefault("server.allowRemoteFetch", true)
	v.SetDefault("server.apiKeys", []string{})
	v.SetDefault("server.rateLimit.enabled", false)
	v.SetDefault("server.rateLimit.requestsPerMin", 60)
	v.SetDefault("server.rateLimit.burstCapacity", 10)
	v.SetDefault("server.rateLimit.byIP", true)
	v.SetDefault("server.rateLimit.byAPIKey", false)
	v.SetDefault("server.rateLimit.window", time.Minute)

	// Store Configuration
	v.SetDefault("store.driver", "memory")
	v.SetDefault("store.ttl", 24*time.Hour)
	v.SetDefault("store.redis.addr", "localhost:6379")
	v.SetDefault("store.redis.password", "")
	v.SetDefault("store.redis.db", 0)
	v.SetDefault("store.redis.keyPrefix", "atsbuilder:")

	// Blob Configuration
	v.SetDefault("blob.driver", "none")
	v.SetDefault("blob.local.dir", "./data/uploads")
	v.SetDefault("blob.minio.endpoint", "localhost:9000")
	v.SetDefault("blob.minio.accessKey", "")
	v.SetDefault("blob.minio.secretKey", "")
	v.SetDefault("blob.minio.bucket", "resumes")
	v.SetDefault("blob.minio.useSSL", false)

	// Queue Configuration
	v.SetDefault("queue.driver", "local")
	v.SetDefault("queue.concurrency", 4)
	v.SetDefault("queue.maxRetry", 2)
	v.SetDefault("queue.timeout", 5*time.Minute)
	v.SetDefault("queue.queueName", "optimize")

	// Vault Configuration
	v.SetDefault("vault.enabled", false)
	v.SetDefault("vault.address", "")
	v.SetDefault("vault.token", "")
	v.SetDefault("vault.tokenFile", "")
	v.SetDefault("vault.namespace", "")
	v.SetDefault("vault.mount", "secret")
	v.SetDefault("vault.secrets.apiKeys", "")
	v.SetDefault("vault.secrets.geminiKey", "")
	v.SetDefault("vault.secrets.redis", "")
	v.SetDefault("vault.secrets.minio", "")

	// Observability Configuration
	v.SetDefault("observability.enabled", false)
	v.SetDefault("observability.serviceName", "atsbuilder")
	v.SetDefault("observability.serviceVersion", "")
	v.SetDefault("observability.serviceInstance", "")
	v.SetDefault("observability.consoleOutput", false)
	v.SetDefault("observability.sampleRate", 1.0)
	v.SetDefault("observability.tracing.enabled", true)
	v.SetDefault("observability.tracing.sampleRate", 1.0)
	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.metrics.collectionInterval", 15*time.Second)
	v.SetDefault("observability.customMetrics.aiOperations.enabled", true)
	v.SetDefault("observability.customMetrics.aiOperations.trackDuration", true)
	v.SetDefault("observability.customMetrics.aiOperations.trackTokenUsage", true)
	v.SetDefault("observability.customMetrics.businessMetrics.enabled", true)
	v.SetDefault("observability.customMetrics.businessMetrics.trackScores", true)
	v.SetDefault("observability.customMetrics.businessMetrics.trackContentSizes", true)
	v.SetDefault("observability.customMetrics.infrastructure.enabled", true)
	v.SetDefault("observability.customMetrics.infrastructure.trackRateLimits", true)
	v.SetDefault("observability.customMetrics.infrastructure.trackJobs", true)
	v.SetDefault("observability.console.enabled", false)
	v.SetDefault("observability.console.prettyPrint", true)
	v.SetDefault("observability.prometheus.enabled", true)
	v.SetDefault("observability.prometheus.endpoint", "/metrics")
	v.SetDefault("observability.prometheus.port", "9090")
	v.SetDefault("observability.otlp.enabled", false)
	v.SetDefault("observability.otlp.endpoint", "http://localhost:4318")
	v.SetDefault("observability.otlp.insecure", true)
	v.SetDefault("observability.otlp.headers", map[string]string{})
}

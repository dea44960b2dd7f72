package models

import "time"

// Config represents application configuration
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	NATS     NATSConfig
	NSQ      NSQConfig
	JWT      JWTConfig
	Logger   LoggerConfig
	Dispatch DispatchConfig
}

// AppConfig contains application-specific configuration
type AppConfig struct {
	Name        string
	Environment string
	Debug       bool
	Version     string
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	Driver    string
	Host      string
	Port      int
	Username  string
	Password  string
	Database  string
	SSLMode   string
	MaxConns  int
	IdleConns int
}

// RedisConfig contains Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
}

// NATSConfig contains NATS connection configuration
type NATSConfig struct {
	URL string
}

// NSQConfig contains NSQ daemon connection configuration
type NSQConfig struct {
	Address string
}

// JWTConfig contains JWT authentication configuration
type JWTConfig struct {
	Secret     string
	Expiration int // in minutes
	Issuer     string
}

// LoggerConfig contains structured logging configuration
type LoggerConfig struct {
	Level  string
	Format string
}

// DispatchConfig contains the dispatch state machine tunables
type DispatchConfig struct {
	BaseRadiusKm      float64 // starting search radius
	RadiusStepKm      float64 // growth applied every two attempts
	MaxAttempts       int     // attempt cap before forced expiry
	AttemptDelaySec   int     // backoff between evaluation passes
	OfferTimeoutSec   int     // how long a driver may sit on an offer
	FinalizeWindowMin int     // wall-clock budget after booking creation
	LockTTLSec        int     // per-booking dispatch lock TTL
	LivenessTTLSec    int     // driver location freshness TTL
	WorkerCount       int     // scheduler worker pool size
}

// AttemptDelay returns the evaluation backoff as a duration.
func (d DispatchConfig) AttemptDelay() time.Duration {
	return time.Duration(d.AttemptDelaySec) * time.Second
}

// OfferTimeout returns the offer response budget as a duration.
func (d DispatchConfig) OfferTimeout() time.Duration {
	return time.Duration(d.OfferTimeoutSec) * time.Second
}

// FinalizeWindow returns the total dispatch budget as a duration.
func (d DispatchConfig) FinalizeWindow() time.Duration {
	return time.Duration(d.FinalizeWindowMin) * time.Minute
}

// LockTTL returns the dispatch lock TTL as a duration.
func (d DispatchConfig) LockTTL() time.Duration {
	return time.Duration(d.LockTTLSec) * time.Second
}

// LivenessTTL returns the driver liveness marker TTL as a duration.
func (d DispatchConfig) LivenessTTL() time.Duration {
	return time.Duration(d.LivenessTTLSec) * time.Second
}

// SearchRadiusKm computes the radius for an attempt. The radius is
// attempt-indexed, not wall-clock-indexed, so replays are reproducible;
// it widens every two attempts to bound driver starvation without
// thrashing on every single pass.
func (d DispatchConfig) SearchRadiusKm(attempt int) float64 {
	if attempt < 1 {
		attempt = 1
	}
	return d.BaseRadiusKm + d.RadiusStepKm*float64((attempt-1)/2)
}

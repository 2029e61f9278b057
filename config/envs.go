package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application's configuration values.
type Config struct {
	HostIP   string // Host IP every listener binds to
	HTTPPort int    // Port for the WebSocket/HTTP server
	GrpcPort int    // Port for the GRPC admin server

	UdpPort                int // Port for the UDP socket; 0 disables the UDP transport
	UDPBufferSize          int // Size of the buffer for incoming UDP packets (in bytes)
	UDPHeartbeatExpiration int // Expiration time for UDP heartbeat (in milliseconds)

	GridWidth    int     // Cells per row of every game
	GridHeight   int     // Rows of every game
	InitialSpeed float64 // Seconds per tick at the start of a game
}

// Envs holds the application's configuration loaded from environment variables.
var Envs = initConfig()

// initConfig initializes and returns the application configuration.
// It loads environment variables from a .env file.
func initConfig() Config {
	// Load .env file if available
	if err := godotenv.Load(); err != nil {
		log.Printf("[APP] [INFO] .env file not found or could not be loaded: %v", err)
	}

	c, err := Load()
	if err != nil {
		log.Fatalf("%s[APP]%s %s[FATAL]%s %v", ColorGreen, ColorReset, ColorRed, ColorReset, err)
	}
	return c
}

// Load reads the configuration from the environment, applying defaults
// for unset variables.
func Load() (Config, error) {
	var (
		c    Config
		errs []error
	)
	intVar := func(dst *int, key string, def int) {
		v, err := getEnvAsInt(key, def)
		if err != nil {
			errs = append(errs, err)
		}
		*dst = v
	}

	c.HostIP = getEnv("HOST_IP", "0.0.0.0")
	intVar(&c.HTTPPort, "HTTP_PORT", 5000)
	intVar(&c.GrpcPort, "GRPC_PORT", 50051)
	intVar(&c.UdpPort, "UDP_PORT", 0)
	intVar(&c.UDPBufferSize, "UDP_BUFFER_SIZE", 2048)
	intVar(&c.UDPHeartbeatExpiration, "UDP_HEARTBEAT_EXPIRATION", 3000)
	intVar(&c.GridWidth, "GRID_WIDTH", 30)
	intVar(&c.GridHeight, "GRID_HEIGHT", 20)

	speed, err := getEnvAsFloat("INITIAL_SPEED", 0.12)
	if err != nil {
		errs = append(errs, err)
	}
	c.InitialSpeed = speed

	if len(errs) > 0 {
		return Config{}, errs[0]
	}
	return c, nil
}

// getEnv retrieves the value of an environment variable or def if not set.
func getEnv(key, def string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return def
}

// getEnvAsInt retrieves the value of an environment variable as an integer.
func getEnvAsInt(key string, def int) (int, error) {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return def, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return def, fmt.Errorf("environment variable %s must be an integer: %w", key, err)
	}
	return value, nil
}

func getEnvAsFloat(key string, def float64) (float64, error) {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return def, nil
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return def, fmt.Errorf("environment variable %s must be a number: %w", key, err)
	}
	return value, nil
}

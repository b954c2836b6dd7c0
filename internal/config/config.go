package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// WaitScale converts DEVICE_WAIT into a poll interval. The value is expressed
// in 10-second increments to stay compatible with the external config
// convention, not in the public API's unit.
const WaitScale = 10 * time.Second

type Config struct {
	AppEnv   string
	LogLevel slog.Level
	HTTPAddr string

	// DeviceIP is the LAN address of the weather station. Required.
	DeviceIP string
	// DeviceWait is the poll interval in 10-second increments.
	DeviceWait int
	// DeviceTimeout bounds each live-data fetch.
	DeviceTimeout time.Duration

	InfluxEnable      bool
	InfluxHost        string
	InfluxPort        int
	InfluxUsername    string
	InfluxPassword    string
	InfluxDB          string
	InfluxMeasurement string

	MQTTEnable   bool
	MQTTBroker   string
	MQTTPort     int
	MQTTTopic    string
	MQTTClientID string
}

// PollInterval returns the effective time between poll cycles.
func (c Config) PollInterval() time.Duration {
	return time.Duration(c.DeviceWait) * WaitScale
}

func LoadFromEnv() (Config, error) {
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	switch appEnv {
	case "dev", "prod":
	default:
		return Config{}, fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", appEnv)
	}

	logLevelStr := strings.TrimSpace(os.Getenv("LOG_LEVEL"))
	if logLevelStr == "" {
		logLevelStr = "info"
	}
	level, err := parseLogLevel(logLevelStr)
	if err != nil {
		return Config{}, err
	}

	httpAddr := strings.TrimSpace(os.Getenv("HTTP_ADDR"))
	if httpAddr == "" {
		httpAddr = ":8696"
	}

	deviceIP := strings.TrimSpace(os.Getenv("DEVICE_IP"))
	if deviceIP == "" {
		return Config{}, fmt.Errorf("DEVICE_IP is required")
	}

	deviceWait, err := intEnv("DEVICE_WAIT", "1")
	if err != nil {
		return Config{}, err
	}
	if deviceWait <= 0 {
		return Config{}, fmt.Errorf("DEVICE_WAIT must be > 0, got %d", deviceWait)
	}

	deviceTimeoutSec, err := intEnv("DEVICE_TIMEOUT", "10")
	if err != nil {
		return Config{}, err
	}
	if deviceTimeoutSec <= 0 {
		return Config{}, fmt.Errorf("DEVICE_TIMEOUT must be > 0, got %d", deviceTimeoutSec)
	}

	influxEnable, err := boolEnv("INFLUX_ENABLE", "false")
	if err != nil {
		return Config{}, err
	}
	influxHost := strings.TrimSpace(os.Getenv("INFLUX_HOST"))
	if influxHost == "" {
		influxHost = "localhost"
	}
	influxPort, err := intEnv("INFLUX_PORT", "8086")
	if err != nil {
		return Config{}, err
	}
	influxDB := strings.TrimSpace(os.Getenv("INFLUX_DB"))
	if influxDB == "" {
		influxDB = "localweather"
	}
	influxMeasurement := strings.TrimSpace(os.Getenv("INFLUX_MEASUREMENT"))
	if influxMeasurement == "" {
		influxMeasurement = "weather"
	}

	mqttEnable, err := boolEnv("MQTT_ENABLE", "false")
	if err != nil {
		return Config{}, err
	}
	mqttBroker := strings.TrimSpace(os.Getenv("MQTT_BROKER"))
	if mqttBroker == "" {
		mqttBroker = "localhost"
	}
	mqttPort, err := intEnv("MQTT_PORT", "1883")
	if err != nil {
		return Config{}, err
	}
	mqttTopic := strings.TrimSpace(os.Getenv("MQTT_TOPIC"))
	if mqttTopic == "" {
		mqttTopic = "localweather/observations"
	}
	mqttClientID := strings.TrimSpace(os.Getenv("MQTT_CLIENT_ID"))
	if mqttClientID == "" {
		mqttClientID = "localweather"
	}

	return Config{
		AppEnv:            appEnv,
		LogLevel:          level,
		HTTPAddr:          httpAddr,
		DeviceIP:          deviceIP,
		DeviceWait:        deviceWait,
		DeviceTimeout:     time.Duration(deviceTimeoutSec) * time.Second,
		InfluxEnable:      influxEnable,
		InfluxHost:        influxHost,
		InfluxPort:        influxPort,
		InfluxUsername:    strings.TrimSpace(os.Getenv("INFLUX_USERNAME")),
		InfluxPassword:    strings.TrimSpace(os.Getenv("INFLUX_PASSWORD")),
		InfluxDB:          influxDB,
		InfluxMeasurement: influxMeasurement,
		MQTTEnable:        mqttEnable,
		MQTTBroker:        mqttBroker,
		MQTTPort:          mqttPort,
		MQTTTopic:         mqttTopic,
		MQTTClientID:      mqttClientID,
	}, nil
}

func intEnv(name, fallback string) (int, error) {
	s := strings.TrimSpace(os.Getenv(name))
	if s == "" {
		s = fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, s, err)
	}
	return n, nil
}

func boolEnv(name, fallback string) (bool, error) {
	s := strings.TrimSpace(os.Getenv(name))
	if s == "" {
		s = fallback
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", name, s, err)
	}
	return b, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}

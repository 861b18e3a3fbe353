package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/redlion/court/internal/game"
)

// Config is everything the server reads from the environment.
type Config struct {
	Port           string
	StaticDir      string
	AllowedOrigins []string

	LogFile  string
	LogLevel string

	TickRate        int
	CourtHalfWidth  float64
	CourtHalfLength float64

	MaxConnsPerIP int
	MsgRate       int
}

func defaults() Config {
	return Config{
		Port:            "8080",
		StaticDir:       "./web",
		LogLevel:        "info",
		TickRate:        50,
		CourtHalfWidth:  5,
		CourtHalfLength: 10,
		MaxConnsPerIP:   4,
		MsgRate:         120,
	}
}

// Load reads an optional .env file (the given paths, or ./.env) and then
// the process environment. Values already set in the environment win.
func Load(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function, e.g. os.Getenv.
func FromEnv(getenv func(string) string) (Config, error) {
	c := defaults()
	var err error

	if v := getenv("PORT"); v != "" {
		c.Port = v
	}
	if v := getenv("STATIC_DIR"); v != "" {
		c.StaticDir = v
	}
	if v := getenv("ALLOWED_ORIGINS"); v != "" {
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				c.AllowedOrigins = append(c.AllowedOrigins, o)
			}
		}
	}
	c.LogFile = getenv("LOG_FILE")
	if v := getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}

	if c.TickRate, err = intVar(getenv, "TICK_RATE", c.TickRate); err != nil {
		return Config{}, err
	}
	if c.TickRate > game.MaxTickRate {
		return Config{}, fmt.Errorf("TICK_RATE: at most %d, got %d", game.MaxTickRate, c.TickRate)
	}
	if c.MaxConnsPerIP, err = intVar(getenv, "MAX_CONNS_PER_IP", c.MaxConnsPerIP); err != nil {
		return Config{}, err
	}
	if c.MsgRate, err = intVar(getenv, "MSG_RATE", c.MsgRate); err != nil {
		return Config{}, err
	}
	if c.CourtHalfWidth, err = floatVar(getenv, "COURT_HALF_WIDTH", c.CourtHalfWidth); err != nil {
		return Config{}, err
	}
	if c.CourtHalfLength, err = floatVar(getenv, "COURT_HALF_LENGTH", c.CourtHalfLength); err != nil {
		return Config{}, err
	}
	return c, nil
}

func intVar(getenv func(string) string, key string, def int) (int, error) {
	v := getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s: want a positive integer, got %q", key, v)
	}
	return n, nil
}

func floatVar(getenv func(string) string, key string, def float64) (float64, error) {
	v := getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || !(f > 0) || math.IsInf(f, 1) {
		return 0, fmt.Errorf("%s: want a positive finite number, got %q", key, v)
	}
	return f, nil
}

package config

import (
	"os"
	"strconv"
	"strings"
)

func getEnvOrDefault(key, defaultValue string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return defaultValue
}

func getEnvOrDefaultInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(getEnvOrDefault(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvOrDefaultBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(strings.ToLower(getEnvOrDefault(key, "")))
	if err != nil {
		return defaultValue
	}
	return v
}

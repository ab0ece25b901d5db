package configloader

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/yaklabco/domsplice/pkg/config"
)

// envVarPrefix is the prefix for all domsplice environment variables.
const envVarPrefix = "DOMSPLICE_"

// LoadFromEnv applies environment variable overrides to the configuration:
//
//	DOMSPLICE_ENGINE      re2 | ecmascript
//	DOMSPLICE_EXCLUDE     comma-separated element names
//	DOMSPLICE_SELECT      CSS selector
//	DOMSPLICE_IGNORE      comma-separated globs
//	DOMSPLICE_GFM         bool
//	DOMSPLICE_JOBS        int
//	DOMSPLICE_NO_BACKUPS  bool
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	if v := getenv("ENGINE"); v != "" {
		cfg.Engine = v
	}
	if v := getenv("EXCLUDE"); v != "" {
		cfg.Exclude = splitList(v)
	}
	if v := getenv("SELECT"); v != "" {
		cfg.Select = v
	}
	if v := getenv("IGNORE"); v != "" {
		cfg.Ignore = splitList(v)
	}
	if v := getenv("GFM"); v != "" {
		b, err := parseBool("GFM", v)
		if err != nil {
			return err
		}
		cfg.GFM = b
	}
	if v := getenv("NO_BACKUPS"); v != "" {
		b, err := parseBool("NO_BACKUPS", v)
		if err != nil {
			return err
		}
		cfg.NoBackups = b
	}
	if v := getenv("JOBS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid integer for %sJOBS: %q", envVarPrefix, v)
		}
		cfg.Jobs = n
	}

	return nil
}

func getenv(suffix string) string {
	return strings.TrimSpace(os.Getenv(envVarPrefix + suffix))
}

func parseBool(suffix, value string) (bool, error) {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid boolean for %s%s: %q (expected true/false/1/0)", envVarPrefix, suffix, value)
	}
	return b, nil
}

// splitList splits a comma-separated list, trimming whitespace and dropping
// empty entries.
func splitList(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}

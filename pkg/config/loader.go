package config

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"strings"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Load fills cfg from its `env` tags. Variables are read from the process
// environment and from the given dotenv files; later files override earlier
// ones, the process environment overrides them all, and a missing file is
// skipped. The files never modify the process environment.
func Load(cfg any, dotenvFiles ...string) error {
	vars, err := environment(dotenvFiles)
	if err != nil {
		return err
	}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: vars}); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

func environment(dotenvFiles []string) (map[string]string, error) {
	vars := make(map[string]string)
	for _, name := range dotenvFiles {
		fileVars, err := godotenv.Read(name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		maps.Copy(vars, fileVars)
	}
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			vars[k] = v
		}
	}
	return vars, nil
}

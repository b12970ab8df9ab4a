package config

import (
	"fmt"
	"strconv"
	"time"
)

// envBindings maps environment variables onto settings fields
func envBindings(settings *RawSettings) map[string]**string {
	return map[string]**string{
		"DB_PATH":          &settings.DBPath,
		"NOTES_LIST_ORDER": &settings.ListOrder,
		"NOTES_ADDR":       &settings.NotesAddr,
		"STATIC_DIR":       &settings.StaticDir,
		"CHAT_ADDR":        &settings.ChatAddr,
		"OLLAMA_BASE_URL":  &settings.OllamaBaseURL,
		"OLLAMA_MODEL":     &settings.OllamaModel,
		"CHAT_TIMEOUT":     &settings.ChatTimeout,
		"LOG_LEVEL":        &settings.StderrLevel,
	}
}

// applyEnv overrides settings with non-empty environment variables.
// Reports whether any variable was applied.
func applyEnv(settings *RawSettings, lookup func(string) (string, bool)) bool {
	applied := false
	for key, field := range envBindings(settings) {
		if v, ok := lookup(key); ok && v != "" {
			val := v
			*field = &val
			applied = true
		}
	}
	return applied
}

// toDuration accepts Go duration strings ("90s", "3m") or plain seconds ("180")
func toDuration(s string) (time.Duration, error) {
	if d, err := time.ParseDuration(s); err == nil {
		if d <= 0 {
			return 0, fmt.Errorf("duration must be positive")
		}
		return d, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("not a duration or number of seconds")
	}
	if n <= 0 {
		return 0, fmt.Errorf("duration must be positive")
	}
	return time.Duration(n) * time.Second, nil
}

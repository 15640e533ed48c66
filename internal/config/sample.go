package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const sampleConfig = `# frameops configuration
#
# Every value shown here is the default; delete anything you do not need
# to change.

[backend]
# Base URL of the Asset Training System API.
url = "http://127.0.0.1:8000"
# Push channel endpoint. Leave empty to derive it from the base URL.
websocket_url = ""
# Per-request timeout in seconds.
request_timeout = 30

[paths]
data_dir = "~/.local/share/frameops"
log_dir = "~/.local/share/frameops/logs"

[push]
# Ping cadence in seconds.
heartbeat_interval = 30
# Reconnect attempt n waits n * reconnect_base_delay milliseconds.
reconnect_base_delay = 2000
reconnect_max_attempts = 5

[refresh]
# Delay in milliseconds before screens refresh after a mutation.
mutation_delay = 500
# Delay for endpoints whose backend work is queued asynchronously.
training_delay = 1000

[console]
page_size = 50

[logging]
# "console" or "json"
format = "console"
# debug, info, warn, error
level = "info"
`

// CreateSample writes a commented starter configuration to path.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

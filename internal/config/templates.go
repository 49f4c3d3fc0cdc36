package config

import (
	"fmt"
	"os"
)

func Template() string {
	return configTemplate
}

func WriteTemplate(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(configTemplate), 0o600)
}

const configTemplate = `# bsbctl bus addressing
source_addr = 0x42
dest_addr = 0x00

# delay between queued requests, milliseconds
poll_interval_ms = 250
`

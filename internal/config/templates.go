package config

import (
	"os"
	"path/filepath"
)

const configTemplate = `# FinGuide configuration

[diary]
# Reference timezone for all trading-day bucketing.
timezone = "Asia/Seoul"
# Weekly journaling goal (entries per week).
weekly_goal = 5
# Trailing months shown in the coverage breakdown.
months_back = 6

[quotes]
# Base URL of the quote bridge (yfinance API server).
api_url = "http://localhost:5001"
refresh_interval = "3m"
snapshot_key = "finguide:quote-cache"

[report]
truncate_chars = 160
timeout = "25s"
top_groups = 5
persona = "cautious beginner"

[coach]
model = "gpt-4o-mini"
# Cooldown in seconds when a rate-limit error carries no retry hint.
cooldown_fallback = 60
`

const credentialsTemplate = `# FinGuide credentials
# Keep this file private.

[openai]
api_key = ""
`

func createTemplateConfig(configDir string) error {
	return writeTemplate(configDir, "config.toml", configTemplate)
}

func createTemplateCredentials(configDir string) error {
	return writeTemplate(configDir, "credentials.toml", credentialsTemplate)
}

func writeTemplate(configDir, name, content string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}
	path := filepath.Join(configDir, name)
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return os.WriteFile(path, []byte(content), 0600)
}

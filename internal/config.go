package internal

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// Config holds application settings
type Config struct {
	// User configurable settings
	YouTubeAPIKey     string
	AppToken          string
	DiscordWebhookURL string
	ArchiveDir        string
	ListenAddr        string
	Verbose           bool

	// Fixed XDG paths (not configurable)
	ConfigDir string
	DataDir   string
}

//go:embed config.toml
var defaultFS embed.FS

// EnsureDefaultConfig checks if a config file exists in the XDG config
// directory and creates it from the embedded default if it doesn't exist.
func EnsureDefaultConfig(configDir string) error {
	filePath := filepath.Join(configDir, "config.toml")
	if FileExists(filePath) {
		return nil
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	defaultContent, err := defaultFS.ReadFile("config.toml")
	if err != nil {
		return fmt.Errorf("reading embedded default configuration: %w", err)
	}

	if err := os.WriteFile(filePath, defaultContent, 0644); err != nil {
		return fmt.Errorf("writing default configuration: %w", err)
	}

	fmt.Printf("Created default configuration at %s\n", filePath)
	return nil
}

// InitConfig initializes Viper and loads configuration
func InitConfig() *Config {
	// XDG standard directories
	configDir := filepath.Join(xdg.ConfigHome, "ytsnap")
	dataDir := filepath.Join(xdg.DataHome, "ytsnap")

	// Initialize viper
	v := viper.New()

	// Set default values for configurable settings
	v.SetDefault("archive_dir", filepath.Join(dataDir, "archive"))
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("verbose", false)

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	// Environment variables
	v.SetEnvPrefix("YTSNAP")
	v.AutomaticEnv()

	// The YouTube key, app token and webhook URL predate the YTSNAP prefix,
	// so bind their historical environment variable names as well.
	_ = v.BindEnv("youtube_api_key", "YOUTUBE_API_KEY")
	_ = v.BindEnv("app_token", "APP_AUTH_TOKEN")
	_ = v.BindEnv("discord_webhook_url", "DISCORD_WEBHOOK_URL")

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Warning: Error reading config file: %v\n", err)
		}
	}

	// Create config struct from viper
	config := &Config{
		YouTubeAPIKey:     v.GetString("youtube_api_key"),
		AppToken:          v.GetString("app_token"),
		DiscordWebhookURL: v.GetString("discord_webhook_url"),
		ArchiveDir:        v.GetString("archive_dir"),
		ListenAddr:        v.GetString("listen_addr"),
		Verbose:           v.GetBool("verbose"),

		ConfigDir: configDir,
		DataDir:   dataDir,
	}

	if config.Verbose {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	return config
}

// FileExists reports whether path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// EnsureDirs creates the given directories if they don't exist.
func EnsureDirs(dirs ...string) error {
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}
	return nil
}

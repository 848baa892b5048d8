package util

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ValentinKolb/mongoBridge/client"
	"github.com/ValentinKolb/mongoBridge/lib/serializer"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		// Add the word
		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	// Add any remaining text
	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// SetupBridgeClientFlags adds common bridge connection flags to a command
func SetupBridgeClientFlags(cmd *cobra.Command) {
	key := "host"
	cmd.PersistentFlags().String(key, "localhost", WrapString("The database server to connect to, in host[:port] form. Without an explicit port the default port 27017 is used"))

	key = "timeout"
	cmd.PersistentFlags().Int(key, 10, WrapString("The timeout in seconds for a single operation"))

	key = "log-level"
	cmd.PersistentFlags().String(key, "warn", WrapString("Log level of the bridge (debug, info, warn, error)"))

	key = "data"
	cmd.PersistentFlags().String(key, "", WrapString("Path of the data file backing the in-process storage engine. The file is loaded on startup and written back on exit; with an empty path the engine starts empty and is not persisted"))
}

// InitClientConfig initializes configuration from environment variables
func InitClientConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("mbridge")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// GetClientConfig reads client configuration from viper
func GetClientConfig() *client.ClientConfig {
	return &client.ClientConfig{
		Address:  viper.GetString("host"),
		LogLevel: viper.GetString("log-level"),
	}
}

// GetTimeoutSeconds retrieves the configured per-operation timeout
func GetTimeoutSeconds() int {
	return viper.GetInt("timeout")
}

// GetDataPath retrieves the configured data file path
func GetDataPath() string {
	return viper.GetString("data")
}

// GetSerializer creates a serializer based on configuration
func GetSerializer() (serializer.IValueSerializer, error) {
	return serializer.GetSerializer(viper.GetString("serializer"))
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}

package cmd

import (
	"errors"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "gitrecruiter"
)

type Config struct {
	GitHub *GitHubConfig `mapstructure:"github"`
	AI     *AIConfig     `mapstructure:"ai"`
	Output string        `mapstructure:"output"`
}

type GitHubConfig struct {
	Token     string        `mapstructure:"token"`
	TokenFile string        `mapstructure:"token-file"`
	APIURL    string        `mapstructure:"api-url"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type AIConfig struct {
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey       string        `mapstructure:"api-key"`
	APIKeyFile   string        `mapstructure:"api-key-file"`
	Model        string        `mapstructure:"model"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxLogLength int           `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "gitrecruiter grades a GitHub portfolio with Gemini and suggests how to improve it",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

// envBindings maps config keys to the environment variables that may set them.
var envBindings = map[string][]string{
	"github.token":           {"GITHUB_TOKEN"},
	"github.token-file":      {"GITHUB_TOKEN_FILE"},
	"github.api-url":         {"GITHUB_API_URL"},
	"ai.gemini.api-key":      {"GEMINI_API_KEY", "API_KEY"},
	"ai.gemini.api-key-file": {"GEMINI_API_KEY_FILE"},
	"ai.gemini.model":        {"GEMINI_MODEL"},
}

func init() {
	for key, envs := range envBindings {
		if err := viper.BindEnv(append([]string{key}, envs...)...); err != nil {
			log.Fatalf("binding %v environment variables: %v", envs, err)
		}
	}

	viper.SetDefault("github.timeout", 15*time.Second)
	viper.SetDefault("ai.provider", "gemini")
	viper.SetDefault("ai.gemini.model", "gemini-2.5-pro")
	viper.SetDefault("ai.gemini.timeout", 2*time.Minute)
	viper.SetDefault("ai.gemini.max-log-length", 200)
	viper.SetDefault("output", "text")

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is gitrecruiter.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config and secrets are needed only for the evaluate command.
	if evaluateCmd.CalledAs() == "" {
		return
	}

	// A missing .env is fine; variables may come from the real environment.
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	err := viper.ReadInConfig()
	if err == nil {
		return
	}

	// The default config file is optional, an explicit one is not.
	var notFound viper.ConfigFileNotFoundError
	if cfgFile == "" && errors.As(err, &notFound) {
		return
	}

	// We can't proceed if the config file parsed with error.
	log.Fatal(err)
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config.GitHub == nil {
		config.GitHub = &GitHubConfig{}
	}
	if config.AI == nil {
		config.AI = &AIConfig{}
	}
	if config.AI.Gemini == nil {
		config.AI.Gemini = &GeminiConfig{}
	}

	return config, nil
}

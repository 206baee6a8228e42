package cmd

import (
	"context"
	"log"
	"time"

	"github.com/spigell/ai-recruiter/internal/ai/gemini"
	"github.com/spigell/ai-recruiter/internal/interview"
	"github.com/spigell/ai-recruiter/internal/logger"
	"github.com/spigell/ai-recruiter/internal/secrets"
	"github.com/spigell/ai-recruiter/internal/store"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	app = "ai-recruiter"

	defaultQuestions    = 5
	defaultPersona      = "Lev"
	defaultPauseSeconds = 2
	defaultStorePath    = "interviews.db"
)

type Config struct {
	Scoring   *ScoringConfig   `mapstructure:"scoring"`
	Interview *InterviewConfig `mapstructure:"interview"`
	Store     *StoreConfig     `mapstructure:"store"`
	AI        *AIConfig        `mapstructure:"ai"`
}

type ScoringConfig struct {
	Threshold float64 `mapstructure:"threshold"`
}

type InterviewConfig struct {
	Questions    int    `mapstructure:"questions"`
	Persona      string `mapstructure:"persona"`
	HREmail      string `mapstructure:"hr-email"`
	Feedback     bool   `mapstructure:"feedback"`
	TTLDays      int    `mapstructure:"ttl-days"`
	PauseSeconds int    `mapstructure:"pause-seconds"`
}

type StoreConfig struct {
	Path string `mapstructure:"path"`
}

type AIConfig struct {
	Gemini *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey         string `mapstructure:"api-key"`
	APIKeyFile     string `mapstructure:"api-key-file"`
	Model          string `mapstructure:"model"`
	EmbeddingModel string `mapstructure:"embedding-model"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "ai-recruiter screens resumes against a vacancy and runs adaptive interviews",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("ai.gemini.api-key", "GEMINI_API_KEY"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is ai-recruiter.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config needed only for screen and interview. If there is no config, we can skip initialization.
	if screenCmd.CalledAs() == "" && interviewCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// We can't proceed if the config file parsed with error.
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}
	if config.Scoring == nil {
		config.Scoring = &ScoringConfig{}
	}
	if config.Interview == nil {
		config.Interview = &InterviewConfig{}
	}
	if config.Interview.Questions <= 0 {
		config.Interview.Questions = defaultQuestions
	}
	if config.Interview.Persona == "" {
		config.Interview.Persona = defaultPersona
	}
	if config.Interview.PauseSeconds < 0 {
		config.Interview.PauseSeconds = defaultPauseSeconds
	}
	if config.Store == nil {
		config.Store = &StoreConfig{}
	}
	if config.Store.Path == "" {
		config.Store.Path = defaultStorePath
	}
	if config.AI == nil {
		config.AI = &AIConfig{}
	}
	if config.AI.Gemini == nil {
		config.AI.Gemini = &GeminiConfig{}
	}

	return config, nil
}

func newLogger() *zap.Logger {
	zl, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	return zl
}

// newGemini builds the Gemini client from the configured API key. The
// key can come inline, from a file, or from GEMINI_API_KEY.
func newGemini(ctx context.Context, config *Config, zl *zap.Logger) (*gemini.Client, error) {
	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: config.AI.Gemini.APIKey,
		File:  config.AI.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, err
	}

	client, err := gemini.NewClient(ctx, apiKey, config.AI.Gemini.Model, config.AI.Gemini.EmbeddingModel)
	if err != nil {
		return nil, err
	}

	logger.WithModel(zl, "gemini", client.Model()).Info("ai client ready")

	return client, nil
}

func newController(generator *gemini.Client, sessions interview.Store, zl *zap.Logger, config *Config) *interview.Controller {
	return interview.NewController(generator, sessions, zl, interview.Options{
		Persona: config.Interview.Persona,
		HREmail: config.Interview.HREmail,
		TTL:     time.Duration(config.Interview.TTLDays) * 24 * time.Hour,
	})
}

func openStore(config *Config, zl *zap.Logger) *store.SQLite {
	db, err := store.OpenSQLite(config.Store.Path)
	if err != nil {
		zl.Fatal("opening interview store", zap.Error(err), zap.String("path", config.Store.Path))
	}
	return db
}

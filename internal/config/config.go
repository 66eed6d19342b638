package config

import (
	"github.com/spf13/viper"
)

// Config holds all runtime configuration loaded from environment variables.
// Run-specific parameters (input files, promotion window) come from the
// request or the CLI flags, never from here.
type Config struct {
	// Server
	Port int    `mapstructure:"PORT"`
	Env  string `mapstructure:"APP_ENV"` // development | production

	// Pipeline behavior — revision flags, see service.Options
	BasePrix             string `mapstructure:"BASE_PRIX"`  // achat_option | revient
	BaseMargeFinale      string `mapstructure:"BASE_MARGE"` // reference | achat_option
	ExclusionCartesienne bool   `mapstructure:"EXCLUSION_CARTESIENNE"`
	SeuilMargeBasse      int    `mapstructure:"SEUIL_MARGE_BASSE"`
	SeuilMargeHaute      int    `mapstructure:"SEUIL_MARGE_HAUTE"`

	// Export
	FormatExport  string `mapstructure:"FORMAT_EXPORT"` // csv | xlsx
	DossierSortie string `mapstructure:"DOSSIER_SORTIE"`
}

// Load reads configuration from environment variables (and optional .env file).
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Defaults match the latest revision of the calculator
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("BASE_PRIX", "achat_option")
	viper.SetDefault("BASE_MARGE", "reference")
	viper.SetDefault("EXCLUSION_CARTESIENNE", true)
	viper.SetDefault("SEUIL_MARGE_BASSE", 5)
	viper.SetDefault("SEUIL_MARGE_HAUTE", 80)
	viper.SetDefault("FORMAT_EXPORT", "csv")
	viper.SetDefault("DOSSIER_SORTIE", ".")

	// Optional .env file for local development — does not fail if missing
	_ = viper.ReadInConfig()

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

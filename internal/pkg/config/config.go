package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/ougirez/coe-afectaciones/internal/pkg/constants"
	"github.com/spf13/viper"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault(constants.ViperServerAddrKey, ":8080")
	v.SetDefault(constants.ViperLogLevelKey, "info")
	v.SetDefault(constants.ViperCORSAllowOriginsKey, []string{"http://localhost:3000"})

	v.SetDefault(constants.ViperClientBaseURLKey, "http://localhost:8080/api/v1")
	v.SetDefault(constants.ViperClientTimeoutKey, 30*time.Second)
	v.SetDefault(constants.ViperClientMaxRetriesKey, 2)
	v.SetDefault(constants.ViperClientRetryIntervalKey, 250*time.Millisecond)

	v.SetDefault(constants.ViperMatrixMaxInFlightKey, 16)
	v.SetDefault(constants.ViperMatrixResendUnchangedKey, false)
}

// Load fills the global viper from .env, coe.yaml and COE_* variables, in
// increasing priority. A missing config file is not an error; dir may be
// empty.
func Load(dir string) error {
	_ = godotenv.Load() // .env is optional

	return load(viper.GetViper(), dir)
}

func load(v *viper.Viper, dir string) error {
	setDefaults(v)

	v.SetConfigName("coe") // .yaml is implicit
	v.SetEnvPrefix("COE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if dir != "" {
		v.AddConfigPath(dir)
	}
	v.AddConfigPath("./")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("viper.ReadInConfig: %w", err)
		}
	}

	return nil
}

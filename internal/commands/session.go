package commands

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/ougirez/coe-afectaciones/internal/pkg/coeclient"
	"github.com/ougirez/coe-afectaciones/internal/pkg/constants"
	"github.com/ougirez/coe-afectaciones/internal/pkg/utils"
	"github.com/ougirez/coe-afectaciones/internal/service/matrix"
	"github.com/spf13/viper"
)

func newClient() *coeclient.Client {
	return coeclient.New(
		viper.GetString(constants.ViperClientBaseURLKey),
		&coeclient.AuthDoer{Doer: http.DefaultClient, Token: viper.GetString(constants.ViperTokenKey)},
		coeclient.WithTimeout(viper.GetDuration(constants.ViperClientTimeoutKey)),
		coeclient.WithRetries(
			viper.GetUint64(constants.ViperClientMaxRetriesKey),
			viper.GetDuration(constants.ViperClientRetryIntervalKey),
		),
	)
}

// sessionConfig merges flags, config and the token's claims. Explicit flags
// win over the user's own jurisdiction.
func sessionConfig() (matrix.Config, error) {
	cfg := matrix.Config{
		EmergenciaID:    viper.GetInt64(constants.ViperMatrixEmergenciaKey),
		MesaGrupoID:     viper.GetInt64(constants.ViperMatrixMesaGrupoKey),
		MaxInFlight:     viper.GetInt(constants.ViperMatrixMaxInFlightKey),
		ResendUnchanged: viper.GetBool(constants.ViperMatrixResendUnchangedKey),
	}
	if cfg.EmergenciaID == 0 {
		return cfg, fmt.Errorf("missing %s", constants.ViperMatrixEmergenciaKey)
	}
	if cfg.MesaGrupoID == 0 {
		return cfg, fmt.Errorf("missing %s", constants.ViperMatrixMesaGrupoKey)
	}

	token := viper.GetString(constants.ViperTokenKey)
	if token != "" {
		claims, err := utils.PeekAuthToken(token)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", constants.ViperTokenKey, err)
		}
		cfg.Creador = claims.Username
		if cfg.Creador == "" {
			cfg.Creador = strconv.FormatInt(claims.UserID, 10)
		}
		cfg.DefaultProvinciaID, cfg.DefaultCantonID = claims.ProvinciaID, claims.CantonID
	}

	if so.ProvinciaID != 0 {
		cfg.DefaultProvinciaID = so.ProvinciaID
		cfg.DefaultCantonID = so.CantonID
	} else if so.CantonID != 0 {
		cfg.DefaultCantonID = so.CantonID
	}

	return cfg, nil
}

func newSession() (*matrix.Session, *coeclient.Client, error) {
	cfg, err := sessionConfig()
	if err != nil {
		return nil, nil, err
	}
	client := newClient()
	return matrix.NewSession(client, cfg), client, nil
}

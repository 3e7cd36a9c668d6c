package api

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/ougirez/coe-afectaciones/internal/api/controller"
	"github.com/ougirez/coe-afectaciones/internal/pkg/constants"
	"github.com/ougirez/coe-afectaciones/internal/pkg/logger"
	"github.com/ougirez/coe-afectaciones/internal/pkg/store"
	"github.com/ougirez/coe-afectaciones/internal/service/afectacion"
	"github.com/ougirez/coe-afectaciones/internal/service/geography"
	"github.com/spf13/viper"
)

const APIPrefix = "/api/v1"

type APIService struct {
	router            *echo.Echo
	geographyService  *geography.Service
	afectacionService *afectacion.Service
}

func (svc *APIService) Serve(addr string) {
	if err := svc.router.Start(addr); err != nil && err != http.ErrServerClosed {
		logger.Fatal(context.Background(), err)
	}
}

func (svc *APIService) Shutdown(ctx context.Context) error {
	return svc.router.Shutdown(ctx)
}

// Handler exposes the router for httptest.
func (svc *APIService) Handler() http.Handler {
	return svc.router
}

func NewAPIService(store store.Store, httpClient *http.Client) (*APIService, error) {
	svc := &APIService{router: echo.New()}

	svc.router.HideBanner = true
	svc.router.Logger.SetLevel(log.INFO)
	svc.router.Validator = NewValidator()
	svc.router.Binder = NewBinder()
	svc.router.HTTPErrorHandler = httpErrorHandler
	svc.router.Use(middleware.Recover())
	svc.router.Use(svc.RequestIDMiddleware)
	svc.router.Use(middleware.Logger())

	origins := viper.GetStringSlice(constants.ViperCORSAllowOriginsKey)
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	svc.router.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{echo.GET, echo.PUT, echo.POST, echo.DELETE},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization, constants.HeaderRequestID},
	}))

	svc.geographyService = geography.NewService(store, httpClient)
	svc.afectacionService = afectacion.NewService(store)

	cntrl := controller.NewController(svc.geographyService, svc.afectacionService)

	svc.router.GET("/health", cntrl.Health)

	api := svc.router.Group(APIPrefix, svc.AuthMiddleware)

	api.GET("/provincias/emergencia/:emergenciaId", cntrl.GetProvincias)
	api.GET("/provincia/:provinciaId/cantones/emergencia/:emergenciaId", cntrl.GetCantones)
	api.GET("/canton/:cantonId/parroquias/emergencia/:emergenciaId", cntrl.GetParroquias)

	// the misspelled path is what the web front-end calls
	api.GET("/mesa_grupo/:mesaGrupoId/afectacion_varibles/", cntrl.GetVariables)
	api.GET("/mesa_grupo/:mesaGrupoId/afectacion_varibles", cntrl.GetVariables)

	registros := api.Group("/afectacion_variable_registros")
	registros.GET("/parroquia/:parroquiaId/emergencia/:emergenciaId/mesa_grupo/:mesaGrupoId", cntrl.GetRegistros)
	registros.POST("", cntrl.CreateRegistro)
	registros.PUT("/:id", cntrl.UpdateRegistro)

	detalles := api.Group("/afectacion_variable_registro_detalles")
	detalles.GET("/emergencia/:emergenciaId/variable/:variableId/parroquia/:parroquiaId", cntrl.GetInfraCandidates)
	detalles.POST("", cntrl.CreateDetalle)
	detalles.DELETE("/:id", cntrl.DeleteDetalle)

	geografia := api.Group("/geografia", svc.AdminMiddleware)
	geografia.POST("/backfill", cntrl.BackFillGeografia)

	return svc, nil
}

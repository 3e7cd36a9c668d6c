package dto

type InfraCandidateRow struct {
	InfraestructuraID                   int64  `json:"infraestructura_id"`
	Nombre                              string `json:"nombre"`
	Registrada                          bool   `json:"registrada"`
	AfectacionVariableRegistroDetalleID *int64 `json:"afectacion_variable_registro_detalle_id"`
}

type CreateDetalleRequest struct {
	Activo                       bool    `json:"activo"`
	AfectacionVariableRegistroID int64   `json:"afectacion_variable_registro_id" validate:"required,gt=0"`
	Costo                        float64 `json:"costo" validate:"gte=0"`
	Creador                      string  `json:"creador"`
	InfraestructuraID            int64   `json:"infraestructura_id" validate:"required,gt=0"`
}

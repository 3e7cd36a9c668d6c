package dto

// Wire shapes shared by the REST server and coeclient. Field names are the
// contract with the web front-end and must not change.

type RegistroRow struct {
	AfectacionVariableRegistroID *int64   `json:"afectacion_variable_registro_id,omitempty"`
	AfectacionVariableID         int64    `json:"afectacion_variable_id"`
	Cantidad                     *float64 `json:"cantidad"`
	Costo                        *float64 `json:"costo"`
}

type CreateRegistroRequest struct {
	Activo               bool    `json:"activo"`
	AfectacionVariableID int64   `json:"afectacion_variable_id" validate:"required,gt=0"`
	Cantidad             float64 `json:"cantidad" validate:"gte=0"`
	CantonID             int64   `json:"canton_id" validate:"required,gt=0"`
	Costo                float64 `json:"costo" validate:"gte=0"`
	Creador              string  `json:"creador"`
	EmergenciaID         int64   `json:"emergencia_id" validate:"required,gt=0"`
	ParroquiaID          int64   `json:"parroquia_id" validate:"required,gt=0"`
	ProvinciaID          int64   `json:"provincia_id" validate:"required,gt=0"`
}

type UpdateRegistroRequest struct {
	Cantidad float64 `json:"cantidad" validate:"gte=0"`
	Costo    float64 `json:"costo" validate:"gte=0"`
}

type CreatedResponse struct {
	ID int64 `json:"id"`
}

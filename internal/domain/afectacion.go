package domain

import "time"

// AfectacionVariable defines one column of the affectation matrix.
type AfectacionVariable struct {
	ID            int64     `db:"id" json:"id"`
	MesaGrupoID   int64     `db:"mesa_grupo_id" json:"mesa_grupo_id"`
	Nombre        string    `db:"nombre" json:"nombre"`
	RequiereCosto bool      `db:"requiere_costo" json:"requiere_costo"`
	RequiereGis   bool      `db:"requiere_gis" json:"requiere_gis"`
	CreatedAt     time.Time `db:"created_at" json:"-"`
	UpdatedAt     time.Time `db:"updated_at" json:"-"`
}

type AfectacionVariableRegistro struct {
	ID                   int64     `db:"id"`
	AfectacionVariableID int64     `db:"afectacion_variable_id"`
	EmergenciaID         int64     `db:"emergencia_id"`
	ProvinciaID          int64     `db:"provincia_id"`
	CantonID             int64     `db:"canton_id"`
	ParroquiaID          int64     `db:"parroquia_id"`
	Cantidad             float64   `db:"cantidad"`
	Costo                float64   `db:"costo"`
	Activo               bool      `db:"activo"`
	Creador              string    `db:"creador"`
	CreatedAt            time.Time `db:"created_at"`
	UpdatedAt            time.Time `db:"updated_at"`
}

type Infraestructura struct {
	ID          int64     `db:"id"`
	ParroquiaID int64     `db:"parroquia_id"`
	Nombre      string    `db:"nombre"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// InfraCandidate is one row of the infrastructure checklist for a
// (parroquia, variable) record. DetalleID is set only when Registrada.
type InfraCandidate struct {
	InfraestructuraID int64  `db:"infraestructura_id"`
	Nombre            string `db:"nombre"`
	Registrada        bool   `db:"registrada"`
	DetalleID         *int64 `db:"detalle_id"`
}

type AfectacionVariableRegistroDetalle struct {
	ID                           int64     `db:"id"`
	AfectacionVariableRegistroID int64     `db:"afectacion_variable_registro_id"`
	InfraestructuraID            int64     `db:"infraestructura_id"`
	Costo                        float64   `db:"costo"`
	Activo                       bool      `db:"activo"`
	Creador                      string    `db:"creador"`
	CreatedAt                    time.Time `db:"created_at"`
	UpdatedAt                    time.Time `db:"updated_at"`
}

type ErrorResponse struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

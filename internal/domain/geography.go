package domain

import "time"

type Provincia struct {
	ID        int64     `db:"id" json:"id"`
	Nombre    string    `db:"nombre" json:"nombre"`
	CreatedAt time.Time `db:"created_at" json:"-"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`
}

type Canton struct {
	ID          int64     `db:"id" json:"id"`
	ProvinciaID int64     `db:"provincia_id" json:"provincia_id"`
	Nombre      string    `db:"nombre" json:"nombre"`
	CreatedAt   time.Time `db:"created_at" json:"-"`
	UpdatedAt   time.Time `db:"updated_at" json:"-"`
}

// Parroquia is read-only reference data for the whole editing session.
type Parroquia struct {
	ID          int64     `db:"id" json:"id"`
	CantonID    int64     `db:"canton_id" json:"canton_id"`
	ProvinciaID int64     `db:"provincia_id" json:"provincia_id"`
	Nombre      string    `db:"nombre" json:"nombre"`
	CreatedAt   time.Time `db:"created_at" json:"-"`
	UpdatedAt   time.Time `db:"updated_at" json:"-"`
}

type Emergencia struct {
	ID        int64     `db:"id" json:"id"`
	Nombre    string    `db:"nombre" json:"nombre"`
	Activo    bool      `db:"activo" json:"activo"`
	CreatedAt time.Time `db:"created_at" json:"-"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`
}

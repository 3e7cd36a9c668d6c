package dto

type BackfillGeografiaRequest struct {
	URL string `json:"url" validate:"required,url"`
}

// DPARow is one parsed line of the political-administrative division table.
type DPARow struct {
	ProvinciaID     int64
	ProvinciaNombre string
	CantonID        int64
	CantonNombre    string
	ParroquiaID     int64
	ParroquiaNombre string
}

type BackfillGeografiaResponse struct {
	Provincias int `json:"provincias"`
	Cantones   int `json:"cantones"`
	Parroquias int `json:"parroquias"`
}

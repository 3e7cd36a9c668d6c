package infra

import "fmt"

type Op int

const (
	OpCreate Op = iota + 1
	OpDelete
)

func (o Op) String() string {
	switch o {
	case OpCreate:
		return "create"
	case OpDelete:
		return "delete"
	default:
		return "unknown"
	}
}

type Outcome struct {
	InfraestructuraID int64
	Op                Op
	DetalleID         int64
	Err               error
}

type Report struct {
	Outcomes []Outcome
}

func (r *Report) Failed() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Err != nil {
			out = append(out, o)
		}
	}
	return out
}

func (r *Report) OK() bool {
	return len(r.Failed()) == 0
}

func (r *Report) Message() string {
	failed := len(r.Failed())
	total := len(r.Outcomes)

	switch {
	case total == 0:
		return "No hay cambios en la infraestructura"
	case failed == total:
		return "No se pudo guardar la infraestructura"
	case failed > 0:
		return fmt.Sprintf("Se guardaron %d de %d cambios; %d fallaron", total-failed, total, failed)
	default:
		return "Infraestructura actualizada correctamente"
	}
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de lote.
const (
	TipoLoteRegular             = "Regular"
	TipoLoteIrregular           = "Irregular"
	TipoLoteEsquina             = "En Esquina"
	TipoLoteEsquinaConAreaVerde = "En Esquina con Area Verde"
)

// Orientacion una de las cuatro colindancias del lote (dato descriptivo, sin lógica).
type Orientacion struct {
	Orientacion string
	Medidas     string
	Colindancia string
}

// Lote unidad vendible. Status solo cambia a través del motor de lotes.
type Lote struct {
	ID             string
	PaqueteID      string
	PrototipoID    *string
	Calle          string
	NumeroExterior int
	NumeroInterior string
	Manzana        string
	Lote           string
	CUV            string
	Terreno        *decimal.Decimal
	TipoDeLote     string
	Precio         decimal.Decimal
	Orientaciones  [4]Orientacion
	Status         LotStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsAvailable indica si el lote puede apartarse.
func (l *Lote) IsAvailable() bool {
	return l.Status == LotStatusLibre
}

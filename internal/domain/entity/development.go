package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Fraccionamiento es el desarrollo inmobiliario de nivel superior.
type Fraccionamiento struct {
	ID        string
	Nombre    string
	Ubicacion string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Paquete agrupa lotes dentro de un fraccionamiento.
type Paquete struct {
	ID                string
	FraccionamientoID string
	Nombre            string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Prototipo modelo de vivienda asignable a un lote.
type Prototipo struct {
	ID                     string
	Nombre                 string
	SuperficieTerreno      decimal.Decimal
	SuperficieConstruccion decimal.Decimal
	Niveles                int
	Recamaras              int
	Banos                  decimal.Decimal // admite medios baños
	Observaciones          string
	Precio                 decimal.Decimal
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

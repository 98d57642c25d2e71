package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateFraccionamientoRequest alta de desarrollo.
type CreateFraccionamientoRequest struct {
	Nombre    string `json:"nombre" validate:"required,max=100"`
	Ubicacion string `json:"ubicacion" validate:"max=200"`
}

// FraccionamientoResponse salida de desarrollo.
type FraccionamientoResponse struct {
	ID        string    `json:"id"`
	Nombre    string    `json:"nombre"`
	Ubicacion string    `json:"ubicacion,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CreatePaqueteRequest alta de paquete dentro de un fraccionamiento.
type CreatePaqueteRequest struct {
	Nombre string `json:"nombre" validate:"required,max=100"`
}

// PaqueteResponse salida de paquete.
type PaqueteResponse struct {
	ID                string    `json:"id"`
	FraccionamientoID string    `json:"fraccionamiento_id"`
	Nombre            string    `json:"nombre"`
	CreatedAt         time.Time `json:"created_at"`
}

// CreatePrototipoRequest alta de prototipo.
type CreatePrototipoRequest struct {
	Nombre                 string          `json:"nombre" validate:"required,max=100"`
	SuperficieTerreno      decimal.Decimal `json:"superficie_terreno"`
	SuperficieConstruccion decimal.Decimal `json:"superficie_construccion"`
	Niveles                int             `json:"niveles" validate:"min=1"`
	Recamaras              int             `json:"recamaras" validate:"min=0"`
	Banos                  decimal.Decimal `json:"banos"`
	Observaciones          string          `json:"observaciones"`
	Precio                 decimal.Decimal `json:"precio"`
}

// PrototipoResponse salida de prototipo.
type PrototipoResponse struct {
	ID                     string          `json:"id"`
	Nombre                 string          `json:"nombre"`
	SuperficieTerreno      decimal.Decimal `json:"superficie_terreno"`
	SuperficieConstruccion decimal.Decimal `json:"superficie_construccion"`
	Niveles                int             `json:"niveles"`
	Recamaras              int             `json:"recamaras"`
	Banos                  decimal.Decimal `json:"banos"`
	Observaciones          string          `json:"observaciones,omitempty"`
	Precio                 decimal.Decimal `json:"precio"`
}

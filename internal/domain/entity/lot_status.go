package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/jhoicas/crm-inmobiliario/internal/domain"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// LotStatus estado vendible de un lote. El valor cero no es un estado válido.
type LotStatus uint8

const (
	LotStatusLibre LotStatus = iota + 1
	LotStatusApartado
	LotStatusTitulado
)

// LotStatuses en orden de ciclo de vida.
var LotStatuses = []LotStatus{LotStatusLibre, LotStatusApartado, LotStatusTitulado}

// String devuelve el nombre canónico (LIBRE, APARTADO, TITULADO).
func (s LotStatus) String() string {
	switch s {
	case LotStatusLibre:
		return "LIBRE"
	case LotStatusApartado:
		return "APARTADO"
	case LotStatusTitulado:
		return "TITULADO"
	}
	return fmt.Sprintf("LotStatus(%d)", uint8(s))
}

// Label nombre para mostrar (Libre, Apartado, Titulado).
func (s LotStatus) Label() string {
	switch s {
	case LotStatusLibre:
		return "Libre"
	case LotStatusApartado:
		return "Apartado"
	case LotStatusTitulado:
		return "Titulado"
	}
	return ""
}

// Valid indica si s es uno de los tres estados.
func (s LotStatus) Valid() bool {
	return s >= LotStatusLibre && s <= LotStatusTitulado
}

// statusTokens mapea tokens ya plegados (minúsculas, sin acentos) a su estado canónico.
var statusTokens = map[string]LotStatus{
	"libre":      LotStatusLibre,
	"lib":        LotStatusLibre,
	"li":         LotStatusLibre,
	"disponible": LotStatusLibre,
	"apartado":   LotStatusApartado,
	"ap":         LotStatusApartado,
	"reservado":  LotStatusApartado,
	"titulado":   LotStatusTitulado,
	"ti":         LotStatusTitulado,
	"vendido":    LotStatusTitulado,
	// nombres del enum LotStatus del mapa
	"lotstatus.libre":    LotStatusLibre,
	"lotstatus.apartado": LotStatusApartado,
	"lotstatus.titulado": LotStatusTitulado,
}

func foldStatusToken(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, strings.TrimSpace(s))
	if err != nil {
		folded = strings.TrimSpace(s)
	}
	return strings.ToLower(folded)
}

// ParseLotStatus normalización estricta: si el token no se reconoce devuelve un error
// que satisface errors.Is(err, domain.ErrInvalidStatus).
func ParseLotStatus(s string) (LotStatus, error) {
	if st, ok := statusTokens[foldStatusToken(s)]; ok {
		return st, nil
	}
	return 0, &InvalidLotStatusError{Token: s}
}

// NormalizeLotStatus normalización permisiva: cualquier token desconocido (o vacío) se toma como LIBRE.
// Solo para datos heredados o de despliegue; las entradas de usuario deben usar ParseLotStatus.
func NormalizeLotStatus(s string) LotStatus {
	st, err := ParseLotStatus(s)
	if err != nil {
		return LotStatusLibre
	}
	return st
}

// InvalidLotStatusError token de estado no reconocido.
type InvalidLotStatusError struct {
	Token string
}

func (e *InvalidLotStatusError) Error() string {
	return fmt.Sprintf("estado de lote no reconocido: %q", e.Token)
}

func (e *InvalidLotStatusError) Unwrap() error { return domain.ErrInvalidStatus }

// MarshalJSON serializa con el nombre canónico.
func (s LotStatus) MarshalJSON() ([]byte, error) {
	if !s.Valid() {
		return []byte("null"), nil
	}
	return json.Marshal(s.String())
}

// UnmarshalJSON exige un token reconocido (normalización estricta en la frontera).
func (s *LotStatus) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	st, err := ParseLotStatus(raw)
	if err != nil {
		return err
	}
	*s = st
	return nil
}

// Value persiste el nombre canónico.
func (s LotStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, &InvalidLotStatusError{Token: s.String()}
	}
	return s.String(), nil
}

// Scan lee columnas de texto. Solo acepta valores canónicos: la BD tiene CHECK sobre status.
func (s *LotStatus) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("scan LotStatus: tipo no soportado %T", src)
	}
	st, err := ParseLotStatus(raw)
	if err != nil {
		return err
	}
	*s = st
	return nil
}

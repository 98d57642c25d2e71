package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
)

// Errores del motor de lotes.
var (
	ErrInvalidTransition  = errors.New("cambio de estado no permitido")
	ErrLotNotAvailable    = errors.New("el lote no está disponible")
	ErrLotAlreadyAssigned = errors.New("el lote ya está asignado")
	ErrNoActiveAssignment = errors.New("el lote no tiene una asignación activa")
	ErrInvalidStatus      = errors.New("estado inválido")
	ErrMissingReason      = errors.New("se requiere un motivo")
	ErrStorage            = errors.New("error de almacenamiento")
)

// RuleError indica qué regla rechazó la operación. Err es uno de los sentinels de arriba.
type RuleError struct {
	Rule string
	Err  error
}

func (e *RuleError) Error() string {
	return e.Err.Error() + ": " + e.Rule
}

func (e *RuleError) Unwrap() error { return e.Err }

// Rule construye un RuleError.
func Rule(err error, format string, args ...any) error {
	return &RuleError{Rule: fmt.Sprintf(format, args...), Err: err}
}

// RuleOf devuelve la descripción de la regla violada, o "" si err no es un RuleError.
func RuleOf(err error) string {
	var re *RuleError
	if errors.As(err, &re) {
		return re.Rule
	}
	return ""
}

// StorageError envuelve un fallo de infraestructura para que errors.Is(err, ErrStorage) sea cierto.
// Los errores de dominio pasan sin cambios.
func StorageError(err error) error {
	if err == nil || IsDomainError(err) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrStorage, err)
}

// IsDomainError indica si err proviene de la taxonomía de dominio.
func IsDomainError(err error) bool {
	for _, target := range []error{
		ErrNotFound, ErrUserNotFound, ErrEmailAlreadyExists, ErrInvalidInput, ErrDuplicate,
		ErrUnauthorized, ErrForbidden, ErrConflict,
		ErrInvalidTransition, ErrLotNotAvailable, ErrLotAlreadyAssigned, ErrNoActiveAssignment,
		ErrInvalidStatus, ErrMissingReason, ErrStorage,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// ErrorCode código estable para respuestas HTTP y etiquetas de métricas.
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrForbidden):
		return "FORBIDDEN"
	case errors.Is(err, ErrUnauthorized):
		return "UNAUTHORIZED"
	case errors.Is(err, ErrInvalidTransition):
		return "INVALID_TRANSITION"
	case errors.Is(err, ErrLotNotAvailable):
		return "LOT_NOT_AVAILABLE"
	case errors.Is(err, ErrLotAlreadyAssigned):
		return "LOT_ALREADY_ASSIGNED"
	case errors.Is(err, ErrNoActiveAssignment):
		return "NO_ACTIVE_ASSIGNMENT"
	case errors.Is(err, ErrInvalidStatus):
		return "INVALID_STATUS"
	case errors.Is(err, ErrMissingReason):
		return "MISSING_REASON"
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrUserNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrInvalidInput):
		return "VALIDATION"
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrEmailAlreadyExists):
		return "DUPLICATE"
	case errors.Is(err, ErrConflict):
		return "CONFLICT"
	case errors.Is(err, ErrStorage):
		return "STORAGE_ERROR"
	}
	return "INTERNAL"
}

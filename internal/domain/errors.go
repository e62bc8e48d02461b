package domain

import "errors"

// Errores de dominio (sin dependencias externas). Los casos de uso los envuelven
// con fmt.Errorf("%w: detalle") y las capas externas clasifican con errors.Is.
var (
	// ErrNotFound: el tender/asignación no existe o está soft-deleted.
	// Siempre tiene prioridad sobre los chequeos de autorización.
	ErrNotFound = errors.New("recurso no encontrado")
	// ErrForbidden: el actor no tiene el rol/capability requerido, o el usuario
	// objetivo pertenece a otro tenant.
	ErrForbidden = errors.New("acceso denegado")
	// ErrConflict: ya existe una asignación para ese (tender, usuario) en la ruta de creación.
	ErrConflict = errors.New("conflicto con el estado actual")
	// ErrBusinessRule: transición de estado inválida, remover/degradar al último owner,
	// o registrar un resultado fuera de SUBMITTED.
	ErrBusinessRule = errors.New("regla de negocio violada")

	// Auth (fuera de la taxonomía del core, usados por registro/login).
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrInvalidInput       = errors.New("entrada inválida")
)

// Package statemachine implementa una tabla de transiciones genérica para las
// máquinas de estado del dominio. Ruta y Entrega comparten exactamente la
// misma forma (estado inicial, aristas permitidas, estados terminales), por lo
// que ambas se instancian sobre esta abstracción en lugar de duplicar el
// control de flujo.
package statemachine

import (
	"github.com/tu-usuario/logistica-pro/internal/domain"
)

// State restringe los estados a tipos string del dominio (RouteState, DeliveryState).
type State interface {
	~string
}

// Machine es una tabla inmutable de transiciones permitidas entre estados.
type Machine[S State] struct {
	entity string
	edges  map[S]map[S]struct{}
}

// New construye la máquina a partir del nombre de la entidad (para mensajes de
// error) y el conjunto de aristas permitidas. Un estado sin aristas salientes
// es terminal; debe aparecer como clave con lista vacía para ser reconocido.
func New[S State](entity string, edges map[S][]S) *Machine[S] {
	m := &Machine[S]{
		entity: entity,
		edges:  make(map[S]map[S]struct{}, len(edges)),
	}
	for from, targets := range edges {
		set := make(map[S]struct{}, len(targets))
		for _, to := range targets {
			set[to] = struct{}{}
		}
		m.edges[from] = set
	}
	return m
}

// Known indica si el estado aparece en la tabla.
func (m *Machine[S]) Known(s S) bool {
	_, ok := m.edges[s]
	return ok
}

// IsTerminal indica si el estado no tiene aristas salientes.
func (m *Machine[S]) IsTerminal(s S) bool {
	set, ok := m.edges[s]
	return ok && len(set) == 0
}

// Can indica si la transición from -> to está permitida.
func (m *Machine[S]) Can(from, to S) bool {
	set, ok := m.edges[from]
	if !ok {
		return false
	}
	_, ok = set[to]
	return ok
}

// Transition valida la transición y devuelve InvalidTransitionError si no está
// en la tabla. No muta nada: la entidad dueña del estado aplica el cambio.
func (m *Machine[S]) Transition(from, to S) error {
	if !m.Can(from, to) {
		return &domain.InvalidTransitionError{
			Entity: m.entity,
			From:   string(from),
			To:     string(to),
		}
	}
	return nil
}

package statemachine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/logistica-pro/internal/domain"
)

type testState string

const (
	stateA testState = "a"
	stateB testState = "b"
	stateC testState = "c"
)

func testMachine() *Machine[testState] {
	return New("prueba", map[testState][]testState{
		stateA: {stateB, stateC},
		stateB: {stateC},
		stateC: {},
	})
}

func TestTransition_Permitida(t *testing.T) {
	m := testMachine()

	assert.NoError(t, m.Transition(stateA, stateB))
	assert.NoError(t, m.Transition(stateA, stateC))
	assert.NoError(t, m.Transition(stateB, stateC))
}

func TestTransition_Rechazada(t *testing.T) {
	m := testMachine()

	err := m.Transition(stateB, stateA)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	var transErr *domain.InvalidTransitionError
	require.True(t, errors.As(err, &transErr))
	assert.Equal(t, "prueba", transErr.Entity)
	assert.Equal(t, "b", transErr.From)
	assert.Equal(t, "a", transErr.To)
}

func TestTransition_DesdeTerminal(t *testing.T) {
	m := testMachine()

	// cierre: un estado terminal no tiene ninguna salida
	for _, to := range []testState{stateA, stateB, stateC} {
		assert.Error(t, m.Transition(stateC, to))
	}
}

func TestTransition_EstadoDesconocido(t *testing.T) {
	m := testMachine()

	assert.Error(t, m.Transition(testState("x"), stateA))
	assert.False(t, m.Can(stateA, testState("x")))
}

func TestIsTerminal(t *testing.T) {
	m := testMachine()

	assert.False(t, m.IsTerminal(stateA))
	assert.True(t, m.IsTerminal(stateC))
	// un estado fuera de la tabla no es terminal, es desconocido
	assert.False(t, m.IsTerminal(testState("x")))
}

func TestKnown(t *testing.T) {
	m := testMachine()

	assert.True(t, m.Known(stateA))
	assert.True(t, m.Known(stateC))
	assert.False(t, m.Known(testState("x")))
}

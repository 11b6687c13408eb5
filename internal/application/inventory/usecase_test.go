package inventory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/logistica-pro/internal/domain"
	"github.com/tu-usuario/logistica-pro/internal/domain/entity"
	"github.com/tu-usuario/logistica-pro/internal/domain/repository"
)

// ── Fakes en memoria ──────────────────────────────────────────────────────────
// memStore emula la BD: el TxRunner toma el mutex durante toda la transacción,
// con lo que los movimientos quedan serializados igual que con el bloqueo de
// fila en PostgreSQL, y restaura el estado previo si la función falla
// (rollback).

type memStore struct {
	mu         sync.Mutex
	products   map[string]*entity.Product
	users      map[string]*entity.User
	warehouses map[string]*entity.Warehouse
	movements  []*entity.Movement
}

func newMemStore() *memStore {
	return &memStore{
		products:   map[string]*entity.Product{},
		users:      map[string]*entity.User{},
		warehouses: map[string]*entity.Warehouse{},
	}
}

type memProductRepo struct {
	store  *memStore
	locked bool // true si opera dentro de una tx (el mutex ya está tomado)
}

func (r *memProductRepo) withLock(fn func()) {
	if !r.locked {
		r.store.mu.Lock()
		defer r.store.mu.Unlock()
	}
	fn()
}

func (r *memProductRepo) Create(p *entity.Product) error {
	r.withLock(func() { r.store.products[p.ID] = p })
	return nil
}

func (r *memProductRepo) GetByID(id string) (*entity.Product, error) {
	var out *entity.Product
	r.withLock(func() {
		if p, ok := r.store.products[id]; ok {
			cp := *p
			out = &cp
		}
	})
	return out, nil
}

func (r *memProductRepo) GetByCode(code string) (*entity.Product, error) {
	var out *entity.Product
	r.withLock(func() {
		for _, p := range r.store.products {
			if p.Code == code {
				cp := *p
				out = &cp
			}
		}
	})
	return out, nil
}

func (r *memProductRepo) List(limit, offset int) ([]*entity.Product, error) { return nil, nil }

func (r *memProductRepo) Update(p *entity.Product) error {
	r.withLock(func() { r.store.products[p.ID] = p })
	return nil
}

func (r *memProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	// Dentro de la tx el mutex ya serializa; basta devolver el valor actual.
	return r.GetByID(id)
}

func (r *memProductRepo) UpdateStock(id string, stock int) error {
	r.withLock(func() {
		if p, ok := r.store.products[id]; ok {
			p.Stock = stock
		}
	})
	return nil
}

type memMovementRepo struct {
	store *memStore
}

func (r *memMovementRepo) Create(m *entity.Movement) error {
	m.ID = uuid.New().String()
	r.store.movements = append(r.store.movements, m)
	return nil
}

func (r *memMovementRepo) GetByID(id string) (*entity.Movement, error) {
	for _, m := range r.store.movements {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, nil
}

func (r *memMovementRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	var out []*entity.Movement
	for i := len(r.store.movements) - 1; i >= 0; i-- {
		m := r.store.movements[i]
		if m.ProductID != productID {
			continue
		}
		if from != nil && m.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && m.CreatedAt.After(*to) {
			continue
		}
		out = append(out, m)
	}
	if offset < len(out) {
		out = out[offset:]
	} else {
		out = nil
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memMovementRepo) SummarizeByType(from, to *time.Time) ([]repository.MovementSummary, error) {
	acc := map[string]*repository.MovementSummary{}
	for _, m := range r.store.movements {
		if from != nil && m.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && m.CreatedAt.After(*to) {
			continue
		}
		s, ok := acc[m.Type]
		if !ok {
			s = &repository.MovementSummary{Type: m.Type}
			acc[m.Type] = s
		}
		s.TotalQuantity += int64(m.Quantity)
		s.Count++
	}
	var out []repository.MovementSummary
	for _, s := range acc {
		out = append(out, *s)
	}
	return out, nil
}

type memUserRepo struct{ store *memStore }

func (r *memUserRepo) Create(u *entity.User) error { r.store.users[u.ID] = u; return nil }
func (r *memUserRepo) GetByID(id string) (*entity.User, error) {
	if u, ok := r.store.users[id]; ok {
		return u, nil
	}
	return nil, nil
}
func (r *memUserRepo) GetByEmail(email string) (*entity.User, error)  { return nil, nil }
func (r *memUserRepo) List(limit, offset int) ([]*entity.User, error) { return nil, nil }
func (r *memUserRepo) Update(u *entity.User) error                    { return nil }

type memWarehouseRepo struct{ store *memStore }

func (r *memWarehouseRepo) Create(w *entity.Warehouse) error { r.store.warehouses[w.ID] = w; return nil }
func (r *memWarehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	if w, ok := r.store.warehouses[id]; ok {
		return w, nil
	}
	return nil, nil
}
func (r *memWarehouseRepo) List(limit, offset int) ([]*entity.Warehouse, error) { return nil, nil }
func (r *memWarehouseRepo) Update(w *entity.Warehouse) error                    { return nil }

// memTxRunner serializa transacciones con el mutex del store y revierte el
// estado si fn falla, igual que Commit/Rollback.
type memTxRunner struct{ store *memStore }

func (r *memTxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	// Instantánea para rollback
	stocks := map[string]int{}
	for id, p := range r.store.products {
		stocks[id] = p.Stock
	}
	movCount := len(r.store.movements)

	err := fn(&memMovementRepo{store: r.store}, &memProductRepo{store: r.store, locked: true})
	if err != nil {
		for id, s := range stocks {
			r.store.products[id].Stock = s
		}
		r.store.movements = r.store.movements[:movCount]
		return err
	}
	return nil
}

// ── Armado ────────────────────────────────────────────────────────────────────

func setupLedger(t *testing.T, initialStock int) (*RegisterMovementUseCase, *HistoryUseCase, *memStore) {
	t.Helper()
	store := newMemStore()
	store.products["p1"] = &entity.Product{ID: "p1", Code: "SKU-001", Name: "Tornillos", Stock: initialStock, StockMinimum: 5, Active: true}
	store.users["u1"] = &entity.User{ID: "u1", Name: "Ana", Role: entity.RoleBodeguero, Active: true}
	store.warehouses["w1"] = &entity.Warehouse{ID: "w1", Name: "Bodega Norte", Active: true}
	store.warehouses["w2"] = &entity.Warehouse{ID: "w2", Name: "Bodega Sur", Active: true}

	productRepo := &memProductRepo{store: store}
	movRepo := &memMovementRepo{store: store}
	uc := NewRegisterMovementUseCase(&memTxRunner{store: store}, productRepo, &memUserRepo{store: store}, &memWarehouseRepo{store: store})
	history := NewHistoryUseCase(movRepo, productRepo)
	return uc, history, store
}

func salida(productID string, qty int) MovementInput {
	return MovementInput{
		Type:          entity.MovementTypeSalida,
		ProductID:     productID,
		Quantity:      qty,
		ResponsibleID: "u1",
		Motive:        entity.MotiveVenta,
	}
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestRegisterMovement_SalidaDescuentaStock(t *testing.T) {
	uc, _, store := setupLedger(t, 50)

	mov, err := uc.RegisterMovement(context.Background(), salida("p1", 30))
	require.NoError(t, err)

	assert.Equal(t, 50, mov.StockAnterior, "StockAnterior debe ser el stock previo")
	assert.Equal(t, 20, mov.StockNuevo, "StockNuevo debe reflejar la salida")
	assert.Equal(t, 20, store.products["p1"].Stock, "el stock del producto debe quedar en 20")
	assert.True(t, mov.CheckChain(), "la instantánea debe cumplir StockNuevo = StockAnterior - cantidad")
}

func TestRegisterMovement_EntradaSumaStock(t *testing.T) {
	uc, _, store := setupLedger(t, 10)

	mov, err := uc.RegisterMovement(context.Background(), MovementInput{
		Type: entity.MovementTypeEntrada, ProductID: "p1", Quantity: 15,
		ResponsibleID: "u1", Motive: entity.MotiveCompra,
	})
	require.NoError(t, err)

	assert.Equal(t, 10, mov.StockAnterior)
	assert.Equal(t, 25, mov.StockNuevo)
	assert.Equal(t, 25, store.products["p1"].Stock)
}

func TestRegisterMovement_StockInsuficiente(t *testing.T) {
	uc, _, store := setupLedger(t, 20)

	_, err := uc.RegisterMovement(context.Background(), salida("p1", 25))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var insuf *domain.InsufficientStockError
	require.True(t, errors.As(err, &insuf), "el error debe ser InsufficientStockError")
	assert.Equal(t, 20, insuf.Available)
	assert.Equal(t, 25, insuf.Requested)
	assert.Equal(t, 5, insuf.Shortfall())

	assert.Equal(t, 20, store.products["p1"].Stock, "el stock no debe cambiar")
	assert.Empty(t, store.movements, "no debe persistirse ningún movimiento")
}

func TestRegisterMovement_TransferenciaMismaBodega(t *testing.T) {
	uc, _, store := setupLedger(t, 50)

	_, err := uc.RegisterMovement(context.Background(), MovementInput{
		Type: entity.MovementTypeTransferencia, ProductID: "p1", Quantity: 5,
		ResponsibleID: "u1", Motive: entity.MotiveTraslado,
		OriginWarehouseID: "w1", DestinationWarehouseID: "w1",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "origen y destino iguales deben rechazarse")
	assert.Equal(t, 50, store.products["p1"].Stock, "sin mutación de stock")
	assert.Empty(t, store.movements)
}

func TestRegisterMovement_TransferenciaValida(t *testing.T) {
	uc, _, store := setupLedger(t, 50)

	mov, err := uc.RegisterMovement(context.Background(), MovementInput{
		Type: entity.MovementTypeTransferencia, ProductID: "p1", Quantity: 8,
		ResponsibleID: "u1", Motive: entity.MotiveTraslado,
		OriginWarehouseID: "w1", DestinationWarehouseID: "w2",
	})
	require.NoError(t, err)
	require.NotNil(t, mov.OriginWarehouseID)
	require.NotNil(t, mov.DestinationWarehouseID)
	assert.Equal(t, "w1", *mov.OriginWarehouseID)
	assert.Equal(t, "w2", *mov.DestinationWarehouseID)
	assert.Equal(t, 42, store.products["p1"].Stock)
}

func TestRegisterMovement_MotivoDesconocido(t *testing.T) {
	uc, _, _ := setupLedger(t, 50)

	in := salida("p1", 1)
	in.Motive = "capricho"
	_, err := uc.RegisterMovement(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegisterMovement_CantidadNoPositiva(t *testing.T) {
	uc, _, _ := setupLedger(t, 50)

	_, err := uc.RegisterMovement(context.Background(), salida("p1", 0))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegisterMovement_ProductoInactivo(t *testing.T) {
	uc, _, store := setupLedger(t, 50)
	store.products["p1"].Active = false

	_, err := uc.RegisterMovement(context.Background(), salida("p1", 1))
	assert.ErrorIs(t, err, domain.ErrInactiveEntity)
}

func TestRegisterMovement_ResponsableInexistente(t *testing.T) {
	uc, _, _ := setupLedger(t, 50)

	in := salida("p1", 1)
	in.ResponsibleID = "fantasma"
	_, err := uc.RegisterMovement(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// TestRegisterMovement_ConcurrenciaSinSobregiro: N salidas concurrentes cuya
// suma excede el stock. Deben tener éxito exactamente las que llevan el stock
// a cero; el resto falla con stock insuficiente y el stock nunca es negativo.
func TestRegisterMovement_ConcurrenciaSinSobregiro(t *testing.T) {
	uc, _, store := setupLedger(t, 50)

	const workers = 10
	const qty = 10 // 10 * 10 = 100 > 50: solo 5 pueden pasar

	var wg sync.WaitGroup
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.RegisterMovement(context.Background(), salida("p1", qty))
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var ok, insuficiente int
	for err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrInsufficientStock):
			insuficiente++
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}

	assert.Equal(t, 5, ok, "exactamente 5 salidas deben tener éxito")
	assert.Equal(t, 5, insuficiente, "las demás deben fallar por stock insuficiente")
	assert.Equal(t, 0, store.products["p1"].Stock, "el stock debe terminar en cero, nunca negativo")

	// La cadena de instantáneas debe ser consistente: el StockAnterior de cada
	// movimiento es el StockNuevo del anterior.
	prev := 50
	for _, m := range store.movements {
		assert.Equal(t, prev, m.StockAnterior, "cadena de instantáneas rota")
		assert.True(t, m.CheckChain())
		prev = m.StockNuevo
	}
}

// TestRegisterMovement_TimestampBajoBloqueo: el CreatedAt se captura dentro de
// la transacción, bajo el bloqueo de fila, así que el orden temporal de los
// movimientos coincide con su orden de commit aunque lleguen concurrentes. Un
// historial ordenado por fecha nunca muestra la cadena de instantáneas rota.
func TestRegisterMovement_TimestampBajoBloqueo(t *testing.T) {
	uc, _, store := setupLedger(t, 1000)

	const workers = 20
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.RegisterMovement(context.Background(), salida("p1", 1))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	require.Len(t, store.movements, workers)
	for i := 1; i < len(store.movements); i++ {
		prev, cur := store.movements[i-1], store.movements[i]
		assert.False(t, cur.CreatedAt.Before(prev.CreatedAt),
			"CreatedAt debe ser monotónico en orden de commit")
		assert.Equal(t, prev.StockNuevo, cur.StockAnterior, "cadena de instantáneas rota")
	}
}

func TestObtainHistory_OrdenYConsistencia(t *testing.T) {
	uc, history, store := setupLedger(t, 100)
	ctx := context.Background()

	_, err := uc.RegisterMovement(ctx, salida("p1", 10))
	require.NoError(t, err)
	_, err = uc.RegisterMovement(ctx, MovementInput{
		Type: entity.MovementTypeEntrada, ProductID: "p1", Quantity: 30,
		ResponsibleID: "u1", Motive: entity.MotiveCompra,
	})
	require.NoError(t, err)
	_, err = uc.RegisterMovement(ctx, salida("p1", 20))
	require.NoError(t, err)

	movs, err := history.ObtainHistory(ctx, "p1", nil, nil, 50, 0)
	require.NoError(t, err)
	require.Len(t, movs, 3)

	// Más reciente primero
	assert.Equal(t, entity.MovementTypeSalida, movs[0].Type)
	assert.Equal(t, 20, movs[0].Quantity)

	// La suma de deltas sobre el historial es stockFinal - stockInicial
	var delta int
	for _, m := range movs {
		delta += m.Delta()
	}
	assert.Equal(t, store.products["p1"].Stock-100, delta,
		"sum(StockNuevo-StockAnterior) debe igualar stockFinal-stockInicial")
}

func TestGetMovement_PorID(t *testing.T) {
	uc, history, store := setupLedger(t, 100)
	ctx := context.Background()

	registered, err := uc.RegisterMovement(ctx, salida("p1", 10))
	require.NoError(t, err)
	require.NotEmpty(t, registered.ID)
	require.Len(t, store.movements, 1)

	found, err := history.GetMovement(ctx, registered.ID)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, found.ID)
	assert.Equal(t, 100, found.StockAnterior)
	assert.Equal(t, 90, found.StockNuevo)
}

func TestGetMovement_Inexistente(t *testing.T) {
	_, history, _ := setupLedger(t, 10)

	_, err := history.GetMovement(context.Background(), "fantasma")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestObtainHistory_ProductoInexistente(t *testing.T) {
	_, history, _ := setupLedger(t, 10)

	_, err := history.ObtainHistory(context.Background(), "nope", nil, nil, 10, 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSummarizeByType(t *testing.T) {
	uc, history, _ := setupLedger(t, 100)
	ctx := context.Background()

	require.NoError(t, err2(uc.RegisterMovement(ctx, salida("p1", 10))))
	require.NoError(t, err2(uc.RegisterMovement(ctx, salida("p1", 5))))
	require.NoError(t, err2(uc.RegisterMovement(ctx, MovementInput{
		Type: entity.MovementTypeEntrada, ProductID: "p1", Quantity: 7,
		ResponsibleID: "u1", Motive: entity.MotiveCompra,
	})))

	summary, err := history.SummarizeByType(ctx, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(15), summary[entity.MovementTypeSalida].TotalQuantity)
	assert.Equal(t, int64(2), summary[entity.MovementTypeSalida].Count)
	assert.Equal(t, int64(7), summary[entity.MovementTypeEntrada].TotalQuantity)
	assert.Equal(t, int64(1), summary[entity.MovementTypeEntrada].Count)
}

func err2(_ *entity.Movement, err error) error { return err }

// Package pdf implementa la generación del comprobante de entrega en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Comprobante de Entrega  │  N° Entrega + Fecha      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE: Nombre / Dirección                                 │
//	│  ORIGEN: Nombre / Dirección                                  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Producto | Programado | Entregado                    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CONDUCTOR / DISTANCIA / CALIFICACIÓN                        │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/tu-usuario/logistica-pro/internal/application/deliveries"
	"github.com/tu-usuario/logistica-pro/internal/domain/entity"
	"github.com/tu-usuario/logistica-pro/internal/domain/repository"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ deliveries.ReceiptGenerator = (*ReceiptGenerator)(nil)

// ReceiptGenerator implementa deliveries.ReceiptGenerator usando Maroto v2.
// Resuelve los nombres de producto por repo para no arrastrarlos en la entrega.
type ReceiptGenerator struct {
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
}

// NewReceiptGenerator construye el generador.
func NewReceiptGenerator(productRepo repository.ProductRepository, userRepo repository.UserRepository) *ReceiptGenerator {
	return &ReceiptGenerator{productRepo: productRepo, userRepo: userRepo}
}

// Generate genera el comprobante y devuelve sus bytes.
func (g *ReceiptGenerator) Generate(delivery *entity.Delivery) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Comprobante de Entrega", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(delivery))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(g.partiesRows(delivery)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	itemRows, err := g.itemRows(delivery)
	if err != nil {
		return nil, err
	}
	m.AddRows(itemRows...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	footerRows, err := g.footerRows(delivery)
	if err != nil {
		return nil, err
	}
	m.AddRows(footerRows...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar comprobante: %w", err)
	}
	return doc.GetBytes(), nil
}

func (g *ReceiptGenerator) headerRow(delivery *entity.Delivery) core.Row {
	fecha := ""
	if delivery.DeliveredAt != nil {
		fecha = delivery.DeliveredAt.Format("02/01/2006 15:04")
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New("COMPROBANTE DE ENTREGA", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New(delivery.Number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 1,
			}),
			text.New(fecha, props.Text{
				Size: 9, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func (g *ReceiptGenerator) partiesRows(delivery *entity.Delivery) []core.Row {
	return []core.Row{
		row.New(12).Add(
			col.New(12).Add(
				text.New("CLIENTE: "+delivery.Client.Name, props.Text{Style: fontstyle.Bold, Size: 9, Top: 1}),
				text.New(delivery.Client.Address, props.Text{Size: 8, Top: 6, Color: colorGray}),
			),
		),
		row.New(12).Add(
			col.New(12).Add(
				text.New("ORIGEN: "+delivery.Origin.Name, props.Text{Style: fontstyle.Bold, Size: 9, Top: 1}),
				text.New(delivery.Origin.Address, props.Text{Size: 8, Top: 6, Color: colorGray}),
			),
		),
	}
}

func tableHeaderRow() core.Row {
	header := props.Text{Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 1}
	return row.New(8).Add(
		col.New(6).Add(text.New("Producto", header)),
		col.New(3).Add(text.New("Programado", headerAligned(header))),
		col.New(3).Add(text.New("Entregado", headerAligned(header))),
	)
}

func headerAligned(p props.Text) props.Text {
	p.Align = align.Right
	return p
}

func (g *ReceiptGenerator) itemRows(delivery *entity.Delivery) ([]core.Row, error) {
	rows := make([]core.Row, 0, len(delivery.Items))
	for _, it := range delivery.Items {
		name := it.ProductID
		product, err := g.productRepo.GetByID(it.ProductID)
		if err != nil {
			return nil, fmt.Errorf("pdf: producto %s: %w", it.ProductID, err)
		}
		if product != nil {
			name = product.Name
		}
		rows = append(rows, row.New(7).Add(
			col.New(6).Add(text.New(name, props.Text{Size: 9, Top: 1})),
			col.New(3).Add(text.New(fmt.Sprintf("%d", it.QuantityProgrammed), props.Text{Size: 9, Top: 1, Align: align.Right})),
			col.New(3).Add(text.New(fmt.Sprintf("%d", it.QuantityDelivered), props.Text{Size: 9, Top: 1, Align: align.Right})),
		))
	}
	return rows, nil
}

func (g *ReceiptGenerator) footerRows(delivery *entity.Delivery) ([]core.Row, error) {
	driverName := delivery.DriverID
	driver, err := g.userRepo.GetByID(delivery.DriverID)
	if err != nil {
		return nil, fmt.Errorf("pdf: conductor %s: %w", delivery.DriverID, err)
	}
	if driver != nil {
		driverName = driver.Name
	}

	rows := []core.Row{
		row.New(8).Add(
			col.New(6).Add(text.New("Conductor: "+driverName, props.Text{Size: 9, Top: 1})),
			col.New(6).Add(text.New(fmt.Sprintf("Distancia: %.1f km", delivery.TotalDistance), props.Text{Size: 9, Top: 1, Align: align.Right})),
		),
	}
	if delivery.Rating != nil {
		rows = append(rows, row.New(8).Add(
			col.New(12).Add(text.New(fmt.Sprintf("Calificación del cliente: %d/5", *delivery.Rating), props.Text{Size: 9, Top: 1})),
		))
	}
	if delivery.Signature != "" {
		rows = append(rows, row.New(8).Add(
			col.New(12).Add(text.New("Firmado por el cliente", props.Text{Size: 8, Top: 1, Color: colorGray})),
		))
	}
	return rows, nil
}

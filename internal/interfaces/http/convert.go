package http

import (
	"time"

	"github.com/tu-usuario/logistica-pro/internal/application/dto"
	"github.com/tu-usuario/logistica-pro/internal/domain/entity"
)

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

func toLocationDTO(l entity.Location) dto.LocationDTO {
	return dto.LocationDTO{Name: l.Name, Address: l.Address, Lat: l.Lat, Lon: l.Lon}
}

func toLocation(l dto.LocationDTO) entity.Location {
	return entity.Location{Name: l.Name, Address: l.Address, Lat: l.Lat, Lon: l.Lon}
}

func toTrackingResponse(points []entity.TrackingPoint) []dto.TrackingPointResponse {
	out := make([]dto.TrackingPointResponse, 0, len(points))
	for _, p := range points {
		out = append(out, dto.TrackingPointResponse{
			ID:        p.ID,
			Lat:       p.Lat,
			Lon:       p.Lon,
			Speed:     p.Speed,
			Progress:  p.Progress,
			Label:     p.Label,
			CreatedAt: p.CreatedAt.Format(time.RFC3339),
		})
	}
	return out
}

func toMovementResponse(m *entity.Movement) dto.MovementResponse {
	resp := dto.MovementResponse{
		ID:            m.ID,
		Type:          m.Type,
		ProductID:     m.ProductID,
		Quantity:      m.Quantity,
		ResponsibleID: m.ResponsibleID,
		Motive:        m.Motive,
		StockAnterior: m.StockAnterior,
		StockNuevo:    m.StockNuevo,
		CreatedAt:     m.CreatedAt.Format(time.RFC3339),
	}
	if m.OriginWarehouseID != nil {
		resp.OriginWarehouseID = *m.OriginWarehouseID
	}
	if m.DestinationWarehouseID != nil {
		resp.DestinationWarehouseID = *m.DestinationWarehouseID
	}
	return resp
}

func toVehicleResponse(v *entity.Vehicle) dto.VehicleResponse {
	return dto.VehicleResponse{
		ID:        v.ID,
		Plate:     v.Plate,
		Model:     v.Model,
		State:     string(v.State),
		DriverID:  v.DriverID,
		CreatedAt: v.CreatedAt.Format(time.RFC3339),
	}
}

func toRouteResponse(r *entity.Route) dto.RouteResponse {
	items := make([]dto.RouteItemResponse, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, dto.RouteItemResponse{
			ProductID:         it.ProductID,
			QuantityPlanned:   it.QuantityPlanned,
			QuantityDelivered: it.QuantityDelivered,
		})
	}
	return dto.RouteResponse{
		ID:            r.ID,
		Number:        r.Number,
		Origin:        toLocationDTO(r.Origin),
		Destination:   toLocationDTO(r.Destination),
		ScheduledDate: r.ScheduledDate.Format(time.RFC3339),
		VehicleID:     r.VehicleID,
		DriverID:      r.DriverID,
		Items:         items,
		State:         string(r.State),
		StartedAt:     formatTimePtr(r.StartedAt),
		EndedAt:       formatTimePtr(r.EndedAt),
		Tracking:      toTrackingResponse(r.Tracking),
		CancelReason:  r.CancelReason,
		CreatedAt:     r.CreatedAt.Format(time.RFC3339),
	}
}

func toDeliveryResponse(d *entity.Delivery) dto.DeliveryResponse {
	items := make([]dto.DeliveryItemResponse, 0, len(d.Items))
	for _, it := range d.Items {
		items = append(items, dto.DeliveryItemResponse{
			ProductID:          it.ProductID,
			QuantityProgrammed: it.QuantityProgrammed,
			QuantityDelivered:  it.QuantityDelivered,
		})
	}
	return dto.DeliveryResponse{
		ID:               d.ID,
		Number:           d.Number,
		RouteID:          d.RouteID,
		DriverID:         d.DriverID,
		VehicleID:        d.VehicleID,
		Client:           toLocationDTO(d.Client),
		Origin:           toLocationDTO(d.Origin),
		Items:            items,
		State:            string(d.State),
		ScheduledAt:      d.ScheduledAt.Format(time.RFC3339),
		StartedAt:        formatTimePtr(d.StartedAt),
		DeliveredAt:      formatTimePtr(d.DeliveredAt),
		TrackingActive:   d.TrackingActive,
		Tracking:         toTrackingResponse(d.Tracking),
		CurrentLat:       d.CurrentLat,
		CurrentLon:       d.CurrentLon,
		TotalDistance:    d.TotalDistance,
		TraveledDistance: d.TraveledDistance,
		Progress:         d.Progress(),
		IsLate:           d.IsLate(time.Now()),
		Signature:        d.Signature,
		Photo:            d.Photo,
		Rating:           d.Rating,
		DelayReason:      d.DelayReason,
		CreatedAt:        d.CreatedAt.Format(time.RFC3339),
	}
}

package dto

// DeliveryItemRequest producto programado dentro de una entrega.
type DeliveryItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// CreateDeliveryRequest body para POST /api/deliveries.
type CreateDeliveryRequest struct {
	DriverID    string                `json:"driver_id" validate:"required"`
	VehicleID   string                `json:"vehicle_id" validate:"required"`
	Client      LocationDTO           `json:"client" validate:"required"`
	Origin      LocationDTO           `json:"origin" validate:"required"`
	ScheduledAt string                `json:"scheduled_at" validate:"required"` // RFC 3339
	Items       []DeliveryItemRequest `json:"items" validate:"required,min=1,dive"`
}

// DelayDeliveryRequest body para POST /api/deliveries/:id/delay.
type DelayDeliveryRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// CancelDeliveryRequest body para POST /api/deliveries/:id/cancel.
type CancelDeliveryRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// CompleteDeliveryItemRequest cantidad realmente entregada de un ítem.
type CompleteDeliveryItemRequest struct {
	ProductID         string `json:"product_id" validate:"required"`
	QuantityDelivered int    `json:"quantity_delivered" validate:"gte=0"`
}

// CompleteDeliveryRequest body para POST /api/deliveries/:id/complete.
// Los ítems no incluidos se dan por entregados completos.
type CompleteDeliveryRequest struct {
	Signature string                        `json:"signature,omitempty"`
	Photo     string                        `json:"photo,omitempty"`
	Rating    *int                          `json:"rating,omitempty" validate:"omitempty,gte=1,lte=5"`
	Items     []CompleteDeliveryItemRequest `json:"items,omitempty" validate:"omitempty,dive"`
}

// DeliveryItemResponse ítem de entrega con cantidades.
type DeliveryItemResponse struct {
	ProductID          string `json:"product_id"`
	QuantityProgrammed int    `json:"quantity_programmed"`
	QuantityDelivered  int    `json:"quantity_delivered"`
}

// DeliveryResponse representación de una entrega.
type DeliveryResponse struct {
	ID               string                  `json:"id"`
	Number           string                  `json:"number"`
	RouteID          *string                 `json:"route_id,omitempty"`
	DriverID         string                  `json:"driver_id"`
	VehicleID        string                  `json:"vehicle_id"`
	Client           LocationDTO             `json:"client"`
	Origin           LocationDTO             `json:"origin"`
	Items            []DeliveryItemResponse  `json:"items"`
	State            string                  `json:"state"`
	ScheduledAt      string                  `json:"scheduled_at"`
	StartedAt        *string                 `json:"started_at,omitempty"`
	DeliveredAt      *string                 `json:"delivered_at,omitempty"`
	TrackingActive   bool                    `json:"tracking_active"`
	Tracking         []TrackingPointResponse `json:"tracking,omitempty"`
	CurrentLat       float64                 `json:"current_lat"`
	CurrentLon       float64                 `json:"current_lon"`
	TotalDistance    float64                 `json:"total_distance"`
	TraveledDistance float64                 `json:"traveled_distance"`
	Progress         float64                 `json:"progress"`
	IsLate           bool                    `json:"is_late"`
	Signature        string                  `json:"signature,omitempty"`
	Photo            string                  `json:"photo,omitempty"`
	Rating           *int                    `json:"rating,omitempty"`
	DelayReason      string                  `json:"delay_reason,omitempty"`
	CreatedAt        string                  `json:"created_at"`
}

// DeliveryListResponse listado paginado de entregas.
type DeliveryListResponse struct {
	Total int                `json:"total"`
	Items []DeliveryResponse `json:"items"`
}

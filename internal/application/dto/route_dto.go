package dto

// RouteItemRequest producto planificado dentro de una ruta.
type RouteItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// CreateRouteRequest body para POST /api/routes.
type CreateRouteRequest struct {
	Origin        LocationDTO        `json:"origin" validate:"required"`
	Destination   LocationDTO        `json:"destination" validate:"required"`
	ScheduledDate string             `json:"scheduled_date" validate:"required"` // RFC 3339
	VehicleID     string             `json:"vehicle_id" validate:"required"`
	DriverID      string             `json:"driver_id" validate:"required"`
	Items         []RouteItemRequest `json:"items" validate:"required,min=1,dive"`
}

// TransitionRouteRequest body para POST /api/routes/:id/transition.
type TransitionRouteRequest struct {
	Target string `json:"target" validate:"required,oneof=en_transito completada cancelada"`
	Reason string `json:"reason,omitempty"` // requerido para cancelada
}

// RouteTrackingRequest body para POST /api/routes/:id/tracking.
type RouteTrackingRequest struct {
	Lat   float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon   float64 `json:"lon" validate:"gte=-180,lte=180"`
	Speed float64 `json:"speed" validate:"gte=0"`
	Note  string  `json:"note,omitempty"`
}

// DeliveredQuantityRequest cantidad entregada de un ítem de la ruta.
type DeliveredQuantityRequest struct {
	ProductID         string `json:"product_id" validate:"required"`
	QuantityDelivered int    `json:"quantity_delivered" validate:"gte=0"`
}

// RegisterDeliveredRequest body para PUT /api/routes/:id/delivered.
type RegisterDeliveredRequest struct {
	Items []DeliveredQuantityRequest `json:"items" validate:"required,min=1,dive"`
}

// RouteItemResponse ítem de ruta con cantidades planificada y entregada.
type RouteItemResponse struct {
	ProductID         string `json:"product_id"`
	QuantityPlanned   int    `json:"quantity_planned"`
	QuantityDelivered int    `json:"quantity_delivered"`
}

// RouteResponse representación de una ruta.
type RouteResponse struct {
	ID            string                  `json:"id"`
	Number        string                  `json:"number"`
	Origin        LocationDTO             `json:"origin"`
	Destination   LocationDTO             `json:"destination"`
	ScheduledDate string                  `json:"scheduled_date"`
	VehicleID     string                  `json:"vehicle_id"`
	DriverID      string                  `json:"driver_id"`
	Items         []RouteItemResponse     `json:"items"`
	State         string                  `json:"state"`
	StartedAt     *string                 `json:"started_at,omitempty"`
	EndedAt       *string                 `json:"ended_at,omitempty"`
	Tracking      []TrackingPointResponse `json:"tracking,omitempty"`
	CancelReason  string                  `json:"cancel_reason,omitempty"`
	CreatedAt     string                  `json:"created_at"`
}

// RouteListResponse listado paginado de rutas.
type RouteListResponse struct {
	Total int             `json:"total"`
	Items []RouteResponse `json:"items"`
}

package dto

// ErrorResponse respuesta de error estándar de la API.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// LocationDTO punto con nombre (origen, destino o cliente).
type LocationDTO struct {
	Name    string  `json:"name" validate:"required"`
	Address string  `json:"address"`
	Lat     float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon     float64 `json:"lon" validate:"gte=-180,lte=180"`
}

// TrackingPointResponse punto de rastreo en el historial de una ruta o entrega.
type TrackingPointResponse struct {
	ID        string  `json:"id"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	Speed     float64 `json:"speed"`
	Progress  float64 `json:"progress,omitempty"`
	Label     string  `json:"label,omitempty"`
	CreatedAt string  `json:"created_at"`
}

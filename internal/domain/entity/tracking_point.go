package entity

import "time"

// TrackingPoint es una muestra de posición registrada en el historial de una
// ruta o entrega. El historial es append-only: los puntos nunca se editan ni
// se eliminan, solo se agregan en orden.
type TrackingPoint struct {
	ID        string
	Lat       float64
	Lon       float64
	Speed     float64 // km/h
	Progress  float64 // 0-100, solo entregas con rastreo simulado
	Label     string  // nota del conductor (rutas) o nombre de ubicación (entregas)
	CreatedAt time.Time
}

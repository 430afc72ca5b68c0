package entity

// StockStatus estado de un registro de inventario. Solo los registros ACTIVE
// participan en disponibilidad, reservas y reportes de stock bajo/agotado.
type StockStatus string

const (
	StatusActive       StockStatus = "ACTIVE"
	StatusInactive     StockStatus = "INACTIVE"
	StatusDiscontinued StockStatus = "DISCONTINUED"
	StatusDamaged      StockStatus = "DAMAGED"
	StatusExpired      StockStatus = "EXPIRED"
	StatusQuarantine   StockStatus = "QUARANTINE"
)

// statusDescriptions texto de presentación por estado, fuera de la entidad.
var statusDescriptions = map[StockStatus]string{
	StatusActive:       "Activo - disponible para venta",
	StatusInactive:     "Inactivo - no disponible para venta",
	StatusDiscontinued: "Descontinuado - el producto ya no se vende",
	StatusDamaged:      "Dañado - stock con daños",
	StatusExpired:      "Vencido - stock expirado",
	StatusQuarantine:   "Cuarentena - en revisión de calidad",
}

// Valid indica si el estado es uno de los valores conocidos.
func (s StockStatus) Valid() bool {
	_, ok := statusDescriptions[s]
	return ok
}

// Description devuelve el texto de presentación del estado.
func (s StockStatus) Description() string {
	return statusDescriptions[s]
}

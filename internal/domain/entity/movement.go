package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType tipo de movimiento del historial de un producto.
type MovementType string

const (
	MovementEntrada          MovementType = "entrada"           // entrada de stock
	MovementSalida           MovementType = "salida"            // salida de stock
	MovementAnulacionEntrada MovementType = "anulacion_entrada" // reversa de una entrada
	MovementAnulacionSalida  MovementType = "anulacion_salida"  // reversa de una salida
)

// Etiquetas de origen/destino usadas por el motor.
const (
	TagAjusteManual    = "ajuste_manual"
	TagSalidaManual    = "salida_manual"
	TagAnulacionManual = "anulacion_manual"
	TagProduccion      = "Producción"
	TagChatbotEntrada  = "chatbot_entrada"
	TagSalidaChatbot   = "salida_chatbot"
)

// IsReversal indica si el tipo es un registro de anulación.
func (t MovementType) IsReversal() bool {
	return t == MovementAnulacionEntrada || t == MovementAnulacionSalida
}

// Valid indica si el tipo es uno de los cuatro conocidos.
func (t MovementType) Valid() bool {
	switch t {
	case MovementEntrada, MovementSalida, MovementAnulacionEntrada, MovementAnulacionSalida:
		return true
	}
	return false
}

// ReversalOf devuelve el tipo de anulación que refleja un entrada/salida.
func ReversalOf(t MovementType) MovementType {
	if t == MovementEntrada {
		return MovementAnulacionEntrada
	}
	return MovementAnulacionSalida
}

// Movement es un registro inmutable del historial de un producto.
// Amount siempre es no negativo; el signo lo da Type.
// Seq crece de forma monótona por producto y desempata fechas iguales.
type Movement struct {
	ID                    string
	Seq                   int64
	Type                  MovementType
	Amount                decimal.Decimal
	Unit                  string
	Date                  time.Time
	Source                string // solo entradas
	Destination           string // solo salidas
	Cancelled             bool
	CancelledMovementID   string     // solo anulaciones
	CancelledMovementDate *time.Time // solo anulaciones
	CreatedBy             string
}

// Signed devuelve la contribución del movimiento al saldo (+entrada, -salida, 0 anulaciones).
func (m Movement) Signed() decimal.Decimal {
	switch m.Type {
	case MovementEntrada:
		return m.Amount
	case MovementSalida:
		return m.Amount.Neg()
	}
	return decimal.Zero
}

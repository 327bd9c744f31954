package ports

import (
	"context"
	"encoding/json"
)

// Herramientas que el asistente puede proponer.
const (
	ToolAddStock          = "add_stock"
	ToolRemoveStock       = "remove_stock"
	ToolCreateInvoice     = "create_invoice"
	ToolCreateRequisition = "create_requisition"
)

// ToolCall acción propuesta por el modelo. Args es el JSON de argumentos tal como lo devolvió.
type ToolCall struct {
	Name string          `json:"name"`
	Args json.RawMessage `json:"args"`
}

// ChatReply respuesta del modelo: texto libre o una acción para confirmar.
type ChatReply struct {
	Text   string
	Action *ToolCall
}

// LLMService define el puerto de salida para los servicios de inteligencia artificial.
// Cualquier adaptador (Gemini, mock) debe implementar esta interfaz.
// Los errores por falta de configuración envuelven domain.ErrUnavailable.
type LLMService interface {
	// Chat envía el prompt con las herramientas del inventario declaradas.
	Chat(ctx context.Context, prompt string) (*ChatReply, error)
	// Generate devuelve texto libre (markdown) sin herramientas.
	Generate(ctx context.Context, prompt string) (string, error)
}

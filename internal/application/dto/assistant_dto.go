package dto

import "encoding/json"

// ChatRequest mensaje del usuario al asistente.
type ChatRequest struct {
	Message string `json:"message" validate:"required,max=2000"`
}

// ActionDTO acción propuesta por el asistente; el cliente la devuelve tal cual para confirmarla.
type ActionDTO struct {
	Name string          `json:"name" validate:"required,oneof=add_stock remove_stock create_invoice create_requisition"`
	Args json.RawMessage `json:"args" validate:"required"`
}

// ChatResponse texto del asistente o acción pendiente de confirmar.
type ChatResponse struct {
	Text   string     `json:"text,omitempty"`
	Action *ActionDTO `json:"action,omitempty"`
}

// ExecuteActionResponse resultado de una acción confirmada.
type ExecuteActionResponse struct {
	Message string `json:"message"`
}

// RecommendationRequest días a cubrir con la recomendación de compras.
type RecommendationRequest struct {
	Days int `json:"days" validate:"required,min=1,max=60"`
}

// RecommendationResponse recomendación en markdown.
type RecommendationResponse struct {
	Text string `json:"text"`
}

package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jhoicas/restaurante-inventario/internal/application/ports"
	"github.com/jhoicas/restaurante-inventario/internal/domain"
)

// Verificar en tiempo de compilación que GeminiService implementa LLMService.
var _ ports.LLMService = (*GeminiService)(nil)

const (
	geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	maxResponseBytes = 256 * 1024
)

// GeminiService adaptador que implementa LLMService llamando a la API REST de Google Gemini.
type GeminiService struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewGeminiService construye el adaptador. model suele ser "gemini-2.5-flash".
// Si apiKey está vacío, las llamadas devuelven un error que envuelve domain.ErrUnavailable.
func NewGeminiService(apiKey, model string) *GeminiService {
	return &GeminiService{
		apiKey:  apiKey,
		model:   model,
		baseURL: geminiBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second, // timeout de red; el caller también pone WithTimeout
		},
	}
}

// ── Estructuras internas para la API de Gemini ────────────────────────────────

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	Tools            []geminiTool    `json:"tools,omitempty"`
	GenerationConfig genConfig       `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

type geminiPart struct {
	Text         string          `json:"text,omitempty"`
	FunctionCall *geminiFunction `json:"functionCall,omitempty"`
}

type geminiFunction struct {
	Name string          `json:"name"`
	Args json.RawMessage `json:"args"`
}

type geminiTool struct {
	FunctionDeclarations []functionDeclaration `json:"functionDeclarations"`
}

type functionDeclaration struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Parameters  schema `json:"parameters"`
}

type schema struct {
	Type        string            `json:"type"`
	Description string            `json:"description,omitempty"`
	Properties  map[string]schema `json:"properties,omitempty"`
	Items       *schema           `json:"items,omitempty"`
	Required    []string          `json:"required,omitempty"`
}

type genConfig struct {
	Temperature     float32 `json:"temperature"`
	TopP            float32 `json:"topP,omitempty"`
	TopK            int     `json:"topK,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func str(desc string) schema { return schema{Type: "STRING", Description: desc} }
func num(desc string) schema { return schema{Type: "NUMBER", Description: desc} }

// inventoryTools declaraciones de las herramientas del inventario.
var inventoryTools = []geminiTool{{FunctionDeclarations: []functionDeclaration{
	{
		Name:        ports.ToolCreateInvoice,
		Description: "Crea una nueva factura de un proveedor.",
		Parameters: schema{Type: "OBJECT", Properties: map[string]schema{
			"provider":      str("El nombre del proveedor."),
			"invoiceNumber": str("El número de la factura."),
			"totalAmount":   num("El monto total de la factura."),
			"items": {Type: "ARRAY", Description: "Lista de productos en la factura.", Items: &schema{
				Type: "OBJECT",
				Properties: map[string]schema{
					"productName": str("Nombre del producto."),
					"quantity":    num("Cantidad del producto."),
					"unit":        str("Unidad de medida (ej. kg, unidades)."),
					"price":       num("Precio unitario del producto."),
				},
				Required: []string{"productName", "quantity", "unit", "price"},
			}},
		}, Required: []string{"provider", "invoiceNumber", "totalAmount", "items"}},
	},
	{
		Name:        ports.ToolAddStock,
		Description: "Añade stock de un producto existente al inventario (entrada).",
		Parameters: schema{Type: "OBJECT", Properties: map[string]schema{
			"productName": str("El nombre exacto del producto como está en el inventario."),
			"quantity":    num("La cantidad a añadir."),
			"unit":        str("La unidad de medida (ej. kg, unidades)."),
		}, Required: []string{"productName", "quantity", "unit"}},
	},
	{
		Name:        ports.ToolRemoveStock,
		Description: "Quita stock de un producto existente del inventario (salida).",
		Parameters: schema{Type: "OBJECT", Properties: map[string]schema{
			"productName": str("El nombre exacto del producto como está en el inventario."),
			"quantity":    num("La cantidad a quitar."),
			"unit":        str("La unidad de medida (ej. kg, unidades)."),
			"destination": str("El destino del producto (ej. Cocina, Barra, Asador)."),
		}, Required: []string{"productName", "quantity", "unit", "destination"}},
	},
	{
		Name:        ports.ToolCreateRequisition,
		Description: "Crea una nueva requisición de productos para un departamento.",
		Parameters: schema{Type: "OBJECT", Properties: map[string]schema{
			"department": str("El departamento que solicita (ej. Cocina, Barra, Pizzería)."),
			"items": {Type: "ARRAY", Description: "Lista de productos solicitados.", Items: &schema{
				Type: "OBJECT",
				Properties: map[string]schema{
					"productName": str("Nombre del producto."),
					"quantity":    num("Cantidad solicitada."),
					"unit":        str("Unidad de medida."),
				},
				Required: []string{"productName", "quantity", "unit"},
			}},
		}, Required: []string{"department", "items"}},
	},
}}}

// ── Implementación del puerto ─────────────────────────────────────────────────

// Chat envía el prompt con las herramientas del inventario. Si el modelo llama una
// función se devuelve solo la primera.
func (s *GeminiService) Chat(ctx context.Context, prompt string) (*ports.ChatReply, error) {
	resp, err := s.generate(ctx, geminiRequest{
		Contents:         []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
		Tools:            inventoryTools,
		GenerationConfig: genConfig{Temperature: 0.2},
	})
	if err != nil {
		return nil, err
	}
	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.FunctionCall != nil {
			return &ports.ChatReply{Action: &ports.ToolCall{Name: part.FunctionCall.Name, Args: part.FunctionCall.Args}}, nil
		}
		text.WriteString(part.Text)
	}
	return &ports.ChatReply{Text: strings.TrimSpace(text.String())}, nil
}

// Generate devuelve el texto del modelo sin herramientas.
func (s *GeminiService) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := s.generate(ctx, geminiRequest{
		Contents:         []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: genConfig{Temperature: 0.5, TopP: 0.95, TopK: 64},
	})
	if err != nil {
		return "", err
	}
	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}
	out := strings.TrimSpace(text.String())
	if out == "" {
		return "", fmt.Errorf("AI: Gemini devolvió respuesta vacía")
	}
	return out, nil
}

func (s *GeminiService) generate(ctx context.Context, payload geminiRequest) (*geminiResponse, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("%w: AI: GEMINI_API_KEY no configurado", domain.ErrUnavailable)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("AI: serializar request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", s.baseURL, s.model, s.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("AI: crear HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: AI: timeout o cancelación: %w", domain.ErrUnavailable, ctx.Err())
		}
		return nil, fmt.Errorf("%w: AI: llamada HTTP fallida: %w", domain.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("AI: leer respuesta: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		// Intentar extraer el mensaje de error de Gemini
		var errResp geminiResponse
		if jsonErr := json.Unmarshal(rawBody, &errResp); jsonErr == nil && errResp.Error != nil {
			return nil, fmt.Errorf("%w: AI: Gemini error %d: %s", domain.ErrUnavailable, errResp.Error.Code, errResp.Error.Message)
		}
		return nil, fmt.Errorf("%w: AI: Gemini HTTP %d", domain.ErrUnavailable, resp.StatusCode)
	}

	var gemResp geminiResponse
	if err := json.Unmarshal(rawBody, &gemResp); err != nil {
		return nil, fmt.Errorf("AI: deserializar respuesta Gemini: %w", err)
	}
	if len(gemResp.Candidates) == 0 || len(gemResp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("AI: Gemini devolvió respuesta vacía")
	}
	return &gemResp, nil
}

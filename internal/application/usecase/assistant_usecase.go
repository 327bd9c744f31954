package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/restaurante-inventario/internal/application/billing"
	"github.com/jhoicas/restaurante-inventario/internal/application/dto"
	appinv "github.com/jhoicas/restaurante-inventario/internal/application/inventory"
	"github.com/jhoicas/restaurante-inventario/internal/application/ports"
	"github.com/jhoicas/restaurante-inventario/internal/domain"
	"github.com/jhoicas/restaurante-inventario/internal/domain/entity"
	"github.com/jhoicas/restaurante-inventario/internal/domain/inventory"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	// llmTimeout las llamadas con herramientas suelen tardar varios segundos.
	llmTimeout = 20 * time.Second

	restaurantName   = "Asados Los Llanos"
	maxRecommendDays = 60
)

// StockAdjuster ajuste de stock por nombre de producto.
type StockAdjuster interface {
	AdjustByName(ctx context.Context, caller entity.Caller, name string, amount decimal.Decimal, unit, reason string) (*appinv.AdjustmentResult, error)
	ListProducts(ctx context.Context, category string) ([]*entity.Product, error)
}

// RequisitionCreator alta de requisiciones.
type RequisitionCreator interface {
	Create(ctx context.Context, caller entity.Caller, in appinv.CreateRequisitionInput) (*entity.Requisition, error)
}

// InvoiceBook alta y consulta de facturas.
type InvoiceBook interface {
	Create(ctx context.Context, in billing.CreateInvoiceInput) (*entity.Invoice, error)
	List(ctx context.Context, status string) ([]*entity.Invoice, error)
}

// AssistantUseCase asistente conversacional del inventario. El modelo nunca escribe:
// Chat devuelve la acción propuesta y Execute la aplica cuando el usuario confirma.
type AssistantUseCase struct {
	llm          ports.LLMService
	ledger       StockAdjuster
	requisitions RequisitionCreator
	invoices     InvoiceBook
	logger       zerolog.Logger
}

// NewAssistantUseCase construye el caso de uso inyectando el puerto LLMService.
func NewAssistantUseCase(llm ports.LLMService, ledger StockAdjuster, requisitions RequisitionCreator, invoices InvoiceBook, logger zerolog.Logger) *AssistantUseCase {
	return &AssistantUseCase{llm: llm, ledger: ledger, requisitions: requisitions, invoices: invoices, logger: logger}
}

// Chat responde una pregunta sobre el inventario o propone una acción.
func (uc *AssistantUseCase) Chat(ctx context.Context, message string) (*ports.ChatReply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, domain.Invalid("message", "el mensaje es obligatorio")
	}
	products, err := uc.ledger.ListProducts(ctx, "")
	if err != nil {
		return nil, err
	}
	invoices, err := uc.invoices.List(ctx, "")
	if err != nil {
		return nil, err
	}
	prompt, err := chatPrompt(message, products, invoices)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, llmTimeout)
	defer cancel()

	reply, err := uc.llm.Chat(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("asistente: %w", err)
	}
	if reply.Action == nil && strings.TrimSpace(reply.Text) == "" {
		reply.Text = "No he podido procesar tu solicitud. ¿Puedes intentarlo de otra manera?"
	}
	return reply, nil
}

// Tipos de argumentos de cada herramienta.
type stockArgs struct {
	ProductName string          `json:"productName"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	Destination string          `json:"destination"`
}

type itemArgs struct {
	ProductName string          `json:"productName"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	Price       decimal.Decimal `json:"price"`
}

type invoiceArgs struct {
	Provider      string     `json:"provider"`
	InvoiceNumber string     `json:"invoiceNumber"`
	Items         []itemArgs `json:"items"`
}

type requisitionArgs struct {
	Department string     `json:"department"`
	Items      []itemArgs `json:"items"`
}

// Execute aplica una acción confirmada por el usuario y devuelve el mensaje de resultado.
// Cada acción pasa por el mismo caso de uso y los mismos permisos que su pantalla.
func (uc *AssistantUseCase) Execute(ctx context.Context, caller entity.Caller, action ports.ToolCall) (string, error) {
	switch action.Name {
	case ports.ToolAddStock, ports.ToolRemoveStock:
		var args stockArgs
		if err := decodeArgs(action, &args); err != nil {
			return "", err
		}
		if !args.Quantity.IsPositive() {
			return "", domain.Invalid("quantity", "la cantidad de %q debe ser mayor que cero", args.ProductName)
		}
		amount, tag, label := args.Quantity, entity.TagChatbotEntrada, "Entrada"
		if action.Name == ports.ToolRemoveStock {
			amount, label = args.Quantity.Neg(), "Salida"
			tag = strings.TrimSpace(args.Destination)
			if tag == "" {
				tag = entity.TagSalidaChatbot
			}
		}
		res, err := uc.ledger.AdjustByName(ctx, caller, args.ProductName, amount, args.Unit, tag)
		if err != nil {
			return "", err
		}
		uc.logger.Info().Str("tool", action.Name).Str("product_id", res.Product.ID).Str("amount", amount.String()).Msg("asistente: acción ejecutada")
		return fmt.Sprintf("%s registrada: %s %s de %s.", label, args.Quantity.String(), res.Movement.Unit, res.Product.Name), nil

	case ports.ToolCreateInvoice:
		var args invoiceArgs
		if err := decodeArgs(action, &args); err != nil {
			return "", err
		}
		items := make([]entity.InvoiceItem, len(args.Items))
		for i, it := range args.Items {
			items[i] = entity.InvoiceItem{ProductName: it.ProductName, Quantity: it.Quantity, Unit: it.Unit, Price: it.Price}
		}
		inv, err := uc.invoices.Create(ctx, billing.CreateInvoiceInput{
			InvoiceNumber: args.InvoiceNumber,
			Provider:      args.Provider,
			Status:        entity.InvoicePending,
			Source:        entity.InvoiceSourceIAChatbot,
			Items:         items,
		})
		if err != nil {
			return "", err
		}
		uc.logger.Info().Str("tool", action.Name).Str("invoice_id", inv.ID).Msg("asistente: acción ejecutada")
		return fmt.Sprintf("Factura #%s para %s creada.", inv.InvoiceNumber, inv.Provider), nil

	case ports.ToolCreateRequisition:
		var args requisitionArgs
		if err := decodeArgs(action, &args); err != nil {
			return "", err
		}
		in := appinv.CreateRequisitionInput{Department: args.Department}
		for _, it := range args.Items {
			in.Items = append(in.Items, appinv.RequisitionItemInput{ProductName: it.ProductName, Quantity: it.Quantity, Unit: it.Unit})
		}
		req, err := uc.requisitions.Create(ctx, caller, in)
		if err != nil {
			return "", err
		}
		uc.logger.Info().Str("tool", action.Name).Str("requisition_id", req.ID).Msg("asistente: acción ejecutada")
		return fmt.Sprintf("Requisición para %s creada.", req.Department), nil
	}
	return "", domain.Invalid("action", "acción %q desconocida o no implementada", action.Name)
}

func decodeArgs(action ports.ToolCall, dst any) error {
	if len(action.Args) == 0 {
		return domain.Invalid("args", "la acción %q no trae argumentos", action.Name)
	}
	if err := json.Unmarshal(action.Args, dst); err != nil {
		return domain.Invalid("args", "argumentos inválidos para %q: %v", action.Name, err)
	}
	return nil
}

// Recommend genera una recomendación de compras en markdown para los próximos days días.
func (uc *AssistantUseCase) Recommend(ctx context.Context, days int) (string, error) {
	if days < 1 || days > maxRecommendDays {
		return "", domain.Invalid("days", "los días deben estar entre 1 y %d", maxRecommendDays)
	}
	products, err := uc.ledger.ListProducts(ctx, "")
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(snapshot(products), "", "  ")
	if err != nil {
		return "", fmt.Errorf("asistente: serializar inventario: %w", err)
	}
	prompt := fmt.Sprintf(`Eres un asistente de compras para el restaurante '%s'. Basado en los siguientes datos de inventario y consumo, genera una lista de compras para cubrir los próximos %d días.
Considera que el consumo es 1.5 veces mayor los fines de semana (Viernes a Domingo).
Da un breve saludo y luego presenta la lista de compras en formato markdown, agrupando por categorías como 'Carnes', 'Verduras', 'Despensa', etc. Sé directo, claro y amigable.

Datos del Inventario (JSON):
%s`, restaurantName, days, data)

	ctx, cancel := context.WithTimeout(ctx, llmTimeout)
	defer cancel()

	text, err := uc.llm.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("asistente: %w", err)
	}
	return text, nil
}

// productSnapshot vista compacta de un producto para el prompt; sin historial.
type productSnapshot struct {
	Name     string          `json:"name"`
	Quantity decimal.Decimal `json:"quantity"`
	Unit     string          `json:"unit"`
	MinStock decimal.Decimal `json:"minStock"`
	Category string          `json:"category"`
	Status   string          `json:"status"`
	// Salidas no anuladas de los últimos 7 días.
	WeeklyOut decimal.Decimal `json:"salidasUltimaSemana"`
}

func snapshot(products []*entity.Product) []productSnapshot {
	since := time.Now().AddDate(0, 0, -7)
	out := make([]productSnapshot, len(products))
	for i, p := range products {
		weekly := decimal.Zero
		for _, m := range p.History {
			if m.Type == entity.MovementSalida && !m.Cancelled && m.Date.After(since) {
				weekly = weekly.Add(m.Amount)
			}
		}
		out[i] = productSnapshot{
			Name:      p.Name,
			Quantity:  p.Quantity,
			Unit:      p.Unit,
			MinStock:  p.MinStock,
			Category:  p.Category,
			Status:    string(inventory.Status(p)),
			WeeklyOut: weekly,
		}
	}
	return out
}

func chatPrompt(message string, products []*entity.Product, invoices []*entity.Invoice) (string, error) {
	pj, err := json.Marshal(snapshot(products))
	if err != nil {
		return "", fmt.Errorf("asistente: serializar inventario: %w", err)
	}
	views := make([]dto.InvoiceResponse, len(invoices))
	for i, inv := range invoices {
		views[i] = dto.FromInvoice(inv)
	}
	ij, err := json.Marshal(views)
	if err != nil {
		return "", fmt.Errorf("asistente: serializar facturas: %w", err)
	}
	return fmt.Sprintf(`Eres un asistente de IA para el restaurante "%s". Tu tarea es responder preguntas sobre el inventario y las facturas basándote en los datos que te proporciono, o realizar acciones en el inventario usando las herramientas disponibles. Sé conciso y amigable.
Aquí están los datos del inventario actual en formato JSON: %s
Aquí están los datos de las facturas en formato JSON: %s

Pregunta/Orden del usuario: %q

Analiza la petición. Si es una pregunta, respóndela. Si es una orden que coincide con una de tus herramientas, llama a esa función con los argumentos correctos. No inventes datos. Si no encuentras un producto, infórmalo.`,
		restaurantName, pj, ij, message), nil
}

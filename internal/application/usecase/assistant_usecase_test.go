package usecase

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/restaurante-inventario/internal/application/billing"
	appinv "github.com/jhoicas/restaurante-inventario/internal/application/inventory"
	"github.com/jhoicas/restaurante-inventario/internal/application/ports"
	"github.com/jhoicas/restaurante-inventario/internal/domain"
	"github.com/jhoicas/restaurante-inventario/internal/domain/entity"
	"github.com/jhoicas/restaurante-inventario/internal/domain/inventory"
	"github.com/jhoicas/restaurante-inventario/internal/infrastructure/memory"
)

// fakeLLM devuelve respuestas fijas y guarda el último prompt.
type fakeLLM struct {
	reply      *ports.ChatReply
	text       string
	err        error
	lastPrompt string
}

func (f *fakeLLM) Chat(_ context.Context, prompt string) (*ports.ChatReply, error) {
	f.lastPrompt = prompt
	if f.err != nil {
		return nil, f.err
	}
	return f.reply, nil
}

func (f *fakeLLM) Generate(_ context.Context, prompt string) (string, error) {
	f.lastPrompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

var (
	jefe        = entity.NewCaller("u-jefe", entity.RoleJefe)
	almacenista = entity.NewCaller("u-alm", entity.RoleAlmacenista)
)

type assistantFixture struct {
	llm      *fakeLLM
	store    *memory.Store
	ledger   *appinv.LedgerUseCase
	invoices *billing.InvoiceUseCase
	uc       *AssistantUseCase
}

func newAssistant(t *testing.T) *assistantFixture {
	t.Helper()
	store := memory.New()
	opts := appinv.Options{Logger: zerolog.Nop()}
	f := &assistantFixture{
		llm:      &fakeLLM{},
		store:    store,
		ledger:   appinv.NewLedgerUseCase(store, opts),
		invoices: billing.NewInvoiceUseCase(store, zerolog.Nop()),
	}
	f.uc = NewAssistantUseCase(f.llm, f.ledger, appinv.NewRequisitionUseCase(store, opts), f.invoices, zerolog.Nop())

	_, err := f.ledger.CreateProduct(context.Background(), jefe, inventory.NewProductInput{
		Name:            "Tomate",
		InitialQuantity: decimal.NewNullDecimal(decimal.NewFromInt(10)),
		Unit:            "kg",
		Category:        entity.CategoryVerduras,
	})
	require.NoError(t, err)
	return f
}

func (f *assistantFixture) tomate(t *testing.T) *entity.Product {
	t.Helper()
	all, err := f.ledger.ListProducts(context.Background(), "")
	require.NoError(t, err)
	p := inventory.FindByName(all, "tomate")
	require.NotNil(t, p)
	return p
}

func action(t *testing.T, name string, args any) ports.ToolCall {
	t.Helper()
	raw, err := json.Marshal(args)
	require.NoError(t, err)
	return ports.ToolCall{Name: name, Args: raw}
}

func TestChat_PromptIncluyeInventario(t *testing.T) {
	f := newAssistant(t)
	f.llm.reply = &ports.ChatReply{Text: "Quedan 10 kg de Tomate."}

	reply, err := f.uc.Chat(context.Background(), "¿Cuánto tomate queda?")
	require.NoError(t, err)
	assert.Equal(t, "Quedan 10 kg de Tomate.", reply.Text)
	assert.Contains(t, f.llm.lastPrompt, `"name":"Tomate"`)
	assert.Contains(t, f.llm.lastPrompt, "¿Cuánto tomate queda?")
}

func TestChat_DevuelveAccionSinEjecutarla(t *testing.T) {
	f := newAssistant(t)
	f.llm.reply = &ports.ChatReply{Action: &ports.ToolCall{
		Name: ports.ToolRemoveStock,
		Args: json.RawMessage(`{"productName":"Tomate","quantity":2,"unit":"kg","destination":"Cocina"}`),
	}}

	reply, err := f.uc.Chat(context.Background(), "saca 2 kg de tomate para cocina")
	require.NoError(t, err)
	require.NotNil(t, reply.Action)
	assert.Equal(t, ports.ToolRemoveStock, reply.Action.Name)
	assert.True(t, f.tomate(t).Quantity.Equal(decimal.NewFromInt(10)))
}

func TestChat_Errores(t *testing.T) {
	f := newAssistant(t)
	_, err := f.uc.Chat(context.Background(), "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	f.llm.err = domain.ErrUnavailable
	_, err = f.uc.Chat(context.Background(), "hola")
	assert.ErrorIs(t, err, domain.ErrUnavailable)
}

func TestExecute_Salida(t *testing.T) {
	f := newAssistant(t)

	msg, err := f.uc.Execute(context.Background(), almacenista, action(t, ports.ToolRemoveStock, map[string]any{
		"productName": "tomate", "quantity": 2.5, "unit": "kg", "destination": "Cocina",
	}))
	require.NoError(t, err)
	assert.Equal(t, "Salida registrada: 2.5 kg de Tomate.", msg)

	p := f.tomate(t)
	assert.True(t, p.Quantity.Equal(decimal.RequireFromString("7.5")))
	last := p.History[len(p.History)-1]
	assert.Equal(t, "Cocina", last.Destination)
}

func TestExecute_SalidaSinDestinoUsaEtiqueta(t *testing.T) {
	f := newAssistant(t)
	_, err := f.uc.Execute(context.Background(), almacenista, action(t, ports.ToolRemoveStock, map[string]any{
		"productName": "Tomate", "quantity": 1, "unit": "kg",
	}))
	require.NoError(t, err)
	p := f.tomate(t)
	assert.Equal(t, entity.TagSalidaChatbot, p.History[len(p.History)-1].Destination)
}

func TestExecute_SalidaStockInsuficiente(t *testing.T) {
	f := newAssistant(t)
	_, err := f.uc.Execute(context.Background(), almacenista, action(t, ports.ToolRemoveStock, map[string]any{
		"productName": "Tomate", "quantity": 12, "unit": "kg",
	}))
	var ise *domain.InsufficientStockError
	require.ErrorAs(t, err, &ise)
	assert.True(t, ise.Deficit().Equal(decimal.NewFromInt(2)))
	assert.True(t, f.tomate(t).Quantity.Equal(decimal.NewFromInt(10)))
}

func TestExecute_EntradaRespetaPermisos(t *testing.T) {
	f := newAssistant(t)
	add := action(t, ports.ToolAddStock, map[string]any{"productName": "Tomate", "quantity": 3, "unit": "kg"})

	_, err := f.uc.Execute(context.Background(), almacenista, add)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	msg, err := f.uc.Execute(context.Background(), jefe, add)
	require.NoError(t, err)
	assert.Equal(t, "Entrada registrada: 3 kg de Tomate.", msg)
	p := f.tomate(t)
	assert.True(t, p.Quantity.Equal(decimal.NewFromInt(13)))
	assert.Equal(t, entity.TagChatbotEntrada, p.History[len(p.History)-1].Source)
}

func TestExecute_ProductoDesconocido(t *testing.T) {
	f := newAssistant(t)
	_, err := f.uc.Execute(context.Background(), jefe, action(t, ports.ToolAddStock, map[string]any{
		"productName": "Mango", "quantity": 1, "unit": "kg",
	}))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExecute_CreaFacturaYRequisicion(t *testing.T) {
	f := newAssistant(t)

	msg, err := f.uc.Execute(context.Background(), almacenista, action(t, ports.ToolCreateInvoice, map[string]any{
		"provider": "Fruver El Llano", "invoiceNumber": "F-77", "totalAmount": 999,
		"items": []map[string]any{{"productName": "Tomate", "quantity": 5, "unit": "kg", "price": 3000}},
	}))
	require.NoError(t, err)
	assert.Equal(t, "Factura #F-77 para Fruver El Llano creada.", msg)

	invs, err := f.invoices.List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, invs, 1)
	assert.Equal(t, entity.InvoiceSourceIAChatbot, invs[0].Source)
	assert.True(t, invs[0].TotalAmount.Equal(decimal.NewFromInt(15000)))
	// Las facturas no mueven stock.
	assert.True(t, f.tomate(t).Quantity.Equal(decimal.NewFromInt(10)))

	msg, err = f.uc.Execute(context.Background(), almacenista, action(t, ports.ToolCreateRequisition, map[string]any{
		"department": "Cocina",
		"items":      []map[string]any{{"productName": "tomate", "quantity": 2, "unit": "kg"}},
	}))
	require.NoError(t, err)
	assert.Equal(t, "Requisición para Cocina creada.", msg)
}

func TestExecute_AccionInvalida(t *testing.T) {
	f := newAssistant(t)
	_, err := f.uc.Execute(context.Background(), jefe, ports.ToolCall{Name: "delete_everything", Args: json.RawMessage(`{}`)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.Execute(context.Background(), jefe, ports.ToolCall{Name: ports.ToolAddStock})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.Execute(context.Background(), jefe, action(t, ports.ToolAddStock, map[string]any{
		"productName": "Tomate", "quantity": 0, "unit": "kg",
	}))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRecommend(t *testing.T) {
	f := newAssistant(t)
	f.llm.text = "## Lista de compras"

	text, err := f.uc.Recommend(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "## Lista de compras", text)
	assert.Contains(t, f.llm.lastPrompt, "próximos 7 días")
	assert.Contains(t, f.llm.lastPrompt, "Tomate")

	_, err = f.uc.Recommend(context.Background(), 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

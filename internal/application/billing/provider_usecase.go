package billing

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/restaurante-inventario/internal/domain"
	"github.com/jhoicas/restaurante-inventario/internal/domain/entity"
	"github.com/jhoicas/restaurante-inventario/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// recentProviders proveedores que se sugieren al armar un pedido.
const recentProviders = 5

// ProviderUseCase agenda de proveedores y pedidos por WhatsApp.
type ProviderUseCase struct {
	repo repository.ProviderRepository
	now  func() time.Time
}

// NewProviderUseCase construye el caso de uso.
func NewProviderUseCase(repo repository.ProviderRepository) *ProviderUseCase {
	return &ProviderUseCase{repo: repo, now: time.Now}
}

// SaveOrUpdate registra el uso de un proveedor identificado por teléfono.
func (uc *ProviderUseCase) SaveOrUpdate(ctx context.Context, name, phone string) (*entity.Provider, error) {
	name, phone = strings.TrimSpace(name), normalizePhone(phone)
	if name == "" || phone == "" {
		return nil, domain.Invalid("provider", "nombre y teléfono del proveedor son obligatorios")
	}
	return uc.repo.UpsertProviderByPhone(ctx, uuid.NewString(), name, phone, uc.now())
}

// Recent devuelve los proveedores más usados.
func (uc *ProviderUseCase) Recent(ctx context.Context) ([]*entity.Provider, error) {
	all, err := uc.repo.ListProviders(ctx)
	if err != nil {
		return nil, err
	}
	if len(all) > recentProviders {
		all = all[:recentProviders]
	}
	return all, nil
}

// OrderItem línea de un pedido a proveedor.
type OrderItem struct {
	ProductName string
	Quantity    decimal.Decimal
	Unit        string
}

// PurchaseOrder pedido listo para enviar por WhatsApp.
type PurchaseOrder struct {
	Provider    *entity.Provider
	Message     string
	WhatsAppURL string
}

// ComposeOrder arma el mensaje del pedido y el enlace wa.me, y registra el uso del proveedor.
func (uc *ProviderUseCase) ComposeOrder(ctx context.Context, name, phone string, items []OrderItem) (*PurchaseOrder, error) {
	if len(items) == 0 {
		return nil, domain.Invalid("items", "no hay ítems en el pedido para enviar")
	}
	provider, err := uc.SaveOrUpdate(ctx, name, phone)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "*PEDIDO PARA %s*\n\n", strings.ToUpper(provider.Name))
	b.WriteString("Hola, te envío el siguiente pedido:\n")
	for _, it := range items {
		fmt.Fprintf(&b, "\n- %s %s de %s", it.Quantity.String(), it.Unit, strings.TrimSpace(it.ProductName))
	}
	b.WriteString("\n\nGracias.")

	msg := b.String()
	return &PurchaseOrder{
		Provider:    provider,
		Message:     msg,
		WhatsAppURL: "https://wa.me/" + provider.Phone + "?text=" + strings.ReplaceAll(url.QueryEscape(msg), "+", "%20"),
	}, nil
}

// normalizePhone deja solo los dígitos, como los espera wa.me.
func normalizePhone(phone string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
}

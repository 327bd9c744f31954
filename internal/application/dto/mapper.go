package dto

import (
	"github.com/jhoicas/restaurante-inventario/internal/domain/entity"
	"github.com/jhoicas/restaurante-inventario/internal/domain/inventory"
)

// FromMovement convierte un movimiento del historial.
func FromMovement(m entity.Movement) MovementResponse {
	return MovementResponse{
		ID:                    m.ID,
		Seq:                   m.Seq,
		Type:                  string(m.Type),
		Amount:                m.Amount,
		Unit:                  m.Unit,
		Date:                  m.Date,
		Source:                m.Source,
		Destination:           m.Destination,
		Cancelled:             m.Cancelled,
		CancelledMovementID:   m.CancelledMovementID,
		CancelledMovementDate: m.CancelledMovementDate,
		CreatedBy:             m.CreatedBy,
	}
}

// FromMovements convierte una lista de movimientos conservando el orden.
func FromMovements(ms []entity.Movement) []MovementResponse {
	out := make([]MovementResponse, len(ms))
	for i, m := range ms {
		out[i] = FromMovement(m)
	}
	return out
}

// FromProduct convierte un producto. history se incluye tal como llega (ya ordenado/recortado).
func FromProduct(p *entity.Product, history []entity.Movement) ProductResponse {
	r := ProductResponse{
		ID:        p.ID,
		Name:      p.Name,
		Quantity:  p.Quantity,
		Unit:      p.Unit,
		MinStock:  p.MinStock,
		Category:  p.Category,
		Status:    string(inventory.Status(p)),
		Version:   p.Version,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if history != nil {
		r.History = FromMovements(history)
	}
	return r
}

// FromRequisition convierte una requisición.
func FromRequisition(r *entity.Requisition) RequisitionResponse {
	items := make([]RequisitionItemResponse, len(r.Items))
	for i, it := range r.Items {
		items[i] = RequisitionItemResponse{
			ProductID:         it.ProductID,
			ProductName:       it.ProductName,
			RequestedQuantity: it.RequestedQuantity,
			Unit:              it.Unit,
			DeliveredQuantity: it.DeliveredQuantity,
			Observation:       it.Observation,
		}
	}
	return RequisitionResponse{
		ID:          r.ID,
		Department:  r.Department,
		Status:      r.Status,
		Items:       items,
		CreatedBy:   r.CreatedBy,
		CreatedAt:   r.CreatedAt,
		ProcessedAt: r.ProcessedAt,
	}
}

// FromProduction convierte una producción.
func FromProduction(p *entity.Production) ProductionResponse {
	outputs := make([]ProductionOutputDTO, len(p.Outputs))
	for i, o := range p.Outputs {
		outputs[i] = ProductionOutputDTO{ProductName: o.ProductName, Quantity: o.Quantity, Unit: o.Unit, Category: o.Category}
	}
	return ProductionResponse{
		ID:                      p.ID,
		Date:                    p.Date,
		RawMaterialID:           p.RawMaterialID,
		RawMaterialName:         p.RawMaterialName,
		RawMaterialUnit:         p.RawMaterialUnit,
		RawMaterialQuantityUsed: p.RawMaterialQuantityUsed,
		Outputs:                 outputs,
		Waste:                   WasteDTO{Quantity: p.Waste.Quantity, Unit: p.Waste.Unit},
		Notes:                   p.Notes,
		CreatedBy:               p.CreatedBy,
	}
}

// ToProductionOutputs convierte las salidas del request.
func ToProductionOutputs(in []ProductionOutputDTO) []entity.ProductionOutput {
	out := make([]entity.ProductionOutput, len(in))
	for i, o := range in {
		out[i] = entity.ProductionOutput{ProductName: o.ProductName, Quantity: o.Quantity, Unit: o.Unit, Category: o.Category}
	}
	return out
}

// FromInvoice convierte una factura.
func FromInvoice(inv *entity.Invoice) InvoiceResponse {
	items := make([]InvoiceItemDTO, len(inv.Items))
	for i, it := range inv.Items {
		items[i] = InvoiceItemDTO{ProductName: it.ProductName, Quantity: it.Quantity, Unit: it.Unit, Price: it.Price}
	}
	return InvoiceResponse{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		Provider:      inv.Provider,
		Date:          inv.Date,
		TotalAmount:   inv.TotalAmount,
		Status:        inv.Status,
		Source:        inv.Source,
		RawText:       inv.RawText,
		Items:         items,
		CreatedAt:     inv.CreatedAt,
	}
}

// ToInvoiceItems convierte los ítems del request.
func ToInvoiceItems(in []InvoiceItemDTO) []entity.InvoiceItem {
	out := make([]entity.InvoiceItem, len(in))
	for i, it := range in {
		out[i] = entity.InvoiceItem{ProductName: it.ProductName, Quantity: it.Quantity, Unit: it.Unit, Price: it.Price}
	}
	return out
}

// FromProvider convierte un proveedor.
func FromProvider(p *entity.Provider) ProviderResponse {
	return ProviderResponse{ID: p.ID, Name: p.Name, Phone: p.Phone, LastUsed: p.LastUsed, UseCount: p.UseCount}
}

// FromPermissions convierte los permisos de un rol.
func FromPermissions(p entity.Permissions) PermissionsDTO {
	return PermissionsDTO{
		CanAccessSettings:      p.CanAccessSettings,
		CanDeleteProducts:      p.CanDeleteProducts,
		CanProcessRequisitions: p.CanProcessRequisitions,
		CanCreateProductions:   p.CanCreateProductions,
		CanManuallyAdjustStock: p.CanManuallyAdjustStock,
		CanViewFullHistory:     p.CanViewFullHistory,
	}
}

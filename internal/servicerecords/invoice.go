package servicerecords

import (
	"fmt"

	"github.com/angelmondragon/servicebay-backend/pkg/db/models"
	"github.com/angelmondragon/servicebay-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// Invoice is a computed, never persisted, summary of a service record's items.
type Invoice struct {
	ServiceRecordID int64
	Status          enums.ServiceStatus
	AdvisorName     string
	Lines           []InvoiceLine
	Total           decimal.Decimal
}

// InvoiceLine prices one service item.
type InvoiceLine struct {
	ServiceItemID int64
	WorkItemID    int64
	WorkItemName  string
	Quantity      int
	UnitCost      decimal.Decimal
	LineTotal     decimal.Decimal
	Retired       bool
}

// unknownWorkItemName labels a line whose work item row no longer exists.
func unknownWorkItemName(id int64) string {
	return fmt.Sprintf("unknown work item #%d", id)
}

// priceLine resolves a service item against its work item. Soft-deleted work items
// keep their cost and are marked retired. Missing rows price at zero.
func priceLine(item models.ServiceItem) InvoiceLine {
	line := InvoiceLine{
		ServiceItemID: item.ID,
		WorkItemID:    item.WorkItemID,
		Quantity:      item.Quantity,
	}
	if item.WorkItem == nil {
		line.WorkItemName = unknownWorkItemName(item.WorkItemID)
		line.UnitCost = decimal.Zero
		line.LineTotal = decimal.Zero
		line.Retired = true
		return line
	}
	line.WorkItemName = item.WorkItem.Name
	line.UnitCost = item.WorkItem.Cost
	line.LineTotal = item.WorkItem.Cost.Mul(decimal.NewFromInt(int64(item.Quantity)))
	line.Retired = item.WorkItem.Retired()
	return line
}

// buildInvoice is a pure function of the record, its advisor and its current items.
func buildInvoice(record *models.ServiceRecord, advisor *models.User, items []models.ServiceItem) Invoice {
	inv := Invoice{
		ServiceRecordID: record.ID,
		Status:          record.Status,
		Lines:           make([]InvoiceLine, 0, len(items)),
		Total:           decimal.Zero,
	}
	if advisor != nil {
		inv.AdvisorName = advisor.FullName()
	}
	for _, item := range items {
		line := priceLine(item)
		inv.Lines = append(inv.Lines, line)
		inv.Total = inv.Total.Add(line.LineTotal)
	}
	return inv
}

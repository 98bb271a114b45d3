package servicerecords

import (
	"time"

	"github.com/angelmondragon/servicebay-backend/pkg/db/models"
	"github.com/angelmondragon/servicebay-backend/pkg/enums"
)

// AddItemRequest is the advisor's AddServiceItem body.
type AddItemRequest struct {
	ServiceRecordID int64 `json:"serviceRecordId" validate:"required"`
	WorkItemID      int64 `json:"workItemId" validate:"required"`
	Quantity        int   `json:"quantity"`
}

// Input converts the request body into service input.
func (r AddItemRequest) Input() AddItemInput {
	return AddItemInput{
		ServiceRecordID: r.ServiceRecordID,
		WorkItemID:      r.WorkItemID,
		Quantity:        r.Quantity,
	}
}

type VehicleSummary struct {
	ID           int64  `json:"id"`
	Model        string `json:"model"`
	LicensePlate string `json:"licensePlate"`
}

type AdvisorSummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// RecordDTO is the list and transition response shape.
type RecordDTO struct {
	ID               int64               `json:"id"`
	VehicleID        int64               `json:"vehicleId"`
	ServiceAdvisorID int64               `json:"serviceAdvisorId"`
	ScheduledDate    time.Time           `json:"scheduledDate"`
	Status           enums.ServiceStatus `json:"status"`
	StartedAt        *time.Time          `json:"startedAt,omitempty"`
	CompletedAt      *time.Time          `json:"completedAt,omitempty"`
	Vehicle          *VehicleSummary     `json:"vehicle,omitempty"`
	ServiceAdvisor   *AdvisorSummary     `json:"serviceAdvisor,omitempty"`
}

type ItemDTO struct {
	ID           int64  `json:"id"`
	WorkItemID   int64  `json:"workItemId"`
	WorkItemName string `json:"workItemName"`
	Quantity     int    `json:"quantity"`
	UnitCost     string `json:"unitCost"`
	LineTotal    string `json:"lineTotal"`
	Retired      bool   `json:"retired"`
}

// DetailDTO is a record with its resolved items.
type DetailDTO struct {
	RecordDTO
	Items []ItemDTO `json:"items"`
}

type InvoiceLineDTO struct {
	WorkItemID   int64  `json:"workItemId"`
	WorkItemName string `json:"workItemName"`
	Quantity     int    `json:"quantity"`
	UnitCost     string `json:"unitCost"`
	LineTotal    string `json:"lineTotal"`
	Retired      bool   `json:"retired"`
}

// InvoiceDTO renders an invoice with two-decimal amounts.
type InvoiceDTO struct {
	ServiceRecordID int64               `json:"serviceRecordId"`
	Status          enums.ServiceStatus `json:"status"`
	AdvisorName     string              `json:"advisorName"`
	Lines           []InvoiceLineDTO    `json:"lines"`
	InvoiceTotal    string              `json:"invoiceTotal"`
}

// ItemCreatedDTO acknowledges an added service item.
type ItemCreatedDTO struct {
	ID              int64 `json:"id"`
	ServiceRecordID int64 `json:"serviceRecordId"`
	WorkItemID      int64 `json:"workItemId"`
	Quantity        int   `json:"quantity"`
}

// ListDTO is one page of records.
type ListDTO struct {
	Records    []RecordDTO `json:"records"`
	NextCursor string      `json:"nextCursor,omitempty"`
}

func RecordFromModel(m models.ServiceRecord) RecordDTO {
	dto := RecordDTO{
		ID:               m.ID,
		VehicleID:        m.VehicleID,
		ServiceAdvisorID: m.ServiceAdvisorID,
		ScheduledDate:    m.ScheduledDate,
		Status:           m.Status,
		StartedAt:        m.StartedAt,
		CompletedAt:      m.CompletedAt,
	}
	if m.Vehicle != nil {
		dto.Vehicle = &VehicleSummary{ID: m.Vehicle.ID, Model: m.Vehicle.Model, LicensePlate: m.Vehicle.LicensePlate}
	}
	if m.ServiceAdvisor != nil {
		dto.ServiceAdvisor = &AdvisorSummary{ID: m.ServiceAdvisor.ID, Name: m.ServiceAdvisor.FullName(), Email: m.ServiceAdvisor.Email}
	}
	return dto
}

func ListFromResult(res *ListResult) ListDTO {
	out := ListDTO{Records: make([]RecordDTO, 0, len(res.Records)), NextCursor: res.NextCursor}
	for _, r := range res.Records {
		out.Records = append(out.Records, RecordFromModel(r))
	}
	return out
}

func DetailFromModel(d *Detail) DetailDTO {
	dto := DetailDTO{RecordDTO: RecordFromModel(*d.Record), Items: make([]ItemDTO, 0, len(d.Lines))}
	for _, line := range d.Lines {
		dto.Items = append(dto.Items, ItemDTO{
			ID:           line.ServiceItemID,
			WorkItemID:   line.WorkItemID,
			WorkItemName: line.WorkItemName,
			Quantity:     line.Quantity,
			UnitCost:     line.UnitCost.StringFixed(2),
			LineTotal:    line.LineTotal.StringFixed(2),
			Retired:      line.Retired,
		})
	}
	return dto
}

func InvoiceFromModel(inv *Invoice) InvoiceDTO {
	dto := InvoiceDTO{
		ServiceRecordID: inv.ServiceRecordID,
		Status:          inv.Status,
		AdvisorName:     inv.AdvisorName,
		Lines:           make([]InvoiceLineDTO, 0, len(inv.Lines)),
		InvoiceTotal:    inv.Total.StringFixed(2),
	}
	for _, line := range inv.Lines {
		dto.Lines = append(dto.Lines, InvoiceLineDTO{
			WorkItemID:   line.WorkItemID,
			WorkItemName: line.WorkItemName,
			Quantity:     line.Quantity,
			UnitCost:     line.UnitCost.StringFixed(2),
			LineTotal:    line.LineTotal.StringFixed(2),
			Retired:      line.Retired,
		})
	}
	return dto
}

func ItemCreatedFromModel(m *models.ServiceItem) ItemCreatedDTO {
	return ItemCreatedDTO{ID: m.ID, ServiceRecordID: m.ServiceRecordID, WorkItemID: m.WorkItemID, Quantity: m.Quantity}
}

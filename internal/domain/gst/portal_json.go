package gst

import (
	"encoding/json"
	"time"

	"github.com/jewelerp/backend/internal/domain/partner"
	"github.com/jewelerp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// portalDateLayout is the dd-mm-yyyy format used on GST portal exports
const portalDateLayout = "02-01-2006"

// GSTR-2A export shape. Amounts arrive per line item under each
// invoice; camt/samt/iamt are the central, state, and integrated tax.
type gstr2aPayload struct {
	GSTIN  string           `json:"gstin"`
	Period string           `json:"fp"`
	B2B    []gstr2aSupplier `json:"b2b"`
}

type gstr2aSupplier struct {
	CTIN      string          `json:"ctin"`
	TradeName string          `json:"trdnm"`
	Invoices  []gstr2aInvoice `json:"inv"`
}

type gstr2aInvoice struct {
	Number string          `json:"inum"`
	Date   string          `json:"idt"`
	Value  decimal.Decimal `json:"val"`
	Items  []gstr2aItem    `json:"itms"`
}

type gstr2aItem struct {
	TaxableValue decimal.Decimal `json:"txval"`
	CGST         decimal.Decimal `json:"camt"`
	SGST         decimal.Decimal `json:"samt"`
	IGST         decimal.Decimal `json:"iamt"`
}

// GSTR-2B export shape. The static statement nests supplier invoices
// under docdata and carries the portal's ITC availability verdict.
type gstr2bPayload struct {
	Period  string `json:"rtnprd"`
	DocData struct {
		B2B []gstr2bSupplier `json:"b2b"`
	} `json:"docdata"`
}

type gstr2bSupplier struct {
	CTIN      string          `json:"ctin"`
	TradeName string          `json:"trdnm"`
	Invoices  []gstr2bInvoice `json:"inv"`
}

type gstr2bInvoice struct {
	Number       string          `json:"inum"`
	Date         string          `json:"dt"`
	Value        decimal.Decimal `json:"val"`
	ITCAvailable string          `json:"itcavl"` // "Y" or "N"
	Items        []gstr2bItem    `json:"items"`
}

type gstr2bItem struct {
	TaxableValue decimal.Decimal `json:"txval"`
	CGST         decimal.Decimal `json:"cgst"`
	SGST         decimal.Decimal `json:"sgst"`
	IGST         decimal.Decimal `json:"igst"`
}

// ParseGSTR2A converts a GSTR-2A portal export into records for the
// given tenant and period. Invoices with an unparseable supplier GSTIN
// are rejected rather than silently skipped.
func ParseGSTR2A(tenantID uuid.UUID, period FilingPeriod, payload []byte) ([]GSTR2ARecord, error) {
	var doc gstr2aPayload
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, shared.NewValidationError("Invalid GSTR-2A JSON: " + err.Error())
	}

	records := make([]GSTR2ARecord, 0)
	for _, supplier := range doc.B2B {
		gstin, err := partner.ParseGSTIN(supplier.CTIN)
		if err != nil {
			return nil, err
		}
		for _, inv := range supplier.Invoices {
			if inv.Number == "" {
				return nil, shared.NewValidationError("GSTR-2A invoice without an invoice number under " + supplier.CTIN)
			}
			record := GSTR2ARecord{
				TenantAggregateRoot: newRecordBase(tenantID),
				Period:              period.String(),
				SupplierGSTIN:       gstin,
				SupplierName:        supplier.TradeName,
				InvoiceNumber:       inv.Number,
				InvoiceDate:         parsePortalDate(inv.Date),
				InvoiceValue:        inv.Value,
			}
			for _, item := range inv.Items {
				record.TaxableValue = record.TaxableValue.Add(item.TaxableValue)
				record.CGSTAmount = record.CGSTAmount.Add(item.CGST)
				record.SGSTAmount = record.SGSTAmount.Add(item.SGST)
				record.IGSTAmount = record.IGSTAmount.Add(item.IGST)
			}
			records = append(records, record)
		}
	}
	return records, nil
}

// ParseGSTR2B converts a GSTR-2B portal export into records for the
// given tenant and period.
func ParseGSTR2B(tenantID uuid.UUID, period FilingPeriod, payload []byte) ([]GSTR2BRecord, error) {
	var doc gstr2bPayload
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, shared.NewValidationError("Invalid GSTR-2B JSON: " + err.Error())
	}

	records := make([]GSTR2BRecord, 0)
	for _, supplier := range doc.DocData.B2B {
		gstin, err := partner.ParseGSTIN(supplier.CTIN)
		if err != nil {
			return nil, err
		}
		for _, inv := range supplier.Invoices {
			if inv.Number == "" {
				return nil, shared.NewValidationError("GSTR-2B invoice without an invoice number under " + supplier.CTIN)
			}
			record := GSTR2BRecord{
				TenantAggregateRoot: newRecordBase(tenantID),
				Period:              period.String(),
				SupplierGSTIN:       gstin,
				SupplierName:        supplier.TradeName,
				InvoiceNumber:       inv.Number,
				InvoiceDate:         parsePortalDate(inv.Date),
				InvoiceValue:        inv.Value,
				ITCAvailable:        inv.ITCAvailable != "N",
			}
			for _, item := range inv.Items {
				record.TaxableValue = record.TaxableValue.Add(item.TaxableValue)
				record.CGSTAmount = record.CGSTAmount.Add(item.CGST)
				record.SGSTAmount = record.SGSTAmount.Add(item.SGST)
				record.IGSTAmount = record.IGSTAmount.Add(item.IGST)
			}
			records = append(records, record)
		}
	}
	return records, nil
}

func parsePortalDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	t, err := time.Parse(portalDateLayout, raw)
	if err != nil {
		return nil
	}
	return &t
}

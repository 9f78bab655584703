// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Aggregates whose domain structs already carry GORM tags (Product, Customer,
// Supplier, GSTR-2A/2B records) persist directly and have no model here; the
// document aggregates with line items (Invoice, PurchaseOrder) and the pricing
// aggregates map through these models.
//
// Structure:
// - base.go: Base persistence models (BaseModel, AggregateModel, TenantAggregateModel)
// - billing.go: Invoice and InvoiceItem models
// - purchasing.go: PurchaseOrder and PurchaseOrderItem models
// - pricing.go: KaratPricing and GoldRate models
// - sequence.go: Per-tenant document number sequences
package models

package service

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irurudev/nexus-pos/internal/model"
)

// The audit entry for a committed sale must carry the full snapshot, header
// and line items, not a trimmed summary.
func TestSaleAuditSnapshot_CarriesHeaderAndLines(t *testing.T) {
	sale := &model.Sale{
		InvoiceID:  "INV20250101-0007",
		Subtotal:   decimal.NewFromFloat(81.00),
		Discount:   decimal.NewFromFloat(5),
		Tax:        decimal.NewFromFloat(2.55),
		GrandTotal: decimal.NewFromFloat(78.55),
		LineItems: []model.SaleLineItem{
			{ItemCode: "BRG001", ItemName: "Widget", Qty: 3, UnitPrice: decimal.NewFromInt(10), LineTotal: decimal.NewFromInt(30)},
			{ItemCode: "BRG002", ItemName: "Gadget", Qty: 2, UnitPrice: decimal.NewFromFloat(25.50), LineTotal: decimal.NewFromInt(51)},
		},
	}

	var decoded model.Sale
	require.NoError(t, json.Unmarshal(saleAuditSnapshot(sale), &decoded))

	assert.Equal(t, "INV20250101-0007", decoded.InvoiceID)
	assert.True(t, decoded.GrandTotal.Equal(sale.GrandTotal))
	require.Len(t, decoded.LineItems, 2)
	assert.Equal(t, "BRG001", decoded.LineItems[0].ItemCode)
	assert.Equal(t, "Widget", decoded.LineItems[0].ItemName)
	assert.Equal(t, 3, decoded.LineItems[0].Qty)
	assert.True(t, decoded.LineItems[1].LineTotal.Equal(decimal.NewFromInt(51)))
}

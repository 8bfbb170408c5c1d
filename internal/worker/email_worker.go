package worker

// email_worker.go
// Renders the PDF receipt for a committed sale and mails it to the customer.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/irurudev/nexus-pos/internal/infra"
	"github.com/irurudev/nexus-pos/internal/repository"
)

// ReceiptEmailPayload is the job envelope sent to QueueEmail.
type ReceiptEmailPayload struct {
	InvoiceID string `json:"invoice_id"`
	ToEmail   string `json:"to_email"`
}

type EmailWorker struct {
	sales       repository.SaleRepository
	mailer      *infra.Mailer
	storagePath string
}

func NewEmailWorker(sales repository.SaleRepository, mailer *infra.Mailer, storagePath string) *EmailWorker {
	return &EmailWorker{sales: sales, mailer: mailer, storagePath: storagePath}
}

func (w *EmailWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload ReceiptEmailPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("email_worker: empty to_email, skipping")
		return
	}

	sale, err := w.sales.FindByInvoiceID(ctx, payload.InvoiceID)
	if err != nil {
		log.Error().Err(err).Str("invoice_id", payload.InvoiceID).Msg("email_worker: sale not found")
		return
	}

	pdfPath, err := infra.GenerateReceiptPDF(sale, w.storagePath)
	if err != nil {
		log.Error().Err(err).Str("invoice_id", payload.InvoiceID).Msg("email_worker: receipt render failed")
		return
	}

	subject := fmt.Sprintf("Your receipt %s", sale.InvoiceID)
	body := fmt.Sprintf("Thank you for your purchase. Receipt %s is attached.", sale.InvoiceID)
	if err := w.mailer.SendReceipt(payload.ToEmail, subject, body, pdfPath); err != nil {
		log.Error().Err(err).Str("to", payload.ToEmail).Msg("email_worker: failed to send receipt")
		return
	}
	log.Info().Str("to", payload.ToEmail).Str("invoice_id", sale.InvoiceID).Msg("email_worker: receipt sent")
}

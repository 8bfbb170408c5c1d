package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/irurudev/nexus-pos/internal/apierror"
	"github.com/irurudev/nexus-pos/internal/codegen"
	"github.com/irurudev/nexus-pos/internal/dto"
	"github.com/irurudev/nexus-pos/internal/model"
	"github.com/irurudev/nexus-pos/internal/repository"
	"github.com/irurudev/nexus-pos/internal/worker"
)

// sequenceSale names the gapless counter behind generated invoice ids.
const sequenceSale = "sale"

// lockTimeoutSQL bounds how long the transaction waits for a contended item
// row before Postgres aborts it with SQLSTATE 55P03, which the repository
// layer translates to ErrConcurrencyTimeout.
const lockTimeoutSQL = "SET LOCAL lock_timeout = '5s'"

type SaleService interface {
	CreateSale(ctx context.Context, cashierID uint, req dto.CreateSaleRequest) (*dto.SaleResponse, error)
	GetSale(ctx context.Context, invoiceID string) (*dto.SaleResponse, error)
	ListSales(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error)
}

type saleService struct {
	repo       repository.SaleRepository
	sequences  repository.SequenceRepository
	customers  repository.CustomerRepository
	inventory  InventoryService
	dispatcher *worker.Dispatcher
}

func NewSaleService(
	repo repository.SaleRepository,
	sequences repository.SequenceRepository,
	customers repository.CustomerRepository,
	inventory InventoryService,
	dispatcher *worker.Dispatcher,
) SaleService {
	return &saleService{
		repo:       repo,
		sequences:  sequences,
		customers:  customers,
		inventory:  inventory,
		dispatcher: dispatcher,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── CreateSale ────────────────────────────────────────────────────────────────
// The single ACID commit path for a sale:
//   1. Resolve the customer reference (pre-flight, outside TX)
//   2. BEGIN TX, bound the row-lock wait
//   3. Mint the invoice id from the gapless sale sequence (unless supplied)
//   4. Lock each item row in submitted order, fail fast on the first shortage
//   5. Snapshot names and prices, derive decimal totals
//   6. Insert the sale header + line items, deduct stock, write movements
//   7. COMMIT — then fire-and-forget audit and receipt email jobs

func (s *saleService) CreateSale(ctx context.Context, cashierID uint, req dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	ts := time.Now()
	if req.Timestamp != nil {
		ts = *req.Timestamp
	}

	// 1. Resolve customer (read-only, no lock needed)
	if req.CustomerCode != nil && *req.CustomerCode != "" {
		if _, err := s.customers.FindByCode(ctx, *req.CustomerCode); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apierror.FieldError("customer_code", "customer %s not found", *req.CustomerCode)
			}
			return nil, repository.TranslateError(err)
		}
	}

	var sale model.Sale
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if tx != nil {
			if err := tx.Exec(lockTimeoutSQL).Error; err != nil {
				return repository.TranslateError(err)
			}
		}

		// 3. Invoice id: gapless sequence inside the TX so a rollback
		// returns the value instead of burning it.
		invoiceID := req.InvoiceID
		if invoiceID == "" {
			seq, err := s.sequences.NextTx(ctx, tx, sequenceSale)
			if err != nil {
				return err
			}
			invoiceID = codegen.InvoiceID(ts, seq)
		}

		// 4+5. Lock items in submitted order; snapshot and total. taken
		// tracks units claimed by earlier lines so a code repeated on the
		// request cannot overdraw its single locked row.
		subtotal := decimal.Zero
		lines := make([]model.SaleLineItem, 0, len(req.Items))
		reserved := make([]*model.Item, 0, len(req.Items))
		taken := make(map[string]int, len(req.Items))
		for i, line := range req.Items {
			item, err := s.inventory.ReserveTx(ctx, tx, line.ItemCode, line.Qty)
			if err != nil {
				var short *InsufficientStockError
				if errors.As(err, &short) {
					return apierror.FieldError(fmt.Sprintf("items.%d.qty", i),
						"insufficient stock for %s (available: %d)", short.ItemCode, short.Available)
				}
				return err
			}
			remaining := item.Stock - taken[item.Code]
			if remaining < line.Qty {
				return apierror.FieldError(fmt.Sprintf("items.%d.qty", i),
					"insufficient stock for %s (available: %d)", item.Code, remaining)
			}
			// Deductions run per line after the header insert; carry the
			// running stock so each movement row records the true
			// before/after even when a code repeats.
			snap := *item
			snap.Stock = remaining
			taken[item.Code] += line.Qty
			reserved = append(reserved, &snap)

			unitPrice := line.UnitPrice
			if unitPrice.IsZero() {
				unitPrice = item.SalePrice
			}
			lineTotal := unitPrice.Mul(decimal.NewFromInt(int64(line.Qty)))
			subtotal = subtotal.Add(lineTotal)

			lines = append(lines, model.SaleLineItem{
				ItemCode:  item.Code,
				ItemName:  item.Name,
				Qty:       line.Qty,
				UnitPrice: unitPrice,
				LineTotal: lineTotal,
			})
		}

		// 6. Persist header + lines, then deduct under the held locks.
		sale = model.Sale{
			InvoiceID:    invoiceID,
			Timestamp:    ts,
			CustomerCode: req.CustomerCode,
			CashierID:    cashierID,
			Subtotal:     subtotal,
			Discount:     req.Discount,
			Tax:          req.Tax,
			GrandTotal:   subtotal.Sub(req.Discount).Add(req.Tax),
			LineItems:    lines,
		}
		if err := s.repo.CreateTx(ctx, tx, &sale); err != nil {
			if repository.IsUniqueViolation(err) {
				return apierror.ErrDuplicateInvoiceID
			}
			return repository.TranslateError(err)
		}

		for i, item := range reserved {
			if err := s.inventory.DeductTx(ctx, tx, item, req.Items[i].Qty, invoiceID); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	// 7. Best-effort post-commit jobs. Failures are invisible to the caller;
	// the sale is already durable.
	if s.dispatcher != nil {
		uid := cashierID
		_ = s.dispatcher.EnqueueAudit(ctx, worker.AuditPayload{
			UserID:     &uid,
			Action:     "created",
			EntityType: "sale",
			EntityID:   sale.InvoiceID,
			NewValues:  saleAuditSnapshot(&sale),
		})
		if req.CustomerEmail != nil && *req.CustomerEmail != "" {
			_ = s.dispatcher.EnqueueReceiptEmail(ctx, worker.ReceiptEmailPayload{
				InvoiceID: sale.InvoiceID,
				ToEmail:   *req.CustomerEmail,
			})
		}
	}

	return saleToResponse(&sale), nil
}

// saleAuditSnapshot serializes the committed sale (header + line items) for
// the audit trail, so the log entry stands on its own even if the sale rows
// are later purged.
func saleAuditSnapshot(sale *model.Sale) json.RawMessage {
	b, _ := json.Marshal(sale)
	return b
}

func (s *saleService) GetSale(ctx context.Context, invoiceID string) (*dto.SaleResponse, error) {
	sale, err := s.repo.FindByInvoiceID(ctx, invoiceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.FieldError("invoice_id", "sale %s not found", invoiceID)
		}
		return nil, repository.TranslateError(err)
	}
	return saleToResponse(sale), nil
}

func (s *saleService) ListSales(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 15
	}
	sales, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, repository.TranslateError(err)
	}
	data := make([]dto.SaleResponse, 0, len(sales))
	for i := range sales {
		data = append(data, *saleToResponse(&sales[i]))
	}
	return &dto.SaleListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func saleToResponse(sale *model.Sale) *dto.SaleResponse {
	items := make([]dto.SaleLineResponse, 0, len(sale.LineItems))
	for _, line := range sale.LineItems {
		items = append(items, dto.SaleLineResponse{
			ItemCode:  line.ItemCode,
			ItemName:  line.ItemName,
			Qty:       line.Qty,
			UnitPrice: line.UnitPrice,
			LineTotal: line.LineTotal,
		})
	}
	resp := &dto.SaleResponse{
		InvoiceID:    sale.InvoiceID,
		Timestamp:    sale.Timestamp.Format(time.RFC3339),
		CustomerCode: sale.CustomerCode,
		CashierID:    sale.CashierID,
		Subtotal:     sale.Subtotal,
		Discount:     sale.Discount,
		Tax:          sale.Tax,
		GrandTotal:   sale.GrandTotal,
		Items:        items,
	}
	if sale.Customer != nil {
		resp.CustomerName = sale.Customer.Name
	}
	if sale.Cashier != nil {
		resp.CashierName = sale.Cashier.Name
	}
	return resp
}

package pgsql

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/openstay/folio-engine/internal/apperrors"
	"github.com/openstay/folio-engine/internal/core/domain"
	portsrepo "github.com/openstay/folio-engine/internal/core/ports/repositories"
	"github.com/openstay/folio-engine/internal/models"
	"github.com/openstay/folio-engine/internal/utils/mapping"
	"github.com/openstay/folio-engine/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

const transactionColumns = `
	transaction_id, folio_id, hotel_id, transaction_type, category, description,
	amount, total_amount, tax_amount, service_charge_amount, discount_amount,
	room_final_rate, room_final_net_amount, room_final_rate_tax,
	meal_plan_id, original_transaction_id, payment_method,
	status, void_reason, voided_by, voided_at,
	created_at, created_by, last_updated_at, last_updated_by
`

const insertTransactionQuery = `
	INSERT INTO folio_transactions (
		transaction_id, folio_id, hotel_id, transaction_type, category, description,
		amount, total_amount, tax_amount, service_charge_amount, discount_amount,
		room_final_rate, room_final_net_amount, room_final_rate_tax,
		meal_plan_id, original_transaction_id, payment_method,
		status, void_reason, voided_by, voided_at,
		created_at, created_by, last_updated_at, last_updated_by
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25);
`

const insertTaxLineQuery = `
	INSERT INTO transaction_tax_lines (tax_line_id, transaction_id, tax_rate_id, percentage, amount)
	VALUES ($1, $2, $3, $4, $5);
`

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new repository for folio transaction data.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

// AppendTransactions inserts one economic event onto a folio and moves the
// cached balance by balanceDelta, all inside a single DB transaction holding
// the folio row lock.
func (r *PgxLedgerRepository) AppendTransactions(ctx context.Context, folioID string, txns []domain.FolioTransaction, balanceDelta decimal.Decimal) error {
	if len(txns) == 0 {
		return nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := lockFolioForUpdate(ctx, tx, folioID); err != nil {
		return err
	}

	if err := queueAndSendTransactions(ctx, tx, txns); err != nil {
		return err
	}

	updatedBy := txns[0].CreatedBy
	updatedAt := txns[0].CreatedAt
	if err := applyBalanceDelta(ctx, tx, folioID, balanceDelta, updatedBy, updatedAt); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// MarkTransactionVoided sets void metadata on an active transaction and moves
// its folio's cached balance by balanceDelta.
func (r *PgxLedgerRepository) MarkTransactionVoided(ctx context.Context, txn domain.FolioTransaction, balanceDelta decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := lockFolioForUpdate(ctx, tx, txn.FolioID); err != nil {
		return err
	}

	if err := voidTransactionInTx(ctx, tx, txn); err != nil {
		return err
	}

	if err := applyBalanceDelta(ctx, tx, txn.FolioID, balanceDelta, txn.VoidedBy, derefTime(txn.VoidedAt)); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// MarkTransferPairVoided voids both legs of a transfer atomically. The two
// folio rows are locked in ascending folio-id order so concurrent transfers
// between the same folios cannot deadlock.
func (r *PgxLedgerRepository) MarkTransferPairVoided(ctx context.Context, legA, legB domain.FolioTransaction, deltaA, deltaB decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := lockFolioPair(ctx, tx, legA.FolioID, legB.FolioID); err != nil {
		return err
	}

	if err := voidTransactionInTx(ctx, tx, legA); err != nil {
		return err
	}
	if err := voidTransactionInTx(ctx, tx, legB); err != nil {
		return err
	}

	if err := applyBalanceDelta(ctx, tx, legA.FolioID, deltaA, legA.VoidedBy, derefTime(legA.VoidedAt)); err != nil {
		return err
	}
	if err := applyBalanceDelta(ctx, tx, legB.FolioID, deltaB, legB.VoidedBy, derefTime(legB.VoidedAt)); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// SaveTransferPair inserts a transfer_out/transfer_in pair across two folios
// atomically, locking the folios in ascending folio-id order.
func (r *PgxLedgerRepository) SaveTransferPair(ctx context.Context, out, in domain.FolioTransaction, sourceDelta, targetDelta decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := lockFolioPair(ctx, tx, out.FolioID, in.FolioID); err != nil {
		return err
	}

	if err := queueAndSendTransactions(ctx, tx, []domain.FolioTransaction{out, in}); err != nil {
		return err
	}

	if err := applyBalanceDelta(ctx, tx, out.FolioID, sourceDelta, out.CreatedBy, out.CreatedAt); err != nil {
		return err
	}
	if err := applyBalanceDelta(ctx, tx, in.FolioID, targetDelta, in.CreatedBy, in.CreatedAt); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// UpdateFolioBalance replaces a folio's cached balance with a recomputed value
// under the folio lock and stamps last_recomputed_at.
func (r *PgxLedgerRepository) UpdateFolioBalance(ctx context.Context, folioID string, balance decimal.Decimal, updatedBy string, updatedAt time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := lockFolioForUpdate(ctx, tx, folioID); err != nil {
		return err
	}

	query := `
		UPDATE folios
		SET balance = $2, last_recomputed_at = $3, last_updated_at = $3, last_updated_by = $4
		WHERE folio_id = $1;
	`
	if _, err := tx.Exec(ctx, query, folioID, balance, updatedAt, updatedBy); err != nil {
		return apperrors.NewAppError(500, "failed to update balance of folio "+folioID, err)
	}

	return r.Commit(ctx, tx)
}

// FindTransactionByID retrieves a single transaction with its tax lines.
func (r *PgxLedgerRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.FolioTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM folio_transactions WHERE transaction_id = $1;`

	m, err := scanTransactionRow(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find transaction by ID "+transactionID, err)
	}

	txn := mapping.ToDomainTransaction(*m)
	taxLines, err := r.findTaxLines(ctx, []string{transactionID})
	if err != nil {
		return nil, err
	}
	txn.TaxLines = taxLines[transactionID]
	return &txn, nil
}

// FindTransactionsByFolioID retrieves the full transaction set of a folio in
// creation order, voided rows included.
func (r *PgxLedgerRepository) FindTransactionsByFolioID(ctx context.Context, folioID string) ([]domain.FolioTransaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM folio_transactions
		WHERE folio_id = $1
		ORDER BY created_at, transaction_id;
	`
	rows, err := r.Pool.Query(ctx, query, folioID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query transactions for folio "+folioID, err)
	}
	defer rows.Close()

	ms := []models.FolioTransaction{}
	for rows.Next() {
		m, scanErr := scanTransactionRow(rows)
		if scanErr != nil {
			return nil, apperrors.NewAppError(500, "failed to scan transaction row for folio "+folioID, scanErr)
		}
		ms = append(ms, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating transaction rows for folio "+folioID, err)
	}

	txns := mapping.ToDomainTransactionSlice(ms)
	if err := r.attachTaxLines(ctx, txns); err != nil {
		return nil, err
	}
	return txns, nil
}

// ListTransactionsByFolioID retrieves a paginated slice of a folio's
// transactions, newest first, using token-based pagination.
func (r *PgxLedgerRepository) ListTransactionsByFolioID(ctx context.Context, folioID string, limit int, nextToken *string) ([]domain.FolioTransaction, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + transactionColumns + ` FROM folio_transactions WHERE folio_id = $1`
	args := []interface{}{folioID}

	if nextToken != nil && *nextToken != "" {
		fields, decodeErr := pagination.DecodeMultiFieldToken(*nextToken)
		if decodeErr != nil || len(fields) != 2 {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		lastCreatedAt, parseErr := pagination.ParseTokenTime(fields[0])
		if parseErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", parseErr)
		}
		args = append(args, lastCreatedAt, fields[1])
		baseQuery += " AND (created_at, transaction_id) < ($2, $3)"
	}

	args = append(args, fetchLimit)
	query := baseQuery + " ORDER BY created_at DESC, transaction_id DESC LIMIT $" + strconv.Itoa(len(args)) + ";"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query transactions for folio "+folioID, err)
	}
	defer rows.Close()

	ms := []models.FolioTransaction{}
	for rows.Next() {
		m, scanErr := scanTransactionRow(rows)
		if scanErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan transaction row for folio "+folioID, scanErr)
		}
		ms = append(ms, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating transaction rows for folio "+folioID, err)
	}

	var next *string
	if len(ms) > limit {
		ms = ms[:limit]
		last := ms[len(ms)-1]
		token := pagination.EncodeMultiFieldToken(pagination.FormatTokenTime(last.CreatedAt), last.TransactionID)
		next = &token
	}

	txns := mapping.ToDomainTransactionSlice(ms)
	if err := r.attachTaxLines(ctx, txns); err != nil {
		return nil, nil, err
	}
	return txns, next, nil
}

// FindTransferLegByOriginal retrieves the transfer leg whose
// original_transaction_id points at the given transaction, if any.
func (r *PgxLedgerRepository) FindTransferLegByOriginal(ctx context.Context, originalTransactionID string) (*domain.FolioTransaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM folio_transactions
		WHERE original_transaction_id = $1 AND transaction_type = $2
		ORDER BY created_at
		LIMIT 1;
	`
	m, err := scanTransactionRow(r.Pool.QueryRow(ctx, query, originalTransactionID, models.TypeTransfer))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find transfer leg for transaction "+originalTransactionID, err)
	}

	txn := mapping.ToDomainTransaction(*m)
	return &txn, nil
}

// lockFolioForUpdate acquires the folio row lock and returns the current
// cached balance.
func lockFolioForUpdate(ctx context.Context, tx pgx.Tx, folioID string) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := tx.QueryRow(ctx, `SELECT balance FROM folios WHERE folio_id = $1 FOR UPDATE;`, folioID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, apperrors.ErrNotFound
		}
		return decimal.Zero, apperrors.NewAppError(500, "failed to lock folio "+folioID, err)
	}
	return balance, nil
}

// lockFolioPair locks two folio rows in ascending folio-id order.
func lockFolioPair(ctx context.Context, tx pgx.Tx, folioA, folioB string) error {
	first, second := folioA, folioB
	if second < first {
		first, second = second, first
	}
	if _, err := lockFolioForUpdate(ctx, tx, first); err != nil {
		return err
	}
	if first != second {
		if _, err := lockFolioForUpdate(ctx, tx, second); err != nil {
			return err
		}
	}
	return nil
}

// applyBalanceDelta moves a folio's cached balance. Callers must hold the
// folio row lock.
func applyBalanceDelta(ctx context.Context, tx pgx.Tx, folioID string, delta decimal.Decimal, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE folios
		SET balance = balance + $2, last_updated_at = $3, last_updated_by = $4
		WHERE folio_id = $1;
	`
	if _, err := tx.Exec(ctx, query, folioID, delta, updatedAt, updatedBy); err != nil {
		return apperrors.NewAppError(500, "failed to apply balance delta to folio "+folioID, err)
	}
	return nil
}

// queueAndSendTransactions inserts transactions and their tax lines in one
// pgx batch.
func queueAndSendTransactions(ctx context.Context, tx pgx.Tx, txns []domain.FolioTransaction) error {
	batch := &pgx.Batch{}
	for _, txn := range txns {
		m := mapping.ToModelTransaction(txn)
		batch.Queue(insertTransactionQuery,
			m.TransactionID,
			m.FolioID,
			m.HotelID,
			m.Type,
			m.Category,
			m.Description,
			m.Amount,
			m.TotalAmount,
			m.TaxAmount,
			m.ServiceChargeAmount,
			m.DiscountAmount,
			m.RoomFinalRate,
			m.RoomFinalNetAmount,
			m.RoomFinalRateTax,
			m.MealPlanID,
			m.OriginalTransactionID,
			m.PaymentMethod,
			m.Status,
			m.VoidReason,
			m.VoidedBy,
			m.VoidedAt,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
		for _, line := range txn.TaxLines {
			lm := mapping.ToModelTaxLine(line)
			batch.Queue(insertTaxLineQuery,
				lm.TaxLineID,
				lm.TransactionID,
				lm.TaxRateID,
				lm.Percentage,
				lm.Amount,
			)
		}
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to execute transaction insert batch", err)
	}
	return nil
}

// voidTransactionInTx flips a transaction to VOIDED, guarding against double
// voids with the status predicate.
func voidTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.FolioTransaction) error {
	query := `
		UPDATE folio_transactions
		SET status = $2, void_reason = $3, voided_by = $4, voided_at = $5,
		    last_updated_at = $6, last_updated_by = $4
		WHERE transaction_id = $1 AND status = $7;
	`
	tag, err := tx.Exec(ctx, query,
		txn.TransactionID,
		models.StatusVoided,
		txn.VoidReason,
		txn.VoidedBy,
		txn.VoidedAt,
		derefTime(txn.VoidedAt),
		models.StatusActive,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to void transaction "+txn.TransactionID, err)
	}
	if tag.RowsAffected() == 0 {
		var status models.TransactionStatus
		scanErr := tx.QueryRow(ctx, `SELECT status FROM folio_transactions WHERE transaction_id = $1;`, txn.TransactionID).Scan(&status)
		if errors.Is(scanErr, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		if scanErr != nil {
			return apperrors.NewAppError(500, "failed to check status of transaction "+txn.TransactionID, scanErr)
		}
		return apperrors.ErrAlreadyVoided
	}
	return nil
}

// attachTaxLines loads and attaches tax lines for a transaction slice.
func (r *PgxLedgerRepository) attachTaxLines(ctx context.Context, txns []domain.FolioTransaction) error {
	if len(txns) == 0 {
		return nil
	}
	ids := make([]string, len(txns))
	for i, t := range txns {
		ids[i] = t.TransactionID
	}
	byTxn, err := r.findTaxLines(ctx, ids)
	if err != nil {
		return err
	}
	for i := range txns {
		txns[i].TaxLines = byTxn[txns[i].TransactionID]
	}
	return nil
}

// findTaxLines loads tax lines for a set of transactions keyed by transaction ID.
func (r *PgxLedgerRepository) findTaxLines(ctx context.Context, transactionIDs []string) (map[string][]domain.TaxLine, error) {
	query := `
		SELECT tax_line_id, transaction_id, tax_rate_id, percentage, amount
		FROM transaction_tax_lines
		WHERE transaction_id = ANY($1)
		ORDER BY transaction_id, tax_line_id;
	`
	rows, err := r.Pool.Query(ctx, query, transactionIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query tax lines", err)
	}
	defer rows.Close()

	byTxn := make(map[string][]domain.TaxLine)
	for rows.Next() {
		var m models.TaxLine
		if err := rows.Scan(&m.TaxLineID, &m.TransactionID, &m.TaxRateID, &m.Percentage, &m.Amount); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan tax line row", err)
		}
		byTxn[m.TransactionID] = append(byTxn[m.TransactionID], mapping.ToDomainTaxLine(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating tax line rows", err)
	}
	return byTxn, nil
}

// scanTransactionRow scans a single transaction row in transactionColumns order.
func scanTransactionRow(row pgx.Row) (*models.FolioTransaction, error) {
	var m models.FolioTransaction
	err := row.Scan(
		&m.TransactionID,
		&m.FolioID,
		&m.HotelID,
		&m.Type,
		&m.Category,
		&m.Description,
		&m.Amount,
		&m.TotalAmount,
		&m.TaxAmount,
		&m.ServiceChargeAmount,
		&m.DiscountAmount,
		&m.RoomFinalRate,
		&m.RoomFinalNetAmount,
		&m.RoomFinalRateTax,
		&m.MealPlanID,
		&m.OriginalTransactionID,
		&m.PaymentMethod,
		&m.Status,
		&m.VoidReason,
		&m.VoidedBy,
		&m.VoidedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

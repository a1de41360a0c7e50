package domain_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/openstay/folio-engine/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activeTxn(txnType domain.TransactionType, category domain.TransactionCategory, total, tax decimal.Decimal) domain.FolioTransaction {
	return domain.FolioTransaction{
		TransactionID: uuid.NewString(),
		FolioID:       "folio-1",
		HotelID:       "hotel-1",
		Type:          txnType,
		Category:      category,
		Amount:        total,
		TotalAmount:   total,
		TaxAmount:     tax,
		Status:        domain.StatusActive,
	}
}

func TestAggregate_ChargeTaxPayment(t *testing.T) {
	charge := activeTxn(domain.TypeCharge, domain.CategoryPosting, decimal.NewFromInt(100), decimal.Zero)
	taxPosting := activeTxn(domain.TypeCharge, domain.CategoryTax, decimal.Zero, decimal.NewFromInt(10))
	payment := activeTxn(domain.TypePayment, domain.CategoryPayment, decimal.NewFromInt(50), decimal.Zero)

	snapshot := domain.Aggregate([]domain.FolioTransaction{charge, taxPosting, payment}, domain.DefaultAggregationPolicy())

	assert.True(t, snapshot.TotalCharges.Equal(decimal.NewFromInt(100)), "charges: %s", snapshot.TotalCharges)
	assert.True(t, snapshot.TotalTax.Equal(decimal.NewFromInt(10)), "tax: %s", snapshot.TotalTax)
	assert.True(t, snapshot.TotalPayments.Equal(decimal.NewFromInt(50)), "payments: %s", snapshot.TotalPayments)
	assert.True(t, snapshot.Balance.Equal(decimal.NewFromInt(60)), "balance: %s", snapshot.Balance)
}

func TestAggregate_VoidedChargeLeavesSeparateTaxPosting(t *testing.T) {
	charge := activeTxn(domain.TypeCharge, domain.CategoryPosting, decimal.NewFromInt(100), decimal.Zero)
	charge.Status = domain.StatusVoided
	taxPosting := activeTxn(domain.TypeCharge, domain.CategoryTax, decimal.Zero, decimal.NewFromInt(10))
	payment := activeTxn(domain.TypePayment, domain.CategoryPayment, decimal.NewFromInt(50), decimal.Zero)

	snapshot := domain.Aggregate([]domain.FolioTransaction{charge, taxPosting, payment}, domain.DefaultAggregationPolicy())

	// The separate tax posting stays active when the charge is voided; tax
	// recorded on the charge itself would have disappeared with it.
	assert.True(t, snapshot.Balance.Equal(decimal.NewFromInt(-40)), "balance: %s", snapshot.Balance)
}

func TestAggregate_VoidedChargeDropsItsOwnTax(t *testing.T) {
	charge := activeTxn(domain.TypeCharge, domain.CategoryPosting, decimal.NewFromInt(100), decimal.NewFromInt(10))
	charge.Status = domain.StatusVoided

	snapshot := domain.Aggregate([]domain.FolioTransaction{charge}, domain.DefaultAggregationPolicy())

	assert.True(t, snapshot.Balance.IsZero(), "balance: %s", snapshot.Balance)
	assert.True(t, snapshot.TotalTax.IsZero(), "tax: %s", snapshot.TotalTax)
}

func TestAggregate_OrderInsensitive(t *testing.T) {
	txns := []domain.FolioTransaction{
		activeTxn(domain.TypeCharge, domain.CategoryPosting, decimal.RequireFromString("33.33"), decimal.RequireFromString("3.33")),
		activeTxn(domain.TypePayment, domain.CategoryPayment, decimal.NewFromInt(20), decimal.Zero),
		activeTxn(domain.TypeAdjustment, domain.CategoryService, decimal.RequireFromString("-5.50"), decimal.Zero),
		activeTxn(domain.TypeRefund, domain.CategoryPayment, decimal.NewFromInt(10), decimal.Zero),
	}
	reversed := []domain.FolioTransaction{txns[3], txns[2], txns[1], txns[0]}

	a := domain.Aggregate(txns, domain.DefaultAggregationPolicy())
	b := domain.Aggregate(reversed, domain.DefaultAggregationPolicy())

	assert.True(t, a.Balance.Equal(b.Balance))
	assert.True(t, a.TotalCharges.Equal(b.TotalCharges))
	assert.True(t, a.TotalPayments.Equal(b.TotalPayments))
	assert.True(t, a.TotalAdjustments.Equal(b.TotalAdjustments))
}

func TestAggregate_Deterministic(t *testing.T) {
	txns := []domain.FolioTransaction{
		activeTxn(domain.TypeCharge, domain.CategoryPosting, decimal.RequireFromString("99.99"), decimal.RequireFromString("9.99")),
		activeTxn(domain.TypePayment, domain.CategoryPayment, decimal.RequireFromString("49.99"), decimal.Zero),
	}
	first := domain.Aggregate(txns, domain.DefaultAggregationPolicy())
	second := domain.Aggregate(txns, domain.DefaultAggregationPolicy())
	assert.Equal(t, first, second)
}

func TestAggregate_RefundReducesPayments(t *testing.T) {
	payment := activeTxn(domain.TypePayment, domain.CategoryPayment, decimal.NewFromInt(100), decimal.Zero)
	refund := activeTxn(domain.TypeRefund, domain.CategoryPayment, decimal.NewFromInt(30), decimal.Zero)

	snapshot := domain.Aggregate([]domain.FolioTransaction{payment, refund}, domain.DefaultAggregationPolicy())

	assert.True(t, snapshot.TotalPayments.Equal(decimal.NewFromInt(70)), "payments: %s", snapshot.TotalPayments)
	assert.True(t, snapshot.Balance.Equal(decimal.NewFromInt(-70)), "balance: %s", snapshot.Balance)
}

func TestAggregate_TransferLegs(t *testing.T) {
	out := activeTxn(domain.TypeTransfer, domain.CategoryTransferOut, decimal.NewFromInt(80), decimal.Zero)
	in := activeTxn(domain.TypeTransfer, domain.CategoryTransferIn, decimal.NewFromInt(80), decimal.Zero)

	source := domain.Aggregate([]domain.FolioTransaction{
		activeTxn(domain.TypeCharge, domain.CategoryPosting, decimal.NewFromInt(80), decimal.Zero),
		out,
	}, domain.DefaultAggregationPolicy())
	target := domain.Aggregate([]domain.FolioTransaction{in}, domain.DefaultAggregationPolicy())

	assert.True(t, source.Balance.IsZero(), "source balance: %s", source.Balance)
	assert.True(t, target.Balance.Equal(decimal.NewFromInt(80)), "target balance: %s", target.Balance)
}

func TestAggregate_MealPlanPolicyBothReadings(t *testing.T) {
	planID := uuid.NewString()
	room := activeTxn(domain.TypeRoomPosting, domain.CategoryRoom, decimal.RequireFromString("90.91"), decimal.RequireFromString("9.09"))
	breakfast := activeTxn(domain.TypeCharge, domain.CategoryPosting, decimal.NewFromInt(20), decimal.Zero)
	breakfast.MealPlanID = &planID
	txns := []domain.FolioTransaction{room, breakfast}

	excluding := domain.Aggregate(txns, domain.AggregationPolicy{ExcludeMealPlanPostings: true})
	including := domain.Aggregate(txns, domain.AggregationPolicy{ExcludeMealPlanPostings: false})

	// The bundled breakfast is already inside the room posting's gross; the
	// default policy excludes the detail row, the alternate reading counts it.
	assert.True(t, excluding.Balance.Equal(decimal.NewFromInt(100)), "excluding: %s", excluding.Balance)
	assert.True(t, including.Balance.Equal(decimal.NewFromInt(120)), "including: %s", including.Balance)
}

func TestContribution_MatchesAggregateBalance(t *testing.T) {
	planID := uuid.NewString()
	breakfast := activeTxn(domain.TypeCharge, domain.CategoryPosting, decimal.NewFromInt(15), decimal.Zero)
	breakfast.MealPlanID = &planID
	voided := activeTxn(domain.TypeCharge, domain.CategoryService, decimal.NewFromInt(42), decimal.NewFromInt(4))
	voided.Status = domain.StatusVoided

	txns := []domain.FolioTransaction{
		activeTxn(domain.TypeRoomPosting, domain.CategoryRoom, decimal.RequireFromString("70.91"), decimal.RequireFromString("9.09")),
		activeTxn(domain.TypeCharge, domain.CategoryPosting, decimal.RequireFromString("12.50"), decimal.RequireFromString("1.25")),
		activeTxn(domain.TypePayment, domain.CategoryPayment, decimal.NewFromInt(60), decimal.Zero),
		activeTxn(domain.TypeAdjustment, domain.CategoryService, decimal.RequireFromString("-3.30"), decimal.Zero),
		activeTxn(domain.TypeRefund, domain.CategoryPayment, decimal.NewFromInt(5), decimal.Zero),
		activeTxn(domain.TypeTransfer, domain.CategoryTransferOut, decimal.NewFromInt(25), decimal.Zero),
		breakfast,
		voided,
	}

	policy := domain.DefaultAggregationPolicy()
	sum := decimal.Zero
	for _, txn := range txns {
		sum = sum.Add(domain.Contribution(txn, policy))
	}
	snapshot := domain.Aggregate(txns, policy)

	require.True(t, snapshot.Balance.Equal(sum),
		"aggregate balance %s must equal summed contributions %s", snapshot.Balance, sum)
}

func TestContribution_VoidedAndExcludedAreZero(t *testing.T) {
	planID := uuid.NewString()

	voided := activeTxn(domain.TypeCharge, domain.CategoryPosting, decimal.NewFromInt(10), decimal.NewFromInt(1))
	voided.Status = domain.StatusVoided
	detail := activeTxn(domain.TypeCharge, domain.CategoryPosting, decimal.NewFromInt(10), decimal.Zero)
	detail.MealPlanID = &planID

	policy := domain.DefaultAggregationPolicy()
	assert.True(t, domain.Contribution(voided, policy).IsZero())
	assert.True(t, domain.Contribution(detail, policy).IsZero())
}

func TestFolio_AcceptsPostings(t *testing.T) {
	open := domain.Folio{Status: domain.FolioOpen}
	closed := domain.Folio{Status: domain.FolioClosed}
	assert.True(t, open.AcceptsPostings())
	assert.False(t, closed.AcceptsPostings())
}

func TestFolioTransaction_GrossValue(t *testing.T) {
	txn := domain.FolioTransaction{
		TotalAmount:         decimal.RequireFromString("90.91"),
		TaxAmount:           decimal.RequireFromString("9.09"),
		ServiceChargeAmount: decimal.NewFromInt(5),
	}
	assert.True(t, txn.GrossValue().Equal(decimal.NewFromInt(105)))
}

func TestFolioTransaction_IsVoided(t *testing.T) {
	now := time.Now()
	txn := domain.FolioTransaction{Status: domain.StatusActive}
	assert.False(t, txn.IsVoided())
	txn.Status = domain.StatusVoided
	txn.VoidedAt = &now
	assert.True(t, txn.IsVoided())
}

package lifecycle

import (
	"errors"
	"gsc/src/lib/metrics"
	"gsc/src/models"
	"gsc/src/types"
	"regexp"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func fixedYear(year int) func() time.Time {
	return func() time.Time { return time.Date(year, 3, 1, 10, 0, 0, 0, time.UTC) }
}

func sequence(values ...string) func() string {
	i := 0
	return func() string {
		v := values[i%len(values)]
		i++
		return v
	}
}

func newPayment(t *testing.T, tx *gorm.DB, clientID uint, reference *string) *models.Payment {
	t.Helper()
	p := &models.Payment{
		ClientID:      clientID,
		PaymentType:   "visa_fee",
		Amount:        decimal.NewFromInt(1000),
		PaymentMethod: "cash",
		Status:        types.PAYMENT_PENDING,
		Reference:     reference,
		InitiatedAt:   time.Now(),
	}
	require.NoError(t, tx.Create(p).Error)
	return p
}

func TestNextFormats(t *testing.T) {
	g := NewGenerator()
	patterns := map[types.EntityKind]*regexp.Regexp{
		types.KIND_VISA_APPLICATION: regexp.MustCompile(`^VA-[0-9A-F]{8}$`),
		types.KIND_TRAVEL_BOOKING:   regexp.MustCompile(`^TB-[0-9A-F]{8}$`),
		types.KIND_PAYMENT:          regexp.MustCompile(`^PAY-[0-9A-F]{8}$`),
	}
	for kind, pattern := range patterns {
		ref, err := g.Next(nil, kind)
		require.NoError(t, err)
		assert.Regexp(t, pattern, ref)
	}
	_, err := g.Next(nil, "unknown")
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestNextExchangeSequence(t *testing.T) {
	gdb := newTestDB(t)
	f := newFixture(t, gdb)
	g := NewGenerator()
	g.now = fixedYear(2026)

	ref, err := g.Next(gdb, types.KIND_CURRENCY_EXCHANGE)
	require.NoError(t, err)
	assert.Equal(t, "EXC2026001", ref)

	for _, r := range []string{"EXC2025777", "EXC2026009", "EXC2026999", "EXC20261000"} {
		r := r
		require.NoError(t, gdb.Create(&models.CurrencyExchangeRequest{
			ClientID:     f.client.ID,
			Reference:    &r,
			FromCurrency: "EUR",
			ToCurrency:   "XAF",
			AmountSent:   decimal.NewFromInt(10),
			Status:       types.EXCHANGE_PENDING,
			SubmittedAt:  time.Now(),
		}).Error)
	}
	ref, err = g.Next(gdb, types.KIND_CURRENCY_EXCHANGE)
	require.NoError(t, err)
	assert.Equal(t, "EXC20261001", ref)

	g.now = fixedYear(2027)
	ref, err = g.Next(gdb, types.KIND_CURRENCY_EXCHANGE)
	require.NoError(t, err)
	assert.Equal(t, "EXC2027001", ref)
}

func TestAssignRetriesOnCollision(t *testing.T) {
	gdb := newTestDB(t)
	f := newFixture(t, gdb)
	taken := "PAY-AAAAAAAA"
	newPayment(t, gdb, f.client.ID, &taken)
	p := newPayment(t, gdb, f.client.ID, nil)

	g := NewGenerator()
	g.suffix = sequence("AAAAAAAA", "BBBBBBBB")
	before := testutil.ToFloat64(metrics.ReferenceCollisions.WithLabelValues(string(types.KIND_PAYMENT)))

	ref, err := g.Assign(gdb, p)
	require.NoError(t, err)
	assert.Equal(t, "PAY-BBBBBBBB", ref)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.ReferenceCollisions.WithLabelValues(string(types.KIND_PAYMENT))))

	var stored models.Payment
	require.NoError(t, gdb.First(&stored, p.ID).Error)
	require.NotNil(t, stored.Reference)
	assert.Equal(t, "PAY-BBBBBBBB", *stored.Reference)
}

func TestAssignGivesUp(t *testing.T) {
	gdb := newTestDB(t)
	f := newFixture(t, gdb)
	taken := "PAY-AAAAAAAA"
	newPayment(t, gdb, f.client.ID, &taken)
	p := newPayment(t, gdb, f.client.ID, nil)

	g := NewGenerator()
	g.suffix = sequence("AAAAAAAA")
	_, err := g.Assign(gdb, p)
	assert.True(t, errors.Is(err, ErrReferenceExhausted))
}

func TestAssignKeepsExistingReference(t *testing.T) {
	gdb := newTestDB(t)
	f := newFixture(t, gdb)
	existing := "PAY-CCCCCCCC"
	p := newPayment(t, gdb, f.client.ID, &existing)

	ref, err := NewGenerator().Assign(gdb, p)
	require.NoError(t, err)
	assert.Equal(t, existing, ref)

	// a stale copy without the reference reads back what is stored
	stale := &models.Payment{ID: p.ID, ClientID: p.ClientID}
	ref, err = NewGenerator().Assign(gdb, stale)
	require.NoError(t, err)
	assert.Equal(t, existing, ref)
}

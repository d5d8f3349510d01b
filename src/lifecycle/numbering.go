package lifecycle

import (
	"errors"
	"fmt"
	"gsc/src/lib/metrics"
	"gsc/src/models"
	"gsc/src/types"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxReferenceAttempts = 5

var errAlreadyAssigned = errors.New("reference already assigned")

// Generator allocates entity references. Uniqueness is enforced by the
// unique index on the reference column; collisions are retried.
type Generator struct {
	suffix func() string
	now    func() time.Time
}

func NewGenerator() *Generator {
	return &Generator{
		suffix: randomSuffix,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func randomSuffix() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func prefixFor(kind types.EntityKind) string {
	switch kind {
	case types.KIND_VISA_APPLICATION:
		return "VA-"
	case types.KIND_TRAVEL_BOOKING:
		return "TB-"
	case types.KIND_PAYMENT:
		return "PAY-"
	}
	return ""
}

// Next proposes a reference for the kind. It does not reserve it.
func (g *Generator) Next(tx *gorm.DB, kind types.EntityKind) (string, error) {
	if kind == types.KIND_CURRENCY_EXCHANGE {
		return g.nextExchange(tx)
	}
	prefix := prefixFor(kind)
	if prefix == "" {
		return "", fmt.Errorf("%w: no reference format for %q", ErrValidation, kind)
	}
	return prefix + g.suffix(), nil
}

// nextExchange returns EXC{year}{seq} where seq follows the highest
// reference issued this year.
func (g *Generator) nextExchange(tx *gorm.DB) (string, error) {
	prefix := fmt.Sprintf("EXC%d", g.now().Year())
	var refs []string
	err := tx.Model(&models.CurrencyExchangeRequest{}).Unscoped().
		Where("reference LIKE ?", prefix+"%").
		Order("LENGTH(reference) DESC, reference DESC").
		Limit(1).
		Pluck("reference", &refs).Error
	if err != nil {
		return "", err
	}
	seq := 1
	if len(refs) > 0 {
		if n, err := strconv.Atoi(strings.TrimPrefix(refs[0], prefix)); err == nil {
			seq = n + 1
		}
	}
	return fmt.Sprintf("%s%03d", prefix, seq), nil
}

// Assign writes a fresh reference to an entity that has none. Each attempt
// runs in a savepoint so a unique violation leaves the outer transaction usable.
func (g *Generator) Assign(tx *gorm.DB, e Entity) (string, error) {
	if ref := e.ReferenceValue(); ref != nil {
		return *ref, nil
	}
	column := e.ReferenceColumn()
	for attempt := 1; attempt <= maxReferenceAttempts; attempt++ {
		ref, err := g.Next(tx, e.EntityKind())
		if err != nil {
			return "", err
		}
		err = tx.Transaction(func(stx *gorm.DB) error {
			res := stx.Model(e).Where(column + " IS NULL").UpdateColumn(column, ref)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return errAlreadyAssigned
			}
			return nil
		})
		switch {
		case err == nil:
			return ref, nil
		case errors.Is(err, gorm.ErrDuplicatedKey):
			metrics.ReferenceCollisions.WithLabelValues(string(e.EntityKind())).Inc()
			log.Printf("Reference collision for %s %d on attempt %d: %s\n", e.EntityKind(), e.EntityID(), attempt, ref)
			continue
		case errors.Is(err, errAlreadyAssigned):
			var current []string
			if err := tx.Model(e).Where("id = ?", e.EntityID()).Pluck(column, &current).Error; err != nil {
				return "", err
			}
			if len(current) == 0 {
				return "", fmt.Errorf("%w: %s %d", ErrNotFound, e.EntityKind(), e.EntityID())
			}
			return current[0], nil
		default:
			return "", err
		}
	}
	return "", fmt.Errorf("%w: %s %d after %d attempts", ErrReferenceExhausted, e.EntityKind(), e.EntityID(), maxReferenceAttempts)
}

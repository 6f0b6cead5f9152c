package repositories

import (
	"testing"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catering-system/pkg/types"
)

func voucherWhereSQL(t *testing.T, filter types.Filter) (string, []interface{}) {
	t.Helper()
	query, args, err := sq.Select("1").From("vouchers v").
		PlaceholderFormat(sq.Dollar).
		Where(voucherFilterConditions(filter)).
		ToSql()
	require.NoError(t, err)
	return query, args
}

func TestVoucherFilterConditionsDateRange(t *testing.T) {
	query, args := voucherWhereSQL(t, types.Filter{Filter: map[string]interface{}{
		"date_from": "2024-01-01",
		"date_to":   "2024-01-31",
	}})

	assert.Contains(t, query, "v.date >= $")
	assert.Contains(t, query, "v.date <= $")
	assert.ElementsMatch(t, []interface{}{"2024-01-01", "2024-01-31"}, args)
}

func TestVoucherFilterConditionsExactDate(t *testing.T) {
	query, args := voucherWhereSQL(t, types.Filter{Filter: map[string]interface{}{
		"date": "2024-01-03",
	}})

	assert.Contains(t, query, "v.date = $1")
	assert.Equal(t, []interface{}{"2024-01-03"}, args)
	assert.NotContains(t, query, ">=")
	assert.NotContains(t, query, "<=")
}

func TestVoucherFilterConditionsCombined(t *testing.T) {
	query, args := voucherWhereSQL(t, types.Filter{
		Search: "VOUCHER2024",
		Filter: map[string]interface{}{
			"status":        "active",
			"department_id": "3",
			"date_from":     "2024-01-01",
		},
	})

	assert.Contains(t, query, "v.voucher_code ILIKE $")
	assert.Contains(t, query, "v.status = $")
	assert.Contains(t, query, "v.department_id = $")
	assert.Contains(t, query, "v.date >= $")
	assert.Len(t, args, 4)
}

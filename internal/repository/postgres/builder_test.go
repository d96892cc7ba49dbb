package postgres

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flexprice/invoicer/internal/domain/client"
	"github.com/flexprice/invoicer/internal/domain/invoice"
	"github.com/flexprice/invoicer/internal/types"
)

func TestInvoiceListQuery(t *testing.T) {
	filter := invoice.NewFilter("user_1")
	filter.Status = lo.ToPtr(types.InvoiceStatusPaid)
	filter.Search = "globex"
	filter.Limit = lo.ToPtr(10)
	filter.Offset = lo.ToPtr(20)
	filter.Order = lo.ToPtr(types.OrderAsc)

	query, args, err := invoiceQuery(filter).
		order(string(filter.SortField()), filter.GetOrder()).
		paginate(filter.QueryFilter).
		selectQuery()
	require.NoError(t, err)

	assert.Equal(t,
		`SELECT * FROM invoices WHERE owner_id = $1 AND status = $2 AND (buyer_name ILIKE $3 ESCAPE '\' OR service_name ILIKE $4 ESCAPE '\') ORDER BY issued_date ASC NULLS LAST, id ASC LIMIT 10 OFFSET 20`,
		query)
	assert.Equal(t, []interface{}{"user_1", "paid", "%globex%", "%globex%"}, args)
}

func TestInvoiceCountQuery(t *testing.T) {
	query, args, err := invoiceQuery(invoice.NewFilter("user_1")).countQuery()
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) FROM invoices WHERE owner_id = $1", query)
	assert.Equal(t, []interface{}{"user_1"}, args)
}

func TestSearchEscapesWildcards(t *testing.T) {
	filter := client.NewFilter("user_1")
	filter.Search = "  50%_off\\  "

	_, args, err := clientQuery(filter).countQuery()
	require.NoError(t, err)
	assert.Equal(t, `%50\%\_off\\%`, args[1])
}

func TestNoConditions(t *testing.T) {
	query, args, err := newQueryBuilder("clients").order("name", types.OrderDesc).selectQuery()
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM clients ORDER BY name DESC NULLS LAST, id DESC", query)
	assert.Empty(t, args)
}

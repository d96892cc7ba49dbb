package postgres

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"

	"github.com/flexprice/invoicer/internal/domain/client"
	"github.com/flexprice/invoicer/internal/domain/invoice"
	ierr "github.com/flexprice/invoicer/internal/errors"
	"github.com/flexprice/invoicer/internal/logger"
	"github.com/flexprice/invoicer/internal/postgres"
	"github.com/flexprice/invoicer/internal/testutil"
	"github.com/flexprice/invoicer/internal/types"
)

// RepositorySuite runs against a real database named by
// INVOICER_TEST_POSTGRES_DSN and is skipped otherwise
type RepositorySuite struct {
	suite.Suite
	ctx      context.Context
	db       *postgres.DB
	owner    string
	invoices invoice.Repository
	clients  client.Repository
	sequence invoice.SequenceGenerator
}

func TestRepositories(t *testing.T) {
	dsn := os.Getenv("INVOICER_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("INVOICER_TEST_POSTGRES_DSN not set")
	}

	conn, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		t.Skipf("postgres unavailable: %v", err)
	}

	log := logger.NewNoopLogger()
	s := &RepositorySuite{db: postgres.NewFromSqlx(conn, log, nil)}
	defer s.db.Close()
	suite.Run(t, s)
}

func (s *RepositorySuite) SetupSuite() {
	s.ctx = context.Background()
	s.Require().NoError(s.db.Migrate(s.ctx))

	log := logger.NewNoopLogger()
	s.invoices = NewInvoiceRepository(s.db, log)
	s.clients = NewClientRepository(s.db, log)
	s.sequence = NewSequenceGenerator(s.db, log)
}

func (s *RepositorySuite) SetupTest() {
	// a fresh owner isolates each test from earlier rows
	s.owner = types.GenerateUUIDWithPrefix("user")
}

func (s *RepositorySuite) seedInvoice(id, buyer string) *invoice.Invoice {
	inv := testutil.InvoiceRecord()
	inv.ID = id
	inv.OwnerID = s.owner
	inv.ClientID = nil
	inv.InvoiceNumber = id
	inv.BuyerName = buyer
	s.Require().NoError(s.invoices.Create(s.ctx, inv))
	return inv
}

func (s *RepositorySuite) TestInvoiceCRUD() {
	created := s.seedInvoice(types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE), "Globex Corporation")

	got, err := s.invoices.Get(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal("Globex Corporation", got.BuyerName)
	s.True(got.GrossTotal.Equal(created.GrossTotal))
	s.Equal("2024-02-14", lo.FromPtr(got.DueDate))

	got.Status = types.InvoiceStatusPaid
	s.Require().NoError(s.invoices.Update(s.ctx, got))

	again, err := s.invoices.Get(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(types.InvoiceStatusPaid, again.Status)

	s.Require().NoError(s.invoices.Delete(s.ctx, created.ID))
	_, err = s.invoices.Get(s.ctx, created.ID)
	s.True(ierr.IsNotFound(err))
	s.True(ierr.IsNotFound(s.invoices.Delete(s.ctx, created.ID)))
}

func (s *RepositorySuite) TestInvoiceListAndSearch() {
	s.seedInvoice(types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE), "Globex Corporation")
	s.seedInvoice(types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE), "Initech")

	filter := invoice.NewFilter(s.owner)
	filter.Search = "GLOBEX"

	list, err := s.invoices.List(s.ctx, filter)
	s.Require().NoError(err)
	s.Len(list, 1)

	count, err := s.invoices.Count(s.ctx, invoice.NewFilter(s.owner))
	s.Require().NoError(err)
	s.Equal(2, count)
}

func (s *RepositorySuite) TestClientCRUD() {
	c := testutil.Client()
	c.ID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CLIENT)
	c.OwnerID = s.owner
	s.Require().NoError(s.clients.Create(s.ctx, c))
	s.True(ierr.IsAlreadyExists(s.clients.Create(s.ctx, c)))

	filter := client.NewFilter(s.owner)
	filter.Search = "ap@globex"
	list, err := s.clients.List(s.ctx, filter)
	s.Require().NoError(err)
	s.Len(list, 1)

	s.Require().NoError(s.clients.Delete(s.ctx, c.ID))
}

func (s *RepositorySuite) TestSequenceIsGapFreeUnderContention() {
	const workers = 8

	var wg sync.WaitGroup
	numbers := make(chan string, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := s.sequence.NextInvoiceNumber(s.ctx, s.owner, 2024)
			s.NoError(err)
			numbers <- n
		}()
	}
	wg.Wait()
	close(numbers)

	seen := make(map[string]bool)
	for n := range numbers {
		seen[n] = true
	}
	s.Len(seen, workers)
	for i := int64(1); i <= workers; i++ {
		s.True(seen[invoice.FormatInvoiceNumber(2024, i)])
	}
}

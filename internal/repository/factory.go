package repository

import (
	"github.com/flexprice/invoicer/internal/domain/client"
	"github.com/flexprice/invoicer/internal/domain/invoice"
	"github.com/flexprice/invoicer/internal/domain/profile"
	"github.com/flexprice/invoicer/internal/logger"
	"github.com/flexprice/invoicer/internal/postgres"
	postgresRepo "github.com/flexprice/invoicer/internal/repository/postgres"
)

func NewInvoiceRepository(db *postgres.DB, logger *logger.Logger) invoice.Repository {
	return postgresRepo.NewInvoiceRepository(db, logger)
}

func NewClientRepository(db *postgres.DB, logger *logger.Logger) client.Repository {
	return postgresRepo.NewClientRepository(db, logger)
}

func NewProfileRepository(db *postgres.DB, logger *logger.Logger) profile.Repository {
	return postgresRepo.NewProfileRepository(db, logger)
}

func NewSequenceGenerator(db *postgres.DB, logger *logger.Logger) invoice.SequenceGenerator {
	return postgresRepo.NewSequenceGenerator(db, logger)
}

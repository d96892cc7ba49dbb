package service

import (
	"time"

	"github.com/flexprice/invoicer/internal/config"
	"github.com/flexprice/invoicer/internal/domain/client"
	"github.com/flexprice/invoicer/internal/domain/invoice"
	"github.com/flexprice/invoicer/internal/domain/profile"
	"github.com/flexprice/invoicer/internal/logger"
	"github.com/flexprice/invoicer/internal/logo"
	"github.com/flexprice/invoicer/internal/mapper"
	"github.com/flexprice/invoicer/internal/postgres"
	"github.com/flexprice/invoicer/internal/render"
	"github.com/flexprice/invoicer/internal/s3"
	"github.com/flexprice/invoicer/internal/template"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	DB     postgres.Transactor

	// Repositories
	InvoiceRepo  invoice.Repository
	ClientRepo   client.Repository
	ProfileRepo  profile.Repository
	SequenceRepo invoice.SequenceGenerator

	// Rendering
	Templates *template.Registry
	Mapper    *mapper.Mapper
	Renderer  *render.Service
	Logos     logo.Resolver

	// S3 is nil when blob storage is disabled
	S3 s3.Service

	// Now is the service clock, time.Now outside tests
	Now func() time.Time
}

// Common service params
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	db *postgres.DB,
	invoiceRepo invoice.Repository,
	clientRepo client.Repository,
	profileRepo profile.Repository,
	sequenceRepo invoice.SequenceGenerator,
	templates *template.Registry,
	mapper *mapper.Mapper,
	renderer *render.Service,
	logos logo.Resolver,
	s3Service s3.Service,
) ServiceParams {
	return ServiceParams{
		Logger:       logger,
		Config:       config,
		DB:           db,
		InvoiceRepo:  invoiceRepo,
		ClientRepo:   clientRepo,
		ProfileRepo:  profileRepo,
		SequenceRepo: sequenceRepo,
		Templates:    templates,
		Mapper:       mapper,
		Renderer:     renderer,
		Logos:        logos,
		S3:           s3Service,
		Now:          time.Now,
	}
}

func (p ServiceParams) now() time.Time {
	if p.Now == nil {
		return time.Now().UTC()
	}
	return p.Now().UTC()
}

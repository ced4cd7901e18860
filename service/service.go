// Package service contains the business logic of the screener: formula
// management and bond screening.
package service

import (
	"github.com/ncobase/screener/config"
	"github.com/ncobase/screener/data/messaging"
	"github.com/ncobase/screener/data/repository"
	"github.com/ncobase/screener/expression"
	"github.com/ncobase/screener/market"
)

// DefaultEventTopic is the topic of screening.completed events
const DefaultEventTopic = "screening.completed"

// Dependencies holds what the services are built from
type Dependencies struct {
	Repositories *repository.Repositories
	Compiler     *expression.Compiler
	Market       *market.Service
	Publisher    messaging.Publisher
	Config       *config.Screening
	EventTopic   string
}

// Service aggregates all business logic services.
type Service struct {
	Formula   *FormulaService
	Screening *ScreeningService
}

// New creates a new service instance with all sub-services initialized.
func New(deps *Dependencies) *Service {
	if deps.Config == nil {
		deps.Config = &config.Screening{DefaultPageSize: 50, MaxPageSize: 500}
	}
	if deps.Compiler == nil {
		deps.Compiler = expression.NewCompiler(nil, nil)
	}
	if deps.Publisher == nil {
		deps.Publisher = messaging.Noop{}
	}
	if deps.EventTopic == "" {
		deps.EventTopic = DefaultEventTopic
	}

	formulas := NewFormulaService(deps.Repositories.Formula, deps.Compiler, deps.Config)
	return &Service{
		Formula:   formulas,
		Screening: NewScreeningService(deps, formulas),
	}
}

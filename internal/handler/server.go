// Package handler implements the HTTP handlers for the Herdlog API.
// Handlers only decode requests, call a service, and encode responses;
// every business rule lives in the service layer. Interfaces are defined
// here, in the consumer package, so handler tests can inject mocks without
// touching the database or the service layer.
package handler

import (
	"context"
	"io"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pcamargo/herdlog/internal/domain"
	"github.com/pcamargo/herdlog/internal/service"
)

// PaddockServicer defines the registry operations the paddock handlers use.
type PaddockServicer interface {
	Register(ctx context.Context, paddock domain.Paddock) (domain.Paddock, error)
	List(ctx context.Context) ([]domain.Paddock, error)
	Update(ctx context.Context, name string, paddock domain.Paddock) (domain.Paddock, error)
	Remove(ctx context.Context, name string) error
}

// AnimalServicer defines the registry-mirror operations the animal handlers use.
type AnimalServicer interface {
	Ingest(ctx context.Context, animal domain.Animal) (domain.Animal, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Animal, error)
	List(ctx context.Context) ([]domain.Animal, error)
}

// LocationServicer defines the read-only location operations.
type LocationServicer interface {
	Resolve(ctx context.Context, animalID uuid.UUID) (*domain.CurrentLocation, error)
	History(ctx context.Context, animalID uuid.UUID) ([]domain.LocationEvent, error)
	ListEvents(ctx context.Context, filter domain.EventFilter) ([]domain.LocationEvent, error)
}

// MovementServicer records a single transfer.
type MovementServicer interface {
	Transfer(ctx context.Context, in service.TransferInput) (domain.LocationEvent, error)
}

// BatchServicer moves many animals in one request.
type BatchServicer interface {
	MoveMany(ctx context.Context, req domain.BatchMoveRequest, actor string, progress service.ProgressFunc) (domain.BatchMoveResult, error)
}

// ExportServicer produces the flat location export.
type ExportServicer interface {
	Rows(ctx context.Context) ([]domain.ExportRow, error)
	WriteXLSX(ctx context.Context, w io.Writer) error
}

// Server holds the handler dependencies. Methods are split into
// domain-specific files (paddock.go, movement.go, ...) but all share this
// struct.
type Server struct {
	paddocks  PaddockServicer
	animals   AnimalServicer
	locations LocationServicer
	movements MovementServicer
	batches   BatchServicer
	export    ExportServicer
	log       *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
// log may be nil; slog.Default() is used then.
func NewServer(
	paddocks PaddockServicer,
	animals AnimalServicer,
	locations LocationServicer,
	movements MovementServicer,
	batches BatchServicer,
	export ExportServicer,
	log *slog.Logger,
) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		paddocks:  paddocks,
		animals:   animals,
		locations: locations,
		movements: movements,
		batches:   batches,
		export:    export,
		log:       log,
	}
}

// Register mounts all API routes on the given router.
func (s *Server) Register(r chi.Router) {
	r.Get("/healthz", s.health)

	r.Route("/paddocks", func(r chi.Router) {
		r.Get("/", s.listPaddocks)
		r.Post("/", s.createPaddock)
		r.Put("/{name}", s.updatePaddock)
		r.Delete("/{name}", s.deletePaddock)
	})

	r.Route("/animals", func(r chi.Router) {
		r.Get("/", s.listAnimals)
		r.Post("/", s.ingestAnimal)
		r.Get("/{animalID}", s.getAnimal)
		r.Get("/{animalID}/location", s.getAnimalLocation)
		r.Get("/{animalID}/history", s.getAnimalHistory)
	})

	r.Get("/location-events", s.listEvents)
	r.Post("/movements", s.recordTransfer)
	r.Post("/movements/batch", s.batchTransfer)
	r.Get("/export", s.getExport)
}

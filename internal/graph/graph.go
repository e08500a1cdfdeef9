// Package graph expone la API GraphQL (graph-gophers/graphql-go) sobre los
// servicios de dominio. Cada campo delega en un solo método de servicio.
package graph

import (
	"context"
	_ "embed"
	"errors"
	"net/http"

	"newleash/internal/apperror"
	"newleash/internal/domain/forum"
	"newleash/internal/domain/images"
	"newleash/internal/domain/pets"
	"newleash/internal/domain/profiles"
	"newleash/internal/domain/search"
	"newleash/internal/domain/shelters"
	"newleash/internal/middleware"
	"newleash/internal/platform/logger"
	"newleash/internal/ports/auth"

	chimw "github.com/go-chi/chi/v5/middleware"
	graphql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
)

//go:embed schema.graphql
var schemaSDL string

const DefaultMaxDepth = 10

type Services struct {
	Profiles *profiles.Service
	Pets     *pets.Service
	Forum    *forum.Service
	Shelters *shelters.Service
	Search   *search.Service
	Images   *images.Service
}

// Resolver es el root de Query y Mutation.
type Resolver struct {
	svc    Services
	issuer auth.TokenIssuer
	log    logger.Logger
}

func NewResolver(svc Services, issuer auth.TokenIssuer, log logger.Logger) *Resolver {
	if log == nil {
		log = logger.Nop()
	}
	return &Resolver{svc: svc, issuer: issuer, log: log}
}

// NewHandler parsea el schema embebido; un schema que no matchea los
// resolvers es un bug de programación, por eso Must.
func NewHandler(r *Resolver, maxDepth int) http.Handler {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	schema := graphql.MustParseSchema(schemaSDL, r,
		graphql.MaxDepth(maxDepth),
		graphql.Logger(panicLogger{log: r.log}),
	)
	return &relay.Handler{Schema: schema}
}

type panicLogger struct {
	log logger.Logger
}

func (l panicLogger) LogPanic(ctx context.Context, value interface{}) {
	l.log.Error("graphql resolver panic", map[string]any{
		"panic":      value,
		"request_id": chimw.GetReqID(ctx),
	})
}

var errInternal = &apperror.AppError{Err: errors.New("internal"), Message: "internal server error"}

// fail deja pasar los errores de aplicación (con su extensions.code) y
// oculta el resto detrás de INTERNAL, logueando la causa.
func (r *Resolver) fail(ctx context.Context, op string, err error) error {
	if apperror.CodeOf(err) == apperror.CodeInternal {
		r.log.Error("graphql operation failed", map[string]any{
			"op":         op,
			"error":      err,
			"request_id": chimw.GetReqID(ctx),
		})
		return errInternal
	}
	var ae *apperror.AppError
	if errors.As(err, &ae) {
		return ae
	}
	return &apperror.AppError{Err: err, Message: err.Error()}
}

func callerID(ctx context.Context) (string, error) {
	c, ok := middleware.GetClaims(ctx)
	if !ok || c.UserID == "" {
		return "", apperror.Unauthenticated("")
	}
	return c.UserID, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, apperror.ErrNotFound)
}

package router

import (
	"database/sql"
	"net/http"

	mem "newleash/internal/adapters/storage/memory"
	pg "newleash/internal/adapters/storage/postgres"
	"newleash/internal/domain/forum"
	"newleash/internal/domain/images"
	"newleash/internal/domain/pets"
	"newleash/internal/domain/profiles"
	"newleash/internal/domain/search"
	"newleash/internal/domain/shelters"
	"newleash/internal/graph"
	"newleash/internal/middleware"
	"newleash/internal/platform/logger"
	"newleash/internal/platform/metrics"
	"newleash/internal/ports/auth"
	"newleash/internal/ports/geocoding"
	"newleash/internal/ports/imagehost"
	"newleash/internal/ports/petlisting"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// DefaultMaxBodyBytes cubre una imagen de 10 MiB en base64 más el resto del request.
const DefaultMaxBodyBytes = 14 << 20

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)
	TokenIssuer  auth.TokenIssuer

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	Logger  logger.Logger
	Metrics *metrics.Metrics

	// Colaboradores externos; nil => las operaciones que los usan dan UNAVAILABLE.
	Listing   petlisting.Client
	Geocoder  geocoding.Geocoder
	ImageHost imagehost.Host
	Images    images.Options

	MaxDepth int
	// Tope del body de /graphql; <= 0 usa DefaultMaxBodyBytes.
	MaxBodyBytes int64
}

// BuildServices arma los servicios de dominio sobre Postgres o memoria.
// Lo usan el router y el comando seed.
func BuildServices(opts Options) graph.Services {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	var (
		profileRepo profiles.Repository
		petRepo     pets.Repository
		shelterRepo shelters.Repository
		forumRepo   forum.Repository
	)

	if opts.DB != nil {
		profileRepo = pg.NewProfilesRepo(opts.DB)
		petRepo = pg.NewPetsRepo(opts.DB)
		shelterRepo = pg.NewSheltersRepo(opts.DB)
		forumRepo = pg.NewForumRepo(opts.DB)
	} else {
		store := mem.NewStore()
		profileRepo = store.Profiles()
		petRepo = store.Pets()
		shelterRepo = store.Shelters()
		forumRepo = store.Forum()
	}

	return graph.Services{
		Profiles: profiles.NewService(profileRepo),
		Pets:     pets.NewService(petRepo),
		Forum:    forum.NewService(forumRepo),
		Shelters: shelters.NewService(shelterRepo, opts.Listing, opts.Geocoder, log),
		Search:   search.NewService(opts.Listing),
		Images:   images.NewService(opts.ImageHost, opts.Images),
	}
}

func NewRouter(opts Options) http.Handler {
	return NewRouterWithServices(opts, BuildServices(opts))
}

func NewRouterWithServices(opts Options, svc graph.Services) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLog(log, opts.Metrics))
	r.Use(middleware.Recover(log))

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	resolver := graph.NewResolver(svc, opts.TokenIssuer, log)
	maxBody := opts.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}
	r.With(chimw.RequestSize(maxBody)).
		Method(http.MethodPost, "/graphql", graph.NewHandler(resolver, opts.MaxDepth))

	return r
}

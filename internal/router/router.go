package router

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "pet-adoption/docs"
	mem "pet-adoption/internal/adapters/storage/memory"
	"pet-adoption/internal/adapters/storage/photos"
	pg "pet-adoption/internal/adapters/storage/postgres"
	"pet-adoption/internal/domain/adoptions"
	"pet-adoption/internal/domain/messages"
	"pet-adoption/internal/domain/pets"
	"pet-adoption/internal/domain/users"
	"pet-adoption/internal/middleware"
	"pet-adoption/internal/platform/logger"
	"pet-adoption/internal/platform/metrics"
	"pet-adoption/internal/ports/auth"
)

type Options struct {
	Logger logger.Logger

	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)
	TokenIssuer  auth.TokenIssuer

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Requerido: fotos de mascotas y perfiles, servidas en /uploads.
	Photos *photos.DiskStore

	// Opcional; nil desactiva el límite.
	RateLimiter *middleware.RateLimiter

	// Orígenes permitidos para CORS; vacío => cualquiera.
	AllowedOrigins []string
}

// NewRouter falla si falta Options.Photos.
func NewRouter(opts Options) (http.Handler, error) {
	if opts.Photos == nil {
		return nil, errors.New("router: photo store is required")
	}
	log := opts.Logger

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Recover(log))
	r.Use(cors.Handler(corsOptions(opts.AllowedOrigins)))
	r.Use(metrics.Instrument)

	r.Use(middleware.AuthContext(opts.AuthVerifier))
	if opts.RateLimiter != nil {
		r.Use(opts.RateLimiter.Middleware)
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", metrics.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	var (
		userRepo     users.Repository
		petRepo      pets.Repository
		adoptionRepo adoptions.Repository
		messageRepo  messages.Repository
	)
	if opts.DB != nil {
		userRepo = pg.NewUsersRepo(opts.DB)
		petRepo = pg.NewPetsRepo(opts.DB)
		adoptionRepo = pg.NewAdoptionsRepo(opts.DB)
		messageRepo = pg.NewMessagesRepo(opts.DB)
	} else {
		store := mem.NewStore()
		userRepo = store.Users()
		petRepo = store.Pets()
		adoptionRepo = store.Adoptions()
		messageRepo = store.Messages()
	}

	// Fotos
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(opts.Photos.Dir()))))
	maxPhoto := opts.Photos.MaxBytes()

	// Services por módulo
	petsSvc := pets.NewService(petRepo, opts.Photos, log)
	usersSvc := users.NewService(userRepo, opts.TokenIssuer, opts.Photos).
		WithPhotoCleaner(petsSvc).
		WithLogger(log)
	adoptionsSvc := adoptions.NewService(adoptionRepo)
	messagesSvc := messages.NewService(messageRepo)

	// Rutas por módulo
	users.RegisterRoutes(r, usersSvc, log, maxPhoto)
	pets.RegisterRoutes(r, petsSvc, log, maxPhoto)
	adoptions.RegisterRoutes(r, adoptionsSvc, log)
	messages.RegisterRoutes(r, messagesSvc, log)

	return r, nil
}

func corsOptions(origins []string) cors.Options {
	allowed := make([]string, 0, len(origins))
	for _, o := range origins {
		if o = strings.TrimSpace(o); o != "" {
			allowed = append(allowed, o)
		}
	}
	if len(allowed) == 0 {
		allowed = []string{"*"}
	}
	return cors.Options{
		AllowedOrigins:   allowed,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.DebugUserHeader},
		ExposedHeaders:   []string{"Retry-After"},
		AllowCredentials: len(origins) > 0,
		MaxAge:           300,
	}
}

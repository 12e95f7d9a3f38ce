package router

import (
	"context"
	"database/sql"
	"net/http"
	"os"

	mem "pet-adoption-service/internal/adapters/storage/memory"
	pg "pet-adoption-service/internal/adapters/storage/postgres"
	"pet-adoption-service/internal/domain/applications"
	"pet-adoption-service/internal/domain/authz"
	"pet-adoption-service/internal/domain/identity"
	"pet-adoption-service/internal/domain/pets"
	"pet-adoption-service/internal/domain/shelters"
	"pet-adoption-service/internal/middleware"
	"pet-adoption-service/internal/platform/logger"
	"pet-adoption-service/internal/ports/auth"
	"pet-adoption-service/internal/ports/notify"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev, headers X-Debug-*)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Opcional: canal de notificaciones post-revisión. Nil => descarta.
	Dispatcher notify.Dispatcher

	Logger logger.Logger
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	var (
		usersRepo    identity.Repository
		sheltersRepo shelters.Repository
		petsRepo     pets.Repository
		appsRepo     applications.Repository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff).
	// Un open fallido no frena el arranque pero tiene que quedar visible:
	// arrancar sin persistencia en producción no puede ser silencioso.
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err != nil {
				log.Warn("postgres open failed, falling back to in-memory storage", map[string]any{
					"error": err.Error(),
				})
			} else {
				db = opened
			}
		}
	}

	if db != nil {
		usersRepo = pg.NewUsersRepo(db)
		sheltersRepo = pg.NewSheltersRepo(db)
		petsRepo = pg.NewPetsRepo(db)
		appsRepo = pg.NewApplicationsRepo(db)
	} else {
		usersRepo = mem.NewUsersRepo()
		sheltersRepo = mem.NewSheltersRepo()
		memPets := mem.NewPetsRepo()
		petsRepo = memPets
		// El repo de solicitudes necesita el de mascotas para el cascade.
		appsRepo = mem.NewApplicationsRepo(memPets)
	}

	// Services por módulo
	usersSvc := identity.NewService(usersRepo)
	resolver := identity.NewResolver(usersRepo)
	petsSvc := pets.NewService(petsRepo)
	sheltersSvc := shelters.NewService(sheltersRepo, usersSvc)
	appsSvc := applications.NewService(appsRepo, petsSvc, opts.Dispatcher, log)

	guard := authz.NewGuard(petsSvc, appsSvc, sheltersSvc)

	// identity no puede importar authz, así que el check de admin viaja
	// como closure. Capability solo-rol: el guard no toca ownership ni ctx.
	requireAdmin := func(ident identity.Identity) error {
		return guard.Require(context.Background(), ident, authz.Roles(identity.RoleAdmin))
	}

	// Rutas por módulo
	identity.RegisterRoutes(r, usersSvc, resolver, requireAdmin)
	shelters.RegisterRoutes(r, sheltersSvc, resolver, guard)
	pets.RegisterRoutes(r, petsSvc, resolver, guard)
	applications.RegisterRoutes(r, appsSvc, resolver, guard)

	return r
}

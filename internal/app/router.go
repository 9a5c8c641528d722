package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/providence-asso/providence/internal/auth"
	"github.com/providence-asso/providence/internal/beneficiaries"
	"github.com/providence-asso/providence/internal/cases"
	"github.com/providence-asso/providence/internal/funds"
	"github.com/providence-asso/providence/internal/masterdata"
	"github.com/providence-asso/providence/internal/meetings"
	"github.com/providence-asso/providence/internal/users"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger   *slog.Logger
	Config   *Config
	Resolver IdentityResolver

	AuthHandler          *auth.Handler
	UsersHandler         *users.Handler
	MasterDataHandler    *masterdata.Handler
	BeneficiariesHandler *beneficiaries.Handler
	MeetingsHandler      *meetings.Handler
	FundsHandler         *funds.Handler
	CasesHandler         *cases.Handler
}

// NewRouter constructs the chi.Router.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)

	r.Group(func(r chi.Router) {
		r.Use(RequireAuth(params.Resolver))

		r.Route("/users", params.UsersHandler.MountRoutes)
		r.Route("/members", params.UsersHandler.MountMemberRoutes)
		r.Route("/masterdata", params.MasterDataHandler.MountRoutes)
		r.Route("/beneficiaries", params.BeneficiariesHandler.MountRoutes)
		r.Route("/meetings", func(r chi.Router) {
			params.MeetingsHandler.MountRoutes(r)
			params.FundsHandler.MountRoutes(r)
		})
		r.Route("/cases", params.CasesHandler.MountRoutes)
	})

	return r
}

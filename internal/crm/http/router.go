package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/carisma-crm/carisma/internal/crm/metrics"
	"github.com/carisma-crm/carisma/internal/crm/service"
	"github.com/carisma-crm/carisma/internal/crm/store"
	"github.com/carisma-crm/carisma/pkg/httpx"
	"github.com/carisma-crm/carisma/pkg/jwtx"
	"github.com/carisma-crm/carisma/pkg/slogx"

	_ "github.com/carisma-crm/carisma/api/crm" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	signer       *jwtx.Signer
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	metrics      *metrics.Metrics

	store          store.Store
	AccountService *service.AccountService
	InviteService  *service.InviteService
	UserService    *service.UserService
	LeadService    *service.LeadService
	VehicleService *service.VehicleService
}

func NewRouter(
	signer *jwtx.Signer,
	buildVersion string,
	st store.Store,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		signer:       signer,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		metrics:      m,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerPublic()
	r.registerInvitations()
	r.registerUsers()
	r.registerLeads()
	r.registerVehicles()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Carisma CRM API
//	@version		0.1.0
//	@description	Multi-tenant dealership CRM: company signup, role-scoped staff management,
//	@description	invitation-based onboarding, sales leads and vehicle inventory.
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// instrument prepends per-route metrics collection; applied inside the mux
// so the matched pattern is available for the path label.
func (r *Router) instrument(h http.Handler, mws ...httpx.Middleware) http.Handler {
	if r.metrics != nil {
		mws = append([]httpx.Middleware{r.metrics.Middleware()}, mws...)
	}
	return httpx.Chain(h, mws...)
}

func (r *Router) registerPublic() {
	companies := &CompaniesHandler{AccountService: r.AccountService}
	login := &LoginHandler{AccountService: r.AccountService}
	accept := &InviteAcceptHandler{InviteService: r.InviteService}

	// Signup, login and invitation acceptance are the brute-forceable
	// public surfaces; all three get the strict per-IP profile.
	r.Mux.Handle("POST /v1/companies",
		r.instrument(http.HandlerFunc(companies.HandleRegister),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/login",
		r.instrument(login,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("GET /v1/invitations/accept/{token}",
		r.instrument(http.HandlerFunc(accept.HandleResolve),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("POST /v1/invitations/accept/{token}",
		r.instrument(http.HandlerFunc(accept.HandleAccept),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerInvitations() {
	h := &InvitationsHandler{InviteService: r.InviteService}

	r.Mux.Handle("POST /v1/invitations",
		r.instrument(http.HandlerFunc(h.HandleCreate),
			httpx.AuthnMiddleware(r.signer),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("GET /v1/invitations",
		r.instrument(http.HandlerFunc(h.HandleList),
			httpx.AuthnMiddleware(r.signer),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("DELETE /v1/invitations/{id}",
		r.instrument(http.HandlerFunc(h.HandleRevoke),
			httpx.AuthnMiddleware(r.signer),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("POST /v1/invitations/{id}/resend",
		r.instrument(http.HandlerFunc(h.HandleResend),
			httpx.AuthnMiddleware(r.signer),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerUsers() {
	me := &MeHandler{AccountService: r.AccountService}
	users := &UsersHandler{UserService: r.UserService}

	r.Mux.Handle("GET /v1/me",
		r.instrument(me,
			httpx.AuthnMiddleware(r.signer),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /v1/users",
		r.instrument(http.HandlerFunc(users.HandleList),
			httpx.AuthnMiddleware(r.signer),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("PATCH /v1/users/{id}/role",
		r.instrument(http.HandlerFunc(users.HandleUpdateRole),
			httpx.AuthnMiddleware(r.signer),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("DELETE /v1/users/{id}",
		r.instrument(http.HandlerFunc(users.HandleDelete),
			httpx.AuthnMiddleware(r.signer),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerLeads() {
	h := &LeadsHandler{LeadService: r.LeadService}

	r.Mux.Handle("GET /v1/leads",
		r.instrument(http.HandlerFunc(h.HandleList),
			httpx.AuthnMiddleware(r.signer),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /v1/leads/{id}",
		r.instrument(http.HandlerFunc(h.HandleGet),
			httpx.AuthnMiddleware(r.signer),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("POST /v1/leads",
		r.instrument(http.HandlerFunc(h.HandleCreate),
			httpx.AuthnMiddleware(r.signer),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("PUT /v1/leads/{id}",
		r.instrument(http.HandlerFunc(h.HandleUpdate),
			httpx.AuthnMiddleware(r.signer),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("DELETE /v1/leads/{id}",
		r.instrument(http.HandlerFunc(h.HandleDelete),
			httpx.AuthnMiddleware(r.signer),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerVehicles() {
	h := &VehiclesHandler{VehicleService: r.VehicleService}

	r.Mux.Handle("GET /v1/vehicles",
		r.instrument(http.HandlerFunc(h.HandleList),
			httpx.AuthnMiddleware(r.signer),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /v1/vehicles/{id}",
		r.instrument(http.HandlerFunc(h.HandleGet),
			httpx.AuthnMiddleware(r.signer),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("POST /v1/vehicles",
		r.instrument(http.HandlerFunc(h.HandleCreate),
			httpx.AuthnMiddleware(r.signer),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("PUT /v1/vehicles/{id}",
		r.instrument(http.HandlerFunc(h.HandleUpdate),
			httpx.AuthnMiddleware(r.signer),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("DELETE /v1/vehicles/{id}",
		r.instrument(http.HandlerFunc(h.HandleDelete),
			httpx.AuthnMiddleware(r.signer),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /metrics", metrics.Handler())
}

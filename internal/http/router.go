package http

import (
	"net/http"
	"sort"
	"strings"
)

// RouterConfig wires handlers into the route table. Session is the
// authentication middleware applied to every route except login, organization
// signup and invite acceptance; Middleware wraps the whole router.
type RouterConfig struct {
	Auth          *AuthHandler
	Organizations *OrganizationHandler
	Users         *UserHandler
	Clients       *ClientHandler
	Dogs          *DogHandler
	Vets          *VetHandler
	Clinics       *ClinicHandler
	BookingTypes  *BookingTypeHandler
	Bookings      *BookingHandler
	Session       func(http.Handler) http.Handler
	Middleware    []func(http.Handler) http.Handler
}

// crudHandler is the shape shared by the plain resource handlers.
type crudHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	protect := func(h http.HandlerFunc) http.Handler {
		if cfg.Session == nil {
			return h
		}
		return cfg.Session(h)
	}

	if cfg.Auth != nil {
		mux.Handle("/sessions", methodSwitch(map[string]http.Handler{
			http.MethodPost: http.HandlerFunc(cfg.Auth.CreateSession),
			http.MethodGet:  protect(cfg.Auth.ListSessions),
		}))
		mux.Handle("/sessions/current", methodSwitch(map[string]http.Handler{
			http.MethodDelete: protect(cfg.Auth.DeleteCurrentSession),
		}))
	}

	if cfg.Organizations != nil {
		mux.Handle("/organizations", methodSwitch(map[string]http.Handler{
			http.MethodPost: http.HandlerFunc(cfg.Organizations.Create),
		}))
		mux.Handle("/organizations/current", methodSwitch(map[string]http.Handler{
			http.MethodGet: protect(cfg.Organizations.GetCurrent),
			http.MethodPut: protect(cfg.Organizations.UpdateCurrent),
		}))
		mux.Handle("/invites", methodSwitch(map[string]http.Handler{
			http.MethodPost: protect(cfg.Organizations.IssueInvite),
		}))
		mux.Handle("/invites/accept", methodSwitch(map[string]http.Handler{
			http.MethodPost: http.HandlerFunc(cfg.Organizations.AcceptInvite),
		}))
	}

	if cfg.Bookings != nil {
		mux.Handle("/bookings", methodSwitch(map[string]http.Handler{
			http.MethodGet:  protect(cfg.Bookings.List),
			http.MethodPost: protect(cfg.Bookings.Create),
		}))
		mux.Handle("/bookings/week", methodSwitch(map[string]http.Handler{
			http.MethodGet: protect(cfg.Bookings.Week),
		}))
		mux.Handle("/bookings/week.ics", methodSwitch(map[string]http.Handler{
			http.MethodGet: protect(cfg.Bookings.WeekICS),
		}))
		mux.Handle("/bookings/check", methodSwitch(map[string]http.Handler{
			http.MethodPost: protect(cfg.Bookings.Check),
		}))
		registerItemRoutes(mux, "/bookings/", protect, cfg.Bookings)
	}

	if cfg.Users != nil {
		registerResource(mux, "/users", protect, cfg.Users)
	}
	if cfg.Clients != nil {
		registerResource(mux, "/clients", protect, cfg.Clients)
	}
	if cfg.Dogs != nil {
		registerResource(mux, "/dogs", protect, cfg.Dogs)
	}
	if cfg.Vets != nil {
		registerResource(mux, "/vets", protect, cfg.Vets)
	}
	if cfg.Clinics != nil {
		registerResource(mux, "/clinics", protect, cfg.Clinics)
	}
	if cfg.BookingTypes != nil {
		registerResource(mux, "/booking-types", protect, cfg.BookingTypes)
	}

	var handler http.Handler = mux
	for i := len(cfg.Middleware) - 1; i >= 0; i-- {
		if cfg.Middleware[i] != nil {
			handler = cfg.Middleware[i](handler)
		}
	}
	return handler
}

func registerResource(mux *http.ServeMux, path string, protect func(http.HandlerFunc) http.Handler, h crudHandler) {
	mux.Handle(path, methodSwitch(map[string]http.Handler{
		http.MethodGet:  protect(h.List),
		http.MethodPost: protect(h.Create),
	}))
	registerItemRoutes(mux, path+"/", protect, h)
}

func registerItemRoutes(mux *http.ServeMux, prefix string, protect func(http.HandlerFunc) http.Handler, h crudHandler) {
	item := func(handle func(http.ResponseWriter, *http.Request)) http.Handler {
		return protect(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimPrefix(r.URL.Path, prefix)
			if id == "" || strings.Contains(id, "/") {
				http.NotFound(w, r)
				return
			}
			handle(w, r.WithContext(ContextWithResourceID(r.Context(), id)))
		})
	}

	mux.Handle(prefix, methodSwitch(map[string]http.Handler{
		http.MethodGet:    item(h.Get),
		http.MethodPut:    item(h.Update),
		http.MethodDelete: item(h.Delete),
	}))
}

func methodSwitch(handlers map[string]http.Handler) http.Handler {
	allowed := make([]string, 0, len(handlers))
	for method := range handlers {
		allowed = append(allowed, method)
	}
	sort.Strings(allowed)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if handler, ok := handlers[r.Method]; ok {
			handler.ServeHTTP(w, r)
			return
		}
		methodNotAllowed(w, allowed...)
	})
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}

package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/radieske/bet-line-platform/internal/line-provider/cache"
	"github.com/radieske/bet-line-platform/internal/line-provider/dto"
	"github.com/radieske/bet-line-platform/internal/line-provider/repo"
	"github.com/radieske/bet-line-platform/internal/line-provider/service"
)

const activeCacheTTL = 5 * time.Second

// API expõe os endpoints REST de eventos do line-provider
type API struct {
	Log    *zap.Logger
	Events *service.Events
	Cache  *cache.Cache // opcional; nil desliga o cache
}

// Router retorna o roteador HTTP com os endpoints REST
func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/v1/events", a.listActive)       // eventos com deadline no futuro
	r.Get("/v1/events/past", a.listPast)    // resolve vencidos e lista
	r.Get("/v1/events/{id}", a.getEvent)    // busca por event_id
	r.Post("/v1/events", a.createEvent)     // deadline relativo em segundos
	r.Put("/v1/events/{id}", a.updateEvent) // patch parcial
	r.Delete("/v1/events/{id}", a.deleteEvent)
	return r
}

// listActive retorna os eventos ativos, preferencialmente do cache
func (a *API) listActive(w http.ResponseWriter, r *http.Request) {
	if a.Cache != nil {
		var fromCache []dto.EventResponse
		if ok, _ := a.Cache.GetActive(r.Context(), &fromCache); ok {
			writeJSON(w, http.StatusOK, fromCache)
			return
		}
	}

	events, err := a.Events.GetAllActive(r.Context(), time.Now())
	if err != nil {
		a.writeError(w, err)
		return
	}
	out := dto.FromEvents(events)
	if a.Cache != nil {
		_ = a.Cache.SetActive(r.Context(), out, activeCacheTTL)
	}
	writeJSON(w, http.StatusOK, out)
}

// listPast resolve eventos vencidos como efeito colateral da leitura
func (a *API) listPast(w http.ResponseWriter, r *http.Request) {
	events, err := a.Events.GetPast(r.Context(), time.Now())
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.FromEvents(events))
}

func (a *API) getEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	e, err := a.Events.GetByID(r.Context(), id)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.FromEvent(e))
}

func (a *API) createEvent(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad json"})
		return
	}

	created, err := a.Events.Create(r.Context(), service.NewEvent{
		EventID:     req.EventID,
		Coefficient: req.Coefficient,
		DeadlineIn:  req.Deadline,
	}, time.Now())
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.invalidateActive(r)
	writeJSON(w, http.StatusCreated, dto.FromEvent(created))
}

func (a *API) updateEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req dto.UpdateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad json"})
		return
	}

	patch := repo.EventPatch{
		Coefficient: req.Coefficient,
		Deadline:    req.Deadline,
	}
	if req.State != nil {
		st := repo.EventState(*req.State)
		if st != repo.StateNew && !st.Finished() {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown state"})
			return
		}
		patch.State = &st
	}

	updated, err := a.Events.Update(r.Context(), id, patch)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.invalidateActive(r)
	writeJSON(w, http.StatusOK, dto.FromEvent(updated))
}

func (a *API) deleteEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := a.Events.Delete(r.Context(), id); err != nil {
		a.writeError(w, err)
		return
	}
	a.invalidateActive(r)
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) invalidateActive(r *http.Request) {
	if a.Cache != nil {
		_ = a.Cache.Invalidate(r.Context())
	}
}

// writeError traduz os erros de domínio pra status HTTP
func (a *API) writeError(w http.ResponseWriter, err error) {
	var verr *service.ValidationError
	switch {
	case errors.Is(err, service.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrDuplicateEvent):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		a.Log.Error("events api", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

// writeJSON serializa a resposta em JSON e define o status HTTP
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

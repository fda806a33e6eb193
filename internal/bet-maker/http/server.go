package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/radieske/bet-line-platform/internal/bet-maker/dto"
	"github.com/radieske/bet-line-platform/internal/bet-maker/lineprovider"
	"github.com/radieske/bet-line-platform/internal/bet-maker/service"
)

// Server expõe endpoints HTTP do bet-maker
type Server struct {
	log  *zap.Logger
	bets *service.Bets
}

// NewServer instancia o servidor HTTP do bet-maker
func NewServer(log *zap.Logger, bets *service.Bets) *Server {
	return &Server{log: log, bets: bets}
}

// Router retorna o mux HTTP com as rotas da API de apostas
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/events", s.listEvents) // GET, eventos ativos via feed
	mux.HandleFunc("/bets", s.getHistory)   // GET, liquida antes de listar
	mux.HandleFunc("/bet", s.createBet)     // POST
	return mux
}

// listEvents repassa os eventos ativos do line-provider
func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	events, err := s.bets.GetActiveEvents(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if events == nil {
		events = []lineprovider.ActiveEvent{}
	}
	writeJSON(w, http.StatusOK, events)
}

// getHistory liquida apostas pendentes e retorna o histórico completo
func (s *Server) getHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	bets, err := s.bets.GetHistory(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.FromBets(bets))
}

// createBet cria uma aposta sobre um evento ativo
func (s *Server) createBet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req dto.CreateBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad json"})
		return
	}

	created, err := s.bets.CreateBet(r.Context(), service.NewBet{
		BetID:   req.BetID,
		EventID: req.EventID,
		Amount:  req.Amount,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.FromBet(created))
}

// writeError traduz os erros de domínio pra status HTTP
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrEventNotFound):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrDuplicateBet):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, lineprovider.ErrUpstreamUnavailable):
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
	default:
		s.log.Error("bets api", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

// writeJSON serializa e envia resposta JSON
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

package lineprovider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// ErrUpstreamUnavailable marca falha de rede ou resposta de erro do
// line-provider. Nunca vira lista vazia: o chamador precisa distinguir
// "sem eventos" de "feed fora do ar".
var ErrUpstreamUnavailable = errors.New("line provider unavailable")

// ActiveEvent é o evento como o feed remoto o expõe.
type ActiveEvent struct {
	EventID     string          `json:"event_id"`
	Coefficient decimal.Decimal `json:"coefficient"`
	Deadline    int64           `json:"deadline"`
	State       string          `json:"state"`
}

type resolvedEvent struct {
	EventID string `json:"event_id"`
	State   string `json:"state"`
}

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(base string) *Client {
	return &Client{
		BaseURL: base,
		HTTP:    &http.Client{Timeout: 2 * time.Second},
	}
}

// FetchActive retorna o snapshot de eventos ativos do line-provider.
func (c *Client) FetchActive(ctx context.Context) ([]ActiveEvent, error) {
	var out []ActiveEvent
	if err := c.getJSON(ctx, "/v1/events", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FetchResolved retorna event_id -> estado terminal dos eventos passados.
// Entradas ainda em NEW são descartadas; só estado terminal liquida aposta.
func (c *Client) FetchResolved(ctx context.Context) (map[string]string, error) {
	var events []resolvedEvent
	if err := c.getJSON(ctx, "/v1/events/past", &events); err != nil {
		return nil, err
	}
	resolved := make(map[string]string, len(events))
	for _, e := range events {
		if e.State == "NEW" {
			continue
		}
		resolved[e.EventID] = e.State
	}
	return resolved, nil
}

func (c *Client) getJSON(ctx context.Context, path string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		return fmt.Errorf("%w: http %d on %s", ErrUpstreamUnavailable, res.StatusCode, path)
	}
	if err := json.NewDecoder(res.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrUpstreamUnavailable, err)
	}
	return nil
}

package pricing

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	return New(server.URL, logger)
}

func TestPrices(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("title") != "" {
			w.Write([]byte(`[{"gameID": "612", "cheapest": "14.99"}]`))
			return
		}
		if r.URL.Query().Get("id") != "612" {
			t.Errorf("expected lookup of gameID 612, got %q", r.URL.Query().Get("id"))
		}
		w.Write([]byte(`{"deals": [
			{"storeID": "1", "price": "19.99"},
			{"storeID": "7", "price": "14.99"},
			{"storeID": "25", "price": "17.49"}
		]}`))
	})

	prices := client.Prices(context.Background(), "Hades")
	if prices == nil {
		t.Fatal("expected prices")
	}
	if prices["Steam"] != "19.99" {
		t.Errorf("expected Steam price 19.99, got %q", prices["Steam"])
	}
	if prices["Best Deal"] != "14.99" {
		t.Errorf("expected best deal 14.99, got %q", prices["Best Deal"])
	}
}

func TestPrices_MalformedDealPrices(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("title") != "" {
			w.Write([]byte(`[{"gameID": "612", "cheapest": "n/a"}]`))
			return
		}
		w.Write([]byte(`{"deals": [
			{"storeID": "7", "price": "not a number"},
			{"storeID": "25", "price": "17.49"}
		]}`))
	})

	prices := client.Prices(context.Background(), "Hades")
	if prices == nil {
		t.Fatal("expected prices")
	}
	if prices["Best Deal"] != "17.49" {
		t.Errorf("malformed deal must not win best deal, got %q", prices["Best Deal"])
	}
	if _, ok := prices["Steam"]; ok {
		t.Errorf("no Steam deal was offered, got %q", prices["Steam"])
	}
}

func TestPrices_AllDealsMalformed(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("title") != "" {
			w.Write([]byte(`[{"gameID": "612", "cheapest": ""}]`))
			return
		}
		w.Write([]byte(`{"deals": [{"storeID": "1", "price": "free??"}]}`))
	})

	if prices := client.Prices(context.Background(), "Hades"); prices != nil {
		t.Errorf("expected nil prices when no deal parses, got %v", prices)
	}
}

func TestPrices_NoMatch(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	if prices := client.Prices(context.Background(), "Totally Unknown Game"); prices != nil {
		t.Errorf("expected nil prices, got %v", prices)
	}
}

func TestPrices_ServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	if prices := client.Prices(context.Background(), "Hades"); prices != nil {
		t.Errorf("expected nil prices on server error, got %v", prices)
	}
}

func TestPrices_Timeout(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(5 * time.Second)
	})
	client.http.Timeout = 50 * time.Millisecond

	if prices := client.Prices(context.Background(), "Hades"); prices != nil {
		t.Errorf("expected nil prices on timeout, got %v", prices)
	}
}

package rentals_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/Mark0025/peterental/internal/backend"
	"github.com/Mark0025/peterental/internal/rentals"
	"github.com/Mark0025/peterental/pkg/pagination"
)

type fakeBackend struct {
	mu      sync.Mutex
	rentals map[string]rentals.Rental
	order   []string
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := strings.TrimPrefix(strings.TrimPrefix(r.URL.Path, "/api/rentals"), "/")

	switch {
	case r.Method == http.MethodGet && id == "":
		list := make([]rentals.Rental, 0, len(f.order))
		for _, k := range f.order {
			list = append(list, f.rentals[k])
		}
		json.NewEncoder(w).Encode(list)
	case r.Method == http.MethodGet:
		rental, ok := f.rentals[id]
		if !ok {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(rental)
	case r.Method == http.MethodPost:
		var rental rentals.Rental
		json.NewDecoder(r.Body).Decode(&rental)
		rental.ID = "r" + string(rune('0'+len(f.order)+1))
		f.rentals[rental.ID] = rental
		f.order = append(f.order, rental.ID)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(rental)
	case r.Method == http.MethodPatch:
		rental, ok := f.rentals[id]
		if !ok {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		json.NewDecoder(r.Body).Decode(&rental)
		f.rentals[id] = rental
		json.NewEncoder(w).Encode(rental)
	case r.Method == http.MethodDelete:
		delete(f.rentals, id)
		w.WriteHeader(http.StatusNoContent)
	}
}

func setup(t *testing.T) (rentals.System, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(&fakeBackend{rentals: map[string]rentals.Rental{}})
	t.Cleanup(srv.Close)

	cfg := &backend.Config{BaseURL: srv.URL}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize() failed: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return rentals.New(backend.New(cfg, logger), logger), srv
}

func page(size int) pagination.PageRequest {
	p := pagination.PageRequest{PageSize: size}
	p.Normalize(pagination.Config{DefaultPageSize: 20, MaxPageSize: 100})
	return p
}

func TestSystem_CRUD(t *testing.T) {
	sys, _ := setup(t)
	ctx := context.Background()

	created, err := sys.Create(ctx, rentals.CreateCommand{Address: "12 Oak St", Price: 1500, Bedrooms: 2})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if created.ID == "" {
		t.Fatal("Create() returned empty id")
	}

	price := 1400.0
	updated, err := sys.Update(ctx, created.ID, rentals.UpdateCommand{Price: &price})
	if err != nil {
		t.Fatalf("Update() failed: %v", err)
	}
	if updated.Price != 1400 || updated.Address != "12 Oak St" {
		t.Errorf("Update() = %+v", updated)
	}

	found, err := sys.Find(ctx, created.ID)
	if err != nil {
		t.Fatalf("Find() failed: %v", err)
	}
	if found.Price != 1400 {
		t.Errorf("Find().Price = %v", found.Price)
	}

	if err := sys.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}

	_, err = sys.Find(ctx, created.ID)
	if rentals.MapHTTPStatus(err) != http.StatusNotFound {
		t.Errorf("Find() after delete status = %d, want 404 (err %v)", rentals.MapHTTPStatus(err), err)
	}
}

func TestSystem_ListFiltersAndPages(t *testing.T) {
	sys, _ := setup(t)
	ctx := context.Background()

	for _, c := range []rentals.CreateCommand{
		{Address: "1 Oak St", Price: 1000},
		{Address: "2 Pine Ave", Price: 2000},
		{Address: "3 Oak Ct", Price: 3000},
	} {
		if _, err := sys.Create(ctx, c); err != nil {
			t.Fatalf("Create() failed: %v", err)
		}
	}

	result, err := sys.List(ctx, page(1), rentals.Filters{Search: "oak"})
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if result.Total != 2 || len(result.Data) != 1 || result.TotalPages != 2 {
		t.Errorf("List() = total %d, len %d, pages %d", result.Total, len(result.Data), result.TotalPages)
	}

	maxPrice := 2500.0
	result, err = sys.List(ctx, page(10), rentals.Filters{MaxPrice: &maxPrice})
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if result.Total != 2 {
		t.Errorf("List(max_price) total = %d, want 2", result.Total)
	}
}

func TestSystem_Validation(t *testing.T) {
	sys, _ := setup(t)

	_, err := sys.Create(context.Background(), rentals.CreateCommand{Price: 100})
	if !errors.Is(err, rentals.ErrInvalid) {
		t.Errorf("Create() error = %v, want ErrInvalid", err)
	}

	neg := -1.0
	_, err = sys.Update(context.Background(), "r1", rentals.UpdateCommand{Price: &neg})
	if !errors.Is(err, rentals.ErrInvalid) {
		t.Errorf("Update() error = %v, want ErrInvalid", err)
	}
}

func TestHandler_Routes(t *testing.T) {
	sys, _ := setup(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := rentals.NewHandler(sys, logger, pagination.Config{DefaultPageSize: 20, MaxPageSize: 100})

	mux := http.NewServeMux()
	for _, route := range h.Routes().Routes {
		mux.HandleFunc(route.Method+" /rentals"+route.Pattern, route.Handler)
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/rentals", strings.NewReader(`{"address":"9 Elm","price":900}`)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/rentals", strings.NewReader(`{"price":900}`)))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("POST without address status = %d, want 400", rec.Code)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rentals?search=elm", nil))
	var result pagination.PageResult[rentals.Rental]
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Total != 1 || result.Data[0].Address != "9 Elm" {
		t.Errorf("GET result = %+v", result)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rentals/missing", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("GET missing status = %d, want 404", rec.Code)
	}
}

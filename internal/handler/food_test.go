package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/plateshare/plateshare/internal/model"
	"github.com/plateshare/plateshare/internal/repository"
)

type fakeFoodStore struct {
	docs       map[string]model.Document
	lastFilter model.Document
	failWith   error
	deleted    map[string]bool
	modified   map[string]bool
}

func newFakeFoodStore() *fakeFoodStore {
	return &fakeFoodStore{
		docs:     make(map[string]model.Document),
		deleted:  make(map[string]bool),
		modified: make(map[string]bool),
	}
}

func (f *fakeFoodStore) add(id string, doc model.Document) {
	doc["_id"] = id
	f.docs[id] = doc
}

func (f *fakeFoodStore) checkID(id string) error {
	if len(id) != 24 {
		return repository.ErrInvalidID
	}
	return nil
}

func (f *fakeFoodStore) all() []model.Document {
	out := []model.Document{}
	for _, d := range f.docs {
		out = append(out, d)
	}
	return out
}

func quantity(d model.Document) float64 {
	switch v := d[model.FieldFoodQuantity].(type) {
	case int:
		return float64(v)
	case float64:
		return v
	default:
		return 0
	}
}

func (f *fakeFoodStore) ListFoods(ctx context.Context, filter model.Document) ([]model.Document, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	f.lastFilter = filter

	out := []model.Document{}
	for _, d := range f.docs {
		match := true
		for k, v := range filter {
			if d[k] != v {
				match = false
				break
			}
		}
		if match {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeFoodStore) FeaturedFoods(ctx context.Context, limit int64) ([]model.Document, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}

	out := []model.Document{}
	for _, d := range f.docs {
		if d[model.FieldFoodStatus] == model.StatusAvailable {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return quantity(out[i]) > quantity(out[j]) })
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeFoodStore) AvailableFoods(ctx context.Context) ([]model.Document, error) {
	return f.ListFoods(ctx, model.Document{model.FieldFoodStatus: model.StatusAvailable})
}

func (f *fakeFoodStore) GetFood(ctx context.Context, id string) (model.Document, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	if err := f.checkID(id); err != nil {
		return nil, err
	}
	return f.docs[id], nil
}

func (f *fakeFoodStore) InsertFood(ctx context.Context, doc model.Document) (string, error) {
	if f.failWith != nil {
		return "", f.failWith
	}
	id := "66b1f0a2e3c4d5f6a7b8c9d1"
	f.add(id, doc)
	return id, nil
}

func (f *fakeFoodStore) UpdateFood(ctx context.Context, id string, fields model.Document) (int64, error) {
	if f.failWith != nil {
		return 0, f.failWith
	}
	if err := f.checkID(id); err != nil {
		return 0, err
	}
	doc, ok := f.docs[id]
	if !ok {
		return 0, nil
	}
	for k, v := range fields {
		doc[k] = v
	}
	f.modified[id] = true
	return 1, nil
}

func (f *fakeFoodStore) DeleteFood(ctx context.Context, id string) (int64, error) {
	if f.failWith != nil {
		return 0, f.failWith
	}
	if err := f.checkID(id); err != nil {
		return 0, err
	}
	if _, ok := f.docs[id]; !ok {
		return 0, nil
	}
	delete(f.docs, id)
	f.deleted[id] = true
	return 1, nil
}

func foodRouter(store *fakeFoodStore) *chi.Mux {
	h := NewFoodHandler(store, testLogger())
	r := chi.NewRouter()
	r.Get("/featured-foods", h.Featured)
	r.Get("/foods", h.List)
	r.Get("/foods/availables", h.Available)
	r.Get("/foods/{id}", h.Get)
	r.Post("/foods", h.Create)
	r.Patch("/foods/{id}", h.Update)
	r.Patch("/foods/status/{id}", h.UpdateStatus)
	r.Delete("/foods/{id}", h.Delete)
	return r
}

func doRequest(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

const (
	foodID    = "66b1f0a2e3c4d5f6a7b8c9aa"
	missingID = "66b1f0a2e3c4d5f6a7b8c9ff"
)

func TestFoodHandler_Featured_OrderAndCap(t *testing.T) {
	store := newFakeFoodStore()
	store.add("66b1f0a2e3c4d5f6a7b8c901", model.Document{"food_quantity": 10, "food_status": "Available"})
	store.add("66b1f0a2e3c4d5f6a7b8c902", model.Document{"food_quantity": 20, "food_status": "Available"})
	store.add("66b1f0a2e3c4d5f6a7b8c903", model.Document{"food_quantity": 99, "food_status": "Donated"})

	rec := doRequest(t, foodRouter(store), http.MethodGet, "/featured-foods", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var foods []model.Document
	if err := json.NewDecoder(rec.Body).Decode(&foods); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(foods) != 2 {
		t.Fatalf("expected 2 available foods, got %d", len(foods))
	}
	if quantity(foods[0]) != 20 || quantity(foods[1]) != 10 {
		t.Errorf("expected quantities [20 10], got [%v %v]", quantity(foods[0]), quantity(foods[1]))
	}
	for _, f := range foods {
		if f["food_status"] != "Available" {
			t.Errorf("unexpected status %v in featured foods", f["food_status"])
		}
	}
}

func TestFoodHandler_Featured_NeverMoreThanSix(t *testing.T) {
	store := newFakeFoodStore()
	for i := 0; i < 10; i++ {
		store.add("66b1f0a2e3c4d5f6a7b8c9"+string(rune('a'+i))+"0",
			model.Document{"food_quantity": i, "food_status": "Available"})
	}

	rec := doRequest(t, foodRouter(store), http.MethodGet, "/featured-foods", "")

	var foods []model.Document
	if err := json.NewDecoder(rec.Body).Decode(&foods); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(foods) > 6 {
		t.Errorf("expected at most 6 featured foods, got %d", len(foods))
	}
}

func TestFoodHandler_List_DonorFilter(t *testing.T) {
	store := newFakeFoodStore()
	store.add(foodID, model.Document{"donor_email": "donor@example.com"})
	store.add(missingID, model.Document{"donor_email": "other@example.com"})

	rec := doRequest(t, foodRouter(store), http.MethodGet, "/foods?email=donor@example.com", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if store.lastFilter[model.FieldDonorEmail] != "donor@example.com" {
		t.Errorf("expected donor_email filter, got %v", store.lastFilter)
	}

	var foods []model.Document
	if err := json.NewDecoder(rec.Body).Decode(&foods); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(foods) != 1 {
		t.Errorf("expected 1 food, got %d", len(foods))
	}
}

func TestFoodHandler_List_NoFilterReturnsAll(t *testing.T) {
	store := newFakeFoodStore()
	store.add(foodID, model.Document{"donor_email": "donor@example.com"})
	store.add(missingID, model.Document{"donor_email": "other@example.com"})

	rec := doRequest(t, foodRouter(store), http.MethodGet, "/foods", "")

	var foods []model.Document
	if err := json.NewDecoder(rec.Body).Decode(&foods); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(foods) != 2 {
		t.Errorf("expected 2 foods, got %d", len(foods))
	}
}

func TestFoodHandler_List_EmptyIsArray(t *testing.T) {
	rec := doRequest(t, foodRouter(newFakeFoodStore()), http.MethodGet, "/foods", "")

	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("expected empty array body, got %q", body)
	}
}

func TestFoodHandler_Get_Found(t *testing.T) {
	store := newFakeFoodStore()
	store.add(foodID, model.Document{"food_name": "Rice"})

	rec := doRequest(t, foodRouter(store), http.MethodGet, "/foods/"+foodID, "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["food_name"] != "Rice" {
		t.Errorf("expected food document, got %v", body)
	}
}

func TestFoodHandler_Get_MissingIsNull(t *testing.T) {
	rec := doRequest(t, foodRouter(newFakeFoodStore()), http.MethodGet, "/foods/"+missingID, "")

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "null" {
		t.Errorf("expected null body, got %q", body)
	}
}

func TestFoodHandler_Get_InvalidID(t *testing.T) {
	rec := doRequest(t, foodRouter(newFakeFoodStore()), http.MethodGet, "/foods/not-an-id", "")

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
}

func TestFoodHandler_CreateThenGet_RoundTrip(t *testing.T) {
	store := newFakeFoodStore()
	r := foodRouter(store)

	rec := doRequest(t, r, http.MethodPost, "/foods",
		`{"food_name":"Lentils","food_quantity":5,"food_status":"Available","donor_email":"d@e.com"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	id, ok := decodeBody(t, rec)["insertedId"].(string)
	if !ok || id == "" {
		t.Fatal("expected insertedId in response")
	}

	rec = doRequest(t, r, http.MethodGet, "/foods/"+id, "")
	body := decodeBody(t, rec)
	if body["food_name"] != "Lentils" || body["donor_email"] != "d@e.com" {
		t.Errorf("expected inserted payload back, got %v", body)
	}
	if body["_id"] != id {
		t.Errorf("expected server-assigned id %s, got %v", id, body["_id"])
	}
}

func TestFoodHandler_Update_Modified(t *testing.T) {
	store := newFakeFoodStore()
	store.add(foodID, model.Document{"food_name": "Rice"})

	rec := doRequest(t, foodRouter(store), http.MethodPatch, "/foods/"+foodID, `{"food_name":"Brown Rice"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["success"] != true {
		t.Errorf("expected success true, got %v", body["success"])
	}
	if body["message"] != "Food updated successfully" {
		t.Errorf("unexpected message %v", body["message"])
	}
}

func TestFoodHandler_Update_UnknownID(t *testing.T) {
	store := newFakeFoodStore()
	store.add(foodID, model.Document{"food_name": "Rice"})

	rec := doRequest(t, foodRouter(store), http.MethodPatch, "/foods/"+missingID, `{"food_name":"X"}`)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["success"] != false {
		t.Errorf("expected success false, got %v", body["success"])
	}

	// Collection untouched
	if store.docs[foodID]["food_name"] != "Rice" {
		t.Error("expected existing document unchanged")
	}
	if len(store.docs) != 1 {
		t.Errorf("expected 1 document, got %d", len(store.docs))
	}
}

func TestFoodHandler_UpdateStatus_OnlyTouchesStatus(t *testing.T) {
	store := newFakeFoodStore()
	store.add(foodID, model.Document{"food_name": "Rice", "food_status": "Available"})

	rec := doRequest(t, foodRouter(store), http.MethodPatch, "/foods/status/"+foodID,
		`{"food_status":"Donated","food_name":"Hijacked"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["message"] != "Food status updated" {
		t.Errorf("unexpected message %v", body["message"])
	}

	doc := store.docs[foodID]
	if doc["food_status"] != "Donated" {
		t.Errorf("expected status Donated, got %v", doc["food_status"])
	}
	if doc["food_name"] != "Rice" {
		t.Errorf("expected other fields untouched, got %v", doc["food_name"])
	}
}

func TestFoodHandler_UpdateStatus_UnknownID(t *testing.T) {
	rec := doRequest(t, foodRouter(newFakeFoodStore()), http.MethodPatch, "/foods/status/"+missingID,
		`{"food_status":"Donated"}`)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["message"] != "Food not found" {
		t.Errorf("unexpected message %v", body["message"])
	}
}

func TestFoodHandler_Delete(t *testing.T) {
	store := newFakeFoodStore()
	store.add(foodID, model.Document{"food_name": "Rice"})

	rec := doRequest(t, foodRouter(store), http.MethodDelete, "/foods/"+foodID, "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["deletedCount"] != float64(1) {
		t.Errorf("expected deletedCount 1, got %v", body["deletedCount"])
	}

	// Missing ID is still a 200, count zero
	rec = doRequest(t, foodRouter(store), http.MethodDelete, "/foods/"+foodID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["deletedCount"] != float64(0) {
		t.Errorf("expected deletedCount 0, got %v", body["deletedCount"])
	}
}

func TestFoodHandler_StoreFailure(t *testing.T) {
	store := newFakeFoodStore()
	store.failWith = errors.New("connection reset")

	rec := doRequest(t, foodRouter(store), http.MethodGet, "/foods", "")

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["message"] != "Internal Server Error" {
		t.Errorf("expected generic message, got %v", body["message"])
	}
}

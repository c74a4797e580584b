package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"lzsim/model"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("建库失败: %v", err)
	}
	return NewServer(":0", store, NewHub())
}

func doJSON(t *testing.T, s *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func TestServer_HeatScheduleRoundtrip(t *testing.T) {
	s := newTestServer(t)
	heats := []model.Heat{
		{Id: 101, Name: "H101", NetWeightKg: 20000, SteelGradeId: "304", Status: model.HeatStatusCasting},
		{Id: 102, Name: "H102", NetWeightKg: 20000, SteelGradeId: "S235", Status: model.HeatStatusNew},
	}
	if w := doJSON(t, s, http.MethodPost, "/api/heatschedule", heats); w.Code != http.StatusOK {
		t.Fatalf("POST 失败: %d %s", w.Code, w.Body.String())
	}
	w := doJSON(t, s, http.MethodGet, "/api/heatschedule", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET 失败: %d", w.Code)
	}
	var got []model.Heat
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Id != 101 || got[0].Status != model.HeatStatusCasting {
		t.Fatalf("炉次表内容错误: %+v", got)
	}
	// POST 整表替换
	if w := doJSON(t, s, http.MethodPost, "/api/heatschedule", heats[:1]); w.Code != http.StatusOK {
		t.Fatalf("替换失败: %d", w.Code)
	}
	w = doJSON(t, s, http.MethodGet, "/api/heatschedule", nil)
	json.Unmarshal(w.Body.Bytes(), &got)
	if len(got) != 1 {
		t.Fatalf("替换后应只剩一条: %d", len(got))
	}
}

func TestServer_CutScheduleAndProductsIsolated(t *testing.T) {
	s := newTestServer(t)
	cuts := []model.Product{{ProductId: "X-01", LengthAimMeters: 5, Planned: true}}
	products := []model.Product{
		{ProductId: "X-01", CutLengthMeters: 5.02},
		{ProductId: "X-02", CutLengthMeters: 4.98},
	}
	doJSON(t, s, http.MethodPost, "/api/cutschedule", cuts)
	doJSON(t, s, http.MethodPost, "/api/products", products)

	var got []model.Product
	w := doJSON(t, s, http.MethodGet, "/api/cutschedule", nil)
	json.Unmarshal(w.Body.Bytes(), &got)
	if len(got) != 1 || got[0].ProductId != "X-01" || !got[0].Planned {
		t.Fatalf("切割计划内容错误: %+v", got)
	}
	w = doJSON(t, s, http.MethodGet, "/api/products", nil)
	json.Unmarshal(w.Body.Bytes(), &got)
	if len(got) != 2 || got[1].CutLengthMeters != 4.98 {
		t.Fatalf("成品表内容错误: %+v", got)
	}
}

func TestServer_BadBody(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/products", bytes.NewBufferString("not json"))
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("坏请求体应返回 400: %d", w.Code)
	}
}

func TestServer_EmptyLists(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{"/api/heatschedule", "/api/cutschedule", "/api/products"} {
		w := doJSON(t, s, http.MethodGet, path, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("GET %s 失败: %d", path, w.Code)
		}
	}
}

package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/IdreesAbuEtewy/IntelliGlass-Smart-Solar-Window-System/internal/models"
)

func TestPredictionClient_Predict_HappyPath(t *testing.T) {
	var gotReq models.PredictionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/predict" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		_ = json.NewEncoder(w).Encode(models.PredictionResult{
			Confidence: models.ConfidenceHigh,
			Method:     models.MethodMLService,
		})
	}))
	defer srv.Close()

	c := NewPredictionClient(srv.URL, time.Second)
	res, err := c.Predict(context.Background(), models.PredictionRequest{DeviceID: "dev-1", Date: monday})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res == nil || res.Confidence != models.ConfidenceHigh {
		t.Fatalf("unexpected result: %+v", res)
	}
	if gotReq.DeviceID != "dev-1" {
		t.Fatalf("request not forwarded: %+v", gotReq)
	}
}

func TestPredictionClient_Predict_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model retraining", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewPredictionClient(srv.URL, time.Second)
	if _, err := c.Predict(context.Background(), models.PredictionRequest{}); err == nil {
		t.Fatalf("expected error on 503")
	}
}

func TestPredictionClient_Predict_Timeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	c := NewPredictionClient(srv.URL, 50*time.Millisecond)
	if _, err := c.Predict(context.Background(), models.PredictionRequest{}); err == nil {
		t.Fatalf("expected timeout error")
	}
}

func TestPredictionClient_Predict_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := NewPredictionClient(srv.URL, time.Second)
	if _, err := c.Predict(context.Background(), models.PredictionRequest{}); err == nil {
		t.Fatalf("expected decode error")
	}
}

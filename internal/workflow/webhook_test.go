package workflow

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"gorm.io/datatypes"

	"github.com/grandparser/backend/internal/config"
)

func TestWebhookInvokerSuccess(t *testing.T) {
	var gotAuth string
	var gotPayload Payload

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotPayload); err != nil {
			t.Errorf("bad payload: %v", err)
		}
		confidence := 0.93
		json.NewEncoder(w).Encode(Outcome{
			Success:          true,
			ExtractedJSON:    datatypes.JSON(`{"total":42}`),
			GeneratedMessage: "done",
			Confidence:       &confidence,
		})
	}))
	defer srv.Close()

	inv := NewWebhookInvoker(config.WorkflowConfig{URL: srv.URL, Secret: "s3cret"})
	out, err := inv.Invoke(context.Background(), Payload{
		DocumentID: "doc-1",
		FilePath:   "u/1.pdf",
		Filename:   "invoice.pdf",
		TemplateID: "tpl-1",
	})
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}

	if gotAuth != "Bearer s3cret" {
		t.Errorf("auth header = %q, want bearer secret", gotAuth)
	}
	if gotPayload.DocumentID != "doc-1" || gotPayload.TemplateID != "tpl-1" {
		t.Errorf("payload mismatch: %+v", gotPayload)
	}
	if !out.Success || out.Confidence == nil || *out.Confidence != 0.93 {
		t.Errorf("outcome mismatch: %+v", out)
	}
	if out.Mock {
		t.Error("webhook outcome must not be marked mock")
	}
}

func TestWebhookInvokerFailureVerdict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Outcome{Success: false, Error: "unreadable scan"})
	}))
	defer srv.Close()

	inv := NewWebhookInvoker(config.WorkflowConfig{URL: srv.URL})
	out, err := inv.Invoke(context.Background(), Payload{DocumentID: "doc-1"})
	if err != nil {
		t.Fatalf("transport should succeed: %v", err)
	}
	if out.Success {
		t.Error("expected failure verdict")
	}
	if out.Error != "unreadable scan" {
		t.Errorf("error = %q", out.Error)
	}
}

func TestWebhookInvokerBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	inv := NewWebhookInvoker(config.WorkflowConfig{URL: srv.URL})
	if _, err := inv.Invoke(context.Background(), Payload{}); err == nil {
		t.Fatal("expected error on 502")
	}
}

func TestWebhookInvokerNotConfigured(t *testing.T) {
	inv := NewWebhookInvoker(config.WorkflowConfig{})
	if inv.Configured() {
		t.Error("empty URL should not report configured")
	}
	if _, err := inv.Invoke(context.Background(), Payload{}); err != ErrNotConfigured {
		t.Errorf("err = %v, want ErrNotConfigured", err)
	}
}

func TestTestInvoker(t *testing.T) {
	inv := NewTestInvoker()
	out, err := inv.Invoke(context.Background(), Payload{
		Filename:   "invoice.pdf",
		TemplateID: "tpl-1",
	})
	if err != nil {
		t.Fatalf("test invoker must never fail: %v", err)
	}

	if !out.Success || !out.Mock {
		t.Errorf("expected successful mock outcome: %+v", out)
	}
	if out.Confidence == nil || *out.Confidence != 1.0 {
		t.Error("mock confidence must be 1.0")
	}
	if out.TemplateID != "tpl-1" {
		t.Errorf("template id not echoed: %q", out.TemplateID)
	}

	var extracted map[string]interface{}
	if err := json.Unmarshal(out.ExtractedJSON, &extracted); err != nil {
		t.Fatalf("extracted_json not valid JSON: %v", err)
	}
	if extracted["test"] != true {
		t.Errorf("extracted_json missing test marker: %v", extracted)
	}
	if extracted["filename"] != "invoice.pdf" {
		t.Errorf("extracted_json missing filename: %v", extracted)
	}
}

package handlers_test

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/callvault/pkg/handlers"
)

func TestRespondJSON(t *testing.T) {
	tests := []struct {
		name   string
		status int
		data   any
	}{
		{"200 with map", http.StatusOK, map[string]string{"key": "value"}},
		{"202 with struct", http.StatusAccepted, struct{ ID int }{ID: 42}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handlers.RespondJSON(rec, tt.status, tt.data)

			res := rec.Result()
			defer res.Body.Close()

			if res.StatusCode != tt.status {
				t.Errorf("status: got %d, want %d", res.StatusCode, tt.status)
			}
			if ct := res.Header.Get("Content-Type"); ct != "application/json" {
				t.Errorf("content-type: got %s", ct)
			}

			body, _ := io.ReadAll(res.Body)
			var parsed map[string]any
			if err := json.Unmarshal(body, &parsed); err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
		})
	}
}

func TestRespondError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rec := httptest.NewRecorder()

	handlers.RespondError(rec, logger, http.StatusNotFound, errors.New("recording not found"))

	res := rec.Result()
	defer res.Body.Close()

	if res.StatusCode != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", res.StatusCode)
	}

	var parsed map[string]string
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if parsed["error"] != "recording not found" {
		t.Errorf("error: got %s", parsed["error"])
	}
}

type lookup struct {
	Tenant   string `json:"opco" validate:"required,oneof=CMP NYSEG RGE"`
	FileName string `json:"file_name" validate:"required"`
	Limit    int    `json:"limit,omitempty" validate:"omitempty,min=1,max=50"`
}

func decode(body string, limit int64) (lookup, error) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	return handlers.DecodeJSON[lookup](httptest.NewRecorder(), req, limit)
}

func TestDecodeJSON(t *testing.T) {
	got, err := decode(`{"opco":"CMP","file_name":"a.wav","limit":5}`, 1024)
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if got.Tenant != "CMP" || got.FileName != "a.wav" || got.Limit != 5 {
		t.Errorf("decoded = %+v", got)
	}
}

func TestDecodeJSONErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		limit   int64
		want    error
		status  int
		message string
	}{
		{"empty body", ``, 0, handlers.ErrInvalidBody, http.StatusBadRequest, "empty body"},
		{"malformed", `{"opco":`, 0, handlers.ErrInvalidBody, http.StatusBadRequest, ""},
		{"unknown field", `{"opco":"CMP","file_name":"a","extra":1}`, 0, handlers.ErrInvalidBody, http.StatusBadRequest, "extra"},
		{"trailing data", `{"opco":"CMP","file_name":"a"} {}`, 0, handlers.ErrInvalidBody, http.StatusBadRequest, "trailing"},
		{"missing required", `{"opco":"CMP"}`, 0, handlers.ErrInvalidRequest, http.StatusBadRequest, "file_name"},
		{"oneof", `{"opco":"ACME","file_name":"a"}`, 0, handlers.ErrInvalidRequest, http.StatusBadRequest, "opco"},
		{"too large", `{"opco":"CMP","file_name":"` + strings.Repeat("a", 256) + `"}`, 64, handlers.ErrBodyTooLarge, http.StatusRequestEntityTooLarge, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decode(tt.body, tt.limit)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if got := handlers.MapHTTPStatus(err); got != tt.status {
				t.Errorf("MapHTTPStatus = %d, want %d", got, tt.status)
			}
			if tt.message != "" && !strings.Contains(err.Error(), tt.message) {
				t.Errorf("error %q does not mention %q", err, tt.message)
			}
		})
	}
}

func TestDecodeJSONSlice(t *testing.T) {
	decodeList := func(body string) ([]lookup, error) {
		req := httptest.NewRequest("POST", "/", strings.NewReader(body))
		return handlers.DecodeJSON[[]lookup](httptest.NewRecorder(), req, 0)
	}

	got, err := decodeList(`[{"opco":"CMP","file_name":"a.wav"},{"opco":"RGE","file_name":"b.wav"}]`)
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if len(got) != 2 || got[1].Tenant != "RGE" {
		t.Errorf("decoded = %+v", got)
	}

	_, err = decodeList(`[{"opco":"CMP","file_name":"a.wav"},{"opco":"CMP"}]`)
	if !errors.Is(err, handlers.ErrInvalidRequest) {
		t.Errorf("err = %v, want ErrInvalidRequest", err)
	}
}

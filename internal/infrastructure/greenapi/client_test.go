package greenapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lats/backend/internal/domain/shared"
	"github.com/lats/backend/internal/domain/whatsapp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func testInstance(t *testing.T, host string) *whatsapp.Instance {
	t.Helper()
	inst, err := whatsapp.NewInstance(uuid.New(), "Front desk", "1101000001", "secret-token", "255712345678", host)
	require.NoError(t, err)
	return inst
}

func TestClient_GetState(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/waInstance1101000001/getStateInstance/secret-token", r.URL.Path)
		_, _ = w.Write([]byte(`{"stateInstance":"authorized"}`))
	}))
	defer srv.Close()

	state, err := NewClient(time.Second).GetState(context.Background(), testInstance(t, srv.URL))
	require.NoError(t, err)
	assert.Equal(t, "authorized", state)
}

func TestClient_SendMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/waInstance1101000001/sendMessage/secret-token", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body sendRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, sendRequest{ChatID: "255712345678@c.us", Message: "Asante!"}, body)
		_, _ = w.Write([]byte(`{"idMessage":"BAE5F4886F6F2D05"}`))
	}))
	defer srv.Close()

	id, err := NewClient(time.Second).SendMessage(context.Background(), testInstance(t, srv.URL), "255712345678@c.us", "Asante!")
	require.NoError(t, err)
	assert.Equal(t, "BAE5F4886F6F2D05", id)
}

func TestClient_SendMessage_MissingID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := NewClient(time.Second).SendMessage(context.Background(), testInstance(t, srv.URL), "x@c.us", "hi")
	assert.ErrorIs(t, err, shared.ErrProviderUnavailable)
}

func TestClient_QR(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/waInstance1101000001/qr/secret-token", r.URL.Path)
		_, _ = w.Write([]byte(`{"type":"qrCode","message":"iVBORw0KGgo="}`))
	}))
	defer srv.Close()

	qr, err := NewClient(time.Second).QR(context.Background(), testInstance(t, srv.URL))
	require.NoError(t, err)
	assert.Equal(t, &whatsapp.QRCode{Type: "qrCode", Message: "iVBORw0KGgo="}, qr)
}

func TestClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"rate limited", http.StatusTooManyRequests, shared.ErrRateLimited},
		{"server error", http.StatusBadGateway, shared.ErrProviderUnavailable},
		{"bad credentials", http.StatusUnauthorized, shared.ErrUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tt.status)
			}))
			defer srv.Close()

			_, err := NewClient(time.Second).GetState(context.Background(), testInstance(t, srv.URL))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestClient_BadRequestIsRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"chatId invalid"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := NewClient(time.Second).SendMessage(context.Background(), testInstance(t, srv.URL), "bad", "hi")
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "PROVIDER_REJECTED", de.Code)
	assert.Contains(t, err.Error(), "chatId invalid")
}

func TestClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	core, logs := observer.New(zapcore.WarnLevel)
	_, err := NewClient(time.Second, WithLogger(zap.New(core))).GetState(context.Background(), testInstance(t, url))
	assert.ErrorIs(t, err, shared.ErrProviderUnavailable)

	var cause strings.Builder
	for e := err; e != nil; e = errors.Unwrap(e) {
		cause.WriteString(e.Error())
	}
	assert.NotContains(t, cause.String(), "secret-token")
	require.Equal(t, 1, logs.Len())
	for _, v := range logs.All()[0].ContextMap() {
		assert.NotContains(t, fmt.Sprint(v), "secret-token")
	}
}

func TestClient_TokenStaysOutOfTraces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/waInstance1101000001/sendMessage/secret-token", r.URL.Path)
		_, _ = w.Write([]byte(`{"idMessage":"BAE5F4886F6F2D05"}`))
	}))
	defer srv.Close()

	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	_, err := NewClient(time.Second, WithTracerProvider(tp)).
		SendMessage(context.Background(), testInstance(t, srv.URL), "255712345678@c.us", "Asante!")
	require.NoError(t, err)

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "greenapi.sendMessage", spans[0].Name())
	sawURL := false
	for _, kv := range spans[0].Attributes() {
		assert.NotContains(t, kv.Value.Emit(), "secret-token", "attribute %s", kv.Key)
		if kv.Key == "url.full" {
			sawURL = true
			assert.True(t, strings.HasSuffix(kv.Value.AsString(), "/sendMessage/"+redactedToken))
		}
	}
	assert.True(t, sawURL)
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := NewClient(50*time.Millisecond).GetState(context.Background(), testInstance(t, srv.URL))
	assert.ErrorIs(t, err, shared.ErrProviderUnavailable)
}

func TestMethodFromPath(t *testing.T) {
	assert.Equal(t, "sendMessage", methodFromPath("/waInstance1101/sendMessage/token"))
	assert.Equal(t, "qr", methodFromPath("/proxy/waInstance1101/qr/token"))
	assert.Equal(t, "request", methodFromPath("/"))
}

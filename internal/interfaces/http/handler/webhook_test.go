package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	whatsappapp "github.com/lats/backend/internal/application/whatsapp"
	"github.com/lats/backend/internal/domain/shared"
	"github.com/lats/backend/internal/interfaces/http/dto"
)

const incomingNotification = `{"typeWebhook":"incomingMessageReceived","idMessage":"BAE5F4886F6F2D05","instanceData":{"idInstance":1101823456}}`

func setupWebhookRouter() (*gin.Engine, *MockWebhookIngester) {
	svc := new(MockWebhookIngester)
	r := newTestEngine(true)
	r.POST("/webhooks/whatsapp/:instanceId", NewWebhookHandler(svc).Receive)
	return r, svc
}

func postWebhook(r *gin.Engine, path, auth, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestWebhookHandler_PassesInstanceAndToken(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		auth  string
		token string
	}{
		{"bearer header", "/webhooks/whatsapp/1101823456", "Bearer s3cret", "s3cret"},
		{"query token", "/webhooks/whatsapp/1101823456?token=s3cret", "", "s3cret"},
		{"header wins over query", "/webhooks/whatsapp/1101823456?token=s3cret", "Bearer nope", "nope"},
		{"missing", "/webhooks/whatsapp/1101823456", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, svc := setupWebhookRouter()
			svc.On("Handle", mock.Anything, "1101823456", tt.token, []byte(incomingNotification)).
				Return(&whatsappapp.WebhookResult{Type: "incomingMessageReceived"}, nil).Once()

			w := postWebhook(r, tt.path, tt.auth, incomingNotification)
			assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
			svc.AssertExpectations(t)
		})
	}
}

func TestWebhookHandler_RejectedToken(t *testing.T) {
	r, svc := setupWebhookRouter()
	svc.On("Handle", mock.Anything, "1101823456", "nope", mock.Anything).
		Return(nil, shared.NewDomainError("UNAUTHORIZED", "Invalid webhook token"))

	w := postWebhook(r, "/webhooks/whatsapp/1101823456", "Bearer nope", incomingNotification)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrCodeUnauthorized, errorCode(t, w))
}

func TestWebhookHandler_Duplicate(t *testing.T) {
	r, svc := setupWebhookRouter()
	svc.On("Handle", mock.Anything, "1101823456", "", []byte(incomingNotification)).
		Return(&whatsappapp.WebhookResult{Type: "incomingMessageReceived", Duplicate: true}, nil)

	w := postWebhook(r, "/webhooks/whatsapp/1101823456", "", incomingNotification)

	require.Equal(t, http.StatusOK, w.Code)
	var res whatsappapp.WebhookResult
	envelope(t, w, &res)
	assert.True(t, res.Duplicate)
}

func TestWebhookHandler_TooLarge(t *testing.T) {
	r, svc := setupWebhookRouter()
	body := `{"pad":"` + strings.Repeat("x", maxWebhookBody) + `"}`

	w := postWebhook(r, "/webhooks/whatsapp/1101823456", "", body)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, dto.ErrCodeTooLarge, errorCode(t, w))
	svc.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

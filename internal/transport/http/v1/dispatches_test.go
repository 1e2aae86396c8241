package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/sereenat7/DISHA-sub001/internal/config"
	"github.com/sereenat7/DISHA-sub001/internal/domain"
	"github.com/sereenat7/DISHA-sub001/internal/policy"
	"github.com/sereenat7/DISHA-sub001/internal/provider"
	"github.com/sereenat7/DISHA-sub001/internal/service"
	"github.com/sereenat7/DISHA-sub001/internal/store"
	"github.com/sereenat7/DISHA-sub001/tests/helpers"
)

func newTestHandler(t *testing.T) (*Handler, store.Store) {
	cfg := &config.Config{ProviderMode: "MOCK", NumRounds: 2, CallTimeout: time.Second}
	db := helpers.NewTestSQLiteStore(t)
	notifier := provider.NewMockClient()
	ctx := context.Background()
	policyEngine, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	svc := service.New(db, notifier, nil, policyEngine, nil, cfg)
	return NewHandler(svc, nil, cfg), db
}

func waitForFinished(t *testing.T, db store.Store, sessionID string) *domain.AlertSession {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		session, err := db.GetSession(context.Background(), sessionID)
		if err != nil {
			t.Fatalf("GetSession: %v", err)
		}
		if session != nil && session.EndedAt != nil {
			return session
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("session %s never finished", sessionID)
	return nil
}

func TestTriggerDispatch(t *testing.T) {
	t.Run("Accepted", func(t *testing.T) {
		e := echo.New()
		handler, db := newTestHandler(t)

		body := `{"contacts":[{"phone":"+15550001"},{"phone":"+15550002"}],"num_rounds":2,"origin_number":"+15550100"}`
		req := httptest.NewRequest(http.MethodPost, "/v1/dispatches", bytes.NewBufferString(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.TriggerDispatch(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusAccepted, rec.Code)

		var resp domain.TriggerResponse
		json.Unmarshal(rec.Body.Bytes(), &resp)
		assert.True(t, strings.HasPrefix(resp.SessionID, "disp_"))
		assert.Equal(t, domain.SessionStatusCreated, resp.Status)
		assert.Equal(t, 2, resp.ContactCount)
		assert.Equal(t, 2, resp.NumRounds)

		// Let the background session finish before the store is closed.
		session := waitForFinished(t, db, resp.SessionID)
		assert.Equal(t, domain.SessionStatusComplete, session.Status)
	})

	t.Run("Invalid Body", func(t *testing.T) {
		e := echo.New()
		handler, _ := newTestHandler(t)

		req := httptest.NewRequest(http.MethodPost, "/v1/dispatches", bytes.NewBufferString(`{not json`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.TriggerDispatch(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Empty Contacts", func(t *testing.T) {
		e := echo.New()
		handler, _ := newTestHandler(t)

		body := `{"origin_number":"+15550100"}`
		req := httptest.NewRequest(http.MethodPost, "/v1/dispatches", bytes.NewBufferString(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.TriggerDispatch(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "contact list is empty")
	})

	t.Run("Policy Blocked", func(t *testing.T) {
		e := echo.New()
		handler, _ := newTestHandler(t)

		body := `{"contacts":[{"phone":"+15550001"}],"num_rounds":11,"origin_number":"+15550100"}`
		req := httptest.NewRequest(http.MethodPost, "/v1/dispatches", bytes.NewBufferString(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.TriggerDispatch(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "round count exceeds policy cap")
	})
}

func TestGetDispatch(t *testing.T) {
	t.Run("Not Found", func(t *testing.T) {
		e := echo.New()
		handler, _ := newTestHandler(t)

		req := httptest.NewRequest(http.MethodGet, "/v1/dispatches/disp_missing", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetPath("/v1/dispatches/:session_id")
		c.SetParamNames("session_id")
		c.SetParamValues("disp_missing")

		err := handler.GetDispatch(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Finished Session With Reports", func(t *testing.T) {
		e := echo.New()
		handler, db := newTestHandler(t)

		resp := triggerSession(t, e, handler, `{"contacts":[{"phone":"+15550001"}],"num_rounds":1,"origin_number":"+15550100"}`)
		waitForFinished(t, db, resp.SessionID)

		req := httptest.NewRequest(http.MethodGet, "/v1/dispatches/"+resp.SessionID, nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetPath("/v1/dispatches/:session_id")
		c.SetParamNames("session_id")
		c.SetParamValues(resp.SessionID)

		err := handler.GetDispatch(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var session domain.AlertSession
		json.Unmarshal(rec.Body.Bytes(), &session)
		assert.Equal(t, domain.SessionStatusComplete, session.Status)
		assert.Len(t, session.Reports, 1)
		assert.Len(t, session.Reports[0].Calls, 1)
	})
}

func TestListDispatches(t *testing.T) {
	e := echo.New()
	handler, db := newTestHandler(t)

	resp := triggerSession(t, e, handler, `{"contacts":[{"phone":"+15550001"}],"num_rounds":1,"origin_number":"+15550100"}`)
	waitForFinished(t, db, resp.SessionID)

	req := httptest.NewRequest(http.MethodGet, "/v1/dispatches", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.ListDispatches(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Sessions []domain.AlertSession `json:"sessions"`
	}
	json.Unmarshal(rec.Body.Bytes(), &body)
	assert.Len(t, body.Sessions, 1)
	assert.Equal(t, resp.SessionID, body.Sessions[0].SessionID)
}

func TestGetDispatchEvents(t *testing.T) {
	e := echo.New()
	handler, db := newTestHandler(t)

	resp := triggerSession(t, e, handler, `{"contacts":[{"phone":"+15550001"}],"num_rounds":1,"origin_number":"+15550100"}`)
	waitForFinished(t, db, resp.SessionID)

	req := httptest.NewRequest(http.MethodGet, "/v1/dispatches/"+resp.SessionID+"/events?types=session_started,session_complete", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/dispatches/:session_id/events")
	c.SetParamNames("session_id")
	c.SetParamValues(resp.SessionID)

	err := handler.GetDispatchEvents(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Events []domain.Event `json:"events"`
	}
	json.Unmarshal(rec.Body.Bytes(), &body)
	assert.Len(t, body.Events, 2)
	assert.Equal(t, domain.EventTypeSessionStarted, body.Events[0].Type)
	assert.Equal(t, domain.EventTypeSessionComplete, body.Events[1].Type)
}

func TestGetDispatchSummary(t *testing.T) {
	t.Run("Not Found", func(t *testing.T) {
		e := echo.New()
		handler, _ := newTestHandler(t)

		req := httptest.NewRequest(http.MethodGet, "/v1/dispatches/disp_missing/summary", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetPath("/v1/dispatches/:session_id/summary")
		c.SetParamNames("session_id")
		c.SetParamValues("disp_missing")

		err := handler.GetDispatchSummary(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Finished Session", func(t *testing.T) {
		e := echo.New()
		handler, db := newTestHandler(t)

		resp := triggerSession(t, e, handler, `{"contacts":[{"phone":"+15550001"}],"num_rounds":1,"origin_number":"+15550100"}`)
		waitForFinished(t, db, resp.SessionID)

		req := httptest.NewRequest(http.MethodGet, "/v1/dispatches/"+resp.SessionID+"/summary", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetPath("/v1/dispatches/:session_id/summary")
		c.SetParamNames("session_id")
		c.SetParamValues(resp.SessionID)

		err := handler.GetDispatchSummary(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "ALERT DISPATCH SUMMARY")
	})
}

func TestCancelDispatchNotFound(t *testing.T) {
	e := echo.New()
	handler, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/dispatches/disp_missing/cancel", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/dispatches/:session_id/cancel")
	c.SetParamNames("session_id")
	c.SetParamValues("disp_missing")

	err := handler.CancelDispatch(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFeedUnavailableWithoutHub(t *testing.T) {
	e := echo.New()
	handler, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/feed", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.Feed(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealthEndpoint(t *testing.T) {
	e := echo.New()
	handler, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.Health(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

// triggerSession POSTs a trigger body and returns the accepted response.
func triggerSession(t *testing.T, e *echo.Echo, handler *Handler, body string) *domain.TriggerResponse {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/dispatches", bytes.NewBufferString(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.TriggerDispatch(c); err != nil {
		t.Fatalf("TriggerDispatch: %v", err)
	}
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp domain.TriggerResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	return &resp
}

package splits

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rafaelmedeirospb83/guimaps-admin/internal/audit"
	"github.com/rafaelmedeirospb83/guimaps-admin/internal/upstream"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/common"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/middleware"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/pagination"
)

// recordingAudit captures entries for assertions
type recordingAudit struct {
	entries []audit.Entry
}

func (r *recordingAudit) Record(_ context.Context, entry audit.Entry) {
	r.entries = append(r.entries, entry)
}

func newTestRouter(f *fixture, recorder audit.Recorder) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	authed := router.Group("/admin")
	authed.Use(func(c *gin.Context) {
		c.Set(middleware.SessionIDKey, "sess-1")
		c.Set(middleware.AdminIDKey, "admin-1")
		c.Set(middleware.UpstreamTokenKey, "token")
	})

	if recorder == nil {
		recorder = audit.Nop{}
	}
	NewHandler(f.service, recorder).RegisterRoutes(authed)
	return router
}

func TestListEndpoint(t *testing.T) {
	api := &fakeAPI{
		listFn: func(filter upstream.SplitListFilter, p pagination.Params) ([]upstream.PaymentSplit, error) {
			assert.Equal(t, "READY_TO_PAY", filter.Status)
			assert.Equal(t, 50, p.Limit)
			return []upstream.PaymentSplit{readySplit("split-1")}, nil
		},
	}
	router := newTestRouter(newFixture(api), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/splits?status=READY_TO_PAY", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool        `json:"success"`
		Data    SplitListVM `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.Data.Rows, 1)
	assert.Equal(t, "R$ 150,00", resp.Data.Rows[0].RecipientAmount.Formatted)
}

func TestEndpointsRequireSession(t *testing.T) {
	api := &fakeAPI{}
	f := newFixture(api)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	// no identity middleware
	NewHandler(f.service, audit.Nop{}).RegisterRoutes(router.Group("/admin"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/splits", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)

	var resp struct {
		Error struct {
			ForcedLogout bool `json:"forced_logout"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Error.ForcedLogout)
}

func TestMarkReadyEndpointAuditsOutcome(t *testing.T) {
	api := &fakeAPI{
		markReadyFn: func(string) (*upstream.MarkReadyResponse, error) {
			return nil, common.NewApplicationError("split não está pendente", nil)
		},
	}
	recorder := &recordingAudit{}
	router := newTestRouter(newFixture(api), recorder)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/splits/split-1/mark-ready", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	require.Len(t, recorder.entries, 1)
	entry := recorder.entries[0]
	assert.Equal(t, "admin-1", entry.ActorID)
	assert.Equal(t, "split.mark_ready", entry.Action)
	assert.Equal(t, "split-1", entry.ResourceID)
	assert.Error(t, entry.Err)
}

func TestOpenDraftEndpointValidatesBody(t *testing.T) {
	router := newTestRouter(newFixture(&fakeAPI{}), nil)

	w := httptest.NewRecorder()
	body := strings.NewReader(`{"amount_cents": -5}`)
	req := httptest.NewRequest(http.MethodPost, "/admin/splits/split-1/payout/draft", body)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConfirmEndpointHappyPath(t *testing.T) {
	api := &fakeAPI{
		getFn: func(string) (*upstream.PaymentSplitDetail, error) { return readyDetail("split-1"), nil },
		createFn: func(string, upstream.CreatePayoutRequest, string) (*upstream.CreatePayoutResponse, error) {
			return &upstream.CreatePayoutResponse{PayoutID: "po-1", Status: upstream.PayoutStatusRequested, Message: "ok"}, nil
		},
	}
	f := newFixture(api)
	recorder := &recordingAudit{}
	router := newTestRouter(f, recorder)

	// step 1: open the draft
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/splits/split-1/payout/draft", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	// step 2: confirm
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/admin/splits/split-1/payout/confirm", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data PayoutResultVM `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "po-1", resp.Data.PayoutID)

	require.Len(t, recorder.entries, 1)
	assert.Equal(t, "payout.create", recorder.entries[0].Action)
	assert.NoError(t, recorder.entries[0].Err)
}

package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Validation rejections happen before any repository call, so these run
// against handlers with zero dependencies wired.

func jsonRequest(t *testing.T, method, target, body string, params ...string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	for i := 0; i+1 < len(params); i += 2 {
		c.SetParamNames(params[i])
		c.SetParamValues(params[i+1])
	}
	return c, rec
}

func TestRegisterValidation(t *testing.T) {
	h := &AuthHandler{}
	cases := []struct {
		name string
		body string
	}{
		{"missing email", `{"password":"x","full_name":"A","partner_type":"individual","gdpr_consent":true}`},
		{"missing password", `{"email":"a@b.fr","full_name":"A","partner_type":"individual","gdpr_consent":true}`},
		{"missing name", `{"email":"a@b.fr","password":"x","partner_type":"individual","gdpr_consent":true}`},
		{"bad partner type", `{"email":"a@b.fr","password":"x","full_name":"A","partner_type":"company","gdpr_consent":true}`},
		{"no gdpr consent", `{"email":"a@b.fr","password":"x","full_name":"A","partner_type":"individual"}`},
		{"business without siret", `{"email":"a@b.fr","password":"x","full_name":"A","partner_type":"business","gdpr_consent":true}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := jsonRequest(t, http.MethodPost, "/v1/auth/register", tc.body)
			require.NoError(t, h.Register(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestSubmitLeadValidation(t *testing.T) {
	h := &PartnerLeadHandler{}
	c, rec := jsonRequest(t, http.MethodPost, "/v1/partner/leads",
		`{"prospect_name":"","prospect_phone":"0600000000","prospect_email":"p@x.fr"}`)
	require.NoError(t, h.Submit(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateStatusValidation(t *testing.T) {
	h := &AdminLeadHandler{}

	t.Run("bad lead id", func(t *testing.T) {
		c, rec := jsonRequest(t, http.MethodPatch, "/v1/admin/leads/abc/status",
			`{"status":"visited"}`, "id", "abc")
		require.NoError(t, h.UpdateStatus(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown status", func(t *testing.T) {
		c, rec := jsonRequest(t, http.MethodPatch, "/v1/admin/leads/1/status",
			`{"status":"cancelled"}`, "id", "1")
		require.NoError(t, h.UpdateStatus(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestProcessPaymentValidation(t *testing.T) {
	h := &AdminPaymentHandler{}

	t.Run("bad request id", func(t *testing.T) {
		c, rec := jsonRequest(t, http.MethodPost, "/v1/admin/payment-requests/0/process",
			`{"action":"complete"}`, "id", "0")
		require.NoError(t, h.Process(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown action", func(t *testing.T) {
		c, rec := jsonRequest(t, http.MethodPost, "/v1/admin/payment-requests/1/process",
			`{"action":"approve"}`, "id", "1")
		require.NoError(t, h.Process(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestListPaymentsStatusFilterValidation(t *testing.T) {
	h := &AdminPaymentHandler{}
	c, rec := jsonRequest(t, http.MethodGet, "/v1/admin/payment-requests?status=paid", "")
	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPurgeRequiresConfirm(t *testing.T) {
	h := &AdminUserHandler{}
	c, rec := jsonRequest(t, http.MethodDelete, "/v1/admin/users/3", "", "id", "3")
	require.NoError(t, h.Purge(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

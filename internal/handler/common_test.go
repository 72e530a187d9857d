package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helioref/referral-server/internal/repository"
)

func TestRepoErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"not found", repository.ErrNotFound, http.StatusNotFound},
		{"forbidden", repository.ErrForbidden, http.StatusForbidden},
		{"email exists", repository.ErrEmailExists, http.StatusConflict},
		{"already processed", repository.ErrAlreadyProcessed, http.StatusConflict},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := jsonRequest(t, http.MethodGet, "/", "")
			require.NoError(t, repoError(c, tc.err, "fallback"))
			assert.Equal(t, tc.code, rec.Code)
		})
	}
}

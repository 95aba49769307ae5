package httperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestIsBusinessThroughWrapping(t *testing.T) {
	err := fmt.Errorf("finish: %w", ErrBusinessMsg("invalid_state", "Agendamento já finalizado."))

	if !IsBusiness(err, "invalid_state") {
		t.Fatal("expected business error")
	}
	if IsBusiness(err, "not_found") {
		t.Fatal("wrong code matched")
	}
	if IsBusiness(errors.New("x"), "invalid_state") {
		t.Fatal("plain error matched")
	}
}

func TestFromErrorStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err    error
		status int
		code   string
	}{
		{ErrBusiness("not_found"), http.StatusNotFound, "not_found"},
		{ErrBusinessMsg("time_conflict", "Já existe um agendamento neste horário."), http.StatusConflict, "time_conflict"},
		{ErrBusiness("invalid_credentials"), http.StatusUnauthorized, "invalid_credentials"},
		{ErrBusiness("insufficient_balance"), http.StatusBadRequest, "insufficient_balance"},
		{errors.New("db down"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		FromError(c, tc.err)

		if w.Code != tc.status {
			t.Errorf("%v: status %d, want %d", tc.err, w.Code, tc.status)
		}
		var body HTTPError
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		if body.Code != tc.code {
			t.Errorf("%v: code %q, want %q", tc.err, body.Code, tc.code)
		}
	}
}

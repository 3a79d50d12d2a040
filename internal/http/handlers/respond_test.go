package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"taskquest/internal/service"

	"github.com/gin-gonic/gin"
)

func init() { gin.SetMode(gin.TestMode) }

func TestRespondError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("%w: task", service.ErrNotFound), http.StatusNotFound, "not_found"},
		{fmt.Errorf("%w: bad", service.ErrValidation), http.StatusBadRequest, "validation"},
		{service.ErrAlreadyCompleted, http.StatusBadRequest, "already_completed"},
		{service.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{service.ErrConflictDuplicate, http.StatusConflict, "duplicate"},
		{service.ErrJobInProgress, http.StatusConflict, "job_in_progress"},
		{errors.New("connection reset"), http.StatusInternalServerError, "internal"},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		respondError(c, tt.err)

		if w.Code != tt.status {
			t.Errorf("%v: status = %d, want %d", tt.err, w.Code, tt.status)
		}
		var body struct {
			Success bool   `json:"success"`
			Error   string `json:"error"`
			Code    string `json:"code"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.Success || body.Code != tt.code {
			t.Errorf("%v: body = %+v", tt.err, body)
		}
		if tt.status == http.StatusInternalServerError && body.Error != "internal error" {
			t.Errorf("internal error leaked detail: %q", body.Error)
		}
	}
}

func TestFlexBool(t *testing.T) {
	for in, want := range map[string]bool{"on": true, "true": true, "1": true, "TRUE": true, "": false, "off": false, "0": false} {
		var b flexBool
		_ = b.UnmarshalParam(in)
		if bool(b) != want {
			t.Errorf("UnmarshalParam(%q) = %v, want %v", in, b, want)
		}
	}
	for in, want := range map[string]bool{`true`: true, `false`: false, `"on"`: true} {
		var b flexBool
		if err := json.Unmarshal([]byte(in), &b); err != nil {
			t.Fatalf("UnmarshalJSON(%s): %v", in, err)
		}
		if bool(b) != want {
			t.Errorf("UnmarshalJSON(%s) = %v, want %v", in, b, want)
		}
	}
}

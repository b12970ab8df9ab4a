package presenter_test

import (
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/YoshitsuguKoike/notesvc/internal/adapter/presenter"
	"github.com/YoshitsuguKoike/notesvc/internal/application/dto"
)

func TestJSONPresenter_PresentSuccess(t *testing.T) {
	p := presenter.NewJSONPresenter("detail", nil)
	rec := httptest.NewRecorder()

	p.PresentSuccess(rec, http.StatusCreated, dto.NoteDTO{ID: 1, Title: "A", Body: "B", CreatedAt: "2026-01-01 00:00:00"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"id":1,"title":"A","body":"B","created_at":"2026-01-01 00:00:00"}`, rec.Body.String())
}

func TestJSONPresenter_PresentRaw(t *testing.T) {
	p := presenter.NewJSONPresenter("error", nil)
	rec := httptest.NewRecorder()

	p.PresentRaw(rec, http.StatusOK, []byte(`{"model":"m","response":"r","done":true}`))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `{"model":"m","response":"r","done":true}`, rec.Body.String())
}

func TestJSONPresenter_PresentError(t *testing.T) {
	tests := []struct {
		errorKey string
		want     string
	}{
		{"detail", `{"detail":"note not found"}`},
		{"error", `{"error":"note not found"}`},
	}

	for _, tt := range tests {
		t.Run(tt.errorKey, func(t *testing.T) {
			p := presenter.NewJSONPresenter(tt.errorKey, nil)
			rec := httptest.NewRecorder()

			p.PresentError(rec, http.StatusNotFound, "note not found")

			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.JSONEq(t, tt.want, rec.Body.String())
		})
	}
}

func TestJSONPresenter_UnencodableData(t *testing.T) {
	p := presenter.NewJSONPresenter("detail", nil)
	rec := httptest.NewRecorder()

	p.PresentSuccess(rec, http.StatusOK, math.Inf(1))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"detail":"internal server error"}`, rec.Body.String())
}

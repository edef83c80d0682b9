package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pcamargo/herdlog/internal/domain"
)

func TestCreatePaddock(t *testing.T) {
	mocks := &serverMocks{}
	mocks.paddocks.register = func(_ context.Context, p domain.Paddock) (domain.Paddock, error) {
		return p, nil
	}
	r := newTestRouter(mocks)

	rec := doRequest(t, r, http.MethodPost, "/paddocks",
		`{"name":"Piquete 1","area_ha":12.5,"capacity":40}`)

	require.Equal(t, http.StatusCreated, rec.Code)

	var got domain.Paddock
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Piquete 1", got.Name)
	require.NotNil(t, got.AreaHa)
	assert.InDelta(t, 12.5, *got.AreaHa, 1e-9)
	assert.True(t, got.Active, "active defaults to true when omitted")
}

func TestCreatePaddock_InvalidJSON(t *testing.T) {
	rec := doRequest(t, newTestRouter(&serverMocks{}), http.MethodPost, "/paddocks", `{"name":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreatePaddock_ValidationError(t *testing.T) {
	mocks := &serverMocks{}
	mocks.paddocks.register = func(_ context.Context, _ domain.Paddock) (domain.Paddock, error) {
		return domain.Paddock{}, fmt.Errorf("service.PaddockService.Register: %w: name is required", domain.ErrValidation)
	}
	r := newTestRouter(mocks)

	rec := doRequest(t, r, http.MethodPost, "/paddocks", `{"name":""}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `"validation_error"`)
	assert.NotContains(t, rec.Body.String(), "service.PaddockService",
		"call-site prefixes must not leak to clients")
}

func TestListPaddocks(t *testing.T) {
	mocks := &serverMocks{}
	mocks.paddocks.list = func(_ context.Context) ([]domain.Paddock, error) {
		return []domain.Paddock{{Name: "Piquete 1"}, {Name: "Piquete 2"}}, nil
	}
	r := newTestRouter(mocks)

	rec := doRequest(t, r, http.MethodGet, "/paddocks", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var got []domain.Paddock
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
}

func TestUpdatePaddock(t *testing.T) {
	var gotName string
	mocks := &serverMocks{}
	mocks.paddocks.update = func(_ context.Context, name string, p domain.Paddock) (domain.Paddock, error) {
		gotName = name
		return p, nil
	}
	r := newTestRouter(mocks)

	rec := doRequest(t, r, http.MethodPut, "/paddocks/Piquete%201",
		`{"name":"Piquete 1","active":false}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Piquete 1", gotName, "URL name identifies the paddock being updated")

	var got domain.Paddock
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.False(t, got.Active, "explicit active=false deactivates")
}

func TestUpdatePaddock_NotFound(t *testing.T) {
	mocks := &serverMocks{}
	mocks.paddocks.update = func(_ context.Context, _ string, _ domain.Paddock) (domain.Paddock, error) {
		return domain.Paddock{}, fmt.Errorf("service.PaddockService.Update: %w", domain.ErrNotFound)
	}
	r := newTestRouter(mocks)

	rec := doRequest(t, r, http.MethodPut, "/paddocks/Piquete%2099", `{"name":"Piquete 99"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"not_found"`)
}

func TestDeletePaddock(t *testing.T) {
	mocks := &serverMocks{}
	mocks.paddocks.remove = func(_ context.Context, name string) error {
		assert.Equal(t, "Piquete 1", name)
		return nil
	}
	r := newTestRouter(mocks)

	rec := doRequest(t, r, http.MethodDelete, "/paddocks/Piquete%201", "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestDeletePaddock_Occupied(t *testing.T) {
	mocks := &serverMocks{}
	mocks.paddocks.remove = func(_ context.Context, _ string) error {
		return fmt.Errorf("service.PaddockService.Remove: %w: 3 animals still at %q", domain.ErrOccupied, "Piquete 1")
	}
	r := newTestRouter(mocks)

	rec := doRequest(t, r, http.MethodDelete, "/paddocks/Piquete%201", "")

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), `"occupied"`)
	assert.Contains(t, rec.Body.String(), "3 animals")
}

func TestDeletePaddock_InternalErrorIsOpaque(t *testing.T) {
	mocks := &serverMocks{}
	mocks.paddocks.remove = func(_ context.Context, _ string) error {
		return fmt.Errorf("pgx: connection refused to 10.0.0.5")
	}
	r := newTestRouter(mocks)

	rec := doRequest(t, r, http.MethodDelete, "/paddocks/Piquete%201", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "10.0.0.5", "internals must not leak to clients")
}

package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/models"
)

func TestSearch_DatabaseFallback(t *testing.T) {
	env := newTestEnv(t)

	for _, p := range []models.Product{
		{Name: "Cordless Drill", Description: "18V power tool", Unit: "pcs", Price: mustDec(t, "120"), Stock: 3},
		{Name: "Hammer", Description: "claw hammer", Unit: "pcs", Price: mustDec(t, "15"), Stock: 10},
		{Name: "Drill Bits", Description: "titanium set", Unit: "set", Price: mustDec(t, "25"), Stock: 7},
	} {
		require.NoError(t, env.DB.Create(&p).Error)
	}

	h := &SearchHandler{Repo: env.Repo}

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/search?q=drill", nil)
	require.NoError(t, h.Search(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Total    int64            `json:"total"`
		Products []models.Product `json:"products"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, int64(2), resp.Total)
	require.Len(t, resp.Products, 2)
	for _, p := range resp.Products {
		require.Contains(t, []string{"Cordless Drill", "Drill Bits"}, p.Name)
	}
}

func TestSearch_RequiresQuery(t *testing.T) {
	env := newTestEnv(t)
	h := &SearchHandler{Repo: env.Repo}

	_, c := env.doJSONRequest(http.MethodGet, "/api/v1/search", nil)
	err := h.Search(c)
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusBadRequest, he.Code)
}

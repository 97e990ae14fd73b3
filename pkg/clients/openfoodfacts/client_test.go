package openfoodfacts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/babystock/internal/domain/models"
)

func TestLookup_Found(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v0/product/3574661253701.json", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":1,"product":{"product_name":"Baby Dry","brands":"Pampers","quantity":"44 pcs","categories":"Baby care, Diapers"}}`))
	}))
	defer srv.Close()

	info, err := NewClient(srv.URL, time.Second).Lookup(context.Background(), "3574661253701")
	require.NoError(t, err)
	assert.Equal(t, &models.ProductInfo{
		Found:       true,
		ProductName: "Baby Dry",
		Brand:       "Pampers",
		Category:    "Diapers",
		Size:        "44 pcs",
	}, info)
}

func TestLookup_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":0,"status_verbose":"product not found"}`))
	}))
	defer srv.Close()

	info, err := NewClient(srv.URL, time.Second).Lookup(context.Background(), "0001")
	require.NoError(t, err)
	assert.False(t, info.Found)
}

func TestLookup_UpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).Lookup(context.Background(), "0001")
	assert.ErrorIs(t, err, models.ErrUpstreamLookup)
}

func TestLookup_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, 20*time.Millisecond).Lookup(context.Background(), "0001")
	assert.ErrorIs(t, err, models.ErrUpstreamLookup)
}

func TestClassifyCategory(t *testing.T) {
	tests := map[string]models.Category{
		"Baby diapers":                   models.CategoryDiapers,
		"Hygiene, Baby Wipes":            models.CategoryWetWipes,
		"Infant formula":                 models.CategoryFoodFormula,
		"Dairies, Milk":                  models.CategoryFoodFormula,
		"Body lotion":                    models.CategoryBathCare,
		"Dietary supplements, Vitamin D": models.CategoryMedicineHealth,
		"Snacks":                         models.CategoryOther,
		"":                               models.CategoryOther,
	}

	for input, want := range tests {
		assert.Equal(t, want, ClassifyCategory(input), input)
	}
}

// Package openfoodfacts looks products up by barcode in the Open Food Facts
// database.
package openfoodfacts

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/babystock/internal/domain/models"
)

// DefaultBaseURL is the public Open Food Facts endpoint.
const DefaultBaseURL = "https://world.openfoodfacts.org"

// Client is a resty-backed product lookup.
type Client struct {
	httpClient *resty.Client
}

// NewClient builds a lookup client. A zero timeout falls back to 10 seconds.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	restyClient := resty.New().
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "babystock/1.0").
		SetTimeout(timeout)

	return &Client{httpClient: restyClient}
}

type productResponse struct {
	Status  int `json:"status"`
	Product *struct {
		ProductName string `json:"product_name"`
		Brands      string `json:"brands"`
		Quantity    string `json:"quantity"`
		Categories  string `json:"categories"`
	} `json:"product"`
}

// Lookup fetches the product for barcode. An unknown product yields
// ProductInfo{Found: false} and a nil error; transport failures and
// unexpected statuses wrap models.ErrUpstreamLookup.
func (c *Client) Lookup(ctx context.Context, barcode string) (*models.ProductInfo, error) {
	result := new(productResponse)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(result).
		Get(fmt.Sprintf("/api/v0/product/%s.json", url.PathEscape(barcode)))
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %v: %w", barcode, err, models.ErrUpstreamLookup)
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return &models.ProductInfo{Found: false}, nil
	case resp.StatusCode() >= http.StatusBadRequest:
		return nil, fmt.Errorf("lookup %s: status %d: %w", barcode, resp.StatusCode(), models.ErrUpstreamLookup)
	}

	if result.Status != 1 || result.Product == nil {
		return &models.ProductInfo{Found: false}, nil
	}

	return &models.ProductInfo{
		Found:       true,
		ProductName: result.Product.ProductName,
		Brand:       result.Product.Brands,
		Category:    string(ClassifyCategory(result.Product.Categories)),
		Size:        result.Product.Quantity,
	}, nil
}

var categoryKeywords = []struct {
	category models.Category
	words    []string
}{
	{models.CategoryDiapers, []string{"diaper", "nappy", "pampers"}},
	{models.CategoryWetWipes, []string{"wipe"}},
	{models.CategoryFoodFormula, []string{"formula", "milk", "baby food", "infant"}},
	{models.CategoryBathCare, []string{"lotion", "cream", "shampoo", "soap"}},
	{models.CategoryMedicineHealth, []string{"medicine", "vitamin", "supplement"}},
}

// ClassifyCategory maps an Open Food Facts category string onto an
// inventory category. The first matching group wins.
func ClassifyCategory(categories string) models.Category {
	lower := strings.ToLower(categories)
	for _, group := range categoryKeywords {
		for _, word := range group.words {
			if strings.Contains(lower, word) {
				return group.category
			}
		}
	}
	return models.CategoryOther
}

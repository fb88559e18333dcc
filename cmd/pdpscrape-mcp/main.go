package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/use-agent/pdpscrape/models"
)

func main() {
	apiURL := os.Getenv("PDP_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8080"
	}

	s := server.NewMCPServer(
		"pdpscrape",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	getProductTool := mcp.NewTool("get_product",
		mcp.WithDescription("Fetch a Myntra product page and return its title, primary image, original and discounted price, and stock status."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The myntra.com product page URL"),
		),
	)
	s.AddTool(getProductTool, handleGetProduct(apiURL))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func handleGetProduct(apiURL string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 30 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		url, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}

		rec, err := fetchProduct(ctx, client, apiURL, url)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(formatProduct(rec)), nil
	}
}

// fetchProduct calls POST /api/v1/product and decodes either the record or
// the error envelope.
func fetchProduct(ctx context.Context, client *http.Client, apiURL, productURL string) (*models.ProductRecord, error) {
	body, err := json.Marshal(models.ProductRequest{URL: productURL})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL+"/api/v1/product", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp models.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err != nil || errResp.Error == nil {
			return nil, fmt.Errorf("API returned HTTP %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("[%s] %s", errResp.Error.Code, errResp.Error.Message)
	}

	var rec models.ProductRecord
	if err := json.Unmarshal(respBody, &rec); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	return &rec, nil
}

func formatProduct(rec *models.ProductRecord) string {
	stock := "in stock"
	if !rec.InStock {
		stock = "out of stock"
	}
	image := rec.PrimaryImage
	if image == "" {
		image = "(none)"
	}
	return fmt.Sprintf("Title: %s\nImage: %s\nMRP: %d\nPrice: %d\nStock: %s",
		rec.Title, image, rec.OriginalPrice, rec.DiscountedPrice, stock)
}

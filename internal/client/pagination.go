package client

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"net/url"
	"strconv"

	"github.com/fivetwenty-io/privacy-client/internal/http"
	"github.com/fivetwenty-io/privacy-client/pkg/privacy"
)

// fetchPage requests the page a cursor points at. query is copied, never modified.
func fetchPage[T any](
	ctx context.Context, httpClient *http.Client, path string, query url.Values, cursor privacy.Cursor,
) (*privacy.Page[T], error) {
	values := maps.Clone(query)
	if values == nil {
		values = url.Values{}
	}

	values.Set("page", strconv.Itoa(cursor.Page))

	resp, err := httpClient.Get(ctx, path, values)
	if err != nil {
		return nil, err
	}

	var page privacy.Page[T]

	err = json.Unmarshal(resp.Body, &page)
	if err != nil {
		return nil, fmt.Errorf("parsing page %d: %w", cursor.Page, privacy.NewDecodeError(resp.StatusCode, resp.Body, err))
	}

	return &page, nil
}

// decode unmarshals a single-record response body.
func decode[T any](resp *http.Response) (*T, error) {
	var out T

	err := json.Unmarshal(resp.Body, &out)
	if err != nil {
		return nil, privacy.NewDecodeError(resp.StatusCode, resp.Body, err)
	}

	return &out, nil
}

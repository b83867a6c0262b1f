package pexels_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/shoplist/internal/pexels"
	shophttp "github.com/shashiranjanraj/shoplist/pkg/http"
	"github.com/shashiranjanraj/shoplist/pkg/testkit"
)

const baseURL = "https://api.pexels.test/v1"

func newClient() *pexels.Client {
	return &pexels.Client{BaseURL: baseURL, APIKey: "test-key", Timeout: 5 * time.Second}
}

func useTransport(t *testing.T, mt *testkit.MockTransport) {
	t.Helper()
	shophttp.DefaultClient.Transport = mt
	t.Cleanup(shophttp.ResetTransport)
}

func TestSearchReturnsMediumURL(t *testing.T) {
	body := []byte(`{
		"photos": [
			{"id": 1, "src": {"medium": "https://images.pexels.test/1-medium.jpg"}},
			{"id": 2, "src": {"medium": "https://images.pexels.test/2-medium.jpg"}}
		]
	}`)
	mt := testkit.NewMockTransport().Stub(baseURL+"/search", http.StatusOK, body)
	useTransport(t, mt)

	url, err := newClient().Search(context.Background(), "beer")
	require.NoError(t, err)
	assert.Equal(t, "https://images.pexels.test/1-medium.jpg", url, "best match is the first photo")
	assert.Equal(t, 1, mt.Calls(baseURL+"/search"))
}

func TestSearchZeroResults(t *testing.T) {
	mt := testkit.NewMockTransport().Stub(baseURL+"/search", http.StatusOK, []byte(`{"photos": []}`))
	useTransport(t, mt)

	url, err := newClient().Search(context.Background(), "nonexistent thing")
	require.NoError(t, err, "zero results is a valid answer, not a failure")
	assert.Empty(t, url)
}

func TestSearchEscapesQuery(t *testing.T) {
	mt := testkit.NewMockTransport().
		Stub(baseURL+"/search?query=bottle+of+water", http.StatusOK, []byte(`{"photos": []}`))
	useTransport(t, mt)

	_, err := newClient().Search(context.Background(), "bottle of water")
	require.NoError(t, err)
	assert.Equal(t, 1, mt.Calls(baseURL+"/search?query=bottle+of+water"))
}

func TestSearchHTTPStatusError(t *testing.T) {
	mt := testkit.NewMockTransport().
		Stub(baseURL+"/search", http.StatusTooManyRequests, []byte(`{"error": "rate limited"}`))
	useTransport(t, mt)

	_, err := newClient().Search(context.Background(), "beer")
	require.Error(t, err)

	var statusErr *pexels.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusTooManyRequests, statusErr.Code)
}

func TestSearchNetworkError(t *testing.T) {
	mt := testkit.NewMockTransport().StubError(baseURL+"/search", errors.New("connection refused"))
	useTransport(t, mt)

	_, err := newClient().Search(context.Background(), "beer")
	assert.ErrorIs(t, err, pexels.ErrUnreachable)
}

func TestSearchMalformedBody(t *testing.T) {
	mt := testkit.NewMockTransport().Stub(baseURL+"/search", http.StatusOK, []byte(`<html>nope</html>`))
	useTransport(t, mt)

	_, err := newClient().Search(context.Background(), "beer")
	assert.ErrorIs(t, err, pexels.ErrDecode)
}

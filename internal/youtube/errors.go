package youtube

import (
	"fmt"
	"net/http"
)

// APIError is a non-200 answer from the Data API.
type APIError struct {
	StatusCode int
	Endpoint   string
}

func (e *APIError) Error() string {
	switch e.StatusCode {
	case http.StatusBadRequest:
		return "YouTube API rejected the request - check the API key and the URL"
	case http.StatusUnauthorized:
		return "YouTube API authentication failed - check the configured API key"
	case http.StatusForbidden:
		return "YouTube API access denied - the API key may be invalid or out of quota"
	case http.StatusNotFound:
		return fmt.Sprintf("YouTube API %s resource not found", e.Endpoint)
	case http.StatusTooManyRequests:
		return "YouTube API rate limit exceeded - please try again later"
	case http.StatusServiceUnavailable:
		return "YouTube API temporarily unavailable - please try again in a few minutes"
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusGatewayTimeout:
		return "YouTube API server error - please try again later"
	default:
		return fmt.Sprintf("YouTube API error (status %d) - please try again", e.StatusCode)
	}
}

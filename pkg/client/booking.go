package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"studio/pkg/model"
)

// APIError is a non-2xx response decoded from the service's error envelope.
type APIError struct {
	StatusCode int
	Code       string         `json:"code"`
	Message    string         `json:"error"`
	Details    map[string]any `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.StatusCode, e.Code, e.Message)
}

// IsCode reports whether err is an APIError with the given code.
func IsCode(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

type Metadata struct {
	TotalCount int64 `json:"total_count"`
	Limit      int   `json:"limit"`
	Offset     int64 `json:"offset"`
}

type BookingClient struct {
	httpClient *HttpClient
}

// NewBookingClient talks to the bookings API as the holder of token. An empty
// token makes anonymous requests.
func NewBookingClient(baseURL, token string) *BookingClient {
	httpClient := NewHttpClient(baseURL)
	httpClient.Token = token
	return &BookingClient{httpClient: httpClient}
}

func (c *BookingClient) ListOpenSlots(ctx context.Context) ([]*model.Slot, error) {
	resp, err := c.httpClient.GET(ctx, "/api/v1/slots")
	if err != nil {
		return nil, err
	}
	return decodeData[[]*model.Slot](resp, http.StatusOK)
}

func (c *BookingClient) ListLocations(ctx context.Context) ([]string, error) {
	resp, err := c.httpClient.GET(ctx, "/api/v1/slots/locations")
	if err != nil {
		return nil, err
	}
	return decodeData[[]string](resp, http.StatusOK)
}

func (c *BookingClient) GetSlot(ctx context.Context, id string) (*model.Slot, error) {
	resp, err := c.httpClient.GET(ctx, "/api/v1/slots/id/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}
	return decodeData[*model.Slot](resp, http.StatusOK)
}

// ReserveSlot books the slot for the token holder. A non-empty idempotencyKey
// makes retries of the same request safe.
func (c *BookingClient) ReserveSlot(ctx context.Context, slotID string, contact *model.BookingContact, idempotencyKey string) (string, error) {
	var headers map[string]string
	if idempotencyKey != "" {
		headers = map[string]string{"Idempotency-Key": idempotencyKey}
	}

	var body any
	if contact != nil {
		body = contact
	}

	resp, err := c.httpClient.Do(ctx, http.MethodPost, "/api/v1/slots/id/"+url.PathEscape(slotID)+"/bookings", body, headers)
	if err != nil {
		return "", err
	}

	created, err := decodeData[struct {
		BookingID string `json:"booking_id"`
	}](resp, http.StatusCreated)
	if err != nil {
		return "", err
	}
	return created.BookingID, nil
}

func (c *BookingClient) CancelBooking(ctx context.Context, bookingID string) error {
	resp, err := c.httpClient.POST(ctx, "/api/v1/bookings/id/"+url.PathEscape(bookingID)+"/cancel", nil)
	if err != nil {
		return err
	}
	return expectStatus(resp, http.StatusNoContent)
}

func (c *BookingClient) MyBookings(ctx context.Context) ([]*model.BookingWithSlot, error) {
	resp, err := c.httpClient.GET(ctx, "/api/v1/bookings/me")
	if err != nil {
		return nil, err
	}
	return decodeData[[]*model.BookingWithSlot](resp, http.StatusOK)
}

func (c *BookingClient) CreateSlot(ctx context.Context, slot *model.Slot) (*model.Slot, error) {
	resp, err := c.httpClient.POST(ctx, "/api/v1/admin/slots", slot)
	if err != nil {
		return nil, err
	}
	return decodeData[*model.Slot](resp, http.StatusCreated)
}

func (c *BookingClient) UpdateSlot(ctx context.Context, id string, update *model.SlotUpdate) (*model.Slot, error) {
	resp, err := c.httpClient.PATCH(ctx, "/api/v1/admin/slots/id/"+url.PathEscape(id), update)
	if err != nil {
		return nil, err
	}
	return decodeData[*model.Slot](resp, http.StatusOK)
}

func (c *BookingClient) DeleteSlot(ctx context.Context, id string) error {
	resp, err := c.httpClient.DELETE(ctx, "/api/v1/admin/slots/id/"+url.PathEscape(id))
	if err != nil {
		return err
	}
	return expectStatus(resp, http.StatusNoContent)
}

func (c *BookingClient) ListSlotBookings(ctx context.Context, slotID string) ([]*model.Booking, error) {
	resp, err := c.httpClient.GET(ctx, "/api/v1/admin/slots/id/"+url.PathEscape(slotID)+"/bookings")
	if err != nil {
		return nil, err
	}
	return decodeData[[]*model.Booking](resp, http.StatusOK)
}

func (c *BookingClient) ListAllBookings(ctx context.Context, limit int, offset int64) ([]*model.Booking, *Metadata, error) {
	q := url.Values{}
	q.Set("limit", fmt.Sprintf("%d", limit))
	q.Set("offset", fmt.Sprintf("%d", offset))

	resp, err := c.httpClient.GET(ctx, "/api/v1/admin/bookings?"+q.Encode())
	if err != nil {
		return nil, nil, err
	}
	if err := expectStatus(resp, http.StatusOK); err != nil {
		return nil, nil, err
	}

	var wrapper struct {
		Data []*model.Booking `json:"data"`
		Metadata
	}
	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, nil, fmt.Errorf("could not decode paginated resp:\n%+v\n%s", resp.ToString(), err)
	}
	metadata := wrapper.Metadata
	return wrapper.Data, &metadata, nil
}

// BookingStats needs an admin token.
func (c *BookingClient) BookingStats(ctx context.Context) (*model.BookingStats, error) {
	resp, err := c.httpClient.GET(ctx, "/api/v1/admin/bookings/stats")
	if err != nil {
		return nil, err
	}
	return decodeData[*model.BookingStats](resp, http.StatusOK)
}

func expectStatus(resp *Response, want int) error {
	if resp.StatusCode == want {
		return nil
	}
	apiErr := &APIError{StatusCode: resp.StatusCode}
	if err := resp.DecodeJSON(apiErr); err != nil || apiErr.Code == "" {
		apiErr.Code = http.StatusText(resp.StatusCode)
		apiErr.Message = string(resp.Body)
	}
	return apiErr
}

func decodeData[T any](resp *Response, want int) (T, error) {
	var wrapper struct {
		Data T `json:"data"`
	}
	if err := expectStatus(resp, want); err != nil {
		return wrapper.Data, err
	}
	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return wrapper.Data, fmt.Errorf("could not decode response:\n%+v\n%s", resp.ToString(), err)
	}
	return wrapper.Data, nil
}

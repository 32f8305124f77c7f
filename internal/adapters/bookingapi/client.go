// internal/adapters/bookingapi/client.go
package bookingapi

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"stayfront/internal/adapters/observability"
	"stayfront/internal/domain"
)

// Client talks to the remote booking REST API. Reads are retried on 429 and
// transient 5xx; writes (create/update/delete) are issued exactly once per
// call so a failed booking is never silently duplicated.
type Client struct {
	base string
	hc   *http.Client
	rl   *rate.Limiter
}

func New(base string, rps int) (*Client, error) {
	if base == "" {
		return nil, fmt.Errorf("booking API base URL is required")
	}
	if rps <= 0 {
		rps = 10
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: 20 * time.Second},
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

var (
	ErrNotFound     = errors.New("bookingapi: not found")
	ErrUnauthorized = errors.New("bookingapi: unauthorized")
	ErrForbidden    = errors.New("bookingapi: forbidden")
)

// ---- Bookings ----

func (c *Client) CreateBooking(ctx context.Context, req domain.CreateBookingRequest) (domain.Booking, error) {
	body := map[string]any{
		"user":         req.User,
		"room":         req.Room,
		"checkInDate":  req.CheckIn.String(),
		"checkOutDate": req.CheckOut.String(),
		"totalPrice":   req.TotalPrice,
	}
	var out domain.Booking
	hdr := http.Header{}
	if req.IdempotencyKey != "" {
		hdr.Set("Idempotency-Key", req.IdempotencyKey)
	}
	err := c.send(ctx, http.MethodPost, c.base+"/bookings", body, "", hdr, &out, "create_booking")
	return out, err
}

func (c *Client) ListBookings(ctx context.Context, token string) ([]domain.Booking, error) {
	var out []domain.Booking
	return out, c.get(ctx, c.base+"/bookings", token, &out, "list_bookings")
}

func (c *Client) ListBookingsByUser(ctx context.Context, userID, token string) ([]domain.Booking, error) {
	var out []domain.Booking
	u := c.base + "/bookings/user/" + url.PathEscape(userID)
	return out, c.get(ctx, u, token, &out, "list_bookings_by_user")
}

func (c *Client) ListBookingsByRoom(ctx context.Context, roomID string) ([]domain.Booking, error) {
	var out []domain.Booking
	u := c.base + "/bookings/room/" + url.PathEscape(roomID)
	return out, c.get(ctx, u, "", &out, "list_bookings_by_room")
}

func (c *Client) GetBooking(ctx context.Context, id string) (domain.Booking, error) {
	var out domain.Booking
	u := c.base + "/bookings/" + url.PathEscape(id)
	return out, c.get(ctx, u, "", &out, "get_booking")
}

func (c *Client) UpdateBookingStatus(ctx context.Context, id string, status domain.BookingStatus, token string) (domain.Booking, error) {
	var out domain.Booking
	u := c.base + "/bookings/" + url.PathEscape(id)
	err := c.send(ctx, http.MethodPut, u, map[string]any{"status": status.String()}, token, nil, &out, "update_booking")
	return out, err
}

func (c *Client) DeleteBooking(ctx context.Context, id, token string) error {
	u := c.base + "/bookings/" + url.PathEscape(id)
	return c.send(ctx, http.MethodDelete, u, nil, token, nil, nil, "delete_booking")
}

// ---- Reviews ----

func (c *Client) CreateReview(ctx context.Context, roomID string, rating int, comment, token string) (domain.Review, error) {
	var out domain.Review
	body := map[string]any{"room": roomID, "rating": rating, "comment": comment}
	err := c.send(ctx, http.MethodPost, c.base+"/reviews", body, token, nil, &out, "create_review")
	return out, err
}

func (c *Client) ListReviewsByRoom(ctx context.Context, roomID string) ([]domain.Review, error) {
	var out []domain.Review
	u := c.base + "/reviews/room/" + url.PathEscape(roomID)
	return out, c.get(ctx, u, "", &out, "list_reviews_by_room")
}

func (c *Client) DeleteReview(ctx context.Context, id, token string) error {
	u := c.base + "/reviews/" + url.PathEscape(id)
	return c.send(ctx, http.MethodDelete, u, nil, token, nil, nil, "delete_review")
}

// ---- Rooms ----

func (c *Client) ListRooms(ctx context.Context, roomType string, page int) ([]domain.Room, error) {
	if page <= 0 {
		page = 1
	}
	u := c.base + "/rooms?page=" + strconv.Itoa(page)
	if roomType != "" && roomType != "all" {
		u += "&type=" + url.QueryEscape(roomType)
	}
	var out []domain.Room
	return out, c.get(ctx, u, "", &out, "list_rooms")
}

func (c *Client) GetRoom(ctx context.Context, id string) (domain.Room, error) {
	var out domain.Room
	u := c.base + "/rooms/" + url.PathEscape(id)
	return out, c.get(ctx, u, "", &out, "get_room")
}

// ---- Internals ----

// send performs a single-attempt request with an optional JSON body. Used for
// all writes: no retry, no fallback.
func (c *Client) send(ctx context.Context, method, u string, body any, token string, extra http.Header, out any, endpoint string) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return err
	}
	c.setHeaders(req, token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vs := range extra {
		for _, v := range vs {
			req.Header.Set(k, v)
		}
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("booking_api", endpoint, 0, time.Since(start))
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	observability.ObserveExternal("booking_api", endpoint, resp.StatusCode, time.Since(start))
	return drainResponse(resp, out)
}

// get performs a GET with client-side rate limiting and retries on 429 and
// transient 5xx, honoring Retry-After when provided.
func (c *Client) get(ctx context.Context, u, token string, out any, endpoint string) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	var lastErr error
	for i := 0; i < 4; i++ {
		// build a fresh request each attempt
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return err
		}
		c.setHeaders(req, token)

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			observability.ObserveExternal("booking_api", endpoint, 0, time.Since(start))
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			if i < 3 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr
		}
		observability.ObserveExternal("booking_api", endpoint, resp.StatusCode, time.Since(start))

		switch resp.StatusCode {
		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			// Prefer server-provided Retry-After; otherwise exponential backoff.
			wait := retryAfter(resp)
			io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("remote %d", resp.StatusCode)
			if i < 3 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr

		default:
			return drainResponse(resp, out)
		}
	}

	return lastErr
}

func (c *Client) setHeaders(req *http.Request, token string) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "stayfront/1.0")
}

// drainResponse maps the status to a sentinel or decodes the body into out,
// and always closes the body.
func drainResponse(resp *http.Response, out any) error {
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted:
		if out == nil {
			io.Copy(io.Discard, resp.Body)
			return nil
		}
		return json.NewDecoder(resp.Body).Decode(out)

	case http.StatusNoContent:
		io.Copy(io.Discard, resp.Body)
		return nil

	case http.StatusNotFound:
		return ErrNotFound

	case http.StatusUnauthorized:
		return ErrUnauthorized

	case http.StatusForbidden:
		return ErrForbidden

	default:
		return fmt.Errorf("remote %d: %s", resp.StatusCode, errorMessage(resp.Body))
	}
}

// errorMessage extracts the server's failure message so it can be surfaced to
// the caller verbatim. The backend answers either {"message": ...} or
// {"error": ...}; anything else falls back to the raw body.
func errorMessage(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 4096))
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(b, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return strings.TrimSpace(string(b))
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After header (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff returns an exponential backoff delay with concurrency-safe jitter.
// i = retry attempt (0,1,2,...). Base doubles each attempt (200ms, 400ms,
// 800ms...), with up to +50% random jitter to avoid thundering herds.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	j := time.Duration(0.5 * f * float64(base))
	return base + j
}

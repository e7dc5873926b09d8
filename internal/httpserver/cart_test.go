package httpserver

import (
	"net/http"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

type cartBody struct {
	Items []struct {
		ID        string          `json:"id"`
		Quantity  int             `json:"quantity"`
		LineTotal decimal.Decimal `json:"lineTotal"`
	} `json:"items"`
	ItemCount            int             `json:"itemCount"`
	Subtotal             decimal.Decimal `json:"subtotal"`
	DeliveryFee          decimal.Decimal `json:"deliveryFee"`
	Total                decimal.Decimal `json:"total"`
	AmountToFreeDelivery decimal.Decimal `json:"amountToFreeDelivery"`
	Checkout             struct {
		State string `json:"state"`
	} `json:"checkout"`
}

func sessionCookie(t *testing.T, rec interface{ Result() *http.Response }) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == cartCookieName {
			return c
		}
	}
	t.Fatalf("expected %s cookie to be set", cartCookieName)
	return nil
}

func TestCart_IssuesSessionCookie(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/api/cart", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	cookie := sessionCookie(t, rec)
	if cookie.Value == "" || !cookie.HttpOnly || cookie.MaxAge != 3600 {
		t.Fatalf("unexpected cookie %+v", cookie)
	}

	rec = env.do(t, http.MethodGet, "/api/cart", "", cookie)
	for _, c := range rec.Result().Cookies() {
		if c.Name == cartCookieName {
			t.Fatalf("valid session should not be reissued")
		}
	}

	rec = env.do(t, http.MethodGet, "/api/cart", "", &http.Cookie{Name: cartCookieName, Value: "forged"})
	if got := sessionCookie(t, rec); got.Value == "forged" {
		t.Fatalf("unknown session id must be replaced")
	}
}

func TestCart_AddUpdateRemoveClear(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/api/cart/items", `{"productId":"A"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("add: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	cookie := sessionCookie(t, rec)

	env.do(t, http.MethodPost, "/api/cart/items", `{"productId":"A"}`, cookie)
	rec = env.do(t, http.MethodPost, "/api/cart/items", `{"productId":"B"}`, cookie)

	if raw := rec.Body.String(); !strings.Contains(raw, `"subtotal":23.97`) || !strings.Contains(raw, `"price":8.99`) {
		t.Fatalf("expected money as json numbers, got %s", raw)
	}
	var body cartBody
	decode(t, rec, &body)
	if len(body.Items) != 2 || body.ItemCount != 3 {
		t.Fatalf("unexpected cart %+v", body)
	}
	if !body.Subtotal.Equal(decimal.RequireFromString("23.97")) ||
		!body.DeliveryFee.Equal(decimal.RequireFromString("4.99")) ||
		!body.Total.Equal(decimal.RequireFromString("28.96")) {
		t.Fatalf("unexpected totals %s %s %s", body.Subtotal, body.DeliveryFee, body.Total)
	}
	if !body.Items[0].LineTotal.Equal(decimal.RequireFromString("17.98")) {
		t.Fatalf("unexpected line total %s", body.Items[0].LineTotal)
	}
	if !body.AmountToFreeDelivery.Equal(decimal.RequireFromString("26.03")) {
		t.Fatalf("unexpected amount to free delivery %s", body.AmountToFreeDelivery)
	}

	rec = env.do(t, http.MethodGet, "/api/cart?deliveryMethod=pickup", "", cookie)
	decode(t, rec, &body)
	if !body.DeliveryFee.IsZero() || !body.Total.Equal(decimal.RequireFromString("23.97")) {
		t.Fatalf("pickup should not pay delivery, got fee %s", body.DeliveryFee)
	}

	rec = env.do(t, http.MethodPut, "/api/cart/items/A", `{"quantity":5}`, cookie)
	decode(t, rec, &body)
	if body.Items[0].Quantity != 5 || body.ItemCount != 6 {
		t.Fatalf("expected quantity 5, got %+v", body.Items)
	}

	rec = env.do(t, http.MethodPut, "/api/cart/items/A", `{"quantity":0}`, cookie)
	decode(t, rec, &body)
	if len(body.Items) != 1 || body.Items[0].ID != "B" {
		t.Fatalf("expected zero quantity to remove A, got %+v", body.Items)
	}

	rec = env.do(t, http.MethodDelete, "/api/cart/items/missing", "", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("removing an absent item is a no-op, got %d", rec.Code)
	}

	rec = env.do(t, http.MethodDelete, "/api/cart", "", cookie)
	decode(t, rec, &body)
	if len(body.Items) != 0 || !body.Total.IsZero() || !body.DeliveryFee.IsZero() {
		t.Fatalf("expected empty cart, got %+v", body)
	}
}

func TestCart_AddErrors(t *testing.T) {
	env := newTestEnv(t)
	cases := []struct {
		body string
		want int
	}{
		{`{}`, http.StatusBadRequest},
		{`not json`, http.StatusBadRequest},
		{`{"productId":"missing"}`, http.StatusNotFound},
		{`{"productId":"C"}`, http.StatusConflict},
	}
	for _, tc := range cases {
		rec := env.do(t, http.MethodPost, "/api/cart/items", tc.body)
		if rec.Code != tc.want {
			t.Fatalf("%s: expected %d, got %d", tc.body, tc.want, rec.Code)
		}
	}
	if rec := env.do(t, http.MethodPut, "/api/cart/items/A", `{}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without quantity, got %d", rec.Code)
	}
}

func TestCart_SessionsAreIsolated(t *testing.T) {
	env := newTestEnv(t)
	first := sessionCookie(t, env.do(t, http.MethodPost, "/api/cart/items", `{"productId":"A"}`))
	second := sessionCookie(t, env.do(t, http.MethodGet, "/api/cart", ""))

	var body cartBody
	decode(t, env.do(t, http.MethodGet, "/api/cart", "", second), &body)
	if len(body.Items) != 0 {
		t.Fatalf("second session should see an empty cart")
	}
	decode(t, env.do(t, http.MethodGet, "/api/cart", "", first), &body)
	if len(body.Items) != 1 {
		t.Fatalf("first session should keep its item")
	}
	if env.carts.Len() != 2 {
		t.Fatalf("expected 2 cart stores, got %d", env.carts.Len())
	}
}

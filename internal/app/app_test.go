package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"smartswiggy/internal/app"
	"smartswiggy/internal/database/memory"
	"smartswiggy/internal/metrics"
	"smartswiggy/internal/models"
	"smartswiggy/internal/pricing"
	"smartswiggy/internal/split"
	"smartswiggy/pkg/lib/logger/slogdiscard"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memberResponse struct {
	Group  models.Group  `json:"group"`
	Member models.Member `json:"member"`
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	log := slogdiscard.NewDiscardLogger()
	a := app.New(log, memory.New(log), metrics.New(), app.Options{
		Rules:           pricing.DefaultRules(),
		RequestInterval: time.Millisecond,
	})

	srv := httptest.NewServer(a.Handler())
	t.Cleanup(func() {
		srv.Close()
		require.NoError(t, a.Stop(context.Background()))
	})
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, body string, out any) int {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = bytes.NewBufferString(body)
	}
	req, err := http.NewRequest(method, srv.URL+path, r)
	require.NoError(t, err)

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestApp_CartFlow(t *testing.T) {
	srv := newTestServer(t)

	var created models.PricedCart
	require.Equal(t, http.StatusCreated, do(t, srv, http.MethodPost, "/carts", "", &created))
	assert.Equal(t, models.Money(40), created.Breakdown.Total)

	path := "/carts/" + strconv.Itoa(created.Cart.Id)

	var priced models.PricedCart
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodPut, path+"/items",
		`{"id":21,"name":"Chicken Biryani","unit_price":1,"quantity":1}`, &priced))
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodPut, path+"/items",
		`{"id":24,"name":"Hyderabadi Biryani","quantity":1}`, &priced))

	assert.Equal(t, models.PricingBreakdown{Subtotal: 600, DeliveryFee: 40, Tax: 30, Total: 670}, priced.Breakdown)

	assert.Equal(t, http.StatusNoContent, do(t, srv, http.MethodDelete, path+"/items/24", "", nil))

	var viewed models.PricedCart
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, path, "", &viewed))
	assert.Len(t, viewed.Cart.Items, 1)
	assert.Equal(t, models.Money(334), viewed.Breakdown.Total)

	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodPut, path+"/items",
		`{"id":999,"name":"Off menu","unit_price":10,"quantity":1}`, nil))
	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodGet, "/carts/999", "", nil))
	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodGet, "/carts/abc", "", nil))
}

func TestApp_GroupSplit(t *testing.T) {
	srv := newTestServer(t)

	var created models.Group
	require.Equal(t, http.StatusCreated, do(t, srv, http.MethodPost, "/groups",
		`{"name":"Friday lunch","host_name":"Asha"}`, &created))
	assert.Equal(t, models.GroupActive, created.State)

	var joined memberResponse
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodPost, "/groups/join",
		`{"code":"`+strings.ToLower(created.Code)+`","name":"Ravi"}`, &joined))

	var added memberResponse
	require.Equal(t, http.StatusCreated, do(t, srv, http.MethodPost, "/groups/"+created.Id+"/members", `{}`, &added))
	assert.Equal(t, "Guest 3", added.Member.DisplayName)

	host, ok := created.Host()
	require.True(t, ok)

	items := []struct {
		memberId string
		body     string
	}{
		{host.Id, `{"id":21,"name":"Chicken Biryani","quantity":1}`},
		{host.Id, `{"id":51,"name":"Cold Coffee","quantity":1}`},
		{joined.Member.Id, `{"id":1,"name":"Margherita Pizza","quantity":1}`},
		{added.Member.Id, `{"id":12,"name":"Veg Burger","quantity":2}`},
	}
	for _, it := range items {
		require.Equal(t, http.StatusOK, do(t, srv, http.MethodPut,
			"/groups/"+created.Id+"/members/"+it.memberId+"/items", it.body, nil))
	}

	var res split.Result
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodPost, "/groups/"+created.Id+"/split/compute",
		`{"policy":"equal"}`, &res))
	assert.Equal(t, models.Money(1087), res.GrandTotal)
	require.Len(t, res.Payables, 3)
	assert.True(t, decimal.RequireFromString("362.33").Equal(res.Payables[0].Payable))
	assert.True(t, decimal.RequireFromString("362.34").Equal(res.Payables[2].Payable))

	assert.Equal(t, http.StatusUnprocessableEntity, do(t, srv, http.MethodPost, "/groups/"+created.Id+"/split/compute",
		`{"policy":"lottery"}`, nil))

	assert.Equal(t, http.StatusConflict, do(t, srv, http.MethodPost, "/groups/"+created.Id+"/payment-requests",
		`{"policy":"byitem"}`, nil))
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodPost, "/groups/"+created.Id+"/split", "", nil))

	var sending models.Group
	require.Equal(t, http.StatusAccepted, do(t, srv, http.MethodPost, "/groups/"+created.Id+"/payment-requests",
		`{"policy":"byitem"}`, &sending))
	assert.Equal(t, models.GroupSplitting, sending.State)
	assert.Equal(t, 3, sending.Requests.Total)

	require.Eventually(t, func() bool {
		var g models.Group
		if do(t, srv, http.MethodGet, "/groups/"+created.Id, "", &g) != http.StatusOK {
			return false
		}
		return g.Requests.State == models.RequestsSent
	}, time.Second, 5*time.Millisecond)

	var settled models.Group
	for _, memberId := range []string{host.Id, joined.Member.Id, added.Member.Id} {
		require.Equal(t, http.StatusOK, do(t, srv, http.MethodPost,
			"/groups/"+created.Id+"/members/"+memberId+"/payment", "", &settled))
	}
	assert.Equal(t, models.GroupSettled, settled.State)
}

func TestApp_Restaurants(t *testing.T) {
	srv := newTestServer(t)

	var all []json.RawMessage
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/restaurants", "", &all))
	assert.NotEmpty(t, all)

	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodGet, "/restaurants?min_rating=9", "", nil))
	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodGet, "/restaurants/9999", "", nil))

	var menu struct {
		Items []json.RawMessage `json:"items"`
	}
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/restaurants/1/menu", "", &menu))
	assert.Len(t, menu.Items, 70)
}

func TestApp_Slots(t *testing.T) {
	srv := newTestServer(t)

	var schedule struct {
		Free []json.RawMessage `json:"free"`
	}
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/slots", "", &schedule))
	assert.Len(t, schedule.Free, 3)

	assert.Equal(t, http.StatusConflict, do(t, srv, http.MethodPost, "/slots/1/confirm", "", nil))
}

func TestApp_Metrics(t *testing.T) {
	srv := newTestServer(t)

	require.Equal(t, http.StatusCreated, do(t, srv, http.MethodPost, "/carts", "", nil))

	resp, err := srv.Client().Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "smartswiggy_carts_priced_total 1")
	assert.Contains(t, string(body), `smartswiggy_http_requests_total{method="POST",route="/carts",status="201"} 1`)
}

func TestApp_UnknownRoute(t *testing.T) {
	srv := newTestServer(t)

	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodGet, "/orders", "", nil))
	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodPatch, "/carts", "", nil))
	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodGet, "/groups/abc/unknown", "", nil))
}

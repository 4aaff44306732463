package httptransport

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	allowlistsvc "tokengate/internal/allowlist/service"
	allowliststore "tokengate/internal/allowlist/store"
	"tokengate/internal/chainstate"
	"tokengate/internal/eoa"
	policystore "tokengate/internal/policy/store"
	"tokengate/internal/token"
	"tokengate/internal/validator"
	admin "tokengate/pkg/platform/middleware/admin"
	"tokengate/pkg/testutil"
)

const testSigningKey = "test-signing-key"

type testServer struct {
	srv      *httptest.Server
	token    string
	eoa      *eoa.Registry
	policies *policystore.InMemory
	chain    *chainstate.InMemory
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	lists := allowlistsvc.New(allowliststore.NewInMemory())
	policies := policystore.NewInMemory()
	registry := eoa.NewRegistry()
	chain := chainstate.NewInMemory()
	directory := token.NewDirectory()
	directory.Register(token.NewCollection(testutil.TestAddrs.Collection, testutil.TestAddrs.Creator))

	facade := validator.New(policies, lists, registry, chain, directory)
	handler := NewHandler(facade, registry, logger)
	srv := httptest.NewServer(NewRouter(handler, testSigningKey, logger))
	t.Cleanup(srv.Close)

	tok, err := admin.IssueToken(testSigningKey, "test-admin", time.Minute)
	require.NoError(t, err)

	return &testServer{srv: srv, token: tok, eoa: registry, policies: policies, chain: chain}
}

func (ts *testServer) do(t *testing.T, method, path string, body any, authed bool) *http.Response {
	t.Helper()
	var buf io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, ts.srv.URL+path, buf)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+ts.token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestRouter_Healthz(t *testing.T) {
	ts := newTestServer(t)
	resp := ts.do(t, http.MethodGet, "/healthz", nil, false)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_AdminSurfaceRequiresToken(t *testing.T) {
	ts := newTestServer(t)

	body := map[string]any{"caller": testutil.TestAddrs.Creator, "name": "ops"}

	resp := ts.do(t, http.MethodPost, "/allowlists/operators", body, false)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = ts.do(t, http.MethodPost, "/allowlists/operators", body, true)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	got := decodeBody(t, resp)
	assert.Equal(t, float64(1), got["id"])
	assert.Equal(t, "operators", got["kind"])
}

func TestRouter_AllowlistLifecycle(t *testing.T) {
	ts := newTestServer(t)
	creator := testutil.TestAddrs.Creator
	operator := testutil.TestAddrs.Operator

	resp := ts.do(t, http.MethodPost, "/allowlists/operators",
		map[string]any{"caller": creator, "name": "ops"}, true)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = ts.do(t, http.MethodPost, "/allowlists/operators/1/members",
		map[string]any{"caller": creator, "account": operator}, true)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Duplicate add conflicts.
	resp = ts.do(t, http.MethodPost, "/allowlists/operators/1/members",
		map[string]any{"caller": creator, "account": operator}, true)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Open read surface.
	resp = ts.do(t, http.MethodGet,
		fmt.Sprintf("/allowlists/operators/1/members/%s", operator.Hex()), nil, false)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, decodeBody(t, resp)["member"])

	resp = ts.do(t, http.MethodGet, "/allowlists/operators/1", nil, false)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decodeBody(t, resp)
	assert.Equal(t, "ops", got["name"])
	require.Len(t, got["members"], 1)

	// Remove, then membership reads false.
	resp = ts.do(t, http.MethodDelete, "/allowlists/operators/1/members",
		map[string]any{"caller": creator, "account": operator}, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = ts.do(t, http.MethodGet,
		fmt.Sprintf("/allowlists/operators/1/members/%s", operator.Hex()), nil, false)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, decodeBody(t, resp)["member"])
}

func TestRouter_NonOwnerMutationIsForbidden(t *testing.T) {
	ts := newTestServer(t)
	creator := testutil.TestAddrs.Creator

	resp := ts.do(t, http.MethodPost, "/allowlists/operators",
		map[string]any{"caller": creator, "name": "ops"}, true)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = ts.do(t, http.MethodPost, "/allowlists/operators/1/members",
		map[string]any{"caller": testutil.TestAddrs.Holder, "account": testutil.TestAddrs.Operator}, true)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRouter_UnknownAllowlistIs404(t *testing.T) {
	ts := newTestServer(t)
	resp := ts.do(t, http.MethodGet, "/allowlists/operators/99", nil, false)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_UnknownKindIs400(t *testing.T) {
	ts := newTestServer(t)
	resp := ts.do(t, http.MethodGet, "/allowlists/bogus/1", nil, false)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRouter_PolicyConfiguration(t *testing.T) {
	ts := newTestServer(t)
	creator := testutil.TestAddrs.Creator
	collection := testutil.TestAddrs.Collection.Hex()

	resp := ts.do(t, http.MethodPost, "/allowlists/operators",
		map[string]any{"caller": creator, "name": "ops"}, true)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = ts.do(t, http.MethodPost, "/collections/"+collection+"/level",
		map[string]any{"caller": creator, "level": 2}, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = ts.do(t, http.MethodPost, "/collections/"+collection+"/operator-whitelist",
		map[string]any{"caller": creator, "id": 1}, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = ts.do(t, http.MethodGet, "/collections/"+collection+"/policy", nil, false)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decodeBody(t, resp)
	assert.Equal(t, float64(2), got["level"])
	assert.Equal(t, float64(1), got["operator_whitelist_id"])

	t.Run("non-owner caller forbidden", func(t *testing.T) {
		resp := ts.do(t, http.MethodPost, "/collections/"+collection+"/level",
			map[string]any{"caller": testutil.TestAddrs.Holder, "level": 1}, true)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("out-of-range level rejected", func(t *testing.T) {
		resp := ts.do(t, http.MethodPost, "/collections/"+collection+"/level",
			map[string]any{"caller": creator, "level": 9}, true)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("binding a never-issued list rejected", func(t *testing.T) {
		resp := ts.do(t, http.MethodPost, "/collections/"+collection+"/permitted-receivers",
			map[string]any{"caller": creator, "id": 5}, true)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestRouter_EOAVerification(t *testing.T) {
	ts := newTestServer(t)
	wallet := testutil.NewWallet(t)

	resp := ts.do(t, http.MethodGet, "/eoa/"+wallet.Address.Hex(), nil, false)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, decodeBody(t, resp)["verified"])

	sig := "0x" + hex.EncodeToString(wallet.SignEOAProof(t))
	resp = ts.do(t, http.MethodPost, "/eoa/verify", map[string]any{"signature": sig}, false)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decodeBody(t, resp)
	assert.Equal(t, true, got["verified"])
	assert.Equal(t, wallet.Address.Hex(), got["signer"])

	resp = ts.do(t, http.MethodGet, "/eoa/"+wallet.Address.Hex(), nil, false)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, decodeBody(t, resp)["verified"])

	t.Run("malformed signature rejected", func(t *testing.T) {
		resp := ts.do(t, http.MethodPost, "/eoa/verify", map[string]any{"signature": "0x1234"}, false)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestRouter_TransferCheck(t *testing.T) {
	ts := newTestServer(t)
	ctxBody := func(caller, from, to string) map[string]any {
		return map[string]any{
			"collection": testutil.TestAddrs.Collection,
			"caller":     caller,
			"from":       from,
			"to":         to,
		}
	}
	holder := testutil.TestAddrs.Holder.Hex()
	receiver := testutil.TestAddrs.Receiver.Hex()

	// Unconfigured collection allows.
	resp := ts.do(t, http.MethodPost, "/transfers/check", ctxBody(holder, holder, receiver), false)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, decodeBody(t, resp)["allowed"])

	// Configure level two with an empty whitelist: denial is still a 200
	// with the reason, not an error status.
	creator := testutil.TestAddrs.Creator
	collection := testutil.TestAddrs.Collection.Hex()
	resp = ts.do(t, http.MethodPost, "/allowlists/operators",
		map[string]any{"caller": creator, "name": "ops"}, true)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = ts.do(t, http.MethodPost, "/collections/"+collection+"/level",
		map[string]any{"caller": creator, "level": 2}, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = ts.do(t, http.MethodPost, "/collections/"+collection+"/operator-whitelist",
		map[string]any{"caller": creator, "id": 1}, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = ts.do(t, http.MethodPost, "/transfers/check", ctxBody(holder, holder, receiver), false)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decodeBody(t, resp)
	assert.Equal(t, false, got["allowed"])
	assert.NotEmpty(t, got["reason"])
}

func TestRouter_RejectsUnknownJSONFields(t *testing.T) {
	ts := newTestServer(t)
	resp := ts.do(t, http.MethodPost, "/transfers/check",
		map[string]any{"collection": testutil.TestAddrs.Collection, "bogus": true}, false)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

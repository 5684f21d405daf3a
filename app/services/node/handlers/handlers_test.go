package handlers_test

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/abcchain/abc/app/services/node/handlers"
	"github.com/abcchain/abc/foundation/events"
	"github.com/abcchain/abc/foundation/keys"
	"github.com/abcchain/abc/foundation/logger"
	"github.com/abcchain/abc/foundation/nodestate"
	"github.com/abcchain/abc/foundation/nodestate/storage/memory"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

type node struct {
	public  http.Handler
	private http.Handler
	debug   http.Handler
	strg    *memory.Memory
	store   *nodestate.Store
}

func newNode(t *testing.T) node {
	log, err := logger.New("TEST")
	if err != nil {
		t.Fatalf("Should be able to construct a logger: %v", err)
	}
	t.Cleanup(func() { log.Sync() })

	strg := memory.New()
	store, err := nodestate.New(nodestate.Config{
		Storage:   strg,
		PublicKey: keys.Static("PK1"),
	})
	if err != nil {
		t.Fatalf("Should be able to open the store: %v", err)
	}

	cfg := handlers.MuxConfig{
		Shutdown: make(chan os.Signal, 1),
		Log:      log,
		Store:    store,
		Evts:     events.New(),
	}

	return node{
		public:  handlers.PublicMux(cfg),
		private: handlers.PrivateMux(cfg),
		debug:   handlers.DebugMux("test", log, store),
		strg:    strg,
		store:   store,
	}
}

func call(h http.Handler, method string, path string, body string) *httptest.ResponseRecorder {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	return w
}

// =============================================================================

func Test_Routes(t *testing.T) {
	type table struct {
		name   string
		public bool
		method string
		path   string
		body   string
		status int
	}

	tt := []table{
		{name: "increment", method: http.MethodPost, path: "/v1/node/height/increment", status: http.StatusOK},
		{name: "hash", method: http.MethodPost, path: "/v1/node/hash", body: `{"hash":"deadbeef"}`, status: http.StatusOK},
		{name: "hash-empty", method: http.MethodPost, path: "/v1/node/hash", body: `{"hash":""}`, status: http.StatusBadRequest},
		{name: "add", method: http.MethodPost, path: "/v1/node/balance/add", body: `{"amount":100}`, status: http.StatusOK},
		{name: "add-missing", method: http.MethodPost, path: "/v1/node/balance/add", body: `{}`, status: http.StatusBadRequest},
		{name: "subtract", method: http.MethodPost, path: "/v1/node/balance/subtract", body: `{"amount":30}`, status: http.StatusOK},
		{name: "block", method: http.MethodPost, path: "/v1/node/block", body: `{"hash":"cafe"}`, status: http.StatusOK},
		{name: "peer-add", method: http.MethodPost, path: "/v1/node/peers/3", body: `{"ip":"10.0.0.3","port":3390}`, status: http.StatusOK},
		{name: "peer-bad", method: http.MethodPost, path: "/v1/node/peers/4", body: `{"ip":"10.0.0.4"}`, status: http.StatusBadRequest},
		{name: "peer-remove", method: http.MethodDelete, path: "/v1/node/peers/1", status: http.StatusOK},
		{name: "peer-unknown", method: http.MethodDelete, path: "/v1/node/peers/9", status: http.StatusNotFound},
		{name: "peers-empty", method: http.MethodPut, path: "/v1/node/peers", body: `{}`, status: http.StatusBadRequest},
		{name: "save", method: http.MethodPost, path: "/v1/node/save", status: http.StatusOK},
		{name: "state", public: true, method: http.MethodGet, path: "/v1/node/state", status: http.StatusOK},
		{name: "field", public: true, method: http.MethodGet, path: "/v1/node/state/height", status: http.StatusOK},
		{name: "field-unknown", public: true, method: http.MethodGet, path: "/v1/node/state/nonce", status: http.StatusNotFound},
		{name: "balance", public: true, method: http.MethodGet, path: "/v1/node/balance", status: http.StatusOK},
		{name: "peers", public: true, method: http.MethodGet, path: "/v1/node/peers", status: http.StatusOK},
	}

	n := newNode(t)

	t.Log("Given the need to drive the node state over the api.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen calling %s %s.", testID, tst.method, tst.path)
			{
				h := n.private
				if tst.public {
					h = n.public
				}

				w := call(h, tst.method, tst.path, tst.body)
				if w.Code != tst.status {
					t.Logf("\t%s\tTest %d:\tgot: %d %s", failed, testID, w.Code, w.Body.String())
					t.Logf("\t%s\tTest %d:\texp: %d", failed, testID, tst.status)
					t.Fatalf("\t%s\tTest %d:\tShould get the right status for %s.", failed, testID, tst.name)
				}
				t.Logf("\t%s\tTest %d:\tShould get the right status for %s.", success, testID, tst.name)
			}
		}

		testID := len(tt)
		t.Logf("\tTest %d:\tWhen reading back the state.", testID)
		{
			w := call(n.public, http.MethodGet, "/v1/node/state", "")

			var state nodestate.State
			if err := json.NewDecoder(w.Body).Decode(&state); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould decode the state: %v", failed, testID, err)
			}

			if state.Height != 2 || state.LastBlock != "cafe" || state.Wallet.Amount != 70 || len(state.Peers) != 2 {
				t.Logf("\t%s\tTest %d:\tgot: %+v", failed, testID, state)
				t.Fatalf("\t%s\tTest %d:\tShould reflect every change.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould reflect every change.", success, testID)
		}
	}
}

func Test_PersistFailure(t *testing.T) {
	n := newNode(t)

	t.Log("Given the need to surface persistence failures to callers.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen the backing record can't be written.", testID)
		{
			n.strg.FailWrites(errors.New("read-only file system"))

			w := call(n.private, http.MethodPost, "/v1/node/balance/add", `{"amount":5}`)
			if w.Code != http.StatusInternalServerError || !strings.Contains(w.Body.String(), "read-only file system") {
				t.Fatalf("\t%s\tTest %d:\tShould report the persist error, got %d %s.", failed, testID, w.Code, w.Body.String())
			}
			t.Logf("\t%s\tTest %d:\tShould report the persist error.", success, testID)

			w = call(n.debug, http.MethodGet, "/debug/readiness", "")
			if w.Code != http.StatusInternalServerError {
				t.Fatalf("\t%s\tTest %d:\tShould not be ready, got %d.", failed, testID, w.Code)
			}
			t.Logf("\t%s\tTest %d:\tShould not be ready.", success, testID)

			n.strg.FailWrites(nil)

			w = call(n.private, http.MethodPost, "/v1/node/save", "")
			if w.Code != http.StatusOK {
				t.Fatalf("\t%s\tTest %d:\tShould be able to save, got %d.", failed, testID, w.Code)
			}

			w = call(n.debug, http.MethodGet, "/debug/readiness", "")
			if w.Code != http.StatusOK {
				t.Fatalf("\t%s\tTest %d:\tShould be ready after a save, got %d.", failed, testID, w.Code)
			}
			t.Logf("\t%s\tTest %d:\tShould be ready after a save.", success, testID)
		}
	}
}

func Test_BalanceOverflow(t *testing.T) {
	n := newNode(t)

	t.Log("Given the need to keep the balance inside its range over the api.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen adding past the largest balance.", testID)
		{
			w := call(n.private, http.MethodPost, "/v1/node/balance/add", `{"amount":9223372036854775807}`)
			if w.Code != http.StatusOK {
				t.Fatalf("\t%s\tTest %d:\tShould add the largest amount, got %d %s.", failed, testID, w.Code, w.Body.String())
			}

			w = call(n.private, http.MethodPost, "/v1/node/balance/add", `{"amount":1}`)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("\t%s\tTest %d:\tShould reject the overflow, got %d %s.", failed, testID, w.Code, w.Body.String())
			}
			t.Logf("\t%s\tTest %d:\tShould reject the overflow.", success, testID)

			if n.store.Balance() != math.MaxInt64 {
				t.Fatalf("\t%s\tTest %d:\tShould keep the balance, got %d.", failed, testID, n.store.Balance())
			}
			t.Logf("\t%s\tTest %d:\tShould keep the balance.", success, testID)
		}
	}
}

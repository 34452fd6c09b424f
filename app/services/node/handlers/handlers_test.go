package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/ardanlabs/powchain/app/services/node/handlers"
	"github.com/ardanlabs/powchain/business/web/errs"
	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/blockchain/peer"
	"github.com/ardanlabs/powchain/foundation/blockchain/state"
	"github.com/ardanlabs/powchain/foundation/events"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// node is a ledger node served through the public mux.
type node struct {
	state    *state.State
	evts     *events.Events
	shutdown chan os.Signal
	mux      http.Handler
}

func newNode(t *testing.T, id string, rules database.Rules) node {
	t.Helper()

	st, err := state.New(state.Config{
		NodeID: database.NodeID(id),
		Rules:  rules,
	})
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct the state: %s", failed, err)
	}

	n := node{
		state:    st,
		evts:     events.New(),
		shutdown: make(chan os.Signal, 1),
	}

	n.mux = handlers.PublicMux(handlers.MuxConfig{
		Shutdown: n.shutdown,
		Log:      zap.NewNop().Sugar(),
		State:    st,
		Evts:     n.evts,
	})

	return n
}

func (n node) call(t *testing.T, method string, path string, body string, resp any) int {
	t.Helper()

	var r *http.Request
	switch body {
	case "":
		r = httptest.NewRequest(method, path, nil)
	default:
		r = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	w := httptest.NewRecorder()

	n.mux.ServeHTTP(w, r)

	if resp != nil {
		if err := json.NewDecoder(bytes.NewReader(w.Body.Bytes())).Decode(resp); err != nil {
			t.Fatalf("\t%s\tShould be able to decode the response %q: %s", failed, w.Body.String(), err)
		}
	}

	return w.Code
}

// =============================================================================

func Test_Transactions(t *testing.T) {
	n := newNode(t, "local", database.RulesStrict)

	t.Log("Given the need to submit transactions.")
	{
		t.Logf("\tTest 0:\tWhen submitting a complete transaction.")
		{
			var resp struct {
				Message string `json:"message"`
			}
			code := n.call(t, http.MethodPost, "/transactions/new", `{"sender":"alice","recipient":"bob","amount":0}`, &resp)
			if code != http.StatusCreated {
				t.Fatalf("\t%s\tTest 0:\tShould receive a status code of 201: %d", failed, code)
			}
			t.Logf("\t%s\tTest 0:\tShould receive a status code of 201.", success)

			if resp.Message != "Transaction will be added to Block 2" {
				t.Fatalf("\t%s\tTest 0:\tShould name the target block: %q", failed, resp.Message)
			}
			t.Logf("\t%s\tTest 0:\tShould name the target block.", success)

			var pending []database.Tx
			n.call(t, http.MethodGet, "/transactions/pending", "", &pending)
			if len(pending) != 1 || pending[0] != database.NewTx("alice", "bob", 0) {
				t.Fatalf("\t%s\tTest 0:\tShould hold the transaction in the pending pool: %+v", failed, pending)
			}
			t.Logf("\t%s\tTest 0:\tShould hold the transaction in the pending pool.", success)
		}

		t.Logf("\tTest 1:\tWhen a field is missing.")
		{
			var resp errs.Response
			code := n.call(t, http.MethodPost, "/transactions/new", `{"sender":"alice","recipient":"bob"}`, &resp)
			if code != http.StatusBadRequest {
				t.Fatalf("\t%s\tTest 1:\tShould receive a status code of 400: %d", failed, code)
			}
			t.Logf("\t%s\tTest 1:\tShould receive a status code of 400.", success)

			if resp.Error != "Missing values" || resp.Fields["amount"] == "" {
				t.Fatalf("\t%s\tTest 1:\tShould name the missing field: %+v", failed, resp)
			}
			t.Logf("\t%s\tTest 1:\tShould name the missing field.", success)
		}

		t.Logf("\tTest 2:\tWhen the body isn't JSON.")
		{
			code := n.call(t, http.MethodPost, "/transactions/new", `sender=alice`, nil)
			if code != http.StatusBadRequest {
				t.Fatalf("\t%s\tTest 2:\tShould receive a status code of 400: %d", failed, code)
			}
			t.Logf("\t%s\tTest 2:\tShould receive a status code of 400.", success)

			if n.state.QueryPendingLength() != 1 {
				t.Fatalf("\t%s\tTest 2:\tShould leave the pending pool unchanged.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould leave the pending pool unchanged.", success)
		}
	}
}

func Test_Mine(t *testing.T) {
	n := newNode(t, "local", database.RulesStrict)

	t.Log("Given the need to mine a block.")
	{
		t.Logf("\tTest 0:\tWhen a transaction is pending.")
		{
			n.call(t, http.MethodPost, "/transactions/new", `{"sender":"alice","recipient":"bob","amount":5}`, nil)

			var resp struct {
				Message      string        `json:"message"`
				Index        uint64        `json:"index"`
				Proof        uint64        `json:"proof"`
				PreviousHash string        `json:"previousHash"`
				Transactions []database.Tx `json:"transactions"`
			}
			code := n.call(t, http.MethodGet, "/mine", "", &resp)
			if code != http.StatusOK {
				t.Fatalf("\t%s\tTest 0:\tShould receive a status code of 200: %d", failed, code)
			}
			t.Logf("\t%s\tTest 0:\tShould receive a status code of 200.", success)

			reward := database.NewTx("0", "local", 1)
			if resp.Message != "New Block Forged" || resp.Index != 2 || len(resp.Transactions) != 2 || resp.Transactions[1] != reward {
				t.Fatalf("\t%s\tTest 0:\tShould describe the forged block: %+v", failed, resp)
			}
			t.Logf("\t%s\tTest 0:\tShould describe the forged block.", success)

			var status peer.ChainStatus
			n.call(t, http.MethodGet, "/chain", "", &status)
			if status.Length != 2 || len(status.Chain) != 2 {
				t.Fatalf("\t%s\tTest 0:\tShould report the chain with its length: %d", failed, status.Length)
			}
			t.Logf("\t%s\tTest 0:\tShould report the chain with its length.", success)

			if status.Chain[1].PreviousHash != resp.PreviousHash || status.Chain[1].Proof != resp.Proof {
				t.Fatalf("\t%s\tTest 0:\tShould report the forged block in the chain.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould report the forged block in the chain.", success)

			if err := database.ValidateChain(status.Chain, database.RulesStrict); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould report a valid chain: %s", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould report a valid chain.", success)
		}
	}
}

func Test_Nodes(t *testing.T) {
	local := newNode(t, "local", database.RulesStrict)
	remote := newNode(t, "remote", database.RulesStrict)

	srv := httptest.NewServer(remote.mux)
	defer srv.Close()

	t.Log("Given the need to work with peer nodes.")
	{
		t.Logf("\tTest 0:\tWhen registering an invalid list.")
		{
			for _, body := range []string{`{"nodes":[]}`, `{}`, `{"nodes":["192.168.0.5:5000"]}`} {
				var resp errs.Response
				code := local.call(t, http.MethodPost, "/nodes/register", body, &resp)
				if code != http.StatusBadRequest {
					t.Fatalf("\t%s\tTest 0:\tShould receive a status code of 400 for %s: %d", failed, body, code)
				}
			}
			t.Logf("\t%s\tTest 0:\tShould receive a status code of 400.", success)

			if local.state.QueryPeerCount() != 0 {
				t.Fatalf("\t%s\tTest 0:\tShould leave the peer set empty.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould leave the peer set empty.", success)
		}

		t.Logf("\tTest 1:\tWhen registering a peer node.")
		{
			var resp struct {
				Message    string   `json:"message"`
				TotalNodes []string `json:"totalNodes"`
			}
			code := local.call(t, http.MethodPost, "/nodes/register", `{"nodes":["`+srv.URL+`"]}`, &resp)
			if code != http.StatusCreated {
				t.Fatalf("\t%s\tTest 1:\tShould receive a status code of 201: %d", failed, code)
			}
			t.Logf("\t%s\tTest 1:\tShould receive a status code of 201.", success)

			host := strings.TrimPrefix(srv.URL, "http://")
			if resp.Message != "New nodes have been added" || len(resp.TotalNodes) != 1 || resp.TotalNodes[0] != host {
				t.Fatalf("\t%s\tTest 1:\tShould list the registered host: %+v", failed, resp)
			}
			t.Logf("\t%s\tTest 1:\tShould list the registered host.", success)

			var hosts []string
			local.call(t, http.MethodGet, "/nodes/list", "", &hosts)
			if len(hosts) != 1 || hosts[0] != host {
				t.Fatalf("\t%s\tTest 1:\tShould list the known peers: %v", failed, hosts)
			}
			t.Logf("\t%s\tTest 1:\tShould list the known peers.", success)
		}

		t.Logf("\tTest 2:\tWhen the peer holds a longer chain.")
		{
			local.call(t, http.MethodGet, "/mine", "", nil)
			for i := 0; i < 3; i++ {
				remote.call(t, http.MethodGet, "/mine", "", nil)
			}

			var resp struct {
				Message  string           `json:"message"`
				NewChain []database.Block `json:"newChain"`
			}
			code := local.call(t, http.MethodGet, "/nodes/resolve", "", &resp)
			if code != http.StatusOK {
				t.Fatalf("\t%s\tTest 2:\tShould receive a status code of 200: %d", failed, code)
			}
			t.Logf("\t%s\tTest 2:\tShould receive a status code of 200.", success)

			if resp.Message != "Our chain was replaced" || len(resp.NewChain) != 4 {
				t.Fatalf("\t%s\tTest 2:\tShould adopt the peer chain: %q len[%d]", failed, resp.Message, len(resp.NewChain))
			}
			t.Logf("\t%s\tTest 2:\tShould adopt the peer chain.", success)

			if !local.state.RetrieveLatestBlock().Same(remote.state.RetrieveLatestBlock()) {
				t.Fatalf("\t%s\tTest 2:\tShould hold the same latest block as the peer.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould hold the same latest block as the peer.", success)
		}

		t.Logf("\tTest 3:\tWhen the chains are the same length.")
		{
			var resp struct {
				Message string           `json:"message"`
				Chain   []database.Block `json:"chain"`
			}
			local.call(t, http.MethodGet, "/nodes/resolve", "", &resp)
			if resp.Message != "Our chain is authoritative" || len(resp.Chain) != 4 {
				t.Fatalf("\t%s\tTest 3:\tShould keep the chain: %q len[%d]", failed, resp.Message, len(resp.Chain))
			}
			t.Logf("\t%s\tTest 3:\tShould keep the chain.", success)
		}
	}
}

func Test_NodesReferenceRules(t *testing.T) {
	local := newNode(t, "local", database.RulesReference)
	remote := newNode(t, "remote", database.RulesReference)

	srv := httptest.NewServer(remote.mux)
	defer srv.Close()

	t.Log("Given the need to run nodes with the default rule set.")
	{
		t.Logf("\tTest 0:\tWhen both nodes mine their own blocks.")
		{
			if code := local.call(t, http.MethodGet, "/mine", "", nil); code != http.StatusOK {
				t.Fatalf("\t%s\tTest 0:\tShould be able to mine on the local node: %d", failed, code)
			}
			for i := 0; i < 3; i++ {
				if code := remote.call(t, http.MethodGet, "/mine", "", nil); code != http.StatusOK {
					t.Fatalf("\t%s\tTest 0:\tShould be able to mine on the remote node: %d", failed, code)
				}
			}
			t.Logf("\t%s\tTest 0:\tShould be able to mine on both nodes.", success)

			if err := database.ValidateChain(remote.state.RetrieveChain(), database.RulesReference); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould mine a chain that is valid under the same rules: %s", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould mine a chain that is valid under the same rules.", success)
		}

		t.Logf("\tTest 1:\tWhen resolving against the longer peer chain.")
		{
			local.call(t, http.MethodPost, "/transactions/new", `{"sender":"alice","recipient":"bob","amount":5}`, nil)
			local.call(t, http.MethodPost, "/nodes/register", `{"nodes":["`+srv.URL+`"]}`, nil)

			var resp struct {
				Message  string           `json:"message"`
				NewChain []database.Block `json:"newChain"`
			}
			code := local.call(t, http.MethodGet, "/nodes/resolve", "", &resp)
			if code != http.StatusOK || resp.Message != "Our chain was replaced" {
				t.Fatalf("\t%s\tTest 1:\tShould adopt the peer chain: %d %q", failed, code, resp.Message)
			}
			t.Logf("\t%s\tTest 1:\tShould adopt the peer chain.", success)

			chain := local.state.RetrieveChain()
			exp := remote.state.RetrieveChain()
			if len(chain) != 4 || len(resp.NewChain) != 4 {
				t.Fatalf("\t%s\tTest 1:\tShould hold four blocks: len[%d]", failed, len(chain))
			}
			for i := range exp {
				if !chain[i].Same(exp[i]) || !resp.NewChain[i].Same(exp[i]) {
					t.Fatalf("\t%s\tTest 1:\tShould hold the peer block at index %d.", failed, i+1)
				}
			}
			t.Logf("\t%s\tTest 1:\tShould hold the peer chain block for block.", success)

			if local.state.QueryPendingLength() != 1 {
				t.Fatalf("\t%s\tTest 1:\tShould keep the pending transaction.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould keep the pending transaction.", success)
		}

		t.Logf("\tTest 2:\tWhen mining on top of the adopted chain.")
		{
			if code := local.call(t, http.MethodGet, "/mine", "", nil); code != http.StatusOK {
				t.Fatalf("\t%s\tTest 2:\tShould be able to mine: %d", failed, code)
			}
			t.Logf("\t%s\tTest 2:\tShould be able to mine.", success)

			chain := local.state.RetrieveChain()
			if len(chain) != 5 || chain[4].PreviousHash != chain[3].Hash() {
				t.Fatalf("\t%s\tTest 2:\tShould link the new block to the adopted tip: len[%d]", failed, len(chain))
			}
			t.Logf("\t%s\tTest 2:\tShould link the new block to the adopted tip.", success)

			if err := database.ValidateChain(chain, database.RulesReference); err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould hold a valid chain: %s", failed, err)
			}
			t.Logf("\t%s\tTest 2:\tShould hold a valid chain.", success)
		}
	}
}

func Test_Events(t *testing.T) {
	n := newNode(t, "local", database.RulesStrict)

	srv := httptest.NewServer(n.mux)
	defer srv.Close()

	t.Log("Given the need to stream node events over a websocket.")
	{
		conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/v1/events", nil)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to dial the events route: %s", failed, err)
		}
		defer conn.Close()

		t.Logf("\tTest 0:\tWhen a client subscribes.")
		{
			deadline := time.Now().Add(5 * time.Second)
			for n.evts.Count() != 1 {
				if time.Now().After(deadline) {
					t.Fatalf("\t%s\tTest 0:\tShould register the subscriber.", failed)
				}
				time.Sleep(10 * time.Millisecond)
			}
			t.Logf("\t%s\tTest 0:\tShould register the subscriber.", success)

			n.evts.Send("block forged")

			conn.SetReadDeadline(time.Now().Add(5 * time.Second))
			_, msg, err := conn.ReadMessage()
			if err != nil || string(msg) != "block forged" {
				t.Fatalf("\t%s\tTest 0:\tShould receive the event: %q %v", failed, msg, err)
			}
			t.Logf("\t%s\tTest 0:\tShould receive the event.", success)
		}

		t.Logf("\tTest 1:\tWhen the client goes away.")
		{
			conn.Close()

			deadline := time.Now().Add(5 * time.Second)
			for n.evts.Count() != 0 {
				if time.Now().After(deadline) {
					t.Fatalf("\t%s\tTest 1:\tShould release the subscriber.", failed)
				}
				n.evts.Send("block forged")
				time.Sleep(10 * time.Millisecond)
			}
			t.Logf("\t%s\tTest 1:\tShould release the subscriber.", success)

			select {
			case sig := <-n.shutdown:
				t.Fatalf("\t%s\tTest 1:\tShould keep the node running: %v", failed, sig)
			case <-time.After(200 * time.Millisecond):
			}
			t.Logf("\t%s\tTest 1:\tShould keep the node running.", success)

			var status peer.ChainStatus
			if code := n.call(t, http.MethodGet, "/chain", "", &status); code != http.StatusOK || status.Length != 1 {
				t.Fatalf("\t%s\tTest 1:\tShould keep serving the chain: %d", failed, code)
			}
			t.Logf("\t%s\tTest 1:\tShould keep serving the chain.", success)
		}
	}
}

func Test_Preflight(t *testing.T) {
	n := newNode(t, "local", database.RulesStrict)

	t.Log("Given the need to support CORS preflight requests.")
	{
		t.Logf("\tTest 0:\tWhen sending an OPTIONS request.")
		{
			r := httptest.NewRequest(http.MethodOptions, "/transactions/new", nil)
			w := httptest.NewRecorder()
			n.mux.ServeHTTP(w, r)

			if w.Header().Get("Access-Control-Allow-Origin") != "*" {
				t.Fatalf("\t%s\tTest 0:\tShould set the CORS headers.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould set the CORS headers.", success)
		}
	}
}

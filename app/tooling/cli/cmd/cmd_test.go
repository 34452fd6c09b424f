package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// request is what the fake node saw.
type request struct {
	method string
	path   string
	body   string
}

func fakeNode(t *testing.T, code int, resp string) (string, *[]request) {
	t.Helper()

	var mu sync.Mutex
	var reqs []request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		mu.Lock()
		reqs = append(reqs, request{method: r.Method, path: r.URL.Path, body: string(body)})
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		io.WriteString(w, resp)
	}))
	t.Cleanup(srv.Close)

	return srv.URL, &reqs
}

func execute(args ...string) (string, error) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

// =============================================================================

func Test_Commands(t *testing.T) {
	type table struct {
		name   string
		args   []string
		method string
		path   string
		body   map[string]any
	}

	tt := []table{
		{name: "chain", args: []string{"chain"}, method: http.MethodGet, path: "/chain"},
		{name: "mine", args: []string{"mine"}, method: http.MethodGet, path: "/mine"},
		{name: "send", args: []string{"send", "--from", "alice", "--to", "bob", "--amount", "2.5"}, method: http.MethodPost, path: "/transactions/new",
			body: map[string]any{"sender": "alice", "recipient": "bob", "amount": 2.5}},
		{name: "register", args: []string{"nodes", "register", "http://a:5000", "http://b:5000"}, method: http.MethodPost, path: "/nodes/register",
			body: map[string]any{"nodes": []any{"http://a:5000", "http://b:5000"}}},
		{name: "resolve", args: []string{"nodes", "resolve"}, method: http.MethodGet, path: "/nodes/resolve"},
		{name: "list", args: []string{"nodes", "list"}, method: http.MethodGet, path: "/nodes/list"},
	}

	t.Log("Given the need to drive a node from the command line.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen running %q.", testID, strings.Join(tst.args, " "))
			{
				f := func(t *testing.T) {
					url, reqs := fakeNode(t, http.StatusOK, `{"message":"ok"}`)

					out, err := execute(append([]string{"--url", url}, tst.args...)...)
					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to run the command: %s", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould be able to run the command.", success, testID)

					if len(*reqs) != 1 || (*reqs)[0].method != tst.method || (*reqs)[0].path != tst.path {
						t.Fatalf("\t%s\tTest %d:\tShould call %s %s: %+v", failed, testID, tst.method, tst.path, *reqs)
					}
					t.Logf("\t%s\tTest %d:\tShould call %s %s.", success, testID, tst.method, tst.path)

					if tst.body != nil {
						var body map[string]any
						if err := json.Unmarshal([]byte((*reqs)[0].body), &body); err != nil {
							t.Fatalf("\t%s\tTest %d:\tShould send a JSON body: %s", failed, testID, err)
						}
						exp, _ := json.Marshal(tst.body)
						got, _ := json.Marshal(body)
						if string(exp) != string(got) {
							t.Logf("\t%s\tTest %d:\tgot: %s", failed, testID, got)
							t.Logf("\t%s\tTest %d:\texp: %s", failed, testID, exp)
							t.Fatalf("\t%s\tTest %d:\tShould send the expected body.", failed, testID)
						}
						t.Logf("\t%s\tTest %d:\tShould send the expected body.", success, testID)
					}

					if !strings.Contains(out, `"message": "ok"`) {
						t.Fatalf("\t%s\tTest %d:\tShould print the response: %q", failed, testID, out)
					}
					t.Logf("\t%s\tTest %d:\tShould print the response.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func Test_CommandErrors(t *testing.T) {
	t.Log("Given the need to report failures from the node.")
	{
		t.Logf("\tTest 0:\tWhen the node rejects the request.")
		{
			url, _ := fakeNode(t, http.StatusBadRequest, `{"error":"Error: Please supply a valid list of nodes"}`)

			_, err := execute("--url", url, "nodes", "register", "nohost")
			if err == nil || !strings.Contains(err.Error(), "Please supply a valid list of nodes") {
				t.Fatalf("\t%s\tTest 0:\tShould return the node's message: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould return the node's message.", success)
		}
	}
}

func Test_Genkey(t *testing.T) {
	t.Log("Given the need to create a miner key.")
	{
		t.Logf("\tTest 0:\tWhen generating a key file.")
		{
			file := filepath.Join(t.TempDir(), "miner.ecdsa")

			out, err := execute("genkey", "--file", file)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to generate a key: %s", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to generate a key.", success)

			if _, err := os.Stat(file); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould write the key file: %s", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould write the key file.", success)

			privateKey, err := crypto.LoadECDSA(file)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to load the key: %s", failed, err)
			}

			exp := crypto.PubkeyToAddress(privateKey.PublicKey).String()
			if strings.TrimSpace(out) != exp {
				t.Fatalf("\t%s\tTest 0:\tShould print the node id %s: %q", failed, exp, out)
			}
			t.Logf("\t%s\tTest 0:\tShould print the node id.", success)
		}
	}
}

package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/privacy-client/pkg/privacy"
)

// recordedRequest is what the fake API saw.
type recordedRequest struct {
	Method string
	Path   string
	Query  map[string]string
	Body   map[string]interface{}
}

// fakeAPI is an in-memory stand-in for the card API.
type fakeAPI struct {
	t *testing.T

	mu           sync.Mutex
	cards        []privacy.Card
	transactions []privacy.Transaction
	pageSize     int
	ignoreFilter bool
	omitTotals   bool
	requests     []recordedRequest
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()

	return &fakeAPI{t: t, pageSize: 2}
}

// NewTestClient starts the fake API and returns a client pointed at it.
func (f *fakeAPI) NewTestClient(env privacy.Environment) *Client {
	f.t.Helper()

	server := httptest.NewServer(f.handler())
	f.t.Cleanup(server.Close)

	client, err := New(&privacy.Config{
		APIKey:       "test-key",
		Environment:  env,
		BaseURL:      server.URL,
		RetryWaitMin: time.Millisecond,
		RetryWaitMax: 5 * time.Millisecond,
	})
	require.NoError(f.t, err)

	return client
}

func (f *fakeAPI) Requests() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]recordedRequest(nil), f.requests...)
}

func (f *fakeAPI) record(r *http.Request) map[string]interface{} {
	query := map[string]string{}
	for key := range r.URL.Query() {
		query[key] = r.URL.Query().Get(key)
	}

	var body map[string]interface{}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&body)
	}

	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{Method: r.Method, Path: r.URL.Path, Query: query, Body: body})
	f.mu.Unlock()

	return body
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /card", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)

		token := r.URL.Query().Get("card_token")

		f.mu.Lock()
		matched := make([]privacy.Card, 0, len(f.cards))
		for _, card := range f.cards {
			if f.ignoreFilter || token == "" || card.Token == token {
				matched = append(matched, card)
			}
		}
		f.mu.Unlock()

		writePage(w, r, matched, f.pageSize, f.omitTotals)
	})

	mux.HandleFunc("GET /transaction/{status}", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)

		status := r.PathValue("status")
		query := r.URL.Query()

		f.mu.Lock()
		matched := make([]privacy.Transaction, 0, len(f.transactions))
		for _, txn := range f.transactions {
			switch {
			case !f.ignoreFilter && query.Get("transaction_token") != "" && txn.Token != query.Get("transaction_token"):
			case !f.ignoreFilter && query.Get("card_token") != "" && txn.Card.Token != query.Get("card_token"):
			case status == "approvals" && txn.Result != privacy.ResultApproved:
			case status == "declines" && txn.Result == privacy.ResultApproved:
			default:
				matched = append(matched, txn)
			}
		}
		f.mu.Unlock()

		writePage(w, r, matched, f.pageSize, f.omitTotals)
	})

	mux.HandleFunc("POST /card", func(w http.ResponseWriter, r *http.Request) {
		body := f.record(r)

		card := privacy.Card{
			Token: "card-new",
			Type:  privacy.CardType(body["type"].(string)),
			State: privacy.CardStateOpen,
		}
		if memo, ok := body["memo"].(string); ok {
			card.Memo = memo
		}

		f.mu.Lock()
		f.cards = append(f.cards, card)
		f.mu.Unlock()

		writeJSON(w, http.StatusOK, card)
	})

	mux.HandleFunc("PUT /card", func(w http.ResponseWriter, r *http.Request) {
		body := f.record(r)
		token, _ := body["card_token"].(string)

		f.mu.Lock()
		defer f.mu.Unlock()

		for i := range f.cards {
			if f.cards[i].Token != token {
				continue
			}

			if state, ok := body["state"].(string); ok {
				if f.cards[i].State == privacy.CardStateClosed && state != string(privacy.CardStateClosed) {
					writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Card is closed"})

					return
				}

				f.cards[i].State = privacy.CardState(state)
			}

			if memo, ok := body["memo"].(string); ok {
				f.cards[i].Memo = memo
			}

			writeJSON(w, http.StatusOK, f.cards[i])

			return
		}

		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Card not found"})
	})

	mux.HandleFunc("POST /simulate/{action}", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)

		switch r.PathValue("action") {
		case "authorize", "return":
			writeJSON(w, http.StatusOK, privacy.SimulateResponse{Token: "sim-" + r.PathValue("action")})
		default:
			writeJSON(w, http.StatusOK, map[string]string{})
		}
	})

	mux.HandleFunc("GET /embed/card", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)

		query := r.URL.Query()
		if !privacy.VerifySignature("test-key", []byte(query.Get("embed_request")), query.Get("hmac")) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "bad hmac"})

			return
		}

		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<iframe>card</iframe>"))
	})

	return mux
}

// writePage serves one page of items. With omitTotals the response carries
// only data and page, so the client has to stop on an empty page.
func writePage[T any](w http.ResponseWriter, r *http.Request, items []T, defaultSize int, omitTotals bool) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}

	size, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	if size < 1 {
		size = defaultSize
	}

	totalPages := (len(items) + size - 1) / size

	start := (page - 1) * size
	end := min(start+size, len(items))

	data := []T{}
	if start < len(items) {
		data = items[start:end]
	}

	if omitTotals {
		writeJSON(w, http.StatusOK, map[string]interface{}{"data": data, "page": page})

		return
	}

	writeJSON(w, http.StatusOK, privacy.Page[T]{
		Data:         data,
		Page:         page,
		TotalEntries: len(items),
		TotalPages:   totalPages,
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func sampleCards(n int) []privacy.Card {
	cards := make([]privacy.Card, 0, n)
	for i := 1; i <= n; i++ {
		cards = append(cards, privacy.Card{
			Token: "card-" + strconv.Itoa(i),
			Type:  privacy.CardTypeMerchantLocked,
			State: privacy.CardStateOpen,
			Memo:  "card " + strconv.Itoa(i),
		})
	}

	return cards
}

func sampleTransactions() []privacy.Transaction {
	return []privacy.Transaction{
		{Token: "txn-1", Card: privacy.Card{Token: "card-1"}, Result: privacy.ResultApproved, Amount: 100},
		{Token: "txn-2", Card: privacy.Card{Token: "card-2"}, Result: privacy.ResultApproved, Amount: 200},
		{Token: "txn-3", Card: privacy.Card{Token: "card-1"}, Result: privacy.ResultInsufficientFunds, Amount: 300},
		{Token: "txn-4", Card: privacy.Card{Token: "card-1"}, Result: privacy.ResultApproved, Amount: 400},
		{Token: "txn-5", Card: privacy.Card{Token: "card-3"}, Result: privacy.ResultCardPaused, Amount: 500},
	}
}

func transactionTokens(txns []privacy.Transaction) []string {
	out := make([]string, 0, len(txns))
	for _, txn := range txns {
		out = append(out, txn.Token)
	}

	return out
}

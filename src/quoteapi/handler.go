package quoteapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/schema"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/jiaming2012/quote-builder/src/eventmodels"
	"github.com/jiaming2012/quote-builder/src/quotesession"
)

var decoder = newSchemaDecoder()

func newSchemaDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}

type handler struct {
	store *quotesession.Store
}

// SetupHandler mounts the session routes on router, typically the /sessions subrouter.
func SetupHandler(router *mux.Router, prefix string, store *quotesession.Store) {
	h := &handler{store: store}

	handle := func(path string, f http.HandlerFunc, methods ...string) {
		router.Handle(path, otelhttp.WithRouteTag(prefix+path, f)).Methods(methods...)
	}

	handle("", h.createSession, http.MethodPost)
	handle("/{id}", h.getSession, http.MethodGet)
	handle("/{id}", h.deleteSession, http.MethodDelete)
	handle("/{id}/quotes", h.getQuotes, http.MethodGet)
	handle("/{id}/quotes", h.addQuote, http.MethodPost)
	handle("/{id}/quotes", h.clearQuotes, http.MethodDelete)
	handle("/{id}/quotes/{groupID}", h.removeGroup, http.MethodDelete)
	handle("/{id}/quotes/{groupID}/payout-ccy", h.changePayoutCcy, http.MethodPut)
	handle("/{id}/counterparty", h.reassignCounterparty, http.MethodPut)
	handle("/{id}/quote-expiry", h.changeQuoteExpiry, http.MethodPut)
	handle("/{id}/totals", h.getTotals, http.MethodGet)
	handle("/{id}/submit", h.submit, http.MethodPost)
}

func (h *handler) session(w http.ResponseWriter, r *http.Request, errType string) (*quotesession.Session, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		setErrorResponse(fmt.Sprintf("%s: failed to parse session id", errType), http.StatusBadRequest, err, w)
		return nil, false
	}

	session, err := h.store.Get(id)
	if err != nil {
		setEngineErrorResponse(errType, err, w)
		return nil, false
	}

	return session, true
}

func groupID(w http.ResponseWriter, r *http.Request, errType string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["groupID"])
	if err != nil {
		setErrorResponse(fmt.Sprintf("%s: failed to parse group id", errType), http.StatusBadRequest, err, w)
		return uuid.Nil, false
	}

	return id, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, errType string, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		setErrorResponse(fmt.Sprintf("%s: failed to decode request", errType), http.StatusBadRequest, err, w)
		return false
	}

	return true
}

func sessionResponse(s *quotesession.Session) SessionResponse {
	return SessionResponse{
		ID:             s.ID,
		CreatedAt:      s.CreatedAt,
		CounterpartyID: s.CounterpartyID(),
		Legs:           s.Len(),
	}
}

func (h *handler) createSession(w http.ResponseWriter, r *http.Request) {
	session := h.store.Create(r.Context())
	setResponseWithStatus(http.StatusCreated, sessionResponse(session), w)
}

func (h *handler) getSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r, "getSession")
	if !ok {
		return
	}

	setResponse(sessionResponse(session), w)
}

func (h *handler) deleteSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r, "deleteSession")
	if !ok {
		return
	}

	if err := h.store.Delete(session.ID); err != nil {
		setEngineErrorResponse("deleteSession", err, w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) getQuotes(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r, "getQuotes")
	if !ok {
		return
	}

	var filter QuoteFilter
	if err := decoder.Decode(&filter, r.URL.Query()); err != nil {
		setErrorResponse("getQuotes: failed to decode filter", http.StatusBadRequest, err, w)
		return
	}

	quotes := []eventmodels.Quote{}
	for _, q := range session.Quotes() {
		if filter.Match(q) {
			quotes = append(quotes, q)
		}
	}

	remaining, err := session.TimeRemaining()
	if err != nil {
		setEngineErrorResponse("getQuotes", err, w)
		return
	}

	setResponse(QuotesResponse{Quotes: quotes, TimeRemaining: remaining}, w)
}

func (h *handler) addQuote(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r, "addQuote")
	if !ok {
		return
	}

	var req quotesession.AddQuoteRequest
	if !decodeBody(w, r, "addQuote", &req) {
		return
	}

	pair, err := session.AddQuote(r.Context(), req)
	if err != nil {
		setEngineErrorResponse("addQuote", err, w)
		return
	}

	setResponseWithStatus(http.StatusCreated, pair, w)
}

func (h *handler) clearQuotes(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r, "clearQuotes")
	if !ok {
		return
	}

	session.Clear()
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) removeGroup(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r, "removeGroup")
	if !ok {
		return
	}

	id, ok := groupID(w, r, "removeGroup")
	if !ok {
		return
	}

	if err := session.RemoveGroup(id); err != nil {
		setEngineErrorResponse("removeGroup", err, w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) changePayoutCcy(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r, "changePayoutCcy")
	if !ok {
		return
	}

	id, ok := groupID(w, r, "changePayoutCcy")
	if !ok {
		return
	}

	var req ChangePayoutCcyRequest
	if !decodeBody(w, r, "changePayoutCcy", &req) {
		return
	}

	if err := session.ChangePayoutCcy(id, req.PayoutCcy); err != nil {
		setEngineErrorResponse("changePayoutCcy", err, w)
		return
	}

	setResponse(QuotesResponse{Quotes: session.Quotes()}, w)
}

func (h *handler) reassignCounterparty(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r, "reassignCounterparty")
	if !ok {
		return
	}

	var req ReassignCounterpartyRequest
	if !decodeBody(w, r, "reassignCounterparty", &req) {
		return
	}

	if err := session.ReassignCounterparty(r.Context(), req.CounterpartyID); err != nil {
		setEngineErrorResponse("reassignCounterparty", err, w)
		return
	}

	setResponse(QuotesResponse{Quotes: session.Quotes()}, w)
}

func (h *handler) changeQuoteExpiry(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r, "changeQuoteExpiry")
	if !ok {
		return
	}

	var req ChangeQuoteExpiryRequest
	if !decodeBody(w, r, "changeQuoteExpiry", &req) {
		return
	}

	session.ChangeQuoteExpiry(req.Minutes)
	setResponse(QuotesResponse{Quotes: session.Quotes()}, w)
}

func (h *handler) getTotals(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r, "getTotals")
	if !ok {
		return
	}

	var query TotalsQuery
	if err := decoder.Decode(&query, r.URL.Query()); err != nil {
		setErrorResponse("getTotals: failed to decode query", http.StatusBadRequest, err, w)
		return
	}

	pairID := eventmodels.CurrencyPairID(query.PairID)

	totals, err := session.Totals(pairID)
	if err != nil {
		setEngineErrorResponse("getTotals", err, w)
		return
	}

	setResponse(TotalsResponse{PairID: pairID, Totals: totals}, w)
}

func (h *handler) submit(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r, "submit")
	if !ok {
		return
	}

	quotes, err := session.Submit(r.Context())
	if err != nil {
		setEngineErrorResponse("submit", err, w)
		return
	}

	if quotes == nil {
		quotes = []eventmodels.Quote{}
	}

	setResponse(SubmitResponse{Submitted: len(quotes), Quotes: quotes}, w)
}

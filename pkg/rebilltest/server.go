package rebilltest

import (
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/platinummonkey/rebill/pkg/model"
	"github.com/platinummonkey/rebill/pkg/wire"
)

// Server is a fake billing provider backed by in-memory state.
type Server struct {
	apiKey string
	http   *httptest.Server

	mu            sync.Mutex
	accounts      map[string]*model.Account
	accountOrder  []string
	billing       map[string]*model.BillingInfo
	plans         map[string]*model.Plan
	planOrder     []string
	subscriptions map[string]*model.Subscription
}

// NewServer starts a fake provider that accepts the given API key.
func NewServer(apiKey string) *Server {
	s := &Server{
		apiKey:        apiKey,
		accounts:      make(map[string]*model.Account),
		billing:       make(map[string]*model.BillingInfo),
		plans:         make(map[string]*model.Plan),
		subscriptions: make(map[string]*model.Subscription),
	}

	r := mux.NewRouter()
	v2 := r.PathPrefix("/v2").Subrouter()
	v2.Use(s.requireAuth)
	v2.HandleFunc("/accounts", s.createAccount).Methods(http.MethodPost)
	v2.HandleFunc("/accounts", s.listAccounts).Methods(http.MethodGet)
	v2.HandleFunc("/accounts/{code}", s.getAccount).Methods(http.MethodGet)
	v2.HandleFunc("/accounts/{code}/billing_info", s.upsertBillingInfo).Methods(http.MethodPut)
	v2.HandleFunc("/accounts/{code}/billing_info", s.getBillingInfo).Methods(http.MethodGet)
	v2.HandleFunc("/plans", s.createPlan).Methods(http.MethodPost)
	v2.HandleFunc("/plans", s.listPlans).Methods(http.MethodGet)
	v2.HandleFunc("/plans/{code}", s.getPlan).Methods(http.MethodGet)
	v2.HandleFunc("/subscriptions", s.createSubscription).Methods(http.MethodPost)
	v2.HandleFunc("/subscriptions/{uuid}", s.getSubscription).Methods(http.MethodGet)

	s.http = httptest.NewServer(r)
	return s
}

// BaseURL returns the versioned base URL clients should point at.
func (s *Server) BaseURL() string {
	return s.http.URL + "/v2"
}

// Close shuts the fake provider down.
func (s *Server) Close() {
	s.http.Close()
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	want := "Basic " + base64.StdEncoding.EncodeToString([]byte(s.apiKey+":"))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != want {
			s.writeFault(w, http.StatusUnauthorized, "unauthorized", "invalid API key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) writeFault(w http.ResponseWriter, status int, symbol, description string) {
	f := &model.Fault{Symbol: symbol}
	if description != "" {
		f.Description.Set(description)
	}
	body, err := wire.EncodeResponseBytes(f)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.WriteHeader(status)
	w.Write(body)
}

func (s *Server) writeEntity(w http.ResponseWriter, status int, e wire.Entity) {
	body, err := wire.EncodeResponseBytes(e)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.WriteHeader(status)
	w.Write(body)
}

func (s *Server) writeList(w http.ResponseWriter, c wire.Collection) {
	body, err := wire.EncodeListBytes(c)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Write(body)
}

func (s *Server) readEntity(w http.ResponseWriter, r *http.Request, e wire.Entity) bool {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return false
	}
	if err := wire.Decode(data, e); err != nil {
		s.writeFault(w, http.StatusUnprocessableEntity, "invalid_document", err.Error())
		return false
	}
	return true
}

// page slices keys down to the requested page, mirroring the provider's
// per_page/page query parameters.
func page(r *http.Request, keys []string) []string {
	return pageSlice(keys, queryInt(r, "per_page", 50), queryInt(r, "page", 1))
}

func pageSlice(keys []string, perPage, pageNum int) []string {
	start := (pageNum - 1) * perPage
	if start >= len(keys) {
		return nil
	}
	end := start + perPage
	if end > len(keys) {
		end = len(keys)
	}
	return keys[start:end]
}

func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return def
	}
	return n
}

func (s *Server) createAccount(w http.ResponseWriter, r *http.Request) {
	account := &model.Account{}
	if !s.readEntity(w, r, account) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[account.AccountCode]; exists {
		s.writeFault(w, http.StatusUnprocessableEntity, "taken", "account code has already been taken")
		return
	}
	account.CreatedAt.Set(time.Now().UTC().Truncate(time.Second))
	s.accounts[account.AccountCode] = account
	s.accountOrder = append(s.accountOrder, account.AccountCode)

	s.writeEntity(w, http.StatusCreated, account)
}

func (s *Server) getAccount(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[code]
	if !ok {
		s.writeFault(w, http.StatusNotFound, "not_found", "account not found")
		return
	}
	s.writeEntity(w, http.StatusOK, account)
}

func (s *Server) listAccounts(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	accounts := &model.Accounts{}
	for _, code := range page(r, s.accountOrder) {
		accounts.Items = append(accounts.Items, s.accounts[code])
	}
	s.writeList(w, accounts)
}

// cardType derives the card brand from the leading digit of the number, the
// way the provider reports it back on billing info responses.
func cardType(number string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)
	switch {
	case strings.HasPrefix(digits, "4"):
		return "Visa"
	case strings.HasPrefix(digits, "5"):
		return "MasterCard"
	case strings.HasPrefix(digits, "3"):
		return "American Express"
	default:
		return "Unknown"
	}
}

func (s *Server) upsertBillingInfo(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	info := &model.BillingInfo{}
	if !s.readEntity(w, r, info) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[code]; !ok {
		s.writeFault(w, http.StatusNotFound, "not_found", "account not found")
		return
	}
	if number, ok := info.Number.Get(); ok {
		info.CardType.Set(cardType(number))
	}
	info.AccountCode = code
	s.billing[code] = info

	s.writeEntity(w, http.StatusOK, maskBillingInfo(info))
}

func (s *Server) getBillingInfo(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	s.mu.Lock()
	defer s.mu.Unlock()
	info, ok := s.billing[code]
	if !ok {
		s.writeFault(w, http.StatusNotFound, "not_found", "billing info not found")
		return
	}
	s.writeEntity(w, http.StatusOK, maskBillingInfo(info))
}

// maskBillingInfo strips the card number and verification value, which the
// provider never echoes back.
func maskBillingInfo(info *model.BillingInfo) *model.BillingInfo {
	masked := *info
	masked.Number.Clear()
	masked.VerificationValue.Clear()
	return &masked
}

func (s *Server) createPlan(w http.ResponseWriter, r *http.Request) {
	plan := &model.Plan{}
	if !s.readEntity(w, r, plan) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.plans[plan.PlanCode]; exists {
		s.writeFault(w, http.StatusUnprocessableEntity, "taken", "plan code has already been taken")
		return
	}
	plan.CreatedAt.Set(time.Now().UTC().Truncate(time.Second))
	s.plans[plan.PlanCode] = plan
	s.planOrder = append(s.planOrder, plan.PlanCode)

	s.writeEntity(w, http.StatusCreated, plan)
}

func (s *Server) getPlan(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	s.mu.Lock()
	defer s.mu.Unlock()
	plan, ok := s.plans[code]
	if !ok {
		s.writeFault(w, http.StatusNotFound, "not_found", "plan not found")
		return
	}
	s.writeEntity(w, http.StatusOK, plan)
}

func (s *Server) listPlans(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	plans := &model.Plans{}
	for _, code := range page(r, s.planOrder) {
		plans.Items = append(plans.Items, s.plans[code])
	}
	s.writeList(w, plans)
}

func (s *Server) createSubscription(w http.ResponseWriter, r *http.Request) {
	sub := &model.Subscription{}
	if !s.readEntity(w, r, sub) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.plans[sub.PlanCode]; !ok {
		s.writeFault(w, http.StatusNotFound, "not_found", "plan not found")
		return
	}
	if sub.Account == nil {
		s.writeFault(w, http.StatusUnprocessableEntity, "account_required", "subscription requires an embedded account")
		return
	}
	account, ok := s.accounts[sub.Account.AccountCode]
	if !ok {
		s.writeFault(w, http.StatusNotFound, "not_found", "account not found")
		return
	}

	sub.Account = account
	sub.UUID.Set(strings.ReplaceAll(uuid.NewString(), "-", ""))
	sub.State.Set("active")
	sub.ActivatedAt.Set(time.Now().UTC().Truncate(time.Second))
	s.subscriptions[sub.UUID.OrZero()] = sub

	s.writeEntity(w, http.StatusCreated, sub)
}

func (s *Server) getSubscription(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["uuid"]

	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.subscriptions[id]
	if !ok {
		s.writeFault(w, http.StatusNotFound, "not_found", "subscription not found")
		return
	}
	s.writeEntity(w, http.StatusOK, sub)
}

// Package handlers implements the REST endpoints backing the mobile app:
// transactions, categories, savings goals, and profile registration.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"cloud.google.com/go/civil"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Hemanthlepcha/budget-tracker-app/internal/api/middleware"
	"github.com/Hemanthlepcha/budget-tracker-app/internal/domain"
	"github.com/Hemanthlepcha/budget-tracker-app/internal/store"
)

const defaultListLimit = 100

// transactionPayload is the wire shape for transaction create/update.
type transactionPayload struct {
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
	Type     string  `json:"type"`
	Date     string  `json:"date"`
	Merchant string  `json:"merchant"`
	Notes    string  `json:"notes"`
}

type transactionResponse struct {
	ID        string    `json:"id"`
	Amount    float64   `json:"amount"`
	Category  string    `json:"category"`
	Type      string    `json:"type"`
	Date      string    `json:"date"`
	Merchant  string    `json:"merchant"`
	Notes     string    `json:"notes,omitempty"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

func toTransactionResponse(t *domain.Transaction) transactionResponse {
	return transactionResponse{
		ID:        t.ID,
		Amount:    t.Amount,
		Category:  t.Category,
		Type:      string(t.Type),
		Date:      t.Date.String(),
		Merchant:  t.Merchant,
		Notes:     t.Notes,
		Source:    string(t.Source),
		CreatedAt: t.CreatedAt,
	}
}

func parseTransactionType(s string) (domain.TransactionType, bool) {
	switch domain.TransactionType(s) {
	case domain.TypeIncome:
		return domain.TypeIncome, true
	case domain.TypeExpense:
		return domain.TypeExpense, true
	}
	return "", false
}

// TransactionsHandler handles transaction CRUD and summaries.
type TransactionsHandler struct {
	repo *store.TransactionRepo
	log  zerolog.Logger
}

// NewTransactionsHandler creates a new transactions handler.
func NewTransactionsHandler(repo *store.TransactionRepo, log zerolog.Logger) *TransactionsHandler {
	return &TransactionsHandler{repo: repo, log: log}
}

// List handles GET /api/transactions
func (h *TransactionsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.UserID(ctx)

	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			middleware.WriteError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	transactions, err := h.repo.List(ctx, userID, limit)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list transactions")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list transactions")
		return
	}

	out := make([]transactionResponse, 0, len(transactions))
	for i := range transactions {
		out = append(out, toTransactionResponse(&transactions[i]))
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"transactions": out,
		"count":        len(out),
	})
}

// Create handles POST /api/transactions
func (h *TransactionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.UserID(ctx)

	var req transactionPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Amount <= 0 {
		middleware.WriteError(w, http.StatusBadRequest, "amount must be positive")
		return
	}
	txType, ok := parseTransactionType(req.Type)
	if !ok {
		middleware.WriteError(w, http.StatusBadRequest, "type must be 'income' or 'expense'")
		return
	}

	date := civil.DateOf(time.Now())
	if req.Date != "" {
		parsed, err := civil.ParseDate(req.Date)
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		date = parsed
	}

	tx := &domain.Transaction{
		ID:       uuid.NewString(),
		UserID:   userID,
		Amount:   req.Amount,
		Category: req.Category,
		Type:     txType,
		Date:     date,
		Merchant: req.Merchant,
		Notes:    req.Notes,
		Source:   domain.SourceManual,
	}
	if err := h.repo.Insert(ctx, tx); err != nil {
		h.log.Error().Err(err).Msg("Failed to create transaction")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to create transaction")
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, toTransactionResponse(tx))
}

// Update handles PUT /api/transactions/{id}
func (h *TransactionsHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.UserID(ctx)
	id := chi.URLParam(r, "id")

	existing, err := h.repo.Get(ctx, userID, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			middleware.WriteError(w, http.StatusNotFound, "Transaction not found")
			return
		}
		h.log.Error().Err(err).Msg("Failed to load transaction")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to update transaction")
		return
	}

	var req transactionPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Amount <= 0 {
		middleware.WriteError(w, http.StatusBadRequest, "amount must be positive")
		return
	}
	txType, ok := parseTransactionType(req.Type)
	if !ok {
		middleware.WriteError(w, http.StatusBadRequest, "type must be 'income' or 'expense'")
		return
	}
	date, err := civil.ParseDate(req.Date)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	existing.Amount = req.Amount
	existing.Category = req.Category
	existing.Type = txType
	existing.Date = date
	existing.Merchant = req.Merchant
	existing.Notes = req.Notes

	if err := h.repo.Update(ctx, existing); err != nil {
		h.log.Error().Err(err).Msg("Failed to update transaction")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to update transaction")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, toTransactionResponse(existing))
}

// Delete handles DELETE /api/transactions/{id}
func (h *TransactionsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.UserID(ctx)
	id := chi.URLParam(r, "id")

	if err := h.repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			middleware.WriteError(w, http.StatusNotFound, "Transaction not found")
			return
		}
		h.log.Error().Err(err).Msg("Failed to delete transaction")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to delete transaction")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Summary handles GET /api/transactions/summary
// Defaults to the current calendar month when from/to are omitted.
func (h *TransactionsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.UserID(ctx)

	today := civil.DateOf(time.Now())
	from := civil.Date{Year: today.Year, Month: today.Month, Day: 1}
	to := today

	var err error
	if raw := r.URL.Query().Get("from"); raw != "" {
		if from, err = civil.ParseDate(raw); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "from must be YYYY-MM-DD")
			return
		}
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		if to, err = civil.ParseDate(raw); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "to must be YYYY-MM-DD")
			return
		}
	}

	income, expense, err := h.repo.Summary(ctx, userID, from, to)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to compute summary")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to compute summary")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"from":    from.String(),
		"to":      to.String(),
		"income":  income,
		"expense": expense,
		"balance": income - expense,
	})
}

// categoryPayload is the wire shape for category create/update.
type categoryPayload struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Color string `json:"color"`
	Order int    `json:"order"`
}

type categoryResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Type  string `json:"type"`
	Color string `json:"color"`
	Order int    `json:"order"`
}

func toCategoryResponse(c *domain.Category) categoryResponse {
	return categoryResponse{
		ID:    c.ID,
		Name:  c.Name,
		Type:  string(c.Type),
		Color: c.Color,
		Order: c.Order,
	}
}

// CategoriesHandler handles category CRUD.
type CategoriesHandler struct {
	repo *store.CategoryRepo
	log  zerolog.Logger
}

// NewCategoriesHandler creates a new categories handler.
func NewCategoriesHandler(repo *store.CategoryRepo, log zerolog.Logger) *CategoriesHandler {
	return &CategoriesHandler{repo: repo, log: log}
}

// List handles GET /api/categories
func (h *CategoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.UserID(ctx)

	categories, err := h.repo.List(ctx, userID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list categories")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list categories")
		return
	}

	out := make([]categoryResponse, 0, len(categories))
	for i := range categories {
		out = append(out, toCategoryResponse(&categories[i]))
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"categories": out,
		"count":      len(out),
	})
}

// Create handles POST /api/categories
func (h *CategoriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.UserID(ctx)

	var req categoryPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		middleware.WriteError(w, http.StatusBadRequest, "name is required")
		return
	}
	catType, ok := parseTransactionType(req.Type)
	if !ok {
		middleware.WriteError(w, http.StatusBadRequest, "type must be 'income' or 'expense'")
		return
	}

	order := req.Order
	if order == 0 {
		maxOrder, err := h.repo.MaxOrder(ctx, userID, catType)
		if err != nil {
			h.log.Error().Err(err).Msg("Failed to read category order")
			middleware.WriteError(w, http.StatusInternalServerError, "Failed to create category")
			return
		}
		order = maxOrder + 1
	}

	cat := &domain.Category{
		ID:     uuid.NewString(),
		UserID: userID,
		Name:   req.Name,
		Type:   catType,
		Color:  req.Color,
		Order:  order,
	}
	if err := h.repo.Create(ctx, cat); err != nil {
		h.log.Error().Err(err).Msg("Failed to create category")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to create category")
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, toCategoryResponse(cat))
}

// Update handles PUT /api/categories/{id}
func (h *CategoriesHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.UserID(ctx)
	id := chi.URLParam(r, "id")

	var req categoryPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	catType, ok := parseTransactionType(req.Type)
	if !ok {
		middleware.WriteError(w, http.StatusBadRequest, "type must be 'income' or 'expense'")
		return
	}

	cat := &domain.Category{
		ID:     id,
		UserID: userID,
		Name:   req.Name,
		Type:   catType,
		Color:  req.Color,
		Order:  req.Order,
	}
	if err := h.repo.Update(ctx, cat); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			middleware.WriteError(w, http.StatusNotFound, "Category not found")
			return
		}
		h.log.Error().Err(err).Msg("Failed to update category")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to update category")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, toCategoryResponse(cat))
}

// Delete handles DELETE /api/categories/{id}
func (h *CategoriesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.UserID(ctx)
	id := chi.URLParam(r, "id")

	if err := h.repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			middleware.WriteError(w, http.StatusNotFound, "Category not found")
			return
		}
		h.log.Error().Err(err).Msg("Failed to delete category")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to delete category")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// goalPayload is the wire shape for the savings goal upsert.
type goalPayload struct {
	Name          string  `json:"name"`
	TargetAmount  float64 `json:"target_amount"`
	CurrentAmount float64 `json:"current_amount"`
	Deadline      string  `json:"deadline"`
}

type goalResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	TargetAmount  float64 `json:"target_amount"`
	CurrentAmount float64 `json:"current_amount"`
	Deadline      string  `json:"deadline,omitempty"`
}

// GoalsHandler handles the per-account savings goal.
type GoalsHandler struct {
	repo *store.GoalRepo
	log  zerolog.Logger
}

// NewGoalsHandler creates a new goals handler.
func NewGoalsHandler(repo *store.GoalRepo, log zerolog.Logger) *GoalsHandler {
	return &GoalsHandler{repo: repo, log: log}
}

// Get handles GET /api/goal
func (h *GoalsHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.UserID(ctx)

	goal, err := h.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			middleware.WriteError(w, http.StatusNotFound, "No savings goal set")
			return
		}
		h.log.Error().Err(err).Msg("Failed to load savings goal")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to load savings goal")
		return
	}

	resp := goalResponse{
		ID:            goal.ID,
		Name:          goal.Name,
		TargetAmount:  goal.TargetAmount,
		CurrentAmount: goal.CurrentAmount,
	}
	if goal.Deadline.IsValid() {
		resp.Deadline = goal.Deadline.String()
	}
	middleware.WriteJSON(w, http.StatusOK, resp)
}

// Upsert handles PUT /api/goal
func (h *GoalsHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.UserID(ctx)

	var req goalPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.TargetAmount <= 0 {
		middleware.WriteError(w, http.StatusBadRequest, "target_amount must be positive")
		return
	}

	goal := &domain.SavingsGoal{
		ID:            uuid.NewString(),
		UserID:        userID,
		Name:          req.Name,
		TargetAmount:  req.TargetAmount,
		CurrentAmount: req.CurrentAmount,
	}
	if req.Deadline != "" {
		deadline, err := civil.ParseDate(req.Deadline)
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "deadline must be YYYY-MM-DD")
			return
		}
		goal.Deadline = deadline
	}

	if err := h.repo.Upsert(ctx, goal); err != nil {
		h.log.Error().Err(err).Msg("Failed to save savings goal")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to save savings goal")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

// profilePayload is the wire shape for phone registration.
type profilePayload struct {
	PhoneNumber     string `json:"phone_number"`
	WhatsAppEnabled bool   `json:"whatsapp_enabled"`
}

// ProfileHandler handles phone registration for the WhatsApp channel.
type ProfileHandler struct {
	repo *store.ProfileRepo
	log  zerolog.Logger
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(repo *store.ProfileRepo, log zerolog.Logger) *ProfileHandler {
	return &ProfileHandler{repo: repo, log: log}
}

// Get handles GET /api/profile
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.UserID(ctx)

	acct, err := h.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			middleware.WriteError(w, http.StatusNotFound, "Profile not found")
			return
		}
		h.log.Error().Err(err).Msg("Failed to load profile")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to load profile")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"user_id":          acct.UserID,
		"phone_number":     acct.PhoneNumber,
		"whatsapp_enabled": acct.WhatsAppEnabled,
	})
}

// Upsert handles PUT /api/profile
func (h *ProfileHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.UserID(ctx)

	var req profilePayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.WhatsAppEnabled && req.PhoneNumber == "" {
		middleware.WriteError(w, http.StatusBadRequest, "phone_number is required to enable WhatsApp")
		return
	}

	acct := &domain.Account{
		UserID:          userID,
		PhoneNumber:     req.PhoneNumber,
		WhatsAppEnabled: req.WhatsAppEnabled,
	}
	if err := h.repo.Upsert(ctx, acct); err != nil {
		h.log.Error().Err(err).Msg("Failed to save profile")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to save profile")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

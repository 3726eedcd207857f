package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/agrichain/agrichain/internal/domain"
)

// ListAdvisoryRules returns stored advisory rules, or the loaded set
// when no repository is configured.
func (h *Handler) ListAdvisoryRules(w http.ResponseWriter, r *http.Request) {
	if h.svc.Repo == nil {
		var loaded []*domain.AdvisoryRule
		if h.svc.Rules != nil {
			loaded = h.svc.Rules.GetLoadedRules()
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"rules":  loaded,
			"count":  len(loaded),
			"source": "engine",
		})
		return
	}

	stored, err := h.svc.Repo.ListAdvisoryRules(r.Context())
	if err != nil {
		h.writeError(w, r, "list advisory rules", err)
		return
	}
	loaded := 0
	if h.svc.Rules != nil {
		loaded = h.svc.Rules.RulesCount()
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"rules":  stored,
		"count":  len(stored),
		"loaded": loaded,
		"source": "database",
	})
}

// CreateAdvisoryRuleRequest is the request body for creating an advisory rule.
type CreateAdvisoryRuleRequest struct {
	ID          string          `json:"id,omitempty"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Expression  string          `json:"expression"`
	Message     string          `json:"message"`
	Severity    domain.RiskTier `json:"severity"`
	Enabled     *bool           `json:"enabled,omitempty"`
}

// CreateAdvisoryRule validates and stores an advisory rule.
// Call POST /advisory-rules/reload to apply it.
func (h *Handler) CreateAdvisoryRule(w http.ResponseWriter, r *http.Request) {
	if h.svc.Repo == nil || h.svc.Rules == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody("advisory rules not available"))
		return
	}

	var req CreateAdvisoryRuleRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Expression) == "" || strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("name, expression, and message are required"))
		return
	}
	switch req.Severity {
	case "":
		req.Severity = domain.TierMedium
	case domain.TierLow, domain.TierMedium, domain.TierHigh:
	default:
		writeJSON(w, http.StatusBadRequest, errorBody("severity must be Low, Medium or High"))
		return
	}

	rule := &domain.AdvisoryRule{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
		Expression:  req.Expression,
		Message:     req.Message,
		Severity:    req.Severity,
		Enabled:     req.Enabled == nil || *req.Enabled,
	}
	if rule.ID == "" {
		rule.ID = uuid.New().String()
	}

	if err := h.svc.Rules.ValidateRule(rule); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid CEL expression: "+err.Error()))
		return
	}

	if err := h.svc.Repo.SaveAdvisoryRule(r.Context(), rule); err != nil {
		h.writeError(w, r, "save advisory rule", err)
		return
	}

	h.logger.Info("advisory rule created", "id", rule.ID, "name", rule.Name)
	writeJSON(w, http.StatusCreated, map[string]any{
		"rule":    rule,
		"message": "Rule created. Call POST /advisory-rules/reload to apply changes.",
	})
}

// DeleteAdvisoryRule soft-deletes an advisory rule.
func (h *Handler) DeleteAdvisoryRule(w http.ResponseWriter, r *http.Request) {
	if h.svc.Repo == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody("repository not available"))
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.svc.Repo.DeleteAdvisoryRule(r.Context(), id); err != nil {
		h.writeError(w, r, "delete advisory rule", err)
		return
	}

	h.logger.Info("advisory rule deleted", "id", id)
	writeJSON(w, http.StatusOK, map[string]string{
		"deleted": id,
		"message": "Rule deleted. Call POST /advisory-rules/reload to apply changes.",
	})
}

// ReloadAdvisoryRules reloads enabled rules from the database into the
// engine without a restart.
func (h *Handler) ReloadAdvisoryRules(w http.ResponseWriter, r *http.Request) {
	if h.svc.Repo == nil || h.svc.Rules == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody("advisory rules not available"))
		return
	}

	n, err := h.svc.Rules.Reload(r.Context(), h.svc.Repo)
	if err != nil {
		h.logger.Error("failed to reload advisory rules", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody("failed to reload rules: "+err.Error()))
		return
	}

	h.logger.Info("advisory rules reloaded", "count", n)
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "rules reloaded successfully",
		"count":   n,
	})
}

package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/coffeeassessoria/sparkboard-automation/internal/model"
	"github.com/coffeeassessoria/sparkboard-automation/internal/store"
)

type RuleHandler struct {
	rules    store.RuleStore
	logger   *zap.Logger
	validate *validator.Validate
}

func NewRuleHandler(rules store.RuleStore, logger *zap.Logger) *RuleHandler {
	return &RuleHandler{
		rules:    rules,
		logger:   logger,
		validate: validator.New(),
	}
}

type createRuleRequest struct {
	Name        string         `json:"name" validate:"required"`
	Description string         `json:"description"`
	Trigger     model.Trigger  `json:"trigger"`
	Actions     []model.Action `json:"actions" validate:"required,min=1,dive"`
	IsActive    *bool          `json:"is_active"`
}

type updateRuleRequest struct {
	Name        *string        `json:"name,omitempty"`
	Description *string        `json:"description,omitempty"`
	Trigger     *model.Trigger `json:"trigger,omitempty"`
	Actions     []model.Action `json:"actions,omitempty" validate:"omitempty,dive"`
	IsActive    *bool          `json:"is_active,omitempty"`
}

func (h *RuleHandler) ListRules(c *gin.Context) {
	rules, err := h.rules.List(c.Request.Context())
	if err != nil {
		h.logger.Error("ListRules: failed to fetch rules", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch rules"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"rules": rules})
}

func (h *RuleHandler) CreateRule(c *gin.Context) {
	var req createRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("CreateRule: invalid body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(req); err != nil {
		h.logger.Warn("CreateRule: validation failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := validateActionParams(req.Actions); err != nil {
		h.logger.Warn("CreateRule: invalid actions", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	rule, err := h.rules.Add(c.Request.Context(), model.AutomationRule{
		Name:        req.Name,
		Description: req.Description,
		Trigger:     req.Trigger,
		Actions:     req.Actions,
		IsActive:    isActive,
	})
	if err != nil {
		h.logger.Error("CreateRule: failed to store rule", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store rule"})
		return
	}

	h.logger.Info("Rule created",
		zap.String("rule_id", rule.ID),
		zap.String("name", rule.Name),
		zap.String("trigger", string(rule.Trigger.Type)),
	)
	c.JSON(http.StatusCreated, gin.H{"rule": rule})
}

func (h *RuleHandler) UpdateRule(c *gin.Context) {
	id := c.Param("id")

	var req updateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("UpdateRule: invalid body", zap.String("rule_id", id), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Actions != nil {
		if err := validateActionParams(req.Actions); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	ok, err := h.rules.Update(c.Request.Context(), id, store.RulePatch{
		Name:        req.Name,
		Description: req.Description,
		Trigger:     req.Trigger,
		Actions:     req.Actions,
		IsActive:    req.IsActive,
	})
	if err != nil {
		h.logger.Error("UpdateRule: failed to update rule", zap.String("rule_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update rule"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "rule not found"})
		return
	}

	h.logger.Info("Rule updated", zap.String("rule_id", id))
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *RuleHandler) DeleteRule(c *gin.Context) {
	id := c.Param("id")

	ok, err := h.rules.Remove(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("DeleteRule: failed to delete rule", zap.String("rule_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete rule"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "rule not found"})
		return
	}

	h.logger.Info("Rule deleted", zap.String("rule_id", id))
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *RuleHandler) ToggleRule(c *gin.Context) {
	id := c.Param("id")

	ok, err := h.rules.ToggleActive(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("ToggleRule: failed to toggle rule", zap.String("rule_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to toggle rule"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "rule not found"})
		return
	}

	h.logger.Info("Rule toggled", zap.String("rule_id", id))
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// validateActionParams enforces the tagged union: every action must carry the
// parameter struct matching its type.
func validateActionParams(actions []model.Action) error {
	for i, a := range actions {
		var ok bool
		switch a.Type {
		case model.ActionSendNotification:
			ok = a.Notification != nil
		case model.ActionAssignUser:
			ok = a.Assignment != nil
		case model.ActionChangeStatus:
			ok = a.Status != nil
		case model.ActionAddTag:
			ok = a.Tag != nil
		case model.ActionSendEmail:
			ok = a.Email != nil
		}
		if !ok {
			return fmt.Errorf("action %d (%s) is missing its parameters", i, a.Type)
		}
	}
	return nil
}

// Package httpapi exposes the account engine as a local JSON management API.
package httpapi

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/bnema/trae-accounts-cli/internal/application"
	"github.com/bnema/trae-accounts-cli/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const maxImportBytes = 8 << 20

type Handler struct {
	engine *application.Engine
	log    logrus.FieldLogger
}

func NewHandler(engine *application.Engine, log logrus.FieldLogger) *Handler {
	return &Handler{engine: engine, log: log}
}

// NewRouter builds the gin engine serving every /api route.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(h.log))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.GET("/accounts", h.ListAccounts)
		api.POST("/accounts", h.AddAccount)
		api.POST("/accounts/reload", h.Reload)
		api.POST("/accounts/:id/refresh", h.RefreshAccount)
		api.PUT("/accounts/:id/token", h.UpdateToken)
		api.POST("/accounts/:id/switch", h.SwitchAccount)
		api.DELETE("/accounts/:id", h.RemoveAccount)

		api.GET("/selection", h.GetSelection)
		api.POST("/selection/toggle", h.ToggleSelection)
		api.POST("/selection/toggle-all", h.ToggleAll)
		api.DELETE("/selection", h.ClearSelection)

		api.POST("/batch/refresh", h.BatchRefresh)
		api.POST("/batch/delete", h.BatchDelete)

		api.GET("/confirmation", h.GetConfirmation)
		api.POST("/confirmation/confirm", h.Confirm)
		api.POST("/confirmation/cancel", h.Cancel)

		api.GET("/notifications", h.ListNotifications)
		api.DELETE("/notifications/:id", h.DismissNotification)

		api.GET("/dashboard", h.Dashboard)
		api.GET("/export", h.Export)
		api.POST("/import", h.Import)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	return r
}

func requestLogger(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.FullPath(),
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		}).Info("http request")
	}
}

func (h *Handler) ListAccounts(c *gin.Context) {
	c.JSON(http.StatusOK, h.accountViews())
}

type addRequest struct {
	Input   string `json:"input"`
	Cookies string `json:"cookies"`
}

func (h *Handler) AddAccount(c *gin.Context) {
	var req addRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account, err := h.engine.Add(c.Request.Context(), req.Input, req.Cookies)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, h.accountView(account.ID))
}

func (h *Handler) Reload(c *gin.Context) {
	if err := h.engine.Load(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.accountViews())
}

func (h *Handler) RefreshAccount(c *gin.Context) {
	id := domain.AccountID(c.Param("id"))
	if err := h.engine.Refresh(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.accountView(id))
}

type tokenRequest struct {
	Input string `json:"input" binding:"required"`
}

func (h *Handler) UpdateToken(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id := domain.AccountID(c.Param("id"))
	usage, err := h.engine.UpdateToken(c.Request.Context(), id, req.Input)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUsageView(&usage))
}

func (h *Handler) SwitchAccount(c *gin.Context) {
	pending, err := h.engine.RequestSwitch(domain.AccountID(c.Param("id")))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, toConfirmationView(pending))
}

func (h *Handler) RemoveAccount(c *gin.Context) {
	pending, err := h.engine.RequestRemove(domain.AccountID(c.Param("id")))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, toConfirmationView(pending))
}

func (h *Handler) GetSelection(c *gin.Context) {
	c.JSON(http.StatusOK, h.selectionView())
}

type toggleRequest struct {
	ID string `json:"id" binding:"required"`
}

func (h *Handler) ToggleSelection(c *gin.Context) {
	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.engine.Toggle(domain.AccountID(req.ID)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.selectionView())
}

func (h *Handler) ToggleAll(c *gin.Context) {
	h.engine.ToggleAll()
	c.JSON(http.StatusOK, h.selectionView())
}

func (h *Handler) ClearSelection(c *gin.Context) {
	h.engine.ClearSelection()
	c.JSON(http.StatusOK, h.selectionView())
}

func (h *Handler) BatchRefresh(c *gin.Context) {
	result, err := h.engine.RefreshSelected(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBatchView(result))
}

func (h *Handler) BatchDelete(c *gin.Context) {
	pending, err := h.engine.RequestDeleteSelected(nil)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, toConfirmationView(pending))
}

func (h *Handler) GetConfirmation(c *gin.Context) {
	pending, ok := h.engine.PendingConfirmation()
	if !ok {
		writeError(c, domain.ErrNoPendingConfirmation)
		return
	}
	c.JSON(http.StatusOK, toConfirmationView(pending))
}

func (h *Handler) Confirm(c *gin.Context) {
	if err := h.engine.Confirm(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "confirmed"})
}

func (h *Handler) Cancel(c *gin.Context) {
	if err := h.engine.Cancel(); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}

func (h *Handler) ListNotifications(c *gin.Context) {
	c.JSON(http.StatusOK, toNotificationViews(h.engine.Notifications()))
}

func (h *Handler) DismissNotification(c *gin.Context) {
	if !h.engine.DismissNotification(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) Dashboard(c *gin.Context) {
	c.JSON(http.StatusOK, toDashboardView(h.engine.Dashboard()))
}

func (h *Handler) Export(c *gin.Context) {
	format, err := domain.ParseExportFormat(c.Query("format"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	data, err := h.engine.Export(c.Request.Context(), format)
	if err != nil {
		writeError(c, err)
		return
	}

	contentType := "application/json"
	if format == domain.ExportYAML {
		contentType = "application/yaml"
	}
	c.Header("Content-Disposition", "attachment; filename=accounts."+string(format))
	c.Data(http.StatusOK, contentType, data)
}

func (h *Handler) Import(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	count, err := h.engine.Import(c.Request.Context(), body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"imported": count})
}

func (h *Handler) accountViews() []accountView {
	entries := h.engine.Accounts()
	selected := selectedSet(h.engine.Selected())

	views := make([]accountView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, h.toAccountView(entry, selected))
	}
	return views
}

func (h *Handler) accountView(id domain.AccountID) any {
	entry, ok := h.engine.Account(id)
	if !ok {
		return gin.H{"id": id}
	}
	return h.toAccountView(entry, selectedSet(h.engine.Selected()))
}

func (h *Handler) toAccountView(entry domain.AccountWithUsage, selected map[domain.AccountID]struct{}) accountView {
	account := entry.Account
	_, isSelected := selected[account.ID]
	return accountView{
		ID:            account.ID,
		UserID:        account.UserID,
		Name:          account.Name,
		Email:         account.Email,
		AvatarURL:     account.AvatarURL,
		PlanType:      account.PlanType,
		EffectivePlan: entry.EffectivePlan(),
		CreatedAt:     epoch(account.CreatedAt),
		IsCurrent:     account.IsCurrent,
		Selected:      isSelected,
		Refreshing:    h.engine.Refreshing(account.ID),
		Usage:         toUsageView(entry.Usage),
	}
}

func (h *Handler) selectionView() gin.H {
	selected := h.engine.Selected()
	if selected == nil {
		selected = []domain.AccountID{}
	}
	return gin.H{"selected": selected, "all_selected": h.engine.IsAllSelected()}
}

func selectedSet(ids []domain.AccountID) map[domain.AccountID]struct{} {
	set := make(map[domain.AccountID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNoPendingConfirmation):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateAccount), errors.Is(err, domain.ErrIdentityMismatch):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidCredential), errors.Is(err, domain.ErrEmptySelection):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrRefreshTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, domain.ErrBackendUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

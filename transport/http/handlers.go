package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chrimage/atlas-divisions/core"
	"github.com/chrimage/atlas-divisions/service"
)

// Handlers contains the HTTP handlers for the contact site
type Handlers struct {
	contact *service.ContactService
	policy  service.AccessPolicy
	guard   *service.CSRFGuard
	logger  *slog.Logger
	title   string
}

// NewHandlers creates the handler set
func NewHandlers(contact *service.ContactService, policy service.AccessPolicy, guard *service.CSRFGuard, logger *slog.Logger) *Handlers {
	return &Handlers{
		contact: contact,
		policy:  policy,
		guard:   guard,
		logger:  logger,
		title:   "Atlas Divisions",
	}
}

// submissionForm binds the contact form fields. Requiredness is validated by
// the contact service so missing fields aggregate into one message.
type submissionForm struct {
	Name        string `form:"name"`
	Email       string `form:"email"`
	Phone       string `form:"phone"`
	ServiceType string `form:"service_type"`
	Message     string `form:"message"`
}

// statusUpdateForm binds the admin status update fields.
type statusUpdateForm struct {
	ID        string `form:"id"`
	Status    string `form:"status"`
	CSRFToken string `form:"csrf_token"`
}

// Home renders the homepage
func (h *Handlers) Home(c *gin.Context) {
	c.HTML(http.StatusOK, "home.html", gin.H{"Title": h.title})
}

// ContactForm renders the contact form
func (h *Handlers) ContactForm(c *gin.Context) {
	c.HTML(http.StatusOK, "contact.html", gin.H{
		"ServiceTypes": h.contact.ServiceTypes(),
	})
}

// Submit handles a contact form submission
func (h *Handlers) Submit(c *gin.Context) {
	var form submissionForm
	if err := c.ShouldBind(&form); err != nil {
		c.HTML(http.StatusBadRequest, "error.html", gin.H{"Message": "Invalid form submission"})
		return
	}

	_, err := h.contact.Create(c.Request.Context(), core.SubmissionInput{
		Name:        form.Name,
		Email:       form.Email,
		Phone:       form.Phone,
		ServiceType: form.ServiceType,
		Message:     form.Message,
	})
	if err != nil {
		var vErr *core.ValidationError
		if errors.As(err, &vErr) {
			c.HTML(http.StatusBadRequest, "error.html", gin.H{"Message": vErr.Message()})
			return
		}
		h.logger.Error("submission creation failed", "error", err)
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": "Database error occurred"})
		return
	}

	c.HTML(http.StatusOK, "success.html", nil)
}

// Admin renders the submission listing for authorized admins and issues the
// anti-forgery token guarding status updates.
func (h *Handlers) Admin(c *gin.Context) {
	identity := identityFrom(c)

	if !h.policy.IsAdminAllowed(identity) {
		h.denyAdmin(c, identity)
		return
	}

	if identity != nil {
		h.logger.Info("admin access", "email", identity.Email)
	}

	submissions, err := h.contact.List(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list submissions", "error", err)
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}

	token := h.guard.Issue(core.SessionKey(identity))

	email := ""
	if identity != nil {
		email = identity.Email
	}
	c.HTML(http.StatusOK, "admin.html", gin.H{
		"Submissions": submissions,
		"CSRFToken":   token,
		"Statuses":    h.contact.Statuses(),
		"AdminEmail":  email,
	})
}

// UpdateStatus handles an admin status update guarded by the anti-forgery
// token. The token record is removed after a successful mutation.
func (h *Handlers) UpdateStatus(c *gin.Context) {
	identity := identityFrom(c)

	if !h.policy.IsAdminAllowed(identity) {
		h.denyAdmin(c, identity)
		return
	}

	var form statusUpdateForm
	if err := c.ShouldBind(&form); err != nil {
		c.String(http.StatusBadRequest, "Invalid form submission")
		return
	}

	if form.ID == "" || form.Status == "" {
		c.String(http.StatusBadRequest, "Missing ID or status")
		return
	}
	if form.CSRFToken == "" {
		c.String(http.StatusBadRequest, "Missing CSRF token")
		return
	}

	sessionKey := core.SessionKey(identity)
	if !h.guard.Validate(sessionKey, form.CSRFToken) {
		c.String(http.StatusForbidden, "Invalid CSRF token")
		return
	}

	if err := h.contact.UpdateStatus(c.Request.Context(), form.ID, form.Status); err != nil {
		switch {
		case errors.Is(err, core.ErrInvalidStatus):
			c.String(http.StatusBadRequest, "Invalid status value")
		case errors.Is(err, core.ErrNotFound):
			c.String(http.StatusNotFound, "Submission not found")
		default:
			h.logger.Error("status update failed", "submission_id", form.ID, "error", err)
			c.String(http.StatusInternalServerError, "Update failed")
		}
		return
	}

	h.guard.Remove(sessionKey)

	email := "unknown"
	if identity != nil {
		email = identity.Email
	}
	h.logger.Info("status updated", "submission_id", form.ID, "status", form.Status, "by", email)

	c.Redirect(http.StatusSeeOther, "/admin")
}

// Healthz reports liveness
func (h *Handlers) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// denyAdmin maps a policy denial to 401 for anonymous callers and 403 for
// identified but disallowed ones.
func (h *Handlers) denyAdmin(c *gin.Context, identity *core.Identity) {
	if identity == nil {
		c.String(http.StatusUnauthorized, "Unauthorized - Admin access required")
		return
	}
	c.String(http.StatusForbidden, "Forbidden - Email not in admin list")
}

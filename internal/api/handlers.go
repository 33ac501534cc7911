package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/emilianohg/jobtracker/internal/service"
)

type Handler struct {
	tracker *service.Tracker
}

func NewHandler(tracker *service.Tracker) *Handler {
	return &Handler{tracker: tracker}
}

// ListCompanies handles GET /api/companies
func (h *Handler) ListCompanies(c *gin.Context) {
	companies, err := h.tracker.ListCompanies(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, companies)
}

// CreateCompany handles POST /api/companies
func (h *Handler) CreateCompany(c *gin.Context) {
	var req service.CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body: "+err.Error())
		return
	}

	company, err := h.tracker.CreateCompany(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, company)
}

// DeleteCompany handles DELETE /api/companies/:id
func (h *Handler) DeleteCompany(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.tracker.DeleteCompany(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Company deleted", "id": id})
}

// ListContacts handles GET /api/contacts?company_id=
func (h *Handler) ListContacts(c *gin.Context) {
	companyID, ok := queryID(c, "company_id")
	if !ok {
		return
	}

	contacts, err := h.tracker.ListContacts(c.Request.Context(), companyID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, contacts)
}

// CreateContact handles POST /api/contacts
func (h *Handler) CreateContact(c *gin.Context) {
	var req service.CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body: "+err.Error())
		return
	}

	contact, err := h.tracker.CreateContact(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, contact)
}

// ListApplications handles GET /api/applications
func (h *Handler) ListApplications(c *gin.Context) {
	companyID, ok := queryID(c, "company_id")
	if !ok {
		return
	}

	applications, err := h.tracker.ListApplications(c.Request.Context(), service.ListApplicationsRequest{
		Status:    c.Query("status"),
		CompanyID: companyID,
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, applications)
}

// GetApplication handles GET /api/applications/:id
func (h *Handler) GetApplication(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	application, err := h.tracker.GetApplication(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, application)
}

// CreateApplication handles POST /api/applications
func (h *Handler) CreateApplication(c *gin.Context) {
	var req service.ApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body: "+err.Error())
		return
	}

	application, err := h.tracker.CreateApplication(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, application)
}

// UpdateApplication handles PUT /api/applications/:id
func (h *Handler) UpdateApplication(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req service.ApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body: "+err.Error())
		return
	}

	application, err := h.tracker.UpdateApplication(c.Request.Context(), id, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, application)
}

// DeleteApplication handles DELETE /api/applications/:id
func (h *Handler) DeleteApplication(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.tracker.DeleteApplication(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Application deleted", "id": id})
}

// Overview handles GET /api/stats/overview
func (h *Handler) Overview(c *gin.Context) {
	overview, err := h.tracker.Overview(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

// Health handles GET /api/health. A store that cannot be pinged reports
// 503.
func (h *Handler) Health(c *gin.Context) {
	if err := h.tracker.Ping(c.Request.Context()); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Job Tracker API is running"})
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "id must be a positive integer")
		return 0, false
	}
	return id, true
}

// queryID parses an optional positive integer query parameter. A missing
// or empty parameter yields nil.
func queryID(c *gin.Context, name string) (*int64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, name+" must be a positive integer")
		return nil, false
	}
	return &id, true
}

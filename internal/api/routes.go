package api

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(router *gin.Engine, h *Handler) {
	api := router.Group("/api")

	companies := api.Group("/companies")
	{
		companies.GET("", h.ListCompanies)
		companies.POST("", h.CreateCompany)
		companies.DELETE("/:id", h.DeleteCompany)
	}

	contacts := api.Group("/contacts")
	{
		contacts.GET("", h.ListContacts)
		contacts.POST("", h.CreateContact)
	}

	applications := api.Group("/applications")
	{
		applications.GET("", h.ListApplications)
		applications.POST("", h.CreateApplication)
		applications.GET("/:id", h.GetApplication)
		applications.PUT("/:id", h.UpdateApplication)
		applications.DELETE("/:id", h.DeleteApplication)
	}

	api.GET("/stats/overview", h.Overview)
	api.GET("/health", h.Health)
}

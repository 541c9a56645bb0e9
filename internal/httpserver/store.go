package httpserver

import (
	"net/http"

	storesvc "marketplace/internal/service/store"
	"github.com/gin-gonic/gin"
)

func listStoresHandler(svc storeService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit, offset := pageParams(c, 10)
		stores, total, err := svc.List(c.Request.Context(), c.Query("search"), limit, offset)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"stores":     stores,
			"pagination": paginate(total, limit, page),
		})
	}
}

func getStoreHandler(svc storeService) gin.HandlerFunc {
	return func(c *gin.Context) {
		store, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, store)
	}
}

func createStoreHandler(svc storeService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in storesvc.CreateInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		store, err := svc.Create(c.Request.Context(), currentPrincipal(c), in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, store)
	}
}

func updateStoreHandler(svc storeService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in storesvc.UpdateInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		store, err := svc.Update(c.Request.Context(), currentPrincipal(c), c.Param("id"), in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, store)
	}
}

func deleteStoreHandler(svc storeService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), currentPrincipal(c), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": true})
	}
}

func rateStoreHandler(svc storeService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in ratingRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "rating must be between 0 and 5"})
			return
		}
		store, err := svc.Rate(c.Request.Context(), c.Param("id"), in.Rating)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, store)
	}
}

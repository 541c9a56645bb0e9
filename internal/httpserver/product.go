package httpserver

import (
	"net/http"

	productrepo "marketplace/internal/repository/product"
	productsvc "marketplace/internal/service/product"
	"github.com/gin-gonic/gin"
)

func listProductsHandler(svc productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit, offset := pageParams(c, 20)
		filter := productrepo.ListFilter{
			StoreID:  c.Query("storeId"),
			Category: c.Query("category"),
			Search:   c.Query("search"),
		}
		products, total, err := svc.List(c.Request.Context(), filter, limit, offset)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"products":   products,
			"pagination": paginate(total, limit, page),
		})
	}
}

func getProductHandler(svc productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func createProductHandler(svc productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in productsvc.CreateInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		product, err := svc.Create(c.Request.Context(), currentPrincipal(c), in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}

func updateProductHandler(svc productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in productsvc.UpdateInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		product, err := svc.Update(c.Request.Context(), currentPrincipal(c), c.Param("id"), in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func deleteProductHandler(svc productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), currentPrincipal(c), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": true})
	}
}

type ratingRequest struct {
	Rating int `json:"rating" binding:"min=0,max=5"`
}

func rateProductHandler(svc productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in ratingRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "rating must be between 0 and 5"})
			return
		}
		product, err := svc.Rate(c.Request.Context(), c.Param("id"), in.Rating)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

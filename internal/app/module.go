package app

import "github.com/gin-gonic/gin"

// Module defines the contract for a self-registering HTTP module.
type Module interface {
	RegisterRoutes(r *gin.RouterGroup)
}

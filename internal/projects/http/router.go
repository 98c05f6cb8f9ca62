package http

import "github.com/gin-gonic/gin"

// Register attaches project routes to the given router group. Each
// operation is reachable under its REST path and its legacy path.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("", h.create)
	rg.POST("/create", h.create)

	rg.GET("", h.list)
	rg.GET("/all", h.list)

	rg.POST("/add-user", h.addUsers)
	rg.PUT("/add-user", h.addUsers)

	rg.PUT("/file-tree", h.updateFileTree)
	rg.PUT("/update-file-tree", h.updateFileTree)

	rg.GET("/get-project/:projectId", h.get)
	rg.GET("/:projectId", h.get)
	rg.GET("/:projectId/events", h.streamEvents)
}

package handlers

import (
	"net/http"

	"github.com/andresuchdata/retail-forecast/backend-go/internal/dashboard"
	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	store *dashboard.Store
}

func NewSessionHandler(store *dashboard.Store) *SessionHandler {
	return &SessionHandler{store: store}
}

// GetSession returns the whole dashboard state.
func (h *SessionHandler) GetSession(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Snapshot())
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

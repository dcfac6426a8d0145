package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// ActorHeader carries the identity of the staff member or client making a write.
	ActorHeader  = "X-Actor-ID"
	defaultActor = "staff"
)

func actorID(c *gin.Context) string {
	if actor := strings.TrimSpace(c.GetHeader(ActorHeader)); actor != "" {
		if len(actor) > 64 {
			actor = actor[:64]
		}
		return actor
	}
	return defaultActor
}

package utils

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/Lanszs/QuickDART/internal/middleware"
	"github.com/Lanszs/QuickDART/internal/types"
)

func GetCurrentAgent(ctx *gin.Context) (middleware.AuthenticatedAgent, error) {
	agent, exists := ctx.Get(types.ContextAgentKey)

	if !exists {
		return middleware.AuthenticatedAgent{}, fmt.Errorf("Agent not authenticated")
	}

	authenticatedAgent, ok := agent.(middleware.AuthenticatedAgent)

	if !ok {
		return middleware.AuthenticatedAgent{}, fmt.Errorf("Invalid agent type in context")
	}

	return authenticatedAgent, nil
}

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type verifyTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

func (server *Server) verifySessionToken(ctx *gin.Context) {
	req := new(verifyTokenRequest)
	if err := ctx.ShouldBindJSON(req); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	payload, err := server.tokenMaker.VerifyToken(req.Token)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, errorResponse(err))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"session_id": payload.Subject,
		"expires_at": payload.ExpiresAt.Unix(),
	})
}

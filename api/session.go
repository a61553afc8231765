package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/regalflowers/storefront-BE/internal/util"
	"github.com/rs/zerolog/log"
)

type createSessionResponse struct {
	SessionToken string `json:"session_token"`
	ExpiresAt    int64  `json:"expires_at"`
}

// createSession issues a fresh shopper session token. Guests and logged-in
// shoppers both hold one; the backend auth token is attached separately.
func (server *Server) createSession(ctx *gin.Context) {
	id := util.GenerateSessionID()

	sessionToken, payload, err := server.tokenMaker.CreateToken(id, server.config.SessionTokenDuration)
	if err != nil {
		log.Err(err).Msg("failed to create session token")
		ctx.JSON(http.StatusInternalServerError, errorResponse(ErrInternalServer))
		return
	}

	ctx.JSON(http.StatusCreated, createSessionResponse{
		SessionToken: sessionToken,
		ExpiresAt:    payload.ExpiresAt.Unix(),
	})
}

type saveAuthTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// saveAuthToken persists the backend bearer token after the shopper logs in,
// so later checkout calls are issued on their account.
func (server *Server) saveAuthToken(ctx *gin.Context) {
	req := new(saveAuthTokenRequest)
	if err := ctx.ShouldBindJSON(req); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	if err := server.sessionStore.SaveAuthToken(ctx, sessionID(ctx), req.Token); err != nil {
		log.Err(err).Msg("failed to save auth token")
		ctx.JSON(http.StatusInternalServerError, errorResponse(ErrInternalServer))
		return
	}

	ctx.Status(http.StatusNoContent)
}

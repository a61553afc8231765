package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func (server *Server) listPurposes(ctx *gin.Context) {
	purposes, err := server.backendClient.GetPurposes(ctx)
	if err != nil {
		log.Err(err).Msg("failed to fetch purposes")
		ctx.JSON(http.StatusBadGateway, errorResponse(err))
		return
	}

	ctx.JSON(http.StatusOK, purposes)
}

func (server *Server) listResidenceTypes(ctx *gin.Context) {
	residenceTypes, err := server.backendClient.GetResidenceTypes(ctx)
	if err != nil {
		log.Err(err).Msg("failed to fetch residence types")
		ctx.JSON(http.StatusBadGateway, errorResponse(err))
		return
	}

	ctx.JSON(http.StatusOK, residenceTypes)
}

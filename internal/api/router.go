package api

import (
	"github.com/gin-gonic/gin"

	"github.com/ericogr/escape-the-danger/internal/constants"
)

// SetupRouter wires every route under /api.
func SetupRouter(h *GameHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger())

	apiRoutes := router.Group(constants.RouteAPIPrefix)
	apiRoutes.Use(noCache())
	{
		// Public endpoints
		apiRoutes.GET(constants.RouteHealthz, Healthz)
		apiRoutes.GET(constants.RouteVersion, Version)
		apiRoutes.GET(constants.RouteItems, h.ListItems)
		apiRoutes.POST(constants.RouteAuthToken, h.IssueToken)
		apiRoutes.GET(constants.RouteGameActive, h.ActiveGame)
		apiRoutes.GET(constants.RouteGameByID, h.GetGame)
		apiRoutes.GET(constants.RouteGameEvents, h.ListEvents)
		apiRoutes.GET(constants.RouteGameInventory, h.GetInventory)
		apiRoutes.GET(constants.RouteGameFeed, h.Feed)

		// Operator endpoints
		operator := apiRoutes.Group("")
		operator.Use(h.OperatorRequired())

		operator.POST(constants.RouteGames, h.StartGame)
		operator.POST(constants.RouteGamePause, h.PauseGame)
		operator.POST(constants.RouteGameResume, h.ResumeGame)
		operator.POST(constants.RouteGameEnd, h.EndGame)
		operator.POST(constants.RouteGameTurn, h.AdvanceTurn)
		operator.POST(constants.RouteGameMove, h.Move)
		operator.POST(constants.RouteGameDraw, h.DrawCard)
		operator.POST(constants.RouteGameUseItem, h.UseItem)
		operator.POST(constants.RouteGameHealth, h.AdjustHealth)
		operator.POST(constants.RouteGameStatus, h.GrantStatus)
		operator.POST(constants.RouteGameAddItem, h.AddInventory)
		operator.POST(constants.RouteGameDonations, h.Donate)
	}
	return router
}

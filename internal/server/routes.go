package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"pinochle-game/internal/bot"
	"pinochle-game/internal/database"
	"pinochle-game/internal/game"
	"pinochle-game/internal/protocol"
	"pinochle-game/internal/shared"
)

type api struct {
	svc    *Service
	logger *log.Logger
}

// NewRouter registers the HTTP routes and the websocket entry point.
func NewRouter(svc *Service, hub *Hub, logger *log.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type"},
	}))

	a := &api{svc: svc, logger: logger}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	g := r.Group("/game")
	{
		g.GET("", a.listGames)
		g.POST("", a.createGame)
		g.POST("/:id", a.createGame)
		g.PUT("/:id", a.importGame)
		g.GET("/:id", a.getGame)
		g.GET("/:id/full", a.getFullGame)
		g.GET("/:id/hand/:seat", a.getHand)
		g.POST("/:id/trigger-bot", a.triggerBot)
		g.POST("/:id/:seat/act", a.act)
		g.GET("/:id/:seat/suggest", a.suggest)
		g.PUT("/:id/:seat/name", a.setName)
		g.PUT("/:id/:seat/bot", a.setBot)
	}
	r.GET("/player/:name/games", a.playerGames)
	r.GET("/ws", ServeWs(hub))

	logger.Info("routes registered")
	return r
}

// fail writes err with the status it maps to. Rejected actions are 400 with
// the rejection name as kind.
func (a *api) fail(c *gin.Context, err error) {
	payload := protocol.ErrorPayload{GameID: c.Param("id"), Message: err.Error()}
	status := http.StatusInternalServerError
	switch {
	case game.IsRejection(err):
		status = http.StatusBadRequest
		payload.Kind = game.ErrorKind(err)
	case errors.Is(err, database.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, database.ErrExists),
		errors.Is(err, bot.ErrNotBotsTurn),
		errors.Is(err, bot.ErrNotPlaying):
		status = http.StatusConflict
	default:
		a.logger.Error("request failed", "path", c.FullPath(), "game", c.Param("id"), "err", err)
	}
	c.JSON(status, payload)
}

func (a *api) badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, protocol.ErrorPayload{GameID: c.Param("id"), Message: msg})
}

func (a *api) seat(c *gin.Context) (shared.Seat, bool) {
	seat, err := shared.ParseSeat(c.Param("seat"))
	if err != nil {
		a.badRequest(c, err.Error())
		return 0, false
	}
	return seat, true
}

// bindOptional decodes a JSON body into v, accepting an empty body.
func bindOptional(c *gin.Context, v any) error {
	err := c.ShouldBindJSON(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (a *api) listGames(c *gin.Context) {
	games, err := a.svc.List(c.Request.Context())
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, games)
}

func (a *api) playerGames(c *gin.Context) {
	games, err := a.svc.ByPlayer(c.Request.Context(), c.Param("name"))
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, games)
}

// createGame starts a game with a random seed. The body may carry names and
// bot seats.
func (a *api) createGame(c *gin.Context) {
	var req CreateRequest
	if err := bindOptional(c, &req); err != nil {
		a.badRequest(c, err.Error())
		return
	}
	req.ID = c.Param("id")
	req.Seed, req.Actions = nil, nil
	a.create(c, req)
}

// importGame stores a game from a given seed and action log.
func (a *api) importGame(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		a.badRequest(c, err.Error())
		return
	}
	if req.Seed == nil {
		a.badRequest(c, "seed is required")
		return
	}
	req.ID = c.Param("id")
	a.create(c, req)
}

func (a *api) create(c *gin.Context, req CreateRequest) {
	state, err := a.svc.Create(c.Request.Context(), req)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, state)
}

func (a *api) getGame(c *gin.Context) {
	state, err := a.svc.State(c.Request.Context(), c.Param("id"))
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (a *api) getFullGame(c *gin.Context) {
	rec, err := a.svc.Record(c.Request.Context(), c.Param("id"))
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (a *api) getHand(c *gin.Context) {
	seat, ok := a.seat(c)
	if !ok {
		return
	}
	hand, err := a.svc.Hand(c.Request.Context(), c.Param("id"), seat)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, hand)
}

func (a *api) act(c *gin.Context) {
	seat, ok := a.seat(c)
	if !ok {
		return
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		a.badRequest(c, err.Error())
		return
	}
	action, err := game.UnmarshalAction(body)
	if err != nil {
		a.badRequest(c, err.Error())
		return
	}
	out, err := a.svc.Act(c.Request.Context(), c.Param("id"), seat, action)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (a *api) suggest(c *gin.Context) {
	seat, ok := a.seat(c)
	if !ok {
		return
	}
	action, err := a.svc.Suggest(c.Request.Context(), c.Param("id"), seat)
	if err != nil {
		a.fail(c, err)
		return
	}
	data, err := game.MarshalAction(action)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", data)
}

func (a *api) triggerBot(c *gin.Context) {
	state, err := a.svc.TriggerBot(c.Request.Context(), c.Param("id"))
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (a *api) setName(c *gin.Context) {
	seat, ok := a.seat(c)
	if !ok {
		return
	}
	var body struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		a.badRequest(c, err.Error())
		return
	}
	if err := a.svc.SetName(c.Request.Context(), c.Param("id"), seat, body.Name); err != nil {
		a.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (a *api) setBot(c *gin.Context) {
	seat, ok := a.seat(c)
	if !ok {
		return
	}
	var body struct {
		Enabled bool `json:"enabled"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		a.badRequest(c, err.Error())
		return
	}
	state, err := a.svc.SetBot(c.Request.Context(), c.Param("id"), seat, body.Enabled)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

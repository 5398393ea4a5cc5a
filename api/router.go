// Package api is the HTTP surface of poke, built on gin.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	poke "github.com/AshkanYarmoradi/go-poke"
	"github.com/AshkanYarmoradi/go-poke/pokemon"
	"github.com/AshkanYarmoradi/go-poke/trainer"
)

// RouterConfig holds the collaborators of the router. Nil entries disable
// the routes that need them.
type RouterConfig struct {
	Pokedex  pokemon.Repository
	Bus      *poke.CommandBus
	Trainers *trainer.Dispatcher
	Logger   poke.Logger

	// Metrics is served on /metrics when set.
	Metrics http.Handler

	// TracingService enables otelgin spans under this service name.
	TracingService string

	CORSOrigins []string
}

// NewRouter builds the gin engine.
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.TracingService != "" {
		r.Use(otelgin.Middleware(cfg.TracingService))
	}
	r.Use(RequestID())
	r.Use(RequestLogger(cfg.Logger))
	r.Use(CORS(cfg.CORSOrigins))

	health := NewHealthHandler()
	r.GET("/healthcheck", health.HealthCheck)

	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics))
	}

	if cfg.Pokedex != nil {
		pokemons := NewPokemonHandler(cfg.Pokedex)
		r.GET("/pokemons/:id", pokemons.GetByID)
		r.GET("/pokemons/name/:name", pokemons.GetByName)
	}

	if cfg.Bus != nil && cfg.Trainers != nil {
		trainers := NewTrainerHandler(cfg.Bus, cfg.Trainers)
		r.POST("/trainers", trainers.StartAdventure)
		r.GET("/trainers/:name", trainers.Get)
		r.POST("/trainers/:name/team", trainers.AddToTeam)
		r.DELETE("/trainers/:name/team/:dex_id", trainers.RemoveFromTeam)
	}

	return r
}

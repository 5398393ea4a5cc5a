package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	poke "github.com/AshkanYarmoradi/go-poke"
	"github.com/AshkanYarmoradi/go-poke/pokemon"
	"github.com/AshkanYarmoradi/go-poke/trainer"
)

// HealthHandler answers liveness probes.
type HealthHandler struct{}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler() *HealthHandler { return &HealthHandler{} }

// HealthCheck serves GET /healthcheck with a plain "ok".
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// PokemonHandler serves the Pokédex.
type PokemonHandler struct {
	repo pokemon.Repository
}

// NewPokemonHandler serves lookups from repo, which is usually the cache
// layer in front of PokeAPI. A nil result from repo is reported as 404 and an
// error as 502.
func NewPokemonHandler(repo pokemon.Repository) *PokemonHandler {
	return &PokemonHandler{repo: repo}
}

// GetByID serves GET /pokemons/:id.
func (h *PokemonHandler) GetByID(c *gin.Context) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", fmt.Sprintf("invalid pokemon id %q", raw))
		return
	}

	p, err := h.repo.Get(c.Request.Context(), pokemon.DexID(id))
	if err != nil {
		_ = c.Error(err)
		RespondError(c, http.StatusBadGateway, "upstream_unavailable", "pokemon lookup failed")
		return
	}
	if p == nil {
		RespondError(c, http.StatusNotFound, "pokemon_not_found", fmt.Sprintf("Requested pokemon #%d", id))
		return
	}
	RespondOK(c, p)
}

// GetByName serves GET /pokemons/name/:name. Lookup by name is not
// supported, so it always answers 404.
func (h *PokemonHandler) GetByName(c *gin.Context) {
	c.String(http.StatusNotFound, "Requested pokemon '%s'", c.Param("name"))
}

// TrainerHandler serves trainer commands and state.
type TrainerHandler struct {
	bus      *poke.CommandBus
	trainers *trainer.Dispatcher
}

// NewTrainerHandler dispatches commands through bus and reads state
// through trainers.
func NewTrainerHandler(bus *poke.CommandBus, trainers *trainer.Dispatcher) *TrainerHandler {
	return &TrainerHandler{bus: bus, trainers: trainers}
}

type startAdventureRequest struct {
	Name string `json:"name"`
	Sex  string `json:"sex"`
}

type addToTeamRequest struct {
	DexID pokemon.DexID `json:"dex_id"`
}

// StartAdventure serves POST /trainers.
func (h *TrainerHandler) StartAdventure(c *gin.Context) {
	var req startAdventureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}
	sex, err := trainer.ParseSex(req.Sex)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}
	h.dispatch(c, http.StatusCreated, trainer.StartAdventure{Name: req.Name, Sex: sex})
}

// Get serves GET /trainers/:name.
func (h *TrainerHandler) Get(c *gin.Context) {
	name := c.Param("name")
	state, _, err := h.trainers.Load(c.Request.Context(), name)
	if err != nil {
		respondDispatchError(c, err)
		return
	}
	t, ok := state.Get()
	if !ok {
		RespondError(c, http.StatusNotFound, "trainer_not_found", fmt.Sprintf("trainer %s has not started an adventure", name))
		return
	}
	RespondOK(c, t)
}

// AddToTeam serves POST /trainers/:name/team.
func (h *TrainerHandler) AddToTeam(c *gin.Context) {
	var req addToTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}
	h.dispatch(c, http.StatusOK, trainer.AddToTeam{Trainer: c.Param("name"), DexID: req.DexID})
}

// RemoveFromTeam serves DELETE /trainers/:name/team/:dex_id.
func (h *TrainerHandler) RemoveFromTeam(c *gin.Context) {
	raw := c.Param("dex_id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", fmt.Sprintf("invalid pokemon id %q", raw))
		return
	}
	h.dispatch(c, http.StatusOK, trainer.RemoveFromTeam{Trainer: c.Param("name"), DexID: pokemon.DexID(id)})
}

func (h *TrainerHandler) dispatch(c *gin.Context, status int, cmd trainer.Command) {
	res, err := h.bus.Dispatch(c.Request.Context(), cmd)
	if err != nil {
		respondDispatchError(c, err)
		return
	}
	state, ok := res.Data.(poke.State[trainer.Trainer])
	if !ok {
		respondDispatchError(c, fmt.Errorf("api: unexpected result %T", res.Data))
		return
	}
	t, _ := state.Get()
	c.Header("ETag", strconv.Quote(strconv.FormatInt(res.Version, 10)))
	c.JSON(status, t)
}

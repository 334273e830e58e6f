package api

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/isquicha/desafio-softfocus/internal/apperr"
	"github.com/isquicha/desafio-softfocus/internal/server"
	"github.com/isquicha/desafio-softfocus/internal/store"
	"github.com/isquicha/desafio-softfocus/internal/validation"
)

func registerLavouraRoutes(_, protected *gin.RouterGroup, d *Deps) {
	protected.POST("/lavouras", createLavoura(d))
	protected.GET("/lavouras", listLavouras(d))
	protected.GET("/lavouras/:id", getLavoura(d))
	protected.PATCH("/lavouras/:id", updateLavoura(d))
	protected.DELETE("/lavouras/:id", deleteLavoura(d))
}

// Coordinates use pointers so 0.0 (a valid latitude and longitude) still
// counts as provided.
type createLavouraRequest struct {
	Latitude  *float64 `json:"latitude" validate:"required,min=-90,max=90"`
	Longitude *float64 `json:"longitude" validate:"required,min=-180,max=180"`
	Tipo      string   `json:"tipo" validate:"required,max=200"`
}

type updateLavouraRequest struct {
	Latitude  *float64 `json:"latitude" validate:"omitempty,min=-90,max=90"`
	Longitude *float64 `json:"longitude" validate:"omitempty,min=-180,max=180"`
	Tipo      *string  `json:"tipo" validate:"omitempty,max=200"`
}

func createLavoura(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createLavouraRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			server.RespondError(c, apperr.Validation("A JSON body must be provided"))
			return
		}
		if err := validation.Struct(req); err != nil {
			server.RespondError(c, err)
			return
		}

		lavoura := &store.Lavoura{Latitude: *req.Latitude, Longitude: *req.Longitude, Tipo: req.Tipo}
		if err := d.Lavouras.Create(c.Request.Context(), lavoura); err != nil {
			server.RespondError(c, apperr.Internal(err))
			return
		}
		server.RespondCreated(c, lavoura)
	}
}

func listLavouras(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		lavouras, err := d.Lavouras.List(c.Request.Context())
		if err != nil {
			server.RespondError(c, apperr.Internal(err))
			return
		}
		server.RespondOK(c, "", lavouras)
	}
}

func getLavoura(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := idParam(c)
		if err != nil {
			server.RespondError(c, err)
			return
		}
		lavoura, err := d.Lavouras.Get(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				server.RespondError(c, apperr.NotFound("lavoura"))
				return
			}
			server.RespondError(c, apperr.Internal(err))
			return
		}
		server.RespondOK(c, "", lavoura)
	}
}

func updateLavoura(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := idParam(c)
		if err != nil {
			server.RespondError(c, err)
			return
		}

		var req updateLavouraRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			server.RespondError(c, apperr.Validation("A JSON body must be provided"))
			return
		}
		if err := validation.Struct(req); err != nil {
			server.RespondError(c, err)
			return
		}

		changes := map[string]any{}
		if req.Latitude != nil {
			changes["latitude"] = *req.Latitude
		}
		if req.Longitude != nil {
			changes["longitude"] = *req.Longitude
		}
		if req.Tipo != nil {
			changes["tipo"] = *req.Tipo
		}
		if len(changes) == 0 {
			server.RespondError(c, apperr.Validation("At least one field must be provided"))
			return
		}

		lavoura, err := d.Lavouras.Update(c.Request.Context(), id, changes)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				server.RespondError(c, apperr.NotFound("lavoura"))
				return
			}
			server.RespondError(c, apperr.Internal(err))
			return
		}
		server.RespondOK(c, "", lavoura)
	}
}

func deleteLavoura(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := idParam(c)
		if err != nil {
			server.RespondError(c, err)
			return
		}
		if err := d.Lavouras.Delete(c.Request.Context(), id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				server.RespondError(c, apperr.NotFound("lavoura"))
				return
			}
			server.RespondError(c, apperr.Internal(err))
			return
		}
		server.RespondNoContent(c)
	}
}

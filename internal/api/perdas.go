package api

import (
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/isquicha/desafio-softfocus/internal/apperr"
	"github.com/isquicha/desafio-softfocus/internal/server"
	"github.com/isquicha/desafio-softfocus/internal/store"
	"github.com/isquicha/desafio-softfocus/internal/validation"
)

// dateLayout is the wire format for Perda.Data.
const dateLayout = "2006-01-02"

func registerPerdaRoutes(_, protected *gin.RouterGroup, d *Deps) {
	protected.POST("/perdas", createPerda(d))
	protected.GET("/perdas", listPerdas(d))
	protected.GET("/perdas/:id", getPerda(d))
	protected.PATCH("/perdas/:id", updatePerda(d))
	protected.DELETE("/perdas/:id", deletePerda(d))
}

type createPerdaRequest struct {
	Data            string `json:"data" validate:"required"`
	Evento          int    `json:"evento" validate:"required,min=1,max=6"`
	ProdutorRuralID uint   `json:"produtor_rural_id" validate:"required"`
	LavouraID       uint   `json:"lavoura_id" validate:"required"`
}

type updatePerdaRequest struct {
	Data            *string `json:"data"`
	Evento          *int    `json:"evento" validate:"omitempty,min=1,max=6"`
	ProdutorRuralID *uint   `json:"produtor_rural_id"`
	LavouraID       *uint   `json:"lavoura_id"`
}

// checkPerdaRefs verifies the referenced produtor and lavoura exist before
// a perda is written. The store does not upsert associations, so a dangling
// reference would otherwise surface as an opaque constraint error.
func checkPerdaRefs(c *gin.Context, d *Deps, produtorID, lavouraID *uint) error {
	if produtorID != nil {
		if _, err := d.Produtores.Get(c.Request.Context(), *produtorID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return apperr.Validation(fmt.Sprintf("Produtor rural %d does not exist", *produtorID))
			}
			return apperr.Internal(err)
		}
	}
	if lavouraID != nil {
		if _, err := d.Lavouras.Get(c.Request.Context(), *lavouraID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return apperr.Validation(fmt.Sprintf("Lavoura %d does not exist", *lavouraID))
			}
			return apperr.Internal(err)
		}
	}
	return nil
}

func createPerda(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createPerdaRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			server.RespondError(c, apperr.Validation("A JSON body must be provided"))
			return
		}
		if err := validation.Struct(req); err != nil {
			server.RespondError(c, err)
			return
		}

		data, err := time.Parse(dateLayout, req.Data)
		if err != nil {
			server.RespondError(c, apperr.Validation("Field 'data' must be a date in YYYY-MM-DD format"))
			return
		}
		if err := checkPerdaRefs(c, d, &req.ProdutorRuralID, &req.LavouraID); err != nil {
			server.RespondError(c, err)
			return
		}

		perda := &store.Perda{
			Data:            data,
			Evento:          req.Evento,
			ProdutorRuralID: req.ProdutorRuralID,
			LavouraID:       req.LavouraID,
		}
		if err := d.Perdas.Create(c.Request.Context(), perda); err != nil {
			server.RespondError(c, apperr.Internal(err))
			return
		}
		server.RespondCreated(c, perda)
	}
}

func listPerdas(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		perdas, err := d.Perdas.List(c.Request.Context())
		if err != nil {
			server.RespondError(c, apperr.Internal(err))
			return
		}
		server.RespondOK(c, "", perdas)
	}
}

func getPerda(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := idParam(c)
		if err != nil {
			server.RespondError(c, err)
			return
		}
		perda, err := d.Perdas.Get(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				server.RespondError(c, apperr.NotFound("perda"))
				return
			}
			server.RespondError(c, apperr.Internal(err))
			return
		}
		server.RespondOK(c, "", perda)
	}
}

func updatePerda(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := idParam(c)
		if err != nil {
			server.RespondError(c, err)
			return
		}

		var req updatePerdaRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			server.RespondError(c, apperr.Validation("A JSON body must be provided"))
			return
		}
		if err := validation.Struct(req); err != nil {
			server.RespondError(c, err)
			return
		}
		if err := checkPerdaRefs(c, d, req.ProdutorRuralID, req.LavouraID); err != nil {
			server.RespondError(c, err)
			return
		}

		changes := map[string]any{}
		if req.Data != nil {
			data, err := time.Parse(dateLayout, *req.Data)
			if err != nil {
				server.RespondError(c, apperr.Validation("Field 'data' must be a date in YYYY-MM-DD format"))
				return
			}
			changes["data"] = data
		}
		if req.Evento != nil {
			changes["evento"] = *req.Evento
		}
		if req.ProdutorRuralID != nil {
			changes["produtor_rural_id"] = *req.ProdutorRuralID
		}
		if req.LavouraID != nil {
			changes["lavoura_id"] = *req.LavouraID
		}
		if len(changes) == 0 {
			server.RespondError(c, apperr.Validation("At least one field must be provided"))
			return
		}

		perda, err := d.Perdas.Update(c.Request.Context(), id, changes)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				server.RespondError(c, apperr.NotFound("perda"))
				return
			}
			server.RespondError(c, apperr.Internal(err))
			return
		}
		server.RespondOK(c, "", perda)
	}
}

func deletePerda(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := idParam(c)
		if err != nil {
			server.RespondError(c, err)
			return
		}
		if err := d.Perdas.Delete(c.Request.Context(), id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				server.RespondError(c, apperr.NotFound("perda"))
				return
			}
			server.RespondError(c, apperr.Internal(err))
			return
		}
		server.RespondNoContent(c)
	}
}

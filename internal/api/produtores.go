package api

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/isquicha/desafio-softfocus/internal/apperr"
	"github.com/isquicha/desafio-softfocus/internal/server"
	"github.com/isquicha/desafio-softfocus/internal/store"
	"github.com/isquicha/desafio-softfocus/internal/validation"
)

func registerProdutorRoutes(_, protected *gin.RouterGroup, d *Deps) {
	protected.POST("/produtores", createProdutor(d))
	protected.GET("/produtores", listProdutores(d))
	protected.GET("/produtores/:id", getProdutor(d))
	protected.PATCH("/produtores/:id", updateProdutor(d))
	protected.DELETE("/produtores/:id", deleteProdutor(d))
}

// createProdutorRequest requires every field; partial payloads belong to PATCH.
type createProdutorRequest struct {
	Nome  string `json:"nome" validate:"required,max=200"`
	Email string `json:"email" validate:"required,email,max=200"`
	CPF   string `json:"cpf" validate:"required,len=9"`
}

type updateProdutorRequest struct {
	Nome  *string `json:"nome" validate:"omitempty,max=200"`
	Email *string `json:"email" validate:"omitempty,email,max=200"`
	CPF   *string `json:"cpf" validate:"omitempty,len=9"`
}

func createProdutor(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createProdutorRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			server.RespondError(c, apperr.Validation("A JSON body must be provided"))
			return
		}
		if err := validation.Struct(req); err != nil {
			server.RespondError(c, err)
			return
		}

		produtor := &store.ProdutorRural{Nome: req.Nome, Email: req.Email, CPF: req.CPF}
		if err := d.Produtores.Create(c.Request.Context(), produtor); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				server.RespondError(c, apperr.Validation(fmt.Sprintf("CPF %s is already registered", req.CPF)))
				return
			}
			server.RespondError(c, apperr.Internal(err))
			return
		}
		server.RespondCreated(c, produtor)
	}
}

func listProdutores(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		produtores, err := d.Produtores.List(c.Request.Context())
		if err != nil {
			server.RespondError(c, apperr.Internal(err))
			return
		}
		server.RespondOK(c, "", produtores)
	}
}

func getProdutor(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := idParam(c)
		if err != nil {
			server.RespondError(c, err)
			return
		}
		produtor, err := d.Produtores.Get(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				server.RespondError(c, apperr.NotFound("produtor rural"))
				return
			}
			server.RespondError(c, apperr.Internal(err))
			return
		}
		server.RespondOK(c, "", produtor)
	}
}

func updateProdutor(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := idParam(c)
		if err != nil {
			server.RespondError(c, err)
			return
		}

		var req updateProdutorRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			server.RespondError(c, apperr.Validation("A JSON body must be provided"))
			return
		}
		if err := validation.Struct(req); err != nil {
			server.RespondError(c, err)
			return
		}

		changes := map[string]any{}
		if req.Nome != nil {
			changes["nome"] = *req.Nome
		}
		if req.Email != nil {
			changes["email"] = *req.Email
		}
		if req.CPF != nil {
			changes["cpf"] = *req.CPF
		}
		if len(changes) == 0 {
			server.RespondError(c, apperr.Validation("At least one field must be provided"))
			return
		}

		produtor, err := d.Produtores.Update(c.Request.Context(), id, changes)
		if err != nil {
			switch {
			case errors.Is(err, store.ErrNotFound):
				server.RespondError(c, apperr.NotFound("produtor rural"))
			case errors.Is(err, store.ErrDuplicate):
				// CPF carries the only unique index today, but don't assume
				// that when building the message.
				message := "CPF is already registered"
				if req.CPF != nil {
					message = fmt.Sprintf("CPF %s is already registered", *req.CPF)
				}
				server.RespondError(c, apperr.Validation(message))
			default:
				server.RespondError(c, apperr.Internal(err))
			}
			return
		}
		server.RespondOK(c, "", produtor)
	}
}

func deleteProdutor(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := idParam(c)
		if err != nil {
			server.RespondError(c, err)
			return
		}
		if err := d.Produtores.Delete(c.Request.Context(), id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				server.RespondError(c, apperr.NotFound("produtor rural"))
				return
			}
			server.RespondError(c, apperr.Internal(err))
			return
		}
		server.RespondNoContent(c)
	}
}

package api

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/isquicha/desafio-softfocus/internal/apperr"
	"github.com/isquicha/desafio-softfocus/internal/auth"
	"github.com/isquicha/desafio-softfocus/internal/server"
)

// registerUserRoutes mounts registration and token issuance. Both are
// public: registration is how an account comes to exist, and token
// issuance is the login itself.
func registerUserRoutes(public, _ *gin.RouterGroup, d *Deps) {
	public.POST("/users", createUser(d))
	public.POST("/user/token", issueToken(d))
}

type userRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type userResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

func createUser(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req userRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			server.RespondError(c, apperr.Validation("A JSON body must be provided"))
			return
		}
		if req.Username == "" {
			server.RespondError(c, apperr.MissingField("username"))
			return
		}
		if req.Password == "" {
			server.RespondError(c, apperr.MissingField("password"))
			return
		}

		user, err := d.Auth.Register(c.Request.Context(), req.Username, req.Password, req.Name)
		if err != nil {
			if errors.Is(err, auth.ErrAlreadyRegistered) {
				server.RespondError(c, apperr.AlreadyRegistered(req.Username))
				return
			}
			if errors.Is(err, auth.ErrPasswordTooLong) {
				server.RespondError(c, apperr.Validation("Field 'password' must be at most 72 bytes"))
				return
			}
			d.Log.WithError(err).Error("User registration failed")
			server.RespondError(c, apperr.Internal(err))
			return
		}

		server.RespondCreated(c, userResponse{
			ID:       user.ID,
			Username: user.Username,
			Name:     user.Name,
		})
	}
}

func issueToken(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req userRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			server.RespondError(c, apperr.Validation("A JSON body must be provided"))
			return
		}
		if req.Username == "" {
			server.RespondError(c, apperr.MissingField("username"))
			return
		}
		if req.Password == "" {
			server.RespondError(c, apperr.MissingField("password"))
			return
		}

		tokenString, err := d.Auth.Login(c.Request.Context(), req.Username, req.Password)
		if err != nil {
			// Unknown user and wrong password collapse into one response
			// here so nothing external distinguishes them. The cause is
			// logged for diagnostics only.
			if errors.Is(err, auth.ErrUnknownUser) || errors.Is(err, auth.ErrWrongPassword) {
				d.Log.Debug("Login rejected", map[string]any{"username": req.Username})
				server.RespondError(c, apperr.InvalidCredentials())
				return
			}
			d.Log.WithError(err).Error("Login failed")
			server.RespondError(c, apperr.Internal(err))
			return
		}

		server.RespondOK(c, "Token successful generated", gin.H{"access_token": tokenString})
	}
}

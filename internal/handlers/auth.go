package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"civicpulse/portal/internal/models"
	"civicpulse/portal/internal/service"
)

type registerRequest struct {
	Username     string `form:"username" json:"username"`
	District     string `form:"district" json:"district"`
	Password     string `form:"password" json:"password"`
	Confirmation string `form:"confirmation" json:"confirmation"`
}

type loginRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

func (h HandlerSet) RegisterForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"form":      "register",
		"fields":    []string{"username", "district", "password", "confirmation"},
		"districts": models.Districts,
	})
}

func (h HandlerSet) SubmitRegistration(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBind(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	res, err := h.authService.Register(c.Request.Context(), service.RegisterInput{
		Username:          req.Username,
		District:          req.District,
		Password:          req.Password,
		Confirmation:      req.Confirmation,
		PreviousSessionID: currentSessionID(c),
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	if err := h.issueSessionCookie(c, res.Session); err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, dashboardPath)
}

// LoginForm also ends whatever session the caller had.
func (h HandlerSet) LoginForm(c *gin.Context) {
	if id := currentSessionID(c); id != "" {
		if err := h.authService.Logout(c.Request.Context(), id); err != nil {
			h.fail(c, err)
			return
		}
		h.clearSessionCookie(c)
	}
	c.JSON(http.StatusOK, gin.H{
		"form":   "login",
		"fields": []string{"username", "password"},
	})
}

func (h HandlerSet) SubmitLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	previous := currentSessionID(c)
	res, err := h.authService.Login(c.Request.Context(), service.LoginInput{
		Username:          req.Username,
		Password:          req.Password,
		PreviousSessionID: previous,
	})
	if err != nil {
		if previous != "" {
			h.clearSessionCookie(c)
		}
		h.fail(c, err)
		return
	}

	if err := h.issueSessionCookie(c, res.Session); err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, dashboardPath)
}

func (h HandlerSet) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), currentSessionID(c)); err != nil {
		h.fail(c, err)
		return
	}
	h.clearSessionCookie(c)
	c.Redirect(http.StatusSeeOther, indexPath)
}

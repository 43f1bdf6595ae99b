package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"civicpulse/portal/internal/middleware"
)

func (h HandlerSet) Index(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	body := gin.H{
		"name":          "CivicPulse",
		"authenticated": sess != nil,
	}
	if sess != nil {
		body["role"] = sess.Role
		body["district"] = sess.District
	}
	c.JSON(http.StatusOK, body)
}

func (h HandlerSet) About(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"page":    "about",
		"summary": "CivicPulse lets residents report local problems to the officials of their district.",
	})
}

func (h HandlerSet) PrivacyPolicy(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"page":    "privacy-policy",
		"summary": "We store your username, district, a hash of your password and the incidents you report.",
	})
}

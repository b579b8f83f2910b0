package handlers

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// IndexPage liefert je nach Sitzung das Dashboard oder die Login-Seite
func IndexPage(c *gin.Context) {
	sess := sessions.Default(c)
	if uid, ok := sess.Get("user_id").(uint); ok && uid > 0 {
		c.File("./web/static/dashboard.html")
		return
	}
	c.File("./web/static/login.html")
}

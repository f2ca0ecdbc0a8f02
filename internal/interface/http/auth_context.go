package http

import (
	"github.com/gin-gonic/gin"

	"github.com/yanqian/gearbox/internal/domain/auth"
)

const currentUserKey = "current_user"

func setCurrentUser(c *gin.Context, user auth.User) {
	c.Set(currentUserKey, user)
}

func currentUser(c *gin.Context) (auth.User, bool) {
	value, ok := c.Get(currentUserKey)
	if !ok {
		return auth.User{}, false
	}
	user, ok := value.(auth.User)
	return user, ok
}

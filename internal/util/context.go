package util

import (
	"github.com/gin-gonic/gin"

	"github.com/pmo-lab/projecthub/dao/model"
	"github.com/pmo-lab/projecthub/pkg/authz"
)

const (
	UserIDKey   = "x-user-id"
	UsernameKey = "x-user-name"
	RoleKey     = "x-user-role"
)

func SetJWTContext(c *gin.Context, msg JWTMessage) {
	c.Set(UserIDKey, msg.UserID)
	c.Set(UsernameKey, msg.Username)
	c.Set(RoleKey, msg.Role)
}

func GetToken(ctx *gin.Context) JWTMessage {
	var msg JWTMessage
	msg.UserID = ctx.GetUint(UserIDKey)
	msg.Username = ctx.GetString(UsernameKey)

	role, _ := ctx.Get(RoleKey)
	msg.Role, _ = role.(model.Role)
	return msg
}

// GetIdentity builds the authz identity for the current request.
func GetIdentity(ctx *gin.Context) authz.Identity {
	msg := GetToken(ctx)
	return authz.Identity{UserID: msg.UserID, Role: msg.Role}
}

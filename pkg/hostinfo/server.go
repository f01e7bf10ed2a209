package hostinfo

import (
	"github.com/gin-gonic/gin"
	"net/http"
	"scadatag/pkg/apis/response"
)

func InstallHandler(group *gin.RouterGroup) {
	group.GET("/host/serial-ports", getSerialPorts())
	group.GET("/host/interfaces", getInterfaces())
}

func getSerialPorts() gin.HandlerFunc {
	return func(c *gin.Context) {
		ports, err := SerialPorts()
		if err != nil {
			c.JSON(http.StatusInternalServerError, response.NewMultiError(response.ErrInternal(err)))
			return
		}
		c.JSON(http.StatusOK, ports)
	}
}

func getInterfaces() gin.HandlerFunc {
	return func(c *gin.Context) {
		ifaces, err := Interfaces()
		if err != nil {
			c.JSON(http.StatusInternalServerError, response.NewMultiError(response.ErrInternal(err)))
			return
		}
		c.JSON(http.StatusOK, ifaces)
	}
}

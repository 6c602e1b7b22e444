package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mayakatsir/web-development-assignments/internal/application"
	"github.com/mayakatsir/web-development-assignments/pkg/response"
)

// crudStatus maps an application error kind to the status used by the
// resource endpoints.
func crudStatus(kind application.Kind) int {
	switch kind {
	case application.KindValidation, application.KindConflict:
		return http.StatusBadRequest
	case application.KindNotFound:
		return http.StatusNotFound
	case application.KindAuthentication:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func writeCRUDError(c *gin.Context, err error) {
	response.Error(c, crudStatus(application.KindOf(err)), application.MessageOf(err, application.MsgInternal), nil)
}

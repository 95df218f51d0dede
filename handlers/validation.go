package handlers

import (
	"errors"
	"net/http"

	"pilateshub/services/schedule"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func init() {
	if err := registerValidators(); err != nil {
		panic(err)
	}
}

// registerValidators adds the custom tags used in request binding structs.
func registerValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding does not use go-playground/validator")
	}
	return v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		_, err := schedule.ParseClock(fl.Field().String())
		return err == nil
	})
}

// badInput reports a malformed request body. Failed binding tags are listed per field.
func badInput(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		fields[fe.Field()] = fe.Tag()
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid input", "fields": fields})
}

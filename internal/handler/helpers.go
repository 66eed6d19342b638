package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/Alexagz79190/promo/internal/apierror"
	"github.com/Alexagz79190/promo/internal/model"
)

var validate = validator.New()

func init() {
	// "datepromo" checks the dd/mm/yyyy hh:mm:ss format the promotion
	// window is serialized with, so the client gets a field-level error
	// instead of a generic parse failure.
	_ = validate.RegisterValidation("datepromo", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(model.FormatDate, fl.Field().String())
		return err == nil
	})
}

// bindAndValidate binds the form fields and runs the validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBind(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Formulaire invalide : "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}
